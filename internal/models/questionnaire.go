package models

import (
	"time"

	"gorm.io/datatypes"
)

// TextDirection controls how a text block is shaped by the report encoders.
// Direction is metadata on the block, never embedded in the content string.
type TextDirection string

const (
	DirectionLTR TextDirection = "ltr"
	DirectionRTL TextDirection = "rtl"
)

// Option is one selectable answer choice for a question.
type Option struct {
	Text   string `json:"text" validate:"required"`
	Points int    `json:"points" validate:"min=0"`
}

// Question holds the prompt, the evidence the assessor expects to see, and
// the weighted options. Points need not be unique across options; the maximum
// option value defines the question's contribution to the section maximum.
type Question struct {
	ID               string   `json:"id" validate:"required"`
	Text             string   `json:"text" validate:"required"`
	ExpectedEvidence string   `json:"expected_evidence"`
	Options          []Option `json:"options" validate:"min=1,dive"`
}

// MaxPoints returns the maximum point value across the question's options.
func (q Question) MaxPoints() int {
	max := 0
	for _, opt := range q.Options {
		if opt.Points > max {
			max = opt.Points
		}
	}
	return max
}

// Section is an ordered group of questions within a questionnaire.
type Section struct {
	ID        string     `json:"id" validate:"required"`
	Title     string     `json:"title" validate:"required"`
	Questions []Question `json:"questions" validate:"dive"`
}

// Questionnaire is the static nested definition authored by administrators.
// Sections are stored as a JSONB document; submissions reference the live
// questionnaire and resolve question text through it at render time.
type Questionnaire struct {
	ID          string                           `json:"id" gorm:"primaryKey;size:36"`
	Title       string                           `json:"title" gorm:"not null;size:500" validate:"required"`
	Description string                           `json:"description" gorm:"type:text"`
	Sections    datatypes.JSONType[[]Section]    `json:"sections" gorm:"type:jsonb"`
	IsActive    bool                             `json:"is_active" gorm:"default:true;index"`
	CreatedBy   string                           `json:"created_by" gorm:"index;size:255"`
	CreatedAt   time.Time                        `json:"created_at"`
	UpdatedAt   time.Time                        `json:"updated_at"`
}

// SectionList returns the decoded section tree in source order.
func (q *Questionnaire) SectionList() []Section {
	if q == nil {
		return nil
	}
	return q.Sections.Data()
}

// FindQuestion resolves a question id to its section and question definition.
func (q *Questionnaire) FindQuestion(questionID string) (*Section, *Question, bool) {
	if q == nil {
		return nil, nil, false
	}
	sections := q.Sections.Data()
	for si := range sections {
		for qi := range sections[si].Questions {
			if sections[si].Questions[qi].ID == questionID {
				return &sections[si], &sections[si].Questions[qi], true
			}
		}
	}
	return nil, nil, false
}
