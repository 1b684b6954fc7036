package models

import (
	"time"

	"gorm.io/datatypes"
)

// FileRef is opaque upload metadata attached to an answer. The engine only
// displays it; file content is never opened or validated here.
type FileRef struct {
	OriginalName string `json:"original_name"`
	Size         int64  `json:"size"`
	MimeType     string `json:"mime_type"`
	URL          string `json:"url"`
}

// Answer records the selected option for one question plus the free-form
// enrichment fields captured during the assessment. Points is denormalized
// from the selected option at submission time; the scoring engine treats it
// as a cache and reconciles it against the questionnaire.
type Answer struct {
	QuestionID          string     `json:"question_id" validate:"required"`
	SelectedOptionIndex int        `json:"selected_option_index" validate:"min=0"`
	Points              int        `json:"points" validate:"min=0"`
	EvidenceFiles       []FileRef  `json:"evidence_files,omitempty"`
	Comments            string     `json:"comments,omitempty"`
	Recommendation      string     `json:"recommendation,omitempty"`
	AgreedActionPlan    string     `json:"agreed_action_plan,omitempty"`
	ActionDate          *time.Time `json:"action_date,omitempty"`
}

// SectionScore is the achieved/maximum point pair for one section.
type SectionScore struct {
	SectionID string `json:"section_id"`
	Score     int    `json:"score"`
	MaxScore  int    `json:"max_score"`
}

// Submission is created once on assessment completion and is immutable
// thereafter; a resubmission is a new Submission.
type Submission struct {
	ID              string                             `json:"id" gorm:"primaryKey;size:36"`
	ClientID        string                             `json:"client_id" gorm:"not null;index;size:36" validate:"required"`
	QuestionnaireID string                             `json:"questionnaire_id" gorm:"not null;index;size:36" validate:"required"`
	SubmittedBy     string                             `json:"submitted_by" gorm:"index;size:255"`
	Answers         datatypes.JSONType[[]Answer]       `json:"answers" gorm:"type:jsonb"`
	SectionScores   datatypes.JSONType[[]SectionScore] `json:"section_scores" gorm:"type:jsonb"`
	TotalScore      int                                `json:"total_score"`
	MaxTotalScore   int                                `json:"max_total_score"`
	SubmittedAt     time.Time                          `json:"submitted_at"`
	CreatedAt       time.Time                          `json:"created_at"`
}

// AnswerList returns the decoded answers in submission order.
func (s *Submission) AnswerList() []Answer {
	if s == nil {
		return nil
	}
	return s.Answers.Data()
}

// AnswerFor returns the answer for a question id, if one was recorded.
func (s *Submission) AnswerFor(questionID string) (*Answer, bool) {
	if s == nil {
		return nil, false
	}
	answers := s.Answers.Data()
	for i := range answers {
		if answers[i].QuestionID == questionID {
			return &answers[i], true
		}
	}
	return nil, false
}

// Client is the organisation an assessment is run against. Only the fields
// the report pipeline needs are modelled here.
type Client struct {
	ID        string    `json:"id" gorm:"primaryKey;size:36"`
	Name      string    `json:"name" gorm:"not null;size:500" validate:"required"`
	Industry  string    `json:"industry" gorm:"size:255"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
