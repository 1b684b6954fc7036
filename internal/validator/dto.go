package validator

import (
	"time"

	"github.com/arpitnexuses/forvismazar-questionnaire/internal/models"
)

// QuestionnaireCreateRequest is the administrative authoring payload.
type QuestionnaireCreateRequest struct {
	Title       string           `json:"title" validate:"required,max=500"`
	Description string           `json:"description" validate:"omitempty,max=5000"`
	Sections    []models.Section `json:"sections" validate:"required,min=1,dive"`
	IsActive    bool             `json:"is_active"`
}

// QuestionnaireUpdateRequest mutates an authored questionnaire in place.
// Submissions keep referencing it live; they are never copied.
type QuestionnaireUpdateRequest struct {
	Title       *string           `json:"title" validate:"omitempty,max=500"`
	Description *string           `json:"description" validate:"omitempty,max=5000"`
	Sections    *[]models.Section `json:"sections" validate:"omitempty,min=1,dive"`
	IsActive    *bool             `json:"is_active"`
}

// AnswerRequest is one answered question in an intake payload.
type AnswerRequest struct {
	QuestionID          string           `json:"question_id" validate:"required"`
	SelectedOptionIndex int              `json:"selected_option_index" validate:"min=0"`
	Points              int              `json:"points" validate:"min=0"`
	EvidenceFiles       []models.FileRef `json:"evidence_files" validate:"omitempty,dive"`
	Comments            string           `json:"comments" validate:"omitempty,max=5000"`
	Recommendation      string           `json:"recommendation" validate:"omitempty,max=5000"`
	AgreedActionPlan    string           `json:"agreed_action_plan" validate:"omitempty,max=5000"`
	ActionDate          *time.Time       `json:"action_date"`
}

// SubmissionCreateRequest completes one assessment. The submission it
// produces is immutable; corrections arrive as a new submission.
type SubmissionCreateRequest struct {
	ClientID        string          `json:"client_id" validate:"required"`
	QuestionnaireID string          `json:"questionnaire_id" validate:"required"`
	Answers         []AnswerRequest `json:"answers" validate:"required,dive"`
	SubmittedAt     *time.Time      `json:"submitted_at"`
}
