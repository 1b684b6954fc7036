package repositories

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/arpitnexuses/forvismazar-questionnaire/internal/models"
)

// QuestionnaireRepository persists authored questionnaires. The sections
// tree travels as a JSONB document, so reads always return the full
// snapshot the scoring engine walks.
type QuestionnaireRepository interface {
	Create(ctx context.Context, tx *gorm.DB, questionnaire *models.Questionnaire) error
	GetByID(ctx context.Context, tx *gorm.DB, id string) (*models.Questionnaire, error)
	Update(ctx context.Context, tx *gorm.DB, questionnaire *models.Questionnaire) error
	Delete(ctx context.Context, tx *gorm.DB, id string) error
	List(ctx context.Context, tx *gorm.DB, filters QuestionnaireFilters) ([]models.Questionnaire, int64, error)
	Exists(ctx context.Context, tx *gorm.DB, id string) (bool, error)
}

// SubmissionRepository persists completed assessments. Submissions are
// immutable after creation; there is no Update.
type SubmissionRepository interface {
	Create(ctx context.Context, tx *gorm.DB, submission *models.Submission) error
	GetByID(ctx context.Context, tx *gorm.DB, id string) (*models.Submission, error)
	Delete(ctx context.Context, tx *gorm.DB, id string) error
	List(ctx context.Context, tx *gorm.DB, filters SubmissionFilters) ([]models.Submission, int64, error)
	GetByClient(ctx context.Context, tx *gorm.DB, clientID string) ([]models.Submission, error)
}

// ClientRepository persists the client directory
type ClientRepository interface {
	Create(ctx context.Context, tx *gorm.DB, client *models.Client) error
	GetByID(ctx context.Context, tx *gorm.DB, id string) (*models.Client, error)
	Update(ctx context.Context, tx *gorm.DB, client *models.Client) error
	List(ctx context.Context, tx *gorm.DB, filters ClientFilters) ([]models.Client, int64, error)
}

// ===== FILTER TYPES =====

type QuestionnaireFilters struct {
	Title    *string `json:"title"`
	IsActive *bool   `json:"is_active"`

	// Pagination
	Limit  int `json:"limit" validate:"min=1,max=100"`
	Offset int `json:"offset" validate:"min=0"`

	// Sorting
	SortBy    string `json:"sort_by" validate:"omitempty,oneof=title created_at updated_at"`
	SortOrder string `json:"sort_order" validate:"omitempty,oneof=asc desc"`
}

type SubmissionFilters struct {
	ClientID        *string    `json:"client_id"`
	QuestionnaireID *string    `json:"questionnaire_id"`
	SubmittedAfter  *time.Time `json:"submitted_after"`
	SubmittedBefore *time.Time `json:"submitted_before"`

	// Pagination
	Limit  int `json:"limit" validate:"min=1,max=100"`
	Offset int `json:"offset" validate:"min=0"`

	// Sorting
	SortBy    string `json:"sort_by" validate:"omitempty,oneof=submitted_at created_at total_score"`
	SortOrder string `json:"sort_order" validate:"omitempty,oneof=asc desc"`
}

type ClientFilters struct {
	Name     *string `json:"name"`
	Industry *string `json:"industry"`

	// Pagination
	Limit  int `json:"limit" validate:"min=1,max=100"`
	Offset int `json:"offset" validate:"min=0"`
}
