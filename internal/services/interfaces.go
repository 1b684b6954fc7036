package services

import (
	"context"

	"github.com/arpitnexuses/forvismazar-questionnaire/internal/models"
	"github.com/arpitnexuses/forvismazar-questionnaire/internal/report"
	"github.com/arpitnexuses/forvismazar-questionnaire/internal/repositories"
	"github.com/arpitnexuses/forvismazar-questionnaire/internal/scoring"
	"github.com/arpitnexuses/forvismazar-questionnaire/internal/validator"
)

// ===== REQUEST/RESPONSE DTOs =====

// Use business validator types
type CreateQuestionnaireRequest = validator.QuestionnaireCreateRequest
type UpdateQuestionnaireRequest = validator.QuestionnaireUpdateRequest
type CreateSubmissionRequest = validator.SubmissionCreateRequest

type QuestionnaireResponse struct {
	*models.Questionnaire
	SectionCount  int `json:"section_count"`
	QuestionCount int `json:"question_count"`
	MaxTotalScore int `json:"max_total_score"`
}

type QuestionnaireListResponse struct {
	Questionnaires []*QuestionnaireResponse `json:"questionnaires"`
	Total          int64                    `json:"total"`
	Page           int                      `json:"page"`
	Size           int                      `json:"size"`
}

// SubmissionResponse carries the persisted submission plus the scoring
// output. Warnings surface data drift to auditors; they never block intake.
type SubmissionResponse struct {
	*models.Submission
	Percentage string            `json:"percentage"`
	Warnings   []scoring.Warning `json:"warnings,omitempty"`
}

type SubmissionListResponse struct {
	Submissions []*SubmissionResponse `json:"submissions"`
	Total       int64                 `json:"total"`
	Page        int                   `json:"page"`
	Size        int                   `json:"size"`
}

type CreateClientRequest struct {
	Name     string `json:"name" validate:"required,max=500"`
	Industry string `json:"industry" validate:"omitempty,max=255"`
}

// ===== EXPORT DTOs =====

// ExportFormat selects the report encoder
type ExportFormat string

const (
	FormatPDF  ExportFormat = "pdf"
	FormatDOCX ExportFormat = "docx"
	FormatXLSX ExportFormat = "xlsx"
)

// ExportResult is the outcome of one format in a multi-format export.
// Formats fail independently; one broken encoder never blocks the rest.
type ExportResult struct {
	Format   ExportFormat     `json:"format"`
	Artifact *report.Artifact `json:"-"`
	Err      error            `json:"-"`
}

// ===== SERVICES =====

type QuestionnaireService interface {
	Create(ctx context.Context, req *CreateQuestionnaireRequest, createdBy string) (*QuestionnaireResponse, error)
	GetByID(ctx context.Context, id string) (*QuestionnaireResponse, error)
	Update(ctx context.Context, id string, req *UpdateQuestionnaireRequest) (*QuestionnaireResponse, error)
	Delete(ctx context.Context, id string) error
	List(ctx context.Context, filters repositories.QuestionnaireFilters) (*QuestionnaireListResponse, error)
}

type SubmissionService interface {
	Create(ctx context.Context, req *CreateSubmissionRequest, submittedBy string) (*SubmissionResponse, error)
	GetByID(ctx context.Context, id string) (*SubmissionResponse, error)
	GetByClient(ctx context.Context, clientID string) ([]*SubmissionResponse, error)
	List(ctx context.Context, filters repositories.SubmissionFilters) (*SubmissionListResponse, error)
	Delete(ctx context.Context, id string) error
}

type ClientService interface {
	Create(ctx context.Context, req *CreateClientRequest) (*models.Client, error)
	GetByID(ctx context.Context, id string) (*models.Client, error)
	List(ctx context.Context, filters repositories.ClientFilters) ([]models.Client, int64, error)
}

// ReportService renders a stored submission into downloadable documents
type ReportService interface {
	// Generate renders one format for a submission
	Generate(ctx context.Context, submissionID string, format ExportFormat) (*report.Artifact, error)

	// GenerateAll renders every requested format, collecting per-format
	// outcomes instead of aborting on the first failure
	GenerateAll(ctx context.Context, submissionID string, formats []ExportFormat) []ExportResult
}

// ===== SERVICE MANAGER =====

type ServiceManager interface {
	// Core service getters
	Questionnaire() QuestionnaireService
	Submission() SubmissionService
	Client() ClientService
	Report() ReportService

	// Health and lifecycle
	Initialize(ctx context.Context) error
	HealthCheck(ctx context.Context) error
	Shutdown(ctx context.Context) error
}
