package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/arpitnexuses/forvismazar-questionnaire/internal/events"
	"github.com/arpitnexuses/forvismazar-questionnaire/internal/models"
	"github.com/arpitnexuses/forvismazar-questionnaire/internal/repositories"
	"github.com/arpitnexuses/forvismazar-questionnaire/internal/scoring"
	"github.com/arpitnexuses/forvismazar-questionnaire/internal/validator"
)

const submissionEventsTopic = "questionnaire.submissions"

type submissionService struct {
	repo           repositories.Repository
	db             *gorm.DB
	logger         *slog.Logger
	validator      *validator.Validator
	eventPublisher events.EventPublisher
}

func NewSubmissionService(repo repositories.Repository, db *gorm.DB, logger *slog.Logger, validator *validator.Validator, eventPublisher events.EventPublisher) SubmissionService {
	return &submissionService{
		repo:           repo,
		db:             db,
		logger:         logger,
		validator:      validator,
		eventPublisher: eventPublisher,
	}
}

// Create scores and stores a completed assessment. Scores are computed once
// here and denormalized onto the submission; report rendering recomputes
// them against the live questionnaire, so drift shows up as warnings there
// rather than as stale documents.
func (s *submissionService) Create(ctx context.Context, req *CreateSubmissionRequest, submittedBy string) (*SubmissionResponse, error) {
	if errs := s.validator.ValidateSubmissionCreate(req); len(errs) > 0 {
		return nil, errs
	}

	if _, err := s.repo.Client().GetByID(ctx, nil, req.ClientID); err != nil {
		if repositories.IsNotFound(err) {
			return nil, ErrClientNotFound
		}
		return nil, fmt.Errorf("failed to resolve client: %w", err)
	}

	questionnaire, err := s.repo.Questionnaire().GetByID(ctx, nil, req.QuestionnaireID)
	if err != nil {
		if repositories.IsNotFound(err) {
			return nil, ErrQuestionnaireNotFound
		}
		return nil, fmt.Errorf("failed to resolve questionnaire: %w", err)
	}
	if !questionnaire.IsActive {
		return nil, ErrQuestionnaireInactive
	}

	answers := make([]models.Answer, 0, len(req.Answers))
	for _, a := range req.Answers {
		answers = append(answers, models.Answer{
			QuestionID:          a.QuestionID,
			SelectedOptionIndex: a.SelectedOptionIndex,
			Points:              a.Points,
			EvidenceFiles:       a.EvidenceFiles,
			Comments:            a.Comments,
			Recommendation:      a.Recommendation,
			AgreedActionPlan:    a.AgreedActionPlan,
			ActionDate:          a.ActionDate,
		})
	}

	result := scoring.ComputeScores(questionnaire, answers)
	for _, warning := range result.Warnings {
		s.logger.Warn("Scoring warning during intake",
			"questionnaire_id", req.QuestionnaireID,
			"question_id", warning.QuestionID,
			"code", warning.Code,
			"message", warning.Message)
	}

	submittedAt := time.Now().UTC()
	if req.SubmittedAt != nil {
		submittedAt = *req.SubmittedAt
	}

	submission := &models.Submission{
		ID:              uuid.New().String(),
		ClientID:        req.ClientID,
		QuestionnaireID: req.QuestionnaireID,
		SubmittedBy:     submittedBy,
		Answers:         datatypes.NewJSONType(answers),
		SectionScores:   datatypes.NewJSONType(result.SectionScores),
		TotalScore:      result.TotalScore,
		MaxTotalScore:   result.MaxTotalScore,
		SubmittedAt:     submittedAt,
	}

	if err := s.repo.Submission().Create(ctx, nil, submission); err != nil {
		return nil, fmt.Errorf("failed to create submission: %w", err)
	}

	s.logger.Info("Submission scored and stored",
		"submission_id", submission.ID,
		"client_id", submission.ClientID,
		"total_score", submission.TotalScore,
		"max_total_score", submission.MaxTotalScore,
		"warnings", len(result.Warnings))

	s.publishScored(ctx, submission, result)

	return s.toResponse(submission, result.Warnings), nil
}

func (s *submissionService) publishScored(ctx context.Context, submission *models.Submission, result scoring.Result) {
	if s.eventPublisher == nil {
		return
	}

	err := s.eventPublisher.Publish(ctx, submissionEventsTopic, events.EventSubmissionScored, map[string]interface{}{
		"submission_id":    submission.ID,
		"client_id":        submission.ClientID,
		"questionnaire_id": submission.QuestionnaireID,
		"total_score":      submission.TotalScore,
		"max_total_score":  submission.MaxTotalScore,
		"warning_count":    len(result.Warnings),
	})
	if err != nil {
		// Event delivery is best effort; intake already succeeded
		s.logger.Error("Failed to publish submission scored event",
			"submission_id", submission.ID,
			"error", err)
	}
}

func (s *submissionService) GetByID(ctx context.Context, id string) (*SubmissionResponse, error) {
	submission, err := s.repo.Submission().GetByID(ctx, nil, id)
	if err != nil {
		if repositories.IsNotFound(err) {
			return nil, ErrSubmissionNotFound
		}
		return nil, fmt.Errorf("failed to get submission: %w", err)
	}

	return s.toResponse(submission, nil), nil
}

func (s *submissionService) GetByClient(ctx context.Context, clientID string) ([]*SubmissionResponse, error) {
	submissions, err := s.repo.Submission().GetByClient(ctx, nil, clientID)
	if err != nil {
		return nil, fmt.Errorf("failed to get submissions for client: %w", err)
	}

	responses := make([]*SubmissionResponse, 0, len(submissions))
	for i := range submissions {
		responses = append(responses, s.toResponse(&submissions[i], nil))
	}
	return responses, nil
}

func (s *submissionService) List(ctx context.Context, filters repositories.SubmissionFilters) (*SubmissionListResponse, error) {
	submissions, total, err := s.repo.Submission().List(ctx, nil, filters)
	if err != nil {
		return nil, fmt.Errorf("failed to list submissions: %w", err)
	}

	responses := make([]*SubmissionResponse, 0, len(submissions))
	for i := range submissions {
		responses = append(responses, s.toResponse(&submissions[i], nil))
	}

	page := 1
	if filters.Limit > 0 {
		page = filters.Offset/filters.Limit + 1
	}

	return &SubmissionListResponse{
		Submissions: responses,
		Total:       total,
		Page:        page,
		Size:        len(responses),
	}, nil
}

func (s *submissionService) Delete(ctx context.Context, id string) error {
	if err := s.repo.Submission().Delete(ctx, nil, id); err != nil {
		if repositories.IsNotFound(err) {
			return ErrSubmissionNotFound
		}
		return fmt.Errorf("failed to delete submission: %w", err)
	}

	s.logger.Info("Submission deleted", "submission_id", id)
	return nil
}

func (s *submissionService) toResponse(submission *models.Submission, warnings []scoring.Warning) *SubmissionResponse {
	return &SubmissionResponse{
		Submission: submission,
		Percentage: scoring.FormatPercentage(submission.TotalScore, submission.MaxTotalScore),
		Warnings:   warnings,
	}
}
