package services

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/arpitnexuses/forvismazar-questionnaire/internal/models"
	"github.com/arpitnexuses/forvismazar-questionnaire/internal/repositories"
	"github.com/arpitnexuses/forvismazar-questionnaire/internal/validator"
)

type questionnaireService struct {
	repo      repositories.Repository
	db        *gorm.DB
	logger    *slog.Logger
	validator *validator.Validator
}

func NewQuestionnaireService(repo repositories.Repository, db *gorm.DB, logger *slog.Logger, validator *validator.Validator) QuestionnaireService {
	return &questionnaireService{
		repo:      repo,
		db:        db,
		logger:    logger,
		validator: validator,
	}
}

func (s *questionnaireService) Create(ctx context.Context, req *CreateQuestionnaireRequest, createdBy string) (*QuestionnaireResponse, error) {
	if errs := s.validator.Validate(req); len(errs) > 0 {
		return nil, errs
	}

	questionnaire := &models.Questionnaire{
		ID:          uuid.New().String(),
		Title:       req.Title,
		Description: req.Description,
		Sections:    datatypes.NewJSONType(req.Sections),
		IsActive:    req.IsActive,
		CreatedBy:   createdBy,
	}

	if errs := s.validator.ValidateQuestionnaire(questionnaire); len(errs) > 0 {
		return nil, errs
	}

	if err := s.repo.Questionnaire().Create(ctx, nil, questionnaire); err != nil {
		return nil, fmt.Errorf("failed to create questionnaire: %w", err)
	}

	s.logger.Info("Questionnaire created",
		"questionnaire_id", questionnaire.ID,
		"title", questionnaire.Title,
		"created_by", createdBy)

	return s.toResponse(questionnaire), nil
}

func (s *questionnaireService) GetByID(ctx context.Context, id string) (*QuestionnaireResponse, error) {
	questionnaire, err := s.repo.Questionnaire().GetByID(ctx, nil, id)
	if err != nil {
		if repositories.IsNotFound(err) {
			return nil, ErrQuestionnaireNotFound
		}
		return nil, fmt.Errorf("failed to get questionnaire: %w", err)
	}

	return s.toResponse(questionnaire), nil
}

// Update mutates the questionnaire in place. Existing submissions keep
// referencing it live, which is why scores are recomputed at render time.
func (s *questionnaireService) Update(ctx context.Context, id string, req *UpdateQuestionnaireRequest) (*QuestionnaireResponse, error) {
	if errs := s.validator.Validate(req); len(errs) > 0 {
		return nil, errs
	}

	questionnaire, err := s.repo.Questionnaire().GetByID(ctx, nil, id)
	if err != nil {
		if repositories.IsNotFound(err) {
			return nil, ErrQuestionnaireNotFound
		}
		return nil, fmt.Errorf("failed to get questionnaire: %w", err)
	}

	if req.Title != nil {
		questionnaire.Title = *req.Title
	}
	if req.Description != nil {
		questionnaire.Description = *req.Description
	}
	if req.Sections != nil {
		questionnaire.Sections = datatypes.NewJSONType(*req.Sections)
	}
	if req.IsActive != nil {
		questionnaire.IsActive = *req.IsActive
	}

	if errs := s.validator.ValidateQuestionnaire(questionnaire); len(errs) > 0 {
		return nil, errs
	}

	if err := s.repo.Questionnaire().Update(ctx, nil, questionnaire); err != nil {
		return nil, fmt.Errorf("failed to update questionnaire: %w", err)
	}

	s.logger.Info("Questionnaire updated", "questionnaire_id", id)

	return s.toResponse(questionnaire), nil
}

func (s *questionnaireService) Delete(ctx context.Context, id string) error {
	if err := s.repo.Questionnaire().Delete(ctx, nil, id); err != nil {
		if repositories.IsNotFound(err) {
			return ErrQuestionnaireNotFound
		}
		return fmt.Errorf("failed to delete questionnaire: %w", err)
	}

	s.logger.Info("Questionnaire deleted", "questionnaire_id", id)
	return nil
}

func (s *questionnaireService) List(ctx context.Context, filters repositories.QuestionnaireFilters) (*QuestionnaireListResponse, error) {
	questionnaires, total, err := s.repo.Questionnaire().List(ctx, nil, filters)
	if err != nil {
		return nil, fmt.Errorf("failed to list questionnaires: %w", err)
	}

	responses := make([]*QuestionnaireResponse, 0, len(questionnaires))
	for i := range questionnaires {
		responses = append(responses, s.toResponse(&questionnaires[i]))
	}

	page := 1
	if filters.Limit > 0 {
		page = filters.Offset/filters.Limit + 1
	}

	return &QuestionnaireListResponse{
		Questionnaires: responses,
		Total:          total,
		Page:           page,
		Size:           len(responses),
	}, nil
}

func (s *questionnaireService) toResponse(q *models.Questionnaire) *QuestionnaireResponse {
	resp := &QuestionnaireResponse{Questionnaire: q}
	for _, section := range q.SectionList() {
		resp.SectionCount++
		for _, question := range section.Questions {
			resp.QuestionCount++
			resp.MaxTotalScore += question.MaxPoints()
		}
	}
	return resp
}
