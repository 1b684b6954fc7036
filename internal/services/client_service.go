package services

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/arpitnexuses/forvismazar-questionnaire/internal/models"
	"github.com/arpitnexuses/forvismazar-questionnaire/internal/repositories"
	"github.com/arpitnexuses/forvismazar-questionnaire/internal/validator"
)

type clientService struct {
	repo      repositories.Repository
	db        *gorm.DB
	logger    *slog.Logger
	validator *validator.Validator
}

func NewClientService(repo repositories.Repository, db *gorm.DB, logger *slog.Logger, validator *validator.Validator) ClientService {
	return &clientService{
		repo:      repo,
		db:        db,
		logger:    logger,
		validator: validator,
	}
}

func (s *clientService) Create(ctx context.Context, req *CreateClientRequest) (*models.Client, error) {
	if errs := s.validator.Validate(req); len(errs) > 0 {
		return nil, errs
	}

	client := &models.Client{
		ID:       uuid.New().String(),
		Name:     req.Name,
		Industry: req.Industry,
	}

	if err := s.repo.Client().Create(ctx, nil, client); err != nil {
		return nil, fmt.Errorf("failed to create client: %w", err)
	}

	s.logger.Info("Client created", "client_id", client.ID, "name", client.Name)
	return client, nil
}

func (s *clientService) GetByID(ctx context.Context, id string) (*models.Client, error) {
	client, err := s.repo.Client().GetByID(ctx, nil, id)
	if err != nil {
		if repositories.IsNotFound(err) {
			return nil, ErrClientNotFound
		}
		return nil, fmt.Errorf("failed to get client: %w", err)
	}
	return client, nil
}

func (s *clientService) List(ctx context.Context, filters repositories.ClientFilters) ([]models.Client, int64, error) {
	clients, total, err := s.repo.Client().List(ctx, nil, filters)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list clients: %w", err)
	}
	return clients, total, nil
}
