package postgres

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/arpitnexuses/forvismazar-questionnaire/internal/cache"
	"github.com/arpitnexuses/forvismazar-questionnaire/internal/models"
	"github.com/arpitnexuses/forvismazar-questionnaire/internal/repositories"
)

type SubmissionPostgreSQL struct {
	db           *gorm.DB
	cacheManager *cache.CacheManager
}

func NewSubmissionPostgreSQL(db *gorm.DB, cacheManager *cache.CacheManager) repositories.SubmissionRepository {
	return &SubmissionPostgreSQL{
		db:           db,
		cacheManager: cacheManager,
	}
}

func (s *SubmissionPostgreSQL) getDB(tx *gorm.DB) *gorm.DB {
	if tx != nil {
		return tx
	}
	return s.db
}

// Create stores a completed submission with its denormalized scores
func (s *SubmissionPostgreSQL) Create(ctx context.Context, tx *gorm.DB, submission *models.Submission) error {
	db := s.getDB(tx)
	if err := db.WithContext(ctx).Create(submission).Error; err != nil {
		return fmt.Errorf("failed to create submission: %w", err)
	}

	cache.InvalidateSubmissionCache(ctx, s.cacheManager, submission.ID, submission.ClientID)

	return nil
}

// GetByID retrieves a submission by ID with caching. Submissions never
// change after creation so the cache cannot go stale.
func (s *SubmissionPostgreSQL) GetByID(ctx context.Context, tx *gorm.DB, id string) (*models.Submission, error) {
	db := s.getDB(tx)
	cacheKey := fmt.Sprintf("id:%s", id)
	var submission models.Submission

	err := s.cacheManager.Submission.CacheOrExecute(ctx, cacheKey, &submission, cache.SubmissionCacheConfig.TTL, func() (interface{}, error) {
		var dbSubmission models.Submission
		if err := db.WithContext(ctx).First(&dbSubmission, "id = ?", id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, fmt.Errorf("submission %s: %w", id, repositories.ErrNotFound)
			}
			return nil, fmt.Errorf("failed to get submission: %w", err)
		}
		return &dbSubmission, nil
	})

	if err != nil {
		return nil, err
	}

	return &submission, nil
}

// Delete removes a submission
func (s *SubmissionPostgreSQL) Delete(ctx context.Context, tx *gorm.DB, id string) error {
	db := s.getDB(tx)

	var submission models.Submission
	if err := db.WithContext(ctx).Select("id, client_id").First(&submission, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("submission %s: %w", id, repositories.ErrNotFound)
		}
		return fmt.Errorf("failed to get submission before delete: %w", err)
	}

	if err := db.WithContext(ctx).Delete(&models.Submission{}, "id = ?", id).Error; err != nil {
		return fmt.Errorf("failed to delete submission: %w", err)
	}

	cache.InvalidateSubmissionCache(ctx, s.cacheManager, id, submission.ClientID)

	return nil
}

// List retrieves submissions with filtering, pagination and total count
func (s *SubmissionPostgreSQL) List(ctx context.Context, tx *gorm.DB, filters repositories.SubmissionFilters) ([]models.Submission, int64, error) {
	db := s.getDB(tx)

	query := db.WithContext(ctx).Model(&models.Submission{})
	if filters.ClientID != nil {
		query = query.Where("client_id = ?", *filters.ClientID)
	}
	if filters.QuestionnaireID != nil {
		query = query.Where("questionnaire_id = ?", *filters.QuestionnaireID)
	}
	if filters.SubmittedAfter != nil {
		query = query.Where("submitted_at >= ?", *filters.SubmittedAfter)
	}
	if filters.SubmittedBefore != nil {
		query = query.Where("submitted_at <= ?", *filters.SubmittedBefore)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count submissions: %w", err)
	}

	query = applyOrdering(query, filters.SortBy, filters.SortOrder, "submitted_at")
	query = applyPagination(query, filters.Limit, filters.Offset)

	var submissions []models.Submission
	if err := query.Find(&submissions).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to list submissions: %w", err)
	}

	return submissions, total, nil
}

// GetByClient retrieves all submissions for a client, newest first, with caching
func (s *SubmissionPostgreSQL) GetByClient(ctx context.Context, tx *gorm.DB, clientID string) ([]models.Submission, error) {
	db := s.getDB(tx)
	cacheKey := fmt.Sprintf("client:%s:all", clientID)
	var submissions []models.Submission

	err := s.cacheManager.Submission.CacheOrExecute(ctx, cacheKey, &submissions, cache.SubmissionCacheConfig.TTL, func() (interface{}, error) {
		var dbSubmissions []models.Submission
		if err := db.WithContext(ctx).
			Where("client_id = ?", clientID).
			Order("submitted_at DESC").
			Find(&dbSubmissions).Error; err != nil {
			return nil, fmt.Errorf("failed to get submissions for client: %w", err)
		}
		return dbSubmissions, nil
	})
	if err != nil {
		return nil, err
	}

	return submissions, nil
}
