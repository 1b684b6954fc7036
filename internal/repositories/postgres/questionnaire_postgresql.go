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

type QuestionnairePostgreSQL struct {
	db           *gorm.DB
	cacheManager *cache.CacheManager
}

func NewQuestionnairePostgreSQL(db *gorm.DB, cacheManager *cache.CacheManager) repositories.QuestionnaireRepository {
	return &QuestionnairePostgreSQL{
		db:           db,
		cacheManager: cacheManager,
	}
}

func (q *QuestionnairePostgreSQL) getDB(tx *gorm.DB) *gorm.DB {
	if tx != nil {
		return tx
	}
	return q.db
}

// Create stores a new questionnaire and invalidates list caches
func (q *QuestionnairePostgreSQL) Create(ctx context.Context, tx *gorm.DB, questionnaire *models.Questionnaire) error {
	db := q.getDB(tx)
	if err := db.WithContext(ctx).Create(questionnaire).Error; err != nil {
		return fmt.Errorf("failed to create questionnaire: %w", err)
	}

	cache.SafeInvalidatePattern(ctx, q.cacheManager.Questionnaire, "list:*")

	return nil
}

// GetByID retrieves a questionnaire by ID with caching
func (q *QuestionnairePostgreSQL) GetByID(ctx context.Context, tx *gorm.DB, id string) (*models.Questionnaire, error) {
	db := q.getDB(tx)
	cacheKey := fmt.Sprintf("id:%s", id)
	var questionnaire models.Questionnaire

	err := q.cacheManager.Questionnaire.CacheOrExecute(ctx, cacheKey, &questionnaire, cache.QuestionnaireCacheConfig.TTL, func() (interface{}, error) {
		var dbQuestionnaire models.Questionnaire
		if err := db.WithContext(ctx).First(&dbQuestionnaire, "id = ?", id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, fmt.Errorf("questionnaire %s: %w", id, repositories.ErrNotFound)
			}
			return nil, fmt.Errorf("failed to get questionnaire: %w", err)
		}
		return &dbQuestionnaire, nil
	})

	if err != nil {
		return nil, err
	}

	return &questionnaire, nil
}

// Update saves a questionnaire and invalidates every cache that referenced it
func (q *QuestionnairePostgreSQL) Update(ctx context.Context, tx *gorm.DB, questionnaire *models.Questionnaire) error {
	db := q.getDB(tx)
	if err := db.WithContext(ctx).Save(questionnaire).Error; err != nil {
		return fmt.Errorf("failed to update questionnaire: %w", err)
	}

	cache.InvalidateQuestionnaireCache(ctx, q.cacheManager, questionnaire.ID)

	return nil
}

// Delete removes a questionnaire. Submissions keep their denormalized
// scores, so deletion does not cascade into them.
func (q *QuestionnairePostgreSQL) Delete(ctx context.Context, tx *gorm.DB, id string) error {
	db := q.getDB(tx)

	result := db.WithContext(ctx).Delete(&models.Questionnaire{}, "id = ?", id)
	if result.Error != nil {
		return fmt.Errorf("failed to delete questionnaire: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return fmt.Errorf("questionnaire %s: %w", id, repositories.ErrNotFound)
	}

	cache.InvalidateQuestionnaireCache(ctx, q.cacheManager, id)

	return nil
}

// List retrieves questionnaires with filtering, pagination and total count
func (q *QuestionnairePostgreSQL) List(ctx context.Context, tx *gorm.DB, filters repositories.QuestionnaireFilters) ([]models.Questionnaire, int64, error) {
	db := q.getDB(tx)

	query := db.WithContext(ctx).Model(&models.Questionnaire{})
	if filters.Title != nil {
		query = query.Where("title ILIKE ?", "%"+*filters.Title+"%")
	}
	if filters.IsActive != nil {
		query = query.Where("is_active = ?", *filters.IsActive)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count questionnaires: %w", err)
	}

	query = applyOrdering(query, filters.SortBy, filters.SortOrder, "created_at")
	query = applyPagination(query, filters.Limit, filters.Offset)

	var questionnaires []models.Questionnaire
	if err := query.Find(&questionnaires).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to list questionnaires: %w", err)
	}

	return questionnaires, total, nil
}

// Exists checks questionnaire existence with a short-lived cache
func (q *QuestionnairePostgreSQL) Exists(ctx context.Context, tx *gorm.DB, id string) (bool, error) {
	db := q.getDB(tx)
	cacheKey := fmt.Sprintf("questionnaire:%s", id)
	var exists bool

	err := q.cacheManager.Exists.CacheOrExecute(ctx, cacheKey, &exists, cache.ExistsCacheConfig.TTL, func() (interface{}, error) {
		var count int64
		if err := db.WithContext(ctx).Model(&models.Questionnaire{}).Where("id = ?", id).Count(&count).Error; err != nil {
			return nil, fmt.Errorf("failed to check questionnaire existence: %w", err)
		}
		return count > 0, nil
	})
	if err != nil {
		return false, err
	}

	return exists, nil
}
