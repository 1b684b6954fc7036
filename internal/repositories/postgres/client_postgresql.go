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

type ClientPostgreSQL struct {
	db           *gorm.DB
	cacheManager *cache.CacheManager
}

func NewClientPostgreSQL(db *gorm.DB, cacheManager *cache.CacheManager) repositories.ClientRepository {
	return &ClientPostgreSQL{
		db:           db,
		cacheManager: cacheManager,
	}
}

func (c *ClientPostgreSQL) getDB(tx *gorm.DB) *gorm.DB {
	if tx != nil {
		return tx
	}
	return c.db
}

// Create stores a new client
func (c *ClientPostgreSQL) Create(ctx context.Context, tx *gorm.DB, client *models.Client) error {
	db := c.getDB(tx)
	if err := db.WithContext(ctx).Create(client).Error; err != nil {
		return fmt.Errorf("failed to create client: %w", err)
	}

	cache.SafeInvalidatePattern(ctx, c.cacheManager.Client, "list:*")

	return nil
}

// GetByID retrieves a client by ID with caching
func (c *ClientPostgreSQL) GetByID(ctx context.Context, tx *gorm.DB, id string) (*models.Client, error) {
	db := c.getDB(tx)
	cacheKey := fmt.Sprintf("id:%s", id)
	var client models.Client

	err := c.cacheManager.Client.CacheOrExecute(ctx, cacheKey, &client, cache.ClientCacheConfig.TTL, func() (interface{}, error) {
		var dbClient models.Client
		if err := db.WithContext(ctx).First(&dbClient, "id = ?", id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, fmt.Errorf("client %s: %w", id, repositories.ErrNotFound)
			}
			return nil, fmt.Errorf("failed to get client: %w", err)
		}
		return &dbClient, nil
	})

	if err != nil {
		return nil, err
	}

	return &client, nil
}

// Update saves a client profile
func (c *ClientPostgreSQL) Update(ctx context.Context, tx *gorm.DB, client *models.Client) error {
	db := c.getDB(tx)
	if err := db.WithContext(ctx).Save(client).Error; err != nil {
		return fmt.Errorf("failed to update client: %w", err)
	}

	cache.InvalidateClientCache(ctx, c.cacheManager, client.ID)

	return nil
}

// List retrieves clients with filtering, pagination and total count
func (c *ClientPostgreSQL) List(ctx context.Context, tx *gorm.DB, filters repositories.ClientFilters) ([]models.Client, int64, error) {
	db := c.getDB(tx)

	query := db.WithContext(ctx).Model(&models.Client{})
	if filters.Name != nil {
		query = query.Where("name ILIKE ?", "%"+*filters.Name+"%")
	}
	if filters.Industry != nil {
		query = query.Where("industry = ?", *filters.Industry)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count clients: %w", err)
	}

	query = query.Order("name ASC")
	query = applyPagination(query, filters.Limit, filters.Offset)

	var clients []models.Client
	if err := query.Find(&clients).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to list clients: %w", err)
	}

	return clients, total, nil
}
