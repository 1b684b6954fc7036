package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"github.com/arpitnexuses/forvismazar-questionnaire/internal/cache"
	"github.com/arpitnexuses/forvismazar-questionnaire/internal/repositories"
)

// PostgreSQLRepository implements the main Repository interface
type PostgreSQLRepository struct {
	db           *gorm.DB
	redisClient  *redis.Client
	cacheManager *cache.CacheManager

	questionnaire repositories.QuestionnaireRepository
	submission    repositories.SubmissionRepository
	client        repositories.ClientRepository
}

// RepositoryConfig holds configuration for repository initialization
type RepositoryConfig struct {
	DB          *gorm.DB
	RedisClient *redis.Client
}

// NewPostgreSQLRepository creates a new repository aggregate with all sub-repositories
func NewPostgreSQLRepository(config RepositoryConfig) repositories.Repository {
	cacheManager := cache.NewCacheManager(config.RedisClient)

	repo := &PostgreSQLRepository{
		db:           config.DB,
		redisClient:  config.RedisClient,
		cacheManager: cacheManager,
	}

	repo.questionnaire = NewQuestionnairePostgreSQL(config.DB, cacheManager)
	repo.submission = NewSubmissionPostgreSQL(config.DB, cacheManager)
	repo.client = NewClientPostgreSQL(config.DB, cacheManager)

	return repo
}

// Questionnaire returns the questionnaire repository
func (r *PostgreSQLRepository) Questionnaire() repositories.QuestionnaireRepository {
	return r.questionnaire
}

// Submission returns the submission repository
func (r *PostgreSQLRepository) Submission() repositories.SubmissionRepository {
	return r.submission
}

// Client returns the client repository
func (r *PostgreSQLRepository) Client() repositories.ClientRepository {
	return r.client
}

// WithTransaction executes a function within a database transaction
func (r *PostgreSQLRepository) WithTransaction(ctx context.Context, fn func(repositories.Repository) error) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		txRepo := &PostgreSQLRepository{
			db:           tx,
			redisClient:  r.redisClient,
			cacheManager: r.cacheManager,
		}
		txRepo.questionnaire = NewQuestionnairePostgreSQL(tx, r.cacheManager)
		txRepo.submission = NewSubmissionPostgreSQL(tx, r.cacheManager)
		txRepo.client = NewClientPostgreSQL(tx, r.cacheManager)

		return fn(txRepo)
	})
}

// Ping checks the health of database and cache connections
func (r *PostgreSQLRepository) Ping(ctx context.Context) error {
	sqlDB, err := r.db.DB()
	if err != nil {
		return fmt.Errorf("failed to get database instance: %w", err)
	}

	if err := sqlDB.PingContext(ctx); err != nil {
		return fmt.Errorf("database ping failed: %w", err)
	}

	if r.redisClient != nil {
		if err := r.cacheManager.HealthCheck(ctx); err != nil {
			return fmt.Errorf("cache ping failed: %w", err)
		}
	}

	return nil
}

// Close closes all connections
func (r *PostgreSQLRepository) Close() error {
	sqlDB, err := r.db.DB()
	if err != nil {
		return fmt.Errorf("failed to get database instance: %w", err)
	}

	if err := sqlDB.Close(); err != nil {
		return fmt.Errorf("failed to close database: %w", err)
	}

	if r.redisClient != nil {
		if err := r.redisClient.Close(); err != nil {
			return fmt.Errorf("failed to close Redis: %w", err)
		}
	}

	return nil
}

// Manager implements the RepositoryManager interface
type Manager struct {
	config RepositoryConfig
	repo   repositories.Repository
}

// NewRepositoryManager creates a new repository manager
func NewRepositoryManager(config RepositoryConfig) repositories.RepositoryManager {
	return &Manager{
		config: config,
	}
}

// Initialize validates connections and builds the repository aggregate
func (rm *Manager) Initialize() error {
	if rm.config.DB == nil {
		return fmt.Errorf("database connection is required")
	}

	sqlDB, err := rm.config.DB.DB()
	if err != nil {
		return fmt.Errorf("failed to get database instance: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := sqlDB.PingContext(ctx); err != nil {
		return fmt.Errorf("database connection test failed: %w", err)
	}

	rm.repo = NewPostgreSQLRepository(rm.config)
	return nil
}

// GetRepository returns the repository aggregate
func (rm *Manager) GetRepository() repositories.Repository {
	return rm.repo
}

// HealthCheck pings database and cache
func (rm *Manager) HealthCheck(ctx context.Context) error {
	if rm.repo == nil {
		return fmt.Errorf("repositories not initialized")
	}
	return rm.repo.Ping(ctx)
}

// Shutdown closes all repository connections
func (rm *Manager) Shutdown(ctx context.Context) error {
	if rm.repo == nil {
		return nil
	}
	return rm.repo.Close()
}
