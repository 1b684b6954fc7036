package repositories

import "context"

// Repository aggregates the persistence interfaces the engine depends on
type Repository interface {
	// Questionnaire authoring domain
	Questionnaire() QuestionnaireRepository

	// Submission intake domain
	Submission() SubmissionRepository

	// Client directory
	Client() ClientRepository

	// Transaction support
	WithTransaction(ctx context.Context, fn func(Repository) error) error

	// Health check
	Ping(ctx context.Context) error

	// Close connections
	Close() error
}

// RepositoryManager interface for managing repository lifecycle
type RepositoryManager interface {
	// Initialize repositories with database connections
	Initialize() error

	// Get repository instance
	GetRepository() Repository

	// Health check for all repositories
	HealthCheck(ctx context.Context) error

	// Graceful shutdown
	Shutdown(ctx context.Context) error
}
