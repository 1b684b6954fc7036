package services

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"gorm.io/gorm"

	"github.com/arpitnexuses/forvismazar-questionnaire/internal/events"
	"github.com/arpitnexuses/forvismazar-questionnaire/internal/repositories"
	"github.com/arpitnexuses/forvismazar-questionnaire/internal/validator"
)

// ServiceManagerConfig holds configuration for the service manager
type ServiceManagerConfig struct {
	EnableDebugLogging bool
	LogLevel           slog.Level

	// Path to the logo embedded on report covers; empty renders without one
	ReportLogoPath string

	DefaultTimeout time.Duration
}

// serviceManager implements ServiceManager interface
type serviceManager struct {
	// Dependencies
	db             *gorm.DB
	repo           repositories.Repository
	logger         *slog.Logger
	validator      *validator.Validator
	eventPublisher events.EventPublisher
	config         ServiceManagerConfig

	// Service instances
	questionnaireService QuestionnaireService
	submissionService    SubmissionService
	clientService        ClientService
	reportService        ReportService

	// Lifecycle management
	initialized bool
	shutdown    bool
	mu          sync.RWMutex
}

// NewServiceManager creates a new service manager with all dependencies
func NewServiceManager(db *gorm.DB, repo repositories.Repository, logger *slog.Logger, validator *validator.Validator, eventPublisher events.EventPublisher, config ServiceManagerConfig) ServiceManager {
	return &serviceManager{
		db:             db,
		repo:           repo,
		logger:         logger,
		validator:      validator,
		eventPublisher: eventPublisher,
		config:         config,
	}
}

// NewDefaultServiceManager creates a service manager with default configuration
func NewDefaultServiceManager(db *gorm.DB, repo repositories.Repository, logger *slog.Logger, validator *validator.Validator, eventPublisher events.EventPublisher) ServiceManager {
	config := ServiceManagerConfig{
		EnableDebugLogging: false,
		LogLevel:           slog.LevelInfo,
		DefaultTimeout:     30 * time.Second,
	}

	return NewServiceManager(db, repo, logger, validator, eventPublisher, config)
}

// Initialize sets up all services and their dependencies
func (sm *serviceManager) Initialize(ctx context.Context) error {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	if sm.initialized {
		return nil
	}

	sm.logger.Info("Initializing service manager")

	sm.questionnaireService = NewQuestionnaireService(sm.repo, sm.db, sm.logger, sm.validator)
	sm.logger.Info("Questionnaire service initialized")

	sm.submissionService = NewSubmissionService(sm.repo, sm.db, sm.logger, sm.validator, sm.eventPublisher)
	sm.logger.Info("Submission service initialized")

	sm.clientService = NewClientService(sm.repo, sm.db, sm.logger, sm.validator)
	sm.logger.Info("Client service initialized")

	sm.reportService = NewReportService(sm.repo, sm.logger, sm.eventPublisher, sm.config.ReportLogoPath)
	sm.logger.Info("Report service initialized")

	sm.initialized = true
	sm.logger.Info("Service manager initialized successfully")

	return nil
}

// Service getters
func (sm *serviceManager) Questionnaire() QuestionnaireService {
	sm.mu.RLock()
	defer sm.mu.RUnlock()

	if !sm.initialized {
		panic("service manager not initialized")
	}
	return sm.questionnaireService
}

func (sm *serviceManager) Submission() SubmissionService {
	sm.mu.RLock()
	defer sm.mu.RUnlock()

	if !sm.initialized {
		panic("service manager not initialized")
	}
	return sm.submissionService
}

func (sm *serviceManager) Client() ClientService {
	sm.mu.RLock()
	defer sm.mu.RUnlock()

	if !sm.initialized {
		panic("service manager not initialized")
	}
	return sm.clientService
}

func (sm *serviceManager) Report() ReportService {
	sm.mu.RLock()
	defer sm.mu.RUnlock()

	if !sm.initialized {
		panic("service manager not initialized")
	}
	return sm.reportService
}

func (sm *serviceManager) HealthCheck(ctx context.Context) error {
	sm.mu.RLock()
	defer sm.mu.RUnlock()

	if !sm.initialized {
		return fmt.Errorf("service manager not initialized")
	}

	if sm.shutdown {
		return fmt.Errorf("service manager is shut down")
	}

	if err := sm.repo.Ping(ctx); err != nil {
		return fmt.Errorf("repository health check failed: %w", err)
	}

	return nil
}

func (sm *serviceManager) Shutdown(ctx context.Context) error {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	if sm.shutdown {
		return nil
	}

	sm.logger.Info("Shutting down service manager")

	if sm.eventPublisher != nil {
		if err := sm.eventPublisher.Close(); err != nil {
			sm.logger.Error("Failed to close event publisher", "error", err)
		}
	}

	sm.shutdown = true
	sm.logger.Info("Service manager shut down completed")

	return nil
}
