package services

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"gorm.io/gorm"

	"github.com/campuscms/course-service/internal/auth"
	"github.com/campuscms/course-service/internal/events"
	"github.com/campuscms/course-service/internal/repositories"
	"github.com/campuscms/course-service/internal/storage"
	"github.com/campuscms/course-service/internal/validator"
)

// ServiceManagerConfig holds cross-service settings.
type ServiceManagerConfig struct {
	MaxUploadSize     int64
	AllowedExtensions []string
	DefaultTimeout    time.Duration
}

// serviceManager implements ServiceManager interface
type serviceManager struct {
	// Dependencies
	db        *gorm.DB
	repo      repositories.Repository
	logger    *slog.Logger
	validator *validator.Validator
	tokens    *auth.Service
	storage   storage.ObjectStorage
	publisher events.EventPublisher
	config    ServiceManagerConfig

	// Service instances
	authService       AuthService
	userService       UserService
	courseService     CourseService
	enrollmentService EnrollmentService
	dashboardService  DashboardService
	reportService     ReportService

	// Lifecycle management
	initialized bool
	shutdown    bool
	mu          sync.RWMutex
}

// NewServiceManager creates a new service manager with all dependencies
func NewServiceManager(db *gorm.DB, repo repositories.Repository, logger *slog.Logger, validator *validator.Validator, tokens *auth.Service, store storage.ObjectStorage, publisher events.EventPublisher, config ServiceManagerConfig) ServiceManager {
	if config.DefaultTimeout <= 0 {
		config.DefaultTimeout = 30 * time.Second
	}
	if config.MaxUploadSize <= 0 {
		config.MaxUploadSize = 16 << 20
	}
	if len(config.AllowedExtensions) == 0 {
		config.AllowedExtensions = []string{"png", "jpg", "jpeg"}
	}

	return &serviceManager{
		db:        db,
		repo:      repo,
		logger:    logger,
		validator: validator,
		tokens:    tokens,
		storage:   store,
		publisher: publisher,
		config:    config,
	}
}

// Initialize sets up all services and their dependencies
func (sm *serviceManager) Initialize(ctx context.Context) error {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	if sm.initialized {
		return nil
	}

	sm.logger.Info("Initializing service manager")

	sm.authService = NewAuthService(sm.repo, sm.tokens, sm.publisher, sm.logger, sm.validator)
	sm.userService = NewUserService(sm.repo, sm.storage, sm.logger, sm.validator, sm.config.MaxUploadSize, sm.config.AllowedExtensions)
	sm.courseService = NewCourseService(sm.repo, sm.storage, sm.publisher, sm.logger, sm.validator, sm.config.MaxUploadSize, sm.config.AllowedExtensions)
	sm.enrollmentService = NewEnrollmentService(sm.repo, sm.publisher, sm.logger, sm.validator)
	sm.dashboardService = NewDashboardService(sm.repo, sm.logger)
	sm.reportService = NewReportService(sm.repo, sm.logger)

	if err := sm.validateServicesHealth(ctx); err != nil {
		return fmt.Errorf("service health check failed: %w", err)
	}

	sm.initialized = true
	sm.logger.Info("Service manager initialized successfully")

	return nil
}

func (sm *serviceManager) validateServicesHealth(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, sm.config.DefaultTimeout)
	defer cancel()

	if err := sm.repo.Ping(ctx); err != nil {
		return fmt.Errorf("repository ping failed: %w", err)
	}

	return nil
}

func (sm *serviceManager) Auth() AuthService {
	sm.mu.RLock()
	defer sm.mu.RUnlock()
	return sm.authService
}

func (sm *serviceManager) User() UserService {
	sm.mu.RLock()
	defer sm.mu.RUnlock()
	return sm.userService
}

func (sm *serviceManager) Course() CourseService {
	sm.mu.RLock()
	defer sm.mu.RUnlock()
	return sm.courseService
}

func (sm *serviceManager) Enrollment() EnrollmentService {
	sm.mu.RLock()
	defer sm.mu.RUnlock()
	return sm.enrollmentService
}

func (sm *serviceManager) Dashboard() DashboardService {
	sm.mu.RLock()
	defer sm.mu.RUnlock()
	return sm.dashboardService
}

func (sm *serviceManager) Report() ReportService {
	sm.mu.RLock()
	defer sm.mu.RUnlock()
	return sm.reportService
}

// HealthCheck verifies the manager and its backing connections are usable
func (sm *serviceManager) HealthCheck(ctx context.Context) error {
	sm.mu.RLock()
	defer sm.mu.RUnlock()

	if !sm.initialized {
		return fmt.Errorf("service manager not initialized")
	}
	if sm.shutdown {
		return fmt.Errorf("service manager is shut down")
	}

	return sm.repo.Ping(ctx)
}

// Shutdown stops the services and closes the event publisher
func (sm *serviceManager) Shutdown(ctx context.Context) error {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	if sm.shutdown {
		return nil
	}

	sm.logger.Info("Shutting down service manager")

	if sm.publisher != nil {
		if err := sm.publisher.Close(); err != nil {
			sm.logger.Warn("Failed to close event publisher", "error", err)
		}
	}

	sm.shutdown = true
	return nil
}
