package services

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/kkadvisory/member-portal-service/internal/events"
	"github.com/kkadvisory/member-portal-service/internal/mailer"
	"github.com/kkadvisory/member-portal-service/internal/repositories"
	"github.com/kkadvisory/member-portal-service/internal/validator"
)

// ServiceManagerConfig holds the dependencies and settings shared by all
// services.
type ServiceManagerConfig struct {
	Repo      repositories.Repository
	Logger    *slog.Logger
	Validator *validator.Validator
	Publisher events.EventPublisher
	Mailer    mailer.InviteMailer

	Provisioning ProvisioningConfig
}

// serviceManager implements ServiceManager interface
type serviceManager struct {
	config ServiceManagerConfig

	// Service instances
	provisioningService ProvisioningService
	profileService      ProfileService
	quickLinkService    QuickLinkService
	feedbackService     FeedbackService
	exportService       ExportService

	// Lifecycle management
	initialized bool
	shutdown    bool
	mu          sync.RWMutex
}

// NewServiceManager creates a new service manager with all dependencies
func NewServiceManager(config ServiceManagerConfig) ServiceManager {
	return &serviceManager{config: config}
}

// Initialize sets up all services and their dependencies
func (sm *serviceManager) Initialize(ctx context.Context) error {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	if sm.initialized {
		return nil
	}

	if sm.config.Repo == nil {
		return fmt.Errorf("repository is required")
	}

	logger := sm.config.Logger
	logger.Info("Initializing service manager")

	if sm.config.Publisher == nil {
		sm.config.Publisher = events.NewMockEventPublisher(logger)
	}
	if sm.config.Mailer == nil {
		sm.config.Mailer = mailer.NoopMailer{}
	}

	sm.provisioningService = NewProvisioningService(
		sm.config.Repo,
		logger,
		sm.config.Validator,
		sm.config.Publisher,
		sm.config.Mailer,
		sm.config.Provisioning,
	)
	logger.Info("Provisioning service initialized")

	sm.profileService = NewProfileService(sm.config.Repo, logger, sm.config.Validator, sm.provisioningService)
	logger.Info("Profile service initialized")

	sm.quickLinkService = NewQuickLinkService(sm.config.Repo, logger, sm.config.Validator)
	logger.Info("QuickLink service initialized")

	sm.feedbackService = NewFeedbackService(sm.config.Repo, logger, sm.config.Validator, sm.config.Publisher)
	logger.Info("Feedback service initialized")

	sm.exportService = NewExportService(sm.config.Repo, logger)
	logger.Info("Export service initialized")

	sm.initialized = true
	logger.Info("Service manager initialized successfully")

	return nil
}

// Service getters
func (sm *serviceManager) Provisioning() ProvisioningService {
	sm.mu.RLock()
	defer sm.mu.RUnlock()

	if !sm.initialized {
		panic("service manager not initialized")
	}
	return sm.provisioningService
}

func (sm *serviceManager) Profile() ProfileService {
	sm.mu.RLock()
	defer sm.mu.RUnlock()

	if !sm.initialized {
		panic("service manager not initialized")
	}
	return sm.profileService
}

func (sm *serviceManager) QuickLink() QuickLinkService {
	sm.mu.RLock()
	defer sm.mu.RUnlock()

	if !sm.initialized {
		panic("service manager not initialized")
	}
	return sm.quickLinkService
}

func (sm *serviceManager) Feedback() FeedbackService {
	sm.mu.RLock()
	defer sm.mu.RUnlock()

	if !sm.initialized {
		panic("service manager not initialized")
	}
	return sm.feedbackService
}

func (sm *serviceManager) Export() ExportService {
	sm.mu.RLock()
	defer sm.mu.RUnlock()

	if !sm.initialized {
		panic("service manager not initialized")
	}
	return sm.exportService
}

// Health and lifecycle
func (sm *serviceManager) HealthCheck(ctx context.Context) error {
	sm.mu.RLock()
	defer sm.mu.RUnlock()

	if !sm.initialized {
		return fmt.Errorf("service manager not initialized")
	}
	if sm.shutdown {
		return fmt.Errorf("service manager is shut down")
	}

	if err := sm.config.Repo.Ping(ctx); err != nil {
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

	sm.config.Logger.Info("Shutting down service manager")

	if sm.config.Publisher != nil {
		if err := sm.config.Publisher.Close(); err != nil {
			sm.config.Logger.Error("Failed to close event publisher", "error", err)
		}
	}

	sm.shutdown = true
	sm.config.Logger.Info("Service manager shut down completed")

	return nil
}
