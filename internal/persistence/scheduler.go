package persistence

import (
	"context"
	"errors"
	"sync"

	"github.com/roylee0704/gron"

	"github.com/rabmarut/ChildChainGaugeInjector/internal/models"
	"github.com/rabmarut/ChildChainGaugeInjector/internal/persistence/interfaces"
	"github.com/rabmarut/ChildChainGaugeInjector/internal/providers"
	"github.com/rabmarut/ChildChainGaugeInjector/internal/services"
	"github.com/rabmarut/ChildChainGaugeInjector/internal/structures"
)

// Scheduler runs the periodic jobs: snapshot persistence and, when enabled,
// an embedded keeper that alternates CheckUpkeep and PerformUpkeep.
type Scheduler struct {
	config      *structures.Config
	logger      providers.Logger
	service     services.InjectorServiceInterface
	fileManager *FileManager
	cron        *gron.Cron
	opsMu       sync.Mutex
}

func (s *Scheduler) Init() {
	s.cron = gron.New()

	s.cron.AddFunc(gron.Every(s.config.Persistence.SaveInterval), func() {
		s.opsMu.Lock()
		defer s.opsMu.Unlock()

		if err := s.fileManager.SaveToFile(s.config.Persistence.FilePath); err != nil {
			s.logger.Errorf(providers.TypeApp, "Error while persisting data: %s", err)
			return
		}
		s.logger.Debugf(providers.TypeApp, "Persisted data to file %s", s.config.Persistence.FilePath)
	})

	if s.config.Keeper.Enabled {
		s.logger.Infof(providers.TypeApp, "Embedded keeper enabled, every %s", s.config.Keeper.Interval)
		s.cron.AddFunc(gron.Every(s.config.Keeper.Interval), func() {
			s.opsMu.Lock()
			defer s.opsMu.Unlock()
			s.upkeep(context.Background())
		})
	}

	s.cron.Start()
}

// upkeep is one keeper round. It acts as the configured keeper, so it stops
// being authorized once the owner hands the role to someone else.
func (s *Scheduler) upkeep(ctx context.Context) {
	needed, payload, err := s.service.CheckUpkeep(ctx, nil)
	if err != nil {
		if errors.Is(err, models.ErrPaused) {
			s.logger.Debugf(providers.TypeInjector, "Upkeep skipped: paused")
			return
		}
		s.logger.Errorf(providers.TypeInjector, "Upkeep check failed: %s", err)
		return
	}
	if !needed {
		return
	}

	keeper := models.NewAddress(s.config.Injector.Keeper)
	report, err := s.service.PerformUpkeep(ctx, keeper, payload)
	if err != nil {
		s.logger.Errorf(providers.TypeInjector, "Upkeep failed: %s", err)
		return
	}
	s.logger.Infof(providers.TypeInjector, "Upkeep done: %d injected, %d skipped", len(report.Injected), len(report.Skipped))
}

func (s *Scheduler) Stop() {
	if s.cron != nil {
		s.cron.Stop()
	}
}

func (s *Scheduler) Restore() error {
	return s.fileManager.LoadFromFile(s.config.Persistence.FilePath)
}

func (s *Scheduler) Persist() error {
	s.opsMu.Lock()
	defer s.opsMu.Unlock()

	s.logger.Infof(providers.TypeApp, "Persisting schedule to file...")
	if err := s.fileManager.SaveToFile(s.config.Persistence.FilePath); err != nil {
		s.logger.Errorf(providers.TypeApp, "Error while persisting data: %s", err)
		return err
	}
	return nil
}

func NewScheduler(config *structures.Config, logger providers.Logger, service services.InjectorServiceInterface, fileManager *FileManager) interfaces.SchedulerInterface {
	return &Scheduler{
		config:      config,
		logger:      logger,
		service:     service,
		fileManager: fileManager,
	}
}
