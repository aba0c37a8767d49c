package services

import (
	"context"
	"fmt"
	"math/big"
	"sync"
	"time"

	"go.uber.org/atomic"

	"github.com/rabmarut/ChildChainGaugeInjector/internal/chain"
	"github.com/rabmarut/ChildChainGaugeInjector/internal/history"
	"github.com/rabmarut/ChildChainGaugeInjector/internal/models"
	"github.com/rabmarut/ChildChainGaugeInjector/internal/providers"
	"github.com/rabmarut/ChildChainGaugeInjector/internal/structures"
)

type InjectorServiceInterface interface {
	SetRecipientList(ctx context.Context, caller models.Address, ids []models.Address, amounts []*big.Int, maxPeriods []uint32) error
	SetValidatedRecipientList(ctx context.Context, caller models.Address, ids []models.Address, amounts []*big.Int, maxPeriods []uint32) error
	CheckBalancesMatch(ctx context.Context) (bool, error)
	GetReadyReceivers(ctx context.Context) ([]models.Address, error)
	CheckUpkeep(ctx context.Context, checkData []byte) (bool, []byte, error)
	PerformUpkeep(ctx context.Context, caller models.Address, performData []byte) (*models.InjectionReport, error)
	ExecuteInjections(ctx context.Context, caller models.Address, candidates []models.Address) (*models.InjectionReport, error)
	GetAccountInfo(id models.Address) models.Target
	GetWatchList() []models.Address

	Pause(ctx context.Context, caller models.Address) error
	Unpause(ctx context.Context, caller models.Address) error
	Sweep(ctx context.Context, caller, asset, to models.Address) (*big.Int, error)
	SetDistributorToOwner(ctx context.Context, caller, receiver, asset models.Address) error
	ManualDeposit(ctx context.Context, caller, receiver, asset models.Address, amount *big.Int) error
	SetMinWaitPeriod(caller models.Address, period time.Duration) error
	SetKeeperAddress(caller, keeper models.Address) error
	Settings() models.Settings

	History(ctx context.Context, receiver models.Address, limit int) ([]models.Event, error)
	Version() uint64
	GetSnapshot() *models.Storage
	Restore(storage *models.Storage) error
}

// InjectorService owns the schedule. Mutating operations hold mu exclusively
// for their whole duration, external calls included; reads share it.
type InjectorService struct {
	mu       sync.RWMutex
	schedule *models.Schedule
	version  atomic.Uint64
	paused   atomic.Bool
	keeper   atomic.String
	minWait  atomic.Duration

	asset models.Address
	self  models.Address
	owner models.Address

	chain   chain.Chain
	clock   providers.ClockInterface
	history history.Recorder
	logger  providers.Logger
	metrics providers.MetricsProviderInterface
}

func NewInjectorService(conf *structures.Config, logger providers.Logger, clock providers.ClockInterface, backend chain.Chain, recorder history.Recorder, metrics providers.MetricsProviderInterface) InjectorServiceInterface {
	s := &InjectorService{
		schedule: models.NewSchedule(),
		asset:    models.NewAddress(conf.Injector.Asset),
		self:     models.NewAddress(conf.Injector.Self),
		owner:    models.NewAddress(conf.Injector.Owner),
		chain:    backend,
		clock:    clock,
		history:  recorder,
		logger:   logger,
		metrics:  metrics,
	}
	s.keeper.Store(models.NewAddress(conf.Injector.Keeper).String())
	s.minWait.Store(conf.Injector.MinWaitPeriod)
	return s
}

func (s *InjectorService) onlyOwner(caller models.Address) error {
	if caller != s.owner {
		return fmt.Errorf("%w: %s is not the owner", models.ErrUnauthorized, caller)
	}
	return nil
}

func (s *InjectorService) onlyKeeper(caller models.Address) error {
	if caller.String() != s.keeper.Load() {
		return fmt.Errorf("%w: %s is not the keeper", models.ErrUnauthorized, caller)
	}
	return nil
}

func (s *InjectorService) record(ctx context.Context, event models.Event) {
	event.OccurredAt = s.clock.Now()
	if err := s.history.Record(ctx, event); err != nil {
		s.logger.Errorf(providers.TypeApp, "Unable to record %s event: %s", event.Kind, err)
	}
}

func (s *InjectorService) balance(ctx context.Context) (*big.Int, error) {
	balance, err := s.chain.BalanceOf(ctx, s.asset, s.self)
	if err != nil {
		return nil, fmt.Errorf("read balance of %s: %w", s.self, err)
	}
	return balance, nil
}

func (s *InjectorService) GetAccountInfo(id models.Address) models.Target {
	s.mu.RLock()
	defer s.mu.RUnlock()
	t, _ := s.schedule.Get(id)
	return t
}

func (s *InjectorService) GetWatchList() []models.Address {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.schedule.WatchList()
}

func (s *InjectorService) History(ctx context.Context, receiver models.Address, limit int) ([]models.Event, error) {
	return s.history.List(ctx, receiver, limit)
}

// Version changes whenever the schedule or settings change.
func (s *InjectorService) Version() uint64 {
	return s.version.Load()
}

func (s *InjectorService) Settings() models.Settings {
	return models.Settings{
		Asset:         s.asset,
		Self:          s.self,
		Owner:         s.owner,
		Keeper:        models.Address(s.keeper.Load()),
		MinWaitPeriod: s.minWait.Load(),
		Paused:        s.paused.Load(),
	}
}

func (s *InjectorService) GetSnapshot() *models.Storage {
	s.mu.RLock()
	defer s.mu.RUnlock()
	order, targets := s.schedule.Snapshot()
	return &models.Storage{
		Version:       models.StorageVersion,
		WatchList:     order,
		Targets:       targets,
		Paused:        s.paused.Load(),
		Keeper:        models.Address(s.keeper.Load()),
		MinWaitPeriod: int64(s.minWait.Load() / time.Second),
	}
}

// Restore loads a persisted snapshot. Keeper and wait period stored in the
// snapshot take precedence over the configured ones.
func (s *InjectorService) Restore(storage *models.Storage) error {
	if storage == nil {
		return nil
	}
	if storage.Version != models.StorageVersion {
		return fmt.Errorf("%w: unsupported version %d", models.ErrInvalidSnapshot, storage.Version)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if storage.Targets == nil {
		storage.Targets = make(map[models.Address]*models.Target)
	}
	if err := s.schedule.LoadSnapshot(storage.WatchList, storage.Targets); err != nil {
		return err
	}
	s.paused.Store(storage.Paused)
	if !storage.Keeper.IsZero() {
		s.keeper.Store(storage.Keeper.String())
	}
	if storage.MinWaitPeriod > 0 {
		s.minWait.Store(time.Duration(storage.MinWaitPeriod) * time.Second)
	}
	s.version.Inc()
	s.metrics.SetWatchListSize(s.schedule.Len())
	s.metrics.SetPaused(storage.Paused)
	return nil
}
