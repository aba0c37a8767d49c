package services

import (
	"context"
	"fmt"
	"math/big"
	"time"

	"github.com/rabmarut/ChildChainGaugeInjector/internal/models"
	"github.com/rabmarut/ChildChainGaugeInjector/internal/providers"
)

func (s *InjectorService) Pause(ctx context.Context, caller models.Address) error {
	return s.setPaused(ctx, caller, true)
}

func (s *InjectorService) Unpause(ctx context.Context, caller models.Address) error {
	return s.setPaused(ctx, caller, false)
}

func (s *InjectorService) setPaused(ctx context.Context, caller models.Address, paused bool) error {
	if err := s.onlyOwner(caller); err != nil {
		return err
	}
	if s.paused.Swap(paused) == paused {
		return nil
	}
	s.version.Inc()
	s.metrics.SetPaused(paused)

	kind := models.EventUnpaused
	if paused {
		kind = models.EventPaused
	}
	s.logger.Warnf(providers.TypeInjector, "Injector %s by %s", kind, caller)
	s.record(ctx, models.Event{Kind: kind, Detail: caller.String()})
	return nil
}

// Sweep transfers the whole balance of asset held by the injector to to.
// Sweeping the injected asset is how a surplus blocking a validated list
// replacement gets removed.
func (s *InjectorService) Sweep(ctx context.Context, caller, asset, to models.Address) (*big.Int, error) {
	if err := s.onlyOwner(caller); err != nil {
		return nil, err
	}
	if to.IsZero() {
		return nil, fmt.Errorf("%w: sweep destination is zero", models.ErrValidation)
	}
	asset = s.orDefaultAsset(asset)

	s.mu.Lock()
	defer s.mu.Unlock()

	balance, err := s.chain.BalanceOf(ctx, asset, s.self)
	if err != nil {
		return nil, fmt.Errorf("read balance of %s: %w", asset, err)
	}
	if balance.Sign() == 0 {
		return balance, nil
	}
	if err := s.chain.Transfer(ctx, asset, s.self, to, balance); err != nil {
		return nil, fmt.Errorf("sweep %s: %w", asset, err)
	}

	s.logger.Infof(providers.TypeInjector, "Swept %s of %s to %s", balance, asset, to)
	s.record(ctx, models.Event{Kind: models.EventSweep, Receiver: to, Amount: balance.String(), Detail: asset.String()})
	return balance, nil
}

// orDefaultAsset lets owner operations name any reward token, defaulting to
// the injected one.
func (s *InjectorService) orDefaultAsset(asset models.Address) models.Address {
	if asset == "" {
		return s.asset
	}
	return asset
}

// SetDistributorToOwner hands the receiver's distributor role for asset back
// to the owner. An empty asset means the injected one.
func (s *InjectorService) SetDistributorToOwner(ctx context.Context, caller, receiver, asset models.Address) error {
	if err := s.onlyOwner(caller); err != nil {
		return err
	}
	asset = s.orDefaultAsset(asset)

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.chain.SetDistributor(ctx, receiver, asset, s.self, s.owner); err != nil {
		return &models.ExternalCallError{Receiver: receiver, Err: err}
	}
	s.logger.Infof(providers.TypeInjector, "Distributor of %s for %s set to owner %s", receiver, asset, s.owner)
	return nil
}

// ManualDeposit injects amount of asset into receiver outside of any
// schedule. Schedule state is not touched. An empty asset means the injected one.
func (s *InjectorService) ManualDeposit(ctx context.Context, caller, receiver, asset models.Address, amount *big.Int) error {
	if err := s.onlyOwner(caller); err != nil {
		return err
	}
	if amount == nil || amount.Sign() <= 0 {
		return fmt.Errorf("%w: deposit amount must be positive", models.ErrValidation)
	}

	asset = s.orDefaultAsset(asset)

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.inject(ctx, receiver, asset, amount); err != nil {
		return &models.ExternalCallError{Receiver: receiver, Err: err}
	}
	s.logger.Infof(providers.TypeInjector, "Manual deposit of %s %s into %s", amount, asset, receiver)
	s.record(ctx, models.Event{Kind: models.EventManualDeposit, Receiver: receiver, Amount: amount.String(), Detail: asset.String()})
	return nil
}

func (s *InjectorService) SetMinWaitPeriod(caller models.Address, period time.Duration) error {
	if err := s.onlyOwner(caller); err != nil {
		return err
	}
	if period < 0 {
		return fmt.Errorf("%w: negative wait period", models.ErrValidation)
	}
	// Waits for any readiness pass or batch in flight to finish first.
	s.mu.Lock()
	defer s.mu.Unlock()
	s.minWait.Store(period)
	s.version.Inc()
	s.logger.Infof(providers.TypeInjector, "Minimum wait period set to %s", period)
	return nil
}

func (s *InjectorService) SetKeeperAddress(caller, keeper models.Address) error {
	if err := s.onlyOwner(caller); err != nil {
		return err
	}
	if keeper.IsZero() {
		return fmt.Errorf("%w: keeper address is zero", models.ErrValidation)
	}
	old := s.keeper.Swap(keeper.String())
	s.version.Inc()
	s.logger.Infof(providers.TypeInjector, "Keeper changed from %s to %s", old, keeper)
	return nil
}
