package services

import (
	"context"
	"fmt"
	"math/big"

	"github.com/rabmarut/ChildChainGaugeInjector/internal/models"
	"github.com/rabmarut/ChildChainGaugeInjector/internal/providers"
)

// PerformUpkeep executes a payload previously produced by CheckUpkeep.
func (s *InjectorService) PerformUpkeep(ctx context.Context, caller models.Address, performData []byte) (*models.InjectionReport, error) {
	if err := s.onlyKeeper(caller); err != nil {
		return nil, err
	}
	candidates, err := DecodeUpkeepPayload(performData)
	if err != nil {
		return nil, err
	}
	return s.ExecuteInjections(ctx, caller, candidates)
}

// ExecuteInjections injects the candidates that are still ready, in the given
// order. Candidates are untrusted: each one must be an active receiver and
// pass every readiness condition against live state and the actual balance.
// Candidates that do not are skipped. The first receiver that rejects its
// deposit aborts the batch: injections already made stay applied, the
// remaining candidates are not attempted and an *models.ExternalCallError
// naming that receiver is returned together with the report.
func (s *InjectorService) ExecuteInjections(ctx context.Context, caller models.Address, candidates []models.Address) (*models.InjectionReport, error) {
	if err := s.onlyKeeper(caller); err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.paused.Load() {
		return nil, models.ErrPaused
	}

	report := models.NewInjectionReport()
	balance, err := s.balance(ctx)
	if err != nil {
		return report, err
	}
	now := s.clock.Now().Unix()
	minWait := s.minWaitSeconds()

	injected := false
	defer func() {
		if injected {
			s.version.Inc()
		}
	}()

	seen := make(map[models.Address]struct{}, len(candidates))
	for i, id := range candidates {
		_, dup := seen[id]
		seen[id] = struct{}{}

		t, ok := s.schedule.Active(id)
		if dup || !ok || !s.ready(ctx, id, t, now, minWait, balance) {
			report.Skipped = append(report.Skipped, id)
			s.metrics.IncInjections(providers.InjectionSkipped)
			continue
		}

		amount := new(big.Int).Set(t.AmountPerPeriod)
		if err := s.inject(ctx, id, s.asset, amount); err != nil {
			report.Failed = id
			report.Aborted = append([]models.Address{}, candidates[i+1:]...)
			s.metrics.IncInjections(providers.InjectionFailed)
			s.logger.Errorf(providers.TypeInjector, "Injection of %s into %s failed, aborting %d remaining: %s",
				amount, id, len(report.Aborted), err)
			s.record(ctx, models.Event{
				Kind:     models.EventInjectionFailed,
				Receiver: id,
				Amount:   amount.String(),
				Period:   t.PeriodNumber,
				Detail:   err.Error(),
			})
			return report, &models.ExternalCallError{Receiver: id, Err: err}
		}

		t.Advance(now)
		balance.Sub(balance, amount)
		injected = true
		report.Injected = append(report.Injected, id)

		s.metrics.IncInjections(providers.InjectionSucceeded)
		s.logger.Infof(providers.TypeInjector, "Injected %s into %s, period %d/%d", amount, id, t.PeriodNumber, t.MaxPeriods)
		s.record(ctx, models.Event{
			Kind:     models.EventInjectionSucceeded,
			Receiver: id,
			Amount:   amount.String(),
			Period:   t.PeriodNumber,
		})
	}
	return report, nil
}

// inject approves the receiver to pull amount of asset and calls its deposit
// entry point. A rejected deposit has its approval withdrawn.
func (s *InjectorService) inject(ctx context.Context, receiver, asset models.Address, amount *big.Int) error {
	if err := s.chain.Approve(ctx, asset, s.self, receiver, amount); err != nil {
		return fmt.Errorf("approve: %w", err)
	}
	if err := s.chain.DepositReward(ctx, receiver, asset, s.self, amount); err != nil {
		if rerr := s.chain.Approve(ctx, asset, s.self, receiver, new(big.Int)); rerr != nil {
			s.logger.Warnf(providers.TypeChain, "Unable to revoke approval of %s: %s", receiver, rerr)
		}
		return fmt.Errorf("deposit: %w", err)
	}
	return nil
}
