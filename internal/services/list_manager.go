package services

import (
	"context"
	"fmt"
	"math/big"

	"github.com/rabmarut/ChildChainGaugeInjector/internal/models"
	"github.com/rabmarut/ChildChainGaugeInjector/internal/providers"
)

// SetRecipientList replaces the whole watch list. Input is validated before
// anything changes, so a rejected call leaves the previous generation intact.
func (s *InjectorService) SetRecipientList(ctx context.Context, caller models.Address, ids []models.Address, amounts []*big.Int, maxPeriods []uint32) error {
	if err := s.onlyOwner(caller); err != nil {
		return err
	}
	if err := models.ValidateRecipientList(ids, amounts, maxPeriods); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.replace(ctx, ids, amounts, maxPeriods)
	return nil
}

// SetValidatedRecipientList replaces the watch list only when every active
// receiver has used all of its periods and the held balance equals the new
// generation's total obligation exactly. All checks run before the commit.
func (s *InjectorService) SetValidatedRecipientList(ctx context.Context, caller models.Address, ids []models.Address, amounts []*big.Int, maxPeriods []uint32) error {
	if err := s.onlyOwner(caller); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if id, done := s.schedule.AllFinished(); !done {
		return fmt.Errorf("%w: %s has periods remaining", models.ErrNotFinished, id)
	}
	if err := models.ValidateRecipientList(ids, amounts, maxPeriods); err != nil {
		return err
	}
	balance, err := s.balance(ctx)
	if err != nil {
		return err
	}
	obligation := models.Obligation(amounts, maxPeriods)
	if balance.Cmp(obligation) != 0 {
		return fmt.Errorf("%w: new schedule needs %s, balance is %s", models.ErrBalanceMismatch, obligation, balance)
	}

	s.replace(ctx, ids, amounts, maxPeriods)
	return nil
}

func (s *InjectorService) replace(ctx context.Context, ids []models.Address, amounts []*big.Int, maxPeriods []uint32) {
	s.schedule.Replace(ids, amounts, maxPeriods)
	s.version.Inc()
	s.metrics.SetWatchListSize(len(ids))

	obligation := models.Obligation(amounts, maxPeriods)
	s.logger.Infof(providers.TypeInjector, "Recipient list replaced: %d receivers, obligation %s", len(ids), obligation)
	s.record(ctx, models.Event{
		Kind:   models.EventListReplaced,
		Amount: obligation.String(),
		Detail: fmt.Sprintf("%d receivers", len(ids)),
	})
}

// CheckBalancesMatch compares the outstanding obligation of the active
// receivers with the held balance. Any stray incoming transfer makes this
// false until the surplus is swept.
func (s *InjectorService) CheckBalancesMatch(ctx context.Context) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	balance, err := s.balance(ctx)
	if err != nil {
		return false, err
	}
	return s.schedule.Outstanding().Cmp(balance) == 0, nil
}
