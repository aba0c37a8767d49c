package services

import (
	"context"
	"fmt"
	"math/big"
	"time"

	json "github.com/goccy/go-json"

	"github.com/rabmarut/ChildChainGaugeInjector/internal/models"
	"github.com/rabmarut/ChildChainGaugeInjector/internal/providers"
)

func (s *InjectorService) minWaitSeconds() int64 {
	return int64(s.minWait.Load() / time.Second)
}

// ready evaluates the five readiness conditions for one receiver against
// balance, which is the amount still uncommitted in the caller's pass.
// now and minWait are read once per pass. The epoch oracle is consulted last.
func (s *InjectorService) ready(ctx context.Context, id models.Address, t *models.Target, now, minWait int64, balance *big.Int) bool {
	if now-t.LastInjectionTimestamp < minWait {
		return false
	}
	if t.Completed() {
		return false
	}
	if balance.Cmp(t.AmountPerPeriod) < 0 {
		return false
	}

	state, err := s.chain.EpochState(ctx, id, s.asset)
	if err != nil {
		s.logger.Warnf(providers.TypeChain, "Epoch state of %s unavailable: %s", id, err)
		return false
	}
	if state.EpochEnd > now {
		return false
	}
	return state.Distributor == s.self
}

// GetReadyReceivers lists, in registration order, the receivers that could be
// injected now. The summed amounts never exceed the balance read at the start.
func (s *InjectorService) GetReadyReceivers(ctx context.Context) ([]models.Address, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	balance, err := s.balance(ctx)
	if err != nil {
		return nil, err
	}
	now := s.clock.Now().Unix()
	minWait := s.minWaitSeconds()

	ready := make([]models.Address, 0)
	s.schedule.Each(func(id models.Address, t *models.Target) bool {
		if s.ready(ctx, id, t, now, minWait, balance) {
			ready = append(ready, id)
			balance.Sub(balance, t.AmountPerPeriod)
		}
		return true
	})

	s.metrics.SetReadyReceivers(len(ready))
	return ready, nil
}

// CheckUpkeep is the keeper's read-only query. checkData is ignored.
func (s *InjectorService) CheckUpkeep(ctx context.Context, _ []byte) (bool, []byte, error) {
	if s.paused.Load() {
		return false, nil, models.ErrPaused
	}
	ready, err := s.GetReadyReceivers(ctx)
	if err != nil {
		return false, nil, err
	}
	payload, err := EncodeUpkeepPayload(ready)
	if err != nil {
		return false, nil, err
	}
	return len(ready) > 0, payload, nil
}

func EncodeUpkeepPayload(receivers []models.Address) ([]byte, error) {
	if receivers == nil {
		receivers = []models.Address{}
	}
	return json.Marshal(receivers)
}

func DecodeUpkeepPayload(payload []byte) ([]models.Address, error) {
	var receivers []models.Address
	if err := json.Unmarshal(payload, &receivers); err != nil {
		return nil, fmt.Errorf("%w: malformed upkeep payload: %v", models.ErrValidation, err)
	}
	for i, r := range receivers {
		receivers[i] = models.NewAddress(r.String())
	}
	return receivers, nil
}
