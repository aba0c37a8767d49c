package models

import (
	"fmt"
	"math/big"
)

// Schedule is the ordered watch list together with the per-receiver targets.
// Entries deactivated by a replacement stay in targets until the same
// receiver is registered again. Schedule is not safe for concurrent use.
type Schedule struct {
	order   []Address
	targets map[Address]*Target
}

func NewSchedule() *Schedule {
	return &Schedule{
		targets: make(map[Address]*Target),
	}
}

// ValidateRecipientList checks list input without touching any schedule.
func ValidateRecipientList(ids []Address, amounts []*big.Int, maxPeriods []uint32) error {
	if len(ids) != len(amounts) || len(ids) != len(maxPeriods) {
		return fmt.Errorf("%w: input lengths differ (%d ids, %d amounts, %d periods)",
			ErrValidation, len(ids), len(amounts), len(maxPeriods))
	}
	seen := make(map[Address]struct{}, len(ids))
	for i, id := range ids {
		if id.IsZero() {
			return fmt.Errorf("%w: zero receiver at index %d", ErrValidation, i)
		}
		if amounts[i] == nil || amounts[i].Sign() <= 0 {
			return fmt.Errorf("%w: amount for %s must be positive", ErrValidation, id)
		}
		if _, ok := seen[id]; ok {
			return fmt.Errorf("%w: %s", ErrDuplicateEntry, id)
		}
		seen[id] = struct{}{}
	}
	return nil
}

// Replace deactivates every active entry and installs the new generation.
// The input must already have passed ValidateRecipientList.
func (s *Schedule) Replace(ids []Address, amounts []*big.Int, maxPeriods []uint32) {
	for _, id := range s.order {
		if t, ok := s.targets[id]; ok {
			t.IsActive = false
		}
	}
	s.order = make([]Address, len(ids))
	for i, id := range ids {
		s.targets[id] = NewTarget(amounts[i], maxPeriods[i])
		s.order[i] = id
	}
}

// WatchList returns the active receivers in registration order.
func (s *Schedule) WatchList() []Address {
	out := make([]Address, len(s.order))
	copy(out, s.order)
	return out
}

func (s *Schedule) Len() int {
	return len(s.order)
}

// Get returns a copy of the target for id, active or not.
func (s *Schedule) Get(id Address) (Target, bool) {
	t, ok := s.targets[id]
	if !ok {
		return Target{AmountPerPeriod: new(big.Int)}, false
	}
	return t.Clone(), true
}

// Active returns the live target for id if it belongs to the current generation.
func (s *Schedule) Active(id Address) (*Target, bool) {
	t, ok := s.targets[id]
	if !ok || !t.IsActive {
		return nil, false
	}
	return t, true
}

// Each visits the active targets in registration order.
func (s *Schedule) Each(fn func(id Address, t *Target) bool) {
	for _, id := range s.order {
		if !fn(id, s.targets[id]) {
			return
		}
	}
}

// AllFinished reports whether every active target has used all of its periods.
func (s *Schedule) AllFinished() (Address, bool) {
	for _, id := range s.order {
		if !s.targets[id].Completed() {
			return id, false
		}
	}
	return "", true
}

// Outstanding sums the remaining obligation over the active targets.
func (s *Schedule) Outstanding() *big.Int {
	total := new(big.Int)
	for _, id := range s.order {
		total.Add(total, s.targets[id].Outstanding())
	}
	return total
}

// Obligation is the total a freshly registered list would owe.
func Obligation(amounts []*big.Int, maxPeriods []uint32) *big.Int {
	total := new(big.Int)
	for i, amount := range amounts {
		part := new(big.Int).SetUint64(uint64(maxPeriods[i]))
		total.Add(total, part.Mul(part, amount))
	}
	return total
}

func (s *Schedule) Snapshot() ([]Address, map[Address]*Target) {
	targets := make(map[Address]*Target, len(s.targets))
	for id, t := range s.targets {
		c := t.Clone()
		targets[id] = &c
	}
	return s.WatchList(), targets
}

// LoadSnapshot replaces the schedule contents after checking the store invariants.
func (s *Schedule) LoadSnapshot(order []Address, targets map[Address]*Target) error {
	active := 0
	seen := make(map[Address]struct{}, len(order))
	for _, id := range order {
		if _, ok := seen[id]; ok {
			return fmt.Errorf("%w: %s listed twice", ErrInvalidSnapshot, id)
		}
		seen[id] = struct{}{}
		t, ok := targets[id]
		if !ok || t == nil || !t.IsActive {
			return fmt.Errorf("%w: %s listed but not active", ErrInvalidSnapshot, id)
		}
		if t.AmountPerPeriod == nil || t.AmountPerPeriod.Sign() <= 0 {
			return fmt.Errorf("%w: %s has no amount", ErrInvalidSnapshot, id)
		}
	}
	for id, t := range targets {
		if t == nil {
			return fmt.Errorf("%w: %s has no record", ErrInvalidSnapshot, id)
		}
		if t.PeriodNumber > t.MaxPeriods {
			return fmt.Errorf("%w: %s period %d exceeds max %d", ErrInvalidSnapshot, id, t.PeriodNumber, t.MaxPeriods)
		}
		if t.IsActive {
			active++
		}
		if t.AmountPerPeriod == nil {
			t.AmountPerPeriod = new(big.Int)
		}
	}
	if active != len(order) {
		return fmt.Errorf("%w: %d active records but %d listed", ErrInvalidSnapshot, active, len(order))
	}

	s.order = make([]Address, len(order))
	copy(s.order, order)
	s.targets = make(map[Address]*Target, len(targets))
	for id, t := range targets {
		c := t.Clone()
		s.targets[id] = &c
	}
	return nil
}
