package models

import "math/big"

// Target is the schedule state of a single receiver.
type Target struct {
	IsActive               bool     `json:"is_active"`
	AmountPerPeriod        *big.Int `json:"amount_per_period"`
	MaxPeriods             uint32   `json:"max_periods"`
	PeriodNumber           uint32   `json:"period_number"`
	LastInjectionTimestamp int64    `json:"last_injection_timestamp"`
}

func NewTarget(amount *big.Int, maxPeriods uint32) *Target {
	return &Target{
		IsActive:        true,
		AmountPerPeriod: new(big.Int).Set(amount),
		MaxPeriods:      maxPeriods,
	}
}

func (t *Target) Clone() Target {
	c := *t
	if t.AmountPerPeriod != nil {
		c.AmountPerPeriod = new(big.Int).Set(t.AmountPerPeriod)
	} else {
		c.AmountPerPeriod = new(big.Int)
	}
	return c
}

func (t *Target) Completed() bool {
	return t.PeriodNumber >= t.MaxPeriods
}

// Outstanding is the amount still owed to the receiver: (max - period) * amount.
func (t *Target) Outstanding() *big.Int {
	if t.Completed() || t.AmountPerPeriod == nil {
		return new(big.Int)
	}
	remaining := new(big.Int).SetUint64(uint64(t.MaxPeriods - t.PeriodNumber))
	return remaining.Mul(remaining, t.AmountPerPeriod)
}

// Advance records a successful injection at ts.
func (t *Target) Advance(ts int64) {
	if t.Completed() {
		return
	}
	t.PeriodNumber++
	t.LastInjectionTimestamp = ts
}
