package models

import "time"

// Settings is the runtime configuration exposed to operators.
type Settings struct {
	Asset         Address       `json:"asset"`
	Self          Address       `json:"self"`
	Owner         Address       `json:"owner"`
	Keeper        Address       `json:"keeper"`
	MinWaitPeriod time.Duration `json:"min_wait_period"`
	Paused        bool          `json:"paused"`
}
