package models

import "time"

type EventKind string

const (
	EventInjectionSucceeded EventKind = "injection_succeeded"
	EventInjectionFailed    EventKind = "injection_failed"
	EventListReplaced       EventKind = "recipient_list_replaced"
	EventManualDeposit      EventKind = "manual_deposit"
	EventSweep              EventKind = "sweep"
	EventPaused             EventKind = "paused"
	EventUnpaused           EventKind = "unpaused"
)

// Event is one entry of the injection history.
type Event struct {
	ID         int64     `json:"id"`
	Kind       EventKind `json:"kind"`
	Receiver   Address   `json:"receiver,omitempty"`
	Amount     string    `json:"amount,omitempty"`
	Period     uint32    `json:"period,omitempty"`
	Detail     string    `json:"detail,omitempty"`
	OccurredAt time.Time `json:"occurred_at"`
}
