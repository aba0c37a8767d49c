package providers

import "time"

type ClockInterface interface {
	Now() time.Time
}

type systemClock struct{}

func (systemClock) Now() time.Time { return time.Now() }

func NewClockProvider() ClockInterface {
	return systemClock{}
}
