package service

import "time"

// Clock supplies "now" to everything with temporal logic, so tests can drive
// timer expiry deterministically instead of sleeping.
type Clock interface {
	Now() time.Time
}

type systemClock struct{}

func NewSystemClock() Clock {
	return systemClock{}
}

func (systemClock) Now() time.Time {
	return time.Now()
}
