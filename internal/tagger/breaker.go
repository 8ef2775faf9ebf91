package tagger

import "time"

type breakerState int

const (
	stateArmed breakerState = iota
	stateFaulted
)

// breaker suspends writes and searches for a fixed window after a failure.
// It never retries anything itself.
type breaker struct {
	window       time.Duration
	faultedUntil time.Time
	now          func() time.Time
}

func newBreaker(window time.Duration) breaker {
	return breaker{window: window, now: time.Now}
}

func (b *breaker) trip() {
	b.faultedUntil = b.now().Add(b.window)
}

func (b *breaker) state() breakerState {
	if b.faultedUntil.IsZero() {
		return stateArmed
	}
	if !b.now().Before(b.faultedUntil) {
		b.faultedUntil = time.Time{}
		return stateArmed
	}
	return stateFaulted
}
