package mail

import (
	"context"

	"golang.org/x/sync/semaphore"
	"golang.org/x/time/rate"
)

// throttle bounds both the send rate and the number of sends in flight.
// Waiting callers block until a slot frees up or ctx ends; nothing is queued
// beyond them and nothing is retried.
type throttle struct {
	rl  *rate.Limiter
	sem *semaphore.Weighted
}

func newThrottle(perSec, inFlight int) *throttle {
	if perSec <= 0 {
		perSec = 5
	}
	if inFlight <= 0 {
		inFlight = 4
	}
	return &throttle{
		rl:  rate.NewLimiter(rate.Limit(perSec), perSec),
		sem: semaphore.NewWeighted(int64(inFlight)),
	}
}

func (t *throttle) acquire(ctx context.Context) (release func(), err error) {
	if err := t.sem.Acquire(ctx, 1); err != nil {
		return nil, err
	}
	if err := t.rl.Wait(ctx); err != nil {
		t.sem.Release(1)
		return nil, err
	}
	return func() { t.sem.Release(1) }, nil
}
