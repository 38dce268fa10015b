package geocode

import (
	"context"
	"sync"
	"time"

	"github.com/jonboulle/clockwork"
)

// DefaultMinInterval is the spacing public geocoding services ask for.
const DefaultMinInterval = time.Second

// Limiter enforces a minimum spacing between the starts of consecutive
// provider calls. One Limiter is shared by every provider in a Chain.
type Limiter struct {
	mu       sync.Mutex
	clock    clockwork.Clock
	interval time.Duration
	last     time.Time
}

// NewLimiter returns a limiter with the given spacing. A nil clock uses the
// real clock.
func NewLimiter(interval time.Duration, clock clockwork.Clock) *Limiter {
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	return &Limiter{clock: clock, interval: interval}
}

// Wait blocks until a call may start, then claims the slot. Waiters are
// served one at a time. Returns ctx.Err() if ctx ends first; the slot is not
// claimed in that case.
func (l *Limiter) Wait(ctx context.Context) error {
	if l == nil {
		return nil
	}
	l.mu.Lock()
	defer l.mu.Unlock()

	if !l.last.IsZero() {
		if wait := l.last.Add(l.interval).Sub(l.clock.Now()); wait > 0 {
			if err := sleepWithContext(ctx, l.clock, wait); err != nil {
				return err
			}
		}
	}
	l.last = l.clock.Now()
	return nil
}

func sleepWithContext(ctx context.Context, clock clockwork.Clock, d time.Duration) error {
	timer := clock.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.Chan():
		return nil
	}
}
