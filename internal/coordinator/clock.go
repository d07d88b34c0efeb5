package coordinator

import (
	"time"

	"github.com/jonboulle/clockwork"
)

// Clock is the time source the Timer Engine depends on. Production code
// wires clockwork.NewRealClock(); tests wire clockwork.NewFakeClock() so
// countdown and podium-reveal scheduling can be driven deterministically
// without sleeping.
type Clock interface {
	Now() time.Time
	NewTimer(d time.Duration) clockwork.Timer
	NewTicker(d time.Duration) clockwork.Ticker
}

// realClock adapts clockwork.Clock (which already satisfies everything we
// need) so callers can depend on the narrower Clock interface above.
type realClock struct {
	clockwork.Clock
}

// NewRealClock returns the production Clock backed by the wall clock.
func NewRealClock() Clock {
	return realClock{Clock: clockwork.NewRealClock()}
}

// NewFakeClockAt returns a deterministic Clock for tests, starting at t.
func NewFakeClockAt(t time.Time) (Clock, clockwork.FakeClock) {
	fc := clockwork.NewFakeClockAt(t)
	return realClock{Clock: fc}, fc
}

func nowMillis(c Clock) int64 {
	return c.Now().UnixMilli()
}
