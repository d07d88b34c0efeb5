package coordinator

import (
	"time"

	"github.com/leo-ars/cfhoot/internal/domain"
)

// countdown is the single active per-second ticker a Coordinator may have
// running at once (invariant: at most one active timer per coordinator).
// The goroutine below only ever posts events into the mailbox; it never
// touches c.state directly.
type countdown struct {
	stop chan struct{}
}

// startCountdown begins ticking once per second from remaining seconds,
// delivering each tick as a mailbox event. Any previously active countdown
// is cancelled first, preserving the single-timer invariant.
func (c *Coordinator) startCountdown(remaining int) {
	c.cancelCountdown()

	c.state.TimerPaused = false
	c.state.PausedAtSecondsLeft = 0
	secondsLeft := remaining
	stop := make(chan struct{})
	c.countdown = &countdown{stop: stop}

	ticker := c.clock.NewTicker(time.Second)
	go func() {
		defer ticker.Stop()
		for {
			select {
			case <-ticker.Chan():
				left := secondsLeft
				secondsLeft--
				c.Post(func() {
					c.onTick(stop, left-1)
				})
			case <-stop:
				return
			case <-c.stopCh:
				return
			}
		}
	}()
}

// onTick runs inside the mailbox. stop identifies which countdown goroutine
// this tick came from, so a tick from a cancelled countdown that raced into
// the inbox before its goroutine noticed cancellation is a harmless no-op.
func (c *Coordinator) onTick(stop chan struct{}, secondsLeft int) {
	if c.countdown == nil || c.countdown.stop != stop {
		return
	}
	if secondsLeft > 0 {
		c.broadcast(OutboundMessage{Type: "timer_tick", Payload: timerTickPayload{SecondsLeft: secondsLeft}})
		return
	}
	c.endQuestion()
}

func (c *Coordinator) cancelCountdown() {
	if c.countdown != nil {
		close(c.countdown.stop)
		c.countdown = nil
	}
}

// pauseCountdown stops the ticker and remembers where it left off.
// Triggered on host disconnect.
func (c *Coordinator) pauseCountdown(secondsLeft int) {
	c.cancelCountdown()
	c.state.TimerPaused = true
	c.state.PausedAtSecondsLeft = secondsLeft
}

// resumeCountdown restarts the ticker from where pauseCountdown left off,
// or ends the question immediately if time had already run out while
// paused.
func (c *Coordinator) resumeCountdown() {
	if !c.state.TimerPaused || c.state.Phase != domain.PhaseQuestion {
		return
	}
	remaining := c.state.PausedAtSecondsLeft
	if remaining <= 0 {
		c.state.TimerPaused = false
		c.endQuestion()
		return
	}
	c.startCountdown(remaining)
	c.broadcast(OutboundMessage{Type: "timer_tick", Payload: timerTickPayload{SecondsLeft: remaining}})
}

// restartCountdownAfterEviction handles a client connecting mid-question
// with no timer running and none paused (e.g. after the coordinator was
// evicted and rebuilt from a persisted snapshot): it reconstructs the
// remaining time from the stored wall-clock start instead of resetting the
// full duration. timerStarting guards against two concurrent admits both
// trying to start a ticker; harmless under the single-writer mailbox but
// kept as an explicit invariant rather than relying on incidental ordering.
func (c *Coordinator) restartCountdownAfterEviction() {
	if c.countdown != nil || c.state.TimerPaused || c.timerStarting {
		return
	}
	q := c.state.CurrentQuestion()
	if q == nil {
		return
	}
	c.timerStarting = true
	defer func() { c.timerStarting = false }()

	elapsedMillis := nowMillis(c.clock) - c.state.QuestionStartTime
	remaining := q.TimerSeconds - int(elapsedMillis/1000)
	if remaining <= 0 {
		c.endQuestion()
		return
	}
	c.startCountdown(remaining)
}

// currentSecondsLeftForCatchUp computes the remaining seconds a freshly
// connecting client should be told, without mutating any timer state.
func (c *Coordinator) currentSecondsLeftForCatchUp() int {
	if c.state.TimerPaused {
		return c.state.PausedAtSecondsLeft
	}
	q := c.state.CurrentQuestion()
	if q == nil {
		return 0
	}
	elapsedMillis := nowMillis(c.clock) - c.state.QuestionStartTime
	remaining := q.TimerSeconds - int(elapsedMillis/1000)
	if remaining < 0 {
		remaining = 0
	}
	return remaining
}

// after schedules fn to run inside the mailbox after d: the 3-second delay
// after question end and the 1/3/5-second podium reveals both go through
// this so delayed transitions are posted as ordinary mailbox events rather
// than racing c.state from another goroutine.
func (c *Coordinator) after(d time.Duration, fn func()) {
	timer := c.clock.NewTimer(d)
	go func() {
		select {
		case <-timer.Chan():
			c.Post(fn)
		case <-c.stopCh:
			timer.Stop()
		}
	}()
}
