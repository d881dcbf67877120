package arbor

import "time"

// Timer is a pending callback scheduled on a Clock.
type Timer interface {
	// Stop cancels the callback. It reports whether the call stopped the
	// timer; false means it already fired or was stopped.
	Stop() bool
}

// Clock schedules deferred callbacks.
type Clock interface {
	AfterFunc(d time.Duration, fn func()) Timer
}

// frameClock is a Clock advanced by frame deltas. Callbacks run on the
// goroutine that advances it, in deadline order.
type frameClock struct {
	now    time.Duration
	timers []*frameTimer
}

type frameTimer struct {
	at    time.Duration
	fn    func()
	clock *frameClock
	done  bool
}

// AfterFunc schedules fn to run once the clock has advanced by d.
// A non-positive d fires on the next advance.
func (c *frameClock) AfterFunc(d time.Duration, fn func()) Timer {
	t := &frameTimer{at: c.now + d, fn: fn, clock: c}
	// Keep timers sorted by deadline; equal deadlines keep scheduling order.
	i := len(c.timers)
	for i > 0 && c.timers[i-1].at > t.at {
		i--
	}
	c.timers = append(c.timers, nil)
	copy(c.timers[i+1:], c.timers[i:])
	c.timers[i] = t
	return t
}

// Now returns the total time advanced so far.
func (c *frameClock) Now() time.Duration {
	return c.now
}

// Pending returns the number of timers waiting to fire.
func (c *frameClock) Pending() int {
	return len(c.timers)
}

// advance moves the clock forward and fires every due timer. Timers
// scheduled by a firing callback wait for a later advance.
func (c *frameClock) advance(dt time.Duration) {
	c.now += dt
	n := 0
	for n < len(c.timers) && c.timers[n].at <= c.now {
		n++
	}
	if n == 0 {
		return
	}
	due := make([]*frameTimer, n)
	copy(due, c.timers[:n])
	copy(c.timers, c.timers[n:])
	for i := len(c.timers) - n; i < len(c.timers); i++ {
		c.timers[i] = nil
	}
	c.timers = c.timers[:len(c.timers)-n]

	for _, t := range due {
		if t.done {
			continue
		}
		t.done = true
		t.fn()
	}
}

func (t *frameTimer) Stop() bool {
	if t.done {
		return false
	}
	t.done = true
	c := t.clock
	for i, x := range c.timers {
		if x == t {
			copy(c.timers[i:], c.timers[i+1:])
			c.timers[len(c.timers)-1] = nil
			c.timers = c.timers[:len(c.timers)-1]
			break
		}
	}
	return true
}
