package gestures

import (
	"sort"
	"sync"
	"time"
)

// Timer is a pending delayed call. Stop reports whether the call was
// prevented.
type Timer interface {
	Stop() bool
}

// Scheduler arms delayed calls. The classifier uses it for the long-press
// timer so traces and tests can run on a virtual clock.
type Scheduler interface {
	AfterFunc(d time.Duration, f func()) Timer
}

type systemScheduler struct{}

func (systemScheduler) AfterFunc(d time.Duration, f func()) Timer {
	return time.AfterFunc(d, f)
}

// SystemScheduler runs timers on the wall clock
var SystemScheduler Scheduler = systemScheduler{}

// VirtualClock is a Scheduler whose time only moves when Advance or
// AdvanceTo is called. Due timers run on the caller's goroutine.
type VirtualClock struct {
	mu     sync.Mutex
	now    time.Duration
	seq    uint64
	timers []*virtualTimer
}

type virtualTimer struct {
	clock *VirtualClock
	at    time.Duration
	seq   uint64
	f     func()
}

func NewVirtualClock() *VirtualClock {
	return &VirtualClock{}
}

// Now returns the elapsed virtual time
func (c *VirtualClock) Now() time.Duration {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

// Pending returns the number of armed timers
func (c *VirtualClock) Pending() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.timers)
}

func (c *VirtualClock) AfterFunc(d time.Duration, f func()) Timer {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.seq++
	t := &virtualTimer{clock: c, at: c.now + d, seq: c.seq, f: f}
	c.timers = append(c.timers, t)
	return t
}

// Advance moves the clock forward by d
func (c *VirtualClock) Advance(d time.Duration) {
	c.AdvanceTo(c.Now() + d)
}

// AdvanceTo moves the clock to t, running every timer due at or before t in
// deadline order. Moving backwards is a no-op.
func (c *VirtualClock) AdvanceTo(t time.Duration) {
	for {
		c.mu.Lock()
		if t < c.now {
			c.mu.Unlock()
			return
		}

		next := c.nextDueLocked(t)
		if next == nil {
			c.now = t
			c.mu.Unlock()
			return
		}

		c.removeLocked(next)
		c.now = next.at
		c.mu.Unlock()

		// run unlocked, the callback may arm new timers
		next.f()
	}
}

func (c *VirtualClock) nextDueLocked(t time.Duration) *virtualTimer {
	if len(c.timers) == 0 {
		return nil
	}

	sort.Slice(c.timers, func(i, j int) bool {
		if c.timers[i].at == c.timers[j].at {
			return c.timers[i].seq < c.timers[j].seq
		}
		return c.timers[i].at < c.timers[j].at
	})

	if c.timers[0].at > t {
		return nil
	}
	return c.timers[0]
}

func (c *VirtualClock) removeLocked(t *virtualTimer) bool {
	for i, candidate := range c.timers {
		if candidate == t {
			c.timers = append(c.timers[:i], c.timers[i+1:]...)
			return true
		}
	}
	return false
}

func (t *virtualTimer) Stop() bool {
	t.clock.mu.Lock()
	defer t.clock.mu.Unlock()
	return t.clock.removeLocked(t)
}
