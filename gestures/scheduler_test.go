package gestures

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestVirtualClock_RunsTimersInOrder(t *testing.T) {
	clock := NewVirtualClock()

	var order []string
	clock.AfterFunc(300*time.Millisecond, func() { order = append(order, "c") })
	clock.AfterFunc(100*time.Millisecond, func() { order = append(order, "a") })
	clock.AfterFunc(100*time.Millisecond, func() { order = append(order, "b") })

	clock.Advance(250 * time.Millisecond)
	assert.Equal(t, []string{"a", "b"}, order)
	assert.Equal(t, 250*time.Millisecond, clock.Now())
	assert.Equal(t, 1, clock.Pending())

	clock.Advance(50 * time.Millisecond)
	assert.Equal(t, []string{"a", "b", "c"}, order)
	assert.Equal(t, 0, clock.Pending())
}

func TestVirtualClock_Stop(t *testing.T) {
	clock := NewVirtualClock()

	fired := false
	timer := clock.AfterFunc(time.Second, func() { fired = true })

	assert.True(t, timer.Stop())
	assert.False(t, timer.Stop())

	clock.Advance(2 * time.Second)
	assert.False(t, fired)
}

func TestVirtualClock_CallbackArmsTimer(t *testing.T) {
	clock := NewVirtualClock()

	var at []time.Duration
	clock.AfterFunc(100*time.Millisecond, func() {
		at = append(at, clock.Now())
		clock.AfterFunc(100*time.Millisecond, func() {
			at = append(at, clock.Now())
		})
	})

	clock.Advance(time.Second)
	assert.Equal(t, []time.Duration{100 * time.Millisecond, 200 * time.Millisecond}, at)
	assert.Equal(t, time.Second, clock.Now())
}

func TestVirtualClock_AdvanceToPast(t *testing.T) {
	clock := NewVirtualClock()
	clock.Advance(time.Second)
	clock.AdvanceTo(500 * time.Millisecond)

	assert.Equal(t, time.Second, clock.Now())
}

func TestSystemScheduler(t *testing.T) {
	done := make(chan struct{})
	SystemScheduler.AfterFunc(time.Millisecond, func() { close(done) })

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("timer did not fire")
	}

	stopped := SystemScheduler.AfterFunc(time.Hour, func() {})
	assert.True(t, stopped.Stop())
}
