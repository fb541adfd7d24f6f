package gestures

import (
	"math"
	"sync"
)

// Handlers are the per-gesture callbacks. Nil entries are skipped.
type Handlers struct {
	OnFlickRight func()
	OnFlickLeft  func()
	OnDoubleTap  func()
	OnLongPress  func()
	OnSwipeUp    func()
	OnSwipeDown  func()
}

// HandlerFunc builds Handlers that route every gesture to fn
func HandlerFunc(fn func(Kind)) Handlers {
	return Handlers{
		OnFlickRight: func() { fn(KindFlickRight) },
		OnFlickLeft:  func() { fn(KindFlickLeft) },
		OnDoubleTap:  func() { fn(KindDoubleTap) },
		OnLongPress:  func() { fn(KindLongPress) },
		OnSwipeUp:    func() { fn(KindSwipeUp) },
		OnSwipeDown:  func() { fn(KindSwipeDown) },
	}
}

func (h Handlers) handler(kind Kind) func() {
	switch kind {
	case KindFlickRight:
		return h.OnFlickRight
	case KindFlickLeft:
		return h.OnFlickLeft
	case KindDoubleTap:
		return h.OnDoubleTap
	case KindLongPress:
		return h.OnLongPress
	case KindSwipeUp:
		return h.OnSwipeUp
	case KindSwipeDown:
		return h.OnSwipeDown
	}
	return nil
}

// Option customizes a Classifier
type Option func(*Classifier)

// WithScheduler replaces the wall-clock scheduler used for long-press timers
func WithScheduler(s Scheduler) Option {
	return func(c *Classifier) {
		c.scheduler = s
	}
}

// WithListener registers fn to receive every detection along with the
// sample that produced it. It runs after the matching Handlers entry.
func WithListener(fn func(Detection)) Option {
	return func(c *Classifier) {
		c.listener = fn
	}
}

// interaction is the state of one pointer-down .. pointer-up sequence
type interaction struct {
	start          PointerSample
	longPressFired bool
}

// Classifier turns start/move/end samples of a single pointer into gestures.
//
// Callbacks run while the classifier lock is held, either on the goroutine
// that called End or on the long-press timer goroutine. They must not call
// back into the same Classifier.
type Classifier struct {
	mu        sync.Mutex
	cfg       Config
	handlers  Handlers
	listener  func(Detection)
	scheduler Scheduler

	current    *interaction
	timer      Timer
	generation uint64

	// carried across interactions for double-tap detection
	lastTapMs  int64
	hasLastTap bool
	tapCount   int

	disposed bool
}

// NewClassifier creates a classifier. Zero-valued thresholds in cfg fall
// back to their defaults.
func NewClassifier(cfg Config, handlers Handlers, opts ...Option) *Classifier {
	c := &Classifier{
		cfg:       cfg.withDefaults(),
		handlers:  handlers,
		scheduler: SystemScheduler,
	}

	for _, opt := range opts {
		opt(c)
	}

	return c
}

// Config returns the thresholds in effect
func (c *Classifier) Config() Config {
	return c.cfg
}

// Start begins an interaction and arms the long-press timer. Any timer left
// over from an unfinished interaction is cancelled first.
func (c *Classifier) Start(sample PointerSample) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.disposed {
		return
	}

	c.cancelTimerLocked()
	c.current = &interaction{start: sample}

	generation := c.generation
	c.timer = c.scheduler.AfterFunc(c.cfg.LongPressDelay, func() {
		c.longPressElapsed(generation)
	})
}

// Move invalidates long-press eligibility for the current interaction
func (c *Classifier) Move(sample PointerSample) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.disposed || c.current == nil {
		return
	}

	c.cancelTimerLocked()
}

// End finishes the interaction and classifies it. It returns the gesture
// that fired, or KindNone. Nothing is classified when the long-press already
// fired or no interaction was started.
func (c *Classifier) End(sample PointerSample) Kind {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.disposed {
		return KindNone
	}

	c.cancelTimerLocked()

	current := c.current
	c.current = nil
	if current == nil || current.longPressFired {
		return KindNone
	}

	kind := KindDoubleTap
	if !c.registerTapLocked(sample.TimestampMs) {
		kind = Classify(current.start, sample, c.cfg)
	}

	if kind != KindNone {
		c.fireLocked(kind, sample)
	}

	return kind
}

// Cancel drops the current interaction without classifying it
func (c *Classifier) Cancel() {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.disposed {
		return
	}

	c.cancelTimerLocked()
	c.current = nil
}

// Dispose stops the classifier. Once it returns no callback fires again.
// Calling it more than once is safe.
func (c *Classifier) Dispose() {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.disposed {
		return
	}

	c.cancelTimerLocked()
	c.current = nil
	c.disposed = true
}

// Disposed reports whether Dispose has been called
func (c *Classifier) Disposed() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.disposed
}

func (c *Classifier) longPressElapsed(generation uint64) {
	c.mu.Lock()
	defer c.mu.Unlock()

	// a timer that lost the race with Stop must not fire
	if c.disposed || generation != c.generation || c.current == nil {
		return
	}

	c.timer = nil
	c.current.longPressFired = true

	sample := c.current.start
	sample.TimestampMs += c.cfg.LongPressDelay.Milliseconds()
	c.fireLocked(KindLongPress, sample)
}

func (c *Classifier) cancelTimerLocked() {
	if c.timer != nil {
		c.timer.Stop()
		c.timer = nil
	}
	c.generation++
}

// registerTapLocked tracks consecutive taps and reports whether this one
// completes a double-tap. It runs for every classified interaction.
func (c *Classifier) registerTapLocked(timestampMs int64) bool {
	delta := timestampMs - c.lastTapMs
	withinWindow := c.hasLastTap && delta > 0 && delta < c.cfg.DoubleTapWindow.Milliseconds()

	c.lastTapMs = timestampMs
	c.hasLastTap = true

	if !withinWindow {
		c.tapCount = 1
		return false
	}

	c.tapCount++
	if c.tapCount >= 2 {
		c.tapCount = 0
		return true
	}
	return false
}

func (c *Classifier) fireLocked(kind Kind, sample PointerSample) {
	if fn := c.handlers.handler(kind); fn != nil {
		fn()
	}

	if c.listener != nil {
		c.listener(Detection{
			Gesture:     kind,
			X:           sample.X,
			Y:           sample.Y,
			TimestampMs: sample.TimestampMs,
		})
	}
}

// Classify decides which swipe, if any, the straight line from start to end
// describes. Double-tap and long-press need interaction history and are
// handled by Classifier.
func Classify(start, end PointerSample, cfg Config) Kind {
	cfg = cfg.withDefaults()

	dx := end.X - start.X
	dy := end.Y - start.Y
	distance := math.Hypot(dx, dy)
	durationMs := end.TimestampMs - start.TimestampMs

	if distance < cfg.MinSwipeDistance {
		return KindNone
	}

	if durationMs > cfg.MaxSwipeTime.Milliseconds() {
		return KindNone
	}

	absX := math.Abs(dx)
	absY := math.Abs(dy)
	if absX+absY == 0 {
		return KindNone
	}

	ratio := absX / (absX + absY)
	switch {
	case ratio > cfg.DirectionThreshold:
		if dx > 0 {
			return KindFlickRight
		}
		return KindFlickLeft
	case ratio < 1-cfg.DirectionThreshold:
		if dy < 0 {
			return KindSwipeUp
		}
		return KindSwipeDown
	}

	// diagonal dead zone
	return KindNone
}
