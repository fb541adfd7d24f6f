package gestures

import (
	"fmt"
	"time"
)

const (
	DefaultMinSwipeDistance   = 50.0
	DefaultMaxSwipeTime       = 300 * time.Millisecond
	DefaultDirectionThreshold = 0.7
	DefaultDoubleTapWindow    = 300 * time.Millisecond
	DefaultLongPressDelay     = 500 * time.Millisecond
)

// Config holds the classifier thresholds. A Config is copied into each
// Classifier and never mutated afterwards.
type Config struct {
	// MinSwipeDistance is the minimum straight-line travel in pixels
	MinSwipeDistance float64 `json:"minSwipeDistance"`

	// MaxSwipeTime is the longest interaction still accepted as a swipe
	MaxSwipeTime time.Duration `json:"maxSwipeTime"`

	// DirectionThreshold is the fraction of travel that must lie on one
	// axis for a swipe to count as horizontal or vertical
	DirectionThreshold float64 `json:"directionThreshold"`

	// AllowCurvedPaths is reserved. Classification always uses the
	// straight line between start and end.
	AllowCurvedPaths bool `json:"allowCurvedPaths"`

	DoubleTapWindow time.Duration `json:"doubleTapWindow"`
	LongPressDelay  time.Duration `json:"longPressDelay"`
}

// DefaultConfig returns the stock thresholds
func DefaultConfig() Config {
	return Config{
		MinSwipeDistance:   DefaultMinSwipeDistance,
		MaxSwipeTime:       DefaultMaxSwipeTime,
		DirectionThreshold: DefaultDirectionThreshold,
		AllowCurvedPaths:   true,
		DoubleTapWindow:    DefaultDoubleTapWindow,
		LongPressDelay:     DefaultLongPressDelay,
	}
}

// withDefaults fills zero-valued fields with their defaults
func (c Config) withDefaults() Config {
	if c.MinSwipeDistance == 0 {
		c.MinSwipeDistance = DefaultMinSwipeDistance
	}
	if c.MaxSwipeTime == 0 {
		c.MaxSwipeTime = DefaultMaxSwipeTime
	}
	if c.DirectionThreshold == 0 {
		c.DirectionThreshold = DefaultDirectionThreshold
	}
	if c.DoubleTapWindow == 0 {
		c.DoubleTapWindow = DefaultDoubleTapWindow
	}
	if c.LongPressDelay == 0 {
		c.LongPressDelay = DefaultLongPressDelay
	}
	return c
}

// Validate reports the first threshold that cannot produce a usable classifier
func (c Config) Validate() error {
	if c.MinSwipeDistance <= 0 {
		return fmt.Errorf("minimum swipe distance must be positive, got %v", c.MinSwipeDistance)
	}
	if c.MaxSwipeTime <= 0 {
		return fmt.Errorf("maximum swipe time must be positive, got %v", c.MaxSwipeTime)
	}
	// below 0.5 the horizontal and vertical bands overlap
	if c.DirectionThreshold < 0.5 || c.DirectionThreshold >= 1 {
		return fmt.Errorf("direction threshold must be in [0.5, 1), got %v", c.DirectionThreshold)
	}
	if c.DoubleTapWindow <= 0 {
		return fmt.Errorf("double tap window must be positive, got %v", c.DoubleTapWindow)
	}
	if c.LongPressDelay <= 0 {
		return fmt.Errorf("long press delay must be positive, got %v", c.LongPressDelay)
	}
	return nil
}
