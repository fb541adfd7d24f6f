package gestures

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	assert.Equal(t, 50.0, cfg.MinSwipeDistance)
	assert.Equal(t, 300*time.Millisecond, cfg.MaxSwipeTime)
	assert.Equal(t, 0.7, cfg.DirectionThreshold)
	assert.True(t, cfg.AllowCurvedPaths)
	assert.Equal(t, 300*time.Millisecond, cfg.DoubleTapWindow)
	assert.Equal(t, 500*time.Millisecond, cfg.LongPressDelay)
	require.NoError(t, cfg.Validate())
}

func TestConfigValidate(t *testing.T) {
	tests := []struct {
		name          string
		modify        func(*Config)
		expectedError string
	}{
		{"zero distance", func(c *Config) { c.MinSwipeDistance = 0 }, "minimum swipe distance must be positive"},
		{"negative swipe time", func(c *Config) { c.MaxSwipeTime = -time.Millisecond }, "maximum swipe time must be positive"},
		{"threshold below half", func(c *Config) { c.DirectionThreshold = 0.4 }, "direction threshold must be in [0.5, 1), got 0.4"},
		{"threshold of one", func(c *Config) { c.DirectionThreshold = 1 }, "direction threshold must be in [0.5, 1), got 1"},
		{"zero double tap window", func(c *Config) { c.DoubleTapWindow = 0 }, "double tap window must be positive"},
		{"zero long press delay", func(c *Config) { c.LongPressDelay = 0 }, "long press delay must be positive"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.modify(&cfg)

			err := cfg.Validate()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.expectedError)
		})
	}
}

func TestConfigValidate_HalfThresholdAllowed(t *testing.T) {
	cfg := DefaultConfig()
	cfg.DirectionThreshold = 0.5
	assert.NoError(t, cfg.Validate())
}

func TestConfigWithDefaults(t *testing.T) {
	cfg := Config{MinSwipeDistance: 20, LongPressDelay: time.Second}.withDefaults()

	assert.Equal(t, 20.0, cfg.MinSwipeDistance)
	assert.Equal(t, time.Second, cfg.LongPressDelay)
	assert.Equal(t, DefaultMaxSwipeTime, cfg.MaxSwipeTime)
	assert.Equal(t, DefaultDirectionThreshold, cfg.DirectionThreshold)
	assert.Equal(t, DefaultDoubleTapWindow, cfg.DoubleTapWindow)
}

func TestParsePhase(t *testing.T) {
	for _, name := range []string{"start", "move", "end", "cancel"} {
		phase, err := ParsePhase(name)
		require.NoError(t, err)
		assert.Equal(t, Phase(name), phase)
	}

	_, err := ParsePhase("START")
	require.Error(t, err)
	assert.Equal(t, "unknown phase 'START', expected one of: start, move, end, cancel", err.Error())
}
