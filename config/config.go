package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/inklusif-kerja/gesturecli/actions"
	"github.com/inklusif-kerja/gesturecli/gestures"
	"github.com/inklusif-kerja/gesturecli/utils"
	"gopkg.in/ini.v1"
	"gopkg.in/yaml.v3"
	"howett.net/plist"
)

const DefaultListenAddress = "localhost:12000"

// Config is the file-level configuration. Durations are kept in
// milliseconds so every supported file format can express them.
type Config struct {
	Gesture  GestureConfig  `json:"gesture" yaml:"gesture" plist:"gesture"`
	Server   ServerConfig   `json:"server" yaml:"server" plist:"server"`
	Feedback FeedbackConfig `json:"feedback" yaml:"feedback" plist:"feedback"`
	Log      LogConfig      `json:"log" yaml:"log" plist:"log"`
}

type GestureConfig struct {
	MinSwipeDistance   float64 `json:"minSwipeDistance" ini:"min_swipe_distance" yaml:"min_swipe_distance" plist:"min_swipe_distance"`
	MaxSwipeTimeMs     int     `json:"maxSwipeTimeMs" ini:"max_swipe_time_ms" yaml:"max_swipe_time_ms" plist:"max_swipe_time_ms"`
	DirectionThreshold float64 `json:"directionThreshold" ini:"direction_threshold" yaml:"direction_threshold" plist:"direction_threshold"`
	AllowCurvedPaths   bool    `json:"allowCurvedPaths" ini:"allow_curved_paths" yaml:"allow_curved_paths" plist:"allow_curved_paths"`
	DoubleTapWindowMs  int     `json:"doubleTapWindowMs" ini:"double_tap_window_ms" yaml:"double_tap_window_ms" plist:"double_tap_window_ms"`
	LongPressDelayMs   int     `json:"longPressDelayMs" ini:"long_press_delay_ms" yaml:"long_press_delay_ms" plist:"long_press_delay_ms"`
}

type ServerConfig struct {
	Listen      string `json:"listen" ini:"listen" yaml:"listen" plist:"listen"`
	CORS        bool   `json:"cors" ini:"cors" yaml:"cors" plist:"cors"`
	MaxSessions int    `json:"maxSessions" ini:"max_sessions" yaml:"max_sessions" plist:"max_sessions"`
}

type FeedbackConfig struct {
	Language string `json:"language" ini:"language" yaml:"language" plist:"language"`
}

type LogConfig struct {
	Level string `json:"level" ini:"level" yaml:"level" plist:"level"`
}

// Default returns a fully populated configuration
func Default() Config {
	g := gestures.DefaultConfig()
	return Config{
		Gesture: GestureConfig{
			MinSwipeDistance:   g.MinSwipeDistance,
			MaxSwipeTimeMs:     int(g.MaxSwipeTime.Milliseconds()),
			DirectionThreshold: g.DirectionThreshold,
			AllowCurvedPaths:   g.AllowCurvedPaths,
			DoubleTapWindowMs:  int(g.DoubleTapWindow.Milliseconds()),
			LongPressDelayMs:   int(g.LongPressDelay.Milliseconds()),
		},
		Server: ServerConfig{
			Listen:      DefaultListenAddress,
			CORS:        false,
			MaxSessions: gestures.DefaultMaxSessions,
		},
		Feedback: FeedbackConfig{
			Language: string(actions.DefaultLanguage),
		},
		Log: LogConfig{
			Level: "info",
		},
	}
}

// Load reads path on top of the defaults. The format follows the file
// extension: .ini/.conf, .yaml/.yml or .plist. An empty path returns the
// defaults.
func Load(path string) (Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}

	var err error
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".ini", ".conf":
		err = loadINI(path, &cfg)
	case ".yaml", ".yml":
		err = loadYAML(path, &cfg)
	case ".plist":
		err = loadPlist(path, &cfg)
	default:
		return cfg, fmt.Errorf("unsupported config format '%s' for %s", ext, path)
	}
	if err != nil {
		return cfg, err
	}

	if err := cfg.Validate(); err != nil {
		return cfg, fmt.Errorf("invalid config %s: %w", path, err)
	}

	utils.Verbose("Loaded config from %s", path)
	return cfg, nil
}

func loadINI(path string, cfg *Config) error {
	file, err := ini.Load(path)
	if err != nil {
		return fmt.Errorf("failed to load %s: %w", path, err)
	}

	sections := []struct {
		name   string
		target interface{}
	}{
		{"gesture", &cfg.Gesture},
		{"server", &cfg.Server},
		{"feedback", &cfg.Feedback},
		{"log", &cfg.Log},
	}

	for _, s := range sections {
		if !file.HasSection(s.name) {
			continue
		}
		if err := file.Section(s.name).MapTo(s.target); err != nil {
			return fmt.Errorf("failed to parse [%s] in %s: %w", s.name, path, err)
		}
	}

	return nil
}

func loadYAML(path string, cfg *Config) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", path, err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("failed to parse %s: %w", path, err)
	}
	return nil
}

func loadPlist(path string, cfg *Config) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", path, err)
	}

	if _, err := plist.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("failed to parse %s: %w", path, err)
	}
	return nil
}

// Validate checks every section and joins the problems found
func (c Config) Validate() error {
	var errs []error

	if err := c.Classifier().Validate(); err != nil {
		errs = append(errs, fmt.Errorf("gesture: %w", err))
	}

	if _, err := utils.NormalizeListenAddr(c.Server.Listen); err != nil {
		errs = append(errs, fmt.Errorf("server: %w", err))
	}

	if c.Server.MaxSessions <= 0 {
		errs = append(errs, fmt.Errorf("server: max_sessions must be positive, got %d", c.Server.MaxSessions))
	}

	if _, err := actions.ParseLanguage(c.Feedback.Language); err != nil {
		errs = append(errs, fmt.Errorf("feedback: %w", err))
	}

	switch strings.ToLower(c.Log.Level) {
	case "", "debug", "info", "warn", "warning", "error":
	default:
		errs = append(errs, fmt.Errorf("log: unknown level '%s'", c.Log.Level))
	}

	return errors.Join(errs...)
}

// Classifier converts the gesture section into classifier thresholds
func (c Config) Classifier() gestures.Config {
	return gestures.Config{
		MinSwipeDistance:   c.Gesture.MinSwipeDistance,
		MaxSwipeTime:       time.Duration(c.Gesture.MaxSwipeTimeMs) * time.Millisecond,
		DirectionThreshold: c.Gesture.DirectionThreshold,
		AllowCurvedPaths:   c.Gesture.AllowCurvedPaths,
		DoubleTapWindow:    time.Duration(c.Gesture.DoubleTapWindowMs) * time.Millisecond,
		LongPressDelay:     time.Duration(c.Gesture.LongPressDelayMs) * time.Millisecond,
	}
}

// Language returns the parsed feedback language, falling back to the default
func (c Config) Language() actions.Language {
	lang, err := actions.ParseLanguage(c.Feedback.Language)
	if err != nil {
		return actions.DefaultLanguage
	}
	return lang
}
