// Package config handles brochure configuration loading and management.
package config

import (
	"errors"
	"fmt"
	"time"
)

// ErrInvalid is returned by Validate for unusable settings.
var ErrInvalid = errors.New("invalid config")

// Config holds all brochure settings.
type Config struct {
	Brochure BrochureConfig `yaml:"brochure"`
	Gesture  GestureConfig  `yaml:"gesture"`
	Render   RenderConfig   `yaml:"render"`
	Server   ServerConfig   `yaml:"server"`
	Store    StoreConfig    `yaml:"store"`
	Logging  LoggingConfig  `yaml:"logging"`

	path string
}

// BrochureConfig holds the page stack and flip animation settings.
type BrochureConfig struct {
	Pages        int           `yaml:"pages"`
	Width        float32       `yaml:"width"`
	Height       float32       `yaml:"height"`
	SegmentsW    int           `yaml:"segments_w"`
	SegmentsH    int           `yaml:"segments_h"`
	FlipDuration time.Duration `yaml:"flip_duration"`
	Epsilon      float32       `yaml:"epsilon"`   // gap left short of a full half turn
	Amplitude    float32       `yaml:"amplitude"` // peak curl depth
}

// GestureConfig holds camera and hand gesture settings.
type GestureConfig struct {
	Enabled       bool          `yaml:"enabled"`
	CameraID      int           `yaml:"camera_id"`
	Cooldown      time.Duration `yaml:"cooldown"`
	ReadyGrace    time.Duration `yaml:"ready_grace"`
	FrameInterval time.Duration `yaml:"frame_interval"`
	MaxHands      int           `yaml:"max_hands"`
	MinConfidence float64       `yaml:"min_confidence"`
}

// RenderConfig holds render loop settings.
type RenderConfig struct {
	FPS int `yaml:"fps"`
}

// ServerConfig holds the HTTP server and tray settings.
type ServerConfig struct {
	Addr   string `yaml:"addr"`
	WebDir string `yaml:"web_dir"`
	Tray   bool   `yaml:"tray"`
}

// StoreConfig holds database settings.
type StoreConfig struct {
	Path string `yaml:"path"` // empty means brochure.db in ConfigDir
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level   string `yaml:"level"`
	LogFile string `yaml:"log_file"`
}

// Default returns a Config with sensible default values.
func Default() *Config {
	return &Config{
		Brochure: BrochureConfig{
			Pages:        10,
			Width:        3.5,
			Height:       4.8,
			SegmentsW:    20,
			SegmentsH:    1,
			FlipDuration: 1600 * time.Millisecond,
			Epsilon:      0.05,
			Amplitude:    1.5,
		},
		Gesture: GestureConfig{
			Enabled:       true,
			CameraID:      0,
			Cooldown:      500 * time.Millisecond,
			ReadyGrace:    1500 * time.Millisecond,
			FrameInterval: 16 * time.Millisecond,
			MaxHands:      1,
			MinConfidence: 0.5,
		},
		Render: RenderConfig{
			FPS: 60,
		},
		Server: ServerConfig{
			Addr: "127.0.0.1:8080",
			Tray: true,
		},
		Logging: LoggingConfig{
			Level:   "info",
			LogFile: "",
		},
	}
}

// Path returns the file the config was loaded from, if any.
func (c *Config) Path() string {
	return c.path
}

// Validate reports the first unusable setting.
func (c *Config) Validate() error {
	switch {
	case c.Brochure.Pages <= 0:
		return fmt.Errorf("%w: brochure.pages must be positive", ErrInvalid)
	case c.Brochure.Width <= 0 || c.Brochure.Height <= 0:
		return fmt.Errorf("%w: brochure page size must be positive", ErrInvalid)
	case c.Brochure.SegmentsW <= 0 || c.Brochure.SegmentsH <= 0:
		return fmt.Errorf("%w: brochure segments must be positive", ErrInvalid)
	case c.Brochure.FlipDuration <= 0:
		return fmt.Errorf("%w: brochure.flip_duration must be positive", ErrInvalid)
	case c.Render.FPS <= 0:
		return fmt.Errorf("%w: render.fps must be positive", ErrInvalid)
	case c.Gesture.Cooldown < 0 || c.Gesture.ReadyGrace < 0 || c.Gesture.FrameInterval < 0:
		return fmt.Errorf("%w: gesture durations must not be negative", ErrInvalid)
	}
	return nil
}
