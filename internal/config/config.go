// Package config holds the gallery's tunables and loads overrides from JSON.
package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"github.com/nicky-ayoub/ebitgallery/internal/gallery"
	"github.com/nicky-ayoub/ebitgallery/internal/input"
	"github.com/nicky-ayoub/ebitgallery/internal/layout"
	"github.com/nicky-ayoub/ebitgallery/internal/scroll"
	"github.com/nicky-ayoub/ebitgallery/internal/service"
	"github.com/nicky-ayoub/ebitgallery/internal/viewport"
)

// ErrInvalid wraps every validation failure.
var ErrInvalid = errors.New("invalid config")

// Config represents user configuration.
type Config struct {
	Ease            float64 `json:"ease"`
	InitialSpeed    float64 `json:"initialSpeed"`
	AutoscrollBias  float64 `json:"autoscrollBias"`
	DragSensitivity float64 `json:"dragSensitivity"`
	WheelMultiplier float64 `json:"wheelMultiplier"`
	StrengthGain    float64 `json:"strengthGain"`

	FOV            float64 `json:"fov"`
	CameraDistance float64 `json:"cameraDistance"`
	Segments       int     `json:"segments"`

	ColumnMaxWidth float64 `json:"columnMaxWidth"`
	ColumnGap      float64 `json:"columnGap"`
	ColumnPadding  float64 `json:"columnPadding"`

	MaxTextureSize   int  `json:"maxTextureSize"`
	PreferThumbnails bool `json:"preferThumbnails"`
	Shuffle          bool `json:"shuffle"`

	WindowWidth  int  `json:"windowWidth"`
	WindowHeight int  `json:"windowHeight"`
	Fullscreen   bool `json:"fullscreen"`
	TPS          int  `json:"tps"`
	ShowHUD      bool `json:"showHUD"`
}

// Default returns the stock configuration.
func Default() Config {
	return Config{
		Ease:            scroll.DefaultEase,
		InitialSpeed:    scroll.DefaultInitialSpeed,
		AutoscrollBias:  scroll.DefaultBias,
		DragSensitivity: input.DefaultDragSensitivity,
		WheelMultiplier: input.DefaultWheelMultiplier,
		StrengthGain:    gallery.DefaultStrengthGain,

		FOV:            viewport.DefaultFOV,
		CameraDistance: viewport.DefaultDistance,
		Segments:       gallery.DefaultSegments,

		ColumnMaxWidth: layout.DefaultMaxWidth,
		ColumnGap:      layout.DefaultGap,
		ColumnPadding:  layout.DefaultPadding,

		MaxTextureSize: service.DefaultMaxTextureSize,

		WindowWidth:  1920,
		WindowHeight: 980,
		TPS:          60,
	}
}

// Load reads a JSON file over the defaults. Keys absent from the file keep
// their default values.
func Load(path string) (Config, error) {
	cfg := Default()
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("reading config: %w", err)
	}
	if err := json.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parsing config %s: %w", path, err)
	}
	return cfg, cfg.Validate()
}

// Validate checks ranges that would break the scroll or projection math.
// Autoscroll speed and bias are magnitudes; the direction supplies the sign.
// Gains and multipliers must be positive since zero selects the built-in
// default further down.
func (c Config) Validate() error {
	switch {
	case c.Ease <= 0 || c.Ease > 1:
		return fmt.Errorf("%w: ease %v not in (0,1]", ErrInvalid, c.Ease)
	case c.InitialSpeed < 0 || c.AutoscrollBias < 0:
		return fmt.Errorf("%w: negative autoscroll speed %v or bias %v", ErrInvalid, c.InitialSpeed, c.AutoscrollBias)
	case c.DragSensitivity <= 0 || c.WheelMultiplier <= 0:
		return fmt.Errorf("%w: drag sensitivity %v and wheel multiplier %v must be positive", ErrInvalid, c.DragSensitivity, c.WheelMultiplier)
	case c.StrengthGain <= 0:
		return fmt.Errorf("%w: strength gain %v", ErrInvalid, c.StrengthGain)
	case c.FOV <= 0 || c.FOV >= 180:
		return fmt.Errorf("%w: fov %v not in (0,180)", ErrInvalid, c.FOV)
	case c.CameraDistance <= 0:
		return fmt.Errorf("%w: camera distance %v", ErrInvalid, c.CameraDistance)
	case c.Segments <= 0 || (c.Segments+1)*(c.Segments+1) > 1<<16:
		return fmt.Errorf("%w: segments %d", ErrInvalid, c.Segments)
	case c.WindowWidth <= 0 || c.WindowHeight <= 0:
		return fmt.Errorf("%w: window %dx%d", ErrInvalid, c.WindowWidth, c.WindowHeight)
	case c.TPS <= 0:
		return fmt.Errorf("%w: tps %d", ErrInvalid, c.TPS)
	case c.ColumnGap < 0 || c.ColumnPadding < 0 || c.ColumnMaxWidth < 0:
		return fmt.Errorf("%w: negative column metrics", ErrInvalid)
	}
	return nil
}

// GalleryOptions maps the config onto controller options for screen.
func (c Config) GalleryOptions(screen viewport.ScreenSize) gallery.Options {
	opts := gallery.DefaultOptions()
	opts.Screen = screen
	opts.FOV = c.FOV
	opts.CameraDistance = c.CameraDistance
	opts.Scroll = scroll.Options{
		Ease:         c.Ease,
		InitialSpeed: c.InitialSpeed,
		Bias:         c.AutoscrollBias,
	}
	opts.DragSensitivity = c.DragSensitivity
	opts.WheelMultiplier = c.WheelMultiplier
	opts.Item.Segments = c.Segments
	opts.Item.StrengthGain = c.StrengthGain
	return opts
}

// Column returns the layout column metrics.
func (c Config) Column() layout.Column {
	return layout.Column{MaxWidth: c.ColumnMaxWidth, Gap: c.ColumnGap, Padding: c.ColumnPadding}
}
