package config

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/hashicorp/go-hclog"

	"github.com/dshills/draftsnap/internal/snap"
)

// Settings is the complete configuration. Sections are plain values:
// copying Settings copies everything except the slices, which Clone
// duplicates.
type Settings struct {
	Snap    SnapConfig    `toml:"snap" yaml:"snap" envconfig:"SNAP"`
	View    ViewConfig    `toml:"view" yaml:"view" envconfig:"VIEW"`
	Visual  VisualConfig  `toml:"visual" yaml:"visual" envconfig:"VISUAL"`
	History HistoryConfig `toml:"history" yaml:"history" envconfig:"HISTORY"`
	Logging LoggingConfig `toml:"logging" yaml:"logging" envconfig:"LOG"`
	Plugins PluginConfig  `toml:"plugins" yaml:"plugins" envconfig:"PLUGINS"`
}

// SnapConfig tunes object snapping.
type SnapConfig struct {
	// Distance is the pixel radius within which a snap point is accepted.
	// A point exactly at this distance is rejected.
	Distance float64 `toml:"distance" yaml:"distance" envconfig:"DISTANCE"`

	// FeatureDistance is the radius for command supplied feature points.
	FeatureDistance float64 `toml:"featureDistance" yaml:"featureDistance" envconfig:"FEATURE_DISTANCE"`

	// Types lists the enabled snap kinds: endpoint, midpoint, center,
	// intersection, or all / none.
	Types []string `toml:"types" yaml:"types" envconfig:"TYPES"`
}

// Mask returns the snap mask named by Types.
func (c SnapConfig) Mask() (snap.Mask, error) {
	return snap.ParseMask(c.Types)
}

// ViewConfig sets up the orthographic viewport.
type ViewConfig struct {
	// Scale is the number of pixels per world unit.
	Scale float64 `toml:"scale" yaml:"scale" envconfig:"SCALE"`

	// PickTolerance is the pixel distance within which edges are detected.
	PickTolerance float64 `toml:"pickTolerance" yaml:"pickTolerance" envconfig:"PICK_TOLERANCE"`
}

// VisualConfig styles markers drawn during a pick.
type VisualConfig struct {
	MarkerSize  float64 `toml:"markerSize" yaml:"markerSize" envconfig:"MARKER_SIZE"`
	MarkerColor string  `toml:"markerColor" yaml:"markerColor" envconfig:"MARKER_COLOR"`
	VertexSize  float64 `toml:"vertexSize" yaml:"vertexSize" envconfig:"VERTEX_SIZE"`
	VertexColor string  `toml:"vertexColor" yaml:"vertexColor" envconfig:"VERTEX_COLOR"`
}

// HistoryConfig bounds the undo history.
type HistoryConfig struct {
	MaxEntries int `toml:"maxEntries" yaml:"maxEntries" envconfig:"MAX_ENTRIES"`
}

// LoggingConfig selects where and how much the application logs.
type LoggingConfig struct {
	// Level is trace, debug, info, warn, error or off.
	Level string `toml:"level" yaml:"level" envconfig:"LEVEL"`

	// Format is "text" or "json".
	Format string `toml:"format" yaml:"format" envconfig:"FORMAT"`

	// Output is "stderr", "stdout", or a file path.
	Output string `toml:"output" yaml:"output" envconfig:"OUTPUT"`
}

// PluginConfig lists Lua scripts that constrain picked points.
type PluginConfig struct {
	Validators []string `toml:"validators" yaml:"validators" envconfig:"VALIDATORS"`
}

// Default returns the built-in settings.
func Default() Settings {
	return Settings{
		Snap: SnapConfig{
			Distance:        snap.DefaultSnapDistance,
			FeatureDistance: snap.DefaultSnapDistance,
			Types:           snap.MaskAll.Names(),
		},
		View: ViewConfig{
			Scale:         10,
			PickTolerance: 3,
		},
		Visual: VisualConfig{
			MarkerSize:  snap.DefaultMarkerSize,
			MarkerColor: "#ffff00",
			VertexSize:  snap.DefaultMarkerSize + 2,
			VertexColor: "#ffffff",
		},
		History: HistoryConfig{MaxEntries: 200},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "text",
			Output: "stderr",
		},
	}
}

// Clone returns a deep copy.
func (s Settings) Clone() Settings {
	s.Snap.Types = append([]string(nil), s.Snap.Types...)
	s.Plugins.Validators = append([]string(nil), s.Plugins.Validators...)
	return s
}

// Validate checks every setting and returns the first problem found.
func (s Settings) Validate() error {
	positive := []struct {
		path  string
		value float64
	}{
		{"snap.distance", s.Snap.Distance},
		{"snap.featureDistance", s.Snap.FeatureDistance},
		{"view.scale", s.View.Scale},
		{"view.pickTolerance", s.View.PickTolerance},
		{"visual.markerSize", s.Visual.MarkerSize},
		{"visual.vertexSize", s.Visual.VertexSize},
	}
	for _, p := range positive {
		if p.value <= 0 {
			return &ValidationError{Path: p.path, Message: "must be positive", Value: p.value, Code: ErrCodeOutOfRange}
		}
	}
	if s.History.MaxEntries < 0 {
		return &ValidationError{Path: "history.maxEntries", Message: "must not be negative", Value: s.History.MaxEntries, Code: ErrCodeOutOfRange}
	}
	if _, err := s.Snap.Mask(); err != nil {
		return &ValidationError{Path: "snap.types", Message: err.Error(), Value: s.Snap.Types, Code: ErrCodeInvalidEnum}
	}
	for _, c := range []struct{ path, value string }{
		{"visual.markerColor", s.Visual.MarkerColor},
		{"visual.vertexColor", s.Visual.VertexColor},
	} {
		if _, err := ParseColor(c.value); err != nil {
			return &ValidationError{Path: c.path, Message: "expected #rrggbb", Value: c.value, Code: ErrCodePatternMismatch}
		}
	}
	if hclog.LevelFromString(s.Logging.Level) == hclog.NoLevel {
		return &ValidationError{Path: "logging.level", Message: "unknown level", Value: s.Logging.Level, Code: ErrCodeInvalidEnum}
	}
	switch s.Logging.Format {
	case "text", "json":
	default:
		return &ValidationError{Path: "logging.format", Message: "expected text or json", Value: s.Logging.Format, Code: ErrCodeInvalidEnum}
	}
	if strings.TrimSpace(s.Logging.Output) == "" {
		return &ValidationError{Path: "logging.output", Message: "must not be empty", Value: s.Logging.Output, Code: ErrCodeRequiredMissing}
	}
	return nil
}

// ParseColor parses "#rrggbb" into a 24-bit value.
func ParseColor(s string) (uint32, error) {
	if len(s) != 7 || s[0] != '#' {
		return 0, fmt.Errorf("color %q: %w", s, ErrValidationFailed)
	}
	v, err := strconv.ParseUint(s[1:], 16, 32)
	if err != nil {
		return 0, fmt.Errorf("color %q: %w", s, ErrValidationFailed)
	}
	return uint32(v), nil
}
