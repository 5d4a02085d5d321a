package scenario

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	jsoniter "github.com/json-iterator/go"
	"gopkg.in/yaml.v3"

	"github.com/dshills/draftsnap/internal/document"
	"github.com/dshills/draftsnap/internal/geom"
)

// Scenario is one scripted session: a document setup, a command, the
// events fed to it and the expected result.
type Scenario struct {
	Name        string      `yaml:"name" json:"name"`
	Description string      `yaml:"description,omitempty" json:"description,omitempty"`
	View        *ViewSpec   `yaml:"view,omitempty" json:"view,omitempty"`
	Snap        *SnapSpec   `yaml:"snap,omitempty" json:"snap,omitempty"`
	Setup       []ModelSpec `yaml:"setup,omitempty" json:"setup,omitempty"`
	Select      []string    `yaml:"select,omitempty" json:"select,omitempty"`
	Command     string      `yaml:"command,omitempty" json:"command,omitempty"`
	Events      []Event     `yaml:"events" json:"events"`
	Expect      Expect      `yaml:"expect" json:"expect"`
}

// ViewSpec sizes the view in pixels.
type ViewSpec struct {
	Width  float64 `yaml:"width" json:"width"`
	Height float64 `yaml:"height" json:"height"`
}

// SnapSpec overrides the snap settings for one scenario.
type SnapSpec struct {
	Types    []string `yaml:"types,omitempty" json:"types,omitempty"`
	Distance float64  `yaml:"distance,omitempty" json:"distance,omitempty"`
}

// Vec is a point written as [x, y] or [x, y, z].
type Vec []float64

// Point converts v; a missing z is 0.
func (v Vec) Point() (geom.Point, error) {
	switch len(v) {
	case 2:
		return geom.XYZ(v[0], v[1], 0), nil
	case 3:
		return geom.XYZ(v[0], v[1], v[2]), nil
	default:
		return geom.Point{}, fmt.Errorf("point %v: want 2 or 3 values: %w", []float64(v), ErrInvalidScenario)
	}
}

// LineSpec is a line segment.
type LineSpec struct {
	Start Vec `yaml:"start" json:"start"`
	End   Vec `yaml:"end" json:"end"`
}

// CircleSpec is a circle in the XY plane.
type CircleSpec struct {
	Center Vec     `yaml:"center" json:"center"`
	Radius float64 `yaml:"radius" json:"radius"`
}

// BoxSpec is an axis-aligned box whose base corner is Origin.
type BoxSpec struct {
	Origin Vec     `yaml:"origin" json:"origin"`
	DX     float64 `yaml:"dx" json:"dx"`
	DY     float64 `yaml:"dy" json:"dy"`
	DZ     float64 `yaml:"dz" json:"dz"`
}

// ModelSpec describes a model. Exactly one of Line, Circle or Box is set
// in a setup; expectations may give only Kind.
type ModelSpec struct {
	Name   string      `yaml:"name,omitempty" json:"name,omitempty"`
	Kind   string      `yaml:"kind,omitempty" json:"kind,omitempty"`
	Line   *LineSpec   `yaml:"line,omitempty" json:"line,omitempty"`
	Circle *CircleSpec `yaml:"circle,omitempty" json:"circle,omitempty"`
	Box    *BoxSpec    `yaml:"box,omitempty" json:"box,omitempty"`
}

// Body builds the document body.
func (m ModelSpec) Body() (document.Body, error) {
	switch {
	case m.Line != nil:
		start, err := m.Line.Start.Point()
		if err != nil {
			return nil, err
		}
		end, err := m.Line.End.Point()
		if err != nil {
			return nil, err
		}
		return document.Line{Start: start, End: end}, nil
	case m.Circle != nil:
		c, err := m.Circle.Center.Point()
		if err != nil {
			return nil, err
		}
		return document.Circle{Center: c, Normal: geom.UnitZ, Radius: m.Circle.Radius}, nil
	case m.Box != nil:
		o, err := m.Box.Origin.Point()
		if err != nil {
			return nil, err
		}
		return document.Box{Plane: geom.PlaneXY.Translate(o), DX: m.Box.DX, DY: m.Box.DY, DZ: m.Box.DZ}, nil
	}
	return nil, fmt.Errorf("model %q: no body: %w", m.Name, ErrInvalidScenario)
}

// kind returns the body kind m describes.
func (m ModelSpec) kind() string {
	switch {
	case m.Line != nil:
		return "line"
	case m.Circle != nil:
		return "circle"
	case m.Box != nil:
		return "box"
	}
	return m.Kind
}

// Event is one input. Exactly one action field is set. Screen positions
// are view pixels; world positions are projected through the view.
type Event struct {
	Move    Vec    `yaml:"move,omitempty" json:"move,omitempty"`
	Click   Vec    `yaml:"click,omitempty" json:"click,omitempty"`
	Hover   Vec    `yaml:"hover,omitempty" json:"hover,omitempty"`
	Pick    Vec    `yaml:"pick,omitempty" json:"pick,omitempty"`
	Key     string `yaml:"key,omitempty" json:"key,omitempty"`
	Type    string `yaml:"type,omitempty" json:"type,omitempty"`
	Cancel  bool   `yaml:"cancel,omitempty" json:"cancel,omitempty"`
	Restart *int   `yaml:"restart,omitempty" json:"restart,omitempty"`

	// Modifiers held during a click or key, e.g. "Shift".
	Modifiers string `yaml:"modifiers,omitempty" json:"modifiers,omitempty"`

	// Checks run after the event.
	ExpectTip    *string `yaml:"expectTip,omitempty" json:"expectTip,omitempty"`
	ExpectPrompt *string `yaml:"expectPrompt,omitempty" json:"expectPrompt,omitempty"`
	ExpectError  *string `yaml:"expectError,omitempty" json:"expectError,omitempty"`
}

// action names the event for traces.
func (e Event) action() string {
	switch {
	case e.Move != nil:
		return fmt.Sprintf("move %v", []float64(e.Move))
	case e.Click != nil:
		return fmt.Sprintf("click %v", []float64(e.Click))
	case e.Hover != nil:
		return fmt.Sprintf("hover %v", []float64(e.Hover))
	case e.Pick != nil:
		return fmt.Sprintf("pick %v", []float64(e.Pick))
	case e.Key != "":
		return "key " + e.Key
	case e.Type != "":
		return fmt.Sprintf("type %q", e.Type)
	case e.Cancel:
		return "cancel"
	case e.Restart != nil:
		return fmt.Sprintf("restart %d", *e.Restart)
	}
	return ""
}

func (e Event) actions() int {
	n := 0
	for _, set := range []bool{e.Move != nil, e.Click != nil, e.Hover != nil, e.Pick != nil, e.Key != "", e.Type != "", e.Cancel, e.Restart != nil} {
		if set {
			n++
		}
	}
	return n
}

// Expect is checked once every event has been fed.
type Expect struct {
	// Outcome is committed, cancelled, failed or running.
	Outcome string `yaml:"outcome,omitempty" json:"outcome,omitempty"`
	Commits *int   `yaml:"commits,omitempty" json:"commits,omitempty"`
	Models  *int   `yaml:"models,omitempty" json:"models,omitempty"`
	History *int   `yaml:"history,omitempty" json:"history,omitempty"`

	// Entries names the undo entries added after setup, oldest first.
	Entries []string `yaml:"entries,omitempty" json:"entries,omitempty"`

	// Created lists the models the command added, in order.
	Created []ModelSpec `yaml:"created,omitempty" json:"created,omitempty"`

	// Outstanding is the number of render handles left in the view.
	Outstanding *int `yaml:"outstanding,omitempty" json:"outstanding,omitempty"`
}

// Validate checks the structure of s.
func (s *Scenario) Validate() error {
	if strings.TrimSpace(s.Name) == "" {
		return fmt.Errorf("missing name: %w", ErrInvalidScenario)
	}
	for i, m := range s.Setup {
		if _, err := m.Body(); err != nil {
			return fmt.Errorf("%s: setup %d: %w", s.Name, i, err)
		}
	}
	for i, ev := range s.Events {
		if n := ev.actions(); n != 1 {
			return fmt.Errorf("%s: event %d has %d actions, want 1: %w", s.Name, i, n, ErrInvalidScenario)
		}
	}
	switch s.Expect.Outcome {
	case "", "committed", "cancelled", "failed", "running":
	default:
		return fmt.Errorf("%s: unknown outcome %q: %w", s.Name, s.Expect.Outcome, ErrInvalidScenario)
	}
	if s.Command == "" && s.Expect.Outcome != "" {
		return fmt.Errorf("%s: outcome expected without a command: %w", s.Name, ErrInvalidScenario)
	}
	return nil
}

// Format is the encoding of a scenario file.
type Format int

const (
	FormatYAML Format = iota
	FormatJSON
)

// FormatOf picks the format from a file extension.
func FormatOf(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return FormatYAML, nil
	case ".json":
		return FormatJSON, nil
	}
	return 0, fmt.Errorf("%s: %w", path, ErrUnknownFormat)
}

// Parse decodes and validates one scenario.
func Parse(data []byte, format Format) (*Scenario, error) {
	var s Scenario
	var err error
	switch format {
	case FormatJSON:
		err = jsoniter.ConfigCompatibleWithStandardLibrary.Unmarshal(data, &s)
	default:
		err = yaml.Unmarshal(data, &s)
	}
	if err != nil {
		return nil, fmt.Errorf("decode scenario: %w", err)
	}
	if err := s.Validate(); err != nil {
		return nil, err
	}
	return &s, nil
}

// Load reads a scenario file.
func Load(path string) (*Scenario, error) {
	format, err := FormatOf(path)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read scenario: %w", err)
	}
	s, err := Parse(data, format)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return s, nil
}
