package step

import (
	"github.com/hashicorp/go-hclog"

	"github.com/dshills/draftsnap/internal/async"
	"github.com/dshills/draftsnap/internal/document"
	"github.com/dshills/draftsnap/internal/i18n"
	"github.com/dshills/draftsnap/internal/metrics"
	"github.com/dshills/draftsnap/internal/snap"
	"github.com/dshills/draftsnap/internal/view"
)

// Step is one input of a multistep command.
type Step interface {
	// Execute starts the pick session. resolve is called exactly once, after
	// the handle settled: with the result on success, with nil otherwise.
	Execute(doc *document.Document, h *async.Handle, resolve func(*snap.PickResult))
}

// State is the progress of one step inside a command.
type State int

const (
	StatePending State = iota
	StateRunning
	StateCompleted
	StateCancelled
)

func (s State) String() string {
	switch s {
	case StatePending:
		return "pending"
	case StateRunning:
		return "running"
	case StateCompleted:
		return "completed"
	case StateCancelled:
		return "cancelled"
	default:
		return "unknown"
	}
}

// Settings tunes the pick sessions a step starts.
type Settings struct {
	Mask            snap.Mask
	SnapDistance    float64
	FeatureDistance float64
	MarkerSize      float64
	MarkerColor     view.Color
	VertexSize      float64
	VertexColor     view.Color

	Logger  hclog.Logger
	Metrics *metrics.Metrics
}

// DefaultSettings returns the settings used when none are configured.
func DefaultSettings() *Settings {
	return &Settings{
		Mask:            snap.MaskAll,
		SnapDistance:    snap.DefaultSnapDistance,
		FeatureDistance: snap.DefaultSnapDistance,
		MarkerSize:      snap.DefaultMarkerSize,
		MarkerColor:     snap.DefaultMarkerColor,
		VertexSize:      snap.DefaultMarkerSize + 2,
		VertexColor:     view.ColorWhite,
		Logger:          hclog.NewNullLogger(),
	}
}

func (s *Settings) logger() hclog.Logger {
	if s.Logger == nil {
		return hclog.NewNullLogger()
	}
	return s.Logger
}

type configurable interface {
	configure(s *Settings)
}

// Configure applies s to every step built by this package.
func Configure(s *Settings, steps ...Step) {
	for _, st := range steps {
		if c, ok := st.(configurable); ok {
			c.configure(s)
		}
	}
}

// base carries the settings shared by every step.
type base struct {
	settings *Settings
}

func (b *base) configure(s *Settings) { b.settings = s }

func (b *base) cfg() *Settings {
	if b.settings == nil {
		return DefaultSettings()
	}
	return b.settings
}

// run pushes handler on the viewer for the lifetime of h, shows prompt in
// the status bar, and reports result once h settles.
func run(doc *document.Document, h *async.Handle, prompt i18n.Key, handler view.EventHandler, result func() *snap.PickResult, resolve func(*snap.PickResult)) {
	viewer := doc.Viewer()
	notices := doc.Notices()

	notices.ShowStatusTip(prompt)
	viewer.Push(handler)
	h.OnSettled(func(st async.Status) {
		viewer.Pop(handler)
		notices.ClearStatusTip()
		if st != async.StatusSucceeded {
			resolve(nil)
			return
		}
		resolve(result())
	})
}

func documentValidators(doc *document.Document) []snap.Validator {
	var out []snap.Validator
	for _, v := range doc.PointValidators() {
		out = append(out, snap.Validator(v))
	}
	return out
}
