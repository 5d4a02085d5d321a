package selection

import (
	"github.com/hashicorp/go-hclog"

	"github.com/dshills/draftsnap/internal/async"
	"github.com/dshills/draftsnap/internal/document"
	"github.com/dshills/draftsnap/internal/geom"
	"github.com/dshills/draftsnap/internal/input/key"
	"github.com/dshills/draftsnap/internal/input/mouse"
	"github.com/dshills/draftsnap/internal/metrics"
	"github.com/dshills/draftsnap/internal/view"
)

// State is the lifecycle state of a PickHandler.
type State int

const (
	StateActive State = iota
	StateCommitted
	StateCancelled
)

func (s State) String() string {
	switch s {
	case StateActive:
		return "active"
	case StateCommitted:
		return "committed"
	case StateCancelled:
		return "cancelled"
	default:
		return "unknown"
	}
}

// Mode selects what a pick resolves to.
type Mode int

const (
	// PickShapes resolves the detected shapes themselves.
	PickShapes Mode = iota

	// PickModels resolves the models owning the detected shapes.
	PickModels
)

// Option configures a PickHandler.
type Option func(*PickHandler)

// WithMultiple lets the user toggle several picks and confirm with Enter.
func WithMultiple(multiple bool) Option {
	return func(p *PickHandler) { p.multiple = multiple }
}

// WithFilter restricts the pickable shapes. For model picks the filter sees
// the model's whole shape.
func WithFilter(f view.ShapeFilter) Option {
	return func(p *PickHandler) { p.filter = f }
}

// WithLogger sets the logger.
func WithLogger(l hclog.Logger) Option {
	return func(p *PickHandler) { p.logger = l }
}

// WithMetrics sets the metrics sink.
func WithMetrics(m *metrics.Metrics) Option {
	return func(p *PickHandler) { p.metrics = m }
}

// PickHandler is the view.EventHandler of one shape or model pick session.
//
// The shape under the pointer is highlighted. A single pick commits on a
// primary click; a multiple pick toggles shapes on click and commits on
// Enter once something is picked. Escape or cancelling the handle ends the
// session without a result.
type PickHandler struct {
	handle    *async.Handle
	doc       *document.Document
	mode      Mode
	shapeType geom.ShapeType
	multiple  bool
	filter    view.ShapeFilter
	logger    hclog.Logger
	metrics   *metrics.Metrics

	state State
	torn  bool

	hover     geom.Shape
	hoverView view.View

	picked   []geom.Shape
	models   []*document.Model
	pickView view.View
}

// NewPickHandler creates a pick session bound to h. shapeType is the kind of
// shape detected in PickShapes mode; PickModels always detects whole shapes.
func NewPickHandler(h *async.Handle, doc *document.Document, mode Mode, shapeType geom.ShapeType, opts ...Option) *PickHandler {
	p := &PickHandler{
		handle:    h,
		doc:       doc,
		mode:      mode,
		shapeType: shapeType,
		logger:    hclog.NewNullLogger(),
	}
	if mode == PickModels {
		p.shapeType = geom.ShapeAny
	}
	for _, opt := range opts {
		opt(p)
	}
	h.OnCancelled(func() {
		p.finish(StateCancelled)
	})
	return p
}

// State returns the session state.
func (p *PickHandler) State() State { return p.state }

// Shapes returns the picked shapes in pick order. For model picks these
// are the models' shapes.
func (p *PickHandler) Shapes() []geom.Shape {
	return append([]geom.Shape(nil), p.picked...)
}

// Models returns the picked models in pick order. Empty for shape picks.
func (p *PickHandler) Models() []*document.Model {
	return append([]*document.Model(nil), p.models...)
}

// View returns the view the picks were made in.
func (p *PickHandler) View() view.View { return p.pickView }

// detect returns the pickable shape under (x, y) and, for model picks, its
// model.
func (p *PickHandler) detect(v view.View, x, y float64) (geom.Shape, *document.Model) {
	if p.mode == PickShapes {
		shapes := v.Detected(p.shapeType, x, y, p.filter)
		if len(shapes) == 0 {
			return nil, nil
		}
		return shapes[0], nil
	}
	for _, s := range v.Detected(p.shapeType, x, y, nil) {
		m, ok := p.doc.ModelOfShape(s)
		if !ok {
			continue
		}
		shape := m.Shape()
		if view.Allows(p.filter, shape) {
			return shape, m
		}
	}
	return nil, nil
}

func (p *PickHandler) isPicked(s geom.Shape) int {
	for i, picked := range p.picked {
		if picked.ID() == s.ID() {
			return i
		}
	}
	return -1
}

func (p *PickHandler) clearHover() {
	if p.hover == nil {
		return
	}
	if p.isPicked(p.hover) < 0 {
		p.hoverView.Context().Unhighlighted(p.hover)
	}
	p.hover = nil
	p.hoverView = nil
}

// PointerMove implements view.EventHandler.
func (p *PickHandler) PointerMove(v view.View, e mouse.Event) {
	if p.state != StateActive {
		return
	}
	p.clearHover()
	if s, _ := p.detect(v, e.X, e.Y); s != nil {
		p.hover = s
		p.hoverView = v
		v.Context().Highlighted(s)
	}
	v.Update()
}

// PointerDown implements view.EventHandler.
func (p *PickHandler) PointerDown(v view.View, e mouse.Event) {
	if p.state != StateActive || e.Button != mouse.ButtonLeft {
		return
	}
	s, m := p.detect(v, e.X, e.Y)
	if s == nil {
		return
	}
	p.pickView = v

	if !p.multiple {
		p.picked = []geom.Shape{s}
		if m != nil {
			p.models = []*document.Model{m}
		}
		p.finish(StateCommitted)
		return
	}

	if i := p.isPicked(s); i >= 0 {
		p.picked = append(p.picked[:i], p.picked[i+1:]...)
		if m != nil {
			p.models = append(p.models[:i], p.models[i+1:]...)
		}
		if p.hover == nil || p.hover.ID() != s.ID() {
			v.Context().Unhighlighted(s)
		}
	} else {
		p.picked = append(p.picked, s)
		if m != nil {
			p.models = append(p.models, m)
		}
		v.Context().Highlighted(s)
	}
	v.Update()
}

// PointerUp implements view.EventHandler.
func (p *PickHandler) PointerUp(view.View, mouse.Event) {}

// MouseWheel implements view.EventHandler.
func (p *PickHandler) MouseWheel(v view.View, e mouse.Event) {
	v.Zoom(e.Delta, e.X, e.Y)
	v.Update()
}

// KeyDown implements view.EventHandler.
func (p *PickHandler) KeyDown(v view.View, e key.Event) {
	if p.state != StateActive {
		return
	}
	switch e.Key {
	case key.KeyEscape:
		p.finish(StateCancelled)
	case key.KeyEnter:
		if p.multiple && len(p.picked) > 0 {
			if p.pickView == nil {
				p.pickView = v
			}
			p.finish(StateCommitted)
		}
	}
}

// finish removes every highlight once and then resolves the handle.
func (p *PickHandler) finish(state State) {
	if p.torn {
		return
	}
	p.torn = true
	p.state = state

	if p.hover != nil {
		p.hoverView.Context().Unhighlighted(p.hover)
		p.hover, p.hoverView = nil, nil
	}
	if p.pickView != nil {
		for _, s := range p.picked {
			p.pickView.Context().Unhighlighted(s)
		}
		p.pickView.Update()
	}
	if state == StateCancelled {
		p.picked, p.models = nil, nil
	}
	p.metrics.PickFinished(state.String())
	p.logger.Debug("selection finished", "state", state, "picked", len(p.picked))

	if state == StateCommitted {
		p.handle.Success()
	} else {
		p.handle.Cancel()
	}
}
