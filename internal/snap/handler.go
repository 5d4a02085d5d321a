package snap

import (
	"github.com/hashicorp/go-hclog"

	"github.com/dshills/draftsnap/internal/async"
	"github.com/dshills/draftsnap/internal/geom"
	"github.com/dshills/draftsnap/internal/i18n"
	"github.com/dshills/draftsnap/internal/input/key"
	"github.com/dshills/draftsnap/internal/input/mouse"
	"github.com/dshills/draftsnap/internal/metrics"
	"github.com/dshills/draftsnap/internal/notice"
	"github.com/dshills/draftsnap/internal/view"
)

// State is the lifecycle state of an EventHandler.
type State int

const (
	StateActive State = iota
	StateCommitted
	StateCancelled
)

// String returns the state name.
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

// HandlerOption configures an EventHandler.
type HandlerOption func(*EventHandler)

// WithFeatureThreshold sets the snap distance for caller feature points.
func WithFeatureThreshold(px float64) HandlerOption {
	return func(e *EventHandler) { e.featureThreshold = px }
}

// WithTemporaryVertex sets the look of the snap marker.
func WithTemporaryVertex(size float64, color view.Color) HandlerOption {
	return func(e *EventHandler) {
		e.vertexSize, e.vertexColor = size, color
	}
}

// WithHandlerLogger sets the logger.
func WithHandlerLogger(l hclog.Logger) HandlerOption {
	return func(e *EventHandler) { e.logger = l }
}

// WithHandlerMetrics sets the metrics sink.
func WithHandlerMetrics(m *metrics.Metrics) HandlerOption {
	return func(e *EventHandler) { e.metrics = m }
}

// EventHandler is the view.EventHandler of one point pick session.
//
// Providers are asked in order; the first candidate that passes every
// validator wins. The session ends on a primary click with a snap, on an
// accepted typed value, on Escape, or when the handle is cancelled from
// outside. Teardown runs exactly once and before the handle settles.
type EventHandler struct {
	handle    *async.Handle
	notices   *notice.Channel
	providers []Provider
	parser    InputParser

	featurePoints []FeaturePoint
	preview       func(geom.Point) []view.MeshData
	validators    []Validator
	prompt        func(Candidate) string

	featureThreshold float64
	vertexSize       float64
	vertexColor      view.Color
	logger           hclog.Logger
	metrics          *metrics.Metrics

	state  State
	torn   bool
	last   *Candidate
	result *PickResult

	tempView   view.View
	tempPoint  view.Handle
	tempShapes []view.Handle

	sub *notice.Subscription
}

// NewEventHandler creates a handler for one pick session bound to h.
func NewEventHandler(h *async.Handle, notices *notice.Channel, providers []Provider, parser InputParser, data PointData, opts ...HandlerOption) *EventHandler {
	e := &EventHandler{
		handle:           h,
		notices:          notices,
		providers:        providers,
		parser:           parser,
		featurePoints:    data.FeaturePoints,
		preview:          data.Preview,
		validators:       append([]Validator(nil), data.Validators...),
		prompt:           data.Prompt,
		featureThreshold: DefaultSnapDistance,
		vertexSize:       DefaultMarkerSize + 2,
		vertexColor:      view.ColorWhite,
		logger:           hclog.NewNullLogger(),
	}
	for _, opt := range opts {
		opt(e)
	}

	e.sub = notices.Subscribe(func(n notice.Notice) {
		mask := Mask(n.SnapTypes)
		for _, p := range e.providers {
			p.OnSnapTypeChanged(mask)
		}
	}, notice.TopicSnapTypeChanged)

	h.OnCancelled(func() {
		e.finish(StateCancelled)
	})
	return e
}

// State returns the session state.
func (e *EventHandler) State() State { return e.state }

// Result returns the committed pick, or nil.
func (e *EventHandler) Result() *PickResult { return e.result }

// Last returns the candidate of the last pointer move, or nil.
func (e *EventHandler) Last() *Candidate { return e.last }

// PointerMove implements view.EventHandler.
func (e *EventHandler) PointerMove(v view.View, ev mouse.Event) {
	if e.state != StateActive {
		return
	}
	e.removeTempObjects()
	e.last = e.resolve(v, ev.X, ev.Y)
	if e.last != nil {
		e.showTemp(v, e.last.Point)
		e.showTip(*e.last)
	} else {
		e.notices.ClearFloatTip()
	}
	v.Update()
}

func (e *EventHandler) resolve(v view.View, x, y float64) *Candidate {
	if c := e.snapToFeaturePoint(v, x, y); c != nil {
		e.metrics.Snapped("feature")
		return c
	}
	for _, p := range e.providers {
		if !p.Snap(v, x, y) {
			continue
		}
		c, ok := p.Current()
		if !ok {
			continue
		}
		if e.validate(c.Point) {
			e.metrics.Snapped("provider")
			return &c
		}
		p.RemoveDynamicObject()
	}
	e.metrics.Snapped("none")
	return nil
}

func (e *EventHandler) snapToFeaturePoint(v view.View, x, y float64) *Candidate {
	var best *FeaturePoint
	minDist := e.featureThreshold
	for i := range e.featurePoints {
		fp := &e.featurePoints[i]
		if fp.When != nil && !fp.When() {
			continue
		}
		if d := view.ScreenDistance(v, x, y, fp.Point); d < minDist {
			minDist = d
			best = fp
		}
	}
	if best == nil {
		return nil
	}
	return &Candidate{Point: best.Point, Caption: best.Prompt}
}

func (e *EventHandler) validate(p geom.Point) bool {
	for _, fn := range e.validators {
		if !fn(p) {
			return false
		}
	}
	return true
}

func (e *EventHandler) showTip(c Candidate) {
	if e.prompt != nil {
		if text := e.prompt(c); text != "" {
			e.notices.ShowFloatText(notice.LevelInfo, text)
			return
		}
	}
	if c.Caption == "" {
		e.notices.ClearFloatTip()
		return
	}
	e.notices.ShowFloatTip(notice.LevelInfo, c.Caption)
}

func (e *EventHandler) showTemp(v view.View, p geom.Point) {
	ctx := v.Context()
	e.tempView = v
	e.tempPoint = ctx.DisplayShapeMesh(view.VertexMesh{Point: p, Size: e.vertexSize, Color: e.vertexColor})
	if e.preview == nil {
		return
	}
	for _, m := range e.preview(p) {
		e.tempShapes = append(e.tempShapes, ctx.DisplayShapeMesh(m))
	}
}

func (e *EventHandler) removeTempObjects() {
	e.removeTempShapes()
	for _, p := range e.providers {
		p.RemoveDynamicObject()
	}
}

func (e *EventHandler) removeTempShapes() {
	if e.tempView == nil {
		return
	}
	ctx := e.tempView.Context()
	if e.tempPoint != 0 {
		ctx.RemoveShapeMesh(e.tempPoint)
	}
	for _, h := range e.tempShapes {
		ctx.RemoveShapeMesh(h)
	}
	e.tempView.Update()
	e.tempView = nil
	e.tempPoint = 0
	e.tempShapes = nil
}

// PointerDown implements view.EventHandler. A primary click commits the
// current snap; without one the click is ignored.
func (e *EventHandler) PointerDown(v view.View, ev mouse.Event) {
	if e.state != StateActive || ev.Button != mouse.ButtonLeft || e.last == nil {
		return
	}
	e.commit(v, *e.last)
}

// PointerUp implements view.EventHandler.
func (e *EventHandler) PointerUp(view.View, mouse.Event) {}

// MouseWheel implements view.EventHandler.
func (e *EventHandler) MouseWheel(v view.View, ev mouse.Event) {
	v.Zoom(ev.Delta, ev.X, ev.Y)
	v.Update()
}

// KeyDown implements view.EventHandler.
func (e *EventHandler) KeyDown(v view.View, ev key.Event) {
	if e.state != StateActive {
		return
	}
	switch {
	case ev.Key == key.KeyEscape:
		e.last = nil
		e.finish(StateCancelled)
	case ev.StartsNumber():
		e.notices.ShowInput(notice.InputRequest{
			Initial: string(ev.Rune),
			Validate: func(text string) notice.Validation {
				return e.submit(v, text)
			},
		})
	}
}

func (e *EventHandler) submit(v view.View, text string) notice.Validation {
	if e.state != StateActive {
		return notice.Invalid(i18n.ErrInputRejected)
	}
	if errKey := e.parser.InputError(text, e.last); errKey != "" {
		return notice.Invalid(errKey)
	}
	p := e.parser.PointFromInput(v, text, e.last)
	if !e.validate(p) {
		return notice.Invalid(i18n.ErrInputRejected)
	}
	e.commit(v, Candidate{Point: p})
	return notice.Validation{}
}

func (e *EventHandler) commit(v view.View, c Candidate) {
	point := c.Point
	e.result = &PickResult{
		View:    v,
		Point:   &point,
		Shapes:  c.Shapes,
		Caption: c.Caption,
	}
	e.finish(StateCommitted)
}

// finish tears the session down once and then resolves the handle.
func (e *EventHandler) finish(state State) {
	if e.torn {
		return
	}
	e.torn = true
	e.state = state
	if state == StateCancelled {
		e.result = nil
	}

	e.notices.ClearFloatTip()
	e.notices.ClearInput()
	e.removeTempShapes()
	for _, p := range e.providers {
		p.Clear()
	}
	e.sub.Unsubscribe()
	e.metrics.PickFinished(state.String())
	e.logger.Debug("pick finished", "state", state)

	if state == StateCommitted {
		e.handle.Success()
	} else {
		e.handle.Cancel()
	}
}
