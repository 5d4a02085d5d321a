package step

import (
	"fmt"

	"github.com/dshills/draftsnap/internal/async"
	"github.com/dshills/draftsnap/internal/document"
	"github.com/dshills/draftsnap/internal/geom"
	"github.com/dshills/draftsnap/internal/i18n"
	"github.com/dshills/draftsnap/internal/snap"
	"github.com/dshills/draftsnap/internal/view"
)

// PointStep asks for a point.
type PointStep struct {
	base
	Prompt i18n.Key
	Data   func() snap.PointData

	// Filter limits the edges object snaps consider. Nil allows all.
	Filter view.ShapeFilter
}

// NewPointStep creates a point step. A nil data function accepts any point
// with free 1D/2D/3D input.
func NewPointStep(prompt i18n.Key, data func() snap.PointData) *PointStep {
	return &PointStep{Prompt: prompt, Data: data}
}

// Execute implements Step.
//
// Object snaps are tried first. When the dimension allows workplane or
// free input, the plane through the reference point (or the workplane
// origin) catches every other pointer position.
func (s *PointStep) Execute(doc *document.Document, h *async.Handle, resolve func(*snap.PickResult)) {
	data := snap.PointData{Dimension: snap.D1D2D3}
	if s.Data != nil {
		data = s.Data()
	}
	data.Validators = append(append([]snap.Validator(nil), data.Validators...), documentValidators(doc)...)

	cfg := s.cfg()
	providers := []snap.Provider{objectSnap(cfg, s.Filter)}
	if data.Dimension&(snap.D2|snap.D3) != 0 {
		providers = append(providers, snap.NewPlaneSnap(data.RefPoint))
	}
	parser := snap.PointParser{Dimension: data.Dimension, RefPoint: data.RefPoint}

	handler := snap.NewEventHandler(h, doc.Notices(), providers, parser, data, handlerOptions(cfg)...)
	run(doc, h, s.Prompt, handler, handler.Result, resolve)
}

// LengthAtAxisStep asks for a point on an axis, typically a signed length.
type LengthAtAxisStep struct {
	base
	Prompt i18n.Key
	Data   func() snap.AxisData
}

// NewLengthAtAxisStep creates an axis step.
func NewLengthAtAxisStep(prompt i18n.Key, data func() snap.AxisData) *LengthAtAxisStep {
	return &LengthAtAxisStep{Prompt: prompt, Data: data}
}

// Execute implements Step.
func (s *LengthAtAxisStep) Execute(doc *document.Document, h *async.Handle, resolve func(*snap.PickResult)) {
	axis := s.Data()
	origin := axis.Origin
	data := snap.PointData{
		Dimension:  snap.D1,
		RefPoint:   &origin,
		Preview:    axis.Preview,
		Validators: documentValidators(doc),
		Prompt: func(c snap.Candidate) string {
			return i18n.Translate(i18n.TipLength, fmt.Sprintf("%.2f", geom.Distance(origin, c.Point)))
		},
	}
	providers := []snap.Provider{snap.NewAxisSnap(axis.Origin, axis.Direction)}
	parser := snap.AxisParser{Origin: axis.Origin, Direction: axis.Direction}

	cfg := s.cfg()
	handler := snap.NewEventHandler(h, doc.Notices(), providers, parser, data, handlerOptions(cfg)...)
	run(doc, h, s.Prompt, handler, handler.Result, resolve)
}

func objectSnap(cfg *Settings, filter view.ShapeFilter) *snap.ObjectSnap {
	return snap.NewObjectSnap(cfg.Mask,
		snap.WithThreshold(cfg.SnapDistance),
		snap.WithFilter(filter),
		snap.WithMarkerStyle(cfg.MarkerSize, cfg.MarkerColor),
		snap.WithLogger(cfg.logger().Named("snap")),
		snap.WithMetrics(cfg.Metrics),
	)
}

func handlerOptions(cfg *Settings) []snap.HandlerOption {
	return []snap.HandlerOption{
		snap.WithFeatureThreshold(cfg.FeatureDistance),
		snap.WithTemporaryVertex(cfg.VertexSize, cfg.VertexColor),
		snap.WithHandlerLogger(cfg.logger().Named("pick")),
		snap.WithHandlerMetrics(cfg.Metrics),
	}
}
