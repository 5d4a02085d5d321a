package step

import (
	"github.com/dshills/draftsnap/internal/async"
	"github.com/dshills/draftsnap/internal/document"
	"github.com/dshills/draftsnap/internal/geom"
	"github.com/dshills/draftsnap/internal/i18n"
	"github.com/dshills/draftsnap/internal/selection"
	"github.com/dshills/draftsnap/internal/snap"
	"github.com/dshills/draftsnap/internal/view"
)

// ShapePickStep asks for one or more existing shapes.
type ShapePickStep struct {
	base
	Type     geom.ShapeType
	Prompt   i18n.Key
	Multiple bool
	Filter   view.ShapeFilter
}

// NewShapePickStep creates a shape pick step.
func NewShapePickStep(t geom.ShapeType, prompt i18n.Key, multiple bool, filter view.ShapeFilter) *ShapePickStep {
	return &ShapePickStep{Type: t, Prompt: prompt, Multiple: multiple, Filter: filter}
}

// Execute implements Step.
func (s *ShapePickStep) Execute(doc *document.Document, h *async.Handle, resolve func(*snap.PickResult)) {
	p := selection.NewPickHandler(h, doc, selection.PickShapes, s.Type, s.options()...)
	run(doc, h, s.Prompt, p, func() *snap.PickResult {
		return &snap.PickResult{View: p.View(), Shapes: p.Shapes()}
	}, resolve)
}

func (s *ShapePickStep) options() []selection.Option {
	cfg := s.cfg()
	return []selection.Option{
		selection.WithMultiple(s.Multiple),
		selection.WithFilter(s.Filter),
		selection.WithLogger(cfg.logger().Named("select")),
		selection.WithMetrics(cfg.Metrics),
	}
}

// ModelPickStep asks for one or more models.
type ModelPickStep struct {
	base
	Prompt   i18n.Key
	Multiple bool
	Filter   view.ShapeFilter

	// UseSelection resolves immediately with the selected models that pass
	// the filter, if there are any.
	UseSelection bool
}

// NewModelPickStep creates a model pick step.
func NewModelPickStep(prompt i18n.Key, multiple bool, filter view.ShapeFilter) *ModelPickStep {
	return &ModelPickStep{Prompt: prompt, Multiple: multiple, Filter: filter}
}

// Execute implements Step.
func (s *ModelPickStep) Execute(doc *document.Document, h *async.Handle, resolve func(*snap.PickResult)) {
	if s.UseSelection {
		if models := s.selected(doc); len(models) > 0 {
			res := &snap.PickResult{View: doc.Viewer().Active(), Models: models}
			for _, m := range models {
				res.Shapes = append(res.Shapes, m.Shape())
			}
			h.OnSettled(func(st async.Status) {
				if st == async.StatusSucceeded {
					resolve(res)
				} else {
					resolve(nil)
				}
			})
			h.Success()
			return
		}
		doc.Selection().Clear()
	}

	cfg := s.cfg()
	p := selection.NewPickHandler(h, doc, selection.PickModels, geom.ShapeAny,
		selection.WithMultiple(s.Multiple),
		selection.WithFilter(s.Filter),
		selection.WithLogger(cfg.logger().Named("select")),
		selection.WithMetrics(cfg.Metrics),
	)
	run(doc, h, s.Prompt, p, func() *snap.PickResult {
		return &snap.PickResult{View: p.View(), Shapes: p.Shapes(), Models: p.Models()}
	}, resolve)
}

func (s *ModelPickStep) selected(doc *document.Document) []*document.Model {
	var out []*document.Model
	for _, m := range doc.Selection().Models() {
		shape := m.Shape()
		if shape == nil || !view.Allows(s.Filter, shape) {
			continue
		}
		out = append(out, m)
		if !s.Multiple {
			break
		}
	}
	return out
}
