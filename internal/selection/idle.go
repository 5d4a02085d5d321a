package selection

import (
	"github.com/dshills/draftsnap/internal/document"
	"github.com/dshills/draftsnap/internal/geom"
	"github.com/dshills/draftsnap/internal/input/key"
	"github.com/dshills/draftsnap/internal/input/mouse"
	"github.com/dshills/draftsnap/internal/view"
)

// IdleHandler selects models while no command is running.
//
// Hovering highlights the model under the pointer. A primary click on a
// model selects it; with Shift held the model is toggled in the current
// selection instead. A click on empty space clears the selection, and so
// does Escape.
type IdleHandler struct {
	view.ZoomHandler

	doc *document.Document

	down  bool
	downX float64
	downY float64

	hover     geom.Shape
	hoverView view.View

	// shown holds the shapes highlighted for the selection.
	shown     []geom.Shape
	shownView view.View
}

// NewIdleHandler creates an idle handler and keeps its highlights in sync
// with the document selection.
func NewIdleHandler(doc *document.Document) *IdleHandler {
	h := &IdleHandler{doc: doc}
	doc.Selection().OnChange(func([]*document.Model) {
		h.sync(h.shownView)
	})
	return h
}

func (h *IdleHandler) modelAt(v view.View, x, y float64) *document.Model {
	for _, s := range v.Detected(geom.ShapeAny, x, y, nil) {
		if m, ok := h.doc.ModelOfShape(s); ok {
			return m
		}
	}
	return nil
}

func (h *IdleHandler) isShown(s geom.Shape) bool {
	for _, shown := range h.shown {
		if shown.ID() == s.ID() {
			return true
		}
	}
	return false
}

// PointerMove implements view.EventHandler.
func (h *IdleHandler) PointerMove(v view.View, e mouse.Event) {
	if h.hover != nil && !h.isShown(h.hover) {
		h.hoverView.Context().Unhighlighted(h.hover)
	}
	h.hover, h.hoverView = nil, nil
	if m := h.modelAt(v, e.X, e.Y); m != nil {
		h.hover, h.hoverView = m.Shape(), v
		v.Context().Highlighted(h.hover)
	}
	v.Update()
}

// PointerDown implements view.EventHandler.
func (h *IdleHandler) PointerDown(_ view.View, e mouse.Event) {
	if e.Button == mouse.ButtonLeft {
		h.down, h.downX, h.downY = true, e.X, e.Y
	}
}

// PointerUp implements view.EventHandler.
func (h *IdleHandler) PointerUp(v view.View, e mouse.Event) {
	if !h.down || e.Button != mouse.ButtonLeft {
		return
	}
	h.down = false
	h.shownView = v

	sel := h.doc.Selection()
	m := h.modelAt(v, h.downX, h.downY)
	switch {
	case m == nil:
		sel.Clear()
	case e.Modifiers.Has(key.ModShift):
		sel.Toggle(m)
	default:
		sel.Set(m)
	}
	h.sync(v)
}

// KeyDown implements view.EventHandler.
func (h *IdleHandler) KeyDown(v view.View, e key.Event) {
	if e.Key == key.KeyEscape {
		h.shownView = v
		h.doc.Selection().Clear()
	}
}

// sync makes the highlighted shapes match the selection.
func (h *IdleHandler) sync(v view.View) {
	if v == nil {
		v = h.doc.Viewer().Active()
	}
	if v == nil {
		return
	}
	if h.shownView != nil && h.shownView != v {
		for _, s := range h.shown {
			h.shownView.Context().Unhighlighted(s)
		}
		h.shown = nil
	}
	ctx := v.Context()
	for _, s := range h.shown {
		if h.hover == nil || h.hover.ID() != s.ID() {
			ctx.Unhighlighted(s)
		}
	}
	h.shown = h.shown[:0]
	for _, m := range h.doc.Selection().Models() {
		if s := m.Shape(); s != nil {
			ctx.Highlighted(s)
			h.shown = append(h.shown, s)
		}
	}
	h.shownView = v
	v.Update()
}
