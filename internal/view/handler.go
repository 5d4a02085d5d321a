package view

import (
	"github.com/dshills/draftsnap/internal/input/key"
	"github.com/dshills/draftsnap/internal/input/mouse"
)

// EventHandler receives the input of a view.
type EventHandler interface {
	PointerMove(v View, e mouse.Event)
	PointerDown(v View, e mouse.Event)
	PointerUp(v View, e mouse.Event)
	MouseWheel(v View, e mouse.Event)
	KeyDown(v View, e key.Event)
}

// ZoomHandler forwards wheel events to the view and ignores everything else.
// Embed it to inherit default behavior.
type ZoomHandler struct{}

func (ZoomHandler) PointerMove(View, mouse.Event) {}
func (ZoomHandler) PointerDown(View, mouse.Event) {}
func (ZoomHandler) PointerUp(View, mouse.Event)   {}
func (ZoomHandler) KeyDown(View, key.Event)       {}

// MouseWheel zooms the view around the pointer.
func (ZoomHandler) MouseWheel(v View, e mouse.Event) {
	v.Zoom(e.Delta, e.X, e.Y)
	v.Update()
}
