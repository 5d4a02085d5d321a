package view

import (
	"errors"
	"sync"

	"github.com/dshills/draftsnap/internal/input/key"
	"github.com/dshills/draftsnap/internal/input/mouse"
)

// ErrNoView is returned when an event arrives before any view is attached.
var ErrNoView = errors.New("no active view")

// HandlerChangeCallback is called when the active handler changes.
type HandlerChangeCallback func(from, to EventHandler)

// Viewer owns the views of a document and routes their input to the handler
// on top of its handler stack.
type Viewer struct {
	mu sync.RWMutex

	views  []View
	active View

	// fallback handles input when the stack is empty.
	fallback EventHandler

	// stack holds handlers pushed by pick sessions.
	stack []EventHandler

	callbacks []HandlerChangeCallback
}

// NewViewer creates a viewer whose idle handler is fallback.
// A nil fallback only zooms.
func NewViewer(fallback EventHandler) *Viewer {
	if fallback == nil {
		fallback = ZoomHandler{}
	}
	return &Viewer{
		fallback: fallback,
		stack:    make([]EventHandler, 0, 4),
	}
}

// AddView attaches a view. The first view becomes active.
func (vw *Viewer) AddView(v View) {
	vw.mu.Lock()
	defer vw.mu.Unlock()
	vw.views = append(vw.views, v)
	if vw.active == nil {
		vw.active = v
	}
}

// SetActive makes v the view that receives input.
func (vw *Viewer) SetActive(v View) {
	vw.mu.Lock()
	defer vw.mu.Unlock()
	vw.active = v
}

// Active returns the active view, or nil.
func (vw *Viewer) Active() View {
	vw.mu.RLock()
	defer vw.mu.RUnlock()
	return vw.active
}

// Views returns the attached views.
func (vw *Viewer) Views() []View {
	vw.mu.RLock()
	defer vw.mu.RUnlock()
	return append([]View(nil), vw.views...)
}

// SetFallback replaces the idle handler.
func (vw *Viewer) SetFallback(h EventHandler) {
	vw.mu.Lock()
	defer vw.mu.Unlock()
	vw.fallback = h
}

// Current returns the handler receiving input.
func (vw *Viewer) Current() EventHandler {
	vw.mu.RLock()
	defer vw.mu.RUnlock()
	return vw.currentLocked()
}

func (vw *Viewer) currentLocked() EventHandler {
	if n := len(vw.stack); n > 0 {
		return vw.stack[n-1]
	}
	return vw.fallback
}

// Depth returns the number of pushed handlers.
func (vw *Viewer) Depth() int {
	vw.mu.RLock()
	defer vw.mu.RUnlock()
	return len(vw.stack)
}

// Push makes h the active handler until it is popped.
func (vw *Viewer) Push(h EventHandler) {
	vw.mu.Lock()
	from := vw.currentLocked()
	vw.stack = append(vw.stack, h)
	callbacks := vw.callbacks
	vw.mu.Unlock()

	vw.notify(callbacks, from, h)
}

// Pop removes h from the stack wherever it is.
// Returns false if h was not pushed.
func (vw *Viewer) Pop(h EventHandler) bool {
	vw.mu.Lock()
	from := vw.currentLocked()
	idx := -1
	for i := len(vw.stack) - 1; i >= 0; i-- {
		if vw.stack[i] == h {
			idx = i
			break
		}
	}
	if idx < 0 {
		vw.mu.Unlock()
		return false
	}
	vw.stack = append(vw.stack[:idx], vw.stack[idx+1:]...)
	to := vw.currentLocked()
	callbacks := vw.callbacks
	vw.mu.Unlock()

	if from != to {
		vw.notify(callbacks, from, to)
	}
	return true
}

// OnHandlerChange registers a callback for handler changes.
func (vw *Viewer) OnHandlerChange(cb HandlerChangeCallback) {
	vw.mu.Lock()
	defer vw.mu.Unlock()
	vw.callbacks = append(vw.callbacks, cb)
}

func (vw *Viewer) notify(callbacks []HandlerChangeCallback, from, to EventHandler) {
	for _, cb := range callbacks {
		cb(from, to)
	}
}

// Update redraws every view.
func (vw *Viewer) Update() {
	for _, v := range vw.Views() {
		v.Update()
	}
}

// DispatchMouse routes a pointer event to the current handler.
func (vw *Viewer) DispatchMouse(e mouse.Event) error {
	vw.mu.RLock()
	v, h := vw.active, vw.currentLocked()
	vw.mu.RUnlock()
	if v == nil {
		return ErrNoView
	}

	switch e.Action {
	case mouse.ActionMove:
		h.PointerMove(v, e)
	case mouse.ActionPress:
		h.PointerDown(v, e)
	case mouse.ActionRelease:
		h.PointerUp(v, e)
	case mouse.ActionWheel:
		h.MouseWheel(v, e)
	}
	return nil
}

// DispatchKey routes a key event to the current handler.
func (vw *Viewer) DispatchKey(e key.Event) error {
	vw.mu.RLock()
	v, h := vw.active, vw.currentLocked()
	vw.mu.RUnlock()
	if v == nil {
		return ErrNoView
	}
	h.KeyDown(v, e)
	return nil
}
