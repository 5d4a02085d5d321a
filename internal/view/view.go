package view

import (
	"math"

	"github.com/dshills/draftsnap/internal/geom"
)

// ScreenPoint is a viewport pixel coordinate, origin at the top-left corner.
type ScreenPoint struct {
	X, Y float64
}

// ShapeFilter restricts which shapes a detection or a pick may return.
type ShapeFilter interface {
	Allow(s geom.Shape) bool
}

// ShapeFilterFunc adapts a function to ShapeFilter.
type ShapeFilterFunc func(s geom.Shape) bool

// Allow implements ShapeFilter.
func (f ShapeFilterFunc) Allow(s geom.Shape) bool { return f(s) }

// View is one viewport onto the document.
type View interface {
	// Name identifies the view in logs.
	Name() string

	// Detected returns the shapes of the given type under (x, y), nearest
	// first. Compound shapes are decomposed when t asks for edges.
	// A nil filter accepts everything.
	Detected(t geom.ShapeType, x, y float64, filter ShapeFilter) []geom.Shape

	// WorldToScreen projects a world point into viewport pixels.
	WorldToScreen(p geom.Point) ScreenPoint

	// Ray returns the picking ray through (x, y) as origin and unit direction.
	Ray(x, y float64) (origin, dir geom.Point)

	// Workplane is the construction plane of the view.
	Workplane() geom.Plane

	// Zoom scales the view around (x, y). Positive delta zooms in.
	Zoom(delta, x, y float64)

	// Context returns the visual context owning this view's render handles.
	Context() VisualContext

	// Update requests a redraw.
	Update()
}

// ScreenDistance returns the pixel distance between (x, y) and the
// projection of p.
func ScreenDistance(v View, x, y float64, p geom.Point) float64 {
	sp := v.WorldToScreen(p)
	return math.Hypot(sp.X-x, sp.Y-y)
}

// Allows reports whether filter accepts s. A nil filter accepts everything.
func Allows(filter ShapeFilter, s geom.Shape) bool {
	return filter == nil || filter.Allow(s)
}
