package snap

import (
	"github.com/dshills/draftsnap/internal/geom"
	"github.com/dshills/draftsnap/internal/i18n"
	"github.com/dshills/draftsnap/internal/view"
)

// Provider proposes a snap candidate for a pointer position.
type Provider interface {
	// Snap computes the candidate for (x, y) and reports whether one matched.
	Snap(v view.View, x, y float64) bool

	// Current returns the candidate of the last successful Snap.
	Current() (Candidate, bool)

	// RemoveDynamicObject drops per-frame state such as highlights.
	RemoveDynamicObject()

	// OnSnapTypeChanged applies a new mask and drops mask-dependent caches.
	OnSnapTypeChanged(mask Mask)

	// Clear releases every render object the provider created.
	Clear()
}

// PlaneSnap projects the pointer ray onto a plane parallel to the view's
// workplane. The plane passes through Origin when set.
type PlaneSnap struct {
	origin  *geom.Point
	current *Candidate
}

// NewPlaneSnap returns a plane provider. A nil origin uses the workplane origin.
func NewPlaneSnap(origin *geom.Point) *PlaneSnap {
	return &PlaneSnap{origin: origin}
}

// Snap implements Provider. It only fails when the ray is parallel to the plane.
func (s *PlaneSnap) Snap(v view.View, x, y float64) bool {
	s.current = nil
	plane := v.Workplane()
	if s.origin != nil {
		plane = plane.Translate(*s.origin)
	}
	origin, dir := v.Ray(x, y)
	p, ok := plane.IntersectLine(origin, dir)
	if !ok {
		return false
	}
	s.current = &Candidate{Point: p, Caption: i18n.SnapPlane}
	return true
}

// Current implements Provider.
func (s *PlaneSnap) Current() (Candidate, bool) {
	if s.current == nil {
		return Candidate{}, false
	}
	return *s.current, true
}

func (s *PlaneSnap) RemoveDynamicObject()   {}
func (s *PlaneSnap) OnSnapTypeChanged(Mask) {}

// Clear implements Provider.
func (s *PlaneSnap) Clear() { s.current = nil }

// AxisSnap returns the point of an axis closest to the pointer ray.
type AxisSnap struct {
	origin    geom.Point
	direction geom.Point
	current   *Candidate
}

// NewAxisSnap returns an axis provider for the line origin + t*direction.
func NewAxisSnap(origin, direction geom.Point) *AxisSnap {
	return &AxisSnap{origin: origin, direction: geom.Normalize(direction)}
}

// Snap implements Provider. It fails when the ray is parallel to the axis.
func (s *AxisSnap) Snap(v view.View, x, y float64) bool {
	s.current = nil
	origin, dir := v.Ray(x, y)
	p, ok := geom.ClosestOnLineToLine(s.origin, s.direction, origin, dir)
	if !ok {
		return false
	}
	s.current = &Candidate{Point: p, Caption: i18n.SnapAxis}
	return true
}

// Current implements Provider.
func (s *AxisSnap) Current() (Candidate, bool) {
	if s.current == nil {
		return Candidate{}, false
	}
	return *s.current, true
}

func (s *AxisSnap) RemoveDynamicObject()   {}
func (s *AxisSnap) OnSnapTypeChanged(Mask) {}

// Clear implements Provider.
func (s *AxisSnap) Clear() { s.current = nil }
