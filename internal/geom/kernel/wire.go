package kernel

import (
	"fmt"

	"github.com/dshills/draftsnap/internal/geom"
)

// Wire is a connected chain of edges.
type Wire struct {
	id     string
	edges  []geom.Edge
	closed bool
}

// NewWire orders edges into a single chain. Every edge must share an
// endpoint with the chain built so far.
func NewWire(edges ...geom.Edge) (*Wire, error) {
	if len(edges) == 0 {
		return nil, fmt.Errorf("wire without edges: %w", ErrDegenerate)
	}

	type seg struct {
		edge       geom.Edge
		start, end geom.Point
	}
	pending := make([]seg, 0, len(edges))
	for _, e := range edges {
		s, t, ok := geom.Endpoints(e)
		if !ok {
			return nil, fmt.Errorf("edge %s: %w", e.ID(), ErrUnsupported)
		}
		pending = append(pending, seg{edge: e, start: s, end: t})
	}

	chain := []seg{pending[0]}
	pending = pending[1:]
	head, tail := chain[0].start, chain[0].end
	for len(pending) > 0 {
		found := false
		for i, s := range pending {
			switch {
			case geom.Equal(s.start, tail, geom.Tolerance):
				tail = s.end
			case geom.Equal(s.end, tail, geom.Tolerance):
				tail = s.start
			case geom.Equal(s.end, head, geom.Tolerance):
				head = s.start
			case geom.Equal(s.start, head, geom.Tolerance):
				head = s.end
			default:
				continue
			}
			chain = append(chain, s)
			pending = append(pending[:i], pending[i+1:]...)
			found = true
			break
		}
		if !found {
			return nil, fmt.Errorf("wire of %d edges: %w", len(edges), ErrDisconnected)
		}
	}

	w := &Wire{id: geom.NewID(geom.PrefixWire)}
	for _, s := range chain {
		w.edges = append(w.edges, s.edge)
	}
	w.closed = len(chain) > 1 && geom.Equal(head, tail, geom.Tolerance)
	if len(chain) == 1 {
		if c, ok := chain[0].edge.AsCurve(); ok && c.Type() == geom.CurveCircle {
			w.closed = true
		}
	}
	return w, nil
}

// ID implements geom.Shape.
func (w *Wire) ID() string { return w.id }

// Type implements geom.Shape.
func (w *Wire) Type() geom.ShapeType { return geom.ShapeWire }

// Edges implements geom.Compound.
func (w *Wire) Edges() []geom.Edge { return append([]geom.Edge(nil), w.edges...) }

// Closed reports whether the chain ends where it starts.
func (w *Wire) Closed() bool { return w.closed }

// Face is a planar region bounded by a closed wire.
type Face struct {
	id    string
	outer *Wire
	plane geom.Plane
}

// NewFace builds a face from a closed planar wire.
func NewFace(w *Wire) (*Face, error) {
	if !w.Closed() {
		return nil, fmt.Errorf("face from open wire %s: %w", w.ID(), ErrDegenerate)
	}
	plane, ok := fitPlane(w.edges)
	if !ok {
		return nil, fmt.Errorf("face from non-planar wire %s: %w", w.ID(), ErrDegenerate)
	}
	return &Face{id: geom.NewID(geom.PrefixFace), outer: w, plane: plane}, nil
}

// ID implements geom.Shape.
func (f *Face) ID() string { return f.id }

// Type implements geom.Shape.
func (f *Face) Type() geom.ShapeType { return geom.ShapeFace }

// Edges implements geom.Compound.
func (f *Face) Edges() []geom.Edge { return f.outer.Edges() }

// Plane returns the plane of the face.
func (f *Face) Plane() geom.Plane { return f.plane }

// fitPlane finds the plane containing every edge, sampling curves at their
// ends and midpoint.
func fitPlane(edges []geom.Edge) (geom.Plane, bool) {
	var pts []geom.Point
	for _, e := range edges {
		c, ok := e.AsCurve()
		if !ok {
			return geom.Plane{}, false
		}
		if circle, ok := c.(geom.Circle); ok && len(edges) == 1 {
			return geom.NewPlane(circle.Center(), circle.Normal(), anyPerpendicular(circle.Normal())), true
		}
		t0, t1 := c.FirstParameter(), c.LastParameter()
		pts = append(pts, c.Point(t0), c.Point((t0+t1)/2), c.Point(t1))
	}
	if len(pts) < 3 {
		return geom.Plane{}, false
	}

	origin := pts[0]
	var normal geom.Point
	for i := 1; i < len(pts) && geom.Length(normal) <= geom.Tolerance; i++ {
		for j := i + 1; j < len(pts); j++ {
			n := geom.Cross(geom.Sub(pts[i], origin), geom.Sub(pts[j], origin))
			if geom.Length(n) > geom.Tolerance {
				normal = n
				break
			}
		}
	}
	if geom.Length(normal) <= geom.Tolerance {
		return geom.Plane{}, false
	}
	plane := geom.NewPlane(origin, normal, anyPerpendicular(normal))
	for _, p := range pts {
		if !plane.Contains(p) {
			return geom.Plane{}, false
		}
	}
	return plane, true
}
