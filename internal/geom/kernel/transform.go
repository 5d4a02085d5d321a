package kernel

import (
	"fmt"

	"github.com/dshills/draftsnap/internal/geom"
)

// Translate returns a copy of s moved by offset. The copy and every edge in
// it get fresh identifiers.
func Translate(s geom.Shape, offset geom.Point) (geom.Shape, error) {
	switch v := s.(type) {
	case *Line:
		return NewLine(geom.Add(v.start, offset), geom.Add(v.end, offset))
	case *CircleEdge:
		c := *v
		c.id = geom.NewID(geom.PrefixEdge)
		c.plane = v.plane.Translate(geom.Add(v.plane.Origin, offset))
		return &c, nil
	case *Wire:
		edges, err := translateEdges(v.edges, offset)
		if err != nil {
			return nil, err
		}
		return &Wire{id: geom.NewID(geom.PrefixWire), edges: edges, closed: v.closed}, nil
	case *Face:
		edges, err := translateEdges(v.outer.edges, offset)
		if err != nil {
			return nil, err
		}
		w := &Wire{id: geom.NewID(geom.PrefixWire), edges: edges, closed: v.outer.closed}
		return &Face{id: geom.NewID(geom.PrefixFace), outer: w, plane: v.plane.Translate(geom.Add(v.plane.Origin, offset))}, nil
	case *Solid:
		edges, err := translateEdges(v.edges, offset)
		if err != nil {
			return nil, err
		}
		return &Solid{id: geom.NewID(geom.PrefixSolid), edges: edges}, nil
	default:
		return nil, fmt.Errorf("translate %T: %w", s, ErrUnsupported)
	}
}

func translateEdges(edges []geom.Edge, offset geom.Point) ([]geom.Edge, error) {
	out := make([]geom.Edge, 0, len(edges))
	for _, e := range edges {
		moved, err := Translate(e, offset)
		if err != nil {
			return nil, err
		}
		out = append(out, moved.(geom.Edge))
	}
	return out, nil
}
