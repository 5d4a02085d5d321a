package kernel

import (
	"fmt"
	"math"

	"github.com/dshills/draftsnap/internal/geom"
)

// Solid is a closed body represented by its wireframe edges.
type Solid struct {
	id    string
	edges []geom.Edge
}

// ID implements geom.Shape.
func (s *Solid) ID() string { return s.id }

// Type implements geom.Shape.
func (s *Solid) Type() geom.ShapeType { return geom.ShapeSolid }

// Edges implements geom.Compound.
func (s *Solid) Edges() []geom.Edge { return append([]geom.Edge(nil), s.edges...) }

// NewBox builds a box with one corner at the plane origin, extending dx along
// the plane's x direction, dy along its y direction and dz along its normal.
// Negative extents grow the other way.
func NewBox(plane geom.Plane, dx, dy, dz float64) (*Solid, error) {
	if math.Abs(dx) <= geom.Tolerance || math.Abs(dy) <= geom.Tolerance || math.Abs(dz) <= geom.Tolerance {
		return nil, fmt.Errorf("box %gx%gx%g: %w", dx, dy, dz, ErrDegenerate)
	}

	bottom := [4]geom.Point{
		plane.World(0, 0, 0),
		plane.World(dx, 0, 0),
		plane.World(dx, dy, 0),
		plane.World(0, dy, 0),
	}
	var top [4]geom.Point
	for i, p := range bottom {
		top[i] = geom.Add(p, geom.Scale(plane.Normal, dz))
	}

	s := &Solid{id: geom.NewID(geom.PrefixSolid)}
	for i := 0; i < 4; i++ {
		j := (i + 1) % 4
		s.edges = append(s.edges,
			MustLine(bottom[i], bottom[j]),
			MustLine(top[i], top[j]),
			MustLine(bottom[i], top[i]),
		)
	}
	return s, nil
}
