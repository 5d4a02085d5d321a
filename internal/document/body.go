package document

import (
	"fmt"

	"github.com/dshills/draftsnap/internal/geom"
	"github.com/dshills/draftsnap/internal/geom/kernel"
)

// Body is the parametric definition a model's shape is built from.
type Body interface {
	// Kind names the body type ("line", "box", ...).
	Kind() string

	// Build creates the shape. Degenerate input yields an error wrapping
	// kernel.ErrDegenerate.
	Build() (geom.Shape, error)
}

// Line is a straight edge between two points.
type Line struct {
	Start, End geom.Point
}

func (Line) Kind() string { return "line" }

func (b Line) Build() (geom.Shape, error) {
	return kernel.NewLine(b.Start, b.End)
}

// Circle is a full circle.
type Circle struct {
	Center geom.Point
	Normal geom.Point
	Radius float64
}

func (Circle) Kind() string { return "circle" }

func (b Circle) Build() (geom.Shape, error) {
	return kernel.NewCircle(b.Center, b.Normal, b.Radius)
}

// Box is an axis-aligned box in a plane: one corner at the plane origin,
// extents along the plane axes and normal.
type Box struct {
	Plane      geom.Plane
	DX, DY, DZ float64
}

func (Box) Kind() string { return "box" }

func (b Box) Build() (geom.Shape, error) {
	return kernel.NewBox(b.Plane, b.DX, b.DY, b.DZ)
}

// Wire is a connected chain of copied edges.
type Wire struct {
	Edges []geom.Edge
}

func (Wire) Kind() string { return "wire" }

func (b Wire) Build() (geom.Shape, error) {
	edges, err := copyEdges(b.Edges)
	if err != nil {
		return nil, err
	}
	return kernel.NewWire(edges...)
}

// Face is a planar face bounded by a closed chain of copied edges.
type Face struct {
	Edges []geom.Edge
}

func (Face) Kind() string { return "face" }

func (b Face) Build() (geom.Shape, error) {
	edges, err := copyEdges(b.Edges)
	if err != nil {
		return nil, err
	}
	w, err := kernel.NewWire(edges...)
	if err != nil {
		return nil, err
	}
	return kernel.NewFace(w)
}

// copyEdges gives the edges of a derived body their own identities so they
// never alias the edges of the models they came from.
func copyEdges(edges []geom.Edge) ([]geom.Edge, error) {
	if len(edges) == 0 {
		return nil, ErrEmptyBody
	}
	out := make([]geom.Edge, 0, len(edges))
	for _, e := range edges {
		c, err := kernel.Translate(e, geom.Point{})
		if err != nil {
			return nil, fmt.Errorf("copy edge %s: %w", e.ID(), err)
		}
		out = append(out, c.(geom.Edge))
	}
	return out, nil
}
