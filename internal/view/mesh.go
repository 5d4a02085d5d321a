package view

import (
	"fmt"

	"github.com/dshills/draftsnap/internal/geom"
)

// Color is a 24-bit RGB color.
type Color uint32

// Palette used by markers and previews.
const (
	ColorWhite     Color = 0xffffff
	ColorYellow    Color = 0xffff00
	ColorHighlight Color = 0x00ccff
	ColorPreview   Color = 0x888888
)

// String formats the color as #rrggbb.
func (c Color) String() string {
	return fmt.Sprintf("#%06x", uint32(c)&0xffffff)
}

// LineType selects the stroke of an edge mesh.
type LineType uint8

const (
	LineSolid LineType = iota
	LineDash
)

// MeshData is renderable geometry handed to a VisualContext.
type MeshData interface {
	// Positions returns the world points of the mesh.
	Positions() []geom.Point
}

// VertexMesh is a point marker.
type VertexMesh struct {
	Point geom.Point
	Size  float64
	Color Color
}

// Positions implements MeshData.
func (m VertexMesh) Positions() []geom.Point { return []geom.Point{m.Point} }

// EdgeMesh is a polyline.
type EdgeMesh struct {
	Points []geom.Point
	Color  Color
	Line   LineType
}

// Positions implements MeshData.
func (m EdgeMesh) Positions() []geom.Point { return m.Points }

// NewLineMesh returns a two point polyline from a to b.
func NewLineMesh(a, b geom.Point, color Color, line LineType) EdgeMesh {
	return EdgeMesh{Points: []geom.Point{a, b}, Color: color, Line: line}
}

// NewPolylineMesh returns a polyline through pts, closing it when closed is set.
func NewPolylineMesh(pts []geom.Point, closed bool, color Color) EdgeMesh {
	out := append([]geom.Point(nil), pts...)
	if closed && len(pts) > 1 {
		out = append(out, pts[0])
	}
	return EdgeMesh{Points: out, Color: color}
}

// Tessellate samples an edge into a polyline. Lines yield their two end
// points; other curves yield segments+1 evenly spaced points.
func Tessellate(e geom.Edge, segments int) []geom.Point {
	c, ok := e.AsCurve()
	if !ok {
		return nil
	}
	first, last := c.FirstParameter(), c.LastParameter()
	if c.Type() == geom.CurveLine {
		return []geom.Point{c.Point(first), c.Point(last)}
	}
	if segments < 1 {
		segments = 1
	}
	pts := make([]geom.Point, 0, segments+1)
	for i := 0; i <= segments; i++ {
		t := first + (last-first)*float64(i)/float64(segments)
		pts = append(pts, c.Point(t))
	}
	return pts
}

// EdgeMeshOf tessellates every edge of s into one mesh per edge.
func EdgeMeshOf(s geom.Shape, color Color) []EdgeMesh {
	edges := geom.EdgesOf(s)
	meshes := make([]EdgeMesh, 0, len(edges))
	for _, e := range edges {
		if pts := Tessellate(e, 32); len(pts) > 0 {
			meshes = append(meshes, EdgeMesh{Points: pts, Color: color})
		}
	}
	return meshes
}
