package command

import (
	"fmt"
	"math"

	"github.com/dshills/draftsnap/internal/document"
	"github.com/dshills/draftsnap/internal/geom"
	"github.com/dshills/draftsnap/internal/geom/kernel"
	"github.com/dshills/draftsnap/internal/i18n"
	"github.com/dshills/draftsnap/internal/snap"
	"github.com/dshills/draftsnap/internal/step"
	"github.com/dshills/draftsnap/internal/view"
)

// Box draws a box from a rectangle on the workplane and a height along its
// normal.
type Box struct {
	count int
}

// NewBox creates the box command.
func NewBox() *Box { return &Box{} }

// Name implements Definition.
func (*Box) Name() string { return "create.box" }

// Steps implements Definition.
func (b *Box) Steps(ctx *Context) []step.Step {
	corner := step.NewPointStep(i18n.PromptPickCorner, nil)
	opposite := step.NewPointStep(i18n.PromptPickOpposite, func() snap.PointData {
		start := ctx.Point(0)
		return snap.PointData{
			Dimension: snap.D2,
			RefPoint:  &start,
			Preview: func(p geom.Point) []view.MeshData {
				plane, dx, dy := rect(ctx, p)
				corners := []geom.Point{
					plane.World(0, 0, 0),
					plane.World(dx, 0, 0),
					plane.World(dx, dy, 0),
					plane.World(0, dy, 0),
				}
				return []view.MeshData{view.NewPolylineMesh(corners, true, view.ColorPreview)}
			},
			Validators: []snap.Validator{func(p geom.Point) bool {
				_, dx, dy := rect(ctx, p)
				return math.Abs(dx) > geom.Tolerance && math.Abs(dy) > geom.Tolerance
			}},
		}
	})
	height := step.NewLengthAtAxisStep(i18n.PromptPickHeight, func() snap.AxisData {
		plane, dx, dy := rect(ctx, ctx.Point(1))
		return snap.AxisData{
			Origin:    ctx.Point(1),
			Direction: plane.Normal,
			Preview: func(p geom.Point) []view.MeshData {
				solid, err := kernel.NewBox(plane, dx, dy, b.height(ctx, plane, p))
				if err != nil {
					return nil
				}
				return meshes(solid)
			},
		}
	})
	return []step.Step{corner, opposite, height}
}

// Execute implements Definition.
func (b *Box) Execute(ctx *Context) error {
	plane, dx, dy := rect(ctx, ctx.Point(1))
	dz := b.height(ctx, plane, ctx.Point(2))
	body := document.Box{Plane: plane, DX: dx, DY: dy, DZ: dz}
	if _, err := ctx.Doc.AddModel(fmt.Sprintf("Box %d", b.count+1), body); err != nil {
		return err
	}
	b.count++
	return nil
}

func (*Box) height(ctx *Context, plane geom.Plane, p geom.Point) float64 {
	return geom.Dot(geom.Sub(p, ctx.Point(1)), plane.Normal)
}

// rect returns the workplane through the first corner and the extents of
// the rectangle reaching to p.
func rect(ctx *Context, p geom.Point) (geom.Plane, float64, float64) {
	plane := ctx.Workplane().Translate(ctx.Point(0))
	dx, dy, _ := plane.Local(p)
	return plane, dx, dy
}

func meshes(s geom.Shape) []view.MeshData {
	edges := view.EdgeMeshOf(s, view.ColorPreview)
	out := make([]view.MeshData, 0, len(edges))
	for _, m := range edges {
		out = append(out, m)
	}
	return out
}
