package command

import (
	"fmt"

	"github.com/dshills/draftsnap/internal/document"
	"github.com/dshills/draftsnap/internal/geom"
	"github.com/dshills/draftsnap/internal/i18n"
	"github.com/dshills/draftsnap/internal/snap"
	"github.com/dshills/draftsnap/internal/step"
	"github.com/dshills/draftsnap/internal/view"
)

// Line draws connected line segments. After each segment the end point
// becomes the start of the next one until the user cancels.
type Line struct{}

// NewLine creates the line command.
func NewLine() *Line { return &Line{} }

// Name implements Definition.
func (*Line) Name() string { return "create.line" }

// Steps implements Definition.
func (*Line) Steps(ctx *Context) []step.Step {
	first := step.NewPointStep(i18n.PromptPickFirstPoint, nil)
	next := step.NewPointStep(i18n.PromptPickNextPoint, func() snap.PointData {
		start := ctx.Point(0)
		return snap.PointData{
			Dimension: snap.D1D2D3,
			RefPoint:  &start,
			Preview: func(p geom.Point) []view.MeshData {
				return []view.MeshData{view.NewLineMesh(start, p, view.ColorPreview, view.LineSolid)}
			},
			Validators: []snap.Validator{distinctFrom(start)},
		}
	})
	return []step.Step{first, next}
}

// Execute implements Definition.
func (*Line) Execute(ctx *Context) error {
	name := fmt.Sprintf("Line %d", ctx.Doc.Len()+1)
	_, err := ctx.Doc.AddModel(name, document.Line{Start: ctx.Point(0), End: ctx.Point(1)})
	return err
}

// AfterExecute implements Restarter.
func (*Line) AfterExecute(ctx *Context) (int, bool) {
	ctx.Replace(0, ctx.Result(1))
	return 1, true
}

// distinctFrom rejects points that coincide with ref.
func distinctFrom(ref geom.Point) snap.Validator {
	return func(p geom.Point) bool {
		return !geom.Equal(p, ref, geom.Tolerance)
	}
}
