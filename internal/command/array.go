package command

import (
	"fmt"

	"github.com/dshills/draftsnap/internal/geom"
	"github.com/dshills/draftsnap/internal/i18n"
	"github.com/dshills/draftsnap/internal/snap"
	"github.com/dshills/draftsnap/internal/step"
	"github.com/dshills/draftsnap/internal/view"
)

// Array moves models by the vector from a base point to a target point.
// The selected models are used when there are any.
type Array struct{}

// NewArray creates the array command.
func NewArray() *Array { return &Array{} }

// Name implements Definition.
func (*Array) Name() string { return "modify.array" }

// Steps implements Definition.
func (*Array) Steps(ctx *Context) []step.Step {
	models := step.NewModelPickStep(i18n.PromptSelectModels, true, nil)
	models.UseSelection = true
	base := step.NewPointStep(i18n.PromptPickBasePoint, nil)
	target := step.NewPointStep(i18n.PromptPickTargetPoint, func() snap.PointData {
		start := ctx.Point(1)
		var outline []view.EdgeMesh
		for _, m := range ctx.Models(0) {
			if s := m.Shape(); s != nil {
				outline = append(outline, view.EdgeMeshOf(s, view.ColorPreview)...)
			}
		}
		return snap.PointData{
			Dimension: snap.D1D2D3,
			RefPoint:  &start,
			Preview: func(p geom.Point) []view.MeshData {
				offset := geom.Sub(p, start)
				out := make([]view.MeshData, 0, len(outline)+1)
				for _, m := range outline {
					out = append(out, moved(m, offset))
				}
				return append(out, view.NewLineMesh(start, p, view.ColorPreview, view.LineDash))
			},
			Validators: []snap.Validator{distinctFrom(start)},
		}
	})
	return []step.Step{models, base, target}
}

// Execute implements Definition.
func (*Array) Execute(ctx *Context) error {
	models := ctx.Models(0)
	if len(models) == 0 {
		return ErrNoModels
	}
	offset := geom.Sub(ctx.Point(2), ctx.Point(1))
	for _, m := range models {
		if err := ctx.Doc.TranslateModel(m, offset); err != nil {
			return fmt.Errorf("move %s: %w", m, err)
		}
	}
	return nil
}

func moved(m view.EdgeMesh, offset geom.Point) view.EdgeMesh {
	pts := make([]geom.Point, len(m.Points))
	for i, p := range m.Points {
		pts[i] = geom.Add(p, offset)
	}
	m.Points = pts
	return m
}
