package command

import (
	"fmt"

	"github.com/dshills/draftsnap/internal/document"
	"github.com/dshills/draftsnap/internal/geom"
	"github.com/dshills/draftsnap/internal/i18n"
	"github.com/dshills/draftsnap/internal/step"
	"github.com/dshills/draftsnap/internal/view"
)

// edgesOrWires accepts the models a wire or face can be built from.
var edgesOrWires = view.ShapeFilterFunc(func(s geom.Shape) bool {
	return s.Type() == geom.ShapeEdge || s.Type() == geom.ShapeWire
})

// convert replaces edge and wire models by one model built from their
// edges.
type convert struct {
	name  string
	label string
	body  func(edges []geom.Edge) document.Body
	count int
}

// NewConvertToWire creates the command that joins edges into a wire.
func NewConvertToWire() Definition {
	return &convert{
		name:  "convert.toWire",
		label: "Wire",
		body:  func(edges []geom.Edge) document.Body { return document.Wire{Edges: edges} },
	}
}

// NewConvertToFace creates the command that fills a closed chain of edges.
func NewConvertToFace() Definition {
	return &convert{
		name:  "convert.toFace",
		label: "Face",
		body:  func(edges []geom.Edge) document.Body { return document.Face{Edges: edges} },
	}
}

func (c *convert) Name() string { return c.name }

func (c *convert) Steps(*Context) []step.Step {
	pick := step.NewModelPickStep(i18n.PromptSelectModels, true, edgesOrWires)
	pick.UseSelection = true
	return []step.Step{pick}
}

func (c *convert) Execute(ctx *Context) error {
	models := ctx.Models(0)
	if len(models) == 0 {
		return ErrNoModels
	}
	var edges []geom.Edge
	for _, m := range models {
		edges = append(edges, m.Edges()...)
	}
	for _, m := range models {
		if err := ctx.Doc.RemoveModel(m); err != nil {
			return err
		}
	}
	name := fmt.Sprintf("%s %d", c.label, c.count+1)
	if _, err := ctx.Doc.AddModel(name, c.body(edges)); err != nil {
		return err
	}
	c.count++
	return nil
}
