package command

import (
	"github.com/hashicorp/go-hclog"

	"github.com/dshills/draftsnap/internal/document"
	"github.com/dshills/draftsnap/internal/geom"
	"github.com/dshills/draftsnap/internal/snap"
	"github.com/dshills/draftsnap/internal/view"
)

// Context gives a command access to its document and to the results of the
// steps resolved so far.
type Context struct {
	Doc    *document.Document
	Logger hclog.Logger

	d *Driver
}

// Len returns the number of resolved steps.
func (c *Context) Len() int {
	return len(c.d.data)
}

// Result returns the result of step i, or nil when it has not resolved.
func (c *Context) Result(i int) *snap.PickResult {
	if i < 0 || i >= len(c.d.data) {
		return nil
	}
	return c.d.data[i]
}

// Point returns the point picked by step i, or the origin.
func (c *Context) Point(i int) geom.Point {
	return c.Result(i).PointOr(geom.Origin)
}

// Models returns the models picked by step i.
func (c *Context) Models(i int) []*document.Model {
	if r := c.Result(i); r != nil {
		return r.Models
	}
	return nil
}

// Replace overwrites the result of an already resolved step.
func (c *Context) Replace(i int, r *snap.PickResult) {
	if i < 0 || i >= len(c.d.data) {
		panic("command: replace of unresolved step")
	}
	c.d.data[i] = r
}

// View returns the view the first step was picked in, falling back to the
// active view of the document.
func (c *Context) View() view.View {
	for _, r := range c.d.data {
		if r != nil && r.View != nil {
			return r.View
		}
	}
	return c.Doc.Viewer().Active()
}

// Workplane returns the construction plane of View, or the XY plane when
// there is no view.
func (c *Context) Workplane() geom.Plane {
	if v := c.View(); v != nil {
		return v.Workplane()
	}
	return geom.PlaneXY
}
