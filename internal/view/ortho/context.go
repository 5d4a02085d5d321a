package ortho

import (
	"sort"
	"sync"

	"github.com/dshills/draftsnap/internal/geom"
	"github.com/dshills/draftsnap/internal/view"
)

type mesh struct {
	data      view.MeshData
	temporary bool
}

// Context is a view.VisualContext that keeps render objects in memory.
type Context struct {
	mu sync.RWMutex

	// meshes holds the displayed objects keyed by handle.
	meshes map[view.Handle]mesh

	// order keeps handles in display order.
	order []view.Handle

	next view.Handle

	// highlighted holds highlighted shapes keyed by id.
	highlighted map[string]geom.Shape

	// badRemovals counts removals of unknown or already removed handles.
	badRemovals int
}

// NewContext creates an empty context.
func NewContext() *Context {
	return &Context{
		meshes:      make(map[view.Handle]mesh),
		highlighted: make(map[string]geom.Shape),
	}
}

// DisplayShapeMesh implements view.VisualContext.
func (c *Context) DisplayShapeMesh(data view.MeshData) view.Handle {
	return c.add(data, false)
}

// TemporaryDisplay implements view.VisualContext.
func (c *Context) TemporaryDisplay(data view.MeshData) view.Handle {
	return c.add(data, true)
}

// RemoveShapeMesh implements view.VisualContext.
func (c *Context) RemoveShapeMesh(h view.Handle) {
	c.remove(h, false)
}

// TemporaryRemove implements view.VisualContext.
func (c *Context) TemporaryRemove(h view.Handle) {
	c.remove(h, true)
}

func (c *Context) add(data view.MeshData, temporary bool) view.Handle {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.next++
	c.meshes[c.next] = mesh{data: data, temporary: temporary}
	c.order = append(c.order, c.next)
	return c.next
}

func (c *Context) remove(h view.Handle, temporary bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	m, ok := c.meshes[h]
	if !ok || m.temporary != temporary {
		c.badRemovals++
		return
	}
	delete(c.meshes, h)
	for i, oh := range c.order {
		if oh == h {
			c.order = append(c.order[:i], c.order[i+1:]...)
			break
		}
	}
}

// Highlighted implements view.VisualContext.
func (c *Context) Highlighted(s geom.Shape) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.highlighted[s.ID()] = s
}

// Unhighlighted implements view.VisualContext.
func (c *Context) Unhighlighted(s geom.Shape) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.highlighted, s.ID())
}

// Outstanding returns the number of displayed objects.
func (c *Context) Outstanding() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.meshes)
}

// OutstandingTemporary returns the number of displayed temporary objects.
func (c *Context) OutstandingTemporary() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	n := 0
	for _, m := range c.meshes {
		if m.temporary {
			n++
		}
	}
	return n
}

// Meshes returns the displayed objects in display order.
func (c *Context) Meshes() []view.MeshData {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make([]view.MeshData, 0, len(c.order))
	for _, h := range c.order {
		out = append(out, c.meshes[h].data)
	}
	return out
}

// HighlightedIDs returns the ids of highlighted shapes, sorted.
func (c *Context) HighlightedIDs() []string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	ids := make([]string, 0, len(c.highlighted))
	for id := range c.highlighted {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// IsHighlighted reports whether the shape with id is highlighted.
func (c *Context) IsHighlighted(id string) bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	_, ok := c.highlighted[id]
	return ok
}

// BadRemovals returns how many removals targeted a handle that was not
// displayed, or used the wrong remove call for its kind.
func (c *Context) BadRemovals() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.badRemovals
}
