package ortho

import (
	"math"
	"sort"
	"sync"

	"github.com/dshills/draftsnap/internal/geom"
	"github.com/dshills/draftsnap/internal/view"
)

// Scene supplies the shapes a view displays.
type Scene interface {
	Shapes() []geom.Shape
}

// SceneFunc adapts a function to Scene.
type SceneFunc func() []geom.Shape

// Shapes implements Scene.
func (f SceneFunc) Shapes() []geom.Shape { return f() }

// Defaults for NewView.
const (
	DefaultWidth     = 800
	DefaultHeight    = 600
	DefaultScale     = 10
	DefaultTolerance = 3
	zoomStep         = 1.1
	arcSegments      = 64
)

// Option configures a View.
type Option func(*View)

// WithSize sets the viewport size in pixels.
func WithSize(width, height float64) Option {
	return func(v *View) {
		v.width, v.height = width, height
	}
}

// WithScale sets pixels per world unit.
func WithScale(scale float64) Option {
	return func(v *View) { v.scale = scale }
}

// WithTarget sets the world point shown at the viewport center.
func WithTarget(p geom.Point) Option {
	return func(v *View) { v.target = p }
}

// WithDirection sets the viewing direction and the world direction that
// appears upward on screen.
func WithDirection(dir, up geom.Point) Option {
	return func(v *View) {
		v.dir = geom.Normalize(dir)
		v.right = geom.Normalize(geom.Cross(v.dir, up))
		v.up = geom.Cross(v.right, v.dir)
	}
}

// WithTolerance sets the detection distance in pixels.
func WithTolerance(px float64) Option {
	return func(v *View) { v.tolerance = px }
}

// WithWorkplane sets the construction plane.
func WithWorkplane(p geom.Plane) Option {
	return func(v *View) { v.workplane = p }
}

// WithContext shares a visual context between views.
func WithContext(c *Context) Option {
	return func(v *View) { v.ctx = c }
}

// View is an orthographic view.View. The default camera looks down the
// negative Z axis with +Y up, so world X/Y map to screen right/up.
type View struct {
	mu sync.RWMutex

	name      string
	scene     Scene
	ctx       *Context
	workplane geom.Plane

	width, height float64
	scale         float64
	target        geom.Point
	dir, right    geom.Point
	up            geom.Point
	tolerance     float64

	updates  int
	onUpdate []func()
}

// NewView creates a view of scene.
func NewView(name string, scene Scene, opts ...Option) *View {
	v := &View{
		name:      name,
		scene:     scene,
		workplane: geom.PlaneXY,
		width:     DefaultWidth,
		height:    DefaultHeight,
		scale:     DefaultScale,
		dir:       geom.XYZ(0, 0, -1),
		right:     geom.UnitX,
		up:        geom.UnitY,
		tolerance: DefaultTolerance,
	}
	for _, opt := range opts {
		opt(v)
	}
	if v.ctx == nil {
		v.ctx = NewContext()
	}
	return v
}

// Name implements view.View.
func (v *View) Name() string { return v.name }

// Context implements view.View.
func (v *View) Context() view.VisualContext { return v.ctx }

// Visual returns the concrete context for inspection.
func (v *View) Visual() *Context { return v.ctx }

// Workplane implements view.View.
func (v *View) Workplane() geom.Plane {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return v.workplane
}

// SetWorkplane replaces the construction plane.
func (v *View) SetWorkplane(p geom.Plane) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.workplane = p
}

// Size returns the viewport size in pixels.
func (v *View) Size() (width, height float64) {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return v.width, v.height
}

// Resize changes the viewport size in pixels.
func (v *View) Resize(width, height float64) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.width, v.height = width, height
}

// Scale returns pixels per world unit.
func (v *View) Scale() float64 {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return v.scale
}

// WorldToScreen implements view.View.
func (v *View) WorldToScreen(p geom.Point) view.ScreenPoint {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return v.project(p)
}

func (v *View) project(p geom.Point) view.ScreenPoint {
	d := geom.Sub(p, v.target)
	return view.ScreenPoint{
		X: v.width/2 + geom.Dot(d, v.right)*v.scale,
		Y: v.height/2 - geom.Dot(d, v.up)*v.scale,
	}
}

// unproject returns the world point on the plane through target that maps to (x, y).
func (v *View) unproject(x, y float64) geom.Point {
	p := geom.Add(v.target, geom.Scale(v.right, (x-v.width/2)/v.scale))
	return geom.Add(p, geom.Scale(v.up, (v.height/2-y)/v.scale))
}

// Ray implements view.View.
func (v *View) Ray(x, y float64) (origin, dir geom.Point) {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return v.unproject(x, y), v.dir
}

// Zoom implements view.View. The world point under (x, y) stays fixed.
func (v *View) Zoom(delta, x, y float64) {
	v.mu.Lock()
	defer v.mu.Unlock()
	anchor := v.unproject(x, y)
	v.scale *= math.Pow(zoomStep, delta)
	drift := geom.Sub(v.unproject(x, y), anchor)
	v.target = geom.Sub(v.target, drift)
}

// Update implements view.View.
func (v *View) Update() {
	v.mu.Lock()
	v.updates++
	hooks := v.onUpdate
	v.mu.Unlock()
	for _, fn := range hooks {
		fn()
	}
}

// Updates returns how many redraws were requested.
func (v *View) Updates() int {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return v.updates
}

// OnUpdate registers fn to run on every redraw request.
func (v *View) OnUpdate(fn func()) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.onUpdate = append(v.onUpdate, fn)
}

type detection struct {
	shape geom.Shape
	dist  float64
}

// Detected implements view.View.
func (v *View) Detected(t geom.ShapeType, x, y float64, filter view.ShapeFilter) []geom.Shape {
	v.mu.RLock()
	tol := v.tolerance
	v.mu.RUnlock()

	var found []detection
	for _, s := range v.scene.Shapes() {
		if s.Type() != geom.ShapeEdge && t.Has(geom.ShapeEdge) && !t.Has(s.Type()) {
			for _, e := range geom.EdgesOf(s) {
				if d := v.edgeDistance(e, x, y); d <= tol && view.Allows(filter, e) {
					found = append(found, detection{e, d})
				}
			}
			continue
		}
		if !t.Has(s.Type()) || !view.Allows(filter, s) {
			continue
		}
		best := math.Inf(1)
		for _, e := range geom.EdgesOf(s) {
			best = math.Min(best, v.edgeDistance(e, x, y))
		}
		if best <= tol {
			found = append(found, detection{s, best})
		}
	}

	sort.SliceStable(found, func(i, j int) bool { return found[i].dist < found[j].dist })
	shapes := make([]geom.Shape, len(found))
	for i, d := range found {
		shapes[i] = d.shape
	}
	return shapes
}

// edgeDistance returns the pixel distance from (x, y) to the projected edge.
func (v *View) edgeDistance(e geom.Edge, x, y float64) float64 {
	pts := view.Tessellate(e, arcSegments)
	best := math.Inf(1)
	for i := 1; i < len(pts); i++ {
		a := v.WorldToScreen(pts[i-1])
		b := v.WorldToScreen(pts[i])
		best = math.Min(best, segmentDistance(a, b, x, y))
	}
	return best
}

func segmentDistance(a, b view.ScreenPoint, x, y float64) float64 {
	dx, dy := b.X-a.X, b.Y-a.Y
	l2 := dx*dx + dy*dy
	if l2 == 0 {
		return math.Hypot(x-a.X, y-a.Y)
	}
	t := ((x-a.X)*dx + (y-a.Y)*dy) / l2
	t = math.Max(0, math.Min(1, t))
	return math.Hypot(x-(a.X+t*dx), y-(a.Y+t*dy))
}
