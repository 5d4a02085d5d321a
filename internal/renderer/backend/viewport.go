package backend

import (
	"math"

	"github.com/dshills/draftsnap/internal/geom"
	"github.com/dshills/draftsnap/internal/input/mouse"
	"github.com/dshills/draftsnap/internal/view"
	"github.com/dshills/draftsnap/internal/view/ortho"
)

// Default cell size in view pixels. Terminal cells are about twice as tall
// as they are wide.
const (
	DefaultCellWidth  = 8
	DefaultCellHeight = 16

	// statusRows are reserved at the bottom of the screen.
	statusRows = 2
)

// Status is the text shown below the drawing area.
type Status struct {
	// Prompt is the status bar prompt of the running step.
	Prompt string
	// Tip is the float tip, shown after the prompt.
	Tip string
	// Input is the text typed so far; InputOpen shows the input line.
	Input     string
	InputOpen bool
	// Error is shown on the input line when typed input was rejected.
	Error string
}

// ViewportOption configures a Viewport.
type ViewportOption func(*Viewport)

// WithCellSize sets the size of one terminal cell in view pixels.
func WithCellSize(width, height float64) ViewportOption {
	return func(vp *Viewport) {
		if width > 0 && height > 0 {
			vp.cellWidth, vp.cellHeight = width, height
		}
	}
}

// WithColors sets the colors used for scene shapes and highlighted shapes.
func WithColors(shape, highlight view.Color) ViewportOption {
	return func(vp *Viewport) {
		vp.shapeColor, vp.highlightColor = shape, highlight
	}
}

// Viewport renders an orthographic view onto a Backend. The top rows show
// the scene; the last rows show the status.
type Viewport struct {
	backend Backend
	view    *ortho.View
	scene   ortho.Scene

	cellWidth, cellHeight float64
	shapeColor            view.Color
	highlightColor        view.Color
}

// NewViewport creates a viewport and sizes v to the backend.
func NewViewport(b Backend, v *ortho.View, scene ortho.Scene, opts ...ViewportOption) *Viewport {
	vp := &Viewport{
		backend:        b,
		view:           v,
		scene:          scene,
		cellWidth:      DefaultCellWidth,
		cellHeight:     DefaultCellHeight,
		shapeColor:     view.ColorWhite,
		highlightColor: view.ColorHighlight,
	}
	for _, opt := range opts {
		opt(vp)
	}
	vp.Resize(b.Size())
	return vp
}

// Resize fits the view to a terminal of cols by rows cells.
func (vp *Viewport) Resize(cols, rows int) {
	rows -= statusRows
	if rows < 1 {
		rows = 1
	}
	vp.view.Resize(float64(cols)*vp.cellWidth, float64(rows)*vp.cellHeight)
}

// Pixel returns the view pixel at the center of cell (x, y).
func (vp *Viewport) Pixel(x, y int) (float64, float64) {
	return (float64(x) + 0.5) * vp.cellWidth, (float64(y) + 0.5) * vp.cellHeight
}

// Cell returns the cell containing view pixel (px, py).
func (vp *Viewport) Cell(px, py float64) (int, int) {
	return int(math.Floor(px / vp.cellWidth)), int(math.Floor(py / vp.cellHeight))
}

// MouseEvent converts a terminal mouse event to a view pointer event.
func (vp *Viewport) MouseEvent(ev Event) mouse.Event {
	x, y := vp.Pixel(ev.X, ev.Y)
	return mouse.Event{X: x, Y: y, Button: ev.Button, Action: ev.Action, Delta: ev.Delta, Modifiers: ev.Mod}
}

// InDrawing reports whether row y belongs to the drawing area.
func (vp *Viewport) InDrawing(y int) bool {
	_, rows := vp.backend.Size()
	return y >= 0 && y < rows-statusRows
}

// Draw redraws the scene, the visual context overlays and the status.
func (vp *Viewport) Draw(st Status) {
	vp.backend.Clear()
	ctx := vp.view.Visual()

	for _, s := range vp.scene.Shapes() {
		for _, e := range geom.EdgesOf(s) {
			color := vp.shapeColor
			if ctx.IsHighlighted(s.ID()) || ctx.IsHighlighted(e.ID()) {
				color = vp.highlightColor
			}
			vp.polyline(view.Tessellate(e, 32), Style{Foreground: color}, false)
		}
	}

	// Overlays are drawn last so that markers sit on top of edges.
	for _, m := range ctx.Meshes() {
		switch m := m.(type) {
		case view.EdgeMesh:
			vp.polyline(m.Points, Style{Foreground: m.Color}, m.Line == view.LineDash)
		case view.VertexMesh:
			p := vp.view.WorldToScreen(m.Point)
			x, y := vp.Cell(p.X, p.Y)
			vp.set(x, y, 'o', Style{Foreground: m.Color, Bold: true})
		}
	}

	vp.status(st)
	vp.backend.Show()
}

func (vp *Viewport) set(x, y int, r rune, style Style) {
	if vp.InDrawing(y) {
		vp.backend.SetCell(x, y, r, style)
	}
}

func (vp *Viewport) polyline(pts []geom.Point, style Style, dashed bool) {
	n := 0
	for i := 1; i < len(pts); i++ {
		a, b := vp.view.WorldToScreen(pts[i-1]), vp.view.WorldToScreen(pts[i])
		r := strokeRune(b.X-a.X, b.Y-a.Y)
		x0, y0 := vp.Cell(a.X, a.Y)
		x1, y1 := vp.Cell(b.X, b.Y)
		steps := max(abs(x1-x0), abs(y1-y0))
		for s := 0; s <= steps; s++ {
			x, y := x0, y0
			if steps > 0 {
				t := float64(s) / float64(steps)
				x = x0 + int(math.Round(t*float64(x1-x0)))
				y = y0 + int(math.Round(t*float64(y1-y0)))
			}
			n++
			if dashed && n%2 == 0 {
				continue
			}
			vp.set(x, y, r, style)
		}
	}
}

// strokeRune picks the character that best follows a segment with the
// given pixel direction. Screen y grows downward.
func strokeRune(dx, dy float64) rune {
	angle := math.Atan2(-dy, dx) * 180 / math.Pi
	if angle < 0 {
		angle += 180
	}
	switch {
	case angle < 22.5 || angle >= 157.5:
		return '-'
	case angle < 67.5:
		return '/'
	case angle < 112.5:
		return '|'
	default:
		return '\\'
	}
}

func (vp *Viewport) status(st Status) {
	cols, rows := vp.backend.Size()
	line := st.Prompt
	if st.Tip != "" {
		if line != "" {
			line += "  "
		}
		line += "[" + st.Tip + "]"
	}
	vp.text(0, rows-2, cols, line, Style{Reverse: true})

	switch {
	case st.InputOpen && st.Error != "":
		vp.text(0, rows-1, cols, "> "+st.Input+"  "+st.Error, Style{Foreground: 0xff5555})
	case st.InputOpen:
		vp.text(0, rows-1, cols, "> "+st.Input, Style{Bold: true})
	}
}

// text writes s at row y, padding with blanks to width cols.
func (vp *Viewport) text(x, y, cols int, s string, style Style) {
	for _, r := range s {
		if x >= cols {
			return
		}
		vp.backend.SetCell(x, y, r, style)
		x++
	}
	for ; x < cols; x++ {
		vp.backend.SetCell(x, y, ' ', style)
	}
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
