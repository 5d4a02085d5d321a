package snap

import (
	"github.com/dshills/draftsnap/internal/document"
	"github.com/dshills/draftsnap/internal/geom"
	"github.com/dshills/draftsnap/internal/i18n"
	"github.com/dshills/draftsnap/internal/view"
)

// Candidate is a proposed snap point.
type Candidate struct {
	Point   geom.Point
	Caption i18n.Key
	Shapes  []geom.Shape
}

// PickResult is the outcome of one step.
type PickResult struct {
	View    view.View
	Point   *geom.Point
	Shapes  []geom.Shape
	Models  []*document.Model
	Caption i18n.Key
}

// PointOr returns the picked point, or def when the result has none.
func (r *PickResult) PointOr(def geom.Point) geom.Point {
	if r == nil || r.Point == nil {
		return def
	}
	return *r.Point
}

// Validator accepts or rejects a candidate point.
type Validator func(p geom.Point) bool

// Dimension is the set of input dimensions a point pick accepts.
type Dimension uint8

const (
	// D1 is a distance along the direction from the reference point to the cursor.
	D1 Dimension = 1 << iota
	// D2 is an offset in the workplane.
	D2
	// D3 is a free 3D offset.
	D3

	D1D2D3 = D1 | D2 | D3
)

// Has reports whether d allows every dimension in other.
func (d Dimension) Has(other Dimension) bool {
	return d&other == other
}

// FeaturePoint is a caller-supplied snap target that is checked before any
// provider runs.
type FeaturePoint struct {
	Point  geom.Point
	Prompt i18n.Key

	// When, if set, enables the point only while it returns true.
	When func() bool
}

// PointData configures a point pick.
type PointData struct {
	Dimension     Dimension
	RefPoint      *geom.Point
	FeaturePoints []FeaturePoint

	// Preview returns meshes drawn for the candidate point.
	Preview func(p geom.Point) []view.MeshData

	Validators []Validator

	// Prompt, if set, formats the float tip for a candidate. An empty result
	// falls back to the candidate caption.
	Prompt func(c Candidate) string
}

// AxisData configures a pick constrained to an axis.
type AxisData struct {
	Origin    geom.Point
	Direction geom.Point
	Preview   func(p geom.Point) []view.MeshData
}
