package snap

import (
	"sort"

	"github.com/hashicorp/go-hclog"

	"github.com/dshills/draftsnap/internal/geom"
	"github.com/dshills/draftsnap/internal/i18n"
	"github.com/dshills/draftsnap/internal/metrics"
	"github.com/dshills/draftsnap/internal/view"
)

// Defaults for ObjectSnap.
const (
	DefaultSnapDistance = 5
	DefaultMarkerSize   = 3
	DefaultMarkerColor  = view.ColorYellow
)

// ObjectOption configures an ObjectSnap.
type ObjectOption func(*ObjectSnap)

// WithThreshold sets the snap distance in pixels. Candidates must be
// strictly closer than this.
func WithThreshold(px float64) ObjectOption {
	return func(s *ObjectSnap) { s.threshold = px }
}

// WithFilter restricts which edges can be snapped to. Rejected edges are
// not detected at all, so their intersections and centers are skipped too.
func WithFilter(f view.ShapeFilter) ObjectOption {
	return func(s *ObjectSnap) { s.filter = f }
}

// WithMarkerStyle sets the look of invisible snap markers.
func WithMarkerStyle(size float64, color view.Color) ObjectOption {
	return func(s *ObjectSnap) {
		s.markerSize, s.markerColor = size, color
	}
}

// WithLogger sets the logger.
func WithLogger(l hclog.Logger) ObjectOption {
	return func(s *ObjectSnap) { s.logger = l }
}

// WithMetrics sets the metrics sink.
func WithMetrics(m *metrics.Metrics) ObjectOption {
	return func(s *ObjectSnap) { s.metrics = m }
}

type highlight struct {
	view   view.View
	shapes []geom.Shape
}

type invisibleInfo struct {
	view       view.View
	candidates []Candidate
	markers    []view.Handle
}

// ObjectSnap snaps to feature points and intersections of the edges under
// the cursor, and to the centers of circles the cursor has passed over.
//
// Feature points are cached per edge and intersections per unordered edge
// pair for the whole session; both caches are dropped when the mask changes.
// Empty intersection results are cached too, so each pair is intersected at
// most once.
type ObjectSnap struct {
	mask        Mask
	threshold   float64
	filter      view.ShapeFilter
	markerSize  float64
	markerColor view.Color
	logger      hclog.Logger
	metrics     *metrics.Metrics

	current     *Candidate
	highlighted *highlight

	features      map[string][]Candidate
	intersections map[string][]Candidate

	// invisible is keyed by edge id; invisibleOrder keeps insertion order
	// so the fallback scan is deterministic.
	invisible      map[string]*invisibleInfo
	invisibleOrder []string
}

// NewObjectSnap creates a provider with the given mask.
func NewObjectSnap(mask Mask, opts ...ObjectOption) *ObjectSnap {
	s := &ObjectSnap{
		mask:          mask,
		threshold:     DefaultSnapDistance,
		markerSize:    DefaultMarkerSize,
		markerColor:   DefaultMarkerColor,
		logger:        hclog.NewNullLogger(),
		features:      make(map[string][]Candidate),
		intersections: make(map[string][]Candidate),
		invisible:     make(map[string]*invisibleInfo),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Mask returns the active mask.
func (s *ObjectSnap) Mask() Mask { return s.mask }

// Current implements Provider.
func (s *ObjectSnap) Current() (Candidate, bool) {
	if s.current == nil {
		return Candidate{}, false
	}
	return *s.current, true
}

// Snap implements Provider.
func (s *ObjectSnap) Snap(v view.View, x, y float64) bool {
	s.current = nil
	s.unhighlight()

	shapes := v.Detected(geom.ShapeEdge, x, y, s.filter)
	if len(shapes) == 0 {
		return s.snapInvisible(v, x, y)
	}

	first := shapes[0]
	s.showInvisible(v, first)

	candidates := append([]Candidate(nil), s.featurePoints(first)...)
	candidates = append(candidates, s.intersectionsOf(first, shapes)...)
	if len(candidates) > 0 {
		dists := make([]float64, len(candidates))
		for i, c := range candidates {
			dists[i] = view.ScreenDistance(v, x, y, c.Point)
		}
		idx := make([]int, len(candidates))
		for i := range idx {
			idx[i] = i
		}
		sort.SliceStable(idx, func(i, j int) bool { return dists[idx[i]] < dists[idx[j]] })

		if best := idx[0]; dists[best] < s.threshold {
			s.accept(v, candidates[best])
			return true
		}
	}
	return s.snapInvisible(v, x, y)
}

// snapInvisible picks the globally nearest invisible candidate. It is an
// independent fallback that applies the same strict threshold.
func (s *ObjectSnap) snapInvisible(v view.View, x, y float64) bool {
	var best *Candidate
	minDist := s.threshold
	for _, id := range s.invisibleOrder {
		info := s.invisible[id]
		for i := range info.candidates {
			if d := view.ScreenDistance(v, x, y, info.candidates[i].Point); d < minDist {
				minDist = d
				best = &info.candidates[i]
			}
		}
	}
	if best == nil {
		return false
	}
	s.accept(v, *best)
	return true
}

func (s *ObjectSnap) accept(v view.View, c Candidate) {
	s.current = &c
	s.highlighted = &highlight{view: v, shapes: c.Shapes}
	ctx := v.Context()
	for _, shape := range c.Shapes {
		ctx.Highlighted(shape)
	}
	s.logger.Trace("snapped", "caption", c.Caption, "point", geom.Format(c.Point))
}

func (s *ObjectSnap) showInvisible(v view.View, shape geom.Shape) {
	if !s.mask.Has(MaskCenter) {
		return
	}
	if _, ok := s.invisible[shape.ID()]; ok {
		return
	}
	edge, ok := shape.(geom.Edge)
	if !ok {
		return
	}
	curve, ok := edge.AsCurve()
	if !ok {
		return
	}
	circle, ok := curve.(geom.Circle)
	if !ok {
		return
	}

	center := circle.Center()
	marker := v.Context().TemporaryDisplay(view.VertexMesh{
		Point: center,
		Size:  s.markerSize,
		Color: s.markerColor,
	})
	s.invisible[shape.ID()] = &invisibleInfo{
		view:       v,
		candidates: []Candidate{{Point: center, Caption: i18n.SnapCenter, Shapes: []geom.Shape{shape}}},
		markers:    []view.Handle{marker},
	}
	s.invisibleOrder = append(s.invisibleOrder, shape.ID())
	s.metrics.MarkerCreated()
}

func (s *ObjectSnap) featurePoints(shape geom.Shape) []Candidate {
	if cached, ok := s.features[shape.ID()]; ok {
		s.metrics.FeatureLookup(true)
		return cached
	}
	s.metrics.FeatureLookup(false)

	var out []Candidate
	if edge, ok := shape.(geom.Edge); ok {
		out = s.edgeFeaturePoints(edge)
	}
	s.features[shape.ID()] = out
	return out
}

func (s *ObjectSnap) edgeFeaturePoints(edge geom.Edge) []Candidate {
	curve, ok := edge.AsCurve()
	if !ok {
		return nil
	}
	start := curve.Point(curve.FirstParameter())
	end := curve.Point(curve.LastParameter())
	shapes := []geom.Shape{edge}

	var out []Candidate
	if s.mask.Has(MaskEndPoint) {
		out = append(out,
			Candidate{Point: start, Caption: i18n.SnapEndPoint, Shapes: shapes},
			Candidate{Point: end, Caption: i18n.SnapEndPoint, Shapes: shapes},
		)
	}
	if s.mask.Has(MaskMidPoint) && curve.Type() == geom.CurveLine {
		out = append(out, Candidate{Point: geom.Center(start, end), Caption: i18n.SnapMidPoint, Shapes: shapes})
	}
	return out
}

func (s *ObjectSnap) intersectionsOf(current geom.Shape, shapes []geom.Shape) []Candidate {
	if !s.mask.Has(MaskIntersection) {
		return nil
	}
	edge, ok := current.(geom.Edge)
	if !ok {
		return nil
	}

	var out []Candidate
	for _, other := range shapes {
		if other.ID() == current.ID() {
			continue
		}
		otherEdge, ok := other.(geom.Edge)
		if !ok {
			continue
		}
		key := geom.PairKey(current.ID(), other.ID())
		cached, ok := s.intersections[key]
		s.metrics.IntersectionLookup(ok)
		if !ok {
			points := edge.Intersect(otherEdge)
			cached = make([]Candidate, 0, len(points))
			for _, p := range points {
				cached = append(cached, Candidate{
					Point:   p,
					Caption: i18n.SnapIntersection,
					Shapes:  []geom.Shape{current, other},
				})
			}
			s.intersections[key] = cached
		}
		out = append(out, cached...)
	}
	return out
}

// RemoveDynamicObject implements Provider.
func (s *ObjectSnap) RemoveDynamicObject() {
	s.unhighlight()
}

func (s *ObjectSnap) unhighlight() {
	if s.highlighted == nil {
		return
	}
	ctx := s.highlighted.view.Context()
	for _, shape := range s.highlighted.shapes {
		ctx.Unhighlighted(shape)
	}
	s.highlighted = nil
}

// OnSnapTypeChanged implements Provider. Turning the center flag off also
// releases the center markers.
func (s *ObjectSnap) OnSnapTypeChanged(mask Mask) {
	s.mask = mask
	s.features = make(map[string][]Candidate)
	s.intersections = make(map[string][]Candidate)
	if !mask.Has(MaskCenter) {
		s.releaseMarkers()
	}
}

// Clear implements Provider. It is safe to call more than once.
func (s *ObjectSnap) Clear() {
	s.unhighlight()
	s.releaseMarkers()
	s.current = nil
	s.features = make(map[string][]Candidate)
	s.intersections = make(map[string][]Candidate)
}

func (s *ObjectSnap) releaseMarkers() {
	for _, id := range s.invisibleOrder {
		info := s.invisible[id]
		ctx := info.view.Context()
		for _, h := range info.markers {
			ctx.TemporaryRemove(h)
		}
	}
	s.invisible = make(map[string]*invisibleInfo)
	s.invisibleOrder = nil
}

// FeatureCacheSize returns the number of cached feature point lists.
func (s *ObjectSnap) FeatureCacheSize() int { return len(s.features) }

// IntersectionCacheSize returns the number of cached edge pairs.
func (s *ObjectSnap) IntersectionCacheSize() int { return len(s.intersections) }
