package kernel

import (
	"math"

	"github.com/dshills/draftsnap/internal/geom"
)

// Intersect computes the intersection points of two edges.
//
// Supported pairs are line/line, line/circle and coplanar circle/circle.
// Overlapping collinear lines and coincident circles yield no points.
func Intersect(a, b geom.Edge) []geom.Point {
	ca, ok := a.AsCurve()
	if !ok {
		return nil
	}
	cb, ok := b.AsCurve()
	if !ok {
		return nil
	}

	switch {
	case ca.Type() == geom.CurveLine && cb.Type() == geom.CurveLine:
		return lineLine(ca, cb)
	case ca.Type() == geom.CurveLine && cb.Type() == geom.CurveCircle:
		if circle, ok := cb.(geom.Circle); ok {
			return lineCircle(ca, circle)
		}
	case ca.Type() == geom.CurveCircle && cb.Type() == geom.CurveLine:
		if circle, ok := ca.(geom.Circle); ok {
			return lineCircle(cb, circle)
		}
	case ca.Type() == geom.CurveCircle && cb.Type() == geom.CurveCircle:
		c1, ok1 := ca.(geom.Circle)
		c2, ok2 := cb.(geom.Circle)
		if ok1 && ok2 {
			return circleCircle(c1, c2)
		}
	}
	return nil
}

func segment(c geom.Curve) (geom.Point, geom.Point) {
	return c.Point(c.FirstParameter()), c.Point(c.LastParameter())
}

// paramEps widens the [0, 1] segment range so that shared endpoints count.
const paramEps = 1e-9

func lineLine(ca, cb geom.Curve) []geom.Point {
	a0, a1 := segment(ca)
	b0, b1 := segment(cb)
	d1 := geom.Sub(a1, a0)
	d2 := geom.Sub(b1, b0)
	r := geom.Sub(a0, b0)

	a := geom.Dot(d1, d1)
	e := geom.Dot(d2, d2)
	b := geom.Dot(d1, d2)
	c := geom.Dot(d1, r)
	f := geom.Dot(d2, r)

	denom := a*e - b*b
	if math.Abs(denom) < 1e-12 {
		return nil
	}
	s := (b*f - c*e) / denom
	t := (a*f - b*c) / denom
	if s < -paramEps || s > 1+paramEps || t < -paramEps || t > 1+paramEps {
		return nil
	}
	p1 := geom.Add(a0, geom.Scale(d1, s))
	p2 := geom.Add(b0, geom.Scale(d2, t))
	if geom.Distance(p1, p2) > geom.Tolerance*10 {
		return nil
	}
	return []geom.Point{geom.Center(p1, p2)}
}

func lineCircle(line geom.Curve, circle geom.Circle) []geom.Point {
	p0, p1 := segment(line)
	d := geom.Sub(p1, p0)
	plane := geom.NewPlane(circle.Center(), circle.Normal(), anyPerpendicular(circle.Normal()))

	if math.Abs(geom.Dot(d, plane.Normal)) > 1e-12 {
		// The line crosses the circle's plane at a single point.
		q, ok := plane.IntersectLine(p0, d)
		if !ok {
			return nil
		}
		t := geom.Dot(geom.Sub(q, p0), d) / geom.Dot(d, d)
		if t < -paramEps || t > 1+paramEps {
			return nil
		}
		if math.Abs(geom.Distance(q, circle.Center())-circle.Radius()) > geom.Tolerance*10 {
			return nil
		}
		return []geom.Point{q}
	}
	if !plane.Contains(p0) {
		return nil
	}

	m := geom.Sub(p0, circle.Center())
	qa := geom.Dot(d, d)
	qb := 2 * geom.Dot(d, m)
	qc := geom.Dot(m, m) - circle.Radius()*circle.Radius()
	disc := qb*qb - 4*qa*qc
	if disc < -1e-12 {
		return nil
	}
	if disc < 0 {
		disc = 0
	}
	sq := math.Sqrt(disc)
	roots := []float64{(-qb - sq) / (2 * qa)}
	if sq > 1e-12 {
		roots = append(roots, (-qb+sq)/(2*qa))
	}

	var out []geom.Point
	for _, t := range roots {
		if t < -paramEps || t > 1+paramEps {
			continue
		}
		out = append(out, geom.Add(p0, geom.Scale(d, t)))
	}
	return out
}

func circleCircle(c1, c2 geom.Circle) []geom.Point {
	if !geom.IsParallel(c1.Normal(), c2.Normal()) {
		return nil
	}
	plane := geom.NewPlane(c1.Center(), c1.Normal(), anyPerpendicular(c1.Normal()))
	if !plane.Contains(c2.Center()) {
		return nil
	}

	delta := geom.Sub(c2.Center(), c1.Center())
	d := geom.Length(delta)
	r1, r2 := c1.Radius(), c2.Radius()
	if d < geom.Tolerance || d > r1+r2+geom.Tolerance || d < math.Abs(r1-r2)-geom.Tolerance {
		return nil
	}

	a := (r1*r1 - r2*r2 + d*d) / (2 * d)
	h2 := r1*r1 - a*a
	if h2 < 0 {
		h2 = 0
	}
	h := math.Sqrt(h2)
	u := geom.Scale(delta, 1/d)
	base := geom.Add(c1.Center(), geom.Scale(u, a))
	if h < geom.Tolerance {
		return []geom.Point{base}
	}
	perp := geom.Cross(plane.Normal, u)
	return []geom.Point{
		geom.Add(base, geom.Scale(perp, h)),
		geom.Sub(base, geom.Scale(perp, h)),
	}
}

func anyPerpendicular(n geom.Point) geom.Point {
	if geom.IsParallel(n, geom.UnitX) {
		return geom.UnitY
	}
	return geom.UnitX
}
