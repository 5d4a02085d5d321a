package geom

import "math"

// Plane is an oriented plane with an in-plane x direction.
type Plane struct {
	Origin Point
	Normal Point
	XDir   Point
}

// PlaneXY is the world XY plane through the origin.
var PlaneXY = Plane{Origin: Origin, Normal: UnitZ, XDir: UnitX}

// NewPlane creates a plane, normalizing the directions and making XDir
// perpendicular to the normal.
func NewPlane(origin, normal, xdir Point) Plane {
	n := Normalize(normal)
	x := Sub(xdir, Scale(n, Dot(xdir, n)))
	return Plane{Origin: origin, Normal: n, XDir: Normalize(x)}
}

// YDir returns the in-plane y direction.
func (p Plane) YDir() Point {
	return Cross(p.Normal, p.XDir)
}

// Translate returns the same plane moved to origin.
func (p Plane) Translate(origin Point) Plane {
	p.Origin = origin
	return p
}

// Distance returns the signed distance from pt to the plane.
func (p Plane) Distance(pt Point) float64 {
	return Dot(Sub(pt, p.Origin), p.Normal)
}

// Contains reports whether pt lies in the plane.
func (p Plane) Contains(pt Point) bool {
	return math.Abs(p.Distance(pt)) <= Tolerance
}

// Project returns the orthogonal projection of pt onto the plane.
func (p Plane) Project(pt Point) Point {
	return Sub(pt, Scale(p.Normal, p.Distance(pt)))
}

// Local returns the in-plane coordinates of pt and its height above the plane.
func (p Plane) Local(pt Point) (x, y, z float64) {
	d := Sub(pt, p.Origin)
	return Dot(d, p.XDir), Dot(d, p.YDir()), Dot(d, p.Normal)
}

// World maps in-plane coordinates back to world space.
func (p Plane) World(x, y, z float64) Point {
	pt := Add(p.Origin, Scale(p.XDir, x))
	pt = Add(pt, Scale(p.YDir(), y))
	return Add(pt, Scale(p.Normal, z))
}

// IntersectLine intersects the infinite line (origin, dir) with the plane.
// It returns false when the line is parallel to the plane.
func (p Plane) IntersectLine(origin, dir Point) (Point, bool) {
	denom := Dot(dir, p.Normal)
	if math.Abs(denom) < 1e-12 {
		return Point{}, false
	}
	t := Dot(Sub(p.Origin, origin), p.Normal) / denom
	return Add(origin, Scale(dir, t)), true
}
