package geom

import (
	"fmt"
	"math"

	"github.com/ungerik/go3d/float64/vec3"
)

// Point is a 3D coordinate or direction vector.
type Point = vec3.T

// Tolerance is the linear tolerance used by geometric predicates.
const Tolerance = 1e-7

// Common directions.
var (
	Origin = Point{0, 0, 0}
	UnitX  = Point{1, 0, 0}
	UnitY  = Point{0, 1, 0}
	UnitZ  = Point{0, 0, 1}
)

// XYZ builds a point from its coordinates.
func XYZ(x, y, z float64) Point {
	return Point{x, y, z}
}

// Add returns a + b.
func Add(a, b Point) Point {
	return vec3.Add(&a, &b)
}

// Sub returns a - b.
func Sub(a, b Point) Point {
	return vec3.Sub(&a, &b)
}

// Scale returns a * f.
func Scale(a Point, f float64) Point {
	a.Scale(f)
	return a
}

// Dot returns the dot product of a and b.
func Dot(a, b Point) float64 {
	return vec3.Dot(&a, &b)
}

// Cross returns the cross product of a and b.
func Cross(a, b Point) Point {
	return vec3.Cross(&a, &b)
}

// Distance returns the euclidean distance between a and b.
func Distance(a, b Point) float64 {
	return vec3.Distance(&a, &b)
}

// Length returns the length of a.
func Length(a Point) float64 {
	return a.Length()
}

// Normalize returns a unit vector with the direction of a.
// Vectors shorter than Tolerance are returned unchanged.
func Normalize(a Point) Point {
	if a.Length() < Tolerance {
		return a
	}
	a.Normalize()
	return a
}

// Center returns the midpoint of a and b.
func Center(a, b Point) Point {
	return Scale(Add(a, b), 0.5)
}

// Equal reports whether a and b are within tol of each other.
func Equal(a, b Point, tol float64) bool {
	return Distance(a, b) <= tol
}

// IsParallel reports whether the directions a and b are parallel.
func IsParallel(a, b Point) bool {
	c := Cross(Normalize(a), Normalize(b))
	return c.Length() < 1e-9
}

// Format renders a point for prompts and logs.
func Format(p Point) string {
	return fmt.Sprintf("(%s, %s, %s)", trim(p[0]), trim(p[1]), trim(p[2]))
}

func trim(v float64) string {
	if math.Abs(v) < 1e-12 {
		v = 0
	}
	return fmt.Sprintf("%.4g", v)
}

// ClosestOnLineToLine returns the point on the line (origin, dir) that is
// closest to the line (otherOrigin, otherDir). It returns false when the
// lines are parallel.
func ClosestOnLineToLine(origin, dir, otherOrigin, otherDir Point) (Point, bool) {
	a := Dot(dir, dir)
	b := Dot(dir, otherDir)
	e := Dot(otherDir, otherDir)
	denom := a*e - b*b
	if math.Abs(denom) < 1e-12 {
		return Point{}, false
	}
	r := Sub(origin, otherOrigin)
	c := Dot(dir, r)
	f := Dot(otherDir, r)
	s := (b*f - c*e) / denom
	return Add(origin, Scale(dir, s)), true
}
