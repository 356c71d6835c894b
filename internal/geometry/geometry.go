package geometry

import (
	"errors"
	"fmt"
	"math"
)

// Precision is the number of decimal digits coordinates are rounded to
// before they are compared or used as map keys.
const Precision = 5

// Resolution is the smallest coordinate difference that survives rounding
// to Precision digits.
const Resolution = 1e-5

// ErrDegenerate is returned when a segment has zero length and no line
// direction can be derived from it.
var ErrDegenerate = errors.New("geometry: zero-length segment")

// Point is a 2D drawing coordinate.
//
// Points returned by Round are comparable with == and safe to use as map keys.
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Pt is shorthand for Point{X: x, Y: y}.
func Pt(x, y float64) Point {
	return Point{X: x, Y: y}
}

// String formats the point as "(x, y)".
func (p Point) String() string {
	return fmt.Sprintf("(%g, %g)", p.X, p.Y)
}

// Sub returns p - q.
func (p Point) Sub(q Point) Point {
	return Point{X: p.X - q.X, Y: p.Y - q.Y}
}

// Cross returns the z component of the 2D cross product p × q.
func (p Point) Cross(q Point) float64 {
	return p.X*q.Y - p.Y*q.X
}

// Norm returns the Euclidean length of p as a vector.
func (p Point) Norm() float64 {
	return math.Hypot(p.X, p.Y)
}

// Distance returns the Euclidean distance between p and q.
func (p Point) Distance(q Point) float64 {
	return p.Sub(q).Norm()
}

// Round rounds both coordinates of p to Precision decimal digits.
func Round(p Point) Point {
	return RoundTo(p, Precision)
}

// RoundTo rounds both coordinates of p to the given number of decimal digits.
// Rounding is half away from zero and idempotent.
func RoundTo(p Point, digits int) Point {
	return Point{X: roundFloat(p.X, digits), Y: roundFloat(p.Y, digits)}
}

func roundFloat(v float64, digits int) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return v
	}
	scale := math.Pow(10, float64(digits))
	r := math.Round(v*scale) / scale
	if r == 0 {
		// Collapse -0 so that (-0, y) and (0, y) are the same map key.
		return 0
	}
	return r
}
