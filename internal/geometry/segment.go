package geometry

import (
	"fmt"
	"math"
)

// Segment is a straight member between two rounded endpoints.
type Segment struct {
	Start Point `json:"start"`
	End   Point `json:"end"`
}

// NewSegment builds a segment with both endpoints rounded to Precision digits.
func NewSegment(start, end Point) Segment {
	return Segment{Start: Round(start), End: Round(end)}
}

// String formats the segment as "[(x1, y1), (x2, y2)]".
func (s Segment) String() string {
	return fmt.Sprintf("[%s, %s]", s.Start, s.End)
}

// Length returns the distance between the two endpoints.
func (s Segment) Length() float64 {
	return s.Start.Distance(s.End)
}

// IsDegenerate reports whether both endpoints coincide.
func (s Segment) IsDegenerate() bool {
	return s.Start == s.End
}

// Endpoints returns the start and end point in order.
func (s Segment) Endpoints() [2]Point {
	return [2]Point{s.Start, s.End}
}

// LineDistance returns the perpendicular distance from p to the infinite line
// through the segment's endpoints:
//
//	|cross(end-start, start-p)| / |end-start|
//
// The result is not clamped to the segment. ErrDegenerate is returned for a
// zero-length segment.
func (s Segment) LineDistance(p Point) (float64, error) {
	dir := s.End.Sub(s.Start)
	length := dir.Norm()
	if length == 0 {
		return 0, ErrDegenerate
	}
	return math.Abs(dir.Cross(s.Start.Sub(p))) / length, nil
}

// Split divides the segment into n equal parts.
// The intermediate points are rounded like every other endpoint.
func (s Segment) Split(n int) []Segment {
	if n <= 1 {
		return []Segment{s}
	}
	dir := s.End.Sub(s.Start)
	parts := make([]Segment, 0, n)
	prev := s.Start
	for i := 1; i <= n; i++ {
		next := s.End
		if i < n {
			f := float64(i) / float64(n)
			next = Round(Point{X: s.Start.X + dir.X*f, Y: s.Start.Y + dir.Y*f})
		}
		parts = append(parts, Segment{Start: prev, End: next})
		prev = next
	}
	return parts
}
