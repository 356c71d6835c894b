package dxfimport

import (
	"fmt"

	"github.com/nerrad567/structdxf/internal/geometry"
)

// NearestToSegment returns the annotation closest to the infinite line
// through seg. ok is true only when that distance is below factor times the
// annotation's text height. Ties go to the earlier annotation.
func NearestToSegment(seg geometry.Segment, annotations []Annotation, factor float64) (best Annotation, ok bool, err error) {
	if seg.IsDegenerate() {
		return Annotation{}, false, fmt.Errorf("%w: %s", ErrDegenerateGeometry, seg)
	}

	bestDist := -1.0
	for _, a := range annotations {
		d, err := seg.LineDistance(a.Insert)
		if err != nil {
			return Annotation{}, false, fmt.Errorf("%w: %w", ErrDegenerateGeometry, err)
		}
		if bestDist < 0 || d < bestDist {
			best, bestDist = a, d
		}
	}
	if bestDist < 0 {
		return Annotation{}, false, nil
	}
	return best, bestDist < factor*best.Height, nil
}

// NearestToPoint returns the annotation closest to p by Euclidean distance,
// with the same threshold and tie rules as NearestToSegment.
func NearestToPoint(p geometry.Point, annotations []Annotation, factor float64) (best Annotation, ok bool) {
	bestDist := -1.0
	for _, a := range annotations {
		d := p.Distance(a.Insert)
		if bestDist < 0 || d < bestDist {
			best, bestDist = a, d
		}
	}
	if bestDist < 0 {
		return Annotation{}, false
	}
	return best, bestDist < factor*best.Height
}
