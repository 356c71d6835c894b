package dxfimport

import (
	"strings"

	"github.com/nerrad567/structdxf/internal/geometry"
)

// Category is the kind of command an annotation carries.
type Category int

// Annotation categories.
const (
	CategoryNone Category = iota
	CategoryElement
	CategoryPoint
)

// String returns the category name.
func (c Category) String() string {
	switch c {
	case CategoryElement:
		return "element"
	case CategoryPoint:
		return "point"
	default:
		return "none"
	}
}

// elementCommands and pointCommands are the substrings used to classify
// annotation text. Element commands are checked first.
var (
	elementCommands = []string{CmdAddElement, CmdAddMultipleElements, CmdAddTrussElement}
	pointCommands   = []string{CmdAddSupport, CmdPointLoad, CmdMomentLoad}
)

// Categorize classifies annotation text by substring match.
func Categorize(text string) Category {
	for _, name := range elementCommands {
		if strings.Contains(text, name) {
			return CategoryElement
		}
	}
	for _, name := range pointCommands {
		if strings.Contains(text, name) {
			return CategoryPoint
		}
	}
	return CategoryNone
}

// Drawing is the classified content of a DXF drawing.
type Drawing struct {
	// Segments are the LINE entities in drawing order.
	Segments []geometry.Segment

	ElementAnnotations []Annotation
	PointAnnotations   []Annotation

	// IgnoredTexts counts TEXT entities that carry no known command.
	IgnoredTexts int
}

// AddLine records a LINE entity. Endpoints are rounded.
func (d *Drawing) AddLine(start, end geometry.Point) {
	d.Segments = append(d.Segments, geometry.NewSegment(start, end))
}

// AddText records a TEXT entity in the category its text belongs to.
func (d *Drawing) AddText(a Annotation) Category {
	c := Categorize(a.Text)
	switch c {
	case CategoryElement:
		d.ElementAnnotations = append(d.ElementAnnotations, a)
	case CategoryPoint:
		d.PointAnnotations = append(d.PointAnnotations, a)
	default:
		d.IgnoredTexts++
	}
	return c
}

// UniqueEndpoints returns the distinct endpoints of segs in first-seen order.
// Segment endpoints are already rounded, so equality is exact.
func UniqueEndpoints(segs []geometry.Segment) []geometry.Point {
	seen := make(map[geometry.Point]struct{}, len(segs)*2)
	points := make([]geometry.Point, 0, len(segs)*2)
	for _, s := range segs {
		for _, p := range s.Endpoints() {
			p = geometry.Round(p)
			if _, ok := seen[p]; ok {
				continue
			}
			seen[p] = struct{}{}
			points = append(points, p)
		}
	}
	return points
}
