package dxfimport

import (
	"time"

	"github.com/nerrad567/structdxf/internal/geometry"
)

// Annotation is a TEXT entity carrying a command.
type Annotation struct {
	// Insert is the text insertion point as drawn (not rounded).
	Insert geometry.Point `json:"insert"`

	// Height is the nominal text height. It scales the matching threshold.
	Height float64 `json:"height"`

	// Text is the raw command text, e.g. "add_element(EA=5000)".
	Text string `json:"text"`
}

// Result describes one completed import.
type Result struct {
	// ImportID identifies this import run.
	ImportID string `json:"import_id"`

	// SourceFile is the base name of the drawing, empty for in-memory drawings.
	SourceFile string `json:"source_file,omitempty"`

	ImportedAt time.Time  `json:"imported_at"`
	Statistics Statistics `json:"statistics"`

	// Warnings lists entities that were skipped or fell back to a plain element.
	Warnings []Warning `json:"warnings,omitempty"`
}

// Statistics summarises an import.
type Statistics struct {
	Segments           int `json:"segments"`
	ElementAnnotations int `json:"element_annotations"`
	PointAnnotations   int `json:"point_annotations"`
	IgnoredTexts       int `json:"ignored_texts"`

	AnnotatedElements int `json:"annotated_elements"`
	PlainElements     int `json:"plain_elements"`
	SkippedSegments   int `json:"skipped_segments"`

	Nodes         int `json:"nodes"`
	PointCommands int `json:"point_commands"`
	SkippedPoints int `json:"skipped_points"`
}

// Warning is a non-fatal problem with a single entity.
type Warning struct {
	// Code is one of the Warn* constants.
	Code string `json:"code"`

	// Message is a human-readable description.
	Message string `json:"message"`

	// Entity describes the line or node, e.g. "line [(0, 0), (10, 0)]".
	Entity string `json:"entity"`

	// Text is the annotation text involved, if any.
	Text string `json:"text,omitempty"`
}

func (r *Result) warn(code, entity, text string, err error) {
	r.Warnings = append(r.Warnings, Warning{
		Code:    code,
		Message: err.Error(),
		Entity:  entity,
		Text:    text,
	})
}
