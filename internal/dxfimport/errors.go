package dxfimport

import "errors"

// Sentinel errors for drawing import.
//
// ErrFileNotFound, ErrParse and ErrNodeNotFound abort an import.
// ErrDegenerateGeometry and ErrInvalidCommandText only affect one entity and
// are reported as warnings on the Result.
var (
	// ErrFileNotFound indicates the drawing path does not exist.
	ErrFileNotFound = errors.New("dxfimport: file not found")

	// ErrParse indicates the drawing could not be read as DXF.
	ErrParse = errors.New("dxfimport: cannot parse drawing")

	// ErrDegenerateGeometry indicates a zero-length line.
	ErrDegenerateGeometry = errors.New("dxfimport: degenerate geometry")

	// ErrInvalidCommandText indicates annotation text that is not a valid command.
	ErrInvalidCommandText = errors.New("dxfimport: invalid command text")

	// ErrNodeNotFound indicates a point command was resolved before its node existed.
	ErrNodeNotFound = errors.New("dxfimport: node not found")
)

// Warning codes for per-entity issues.
const (
	WarnDegenerateGeometry = "DEGENERATE_GEOMETRY"
	WarnInvalidCommandText = "INVALID_COMMAND_TEXT"
	WarnCommandRejected    = "COMMAND_REJECTED"
)
