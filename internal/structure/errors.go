package structure

import "errors"

// Domain errors for the structure package.
//
// These errors can be checked using errors.Is():
//
//	if errors.Is(err, structure.ErrNodeNotFound) {
//	    // the point was never registered by AddElement
//	}
var (
	// ErrNodeNotFound is returned when a point or node ID is not part of the model.
	ErrNodeNotFound = errors.New("structure: node not found")

	// ErrInvalidElement is returned when an element cannot be created from its geometry or properties.
	ErrInvalidElement = errors.New("structure: invalid element")

	// ErrInvalidSupport is returned when a support kind or its properties are not valid.
	ErrInvalidSupport = errors.New("structure: invalid support")

	// ErrInvalidLoad is returned when load properties are missing or not numeric.
	ErrInvalidLoad = errors.New("structure: invalid load")

	// ErrModelNotFound is returned when a stored model ID does not exist.
	ErrModelNotFound = errors.New("structure: model not found")
)
