package structure

import "github.com/nerrad567/structdxf/internal/geometry"

// ElementType distinguishes frame members from truss members.
type ElementType string

// Element types.
const (
	ElementGeneral ElementType = "general"
	ElementTruss   ElementType = "truss"
)

// SupportKind is the boundary condition applied at a node.
type SupportKind string

// Support kinds.
const (
	// SupportGeneral is a support whose restraints are given entirely by its properties.
	SupportGeneral SupportKind = "general"
	SupportHinged  SupportKind = "hinged"
	SupportFixed   SupportKind = "fixed"
	SupportRoll    SupportKind = "roll"
	SupportSpring  SupportKind = "spring"
)

// AllSupportKinds returns every recognised support kind.
func AllSupportKinds() []SupportKind {
	return []SupportKind{SupportGeneral, SupportHinged, SupportFixed, SupportRoll, SupportSpring}
}

// Node is a unique rounded point shared by element endpoints.
type Node struct {
	ID    int            `json:"id"`
	Point geometry.Point `json:"point"`
}

// Element is a member between two nodes.
type Element struct {
	ID         int         `json:"id"`
	Type       ElementType `json:"type"`
	StartNode  int         `json:"start_node"`
	EndNode    int         `json:"end_node"`
	Properties Properties  `json:"properties,omitempty"`
}

// Support is a boundary condition at a node.
type Support struct {
	NodeID     int         `json:"node_id"`
	Kind       SupportKind `json:"kind"`
	Properties Properties  `json:"properties,omitempty"`
}

// PointLoad is a concentrated force at a node.
type PointLoad struct {
	NodeID int     `json:"node_id"`
	Fx     float64 `json:"fx"`
	Fy     float64 `json:"fy"`

	// Rotation is the load direction rotation in degrees.
	Rotation   float64    `json:"rotation,omitempty"`
	Properties Properties `json:"properties,omitempty"`
}

// MomentLoad is a concentrated moment at a node.
type MomentLoad struct {
	NodeID     int        `json:"node_id"`
	Ty         float64    `json:"ty"`
	Properties Properties `json:"properties,omitempty"`
}

// Summary counts the contents of a model.
type Summary struct {
	Nodes       int `json:"nodes"`
	Elements    int `json:"elements"`
	Supports    int `json:"supports"`
	PointLoads  int `json:"point_loads"`
	MomentLoads int `json:"moment_loads"`
}
