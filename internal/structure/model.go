package structure

import (
	"fmt"
	"math"
	"sync"

	"github.com/nerrad567/structdxf/internal/geometry"
)

// MaxDivisions is the largest element count AddMultipleElements accepts.
const MaxDivisions = 10000

// Property keys with a meaning to the model itself.
const (
	keyDivisions   = "n"
	keyDivisionLen = "dl"
	keyElementType = "element_type"
	keyFx          = "Fx"
	keyFy          = "Fy"
	keyRotation    = "rotation"
	keyTy          = "Ty"
	keySpringK     = "k"
	keyTranslation = "translation"
)

// Model is an in-memory structural model built from elements, supports and loads.
//
// Nodes are created implicitly by the element operations: every distinct
// rounded endpoint gets the next ID, starting at 1, in first-seen order.
//
// All methods are safe for concurrent use.
type Model struct {
	mu sync.RWMutex

	nodes     []Node
	nodeIndex map[geometry.Point]int

	elements    []Element
	supports    []Support
	pointLoads  []PointLoad
	momentLoads []MomentLoad
}

// NewModel creates an empty model.
func NewModel() *Model {
	return &Model{
		nodeIndex: make(map[geometry.Point]int),
	}
}

// AddElement adds a general frame element between the segment endpoints.
// props may be empty for a plain element.
func (m *Model) AddElement(seg geometry.Segment, props Properties) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.addElementLocked(seg, ElementGeneral, props)
}

// AddTrussElement adds a truss element (axial stiffness only) between the segment endpoints.
func (m *Model) AddTrussElement(seg geometry.Segment, props Properties) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.addElementLocked(seg, ElementTruss, props)
}

// AddMultipleElements divides the segment into equal elements.
//
// The number of elements is taken from "n" (a positive integer) or derived
// from "dl" (the target element length); giving both is an error. With
// neither, a single element is added. "element_type" selects "general" or
// "truss". The remaining properties are applied to every element.
func (m *Model) AddMultipleElements(seg geometry.Segment, props Properties) ([]int, error) {
	n, err := divisions(seg, props)
	if err != nil {
		return nil, err
	}

	elemType := ElementGeneral
	if raw, ok := props.Get(keyElementType); ok {
		s, isStr := raw.(string)
		switch {
		case isStr && ElementType(s) == ElementGeneral:
		case isStr && ElementType(s) == ElementTruss:
			elemType = ElementTruss
		default:
			return nil, fmt.Errorf("%w: element_type %v", ErrInvalidElement, raw)
		}
	}
	rest := props.Without(keyDivisions, keyDivisionLen, keyElementType)

	// All parts are checked before the first one is added so a rejected
	// split leaves the model untouched.
	parts := seg.Split(n)
	for i, part := range parts {
		part = geometry.NewSegment(part.Start, part.End)
		if part.IsDegenerate() {
			return nil, fmt.Errorf("%w: part %d of %d has zero length at %s", ErrInvalidElement, i+1, n, part.Start)
		}
		parts[i] = part
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	ids := make([]int, 0, n)
	for _, part := range parts {
		id, err := m.addElementLocked(part, elemType, rest)
		if err != nil {
			return ids, err
		}
		ids = append(ids, id)
	}
	return ids, nil
}

// divisions resolves the element count for AddMultipleElements.
func divisions(seg geometry.Segment, props Properties) (int, error) {
	rawN, hasN := props.Get(keyDivisions)
	dl, hasDL, err := props.Float(keyDivisionLen)
	if err != nil {
		return 0, fmt.Errorf("%w: %w", ErrInvalidElement, err)
	}

	switch {
	case hasN && hasDL:
		return 0, fmt.Errorf("%w: n and dl are mutually exclusive", ErrInvalidElement)
	case hasN:
		n, ok := AsInt(rawN)
		if !ok || n < 1 {
			return 0, fmt.Errorf("%w: n must be a positive integer, got %v", ErrInvalidElement, rawN)
		}
		return checkDivisions(seg, n)
	case hasDL:
		if dl <= 0 {
			return 0, fmt.Errorf("%w: dl must be positive, got %v", ErrInvalidElement, dl)
		}
		count := math.Round(seg.Length() / dl)
		if count > MaxDivisions {
			return 0, fmt.Errorf("%w: dl %v gives more than %d elements", ErrInvalidElement, dl, MaxDivisions)
		}
		return checkDivisions(seg, max(1, int(count)))
	default:
		return 1, nil
	}
}

// checkDivisions rejects counts that are too large or that would make parts
// shorter than the coordinate resolution.
func checkDivisions(seg geometry.Segment, n int) (int, error) {
	if n > MaxDivisions {
		return 0, fmt.Errorf("%w: n %d exceeds %d", ErrInvalidElement, n, MaxDivisions)
	}
	if seg.Length()/float64(n) < geometry.Resolution {
		return 0, fmt.Errorf("%w: %d parts of a %g long segment are below coordinate resolution", ErrInvalidElement, n, seg.Length())
	}
	return n, nil
}

func (m *Model) addElementLocked(seg geometry.Segment, elemType ElementType, props Properties) (int, error) {
	seg = geometry.NewSegment(seg.Start, seg.End)
	if seg.IsDegenerate() {
		return 0, fmt.Errorf("%w: zero-length element at %s", ErrInvalidElement, seg.Start)
	}

	start := m.registerNodeLocked(seg.Start)
	end := m.registerNodeLocked(seg.End)

	el := Element{
		ID:         len(m.elements) + 1,
		Type:       elemType,
		StartNode:  start,
		EndNode:    end,
		Properties: props,
	}
	m.elements = append(m.elements, el)
	return el.ID, nil
}

// registerNodeLocked returns the ID of p, creating the node if needed.
func (m *Model) registerNodeLocked(p geometry.Point) int {
	if id, ok := m.nodeIndex[p]; ok {
		return id
	}
	id := len(m.nodes) + 1
	m.nodes = append(m.nodes, Node{ID: id, Point: p})
	m.nodeIndex[p] = id
	return id
}

// FindNodeID returns the ID of the node at p (after rounding).
func (m *Model) FindNodeID(p geometry.Point) (int, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if id, ok := m.nodeIndex[geometry.Round(p)]; ok {
		return id, nil
	}
	return 0, fmt.Errorf("%w: %s", ErrNodeNotFound, p)
}

func (m *Model) hasNodeLocked(id int) bool {
	return id >= 1 && id <= len(m.nodes)
}

// AddSupport attaches a support of the given kind to a node.
// Spring supports require a numeric "k"; "translation" must be an integer when given.
func (m *Model) AddSupport(nodeID int, kind SupportKind, props Properties) error {
	if !validSupportKind(kind) {
		return fmt.Errorf("%w: unknown kind %q", ErrInvalidSupport, kind)
	}
	if kind == SupportSpring {
		if _, ok, err := props.Float(keySpringK); err != nil || !ok {
			return fmt.Errorf("%w: spring support needs a numeric k", ErrInvalidSupport)
		}
		if raw, ok := props.Get(keyTranslation); ok {
			if _, isInt := AsInt(raw); !isInt {
				return fmt.Errorf("%w: translation must be an integer, got %v", ErrInvalidSupport, raw)
			}
		}
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if !m.hasNodeLocked(nodeID) {
		return fmt.Errorf("%w: id %d", ErrNodeNotFound, nodeID)
	}
	m.supports = append(m.supports, Support{NodeID: nodeID, Kind: kind, Properties: props})
	return nil
}

func validSupportKind(kind SupportKind) bool {
	for _, k := range AllSupportKinds() {
		if k == kind {
			return true
		}
	}
	return false
}

// AddPointLoad applies a concentrated force at a node.
// At least one of "Fx" and "Fy" must be given; "rotation" is optional.
// Other properties are kept as given.
func (m *Model) AddPointLoad(nodeID int, props Properties) error {
	fx, hasFx, err := props.Float(keyFx)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidLoad, err)
	}
	fy, hasFy, err := props.Float(keyFy)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidLoad, err)
	}
	rot, _, err := props.Float(keyRotation)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidLoad, err)
	}
	if !hasFx && !hasFy {
		return fmt.Errorf("%w: point load needs Fx or Fy", ErrInvalidLoad)
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if !m.hasNodeLocked(nodeID) {
		return fmt.Errorf("%w: id %d", ErrNodeNotFound, nodeID)
	}
	m.pointLoads = append(m.pointLoads, PointLoad{
		NodeID:     nodeID,
		Fx:         fx,
		Fy:         fy,
		Rotation:   rot,
		Properties: props.Without(keyFx, keyFy, keyRotation),
	})
	return nil
}

// AddMomentLoad applies a concentrated moment "Ty" at a node.
func (m *Model) AddMomentLoad(nodeID int, props Properties) error {
	ty, ok, err := props.Float(keyTy)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidLoad, err)
	}
	if !ok {
		return fmt.Errorf("%w: moment load needs Ty", ErrInvalidLoad)
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if !m.hasNodeLocked(nodeID) {
		return fmt.Errorf("%w: id %d", ErrNodeNotFound, nodeID)
	}
	m.momentLoads = append(m.momentLoads, MomentLoad{
		NodeID:     nodeID,
		Ty:         ty,
		Properties: props.Without(keyTy),
	})
	return nil
}

// Nodes returns a copy of all nodes in ID order.
func (m *Model) Nodes() []Node {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return append([]Node(nil), m.nodes...)
}

// Elements returns a copy of all elements in ID order.
func (m *Model) Elements() []Element {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return append([]Element(nil), m.elements...)
}

// Supports returns a copy of all supports in insertion order.
func (m *Model) Supports() []Support {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return append([]Support(nil), m.supports...)
}

// PointLoads returns a copy of all point loads in insertion order.
func (m *Model) PointLoads() []PointLoad {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return append([]PointLoad(nil), m.pointLoads...)
}

// MomentLoads returns a copy of all moment loads in insertion order.
func (m *Model) MomentLoads() []MomentLoad {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return append([]MomentLoad(nil), m.momentLoads...)
}

// Summary counts the model contents.
func (m *Model) Summary() Summary {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return Summary{
		Nodes:       len(m.nodes),
		Elements:    len(m.elements),
		Supports:    len(m.supports),
		PointLoads:  len(m.pointLoads),
		MomentLoads: len(m.momentLoads),
	}
}
