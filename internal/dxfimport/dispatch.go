package dxfimport

import (
	"fmt"

	"github.com/nerrad567/structdxf/internal/geometry"
	"github.com/nerrad567/structdxf/internal/structure"
)

// Model is the structural model the importer writes to.
// *structure.Model implements it.
type Model interface {
	AddElement(seg geometry.Segment, props structure.Properties) (int, error)
	AddMultipleElements(seg geometry.Segment, props structure.Properties) ([]int, error)
	AddTrussElement(seg geometry.Segment, props structure.Properties) (int, error)
	AddSupport(nodeID int, kind structure.SupportKind, props structure.Properties) error
	AddPointLoad(nodeID int, props structure.Properties) error
	AddMomentLoad(nodeID int, props structure.Properties) error
	FindNodeID(p geometry.Point) (int, error)
}

var _ Model = (*structure.Model)(nil)

type handler func(m Model, args structure.Properties) error

// handlers maps every command name to the model operation it performs.
var handlers = map[string]handler{
	CmdAddElement: elementHandler(func(m Model, seg geometry.Segment, props structure.Properties) error {
		_, err := m.AddElement(seg, props)
		return err
	}),
	CmdAddMultipleElements: elementHandler(func(m Model, seg geometry.Segment, props structure.Properties) error {
		_, err := m.AddMultipleElements(seg, props)
		return err
	}),
	CmdAddTrussElement: elementHandler(func(m Model, seg geometry.Segment, props structure.Properties) error {
		_, err := m.AddTrussElement(seg, props)
		return err
	}),

	CmdAddSupport:       supportHandler(structure.SupportGeneral),
	CmdAddSupportHinged: supportHandler(structure.SupportHinged),
	CmdAddSupportFixed:  supportHandler(structure.SupportFixed),
	CmdAddSupportRoll:   supportHandler(structure.SupportRoll),
	CmdAddSupportSpring: supportHandler(structure.SupportSpring),
	CmdPointLoad: nodeHandler(func(m Model, id int, props structure.Properties) error {
		return m.AddPointLoad(id, props)
	}),
	CmdMomentLoad: nodeHandler(func(m Model, id int, props structure.Properties) error {
		return m.AddMomentLoad(id, props)
	}),
}

// Dispatch applies a bound command to the model.
//
// Element commands must carry a location and point commands a node_id,
// as inserted by BindLocation and BindNode.
func Dispatch(m Model, cmd Command) error {
	h, ok := handlers[cmd.Name]
	if !ok {
		return fmt.Errorf("%w: unknown command %q", ErrInvalidCommandText, cmd.Name)
	}
	if err := h(m, cmd.Args); err != nil {
		return fmt.Errorf("%s: %w", cmd.Name, err)
	}
	return nil
}

func elementHandler(fn func(Model, geometry.Segment, structure.Properties) error) handler {
	return func(m Model, args structure.Properties) error {
		raw, _ := args.Get(KeyLocation)
		seg, ok := raw.(geometry.Segment)
		if !ok {
			return fmt.Errorf("%w: missing %s", ErrInvalidCommandText, KeyLocation)
		}
		return fn(m, seg, args.Without(KeyLocation))
	}
}

func nodeHandler(fn func(Model, int, structure.Properties) error) handler {
	return func(m Model, args structure.Properties) error {
		raw, _ := args.Get(KeyNodeID)
		id, ok := raw.(int)
		if !ok {
			return fmt.Errorf("%w: missing %s", ErrInvalidCommandText, KeyNodeID)
		}
		return fn(m, id, args.Without(KeyNodeID))
	}
}

func supportHandler(kind structure.SupportKind) handler {
	return nodeHandler(func(m Model, id int, props structure.Properties) error {
		return m.AddSupport(id, kind, props)
	})
}
