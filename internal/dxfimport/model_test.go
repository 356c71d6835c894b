package dxfimport

import (
	"github.com/nerrad567/structdxf/internal/geometry"
	"github.com/nerrad567/structdxf/internal/structure"
)

// call is one recorded model operation.
type call struct {
	Op     string
	Seg    geometry.Segment
	NodeID int
	Kind   structure.SupportKind
	Props  structure.Properties
}

// recordingModel records every mutation before passing it to a real model.
type recordingModel struct {
	*structure.Model
	calls []call
}

func newRecordingModel() *recordingModel {
	return &recordingModel{Model: structure.NewModel()}
}

func (r *recordingModel) AddElement(seg geometry.Segment, props structure.Properties) (int, error) {
	r.calls = append(r.calls, call{Op: "AddElement", Seg: seg, Props: props})
	return r.Model.AddElement(seg, props)
}

func (r *recordingModel) AddMultipleElements(seg geometry.Segment, props structure.Properties) ([]int, error) {
	r.calls = append(r.calls, call{Op: "AddMultipleElements", Seg: seg, Props: props})
	return r.Model.AddMultipleElements(seg, props)
}

func (r *recordingModel) AddTrussElement(seg geometry.Segment, props structure.Properties) (int, error) {
	r.calls = append(r.calls, call{Op: "AddTrussElement", Seg: seg, Props: props})
	return r.Model.AddTrussElement(seg, props)
}

func (r *recordingModel) AddSupport(nodeID int, kind structure.SupportKind, props structure.Properties) error {
	r.calls = append(r.calls, call{Op: "AddSupport", NodeID: nodeID, Kind: kind, Props: props})
	return r.Model.AddSupport(nodeID, kind, props)
}

func (r *recordingModel) AddPointLoad(nodeID int, props structure.Properties) error {
	r.calls = append(r.calls, call{Op: "AddPointLoad", NodeID: nodeID, Props: props})
	return r.Model.AddPointLoad(nodeID, props)
}

func (r *recordingModel) AddMomentLoad(nodeID int, props structure.Properties) error {
	r.calls = append(r.calls, call{Op: "AddMomentLoad", NodeID: nodeID, Props: props})
	return r.Model.AddMomentLoad(nodeID, props)
}

// ops returns the calls with the given operation name.
func (r *recordingModel) ops(op string) []call {
	var out []call
	for _, c := range r.calls {
		if c.Op == op {
			out = append(out, c)
		}
	}
	return out
}

func seg(x1, y1, x2, y2 float64) geometry.Segment {
	return geometry.NewSegment(geometry.Pt(x1, y1), geometry.Pt(x2, y2))
}
