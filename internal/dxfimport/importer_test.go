package dxfimport

import (
	"errors"
	"reflect"
	"strings"
	"testing"

	"github.com/nerrad567/structdxf/internal/geometry"
	"github.com/nerrad567/structdxf/internal/structure"
)

func newDrawing(lines []geometry.Segment, texts ...Annotation) *Drawing {
	d := &Drawing{}
	for _, l := range lines {
		d.AddLine(l.Start, l.End)
	}
	for _, a := range texts {
		d.AddText(a)
	}
	return d
}

func TestImporter_AnnotatedElement(t *testing.T) {
	d := newDrawing(
		[]geometry.Segment{seg(0, 0, 10, 0)},
		Annotation{Insert: geometry.Pt(5, 0.01), Height: 0.5, Text: "add_element(steelsection=IPE300)"},
	)
	m := newRecordingModel()

	res, err := NewImporter(Options{}).Apply(d, m)
	if err != nil {
		t.Fatalf("Apply() error = %v", err)
	}

	calls := m.ops("AddElement")
	if len(calls) != 1 {
		t.Fatalf("AddElement calls = %+v, want exactly one", calls)
	}
	if calls[0].Seg != seg(0, 0, 10, 0) {
		t.Errorf("segment = %v", calls[0].Seg)
	}
	want := structure.Properties{{Key: "steelsection", Value: "IPE300"}}
	if !reflect.DeepEqual(calls[0].Props, want) {
		t.Errorf("props = %v, want %v", calls[0].Props, want)
	}
	if res.Statistics.AnnotatedElements != 1 || res.Statistics.PlainElements != 0 {
		t.Errorf("statistics = %+v", res.Statistics)
	}
	if len(res.Warnings) != 0 {
		t.Errorf("warnings = %+v", res.Warnings)
	}
}

func TestImporter_PlainElement(t *testing.T) {
	d := newDrawing(
		[]geometry.Segment{seg(0, 0, 10, 0)},
		Annotation{Insert: geometry.Pt(5, 3), Height: 0.5, Text: "add_element(steelsection=IPE300)"},
	)
	m := newRecordingModel()

	res, err := NewImporter(Options{}).Apply(d, m)
	if err != nil {
		t.Fatalf("Apply() error = %v", err)
	}

	if len(m.calls) != 1 {
		t.Fatalf("calls = %+v, want one plain AddElement", m.calls)
	}
	if c := m.calls[0]; c.Op != "AddElement" || len(c.Props) != 0 {
		t.Errorf("call = %+v, want AddElement without properties", c)
	}
	if res.Statistics.PlainElements != 1 {
		t.Errorf("PlainElements = %d, want 1", res.Statistics.PlainElements)
	}
}

func TestImporter_SharedNodeSupport(t *testing.T) {
	d := newDrawing(
		[]geometry.Segment{seg(0, 0, 10, 0), seg(10, 0, 10, 5)},
		Annotation{Insert: geometry.Pt(10, 0.01), Height: 0.5, Text: "add_support(Tx=True)"},
	)
	m := newRecordingModel()

	res, err := NewImporter(Options{}).Apply(d, m)
	if err != nil {
		t.Fatalf("Apply() error = %v", err)
	}

	supports := m.ops("AddSupport")
	if len(supports) != 1 {
		t.Fatalf("AddSupport calls = %+v, want exactly one", supports)
	}
	nodeID, err := m.FindNodeID(geometry.Pt(10, 0))
	if err != nil {
		t.Fatalf("FindNodeID() error = %v", err)
	}
	if supports[0].NodeID != nodeID {
		t.Errorf("support node = %d, want %d", supports[0].NodeID, nodeID)
	}
	if res.Statistics.Nodes != 3 || res.Statistics.PointCommands != 1 {
		t.Errorf("statistics = %+v, want 3 nodes and 1 point command", res.Statistics)
	}
}

func TestImporter_ElementsBeforePoints(t *testing.T) {
	// The load is drawn before the line it sits on.
	d := &Drawing{}
	d.AddText(Annotation{Insert: geometry.Pt(0, 0.1), Height: 0.5, Text: "point_load(Fy=-10)"})
	d.AddLine(geometry.Pt(0, 0), geometry.Pt(5, 0))
	m := newRecordingModel()

	if _, err := NewImporter(Options{}).Apply(d, m); err != nil {
		t.Fatalf("Apply() error = %v", err)
	}
	ops := make([]string, len(m.calls))
	for i, c := range m.calls {
		ops[i] = c.Op
	}
	if want := []string{"AddElement", "AddPointLoad"}; !reflect.DeepEqual(ops, want) {
		t.Errorf("call order = %v, want %v", ops, want)
	}
}

func TestImporter_RunPointPassBeforeElements(t *testing.T) {
	m := newRecordingModel()
	anns := []Annotation{{Insert: geometry.Pt(10, 0.01), Height: 0.5, Text: "add_support_fixed()"}}

	err := NewImporter(Options{}).RunPointPass([]geometry.Point{geometry.Pt(10, 0)}, anns, m, &Result{})
	if !errors.Is(err, ErrNodeNotFound) {
		t.Errorf("RunPointPass() error = %v, want ErrNodeNotFound", err)
	}
	if len(m.ops("AddSupport")) != 0 {
		t.Error("support applied to a node that does not exist")
	}
}

func TestImporter_Fallbacks(t *testing.T) {
	tests := []struct {
		name     string
		text     string
		wantCode string
	}{
		{"invalid text", "add_element(EA=)", WarnInvalidCommandText},
		{"unknown name", "add_elements(EA=1)", WarnInvalidCommandText},
		{"rejected by model", "add_multiple_elements(n=0)", WarnCommandRejected},
		{"point command in element category", "add_support(label=add_element)", WarnInvalidCommandText},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := newDrawing(
				[]geometry.Segment{seg(0, 0, 10, 0)},
				Annotation{Insert: geometry.Pt(5, 0.1), Height: 0.5, Text: tt.text},
			)
			m := newRecordingModel()

			res, err := NewImporter(Options{}).Apply(d, m)
			if err != nil {
				t.Fatalf("Apply() error = %v", err)
			}
			if len(res.Warnings) != 1 {
				t.Fatalf("warnings = %+v, want one", res.Warnings)
			}
			w := res.Warnings[0]
			if w.Code != tt.wantCode || w.Text != tt.text {
				t.Errorf("warning = %+v, want code %s", w, tt.wantCode)
			}
			if !strings.HasPrefix(w.Entity, "line ") {
				t.Errorf("warning entity = %q", w.Entity)
			}

			plain := m.ops("AddElement")
			if len(plain) != 1 || len(plain[0].Props) != 0 {
				t.Errorf("AddElement calls = %+v, want one plain fallback", plain)
			}
			if res.Statistics.PlainElements != 1 || m.Summary().Elements != 1 {
				t.Errorf("statistics = %+v, elements = %d", res.Statistics, m.Summary().Elements)
			}
		})
	}
}

func TestImporter_RejectedSplitLeavesPlainElement(t *testing.T) {
	tests := []struct {
		name string
		text string
	}{
		{"parts below coordinate resolution", "add_multiple_elements(n=5000)"},
		{"too many parts", "add_multiple_elements(n=200000)"},
		{"count beyond int range", "add_multiple_elements(n=100000000000000)"},
		{"integral float beyond int range", "add_multiple_elements(n=1e300)"},
		{"tiny dl", "add_multiple_elements(dl=1e-300)"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := newDrawing(
				[]geometry.Segment{seg(0, 0, 0.01, 0)},
				Annotation{Insert: geometry.Pt(0.005, 0.001), Height: 0.01, Text: tt.text},
			)
			m := newRecordingModel()

			res, err := NewImporter(Options{}).Apply(d, m)
			if err != nil {
				t.Fatalf("Apply() error = %v", err)
			}
			if len(res.Warnings) != 1 || res.Warnings[0].Code != WarnCommandRejected {
				t.Fatalf("warnings = %+v, want one %s", res.Warnings, WarnCommandRejected)
			}

			want := structure.Summary{Nodes: 2, Elements: 1}
			if got := m.Summary(); got != want {
				t.Errorf("Summary = %+v, want %+v", got, want)
			}
			if el := m.Elements()[0]; len(el.Properties) != 0 {
				t.Errorf("element properties = %v, want plain element", el.Properties)
			}
		})
	}
}

func TestImporter_DegenerateLine(t *testing.T) {
	d := newDrawing([]geometry.Segment{seg(1, 1, 1, 1), seg(0, 0, 0, 3)})
	m := newRecordingModel()

	res, err := NewImporter(Options{}).Apply(d, m)
	if err != nil {
		t.Fatalf("Apply() error = %v", err)
	}
	if len(res.Warnings) != 1 || res.Warnings[0].Code != WarnDegenerateGeometry {
		t.Fatalf("warnings = %+v, want one %s", res.Warnings, WarnDegenerateGeometry)
	}
	if res.Statistics.SkippedSegments != 1 || res.Statistics.PlainElements != 1 {
		t.Errorf("statistics = %+v", res.Statistics)
	}
	if res.Statistics.Nodes != 2 {
		t.Errorf("Nodes = %d, want 2", res.Statistics.Nodes)
	}
}

func TestImporter_PointWarnings(t *testing.T) {
	d := newDrawing(
		[]geometry.Segment{seg(0, 0, 10, 0)},
		Annotation{Insert: geometry.Pt(0, 0.1), Height: 0.5, Text: "point_load(Fx=1, Fx=2)"},
		Annotation{Insert: geometry.Pt(10, 0.1), Height: 0.5, Text: "moment_load(M=3)"},
	)
	m := newRecordingModel()

	res, err := NewImporter(Options{}).Apply(d, m)
	if err != nil {
		t.Fatalf("Apply() error = %v", err)
	}

	var codes []string
	for _, w := range res.Warnings {
		codes = append(codes, w.Code)
	}
	if want := []string{WarnInvalidCommandText, WarnCommandRejected}; !reflect.DeepEqual(codes, want) {
		t.Errorf("warning codes = %v, want %v", codes, want)
	}
	if res.Statistics.SkippedPoints != 2 || res.Statistics.PointCommands != 0 {
		t.Errorf("statistics = %+v", res.Statistics)
	}
	if s := m.Summary(); s.PointLoads != 0 || s.MomentLoads != 0 {
		t.Errorf("summary = %+v, want no loads", s)
	}
}

func TestImporter_ThresholdFactor(t *testing.T) {
	d := newDrawing(
		[]geometry.Segment{seg(0, 0, 10, 0)},
		Annotation{Insert: geometry.Pt(5, 1.5), Height: 0.5, Text: "add_truss_element()"},
	)

	m := newRecordingModel()
	if _, err := NewImporter(Options{}).Apply(d, m); err != nil {
		t.Fatalf("Apply() error = %v", err)
	}
	if len(m.ops("AddTrussElement")) != 0 {
		t.Error("default factor matched an annotation 3 heights away")
	}

	m = newRecordingModel()
	if _, err := NewImporter(Options{ThresholdFactor: 4}).Apply(d, m); err != nil {
		t.Fatalf("Apply() error = %v", err)
	}
	if len(m.ops("AddTrussElement")) != 1 {
		t.Error("factor 4 did not match an annotation 3 heights away")
	}
}

func TestImporter_ResultMetadata(t *testing.T) {
	d := newDrawing(nil, Annotation{Insert: geometry.Pt(0, 0), Height: 1, Text: "title block"})

	res, err := NewImporter(Options{}).Apply(d, newRecordingModel())
	if err != nil {
		t.Fatalf("Apply() error = %v", err)
	}
	if !strings.HasPrefix(res.ImportID, "imp_") || len(res.ImportID) != 4+2*importIDBytes {
		t.Errorf("ImportID = %q", res.ImportID)
	}
	if res.ImportedAt.IsZero() {
		t.Error("ImportedAt not set")
	}
	if res.Statistics.IgnoredTexts != 1 {
		t.Errorf("IgnoredTexts = %d, want 1", res.Statistics.IgnoredTexts)
	}
}

func TestUniqueEndpoints(t *testing.T) {
	segs := []geometry.Segment{
		seg(0, 0, 10, 0),
		seg(10.0000001, 0, 10, 5),
		seg(10, 5, 0, 0),
	}

	got := UniqueEndpoints(segs)
	want := []geometry.Point{geometry.Pt(0, 0), geometry.Pt(10, 0), geometry.Pt(10, 5)}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("UniqueEndpoints() = %v, want %v", got, want)
	}
}
