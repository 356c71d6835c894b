package geometry

import (
	"errors"
	"math"
	"testing"
)

const epsilon = 1e-9

func TestRound(t *testing.T) {
	tests := []struct {
		name  string
		input Point
		want  Point
	}{
		{"already rounded", Pt(1.5, -2.25), Pt(1.5, -2.25)},
		{"drops sixth digit", Pt(0.1234561, 9.8765449), Pt(0.12346, 9.87654)},
		{"float noise", Pt(0.1+0.2, 10.000000001), Pt(0.3, 10)},
		{"negative zero collapses", Pt(-0.000001, -0.000004), Pt(0, 0)},
		{"large values", Pt(12345.678901, -98765.432109), Pt(12345.6789, -98765.43211)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Round(tt.input)
			if got != tt.want {
				t.Errorf("Round(%v) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}

func TestRound_Idempotent(t *testing.T) {
	inputs := []Point{
		Pt(0, 0),
		Pt(1.0/3.0, 2.0/3.0),
		Pt(-7.123456789, 3.000005),
		Pt(1e6+0.123456, -1e-7),
		Pt(10.000015, 0.999995),
	}

	for _, p := range inputs {
		once := Round(p)
		twice := Round(once)
		if once != twice {
			t.Errorf("Round(Round(%v)) = %v, want %v", p, twice, once)
		}
	}
}

func TestDistance(t *testing.T) {
	got := Pt(0, 0).Distance(Pt(3, 4))
	if math.Abs(got-5) > epsilon {
		t.Errorf("Distance() = %v, want 5", got)
	}
}

func TestSegment_LineDistance(t *testing.T) {
	seg := NewSegment(Pt(0, 0), Pt(10, 0))

	tests := []struct {
		name  string
		point Point
		want  float64
	}{
		{"on the line", Pt(5, 0), 0},
		{"above midpoint", Pt(5, 0.01), 0.01},
		{"below", Pt(2, -3), 3},
		{"beyond end is not clamped", Pt(20, 1), 1},
		{"before start is not clamped", Pt(-50, 2), 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := seg.LineDistance(tt.point)
			if err != nil {
				t.Fatalf("LineDistance() error = %v", err)
			}
			if math.Abs(got-tt.want) > epsilon {
				t.Errorf("LineDistance(%v) = %v, want %v", tt.point, got, tt.want)
			}
		})
	}
}

func TestSegment_LineDistance_Diagonal(t *testing.T) {
	seg := NewSegment(Pt(0, 0), Pt(4, 4))

	got, err := seg.LineDistance(Pt(0, 2))
	if err != nil {
		t.Fatalf("LineDistance() error = %v", err)
	}
	if want := math.Sqrt2; math.Abs(got-want) > epsilon {
		t.Errorf("LineDistance() = %v, want %v", got, want)
	}
}

func TestSegment_LineDistance_Degenerate(t *testing.T) {
	seg := NewSegment(Pt(1, 1), Pt(1.000001, 1))

	if !seg.IsDegenerate() {
		t.Fatal("IsDegenerate() = false for endpoints equal after rounding")
	}

	_, err := seg.LineDistance(Pt(0, 0))
	if !errors.Is(err, ErrDegenerate) {
		t.Errorf("LineDistance() error = %v, want ErrDegenerate", err)
	}
}

func TestSegment_Split(t *testing.T) {
	seg := NewSegment(Pt(0, 0), Pt(10, 0))

	parts := seg.Split(3)
	if len(parts) != 3 {
		t.Fatalf("Split(3) returned %d parts, want 3", len(parts))
	}
	if parts[0].Start != seg.Start {
		t.Errorf("first part starts at %v, want %v", parts[0].Start, seg.Start)
	}
	if parts[2].End != seg.End {
		t.Errorf("last part ends at %v, want %v", parts[2].End, seg.End)
	}
	if want := Pt(3.33333, 0); parts[0].End != want {
		t.Errorf("first split point = %v, want %v", parts[0].End, want)
	}
	for i := 1; i < len(parts); i++ {
		if parts[i].Start != parts[i-1].End {
			t.Errorf("part %d does not start where part %d ends", i, i-1)
		}
	}

	if got := seg.Split(1); len(got) != 1 || got[0] != seg {
		t.Errorf("Split(1) = %v, want the segment itself", got)
	}
}
