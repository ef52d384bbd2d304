package entity

import (
	"testing"

	"github.com/opd-ai/go-orrery/pkg/physics"
)

func TestTrace_RecordIsFIFO(t *testing.T) {
	tr := NewTrace(3, 0.5, physics.Vector2D{})

	for i := 1; i <= 5; i++ {
		if change := tr.Record(physics.Vector2D{X: float64(i)}); change != TraceAppended {
			t.Fatalf("Record(%d) = %v", i, change)
		}
	}

	want := []float64{3, 4, 5}
	for i, s := range tr.Samples() {
		if s.X != want[i] {
			t.Errorf("slot %d = %v, expected %v", i, s.X, want[i])
		}
	}
	if tr.Newest().X != 5 {
		t.Errorf("Newest() = %v", tr.Newest())
	}
}

func TestTrace_Threshold(t *testing.T) {
	tr := NewTrace(4, 0.21, physics.Vector2D{})
	if tr.Record(physics.Vector2D{X: 0.2}) != TraceUnchanged {
		t.Error("move below threshold was recorded")
	}
	if tr.Record(physics.Vector2D{X: 0.21}) != TraceAppended {
		t.Error("move at threshold was not recorded")
	}
}

func TestTrace_MinimumCapacity(t *testing.T) {
	if NewTrace(0, 0.1, physics.Vector2D{}).Len() != 1 {
		t.Error("capacity should clamp to one")
	}
}
