package track

import "testing"

import (
	"github.com/pthm-cable/neatracer/config"
	"github.com/pthm-cable/neatracer/vector"
)

func init() {
	config.MustInit("")
}

func TestNewPrependsStartAsFirstCheckpoint(t *testing.T) {
	start := vector.New(0, 0)
	tr := New(start, nil, []vector.Vector2{vector.New(10, 10)})

	if len(tr.Checkpoints) != 2 {
		t.Fatalf("len(Checkpoints) = %d, want 2", len(tr.Checkpoints))
	}
	if tr.Checkpoints[0] != start {
		t.Errorf("Checkpoints[0] = %v, want %v", tr.Checkpoints[0], start)
	}
}

func TestNewDoesNotDuplicateStart(t *testing.T) {
	start := vector.New(5, 5)
	tr := New(start, nil, []vector.Vector2{start, vector.New(20, 0)})

	if len(tr.Checkpoints) != 2 {
		t.Fatalf("len(Checkpoints) = %d, want 2 (no duplicate start)", len(tr.Checkpoints))
	}
}

func TestOvalProducesClosedRingWithWalls(t *testing.T) {
	tr := Oval(8, 6, 2)

	if len(tr.Walls) != 8 {
		t.Fatalf("len(Walls) = %d, want 8", len(tr.Walls))
	}
	if len(tr.Checkpoints) != 12 {
		t.Fatalf("len(Checkpoints) = %d, want 12", len(tr.Checkpoints))
	}
	if tr.Checkpoints[0] != tr.Start {
		t.Errorf("Checkpoints[0] = %v, want Start %v", tr.Checkpoints[0], tr.Start)
	}
}

func TestOvalRejectsSubOneCorridor(t *testing.T) {
	tr := Oval(8, 6, 0)
	if len(tr.Walls) != 8 {
		t.Fatalf("len(Walls) = %d, want 8 even with corridorCells clamped to 1", len(tr.Walls))
	}
}
