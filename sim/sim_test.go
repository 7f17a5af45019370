package sim

import (
	"math"
	"testing"

	"github.com/pthm-cable/neatracer/config"
	"github.com/pthm-cable/neatracer/track"
	"github.com/pthm-cable/neatracer/vector"
)

func init() {
	config.MustInit("")
}

func straightTrack() track.Track {
	return track.New(
		vector.New(0, 0),
		nil,
		[]vector.Vector2{vector.New(0, 0), vector.New(1000, 0), vector.New(2000, 0)},
	)
}

func TestNewPlacesCarsAtStart(t *testing.T) {
	s := New(3, straightTrack())
	for i, c := range s.Cars() {
		if c.Position != (vector.Vector2{}) {
			t.Errorf("car %d position = %v, want origin", i, c.Position)
		}
	}
	if s.AllDead() {
		t.Error("fresh simulation should not be all dead")
	}
}

func TestUpdateDrivesCarForward(t *testing.T) {
	s := New(1, straightTrack())
	controls := []Controls{{Forward: true}}
	for i := 0; i < 50; i++ {
		s.Update(0.1, controls)
	}
	if s.Cars()[0].Position.X <= 0 {
		t.Errorf("car X position = %v, want > 0 after driving forward", s.Cars()[0].Position.X)
	}
}

func TestWallCollisionKillsCar(t *testing.T) {
	tr := straightTrack()
	tr.Walls = []vector.Rectangle{
		vector.NewRectangle(vector.New(50, -100), vector.New(60, -100), vector.New(60, 100), vector.New(50, 100)),
	}
	s := New(1, tr)
	controls := []Controls{{Forward: true}}
	for i := 0; i < 100 && !s.AllDead(); i++ {
		s.Update(0.1, controls)
	}
	if !s.AllDead() {
		t.Error("car should have collided with the wall and died")
	}
}

func TestDeadCarFreezes(t *testing.T) {
	tr := straightTrack()
	tr.Walls = []vector.Rectangle{
		vector.NewRectangle(vector.New(20, -100), vector.New(30, -100), vector.New(30, 100), vector.New(20, 100)),
	}
	s := New(1, tr)
	controls := []Controls{{Forward: true}}
	for i := 0; i < 50; i++ {
		s.Update(0.1, controls)
	}
	if !s.AllDead() {
		t.Fatal("expected car to be dead")
	}
	frozen := s.Cars()[0].Position
	s.Update(0.1, controls)
	if s.Cars()[0].Position != frozen {
		t.Errorf("dead car moved: %v -> %v", frozen, s.Cars()[0].Position)
	}
}

func TestSensorInfoRayWithinRange(t *testing.T) {
	s := New(1, straightTrack())
	infos := s.Update(0.1, []Controls{{}})
	info := infos[0]
	if math.Abs(info[0]) > 1 {
		t.Errorf("normalized velocity out of range: %v", info[0])
	}
	for i := 1; i < 4; i++ {
		if info[i] < 0 || info[i] > 1 {
			t.Errorf("ray %d reading out of [0,1]: %v", i, info[i])
		}
	}
}

func TestFitnessNonNegative(t *testing.T) {
	s := New(1, straightTrack())
	controls := []Controls{{Forward: true}}
	for i := 0; i < 200; i++ {
		s.Update(0.1, controls)
	}
	f := s.GetCarsFitness()[0]
	if f < 0 {
		t.Errorf("fitness = %v, want >= 0", f)
	}
}
