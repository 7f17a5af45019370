// Package sim drives N cars around a track for one simulation step at a
// time: integrating physics, killing cars on wall collision, advancing
// checkpoint progress, and producing each car's sensor readings.
package sim

import (
	"math"

	"github.com/pthm-cable/neatracer/car"
	"github.com/pthm-cable/neatracer/collision"
	"github.com/pthm-cable/neatracer/config"
	"github.com/pthm-cable/neatracer/track"
	"github.com/pthm-cable/neatracer/vector"
)

// Controls is one car's input for a tick.
type Controls struct {
	Forward, Backward, Left, Right bool
}

// SensorInfo is a car's perception vector for one tick: normalized
// velocity followed by the three normalized sight-ray distances.
type SensorInfo [4]float64

// Simulation steps a fixed number of cars around a Track.
type Simulation struct {
	track       track.Track
	cars        []*car.Car
	dead        []bool
	lastReached []int

	// trackedCar is the index of the car the camera follows.
	trackedCar int
	Camera     vector.Vector2

	checkpointAcc []float64
}

// New places num_cars cars at track.Start with heading 0, all alive,
// each with last-reached checkpoint 0. The camera starts on car 0.
func New(numCars int, tr track.Track) *Simulation {
	cars := make([]*car.Car, numCars)
	lastReached := make([]int, numCars)
	dead := make([]bool, numCars)
	for i := range cars {
		cars[i] = car.New(tr.Start.X, tr.Start.Y)
	}

	return &Simulation{
		track:         tr,
		cars:          cars,
		dead:          dead,
		lastReached:   lastReached,
		trackedCar:    0,
		Camera:        tr.Start,
		checkpointAcc: checkpointAccumulators(tr.Checkpoints),
	}
}

// checkpointAccumulators precomputes the running arc length along the
// checkpoint chain, used by GetCarsFitness.
func checkpointAccumulators(checkpoints []vector.Vector2) []float64 {
	acc := make([]float64, len(checkpoints))
	for i := 1; i < len(checkpoints); i++ {
		acc[i] = acc[i-1] + checkpoints[i].Sub(checkpoints[i-1]).Magnitude()
	}
	return acc
}

// NumCars returns the number of cars in the simulation.
func (s *Simulation) NumCars() int { return len(s.cars) }

// TrackCar sets which car index the camera follows.
func (s *Simulation) TrackCar(i int) { s.trackedCar = i }

// AllDead reports whether every car has collided with a wall.
func (s *Simulation) AllDead() bool {
	for _, d := range s.dead {
		if !d {
			return false
		}
	}
	return true
}

// Update advances every living car by dt seconds under controls[i],
// kills cars that collide with a wall, advances checkpoint progress,
// moves the camera to the tracked car, and returns each car's sensor
// reading for the resulting state.
func (s *Simulation) Update(dt float64, controls []Controls) []SensorInfo {
	cfg := config.Cfg().Sim

	for i, c := range s.cars {
		if s.dead[i] {
			continue
		}
		ctrl := controls[i]

		accel := 0.0
		if ctrl.Forward {
			accel += cfg.CarAcceleration
		}
		if ctrl.Backward {
			accel -= cfg.CarAcceleration
		}

		// CarRotationSpeed is radians per tick, not scaled by dt.
		if ctrl.Left {
			c.Direction += cfg.CarRotationSpeed
		}
		if ctrl.Right {
			c.Direction -= cfg.CarRotationSpeed
		}

		c.SetMoveAcceleration(accel)
		c.PhysicsUpdate(dt)

		box := c.BoundingBox()
		for _, wall := range s.track.Walls {
			if collision.RectRectIntersection(box, wall) {
				s.dead[i] = true
				break
			}
		}

		s.advanceCheckpoint(i)
	}

	s.Camera = s.cars[s.trackedCar].Position

	infos := make([]SensorInfo, len(s.cars))
	for i, c := range s.cars {
		infos[i] = s.sensorInfo(c)
	}
	return infos
}

// advanceCheckpoint moves car i's last-reached checkpoint forward by one
// if it has come within CheckpointRadius of the next checkpoint in the
// (wrapping) chain.
func (s *Simulation) advanceCheckpoint(i int) {
	checkpoints := s.track.Checkpoints
	next := (s.lastReached[i] + 1) % len(checkpoints)
	sqrDist := s.cars[i].Position.Sub(checkpoints[next]).SqrMagnitude()
	if sqrDist < track.CheckpointRadiusSqr() {
		s.lastReached[i] = next
	}
}

// sensorInfo computes a car's perception vector: normalized velocity,
// then each sight ray's hit distance normalized by MaxRayLength (1.0 if
// the ray doesn't hit within range).
func (s *Simulation) sensorInfo(c *car.Car) SensorInfo {
	maxRayLength := config.Cfg().Sim.MaxRayLength
	velocity := c.Velocity / car.MaxVelocity()

	var info SensorInfo
	info[0] = velocity

	rays := c.SightRays()
	for i, ray := range rays {
		_, dist, hit := s.raycastAgainstWalls(ray, maxRayLength)
		if hit && dist <= maxRayLength {
			info[i+1] = dist / maxRayLength
		} else {
			info[i+1] = 1.0
		}
	}
	return info
}

// raycastAgainstWalls prunes the wall set to those a ray could possibly
// reach within maxLen (maxLen == 0 disables pruning), then returns the
// closest hit among the candidates.
func (s *Simulation) raycastAgainstWalls(ray vector.Ray, maxLen float64) (vector.Vector2, float64, bool) {
	maxLenSqr := maxLen * maxLen

	var closestPoint vector.Vector2
	closestDist := math.Inf(1)
	found := false

	for _, wall := range s.track.Walls {
		if maxLen != 0 {
			minSqrDist := math.Inf(1)
			for _, v := range wall.Verts {
				d := v.Sub(ray.Origin).SqrMagnitude()
				if d < minSqrDist {
					minSqrDist = d
				}
			}
			if minSqrDist-wall.SqrHalfSide >= maxLenSqr {
				continue
			}
		}

		point, dist, hit := collision.RayRectIntersection(ray, wall)
		if hit && dist < closestDist {
			closestPoint = point
			closestDist = dist
			found = true
		}
	}

	return closestPoint, closestDist, found
}

// GetCarsFitness returns each car's fitness: arc length travelled along
// the checkpoint chain, scaled down to keep values in a small range.
func (s *Simulation) GetCarsFitness() []float64 {
	fitnessScale := config.Cfg().Sim.FitnessScale
	checkpoints := s.track.Checkpoints
	n := len(checkpoints)
	fitness := make([]float64, len(s.cars))

	for i, c := range s.cars {
		k := s.lastReached[i]
		prev := checkpoints[(k-1+n)%n]
		dPrev := c.Position.Sub(prev).Magnitude()
		length := checkpoints[k].Sub(prev).Magnitude()

		var f float64
		if dPrev < length {
			if k == 0 {
				f = 0
			} else {
				f = s.checkpointAcc[(k-1+n)%n] + dPrev
			}
		} else {
			f = s.checkpointAcc[k] + c.Position.Sub(checkpoints[k]).Magnitude()
		}
		fitness[i] = f * fitnessScale
	}
	return fitness
}

// Cars exposes the underlying car slice for telemetry and rendering
// collaborators; callers must not mutate it outside Update.
func (s *Simulation) Cars() []*car.Car { return s.cars }

// Dead reports whether car i has collided with a wall.
func (s *Simulation) Dead(i int) bool { return s.dead[i] }
