// Package track holds the static, map-derived data a Simulation drives
// over: the start position, the walls cars collide with, and the
// checkpoint chain fitness is measured against.
//
// Producing this data from a pixel-based map description is an external
// collaborator's job (spec'd by GenMap below); this package only carries
// the result.
package track

import (
	"github.com/pthm-cable/neatracer/config"
	"github.com/pthm-cable/neatracer/vector"
)

// CheckpointRadius returns the distance a car must come within to
// advance to the next checkpoint: GridSize*(1+WallInsert), per the
// map decoder's output units.
func CheckpointRadius() float64 {
	cfg := config.Cfg().Sim
	return cfg.GridSize * (1 + cfg.WallInsert)
}

// CheckpointRadiusSqr is CheckpointRadius squared, since every caller
// compares against a squared distance.
func CheckpointRadiusSqr() float64 {
	r := CheckpointRadius()
	return r * r
}

// Track is the static course description a Simulation is built from: a
// starting position, the walls bounding the course, and an ordered,
// wrapping chain of checkpoints. Checkpoints[0] always equals Start.
type Track struct {
	Start       vector.Vector2
	Walls       []vector.Rectangle
	Checkpoints []vector.Vector2
}

// GenMap is the contract a map decoder must satisfy: given
// implementation-specific parameters, it returns a playable Track. The
// decoder itself (pixel sampling, wall insertion) is out of scope here;
// this type only documents the shape of its output so Simulation has a
// stable collaborator to depend on.
type GenMap func(params any) (Track, error)

// New builds a Track, prepending Start as Checkpoints[0] if the caller
// did not already include it.
func New(start vector.Vector2, walls []vector.Rectangle, checkpoints []vector.Vector2) Track {
	if len(checkpoints) == 0 || checkpoints[0] != start {
		checkpoints = append([]vector.Vector2{start}, checkpoints...)
	}
	return Track{Start: start, Walls: walls, Checkpoints: checkpoints}
}

// Oval builds a synthetic rectangular-ring track, cols x rows grid cells
// on a side with a corridor corridorCells wide. It stands in for a real
// GenMap decoder when no track asset is available; cmd/neatracer always
// runs on Oval(8, 6, 2).
func Oval(cols, rows, corridorCells int) Track {
	if corridorCells < 1 {
		corridorCells = 1
	}
	cfg := config.Cfg().Sim
	outerW := float64(cols) * cfg.GridSize
	outerH := float64(rows) * cfg.GridSize
	inset := float64(corridorCells) * cfg.GridSize

	wallThickness := cfg.GridSize * cfg.WallInsert

	wall := func(x0, y0, x1, y1 float64) vector.Rectangle {
		return vector.NewRectangle(
			vector.New(x0, y0), vector.New(x1, y0),
			vector.New(x1, y1), vector.New(x0, y1),
		)
	}

	walls := []vector.Rectangle{
		// outer ring (thin strips just inside the bounding box)
		wall(0, 0, outerW, wallThickness),
		wall(0, outerH-wallThickness, outerW, outerH),
		wall(0, 0, wallThickness, outerH),
		wall(outerW-wallThickness, 0, outerW, outerH),
		// inner island
		wall(inset, inset, outerW-inset, inset+wallThickness),
		wall(inset, outerH-inset-wallThickness, outerW-inset, outerH-inset),
		wall(inset, inset, inset+wallThickness, outerH-inset),
		wall(outerW-inset-wallThickness, inset, outerW-inset, outerH-inset),
	}

	midInset := inset / 2
	corners := []vector.Vector2{
		vector.New(midInset, midInset),
		vector.New(outerW-midInset, midInset),
		vector.New(outerW-midInset, outerH-midInset),
		vector.New(midInset, outerH-midInset),
	}

	var checkpoints []vector.Vector2
	const perEdge = 3
	for i := 0; i < len(corners); i++ {
		a, b := corners[i], corners[(i+1)%len(corners)]
		for step := 0; step < perEdge; step++ {
			t := float64(step) / float64(perEdge)
			checkpoints = append(checkpoints, vector.Vector2{
				X: a.X + (b.X-a.X)*t,
				Y: a.Y + (b.Y-a.Y)*t,
			})
		}
	}

	start := checkpoints[0]
	return New(start, walls, checkpoints[1:])
}
