package pathing

import "github.com/Ko-stant/battlemap/internal/geometry"

const DefaultMaxSteps = 500

// Step is one cardinal unit move.
type Step struct {
	DX int `json:"dx"`
	DY int `json:"dy"`
}

// PlanPath walks greedily from `from` towards `to`, each step reducing the
// axis with the larger remaining distance (x on ties). It is not a path
// search: planning stops at the first step CanMove rejects, or after
// maxSteps, and the partial queue is returned. An unresolved or unwalkable
// target yields no steps.
func PlanPath(world *geometry.World, from, to geometry.Point, maxSteps int) []Step {
	if !world.Walkable(to.X, to.Y) {
		return nil
	}
	if maxSteps <= 0 {
		maxSteps = DefaultMaxSteps
	}

	var steps []Step
	cx, cy := from.X, from.Y
	for range maxSteps {
		dx, dy := to.X-cx, to.Y-cy
		if dx == 0 && dy == 0 {
			break
		}

		var s Step
		if abs(dx) >= abs(dy) {
			s.DX = sign(dx)
		} else {
			s.DY = sign(dy)
		}
		if !world.CanMove(cx, cy, cx+s.DX, cy+s.DY) {
			break
		}
		steps = append(steps, s)
		cx += s.DX
		cy += s.DY
	}
	return steps
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}

func sign(v int) int {
	switch {
	case v > 0:
		return 1
	case v < 0:
		return -1
	}
	return 0
}
