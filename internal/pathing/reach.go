package pathing

import (
	"errors"
	"fmt"

	"github.com/zyedidia/generic/mapset"

	"github.com/Ko-stant/battlemap/internal/geometry"
)

var ErrNoWalkableTileFound = errors.New("no walkable tile found")

// Mover is anything with a tile position the repair can relocate.
type Mover interface {
	Position() geometry.Point
	SetPosition(geometry.Point)
}

// SearchRadius is the default repair bound for a start point: far enough to
// reach the whole world extent from wherever the start lies.
func SearchRadius(world *geometry.World, from geometry.Point) int {
	w, h := world.Width(), world.Height()
	outside := max(0, -from.X, from.X-w+1) + max(0, -from.Y, from.Y-h+1)
	return w + h + outside
}

// NearestWalkable runs a breadth-first search over 4-connected coordinates
// from start, out to Manhattan distance radius, and returns the first
// walkable tile found. A radius of 0 or less uses SearchRadius.
func NearestWalkable(world *geometry.World, start geometry.Point, radius int) (geometry.Point, error) {
	if radius <= 0 {
		radius = SearchRadius(world, start)
	}

	visited := mapset.New[geometry.Point]()
	visited.Put(start)
	queue := []geometry.Point{start}

	for len(queue) > 0 {
		current := queue[0]
		queue = queue[1:]

		if world.Walkable(current.X, current.Y) {
			return current, nil
		}

		for _, d := range geometry.Cardinals {
			dx, dy := d.Delta()
			next := geometry.Point{X: current.X + dx, Y: current.Y + dy}
			if visited.Has(next) || manhattan(start, next) > radius {
				continue
			}
			visited.Put(next)
			queue = append(queue, next)
		}
	}

	return start, fmt.Errorf("%w within %d tiles of (%d,%d)", ErrNoWalkableTileFound, radius, start.X, start.Y)
}

// EnsureWalkable moves m onto the nearest walkable tile when it stands on an
// unwalkable or unresolved one. It reports whether m was moved; on failure m
// stays where it is.
func EnsureWalkable(world *geometry.World, m Mover, radius int) (bool, error) {
	from := m.Position()
	if world.Walkable(from.X, from.Y) {
		return false, nil
	}
	to, err := NearestWalkable(world, from, radius)
	if err != nil {
		return false, err
	}
	m.SetPosition(to)
	return true, nil
}

func manhattan(a, b geometry.Point) int {
	return abs(a.X-b.X) + abs(a.Y-b.Y)
}
