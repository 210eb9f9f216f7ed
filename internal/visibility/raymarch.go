package visibility

import (
	"math"

	"github.com/Ko-stant/battlemap/internal/geometry"
)

const (
	// contactEpsilon keeps terminal points just short of the boundary that
	// stopped the ray.
	contactEpsilon = 0.01
	// cornerTolerance decides when both boundaries are crossed at once.
	cornerTolerance = 1e-9
)

// march walks one ray from (ox,oy) along the unit vector (dirX,dirY) and
// returns the distance at which it stops.
func march(world *geometry.World, ox, oy, dirX, dirY, radius float64, mode Mode) float64 {
	xCell := int(math.Floor(ox))
	yCell := int(math.Floor(oy))

	stepX, stepY := 0, 0
	if dirX > 0 {
		stepX = 1
	} else if dirX < 0 {
		stepX = -1
	}
	if dirY > 0 {
		stepY = 1
	} else if dirY < 0 {
		stepY = -1
	}

	tDeltaX, tDeltaY := math.Inf(1), math.Inf(1)
	tMaxX, tMaxY := math.Inf(1), math.Inf(1)
	if stepX != 0 {
		tDeltaX = 1.0 / math.Abs(dirX)
		if stepX > 0 {
			tMaxX = (float64(xCell+1) - ox) * tDeltaX
		} else {
			tMaxX = (ox - float64(xCell)) * tDeltaX
		}
	}
	if stepY != 0 {
		tDeltaY = 1.0 / math.Abs(dirY)
		if stepY > 0 {
			tMaxY = (float64(yCell+1) - oy) * tDeltaY
		} else {
			tMaxY = (oy - float64(yCell)) * tDeltaY
		}
	}

	dirH, _ := geometry.DirectionOf(stepX, 0)
	dirV, _ := geometry.DirectionOf(0, stepY)

	for range 2048 {
		next := math.Min(tMaxX, tMaxY)
		if next >= radius {
			return radius
		}

		switch {
		case math.Abs(tMaxX-tMaxY) < cornerTolerance:
			if cornerBlocked(world, xCell, yCell, stepX, stepY, dirH, dirV, mode) {
				return next
			}
			xCell += stepX
			yCell += stepY
			tMaxX += tDeltaX
			tMaxY += tDeltaY
		case tMaxX < tMaxY:
			if !world.EdgeOpen(xCell, yCell, dirH) || stopsAt(world, xCell+stepX, yCell, mode) {
				return next
			}
			xCell += stepX
			tMaxX += tDeltaX
		default:
			if !world.EdgeOpen(xCell, yCell, dirV) || stopsAt(world, xCell, yCell+stepY, mode) {
				return next
			}
			yCell += stepY
			tMaxY += tDeltaY
		}
	}
	return math.Min(tMaxX, tMaxY)
}

// stopsAt reports whether a ray may not enter (x,y): unresolved tiles stop
// every mode, non-walkable tiles stop Normal sight.
func stopsAt(world *geometry.World, x, y int, mode Mode) bool {
	t := world.TileAt(x, y)
	if t == nil {
		return true
	}
	return !t.Walkable && !mode.SeesThroughSolid()
}

// cornerBlocked applies the corner policy for a ray passing exactly through a
// tile corner. The four half-edges meeting at the corner are
//
//	a: origin|side   b: origin|below   c: side|diagonal   d: below|diagonal
//
// and the corner is closed when two of them form a continuous line that
// separates the origin from the diagonal tile.
func cornerBlocked(world *geometry.World, x, y, stepX, stepY int, dirH, dirV geometry.Direction, mode Mode) bool {
	sideX, belowY := x+stepX, y+stepY
	a := !world.EdgeOpen(x, y, dirH)
	b := !world.EdgeOpen(x, y, dirV)
	c := !world.EdgeOpen(sideX, y, dirV)
	d := !world.EdgeOpen(x, belowY, dirH)
	if (a && b) || (c && d) || (a && d) || (b && c) {
		return true
	}
	return stopsAt(world, sideX, belowY, mode)
}

// Cast fires the ray fan for one observer. An observer whose tile does not
// resolve yields a degenerate polygon.
func Cast(world *geometry.World, o Observer, stepDegrees float64) Polygon {
	origin := Vertex{X: float64(o.X) + 0.5, Y: float64(o.Y) + 0.5}
	poly := Polygon{ObserverID: o.ID, Origin: origin}
	if world.TileAt(o.X, o.Y) == nil || o.Radius <= 0 {
		return poly
	}
	if stepDegrees <= 0 {
		stepDegrees = DefaultRayStepDegrees
	}

	rays := int(math.Ceil(360 / stepDegrees))
	poly.Points = make([]Vertex, 0, rays)
	for i := range rays {
		angle := float64(i) * stepDegrees * math.Pi / 180
		dirX, dirY := math.Cos(angle), math.Sin(angle)
		t := math.Max(march(world, origin.X, origin.Y, dirX, dirY, o.Radius, o.Mode)-contactEpsilon, 0)
		poly.Points = append(poly.Points, Vertex{X: origin.X + dirX*t, Y: origin.Y + dirY*t})
	}
	return poly
}
