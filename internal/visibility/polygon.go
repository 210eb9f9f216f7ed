package visibility

import "math"

type Vertex struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Polygon is the closed fan of ray terminal points around an observer's
// origin, in world tile units. A polygon with no points is degenerate.
type Polygon struct {
	ObserverID string   `json:"observerId"`
	Origin     Vertex   `json:"origin"`
	Points     []Vertex `json:"points"`
}

func (p Polygon) Degenerate() bool {
	return len(p.Points) < 3
}

// Contains tests a point with the even-odd crossing rule.
func (p Polygon) Contains(x, y float64) bool {
	inside := false
	j := len(p.Points) - 1
	for i := 0; i < len(p.Points); i++ {
		xi, yi := p.Points[i].X, p.Points[i].Y
		xj, yj := p.Points[j].X, p.Points[j].Y
		if ((yi > y) != (yj > y)) && (x < (xj-xi)*(y-yi)/(yj-yi)+xi) {
			inside = !inside
		}
		j = i
	}
	return inside
}

// Bounds returns the smallest tile rectangle covering the polygon as
// [x0,x1) x [y0,y1).
func (p Polygon) Bounds() (x0, y0, x1, y1 int) {
	if len(p.Points) == 0 {
		return 0, 0, 0, 0
	}
	minX, minY := math.Inf(1), math.Inf(1)
	maxX, maxY := math.Inf(-1), math.Inf(-1)
	for _, v := range p.Points {
		minX, maxX = math.Min(minX, v.X), math.Max(maxX, v.X)
		minY, maxY = math.Min(minY, v.Y), math.Max(maxY, v.Y)
	}
	return int(math.Floor(minX)), int(math.Floor(minY)), int(math.Floor(maxX)) + 1, int(math.Floor(maxY)) + 1
}

// MaxDistance is the furthest any vertex lies from the origin.
func (p Polygon) MaxDistance() float64 {
	d := 0.0
	for _, v := range p.Points {
		d = math.Max(d, math.Hypot(v.X-p.Origin.X, v.Y-p.Origin.Y))
	}
	return d
}
