package geometry

type Orientation string

const (
	Vertical   Orientation = "vertical"
	Horizontal Orientation = "horizontal"
)

// EdgeAddress names a tile boundary. A vertical edge at (x,y) separates
// (x,y) from (x+1,y); a horizontal edge at (x,y) separates (x,y) from (x,y+1).
type EdgeAddress struct {
	X           int         `json:"x"`
	Y           int         `json:"y"`
	Orientation Orientation `json:"orientation"`
}

// Sides returns the two tiles sharing the edge and the side each one owns.
func (e EdgeAddress) Sides() (ax, ay int, aSide Direction, bx, by int, bSide Direction) {
	if e.Orientation == Vertical {
		return e.X, e.Y, East, e.X + 1, e.Y, West
	}
	return e.X, e.Y, South, e.X, e.Y + 1, North
}

type Direction int

const (
	North Direction = iota
	South
	East
	West
)

var directionNames = [...]string{"N", "S", "E", "W"}

func (d Direction) String() string {
	if d < North || d > West {
		return "?"
	}
	return directionNames[d]
}

// Opposite returns the side a neighbour uses for the same boundary.
func (d Direction) Opposite() Direction {
	switch d {
	case North:
		return South
	case South:
		return North
	case East:
		return West
	default:
		return East
	}
}

// Delta returns the unit step for the direction.
func (d Direction) Delta() (int, int) {
	switch d {
	case North:
		return 0, -1
	case South:
		return 0, 1
	case East:
		return 1, 0
	default:
		return -1, 0
	}
}

// DirectionOf maps a cardinal unit delta to its direction.
func DirectionOf(dx, dy int) (Direction, bool) {
	switch {
	case dx == 1 && dy == 0:
		return East, true
	case dx == -1 && dy == 0:
		return West, true
	case dx == 0 && dy == 1:
		return South, true
	case dx == 0 && dy == -1:
		return North, true
	}
	return 0, false
}

var Cardinals = [4]Direction{West, East, North, South}

type Point struct {
	X int `json:"x"`
	Y int `json:"y"`
}

// Rect is a half-open tile rectangle [X, X+W) x [Y, Y+H).
type Rect struct {
	X int `json:"x"`
	Y int `json:"y"`
	W int `json:"w"`
	H int `json:"h"`
}

func (r Rect) Contains(x, y int) bool {
	return x >= r.X && x < r.X+r.W && y >= r.Y && y < r.Y+r.H
}

func (r Rect) Overlaps(o Rect) bool {
	return r.X < o.X+o.W && o.X < r.X+r.W && r.Y < o.Y+o.H && o.Y < r.Y+r.H
}

func (r Rect) Intersect(o Rect) Rect {
	x0, y0 := max(r.X, o.X), max(r.Y, o.Y)
	x1, y1 := min(r.X+r.W, o.X+o.W), min(r.Y+r.H, o.Y+o.H)
	if x1 <= x0 || y1 <= y0 {
		return Rect{}
	}
	return Rect{X: x0, Y: y0, W: x1 - x0, H: y1 - y0}
}

func (r Rect) Empty() bool {
	return r.W <= 0 || r.H <= 0
}
