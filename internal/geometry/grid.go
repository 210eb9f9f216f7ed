package geometry

import "fmt"

// Tile is one grid cell. Edge flags belong to the tile that declares them;
// a shared boundary is closed when either side marks it.
type Tile struct {
	Walkable bool
	Blocked  [4]bool
}

func (t *Tile) BlocksEdge(d Direction) bool {
	return t.Blocked[d]
}

func (t *Tile) SetEdge(d Direction, blocked bool) {
	t.Blocked[d] = blocked
}

// Grid is a fixed width x height block of tiles stored row-major.
type Grid struct {
	Width  int
	Height int
	tiles  []Tile
}

// NewGrid returns a grid of non-walkable tiles with every edge open.
func NewGrid(width, height int) (*Grid, error) {
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("invalid grid dimensions: %dx%d", width, height)
	}
	return &Grid{Width: width, Height: height, tiles: make([]Tile, width*height)}, nil
}

// NewOpenGrid returns a grid where every tile is walkable.
func NewOpenGrid(width, height int) (*Grid, error) {
	g, err := NewGrid(width, height)
	if err != nil {
		return nil, err
	}
	for i := range g.tiles {
		g.tiles[i].Walkable = true
	}
	return g, nil
}

func (g *Grid) InBounds(x, y int) bool {
	return x >= 0 && y >= 0 && x < g.Width && y < g.Height
}

// Tile returns the tile at local coordinates, or nil outside the grid.
func (g *Grid) Tile(x, y int) *Tile {
	if !g.InBounds(x, y) {
		return nil
	}
	return &g.tiles[y*g.Width+x]
}

// SetWall closes the boundary described by edge on both owning tiles that
// fall inside the grid.
func (g *Grid) SetWall(edge EdgeAddress) {
	ax, ay, aSide, bx, by, bSide := edge.Sides()
	if t := g.Tile(ax, ay); t != nil {
		t.SetEdge(aSide, true)
	}
	if t := g.Tile(bx, by); t != nil {
		t.SetEdge(bSide, true)
	}
}
