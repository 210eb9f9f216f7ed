package visibility

import "github.com/Ko-stant/battlemap/internal/geometry"

// Mask is a tile-resolution boolean layer over [0,Width) x [0,Height).
// Coordinates outside the mask read false and ignore writes.
type Mask struct {
	Width  int
	Height int
	cells  []bool
}

func NewMask(width, height int) *Mask {
	width, height = max(width, 0), max(height, 0)
	return &Mask{Width: width, Height: height, cells: make([]bool, width*height)}
}

func (m *Mask) inBounds(x, y int) bool {
	return x >= 0 && y >= 0 && x < m.Width && y < m.Height
}

func (m *Mask) Get(x, y int) bool {
	if !m.inBounds(x, y) {
		return false
	}
	return m.cells[y*m.Width+x]
}

func (m *Mask) Set(x, y int) {
	if m.inBounds(x, y) {
		m.cells[y*m.Width+x] = true
	}
}

// Union sets every cell that is set in o. The masks may differ in size;
// cells of o outside m are dropped.
func (m *Mask) Union(o *Mask) {
	for y := range min(m.Height, o.Height) {
		for x := range min(m.Width, o.Width) {
			if o.cells[y*o.Width+x] {
				m.cells[y*m.Width+x] = true
			}
		}
	}
}

func (m *Mask) Count() int {
	n := 0
	for _, c := range m.cells {
		if c {
			n++
		}
	}
	return n
}

func (m *Mask) Clone() *Mask {
	c := &Mask{Width: m.Width, Height: m.Height, cells: make([]bool, len(m.cells))}
	copy(c.cells, m.cells)
	return c
}

// Tiles lists the set cells in row-major order.
func (m *Mask) Tiles() []geometry.Point {
	var out []geometry.Point
	for i, c := range m.cells {
		if c {
			out = append(out, geometry.Point{X: i % m.Width, Y: i / m.Width})
		}
	}
	return out
}

// Bytes packs the mask row-major, least significant bit first.
func (m *Mask) Bytes() []byte {
	out := make([]byte, (len(m.cells)+7)/8)
	for i, c := range m.cells {
		if c {
			out[i/8] |= 1 << (i % 8)
		}
	}
	return out
}
