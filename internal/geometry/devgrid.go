package geometry

// CorridorsAndRooms builds a walkable grid of four rooms separated by a
// ring corridor and a cross of corridors. Room/corridor boundaries are
// walled, with one door per room onto the central horizontal corridor. The
// host falls back to it when no segment assets are configured.
func CorridorsAndRooms(width, height int) (*Grid, error) {
	g, err := NewOpenGrid(width, height)
	if err != nil {
		return nil, err
	}

	v1 := width/2 - 1
	v2 := width / 2
	h := height / 2
	isCorr := func(x, y int) bool {
		if x == 0 || y == 0 || x == width-1 || y == height-1 {
			return true
		}
		if x == v1 || x == v2 {
			return true
		}
		return y == h
	}

	for y := 0; y < height; y++ {
		for x := 0; x < width-1; x++ {
			if isCorr(x, y) != isCorr(x+1, y) {
				g.SetWall(EdgeAddress{X: x, Y: y, Orientation: Vertical})
			}
		}
	}

	mid := func(a, b int) int { return (a + b) / 2 }
	left := mid(1, v1-1)
	right := mid(v2, width-2)
	doors := map[EdgeAddress]bool{
		{X: left, Y: h - 1, Orientation: Horizontal}:  true,
		{X: right, Y: h - 1, Orientation: Horizontal}: true,
		{X: left, Y: h, Orientation: Horizontal}:      true,
		{X: right, Y: h, Orientation: Horizontal}:     true,
	}

	for y := 0; y < height-1; y++ {
		for x := 0; x < width; x++ {
			if isCorr(x, y) == isCorr(x, y+1) {
				continue
			}
			edge := EdgeAddress{X: x, Y: y, Orientation: Horizontal}
			if !doors[edge] {
				g.SetWall(edge)
			}
		}
	}
	return g, nil
}
