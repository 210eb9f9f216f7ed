package geometry

// EdgeOpen reports whether the boundary on side d of (x,y) is passable.
// Either tile claiming the edge closes it; a missing neighbour claims nothing.
func (w *World) EdgeOpen(x, y int, d Direction) bool {
	if t := w.TileAt(x, y); t != nil && t.BlocksEdge(d) {
		return false
	}
	dx, dy := d.Delta()
	if n := w.TileAt(x+dx, y+dy); n != nil && n.BlocksEdge(d.Opposite()) {
		return false
	}
	return true
}

// CanMove decides whether an entity may step from (x1,y1) to (x2,y2). Both
// tiles must resolve and the destination must be walkable. Cardinal unit
// steps also need the shared edge open on both sides. Any other delta,
// diagonals included, is allowed whenever the destination is walkable.
func (w *World) CanMove(x1, y1, x2, y2 int) bool {
	from := w.TileAt(x1, y1)
	to := w.TileAt(x2, y2)
	if from == nil || to == nil {
		return false
	}
	if !to.Walkable {
		return false
	}

	d, cardinal := DirectionOf(x2-x1, y2-y1)
	if !cardinal {
		return true
	}
	return !from.BlocksEdge(d) && !to.BlocksEdge(d.Opposite())
}
