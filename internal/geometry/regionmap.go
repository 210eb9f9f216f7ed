package geometry

// RegionMap labels every tile of the world extent with the connected walkable
// region it belongs to. Non-walkable and unresolved tiles carry -1.
type RegionMap struct {
	Width         int   `json:"width"`
	Height        int   `json:"height"`
	TileRegionIDs []int `json:"tileRegionIds"`
	RegionsCount  int   `json:"regionsCount"`
}

// RegionAt returns the region of (x,y), or -1 outside the map.
func (rm RegionMap) RegionAt(x, y int) int {
	if x < 0 || y < 0 || x >= rm.Width || y >= rm.Height {
		return -1
	}
	return rm.TileRegionIDs[y*rm.Width+x]
}

// Across returns the regions on either side of an edge.
func (rm RegionMap) Across(edge EdgeAddress) (int, int) {
	ax, ay, _, bx, by, _ := edge.Sides()
	return rm.RegionAt(ax, ay), rm.RegionAt(bx, by)
}

// BuildRegionMap flood-fills the world with the cardinal movement rules, so two
// tiles share a region exactly when a sequence of legal unit steps joins them.
func BuildRegionMap(world *World) RegionMap {
	w := world.Width()
	h := world.Height()
	total := w * h
	tileRegionIDs := make([]int, total)
	for i := range tileRegionIDs {
		tileRegionIDs[i] = -1
	}

	regionID := 0
	qx := make([]int, 0, total)
	qy := make([]int, 0, total)

	for y := range h {
		for x := range w {
			idx := y*w + x
			if tileRegionIDs[idx] != -1 || !world.Walkable(x, y) {
				continue
			}
			tileRegionIDs[idx] = regionID
			qx = append(qx[:0], x)
			qy = append(qy[:0], y)

			for len(qx) > 0 {
				cx, cy := qx[0], qy[0]
				qx, qy = qx[1:], qy[1:]

				for _, d := range Cardinals {
					dx, dy := d.Delta()
					nx, ny := cx+dx, cy+dy
					if nx < 0 || ny < 0 || nx >= w || ny >= h {
						continue
					}
					nidx := ny*w + nx
					if tileRegionIDs[nidx] != -1 || !world.CanMove(cx, cy, nx, ny) {
						continue
					}
					tileRegionIDs[nidx] = regionID
					qx = append(qx, nx)
					qy = append(qy, ny)
				}
			}
			regionID++
		}
	}

	return RegionMap{Width: w, Height: h, TileRegionIDs: tileRegionIDs, RegionsCount: regionID}
}
