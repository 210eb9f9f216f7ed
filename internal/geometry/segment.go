package geometry

// Segment is a named grid placed at an integer world offset. The asset ID is
// opaque to the core; the scene store uses it as the placement key.
type Segment struct {
	Name    string
	AssetID string
	OffsetX int
	OffsetY int
	Active  bool
	Grid    *Grid
}

func NewSegment(name, assetID string, grid *Grid, offsetX, offsetY int) *Segment {
	if name == "" {
		name = assetID
	}
	return &Segment{
		Name:    name,
		AssetID: assetID,
		OffsetX: offsetX,
		OffsetY: offsetY,
		Active:  true,
		Grid:    grid,
	}
}

func (s *Segment) Width() int  { return s.Grid.Width }
func (s *Segment) Height() int { return s.Grid.Height }

// Bounds is the segment's footprint in world tiles.
func (s *Segment) Bounds() Rect {
	return Rect{X: s.OffsetX, Y: s.OffsetY, W: s.Grid.Width, H: s.Grid.Height}
}

func (s *Segment) Contains(x, y int) bool {
	return s.Bounds().Contains(x, y)
}

// TileAt resolves a world coordinate against this segment alone.
func (s *Segment) TileAt(x, y int) *Tile {
	return s.Grid.Tile(x-s.OffsetX, y-s.OffsetY)
}

// Placement is the persisted part of a segment.
type Placement struct {
	AssetID string
	OffsetX int
	OffsetY int
	Active  bool
}

func (s *Segment) Placement() Placement {
	return Placement{AssetID: s.AssetID, OffsetX: s.OffsetX, OffsetY: s.OffsetY, Active: s.Active}
}
