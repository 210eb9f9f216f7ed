package main

import (
	"github.com/Ko-stant/battlemap/internal/entity"
	"github.com/Ko-stant/battlemap/internal/geometry"
	"github.com/Ko-stant/battlemap/internal/protocol"
	"github.com/Ko-stant/battlemap/internal/session"
	"github.com/Ko-stant/battlemap/internal/visibility"
)

var edgeBits = [...]struct {
	dir geometry.Direction
	bit byte
}{
	{geometry.North, protocol.EdgeNorth},
	{geometry.South, protocol.EdgeSouth},
	{geometry.East, protocol.EdgeEast},
	{geometry.West, protocol.EdgeWest},
}

func bitsetLen(width, height int) int {
	return (width*height + 7) / 8
}

func packWalkable(w *geometry.World) []byte {
	width, height := w.Width(), w.Height()
	out := make([]byte, bitsetLen(width, height))
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			if w.Walkable(x, y) {
				i := y*width + x
				out[i/8] |= 1 << (i % 8)
			}
		}
	}
	return out
}

func packEdges(w *geometry.World) []byte {
	width, height := w.Width(), w.Height()
	out := make([]byte, width*height)
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			t := w.TileAt(x, y)
			if t == nil {
				continue
			}
			for _, e := range edgeBits {
				if t.BlocksEdge(e.dir) {
					out[y*width+x] |= e.bit
				}
			}
		}
	}
	return out
}

// packMask samples m over width x height so masks lagging a layout change
// still line up with the current map.
func packMask(m *visibility.Mask, width, height int) []byte {
	out := make([]byte, bitsetLen(width, height))
	if m == nil {
		return out
	}
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			if m.Get(x, y) {
				i := y*width + x
				out[i/8] |= 1 << (i % 8)
			}
		}
	}
	return out
}

func entityLite(e *entity.Entity) protocol.EntityLite {
	lite := protocol.EntityLite{
		ID:      e.ID,
		Name:    e.Name,
		Tile:    e.Position(),
		Pending: e.Pending(),
	}
	if e.Vision != nil {
		r := e.Vision.Radius
		lite.VisionRadius = &r
		lite.VisionMode = e.Vision.Mode
	}
	return lite
}

func segmentsLite(w *geometry.World) []protocol.SegmentLite {
	segs := w.Segments()
	out := make([]protocol.SegmentLite, 0, len(segs))
	for _, s := range segs {
		out = append(out, protocol.SegmentLite{
			Name:    s.Name,
			AssetID: s.AssetID,
			X:       s.OffsetX,
			Y:       s.OffsetY,
			Width:   s.Width(),
			Height:  s.Height(),
			Active:  s.Active,
		})
	}
	return out
}

// buildSnapshot renders the session for one view. The operator view adds
// segment outlines, the region overlay and observer polygons.
func buildSnapshot(s *session.Session, view, sceneName string, frame visibility.Frame) protocol.Snapshot {
	w := s.World()
	width, height := w.Width(), w.Height()
	state := s.State()

	entities := make([]protocol.EntityLite, 0, s.Roster().Len())
	for _, e := range s.Roster().All() {
		entities = append(entities, entityLite(e))
	}

	snap := protocol.Snapshot{
		View:            view,
		Tick:            s.Ticks(),
		Scene:           sceneName,
		MapWidth:        width,
		MapHeight:       height,
		Walkable:        packWalkable(w),
		Edges:           packEdges(w),
		Explored:        packMask(s.Engine().Explored(), width, height),
		Visible:         packMask(frame.Visible, width, height),
		Entities:        entities,
		Selected:        state.Selected,
		EditorMode:      state.EditorMode,
		ProtocolVersion: protocol.ProtocolVersion,
	}
	if view == protocol.ViewOperator {
		regions := geometry.BuildRegionMap(w)
		snap.Segments = segmentsLite(w)
		snap.Regions = &regions
		snap.Polygons = frame.Polygons
	}
	return snap
}

func buildFrameUpdate(s *session.Session, frame visibility.Frame, withPolygons bool) protocol.FrameUpdated {
	w := s.World()
	width, height := w.Width(), w.Height()

	entities := make([]protocol.EntityUpdated, 0, s.Roster().Len())
	for _, e := range s.Roster().All() {
		entities = append(entities, protocol.EntityUpdated{ID: e.ID, Tile: e.Position()})
	}

	update := protocol.FrameUpdated{
		Tick:     s.Ticks(),
		Entities: entities,
		Visible:  packMask(frame.Visible, width, height),
		Explored: packMask(frame.Explored, width, height),
	}
	if withPolygons {
		update.Polygons = frame.Polygons
	}
	return update
}
