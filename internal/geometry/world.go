package geometry

import (
	"github.com/sirupsen/logrus"

	"github.com/Ko-stant/battlemap/internal/logging"
)

// World is the composite map: an insertion-ordered list of segments. A world
// coordinate resolves to the first active segment covering it.
type World struct {
	segments []*Segment
	log      logrus.FieldLogger
}

// Overlap reports two active segments whose footprints intersect. Resolution
// inside Area goes to A, the earlier segment.
type Overlap struct {
	A    *Segment
	B    *Segment
	Area Rect
}

func NewWorld(log logrus.FieldLogger, segments ...*Segment) *World {
	w := &World{log: logging.OrDiscard(log).WithField("component", "world")}
	w.segments = append(w.segments, segments...)
	return w
}

// Add appends a segment and reports any overlap it introduces.
func (w *World) Add(seg *Segment) {
	w.segments = append(w.segments, seg)
	w.ReportOverlaps()
}

// Segments returns the live segment list in resolution order.
func (w *World) Segments() []*Segment {
	return w.segments
}

// TileAt returns the tile of the first active segment covering (x,y), or nil.
func (w *World) TileAt(x, y int) *Tile {
	for _, seg := range w.segments {
		if !seg.Active {
			continue
		}
		if t := seg.TileAt(x, y); t != nil {
			return t
		}
	}
	return nil
}

func (w *World) InBounds(x, y int) bool {
	return w.TileAt(x, y) != nil
}

// Walkable reports whether (x,y) resolves to a walkable tile.
func (w *World) Walkable(x, y int) bool {
	t := w.TileAt(x, y)
	return t != nil && t.Walkable
}

// Width is the furthest right edge over active segments, 0 when none are active.
func (w *World) Width() int {
	width := 0
	for _, seg := range w.segments {
		if seg.Active {
			width = max(width, seg.OffsetX+seg.Width())
		}
	}
	return width
}

// Height is the furthest bottom edge over active segments, 0 when none are active.
func (w *World) Height() int {
	height := 0
	for _, seg := range w.segments {
		if seg.Active {
			height = max(height, seg.OffsetY+seg.Height())
		}
	}
	return height
}

func (w *World) Extent() Rect {
	return Rect{W: w.Width(), H: w.Height()}
}

// Overlaps lists every intersecting pair of active segments in resolution order.
func (w *World) Overlaps() []Overlap {
	var out []Overlap
	for i, a := range w.segments {
		if !a.Active {
			continue
		}
		for _, b := range w.segments[i+1:] {
			if !b.Active {
				continue
			}
			if area := a.Bounds().Intersect(b.Bounds()); !area.Empty() {
				out = append(out, Overlap{A: a, B: b, Area: area})
			}
		}
	}
	return out
}

// ReportOverlaps logs each overlap and returns them. Overlap is advisory:
// nothing is rejected and first-match resolution is kept.
func (w *World) ReportOverlaps() []Overlap {
	overlaps := w.Overlaps()
	for _, o := range overlaps {
		w.log.WithFields(logrus.Fields{
			"first":  o.A.Name,
			"second": o.B.Name,
			"area":   o.Area,
		}).Warn("overlapping active segments; first segment wins inside the overlap")
	}
	return overlaps
}

// ListSegments returns the persisted placement of every segment.
func (w *World) ListSegments() []Placement {
	out := make([]Placement, 0, len(w.segments))
	for _, seg := range w.segments {
		out = append(out, seg.Placement())
	}
	return out
}

// ApplyLayout writes placements onto segments with a matching asset ID.
// Unknown asset IDs are skipped and unmentioned segments keep their placement.
// Negative offsets are clamped to zero.
// It returns how many segments were updated.
func (w *World) ApplyLayout(layout []Placement) int {
	applied := 0
	for _, p := range layout {
		matched := false
		for _, seg := range w.segments {
			if seg.AssetID != p.AssetID {
				continue
			}
			seg.OffsetX = max(p.OffsetX, 0)
			seg.OffsetY = max(p.OffsetY, 0)
			seg.Active = p.Active
			matched = true
			applied++
		}
		if !matched {
			w.log.WithField("asset", p.AssetID).Debug("layout names an unknown asset; skipped")
		}
	}
	w.ReportOverlaps()
	return applied
}
