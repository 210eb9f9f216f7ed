package layout

import "github.com/Ko-stant/battlemap/internal/geometry"

// Drag is an in-progress move of one segment. GrabX/GrabY is the pointer's
// tile offset inside the segment when it was picked up.
type Drag struct {
	Segment *geometry.Segment
	GrabX   int
	GrabY   int
}

func (d Drag) Active() bool {
	return d.Segment != nil
}

// Grab starts a drag on the first segment under (x,y).
func (e *Editor) Grab(x, y int) (Drag, bool) {
	seg := e.SegmentAt(x, y)
	if seg == nil {
		return Drag{}, false
	}
	return Drag{Segment: seg, GrabX: x - seg.OffsetX, GrabY: y - seg.OffsetY}, true
}

// DragTo moves the grabbed segment so the grab point sits under (x,y), then
// snaps it.
func (e *Editor) DragTo(d Drag, x, y int) {
	if !d.Active() {
		return
	}
	e.SetOffset(d.Segment, x-d.GrabX, y-d.GrabY)
	e.Snap(d.Segment)
}

// Release ends the drag and reports any overlap it left behind.
func (e *Editor) Release(d Drag) Drag {
	if d.Active() {
		e.world.ReportOverlaps()
	}
	return Drag{}
}
