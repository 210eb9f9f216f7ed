package layout

import (
	"github.com/sirupsen/logrus"

	"github.com/Ko-stant/battlemap/internal/geometry"
	"github.com/Ko-stant/battlemap/internal/logging"
)

const DefaultSnapTolerance = 1

// Editor places and toggles the segments of one world.
type Editor struct {
	world     *geometry.World
	tolerance int
	log       logrus.FieldLogger
}

func NewEditor(world *geometry.World, tolerance int, log logrus.FieldLogger) *Editor {
	if tolerance < 0 {
		tolerance = DefaultSnapTolerance
	}
	return &Editor{
		world:     world,
		tolerance: tolerance,
		log:       logging.OrDiscard(log).WithField("component", "layout"),
	}
}

func (e *Editor) Tolerance() int {
	return e.tolerance
}

// SetOffset places seg at (x,y), clamped to the non-negative quadrant that
// masks and snapshots cover.
func (e *Editor) SetOffset(seg *geometry.Segment, x, y int) {
	seg.OffsetX = max(x, 0)
	seg.OffsetY = max(y, 0)
}

// ToggleActive flips the segment and returns its new state.
func (e *Editor) ToggleActive(seg *geometry.Segment) bool {
	seg.Active = !seg.Active
	e.log.WithFields(logrus.Fields{
		"segment": seg.Name,
		"active":  seg.Active,
	}).Info("segment toggled")
	e.world.ReportOverlaps()
	return seg.Active
}

// SegmentAt returns the first segment, active or not, whose footprint
// contains (x,y).
func (e *Editor) SegmentAt(x, y int) *geometry.Segment {
	for _, seg := range e.world.Segments() {
		if seg.Contains(x, y) {
			return seg
		}
	}
	return nil
}

// Snap aligns seg against every other active segment of the world.
func (e *Editor) Snap(seg *geometry.Segment) bool {
	fromX, fromY := seg.OffsetX, seg.OffsetY
	Snap(seg, e.world.Segments(), e.tolerance)
	e.SetOffset(seg, seg.OffsetX, seg.OffsetY)
	moved := seg.OffsetX != fromX || seg.OffsetY != fromY
	if moved {
		e.log.WithFields(logrus.Fields{
			"segment": seg.Name,
			"from":    geometry.Point{X: fromX, Y: fromY},
			"to":      geometry.Point{X: seg.OffsetX, Y: seg.OffsetY},
		}).Debug("segment snapped")
	}
	return moved
}

// Snap moves seg so that any edge lying within tolerance of the opposing edge
// of another active segment abuts it exactly. Spans on the perpendicular axis
// must overlap within tolerance. For each other segment the checks run
// N-to-S, S-to-N, W-to-E, E-to-W and a later match overrides an earlier one.
// It reports whether the offset changed.
func Snap(seg *geometry.Segment, others []*geometry.Segment, tolerance int) bool {
	fromX, fromY := seg.OffsetX, seg.OffsetY
	for _, o := range others {
		if o == seg || !o.Active {
			continue
		}
		b := o.Bounds()

		if a := seg.Bounds(); alignedX(a, b, tolerance) && abs(a.Y-(b.Y+b.H)) <= tolerance {
			seg.OffsetY = b.Y + b.H
		}
		if a := seg.Bounds(); alignedX(a, b, tolerance) && abs(a.Y+a.H-b.Y) <= tolerance {
			seg.OffsetY = b.Y - a.H
		}
		if a := seg.Bounds(); alignedY(a, b, tolerance) && abs(a.X-(b.X+b.W)) <= tolerance {
			seg.OffsetX = b.X + b.W
		}
		if a := seg.Bounds(); alignedY(a, b, tolerance) && abs(a.X+a.W-b.X) <= tolerance {
			seg.OffsetX = b.X - a.W
		}
	}
	return seg.OffsetX != fromX || seg.OffsetY != fromY
}

// alignedX reports whether the horizontal spans overlap or are separated by
// a gap of at most tolerance.
func alignedX(a, b geometry.Rect, tolerance int) bool {
	return a.X <= b.X+b.W+tolerance && b.X <= a.X+a.W+tolerance
}

func alignedY(a, b geometry.Rect, tolerance int) bool {
	return a.Y <= b.Y+b.H+tolerance && b.Y <= a.Y+a.H+tolerance
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
