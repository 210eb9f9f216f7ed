package visibility

import (
	"time"

	"github.com/sirupsen/logrus"

	"github.com/Ko-stant/battlemap/internal/geometry"
	"github.com/Ko-stant/battlemap/internal/logging"
)

const (
	DefaultRayStepDegrees = 2.0
	DefaultSubpixels      = 8
)

// Observer is one vision-bearing viewpoint for a frame.
type Observer struct {
	ID     string
	X      int
	Y      int
	Radius float64
	Mode   Mode
}

type Config struct {
	RayStepDegrees float64
	Subpixels      int
}

// Frame is the result of one visibility pass. Visible is transient and
// recomputed every pass; Explored is a snapshot of persistent memory.
type Frame struct {
	Visible  *Mask
	Explored *Mask
	Polygons []Polygon
}

// Engine owns explored memory for one world. It is not safe for concurrent
// use; callers serialise passes.
type Engine struct {
	world    *geometry.World
	cfg      Config
	explored *Mask
	log      logrus.FieldLogger
}

func NewEngine(world *geometry.World, cfg Config, log logrus.FieldLogger) *Engine {
	if cfg.RayStepDegrees <= 0 {
		cfg.RayStepDegrees = DefaultRayStepDegrees
	}
	if cfg.Subpixels <= 0 {
		cfg.Subpixels = DefaultSubpixels
	}
	return &Engine{
		world:    world,
		cfg:      cfg,
		explored: NewMask(world.Width(), world.Height()),
		log:      logging.OrDiscard(log).WithField("component", "visibility"),
	}
}

// Compute returns the visibility polygon of one observer and the tiles it
// covers, without touching explored memory.
func (e *Engine) Compute(o Observer) (Polygon, *Mask) {
	poly := Cast(e.world, o, e.cfg.RayStepDegrees)
	visible := NewMask(e.world.Width(), e.world.Height())
	e.reveal(o, poly, visible)
	return poly, visible
}

func (e *Engine) reveal(o Observer, poly Polygon, into *Mask) {
	if poly.Degenerate() {
		return
	}
	rasterize(poly, e.cfg.Subpixels, into)
	into.Set(o.X, o.Y)
}

// Update recomputes current visibility as the union over observers and
// merges it into explored memory.
func (e *Engine) Update(observers []Observer) Frame {
	start := time.Now()
	e.fitExtent()
	visible := NewMask(e.explored.Width, e.explored.Height)
	polys := make([]Polygon, 0, len(observers))
	for _, o := range observers {
		poly := Cast(e.world, o, e.cfg.RayStepDegrees)
		e.reveal(o, poly, visible)
		polys = append(polys, poly)
	}
	e.explored.Union(visible)

	e.log.WithFields(logrus.Fields{
		"observers": len(observers),
		"visible":   visible.Count(),
		"elapsed":   time.Since(start),
	}).Debug("visibility pass")

	return Frame{Visible: visible, Explored: e.explored.Clone(), Polygons: polys}
}

// Explored returns a copy of explored memory.
func (e *Engine) Explored() *Mask {
	return e.explored.Clone()
}

// fitExtent grows explored memory when segments are toggled or moved. It
// never shrinks, so cells of a segment switched off stay explored for when it
// comes back.
func (e *Engine) fitExtent() {
	w := max(e.world.Width(), e.explored.Width)
	h := max(e.world.Height(), e.explored.Height)
	if w == e.explored.Width && h == e.explored.Height {
		return
	}
	grown := NewMask(w, h)
	grown.Union(e.explored)
	e.explored = grown
}

// Resize discards explored memory and sizes it to the current world extent.
func (e *Engine) Resize() {
	e.explored = NewMask(e.world.Width(), e.world.Height())
	e.log.WithFields(logrus.Fields{
		"width":  e.explored.Width,
		"height": e.explored.Height,
	}).Info("explored memory reset")
}
