package session

import (
	"errors"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/Ko-stant/battlemap/internal/entity"
	"github.com/Ko-stant/battlemap/internal/geometry"
	"github.com/Ko-stant/battlemap/internal/layout"
	"github.com/Ko-stant/battlemap/internal/logging"
	"github.com/Ko-stant/battlemap/internal/pathing"
	"github.com/Ko-stant/battlemap/internal/visibility"
)

// ObserverPolicy picks which vision-bearing entities drive the shared view.
type ObserverPolicy int

const (
	// AllObservers unions every vision-bearing entity.
	AllObservers ObserverPolicy = iota
	// SelectedObservers uses the selected entity and the turn entity.
	SelectedObservers
)

// State is the operator's selection and editor mode.
type State struct {
	Selected   int
	TurnEntity string
	EditorMode bool
	Drag       layout.Drag
}

type Config struct {
	RepairRadius int
	MaxSteps     int
	Policy       ObserverPolicy
}

// Session runs the per-tick control flow over one world. It is not safe for
// concurrent use; the host serialises every call.
type Session struct {
	world  *geometry.World
	roster *entity.Roster
	engine *visibility.Engine
	editor *layout.Editor
	cfg    Config
	state  State
	ticks  uint64
	log    logrus.FieldLogger
}

func New(world *geometry.World, roster *entity.Roster, engine *visibility.Engine, editor *layout.Editor, cfg Config, log logrus.FieldLogger) *Session {
	if cfg.MaxSteps <= 0 {
		cfg.MaxSteps = pathing.DefaultMaxSteps
	}
	return &Session{
		world:  world,
		roster: roster,
		engine: engine,
		editor: editor,
		cfg:    cfg,
		log:    logging.OrDiscard(log).WithField("component", "session"),
	}
}

func (s *Session) World() *geometry.World     { return s.world }
func (s *Session) Roster() *entity.Roster     { return s.roster }
func (s *Session) Engine() *visibility.Engine { return s.engine }
func (s *Session) State() State               { return s.state }
func (s *Session) Ticks() uint64              { return s.ticks }

// Tick applies one queued step per entity, repairs positions, then
// recomputes visibility. Repair failures are joined into the returned error;
// the affected entities stay put and the frame is still produced.
func (s *Session) Tick() (visibility.Frame, error) {
	start := time.Now()
	s.ticks++

	for _, e := range s.roster.All() {
		step, ok := e.PopStep()
		if !ok {
			continue
		}
		from := e.Position()
		to := geometry.Point{X: from.X + step.DX, Y: from.Y + step.DY}
		if s.world.CanMove(from.X, from.Y, to.X, to.Y) {
			e.SetPosition(to)
		}
	}

	var errs []error
	for _, e := range s.roster.All() {
		if err := s.repair(e); err != nil {
			errs = append(errs, err)
		}
	}

	frame := s.engine.Update(s.observers())

	s.log.WithFields(logrus.Fields{
		"tick":    s.ticks,
		"elapsed": time.Since(start),
	}).Debug("tick")

	return frame, errors.Join(errs...)
}

func (s *Session) repair(e *entity.Entity) error {
	moved, err := pathing.EnsureWalkable(s.world, e, s.cfg.RepairRadius)
	if err != nil {
		s.log.WithFields(logrus.Fields{
			"entity": e.ID,
			"name":   e.Name,
			"radius": s.cfg.RepairRadius,
		}).WithError(err).Error("entity left on an unwalkable tile")
		return fmt.Errorf("repair %s: %w", e.Name, err)
	}
	if moved {
		s.log.WithFields(logrus.Fields{"entity": e.ID, "to": e.Position()}).Debug("entity relocated")
	}
	return nil
}

func (s *Session) observers() []visibility.Observer {
	var out []visibility.Observer
	for i, e := range s.roster.All() {
		if s.cfg.Policy == SelectedObservers && i != s.state.Selected && e.ID != s.state.TurnEntity {
			continue
		}
		if o, ok := e.Observer(); ok {
			out = append(out, o)
		}
	}
	return out
}

// Selected returns the selected entity, or nil.
func (s *Session) Selected() *entity.Entity {
	return s.roster.Get(s.state.Selected)
}

// SelectAt selects the first entity standing on (x,y).
func (s *Session) SelectAt(x, y int) bool {
	i := s.roster.At(x, y)
	if i < 0 {
		return false
	}
	s.state.Selected = i
	return true
}

// SetTurn marks the entity whose turn it is.
func (s *Session) SetTurn(id string) {
	s.state.TurnEntity = id
}

// ClickMove repairs the selected entity's position and queues a greedy walk
// to (x,y). Unresolved or unwalkable targets are ignored.
func (s *Session) ClickMove(x, y int) error {
	e := s.Selected()
	if e == nil {
		return nil
	}
	if err := s.repair(e); err != nil {
		return err
	}
	if !s.world.Walkable(x, y) {
		return nil
	}
	e.SetQueue(pathing.PlanPath(s.world, e.Position(), geometry.Point{X: x, Y: y}, s.cfg.MaxSteps))
	return nil
}

// ToggleEditor flips editor mode and returns the new mode. Leaving editor mode
// drops any drag in progress.
func (s *Session) ToggleEditor() bool {
	s.state.EditorMode = !s.state.EditorMode
	if !s.state.EditorMode {
		s.state.Drag = s.editor.Release(s.state.Drag)
	}
	s.log.WithField("editor", s.state.EditorMode).Info("editor mode changed")
	return s.state.EditorMode
}

// PointerDown grabs the segment under (x,y) in editor mode.
func (s *Session) PointerDown(x, y int) bool {
	if !s.state.EditorMode {
		return false
	}
	d, ok := s.editor.Grab(x, y)
	s.state.Drag = d
	return ok
}

// PointerMove drags the grabbed segment. It reports whether the layout changed.
func (s *Session) PointerMove(x, y int) bool {
	if !s.state.EditorMode || !s.state.Drag.Active() {
		return false
	}
	before := s.state.Drag.Segment.Placement()
	s.editor.DragTo(s.state.Drag, x, y)
	return s.state.Drag.Segment.Placement() != before
}

// PointerUp releases the drag. It reports whether a segment was being dragged.
func (s *Session) PointerUp(int, int) bool {
	if !s.state.Drag.Active() {
		return false
	}
	s.state.Drag = s.editor.Release(s.state.Drag)
	return true
}

// ToggleSegmentAt flips the first segment under (x,y) in editor mode.
func (s *Session) ToggleSegmentAt(x, y int) (*geometry.Segment, bool) {
	if !s.state.EditorMode {
		return nil, false
	}
	seg := s.editor.SegmentAt(x, y)
	if seg == nil {
		return nil, false
	}
	s.editor.ToggleActive(seg)
	return seg, true
}

// ApplyLayout restores segment placements and resets explored memory for the
// new world extent.
func (s *Session) ApplyLayout(placements []geometry.Placement) int {
	applied := s.world.ApplyLayout(placements)
	s.state.Drag = layout.Drag{}
	s.engine.Resize()
	return applied
}
