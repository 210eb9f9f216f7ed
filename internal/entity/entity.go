package entity

import (
	"errors"
	"fmt"
	"math"

	"github.com/oklog/ulid/v2"

	"github.com/Ko-stant/battlemap/internal/geometry"
	"github.com/Ko-stant/battlemap/internal/pathing"
	"github.com/Ko-stant/battlemap/internal/visibility"
)

var ErrInvalidVisionRadius = errors.New("invalid vision radius")

// Vision is the optional sight component of an entity.
type Vision struct {
	Radius float64
	Mode   visibility.Mode
}

// NewVision validates radius and mode up front so the engine never sees a
// malformed observer.
func NewVision(radius float64, mode visibility.Mode) (*Vision, error) {
	if radius < 0 || math.IsNaN(radius) || math.IsInf(radius, 0) {
		return nil, fmt.Errorf("%w: %v", ErrInvalidVisionRadius, radius)
	}
	if mode < visibility.Normal || mode > visibility.BlindSight {
		return nil, fmt.Errorf("%w: %d", visibility.ErrUnknownVisionMode, int(mode))
	}
	return &Vision{Radius: radius, Mode: mode}, nil
}

// Entity is a token on the map. Entities without Vision are plain tokens.
type Entity struct {
	ID     string
	Name   string
	Vision *Vision

	pos   geometry.Point
	queue []pathing.Step
}

func New(name string, x, y int, vision *Vision) *Entity {
	return &Entity{
		ID:     ulid.Make().String(),
		Name:   name,
		Vision: vision,
		pos:    geometry.Point{X: x, Y: y},
	}
}

func (e *Entity) Position() geometry.Point     { return e.pos }
func (e *Entity) SetPosition(p geometry.Point) { e.pos = p }

// SetQueue replaces any pending moves.
func (e *Entity) SetQueue(steps []pathing.Step) {
	e.queue = append(e.queue[:0], steps...)
}

func (e *Entity) ClearQueue() {
	e.queue = e.queue[:0]
}

// PopStep removes and returns the next queued move.
func (e *Entity) PopStep() (pathing.Step, bool) {
	if len(e.queue) == 0 {
		return pathing.Step{}, false
	}
	s := e.queue[0]
	e.queue = e.queue[1:]
	return s, true
}

func (e *Entity) Pending() int {
	return len(e.queue)
}

// Observer returns the entity's viewpoint, false for entities without vision.
func (e *Entity) Observer() (visibility.Observer, bool) {
	if e.Vision == nil {
		return visibility.Observer{}, false
	}
	return visibility.Observer{
		ID:     e.ID,
		X:      e.pos.X,
		Y:      e.pos.Y,
		Radius: e.Vision.Radius,
		Mode:   e.Vision.Mode,
	}, true
}
