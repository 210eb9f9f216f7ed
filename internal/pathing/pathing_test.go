package pathing

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Ko-stant/battlemap/internal/geometry"
)

type mover struct{ at geometry.Point }

func (m *mover) Position() geometry.Point     { return m.at }
func (m *mover) SetPosition(p geometry.Point) { m.at = p }

func world(t *testing.T, w, h int, walkable bool) (*geometry.World, *geometry.Grid) {
	t.Helper()
	var (
		g   *geometry.Grid
		err error
	)
	if walkable {
		g, err = geometry.NewOpenGrid(w, h)
	} else {
		g, err = geometry.NewGrid(w, h)
	}
	require.NoError(t, err)
	return geometry.NewWorld(nil, geometry.NewSegment("s", "s", g, 0, 0)), g
}

func TestEnsureWalkable_NoOpOnWalkableTile(t *testing.T) {
	w, _ := world(t, 3, 3, true)
	m := &mover{at: geometry.Point{X: 1, Y: 1}}

	moved, err := EnsureWalkable(w, m, 0)

	require.NoError(t, err)
	assert.False(t, moved)
	assert.Equal(t, geometry.Point{X: 1, Y: 1}, m.at)
}

func TestEnsureWalkable_MovesToAdjacentWalkableTile(t *testing.T) {
	// Arrange
	w, g := world(t, 5, 5, false)
	g.Tile(2, 1).Walkable = true
	g.Tile(4, 4).Walkable = true
	m := &mover{at: geometry.Point{X: 2, Y: 2}}

	// Act
	moved, err := EnsureWalkable(w, m, 0)

	// Assert
	require.NoError(t, err)
	assert.True(t, moved)
	assert.Equal(t, geometry.Point{X: 2, Y: 1}, m.at)
}

func TestEnsureWalkable_FromOutsideTheWorld(t *testing.T) {
	w, _ := world(t, 3, 3, true)
	m := &mover{at: geometry.Point{X: -4, Y: 1}}

	moved, err := EnsureWalkable(w, m, 0)

	require.NoError(t, err)
	assert.True(t, moved)
	assert.Equal(t, geometry.Point{X: 0, Y: 1}, m.at)
}

func TestEnsureWalkable_ReportsExhaustedSearch(t *testing.T) {
	tests := []struct {
		name   string
		radius int
		open   *geometry.Point
	}{
		{"no walkable tile anywhere", 0, nil},
		{"walkable tile beyond radius", 2, &geometry.Point{X: 5, Y: 5}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w, g := world(t, 6, 6, false)
			if tt.open != nil {
				g.Tile(tt.open.X, tt.open.Y).Walkable = true
			}
			m := &mover{at: geometry.Point{X: 0, Y: 0}}

			moved, err := EnsureWalkable(w, m, tt.radius)

			assert.ErrorIs(t, err, ErrNoWalkableTileFound)
			assert.False(t, moved)
			assert.Equal(t, geometry.Point{}, m.at)
		})
	}
}

func TestNearestWalkable_EmptyWorldTerminates(t *testing.T) {
	_, err := NearestWalkable(geometry.NewWorld(nil), geometry.Point{X: 3, Y: 3}, 0)

	assert.ErrorIs(t, err, ErrNoWalkableTileFound)
}

func TestPlanPath_ReducesLargerDeltaFirst(t *testing.T) {
	w, _ := world(t, 10, 10, true)

	steps := PlanPath(w, geometry.Point{X: 0, Y: 0}, geometry.Point{X: 2, Y: 4}, 0)

	assert.Equal(t, []Step{
		{DY: 1}, {DY: 1}, {DX: 1}, {DY: 1}, {DX: 1}, {DY: 1},
	}, steps)
}

func TestPlanPath_TiesGoToX(t *testing.T) {
	w, _ := world(t, 10, 10, true)

	steps := PlanPath(w, geometry.Point{X: 3, Y: 3}, geometry.Point{X: 1, Y: 1}, 0)

	assert.Equal(t, []Step{{DX: -1}, {DY: -1}, {DX: -1}, {DY: -1}}, steps)
}

func TestPlanPath_StopsAtWall(t *testing.T) {
	w, g := world(t, 10, 3, true)
	g.SetWall(geometry.EdgeAddress{X: 3, Y: 1, Orientation: geometry.Vertical})

	steps := PlanPath(w, geometry.Point{X: 0, Y: 1}, geometry.Point{X: 8, Y: 1}, 0)

	assert.Len(t, steps, 3)
}

func TestPlanPath_RespectsStepCeiling(t *testing.T) {
	w, _ := world(t, 50, 1, true)

	steps := PlanPath(w, geometry.Point{X: 0, Y: 0}, geometry.Point{X: 49, Y: 0}, 10)

	assert.Len(t, steps, 10)
}

func TestPlanPath_UnwalkableTargetYieldsNothing(t *testing.T) {
	w, g := world(t, 5, 5, true)
	g.Tile(4, 4).Walkable = false

	assert.Empty(t, PlanPath(w, geometry.Point{}, geometry.Point{X: 4, Y: 4}, 0))
	assert.Empty(t, PlanPath(w, geometry.Point{}, geometry.Point{X: 9, Y: 9}, 0))
	assert.Empty(t, PlanPath(w, geometry.Point{X: 2, Y: 2}, geometry.Point{X: 2, Y: 2}, 0))
}
