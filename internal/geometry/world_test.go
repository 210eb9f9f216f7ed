package geometry

import (
	"testing"

	"github.com/sirupsen/logrus"
	logtest "github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openSegment(t *testing.T, name string, w, h, ox, oy int) *Segment {
	t.Helper()
	g, err := NewOpenGrid(w, h)
	require.NoError(t, err)
	return NewSegment(name, name+".png", g, ox, oy)
}

func TestNewGrid_RejectsNonPositiveDimensions(t *testing.T) {
	_, err := NewGrid(0, 3)
	assert.Error(t, err)
	_, err = NewGrid(3, -1)
	assert.Error(t, err)
}

func TestGrid_TileOutOfBoundsIsNil(t *testing.T) {
	g, err := NewGrid(2, 2)
	require.NoError(t, err)

	assert.NotNil(t, g.Tile(1, 1))
	assert.Nil(t, g.Tile(2, 0))
	assert.Nil(t, g.Tile(0, -1))
	assert.False(t, g.Tile(0, 0).Walkable)
}

func TestGrid_SetWallMarksBothSides(t *testing.T) {
	g, err := NewOpenGrid(3, 3)
	require.NoError(t, err)

	g.SetWall(EdgeAddress{X: 0, Y: 1, Orientation: Vertical})
	g.SetWall(EdgeAddress{X: 2, Y: 2, Orientation: Horizontal})

	assert.True(t, g.Tile(0, 1).BlocksEdge(East))
	assert.True(t, g.Tile(1, 1).BlocksEdge(West))
	assert.True(t, g.Tile(2, 2).BlocksEdge(South), "owning tile inside the grid is marked")
}

func TestWorld_TwoSegmentsSideBySide(t *testing.T) {
	// Arrange
	a := openSegment(t, "A", 10, 10, 0, 0)
	b := openSegment(t, "B", 10, 10, 10, 0)
	world := NewWorld(nil, a, b)

	// Act & Assert
	assert.Equal(t, 20, world.Width())
	assert.Equal(t, 10, world.Height())
	assert.Same(t, b.Grid.Tile(0, 0), world.TileAt(10, 0))
	assert.Same(t, a.Grid.Tile(9, 9), world.TileAt(9, 9))
	assert.Nil(t, world.TileAt(20, 0))
	assert.False(t, world.InBounds(-1, 0))
}

func TestWorld_ExtentIgnoresInactiveSegments(t *testing.T) {
	a := openSegment(t, "A", 4, 4, 0, 0)
	b := openSegment(t, "B", 4, 4, 6, 8)
	b.Active = false
	world := NewWorld(nil, a, b)

	assert.Equal(t, 4, world.Width())
	assert.Equal(t, 4, world.Height())
	assert.Nil(t, world.TileAt(6, 8))

	b.Active = true
	assert.Equal(t, 10, world.Width())
	assert.Equal(t, 12, world.Height())
}

func TestWorld_EmptyWorldHasZeroExtent(t *testing.T) {
	world := NewWorld(nil)
	assert.True(t, world.Extent().Empty())
	assert.Nil(t, world.TileAt(0, 0))
}

func TestWorld_ResolutionIndependentOfOrderWithoutOverlap(t *testing.T) {
	mk := func() []*Segment {
		return []*Segment{
			openSegment(t, "A", 3, 3, 0, 0),
			openSegment(t, "B", 2, 5, 3, 0),
			openSegment(t, "C", 5, 2, 0, 5),
		}
	}
	forward := mk()
	reversed := mk()
	for i, j := 0, len(reversed)-1; i < j; i, j = i+1, j-1 {
		reversed[i], reversed[j] = reversed[j], reversed[i]
	}
	// Distinguish segments by a wall so tile identity is observable.
	for _, segs := range [][]*Segment{forward, reversed} {
		for _, s := range segs {
			if s.Name == "B" {
				s.Grid.Tile(0, 0).SetEdge(North, true)
			}
		}
	}
	wf := NewWorld(nil, forward...)
	wr := NewWorld(nil, reversed...)

	for y := -1; y < 8; y++ {
		for x := -1; x < 6; x++ {
			tf, tr := wf.TileAt(x, y), wr.TileAt(x, y)
			if tf == nil {
				assert.Nil(t, tr, "(%d,%d)", x, y)
				continue
			}
			require.NotNil(t, tr, "(%d,%d)", x, y)
			assert.Equal(t, *tf, *tr, "(%d,%d)", x, y)
		}
	}
}

func TestWorld_OverlapFirstMatchWinsAndIsReported(t *testing.T) {
	// Arrange
	logger, hook := logtest.NewNullLogger()
	a := openSegment(t, "A", 4, 4, 0, 0)
	b := openSegment(t, "B", 4, 4, 2, 2)
	world := NewWorld(logger)
	world.Add(a)
	require.Empty(t, hook.AllEntries())

	// Act
	world.Add(b)

	// Assert
	assert.Same(t, a.Grid.Tile(3, 3), world.TileAt(3, 3))
	overlaps := world.Overlaps()
	require.Len(t, overlaps, 1)
	assert.Equal(t, Rect{X: 2, Y: 2, W: 2, H: 2}, overlaps[0].Area)
	require.NotNil(t, hook.LastEntry())
	assert.Equal(t, logrus.WarnLevel, hook.LastEntry().Level)
	assert.Equal(t, "A", hook.LastEntry().Data["first"])
}

func TestWorld_TouchingSegmentsDoNotOverlap(t *testing.T) {
	world := NewWorld(nil, openSegment(t, "A", 4, 4, 0, 0), openSegment(t, "B", 4, 4, 4, 0))
	assert.Empty(t, world.Overlaps())
}

func TestWorld_ApplyLayout(t *testing.T) {
	a := openSegment(t, "A", 2, 2, 0, 0)
	b := openSegment(t, "B", 2, 2, 5, 5)
	world := NewWorld(nil, a, b)

	applied := world.ApplyLayout([]Placement{
		{AssetID: "A.png", OffsetX: 3, OffsetY: 4, Active: false},
		{AssetID: "missing.png", OffsetX: 9, OffsetY: 9, Active: true},
	})

	assert.Equal(t, 1, applied)
	assert.Equal(t, Placement{AssetID: "A.png", OffsetX: 3, OffsetY: 4, Active: false}, a.Placement())
	assert.Equal(t, Placement{AssetID: "B.png", OffsetX: 5, OffsetY: 5, Active: true}, b.Placement())
	assert.Equal(t, []Placement{a.Placement(), b.Placement()}, world.ListSegments())
}

func TestWorld_ApplyLayoutClampsNegativeOffsets(t *testing.T) {
	a := openSegment(t, "A", 2, 2, 0, 0)
	world := NewWorld(nil, a)

	world.ApplyLayout([]Placement{{AssetID: "A.png", OffsetX: -3, OffsetY: 4, Active: true}})

	assert.Equal(t, Placement{AssetID: "A.png", OffsetX: 0, OffsetY: 4, Active: true}, a.Placement())
}
