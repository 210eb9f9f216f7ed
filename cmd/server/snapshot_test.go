package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Ko-stant/battlemap/internal/geometry"
	"github.com/Ko-stant/battlemap/internal/protocol"
	"github.com/Ko-stant/battlemap/internal/visibility"
)

func TestPackMask(t *testing.T) {
	m := visibility.NewMask(3, 3)
	m.Set(0, 0)
	m.Set(2, 2)

	assert.Equal(t, []byte{0x01, 0x01}, packMask(m, 3, 3))
	assert.Equal(t, []byte{0x01, 0x00, 0x00, 0x00}, packMask(m, 5, 5), "a smaller mask pads with zeros")
	assert.Equal(t, []byte{0x00}, packMask(nil, 2, 2))
}

func TestPackWalkableAndEdges(t *testing.T) {
	// Arrange: 3x1 strip, right tile solid, wall between the first two
	g, err := geometry.NewOpenGrid(3, 1)
	require.NoError(t, err)
	g.Tile(2, 0).Walkable = false
	g.SetWall(geometry.EdgeAddress{X: 0, Y: 0, Orientation: geometry.Vertical})
	world := geometry.NewWorld(nil, geometry.NewSegment("strip", "strip.png", g, 0, 0))

	// Act
	walkable := packWalkable(world)
	edges := packEdges(world)

	// Assert
	assert.Equal(t, []byte{0b011}, walkable)
	require.Len(t, edges, 3)
	assert.Equal(t, protocol.EdgeEast, edges[0])
	assert.Equal(t, protocol.EdgeWest, edges[1])
	assert.Zero(t, edges[2])
}

func TestBuildSnapshot_ViewsDiffer(t *testing.T) {
	f := newHostFixture(t)

	player := f.host.Snapshot(protocol.ViewPlayer)
	operator := f.host.Snapshot(protocol.ViewOperator)

	assert.Equal(t, protocol.ProtocolVersion, player.ProtocolVersion)
	assert.Equal(t, 15, player.MapWidth)
	assert.Equal(t, 10, player.MapHeight)
	assert.Len(t, player.Edges, 150)
	require.Len(t, player.Entities, 2)
	require.NotNil(t, player.Entities[0].VisionRadius)
	assert.Equal(t, 3.0, *player.Entities[0].VisionRadius)
	assert.Nil(t, player.Entities[1].VisionRadius)
	assert.Nil(t, player.Regions)

	require.NotNil(t, operator.Regions)
	assert.Equal(t, 1, operator.Regions.RegionsCount, "hall and annex join across the seam")
	assert.Len(t, operator.Segments, 2)
}
