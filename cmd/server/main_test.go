package main

import (
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Ko-stant/battlemap/internal/config"
	"github.com/Ko-stant/battlemap/internal/logging"
	"github.com/Ko-stant/battlemap/internal/session"
	"github.com/Ko-stant/battlemap/internal/visibility"
)

func writeFloorPNG(t *testing.T, path string, w, h int) {
	t.Helper()
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := range h {
		for x := range w {
			img.Set(x, y, color.White)
		}
	}
	f, err := os.Create(path)
	require.NoError(t, err)
	require.NoError(t, png.Encode(f, img))
	require.NoError(t, f.Close())
}

func TestBuildWorld_FallsBackToGeneratedMap(t *testing.T) {
	cfg := config.Default().Assets
	cfg.Dir = filepath.Join(t.TempDir(), "missing")

	world, err := buildWorld(cfg, logging.Discard())

	require.NoError(t, err)
	require.Len(t, world.Segments(), 1)
	assert.Equal(t, devGridWidth, world.Width())
	assert.Equal(t, devGridHeight, world.Height())
}

func TestBuildWorld_DiscoversAssetsAtOrigin(t *testing.T) {
	// Arrange
	dir := t.TempDir()
	writeFloorPNG(t, filepath.Join(dir, "room 1.png"), 20, 10)
	writeFloorPNG(t, filepath.Join(dir, "room 2.png"), 10, 30)
	cfg := config.Default().Assets
	cfg.Dir, cfg.TileWidth, cfg.TileHeight = dir, 10, 10

	// Act
	world, err := buildWorld(cfg, logging.Discard())

	// Assert
	require.NoError(t, err)
	segs := world.Segments()
	require.Len(t, segs, 2)
	assert.Equal(t, "Segment 1", segs[0].Name)
	assert.Equal(t, "room 2.png", segs[1].AssetID)
	assert.Equal(t, 2, world.Width())
	assert.Equal(t, 3, world.Height())
}

func TestBuildWorld_ConfiguredSegments(t *testing.T) {
	dir := t.TempDir()
	writeFloorPNG(t, filepath.Join(dir, "hall.png"), 30, 10)
	inactive := false
	cfg := config.Default().Assets
	cfg.Dir, cfg.TileWidth, cfg.TileHeight = dir, 10, 10
	cfg.Segments = []config.SegmentConfig{
		{Asset: "hall.png", Name: "Hall"},
		{Asset: "hall.png", OffsetX: 3, Active: &inactive},
	}

	world, err := buildWorld(cfg, logging.Discard())

	require.NoError(t, err)
	segs := world.Segments()
	require.Len(t, segs, 2)
	assert.Equal(t, "Hall", segs[0].Name)
	assert.Equal(t, "hall.png", segs[1].Name)
	assert.False(t, segs[1].Active)
	assert.Equal(t, 3, world.Width())

	cfg.Segments = []config.SegmentConfig{{Asset: "gone.png"}}
	_, err = buildWorld(cfg, logging.Discard())
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestBuildRoster(t *testing.T) {
	radius := 12.0
	roster, err := buildRoster([]config.EntityConfig{
		{Name: "Edric", X: 1, Y: 2, VisionRadius: &radius},
		{Name: "Seer", VisionMode: "true_sight"},
		{Name: "Crate"},
	})
	require.NoError(t, err)
	require.Equal(t, 3, roster.Len())

	assert.Equal(t, 12.0, roster.Get(0).Vision.Radius)
	assert.Equal(t, visibility.Normal, roster.Get(0).Vision.Mode)
	assert.Equal(t, defaultVisionRadius, roster.Get(1).Vision.Radius)
	assert.Equal(t, visibility.TrueSight, roster.Get(1).Vision.Mode)
	assert.Nil(t, roster.Get(2).Vision)
}

func TestBuildRoster_Defaults(t *testing.T) {
	roster, err := buildRoster(nil)
	require.NoError(t, err)
	require.Equal(t, 1, roster.Len())
	assert.NotNil(t, roster.Get(0).Vision)

	_, err = buildRoster([]config.EntityConfig{{Name: "x", VisionMode: "xray"}})
	assert.ErrorIs(t, err, visibility.ErrUnknownVisionMode)
}

func TestObserverPolicy(t *testing.T) {
	assert.Equal(t, session.SelectedObservers, observerPolicy("selected"))
	assert.Equal(t, session.AllObservers, observerPolicy("all"))
}
