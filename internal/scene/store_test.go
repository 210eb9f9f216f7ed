package scene

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/sirupsen/logrus"
	logtest "github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Ko-stant/battlemap/internal/geometry"
)

func TestFileStore_SaveLoadRoundTrip(t *testing.T) {
	// Arrange
	path := filepath.Join(t.TempDir(), "scenes.json")
	store := NewFileStore(path, nil)
	layout := []geometry.Placement{
		{AssetID: "room 1.png", OffsetX: 0, OffsetY: 0, Active: true},
		{AssetID: "room 2.png", OffsetX: 12, OffsetY: -3, Active: false},
	}

	// Act
	require.NoError(t, store.Save("VAULT", layout))
	require.NoError(t, store.Save("CRYPT", layout[:1]))
	loaded, err := store.Load("VAULT")

	// Assert
	require.NoError(t, err)
	assert.Equal(t, layout, loaded)
	names, err := store.Names()
	require.NoError(t, err)
	assert.Equal(t, []string{"CRYPT", "VAULT"}, names)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "\n    \"", "indented with four spaces")
	assert.Contains(t, string(data), "\"offset_x\": 12")
}

func TestFileStore_MissingActiveDefaultsToTrue(t *testing.T) {
	path := filepath.Join(t.TempDir(), "scenes.json")
	raw := `{"VAULT": [{"filename": "room 1.png", "offset_x": 4, "offset_y": 5}]}`
	require.NoError(t, os.WriteFile(path, []byte(raw), 0o644))

	loaded, err := NewFileStore(path, nil).Load("VAULT")

	require.NoError(t, err)
	assert.Equal(t, []geometry.Placement{{AssetID: "room 1.png", OffsetX: 4, OffsetY: 5, Active: true}}, loaded)
}

func TestFileStore_UnknownScene(t *testing.T) {
	store := NewFileStore(filepath.Join(t.TempDir(), "scenes.json"), nil)

	_, err := store.Load("VAULT")
	assert.ErrorIs(t, err, ErrSceneNotFound)
	assert.ErrorIs(t, store.Delete("VAULT"), ErrSceneNotFound)
}

func TestFileStore_Delete(t *testing.T) {
	store := NewFileStore(filepath.Join(t.TempDir(), "scenes.json"), nil)
	require.NoError(t, store.Save("A", nil))
	require.NoError(t, store.Save("B", nil))

	require.NoError(t, store.Delete("A"))

	names, err := store.Names()
	require.NoError(t, err)
	assert.Equal(t, []string{"B"}, names)
}

func TestFileStore_BadContentReadsAsEmpty(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{"not json", "{{{"},
		{"top level list", `[1, 2, 3]`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "scenes.json")
			require.NoError(t, os.WriteFile(path, []byte(tt.content), 0o644))
			logger, hook := logtest.NewNullLogger()
			store := NewFileStore(path, logger)

			names, err := store.Names()
			require.NoError(t, err)
			assert.Empty(t, names)
			require.NotNil(t, hook.LastEntry())
			assert.Equal(t, logrus.WarnLevel, hook.LastEntry().Level)

			require.NoError(t, store.Save("VAULT", nil))
			var top map[string]json.RawMessage
			data, err := os.ReadFile(path)
			require.NoError(t, err)
			require.NoError(t, json.Unmarshal(data, &top))
			assert.Contains(t, top, "VAULT")
			assert.False(t, strings.Contains(string(data), "[1, 2, 3]"))
		})
	}
}

func TestFileStore_SkipsMalformedSceneOnly(t *testing.T) {
	path := filepath.Join(t.TempDir(), "scenes.json")
	raw := `{"BROKEN": {"filename": 3}, "VAULT": [{"filename": "room 1.png", "offset_x": 1, "offset_y": 2, "active": false}]}`
	require.NoError(t, os.WriteFile(path, []byte(raw), 0o644))
	logger, hook := logtest.NewNullLogger()
	store := NewFileStore(path, logger)

	names, err := store.Names()
	require.NoError(t, err)
	assert.Equal(t, []string{"VAULT"}, names)
	require.NotNil(t, hook.LastEntry())
	assert.Equal(t, "BROKEN", hook.LastEntry().Data["scene"])

	loaded, err := store.Load("VAULT")
	require.NoError(t, err)
	assert.Equal(t, []geometry.Placement{{AssetID: "room 1.png", OffsetX: 1, OffsetY: 2, Active: false}}, loaded)
}
