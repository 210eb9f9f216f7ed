package asset

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/Ko-stant/battlemap/internal/geometry"
)

// BoardDefinition is a hand-authored segment: every tile inside the board is
// walkable except those listed in Blocked, and walls are edge addresses.
type BoardDefinition struct {
	Width           int                    `json:"width"`
	Height          int                    `json:"height"`
	Blocked         []geometry.Point       `json:"blocked"`
	WallsVertical   []geometry.EdgeAddress `json:"walls_vertical"`
	WallsHorizontal []geometry.EdgeAddress `json:"walls_horizontal"`
}

// BoardLoader reads JSON board definitions from Dir.
type BoardLoader struct {
	Dir string
}

func (l *BoardLoader) Load(assetID string) (*geometry.Grid, error) {
	board, err := LoadBoardFromFile(filepath.Join(l.Dir, assetID))
	if err != nil {
		return nil, err
	}
	return board.Grid()
}

// LoadBoardFromFile loads a board definition from a JSON file
func LoadBoardFromFile(path string) (*BoardDefinition, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read board file: %w", err)
	}

	var board BoardDefinition
	if err := json.Unmarshal(data, &board); err != nil {
		return nil, fmt.Errorf("failed to parse board JSON: %w", err)
	}

	return &board, nil
}

// Grid builds the tile grid. Wall orientation comes from the list an edge
// appears in, whatever its own orientation field says.
func (b *BoardDefinition) Grid() (*geometry.Grid, error) {
	g, err := geometry.NewOpenGrid(b.Width, b.Height)
	if err != nil {
		return nil, err
	}
	for _, p := range b.Blocked {
		if t := g.Tile(p.X, p.Y); t != nil {
			t.Walkable = false
		}
	}
	for _, e := range b.WallsVertical {
		e.Orientation = geometry.Vertical
		g.SetWall(e)
	}
	for _, e := range b.WallsHorizontal {
		e.Orientation = geometry.Horizontal
		g.SetWall(e)
	}
	return g, nil
}
