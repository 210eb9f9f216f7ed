package protocol

import (
	"github.com/Ko-stant/battlemap/internal/geometry"
	"github.com/Ko-stant/battlemap/internal/visibility"
)

const (
	TypeSnapshot         = "Snapshot"
	TypeFrameUpdated     = "FrameUpdated"
	TypeSelectionChanged = "SelectionChanged"
	TypeSceneList        = "SceneList"
	TypeError            = "Error"
)

type PatchEnvelope struct {
	Sequence uint64 `json:"seq"`
	Type     string `json:"type"`
	Payload  any    `json:"payload"`
}

type EntityUpdated struct {
	ID   string         `json:"id"`
	Tile geometry.Point `json:"tile"`
}

// FrameUpdated is sent to every view after each tick.
type FrameUpdated struct {
	Tick     uint64               `json:"tick"`
	Entities []EntityUpdated      `json:"entities"`
	Visible  []byte               `json:"visible"`
	Explored []byte               `json:"explored"`
	Polygons []visibility.Polygon `json:"polygons,omitempty"`
}

type SelectionChanged struct {
	Selected   int    `json:"selected"`
	EntityID   string `json:"entityId,omitempty"`
	EditorMode bool   `json:"editorMode"`
}

type SceneList struct {
	Names   []string `json:"names"`
	Current string   `json:"current"`
}

type ErrorMessage struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}
