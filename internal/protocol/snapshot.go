package protocol

import (
	"github.com/Ko-stant/battlemap/internal/geometry"
	"github.com/Ko-stant/battlemap/internal/visibility"
)

const ProtocolVersion = "v1"

const (
	ViewPlayer   = "player"
	ViewOperator = "operator"
)

// Edge bits packed into Snapshot.Edges, one byte per tile.
const (
	EdgeNorth byte = 1 << iota
	EdgeSouth
	EdgeEast
	EdgeWest
)

type SegmentLite struct {
	Name    string `json:"name"`
	AssetID string `json:"assetId"`
	X       int    `json:"x"`
	Y       int    `json:"y"`
	Width   int    `json:"width"`
	Height  int    `json:"height"`
	Active  bool   `json:"active"`
}

type EntityLite struct {
	ID           string          `json:"id"`
	Name         string          `json:"name"`
	Tile         geometry.Point  `json:"tile"`
	VisionRadius *float64        `json:"visionRadius,omitempty"`
	VisionMode   visibility.Mode `json:"visionMode,omitempty"`
	Pending      int             `json:"pending,omitempty"`
}

// Snapshot is the full state a client needs to draw a view. Tile layers are
// row-major over MapWidth x MapHeight: Walkable, Explored and Visible are
// bitsets (least significant bit first), Edges holds one byte per tile.
type Snapshot struct {
	View            string               `json:"view"`
	Tick            uint64               `json:"tick"`
	Scene           string               `json:"scene"`
	MapWidth        int                  `json:"mapWidth"`
	MapHeight       int                  `json:"mapHeight"`
	Walkable        []byte               `json:"walkable"`
	Edges           []byte               `json:"edges"`
	Explored        []byte               `json:"explored"`
	Visible         []byte               `json:"visible"`
	Entities        []EntityLite         `json:"entities"`
	Segments        []SegmentLite        `json:"segments,omitempty"`
	Regions         *geometry.RegionMap  `json:"regions,omitempty"`
	Polygons        []visibility.Polygon `json:"polygons,omitempty"`
	Selected        int                  `json:"selected"`
	EditorMode      bool                 `json:"editorMode"`
	ProtocolVersion string               `json:"protocolVersion"`
}
