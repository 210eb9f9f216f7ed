package main

import (
	"errors"
	"fmt"

	"github.com/Ko-stant/battlemap/internal/pathing"
	"github.com/Ko-stant/battlemap/internal/scene"
)

const (
	CodeBadIntent     = "BAD_INTENT"
	CodeBadPayload    = "BAD_PAYLOAD"
	CodeReadOnly      = "READ_ONLY"
	CodeSceneNotFound = "SCENE_NOT_FOUND"
	CodeSceneStore    = "SCENE_STORE"
	CodeNoWalkable    = "NO_WALKABLE_TILE"
)

// GameError represents an intent the host refused or failed to apply.
type GameError struct {
	Code    string
	Message string
}

func (e *GameError) Error() string {
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

func NewGameError(code, format string, args ...any) *GameError {
	return &GameError{Code: code, Message: fmt.Sprintf(format, args...)}
}

// asGameError classifies err for the client. Unknown errors keep fallback.
func asGameError(err error, fallback string) *GameError {
	var ge *GameError
	switch {
	case errors.As(err, &ge):
		return ge
	case errors.Is(err, scene.ErrSceneNotFound):
		return &GameError{Code: CodeSceneNotFound, Message: err.Error()}
	case errors.Is(err, pathing.ErrNoWalkableTileFound):
		return &GameError{Code: CodeNoWalkable, Message: err.Error()}
	default:
		return &GameError{Code: fallback, Message: err.Error()}
	}
}
