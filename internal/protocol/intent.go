package protocol

import (
	"encoding/json"
	"fmt"
)

const (
	IntentSelectAt        = "SelectAt"
	IntentClickMove       = "ClickMove"
	IntentToggleEditor    = "ToggleEditor"
	IntentPointerDown     = "PointerDown"
	IntentPointerMove     = "PointerMove"
	IntentPointerUp       = "PointerUp"
	IntentToggleSegmentAt = "ToggleSegmentAt"
	IntentSaveScene       = "SaveScene"
	IntentLoadScene       = "LoadScene"
	IntentDeleteScene     = "DeleteScene"
	IntentListScenes      = "ListScenes"
)

type IntentEnvelope struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload"`
}

// RequestTile carries a world tile coordinate, already converted from
// pointer space by the client.
type RequestTile struct {
	X int `json:"x"`
	Y int `json:"y"`
}

type RequestScene struct {
	Name string `json:"name"`
}

// DecodePayload unmarshals an envelope payload. An absent payload decodes to
// the zero value.
func DecodePayload[T any](env IntentEnvelope) (T, error) {
	var v T
	if len(env.Payload) == 0 || string(env.Payload) == "null" {
		return v, nil
	}
	if err := json.Unmarshal(env.Payload, &v); err != nil {
		return v, fmt.Errorf("invalid %s payload: %w", env.Type, err)
	}
	return v, nil
}
