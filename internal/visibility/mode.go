package visibility

import (
	"errors"
	"fmt"
	"strings"
)

var ErrUnknownVisionMode = errors.New("unknown vision mode")

// Mode alters whether non-walkable material stops sight. Every mode is still
// stopped by edge walls and by the vision radius.
type Mode int

const (
	Normal Mode = iota
	TrueSight
	BlindSight
)

func (m Mode) String() string {
	switch m {
	case Normal:
		return "normal"
	case TrueSight:
		return "true_sight"
	case BlindSight:
		return "blindsight"
	}
	return fmt.Sprintf("mode(%d)", int(m))
}

// SeesThroughSolid reports whether rays continue through non-walkable tiles.
func (m Mode) SeesThroughSolid() bool {
	return m == TrueSight || m == BlindSight
}

// ParseMode accepts the names used in configuration and scene files. An
// empty string is Normal.
func ParseMode(s string) (Mode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "normal":
		return Normal, nil
	case "true_sight", "truesight":
		return TrueSight, nil
	case "blindsight", "blind_sight":
		return BlindSight, nil
	}
	return Normal, fmt.Errorf("%w: %q", ErrUnknownVisionMode, s)
}

func (m Mode) MarshalText() ([]byte, error) {
	return []byte(m.String()), nil
}

func (m *Mode) UnmarshalText(b []byte) error {
	parsed, err := ParseMode(string(b))
	if err != nil {
		return err
	}
	*m = parsed
	return nil
}
