package climb

import (
	"fmt"
	"strings"
)

// Kind selects the single climbing behaviour a gate may enable.
type Kind int

const (
	KindNone Kind = iota
	KindWall
	KindWallAlt
	KindLedge
	KindLedgeAlt
)

var kindNames = [...]string{"none", "wall", "wall_alt", "ledge", "ledge_alt"}

func (k Kind) String() string {
	if k < 0 || int(k) >= len(kindNames) {
		return fmt.Sprintf("Kind(%d)", int(k))
	}
	return kindNames[k]
}

func (k Kind) valid() bool {
	return k >= KindNone && k <= KindLedgeAlt
}

// ParseKind accepts the names used in prefabs; the empty string is KindNone.
func ParseKind(s string) (Kind, error) {
	key := strings.ToLower(strings.TrimSpace(s))
	key = strings.ReplaceAll(key, "-", "_")
	if key == "" {
		return KindNone, nil
	}
	for i, n := range kindNames {
		if n == key {
			return Kind(i), nil
		}
	}
	return KindNone, fmt.Errorf("%w: unknown climb kind %q", ErrInvalidConfig, s)
}
