package physics

import (
	"fmt"
	"strings"
)

// Layer is a bitmask of collision categories. Queries take a mask of layers
// to test against; blocks belong to exactly one layer.
type Layer uint32

const (
	LayerGround Layer = 1 << iota
	LayerLedge
	LayerWall

	LayerNone Layer = 0
	LayerAll  Layer = ^Layer(0)
)

var layerNames = map[string]Layer{
	"ground": LayerGround,
	"ledge":  LayerLedge,
	"wall":   LayerWall,
	"all":    LayerAll,
}

// ParseLayers parses a list of layer names into a mask.
func ParseLayers(names []string) (Layer, error) {
	var mask Layer
	for _, n := range names {
		l, ok := layerNames[strings.ToLower(strings.TrimSpace(n))]
		if !ok {
			return LayerNone, fmt.Errorf("physics: unknown layer %q", n)
		}
		mask |= l
	}
	return mask, nil
}

func (l Layer) String() string {
	if l == LayerAll {
		return "all"
	}
	var parts []string
	for _, n := range []string{"ground", "ledge", "wall"} {
		if l&layerNames[n] != 0 {
			parts = append(parts, n)
		}
	}
	if len(parts) == 0 {
		return "none"
	}
	return strings.Join(parts, "|")
}

// Constraints freezes rotation about world axes.
type Constraints uint8

const (
	FreezeRotationX Constraints = 1 << iota
	FreezeRotationY
	FreezeRotationZ

	FreezeNone     Constraints = 0
	FreezeRotation             = FreezeRotationX | FreezeRotationY | FreezeRotationZ
)

var constraintNames = map[string]Constraints{
	"x":   FreezeRotationX,
	"y":   FreezeRotationY,
	"z":   FreezeRotationZ,
	"all": FreezeRotation,
}

// ParseConstraints parses axis names ("x", "y", "z", "all") into a mask.
func ParseConstraints(axes []string) (Constraints, error) {
	var c Constraints
	for _, a := range axes {
		f, ok := constraintNames[strings.ToLower(strings.TrimSpace(a))]
		if !ok {
			return FreezeNone, fmt.Errorf("physics: unknown rotation axis %q", a)
		}
		c |= f
	}
	return c, nil
}

func (c Constraints) String() string {
	var parts []string
	for _, a := range []string{"x", "y", "z"} {
		if c&constraintNames[a] != 0 {
			parts = append(parts, a)
		}
	}
	if len(parts) == 0 {
		return "none"
	}
	return strings.Join(parts, "|")
}
