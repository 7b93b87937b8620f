package component

import "github.com/go-gl/mathgl/mgl64"

// LevelBounds stores the ground-plane bounds (X, Z) of the current level.
type LevelBounds struct {
	Min mgl64.Vec2
	Max mgl64.Vec2
}

var LevelBoundsComponent = NewComponent[LevelBounds]()
