package component

import "github.com/go-gl/mathgl/mgl64"

// Spawn is where the player returns to when it falls out of the level.
type Spawn struct {
	Position mgl64.Vec3
	Yaw      float64
	// KillHeight is the y below which the player is respawned.
	KillHeight float64
}

var SpawnComponent = NewComponent[Spawn]()
