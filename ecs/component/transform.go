package component

import "github.com/go-gl/mathgl/mgl64"

// Transform is the render-side copy of an entity's pose.
type Transform struct {
	Position mgl64.Vec3
	Rotation mgl64.Quat
}

var TransformComponent = NewComponent[Transform]()
