package component

import (
	"image/color"

	"github.com/milk9111/ratrun/physics"
)

// RigidBody links an entity to its body in the physics world.
type RigidBody struct {
	Body *physics.Body
}

var RigidBodyComponent = NewComponent[RigidBody]()

// Block is a static level block with its draw colour.
type Block struct {
	Block *physics.Block
	Fill  color.RGBA
}

var BlockComponent = NewComponent[Block]()
