package system

import (
	"github.com/milk9111/ratrun/ecs"
	"github.com/milk9111/ratrun/ecs/component"
	"github.com/milk9111/ratrun/physics"
)

// PhysicsSystem steps the physics world on the fixed clock and mirrors body
// poses into transforms once per frame.
type PhysicsSystem struct {
	world *physics.World
}

func NewPhysicsSystem(world *physics.World) *PhysicsSystem {
	if world == nil {
		panic("physics system: nil physics world")
	}
	return &PhysicsSystem{world: world}
}

func (ps *PhysicsSystem) World() *physics.World {
	if ps == nil {
		return nil
	}
	return ps.world
}

func (ps *PhysicsSystem) FixedUpdate(_ *ecs.World, dt float64) {
	ps.world.Step(dt)
}

func (ps *PhysicsSystem) LateUpdate(w *ecs.World, _ float64) {
	if w == nil {
		return
	}
	ecs.ForEach2(w, component.RigidBodyComponent.Kind(), component.TransformComponent.Kind(), func(_ ecs.Entity, rb *component.RigidBody, t *component.Transform) {
		if rb.Body == nil {
			return
		}
		t.Position = rb.Body.Position()
		t.Rotation = rb.Body.Rotation()
	})
}
