package system

import (
	"log"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/milk9111/ratrun/ecs"
	"github.com/milk9111/ratrun/ecs/component"
	"github.com/milk9111/ratrun/physics"
)

type RespawnSystem struct{}

func NewRespawnSystem() *RespawnSystem { return &RespawnSystem{} }

// LateUpdate returns anything that fell below its kill height to its spawn
// point. A climb in progress is released first so the gate restores the
// body's constraints and gravity.
func (s *RespawnSystem) LateUpdate(w *ecs.World, _ float64) {
	if w == nil {
		return
	}
	ecs.ForEach2(w, component.SpawnComponent.Kind(), component.RigidBodyComponent.Kind(), func(e ecs.Entity, spawn *component.Spawn, rb *component.RigidBody) {
		if rb.Body == nil || rb.Body.Position().Y() >= spawn.KillHeight {
			return
		}
		if gate, ok := ecs.Get(w, e, component.ClimbGateComponent.Kind()); ok && gate.Gate != nil {
			gate.Gate.Release()
		}
		rb.Body.SetPosition(spawn.Position)
		rb.Body.SetVelocity(mgl64.Vec3{})
		rb.Body.SetRotation(physics.YawRotation(spawn.Yaw))
		log.Printf("respawn: entity %s fell below %.1f, back to (%.2f, %.2f, %.2f)",
			e, spawn.KillHeight, spawn.Position.X(), spawn.Position.Y(), spawn.Position.Z())
	})
}
