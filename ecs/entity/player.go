package entity

import (
	"fmt"
	"log"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/milk9111/ratrun/camera"
	"github.com/milk9111/ratrun/climb"
	"github.com/milk9111/ratrun/ecs"
	"github.com/milk9111/ratrun/ecs/component"
	"github.com/milk9111/ratrun/input"
	"github.com/milk9111/ratrun/locomotion"
	"github.com/milk9111/ratrun/physics"
	"github.com/milk9111/ratrun/prefabs"
)

// killDepth is how far below the spawn point the rat may fall before it is
// respawned.
const killDepth = 10

// NewRat builds the player: a body in phys, its locomotion controller, and a
// climb gate with the built-in and scripted behaviours.
func NewRat(w *ecs.World, phys *physics.World, cam *camera.Camera, spec prefabs.RatSpec, spawn mgl64.Vec3, yaw float64) (ecs.Entity, error) {
	def, err := spec.BodyDef(spawn, yaw)
	if err != nil {
		return ecs.NoEntity, err
	}
	locoCfg, err := spec.LocomotionConfig()
	if err != nil {
		return ecs.NoEntity, err
	}

	body, err := phys.AddBody(def)
	if err != nil {
		return ecs.NoEntity, fmt.Errorf("rat: add body: %w", err)
	}
	controller, err := locomotion.New(locoCfg, body, phys, cam)
	if err != nil {
		phys.RemoveBody(body)
		return ecs.NoEntity, fmt.Errorf("rat: locomotion: %w", err)
	}
	gate, err := NewClimbGate(spec, body, phys, controller)
	if err != nil {
		phys.RemoveBody(body)
		return ecs.NoEntity, err
	}

	e := ecs.CreateEntity(w)
	adds := []func() error{
		func() error { return ecs.Add(w, e, component.PlayerTagComponent.Kind(), &component.PlayerTag{}) },
		func() error {
			return ecs.Add(w, e, component.TransformComponent.Kind(), &component.Transform{Position: body.Position(), Rotation: body.Rotation()})
		},
		func() error { return ecs.Add(w, e, component.RigidBodyComponent.Kind(), &component.RigidBody{Body: body}) },
		func() error {
			return ecs.Add(w, e, component.InputComponent.Kind(), &component.Input{Snapshot: input.Idle()})
		},
		func() error {
			return ecs.Add(w, e, component.LocomotionComponent.Kind(), &component.Locomotion{
				Controller: controller,
				LastMotion: controller.State().Motion,
				LastTier:   controller.State().Tier,
			})
		},
		func() error { return ecs.Add(w, e, component.ClimbGateComponent.Kind(), gate) },
		func() error {
			return ecs.Add(w, e, component.SpawnComponent.Kind(), &component.Spawn{
				Position:   spawn,
				Yaw:        yaw,
				KillHeight: spawn.Y() - killDepth,
			})
		},
	}
	for _, add := range adds {
		if err := add(); err != nil {
			ecs.DestroyEntity(w, e)
			phys.RemoveBody(body)
			return ecs.NoEntity, fmt.Errorf("rat: %w", err)
		}
	}

	log.Printf("rat: spawned at (%.2f, %.2f, %.2f) facing %.0f, freedom %s, climb %s",
		spawn.X(), spawn.Y(), spawn.Z(), yaw, locoCfg.Jump.Freedom, gate.Gate.Config().Active)
	return e, nil
}

// NewClimbGate builds the gate and every behaviour the prefab can provide.
// Scripted kinds whose script is missing or fails to compile are skipped
// with a log line, leaving that kind unavailable.
func NewClimbGate(spec prefabs.RatSpec, body *physics.Body, phys *physics.World, loco climb.Locomotion) (*component.ClimbGate, error) {
	cfg, err := spec.ClimbConfig()
	if err != nil {
		return nil, err
	}

	behaviors := map[climb.Kind]climb.Behavior{
		climb.KindLedge: climb.NewLedgeClimb(spec.LedgeConfig()),
		climb.KindWall:  climb.NewWallClimb(spec.WallConfig()),
	}
	for _, kind := range []climb.Kind{climb.KindLedgeAlt, climb.KindWallAlt} {
		scripted, err := LoadScriptedClimb(spec, kind)
		if err != nil {
			log.Printf("rat: %v", err)
			continue
		}
		if scripted != nil {
			behaviors[kind] = scripted
		}
	}

	list := make([]climb.Behavior, 0, len(behaviors))
	for _, kind := range []climb.Kind{climb.KindLedge, climb.KindLedgeAlt, climb.KindWall, climb.KindWallAlt} {
		if b, ok := behaviors[kind]; ok {
			list = append(list, b)
		}
	}
	gate, err := climb.New(cfg, body, phys, loco, list...)
	if err != nil {
		return nil, fmt.Errorf("rat: climb gate: %w", err)
	}
	return &component.ClimbGate{Gate: gate, Behaviors: behaviors}, nil
}

// LoadScriptedClimb compiles the script registered for kind. It returns nil
// without error when no script is registered.
func LoadScriptedClimb(spec prefabs.RatSpec, kind climb.Kind) (*climb.ScriptedClimb, error) {
	path, ok := spec.ScriptFor(kind)
	if !ok {
		return nil, nil
	}
	src, err := prefabs.LoadScript(path)
	if err != nil {
		return nil, fmt.Errorf("climb script %s: %w", path, err)
	}
	return climb.NewScriptedClimb(kind, path, src)
}

// ApplyRatSpec pushes new tuning into a live rat without rebuilding it.
// Scripts are not recompiled; use RebuildClimbGate for that.
func ApplyRatSpec(w *ecs.World, e ecs.Entity, spec prefabs.RatSpec) error {
	if loco, ok := ecs.Get(w, e, component.LocomotionComponent.Kind()); ok && loco.Controller != nil {
		cfg, err := spec.LocomotionConfig()
		if err != nil {
			return err
		}
		if err := loco.Controller.SetConfig(cfg); err != nil {
			return fmt.Errorf("rat: locomotion: %w", err)
		}
	}
	gate, ok := ecs.Get(w, e, component.ClimbGateComponent.Kind())
	if !ok || gate.Gate == nil {
		return nil
	}
	cfg, err := spec.ClimbConfig()
	if err != nil {
		return err
	}
	if err := gate.Gate.SetConfig(cfg); err != nil {
		return fmt.Errorf("rat: climb gate: %w", err)
	}
	if ledge, ok := gate.Behaviors[climb.KindLedge].(*climb.LedgeClimb); ok {
		ledge.SetConfig(spec.LedgeConfig())
	}
	if wall, ok := gate.Behaviors[climb.KindWall].(*climb.WallClimb); ok {
		wall.SetConfig(spec.WallConfig())
	}
	return nil
}

// RebuildClimbGate replaces the rat's gate, e.g. after a climb script
// changed on disk. It refuses while a climb is in progress.
func RebuildClimbGate(w *ecs.World, e ecs.Entity, phys *physics.World, spec prefabs.RatSpec) error {
	current, ok := ecs.Get(w, e, component.ClimbGateComponent.Kind())
	if !ok {
		return fmt.Errorf("rat: entity %s has no climb gate", e)
	}
	if current.Gate != nil && current.Gate.Climbing() {
		return fmt.Errorf("rat: climb in progress")
	}
	rb, ok := ecs.Get(w, e, component.RigidBodyComponent.Kind())
	if !ok || rb.Body == nil {
		return fmt.Errorf("rat: entity %s has no body", e)
	}
	loco, ok := ecs.Get(w, e, component.LocomotionComponent.Kind())
	if !ok || loco.Controller == nil {
		return fmt.Errorf("rat: entity %s has no locomotion", e)
	}

	next, err := NewClimbGate(spec, rb.Body, phys, loco.Controller)
	if err != nil {
		return err
	}
	*current = *next
	return nil
}
