package system

import (
	"github.com/milk9111/ratrun/ecs"
	"github.com/milk9111/ratrun/ecs/component"
)

type CameraSystem struct {
	camEntity    ecs.Entity
	targetEntity ecs.Entity
	snapped      bool
}

func NewCameraSystem() *CameraSystem {
	return &CameraSystem{}
}

// LateUpdate follows the target after physics has moved it. The first
// frame with a target snaps instead of easing in from the origin.
func (cs *CameraSystem) LateUpdate(w *ecs.World, _ float64) {
	if w == nil {
		return
	}
	if !ecs.IsAlive(w, cs.camEntity) {
		camEntity, ok := ecs.First(w, component.CameraComponent.Kind())
		if !ok {
			return
		}
		cs.camEntity = camEntity
		cs.snapped = false
	}
	camComp, ok := ecs.Get(w, cs.camEntity, component.CameraComponent.Kind())
	if !ok || camComp.Camera == nil {
		return
	}
	cam := camComp.Camera

	if boundsEntity, ok := ecs.First(w, component.LevelBoundsComponent.Kind()); ok {
		bounds, _ := ecs.Get(w, boundsEntity, component.LevelBoundsComponent.Kind())
		cfg := cam.Config()
		if cfg.BoundsMin != bounds.Min || cfg.BoundsMax != bounds.Max {
			cfg.BoundsMin, cfg.BoundsMax = bounds.Min, bounds.Max
			cam.SetConfig(cfg)
		}
	}

	if !ecs.IsAlive(w, cs.targetEntity) {
		cs.targetEntity = findEntityByNameOrTag(w, camComp.TargetName)
		cs.snapped = false
	}
	target, ok := ecs.Get(w, cs.targetEntity, component.TransformComponent.Kind())
	if !ok {
		return
	}

	if !cs.snapped {
		cam.SnapTo(target.Position)
		cs.snapped = true
		return
	}
	cam.Follow(target.Position)
}

func findEntityByNameOrTag(w *ecs.World, name string) ecs.Entity {
	if name == "player" {
		if e, ok := ecs.First(w, component.PlayerTagComponent.Kind()); ok {
			return e
		}
	}
	return 0
}

// activeCamera returns the first camera in the world.
func activeCamera(w *ecs.World) (*component.Camera, bool) {
	e, ok := ecs.First(w, component.CameraComponent.Kind())
	if !ok {
		return nil, false
	}
	cam, ok := ecs.Get(w, e, component.CameraComponent.Kind())
	if !ok || cam.Camera == nil {
		return nil, false
	}
	return cam, true
}
