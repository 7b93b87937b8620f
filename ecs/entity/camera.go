package entity

import (
	"fmt"

	"github.com/milk9111/ratrun/camera"
	"github.com/milk9111/ratrun/ecs"
	"github.com/milk9111/ratrun/ecs/component"
	"github.com/milk9111/ratrun/prefabs"
)

func NewCamera(w *ecs.World, spec prefabs.CameraSpec) (ecs.Entity, *camera.Camera, error) {
	cam := camera.New(spec.Config())

	e := ecs.CreateEntity(w)
	if err := ecs.Add(w, e, component.CameraTagComponent.Kind(), &component.CameraTag{}); err != nil {
		return ecs.NoEntity, nil, fmt.Errorf("camera: add camera tag: %w", err)
	}
	if err := ecs.Add(w, e, component.CameraComponent.Kind(), &component.Camera{
		Camera:     cam,
		TargetName: spec.Target,
	}); err != nil {
		return ecs.NoEntity, nil, fmt.Errorf("camera: add camera component: %w", err)
	}
	return e, cam, nil
}
