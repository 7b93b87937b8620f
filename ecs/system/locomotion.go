package system

import (
	"github.com/milk9111/ratrun/ecs"
	"github.com/milk9111/ratrun/ecs/component"
	"github.com/milk9111/ratrun/locomotion"
)

// LocomotionSystem drives every locomotion controller: per-frame work in
// Update, force application in FixedUpdate.
type LocomotionSystem struct{}

func NewLocomotionSystem() *LocomotionSystem {
	return &LocomotionSystem{}
}

func (s *LocomotionSystem) Update(w *ecs.World, dt float64) {
	if w == nil {
		return
	}
	ecs.ForEach2(w, component.LocomotionComponent.Kind(), component.InputComponent.Kind(), func(e ecs.Entity, loco *component.Locomotion, in *component.Input) {
		c := loco.Controller
		if c == nil {
			return
		}
		c.Update(dt, in.Snapshot)

		state := c.State()
		if state.Motion != loco.LastMotion {
			kind := ecs.EventLanded
			var data any
			if state.Motion == locomotion.Airborne {
				kind = ecs.EventJumped
			} else if report, ok := c.LastJump(); ok {
				data = report
			}
			w.Events().Push(ecs.Event{Kind: kind, Entity: e, Data: data})
			loco.LastMotion = state.Motion
		}
		if state.Tier != loco.LastTier {
			w.Events().Push(ecs.Event{Kind: ecs.EventSpeedTier, Entity: e, Data: state.Tier})
			loco.LastTier = state.Tier
		}
	})
}

func (s *LocomotionSystem) FixedUpdate(w *ecs.World, dt float64) {
	if w == nil {
		return
	}
	ecs.ForEach2(w, component.LocomotionComponent.Kind(), component.InputComponent.Kind(), func(_ ecs.Entity, loco *component.Locomotion, in *component.Input) {
		if loco.Controller != nil {
			loco.Controller.FixedUpdate(dt, in.Snapshot)
		}
	})
}
