package system

import (
	"github.com/milk9111/ratrun/ecs"
	"github.com/milk9111/ratrun/ecs/component"
)

// ClimbSystem probes for climbable geometry and runs the active climb. It
// must run before LocomotionSystem so a climb started this frame suppresses
// locomotion immediately.
type ClimbSystem struct{}

func NewClimbSystem() *ClimbSystem {
	return &ClimbSystem{}
}

func (s *ClimbSystem) Update(w *ecs.World, dt float64) {
	if w == nil {
		return
	}
	ecs.ForEach2(w, component.ClimbGateComponent.Kind(), component.InputComponent.Kind(), func(e ecs.Entity, gate *component.ClimbGate, in *component.Input) {
		if gate.Gate == nil {
			return
		}
		gate.Gate.Update(dt, in.Snapshot)

		climbing := gate.Gate.Climbing()
		switch {
		case climbing && !gate.WasClimbing:
			kind := gate.Gate.Config().Active
			if b, ok := gate.Gate.Active(); ok {
				kind = b.Kind()
			}
			w.Events().Push(ecs.Event{Kind: ecs.EventClimbStarted, Entity: e, Data: kind})
		case !climbing && gate.WasClimbing:
			w.Events().Push(ecs.Event{Kind: ecs.EventClimbFinished, Entity: e})
		}
		gate.WasClimbing = climbing
	})
}
