package component

import "github.com/milk9111/ratrun/locomotion"

type Locomotion struct {
	Controller *locomotion.Controller
	// LastMotion is what the controller reported last frame, for landing
	// and take-off events.
	LastMotion locomotion.MotionState
	LastTier   int
}

var LocomotionComponent = NewComponent[Locomotion]()
