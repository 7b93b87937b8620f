package component

import "github.com/milk9111/ratrun/climb"

// ClimbGate holds the rat's climb gate and the behaviours registered on it,
// keyed by kind so the active one can be swapped at runtime.
type ClimbGate struct {
	Gate        *climb.Gate
	Behaviors   map[climb.Kind]climb.Behavior
	WasClimbing bool
}

var ClimbGateComponent = NewComponent[ClimbGate]()
