package component

import "github.com/milk9111/ratrun/input"

// Input stores per-frame input state for an entity.
type Input struct {
	input.Snapshot
}

var InputComponent = NewComponent[Input]()
