package input

// NoSpeedTier marks a snapshot with no speed-tier key pressed.
const NoSpeedTier = -1

// Snapshot is the per-frame input state consumed by behaviours. Pressed
// fields are true only on the frame the key went down; Held fields stay true
// while it is down.
type Snapshot struct {
	// ForwardHeld is W or the left mouse button.
	ForwardHeld bool
	// JumpPressed is Space or the right mouse button.
	JumpPressed bool
	// RecoverPressed forces a grounded re-entry when collision detection breaks.
	RecoverPressed bool
	ClimbHeld      bool
	// SpeedTier is the zero-based tier chosen with the number keys, or NoSpeedTier.
	SpeedTier int

	PointerX float64
	PointerY float64

	PausePressed bool
}

// Idle returns a snapshot with nothing pressed.
func Idle() Snapshot {
	return Snapshot{SpeedTier: NoSpeedTier}
}
