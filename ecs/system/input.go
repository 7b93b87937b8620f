package system

import (
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/milk9111/ratrun/ecs"
	"github.com/milk9111/ratrun/ecs/component"
	"github.com/milk9111/ratrun/input"
)

var speedTierKeys = [...]ebiten.Key{
	ebiten.Key1, ebiten.Key2, ebiten.Key3,
	ebiten.Key4, ebiten.Key5, ebiten.Key6,
}

// ReadInput polls keyboard, mouse and the first gamepad.
func ReadInput() input.Snapshot {
	snap := input.Idle()

	snap.ForwardHeld = ebiten.IsKeyPressed(ebiten.KeyW) || ebiten.IsMouseButtonPressed(ebiten.MouseButtonLeft)
	snap.JumpPressed = inpututil.IsKeyJustPressed(ebiten.KeySpace) || inpututil.IsMouseButtonJustPressed(ebiten.MouseButtonRight)
	snap.RecoverPressed = inpututil.IsKeyJustPressed(ebiten.KeyX)
	snap.ClimbHeld = ebiten.IsKeyPressed(ebiten.KeyE)
	snap.PausePressed = inpututil.IsKeyJustPressed(ebiten.KeyEscape)

	for i, key := range speedTierKeys {
		if inpututil.IsKeyJustPressed(key) {
			snap.SpeedTier = i
			break
		}
	}

	cx, cy := ebiten.CursorPosition()
	snap.PointerX, snap.PointerY = float64(cx), float64(cy)

	if gamepads := ebiten.AppendGamepadIDs(nil); len(gamepads) > 0 {
		id := gamepads[0]
		snap.ForwardHeld = snap.ForwardHeld || ebiten.IsStandardGamepadButtonPressed(id, ebiten.StandardGamepadButtonFrontBottomLeft)
		snap.JumpPressed = snap.JumpPressed || inpututil.IsStandardGamepadButtonJustPressed(id, ebiten.StandardGamepadButtonRightBottom)
		snap.ClimbHeld = snap.ClimbHeld || ebiten.IsStandardGamepadButtonPressed(id, ebiten.StandardGamepadButtonRightLeft)
		snap.RecoverPressed = snap.RecoverPressed || inpututil.IsStandardGamepadButtonJustPressed(id, ebiten.StandardGamepadButtonRightTop)
		snap.PausePressed = snap.PausePressed || inpututil.IsStandardGamepadButtonJustPressed(id, ebiten.StandardGamepadButtonCenterRight)
	}

	return snap
}

// InputSystem copies the frame's snapshot onto every Input component.
type InputSystem struct {
	pending input.Snapshot
}

func NewInputSystem() *InputSystem {
	return &InputSystem{pending: input.Idle()}
}

// Feed sets the snapshot the next Update hands out.
func (i *InputSystem) Feed(snap input.Snapshot) {
	i.pending = snap
}

func (i *InputSystem) Update(w *ecs.World, _ float64) {
	if w == nil {
		return
	}
	snap := i.pending
	ecs.ForEach(w, component.InputComponent.Kind(), func(_ ecs.Entity, in *component.Input) {
		in.Snapshot = snap
	})
	// just-pressed edges are consumed once
	i.pending = input.Idle()
	i.pending.ForwardHeld = snap.ForwardHeld
	i.pending.ClimbHeld = snap.ClimbHeld
	i.pending.PointerX, i.pending.PointerY = snap.PointerX, snap.PointerY
}
