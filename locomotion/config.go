package locomotion

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/milk9111/ratrun/physics"
)

var ErrInvalidConfig = errors.New("locomotion: invalid config")

// FreedomMode controls which inputs are honoured while airborne.
type FreedomMode int

const (
	// FreedomLocked ignores aim and movement until landing.
	FreedomLocked FreedomMode = iota
	// FreedomSteerAllowed honours aim, and holding forward keeps the
	// jump's horizontal speed along the current facing.
	FreedomSteerAllowed
	// FreedomSpeedControl honours forward impulses but not aim.
	FreedomSpeedControl
	// FreedomFreeMovement honours everything.
	FreedomFreeMovement
)

var freedomNames = [...]string{"locked", "steer_allowed", "speed_control", "free_movement"}

func (m FreedomMode) String() string {
	if m < 0 || int(m) >= len(freedomNames) {
		return fmt.Sprintf("FreedomMode(%d)", int(m))
	}
	return freedomNames[m]
}

func (m FreedomMode) valid() bool {
	return m >= FreedomLocked && m <= FreedomFreeMovement
}

// ParseFreedomMode accepts the snake_case names used in prefabs.
func ParseFreedomMode(s string) (FreedomMode, error) {
	key := strings.ToLower(strings.TrimSpace(s))
	key = strings.ReplaceAll(key, "-", "_")
	for i, n := range freedomNames {
		if n == key || strings.ReplaceAll(n, "_", "") == key {
			return FreedomMode(i), nil
		}
	}
	return FreedomLocked, fmt.Errorf("%w: unknown freedom mode %q", ErrInvalidConfig, s)
}

// SpeedTier is a (move speed, max speed) pair selectable at runtime.
type SpeedTier struct {
	MoveSpeed float64
	MaxSpeed  float64
}

// JumpProfile configures the jump impulse and aerial behaviour.
type JumpProfile struct {
	// Power is the vertical take-off speed.
	Power float64
	// Force is the horizontal take-off speed along the facing axis.
	Force float64
	// LockOut is how long after take-off grounded re-entry is refused.
	LockOut float64
	// SpinTorque is applied once, in body space, at take-off.
	SpinTorque mgl64.Vec3
	// CanSpin leaves rotation about Z unfrozen while airborne.
	CanSpin bool
	Freedom FreedomMode
}

// Config is the controller's immutable tuning.
type Config struct {
	MoveSpeed float64
	MaxSpeed  float64
	// TurnRate is the aim rotation limit in degrees per second.
	TurnRate float64
	Jump     JumpProfile

	SpeedTiers []SpeedTier

	GroundProbeRadius float64
	GroundLayers      physics.Layer

	// TelemetryInterval is the airtime between jump distance log lines.
	TelemetryInterval float64
}

func DefaultConfig() Config {
	return Config{
		MoveSpeed: 2,
		MaxSpeed:  8,
		TurnRate:  540,
		Jump: JumpProfile{
			Power:   9,
			Force:   6,
			LockOut: 0.3,
			Freedom: FreedomLocked,
		},
		SpeedTiers: []SpeedTier{
			{MoveSpeed: 1, MaxSpeed: 4},
			{MoveSpeed: 2, MaxSpeed: 8},
			{MoveSpeed: 3, MaxSpeed: 12},
			{MoveSpeed: 4, MaxSpeed: 16},
			{MoveSpeed: 5, MaxSpeed: 20},
			{MoveSpeed: 6, MaxSpeed: 24},
		},
		GroundProbeRadius: 0.2,
		GroundLayers:      physics.LayerGround,
		TelemetryInterval: 0.5,
	}
}

// Validate reports the first invalid field.
func (c Config) Validate() error {
	switch {
	case c.MoveSpeed <= 0:
		return fmt.Errorf("%w: move speed %.2f", ErrInvalidConfig, c.MoveSpeed)
	case c.MaxSpeed <= 0:
		return fmt.Errorf("%w: max speed %.2f", ErrInvalidConfig, c.MaxSpeed)
	case c.TurnRate < 0:
		return fmt.Errorf("%w: turn rate %.2f", ErrInvalidConfig, c.TurnRate)
	case c.Jump.LockOut < 0:
		return fmt.Errorf("%w: jump lockout %.2f", ErrInvalidConfig, c.Jump.LockOut)
	case !c.Jump.Freedom.valid():
		return fmt.Errorf("%w: freedom mode %d", ErrInvalidConfig, int(c.Jump.Freedom))
	case c.GroundProbeRadius < 0:
		return fmt.Errorf("%w: ground probe radius %.2f", ErrInvalidConfig, c.GroundProbeRadius)
	}
	for i, tier := range c.SpeedTiers {
		if tier.MoveSpeed <= 0 || tier.MaxSpeed <= 0 || tier.MoveSpeed > tier.MaxSpeed {
			return fmt.Errorf("%w: speed tier %d (%.2f, %.2f)", ErrInvalidConfig, i, tier.MoveSpeed, tier.MaxSpeed)
		}
	}
	return nil
}
