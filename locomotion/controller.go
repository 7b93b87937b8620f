package locomotion

import (
	"errors"
	"fmt"
	"log"
	"math"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/milk9111/ratrun/input"
	"github.com/milk9111/ratrun/physics"
)

var ErrMissingCollaborator = errors.New("locomotion: missing collaborator")

// Body is the rigid body the controller drives.
type Body interface {
	Position() mgl64.Vec3
	Velocity() mgl64.Vec3
	SetVelocity(v mgl64.Vec3)
	ApplyImpulse(impulse mgl64.Vec3)
	Rotation() mgl64.Quat
	SetRotation(q mgl64.Quat)
	Forward() mgl64.Vec3
	AddRelativeTorque(torque mgl64.Vec3)
	Constraints() physics.Constraints
	SetConstraints(c physics.Constraints)
}

// GroundProbe answers the proximity query used for landing.
type GroundProbe interface {
	CheckSphere(center mgl64.Vec3, radius float64, layers physics.Layer) bool
}

// Projector maps world positions to screen pixels (y grows downward).
type Projector interface {
	WorldToScreen(p mgl64.Vec3) (x, y float64)
}

// MotionState is grounded or airborne.
type MotionState int

const (
	Grounded MotionState = iota
	Airborne
)

func (s MotionState) Name() string {
	if s == Airborne {
		return "airborne"
	}
	return "grounded"
}

// State is the controller's runtime introspection snapshot.
type State struct {
	Motion      MotionState
	MoveSpeed   float64
	MaxSpeed    float64
	Tier        int
	Grounded    bool
	JumpLockOut float64
	// Heading is the last aim target in degrees; AimOffset is the signed
	// angle from the facing axis to it.
	Heading   float64
	AimOffset float64
}

// Controller moves, aims and jumps the rat.
type Controller struct {
	cfg   Config
	body  Body
	probe GroundProbe
	view  Projector

	enabled             bool
	state               State
	groundedConstraints physics.Constraints

	jump   jumpTracker
	logger *log.Logger
}

func New(cfg Config, body Body, probe GroundProbe, view Projector) (*Controller, error) {
	if body == nil || probe == nil || view == nil {
		return nil, fmt.Errorf("%w: body, ground probe and projector are required", ErrMissingCollaborator)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &Controller{
		cfg:   cfg,
		body:  body,
		probe: probe,
		view:  view,
		state: State{
			Motion:    Grounded,
			MoveSpeed: cfg.MoveSpeed,
			MaxSpeed:  cfg.MaxSpeed,
			Tier:      input.NoSpeedTier,
		},
		enabled:             true,
		groundedConstraints: body.Constraints(),
		logger:              log.Default(),
	}, nil
}

func (c *Controller) SetLogger(l *log.Logger) {
	if l != nil {
		c.logger = l
	}
}

func (c *Controller) Enabled() bool { return c.enabled }

func (c *Controller) SetEnabled(enabled bool) { c.enabled = enabled }

func (c *Controller) State() State { return c.state }

func (c *Controller) Config() Config { return c.cfg }

// SetConfig swaps tuning without resetting runtime state. A selected speed
// tier is re-applied from the new list when it still exists.
func (c *Controller) SetConfig(cfg Config) error {
	if err := cfg.Validate(); err != nil {
		return err
	}
	c.cfg = cfg
	if !c.SelectSpeedTier(c.state.Tier) {
		c.state.Tier = input.NoSpeedTier
		c.state.MoveSpeed = cfg.MoveSpeed
		c.state.MaxSpeed = cfg.MaxSpeed
	}
	return nil
}

// Update runs the per-frame work: ground probe, aim, jump, landing and
// recovery, lockout countdown and speed-tier keys.
func (c *Controller) Update(dt float64, in input.Snapshot) {
	if !c.enabled || dt < 0 {
		return
	}

	c.state.Grounded = c.probe.CheckSphere(c.body.Position(), c.cfg.GroundProbeRadius, c.cfg.GroundLayers)

	if c.canAim() {
		if heading, ok := c.AimHeading(in.PointerX, in.PointerY); ok {
			c.Aim(heading, dt)
		}
	}

	if in.JumpPressed {
		c.Jump()
	}

	if in.RecoverPressed || c.state.Grounded {
		c.Recover()
	}
	c.state.JumpLockOut -= dt

	if in.SpeedTier != input.NoSpeedTier {
		c.SelectSpeedTier(in.SpeedTier)
	}

	if c.state.Motion == Airborne {
		c.jump.advance(dt, c.body.Position(), c.cfg.TelemetryInterval, c.logger)
	}
}

// FixedUpdate runs the per-physics-step work: forward impulse, horizontal
// speed clamp and airborne steering.
func (c *Controller) FixedUpdate(dt float64, in input.Snapshot) {
	if !c.enabled || dt <= 0 {
		return
	}

	grounded := c.state.Motion == Grounded
	freedom := c.cfg.Jump.Freedom

	if grounded || freedom != FreedomLocked {
		if in.ForwardHeld && c.canMove() {
			c.body.ApplyImpulse(c.body.Forward().Mul(c.state.MoveSpeed))
		}
		c.clampHorizontal()
	}

	if !grounded && freedom == FreedomSteerAllowed && in.ForwardHeld {
		v := c.body.Velocity()
		h := horizontal(c.body.Forward()).Mul(c.cfg.Jump.Force)
		c.body.SetVelocity(mgl64.Vec3{h.X(), v.Y(), h.Z()})
	}
}

// Jump launches the rat. It is a no-op while airborne.
func (c *Controller) Jump() bool {
	if c.state.Motion == Airborne {
		return false
	}
	c.state.Motion = Airborne
	c.state.JumpLockOut = c.cfg.Jump.LockOut

	if !c.cfg.Jump.CanSpin {
		c.body.SetConstraints(c.body.Constraints() | physics.FreezeRotationZ)
	}

	h := horizontal(c.body.Forward()).Mul(c.cfg.Jump.Force)
	c.body.SetVelocity(mgl64.Vec3{h.X(), c.cfg.Jump.Power, h.Z()})
	if c.cfg.Jump.SpinTorque.Len() > 0 {
		c.body.AddRelativeTorque(c.cfg.Jump.SpinTorque)
	}

	c.jump.begin(c.body.Position(), c.logger)
	return true
}

// Recover re-enters the grounded state once the jump lockout has expired.
// It reports whether the grounded state was (re)applied.
func (c *Controller) Recover() bool {
	if c.state.JumpLockOut >= 0 {
		return false
	}
	wasAirborne := c.state.Motion == Airborne
	c.state.Motion = Grounded
	c.body.SetConstraints(c.groundedConstraints)
	if wasAirborne {
		c.jump.end(c.body.Position(), c.logger)
	}
	return true
}

// SelectSpeedTier applies tier i; out-of-range indices are ignored.
func (c *Controller) SelectSpeedTier(i int) bool {
	if i < 0 || i >= len(c.cfg.SpeedTiers) {
		return false
	}
	tier := c.cfg.SpeedTiers[i]
	c.state.MoveSpeed = tier.MoveSpeed
	c.state.MaxSpeed = tier.MaxSpeed
	c.state.Tier = i
	return true
}

// LastJump returns the most recent completed jump.
func (c *Controller) LastJump() (JumpReport, bool) {
	return c.jump.last, c.jump.hasLast
}

func (c *Controller) canAim() bool {
	if c.state.Motion == Grounded {
		return true
	}
	f := c.cfg.Jump.Freedom
	return f == FreedomSteerAllowed || f == FreedomFreeMovement
}

func (c *Controller) canMove() bool {
	if c.state.Motion == Grounded {
		return true
	}
	f := c.cfg.Jump.Freedom
	return f == FreedomSpeedControl || f == FreedomFreeMovement
}

func (c *Controller) clampHorizontal() {
	v := c.body.Velocity()
	speed := math.Hypot(v.X(), v.Z())
	if speed <= c.state.MaxSpeed || speed == 0 {
		return
	}
	scale := c.state.MaxSpeed / speed
	c.body.SetVelocity(mgl64.Vec3{v.X() * scale, v.Y(), v.Z() * scale})
}

func horizontal(v mgl64.Vec3) mgl64.Vec3 {
	h := mgl64.Vec3{v.X(), 0, v.Z()}
	if h.Len() < 1e-9 {
		return mgl64.Vec3{}
	}
	return h.Normalize()
}
