package climb

import "github.com/go-gl/mathgl/mgl64"

type WallConfig struct {
	ClimbSpeed float64
	// Grip is the horizontal speed pressing the body into the wall.
	Grip         float64
	HopSpeed     float64
	JumpOffSpeed float64
}

func DefaultWallConfig() WallConfig {
	return WallConfig{
		ClimbSpeed:   2.5,
		Grip:         0.5,
		HopSpeed:     4,
		JumpOffSpeed: 6,
	}
}

// WallClimb scales the wall ahead while forward is held and clings while it
// is released. It hops onto the top once the feet clear the last seen top and
// kicks off backwards on the jump key.
type WallClimb struct {
	cfg     WallConfig
	kind    Kind
	enabled bool

	climbing bool
	top      float64
}

func NewWallClimb(cfg WallConfig) *WallClimb {
	return &WallClimb{cfg: cfg, kind: KindWall}
}

func (w *WallClimb) Kind() Kind { return w.kind }

func (w *WallClimb) Enabled() bool { return w.enabled }

func (w *WallClimb) SetEnabled(enabled bool) {
	w.enabled = enabled
	if !enabled {
		w.climbing = false
	}
}

func (w *WallClimb) Climbing() bool { return w.climbing }

func (w *WallClimb) SetConfig(cfg WallConfig) { w.cfg = cfg }

func (w *WallClimb) Update(ctx *Context) {
	if !w.enabled || ctx == nil || ctx.Body == nil {
		return
	}
	body := ctx.Body
	if !w.climbing {
		w.climbing = true
		w.top = ctx.Ledge.Top()
		body.SetGravityScale(0)
	}
	if ctx.Touching {
		w.top = ctx.Ledge.Top()
	}

	fwd := horizontal(body.Forward())
	feet := body.Position().Y()

	switch {
	case ctx.Input.JumpPressed:
		v := fwd.Mul(-w.cfg.JumpOffSpeed)
		v[1] = w.cfg.JumpOffSpeed * 0.5
		body.SetVelocity(v)
		ctx.finish()
	case feet >= w.top:
		v := fwd.Mul(w.cfg.HopSpeed)
		v[1] = w.cfg.HopSpeed * 0.5
		body.SetVelocity(v)
		ctx.finish()
	case ctx.Input.ForwardHeld:
		v := fwd.Mul(w.cfg.Grip)
		v[1] = w.cfg.ClimbSpeed
		body.SetVelocity(v)
	default:
		body.SetVelocity(mgl64.Vec3{})
	}
}
