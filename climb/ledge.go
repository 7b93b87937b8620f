package climb

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

type LedgeConfig struct {
	LiftSpeed      float64
	MantleSpeed    float64
	MantleDistance float64
	// Timeout ends a climb that stalls, e.g. against a block it cannot mantle.
	Timeout float64
}

func DefaultLedgeConfig() LedgeConfig {
	return LedgeConfig{
		LiftSpeed:      3,
		MantleSpeed:    2,
		MantleDistance: 0.6,
		Timeout:        2,
	}
}

type ledgePhase int

const (
	ledgeIdle ledgePhase = iota
	ledgeLift
	ledgeMantle
)

// LedgeClimb lifts the body to the top of the ledge it is facing and then
// walks it forward onto the surface.
type LedgeClimb struct {
	cfg     LedgeConfig
	kind    Kind
	enabled bool

	phase   ledgePhase
	top     float64
	start   mgl64.Vec3
	elapsed float64
}

func NewLedgeClimb(cfg LedgeConfig) *LedgeClimb {
	return &LedgeClimb{cfg: cfg, kind: KindLedge}
}

func (l *LedgeClimb) Kind() Kind { return l.kind }

func (l *LedgeClimb) Enabled() bool { return l.enabled }

func (l *LedgeClimb) SetEnabled(enabled bool) {
	l.enabled = enabled
	if !enabled {
		l.phase = ledgeIdle
		l.elapsed = 0
	}
}

func (l *LedgeClimb) Climbing() bool { return l.phase != ledgeIdle }

func (l *LedgeClimb) SetConfig(cfg LedgeConfig) { l.cfg = cfg }

func (l *LedgeClimb) Update(ctx *Context) {
	if !l.enabled || ctx == nil || ctx.Body == nil {
		return
	}
	body := ctx.Body

	l.elapsed += ctx.Dt
	if l.cfg.Timeout > 0 && l.elapsed > l.cfg.Timeout {
		body.SetVelocity(mgl64.Vec3{})
		ctx.finish()
		return
	}

	switch l.phase {
	case ledgeIdle:
		l.top = ctx.Ledge.Top()
		l.phase = ledgeLift
		body.SetGravityScale(0)
		fallthrough
	case ledgeLift:
		p := body.Position()
		if p.Y() < l.top {
			body.SetVelocity(mgl64.Vec3{0, l.cfg.LiftSpeed, 0})
			return
		}
		body.SetPosition(mgl64.Vec3{p.X(), l.top, p.Z()})
		l.start = body.Position()
		l.phase = ledgeMantle
		body.SetVelocity(horizontal(body.Forward()).Mul(l.cfg.MantleSpeed))
	case ledgeMantle:
		p := body.Position()
		if math.Hypot(p.X()-l.start.X(), p.Z()-l.start.Z()) >= l.cfg.MantleDistance {
			body.SetVelocity(mgl64.Vec3{})
			ctx.finish()
			return
		}
		body.SetVelocity(horizontal(body.Forward()).Mul(l.cfg.MantleSpeed))
	}
}
