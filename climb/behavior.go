package climb

import (
	"github.com/go-gl/mathgl/mgl64"
	"github.com/milk9111/ratrun/input"
	"github.com/milk9111/ratrun/physics"
)

// Behavior is a climbing variant the gate can hand control to.
type Behavior interface {
	Kind() Kind
	Enabled() bool
	SetEnabled(enabled bool)
	// Climbing reports whether a climb is in progress.
	Climbing() bool
	Update(ctx *Context)
}

// Context gives a behaviour controlled access to the body and the gate's
// probe for the current frame. Finish hands control back to locomotion.
type Context struct {
	Dt    float64
	Input input.Snapshot
	Body  Body

	Touching bool
	Ledge    physics.Hit

	Finish func()
}

func (c *Context) finish() {
	if c != nil && c.Finish != nil {
		c.Finish()
	}
}

func horizontal(v mgl64.Vec3) mgl64.Vec3 {
	h := mgl64.Vec3{v.X(), 0, v.Z()}
	if h.Len() < 1e-9 {
		return mgl64.Vec3{}
	}
	return h.Normalize()
}
