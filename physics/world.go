package physics

import (
	"errors"
	"fmt"
	"math"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/jakecoffman/cp"
)

var (
	ErrInvalidBody  = errors.New("physics: invalid body")
	ErrInvalidBlock = errors.New("physics: invalid block")
)

const (
	collisionTypeBody cp.CollisionType = iota + 1
	collisionTypeBlock
)

// bodyCategory keeps dynamic bodies out of layer-filtered queries.
const bodyCategory uint = 1 << 31

// stepTolerance is how far below a block's top the feet may be while still
// stepping onto it rather than colliding with its side.
const stepTolerance = 0.05

// depenetrationPasses bounds how many overlapping sides are resolved per step.
const depenetrationPasses = 3

// Config holds world tunables.
type Config struct {
	Gravity     float64 `yaml:"gravity"`
	GroundDrag  float64 `yaml:"ground_drag"`
	AirDrag     float64 `yaml:"air_drag"`
	AngularDrag float64 `yaml:"angular_drag"`
	// Floor adds an infinite ground-layer plane at y=0.
	Floor      bool `yaml:"floor"`
	Iterations int  `yaml:"iterations"`
}

// DefaultConfig returns the tunables used when no world prefab is present.
func DefaultConfig() Config {
	return Config{
		Gravity:     -30,
		GroundDrag:  4,
		AirDrag:     0,
		AngularDrag: 0.05,
		Floor:       true,
		Iterations:  10,
	}
}

// Block is a static axis-aligned box.
type Block struct {
	Min   mgl64.Vec3
	Max   mgl64.Vec3
	Layer Layer
}

// Contains reports whether p lies inside the block's footprint and span.
// The top face is excluded: feet resting on it are on the block, not in it.
func (bl *Block) Contains(p mgl64.Vec3) bool {
	return p.X() >= bl.Min.X() && p.X() <= bl.Max.X() &&
		p.Y() >= bl.Min.Y() && p.Y() < bl.Max.Y() &&
		p.Z() >= bl.Min.Z() && p.Z() <= bl.Max.Z()
}

// World is a 2.5D physics scene: a Chipmunk space for the ground plane with
// vertical extents tracked per block and per body.
type World struct {
	cfg    Config
	space  *cp.Space
	bodies []*Body
	blocks []*Block
}

func NewWorld(cfg Config) *World {
	if cfg.Iterations <= 0 {
		cfg.Iterations = 10
	}
	space := cp.NewSpace()
	space.Iterations = uint(cfg.Iterations)
	space.SetGravity(cp.Vector{})

	w := &World{cfg: cfg, space: space}
	w.setupHandlers()
	return w
}

func (w *World) Config() Config {
	return w.cfg
}

// SetConfig swaps tunables in place.
func (w *World) SetConfig(cfg Config) {
	if cfg.Iterations <= 0 {
		cfg.Iterations = w.cfg.Iterations
	}
	w.cfg = cfg
	w.space.Iterations = uint(cfg.Iterations)
}

// Space exposes the ground-plane space for debug drawing.
func (w *World) Space() *cp.Space {
	return w.space
}

func (w *World) Blocks() []*Block {
	return w.blocks
}

func (w *World) Bodies() []*Body {
	return w.bodies
}

// AddBlock adds static geometry.
func (w *World) AddBlock(bl Block) (*Block, error) {
	if bl.Max.X() <= bl.Min.X() || bl.Max.Y() <= bl.Min.Y() || bl.Max.Z() <= bl.Min.Z() {
		return nil, fmt.Errorf("%w: degenerate extents %v..%v", ErrInvalidBlock, bl.Min, bl.Max)
	}
	if bl.Layer == LayerNone {
		return nil, fmt.Errorf("%w: no layer", ErrInvalidBlock)
	}

	block := &bl
	bb := cp.BB{L: bl.Min.X(), B: bl.Min.Z(), R: bl.Max.X(), T: bl.Max.Z()}
	shape := cp.NewBox2(w.space.StaticBody, bb, 0)
	shape.SetFriction(0.8)
	shape.SetCollisionType(collisionTypeBlock)
	shape.SetFilter(cp.NewShapeFilter(cp.NO_GROUP, uint(bl.Layer), cp.ALL_CATEGORIES))
	shape.UserData = block
	w.space.AddShape(shape)

	w.blocks = append(w.blocks, block)
	return block, nil
}

// AddBody creates a dynamic body.
func (w *World) AddBody(def BodyDef) (*Body, error) {
	if def.Radius <= 0 || def.Height <= 0 {
		return nil, fmt.Errorf("%w: radius %.2f height %.2f", ErrInvalidBody, def.Radius, def.Height)
	}
	mass := def.Mass
	if mass <= 0 {
		mass = 1
	}

	// Chipmunk never rotates the body; orientation is integrated here.
	body := cp.NewBody(mass, math.Inf(1))
	body.SetPosition(cp.Vector{X: def.Position.X(), Y: def.Position.Z()})
	shape := cp.NewCircle(body, def.Radius, cp.Vector{})
	shape.SetFriction(def.Friction)
	shape.SetCollisionType(collisionTypeBody)
	shape.SetFilter(cp.NewShapeFilter(cp.NO_GROUP, bodyCategory, cp.ALL_CATEGORIES))
	w.space.AddBody(body)
	w.space.AddShape(shape)

	b := &Body{
		world:        w,
		body:         body,
		shape:        shape,
		radius:       def.Radius,
		height:       def.Height,
		mass:         mass,
		y:            def.Position.Y(),
		gravityScale: 1,
		rotation:     YawRotation(def.Yaw),
		constraints:  def.Constraints,
	}
	shape.UserData = b
	w.bodies = append(w.bodies, b)
	return b, nil
}

// RemoveBody removes a body from the world.
func (w *World) RemoveBody(b *Body) {
	for i, other := range w.bodies {
		if other != b {
			continue
		}
		w.space.RemoveShape(b.shape)
		w.space.RemoveBody(b.body)
		w.bodies = append(w.bodies[:i], w.bodies[i+1:]...)
		b.world = nil
		return
	}
}

// Step advances the simulation by dt seconds.
func (w *World) Step(dt float64) {
	if dt <= 0 {
		return
	}

	prevFeet := make([]float64, len(w.bodies))
	for i, b := range w.bodies {
		prevFeet[i] = b.y
		b.vy += w.cfg.Gravity * b.gravityScale * dt
		drag := w.cfg.AirDrag
		if b.supported {
			drag = w.cfg.GroundDrag
		}
		if drag > 0 {
			v := b.body.Velocity().Mult(math.Max(0, 1-drag*dt))
			b.body.SetVelocityVector(v)
		}
	}

	w.space.Step(dt)

	for i, b := range w.bodies {
		w.depenetrate(b)
		b.y += b.vy * dt
		support, ok := w.supportHeight(b, prevFeet[i])
		b.supported = false
		if ok && b.y <= support {
			b.y = support
			if b.vy < 0 {
				b.vy = 0
			}
			b.supported = true
		}
		b.integrateRotation(dt, w.cfg.AngularDrag)
	}
}

// supportHeight returns the highest surface under the body that it could
// have been standing on or fallen onto since prevFeet.
func (w *World) supportHeight(b *Body, prevFeet float64) (float64, bool) {
	best := math.Inf(-1)
	found := false
	if w.cfg.Floor && prevFeet >= -stepTolerance {
		best, found = 0, true
	}
	pointQuery(w.space, b.body.Position(), b.radius, cp.SHAPE_FILTER_ALL, func(shape *cp.Shape, info cp.PointQueryInfo) {
		block, ok := shape.UserData.(*Block)
		if !ok || info.Distance >= b.radius {
			return
		}
		top := block.Max.Y()
		if top > prevFeet+stepTolerance || top <= best {
			return
		}
		best, found = top, true
	})
	return best, found
}

// depenetrate pushes b out of the block sides it overlaps and drops the
// velocity carrying it inward. Chipmunk moves bodies before it solves their
// contacts, so a velocity rewritten toward a side every step would otherwise
// settle the body inside it.
func (w *World) depenetrate(b *Body) {
	for pass := 0; pass < depenetrationPasses; pass++ {
		center := b.body.Position()
		var push cp.Vector
		pointQuery(w.space, center, b.radius, cp.SHAPE_FILTER_ALL, func(shape *cp.Shape, info cp.PointQueryInfo) {
			block, ok := shape.UserData.(*Block)
			if !ok || !verticalOverlap(b.y, b.y+b.height, block) {
				return
			}
			if depth := b.radius - info.Distance; depth > push.Length() {
				push = info.Gradient.Mult(depth)
			}
		})
		if push.Length() < 1e-9 {
			return
		}
		b.body.SetPosition(center.Add(push))
		n := push.Normalize()
		v := b.body.Velocity()
		if into := v.Dot(n); into < 0 {
			b.body.SetVelocityVector(v.Sub(n.Mult(into)))
		}
	}
}

func (w *World) setupHandlers() {
	handler := w.space.NewCollisionHandler(collisionTypeBody, collisionTypeBlock)
	handler.PreSolveFunc = func(arb *cp.Arbiter, space *cp.Space, userData interface{}) bool {
		shapeA, shapeB := arb.Shapes()
		body, ok := shapeA.UserData.(*Body)
		if !ok {
			body, ok = shapeB.UserData.(*Body)
			if !ok {
				return true
			}
		}
		block, ok := shapeB.UserData.(*Block)
		if !ok {
			block, ok = shapeA.UserData.(*Block)
			if !ok {
				return true
			}
		}
		return verticalOverlap(body.y, body.y+body.height, block)
	}
}

// verticalOverlap reports whether a vertical span [feet, head] intersects the
// block side. Standing on the top does not count.
func verticalOverlap(feet, head float64, block *Block) bool {
	if feet >= block.Max.Y()-stepTolerance {
		return false
	}
	return head > block.Min.Y()
}
