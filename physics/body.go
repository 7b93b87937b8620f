package physics

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/jakecoffman/cp"
)

var (
	up      = mgl64.Vec3{0, 1, 0}
	forward = mgl64.Vec3{0, 0, 1}
)

// BodyDef describes a dynamic body. Position is the body's feet.
type BodyDef struct {
	Position    mgl64.Vec3
	Yaw         float64 // degrees
	Radius      float64
	Height      float64
	Mass        float64
	Friction    float64
	Constraints Constraints
}

// Body is a dynamic rigid body. Motion on the ground plane is simulated by
// Chipmunk; the vertical axis and orientation are integrated by the World.
type Body struct {
	world *World
	body  *cp.Body
	shape *cp.Shape

	radius float64
	height float64
	mass   float64

	y            float64
	vy           float64
	gravityScale float64
	supported    bool

	rotation    mgl64.Quat
	angVel      mgl64.Vec3
	constraints Constraints
}

// Position returns the world position of the body's feet.
func (b *Body) Position() mgl64.Vec3 {
	p := b.body.Position()
	return mgl64.Vec3{p.X, b.y, p.Y}
}

// SetPosition teleports the body.
func (b *Body) SetPosition(p mgl64.Vec3) {
	b.body.SetPosition(cp.Vector{X: p.X(), Y: p.Z()})
	b.y = p.Y()
}

// Velocity returns the linear velocity.
func (b *Body) Velocity() mgl64.Vec3 {
	v := b.body.Velocity()
	return mgl64.Vec3{v.X, b.vy, v.Y}
}

// SetVelocity overwrites the linear velocity.
func (b *Body) SetVelocity(v mgl64.Vec3) {
	b.body.SetVelocity(v.X(), v.Z())
	b.vy = v.Y()
}

// ApplyImpulse changes velocity by impulse/mass.
func (b *Body) ApplyImpulse(impulse mgl64.Vec3) {
	b.SetVelocity(b.Velocity().Add(impulse.Mul(1 / b.mass)))
}

// Rotation returns the body orientation.
func (b *Body) Rotation() mgl64.Quat {
	return b.rotation
}

// SetRotation overwrites the orientation. Constraints only restrict
// simulated angular motion, not direct writes.
func (b *Body) SetRotation(q mgl64.Quat) {
	b.rotation = q.Normalize()
}

// Forward returns the body's local +Z axis in world space.
func (b *Body) Forward() mgl64.Vec3 {
	return b.rotation.Rotate(forward)
}

// AngularVelocity returns the angular velocity in radians per second.
func (b *Body) AngularVelocity() mgl64.Vec3 {
	return b.angVel
}

// AddRelativeTorque applies an instantaneous torque expressed in body space.
func (b *Body) AddRelativeTorque(torque mgl64.Vec3) {
	world := b.rotation.Rotate(torque)
	b.angVel = b.constrain(b.angVel.Add(world.Mul(1 / b.inertia())))
}

// Constraints returns the rotational constraints.
func (b *Body) Constraints() Constraints {
	return b.constraints
}

// SetConstraints replaces the rotational constraints.
func (b *Body) SetConstraints(c Constraints) {
	b.constraints = c
	b.angVel = b.constrain(b.angVel)
}

// GravityScale returns the body's multiplier on world gravity.
func (b *Body) GravityScale() float64 {
	return b.gravityScale
}

// SetGravityScale scales world gravity for this body; 0 disables it.
func (b *Body) SetGravityScale(s float64) {
	b.gravityScale = s
}

// Supported reports whether the body rested on something after the last step.
func (b *Body) Supported() bool {
	return b.supported
}

func (b *Body) Radius() float64 { return b.radius }

func (b *Body) Height() float64 { return b.height }

func (b *Body) Mass() float64 { return b.mass }

func (b *Body) inertia() float64 {
	// solid sphere
	return 0.4 * b.mass * b.radius * b.radius
}

func (b *Body) constrain(w mgl64.Vec3) mgl64.Vec3 {
	if b.constraints&FreezeRotationX != 0 {
		w[0] = 0
	}
	if b.constraints&FreezeRotationY != 0 {
		w[1] = 0
	}
	if b.constraints&FreezeRotationZ != 0 {
		w[2] = 0
	}
	return w
}

func (b *Body) integrateRotation(dt, drag float64) {
	b.angVel = b.constrain(b.angVel)
	speed := b.angVel.Len()
	if speed < 1e-9 {
		b.angVel = mgl64.Vec3{}
		return
	}
	step := mgl64.QuatRotate(speed*dt, b.angVel.Mul(1/speed))
	b.rotation = step.Mul(b.rotation).Normalize()
	b.angVel = b.angVel.Mul(math.Max(0, 1-drag*dt))
}

// YawRotation returns a rotation of yaw degrees about world up.
func YawRotation(yaw float64) mgl64.Quat {
	return mgl64.QuatRotate(mgl64.DegToRad(yaw), up)
}

// Yaw returns the heading of q in degrees, measured from +Z toward +X.
func Yaw(q mgl64.Quat) float64 {
	f := q.Rotate(forward)
	return mgl64.RadToDeg(math.Atan2(f.X(), f.Z()))
}

// RotateTowards rotates from toward to by at most maxDegrees.
func RotateTowards(from, to mgl64.Quat, maxDegrees float64) mgl64.Quat {
	if from.Dot(to) < 0 {
		to = to.Scale(-1)
	}
	angle := QuatAngle(from, to)
	if angle <= maxDegrees || angle < 1e-9 {
		return to.Normalize()
	}
	return mgl64.QuatSlerp(from, to, maxDegrees/angle).Normalize()
}

// QuatAngle returns the angle in degrees between two rotations.
func QuatAngle(a, b mgl64.Quat) float64 {
	d := math.Min(math.Abs(a.Normalize().Dot(b.Normalize())), 1)
	return mgl64.RadToDeg(2 * math.Acos(d))
}
