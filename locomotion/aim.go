package locomotion

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/milk9111/ratrun/physics"
)

// AimHeading returns the world heading, in degrees from +Z toward +X, of the
// pointer relative to the rat on screen. Screen up maps to world +Z.
func (c *Controller) AimHeading(pointerX, pointerY float64) (float64, bool) {
	sx, sy := c.view.WorldToScreen(c.body.Position())
	dx := pointerX - sx
	dy := sy - pointerY
	if dx == 0 && dy == 0 {
		return 0, false
	}
	return mgl64.RadToDeg(math.Atan2(dx, dy)), true
}

// Aim turns the rat toward heading at no more than TurnRate degrees per
// second.
func (c *Controller) Aim(heading, dt float64) {
	current := c.body.Rotation()
	c.state.Heading = heading
	c.state.AimOffset = signedAngle(physics.Yaw(current), heading)

	target := physics.YawRotation(heading)
	c.body.SetRotation(physics.RotateTowards(current, target, c.cfg.TurnRate*dt))
}

// signedAngle returns to-from wrapped into (-180, 180].
func signedAngle(from, to float64) float64 {
	d := math.Mod(to-from, 360)
	if d <= -180 {
		d += 360
	} else if d > 180 {
		d -= 360
	}
	return d
}
