package system

import (
	"fmt"
	"image/color"
	"math"
	"strings"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/vector"
	"github.com/jakecoffman/cp"
	"github.com/milk9111/ratrun/camera"
	"github.com/milk9111/ratrun/climb"
	"github.com/milk9111/ratrun/ecs"
	"github.com/milk9111/ratrun/ecs/component"
	"github.com/milk9111/ratrun/locomotion"
	"github.com/milk9111/ratrun/physics"
)

const (
	debugCircleSegments = 24
	debugDotSize        = 4
	debugEventLines     = 6
)

// DebugSystem overlays physics shapes, the rat's controller state and the
// most recent gameplay events.
type DebugSystem struct {
	Enabled bool
	world   *physics.World
	events  []string
}

func NewDebugSystem(world *physics.World, enabled bool) *DebugSystem {
	return &DebugSystem{Enabled: enabled, world: world}
}

// Events returns the retained event lines, oldest first.
func (d *DebugSystem) Events() []string {
	return d.events
}

func (d *DebugSystem) LateUpdate(w *ecs.World, _ float64) {
	for _, evt := range w.Events().Peek() {
		d.events = append(d.events, describeEvent(evt))
	}
	if extra := len(d.events) - debugEventLines; extra > 0 {
		d.events = append(d.events[:0], d.events[extra:]...)
	}
}

func describeEvent(evt ecs.Event) string {
	switch data := evt.Data.(type) {
	case locomotion.JumpReport:
		return fmt.Sprintf("%s: %.2fs, %.2fm", evt.Kind, data.Airtime, data.Distance)
	case climb.Kind:
		return fmt.Sprintf("%s: %s", evt.Kind, data)
	case int:
		return fmt.Sprintf("%s: %d", evt.Kind, data+1)
	case string:
		return fmt.Sprintf("%s: %s", evt.Kind, data)
	}
	return string(evt.Kind)
}

func (d *DebugSystem) Draw(w *ecs.World, screen *ebiten.Image) {
	if !d.Enabled || w == nil || screen == nil {
		return
	}
	if camComp, ok := activeCamera(w); ok && d.world != nil {
		cp.DrawSpace(d.world.Space(), &physicsDebugDrawer{screen: screen, cam: camComp.Camera})
	}

	var b strings.Builder
	if player, ok := ecs.First(w, component.PlayerTagComponent.Kind()); ok {
		writePlayerState(&b, w, player)
	}
	for _, line := range d.events {
		b.WriteString(line)
		b.WriteByte('\n')
	}
	ebitenutil.DebugPrintAt(screen, b.String(), 10, 10)
}

func writePlayerState(b *strings.Builder, w *ecs.World, player ecs.Entity) {
	if loco, ok := ecs.Get(w, player, component.LocomotionComponent.Kind()); ok && loco.Controller != nil {
		s := loco.Controller.State()
		cfg := loco.Controller.Config()
		fmt.Fprintf(b, "Motion: %s  Freedom: %s\n", s.Motion.Name(), cfg.Jump.Freedom)
		fmt.Fprintf(b, "Tier: %d  Move: %.1f  Max: %.1f\n", s.Tier+1, s.MoveSpeed, s.MaxSpeed)
		fmt.Fprintf(b, "Heading: %.0f  Offset: %.0f  Lockout: %.2f\n", s.Heading, s.AimOffset, s.JumpLockOut)
		if report, ok := loco.Controller.LastJump(); ok {
			fmt.Fprintf(b, "Last jump: %.2fs %.2fm\n", report.Airtime, report.Distance)
		}
	}
	if rb, ok := ecs.Get(w, player, component.RigidBodyComponent.Kind()); ok && rb.Body != nil {
		v := rb.Body.Velocity()
		fmt.Fprintf(b, "Speed: %.2f  Vy: %.2f  Freeze: %s\n", math.Hypot(v.X(), v.Z()), v.Y(), rb.Body.Constraints())
	}
	if gate, ok := ecs.Get(w, player, component.ClimbGateComponent.Kind()); ok && gate.Gate != nil {
		fmt.Fprintf(b, "Climb: %s  Touching: %v  Climbing: %v\n", gate.Gate.Config().Active, gate.Gate.Touching(), gate.Gate.Climbing())
	}
}

// physicsDebugDrawer draws the ground-plane space at height zero.
type physicsDebugDrawer struct {
	screen *ebiten.Image
	cam    *camera.Camera
}

func (d *physicsDebugDrawer) DrawCircle(pos cp.Vector, angle, radius float64, outline, fill cp.FColor, data interface{}) {
	if radius <= 0 {
		return
	}
	d.drawCircle(pos, radius, outline)
	end := cp.Vector{X: pos.X + math.Cos(angle)*radius, Y: pos.Y + math.Sin(angle)*radius}
	d.drawLine(pos, end, outline)
}

func (d *physicsDebugDrawer) DrawSegment(a, b cp.Vector, fill cp.FColor, data interface{}) {
	d.drawLine(a, b, fill)
}

func (d *physicsDebugDrawer) DrawFatSegment(a, b cp.Vector, radius float64, outline, fill cp.FColor, data interface{}) {
	d.drawLine(a, b, outline)
	if radius > 0 {
		d.drawCircle(a, radius, outline)
		d.drawCircle(b, radius, outline)
	}
}

func (d *physicsDebugDrawer) DrawPolygon(count int, verts []cp.Vector, radius float64, outline, fill cp.FColor, data interface{}) {
	if count <= 0 {
		return
	}
	d.drawPolygon(verts[:count], outline)
}

func (d *physicsDebugDrawer) DrawDot(size float64, pos cp.Vector, fill cp.FColor, data interface{}) {
	if size <= 0 {
		size = debugDotSize
	}
	x, y := d.toScreen(pos)
	vector.DrawFilledCircle(d.screen, float32(x), float32(y), float32(size/2), toNRGBA(fill), false)
}

func (d *physicsDebugDrawer) Flags() uint {
	return cp.DRAW_SHAPES | cp.DRAW_COLLISION_POINTS
}

func (d *physicsDebugDrawer) OutlineColor() cp.FColor {
	return cp.FColor{R: 0.2, G: 1, B: 0.2, A: 0.9}
}

func (d *physicsDebugDrawer) ShapeColor(shape *cp.Shape, data interface{}) cp.FColor {
	return cp.FColor{R: 0.1, G: 0.6, B: 0.1, A: 0.5}
}

func (d *physicsDebugDrawer) ConstraintColor() cp.FColor {
	return cp.FColor{R: 1, G: 0.5, B: 0.1, A: 0.9}
}

func (d *physicsDebugDrawer) CollisionPointColor() cp.FColor {
	return cp.FColor{R: 1, G: 0.2, B: 0.2, A: 0.9}
}

func (d *physicsDebugDrawer) Data() interface{} {
	return nil
}

func (d *physicsDebugDrawer) drawLine(a, b cp.Vector, c cp.FColor) {
	x1, y1 := d.toScreen(a)
	x2, y2 := d.toScreen(b)
	vector.StrokeLine(d.screen, float32(x1), float32(y1), float32(x2), float32(y2), 1, toNRGBA(c), false)
}

func (d *physicsDebugDrawer) drawPolygon(verts []cp.Vector, c cp.FColor) {
	for i := range verts {
		d.drawLine(verts[i], verts[(i+1)%len(verts)], c)
	}
}

func (d *physicsDebugDrawer) drawCircle(center cp.Vector, radius float64, c cp.FColor) {
	points := make([]cp.Vector, 0, debugCircleSegments)
	for i := 0; i < debugCircleSegments; i++ {
		t := (2 * math.Pi) * (float64(i) / float64(debugCircleSegments))
		points = append(points, cp.Vector{X: center.X + math.Cos(t)*radius, Y: center.Y + math.Sin(t)*radius})
	}
	d.drawPolygon(points, c)
}

// toScreen maps a space point (x, z) on the ground plane.
func (d *physicsDebugDrawer) toScreen(v cp.Vector) (float64, float64) {
	return d.cam.WorldToScreen(mgl64.Vec3{v.X, 0, v.Y})
}

func toNRGBA(c cp.FColor) color.NRGBA {
	return color.NRGBA{
		R: uint8(clamp01(c.R) * 255),
		G: uint8(clamp01(c.G) * 255),
		B: uint8(clamp01(c.B) * 255),
		A: uint8(clamp01(c.A) * 255),
	}
}

func clamp01(v float32) float32 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
