package system

import (
	"fmt"
	"testing"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/milk9111/ratrun/camera"
	"github.com/milk9111/ratrun/climb"
	"github.com/milk9111/ratrun/ecs"
	"github.com/milk9111/ratrun/ecs/component"
	"github.com/milk9111/ratrun/ecs/entity"
	"github.com/milk9111/ratrun/input"
	"github.com/milk9111/ratrun/locomotion"
	"github.com/milk9111/ratrun/physics"
	"github.com/milk9111/ratrun/prefabs"
)

const frame = 1.0 / 60

type rig struct {
	w     *ecs.World
	phys  *physics.World
	cam   *camera.Camera
	rat   ecs.Entity
	input *InputSystem
	sched *ecs.Scheduler
	seen  *eventRecorder
}

// eventRecorder keeps every event raised while it is scheduled.
type eventRecorder struct {
	kinds []ecs.EventKind
}

func (r *eventRecorder) LateUpdate(w *ecs.World, _ float64) {
	for _, evt := range w.Events().Peek() {
		r.kinds = append(r.kinds, evt.Kind)
	}
}

func (r *eventRecorder) count(kind ecs.EventKind) int {
	n := 0
	for _, k := range r.kinds {
		if k == kind {
			n++
		}
	}
	return n
}

func newRig(t *testing.T, blocks ...physics.Block) *rig {
	t.Helper()
	w := ecs.NewWorld()
	phys := physics.NewWorld(physics.DefaultConfig())
	for _, b := range blocks {
		if _, err := phys.AddBlock(b); err != nil {
			t.Fatalf("add block: %v", err)
		}
	}
	_, cam, err := entity.NewCamera(w, prefabs.DefaultCameraSpec())
	if err != nil {
		t.Fatalf("camera: %v", err)
	}
	rat, err := entity.NewRat(w, phys, cam, prefabs.DefaultRatSpec(), mgl64.Vec3{}, 0)
	if err != nil {
		t.Fatalf("rat: %v", err)
	}

	r := &rig{w: w, phys: phys, cam: cam, rat: rat, input: NewInputSystem(), seen: &eventRecorder{}}
	r.sched = ecs.NewScheduler(50,
		r.input,
		NewClimbSystem(),
		NewLocomotionSystem(),
		NewPhysicsSystem(phys),
		NewRespawnSystem(),
		NewCameraSystem(),
		r.seen,
	)
	return r
}

func (r *rig) step(snap input.Snapshot) {
	r.input.Feed(snap)
	r.sched.Update(r.w, frame)
}

func (r *rig) body() *physics.Body {
	rb, _ := ecs.Get(r.w, r.rat, component.RigidBodyComponent.Kind())
	return rb.Body
}

func (r *rig) controller() *locomotion.Controller {
	loco, _ := ecs.Get(r.w, r.rat, component.LocomotionComponent.Kind())
	return loco.Controller
}

func (r *rig) gate() *component.ClimbGate {
	gate, _ := ecs.Get(r.w, r.rat, component.ClimbGateComponent.Kind())
	return gate
}

func TestInputSystemConsumesEdges(t *testing.T) {
	r := newRig(t)
	snap := input.Idle()
	snap.ForwardHeld = true
	snap.JumpPressed = true
	snap.SpeedTier = 3
	r.input.Feed(snap)

	r.input.Update(r.w, frame)
	in, _ := ecs.Get(r.w, r.rat, component.InputComponent.Kind())
	if !in.ForwardHeld || !in.JumpPressed || in.SpeedTier != 3 {
		t.Fatalf("first frame input = %+v", in.Snapshot)
	}

	r.input.Update(r.w, frame)
	if !in.ForwardHeld || in.JumpPressed || in.SpeedTier != input.NoSpeedTier {
		t.Fatalf("second frame input = %+v", in.Snapshot)
	}
}

func TestJumpAndLandEvents(t *testing.T) {
	r := newRig(t)

	r.step(input.Idle())
	jump := input.Idle()
	jump.JumpPressed = true
	r.step(jump)

	if r.controller().State().Motion != locomotion.Airborne {
		t.Fatalf("expected airborne after jump")
	}
	if r.seen.count(ecs.EventJumped) != 1 {
		t.Fatalf("events = %v", r.seen.kinds)
	}

	for i := 0; i < 240 && r.controller().State().Motion == locomotion.Airborne; i++ {
		r.step(input.Idle())
	}
	if r.controller().State().Motion != locomotion.Grounded {
		t.Fatalf("rat never landed, y=%.2f", r.body().Position().Y())
	}
	if r.seen.count(ecs.EventLanded) != 1 {
		t.Fatalf("events = %v", r.seen.kinds)
	}
	if _, ok := r.controller().LastJump(); !ok {
		t.Fatalf("expected a jump report after landing")
	}
}

func TestSpeedTierEvent(t *testing.T) {
	r := newRig(t)
	snap := input.Idle()
	snap.SpeedTier = 2
	r.step(snap)

	if got := r.controller().State().Tier; got != 2 {
		t.Fatalf("tier = %d", got)
	}
	if r.seen.count(ecs.EventSpeedTier) != 1 {
		t.Fatalf("events = %v", r.seen.kinds)
	}

	// out of range tiers change nothing
	snap.SpeedTier = 9
	r.step(snap)
	if r.controller().State().Tier != 2 || r.seen.count(ecs.EventSpeedTier) != 1 {
		t.Fatalf("out of range tier changed state")
	}
}

func TestLedgeClimbEndToEnd(t *testing.T) {
	ledge := physics.Block{Min: mgl64.Vec3{-1, 0, 0.35}, Max: mgl64.Vec3{1, 1.2, 2}, Layer: physics.LayerLedge}
	r := newRig(t, ledge)

	climbKey := input.Idle()
	climbKey.ClimbHeld = true
	r.step(climbKey)

	if !r.gate().Gate.Climbing() || r.controller().Enabled() {
		t.Fatalf("climb did not take over: climbing=%v loco=%v", r.gate().Gate.Climbing(), r.controller().Enabled())
	}
	if b, ok := r.gate().Gate.Active(); !ok || b.Kind() != climb.KindLedge {
		t.Fatalf("expected ledge behaviour in control")
	}

	for i := 0; i < 180 && r.gate().Gate.Climbing(); i++ {
		r.step(input.Idle())
	}
	for i := 0; i < 10; i++ {
		r.step(input.Idle())
	}

	if r.gate().Gate.Climbing() || !r.controller().Enabled() {
		t.Fatalf("climb never handed back control")
	}
	if y := r.body().Position().Y(); y < ledge.Max.Y()-0.05 {
		t.Fatalf("rat ended at y=%.2f, expected on the ledge top", y)
	}
	if r.body().GravityScale() != 1 || r.body().Constraints() != physics.FreezeRotationX {
		t.Fatalf("body not restored: gravity=%v freeze=%s", r.body().GravityScale(), r.body().Constraints())
	}
	if r.seen.count(ecs.EventClimbStarted) != 1 || r.seen.count(ecs.EventClimbFinished) != 1 {
		t.Fatalf("events = %v", r.seen.kinds)
	}
}

func TestClimbWithoutContactIsNoop(t *testing.T) {
	r := newRig(t)
	climbKey := input.Idle()
	climbKey.ClimbHeld = true
	r.step(climbKey)

	if r.gate().Gate.Climbing() || !r.controller().Enabled() {
		t.Fatalf("climb started without contact")
	}
	if r.seen.count(ecs.EventClimbStarted) != 0 {
		t.Fatalf("events = %v", r.seen.kinds)
	}
}

func TestRespawnBelowKillHeight(t *testing.T) {
	r := newRig(t)
	r.body().SetPosition(mgl64.Vec3{3, -50, 4})
	r.body().SetVelocity(mgl64.Vec3{1, -5, 1})

	NewRespawnSystem().LateUpdate(r.w, frame)

	if p := r.body().Position(); p != (mgl64.Vec3{}) {
		t.Fatalf("respawned at %v", p)
	}
	if v := r.body().Velocity(); v.Len() != 0 {
		t.Fatalf("velocity not cleared: %v", v)
	}
}

func TestCameraSnapsThenFollows(t *testing.T) {
	r := newRig(t)
	r.body().SetPosition(mgl64.Vec3{2, 0, 3})
	r.step(input.Idle())

	center := r.cam.Center()
	pos := r.body().Position()
	if !center.ApproxEqualThreshold(mgl64.Vec3{pos.X(), 0, pos.Z()}, 1e-6) {
		t.Fatalf("camera %v did not snap to %v", center, pos)
	}

	r.body().SetPosition(mgl64.Vec3{6, 0, 3})
	r.step(input.Idle())
	if x := r.cam.Center().X(); x <= center.X() || x >= 6 {
		t.Fatalf("camera should ease toward the rat, got x=%.2f", x)
	}
}

func TestDebugSystemKeepsRecentEvents(t *testing.T) {
	w := ecs.NewWorld()
	d := NewDebugSystem(nil, false)
	for i := 0; i < debugEventLines+3; i++ {
		w.Events().Push(ecs.Event{Kind: ecs.EventSpeedTier, Data: i})
	}
	w.Events().Push(ecs.Event{Kind: ecs.EventClimbStarted, Data: climb.KindWall})
	d.LateUpdate(w, frame)

	lines := d.Events()
	if len(lines) != debugEventLines {
		t.Fatalf("kept %d lines", len(lines))
	}
	if got, want := lines[len(lines)-1], fmt.Sprintf("%s: wall", ecs.EventClimbStarted); got != want {
		t.Fatalf("last line = %q, want %q", got, want)
	}
}
