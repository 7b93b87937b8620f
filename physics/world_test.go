package physics

import (
	"errors"
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/jakecoffman/cp"
)

func newTestWorld(t *testing.T, blocks ...Block) *World {
	t.Helper()
	w := NewWorld(DefaultConfig())
	for _, bl := range blocks {
		if _, err := w.AddBlock(bl); err != nil {
			t.Fatalf("add block: %v", err)
		}
	}
	return w
}

func box(minX, minY, minZ, maxX, maxY, maxZ float64, layer Layer) Block {
	return Block{Min: mgl64.Vec3{minX, minY, minZ}, Max: mgl64.Vec3{maxX, maxY, maxZ}, Layer: layer}
}

func TestAddBlockRejectsDegenerate(t *testing.T) {
	w := NewWorld(DefaultConfig())
	cases := []struct {
		name  string
		block Block
	}{
		{"flat", box(0, 0, 0, 1, 0, 1, LayerGround)},
		{"inverted", box(1, 0, 0, 0, 1, 1, LayerGround)},
		{"no_layer", box(0, 0, 0, 1, 1, 1, LayerNone)},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			if _, err := w.AddBlock(c.block); !errors.Is(err, ErrInvalidBlock) {
				t.Fatalf("expected ErrInvalidBlock, got %v", err)
			}
		})
	}
}

func TestAddBodyRejectsInvalid(t *testing.T) {
	w := NewWorld(DefaultConfig())
	if _, err := w.AddBody(BodyDef{Radius: 0, Height: 1}); !errors.Is(err, ErrInvalidBody) {
		t.Fatalf("expected ErrInvalidBody, got %v", err)
	}
}

func TestCheckSphere(t *testing.T) {
	w := newTestWorld(t,
		box(5, 0, -1, 7, 2, 1, LayerGround),
		box(-7, 0, -1, -5, 2, 1, LayerLedge),
	)

	cases := []struct {
		name   string
		center mgl64.Vec3
		radius float64
		layers Layer
		want   bool
	}{
		{"floor_touch", mgl64.Vec3{0, 0.5, 0}, 1, LayerGround, true},
		{"above_floor", mgl64.Vec3{0, 3, 0}, 1, LayerGround, false},
		{"floor_wrong_layer", mgl64.Vec3{0, 0.5, 0}, 1, LayerLedge, false},
		{"block_side", mgl64.Vec3{4.5, 3, 0}, 1.5, LayerGround, true},
		{"block_top", mgl64.Vec3{6, 2.5, 0}, 1, LayerGround, true},
		{"block_out_of_reach", mgl64.Vec3{6, 4, 0}, 1, LayerGround, false},
		{"ledge_layer", mgl64.Vec3{-6, 2.5, 0}, 1, LayerLedge, true},
		{"ledge_masked_out", mgl64.Vec3{-6, 2.5, 0}, 1, LayerWall, false},
		{"no_layers", mgl64.Vec3{0, 0, 0}, 1, LayerNone, false},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			if got := w.CheckSphere(c.center, c.radius, c.layers); got != c.want {
				t.Fatalf("CheckSphere(%v, %.1f, %s) = %v, want %v", c.center, c.radius, c.layers, got, c.want)
			}
		})
	}
}

func TestSphereCast(t *testing.T) {
	w := newTestWorld(t,
		box(-1, 0, 3, 1, 2, 4, LayerLedge),
		box(-1, 5, 10, 1, 6, 11, LayerLedge),
		box(3, 0, 2, 4, 2, 3, LayerWall),
	)
	fwd := mgl64.Vec3{0, 0, 1}

	cases := []struct {
		name     string
		origin   mgl64.Vec3
		dir      mgl64.Vec3
		dist     float64
		layers   Layer
		want     bool
		wantDist float64
	}{
		{"hit_in_front", mgl64.Vec3{0, 1, 0}, fwd, 5, LayerLedge, true, 2.5},
		{"out_of_range", mgl64.Vec3{0, 1, 0}, fwd, 2, LayerLedge, false, 0},
		{"wrong_layer", mgl64.Vec3{0, 1, 0}, fwd, 5, LayerWall, false, 0},
		{"too_high_to_touch", mgl64.Vec3{0, 1, 8}, fwd, 5, LayerLedge, false, 0},
		{"behind", mgl64.Vec3{0, 1, 6}, fwd, 5, LayerLedge, false, 0},
		{"zero_direction", mgl64.Vec3{0, 1, 0}, mgl64.Vec3{}, 5, LayerLedge, false, 0},
		{"already_touching", mgl64.Vec3{0, 1, 2.7}, fwd, 5, LayerLedge, true, 0},
		{"touching_behind", mgl64.Vec3{0, 1, 4.3}, fwd, 5, LayerLedge, false, 0},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			hit, ok := w.SphereCast(c.origin, c.dir, 0.5, c.dist, c.layers)
			if ok != c.want {
				t.Fatalf("SphereCast hit=%v, want %v (hit %+v)", ok, c.want, hit)
			}
			if ok && math.Abs(hit.Distance-c.wantDist) > 0.05 {
				t.Fatalf("distance = %.3f, want %.3f", hit.Distance, c.wantDist)
			}
			if ok && hit.Block == nil {
				t.Fatalf("expected hit block")
			}
		})
	}
}

func TestRaycastUp(t *testing.T) {
	w := newTestWorld(t,
		box(-1, 3, -1, 1, 4, 1, LayerLedge),
		box(-1, 1.5, -1, 1, 2, 1, LayerWall),
	)
	up := mgl64.Vec3{0, 1, 0}

	hit, ok := w.Raycast(mgl64.Vec3{0, 1, 0}, up, 2.5, LayerLedge)
	if !ok {
		t.Fatalf("expected ledge above")
	}
	if math.Abs(hit.Point.Y()-3) > 1e-9 || math.Abs(hit.Distance-2) > 1e-9 {
		t.Fatalf("hit = %+v, want y=3 distance=2", hit)
	}
	if hit.Top() != 4 {
		t.Fatalf("top = %.2f, want 4", hit.Top())
	}

	if _, ok := w.Raycast(mgl64.Vec3{0, 1, 0}, up, 1.5, LayerLedge); ok {
		t.Fatalf("ledge beyond max distance should miss")
	}
	if _, ok := w.Raycast(mgl64.Vec3{3, 1, 0}, up, 5, LayerLedge); ok {
		t.Fatalf("ray outside footprint should miss")
	}

	hit, ok = w.Raycast(mgl64.Vec3{0, 1, 0}, up, 5, LayerLedge|LayerWall)
	if !ok || hit.Block.Layer != LayerWall {
		t.Fatalf("expected nearest block on wall layer, got %+v ok=%v", hit, ok)
	}
}

func TestRaycastDownFindsFloor(t *testing.T) {
	w := newTestWorld(t)
	hit, ok := w.Raycast(mgl64.Vec3{2, 3, 2}, mgl64.Vec3{0, -1, 0}, 5, LayerGround)
	if !ok || hit.Distance != 3 {
		t.Fatalf("expected floor 3 below, got %+v ok=%v", hit, ok)
	}
}

func TestStepFallsToFloor(t *testing.T) {
	w := newTestWorld(t)
	b, err := w.AddBody(BodyDef{Position: mgl64.Vec3{0, 2, 0}, Radius: 0.5, Height: 1, Mass: 1})
	if err != nil {
		t.Fatalf("add body: %v", err)
	}
	for i := 0; i < 120; i++ {
		w.Step(1.0 / 60)
	}
	if !b.Supported() {
		t.Fatalf("body should rest on floor")
	}
	if y := b.Position().Y(); y != 0 {
		t.Fatalf("feet y = %.3f, want 0", y)
	}
	if vy := b.Velocity().Y(); vy != 0 {
		t.Fatalf("vy = %.3f, want 0", vy)
	}
}

func TestStepLandsOnBlock(t *testing.T) {
	w := newTestWorld(t, box(-2, 0, -2, 2, 1, 2, LayerGround))
	b, _ := w.AddBody(BodyDef{Position: mgl64.Vec3{0, 3, 0}, Radius: 0.5, Height: 1})
	for i := 0; i < 120; i++ {
		w.Step(1.0 / 60)
	}
	if y := b.Position().Y(); math.Abs(y-1) > 1e-9 {
		t.Fatalf("feet y = %.3f, want block top 1", y)
	}
}

func TestStepBlockedByWall(t *testing.T) {
	w := newTestWorld(t, box(2, 0, -5, 3, 3, 5, LayerWall))
	b, _ := w.AddBody(BodyDef{Position: mgl64.Vec3{0, 0, 0}, Radius: 0.5, Height: 1})
	for i := 0; i < 120; i++ {
		b.SetVelocity(mgl64.Vec3{5, b.Velocity().Y(), 0})
		w.Step(1.0 / 60)
	}
	if x := b.Position().X(); x > 1.5+1e-6 || x < 1.4 {
		t.Fatalf("body should rest against the wall face: x = %.3f", x)
	}
	if vx := b.Velocity().X(); vx > 1e-6 {
		t.Fatalf("velocity into the wall survived the step: %.3f", vx)
	}
}

func TestStepPushesOutOfSideOverlap(t *testing.T) {
	w := newTestWorld(t, box(2, 0, -5, 3, 3, 5, LayerWall))
	b, _ := w.AddBody(BodyDef{Position: mgl64.Vec3{1.8, 0, 0}, Radius: 0.5, Height: 1})
	w.Step(1.0 / 60)
	if x := b.Position().X(); x > 1.5+1e-6 {
		t.Fatalf("overlapping body not pushed out: x = %.3f", x)
	}
}

func TestPointQueryDistances(t *testing.T) {
	w := newTestWorld(t, box(2, 0, -1, 3, 1, 1, LayerGround))
	cases := []struct {
		name     string
		x        float64
		radius   float64
		wantHit  bool
		wantDist float64
	}{
		{"inside", 2.5, 0.1, true, -0.5},
		{"near", 1.8, 0.5, true, 0.2},
		{"touching", 1.5, 0.5, true, 0.5},
		{"far", 0, 0.5, false, 0},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			var dists []float64
			pointQuery(w.space, cp.Vector{X: c.x, Y: 0}, c.radius, layerFilter(LayerGround), func(_ *cp.Shape, info cp.PointQueryInfo) {
				dists = append(dists, info.Distance)
			})
			if (len(dists) > 0) != c.wantHit {
				t.Fatalf("hit = %v, want %v", dists, c.wantHit)
			}
			if c.wantHit && math.Abs(dists[0]-c.wantDist) > 1e-9 {
				t.Fatalf("distance = %v, want %v", dists[0], c.wantDist)
			}
		})
	}
}

func TestStepPassesOverLowBlock(t *testing.T) {
	w := newTestWorld(t, box(2, 0, -5, 3, 0.5, 5, LayerGround))
	w.cfg.GroundDrag = 0
	b, _ := w.AddBody(BodyDef{Position: mgl64.Vec3{0, 2, 0}, Radius: 0.5, Height: 1})
	b.SetGravityScale(0)
	b.SetVelocity(mgl64.Vec3{5, 0, 0})
	for i := 0; i < 60; i++ {
		w.Step(1.0 / 60)
	}
	if x := b.Position().X(); x < 4 {
		t.Fatalf("body should fly over low block: x = %.3f", x)
	}
}

func TestApplyImpulseScalesByMass(t *testing.T) {
	w := newTestWorld(t)
	b, _ := w.AddBody(BodyDef{Radius: 0.5, Height: 1, Mass: 2})
	b.ApplyImpulse(mgl64.Vec3{4, 2, 0})
	if v := b.Velocity(); !v.ApproxEqual(mgl64.Vec3{2, 1, 0}) {
		t.Fatalf("velocity = %v, want [2 1 0]", v)
	}
}

func TestTorqueRespectsConstraints(t *testing.T) {
	w := newTestWorld(t)
	b, _ := w.AddBody(BodyDef{Radius: 0.5, Height: 1, Constraints: FreezeRotationX})
	b.SetConstraints(b.Constraints() | FreezeRotationZ)
	b.AddRelativeTorque(mgl64.Vec3{1, 1, 1})
	w0 := b.AngularVelocity()
	if w0.X() != 0 || w0.Z() != 0 {
		t.Fatalf("frozen axes spun: %v", w0)
	}
	if w0.Y() == 0 {
		t.Fatalf("free axis did not spin")
	}
}

func TestRotateTowards(t *testing.T) {
	from := YawRotation(0)
	to := YawRotation(90)

	step := RotateTowards(from, to, 30)
	if got := Yaw(step); math.Abs(got-30) > 1e-6 {
		t.Fatalf("yaw after bounded step = %.4f, want 30", got)
	}
	if got := RotateTowards(from, to, 180); math.Abs(Yaw(got)-90) > 1e-6 {
		t.Fatalf("unbounded step should reach target, got %.4f", Yaw(got))
	}
	if got := QuatAngle(from, to); math.Abs(got-90) > 1e-6 {
		t.Fatalf("angle = %.4f, want 90", got)
	}
}

func TestParseLayers(t *testing.T) {
	mask, err := ParseLayers([]string{"ledge", " Wall "})
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if mask != LayerLedge|LayerWall {
		t.Fatalf("mask = %s", mask)
	}
	if _, err := ParseLayers([]string{"lava"}); err == nil {
		t.Fatalf("expected unknown layer error")
	}
}

func TestParseConstraints(t *testing.T) {
	cases := []struct {
		axes []string
		want Constraints
	}{
		{nil, FreezeNone},
		{[]string{"x"}, FreezeRotationX},
		{[]string{"X", "z"}, FreezeRotationX | FreezeRotationZ},
		{[]string{"all"}, FreezeRotation},
	}
	for _, c := range cases {
		got, err := ParseConstraints(c.axes)
		if err != nil || got != c.want {
			t.Fatalf("ParseConstraints(%v) = %s, %v; want %s", c.axes, got, err, c.want)
		}
	}
	if _, err := ParseConstraints([]string{"w"}); err == nil {
		t.Fatalf("expected unknown axis error")
	}
	if s := (FreezeRotationX | FreezeRotationZ).String(); s != "x|z" {
		t.Fatalf("String() = %q", s)
	}
}

func TestBlockContains(t *testing.T) {
	bl := box(0, 0, 0, 2, 1, 2, LayerLedge)
	cases := []struct {
		name string
		p    mgl64.Vec3
		want bool
	}{
		{"inside", mgl64.Vec3{1, 0.5, 1}, true},
		{"bottom_face", mgl64.Vec3{1, 0, 1}, true},
		{"side_face", mgl64.Vec3{2, 0.5, 1}, true},
		{"standing_on_top", mgl64.Vec3{1, 1, 1}, false},
		{"above", mgl64.Vec3{1, 1.5, 1}, false},
		{"outside", mgl64.Vec3{3, 0.5, 1}, false},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			if got := bl.Contains(c.p); got != c.want {
				t.Fatalf("Contains(%v) = %v, want %v", c.p, got, c.want)
			}
		})
	}
}
