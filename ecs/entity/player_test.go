package entity

import (
	"testing"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/milk9111/ratrun/camera"
	"github.com/milk9111/ratrun/climb"
	"github.com/milk9111/ratrun/ecs"
	"github.com/milk9111/ratrun/ecs/component"
	"github.com/milk9111/ratrun/levels"
	"github.com/milk9111/ratrun/locomotion"
	"github.com/milk9111/ratrun/physics"
	"github.com/milk9111/ratrun/prefabs"
)

func newRatWorld(t *testing.T) (*ecs.World, *physics.World, ecs.Entity) {
	t.Helper()
	w := ecs.NewWorld()
	phys := physics.NewWorld(physics.DefaultConfig())
	cam := camera.New(camera.DefaultConfig())
	e, err := NewRat(w, phys, cam, prefabs.DefaultRatSpec(), mgl64.Vec3{0, 0, 0}, 0)
	if err != nil {
		t.Fatalf("NewRat: %v", err)
	}
	return w, phys, e
}

func TestNewRatComponents(t *testing.T) {
	w, phys, e := newRatWorld(t)

	checks := []struct {
		name string
		has  bool
	}{
		{"player_tag", ecs.Has(w, e, component.PlayerTagComponent.Kind())},
		{"transform", ecs.Has(w, e, component.TransformComponent.Kind())},
		{"rigid_body", ecs.Has(w, e, component.RigidBodyComponent.Kind())},
		{"input", ecs.Has(w, e, component.InputComponent.Kind())},
		{"locomotion", ecs.Has(w, e, component.LocomotionComponent.Kind())},
		{"climb_gate", ecs.Has(w, e, component.ClimbGateComponent.Kind())},
		{"spawn", ecs.Has(w, e, component.SpawnComponent.Kind())},
	}
	for _, c := range checks {
		if !c.has {
			t.Fatalf("rat missing %s", c.name)
		}
	}
	if len(phys.Bodies()) != 1 {
		t.Fatalf("expected one body, got %d", len(phys.Bodies()))
	}

	gate, _ := ecs.Get(w, e, component.ClimbGateComponent.Kind())
	for _, kind := range []climb.Kind{climb.KindLedge, climb.KindWall, climb.KindLedgeAlt, climb.KindWallAlt} {
		if _, ok := gate.Behaviors[kind]; !ok {
			t.Fatalf("missing %s behaviour", kind)
		}
	}
	if gate.Gate.Climbing() {
		t.Fatalf("new rat should not be climbing")
	}

	loco, _ := ecs.Get(w, e, component.LocomotionComponent.Kind())
	if !loco.Controller.Enabled() || loco.LastTier != loco.Controller.State().Tier {
		t.Fatalf("locomotion not ready: %+v", loco)
	}
}

func TestApplyRatSpec(t *testing.T) {
	w, _, e := newRatWorld(t)

	spec := prefabs.DefaultRatSpec()
	spec.Locomotion.Jump.Freedom = locomotion.FreedomLocked.String()
	spec.Climb.Active = climb.KindWall.String()
	spec.Climb.Wall.ClimbSpeed = 9
	if err := ApplyRatSpec(w, e, spec); err != nil {
		t.Fatalf("ApplyRatSpec: %v", err)
	}

	loco, _ := ecs.Get(w, e, component.LocomotionComponent.Kind())
	if loco.Controller.Config().Jump.Freedom != locomotion.FreedomLocked {
		t.Fatalf("freedom not applied")
	}
	gate, _ := ecs.Get(w, e, component.ClimbGateComponent.Kind())
	if gate.Gate.Config().Active != climb.KindWall {
		t.Fatalf("active kind not applied")
	}

	bad := prefabs.DefaultRatSpec()
	bad.Locomotion.MaxSpeed = -1
	if err := ApplyRatSpec(w, e, bad); err == nil {
		t.Fatalf("expected invalid spec to be rejected")
	}
	if loco.Controller.Config().Jump.Freedom != locomotion.FreedomLocked {
		t.Fatalf("rejected spec changed live tuning")
	}
}

func TestRebuildClimbGate(t *testing.T) {
	w, phys, e := newRatWorld(t)
	gate, _ := ecs.Get(w, e, component.ClimbGateComponent.Kind())
	before := gate.Gate

	spec := prefabs.DefaultRatSpec()
	delete(spec.Climb.Scripts, climb.KindWallAlt.String())
	if err := RebuildClimbGate(w, e, phys, spec); err != nil {
		t.Fatalf("RebuildClimbGate: %v", err)
	}
	gate, _ = ecs.Get(w, e, component.ClimbGateComponent.Kind())
	if gate.Gate == before {
		t.Fatalf("gate was not replaced")
	}
	if _, ok := gate.Behaviors[climb.KindWallAlt]; ok {
		t.Fatalf("unregistered script should leave its kind unavailable")
	}
}

func TestLoadLevel(t *testing.T) {
	lvl, err := levels.LoadLevelFromFS(levels.Default)
	if err != nil {
		t.Fatalf("load level: %v", err)
	}
	w := ecs.NewWorld()
	phys := physics.NewWorld(physics.DefaultConfig())
	if err := LoadLevel(w, phys, lvl); err != nil {
		t.Fatalf("LoadLevel: %v", err)
	}

	blocks := 0
	ecs.ForEach(w, component.BlockComponent.Kind(), func(_ ecs.Entity, b *component.Block) {
		if b.Block == nil {
			t.Fatalf("block entity without physics block")
		}
		blocks++
	})
	if blocks != len(lvl.Blocks) || len(phys.Blocks()) != len(lvl.Blocks) {
		t.Fatalf("blocks = %d entities / %d physics, want %d", blocks, len(phys.Blocks()), len(lvl.Blocks))
	}
	if _, ok := ecs.First(w, component.LevelBoundsComponent.Kind()); !ok {
		t.Fatalf("missing level bounds")
	}

	bad := &levels.Level{Name: "bad", Blocks: []levels.Block{{Max: [3]float64{1, 1, 1}, Layer: "lava"}}}
	if err := LoadLevel(w, phys, bad); err == nil {
		t.Fatalf("expected unknown layer error")
	}

	cases := []struct {
		name    string
		spawn   [3]float64
		wantErr bool
	}{
		{"on_top", [3]float64{0, 1, 0}, false},
		{"inside", [3]float64{0, 0.5, 0}, true},
		{"beside", [3]float64{3, 0, 0}, false},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			lvl := &levels.Level{
				Name:   c.name,
				Spawn:  levels.Spawn{Position: c.spawn},
				Blocks: []levels.Block{{Min: [3]float64{-1, 0, -1}, Max: [3]float64{1, 1, 1}, Layer: "ledge"}},
			}
			err := LoadLevel(ecs.NewWorld(), physics.NewWorld(physics.DefaultConfig()), lvl)
			if (err != nil) != c.wantErr {
				t.Fatalf("LoadLevel err = %v, want error %v", err, c.wantErr)
			}
		})
	}
}

func TestNewCamera(t *testing.T) {
	w := ecs.NewWorld()
	e, cam, err := NewCamera(w, prefabs.DefaultCameraSpec())
	if err != nil {
		t.Fatalf("NewCamera: %v", err)
	}
	comp, ok := ecs.Get(w, e, component.CameraComponent.Kind())
	if !ok || comp.Camera != cam || comp.TargetName != "player" {
		t.Fatalf("camera component = %+v", comp)
	}
}
