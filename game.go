package main

import (
	"errors"
	"fmt"
	"log"
	"strings"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/milk9111/ratrun/camera"
	"github.com/milk9111/ratrun/climb"
	"github.com/milk9111/ratrun/ecs"
	"github.com/milk9111/ratrun/ecs/component"
	"github.com/milk9111/ratrun/ecs/entity"
	"github.com/milk9111/ratrun/ecs/system"
	"github.com/milk9111/ratrun/levels"
	"github.com/milk9111/ratrun/locomotion"
	"github.com/milk9111/ratrun/physics"
	"github.com/milk9111/ratrun/prefabs"
)

// Options are the command-line choices NewGame honours. Freedom and Climb
// override the rat prefab when set.
type Options struct {
	Level   string
	Debug   bool
	Freedom string
	Climb   string
}

type Game struct {
	world  *ecs.World
	phys   *physics.World
	sched  *ecs.Scheduler
	input  *system.InputSystem
	debug  *system.DebugSystem
	cam    *camera.Camera
	player ecs.Entity

	ratSpec prefabs.RatSpec
	watcher *prefabs.Watcher

	paused  bool
	quit    bool
	pauseUI *PauseUI
}

func NewGame(opts Options) (*Game, error) {
	worldSpec, err := prefabs.LoadWorldSpec()
	if err != nil {
		return nil, err
	}
	camSpec, err := prefabs.LoadCameraSpec()
	if err != nil {
		return nil, err
	}
	ratSpec, err := prefabs.LoadRatSpec()
	if err != nil {
		return nil, err
	}
	if opts.Freedom != "" {
		ratSpec.Locomotion.Jump.Freedom = opts.Freedom
	}
	if opts.Climb != "" {
		ratSpec.Climb.Active = opts.Climb
	}

	levelName := opts.Level
	if levelName == "" {
		levelName = levels.Default
	}
	lvl, err := levels.LoadLevelFromFS(levelName)
	if err != nil {
		return nil, fmt.Errorf("level %s: %w", levelName, err)
	}

	g := &Game{
		world:   ecs.NewWorld(),
		phys:    physics.NewWorld(worldSpec.Config()),
		input:   system.NewInputSystem(),
		ratSpec: ratSpec,
	}
	g.debug = system.NewDebugSystem(g.phys, opts.Debug)

	if err := entity.LoadLevel(g.world, g.phys, lvl); err != nil {
		return nil, err
	}
	if _, g.cam, err = entity.NewCamera(g.world, camSpec); err != nil {
		return nil, err
	}
	if g.player, err = entity.NewRat(g.world, g.phys, g.cam, ratSpec, lvl.SpawnPosition(), lvl.Spawn.Yaw); err != nil {
		return nil, err
	}

	// climb before locomotion, locomotion forces before the physics step
	g.sched = ecs.NewScheduler(worldSpec.PhysicsHz,
		g.input,
		system.NewClimbSystem(),
		system.NewLocomotionSystem(),
		system.NewPhysicsSystem(g.phys),
		system.NewRespawnSystem(),
		system.NewCameraSystem(),
		system.NewRenderSystem(),
		g.debug,
	)

	if w, err := prefabs.NewWatcher(); err != nil {
		log.Printf("prefab hot reload disabled: %v", err)
	} else {
		g.watcher = w
	}

	g.pauseUI = NewPauseUI(g)
	log.Printf("level %s: %d blocks, physics at %.0f Hz", lvl.Name, len(lvl.Blocks), worldSpec.PhysicsHz)
	return g, nil
}

func (g *Game) Update() error {
	if g.quit {
		g.Close()
		return ebiten.Termination
	}
	g.applyReloads()

	snap := system.ReadInput()
	if snap.PausePressed {
		g.setPaused(!g.paused)
	}
	if g.paused {
		g.pauseUI.Update()
		return nil
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyF3) {
		g.debug.Enabled = !g.debug.Enabled
	}

	g.input.Feed(snap)
	g.sched.Update(g.world, 1/float64(ebiten.TPS()))
	return nil
}

func (g *Game) Draw(screen *ebiten.Image) {
	g.sched.Draw(g.world, screen)
	if g.paused {
		g.pauseUI.Draw(screen)
	}
}

func (g *Game) Layout(outsideWidth, outsideHeight int) (int, int) {
	g.cam.SetScreenSize(outsideWidth, outsideHeight)
	return outsideWidth, outsideHeight
}

func (g *Game) Close() {
	if g.watcher != nil {
		if err := g.watcher.Close(); err != nil {
			log.Printf("close prefab watcher: %v", err)
		}
	}
}

func (g *Game) setPaused(paused bool) {
	g.paused = paused
	if paused {
		g.pauseUI.Refresh()
	}
}

// applyReloads pulls changed prefab names off the watcher and pushes the new
// tuning into the live world. A bad file is logged and the old tuning stays.
func (g *Game) applyReloads() {
	if g.watcher == nil {
		return
	}
	select {
	case err := <-g.watcher.Errors:
		log.Printf("prefab watcher: %v", err)
	default:
	}
	for _, name := range g.watcher.Drain() {
		if err := g.reload(name); err != nil {
			log.Printf("reload %s: %v", name, err)
			continue
		}
		log.Printf("reloaded %s", name)
		g.world.Events().Push(ecs.Event{Kind: ecs.EventReloaded, Entity: g.player, Data: name})
	}
}

func (g *Game) reload(name string) error {
	switch {
	case name == prefabs.RatFile:
		spec, err := prefabs.LoadRatSpec()
		if err != nil {
			return err
		}
		if err := entity.ApplyRatSpec(g.world, g.player, spec); err != nil {
			return err
		}
		g.ratSpec = spec
	case name == prefabs.CameraFile:
		spec, err := prefabs.LoadCameraSpec()
		if err != nil {
			return err
		}
		cfg := spec.Config()
		cur := g.cam.Config()
		cfg.ScreenWidth, cfg.ScreenHeight = cur.ScreenWidth, cur.ScreenHeight
		cfg.BoundsMin, cfg.BoundsMax = cur.BoundsMin, cur.BoundsMax
		g.cam.SetConfig(cfg)
	case name == prefabs.WorldFile:
		spec, err := prefabs.LoadWorldSpec()
		if err != nil {
			return err
		}
		g.phys.SetConfig(spec.Config())
		g.sched.SetRate(spec.PhysicsHz)
	case strings.HasPrefix(name, "scripts/"):
		return entity.RebuildClimbGate(g.world, g.player, g.phys, g.ratSpec)
	default:
		return errors.New("not a tuning file")
	}
	return nil
}

// CycleFreedom switches the rat to the next aerial freedom mode.
func (g *Game) CycleFreedom() locomotion.FreedomMode {
	loco, ok := ecs.Get(g.world, g.player, component.LocomotionComponent.Kind())
	if !ok || loco.Controller == nil {
		return locomotion.FreedomLocked
	}
	next := (loco.Controller.Config().Jump.Freedom + 1) % (locomotion.FreedomFreeMovement + 1)
	spec := g.ratSpec
	spec.Locomotion.Jump.Freedom = next.String()
	if err := entity.ApplyRatSpec(g.world, g.player, spec); err != nil {
		log.Printf("freedom %s: %v", next, err)
		return loco.Controller.Config().Jump.Freedom
	}
	g.ratSpec = spec
	log.Printf("freedom: %s", next)
	return next
}

// CycleClimb switches the active climb kind, including none.
func (g *Game) CycleClimb() climb.Kind {
	gate, ok := ecs.Get(g.world, g.player, component.ClimbGateComponent.Kind())
	if !ok || gate.Gate == nil {
		return climb.KindNone
	}
	next := (gate.Gate.Config().Active + 1) % (climb.KindLedgeAlt + 1)
	spec := g.ratSpec
	spec.Climb.Active = next.String()
	if err := entity.ApplyRatSpec(g.world, g.player, spec); err != nil {
		log.Printf("climb %s: %v", next, err)
		return gate.Gate.Config().Active
	}
	g.ratSpec = spec
	log.Printf("climb: %s", next)
	return next
}

// Tuning renders the rat's current tuning as prefab yaml.
func (g *Game) Tuning() ([]byte, error) {
	return prefabs.MarshalSpec(g.ratSpec)
}
