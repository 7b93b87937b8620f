// Command jumplab measures the rat's jumps headlessly: it spawns the rat on
// the floor, presses jump once and reports airtime and distance for every
// freedom mode and jump power asked for.
package main

import (
	"flag"
	"fmt"
	"log"
	"strconv"
	"strings"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/milk9111/ratrun/ecs"
	"github.com/milk9111/ratrun/ecs/entity"
	"github.com/milk9111/ratrun/ecs/system"
	"github.com/milk9111/ratrun/input"
	"github.com/milk9111/ratrun/locomotion"
	"github.com/milk9111/ratrun/physics"
	"github.com/milk9111/ratrun/prefabs"
)

const frame = 1.0 / 60

// landings keeps the report of every landed event.
type landings struct {
	reports []locomotion.JumpReport
}

func (l *landings) LateUpdate(w *ecs.World, _ float64) {
	for _, evt := range w.Events().Peek() {
		if evt.Kind != ecs.EventLanded {
			continue
		}
		if report, ok := evt.Data.(locomotion.JumpReport); ok {
			l.reports = append(l.reports, report)
		}
	}
}

type trial struct {
	freedom string
	power   float64
	tier    int
	forward bool
}

func main() {
	freedom := flag.String("freedom", "", "freedom mode to measure; empty measures all of them")
	powers := flag.String("power", "", "comma-separated jump powers; empty uses the prefab value")
	tier := flag.Int("tier", input.NoSpeedTier, "speed tier to select before jumping")
	forward := flag.Bool("forward", true, "hold forward for the whole run")
	maxFrames := flag.Int("frames", 600, "frames to wait for a landing")
	flag.Parse()

	ratSpec, err := prefabs.LoadRatSpec()
	if err != nil {
		log.Fatal(err)
	}
	worldSpec, err := prefabs.LoadWorldSpec()
	if err != nil {
		log.Fatal(err)
	}

	modes := []string{*freedom}
	if *freedom == "" {
		modes = modes[:0]
		for m := locomotion.FreedomLocked; m <= locomotion.FreedomFreeMovement; m++ {
			modes = append(modes, m.String())
		}
	}
	values, err := parsePowers(*powers, ratSpec.Locomotion.Jump.Power)
	if err != nil {
		log.Fatal(err)
	}

	for _, mode := range modes {
		for _, power := range values {
			tr := trial{freedom: mode, power: power, tier: *tier, forward: *forward}
			report, err := run(ratSpec, worldSpec, tr, *maxFrames)
			if err != nil {
				log.Printf("%s power %.2f: %v", mode, power, err)
				continue
			}
			log.Printf("%-14s power %6.2f  airtime %5.2fs  distance %6.2f  end (%.2f, %.2f, %.2f)",
				mode, power, report.Airtime, report.Distance, report.End.X(), report.End.Y(), report.End.Z())
		}
	}
}

func parsePowers(s string, fallback float64) ([]float64, error) {
	if strings.TrimSpace(s) == "" {
		return []float64{fallback}, nil
	}
	var out []float64
	for _, part := range strings.Split(s, ",") {
		v, err := strconv.ParseFloat(strings.TrimSpace(part), 64)
		if err != nil {
			return nil, fmt.Errorf("jump power %q: %w", part, err)
		}
		out = append(out, v)
	}
	return out, nil
}

func run(spec prefabs.RatSpec, worldSpec prefabs.WorldSpec, tr trial, maxFrames int) (locomotion.JumpReport, error) {
	spec.Locomotion.Jump.Freedom = tr.freedom
	spec.Locomotion.Jump.Power = tr.power

	w := ecs.NewWorld()
	phys := physics.NewWorld(worldSpec.Config())
	_, cam, err := entity.NewCamera(w, prefabs.DefaultCameraSpec())
	if err != nil {
		return locomotion.JumpReport{}, err
	}
	if _, err := entity.NewRat(w, phys, cam, spec, mgl64.Vec3{}, 0); err != nil {
		return locomotion.JumpReport{}, err
	}

	seen := &landings{}
	feed := system.NewInputSystem()
	sched := ecs.NewScheduler(worldSpec.PhysicsHz,
		feed,
		system.NewLocomotionSystem(),
		system.NewPhysicsSystem(phys),
		seen,
	)

	snap := input.Idle()
	snap.ForwardHeld = tr.forward
	snap.SpeedTier = tr.tier
	feed.Feed(snap)
	sched.Update(w, frame)

	snap.SpeedTier = input.NoSpeedTier
	snap.JumpPressed = true
	for i := 0; i < maxFrames && len(seen.reports) == 0; i++ {
		feed.Feed(snap)
		sched.Update(w, frame)
		snap.JumpPressed = false
	}
	if len(seen.reports) == 0 {
		return locomotion.JumpReport{}, fmt.Errorf("no landing within %d frames", maxFrames)
	}
	return seen.reports[0], nil
}
