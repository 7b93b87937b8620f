package climb

import (
	"errors"
	"fmt"
	"log"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/milk9111/ratrun/input"
	"github.com/milk9111/ratrun/physics"
)

var (
	ErrInvalidConfig       = errors.New("climb: invalid config")
	ErrNilLocomotion       = errors.New("climb: nil locomotion")
	ErrMissingCollaborator = errors.New("climb: missing collaborator")
	ErrDuplicateKind       = errors.New("climb: duplicate behaviour kind")
)

// Body is the part of the rigid body the gate and behaviours touch.
type Body interface {
	Position() mgl64.Vec3
	SetPosition(p mgl64.Vec3)
	Velocity() mgl64.Vec3
	SetVelocity(v mgl64.Vec3)
	Forward() mgl64.Vec3
	Constraints() physics.Constraints
	SetConstraints(c physics.Constraints)
	GravityScale() float64
	SetGravityScale(s float64)
}

// Prober runs the forward and upward climb probes.
type Prober interface {
	SphereCast(origin, dir mgl64.Vec3, radius, maxDistance float64, layers physics.Layer) (physics.Hit, bool)
	Raycast(origin, dir mgl64.Vec3, maxDistance float64, layers physics.Layer) (physics.Hit, bool)
}

// Locomotion is the controller the gate switches off while climbing.
type Locomotion interface {
	Enabled() bool
	SetEnabled(enabled bool)
}

type Config struct {
	// ProbeHeight lifts the probe origin above the body's feet.
	ProbeHeight   float64
	ProbeRadius   float64
	ProbeDistance float64
	Layers        physics.Layer
	Active        Kind
}

func DefaultConfig() Config {
	return Config{
		ProbeHeight:   1,
		ProbeRadius:   0.5,
		ProbeDistance: 2,
		Layers:        physics.LayerLedge | physics.LayerWall,
		Active:        KindLedge,
	}
}

func (c Config) Validate() error {
	switch {
	case c.ProbeRadius < 0:
		return fmt.Errorf("%w: probe radius %.2f", ErrInvalidConfig, c.ProbeRadius)
	case c.ProbeDistance <= 0:
		return fmt.Errorf("%w: probe distance %.2f", ErrInvalidConfig, c.ProbeDistance)
	case !c.Active.valid():
		return fmt.Errorf("%w: active kind %d", ErrInvalidConfig, int(c.Active))
	}
	return nil
}

// Gate detects climbable geometry ahead of the rat and swaps locomotion for
// the configured climbing behaviour.
type Gate struct {
	cfg   Config
	body  Body
	probe Prober
	loco  Locomotion

	behaviors map[Kind]Behavior
	order     []Behavior

	touching bool
	hit      physics.Hit

	active       Behavior
	constraints  physics.Constraints
	gravityScale float64
	ctx          Context

	logger *log.Logger
}

func New(cfg Config, body Body, probe Prober, loco Locomotion, behaviors ...Behavior) (*Gate, error) {
	if loco == nil {
		return nil, ErrNilLocomotion
	}
	if body == nil || probe == nil {
		return nil, fmt.Errorf("%w: body and prober are required", ErrMissingCollaborator)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	g := &Gate{
		cfg:       cfg,
		body:      body,
		probe:     probe,
		loco:      loco,
		behaviors: make(map[Kind]Behavior, len(behaviors)),
		logger:    log.Default(),
	}
	for _, b := range behaviors {
		if b == nil {
			continue
		}
		if _, dup := g.behaviors[b.Kind()]; dup {
			return nil, fmt.Errorf("%w: %s", ErrDuplicateKind, b.Kind())
		}
		b.SetEnabled(false)
		g.behaviors[b.Kind()] = b
		g.order = append(g.order, b)
	}
	return g, nil
}

func (g *Gate) SetLogger(l *log.Logger) {
	if l != nil {
		g.logger = l
	}
}

func (g *Gate) Config() Config { return g.cfg }

// SetConfig swaps tuning. A climb in progress keeps its behaviour.
func (g *Gate) SetConfig(cfg Config) error {
	if err := cfg.Validate(); err != nil {
		return err
	}
	g.cfg = cfg
	return nil
}

// Touching reports whether the last probe hit something climbable.
func (g *Gate) Touching() bool { return g.touching }

// LastHit returns the most recent successful probe hit.
func (g *Gate) LastHit() physics.Hit { return g.hit }

// Active returns the behaviour currently in control, if any.
func (g *Gate) Active() (Behavior, bool) {
	return g.active, g.active != nil
}

// Climbing reports whether any registered behaviour holds control.
func (g *Gate) Climbing() bool {
	if g.active != nil {
		return true
	}
	for _, b := range g.order {
		if b.Enabled() || b.Climbing() {
			return true
		}
	}
	return false
}

// Update probes, triggers a climb while the climb key is held, and steps the
// behaviour in control.
func (g *Gate) Update(dt float64, in input.Snapshot) {
	g.Probe()

	if in.ClimbHeld {
		g.Trigger()
	}

	if g.active == nil || !g.active.Enabled() {
		return
	}
	g.ctx = Context{
		Dt:       dt,
		Input:    in,
		Body:     g.body,
		Touching: g.touching,
		Ledge:    g.hit,
		Finish:   g.Release,
	}
	g.active.Update(&g.ctx)
}

// Probe casts forward from ProbeHeight above the feet, falling back to a
// straight upward ray. The contact flag reflects only this call.
func (g *Gate) Probe() bool {
	origin := g.body.Position().Add(mgl64.Vec3{0, g.cfg.ProbeHeight, 0})

	var (
		hit physics.Hit
		ok  bool
	)
	if dir := horizontal(g.body.Forward()); dir.Len() > 0 {
		hit, ok = g.probe.SphereCast(origin, dir, g.cfg.ProbeRadius, g.cfg.ProbeDistance, g.cfg.Layers)
	}
	if !ok {
		hit, ok = g.probe.Raycast(origin, mgl64.Vec3{0, 1, 0}, g.cfg.ProbeDistance, g.cfg.Layers)
	}

	g.touching = ok
	if ok {
		g.hit = hit
	}
	return ok
}

// Trigger starts a climb when touching, not already climbing, and a
// behaviour is registered for the active kind. It reports whether control
// changed hands.
func (g *Gate) Trigger() bool {
	if !g.touching || g.Climbing() || g.cfg.Active == KindNone {
		return false
	}
	b, ok := g.behaviors[g.cfg.Active]
	if !ok {
		return false
	}

	g.loco.SetEnabled(false)
	g.constraints = g.body.Constraints()
	g.gravityScale = g.body.GravityScale()
	g.body.SetConstraints(g.constraints | physics.FreezeRotation)

	b.SetEnabled(true)
	g.active = b
	g.logger.Printf("climb: %s started at (%.2f, %.2f, %.2f)", b.Kind(), g.hit.Point.X(), g.hit.Point.Y(), g.hit.Point.Z())
	return true
}

// Release disables every behaviour and hands control back to locomotion.
func (g *Gate) Release() {
	for _, b := range g.order {
		b.SetEnabled(false)
	}
	if g.active != nil {
		g.body.SetConstraints(g.constraints)
		g.body.SetGravityScale(g.gravityScale)
		g.logger.Printf("climb: %s finished", g.active.Kind())
		g.active = nil
	}
	g.loco.SetEnabled(true)
}
