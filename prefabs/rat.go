package prefabs

import (
	"fmt"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/milk9111/ratrun/camera"
	"github.com/milk9111/ratrun/climb"
	"github.com/milk9111/ratrun/locomotion"
	"github.com/milk9111/ratrun/physics"
)

type RatSpec struct {
	Name       string         `yaml:"name"`
	Body       BodySpec       `yaml:"body"`
	Locomotion LocomotionSpec `yaml:"locomotion"`
	Climb      ClimbSpec      `yaml:"climb"`
}

type BodySpec struct {
	Radius   float64  `yaml:"radius"`
	Height   float64  `yaml:"height"`
	Mass     float64  `yaml:"mass"`
	Friction float64  `yaml:"friction"`
	Freeze   []string `yaml:"freeze"`
}

type SpeedTierSpec struct {
	MoveSpeed float64 `yaml:"move_speed"`
	MaxSpeed  float64 `yaml:"max_speed"`
}

type JumpSpec struct {
	Power      float64  `yaml:"power"`
	Force      float64  `yaml:"force"`
	LockOut    float64  `yaml:"lock_out"`
	SpinTorque Vec3Spec `yaml:"spin_torque,flow"`
	CanSpin    bool     `yaml:"can_spin"`
	Freedom    string   `yaml:"freedom"`
}

type LocomotionSpec struct {
	MoveSpeed         float64         `yaml:"move_speed"`
	MaxSpeed          float64         `yaml:"max_speed"`
	TurnRate          float64         `yaml:"turn_rate"`
	Jump              JumpSpec        `yaml:"jump"`
	SpeedTiers        []SpeedTierSpec `yaml:"speed_tiers"`
	GroundProbeRadius float64         `yaml:"ground_probe_radius"`
	GroundLayers      []string        `yaml:"ground_layers,flow"`
	TelemetryInterval float64         `yaml:"telemetry_interval"`
}

type LedgeClimbSpec struct {
	LiftSpeed      float64 `yaml:"lift_speed"`
	MantleSpeed    float64 `yaml:"mantle_speed"`
	MantleDistance float64 `yaml:"mantle_distance"`
	Timeout        float64 `yaml:"timeout"`
}

type WallClimbSpec struct {
	ClimbSpeed   float64 `yaml:"climb_speed"`
	Grip         float64 `yaml:"grip"`
	HopSpeed     float64 `yaml:"hop_speed"`
	JumpOffSpeed float64 `yaml:"jump_off_speed"`
}

type ClimbSpec struct {
	ProbeHeight   float64           `yaml:"probe_height"`
	ProbeRadius   float64           `yaml:"probe_radius"`
	ProbeDistance float64           `yaml:"probe_distance"`
	Layers        []string          `yaml:"layers,flow"`
	Active        string            `yaml:"active"`
	Ledge         LedgeClimbSpec    `yaml:"ledge"`
	Wall          WallClimbSpec     `yaml:"wall"`
	Scripts       map[string]string `yaml:"scripts"`
}

// DefaultRatSpec mirrors the package defaults so a prefab only needs to list
// what it changes.
func DefaultRatSpec() RatSpec {
	loco := locomotion.DefaultConfig()
	tiers := make([]SpeedTierSpec, 0, len(loco.SpeedTiers))
	for _, t := range loco.SpeedTiers {
		tiers = append(tiers, SpeedTierSpec{MoveSpeed: t.MoveSpeed, MaxSpeed: t.MaxSpeed})
	}
	gate := climb.DefaultConfig()
	ledge := climb.DefaultLedgeConfig()
	wall := climb.DefaultWallConfig()

	return RatSpec{
		Name: "rat",
		Body: BodySpec{
			Radius:   0.3,
			Height:   0.5,
			Mass:     1,
			Friction: 0.6,
			Freeze:   []string{"x"},
		},
		Locomotion: LocomotionSpec{
			MoveSpeed: loco.MoveSpeed,
			MaxSpeed:  loco.MaxSpeed,
			TurnRate:  loco.TurnRate,
			Jump: JumpSpec{
				Power:   loco.Jump.Power,
				Force:   loco.Jump.Force,
				LockOut: loco.Jump.LockOut,
				Freedom: loco.Jump.Freedom.String(),
			},
			SpeedTiers:        tiers,
			GroundProbeRadius: loco.GroundProbeRadius,
			GroundLayers:      []string{"ground"},
			TelemetryInterval: loco.TelemetryInterval,
		},
		Climb: ClimbSpec{
			ProbeHeight:   gate.ProbeHeight,
			ProbeRadius:   gate.ProbeRadius,
			ProbeDistance: gate.ProbeDistance,
			Layers:        []string{"ledge", "wall"},
			Active:        gate.Active.String(),
			Ledge: LedgeClimbSpec{
				LiftSpeed:      ledge.LiftSpeed,
				MantleSpeed:    ledge.MantleSpeed,
				MantleDistance: ledge.MantleDistance,
				Timeout:        ledge.Timeout,
			},
			Wall: WallClimbSpec{
				ClimbSpeed:   wall.ClimbSpeed,
				Grip:         wall.Grip,
				HopSpeed:     wall.HopSpeed,
				JumpOffSpeed: wall.JumpOffSpeed,
			},
			Scripts: map[string]string{
				climb.KindLedgeAlt.String(): "scripts/ledge_alt.tengo",
				climb.KindWallAlt.String():  "scripts/wall_alt.tengo",
			},
		},
	}
}

func LoadRatSpec() (RatSpec, error) {
	spec := DefaultRatSpec()
	err := LoadSpecInto(RatFile, &spec)
	return spec, err
}

func (s RatSpec) BodyDef(position mgl64.Vec3, yaw float64) (physics.BodyDef, error) {
	freeze, err := physics.ParseConstraints(s.Body.Freeze)
	if err != nil {
		return physics.BodyDef{}, fmt.Errorf("prefabs: rat body: %w", err)
	}
	return physics.BodyDef{
		Position:    position,
		Yaw:         yaw,
		Radius:      s.Body.Radius,
		Height:      s.Body.Height,
		Mass:        s.Body.Mass,
		Friction:    s.Body.Friction,
		Constraints: freeze,
	}, nil
}

func (s RatSpec) LocomotionConfig() (locomotion.Config, error) {
	l := s.Locomotion
	freedom, err := locomotion.ParseFreedomMode(l.Jump.Freedom)
	if err != nil {
		return locomotion.Config{}, fmt.Errorf("prefabs: rat locomotion: %w", err)
	}
	layers, err := physics.ParseLayers(l.GroundLayers)
	if err != nil {
		return locomotion.Config{}, fmt.Errorf("prefabs: rat locomotion: %w", err)
	}

	tiers := make([]locomotion.SpeedTier, 0, len(l.SpeedTiers))
	for _, t := range l.SpeedTiers {
		tiers = append(tiers, locomotion.SpeedTier{MoveSpeed: t.MoveSpeed, MaxSpeed: t.MaxSpeed})
	}

	cfg := locomotion.Config{
		MoveSpeed: l.MoveSpeed,
		MaxSpeed:  l.MaxSpeed,
		TurnRate:  l.TurnRate,
		Jump: locomotion.JumpProfile{
			Power:      l.Jump.Power,
			Force:      l.Jump.Force,
			LockOut:    l.Jump.LockOut,
			SpinTorque: mgl64.Vec3(l.Jump.SpinTorque),
			CanSpin:    l.Jump.CanSpin,
			Freedom:    freedom,
		},
		SpeedTiers:        tiers,
		GroundProbeRadius: l.GroundProbeRadius,
		GroundLayers:      layers,
		TelemetryInterval: l.TelemetryInterval,
	}
	if err := cfg.Validate(); err != nil {
		return locomotion.Config{}, fmt.Errorf("prefabs: rat locomotion: %w", err)
	}
	return cfg, nil
}

func (s RatSpec) ClimbConfig() (climb.Config, error) {
	c := s.Climb
	kind, err := climb.ParseKind(c.Active)
	if err != nil {
		return climb.Config{}, fmt.Errorf("prefabs: rat climb: %w", err)
	}
	layers, err := physics.ParseLayers(c.Layers)
	if err != nil {
		return climb.Config{}, fmt.Errorf("prefabs: rat climb: %w", err)
	}
	cfg := climb.Config{
		ProbeHeight:   c.ProbeHeight,
		ProbeRadius:   c.ProbeRadius,
		ProbeDistance: c.ProbeDistance,
		Layers:        layers,
		Active:        kind,
	}
	if err := cfg.Validate(); err != nil {
		return climb.Config{}, fmt.Errorf("prefabs: rat climb: %w", err)
	}
	return cfg, nil
}

func (s RatSpec) LedgeConfig() climb.LedgeConfig {
	l := s.Climb.Ledge
	return climb.LedgeConfig{
		LiftSpeed:      l.LiftSpeed,
		MantleSpeed:    l.MantleSpeed,
		MantleDistance: l.MantleDistance,
		Timeout:        l.Timeout,
	}
}

func (s RatSpec) WallConfig() climb.WallConfig {
	w := s.Climb.Wall
	return climb.WallConfig{
		ClimbSpeed:   w.ClimbSpeed,
		Grip:         w.Grip,
		HopSpeed:     w.HopSpeed,
		JumpOffSpeed: w.JumpOffSpeed,
	}
}

// ScriptFor returns the script path registered for kind.
func (s RatSpec) ScriptFor(kind climb.Kind) (string, bool) {
	path, ok := s.Climb.Scripts[kind.String()]
	return path, ok && path != ""
}

func (s CameraSpec) Config() camera.Config {
	return camera.Config{
		ScreenWidth:  s.ScreenWidth,
		ScreenHeight: s.ScreenHeight,
		Zoom:         s.Zoom,
		HeightSkew:   s.HeightSkew,
		Smooth:       s.Smooth,
	}
}

func (s WorldSpec) Config() physics.Config {
	return physics.Config{
		Gravity:     s.Gravity,
		GroundDrag:  s.GroundDrag,
		AirDrag:     s.AirDrag,
		AngularDrag: s.AngularDrag,
		Floor:       s.Floor,
		Iterations:  s.Iterations,
	}
}
