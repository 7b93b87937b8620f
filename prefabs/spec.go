package prefabs

import (
	"fmt"

	"gopkg.in/yaml.v3"
)

const (
	RatFile    = "rat.yaml"
	CameraFile = "camera.yaml"
	WorldFile  = "world.yaml"
)

// LoadSpecInto decodes filename over spec, so fields the file omits keep
// the values spec already holds.
func LoadSpecInto[T any](filename string, spec *T) error {
	data, err := Load(filename)
	if err != nil {
		return fmt.Errorf("prefabs: load %s: %w", filename, err)
	}
	if err := DecodeSpecInto(data, spec); err != nil {
		return fmt.Errorf("prefabs: unmarshal %s: %w", filename, err)
	}
	return nil
}

func DecodeSpecInto[T any](data []byte, spec *T) error {
	return yaml.Unmarshal(data, spec)
}

// MarshalSpec renders a spec back to prefab yaml.
func MarshalSpec(spec any) ([]byte, error) {
	data, err := yaml.Marshal(spec)
	if err != nil {
		return nil, fmt.Errorf("prefabs: marshal: %w", err)
	}
	return data, nil
}

type Vec3Spec [3]float64

type CameraSpec struct {
	ScreenWidth  int     `yaml:"screen_width"`
	ScreenHeight int     `yaml:"screen_height"`
	Zoom         float64 `yaml:"zoom"`
	HeightSkew   float64 `yaml:"height_skew"`
	Smooth       float64 `yaml:"smooth"`
	Target       string  `yaml:"target"`
}

func DefaultCameraSpec() CameraSpec {
	return CameraSpec{
		ScreenWidth:  960,
		ScreenHeight: 640,
		Zoom:         48,
		HeightSkew:   16,
		Smooth:       0.15,
		Target:       "player",
	}
}

func LoadCameraSpec() (CameraSpec, error) {
	spec := DefaultCameraSpec()
	err := LoadSpecInto(CameraFile, &spec)
	return spec, err
}

type WorldSpec struct {
	Gravity     float64 `yaml:"gravity"`
	GroundDrag  float64 `yaml:"ground_drag"`
	AirDrag     float64 `yaml:"air_drag"`
	AngularDrag float64 `yaml:"angular_drag"`
	Floor       bool    `yaml:"floor"`
	Iterations  int     `yaml:"iterations"`
	PhysicsHz   float64 `yaml:"physics_hz"`
}

func DefaultWorldSpec() WorldSpec {
	return WorldSpec{
		Gravity:     -30,
		GroundDrag:  4,
		AngularDrag: 0.05,
		Floor:       true,
		Iterations:  10,
		PhysicsHz:   50,
	}
}

func LoadWorldSpec() (WorldSpec, error) {
	spec := DefaultWorldSpec()
	if err := LoadSpecInto(WorldFile, &spec); err != nil {
		return spec, err
	}
	if spec.PhysicsHz <= 0 {
		return spec, fmt.Errorf("prefabs: %s: physics_hz must be positive, got %.2f", WorldFile, spec.PhysicsHz)
	}
	return spec, nil
}
