package levels

import (
	"embed"
	"encoding/json"
	"fmt"
	"image/color"
	"io/fs"
	"sort"
	"strings"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/milk9111/ratrun/physics"
	"golang.org/x/image/colornames"
)

//go:embed *.json
var LevelsFS embed.FS

// Default is the level loaded when none is named.
const Default = "yard.json"

type Level struct {
	Name   string  `json:"name"`
	Spawn  Spawn   `json:"spawn"`
	Bounds Bounds  `json:"bounds"`
	Blocks []Block `json:"blocks"`
}

type Spawn struct {
	Position [3]float64 `json:"position"`
	Yaw      float64    `json:"yaw"`
}

// Bounds limits the camera on the ground plane (x, z).
type Bounds struct {
	Min [2]float64 `json:"min"`
	Max [2]float64 `json:"max"`
}

type Block struct {
	Min   [3]float64 `json:"min"`
	Max   [3]float64 `json:"max"`
	Layer string     `json:"layer"`
	Color string     `json:"color,omitempty"`
}

func LoadLevelFromFS(name string) (*Level, error) {
	if !strings.HasSuffix(name, ".json") {
		name += ".json"
	}
	data, err := fs.ReadFile(LevelsFS, name)
	if err != nil {
		return nil, fmt.Errorf("read level: %w", err)
	}
	var lvl Level
	if err := json.Unmarshal(data, &lvl); err != nil {
		return nil, fmt.Errorf("unmarshal level: %w", err)
	}
	return &lvl, nil
}

// List returns the embedded level names, sorted.
func List() []string {
	entries, err := fs.ReadDir(LevelsFS, ".")
	if err != nil {
		return nil
	}
	names := make([]string, 0, len(entries))
	for _, e := range entries {
		if !e.IsDir() && strings.HasSuffix(e.Name(), ".json") {
			names = append(names, e.Name())
		}
	}
	sort.Strings(names)
	return names
}

func (l *Level) SpawnPosition() mgl64.Vec3 {
	return mgl64.Vec3(l.Spawn.Position)
}

// PhysicsBlock converts b, rejecting unknown layers.
func (b Block) PhysicsBlock() (physics.Block, error) {
	layer, err := physics.ParseLayers([]string{b.Layer})
	if err != nil {
		return physics.Block{}, err
	}
	return physics.Block{
		Min:   mgl64.Vec3(b.Min),
		Max:   mgl64.Vec3(b.Max),
		Layer: layer,
	}, nil
}

var layerColors = map[string]color.RGBA{
	"ground": colornames.Darkolivegreen,
	"ledge":  colornames.Sienna,
	"wall":   colornames.Slategray,
}

// Fill returns the block's named colour, falling back to one per layer.
func (b Block) Fill() color.RGBA {
	if c, ok := colornames.Map[strings.ToLower(b.Color)]; ok {
		return c
	}
	if c, ok := layerColors[strings.ToLower(b.Layer)]; ok {
		return c
	}
	return colornames.Gray
}
