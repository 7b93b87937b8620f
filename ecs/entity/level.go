package entity

import (
	"fmt"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/milk9111/ratrun/ecs"
	"github.com/milk9111/ratrun/ecs/component"
	"github.com/milk9111/ratrun/levels"
	"github.com/milk9111/ratrun/physics"
)

// LoadLevel adds every block of lvl to the physics world and the ECS world,
// plus one entity carrying the level bounds.
func LoadLevel(w *ecs.World, phys *physics.World, lvl *levels.Level) error {
	for i, b := range lvl.Blocks {
		def, err := b.PhysicsBlock()
		if err != nil {
			return fmt.Errorf("level %s: block %d: %w", lvl.Name, i, err)
		}
		if def.Contains(lvl.SpawnPosition()) {
			return fmt.Errorf("level %s: spawn %v is inside block %d", lvl.Name, lvl.Spawn.Position, i)
		}
		block, err := phys.AddBlock(def)
		if err != nil {
			return fmt.Errorf("level %s: block %d: %w", lvl.Name, i, err)
		}
		e := ecs.CreateEntity(w)
		if err := ecs.Add(w, e, component.BlockComponent.Kind(), &component.Block{Block: block, Fill: b.Fill()}); err != nil {
			return fmt.Errorf("level %s: add block: %w", lvl.Name, err)
		}
	}

	bounds := ecs.CreateEntity(w)
	if err := ecs.Add(w, bounds, component.LevelBoundsComponent.Kind(), &component.LevelBounds{
		Min: mgl64.Vec2(lvl.Bounds.Min),
		Max: mgl64.Vec2(lvl.Bounds.Max),
	}); err != nil {
		return fmt.Errorf("level %s: add bounds: %w", lvl.Name, err)
	}
	return nil
}
