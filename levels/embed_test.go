package levels

import (
	"testing"

	"github.com/milk9111/ratrun/physics"
	"golang.org/x/image/colornames"
)

func TestEmbeddedLevelsBuild(t *testing.T) {
	names := List()
	if len(names) == 0 {
		t.Fatalf("no embedded levels")
	}
	for _, name := range names {
		t.Run(name, func(t *testing.T) {
			lvl, err := LoadLevelFromFS(name)
			if err != nil {
				t.Fatalf("load: %v", err)
			}
			world := physics.NewWorld(physics.DefaultConfig())
			for i, b := range lvl.Blocks {
				pb, err := b.PhysicsBlock()
				if err != nil {
					t.Fatalf("block %d: %v", i, err)
				}
				if _, err := world.AddBlock(pb); err != nil {
					t.Fatalf("block %d: %v", i, err)
				}
				if pb.Contains(lvl.SpawnPosition()) {
					t.Fatalf("spawn inside block %d", i)
				}
			}
			if lvl.Bounds.Min[0] >= lvl.Bounds.Max[0] || lvl.Bounds.Min[1] >= lvl.Bounds.Max[1] {
				t.Fatalf("bad bounds %+v", lvl.Bounds)
			}
		})
	}
}

func TestLoadWithoutExtension(t *testing.T) {
	lvl, err := LoadLevelFromFS("yard")
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if lvl.Name != "yard" {
		t.Fatalf("name = %q", lvl.Name)
	}
	if _, err := LoadLevelFromFS("missing"); err == nil {
		t.Fatalf("expected error for missing level")
	}
}

func TestBlockFill(t *testing.T) {
	cases := []struct {
		block Block
		want  any
	}{
		{Block{Layer: "ledge", Color: "Peru"}, colornames.Peru},
		{Block{Layer: "ledge"}, colornames.Sienna},
		{Block{Layer: "wall", Color: "not-a-colour"}, colornames.Slategray},
		{Block{Layer: "lava"}, colornames.Gray},
	}
	for _, c := range cases {
		if got := c.block.Fill(); got != c.want {
			t.Fatalf("%+v fill = %v, want %v", c.block, got, c.want)
		}
	}
	if _, err := (Block{Layer: "lava"}).PhysicsBlock(); err == nil {
		t.Fatalf("expected unknown layer error")
	}
}
