package gen

import (
	"math/rand"
	"reflect"
	"testing"

	"hearthwild.dev/internal/sim/world/kernel/model"
)

func TestGenerateChunkDeterministic(t *testing.T) {
	cfg := model.SeedConfig{Seed: 1234.5, SeedY: 987.25, Rotation: 1.1, TempOffset: 0.03, MountainOffset: -0.02}
	p := DefaultParams()
	for _, cc := range [][2]int{{0, 0}, {-1, 3}, {7, -9}, {-20, -20}} {
		a := GenerateChunk(cfg, cc[0], cc[1], p)
		b := GenerateChunk(cfg, cc[0], cc[1], p)
		if !reflect.DeepEqual(a.Tiles, b.Tiles) {
			t.Fatalf("chunk %v: tiles differ between runs", cc)
		}
		if !reflect.DeepEqual(a.Objects, b.Objects) {
			t.Fatalf("chunk %v: objects differ between runs", cc)
		}
		if !reflect.DeepEqual(a.Containers, b.Containers) {
			t.Fatalf("chunk %v: containers differ between runs", cc)
		}
		if len(a.Entities) != len(b.Entities) {
			t.Fatalf("chunk %v: entity count differs", cc)
		}
		for i := range a.Entities {
			if *a.Entities[i] != *b.Entities[i] {
				t.Fatalf("chunk %v: entity %d differs", cc, i)
			}
		}
	}
}

func TestDifferentSeedsDiffer(t *testing.T) {
	p := DefaultParams()
	a := GenerateChunk(model.SeedConfig{Seed: 1, SeedY: 2}, 5, 5, p)
	b := GenerateChunk(model.SeedConfig{Seed: 5000, SeedY: 77, Rotation: 2}, 5, 5, p)
	if reflect.DeepEqual(a.Tiles, b.Tiles) && reflect.DeepEqual(a.Objects, b.Objects) {
		t.Fatalf("distinct seed configs produced identical chunks")
	}
}

func TestSpawnAreaIsSafeForAnySeed(t *testing.T) {
	r := rand.New(rand.NewSource(99))
	p := DefaultParams()
	size := p.ChunkSize
	for i := 0; i < 40; i++ {
		cfg := RandomSeedConfig(r)
		for _, cc := range [][2]int{{0, 0}, {-1, 0}, {0, -1}, {-1, -1}} {
			c := GenerateChunk(cfg, cc[0], cc[1], p)
			for ly := 0; ly < size; ly++ {
				for lx := 0; lx < size; lx++ {
					gx, gy := cc[0]*size+lx, cc[1]*size+ly
					if gx*gx+gy*gy >= 25 {
						continue
					}
					tile := c.Tiles[ly*size+lx]
					if tile == model.TileWater || tile.Solid() {
						t.Fatalf("seed %+v: cell (%d,%d) is %s", cfg, gx, gy, tile)
					}
					if obj, ok := c.Objects[model.PackLocal(lx, ly)]; ok {
						t.Fatalf("seed %+v: cell (%d,%d) has object %s", cfg, gx, gy, obj)
					}
				}
			}
			for _, e := range c.Entities {
				if e.X*e.X+e.Y*e.Y < 9 {
					t.Fatalf("wildlife %s spawned at origin (%v,%v)", e.Kind, e.X, e.Y)
				}
			}
		}
	}
}

func TestClassifyThresholds(t *testing.T) {
	cfg := model.SeedConfig{}
	cases := []struct {
		f    Fields
		want model.Tile
	}{
		{Fields{Elevation: 0.9}, model.TileWater},
		{Fields{Elevation: 0.7}, model.TileSand},
		{Fields{Elevation: 0.7, Mountains: 0.6}, model.TileMountain},
		{Fields{Elevation: 0.7, Temperature: -0.5}, model.TileSnow},
		{Fields{Elevation: 0.2, Temperature: 0.3}, model.TileSand},
		{Fields{Elevation: 0.2, Temperature: -0.4}, model.TileSnow},
		{Fields{Elevation: 0.2, Mountains: 0.9, Temperature: 0.3}, model.TileMountain},
		{Fields{Elevation: 0.2}, model.TileGrass},
	}
	for _, c := range cases {
		if got, _ := Classify(cfg, c.f); got != c.want {
			t.Fatalf("Classify(%+v) = %s want %s", c.f, got, c.want)
		}
	}
}

func TestNestChestLootFillsDistinctSlots(t *testing.T) {
	r := rand.New(rand.NewSource(3))
	dur := map[model.ItemType]int{model.ItemIronSword: 200}
	for i := 0; i < 50; i++ {
		loot := nestChestLoot(r, 12, dur)
		if len(loot) != 12 {
			t.Fatalf("loot size %d", len(loot))
		}
		for _, s := range loot {
			if s == nil {
				continue
			}
			if s.Count <= 0 {
				t.Fatalf("empty stack in loot: %+v", s)
			}
			if s.Type == model.ItemIronSword && (s.Durability == nil || *s.Durability != 200) {
				t.Fatalf("looted sword missing durability")
			}
		}
	}
}
