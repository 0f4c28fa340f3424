package world

import (
	"testing"

	"hearthwild.dev/internal/sim/catalogs"
	"hearthwild.dev/internal/sim/tuning"
	"hearthwild.dev/internal/sim/world/kernel/model"
	"hearthwild.dev/internal/sim/world/terrain/store"
)

const flatRadius = 3

type recorder struct {
	statuses  []string
	deaths    int
	particles []Particle
	drops     []*model.DroppedItem
}

func (r *recorder) callbacks() Callbacks {
	return Callbacks{
		Status:      func(msg string) { r.statuses = append(r.statuses, msg) },
		Death:       func() { r.deaths++ },
		Particles:   func(p Particle) { r.particles = append(r.particles, p) },
		DropSpawned: func(d *model.DroppedItem) { r.drops = append(r.drops, d) },
	}
}

func (r *recorder) saw(msg string) bool {
	for _, s := range r.statuses {
		if s == msg {
			return true
		}
	}
	return false
}

func loadCatalogs(t *testing.T) *catalogs.Catalogs {
	t.Helper()
	c, err := catalogs.Load("../../../configs")
	if err != nil {
		t.Fatalf("load catalogs: %v", err)
	}
	return c
}

// newFlatSim builds a world of pre-made grass chunks around the origin with
// no objects or wildlife, so nothing but the test touches the player.
func newFlatSim(t *testing.T) (*Sim, *recorder) {
	t.Helper()
	tun := tuning.Defaults()
	tun.MaxStepSec = 0.25
	s := New(Config{Tuning: tun, Catalogs: loadCatalogs(t), RandSeed: 7, SpawnX: 0.5, SpawnY: 0.5}, model.SeedConfig{Seed: 1})
	size := s.store.Size()
	for cy := -flatRadius; cy <= flatRadius; cy++ {
		for cx := -flatRadius; cx <= flatRadius; cx++ {
			k := store.ChunkKey{CX: cx, CY: cy}
			s.store.Chunks[k] = &store.Chunk{
				Key:        k,
				Size:       size,
				Tiles:      make([]model.Tile, size*size),
				Objects:    map[model.LocalKey]model.Tile{},
				Containers: map[model.LocalKey][]*model.ItemStack{},
			}
		}
	}
	rec := &recorder{}
	s.SetCallbacks(rec.callbacks())
	return s, rec
}

func countEntity(s *Sim, id string) (n int, at store.ChunkKey) {
	for k, c := range s.store.Chunks {
		for _, e := range c.Entities {
			if e.ID == id {
				n++
				at = k
			}
		}
	}
	return n, at
}

func dropCount(s *Sim, t model.ItemType) int {
	n := 0
	for _, c := range s.store.Chunks {
		for _, d := range c.Drops {
			if d.Type == t {
				n += d.Count
			}
		}
	}
	return n
}
