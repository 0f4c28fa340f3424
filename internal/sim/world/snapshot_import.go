package world

import (
	"fmt"
	"math/rand"

	"hearthwild.dev/internal/persistence/snapshot"
	"hearthwild.dev/internal/sim/world/feature/economy/inventory"
	"hearthwild.dev/internal/sim/world/kernel/model"
	"hearthwild.dev/internal/sim/world/terrain/gen"
)

// Import rebuilds a Sim from a decoded save. It never fails: what cannot be
// restored is defaulted and listed in the returned warnings. An empty chunk
// list is valid and regenerates from the seed config.
func Import(cfg Config, sv snapshot.SaveV1) (*Sim, []string) {
	var warns []string
	seed := sv.World.SeedConfig
	if sv.World.SeedMissing {
		seed = gen.RandomSeedConfig(rand.New(rand.NewSource(cfg.RandSeed)))
		warns = append(warns, "seed config missing, generated a new one")
	}
	s := New(cfg, seed)
	warns = append(warns, s.store.ImportChunks(sv.World.TilePalette, sv.World.Chunks)...)

	p := s.player
	sp := sv.Player
	p.X, p.Y = sp.X, sp.Y
	p.Rotation = sp.Rotation
	p.Health = min(sp.Health, p.MaxHealth)
	p.Stamina = min(sp.Stamina, p.MaxStamina)
	p.PoisonTimer = max(0, sp.PoisonTimer)
	p.Inventory = inventory.Pad(model.CloneSlots(sp.Inventory), s.tun.InventorySize)
	if sp.SelectedSlot >= 0 && sp.SelectedSlot < len(p.Inventory) {
		p.SelectedSlot = sp.SelectedSlot
	}
	p.Equipment = sp.Equipment
	if bag := p.Equipment.Bag; bag != nil {
		bag.Contents = inventory.Pad(bag.Contents, s.tun.BackpackSize)
	}

	s.ctx.SimTime = max(0, sv.World.SimTime)
	s.ctx.Saplings = append(s.ctx.Saplings, sv.World.Saplings...)
	s.ctx.CamX, s.ctx.CamY = sv.Camera.X, sv.Camera.Y
	if id := sv.World.Driving; id != "" {
		if _, _, ok := s.store.FindEntity(id); ok {
			s.ctx.Driving = id
		} else {
			warns = append(warns, fmt.Sprintf("ridden vehicle %s not found", id))
		}
	}
	if p.Dead() {
		s.ctx.Dead = true
	}
	return s, warns
}
