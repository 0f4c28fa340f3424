package world

import (
	"hearthwild.dev/internal/sim/world/feature/entities/ai"
	"hearthwild.dev/internal/sim/world/feature/entities/items"
	"hearthwild.dev/internal/sim/world/feature/entities/projectiles"
	"hearthwild.dev/internal/sim/world/kernel/model"
	"hearthwild.dev/internal/sim/world/terrain/store"
)

const poisonColor = "#a855f7"

// stepEntities runs projectiles and wildlife in every chunk of the view
// radius, relocates whatever crossed a chunk border and ages the drops.
// Vehicles were already integrated earlier in the step.
func (s *Sim) stepEntities(dt float64) {
	p := s.player
	keys := s.store.KeysInRadius(s.store.KeyAt(p.X, p.Y), s.viewRadius())
	env := ai.Env{
		DT:       dt,
		Now:      s.ctx.SimTime,
		Player:   ai.Player{X: p.X, Y: p.Y, Riding: s.ctx.Driving != ""},
		Rand:     s.rng,
		Movement: s.tun.Movement,
		Strike:   s.struck,
	}
	hooks := projectiles.Hooks{
		Recover: func(x, y float64, t model.ItemType) {
			s.spawnDrop(x, y, model.Stack(t, 1), s.tun.Drops.PickupDelay)
		},
		Particles: s.particle,
	}

	var moves []store.Move
	for _, k := range keys {
		c := s.store.Chunk(k)
		if c == nil {
			continue
		}
		pass := append([]*model.Entity(nil), c.Entities...)
		for _, e := range pass {
			if e.Health <= 0 {
				continue
			}
			switch {
			case e.Kind.IsProjectile():
				out := projectiles.Step(e, s.store, s.store.EntitiesAround(k), dt, hooks)
				if out.Killed {
					s.kill(out.Hit)
				}
				if out.Remove {
					s.store.RemoveEntity(k, e.ID)
					continue
				}
			case e.Kind.IsWildlife():
				ai.Step(e, s.store, env)
			}
			moves = append(moves, store.Move{Entity: e, From: k})
		}
	}
	s.store.Relocate(moves)

	pick := items.Hooks{
		PickedUp: func(d *model.DroppedItem) {
			s.invDirty = true
			s.status("Picked up " + s.itemName(d.Type))
		},
		Partial: func(*model.DroppedItem) { s.invDirty = true },
	}
	for _, k := range keys {
		if c := s.store.Chunk(k); c != nil && len(c.Drops) > 0 {
			c.Drops = items.Tick(c.Drops, dt, p, s.tun.MaxStack, s.tun.Drops, pick)
		}
	}
}

// struck applies a wildlife hit to the player.
func (s *Sim) struck(e *model.Entity, damage float64, poison bool) {
	p := s.player
	s.damage(damage, true)
	s.particle(p.X, p.Y, colorHit, 5, 2)
	if poison {
		p.PoisonTimer = s.tun.Hazards.PoisonDuration
		s.particle(p.X, p.Y, poisonColor, 5, 2)
		s.status("You are poisoned!")
	}
}
