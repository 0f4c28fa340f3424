package world

import (
	"hearthwild.dev/internal/sim/world/feature/entities/items"
	"hearthwild.dev/internal/sim/world/feature/entities/vehicles"
	movement "hearthwild.dev/internal/sim/world/feature/movement/runtime"
	"hearthwild.dev/internal/sim/world/feature/survival/fishing"
	"hearthwild.dev/internal/sim/world/feature/survival/growth"
	"hearthwild.dev/internal/sim/world/feature/survival/respawn"
	survival "hearthwild.dev/internal/sim/world/feature/survival/runtime"
	"hearthwild.dev/internal/sim/world/kernel/model"
	"hearthwild.dev/internal/sim/world/logic/ids"
	"hearthwild.dev/internal/sim/world/logic/mathx"
	"hearthwild.dev/internal/sim/world/terrain/store"
)

const exitOffset = 1.0

// Step advances the simulation by dt seconds, clamped to the configured
// maximum step. The order of the phases is fixed.
func (s *Sim) Step(dt float64, in Input) {
	dt = mathx.Clamp(dt, 0, s.tun.MaxStepSec)
	s.ctx.SimTime += dt
	s.particles = s.particles[:0]
	defer s.flush()
	p := s.player

	if p.Dead() {
		s.die()
		return
	}

	s.ensureChunks(in)

	dx, dy := 0.0, 0.0
	if !in.InventoryOpen {
		dx, dy = movement.Intent(in.Keys)
		if in.Run && s.ctx.Driving != "" {
			s.ctx.Driving = ""
			p.X += exitOffset
			s.status("Exited Boat")
		}
		p.Rotation, p.Facing = movement.Aim(in.MouseX, in.MouseY, in.ScreenW, in.ScreenH)
	}
	riding := s.ctx.Driving != ""
	moving := (dx != 0 || dy != 0) && !riding
	running := in.Run && p.Stamina > 0 && moving

	if moving && s.ctx.Fishing != nil {
		s.ctx.Fishing = nil
		s.status("Fishing cancelled")
	}

	gx, gy := mathx.Cell(p.X), mathx.Cell(p.Y)
	under, hasUnder := s.store.Object(gx, gy)
	swimming := s.store.Tile(gx, gy) == model.TileWater && !riding
	if running {
		survival.DrainStamina(p, s.tun.Movement.StaminaDrain, dt)
	}
	speed := movement.PlayerSpeed(movement.SpeedInput{
		Running:  running,
		Charm:    p.Equipment.HasAccessory(model.ItemCharm),
		Swimming: swimming,
		Under:    under,
		HasUnder: hasUnder,
	}, s.tun.Movement, s.tun.Charm.SpeedMultiplier)
	survival.Tick(p, survival.Input{
		DT: dt, Moving: moving, Swimming: swimming, Under: under, HasUnder: hasUnder,
	}, &s.ctx.Hazards, s.tun.Hazards, s.store, survival.Hooks{
		Damage:    s.damage,
		Status:    s.status,
		Particles: s.particle,
		Roll:      s.rng.Float64,
	})

	if moving {
		p.X, p.Y, _, _ = movement.Slide(s.store, p.X, p.Y, dx, dy, speed*dt)
	}

	s.stepVehicles(dt, in)

	if !in.InventoryOpen {
		tx, ty := s.pointerTarget(in)
		if in.LeftDown {
			s.primary(dt, tx, ty)
		} else {
			s.ctx.Breaking = nil
		}
		if s.ctx.PlaceCooldown > 0 {
			s.ctx.PlaceCooldown -= dt
		}
		if in.RightDown && s.ctx.PlaceCooldown <= 0 && s.secondary(tx, ty) {
			s.ctx.PlaceCooldown = s.tun.PlaceCooldown
		}
	} else {
		s.ctx.Breaking = nil
	}

	if s.ctx.Fishing != nil {
		done := fishing.Advance(s.ctx.Fishing, dt, s.tun.FishingSec, p, fishing.Hooks{
			SpawnItem: func(x, y float64, st *model.ItemStack) { s.spawnDrop(x, y, st, s.tun.Drops.PickupDelay) },
			Status:    s.status,
			Particles: s.particle,
			Name:      s.itemName,
			Roll:      s.rng.Float64,
		})
		if done {
			s.ctx.Fishing = nil
			s.invDirty = true
		}
	}

	s.ctx.Saplings = growth.Sweep(s.ctx.Saplings, s.ctx.SimTime, s.tun.GrowthSec, s.store, func(x, y int, _ model.Tile) {
		s.particle(float64(x)+0.5, float64(y)+0.5, "#4ade80", 5, 2)
	})

	s.stepEntities(dt)

	s.scanProximity()

	s.ctx.CamX = p.X*s.tun.TileSize - in.ScreenW/2
	s.ctx.CamY = p.Y*s.tun.TileSize - in.ScreenH/2

	if s.cb.Stats != nil {
		s.cb.Stats(p.Health, p.Stamina)
	}
}

// die runs the death scatter once. Further steps are no-ops until Respawn.
func (s *Sim) die() {
	if s.ctx.Dead {
		return
	}
	s.ctx.Dead = true
	p := s.player
	respawn.Scatter(p, respawn.Hooks{
		SpawnItem: func(x, y float64, st *model.ItemStack) { s.spawnDrop(x, y, st, s.tun.Drops.PickupDelay) },
	})
	s.ctx.Driving = ""
	s.ctx.Breaking = nil
	s.ctx.Fishing = nil
	s.invDirty, s.eqDirty = true, true
	s.status("You Died! Inventory Lost.")
	if s.cb.Death != nil {
		s.cb.Death()
	}
}

func (s *Sim) ensureChunks(in Input) {
	s.view = store.RadiusForViewport(store.Viewport{W: in.ScreenW, H: in.ScreenH, Zoom: in.Zoom}, s.tun.ChunkSize, s.tun.TileSize)
	s.store.EnsureChunksInRadius(s.store.KeyAt(s.player.X, s.player.Y), s.view)
}

// viewRadius is the chunk radius entity updates cover, as sized by the last
// chunk maintenance pass.
func (s *Sim) viewRadius() store.Radius { return s.view }

// pointerTarget projects the pointer through the inverse camera and zoom
// transform into world tiles.
func (s *Sim) pointerTarget(in Input) (float64, float64) {
	zoom := in.Zoom
	if zoom <= 0 {
		zoom = 1
	}
	tx := ((in.MouseX-in.ScreenW/2)/zoom + in.ScreenW/2 + s.ctx.CamX) / s.tun.TileSize
	ty := ((in.MouseY-in.ScreenH/2)/zoom + in.ScreenH/2 + s.ctx.CamY) / s.tun.TileSize
	return tx, ty
}

func (s *Sim) stepVehicles(dt float64, in Input) {
	p := s.player
	for _, k := range s.store.KeysInRadius(s.store.KeyAt(p.X, p.Y), s.viewRadius()) {
		for _, e := range s.store.Chunk(k).Entities {
			if !e.Kind.IsVehicle() {
				continue
			}
			driven := e.ID == s.ctx.Driving
			vehicles.Step(e, s.store, vehicles.Control{Driven: driven, Frozen: in.InventoryOpen, Keys: in.Keys}, dt)
			if driven {
				p.X, p.Y = e.X, e.Y
			}
		}
	}
}

// damage routes every hit on the player through armor.
func (s *Sim) damage(amount float64, discrete bool) {
	_, broke := survival.ApplyDamage(s.player, amount, s.tun.ArmorDivisor, discrete, s.armorDefense)
	if discrete {
		s.eqDirty = true
	}
	for _, t := range broke {
		s.status(s.itemName(t) + " broke!")
	}
}

func (s *Sim) armorDefense(t model.ItemType) (float64, bool) {
	if s.cat == nil {
		return 0, false
	}
	d, ok := s.cat.Item(string(t))
	if !ok || d.Armor == nil {
		return 0, false
	}
	return d.Armor.Defense, true
}

// spawnDrop places a copy of st in the world.
func (s *Sim) spawnDrop(x, y float64, st *model.ItemStack, delay float64) {
	d := items.New(st, x, y, delay, s.tun.Drops)
	if d == nil || !s.store.AddDrop(d) {
		return
	}
	if s.cb.DropSpawned != nil {
		s.cb.DropSpawned(d)
	}
}

// scanProximity looks for a chest and a crafting station in the cells
// around the player.
func (s *Sim) scanProximity() {
	p := s.player
	px, py := mathx.Cell(p.X), mathx.Cell(p.Y)
	r := max(1, s.tun.ProximityRadius)
	chest, station := "", false
	var items []*model.ItemStack
	for cy := py - r; cy <= py+r; cy++ {
		for cx := px - r; cx <= px+r; cx++ {
			obj, ok := s.store.Object(cx, cy)
			if !ok {
				continue
			}
			switch obj {
			case model.TileChest:
				chest = ids.CellKey(cx, cy)
				items = s.store.Container(cx, cy)
			case model.TileCraftingStation:
				station = true
			}
		}
	}
	s.ctx.NearChest, s.ctx.NearStation = chest, station
	if s.cb.ContainerNearby != nil {
		s.cb.ContainerNearby(chest, model.CloneSlots(items))
	}
	if s.cb.StationNearby != nil {
		s.cb.StationNearby(station)
	}
}
