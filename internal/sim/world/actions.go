package world

import (
	"errors"

	"hearthwild.dev/internal/sim/world/feature/combat"
	"hearthwild.dev/internal/sim/world/feature/economy/inventory"
	"hearthwild.dev/internal/sim/world/feature/entities/ai"
	"hearthwild.dev/internal/sim/world/feature/entities/projectiles"
	"hearthwild.dev/internal/sim/world/feature/entities/vehicles"
	"hearthwild.dev/internal/sim/world/feature/survival/fishing"
	"hearthwild.dev/internal/sim/world/feature/survival/growth"
	"hearthwild.dev/internal/sim/world/feature/work/mining"
	"hearthwild.dev/internal/sim/world/feature/work/placement"
	"hearthwild.dev/internal/sim/world/kernel/model"
	"hearthwild.dev/internal/sim/world/logic/ids"
	"hearthwild.dev/internal/sim/world/logic/mathx"
)

const (
	noAmmoChance   = 0.05
	breakDustEvery = 0.1

	colorHit    = "#ef4444"
	colorWood   = "#854d0e"
	colorDust   = "#d6d3d1"
	colorBroken = "#a8a29e"
	colorPlace  = "#ffffff"
	colorWater  = "#60a5fa"
)

func (s *Sim) reach() float64 {
	r := s.tun.BaseReach
	if s.player.Equipment.HasAccessory(model.ItemCharm) {
		r += s.tun.Charm.ReachBonus
	}
	return r
}

// primary resolves a held primary button: ranged fire, melee, then
// breaking, in that order of precedence.
func (s *Sim) primary(dt, tx, ty float64) {
	p := s.player
	held := p.Selected()
	if held != nil && combat.IsRanged(held.Type) {
		s.fire(tx, ty)
		return
	}
	if s.swing(held, tx, ty) {
		return
	}
	if mathx.Dist(p.X, p.Y, tx, ty) > s.reach() {
		s.ctx.Breaking = nil
		return
	}
	s.breakCell(dt, held, mathx.Cell(tx), mathx.Cell(ty))
}

func (s *Sim) fire(tx, ty float64) {
	p := s.player
	if !combat.ReadyCooldown(&s.ctx.Cooldowns, combat.AbilityRanged, s.tun.RangedCooldown, s.ctx.SimTime) {
		return
	}
	shot, err := combat.FireRanged(p, tx, ty)
	if errors.Is(err, combat.ErrNoAmmo) {
		if s.ctx.Breaking == nil && s.rng.Float64() < noAmmoChance {
			s.status("No Arrows!")
		}
		s.ctx.Breaking = nil
		return
	}
	s.invDirty = true
	proj := projectiles.Spawn(ids.EntityID(), shot.Kind, p.X, p.Y, shot.Angle)
	if s.store.AddEntity(proj) {
		s.particle(p.X, p.Y, colorDust, 3, 1)
	}
}

// swing reports whether an entity was under the cursor, whether or not the
// cooldown allowed the hit.
func (s *Sim) swing(held *model.ItemStack, tx, ty float64) bool {
	p := s.player
	in := combat.MeleeInput{
		PX: p.X, PY: p.Y, TX: tx, TY: ty,
		Reach:  s.reach(),
		Radius: s.tun.StrikeRadius,
		Damage: combat.MeleeDamage(s.cat, held, s.tun.BareHandDamage),
		Skip:   s.ctx.Driving,
	}
	k := s.store.KeyAt(p.X, p.Y)
	target := combat.Target(s.store.EntitiesAround(k), in)
	if target == nil {
		return false
	}
	if !combat.ReadyCooldown(&s.ctx.Cooldowns, combat.AbilityMelee, s.tun.MeleeCooldown, s.ctx.SimTime) {
		return true
	}
	killed := combat.Strike(target, in.Damage)
	color := colorHit
	if target.Kind.IsVehicle() {
		color = colorWood
	}
	s.particle(target.X, target.Y, color, 5, 2)
	s.wearSelected()
	if killed {
		s.kill(target)
	}
	return true
}

// kill removes a dead entity and rolls its loot at its position.
func (s *Sim) kill(e *model.Entity) {
	if !s.store.RemoveEntity(s.store.KeyAt(e.X, e.Y), e.ID) {
		// moved this tick and not yet relocated
		if _, owner, ok := s.store.FindEntity(e.ID); ok {
			s.store.RemoveEntity(owner, e.ID)
		}
	}
	if e.ID == s.ctx.Driving {
		s.ctx.Driving = ""
	}
	for _, st := range ai.Loot(e.Kind, s.rng) {
		s.spawnDrop(e.X, e.Y, st, s.tun.Drops.PickupDelay)
	}
}

func (s *Sim) wearSelected() {
	p := s.player
	t, ok := inventory.WearSlot(p.Inventory, p.SelectedSlot)
	if t == "" {
		return
	}
	s.invDirty = true
	if ok {
		s.status(s.itemName(t) + " broke!")
	}
}

// breakCell accumulates progress on the cell and completes the break.
func (s *Sim) breakCell(dt float64, held *model.ItemStack, gx, gy int) {
	target, isObject := s.store.Target(gx, gy)
	if !isObject && !target.Interactable() {
		s.ctx.Breaking = nil
		return
	}
	if s.cat == nil {
		return
	}
	def, ok := s.cat.Tile(target.String())
	if !ok {
		s.ctx.Breaking = nil
		return
	}
	h := mining.HeldFrom(s.cat, held)
	if ok, msg := mining.CheckTool(def, h); !ok {
		if s.ctx.Breaking == nil {
			s.status(msg)
		}
		s.ctx.Breaking = nil
		return
	}
	b := s.ctx.Breaking
	if b == nil || b.X != gx || b.Y != gy {
		b = &Breaking{X: gx, Y: gy, MaxTime: mining.BreakDuration(def, h)}
		s.ctx.Breaking = b
	}
	b.Timer += dt
	if s.rng.Float64() < breakDustEvery {
		s.particle(float64(gx)+0.5, float64(gy)+0.5, colorDust, 1, 2)
	}
	if b.Timer < b.MaxTime {
		return
	}

	cx, cy := float64(gx)+0.5, float64(gy)+0.5
	for _, st := range mining.Drops(def, h, s.rng) {
		s.spawnDrop(cx, cy, st, s.tun.Drops.BreakPickupDelay)
	}
	if held != nil {
		s.wearSelected()
	}
	if isObject {
		if def.SpillContainer {
			for _, st := range s.store.RemoveContainer(gx, gy) {
				if st != nil {
					s.spawnDrop(cx, cy, st, s.tun.Drops.BreakPickupDelay)
				}
			}
		}
		s.store.RemoveObject(gx, gy)
		s.ctx.Saplings = growth.Forget(s.ctx.Saplings, gx, gy)
	} else if target.IsFloor() {
		s.store.SetTile(gx, gy, model.TileGrass)
	}
	s.particle(cx, cy, colorBroken, 8, 3)
	s.ctx.Breaking = nil
}

// secondary resolves a secondary click: mount, fish or place. It reports
// whether anything happened, which arms the place cooldown.
func (s *Sim) secondary(tx, ty float64) bool {
	p := s.player
	if mathx.Dist(p.X, p.Y, tx, ty) > s.reach() {
		return false
	}
	for _, e := range s.store.EntitiesAround(s.store.KeyAt(tx, ty)) {
		if e.Kind.IsVehicle() && mathx.Dist(e.X, e.Y, tx, ty) < s.tun.MountRadius {
			s.ctx.Driving = e.ID
			p.X, p.Y = e.X, e.Y
			s.status("Driving Boat")
			return true
		}
	}
	held := p.Selected()
	if held == nil {
		return false
	}
	gx, gy := mathx.Cell(tx), mathx.Cell(ty)
	_, hasObj := s.store.Object(gx, gy)
	in := placement.Input{
		Item:      held.Type,
		Base:      s.store.Tile(gx, gy),
		HasObject: hasObj,
		Fishing:   s.ctx.Fishing != nil,
	}
	if s.cat != nil {
		if def, ok := s.cat.Item(string(held.Type)); ok {
			if def.PlaceAs != "" {
				in.PlaceAs, in.HasPlaceAs = model.TileByName(def.PlaceAs)
			}
			in.IsRod = def.Tool != nil && def.Tool.Family == "ROD"
			in.IsVehicle = def.Kind == "VEHICLE"
		}
	}
	out := placement.Resolve(in)
	cx, cy := float64(gx)+0.5, float64(gy)+0.5
	switch out.Action {
	case placement.ActionStartFishing:
		s.ctx.Fishing = &fishing.Session{X: gx, Y: gy}
		s.particle(cx, cy, colorWater, 5, 2)
		return true
	case placement.ActionSetFloor:
		if !s.store.SetTile(gx, gy, out.Tile) {
			return false
		}
	case placement.ActionSetObject:
		if !s.store.SetObject(gx, gy, out.Tile) {
			return false
		}
		if out.Container {
			s.store.SetContainer(gx, gy, make([]*model.ItemStack, s.tun.ContainerSize))
		}
		if out.Grows {
			s.ctx.Saplings = append(s.ctx.Saplings, model.Sapling{
				X: gx, Y: gy, PlantTime: s.ctx.SimTime, IsWheat: out.IsWheat, IsPine: out.IsPine,
			})
		}
	case placement.ActionSpawnVehicle:
		if !s.store.AddEntity(vehicles.Spawn(ids.EntityID(), model.KindBoat, tx, ty)) {
			return false
		}
	default:
		return false
	}
	if out.Consumes() {
		inventory.ConsumeOne(p.Inventory, p.SelectedSlot)
		s.invDirty = true
	}
	s.particle(cx, cy, colorPlace, 5, 2)
	return true
}
