// Package runtime applies the per-tick survival effects to the player:
// drowning, thorns, cactus contact, poison pulses and armor mitigation.
package runtime

import (
	"hearthwild.dev/internal/sim/tuning"
	"hearthwild.dev/internal/sim/world/kernel/model"
	"hearthwild.dev/internal/sim/world/logic/mathx"
)

type Grid interface {
	Object(gx, gy int) (model.Tile, bool)
}

// Accumulators carry hazard timers between ticks.
type Accumulators struct {
	Drown      float64
	PoisonTick float64
}

type Input struct {
	DT     float64
	Moving bool
	// Swimming is set in water while not riding.
	Swimming bool
	Under    model.Tile
	HasUnder bool
}

type Hooks struct {
	// Damage is called once per source. Discrete hits wear armor; continuous
	// hazards do not.
	Damage    func(amount float64, discrete bool)
	Status    func(msg string)
	Particles func(x, y float64, color string, count int, size float64)
	// Roll returns a uniform value in [0,1).
	Roll func() float64
}

const (
	drowningMessageChance = 0.1
	poisonColor           = "#a855f7"
)

// Tick applies every hazard active for one step.
func Tick(p *model.Player, in Input, acc *Accumulators, hz tuning.Hazards, g Grid, h Hooks) {
	if in.Swimming {
		acc.Drown += in.DT
		if acc.Drown > hz.DrownDelay {
			h.Damage(hz.DrownDamage*in.DT, false)
			if h.Roll != nil && h.Roll() < drowningMessageChance {
				h.Status("Drowning!")
			}
		}
	} else {
		acc.Drown = 0
	}

	if in.HasUnder && in.Under == model.TileBush && in.Moving {
		h.Damage(hz.BushDamage*in.DT, false)
	}

	for range CactiTouching(g, p.X, p.Y, hz.CactusRadius) {
		h.Damage(hz.CactusDamage*in.DT, false)
	}

	if p.PoisonTimer > 0 {
		p.PoisonTimer -= in.DT
		acc.PoisonTick += in.DT
		if acc.PoisonTick >= 1 {
			h.Damage(hz.PoisonDamage, true)
			if h.Particles != nil {
				h.Particles(p.X, p.Y, poisonColor, 4, 3)
			}
			acc.PoisonTick = 0
		}
	}
}

// CactiTouching lists cactus cells in the 3x3 neighbourhood whose centre is
// closer than radius.
func CactiTouching(g Grid, x, y, radius float64) [][2]int {
	var out [][2]int
	px, py := mathx.Cell(x), mathx.Cell(y)
	for cy := py - 1; cy <= py+1; cy++ {
		for cx := px - 1; cx <= px+1; cx++ {
			if obj, ok := g.Object(cx, cy); !ok || obj != model.TileCactus {
				continue
			}
			if mathx.Dist(x, y, float64(cx)+0.5, float64(cy)+0.5) < radius {
				out = append(out, [2]int{cx, cy})
			}
		}
	}
	return out
}

// ArmorLookup returns the defense of an armor item.
type ArmorLookup func(t model.ItemType) (defense float64, ok bool)

// ApplyDamage reduces amount by worn head and body armor as
// amount / (1 + defense/divisor). With wear set each armor piece loses one
// durability and is removed at zero; broken pieces are returned.
func ApplyDamage(p *model.Player, amount, divisor float64, wear bool, armor ArmorLookup) (taken float64, broke []model.ItemType) {
	defense := 0.0
	for _, slot := range []model.EquipSlot{model.SlotHead, model.SlotBody} {
		s := p.Equipment.Get(slot)
		if s == nil || armor == nil {
			continue
		}
		d, ok := armor(s.Type)
		if !ok {
			continue
		}
		defense += d
		if wear && s.HasDurability() {
			*s.Durability--
			if *s.Durability <= 0 {
				p.Equipment.Set(slot, nil)
				broke = append(broke, s.Type)
			}
		}
	}
	if divisor <= 0 {
		divisor = 20
	}
	taken = amount / (1 + defense/divisor)
	p.Health -= taken
	return taken, broke
}

// DrainStamina spends stamina while running, never below zero.
func DrainStamina(p *model.Player, rate, dt float64) {
	p.Stamina = max(0, p.Stamina-rate*dt)
}
