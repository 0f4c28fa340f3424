package respawn

import "hearthwild.dev/internal/sim/world/kernel/model"

type SpawnItemFn func(x, y float64, s *model.ItemStack)

type Hooks struct {
	SpawnItem SpawnItemFn
}

// Scatter drops every inventory stack and the head, body and accessory
// equipment at the player's position, then empties inventory and all
// equipment slots. The bag is cleared without a drop. It returns the number
// of stacks dropped.
func Scatter(p *model.Player, hooks Hooks) int {
	if p == nil {
		return 0
	}
	n := 0
	drop := func(s *model.ItemStack) {
		if s == nil || hooks.SpawnItem == nil {
			return
		}
		hooks.SpawnItem(p.X, p.Y, s)
		n++
	}
	for i, s := range p.Inventory {
		drop(s)
		p.Inventory[i] = nil
	}
	drop(p.Equipment.Head)
	drop(p.Equipment.Body)
	drop(p.Equipment.Accessory)
	p.Equipment = model.Equipment{}
	return n
}

// Reset puts the player back at the spawn point with full stats.
func Reset(p *model.Player, spawnX, spawnY float64) {
	if p == nil {
		return
	}
	p.X, p.Y = spawnX, spawnY
	p.Health = p.MaxHealth
	p.Stamina = p.MaxStamina
	p.PoisonTimer = 0
	p.SelectedSlot = 0
	p.Facing = model.FacingDown
}
