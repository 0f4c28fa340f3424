package items

import (
	"hearthwild.dev/internal/sim/tuning"
	"hearthwild.dev/internal/sim/world/feature/economy/inventory"
	"hearthwild.dev/internal/sim/world/kernel/model"
	"hearthwild.dev/internal/sim/world/logic/mathx"
)

type Hooks struct {
	// PickedUp fires once per dropped item that fully entered the inventory.
	PickedUp func(d *model.DroppedItem)
	// Partial fires when only part of a stack fit.
	Partial func(d *model.DroppedItem)
}

// Tick ages the dropped items of one chunk and lets the player collect the
// ones in range. Expired and collected items are filtered out of the
// returned slice; a partially collected stack stays with its remaining
// count.
func Tick(drops []*model.DroppedItem, dt float64, p *model.Player, maxStack int, d tuning.Drops, h Hooks) []*model.DroppedItem {
	kept := drops[:0]
	for _, it := range drops {
		it.PickupDelay -= dt
		it.LifeTime -= dt
		if it.LifeTime <= 0 {
			continue
		}
		if p != nil && !p.Dead() && it.PickupDelay <= 0 && mathx.Dist(p.X, p.Y, it.X, it.Y) < d.PickupRadius {
			s := it.Stack()
			left := inventory.Add(p.Inventory, s, maxStack)
			if left == 0 {
				if h.PickedUp != nil {
					h.PickedUp(it)
				}
				continue
			}
			if left < it.Count && h.Partial != nil {
				it.Count = left
				h.Partial(it)
			}
			it.Count = left
		}
		kept = append(kept, it)
	}
	for i := len(kept); i < len(drops); i++ {
		drops[i] = nil
	}
	return kept
}
