package gen

import (
	"math/rand"

	"hearthwild.dev/internal/sim/world/kernel/model"
)

type lootEntry struct {
	item     model.ItemType
	chance   float64
	min, max int
}

var nestLoot = []lootEntry{
	{model.ItemIronSword, 0.1, 1, 1},
	{model.ItemIronPickaxe, 0.1, 1, 1},
	{model.ItemIronAxe, 0.1, 1, 1},
	{model.ItemArmorIron, 0.05, 1, 1},
	{model.ItemHelmetIron, 0.05, 1, 1},
	{model.ItemSnakeFang, 0.4, 1, 3},
	{model.ItemCobweb, 0.5, 2, 8},
	{model.ItemBread, 0.3, 1, 2},
	{model.ItemRuby, 0.15, 1, 2},
	{model.ItemIron, 0.25, 1, 4},
	{model.ItemArrow, 0.4, 5, 15},
	{model.ItemPoisonArrow, 0.1, 5, 10},
}

// nestChestLoot rolls each entry independently and drops hits into a random
// slot, probing forward past occupied slots. A full chest skips the entry.
func nestChestLoot(r *rand.Rand, size int, durability map[model.ItemType]int) []*model.ItemStack {
	loot := make([]*model.ItemStack, size)
	if size <= 0 {
		return loot
	}
	for _, e := range nestLoot {
		if r.Float64() >= e.chance {
			continue
		}
		slot := r.Intn(size)
		for i := 0; i < size; i++ {
			if loot[slot] == nil {
				s := model.Stack(e.item, r.Intn(e.max-e.min+1)+e.min)
				if d, ok := durability[e.item]; ok && d > 0 {
					s.Count = 1
					s.Durability = model.IntPtr(d)
					s.MaxDurability = model.IntPtr(d)
				}
				loot[slot] = s
				break
			}
			slot = (slot + 1) % size
		}
	}
	return loot
}
