package model

type ItemType string

// Item types the simulation refers to directly. The full set lives in the
// item catalog.
const (
	ItemWood            ItemType = "WOOD"
	ItemStone           ItemType = "STONE"
	ItemIron            ItemType = "IRON"
	ItemGold            ItemType = "GOLD"
	ItemBerry           ItemType = "BERRY"
	ItemSapling         ItemType = "SAPLING"
	ItemPineSapling     ItemType = "PINE_SAPLING"
	ItemBerrySeed       ItemType = "BERRY_SEED"
	ItemWheatSeeds      ItemType = "WHEAT_SEEDS"
	ItemWheat           ItemType = "WHEAT"
	ItemClam            ItemType = "CLAM"
	ItemPlantFiber      ItemType = "PLANT_FIBER"
	ItemCobweb          ItemType = "COBWEB"
	ItemSnowball        ItemType = "SNOWBALL"
	ItemSnowBlock       ItemType = "SNOW_BLOCK"
	ItemCactus          ItemType = "CACTUS"
	ItemChest           ItemType = "CHEST_ITEM"
	ItemWallWood        ItemType = "WALL_WOOD_ITEM"
	ItemWallStone       ItemType = "WALL_STONE_ITEM"
	ItemFloorWood       ItemType = "FLOOR_WOOD_ITEM"
	ItemFloorStone      ItemType = "FLOOR_STONE_ITEM"
	ItemCraftingStation ItemType = "CRAFTING_STATION_ITEM"
	ItemRawBeef         ItemType = "RAW_BEEF"
	ItemLeather         ItemType = "LEATHER"
	ItemRabbitLeg       ItemType = "RABBIT_LEG"
	ItemSnakeFang       ItemType = "SNAKE_FANG"
	ItemSalmon          ItemType = "SALMON"
	ItemCod             ItemType = "COD"
	ItemBoat            ItemType = "BOAT"
	ItemBow             ItemType = "BOW"
	ItemArrow           ItemType = "ARROW"
	ItemPoisonArrow     ItemType = "POISON_ARROW"
	ItemFishingRod      ItemType = "FISHING_ROD"
	ItemCharm           ItemType = "CHARM"
	ItemBackpack        ItemType = "BACKPACK"
	ItemWoodAxe         ItemType = "WOOD_AXE"
	ItemStoneAxe        ItemType = "STONE_AXE"
	ItemIronAxe         ItemType = "IRON_AXE"
	ItemGoldAxe         ItemType = "GOLD_AXE"
	ItemWoodPickaxe     ItemType = "WOOD_PICKAXE"
	ItemStonePickaxe    ItemType = "STONE_PICKAXE"
	ItemIronPickaxe     ItemType = "IRON_PICKAXE"
	ItemGoldPickaxe     ItemType = "GOLD_PICKAXE"
	ItemWoodSword       ItemType = "WOOD_SWORD"
	ItemStoneSword      ItemType = "STONE_SWORD"
	ItemIronSword       ItemType = "IRON_SWORD"
	ItemGoldSword       ItemType = "GOLD_SWORD"
	ItemHelmetGold      ItemType = "HELMET_GOLD"
	ItemArmorGold       ItemType = "ARMOR_GOLD"
	ItemHelmetIron      ItemType = "HELMET_IRON"
	ItemArmorIron       ItemType = "ARMOR_IRON"
	ItemArmorLeather    ItemType = "ARMOR_LEATHER"
	ItemHelmetLeather   ItemType = "HELMET_LEATHER"
	ItemBread           ItemType = "BREAD"
	ItemRuby            ItemType = "RUBY"
	ItemString          ItemType = "STRING"
)

// ItemStack is one inventory slot's payload. Stacks carrying durability never
// merge with other stacks. Contents is only set for bag-type items.
type ItemStack struct {
	Type          ItemType     `json:"type"`
	Count         int          `json:"count"`
	Durability    *int         `json:"durability,omitempty"`
	MaxDurability *int         `json:"maxDurability,omitempty"`
	Contents      []*ItemStack `json:"contents,omitempty"`
}

func (s *ItemStack) HasDurability() bool {
	return s != nil && s.Durability != nil
}

// Stackable reports whether o may merge into s.
func (s *ItemStack) Stackable(o *ItemStack) bool {
	if s == nil || o == nil {
		return false
	}
	return s.Type == o.Type && !s.HasDurability() && !o.HasDurability() && s.Contents == nil && o.Contents == nil
}

// Clone deep-copies the stack including nested contents.
func (s *ItemStack) Clone() *ItemStack {
	if s == nil {
		return nil
	}
	c := &ItemStack{Type: s.Type, Count: s.Count}
	if s.Durability != nil {
		d := *s.Durability
		c.Durability = &d
	}
	if s.MaxDurability != nil {
		m := *s.MaxDurability
		c.MaxDurability = &m
	}
	if s.Contents != nil {
		c.Contents = CloneSlots(s.Contents)
	}
	return c
}

func CloneSlots(in []*ItemStack) []*ItemStack {
	if in == nil {
		return nil
	}
	out := make([]*ItemStack, len(in))
	for i, s := range in {
		out[i] = s.Clone()
	}
	return out
}

func IntPtr(v int) *int { return &v }

func Stack(t ItemType, n int) *ItemStack { return &ItemStack{Type: t, Count: n} }
