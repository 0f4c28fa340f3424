package crafting

import (
	"errors"
	"testing"

	"hearthwild.dev/internal/sim/catalogs"
	"hearthwild.dev/internal/sim/world/feature/economy/inventory"
	"hearthwild.dev/internal/sim/world/kernel/model"
)

func loadRecipes(t *testing.T) *catalogs.Catalogs {
	t.Helper()
	c, err := catalogs.Load("../../../../../../configs")
	if err != nil {
		t.Fatalf("load catalogs: %v", err)
	}
	return c
}

func TestCraftExactIngredientsSucceeds(t *testing.T) {
	c := loadRecipes(t)
	slots := []*model.ItemStack{model.Stack(model.ItemWood, 2), model.Stack(model.ItemStone, 3), model.Stack(model.ItemWood, 1), nil}
	in := Input{Recipe: c.Recipes.ByResult["STONE_AXE"], NearStation: true, MaxStack: 100}
	if _, err := Craft(slots, in, false); err != nil {
		t.Fatalf("craft: %v", err)
	}
	if n := inventory.Count(slots, model.ItemWood); n != 0 {
		t.Fatalf("wood left: %d", n)
	}
	if n := inventory.Count(slots, model.ItemStone); n != 0 {
		t.Fatalf("stone left: %d", n)
	}
	i := inventory.FindFirst(slots, model.ItemStoneAxe)
	if i < 0 || *slots[i].Durability != 80 || *slots[i].MaxDurability != 80 {
		t.Fatalf("expected a stone axe with durability 80")
	}
}

func TestCraftOneShortConsumesNothing(t *testing.T) {
	c := loadRecipes(t)
	slots := []*model.ItemStack{model.Stack(model.ItemWood, 2), model.Stack(model.ItemStone, 3), nil}
	in := Input{Recipe: c.Recipes.ByResult["STONE_AXE"], NearStation: true, MaxStack: 100}
	_, err := Craft(slots, in, false)
	if !errors.Is(err, ErrNotEnough) {
		t.Fatalf("expected ErrNotEnough, got %v", err)
	}
	if slots[0].Count != 2 || slots[1].Count != 3 || slots[2] != nil {
		t.Fatalf("failed craft changed inventory")
	}
}

func TestCraftStationGate(t *testing.T) {
	c := loadRecipes(t)
	slots := []*model.ItemStack{model.Stack(model.ItemWood, 20), nil}
	in := Input{Recipe: c.Recipes.ByResult["BOAT"], MaxStack: 100}
	if err := CanCraft(slots, in); !errors.Is(err, ErrNeedStation) {
		t.Fatalf("expected station gate, got %v", err)
	}
	in.Recipe = c.Recipes.ByResult["CRAFTING_STATION_ITEM"]
	if _, err := Craft(slots, in, false); err != nil {
		t.Fatalf("station recipe needs no station: %v", err)
	}
}

func TestCraftBagGetsEmptyContents(t *testing.T) {
	c := loadRecipes(t)
	slots := []*model.ItemStack{model.Stack(model.ItemLeather, 4), model.Stack(model.ItemString, 4)}
	in := Input{Recipe: c.Recipes.ByResult["BACKPACK"], NearStation: true, BagSize: 8, MaxStack: 100}
	if _, err := Craft(slots, in, true); err != nil {
		t.Fatalf("craft: %v", err)
	}
	i := inventory.FindFirst(slots, model.ItemBackpack)
	if i < 0 || len(slots[i].Contents) != 8 {
		t.Fatalf("backpack should carry 8 empty slots")
	}
}

func TestCraftOverflowWhenFull(t *testing.T) {
	c := loadRecipes(t)
	slots := []*model.ItemStack{model.Stack(model.ItemWood, 5), model.Stack(model.ItemStone, 1)}
	in := Input{Recipe: c.Recipes.ByResult["WOOD_SWORD"], MaxStack: 100}
	over, err := Craft(slots, in, false)
	if err != nil && !errors.Is(err, ErrInventoryFull) {
		t.Fatalf("unexpected error %v", err)
	}
	// The wood slot empties, so the sword takes it.
	if over != nil || slots[0] == nil || slots[0].Type != model.ItemWoodSword {
		t.Fatalf("sword should land in the freed slot")
	}
}
