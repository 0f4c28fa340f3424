package inventory

import (
	"testing"

	"hearthwild.dev/internal/sim/world/kernel/model"
)

func TestAddStacksThenFillsEmpty(t *testing.T) {
	slots := []*model.ItemStack{model.Stack(model.ItemWood, 98), nil, model.Stack(model.ItemWood, 10)}
	left := Add(slots, model.Stack(model.ItemWood, 5), 100)
	if left != 0 {
		t.Fatalf("expected everything to fit, left=%d", left)
	}
	if slots[0].Count != 100 || slots[2].Count != 13 || slots[1] != nil {
		t.Fatalf("unexpected layout: %d %v %d", slots[0].Count, slots[1], slots[2].Count)
	}
}

func TestAddDurableTakesEmptySlot(t *testing.T) {
	axe := &model.ItemStack{Type: model.ItemWoodAxe, Count: 1, Durability: model.IntPtr(40), MaxDurability: model.IntPtr(40)}
	slots := []*model.ItemStack{{Type: model.ItemWoodAxe, Count: 1, Durability: model.IntPtr(3)}, nil}
	if left := Add(slots, axe, 100); left != 0 {
		t.Fatalf("left=%d", left)
	}
	if slots[1] == nil || *slots[1].Durability != 40 {
		t.Fatalf("durable stack should occupy the empty slot")
	}
	if axe.Count != 0 {
		t.Fatalf("Add should consume the placed stack, count=%d", axe.Count)
	}
	full := []*model.ItemStack{model.Stack(model.ItemStone, 1)}
	spare := &model.ItemStack{Type: model.ItemWoodAxe, Count: 1, Durability: model.IntPtr(40)}
	if left := Add(full, spare, 100); left != 1 {
		t.Fatalf("expected no room, left=%d", left)
	}
}

func TestRemoveSlotOrder(t *testing.T) {
	slots := []*model.ItemStack{model.Stack(model.ItemWood, 2), model.Stack(model.ItemStone, 1), model.Stack(model.ItemWood, 5)}
	if !Remove(slots, model.ItemWood, 4) {
		t.Fatalf("remove should succeed")
	}
	if slots[0] != nil || slots[2].Count != 3 {
		t.Fatalf("expected first stack consumed then partial: %v %v", slots[0], slots[2])
	}
	if Remove(slots, model.ItemWood, 4) {
		t.Fatalf("remove beyond count must fail")
	}
	if slots[2].Count != 3 {
		t.Fatalf("failed remove changed slots")
	}
}

func TestWearSlotBreaks(t *testing.T) {
	slots := []*model.ItemStack{{Type: model.ItemBow, Count: 1, Durability: model.IntPtr(1), MaxDurability: model.IntPtr(100)}}
	typ, broke := WearSlot(slots, 0)
	if !broke || typ != model.ItemBow || slots[0] != nil {
		t.Fatalf("expected bow to break and slot to clear")
	}
	plain := []*model.ItemStack{model.Stack(model.ItemWood, 1)}
	if _, broke := WearSlot(plain, 0); broke || plain[0] == nil {
		t.Fatalf("plain items have no durability")
	}
}

func TestSwapMergesAcrossArrays(t *testing.T) {
	inv := []*model.ItemStack{model.Stack(model.ItemWood, 30)}
	chest := []*model.ItemStack{model.Stack(model.ItemWood, 90), nil}
	if !Swap(inv, 0, chest, 0, 100) {
		t.Fatalf("swap failed")
	}
	if chest[0].Count != 100 || inv[0] == nil || inv[0].Count != 20 {
		t.Fatalf("merge mismatch: chest=%d inv=%v", chest[0].Count, inv[0])
	}
	Swap(inv, 0, chest, 1, 100)
	if inv[0] != nil || chest[1].Count != 20 {
		t.Fatalf("move into empty mismatch")
	}
}

func TestFits(t *testing.T) {
	slots := []*model.ItemStack{model.Stack(model.ItemWood, 95)}
	if !Fits(slots, model.Stack(model.ItemWood, 5), 100) {
		t.Fatalf("5 should fit")
	}
	if Fits(slots, model.Stack(model.ItemWood, 6), 100) {
		t.Fatalf("6 should not fit")
	}
}
