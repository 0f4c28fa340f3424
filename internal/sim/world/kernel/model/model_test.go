package model

import "testing"

func TestStackableRules(t *testing.T) {
	a := Stack(ItemWood, 3)
	b := Stack(ItemWood, 4)
	if !a.Stackable(b) {
		t.Fatalf("plain stacks of the same type should merge")
	}
	tool := &ItemStack{Type: ItemWoodAxe, Count: 1, Durability: IntPtr(40), MaxDurability: IntPtr(40)}
	tool2 := tool.Clone()
	if tool.Stackable(tool2) {
		t.Fatalf("durable stacks must never merge")
	}
	*tool2.Durability = 3
	if *tool.Durability != 40 {
		t.Fatalf("Clone shared durability pointer")
	}
}

func TestTileNamesRoundTrip(t *testing.T) {
	for tile := TileGrass; tile <= TileSnowBlock; tile++ {
		got, ok := TileByName(tile.String())
		if !ok || got != tile {
			t.Fatalf("TileByName(%s) = %v,%v", tile, got, ok)
		}
	}
	if _, ok := TileByName("UNKNOWN"); ok {
		t.Fatalf("UNKNOWN must not resolve")
	}
}

func TestMatured(t *testing.T) {
	if m, ok := TileWheatCrop.Matured(); !ok || m != TileWheatPlant {
		t.Fatalf("wheat crop should mature into wheat plant")
	}
	if _, ok := TileTree.Matured(); ok {
		t.Fatalf("tree does not grow")
	}
}
