package placement

import (
	"testing"

	"hearthwild.dev/internal/sim/world/kernel/model"
)

func placeable(item model.ItemType, as model.Tile, base model.Tile) Input {
	return Input{Item: item, PlaceAs: as, HasPlaceAs: true, Base: base}
}

func TestResolvePlaceable(t *testing.T) {
	cases := []struct {
		name string
		in   Input
		want Action
		tile model.Tile
	}{
		{"sapling on grass", placeable(model.ItemSapling, model.TileSapling, model.TileGrass), ActionSetObject, model.TileSapling},
		{"sapling on snow", placeable(model.ItemSapling, model.TileSapling, model.TileSnow), ActionSetObject, model.TileSapling},
		{"sapling on sand", placeable(model.ItemSapling, model.TileSapling, model.TileSand), ActionNone, 0},
		{"wheat on snow", placeable(model.ItemWheatSeeds, model.TileWheatCrop, model.TileSnow), ActionNone, 0},
		{"cactus on sand", placeable(model.ItemCactus, model.TileCactus, model.TileSand), ActionSetObject, model.TileCactus},
		{"wall on mountain", placeable(model.ItemWallStone, model.TileWallStone, model.TileMountain), ActionSetObject, model.TileWallStone},
		{"wall on water", placeable(model.ItemWallStone, model.TileWallStone, model.TileWater), ActionNone, 0},
		{"floor on grass", placeable(model.ItemFloorWood, model.TileFloorWood, model.TileGrass), ActionSetFloor, model.TileFloorWood},
		{"floor on same floor", placeable(model.ItemFloorWood, model.TileFloorWood, model.TileFloorWood), ActionNone, 0},
		{"floor over other floor", placeable(model.ItemFloorStone, model.TileFloorStone, model.TileFloorWood), ActionSetFloor, model.TileFloorStone},
		{"floor on water", placeable(model.ItemFloorWood, model.TileFloorWood, model.TileWater), ActionNone, 0},
		{"ungenerated cell", placeable(model.ItemWallWood, model.TileWallWood, model.TileUnknown), ActionNone, 0},
		{"plain material", Input{Item: model.ItemWood, Base: model.TileGrass}, ActionNone, 0},
	}
	for _, tc := range cases {
		got := Resolve(tc.in)
		if got.Action != tc.want || (tc.want != ActionNone && got.Tile != tc.tile) {
			t.Fatalf("%s: got %+v", tc.name, got)
		}
	}
}

func TestResolveOccupiedCell(t *testing.T) {
	in := placeable(model.ItemChest, model.TileChest, model.TileGrass)
	in.HasObject = true
	if got := Resolve(in); got.Action != ActionNone || got.Consumes() {
		t.Fatalf("occupied cell must reject placement: %+v", got)
	}
	// Floors rewrite the base tile under an object.
	floor := placeable(model.ItemFloorWood, model.TileFloorWood, model.TileGrass)
	floor.HasObject = true
	if got := Resolve(floor); got.Action != ActionSetFloor {
		t.Fatalf("floor should ignore overlay: %+v", got)
	}
}

func TestResolveChestAndGrowth(t *testing.T) {
	got := Resolve(placeable(model.ItemChest, model.TileChest, model.TileSand))
	if !got.Container || got.Grows {
		t.Fatalf("chest: %+v", got)
	}
	got = Resolve(placeable(model.ItemPineSapling, model.TilePineSapling, model.TileSnow))
	if !got.Grows || !got.IsPine || got.IsWheat {
		t.Fatalf("pine sapling: %+v", got)
	}
	got = Resolve(placeable(model.ItemWheatSeeds, model.TileWheatCrop, model.TileGrass))
	if !got.Grows || !got.IsWheat {
		t.Fatalf("wheat: %+v", got)
	}
}

func TestResolveRodAndBoat(t *testing.T) {
	rod := Input{Item: model.ItemFishingRod, IsRod: true, Base: model.TileWater}
	if got := Resolve(rod); got.Action != ActionStartFishing || got.Consumes() {
		t.Fatalf("rod on water should start fishing: %+v", got)
	}
	rod.Fishing = true
	if got := Resolve(rod); got.Action != ActionNone {
		t.Fatalf("second cast must be ignored: %+v", got)
	}
	boat := Input{Item: model.ItemBoat, IsVehicle: true, Base: model.TileWater}
	if got := Resolve(boat); got.Action != ActionSpawnVehicle || !got.Consumes() {
		t.Fatalf("boat on water: %+v", got)
	}
	boat.Base = model.TileGrass
	if got := Resolve(boat); got.Action != ActionNone {
		t.Fatalf("boat on land: %+v", got)
	}
}
