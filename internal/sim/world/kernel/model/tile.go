package model

// Tile identifies both base terrain and overlay objects. A chunk stores base
// tiles in its grid and overlay objects in a sparse map; both draw from this
// enum so a break target can be either.
type Tile uint8

const (
	TileGrass Tile = iota
	TileWater
	TileSand
	TileMountain
	TileSnow
	TileFloorWood
	TileFloorStone

	TileTree
	TileRock
	TileIronOre
	TileGoldOre
	TileBush
	TileWallWood
	TileWallStone
	TileCraftingStation
	TileSapling
	TileClam
	TileChest
	TileBushSapling
	TileCactus
	TileTallGrass
	TileCobweb
	TileWheatCrop
	TileWheatPlant
	TilePineTree
	TilePineSapling
	TileSnowPile
	TileSnowBlock

	// TileUnknown is returned for cells whose chunk has not been generated.
	TileUnknown Tile = 255
)

var tileNames = map[Tile]string{
	TileGrass:           "GRASS",
	TileWater:           "WATER",
	TileSand:            "SAND",
	TileMountain:        "MOUNTAIN",
	TileSnow:            "SNOW",
	TileFloorWood:       "FLOOR_WOOD",
	TileFloorStone:      "FLOOR_STONE",
	TileTree:            "TREE",
	TileRock:            "ROCK",
	TileIronOre:         "IRON_ORE",
	TileGoldOre:         "GOLD_ORE",
	TileBush:            "BUSH",
	TileWallWood:        "WALL_WOOD",
	TileWallStone:       "WALL_STONE",
	TileCraftingStation: "CRAFTING_STATION",
	TileSapling:         "SAPLING",
	TileClam:            "CLAM",
	TileChest:           "CHEST",
	TileBushSapling:     "BUSH_SAPLING",
	TileCactus:          "CACTUS",
	TileTallGrass:       "TALL_GRASS",
	TileCobweb:          "COBWEB",
	TileWheatCrop:       "WHEAT_CROP",
	TileWheatPlant:      "WHEAT_PLANT",
	TilePineTree:        "PINE_TREE",
	TilePineSapling:     "PINE_SAPLING",
	TileSnowPile:        "SNOW_PILE",
	TileSnowBlock:       "SNOW_BLOCK",
	TileUnknown:         "UNKNOWN",
}

func (t Tile) String() string {
	if s, ok := tileNames[t]; ok {
		return s
	}
	return "UNKNOWN"
}

// TileByName is the inverse of String; ok is false for unrecognised names.
func TileByName(name string) (Tile, bool) {
	for t, s := range tileNames {
		if s == name && t != TileUnknown {
			return t, true
		}
	}
	return TileUnknown, false
}

// Solid reports whether the tile blocks movement when it is the base tile or
// the overlay of a cell. Water is listed but movement treats it as passable.
func (t Tile) Solid() bool {
	switch t {
	case TileWater, TileTree, TileRock, TileIronOre, TileGoldOre, TileWallWood, TileWallStone,
		TileCraftingStation, TileChest, TileCactus, TilePineTree:
		return true
	}
	return false
}

// Walkable overlays never block, regardless of the base tile.
func (t Tile) Walkable() bool {
	switch t {
	case TileClam, TileSapling, TilePineSapling, TileBushSapling, TileBush, TileTallGrass,
		TileCobweb, TileWheatCrop, TileWheatPlant, TileSnowPile, TileSnowBlock:
		return true
	}
	return false
}

// Interactable base tiles may be broken when no overlay object is present.
func (t Tile) Interactable() bool {
	switch t {
	case TileFloorWood, TileFloorStone:
		return true
	}
	return t >= TileTree && t != TileUnknown
}

func (t Tile) IsFloor() bool { return t == TileFloorWood || t == TileFloorStone }

// Growable overlays mature after the growth duration.
func (t Tile) Matured() (Tile, bool) {
	switch t {
	case TileSapling:
		return TileTree, true
	case TilePineSapling:
		return TilePineTree, true
	case TileBushSapling:
		return TileBush, true
	case TileWheatCrop:
		return TileWheatPlant, true
	}
	return t, false
}

// LocalKey packs chunk-local coordinates; chunk sizes up to 256 fit.
type LocalKey uint16

func PackLocal(lx, ly int) LocalKey { return LocalKey(uint16(ly)<<8 | uint16(lx)) }

func (k LocalKey) Unpack() (lx, ly int) { return int(k & 0xff), int(k >> 8) }
