package placement

import (
	"slices"

	"hearthwild.dev/internal/sim/world/kernel/model"
)

type Action int

const (
	ActionNone Action = iota
	ActionStartFishing
	ActionSetFloor
	ActionSetObject
	ActionSpawnVehicle
)

type Input struct {
	Item model.ItemType
	// PlaceAs is the catalog place_as tile for the item, if any.
	PlaceAs    model.Tile
	HasPlaceAs bool
	IsRod      bool
	IsVehicle  bool

	Base      model.Tile
	HasObject bool
	Fishing   bool
}

type Outcome struct {
	Action Action
	Tile   model.Tile
	// Container is set for objects that carry an inventory payload.
	Container bool
	// Grows is set when the placed object needs a growth record.
	Grows   bool
	IsWheat bool
	IsPine  bool
}

// Consumes reports whether the outcome uses up one unit of the item.
func (o Outcome) Consumes() bool {
	return o.Action == ActionSetFloor || o.Action == ActionSetObject || o.Action == ActionSpawnVehicle
}

// Objects listed here need one of the given base tiles; every other
// placeable object goes on any dry generated tile.
var groundRules = map[model.Tile][]model.Tile{
	model.TileSapling:     {model.TileGrass, model.TileSnow},
	model.TilePineSapling: {model.TileGrass, model.TileSnow},
	model.TileBushSapling: {model.TileGrass, model.TileSnow},
	model.TileWheatCrop:   {model.TileGrass},
	model.TileCactus:      {model.TileSand},
}

// Resolve decides what a secondary action with in.Item does at a cell.
func Resolve(in Input) Outcome {
	if in.Base == model.TileUnknown {
		return Outcome{}
	}
	if in.IsRod && in.Base == model.TileWater && !in.Fishing {
		return Outcome{Action: ActionStartFishing}
	}
	if in.HasPlaceAs && in.PlaceAs.IsFloor() {
		if in.Base == model.TileWater || in.Base == in.PlaceAs {
			return Outcome{}
		}
		return Outcome{Action: ActionSetFloor, Tile: in.PlaceAs}
	}
	if in.HasObject {
		return Outcome{}
	}
	if in.IsVehicle {
		if in.Base != model.TileWater {
			return Outcome{}
		}
		return Outcome{Action: ActionSpawnVehicle}
	}
	if !in.HasPlaceAs || in.Base == model.TileWater {
		return Outcome{}
	}
	if need, ok := groundRules[in.PlaceAs]; ok && !slices.Contains(need, in.Base) {
		return Outcome{}
	}
	out := Outcome{Action: ActionSetObject, Tile: in.PlaceAs, Container: in.PlaceAs == model.TileChest}
	if _, grows := in.PlaceAs.Matured(); grows {
		out.Grows = true
		out.IsWheat = in.PlaceAs == model.TileWheatCrop
		out.IsPine = in.PlaceAs == model.TilePineSapling
	}
	return out
}
