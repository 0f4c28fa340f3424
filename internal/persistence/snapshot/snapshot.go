// Package snapshot is the persistence boundary: plain save data produced and
// consumed by the simulation, plus a zstd file codec for it.
package snapshot

import (
	"hearthwild.dev/internal/sim/world/kernel/model"
)

const Version = 1

type Header struct {
	Version   int     `json:"version"`
	SaveID    string  `json:"save_id"`
	Slot      int     `json:"slot"`
	SimTime   float64 `json:"sim_time"`
	CreatedAt string  `json:"created_at"`
}

type Meta struct {
	ID         int    `json:"id"`
	Name       string `json:"name"`
	LastPlayed int64  `json:"lastPlayed"` // unix millis
}

type SaveV1 struct {
	Header Header   `json:"header"`
	Meta   Meta     `json:"meta"`
	Player PlayerV1 `json:"player"`
	World  WorldV1  `json:"world"`
	Camera CameraV1 `json:"camera"`
}

type PlayerV1 struct {
	X            float64            `json:"x"`
	Y            float64            `json:"y"`
	Health       float64            `json:"health"`
	Stamina      float64            `json:"stamina"`
	Inventory    []*model.ItemStack `json:"inventory"`
	Equipment    model.Equipment    `json:"equipment"`
	Rotation     float64            `json:"rotation"`
	PoisonTimer  float64            `json:"poisonTimer,omitempty"`
	SelectedSlot int                `json:"selectedItemIndex,omitempty"`
}

type WorldV1 struct {
	// TilePalette maps the ids used in ChunkV1.TilesRLE to tile names.
	TilePalette []string         `json:"tilePalette,omitempty"`
	Chunks      []ChunkV1        `json:"chunks"`
	Saplings    []model.Sapling  `json:"saplings"`
	SeedConfig  model.SeedConfig `json:"seedConfig"`
	// SeedMissing is set by Decode when the file carried no seed config.
	SeedMissing bool    `json:"-"`
	SimTime     float64 `json:"simTime,omitempty"`
	Driving     string  `json:"driving,omitempty"`
}

type ChunkV1 struct {
	CX           int                 `json:"cx"`
	CY           int                 `json:"cy"`
	Size         int                 `json:"size"`
	TilesRLE     string              `json:"tiles"`
	Objects      []ObjectV1          `json:"objects,omitempty"`
	Containers   []ContainerV1       `json:"containers,omitempty"`
	Entities     []model.Entity      `json:"entities,omitempty"`
	DroppedItems []model.DroppedItem `json:"droppedItems,omitempty"`
}

type ObjectV1 struct {
	LX   int    `json:"lx"`
	LY   int    `json:"ly"`
	Type string `json:"type"`
}

type ContainerV1 struct {
	LX    int                `json:"lx"`
	LY    int                `json:"ly"`
	Items []*model.ItemStack `json:"items"`
}

type CameraV1 struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Defaults fills fields a save file omitted.
type Defaults struct {
	InventorySize int
	MaxHealth     float64
	MaxStamina    float64
}

func DefaultDefaults() Defaults {
	return Defaults{InventorySize: 24, MaxHealth: 100, MaxStamina: 100}
}
