package world

import (
	movement "hearthwild.dev/internal/sim/world/feature/movement/runtime"
	"hearthwild.dev/internal/sim/world/kernel/model"
)

// Input is the per-frame control snapshot. Keys are already resolved through
// the player's keybinds.
type Input struct {
	Keys movement.Keys
	Run  bool

	// Pointer position in screen pixels.
	MouseX, MouseY float64
	LeftDown       bool
	RightDown      bool

	ScreenW, ScreenH float64
	Zoom             float64

	InventoryOpen bool
}

type Particle struct {
	X     float64 `json:"x"`
	Y     float64 `json:"y"`
	Color string  `json:"color"`
	Count int     `json:"count"`
	Size  float64 `json:"size"`
}

// Callbacks are one-way notifications out of the simulation. Any of them
// may be nil.
type Callbacks struct {
	Status    func(msg string)
	Inventory func(inv []*model.ItemStack)
	Equipment func(eq model.Equipment)
	Stats     func(health, stamina float64)
	Death     func()
	// ContainerNearby reports the chest next to the player; key is empty when
	// there is none.
	ContainerNearby func(key string, items []*model.ItemStack)
	StationNearby   func(near bool)
	Particles       func(p Particle)
	DropSpawned     func(d *model.DroppedItem)
}

// Breaking is the in-progress break of one cell.
type Breaking struct {
	X, Y    int
	Timer   float64
	MaxTime float64
}
