// Package species holds the per-kind constant tables for wildlife, vehicles
// and projectiles. Behaviour dispatches on model.EntityKind and reads these.
package species

import "hearthwild.dev/internal/sim/world/kernel/model"

type Drop struct {
	Item   model.ItemType
	Chance float64
}

type Wildlife struct {
	MaxHealth  float64
	Speed      float64
	FleeSpeed  float64
	Damage     float64
	Aggressive bool
	// PoisonChance is rolled on every successful strike.
	PoisonChance float64
	Preferred    model.Tile
	HasPreferred bool
	Drops        []Drop
}

type Projectile struct {
	Speed       float64
	Damage      float64
	MaxDistance float64
	Knockback   float64
	// Recover is the item left behind when the projectile stops without a hit.
	Recover model.ItemType
}

type Vehicle struct {
	MaxHealth    float64
	Acceleration float64
	MaxSpeed     float64
	Friction     float64
	Surface      model.Tile
	Item         model.ItemType
}

// Post-hit reaction timers.
const (
	FleeSeconds  = 2.0
	ChaseSeconds = 5.0
	// ProjectileLifetime bounds flight time for kinds without a distance cap.
	ProjectileLifetime = 2.0
)

var wildlife = map[model.EntityKind]Wildlife{
	model.KindCow: {
		MaxHealth: 35, Speed: 0.8, FleeSpeed: 2.5,
		Preferred: model.TileGrass, HasPreferred: true,
		Drops: []Drop{{model.ItemRawBeef, 0.6}, {model.ItemLeather, 0.4}},
	},
	model.KindRabbit: {
		MaxHealth: 10, Speed: 1.5, FleeSpeed: 4.5,
		Preferred: model.TileSnow, HasPreferred: true,
		Drops: []Drop{{model.ItemRabbitLeg, 0.4}},
	},
	model.KindSnake: {
		MaxHealth: 15, Speed: 2.0, FleeSpeed: 2.0, Damage: 8, Aggressive: true,
		Preferred: model.TileGrass, HasPreferred: true,
	},
	model.KindPoisonSnake: {
		MaxHealth: 15, Speed: 2.0, FleeSpeed: 2.0, Damage: 8, Aggressive: true, PoisonChance: 1,
		Preferred: model.TileGrass, HasPreferred: true,
		Drops: []Drop{{model.ItemSnakeFang, 0.4}},
	},
	model.KindScorpion: {
		MaxHealth: 20, Speed: 1.8, FleeSpeed: 1.8, Damage: 6, Aggressive: true, PoisonChance: 1,
		Preferred: model.TileSand, HasPreferred: true,
	},
	model.KindSpider: {
		MaxHealth: 35, Speed: 1.5, FleeSpeed: 1.5, Damage: 6, Aggressive: true,
		Preferred: model.TileMountain, HasPreferred: true,
	},
	model.KindPoisonSpider: {
		MaxHealth: 25, Speed: 1.6, FleeSpeed: 1.6, Damage: 4, Aggressive: true, PoisonChance: 1,
		Preferred: model.TileMountain, HasPreferred: true,
	},
}

var projectiles = map[model.EntityKind]Projectile{
	model.KindArrow:       {Speed: 12, Damage: 15, MaxDistance: 12, Recover: model.ItemArrow},
	model.KindPoisonArrow: {Speed: 12, Damage: 10, MaxDistance: 12, Recover: model.ItemPoisonArrow},
	model.KindSnowball:    {Speed: 10, Damage: 1, Knockback: 5},
}

var vehicles = map[model.EntityKind]Vehicle{
	model.KindBoat: {MaxHealth: 50, Acceleration: 15, MaxSpeed: 8, Friction: 0.96, Surface: model.TileWater, Item: model.ItemBoat},
}

func WildlifeStats(k model.EntityKind) (Wildlife, bool) {
	s, ok := wildlife[k]
	return s, ok
}

func ProjectileStats(k model.EntityKind) (Projectile, bool) {
	s, ok := projectiles[k]
	return s, ok
}

func VehicleStats(k model.EntityKind) (Vehicle, bool) {
	s, ok := vehicles[k]
	return s, ok
}

// DetectionRange is how close the player must be for an aggressive kind to
// start chasing.
func DetectionRange(k model.EntityKind) float64 {
	if s, ok := wildlife[k]; ok && s.Aggressive {
		return 6
	}
	return 4
}

// NewWildlife returns an idle wildlife entity at full health.
func NewWildlife(id string, k model.EntityKind, x, y, stateTimer float64, facing model.Facing) *model.Entity {
	s := wildlife[k]
	return &model.Entity{
		ID: id, Kind: k, X: x, Y: y,
		Health: s.MaxHealth, MaxHealth: s.MaxHealth,
		State: model.StateIdle, StateTimer: stateTimer, Facing: facing,
	}
}
