package world

import (
	"hearthwild.dev/internal/sim/catalogs"
	"hearthwild.dev/internal/sim/tuning"
	"hearthwild.dev/internal/sim/world/kernel/model"
	"hearthwild.dev/internal/sim/world/terrain/gen"
)

type Config struct {
	Tuning   tuning.Tuning
	Catalogs *catalogs.Catalogs
	// RandSeed seeds gameplay rolls (drops, AI, catches). Terrain depends only
	// on the seed config.
	RandSeed int64
	// SpawnX and SpawnY are where the player respawns.
	SpawnX, SpawnY float64
}

func (c *Config) applyDefaults() {
	d := tuning.Defaults()
	t := &c.Tuning
	if t.TickRateHz <= 0 {
		t.TickRateHz = d.TickRateHz
	}
	if t.MaxStepSec <= 0 {
		t.MaxStepSec = d.MaxStepSec
	}
	if t.ChunkSize <= 0 {
		t.ChunkSize = d.ChunkSize
	}
	if t.TileSize <= 0 {
		t.TileSize = d.TileSize
	}
	if t.InventorySize <= 0 {
		t.InventorySize = d.InventorySize
	}
	if t.ContainerSize <= 0 {
		t.ContainerSize = d.ContainerSize
	}
	if t.BackpackSize <= 0 {
		t.BackpackSize = d.BackpackSize
	}
	if t.MaxStack <= 0 {
		t.MaxStack = d.MaxStack
	}
	if t.MaxHealth <= 0 {
		t.MaxHealth = d.MaxHealth
	}
	if t.MaxStamina <= 0 {
		t.MaxStamina = d.MaxStamina
	}
	for _, f := range []struct {
		v *float64
		d float64
	}{
		{&t.GrowthSec, d.GrowthSec},
		{&t.FishingSec, d.FishingSec},
		{&t.PlaceCooldown, d.PlaceCooldown},
		{&t.MeleeCooldown, d.MeleeCooldown},
		{&t.RangedCooldown, d.RangedCooldown},
		{&t.BareHandDamage, d.BareHandDamage},
		{&t.BaseReach, d.BaseReach},
		{&t.MountRadius, d.MountRadius},
		{&t.StrikeRadius, d.StrikeRadius},
		{&t.ArmorDivisor, d.ArmorDivisor},
		{&t.DropAhead, d.DropAhead},
		{&t.AutosaveSec, d.AutosaveSec},
	} {
		if *f.v <= 0 {
			*f.v = f.d
		}
	}
	if t.Movement.PlayerSpeed <= 0 {
		t.Movement = d.Movement
	}
	if t.Hazards == (tuning.Hazards{}) {
		t.Hazards = d.Hazards
	}
	if t.Drops == (tuning.Drops{}) {
		t.Drops = d.Drops
	}
	if t.Charm == (tuning.Charm{}) {
		t.Charm = d.Charm
	}
}

func (c *Config) genParams() gen.Params {
	p := gen.Params{
		ChunkSize:        c.Tuning.ChunkSize,
		SpawnRadius:      c.Tuning.SpawnRadius,
		SpawnClearRadius: c.Tuning.SpawnClear,
		ContainerSize:    c.Tuning.ContainerSize,
	}
	if p.SpawnRadius <= 0 {
		p.SpawnRadius = gen.DefaultParams().SpawnRadius
	}
	if p.SpawnClearRadius <= 0 {
		p.SpawnClearRadius = gen.DefaultParams().SpawnClearRadius
	}
	if c.Catalogs != nil {
		p.Durability = map[model.ItemType]int{}
		for id, d := range c.Catalogs.Durabilities() {
			p.Durability[model.ItemType(id)] = d
		}
	}
	return p
}
