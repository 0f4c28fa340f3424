// Package gen is the pure chunk generator. Output depends only on the seed
// config, the chunk coordinate and Params.
package gen

import (
	"math"
	"math/rand"

	"hearthwild.dev/internal/sim/world/feature/entities/species"
	"hearthwild.dev/internal/sim/world/kernel/model"
	"hearthwild.dev/internal/sim/world/logic/ids"
	"hearthwild.dev/internal/sim/world/logic/mathx"
)

type Params struct {
	ChunkSize int
	// SpawnRadius is the blend radius around the origin.
	SpawnRadius float64
	// SpawnClearRadius is kept free of objects and wildlife.
	SpawnClearRadius float64
	ContainerSize    int
	// Durability gives looted durable items their catalog durability.
	Durability map[model.ItemType]int
}

func DefaultParams() Params {
	return Params{ChunkSize: 32, SpawnRadius: 20, SpawnClearRadius: 5, ContainerSize: 12}
}

type Chunk struct {
	CX, CY     int
	Tiles      []model.Tile // row-major, index ly*size+lx
	Objects    map[model.LocalKey]model.Tile
	Containers map[model.LocalKey][]*model.ItemStack
	Entities   []*model.Entity
}

// Salts keep the object hash and the chunk RNG independent of each other.
const (
	saltObjects = 0x6f626a
	saltChunk   = 0x63686b
)

func chunkRand(cfg model.SeedConfig, cx, cy int) *rand.Rand {
	seed := mathx.SeedBits(cfg.Seed) ^ mathx.SeedBits(cfg.SeedY)<<1 ^ saltChunk
	return rand.New(rand.NewSource(int64(mathx.Hash2(seed, cx, cy))))
}

// CellHash is the per-cell roll in [0,1) used for object placement.
func CellHash(cfg model.SeedConfig, gx, gy int) float64 {
	return mathx.Unit01(mathx.Hash2(mathx.SeedBits(cfg.Seed)^saltObjects, gx, gy))
}

func GenerateChunk(cfg model.SeedConfig, cx, cy int, p Params) *Chunk {
	size := p.ChunkSize
	c := &Chunk{
		CX: cx, CY: cy,
		Tiles:      make([]model.Tile, size*size),
		Objects:    map[model.LocalKey]model.Tile{},
		Containers: map[model.LocalKey][]*model.ItemStack{},
	}
	r := chunkRand(cfg, cx, cy)

	for ly := 0; ly < size; ly++ {
		for lx := 0; lx < size; lx++ {
			gx := cx*size + lx
			gy := cy*size + ly
			f := Sample(cfg, gx, gy, p.SpawnRadius)
			tile, biome := Classify(cfg, f)
			c.Tiles[ly*size+lx] = tile

			if f.DistToSpawn < p.SpawnClearRadius {
				continue
			}
			key := model.PackLocal(lx, ly)
			h := CellHash(cfg, gx, gy)
			switch tile {
			case model.TileMountain:
				c.populateMountain(cfg, r, p, key, gx, gy, h)
			case model.TileGrass:
				c.populateGrass(r, key, gx, gy, h, f.Vegetation)
			case model.TileSand:
				c.populateSand(r, key, gx, gy, h, biome)
			case model.TileSnow:
				c.populateSnow(r, key, gx, gy, h, f.Vegetation)
			}
		}
	}
	return c
}

func (c *Chunk) populateMountain(cfg model.SeedConfig, r *rand.Rand, p Params, key model.LocalKey, gx, gy int, h float64) {
	nest := nestNoise(cfg, gx, gy) > 0.15
	switch {
	case h < 0.1:
		c.Objects[key] = model.TileRock
	case h < 0.25:
		c.Objects[key] = model.TileIronOre
	case h < 0.28:
		c.Objects[key] = model.TileGoldOre
	case nest && h > 0.985:
		c.Objects[key] = model.TileChest
		c.Containers[key] = nestChestLoot(r, p.ContainerSize, p.Durability)
	case nest && h < 0.65:
		c.Objects[key] = model.TileCobweb
	}
	if nest && h > 0.95 && h <= 0.985 {
		n := r.Intn(2) + 2
		for i := 0; i < n; i++ {
			kind := model.KindSpider
			if r.Float64() > 0.7 {
				kind = model.KindPoisonSpider
			}
			c.spawn(r, kind, gx, gy, i, 2)
		}
	}
}

func (c *Chunk) populateGrass(r *rand.Rand, key model.LocalKey, gx, gy int, h, vegetation float64) {
	if vegetation > 0.3 {
		switch {
		case h < 0.1:
			c.Objects[key] = model.TileTree
		case h < 0.13:
			c.Objects[key] = model.TileRock
		case h < 0.16:
			c.Objects[key] = model.TileBush
		}
		if vegetation > 0.4 && h > 0.99 {
			n := r.Intn(2) + 1
			for i := 0; i < n; i++ {
				kind := model.KindSnake
				if r.Float64() < 0.3 {
					kind = model.KindPoisonSnake
				}
				c.spawn(r, kind, gx, gy, i, 1.5)
			}
		}
	} else {
		switch {
		case h < 0.02:
			c.Objects[key] = model.TileTree
		case h < 0.03:
			c.Objects[key] = model.TileRock
		case h < 0.3:
			c.Objects[key] = model.TileTallGrass
		}
	}
	if _, ok := c.Objects[key]; !ok && h > 0.998 {
		c.Objects[key] = model.TileIronOre
	}
	if h > 0.992 && h < 0.996 {
		c.spawn(r, model.KindCow, gx, gy, 0, 0)
	}
}

func (c *Chunk) populateSand(r *rand.Rand, key model.LocalKey, gx, gy int, h float64, b Biome) {
	if b.Shore && !b.Mountain && !b.Taiga {
		if h < 0.02 {
			c.Objects[key] = model.TileClam
		}
		return
	}
	if !b.Desert {
		return
	}
	switch {
	case h < 0.03:
		c.Objects[key] = model.TileCactus
	case h < 0.04:
		c.Objects[key] = model.TileRock
	}
	if h > 0.996 {
		c.spawn(r, model.KindScorpion, gx, gy, 0, 0)
	}
}

func (c *Chunk) populateSnow(r *rand.Rand, key model.LocalKey, gx, gy int, h, vegetation float64) {
	if vegetation > 0.2 {
		switch {
		case h < 0.1:
			c.Objects[key] = model.TilePineTree
		case h < 0.12:
			c.Objects[key] = model.TileRock
		case h < 0.16:
			c.Objects[key] = model.TileBush
		case h < 0.25:
			c.Objects[key] = model.TileSnowPile
		}
	} else {
		switch {
		case h < 0.02:
			c.Objects[key] = model.TilePineTree
		case h < 0.03:
			c.Objects[key] = model.TileRock
		case h < 0.15:
			c.Objects[key] = model.TileSnowPile
		}
	}
	if h > 0.99 && h < 0.996 {
		c.spawn(r, model.KindRabbit, gx, gy, 0, 0)
	}
	if h > 0.997 && h < 0.999 {
		c.spawn(r, model.KindCow, gx, gy, 1, 0)
	}
}

// spawn places one member of a cluster around the cell centre. spread is the
// full width of the random offset; zero spawns exactly at the centre.
func (c *Chunk) spawn(r *rand.Rand, kind model.EntityKind, gx, gy, n int, spread float64) {
	var offX, offY float64
	if spread > 0 {
		offX = (r.Float64() - 0.5) * spread
		offY = (r.Float64() - 0.5) * spread
	}
	facing := model.FacingLeft
	if r.Float64() > 0.5 {
		facing = model.FacingRight
	}
	timer := r.Float64()*5 + 2
	id := ids.GeneratedEntityID(string(kind), gx, gy, n)
	c.Entities = append(c.Entities, species.NewWildlife(id, kind, float64(gx)+0.5+offX, float64(gy)+0.5+offY, timer, facing))
}

// RandomSeedConfig draws a fresh world config.
func RandomSeedConfig(r *rand.Rand) model.SeedConfig {
	return model.SeedConfig{
		Seed:           r.Float64() * 10000,
		SeedY:          r.Float64() * 10000,
		Rotation:       r.Float64() * math.Pi * 2,
		TempOffset:     (r.Float64() - 0.5) * 0.15,
		MountainOffset: (r.Float64() - 0.5) * 0.1,
	}
}
