package gen

import (
	"math"

	"hearthwild.dev/internal/sim/world/kernel/model"
)

// Layer offsets separate the independent noise fields.
const (
	offElevation   = 0
	offTemperature = 5000
	offVegetation  = 9999
	offMountains   = 20000
	offNest        = 8888
)

// noise is layered trigonometric noise over a rotated coordinate frame. The
// rotation and the two seeds are what make each world distinct.
func noise(cfg model.SeedConfig, x, y, offset float64) float64 {
	const (
		scale1 = 0.05
		scale2 = 0.02
	)
	cosR, sinR := math.Cos(cfg.Rotation), math.Sin(cfg.Rotation)
	rx := x*cosR - y*sinR
	ry := x*sinR + y*cosR

	xo := rx + offset + cfg.Seed
	yo := ry + offset + cfg.SeedY

	v := math.Sin(xo*scale1) * math.Cos(yo*scale1)
	v += math.Sin(xo*scale2+yo*scale2) * 0.5
	v += math.Cos(xo*0.1+yo*0.1) * 0.2
	return v
}

// Fields are the per-cell noise samples after spawn blending.
type Fields struct {
	Elevation   float64
	Temperature float64
	Vegetation  float64
	Mountains   float64
	DistToSpawn float64
}

// Sample evaluates all fields at a global cell. Inside spawnRadius the
// elevation, mountain and temperature fields blend linearly toward land, no
// mountains and neutral temperature.
func Sample(cfg model.SeedConfig, gx, gy int, spawnRadius float64) Fields {
	x, y := float64(gx), float64(gy)
	f := Fields{
		Elevation:   noise(cfg, x, y, offElevation),
		Temperature: noise(cfg, x*0.5, y*0.5, offTemperature),
		Vegetation:  noise(cfg, x, y, offVegetation),
		Mountains:   noise(cfg, x, y, offMountains),
		DistToSpawn: math.Hypot(x, y),
	}
	if f.DistToSpawn < spawnRadius {
		b := 1 - f.DistToSpawn/spawnRadius
		f.Elevation = f.Elevation*(1-b) + 0.5*b
		f.Mountains = f.Mountains*(1-b) + (-1.0)*b
		f.Temperature = f.Temperature * (1 - b)
	}
	return f
}

type Biome struct {
	Desert   bool
	Taiga    bool
	Mountain bool
	Shore    bool
}

func Classify(cfg model.SeedConfig, f Fields) (model.Tile, Biome) {
	b := Biome{
		Desert:   f.Temperature+cfg.TempOffset > 0.2,
		Taiga:    f.Temperature+cfg.TempOffset < -0.3,
		Mountain: f.Mountains+cfg.MountainOffset > 0.55,
	}
	switch {
	case f.Elevation > 0.8:
		return model.TileWater, b
	case f.Elevation > 0.65:
		b.Shore = true
		switch {
		case b.Mountain:
			return model.TileMountain, b
		case b.Taiga:
			return model.TileSnow, b
		default:
			return model.TileSand, b
		}
	case b.Mountain:
		return model.TileMountain, b
	case b.Taiga:
		return model.TileSnow, b
	case b.Desert:
		return model.TileSand, b
	default:
		return model.TileGrass, b
	}
}

// nestNoise marks spider nest regions inside mountains.
func nestNoise(cfg model.SeedConfig, gx, gy int) float64 {
	return noise(cfg, float64(gx)*0.6, float64(gy)*0.6, offNest)
}
