// Package growth matures planted saplings and crops.
package growth

import "hearthwild.dev/internal/sim/world/kernel/model"

type Grid interface {
	Object(gx, gy int) (model.Tile, bool)
	SetObject(gx, gy int, t model.Tile) bool
}

// Sweep converts every record older than growthSec into its mature object
// and returns the records still growing. A record whose cell no longer holds
// a growable object is dropped. onGrow may be nil.
func Sweep(saplings []model.Sapling, now, growthSec float64, g Grid, onGrow func(x, y int, to model.Tile)) []model.Sapling {
	kept := saplings[:0]
	for _, s := range saplings {
		obj, ok := g.Object(s.X, s.Y)
		mature, growable := obj.Matured()
		if !ok || !growable {
			continue
		}
		if now-s.PlantTime <= growthSec {
			kept = append(kept, s)
			continue
		}
		g.SetObject(s.X, s.Y, mature)
		if onGrow != nil {
			onGrow(s.X, s.Y, mature)
		}
	}
	return kept
}

// Forget removes the record at a cell, used when the object is broken.
func Forget(saplings []model.Sapling, x, y int) []model.Sapling {
	kept := saplings[:0]
	for _, s := range saplings {
		if s.X != x || s.Y != y {
			kept = append(kept, s)
		}
	}
	return kept
}
