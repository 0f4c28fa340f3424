// Package vehicles integrates boat motion. Boats only move across their
// surface tile and carry the driver along.
package vehicles

import (
	"hearthwild.dev/internal/sim/world/feature/entities/species"
	movement "hearthwild.dev/internal/sim/world/feature/movement/runtime"
	"hearthwild.dev/internal/sim/world/kernel/model"
	"hearthwild.dev/internal/sim/world/logic/mathx"
)

type Grid interface {
	Tile(gx, gy int) model.Tile
}

// Control is the driver input applied to a driven vehicle.
type Control struct {
	Driven bool
	// Frozen suppresses steering, for example while a menu is open.
	Frozen bool
	Keys   movement.Keys
}

const facingThreshold = 0.1

// Step accelerates, damps and moves a vehicle. Each axis is integrated
// separately and stops dead when the next cell is not the vehicle surface.
func Step(v *model.Entity, g Grid, c Control, dt float64) {
	stats, ok := species.VehicleStats(v.Kind)
	if !ok {
		return
	}
	if c.Driven && !c.Frozen {
		ax, ay := movement.Intent(c.Keys)
		if ux, uy, l := mathx.Normalize(ax, ay); l > 0 {
			v.VX += ux * stats.Acceleration * dt
			v.VY += uy * stats.Acceleration * dt
		}
	}
	v.VX *= stats.Friction
	v.VY *= stats.Friction
	if ux, uy, l := mathx.Normalize(v.VX, v.VY); l > stats.MaxSpeed {
		v.VX, v.VY = ux*stats.MaxSpeed, uy*stats.MaxSpeed
	}

	nx := v.X + v.VX*dt
	if g.Tile(mathx.Cell(nx), mathx.Cell(v.Y)) == stats.Surface {
		v.X = nx
	} else {
		v.VX = 0
	}
	ny := v.Y + v.VY*dt
	if g.Tile(mathx.Cell(v.X), mathx.Cell(ny)) == stats.Surface {
		v.Y = ny
	} else {
		v.VY = 0
	}
	if v.VX > facingThreshold {
		v.Facing = model.FacingRight
	} else if v.VX < -facingThreshold {
		v.Facing = model.FacingLeft
	}
}

// Spawn returns a vehicle of kind k at full health.
func Spawn(id string, k model.EntityKind, x, y float64) *model.Entity {
	stats, _ := species.VehicleStats(k)
	return &model.Entity{
		ID: id, Kind: k, X: x, Y: y,
		Health: stats.MaxHealth, MaxHealth: stats.MaxHealth,
		State: model.StateIdle, Facing: model.FacingRight,
	}
}
