// Package runtime holds the movement rules shared by the player and wildlife:
// direction intent, aim facing, terrain speed and per-axis sliding collision.
package runtime

import (
	"math"

	"hearthwild.dev/internal/sim/tuning"
	"hearthwild.dev/internal/sim/world/kernel/model"
	"hearthwild.dev/internal/sim/world/logic/mathx"
)

// Blocker answers the collision question for a world position.
type Blocker interface {
	BlockedAt(x, y float64) bool
}

type Keys struct {
	Up, Down, Left, Right bool
}

// Intent turns held direction keys into an unnormalized vector.
func Intent(k Keys) (dx, dy float64) {
	if k.Up {
		dy--
	}
	if k.Down {
		dy++
	}
	if k.Left {
		dx--
	}
	if k.Right {
		dx++
	}
	return dx, dy
}

// Aim returns the pointer angle relative to the screen centre and the
// matching quadrant facing.
func Aim(mouseX, mouseY, screenW, screenH float64) (float64, model.Facing) {
	angle := math.Atan2(mouseY-screenH/2, mouseX-screenW/2)
	return angle, FacingFromAngle(angle)
}

func FacingFromAngle(angle float64) model.Facing {
	deg := angle * 180 / math.Pi
	switch {
	case deg >= -45 && deg < 45:
		return model.FacingRight
	case deg >= 45 && deg < 135:
		return model.FacingDown
	case deg >= -135 && deg < -45:
		return model.FacingUp
	}
	return model.FacingLeft
}

type SpeedInput struct {
	Running bool
	Charm   bool
	// Swimming is set in water when not riding.
	Swimming bool
	Under    model.Tile
	HasUnder bool
}

// PlayerSpeed applies run, charm, water and overlay multipliers to the base
// walking speed.
func PlayerSpeed(in SpeedInput, m tuning.Movement, charmMultiplier float64) float64 {
	speed := m.PlayerSpeed
	if in.Running {
		speed *= m.RunMultiplier
	}
	if in.Charm {
		speed *= charmMultiplier
	}
	if in.Swimming {
		speed *= m.WaterMultiplier
	}
	if in.HasUnder {
		speed *= OverlayMultiplier(in.Under, m)
	}
	return speed
}

// OverlayMultiplier is the slow-down from the object under a walker.
func OverlayMultiplier(obj model.Tile, m tuning.Movement) float64 {
	switch obj {
	case model.TileCobweb:
		return m.WebMultiplier
	case model.TileSnowPile, model.TileSnowBlock:
		return m.SnowMultiplier
	case model.TileBush:
		return m.BushMultiplier
	}
	return 1
}

// WildlifeMultiplier only honours snow; wildlife ignores webs and bushes.
func WildlifeMultiplier(obj model.Tile, has bool, m tuning.Movement) float64 {
	if has && (obj == model.TileSnowPile || obj == model.TileSnowBlock) {
		return m.SnowMultiplier
	}
	return 1
}

// Slide moves dist along (dx, dy), resolving each axis on its own so a
// walker slides along walls. X is resolved first.
func Slide(b Blocker, x, y, dx, dy, dist float64) (nx, ny float64, movedX, movedY bool) {
	ux, uy, l := mathx.Normalize(dx, dy)
	if l == 0 || dist == 0 {
		return x, y, false, false
	}
	nx, ny = x, y
	if next := x + ux*dist; !b.BlockedAt(next, ny) {
		nx, movedX = next, true
	}
	if next := y + uy*dist; !b.BlockedAt(nx, next) {
		ny, movedY = next, true
	}
	return nx, ny, movedX, movedY
}
