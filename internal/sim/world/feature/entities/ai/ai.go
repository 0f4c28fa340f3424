// Package ai drives wildlife through the idle, wander, chase and flee states
// and resolves their strikes against the player.
package ai

import (
	"math/rand"

	"hearthwild.dev/internal/sim/tuning"
	"hearthwild.dev/internal/sim/world/feature/entities/species"
	movement "hearthwild.dev/internal/sim/world/feature/movement/runtime"
	"hearthwild.dev/internal/sim/world/kernel/model"
	"hearthwild.dev/internal/sim/world/logic/mathx"
)

type Grid interface {
	Tile(gx, gy int) model.Tile
	Object(gx, gy int) (model.Tile, bool)
	BlockedAt(x, y float64) bool
}

// Player is the part of the player the AI reacts to.
type Player struct {
	X, Y   float64
	Riding bool
}

type Env struct {
	DT  float64
	Now float64
	// Player position and ride state.
	Player   Player
	Rand     *rand.Rand
	Movement tuning.Movement
	// Strike is called when an entity lands a hit on the player.
	Strike func(e *model.Entity, damage float64, poison bool)
}

// Tuned behaviour constants.
const (
	wanderAttempts   = 5
	wanderRange      = 6.0
	seekRange        = 10.0
	seekFallback     = 8.0
	arriveRadius     = 0.2
	strikeRadius     = 0.8
	strikeCooldown   = 1.0
	giveUpFactor     = 1.5
	fleeDistance     = 5.0
	stopRadius       = 0.1
	knockbackDamping = 0.9
	knockbackStop    = 0.1
	blockedIdle      = 0.5
	noTargetIdle     = 1.0
)

// Step advances one wildlife entity by env.DT.
func Step(e *model.Entity, g Grid, env Env) {
	stats, ok := species.WildlifeStats(e.Kind)
	if !ok {
		return
	}
	r := env.Rand
	e.StateTimer -= env.DT
	toPlayer := mathx.Dist(e.X, e.Y, env.Player.X, env.Player.Y)
	detect := species.DetectionRange(e.Kind)
	aggro := func() {
		if stats.Aggressive && toPlayer < detect && !env.Player.Riding {
			e.State = model.StateChase
			e.StateTimer = species.ChaseSeconds
		}
	}

	switch e.State {
	case model.StateIdle:
		if e.StateTimer <= 0 {
			pickWanderTarget(e, g, stats, r)
		}
		aggro()
	case model.StateWander:
		if e.StateTimer <= 0 || (e.HasTarget && mathx.Dist(e.X, e.Y, e.TargetX, e.TargetY) < arriveRadius) {
			e.State = model.StateIdle
			e.StateTimer = r.Float64()*2 + 1
			e.ClearTarget()
		}
		aggro()
	case model.StateChase:
		e.SetTarget(env.Player.X, env.Player.Y)
		if toPlayer > detect*giveUpFactor || env.Player.Riding {
			e.State = model.StateIdle
		}
		if toPlayer < strikeRadius && (e.LastAttackAt == 0 || env.Now-e.LastAttackAt > strikeCooldown) {
			e.LastAttackAt = env.Now
			poison := stats.PoisonChance > 0 && r.Float64() < stats.PoisonChance
			if env.Strike != nil {
				env.Strike(e, stats.Damage, poison)
			}
		}
	case model.StateFlee:
		if e.StateTimer <= 0 {
			e.State = model.StateIdle
		}
		if ux, uy, l := mathx.Normalize(e.X-env.Player.X, e.Y-env.Player.Y); l > 0 {
			e.SetTarget(e.X+ux*fleeDistance, e.Y+uy*fleeDistance)
		}
	default:
		e.State = model.StateIdle
	}

	speed := stats.Speed
	switch e.State {
	case model.StateFlee:
		speed = stats.FleeSpeed
	case model.StateIdle:
		speed = 0
	}

	Knockback(e, env.DT)

	if speed <= 0 || !e.HasTarget {
		return
	}
	dx, dy := e.TargetX-e.X, e.TargetY-e.Y
	ux, uy, l := mathx.Normalize(dx, dy)
	if l <= stopRadius {
		return
	}
	mx, my := ux*speed*env.DT, uy*speed*env.DT
	canX := passable(g, e.X+mx, e.Y)
	canY := passable(g, e.X, e.Y+my)
	obj, has := g.Object(mathx.Cell(e.X), mathx.Cell(e.Y))
	mod := movement.WildlifeMultiplier(obj, has, env.Movement)
	if canX {
		e.X += mx * mod
	}
	if canY {
		e.Y += my * mod
	}
	if !canX && !canY && e.State == model.StateWander {
		e.State = model.StateIdle
		e.StateTimer = blockedIdle
	}
	if dx > 0 {
		e.Facing = model.FacingRight
	} else {
		e.Facing = model.FacingLeft
	}
}

func passable(g Grid, x, y float64) bool {
	return !g.BlockedAt(x, y) && g.Tile(mathx.Cell(x), mathx.Cell(y)) != model.TileUnknown
}

// pickWanderTarget moves an idle entity into wander. An entity off its
// preferred biome searches further and only accepts that biome, falling back
// to a blind offset.
func pickWanderTarget(e *model.Entity, g Grid, stats species.Wildlife, r *rand.Rand) {
	e.State = model.StateWander
	e.StateTimer = r.Float64()*3 + 1

	seek := stats.HasPreferred && g.Tile(mathx.Cell(e.X), mathx.Cell(e.Y)) != stats.Preferred
	span := wanderRange
	if seek {
		span = seekRange
	}
	for i := 0; i < wanderAttempts; i++ {
		px := e.X + (r.Float64()-0.5)*span
		py := e.Y + (r.Float64()-0.5)*span
		tile := g.Tile(mathx.Cell(px), mathx.Cell(py))
		if tile == model.TileUnknown || (seek && tile != stats.Preferred) {
			continue
		}
		e.SetTarget(px, py)
		return
	}
	if seek {
		e.SetTarget(e.X+(r.Float64()-0.5)*seekFallback, e.Y+(r.Float64()-0.5)*seekFallback)
		return
	}
	e.State = model.StateIdle
	e.StateTimer = noTargetIdle
}

// Knockback integrates and damps velocity left by a hit.
func Knockback(e *model.Entity, dt float64) {
	if e.VX == 0 && e.VY == 0 {
		return
	}
	e.VX *= knockbackDamping
	e.VY *= knockbackDamping
	if e.VX > -knockbackStop && e.VX < knockbackStop {
		e.VX = 0
	}
	if e.VY > -knockbackStop && e.VY < knockbackStop {
		e.VY = 0
	}
	e.X += e.VX * dt
	e.Y += e.VY * dt
}

// OnHit overrides the current state after the entity takes damage: passive
// kinds flee and aggressive kinds chase.
func OnHit(e *model.Entity) {
	stats, ok := species.WildlifeStats(e.Kind)
	if !ok {
		return
	}
	if stats.Aggressive {
		e.State = model.StateChase
		e.StateTimer = species.ChaseSeconds
		return
	}
	e.State = model.StateFlee
	e.StateTimer = species.FleeSeconds
}

// Loot rolls each drop of a dead entity independently. Vehicles return
// their item.
func Loot(k model.EntityKind, r *rand.Rand) []*model.ItemStack {
	if v, ok := species.VehicleStats(k); ok {
		return []*model.ItemStack{model.Stack(v.Item, 1)}
	}
	stats, ok := species.WildlifeStats(k)
	if !ok {
		return nil
	}
	var out []*model.ItemStack
	for _, d := range stats.Drops {
		if r.Float64() < d.Chance {
			out = append(out, model.Stack(d.Item, 1))
		}
	}
	return out
}
