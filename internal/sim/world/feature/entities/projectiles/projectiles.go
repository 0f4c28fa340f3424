package projectiles

import (
	"math"

	"hearthwild.dev/internal/sim/world/feature/entities/ai"
	"hearthwild.dev/internal/sim/world/feature/entities/species"
	"hearthwild.dev/internal/sim/world/kernel/model"
	"hearthwild.dev/internal/sim/world/logic/mathx"
)

// HitRadius is how close a projectile must pass to strike an entity.
const HitRadius = 0.5

type Grid interface {
	BlockedAt(x, y float64) bool
}

type Hooks struct {
	// Recover leaves an item where an arrow stopped.
	Recover   func(x, y float64, item model.ItemType)
	Particles func(x, y float64, color string, count int, size float64)
}

type Outcome struct {
	Remove bool
	// Hit is the entity struck this tick, Killed reports whether it died.
	Hit    *model.Entity
	Killed bool
}

// Spawn returns a projectile of kind k at (x, y) flying along angle.
func Spawn(id string, k model.EntityKind, x, y, angle float64) *model.Entity {
	stats, _ := species.ProjectileStats(k)
	vx, vy := mathx.FromAngle(angle, stats.Speed)
	return &model.Entity{
		ID: id, Kind: k, X: x, Y: y, VX: vx, VY: vy,
		Rotation: angle, Health: 1, MaxHealth: 1,
		State: model.StateIdle, Facing: model.FacingRight,
	}
}

// Step moves one projectile and resolves wall, entity and range checks in
// that order. nearby is scanned for targets; the caller removes p (and a
// killed target) when the outcome says so.
func Step(p *model.Entity, g Grid, nearby []*model.Entity, dt float64, h Hooks) Outcome {
	stats, ok := species.ProjectileStats(p.Kind)
	if !ok {
		return Outcome{Remove: true}
	}
	nx, ny := p.X+p.VX*dt, p.Y+p.VY*dt
	if g.BlockedAt(nx, ny) {
		dropAmmo(p, stats, h)
		particles(h, p.X, p.Y, "#9CA3AF", 3, 1)
		return Outcome{Remove: true}
	}
	step := math.Hypot(nx-p.X, ny-p.Y)
	p.X, p.Y = nx, ny
	p.Traveled += step

	for _, t := range nearby {
		if t == p || t.Kind.IsProjectile() || t.Kind.IsVehicle() {
			continue
		}
		if mathx.Dist(p.X, p.Y, t.X, t.Y) >= HitRadius {
			continue
		}
		t.Health -= stats.Damage
		if stats.Knockback > 0 {
			t.VX, t.VY = mathx.FromAngle(math.Atan2(p.VY, p.VX), stats.Knockback)
		}
		ai.OnHit(t)
		particles(h, t.X, t.Y, "#ef4444", 3, 2)
		if p.Kind == model.KindPoisonArrow {
			particles(h, t.X, t.Y, "#4ADE80", 5, 2)
		}
		return Outcome{Remove: true, Hit: t, Killed: t.Health <= 0}
	}

	p.Health -= dt
	expired := p.Health <= 1-species.ProjectileLifetime
	if stats.MaxDistance > 0 && p.Traveled >= stats.MaxDistance {
		expired = true
	}
	if expired {
		dropAmmo(p, stats, h)
		return Outcome{Remove: true}
	}
	return Outcome{}
}

func dropAmmo(p *model.Entity, stats species.Projectile, h Hooks) {
	if stats.Recover != "" && h.Recover != nil {
		h.Recover(p.X, p.Y, stats.Recover)
	}
}

func particles(h Hooks, x, y float64, color string, n int, size float64) {
	if h.Particles != nil {
		h.Particles(x, y, color, n, size)
	}
}
