package combat

import (
	"hearthwild.dev/internal/sim/catalogs"
	"hearthwild.dev/internal/sim/world/feature/entities/ai"
	"hearthwild.dev/internal/sim/world/kernel/model"
	"hearthwild.dev/internal/sim/world/logic/mathx"
)

type MeleeInput struct {
	PX, PY float64
	// Aim point in world tiles.
	TX, TY float64
	Reach  float64
	Radius float64
	Damage float64
	// Skip is the id of the vehicle the player is riding.
	Skip string
}

// MeleeDamage is the configured attack of the held tool, or bare when the
// item has none.
func MeleeDamage(c *catalogs.Catalogs, held *model.ItemStack, bare float64) float64 {
	if held == nil || c == nil {
		return bare
	}
	if t, ok := c.Tool(string(held.Type)); ok && t.Attack > 0 {
		return t.Attack
	}
	return bare
}

// Target returns the first candidate within in.Radius of the aim point that
// is also within reach of the player. Projectiles and the ridden vehicle are
// never targets.
func Target(candidates []*model.Entity, in MeleeInput) *model.Entity {
	for _, e := range candidates {
		if e.ID == in.Skip || e.Kind.IsProjectile() {
			continue
		}
		if mathx.Dist(e.X, e.Y, in.TX, in.TY) < in.Radius && mathx.Dist(in.PX, in.PY, e.X, e.Y) < in.Reach {
			return e
		}
	}
	return nil
}

// Strike applies damage to e and the post-hit state change. It reports
// whether e died.
func Strike(e *model.Entity, damage float64) bool {
	e.Health -= damage
	ai.OnHit(e)
	return e.Health <= 0
}

// Melee resolves one swing: it finds the target and strikes it. hit is nil
// when nothing was in reach.
func Melee(candidates []*model.Entity, in MeleeInput) (hit *model.Entity, killed bool) {
	hit = Target(candidates, in)
	if hit == nil {
		return nil, false
	}
	return hit, Strike(hit, in.Damage)
}
