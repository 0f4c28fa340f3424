package ai

import (
	"math/rand"
	"testing"

	"hearthwild.dev/internal/sim/tuning"
	"hearthwild.dev/internal/sim/world/kernel/model"
)

type flatGrid struct {
	tile    model.Tile
	blocked bool
}

func (g flatGrid) Tile(int, int) model.Tile           { return g.tile }
func (g flatGrid) Object(int, int) (model.Tile, bool) { return 0, false }
func (g flatGrid) BlockedAt(float64, float64) bool    { return g.blocked }

func env(px, py float64, now float64) Env {
	return Env{
		DT:       1.0 / 60,
		Now:      now,
		Player:   Player{X: px, Y: py},
		Rand:     rand.New(rand.NewSource(1)),
		Movement: tuning.Defaults().Movement,
	}
}

func TestAggressiveChasesNearbyPlayer(t *testing.T) {
	e := &model.Entity{Kind: model.KindSnake, State: model.StateIdle, StateTimer: 10}
	Step(e, flatGrid{tile: model.TileGrass}, env(3, 0, 1))
	if e.State != model.StateChase {
		t.Fatalf("state=%s want chase", e.State)
	}

	riding := &model.Entity{Kind: model.KindSnake, State: model.StateIdle, StateTimer: 10}
	en := env(3, 0, 1)
	en.Player.Riding = true
	Step(riding, flatGrid{tile: model.TileGrass}, en)
	if riding.State != model.StateIdle {
		t.Fatalf("riding player should not be chased, state=%s", riding.State)
	}

	cow := &model.Entity{Kind: model.KindCow, State: model.StateIdle, StateTimer: 10}
	Step(cow, flatGrid{tile: model.TileGrass}, env(1, 0, 1))
	if cow.State != model.StateIdle {
		t.Fatalf("cow should stay idle, state=%s", cow.State)
	}
}

func TestStrikeCooldown(t *testing.T) {
	e := &model.Entity{Kind: model.KindPoisonSnake, State: model.StateChase, StateTimer: 5}
	hits := 0
	poisoned := 0
	grid := flatGrid{tile: model.TileGrass}
	for _, now := range []float64{5, 5.5, 6.1} {
		en := env(0.5, 0, now)
		en.Strike = func(_ *model.Entity, dmg float64, poison bool) {
			if dmg != 8 {
				t.Fatalf("damage=%v", dmg)
			}
			hits++
			if poison {
				poisoned++
			}
		}
		e.X, e.Y = 0, 0
		e.State = model.StateChase
		Step(e, grid, en)
	}
	if hits != 2 || poisoned != 2 {
		t.Fatalf("hits=%d poisoned=%d want 2,2", hits, poisoned)
	}
}

func TestChaseGivesUpOutOfRange(t *testing.T) {
	e := &model.Entity{Kind: model.KindSpider, State: model.StateChase, StateTimer: 5}
	Step(e, flatGrid{tile: model.TileMountain}, env(20, 0, 1))
	if e.State != model.StateIdle {
		t.Fatalf("state=%s want idle", e.State)
	}
}

func TestWanderMovesTowardTarget(t *testing.T) {
	e := &model.Entity{Kind: model.KindCow, State: model.StateWander, StateTimer: 5}
	e.SetTarget(5, 0)
	Step(e, flatGrid{tile: model.TileGrass}, env(50, 50, 1))
	if e.X <= 0 || e.Facing != model.FacingRight {
		t.Fatalf("x=%v facing=%s", e.X, e.Facing)
	}
}

func TestBlockedWanderGoesIdle(t *testing.T) {
	e := &model.Entity{Kind: model.KindCow, State: model.StateWander, StateTimer: 5}
	e.SetTarget(5, 5)
	Step(e, flatGrid{tile: model.TileGrass, blocked: true}, env(50, 50, 1))
	if e.State != model.StateIdle || e.StateTimer != blockedIdle || e.X != 0 {
		t.Fatalf("state=%s timer=%v x=%v", e.State, e.StateTimer, e.X)
	}
}

func TestIdleOffBiomeSeeksPreferred(t *testing.T) {
	// Only sand around: a cow never finds grass and uses the blind fallback.
	e := &model.Entity{Kind: model.KindCow, State: model.StateIdle}
	Step(e, flatGrid{tile: model.TileSand}, env(50, 50, 1))
	if e.State != model.StateWander || !e.HasTarget {
		t.Fatalf("state=%s hasTarget=%v", e.State, e.HasTarget)
	}
}

func TestOnHit(t *testing.T) {
	cow := &model.Entity{Kind: model.KindCow, State: model.StateIdle}
	OnHit(cow)
	if cow.State != model.StateFlee || cow.StateTimer != 2 {
		t.Fatalf("cow %s %v", cow.State, cow.StateTimer)
	}
	spider := &model.Entity{Kind: model.KindSpider, State: model.StateIdle}
	OnHit(spider)
	if spider.State != model.StateChase || spider.StateTimer != 5 {
		t.Fatalf("spider %s %v", spider.State, spider.StateTimer)
	}
	boat := &model.Entity{Kind: model.KindBoat}
	OnHit(boat)
	if boat.State != "" {
		t.Fatalf("boat state changed to %s", boat.State)
	}
}

func TestKnockbackDampsAndSnaps(t *testing.T) {
	e := &model.Entity{VX: 0.105}
	Knockback(e, 1)
	if e.VX != 0 {
		t.Fatalf("vx=%v want snapped to 0", e.VX)
	}
	e = &model.Entity{VX: 5}
	Knockback(e, 0.5)
	if e.VX != 4.5 || e.X != 2.25 {
		t.Fatalf("vx=%v x=%v", e.VX, e.X)
	}
}

func TestLootBoatAlwaysReturnsItem(t *testing.T) {
	got := Loot(model.KindBoat, rand.New(rand.NewSource(1)))
	if len(got) != 1 || got[0].Type != model.ItemBoat {
		t.Fatalf("loot=%v", got)
	}
	if Loot(model.KindArrow, rand.New(rand.NewSource(1))) != nil {
		t.Fatalf("projectiles have no loot")
	}
}
