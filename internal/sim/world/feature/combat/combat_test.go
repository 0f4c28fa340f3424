package combat

import (
	"errors"
	"math"
	"testing"

	"hearthwild.dev/internal/sim/catalogs"
	"hearthwild.dev/internal/sim/world/kernel/model"
)

func TestReadyCooldown(t *testing.T) {
	var cd map[string]float64
	if !ReadyCooldown(&cd, AbilityMelee, 0.4, 1) {
		t.Fatalf("first swing should be ready")
	}
	if ReadyCooldown(&cd, AbilityMelee, 0.4, 1.2) {
		t.Fatalf("swing inside cooldown allowed")
	}
	if !ReadyCooldown(&cd, AbilityRanged, 0.5, 1.2) {
		t.Fatalf("abilities must not share a cooldown")
	}
	if !ReadyCooldown(&cd, AbilityMelee, 0.4, 1.5) {
		t.Fatalf("swing after cooldown refused")
	}
}

func TestFireRangedPrefersPoisonArrows(t *testing.T) {
	p := model.NewPlayer(4, 100, 100)
	p.Inventory[0] = model.Stack(model.ItemBow, 1)
	p.Inventory[1] = model.Stack(model.ItemArrow, 3)
	p.Inventory[2] = model.Stack(model.ItemPoisonArrow, 1)

	shot, err := FireRanged(p, 0, 5)
	if err != nil || shot.Kind != model.KindPoisonArrow || math.Abs(shot.Angle-math.Pi/2) > 1e-9 {
		t.Fatalf("shot=%+v err=%v", shot, err)
	}
	if p.Inventory[2] != nil {
		t.Fatalf("poison arrow not consumed")
	}
	shot, _ = FireRanged(p, 1, 0)
	if shot.Kind != model.KindArrow || p.Inventory[1].Count != 2 {
		t.Fatalf("shot=%+v arrows=%d", shot, p.Inventory[1].Count)
	}
}

func TestFireRangedWithoutAmmo(t *testing.T) {
	p := model.NewPlayer(2, 100, 100)
	p.Inventory[0] = model.Stack(model.ItemBow, 1)
	if _, err := FireRanged(p, 1, 0); !errors.Is(err, ErrNoAmmo) {
		t.Fatalf("err=%v want ErrNoAmmo", err)
	}
	if p.Inventory[0] == nil {
		t.Fatalf("bow consumed")
	}
}

func TestSnowballIsItsOwnAmmo(t *testing.T) {
	p := model.NewPlayer(2, 100, 100)
	p.Inventory[0] = model.Stack(model.ItemSnowball, 1)
	shot, err := FireRanged(p, 1, 0)
	if err != nil || shot.Kind != model.KindSnowball || p.Inventory[0] != nil {
		t.Fatalf("shot=%+v err=%v inv=%v", shot, err, p.Inventory[0])
	}
}

func TestMelee(t *testing.T) {
	cow := &model.Entity{ID: "cow", Kind: model.KindCow, X: 2.5, Y: 0.5, Health: 5}
	boat := &model.Entity{ID: "boat", Kind: model.KindBoat, X: 2.5, Y: 0.5, Health: 50}
	arrow := &model.Entity{ID: "arrow", Kind: model.KindArrow, X: 2.5, Y: 0.5, Health: 1}
	in := MeleeInput{PX: 0.5, PY: 0.5, TX: 2.5, TY: 0.5, Reach: 3, Radius: 0.8, Damage: 3, Skip: "boat"}

	hit, killed := Melee([]*model.Entity{arrow, boat, cow}, in)
	if hit != cow || killed || cow.Health != 2 || cow.State != model.StateFlee {
		t.Fatalf("hit=%v killed=%v cow=%+v", hit, killed, cow)
	}
	_, killed = Melee([]*model.Entity{cow}, in)
	if !killed {
		t.Fatalf("second swing should kill")
	}

	in.Reach = 1
	if hit, _ := Melee([]*model.Entity{cow}, in); hit != nil {
		t.Fatalf("target out of reach was hit")
	}
}

func TestMeleeDamageFromCatalog(t *testing.T) {
	c, err := catalogs.Load("../../../../../configs")
	if err != nil {
		t.Fatalf("load catalogs: %v", err)
	}
	if got := MeleeDamage(c, nil, 3); got != 3 {
		t.Fatalf("bare hands=%v", got)
	}
	if got := MeleeDamage(c, model.Stack(model.ItemWood, 1), 3); got != 3 {
		t.Fatalf("non-tool=%v", got)
	}
	if got := MeleeDamage(c, model.Stack(model.ItemIronSword, 1), 3); got <= 3 {
		t.Fatalf("iron sword=%v", got)
	}
}
