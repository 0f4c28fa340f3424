package combat

import (
	"errors"
	"math"

	"hearthwild.dev/internal/sim/world/feature/economy/inventory"
	"hearthwild.dev/internal/sim/world/kernel/model"
)

var ErrNoAmmo = errors.New("no ammo")

// Shot is a projectile to spawn at the shooter's position.
type Shot struct {
	Kind  model.EntityKind
	Angle float64
}

// IsRanged reports whether holding t fires projectiles instead of swinging.
func IsRanged(t model.ItemType) bool {
	return t == model.ItemBow || t == model.ItemSnowball
}

// FireRanged consumes one piece of ammo for the selected weapon and returns
// the projectile aimed at (tx, ty). A bow prefers poison arrows; a throwable
// is its own ammo.
func FireRanged(p *model.Player, tx, ty float64) (Shot, error) {
	held := p.Selected()
	if held == nil || !IsRanged(held.Type) {
		return Shot{}, ErrNoAmmo
	}
	slot := -1
	var kind model.EntityKind
	switch held.Type {
	case model.ItemBow:
		if i := inventory.FindFirst(p.Inventory, model.ItemPoisonArrow); i >= 0 {
			slot, kind = i, model.KindPoisonArrow
		} else if i := inventory.FindFirst(p.Inventory, model.ItemArrow); i >= 0 {
			slot, kind = i, model.KindArrow
		}
	case model.ItemSnowball:
		slot, kind = p.SelectedSlot, model.KindSnowball
	}
	if slot < 0 {
		return Shot{}, ErrNoAmmo
	}
	inventory.ConsumeOne(p.Inventory, slot)
	return Shot{Kind: kind, Angle: math.Atan2(ty-p.Y, tx-p.X)}, nil
}
