// Package items manages item stacks lying in the world: spawning them with
// their pickup delay, expiring them and moving them into the player's bag.
package items

import (
	"hash/fnv"
	"math"

	"hearthwild.dev/internal/sim/tuning"
	"hearthwild.dev/internal/sim/world/kernel/model"
	"hearthwild.dev/internal/sim/world/logic/ids"
	"hearthwild.dev/internal/sim/world/logic/mathx"
)

// New wraps s as a dropped item at (x, y). delay is the time before it can
// be picked up.
func New(s *model.ItemStack, x, y, delay float64, d tuning.Drops) *model.DroppedItem {
	if s == nil || s.Count <= 0 {
		return nil
	}
	id := ids.DropID()
	out := &model.DroppedItem{
		ID:          id,
		Type:        s.Type,
		Count:       s.Count,
		X:           x,
		Y:           y,
		Contents:    model.CloneSlots(s.Contents),
		PickupDelay: delay,
		FloatOffset: FloatOffset(id),
		LifeTime:    d.Lifetime,
	}
	if s.Durability != nil {
		out.Durability = model.IntPtr(*s.Durability)
	}
	if s.MaxDurability != nil {
		out.MaxDur = model.IntPtr(*s.MaxDurability)
	}
	return out
}

// FloatOffset is the bobbing phase of a dropped item, in [0, 2π), derived
// from its id so it survives a save.
func FloatOffset(id string) float64 {
	h := fnv.New64a()
	h.Write([]byte(id))
	return mathx.Unit01(h.Sum64()) * 2 * math.Pi
}

// Ahead returns the point dist tiles from (x, y) along angle.
func Ahead(x, y, angle, dist float64) (float64, float64) {
	dx, dy := mathx.FromAngle(angle, dist)
	return x + dx, y + dy
}
