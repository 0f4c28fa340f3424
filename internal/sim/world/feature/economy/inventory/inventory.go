// Package inventory implements slot-array stack rules shared by the player
// inventory, chests and backpack contents.
package inventory

import "hearthwild.dev/internal/sim/world/kernel/model"

// Count sums every stack of type t.
func Count(slots []*model.ItemStack, t model.ItemType) int {
	n := 0
	for _, s := range slots {
		if s != nil && s.Type == t {
			n += s.Count
		}
	}
	return n
}

func FindFirst(slots []*model.ItemStack, t model.ItemType) int {
	for i, s := range slots {
		if s != nil && s.Type == t && s.Count > 0 {
			return i
		}
	}
	return -1
}

func FirstEmpty(slots []*model.ItemStack) int {
	for i, s := range slots {
		if s == nil {
			return i
		}
	}
	return -1
}

// Add merges s into slots: first onto matching plain stacks up to maxStack,
// then into the first empty slot. It returns the count that did not fit;
// s.Count is reduced by what was taken.
func Add(slots []*model.ItemStack, s *model.ItemStack, maxStack int) int {
	if s == nil || s.Count <= 0 {
		return 0
	}
	if !s.HasDurability() && s.Contents == nil {
		for i, slot := range slots {
			if !slot.Stackable(s) || slot.Count >= maxStack {
				continue
			}
			add := min(maxStack-slot.Count, s.Count)
			slots[i].Count += add
			s.Count -= add
			if s.Count == 0 {
				return 0
			}
		}
	}
	if i := FirstEmpty(slots); i >= 0 {
		slots[i] = s.Clone()
		s.Count = 0
		return 0
	}
	return s.Count
}

// Fits reports whether Add would take the whole stack.
func Fits(slots []*model.ItemStack, s *model.ItemStack, maxStack int) bool {
	if FirstEmpty(slots) >= 0 {
		return true
	}
	if s.HasDurability() || s.Contents != nil {
		return false
	}
	room := 0
	for _, slot := range slots {
		if slot.Stackable(s) {
			room += max(0, maxStack-slot.Count)
		}
	}
	return room >= s.Count
}

// Remove deducts n of type t slot by slot in slot order. Nothing changes when
// fewer than n are held.
func Remove(slots []*model.ItemStack, t model.ItemType, n int) bool {
	if n <= 0 {
		return true
	}
	if Count(slots, t) < n {
		return false
	}
	for i, s := range slots {
		if n == 0 {
			break
		}
		if s == nil || s.Type != t {
			continue
		}
		if s.Count > n {
			s.Count -= n
			n = 0
			continue
		}
		n -= s.Count
		slots[i] = nil
	}
	return true
}

// ConsumeOne takes one unit from slots[i].
func ConsumeOne(slots []*model.ItemStack, i int) bool {
	if i < 0 || i >= len(slots) || slots[i] == nil {
		return false
	}
	slots[i].Count--
	if slots[i].Count <= 0 {
		slots[i] = nil
	}
	return true
}

// Wear removes one point of durability from s. broke is true when it reached
// zero; the caller clears the slot holding it.
func Wear(s *model.ItemStack) (broke bool) {
	if !s.HasDurability() {
		return false
	}
	*s.Durability--
	return *s.Durability <= 0
}

// WearSlot wears slots[i] and clears the slot when it breaks.
func WearSlot(slots []*model.ItemStack, i int) (model.ItemType, bool) {
	if i < 0 || i >= len(slots) || slots[i] == nil {
		return "", false
	}
	t := slots[i].Type
	if Wear(slots[i]) {
		slots[i] = nil
		return t, true
	}
	return t, false
}

// Swap exchanges or merges two slots, which may belong to different arrays.
// Plain stacks of the same type merge up to maxStack.
func Swap(a []*model.ItemStack, i int, b []*model.ItemStack, j int, maxStack int) bool {
	if i < 0 || i >= len(a) || j < 0 || j >= len(b) {
		return false
	}
	src, dst := a[i], b[j]
	if src == nil {
		return false
	}
	if dst.Stackable(src) && dst != src {
		add := min(maxStack-dst.Count, src.Count)
		if add > 0 {
			dst.Count += add
			src.Count -= add
			if src.Count == 0 {
				a[i] = nil
			}
			return true
		}
	}
	a[i], b[j] = dst, src
	return true
}

// Pad returns slots resized to n, keeping existing entries.
func Pad(slots []*model.ItemStack, n int) []*model.ItemStack {
	if len(slots) >= n {
		return slots
	}
	out := make([]*model.ItemStack, n)
	copy(out, slots)
	return out
}
