package snapshot

import (
	"encoding/json"
	"fmt"

	"hearthwild.dev/internal/sim/world/kernel/model"
)

type raw = map[string]json.RawMessage

// Normalize decodes a JSON save body field by field. A field or list element
// that fails to decode is replaced by its default (or dropped, for list
// elements) and reported in the returned warnings.
func Normalize(body []byte, d Defaults) (SaveV1, []string, error) {
	var top raw
	if err := json.Unmarshal(body, &top); err != nil {
		return SaveV1{}, nil, fmt.Errorf("save body: %w", err)
	}
	n := &normalizer{}
	var s SaveV1
	n.field(top, "header", &s.Header)
	n.field(top, "meta", &s.Meta)
	n.field(top, "camera", &s.Camera)
	s.Player = n.player(top["player"], d)
	s.World = n.world(top["world"])
	if s.World.SimTime == 0 {
		s.World.SimTime = s.Header.SimTime
	}
	return s, n.warnings, nil
}

type normalizer struct {
	warnings []string
}

func (n *normalizer) warnf(format string, args ...any) {
	n.warnings = append(n.warnings, fmt.Sprintf(format, args...))
}

// field decodes m[key] into dst, leaving dst untouched when the key is
// absent or damaged. It reports whether a value was decoded.
func (n *normalizer) field(m raw, key string, dst any) bool {
	b, ok := m[key]
	if !ok || len(b) == 0 || string(b) == "null" {
		return false
	}
	if err := json.Unmarshal(b, dst); err != nil {
		n.warnf("%s: %v", key, err)
		return false
	}
	return true
}

func (n *normalizer) player(b json.RawMessage, d Defaults) PlayerV1 {
	p := PlayerV1{Health: d.MaxHealth, Stamina: d.MaxStamina}
	var m raw
	if len(b) == 0 || json.Unmarshal(b, &m) != nil {
		n.warnf("player: missing or unreadable, using defaults")
		p.Inventory = make([]*model.ItemStack, d.InventorySize)
		return p
	}
	n.field(m, "x", &p.X)
	n.field(m, "y", &p.Y)
	n.field(m, "rotation", &p.Rotation)
	n.field(m, "poisonTimer", &p.PoisonTimer)
	n.field(m, "selectedItemIndex", &p.SelectedSlot)
	if !n.field(m, "health", &p.Health) {
		p.Health = d.MaxHealth
	}
	if !n.field(m, "stamina", &p.Stamina) {
		p.Stamina = d.MaxStamina
	}

	p.Inventory = n.slots(m["inventory"], "player.inventory")
	for len(p.Inventory) < d.InventorySize {
		p.Inventory = append(p.Inventory, nil)
	}
	if p.SelectedSlot < 0 || p.SelectedSlot >= len(p.Inventory) {
		p.SelectedSlot = 0
	}

	var eq raw
	if b, ok := m["equipment"]; ok && json.Unmarshal(b, &eq) == nil {
		for _, slot := range []model.EquipSlot{model.SlotHead, model.SlotBody, model.SlotAccessory, model.SlotBag} {
			var st *model.ItemStack
			if n.field(eq, string(slot), &st) && validStack(st) {
				p.Equipment.Set(slot, st)
			}
		}
	}
	return p
}

// slots decodes an inventory-like list. Damaged slots become empty so that
// slot indices stay stable.
func (n *normalizer) slots(b json.RawMessage, where string) []*model.ItemStack {
	var elems []json.RawMessage
	if len(b) == 0 || json.Unmarshal(b, &elems) != nil {
		return nil
	}
	out := make([]*model.ItemStack, len(elems))
	for i, e := range elems {
		if string(e) == "null" {
			continue
		}
		var st model.ItemStack
		if err := json.Unmarshal(e, &st); err != nil || !validStack(&st) {
			n.warnf("%s[%d]: dropped damaged slot", where, i)
			continue
		}
		out[i] = &st
	}
	return out
}

func validStack(s *model.ItemStack) bool {
	return s != nil && s.Type != "" && s.Count > 0
}

func (n *normalizer) world(b json.RawMessage) WorldV1 {
	var w WorldV1
	var m raw
	if len(b) == 0 || json.Unmarshal(b, &m) != nil {
		n.warnf("world: missing or unreadable, starting empty")
		w.SeedMissing = true
		return w
	}
	n.field(m, "tilePalette", &w.TilePalette)
	n.field(m, "simTime", &w.SimTime)
	n.field(m, "driving", &w.Driving)
	if !n.field(m, "seedConfig", &w.SeedConfig) {
		w.SeedMissing = true
	}

	var chunks []json.RawMessage
	n.field(m, "chunks", &chunks)
	for i, cb := range chunks {
		c, ok := n.chunk(cb, i)
		if ok {
			w.Chunks = append(w.Chunks, c)
		}
	}

	var saplings []json.RawMessage
	n.field(m, "saplings", &saplings)
	for i, sb := range saplings {
		var s model.Sapling
		if err := json.Unmarshal(sb, &s); err != nil {
			n.warnf("world.saplings[%d]: %v", i, err)
			continue
		}
		w.Saplings = append(w.Saplings, s)
	}
	return w
}

func (n *normalizer) chunk(b json.RawMessage, idx int) (ChunkV1, bool) {
	var c ChunkV1
	var m raw
	if err := json.Unmarshal(b, &m); err != nil {
		n.warnf("world.chunks[%d]: %v", idx, err)
		return c, false
	}
	// A chunk without its coordinates or tile grid cannot be placed.
	if !n.field(m, "cx", &c.CX) || !n.field(m, "cy", &c.CY) || !n.field(m, "tiles", &c.TilesRLE) {
		n.warnf("world.chunks[%d]: missing coordinates or tiles", idx)
		return c, false
	}
	n.field(m, "size", &c.Size)
	n.field(m, "objects", &c.Objects)

	var containers []json.RawMessage
	n.field(m, "containers", &containers)
	for i, cb := range containers {
		var cm raw
		if json.Unmarshal(cb, &cm) != nil {
			n.warnf("world.chunks[%d].containers[%d]: unreadable", idx, i)
			continue
		}
		var ct ContainerV1
		n.field(cm, "lx", &ct.LX)
		n.field(cm, "ly", &ct.LY)
		ct.Items = n.slots(cm["items"], fmt.Sprintf("world.chunks[%d].containers[%d]", idx, i))
		c.Containers = append(c.Containers, ct)
	}

	var ents []json.RawMessage
	n.field(m, "entities", &ents)
	for i, eb := range ents {
		var e model.Entity
		if err := json.Unmarshal(eb, &e); err != nil || e.Kind == "" {
			n.warnf("world.chunks[%d].entities[%d]: dropped", idx, i)
			continue
		}
		if e.State == "" {
			e.State = model.StateIdle
		}
		if e.Facing == "" {
			e.Facing = model.FacingDown
		}
		c.Entities = append(c.Entities, e)
	}

	var drops []json.RawMessage
	n.field(m, "droppedItems", &drops)
	for i, db := range drops {
		var it model.DroppedItem
		if err := json.Unmarshal(db, &it); err != nil || it.Type == "" || it.Count <= 0 {
			n.warnf("world.chunks[%d].droppedItems[%d]: dropped", idx, i)
			continue
		}
		c.DroppedItems = append(c.DroppedItems, it)
	}
	return c, true
}
