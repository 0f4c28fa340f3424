// Package mining resolves break rules for tiles and overlay objects from the
// tile catalog: which tool may break a target, how long it takes and what
// falls out.
package mining

import (
	"math/rand"
	"slices"

	"hearthwild.dev/internal/sim/catalogs"
	"hearthwild.dev/internal/sim/world/kernel/model"
)

const (
	DefaultBreakTime   = 1.0
	DefaultToolMessage = "Need the correct tool!"
)

// Held describes the active hotbar item. A zero Held is bare hands.
type Held struct {
	Item   string
	Tool   catalogs.ToolDef
	IsTool bool
}

func HeldFrom(c *catalogs.Catalogs, s *model.ItemStack) Held {
	if s == nil {
		return Held{}
	}
	h := Held{Item: string(s.Type)}
	if c != nil {
		h.Tool, h.IsTool = c.Tool(h.Item)
	}
	return h
}

func (h Held) family() string {
	if !h.IsTool {
		return ""
	}
	return h.Tool.Family
}

// Yield is the primary-drop multiplier; bare hands and non-tools yield 1.
func (h Held) Yield() int {
	if h.IsTool && h.Tool.Yield > 0 {
		return h.Tool.Yield
	}
	return 1
}

// CheckTool reports whether h may break the target. msg is set when it may
// not.
func CheckTool(def catalogs.TileDef, h Held) (ok bool, msg string) {
	switch {
	case len(def.RequiresItem) > 0:
		ok = slices.Contains(def.RequiresItem, h.Item)
	case len(def.RequiresFamily) > 0:
		ok = h.family() != "" && slices.Contains(def.RequiresFamily, h.family())
	default:
		return true, ""
	}
	if ok {
		return true, ""
	}
	msg = def.ToolMessage
	if msg == "" {
		msg = DefaultToolMessage
	}
	return false, msg
}

// BreakDuration is the base break time divided by the held tool's speed on
// this target.
func BreakDuration(def catalogs.TileDef, h Held) float64 {
	base := def.BreakTime
	if base <= 0 {
		base = DefaultBreakTime
	}
	speed := 1.0
	if h.Item != "" {
		if def.SpeedFamily != "" && h.family() == def.SpeedFamily && h.Tool.BreakSpeed > 0 {
			speed = h.Tool.BreakSpeed
		}
		if def.AnyItemSpeed > 0 {
			speed = def.AnyItemSpeed
		}
	}
	return base / speed
}

// Drops rolls the target's drop table.
func Drops(def catalogs.TileDef, h Held, r *rand.Rand) []*model.ItemStack {
	var out []*model.ItemStack
	for _, d := range def.Drops {
		if d.NeedsFamily != "" && h.family() != d.NeedsFamily {
			continue
		}
		if d.Chance > 0 && r.Float64() >= d.Chance {
			continue
		}
		n := d.Min
		if d.Max > d.Min {
			n += r.Intn(d.Max - d.Min + 1)
		}
		if d.ScaleByYield {
			n *= h.Yield()
		}
		if n > 0 {
			out = append(out, model.Stack(model.ItemType(d.Item), n))
		}
	}
	return out
}
