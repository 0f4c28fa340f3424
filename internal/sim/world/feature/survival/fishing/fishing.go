package fishing

import "hearthwild.dev/internal/sim/world/kernel/model"

// Session is an active cast at a water cell.
type Session struct {
	X, Y  int
	Timer float64
}

type Hooks struct {
	SpawnItem func(x, y float64, s *model.ItemStack)
	Status    func(msg string)
	Particles func(x, y float64, color string, count int, size float64)
	Name      func(t model.ItemType) string
	// Roll returns a uniform value in [0,1).
	Roll func() float64
}

const waterColor = "#60a5fa"

// Advance runs the session for dt. When the catch lands it drops a salmon or
// cod at the player, wears the rod in the selected slot and reports done.
func Advance(s *Session, dt, duration float64, p *model.Player, h Hooks) (done bool) {
	if s == nil {
		return false
	}
	s.Timer += dt
	if s.Timer < duration {
		return false
	}
	catch := model.ItemCod
	if h.Roll() > 0.5 {
		catch = model.ItemSalmon
	}
	h.SpawnItem(p.X, p.Y, model.Stack(catch, 1))
	if h.Particles != nil {
		h.Particles(float64(s.X)+0.5, float64(s.Y)+0.5, waterColor, 10, 3)
	}
	h.Status("Caught a " + h.Name(catch) + "!")

	rod := p.Selected()
	if rod != nil && rod.Type == model.ItemFishingRod {
		if rod.Durability == nil {
			rod.Durability = model.IntPtr(1)
		}
		*rod.Durability--
		if *rod.Durability <= 0 {
			p.Inventory[p.SelectedSlot] = nil
			h.Status(h.Name(model.ItemFishingRod) + " broke!")
		}
	}
	return true
}
