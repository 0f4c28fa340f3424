package world

import (
	"hearthwild.dev/internal/sim/world/kernel/model"
	"hearthwild.dev/internal/sim/world/logic/ids"
	"hearthwild.dev/internal/sim/world/terrain/store"
)

// Frame is the read-only view handed to the renderer after a step. It owns
// copies of everything it holds.
type Frame struct {
	SimTime float64          `json:"simTime"`
	Player  model.Player     `json:"player"`
	CamX    float64          `json:"camX"`
	CamY    float64          `json:"camY"`
	Driving string           `json:"driving,omitempty"`
	Dead    bool             `json:"dead,omitempty"`
	Chunks  []store.ChunkKey `json:"chunks"`

	Entities []model.Entity      `json:"entities"`
	Drops    []model.DroppedItem `json:"drops"`
	// Particles requested during the last step.
	Particles []Particle `json:"particles,omitempty"`

	Breaking *Breaking `json:"breaking,omitempty"`
	// FishingTimer is negative when no line is cast.
	FishingTimer float64 `json:"fishingTimer"`
	NearChest    string  `json:"nearChest,omitempty"`
	NearStation  bool    `json:"nearStation,omitempty"`

	// Container holds the nearby chest slots when NearChest is set.
	Container []*model.ItemStack `json:"container,omitempty"`
}

// Frame copies the state visible around the player.
func (s *Sim) Frame() Frame {
	p := *s.player
	p.Inventory = model.CloneSlots(s.player.Inventory)
	eq := s.player.Equipment
	p.Equipment = model.Equipment{
		Head: eq.Head.Clone(), Body: eq.Body.Clone(),
		Accessory: eq.Accessory.Clone(), Bag: eq.Bag.Clone(),
	}
	f := Frame{
		SimTime:      s.ctx.SimTime,
		Player:       p,
		CamX:         s.ctx.CamX,
		CamY:         s.ctx.CamY,
		Driving:      s.ctx.Driving,
		Dead:         s.ctx.Dead,
		Particles:    append([]Particle(nil), s.particles...),
		FishingTimer: -1,
		NearChest:    s.ctx.NearChest,
		NearStation:  s.ctx.NearStation,
	}
	if b := s.ctx.Breaking; b != nil {
		cp := *b
		f.Breaking = &cp
	}
	if s.ctx.NearChest != "" {
		if x, y, ok := ids.ParseCellKey(s.ctx.NearChest); ok {
			f.Container = model.CloneSlots(s.store.Container(x, y))
		}
	}
	if s.ctx.Fishing != nil {
		f.FishingTimer = s.ctx.Fishing.Timer
	}
	for _, k := range s.store.KeysInRadius(s.store.KeyAt(p.X, p.Y), s.view) {
		c := s.store.Chunk(k)
		f.Chunks = append(f.Chunks, k)
		for _, e := range c.Entities {
			f.Entities = append(f.Entities, *e)
		}
		for _, d := range c.Drops {
			f.Drops = append(f.Drops, *d.Clone())
		}
	}
	return f
}
