package world

import (
	"time"

	"hearthwild.dev/internal/persistence/snapshot"
	"hearthwild.dev/internal/sim/world/kernel/model"
	"hearthwild.dev/internal/sim/world/logic/ids"
	"hearthwild.dev/internal/sim/world/terrain/store"
)

// Export produces a self-contained save. Nothing in the result aliases live
// simulation state, so it can be encoded on another goroutine.
func (s *Sim) Export(meta snapshot.Meta) snapshot.SaveV1 {
	p := s.player
	eq := p.Equipment
	if meta.LastPlayed == 0 {
		meta.LastPlayed = time.Now().UnixMilli()
	}
	return snapshot.SaveV1{
		Header: snapshot.Header{
			Version:   snapshot.Version,
			SaveID:    ids.SaveID(),
			Slot:      meta.ID,
			SimTime:   s.ctx.SimTime,
			CreatedAt: time.Now().UTC().Format(time.RFC3339),
		},
		Meta: meta,
		Player: snapshot.PlayerV1{
			X:         p.X,
			Y:         p.Y,
			Health:    p.Health,
			Stamina:   p.Stamina,
			Inventory: model.CloneSlots(p.Inventory),
			Equipment: model.Equipment{
				Head: eq.Head.Clone(), Body: eq.Body.Clone(),
				Accessory: eq.Accessory.Clone(), Bag: eq.Bag.Clone(),
			},
			Rotation:     p.Rotation,
			PoisonTimer:  p.PoisonTimer,
			SelectedSlot: p.SelectedSlot,
		},
		World: snapshot.WorldV1{
			TilePalette: store.TilePalette(),
			Chunks:      s.store.ExportChunks(),
			Saplings:    append([]model.Sapling(nil), s.ctx.Saplings...),
			SeedConfig:  s.store.Seed,
			SimTime:     s.ctx.SimTime,
			Driving:     s.ctx.Driving,
		},
		Camera: snapshot.CameraV1{X: s.ctx.CamX, Y: s.ctx.CamY},
	}
}
