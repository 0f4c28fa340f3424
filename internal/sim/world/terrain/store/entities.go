package store

import (
	"hearthwild.dev/internal/sim/world/kernel/model"
	"hearthwild.dev/internal/sim/world/logic/mathx"
)

// AddEntity appends e to the chunk containing its position. It reports false
// when that chunk is not generated.
func (s *ChunkStore) AddEntity(e *model.Entity) bool {
	c := s.Chunks[s.KeyAt(e.X, e.Y)]
	if c == nil {
		return false
	}
	c.Entities = append(c.Entities, e)
	return true
}

func (s *ChunkStore) RemoveEntity(k ChunkKey, id string) bool {
	c := s.Chunks[k]
	if c == nil {
		return false
	}
	for i, e := range c.Entities {
		if e.ID == id {
			c.Entities = append(c.Entities[:i], c.Entities[i+1:]...)
			return true
		}
	}
	return false
}

// FindEntity searches every loaded chunk.
func (s *ChunkStore) FindEntity(id string) (*model.Entity, ChunkKey, bool) {
	for _, k := range s.LoadedChunkKeys() {
		for _, e := range s.Chunks[k].Entities {
			if e.ID == id {
				return e, k, true
			}
		}
	}
	return nil, ChunkKey{}, false
}

// EntitiesAround collects entities from the 3x3 chunks centred on k.
func (s *ChunkStore) EntitiesAround(k ChunkKey) []*model.Entity {
	var out []*model.Entity
	for _, ck := range s.KeysInRadius(k, Radius{X: 1, Y: 1}) {
		out = append(out, s.Chunks[ck].Entities...)
	}
	return out
}

// Move records an entity that may have left its owning chunk during a pass.
type Move struct {
	Entity *model.Entity
	From   ChunkKey
}

// Relocate transfers each moved entity to the chunk containing its current
// position. An entity heading into an ungenerated chunk is clamped back inside
// its owner and stopped. Relocate returns the number of transfers.
func (s *ChunkStore) Relocate(moves []Move) int {
	n := 0
	for _, m := range moves {
		e := m.Entity
		to := s.KeyAt(e.X, e.Y)
		if to == m.From {
			continue
		}
		if s.Chunks[to] == nil {
			s.clampInto(e, m.From)
			continue
		}
		if !s.RemoveEntity(m.From, e.ID) {
			continue
		}
		s.Chunks[to].Entities = append(s.Chunks[to].Entities, e)
		n++
	}
	return n
}

func (s *ChunkStore) clampInto(e *model.Entity, k ChunkKey) {
	size := float64(s.Size())
	const eps = 1e-3
	minX, minY := float64(k.CX)*size, float64(k.CY)*size
	e.X = mathx.Clamp(e.X, minX, minX+size-eps)
	e.Y = mathx.Clamp(e.Y, minY, minY+size-eps)
	e.VX, e.VY = 0, 0
}

// AddDrop stores a dropped item in the chunk under it. Drops into an
// ungenerated chunk are discarded.
func (s *ChunkStore) AddDrop(d *model.DroppedItem) bool {
	c := s.Chunks[s.KeyAt(d.X, d.Y)]
	if c == nil {
		return false
	}
	c.Drops = append(c.Drops, d)
	return true
}
