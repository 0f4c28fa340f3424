package store

import (
	"slices"

	"golang.org/x/exp/maps"

	"hearthwild.dev/internal/sim/world/kernel/model"
	"hearthwild.dev/internal/sim/world/logic/mathx"
)

// Locate splits a global cell coordinate into its chunk and the
// non-negative local offset inside it.
func Locate(gx, gy, size int) (ChunkKey, int, int) {
	return ChunkKey{CX: mathx.FloorDiv(gx, size), CY: mathx.FloorDiv(gy, size)}, mathx.Mod(gx, size), mathx.Mod(gy, size)
}

// Global is the inverse of Locate.
func Global(k ChunkKey, lx, ly, size int) (int, int) {
	return k.CX*size + lx, k.CY*size + ly
}

// KeyAt returns the chunk owning a continuous world position.
func (s *ChunkStore) KeyAt(x, y float64) ChunkKey {
	k, _, _ := Locate(mathx.Cell(x), mathx.Cell(y), s.Size())
	return k
}

func (s *ChunkStore) locate(gx, gy int) (*Chunk, int, int) {
	k, lx, ly := Locate(gx, gy, s.Size())
	return s.Chunks[k], lx, ly
}

// Tile returns the base tile, or TileUnknown when the chunk is not generated.
func (s *ChunkStore) Tile(gx, gy int) model.Tile {
	c, lx, ly := s.locate(gx, gy)
	if c == nil {
		return model.TileUnknown
	}
	return c.Tile(lx, ly)
}

func (s *ChunkStore) Object(gx, gy int) (model.Tile, bool) {
	c, lx, ly := s.locate(gx, gy)
	if c == nil {
		return model.TileUnknown, false
	}
	o, ok := c.Objects[model.PackLocal(lx, ly)]
	return o, ok
}

func (s *ChunkStore) Container(gx, gy int) []*model.ItemStack {
	c, lx, ly := s.locate(gx, gy)
	if c == nil {
		return nil
	}
	return c.Containers[model.PackLocal(lx, ly)]
}

// SetTile reports false when the chunk does not exist.
func (s *ChunkStore) SetTile(gx, gy int, t model.Tile) bool {
	c, lx, ly := s.locate(gx, gy)
	if c == nil {
		return false
	}
	c.setTile(lx, ly, t)
	return true
}

func (s *ChunkStore) SetObject(gx, gy int, t model.Tile) bool {
	c, lx, ly := s.locate(gx, gy)
	if c == nil {
		return false
	}
	c.Objects[model.PackLocal(lx, ly)] = t
	c.dirty = true
	return true
}

// RemoveObject clears the overlay and any container attached to it.
func (s *ChunkStore) RemoveObject(gx, gy int) (model.Tile, bool) {
	c, lx, ly := s.locate(gx, gy)
	if c == nil {
		return model.TileUnknown, false
	}
	key := model.PackLocal(lx, ly)
	o, ok := c.Objects[key]
	if !ok {
		return model.TileUnknown, false
	}
	delete(c.Objects, key)
	delete(c.Containers, key)
	c.dirty = true
	return o, true
}

// SetContainer attaches a payload to an existing overlay object. It reports
// false when the chunk or the object is missing.
func (s *ChunkStore) SetContainer(gx, gy int, items []*model.ItemStack) bool {
	c, lx, ly := s.locate(gx, gy)
	if c == nil {
		return false
	}
	key := model.PackLocal(lx, ly)
	if _, ok := c.Objects[key]; !ok {
		return false
	}
	c.Containers[key] = items
	return true
}

func (s *ChunkStore) RemoveContainer(gx, gy int) []*model.ItemStack {
	c, lx, ly := s.locate(gx, gy)
	if c == nil {
		return nil
	}
	key := model.PackLocal(lx, ly)
	items := c.Containers[key]
	delete(c.Containers, key)
	return items
}

// Target returns what a break action at the cell would hit: the overlay if
// present, otherwise the base tile.
func (s *ChunkStore) Target(gx, gy int) (t model.Tile, isObject bool) {
	if o, ok := s.Object(gx, gy); ok {
		return o, true
	}
	return s.Tile(gx, gy), false
}

// Blocked is the movement collision test shared by the player and wildlife.
func (s *ChunkStore) Blocked(gx, gy int) bool {
	tile := s.Tile(gx, gy)
	if tile == model.TileUnknown {
		return true
	}
	if tile == model.TileWater {
		return false
	}
	obj, hasObj := s.Object(gx, gy)
	if hasObj && obj.Walkable() {
		return false
	}
	return tile.Solid() || (hasObj && obj.Solid())
}

// BlockedAt applies Blocked to the cell containing a world position.
func (s *ChunkStore) BlockedAt(x, y float64) bool {
	return s.Blocked(mathx.Cell(x), mathx.Cell(y))
}

// LoadedChunkKeys lists generated chunks ordered by (CX, CY).
func (s *ChunkStore) LoadedChunkKeys() []ChunkKey {
	keys := maps.Keys(s.Chunks)
	slices.SortFunc(keys, compareKeys)
	return keys
}

func compareKeys(a, b ChunkKey) int {
	if a.CX != b.CX {
		return a.CX - b.CX
	}
	return a.CY - b.CY
}
