package store

import (
	"fmt"
	"slices"

	snapv1 "hearthwild.dev/internal/persistence/snapshot"
	"hearthwild.dev/internal/sim/encoding"
	"hearthwild.dev/internal/sim/world/kernel/model"
)

// TilePalette names every tile id that can appear in an exported grid.
func TilePalette() []string {
	out := make([]string, 0, int(model.TileSnowBlock)+1)
	for t := model.TileGrass; t <= model.TileSnowBlock; t++ {
		out = append(out, t.String())
	}
	return out
}

// ExportChunks converts loaded chunks into snapshot chunks. The digest cache
// is not exported.
func (s *ChunkStore) ExportChunks() []snapv1.ChunkV1 {
	keys := s.LoadedChunkKeys()
	out := make([]snapv1.ChunkV1, 0, len(keys))
	for _, k := range keys {
		c := s.Chunks[k]
		sc := snapv1.ChunkV1{
			CX:       k.CX,
			CY:       k.CY,
			Size:     c.Size,
			TilesRLE: encoding.EncodeGrid(c.Tiles),
		}
		for _, lk := range sortedLocalKeys(c.Objects) {
			lx, ly := lk.Unpack()
			sc.Objects = append(sc.Objects, snapv1.ObjectV1{LX: lx, LY: ly, Type: c.Objects[lk].String()})
		}
		for _, lk := range sortedLocalKeys(c.Containers) {
			lx, ly := lk.Unpack()
			sc.Containers = append(sc.Containers, snapv1.ContainerV1{LX: lx, LY: ly, Items: model.CloneSlots(c.Containers[lk])})
		}
		for _, e := range c.Entities {
			sc.Entities = append(sc.Entities, *e)
		}
		for _, d := range c.Drops {
			sc.DroppedItems = append(sc.DroppedItems, *d.Clone())
		}
		out = append(out, sc)
	}
	return out
}

// ImportChunks replaces the store's chunks. palette maps grid ids to tile
// names; nil means the current TilePalette. A chunk that cannot be decoded is
// skipped and reported, and will regenerate on first access.
func (s *ChunkStore) ImportChunks(palette []string, chunks []snapv1.ChunkV1) []string {
	if palette == nil {
		palette = TilePalette()
	}
	remap := make([]model.Tile, len(palette))
	for i, name := range palette {
		t, ok := model.TileByName(name)
		if !ok {
			t = model.TileGrass
		}
		remap[i] = t
	}

	var warns []string
	s.Chunks = map[ChunkKey]*Chunk{}
	size := s.Size()
	for _, sc := range chunks {
		if sc.Size != 0 && sc.Size != size {
			warns = append(warns, fmt.Sprintf("chunk %d,%d: size %d want %d", sc.CX, sc.CY, sc.Size, size))
			continue
		}
		ids, err := encoding.DecodeGrid(sc.TilesRLE, size*size)
		if err == nil && len(ids) != size*size {
			err = fmt.Errorf("got %d tiles want %d", len(ids), size*size)
		}
		if err != nil {
			warns = append(warns, fmt.Sprintf("chunk %d,%d: tiles: %v", sc.CX, sc.CY, err))
			continue
		}
		k := ChunkKey{CX: sc.CX, CY: sc.CY}
		c := &Chunk{
			Key:        k,
			Size:       size,
			Tiles:      make([]model.Tile, len(ids)),
			Objects:    map[model.LocalKey]model.Tile{},
			Containers: map[model.LocalKey][]*model.ItemStack{},
			dirty:      true,
		}
		for i, id := range ids {
			if int(id) < len(remap) {
				c.Tiles[i] = remap[id]
			}
		}
		for _, o := range sc.Objects {
			t, ok := model.TileByName(o.Type)
			if !ok || !inChunk(o.LX, o.LY, size) {
				warns = append(warns, fmt.Sprintf("chunk %d,%d: dropped object %q", sc.CX, sc.CY, o.Type))
				continue
			}
			c.Objects[model.PackLocal(o.LX, o.LY)] = t
		}
		for _, ct := range sc.Containers {
			lk := model.PackLocal(ct.LX, ct.LY)
			if _, ok := c.Objects[lk]; !ok || !inChunk(ct.LX, ct.LY, size) {
				continue
			}
			c.Containers[lk] = model.CloneSlots(ct.Items)
		}
		for i := range sc.Entities {
			e := sc.Entities[i]
			c.Entities = append(c.Entities, &e)
		}
		for i := range sc.DroppedItems {
			d := sc.DroppedItems[i]
			c.Drops = append(c.Drops, &d)
		}
		s.Chunks[k] = c
	}
	return warns
}

func inChunk(lx, ly, size int) bool {
	return lx >= 0 && ly >= 0 && lx < size && ly < size
}

func sortedLocalKeys[V any](m map[model.LocalKey]V) []model.LocalKey {
	keys := make([]model.LocalKey, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	return keys
}
