package store

import (
	"crypto/sha256"
	"encoding/binary"
	"sort"

	"hearthwild.dev/internal/sim/world/kernel/model"
	"hearthwild.dev/internal/sim/world/terrain/gen"
)

type ChunkKey struct {
	CX int `json:"cx"`
	CY int `json:"cy"`
}

type Chunk struct {
	Key  ChunkKey
	Size int

	Tiles      []model.Tile // row-major, index ly*Size+lx
	Objects    map[model.LocalKey]model.Tile
	Containers map[model.LocalKey][]*model.ItemStack
	Entities   []*model.Entity
	Drops      []*model.DroppedItem

	// Render cache key: recomputed lazily after a tile or object mutation.
	dirty bool
	hash  [32]byte
}

func newChunk(g *gen.Chunk, size int) *Chunk {
	c := &Chunk{
		Key:        ChunkKey{CX: g.CX, CY: g.CY},
		Size:       size,
		Tiles:      g.Tiles,
		Objects:    g.Objects,
		Containers: g.Containers,
		Entities:   g.Entities,
		dirty:      true,
	}
	if c.Objects == nil {
		c.Objects = map[model.LocalKey]model.Tile{}
	}
	if c.Containers == nil {
		c.Containers = map[model.LocalKey][]*model.ItemStack{}
	}
	return c
}

func (c *Chunk) index(lx, ly int) int { return ly*c.Size + lx }

func (c *Chunk) Tile(lx, ly int) model.Tile { return c.Tiles[c.index(lx, ly)] }

func (c *Chunk) setTile(lx, ly int, t model.Tile) {
	i := c.index(lx, ly)
	if c.Tiles[i] == t {
		return
	}
	c.Tiles[i] = t
	c.dirty = true
}

// Digest hashes the tile grid and overlay objects. Consumers holding a
// pre-rendered copy of the chunk compare digests to know when to redraw.
func (c *Chunk) Digest() [32]byte {
	if !c.dirty {
		return c.hash
	}
	h := sha256.New()
	tiles := make([]byte, len(c.Tiles))
	for i, t := range c.Tiles {
		tiles[i] = byte(t)
	}
	h.Write(tiles)

	keys := make([]int, 0, len(c.Objects))
	for k := range c.Objects {
		keys = append(keys, int(k))
	}
	sort.Ints(keys)
	var tmp [3]byte
	for _, k := range keys {
		binary.LittleEndian.PutUint16(tmp[:2], uint16(k))
		tmp[2] = byte(c.Objects[model.LocalKey(k)])
		h.Write(tmp[:])
	}
	copy(c.hash[:], h.Sum(nil))
	c.dirty = false
	return c.hash
}

// Dirty reports whether the chunk changed since the last Digest call.
func (c *Chunk) Dirty() bool { return c.dirty }

// ChunkStore owns every generated chunk. It is not safe for concurrent use;
// the simulation loop is its only writer.
type ChunkStore struct {
	Seed   model.SeedConfig
	Params gen.Params
	Chunks map[ChunkKey]*Chunk
}

func NewChunkStore(seed model.SeedConfig, p gen.Params) *ChunkStore {
	if p.ChunkSize <= 0 {
		p.ChunkSize = gen.DefaultParams().ChunkSize
	}
	return &ChunkStore{Seed: seed, Params: p, Chunks: map[ChunkKey]*Chunk{}}
}

func (s *ChunkStore) Size() int { return s.Params.ChunkSize }

func (s *ChunkStore) Chunk(k ChunkKey) *Chunk { return s.Chunks[k] }
