package store

import (
	"math"

	"hearthwild.dev/internal/sim/world/terrain/gen"
)

type Radius struct {
	X, Y int
}

type Viewport struct {
	W, H float64 // pixels
	Zoom float64
}

// MaxViewRadius bounds the chunks generated around the player in one step
// regardless of the viewport a client reports.
const MaxViewRadius = 6

// RadiusForViewport sizes the generation radius from the visible area so
// that zooming out generates more chunks and zooming in fewer.
func RadiusForViewport(v Viewport, chunkSize int, tileSize float64) Radius {
	zoom := v.Zoom
	if zoom <= 0 {
		zoom = 1
	}
	span := float64(chunkSize) * tileSize
	rx := int(math.Ceil(v.W/zoom/span/2)) + 1
	ry := int(math.Ceil(v.H/zoom/span/2)) + 1
	return Radius{X: min(max(1, rx), MaxViewRadius), Y: min(max(1, ry), MaxViewRadius)}
}

// EnsureChunk returns the chunk, generating it on first access. Existing
// chunks are never regenerated.
func (s *ChunkStore) EnsureChunk(k ChunkKey) *Chunk {
	if c, ok := s.Chunks[k]; ok {
		return c
	}
	g := gen.GenerateChunk(s.Seed, k.CX, k.CY, s.Params)
	c := newChunk(g, s.Size())
	s.Chunks[k] = c
	return c
}

// EnsureChunksInRadius generates every missing chunk within r of center and
// returns how many were created.
func (s *ChunkStore) EnsureChunksInRadius(center ChunkKey, r Radius) int {
	n := 0
	for dy := -r.Y; dy <= r.Y; dy++ {
		for dx := -r.X; dx <= r.X; dx++ {
			k := ChunkKey{CX: center.CX + dx, CY: center.CY + dy}
			if _, ok := s.Chunks[k]; ok {
				continue
			}
			s.EnsureChunk(k)
			n++
		}
	}
	return n
}

// KeysInRadius lists existing chunks within r of center in row order.
func (s *ChunkStore) KeysInRadius(center ChunkKey, r Radius) []ChunkKey {
	var out []ChunkKey
	for dy := -r.Y; dy <= r.Y; dy++ {
		for dx := -r.X; dx <= r.X; dx++ {
			k := ChunkKey{CX: center.CX + dx, CY: center.CY + dy}
			if _, ok := s.Chunks[k]; ok {
				out = append(out, k)
			}
		}
	}
	return out
}
