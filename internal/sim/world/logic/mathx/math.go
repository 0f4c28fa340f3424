package mathx

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

func FloorDiv(a, b int) int {
	// b > 0
	q := a / b
	r := a % b
	if r < 0 {
		q--
	}
	return q
}

func Mod(a, b int) int {
	// b > 0
	m := a % b
	if m < 0 {
		m += b
	}
	return m
}

// Cell returns the integer cell containing the world coordinate v.
func Cell(v float64) int {
	return int(math.Floor(v))
}

func Dist(x1, y1, x2, y2 float64) float64 {
	return math.Hypot(x2-x1, y2-y1)
}

func Clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// Normalize returns the unit vector of (dx, dy) and its original length.
// A zero vector stays zero.
func Normalize(dx, dy float64) (nx, ny, length float64) {
	v := mgl64.Vec2{dx, dy}
	length = v.Len()
	if length == 0 {
		return 0, 0, 0
	}
	n := v.Mul(1 / length)
	return n.X(), n.Y(), length
}

// FromAngle returns a vector of the given magnitude pointing along angle (radians).
func FromAngle(angle, magnitude float64) (x, y float64) {
	v := mgl64.Vec2{math.Cos(angle), math.Sin(angle)}.Mul(magnitude)
	return v.X(), v.Y()
}

func mix64(z uint64) uint64 {
	z += 0x9e3779b97f4a7c15
	z = (z ^ (z >> 30)) * 0xbf58476d1ce4e5b9
	z = (z ^ (z >> 27)) * 0x94d049bb133111eb
	return z ^ (z >> 31)
}

func Hash2(seed int64, x, y int) uint64 {
	ux := uint64(uint32(int32(x)))
	uy := uint64(uint32(int32(y)))
	v := uint64(seed) ^ (ux * 0x9e3779b97f4a7c15) ^ (uy * 0xbf58476d1ce4e5b9)
	return mix64(v)
}

// Unit01 maps a hash to [0, 1) using its top 53 bits.
func Unit01(h uint64) float64 {
	return float64(h>>11) / (1 << 53)
}

// SeedBits folds a float seed into an integer hash seed.
func SeedBits(seed float64) int64 {
	return int64(math.Float64bits(seed))
}
