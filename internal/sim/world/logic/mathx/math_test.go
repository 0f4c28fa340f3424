package mathx

import (
	"math"
	"testing"
)

func TestFloorDivAndModNegative(t *testing.T) {
	cases := []struct {
		a, b, q, m int
	}{
		{0, 32, 0, 0},
		{31, 32, 0, 31},
		{32, 32, 1, 0},
		{-1, 32, -1, 31},
		{-32, 32, -1, 0},
		{-33, 32, -2, 31},
	}
	for _, c := range cases {
		if got := FloorDiv(c.a, c.b); got != c.q {
			t.Fatalf("FloorDiv(%d,%d)=%d want %d", c.a, c.b, got, c.q)
		}
		if got := Mod(c.a, c.b); got != c.m {
			t.Fatalf("Mod(%d,%d)=%d want %d", c.a, c.b, got, c.m)
		}
	}
}

func TestUnit01Range(t *testing.T) {
	for x := -50; x < 50; x++ {
		u := Unit01(Hash2(42, x, -x))
		if u < 0 || u >= 1 {
			t.Fatalf("Unit01 out of range: %v", u)
		}
	}
}

func TestNormalize(t *testing.T) {
	nx, ny, l := Normalize(3, 4)
	if math.Abs(l-5) > 1e-9 || math.Abs(nx-0.6) > 1e-9 || math.Abs(ny-0.8) > 1e-9 {
		t.Fatalf("Normalize(3,4) = %v,%v,%v", nx, ny, l)
	}
	nx, ny, l = Normalize(0, 0)
	if nx != 0 || ny != 0 || l != 0 {
		t.Fatalf("zero vector should stay zero")
	}
}

func TestCellFloors(t *testing.T) {
	if Cell(-0.2) != -1 || Cell(0.9) != 0 || Cell(-1) != -1 {
		t.Fatalf("Cell floor mismatch")
	}
}
