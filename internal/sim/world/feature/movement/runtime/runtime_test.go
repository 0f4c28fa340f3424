package runtime

import (
	"math"
	"testing"

	"hearthwild.dev/internal/sim/tuning"
	"hearthwild.dev/internal/sim/world/kernel/model"
)

type wallAt int

func (w wallAt) BlockedAt(x, _ float64) bool { return int(math.Floor(x)) == int(w) }

func TestIntent(t *testing.T) {
	dx, dy := Intent(Keys{Up: true, Right: true})
	if dx != 1 || dy != -1 {
		t.Fatalf("intent=%v,%v", dx, dy)
	}
	dx, dy = Intent(Keys{Left: true, Right: true})
	if dx != 0 || dy != 0 {
		t.Fatalf("opposite keys should cancel: %v,%v", dx, dy)
	}
}

func TestFacingQuadrants(t *testing.T) {
	cases := []struct {
		mx, my float64
		want   model.Facing
	}{
		{200, 50, model.FacingRight},
		{50, 200, model.FacingDown},
		{50, -100, model.FacingUp},
		{-100, 50, model.FacingLeft},
	}
	for _, tc := range cases {
		_, f := Aim(50+tc.mx, 50+tc.my, 100, 100)
		if f != tc.want {
			t.Fatalf("offset (%v,%v): got %s want %s", tc.mx, tc.my, f, tc.want)
		}
	}
}

func TestPlayerSpeed(t *testing.T) {
	m := tuning.Defaults().Movement
	cases := []struct {
		name string
		in   SpeedInput
		want float64
	}{
		{"walk", SpeedInput{}, 3},
		{"run", SpeedInput{Running: true}, 7.5},
		{"swim", SpeedInput{Swimming: true}, 0.9},
		{"web", SpeedInput{Under: model.TileCobweb, HasUnder: true}, 0.6},
		{"snow", SpeedInput{Under: model.TileSnowPile, HasUnder: true}, 1.5},
		{"bush", SpeedInput{Under: model.TileBush, HasUnder: true}, 1.8},
		{"charm", SpeedInput{Charm: true}, 3.3},
	}
	for _, tc := range cases {
		if got := PlayerSpeed(tc.in, m, 1.1); math.Abs(got-tc.want) > 1e-9 {
			t.Fatalf("%s: got %v want %v", tc.name, got, tc.want)
		}
	}
}

func TestSlideAlongWall(t *testing.T) {
	// Wall occupies column x=1; moving diagonally right-down from x=0.9
	// must stop on X and still advance on Y.
	nx, ny, mx, my := Slide(wallAt(1), 0.9, 0.5, 1, 1, 0.2)
	if mx || nx != 0.9 {
		t.Fatalf("x should be blocked, got %v", nx)
	}
	if !my || math.Abs(ny-(0.5+0.2/math.Sqrt2)) > 1e-9 {
		t.Fatalf("y should slide, got %v", ny)
	}
}

func TestSlideZeroVector(t *testing.T) {
	nx, ny, mx, my := Slide(wallAt(99), 3, 4, 0, 0, 1)
	if nx != 3 || ny != 4 || mx || my {
		t.Fatalf("zero intent must not move")
	}
}
