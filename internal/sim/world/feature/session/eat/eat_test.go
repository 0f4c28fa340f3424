package eat

import "testing"

func TestApplyFoodCaps(t *testing.T) {
	got := ApplyFood(State{Health: 90, MaxHealth: 100, Stamina: 10, MaxStamina: 100}, Food{Health: 25, Stamina: 15})
	if got.Health != 100 || got.Stamina != 25 {
		t.Fatalf("got %+v", got)
	}
}

func TestIsFood(t *testing.T) {
	if IsFood("MATERIAL", &Food{Health: 1}) {
		t.Fatalf("materials are not food")
	}
	if IsFood("FOOD", nil) {
		t.Fatalf("food without stats")
	}
	if !IsFood("FOOD", &Food{Stamina: 5}) {
		t.Fatalf("stamina-only food is edible")
	}
}
