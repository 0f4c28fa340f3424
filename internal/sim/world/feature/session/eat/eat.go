package eat

type State struct {
	Health     float64
	MaxHealth  float64
	Stamina    float64
	MaxStamina float64
}

type Food struct {
	Health  float64
	Stamina float64
}

func IsFood(kind string, f *Food) bool {
	return kind == "FOOD" && f != nil && (f.Health > 0 || f.Stamina > 0)
}

// ApplyFood restores health and stamina, each capped at its maximum.
func ApplyFood(s State, f Food) State {
	next := s
	next.Health = min(s.MaxHealth, s.Health+f.Health)
	next.Stamina = min(s.MaxStamina, s.Stamina+f.Stamina)
	return next
}
