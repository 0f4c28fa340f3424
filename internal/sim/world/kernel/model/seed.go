package model

// SeedConfig parameterises world generation. New worlds get a randomized
// config; loaded worlds keep theirs.
type SeedConfig struct {
	Seed           float64 `json:"seed"`
	SeedY          float64 `json:"seedY"`
	Rotation       float64 `json:"rotation"`
	TempOffset     float64 `json:"tempOffset"`
	MountainOffset float64 `json:"mountainOffset"`
}

// Sapling tracks a planted cell until it matures. PlantTime is simulation time
// in seconds.
type Sapling struct {
	X         int     `json:"x"`
	Y         int     `json:"y"`
	PlantTime float64 `json:"plantTime"`
	IsWheat   bool    `json:"isWheat,omitempty"`
	IsPine    bool    `json:"isPine,omitempty"`
}
