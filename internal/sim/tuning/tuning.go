package tuning

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

type Tuning struct {
	ProtocolVersion string `yaml:"protocol_version"`

	TickRateHz      int     `yaml:"tick_rate_hz"`
	MaxStepSec      float64 `yaml:"max_step_sec"`
	AutosaveSec     float64 `yaml:"autosave_sec"`
	ChunkSize       int     `yaml:"chunk_size"`
	TileSize        float64 `yaml:"tile_size"`
	SpawnRadius     float64 `yaml:"spawn_radius"`
	SpawnClear      float64 `yaml:"spawn_clear_radius"`
	InventorySize   int     `yaml:"inventory_size"`
	ContainerSize   int     `yaml:"container_size"`
	BackpackSize    int     `yaml:"backpack_size"`
	MaxStack        int     `yaml:"max_stack"`
	MaxHealth       float64 `yaml:"max_health"`
	MaxStamina      float64 `yaml:"max_stamina"`
	GrowthSec       float64 `yaml:"growth_sec"`
	FishingSec      float64 `yaml:"fishing_sec"`
	PlaceCooldown   float64 `yaml:"place_cooldown_sec"`
	MeleeCooldown   float64 `yaml:"melee_cooldown_sec"`
	RangedCooldown  float64 `yaml:"ranged_cooldown_sec"`
	BareHandDamage  float64 `yaml:"bare_hand_damage"`
	BaseReach       float64 `yaml:"base_reach"`
	MountRadius     float64 `yaml:"mount_radius"`
	StrikeRadius    float64 `yaml:"strike_radius"`
	ArmorDivisor    float64 `yaml:"armor_divisor"`
	DropAhead       float64 `yaml:"drop_ahead"`
	ProximityRadius int     `yaml:"proximity_radius"`

	Movement Movement `yaml:"movement"`
	Hazards  Hazards  `yaml:"hazards"`
	Drops    Drops    `yaml:"drops"`
	Charm    Charm    `yaml:"charm"`
}

type Movement struct {
	PlayerSpeed     float64 `yaml:"player_speed"`
	RunMultiplier   float64 `yaml:"run_multiplier"`
	StaminaDrain    float64 `yaml:"stamina_drain"`
	WaterMultiplier float64 `yaml:"water_multiplier"`
	WebMultiplier   float64 `yaml:"cobweb_multiplier"`
	SnowMultiplier  float64 `yaml:"snow_multiplier"`
	BushMultiplier  float64 `yaml:"bush_multiplier"`
}

type Hazards struct {
	DrownDelay     float64 `yaml:"drown_delay_sec"`
	DrownDamage    float64 `yaml:"drown_damage"`
	BushDamage     float64 `yaml:"bush_damage"`
	CactusDamage   float64 `yaml:"cactus_damage"`
	CactusRadius   float64 `yaml:"cactus_radius"`
	PoisonDuration float64 `yaml:"poison_duration_sec"`
	PoisonDamage   float64 `yaml:"poison_damage"`
}

type Drops struct {
	PickupDelay      float64 `yaml:"pickup_delay_sec"`
	BreakPickupDelay float64 `yaml:"break_pickup_delay_sec"`
	Lifetime         float64 `yaml:"lifetime_sec"`
	PickupRadius     float64 `yaml:"pickup_radius"`
}

type Charm struct {
	ReachBonus      float64 `yaml:"reach_bonus"`
	SpeedMultiplier float64 `yaml:"speed_multiplier"`
}

func Defaults() Tuning {
	return Tuning{
		ProtocolVersion: "1.0",
		TickRateHz:      60,
		MaxStepSec:      0.1,
		AutosaveSec:     30,
		ChunkSize:       32,
		TileSize:        48,
		SpawnRadius:     20,
		SpawnClear:      5,
		InventorySize:   24,
		ContainerSize:   12,
		BackpackSize:    8,
		MaxStack:        100,
		MaxHealth:       100,
		MaxStamina:      100,
		GrowthSec:       60,
		FishingSec:      4,
		PlaceCooldown:   0.5,
		MeleeCooldown:   0.4,
		RangedCooldown:  0.5,
		BareHandDamage:  3,
		BaseReach:       3,
		MountRadius:     1,
		StrikeRadius:    0.8,
		ArmorDivisor:    20,
		DropAhead:       1.2,
		ProximityRadius: 1,
		Movement: Movement{
			PlayerSpeed:     3,
			RunMultiplier:   2.5,
			StaminaDrain:    20,
			WaterMultiplier: 0.3,
			WebMultiplier:   0.2,
			SnowMultiplier:  0.5,
			BushMultiplier:  0.6,
		},
		Hazards: Hazards{
			DrownDelay:     3,
			DrownDamage:    10,
			BushDamage:     8,
			CactusDamage:   5,
			CactusRadius:   0.8,
			PoisonDuration: 5,
			PoisonDamage:   4,
		},
		Drops: Drops{
			PickupDelay:      0.5,
			BreakPickupDelay: 0.2,
			Lifetime:         300,
			PickupRadius:     0.8,
		},
		Charm: Charm{ReachBonus: 2, SpeedMultiplier: 1.1},
	}
}

// Load overlays the YAML file on Defaults, so a partial file keeps the
// remaining defaults.
func Load(path string) (Tuning, error) {
	t := Defaults()
	raw, err := os.ReadFile(path)
	if err != nil {
		return t, err
	}
	if err := yaml.Unmarshal(raw, &t); err != nil {
		return t, fmt.Errorf("tuning.yaml: %w", err)
	}
	if err := t.Validate(); err != nil {
		return t, fmt.Errorf("tuning.yaml: %w", err)
	}
	return t, nil
}

func (t Tuning) Validate() error {
	switch {
	case t.ChunkSize <= 0 || t.ChunkSize > 256:
		return fmt.Errorf("chunk_size must be in 1..256, got %d", t.ChunkSize)
	case t.TickRateHz <= 0:
		return fmt.Errorf("tick_rate_hz must be positive")
	case t.MaxStepSec <= 0:
		return fmt.Errorf("max_step_sec must be positive")
	case t.InventorySize <= 0 || t.ContainerSize <= 0 || t.BackpackSize <= 0:
		return fmt.Errorf("inventory sizes must be positive")
	case t.MaxStack <= 0:
		return fmt.Errorf("max_stack must be positive")
	case t.TileSize <= 0:
		return fmt.Errorf("tile_size must be positive")
	}
	return nil
}
