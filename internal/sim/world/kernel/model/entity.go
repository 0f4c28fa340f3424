package model

// EntityKind discriminates wildlife, vehicles and projectiles sharing one
// record shape. Per-kind stats live in the ai/projectiles/vehicles packages.
type EntityKind string

const (
	KindCow          EntityKind = "COW"
	KindRabbit       EntityKind = "RABBIT"
	KindSnake        EntityKind = "SNAKE"
	KindPoisonSnake  EntityKind = "POISON_SNAKE"
	KindScorpion     EntityKind = "SCORPION"
	KindSpider       EntityKind = "SPIDER"
	KindPoisonSpider EntityKind = "POISON_SPIDER"
	KindBoat         EntityKind = "BOAT"
	KindArrow        EntityKind = "ARROW"
	KindPoisonArrow  EntityKind = "POISON_ARROW"
	KindSnowball     EntityKind = "SNOWBALL"
)

func (k EntityKind) IsProjectile() bool {
	return k == KindArrow || k == KindPoisonArrow || k == KindSnowball
}

func (k EntityKind) IsVehicle() bool { return k == KindBoat }

func (k EntityKind) IsWildlife() bool { return !k.IsProjectile() && !k.IsVehicle() && k != "" }

type AIState string

const (
	StateIdle   AIState = "idle"
	StateWander AIState = "wander"
	StateChase  AIState = "chase"
	StateFlee   AIState = "flee"
)

type Facing string

const (
	FacingLeft  Facing = "left"
	FacingRight Facing = "right"
	FacingUp    Facing = "up"
	FacingDown  Facing = "down"
)

type Entity struct {
	ID        string     `json:"id"`
	Kind      EntityKind `json:"type"`
	X         float64    `json:"x"`
	Y         float64    `json:"y"`
	VX        float64    `json:"vx,omitempty"`
	VY        float64    `json:"vy,omitempty"`
	Health    float64    `json:"health"`
	MaxHealth float64    `json:"maxHealth"`

	State      AIState `json:"state"`
	StateTimer float64 `json:"stateTimer"`
	HasTarget  bool    `json:"hasTarget,omitempty"`
	TargetX    float64 `json:"targetX,omitempty"`
	TargetY    float64 `json:"targetY,omitempty"`
	Facing     Facing  `json:"facing"`

	// LastAttackAt is the simulation time of the last strike; zero means never.
	LastAttackAt float64 `json:"attackCooldown,omitempty"`

	// Projectile-only fields.
	Rotation float64 `json:"rotation,omitempty"`
	Traveled float64 `json:"traveled,omitempty"`
}

func (e *Entity) SetTarget(x, y float64) {
	e.HasTarget = true
	e.TargetX, e.TargetY = x, y
}

func (e *Entity) ClearTarget() {
	e.HasTarget = false
	e.TargetX, e.TargetY = 0, 0
}
