// Package world is the simulation loop. A Sim owns the chunk store, the
// player and the cross-tick control state; Step advances all of it by one
// frame and reports outward only through Callbacks.
package world

import (
	"math/rand"

	"hearthwild.dev/internal/sim/catalogs"
	"hearthwild.dev/internal/sim/tuning"
	"hearthwild.dev/internal/sim/world/feature/survival/fishing"
	survival "hearthwild.dev/internal/sim/world/feature/survival/runtime"
	"hearthwild.dev/internal/sim/world/kernel/model"
	"hearthwild.dev/internal/sim/world/terrain/store"
)

// Context is the control state carried between ticks.
type Context struct {
	Breaking *Breaking
	Fishing  *fishing.Session
	// Driving is the id of the ridden vehicle, empty on foot.
	Driving string
	// Cooldowns holds the last trigger time of each attack ability.
	Cooldowns     map[string]float64
	PlaceCooldown float64
	Hazards       survival.Accumulators
	Saplings      []model.Sapling
	// SimTime is simulated seconds; it only advances inside Step.
	SimTime    float64
	CamX, CamY float64
	// Dead is set once the death scatter ran and cleared on respawn.
	Dead bool
	// NearChest is the "x,y" key of the adjacent chest from the last scan.
	NearChest   string
	NearStation bool
}

// Sim is a single-threaded simulation. All state is touched only from the
// goroutine calling Step and the command methods.
type Sim struct {
	cfg Config
	tun tuning.Tuning
	cat *catalogs.Catalogs

	store  *store.ChunkStore
	player *model.Player
	ctx    Context
	rng    *rand.Rand
	cb     Callbacks

	view      store.Radius
	particles []Particle
	invDirty  bool
	eqDirty   bool
}

// New creates a fresh world for the seed config with the player at the
// spawn point.
func New(cfg Config, seed model.SeedConfig) *Sim {
	cfg.applyDefaults()
	s := &Sim{
		cfg: cfg,
		tun: cfg.Tuning,
		cat: cfg.Catalogs,
		rng: rand.New(rand.NewSource(cfg.RandSeed)),
	}
	s.store = store.NewChunkStore(seed, cfg.genParams())
	s.player = model.NewPlayer(s.tun.InventorySize, s.tun.MaxHealth, s.tun.MaxStamina)
	s.player.X, s.player.Y = cfg.SpawnX, cfg.SpawnY
	s.view = store.Radius{X: 1, Y: 1}
	return s
}

func (s *Sim) SetCallbacks(cb Callbacks) { s.cb = cb }

func (s *Sim) Store() *store.ChunkStore { return s.store }

func (s *Sim) Player() *model.Player { return s.player }

// Context exposes the control state; callers must not hold it across Step.
func (s *Sim) Context() *Context { return &s.ctx }

func (s *Sim) Tuning() tuning.Tuning { return s.tun }

func (s *Sim) Catalogs() *catalogs.Catalogs { return s.cat }

func (s *Sim) SimTime() float64 { return s.ctx.SimTime }

func (s *Sim) status(msg string) {
	if s.cb.Status != nil {
		s.cb.Status(msg)
	}
}

func (s *Sim) particle(x, y float64, color string, count int, size float64) {
	p := Particle{X: x, Y: y, Color: color, Count: count, Size: size}
	s.particles = append(s.particles, p)
	if s.cb.Particles != nil {
		s.cb.Particles(p)
	}
}

func (s *Sim) itemName(t model.ItemType) string {
	if s.cat == nil {
		return string(t)
	}
	return s.cat.Name(string(t))
}

// flush sends the inventory and equipment notifications collected during a
// step or command.
func (s *Sim) flush() {
	if s.invDirty && s.cb.Inventory != nil {
		s.cb.Inventory(model.CloneSlots(s.player.Inventory))
	}
	if s.eqDirty && s.cb.Equipment != nil {
		eq := s.player.Equipment
		s.cb.Equipment(model.Equipment{
			Head:      eq.Head.Clone(),
			Body:      eq.Body.Clone(),
			Accessory: eq.Accessory.Clone(),
			Bag:       eq.Bag.Clone(),
		})
	}
	s.invDirty, s.eqDirty = false, false
}
