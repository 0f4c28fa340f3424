package world

import (
	"context"
	"errors"
	"fmt"
	"log"
	"math"
	"time"

	"hearthwild.dev/internal/persistence/snapshot"
	"hearthwild.dev/internal/sim/world/kernel/model"
)

// Event is a callback notification recorded by the runtime and fanned out
// to subscribers and the event log.
type Event struct {
	Type    string  `json:"type"`
	SimTime float64 `json:"t"`
	Message string  `json:"message,omitempty"`

	Health    float64            `json:"health,omitempty"`
	Stamina   float64            `json:"stamina,omitempty"`
	Items     []*model.ItemStack `json:"items,omitempty"`
	Equipment *model.Equipment   `json:"equipment,omitempty"`
	Key       string             `json:"key,omitempty"`
	Near      bool               `json:"near,omitempty"`
}

const (
	EventStatus    = "STATUS"
	EventInventory = "INVENTORY"
	EventEquipment = "EQUIPMENT"
	EventStats     = "STATS"
	EventDeath     = "DEATH"
	EventContainer = "CONTAINER"
	EventStation   = "STATION"
	EventSaved     = "SAVED"
)

// EventLogger persists notable events. Stats and proximity updates are not
// logged.
type EventLogger interface {
	WriteEvent(e Event) error
}

// Update is what a subscriber receives after each tick.
type Update struct {
	Frame  Frame   `json:"frame"`
	Events []Event `json:"events,omitempty"`
}

// Command is one inventory or session operation queued for the loop.
type Command struct {
	Op      string          `json:"op"`
	Slot    int             `json:"slot,omitempty"`
	From    SlotRef         `json:"from,omitempty"`
	To      SlotRef         `json:"to,omitempty"`
	Result  string          `json:"result,omitempty"`
	Equip   model.EquipSlot `json:"equip,omitempty"`
	ToChest bool            `json:"toChest,omitempty"`

	// Reply receives the outcome when set; it must be buffered.
	Reply chan error `json:"-"`
}

var (
	ErrPlayerAlive = errors.New("player is alive")
	ErrUnknownOp   = errors.New("unknown command")
)

const (
	OpCraft    = "CRAFT"
	OpEat      = "EAT"
	OpEquip    = "EQUIP"
	OpUnequip  = "UNEQUIP"
	OpMove     = "MOVE"
	OpTransfer = "TRANSFER"
	OpDrop     = "DROP"
	OpSelect   = "SELECT"
	OpRespawn  = "RESPAWN"
	OpSave     = "SAVE"
)

type RuntimeConfig struct {
	// TickRateHz overrides the tuning tick rate when positive.
	TickRateHz  int
	AutosaveSec float64
	// AutoRespawn respawns on the tick after death instead of waiting for a
	// RESPAWN command.
	AutoRespawn bool
	Meta        snapshot.Meta
}

type subscriber struct {
	ch      chan Update
	pending []Event
}

const maxPendingEvents = 256

// Runtime owns a Sim and drives it from a ticker. Input, commands and
// subscriptions arrive over channels; all Sim access happens on the Run
// goroutine.
type Runtime struct {
	sim *Sim
	cfg RuntimeConfig
	log *log.Logger

	input    chan Input
	commands chan Command
	sub      chan chan Update
	unsub    chan chan Update
	stop     chan struct{}

	saveSink  chan<- snapshot.SaveV1
	eventLog  EventLogger
	subs      map[chan Update]*subscriber
	events    []Event
	lastInput Input
	lastTick  time.Time

	lastHealth, lastStamina int
	lastChest               string
	lastStation             bool
}

func NewRuntime(sim *Sim, cfg RuntimeConfig, logger *log.Logger) *Runtime {
	if cfg.TickRateHz <= 0 {
		cfg.TickRateHz = sim.tun.TickRateHz
	}
	if cfg.AutosaveSec <= 0 {
		cfg.AutosaveSec = sim.tun.AutosaveSec
	}
	if logger == nil {
		logger = log.Default()
	}
	r := &Runtime{
		sim:      sim,
		cfg:      cfg,
		log:      logger,
		input:    make(chan Input, 1),
		commands: make(chan Command, 64),
		sub:      make(chan chan Update),
		unsub:    make(chan chan Update),
		stop:     make(chan struct{}),
		subs:     map[chan Update]*subscriber{},
	}
	r.lastInput = Input{ScreenW: 1280, ScreenH: 720, Zoom: 1, MouseX: 640, MouseY: 360}
	sim.SetCallbacks(r.callbacks())
	return r
}

func (r *Runtime) SetSaveSink(ch chan<- snapshot.SaveV1) { r.saveSink = ch }
func (r *Runtime) SetEventLogger(l EventLogger)          { r.eventLog = l }

// Input carries the control snapshot used by the next tick. Only the latest
// one received before a tick counts.
func (r *Runtime) Input() chan<- Input { return r.input }

func (r *Runtime) Commands() chan<- Command { return r.commands }

// Subscribe registers a channel for per-tick updates. It should be buffered;
// a full channel skips frames without losing events.
func (r *Runtime) Subscribe() chan<- chan Update { return r.sub }

func (r *Runtime) Unsubscribe() chan<- chan Update { return r.unsub }

func (r *Runtime) Stop() { close(r.stop) }

func (r *Runtime) Run(ctx context.Context) error {
	interval := time.Second / time.Duration(r.cfg.TickRateHz)
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	autosave := time.Duration(r.cfg.AutosaveSec * float64(time.Second))
	saveTicker := time.NewTicker(autosave)
	defer saveTicker.Stop()

	var pending []Command
	r.lastTick = time.Now()
	for {
		select {
		case <-ctx.Done():
			r.save("shutdown")
			return ctx.Err()
		case <-r.stop:
			r.save("stop")
			return nil
		case in := <-r.input:
			r.lastInput = in
		case cmd := <-r.commands:
			pending = append(pending, cmd)
		case ch := <-r.sub:
			r.subs[ch] = &subscriber{ch: ch}
		case ch := <-r.unsub:
			delete(r.subs, ch)
		case <-saveTicker.C:
			if !r.sim.player.Dead() {
				r.save("autosave")
			}
		case now := <-ticker.C:
			for _, c := range pending {
				r.apply(c)
			}
			pending = pending[:0]
			dt := now.Sub(r.lastTick).Seconds()
			r.lastTick = now
			r.tick(dt)
		}
	}
}

// StepOnce advances one tick with the given input outside the ticker. It
// is meant for tests and tools and must not race with Run.
func (r *Runtime) StepOnce(dt float64, in Input) Update {
	r.lastInput = in
	r.tick(dt)
	return Update{Frame: r.sim.Frame()}
}

func (r *Runtime) tick(dt float64) {
	r.sim.Step(dt, r.lastInput)
	if r.sim.ctx.Dead && r.cfg.AutoRespawn {
		r.sim.Respawn()
	}
	r.publish()
}

func (r *Runtime) apply(c Command) {
	s := r.sim
	var err error
	switch c.Op {
	case OpCraft:
		err = s.Craft(c.Result)
	case OpEat:
		err = s.Eat(c.Slot)
	case OpEquip:
		err = s.Equip(c.Slot)
	case OpUnequip:
		err = s.Unequip(c.Equip)
	case OpMove:
		err = s.MoveSlot(c.From, c.To)
	case OpTransfer:
		err = s.TransferContainer(c.Slot, c.ToChest)
	case OpDrop:
		err = s.DropSlot(c.Slot)
	case OpSelect:
		err = s.SelectSlot(c.Slot)
	case OpRespawn:
		if !s.ctx.Dead {
			err = fmt.Errorf("respawn: %w", ErrPlayerAlive)
			break
		}
		s.Respawn()
	case OpSave:
		r.save("request")
	default:
		err = fmt.Errorf("%w %q", ErrUnknownOp, c.Op)
	}
	if c.Reply != nil {
		select {
		case c.Reply <- err:
		default:
		}
	}
}

// save hands a snapshot to the sink without waiting for it to be written.
func (r *Runtime) save(reason string) {
	if r.saveSink == nil {
		return
	}
	sv := r.sim.Export(r.cfg.Meta)
	select {
	case r.saveSink <- sv:
		r.record(Event{Type: EventSaved, Message: reason})
	default:
		r.log.Printf("save (%s) dropped: sink busy", reason)
	}
}

func (r *Runtime) record(e Event) {
	e.SimTime = r.sim.ctx.SimTime
	r.events = append(r.events, e)
	if r.eventLog == nil {
		return
	}
	switch e.Type {
	case EventStats, EventContainer, EventStation, EventInventory, EventEquipment:
		return
	}
	if err := r.eventLog.WriteEvent(e); err != nil {
		r.log.Printf("event log: %v", err)
	}
}

func (r *Runtime) callbacks() Callbacks {
	return Callbacks{
		Status: func(msg string) { r.record(Event{Type: EventStatus, Message: msg}) },
		Inventory: func(inv []*model.ItemStack) {
			r.record(Event{Type: EventInventory, Items: inv})
		},
		Equipment: func(eq model.Equipment) {
			r.record(Event{Type: EventEquipment, Equipment: &eq})
		},
		Stats: func(h, st float64) {
			hi, si := int(math.Ceil(h)), int(math.Ceil(st))
			if hi == r.lastHealth && si == r.lastStamina {
				return
			}
			r.lastHealth, r.lastStamina = hi, si
			r.record(Event{Type: EventStats, Health: h, Stamina: st})
		},
		Death: func() { r.record(Event{Type: EventDeath, Message: "You Died! Inventory Lost."}) },
		ContainerNearby: func(key string, items []*model.ItemStack) {
			if key == r.lastChest {
				return
			}
			r.lastChest = key
			r.record(Event{Type: EventContainer, Key: key, Items: items})
		},
		StationNearby: func(near bool) {
			if near == r.lastStation {
				return
			}
			r.lastStation = near
			r.record(Event{Type: EventStation, Near: near})
		},
	}
}

// publish offers the frame to every subscriber. A subscriber that has not
// drained its previous update keeps its events queued for the next one.
func (r *Runtime) publish() {
	events := r.events
	r.events = nil
	if len(r.subs) == 0 {
		return
	}
	frame := r.sim.Frame()
	for _, sub := range r.subs {
		sub.pending = append(sub.pending, events...)
		if n := len(sub.pending); n > maxPendingEvents {
			sub.pending = sub.pending[n-maxPendingEvents:]
		}
		select {
		case sub.ch <- Update{Frame: frame, Events: sub.pending}:
			sub.pending = nil
		default:
		}
	}
}
