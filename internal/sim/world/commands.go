package world

import (
	"errors"
	"fmt"

	"hearthwild.dev/internal/sim/world/feature/economy/crafting"
	"hearthwild.dev/internal/sim/world/feature/economy/inventory"
	"hearthwild.dev/internal/sim/world/feature/entities/items"
	"hearthwild.dev/internal/sim/world/feature/session/eat"
	"hearthwild.dev/internal/sim/world/feature/survival/respawn"
	survival "hearthwild.dev/internal/sim/world/feature/survival/runtime"
	"hearthwild.dev/internal/sim/world/kernel/model"
	"hearthwild.dev/internal/sim/world/logic/ids"
)

// Commands run between steps on the goroutine that owns the Sim. Rejected
// commands report a status message and return an error for the adapter.
var (
	ErrBadSlot      = errors.New("bad slot")
	ErrNotUsable    = errors.New("item cannot be used that way")
	ErrNoContainer  = errors.New("no container nearby")
	ErrPlayerDead   = errors.New("player is dead")
	ErrNoSpace      = errors.New("no free slot")
	ErrNestedBag    = errors.New("backpack inside backpack")
	ErrUnknownCraft = crafting.ErrUnknownRecipe
)

// Area names a slot array a command can address.
type Area string

const (
	AreaInventory Area = "inventory"
	AreaContainer Area = "container"
	AreaBackpack  Area = "backpack"
)

type SlotRef struct {
	Area  Area `json:"area"`
	Index int  `json:"index"`
}

func (s *Sim) slots(a Area) ([]*model.ItemStack, error) {
	switch a {
	case AreaInventory, "":
		return s.player.Inventory, nil
	case AreaContainer:
		if s.ctx.NearChest == "" {
			return nil, ErrNoContainer
		}
		x, y, ok := ids.ParseCellKey(s.ctx.NearChest)
		if !ok {
			return nil, ErrNoContainer
		}
		c := s.store.Container(x, y)
		if c == nil {
			return nil, ErrNoContainer
		}
		return c, nil
	case AreaBackpack:
		bag := s.player.Equipment.Bag
		if bag == nil || bag.Contents == nil {
			return nil, ErrNoContainer
		}
		return bag.Contents, nil
	}
	return nil, fmt.Errorf("%w: area %q", ErrBadSlot, a)
}

func (s *Sim) alive() error {
	if s.player.Dead() {
		return ErrPlayerDead
	}
	return nil
}

// SelectSlot changes the active hotbar slot.
func (s *Sim) SelectSlot(i int) error {
	if i < 0 || i >= len(s.player.Inventory) {
		return ErrBadSlot
	}
	s.player.SelectedSlot = i
	return nil
}

// Craft makes one batch of the recipe producing result. Overflow that does
// not fit is dropped ahead of the player.
func (s *Sim) Craft(result string) error {
	defer s.flush()
	if err := s.alive(); err != nil {
		return err
	}
	if s.cat == nil {
		return ErrUnknownCraft
	}
	r, ok := s.cat.Recipes.ByResult[result]
	if !ok {
		return ErrUnknownCraft
	}
	isBag := false
	if d, ok := s.cat.Item(r.Result); ok {
		isBag = d.Kind == "BAG"
	}
	in := crafting.Input{
		Recipe:      r,
		NearStation: s.ctx.NearStation,
		BagSize:     s.tun.BackpackSize,
		MaxStack:    s.tun.MaxStack,
	}
	overflow, err := crafting.Craft(s.player.Inventory, in, isBag)
	switch {
	case errors.Is(err, crafting.ErrNeedStation):
		s.status("Requires a Crafting Station!")
		return err
	case errors.Is(err, crafting.ErrNotEnough):
		s.status("Not enough materials!")
		return err
	case errors.Is(err, crafting.ErrInventoryFull):
		s.invDirty = true
		s.dropAhead(overflow)
		s.status("Inventory full! Item dropped.")
		return nil
	case err != nil:
		return err
	}
	s.invDirty = true
	s.status("Crafted " + s.itemName(model.ItemType(r.Result)) + "!")
	return nil
}

// Eat consumes one unit of the food in slot i.
func (s *Sim) Eat(i int) error {
	defer s.flush()
	if err := s.alive(); err != nil {
		return err
	}
	p := s.player
	if i < 0 || i >= len(p.Inventory) || p.Inventory[i] == nil {
		return ErrBadSlot
	}
	st := p.Inventory[i]
	if s.cat == nil {
		return ErrNotUsable
	}
	def, ok := s.cat.Item(string(st.Type))
	if !ok || def.Food == nil {
		return ErrNotUsable
	}
	food := &eat.Food{Health: def.Food.Health, Stamina: def.Food.Stamina}
	if !eat.IsFood(def.Kind, food) {
		return ErrNotUsable
	}
	next := eat.ApplyFood(eat.State{
		Health: p.Health, MaxHealth: p.MaxHealth,
		Stamina: p.Stamina, MaxStamina: p.MaxStamina,
	}, *food)
	p.Health, p.Stamina = next.Health, next.Stamina
	inventory.ConsumeOne(p.Inventory, i)
	s.invDirty = true
	s.status("Ate " + s.itemName(st.Type))
	if s.cb.Stats != nil {
		s.cb.Stats(p.Health, p.Stamina)
	}
	return nil
}

// equipSlotFor maps an item to the equipment slot that accepts it.
func (s *Sim) equipSlotFor(t model.ItemType) (model.EquipSlot, bool) {
	if s.cat == nil {
		return "", false
	}
	d, ok := s.cat.Item(string(t))
	if !ok {
		return "", false
	}
	switch {
	case d.Armor != nil:
		return model.EquipSlot(d.Armor.Slot), true
	case d.Kind == "ACCESSORY":
		return model.SlotAccessory, true
	case d.Kind == "BAG":
		return model.SlotBag, true
	}
	return "", false
}

// Equip moves the stack in inventory slot i to its equipment slot; the
// previously worn item takes its place.
func (s *Sim) Equip(i int) error {
	defer s.flush()
	if err := s.alive(); err != nil {
		return err
	}
	p := s.player
	if i < 0 || i >= len(p.Inventory) || p.Inventory[i] == nil {
		return ErrBadSlot
	}
	slot, ok := s.equipSlotFor(p.Inventory[i].Type)
	if !ok {
		return ErrNotUsable
	}
	worn := p.Equipment.Get(slot)
	p.Equipment.Set(slot, p.Inventory[i])
	p.Inventory[i] = worn
	s.invDirty, s.eqDirty = true, true
	return nil
}

// Unequip returns the worn item to the first free inventory slot.
func (s *Sim) Unequip(slot model.EquipSlot) error {
	defer s.flush()
	if err := s.alive(); err != nil {
		return err
	}
	p := s.player
	worn := p.Equipment.Get(slot)
	if worn == nil {
		return ErrBadSlot
	}
	i := inventory.FirstEmpty(p.Inventory)
	if i < 0 {
		s.status("Inventory full!")
		return ErrNoSpace
	}
	p.Inventory[i] = worn
	p.Equipment.Set(slot, nil)
	s.invDirty, s.eqDirty = true, true
	return nil
}

// MoveSlot swaps or merges two slots, possibly across the inventory, the
// nearby chest and the worn backpack.
func (s *Sim) MoveSlot(from, to SlotRef) error {
	defer s.flush()
	if err := s.alive(); err != nil {
		return err
	}
	src, err := s.slots(from.Area)
	if err != nil {
		return err
	}
	dst, err := s.slots(to.Area)
	if err != nil {
		return err
	}
	if from.Index < 0 || from.Index >= len(src) || to.Index < 0 || to.Index >= len(dst) {
		return ErrBadSlot
	}
	if s.nestsBag(src[from.Index], to.Area) || s.nestsBag(dst[to.Index], from.Area) {
		s.status("Can't put a backpack inside another!")
		return ErrNestedBag
	}
	if !inventory.Swap(src, from.Index, dst, to.Index, s.tun.MaxStack) {
		return ErrBadSlot
	}
	s.touch(from.Area, to.Area)
	return nil
}

func (s *Sim) nestsBag(st *model.ItemStack, into Area) bool {
	return into == AreaBackpack && st != nil && st.Type == model.ItemBackpack
}

func (s *Sim) touch(areas ...Area) {
	for _, a := range areas {
		switch a {
		case AreaBackpack:
			s.eqDirty = true
		case AreaContainer:
			s.notifyContainer()
		default:
			s.invDirty = true
		}
	}
}

func (s *Sim) notifyContainer() {
	if s.cb.ContainerNearby == nil || s.ctx.NearChest == "" {
		return
	}
	x, y, _ := ids.ParseCellKey(s.ctx.NearChest)
	s.cb.ContainerNearby(s.ctx.NearChest, model.CloneSlots(s.store.Container(x, y)))
}

// TransferContainer quick-moves a whole stack between the inventory and the
// nearby chest. toChest selects the direction.
func (s *Sim) TransferContainer(i int, toChest bool) error {
	defer s.flush()
	if err := s.alive(); err != nil {
		return err
	}
	chest, err := s.slots(AreaContainer)
	if err != nil {
		return err
	}
	src, dst := s.player.Inventory, chest
	if !toChest {
		src, dst = chest, s.player.Inventory
	}
	if i < 0 || i >= len(src) || src[i] == nil {
		return ErrBadSlot
	}
	st := src[i]
	if left := inventory.Add(dst, st, s.tun.MaxStack); left > 0 {
		st.Count = left
		s.touch(AreaInventory, AreaContainer)
		return ErrNoSpace
	}
	src[i] = nil
	s.touch(AreaInventory, AreaContainer)
	return nil
}

// DropSlot throws the whole stack in slot i ahead of the player.
func (s *Sim) DropSlot(i int) error {
	defer s.flush()
	if err := s.alive(); err != nil {
		return err
	}
	p := s.player
	if i < 0 || i >= len(p.Inventory) || p.Inventory[i] == nil {
		return ErrBadSlot
	}
	st := p.Inventory[i]
	p.Inventory[i] = nil
	s.invDirty = true
	s.dropAhead(st)
	return nil
}

func (s *Sim) dropAhead(st *model.ItemStack) {
	p := s.player
	x, y := items.Ahead(p.X, p.Y, p.Rotation, s.tun.DropAhead)
	s.spawnDrop(x, y, st, s.tun.Drops.PickupDelay)
}

// Respawn restores the player at the spawn point after death.
func (s *Sim) Respawn() {
	defer s.flush()
	p := s.player
	respawn.Reset(p, s.cfg.SpawnX, s.cfg.SpawnY)
	s.ctx.Dead = false
	s.ctx.Driving = ""
	s.ctx.Breaking = nil
	s.ctx.Fishing = nil
	s.ctx.Hazards = survival.Accumulators{}
	s.invDirty, s.eqDirty = true, true
	if s.cb.Stats != nil {
		s.cb.Stats(p.Health, p.Stamina)
	}
}
