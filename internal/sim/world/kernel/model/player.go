package model

type EquipSlot string

const (
	SlotHead      EquipSlot = "head"
	SlotBody      EquipSlot = "body"
	SlotAccessory EquipSlot = "accessory"
	SlotBag       EquipSlot = "bag"
)

type Equipment struct {
	Head      *ItemStack `json:"head"`
	Body      *ItemStack `json:"body"`
	Accessory *ItemStack `json:"accessory"`
	Bag       *ItemStack `json:"bag"`
}

func (e *Equipment) Get(slot EquipSlot) *ItemStack {
	switch slot {
	case SlotHead:
		return e.Head
	case SlotBody:
		return e.Body
	case SlotAccessory:
		return e.Accessory
	case SlotBag:
		return e.Bag
	}
	return nil
}

func (e *Equipment) Set(slot EquipSlot, s *ItemStack) {
	switch slot {
	case SlotHead:
		e.Head = s
	case SlotBody:
		e.Body = s
	case SlotAccessory:
		e.Accessory = s
	case SlotBag:
		e.Bag = s
	}
}

func (e *Equipment) HasAccessory(t ItemType) bool {
	return e.Accessory != nil && e.Accessory.Type == t
}

type Player struct {
	X        float64 `json:"x"`
	Y        float64 `json:"y"`
	Rotation float64 `json:"rotation"`
	Facing   Facing  `json:"facing"`

	Health     float64 `json:"health"`
	MaxHealth  float64 `json:"maxHealth"`
	Stamina    float64 `json:"stamina"`
	MaxStamina float64 `json:"maxStamina"`

	PoisonTimer float64 `json:"poisonTimer"`

	Inventory    []*ItemStack `json:"inventory"`
	Equipment    Equipment    `json:"equipment"`
	SelectedSlot int          `json:"selectedItemIndex"`
}

func NewPlayer(inventorySize int, maxHealth, maxStamina float64) *Player {
	return &Player{
		Facing:     FacingDown,
		Health:     maxHealth,
		MaxHealth:  maxHealth,
		Stamina:    maxStamina,
		MaxStamina: maxStamina,
		Inventory:  make([]*ItemStack, inventorySize),
	}
}

// Selected returns the active hotbar stack or nil.
func (p *Player) Selected() *ItemStack {
	if p.SelectedSlot < 0 || p.SelectedSlot >= len(p.Inventory) {
		return nil
	}
	return p.Inventory[p.SelectedSlot]
}

func (p *Player) Dead() bool { return p.Health <= 0 }
