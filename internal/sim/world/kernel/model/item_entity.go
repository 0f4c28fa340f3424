package model

// DroppedItem is an item stack lying in the world. It is owned by the chunk
// containing its position and removed on pickup or when LifeTime runs out.
type DroppedItem struct {
	ID          string       `json:"id"`
	Type        ItemType     `json:"type"`
	Count       int          `json:"count"`
	X           float64      `json:"x"`
	Y           float64      `json:"y"`
	Durability  *int         `json:"durability,omitempty"`
	MaxDur      *int         `json:"maxDurability,omitempty"`
	Contents    []*ItemStack `json:"contents,omitempty"`
	PickupDelay float64      `json:"pickupDelay"`
	FloatOffset float64      `json:"floatOffset"`
	LifeTime    float64      `json:"lifeTime"`
}

// Stack returns the payload as an inventory stack.
func (d *DroppedItem) Stack() *ItemStack {
	s := &ItemStack{Type: d.Type, Count: d.Count, Contents: CloneSlots(d.Contents)}
	if d.Durability != nil {
		s.Durability = IntPtr(*d.Durability)
	}
	if d.MaxDur != nil {
		s.MaxDurability = IntPtr(*d.MaxDur)
	}
	return s
}

func (d *DroppedItem) Clone() *DroppedItem {
	c := *d
	if d.Durability != nil {
		c.Durability = IntPtr(*d.Durability)
	}
	if d.MaxDur != nil {
		c.MaxDur = IntPtr(*d.MaxDur)
	}
	c.Contents = CloneSlots(d.Contents)
	return &c
}
