package items

import (
	"math"
	"testing"

	"hearthwild.dev/internal/sim/tuning"
	"hearthwild.dev/internal/sim/world/kernel/model"
)

func drops() tuning.Drops { return tuning.Defaults().Drops }

func TestPickupWaitsForDelay(t *testing.T) {
	p := model.NewPlayer(4, 100, 100)
	d := New(model.Stack(model.ItemWood, 3), 0.1, 0, 0.5, drops())
	list := []*model.DroppedItem{d}
	list = Tick(list, 0.2, p, 100, drops(), Hooks{})
	if len(list) != 1 || p.Inventory[0] != nil {
		t.Fatalf("picked up before delay")
	}
	picked := 0
	list = Tick(list, 0.4, p, 100, drops(), Hooks{PickedUp: func(*model.DroppedItem) { picked++ }})
	if len(list) != 0 || picked != 1 || p.Inventory[0].Count != 3 {
		t.Fatalf("list=%d picked=%d inv=%+v", len(list), picked, p.Inventory[0])
	}
}

func TestOutOfRangeStays(t *testing.T) {
	p := model.NewPlayer(4, 100, 100)
	list := []*model.DroppedItem{New(model.Stack(model.ItemStone, 1), 2, 2, 0, drops())}
	list = Tick(list, 0.1, p, 100, drops(), Hooks{})
	if len(list) != 1 {
		t.Fatalf("item out of reach was collected")
	}
}

func TestPartialPickupLeavesRemainder(t *testing.T) {
	p := model.NewPlayer(1, 100, 100)
	p.Inventory[0] = model.Stack(model.ItemStone, 95)
	list := []*model.DroppedItem{New(model.Stack(model.ItemStone, 10), 0, 0, 0, drops())}
	list = Tick(list, 0.1, p, 100, drops(), Hooks{})
	if len(list) != 1 || list[0].Count != 5 || p.Inventory[0].Count != 100 {
		t.Fatalf("list=%v inv=%d", list, p.Inventory[0].Count)
	}
}

func TestExpiry(t *testing.T) {
	list := []*model.DroppedItem{New(model.Stack(model.ItemStone, 1), 50, 50, 0, drops())}
	list = Tick(list, 299, nil, 100, drops(), Hooks{})
	if len(list) != 1 {
		t.Fatalf("expired early")
	}
	list = Tick(list, 1, nil, 100, drops(), Hooks{})
	if len(list) != 0 {
		t.Fatalf("item should expire at its lifetime")
	}
}

func TestDurableAndBackpackKeepPayload(t *testing.T) {
	p := model.NewPlayer(2, 100, 100)
	tool := &model.ItemStack{Type: model.ItemIronPickaxe, Count: 1, Durability: model.IntPtr(7), MaxDurability: model.IntPtr(250)}
	bag := &model.ItemStack{Type: model.ItemBackpack, Count: 1, Contents: []*model.ItemStack{model.Stack(model.ItemWood, 4), nil}}
	list := []*model.DroppedItem{
		New(tool, 0, 0, 0, drops()),
		New(bag, 0, 0, 0, drops()),
	}
	list = Tick(list, 0.1, p, 100, drops(), Hooks{})
	if len(list) != 0 {
		t.Fatalf("left %d items", len(list))
	}
	if *p.Inventory[0].Durability != 7 || p.Inventory[1].Contents[0].Count != 4 {
		t.Fatalf("payload lost: %+v %+v", p.Inventory[0], p.Inventory[1])
	}
}

func TestFloatOffsetFollowsID(t *testing.T) {
	d := New(model.Stack(model.ItemWood, 1), 3, 4, 0, drops())
	if d.FloatOffset != FloatOffset(d.ID) {
		t.Fatalf("offset %v not derived from id %q", d.FloatOffset, d.ID)
	}
	for _, id := range []string{"", "a", d.ID, "01J0000000000000000000000"} {
		if o := FloatOffset(id); o < 0 || o >= 2*math.Pi || o != FloatOffset(id) {
			t.Fatalf("FloatOffset(%q)=%v", id, o)
		}
	}
}
