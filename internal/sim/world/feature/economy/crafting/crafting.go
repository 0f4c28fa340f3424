package crafting

import (
	"errors"

	"hearthwild.dev/internal/sim/catalogs"
	"hearthwild.dev/internal/sim/world/feature/economy/inventory"
	"hearthwild.dev/internal/sim/world/kernel/model"
)

var (
	ErrUnknownRecipe = errors.New("unknown recipe")
	ErrNeedStation   = errors.New("requires a crafting station")
	ErrNotEnough     = errors.New("not enough materials")
	ErrInventoryFull = errors.New("inventory full")
)

type Input struct {
	Recipe      catalogs.RecipeDef
	NearStation bool
	// BagSize is the empty payload given to bag-type results.
	BagSize  int
	MaxStack int
}

// CanCraft checks ingredients against the aggregated count of each type.
func CanCraft(slots []*model.ItemStack, in Input) error {
	if in.Recipe.RequiresStation && !in.NearStation {
		return ErrNeedStation
	}
	for _, ing := range in.Recipe.Ingredients {
		if inventory.Count(slots, model.ItemType(ing.Item)) < ing.Count {
			return ErrNotEnough
		}
	}
	return nil
}

// Craft deducts ingredients and adds the result. Whatever does not fit is
// returned as overflow for the caller to drop; slots are untouched on error.
func Craft(slots []*model.ItemStack, in Input, isBag bool) (overflow *model.ItemStack, err error) {
	if err := CanCraft(slots, in); err != nil {
		return nil, err
	}
	for _, ing := range in.Recipe.Ingredients {
		inventory.Remove(slots, model.ItemType(ing.Item), ing.Count)
	}
	res := Result(in, isBag)
	if left := inventory.Add(slots, res, in.MaxStack); left > 0 {
		return res, ErrInventoryFull
	}
	return nil, nil
}

// Result builds the crafted stack.
func Result(in Input, isBag bool) *model.ItemStack {
	r := in.Recipe
	s := &model.ItemStack{Type: model.ItemType(r.Result), Count: r.Count}
	if r.InitialDurability > 0 {
		s.Durability = model.IntPtr(r.InitialDurability)
		s.MaxDurability = model.IntPtr(r.InitialDurability)
	}
	if isBag {
		s.Contents = make([]*model.ItemStack, in.BagSize)
	}
	return s
}
