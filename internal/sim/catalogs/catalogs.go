package catalogs

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
)

type Catalogs struct {
	Items   ItemCatalog
	Recipes RecipeCatalog
	Tiles   TileCatalog
}

type ItemCatalog struct {
	Palette       []string
	Defs          map[string]ItemDef
	PaletteDigest string
	DefsDigest    string
}

type ItemDef struct {
	ID      string    `json:"id" jsonschema:"required,minLength=1"`
	Name    string    `json:"name" jsonschema:"required,minLength=1"`
	Kind    string    `json:"kind" jsonschema:"required,enum=MATERIAL,enum=TOOL,enum=FOOD,enum=PLACEABLE,enum=ARMOR,enum=ACCESSORY,enum=BAG,enum=AMMO,enum=VEHICLE"`
	Tool    *ToolDef  `json:"tool,omitempty"`
	Armor   *ArmorDef `json:"armor,omitempty"`
	Food    *FoodDef  `json:"food,omitempty"`
	PlaceAs string    `json:"place_as,omitempty"`
}

type ToolDef struct {
	Family     string  `json:"family" jsonschema:"required,enum=AXE,enum=PICKAXE,enum=SWORD,enum=ROD,enum=BOW,enum=THROWABLE"`
	Durability int     `json:"durability,omitempty" jsonschema:"minimum=0"`
	Yield      int     `json:"yield" jsonschema:"required,minimum=1"`
	Attack     float64 `json:"attack" jsonschema:"required,minimum=0"`
	// BreakSpeed divides break time on tiles whose speed_family matches.
	BreakSpeed float64 `json:"break_speed,omitempty" jsonschema:"minimum=0"`
}

type ArmorDef struct {
	Slot       string  `json:"slot" jsonschema:"required,enum=head,enum=body"`
	Defense    float64 `json:"defense" jsonschema:"required,minimum=0"`
	Durability int     `json:"durability" jsonschema:"required,minimum=1"`
}

type FoodDef struct {
	Health  float64 `json:"health" jsonschema:"required,minimum=0"`
	Stamina float64 `json:"stamina" jsonschema:"required,minimum=0"`
}

type RecipeCatalog struct {
	// Ordered as authored; the UI lists recipes in this order.
	List     []RecipeDef
	ByResult map[string]RecipeDef
	Digest   string
}

type RecipeDef struct {
	Result            string      `json:"result" jsonschema:"required,minLength=1"`
	Count             int         `json:"count" jsonschema:"required,minimum=1"`
	Ingredients       []ItemCount `json:"ingredients" jsonschema:"required,minItems=1"`
	Description       string      `json:"description,omitempty"`
	RequiresStation   bool        `json:"requires_station,omitempty"`
	InitialDurability int         `json:"initial_durability,omitempty" jsonschema:"minimum=0"`
	Category          string      `json:"category" jsonschema:"required,enum=gear,enum=block,enum=food,enum=misc"`
}

type ItemCount struct {
	Item  string `json:"item" jsonschema:"required,minLength=1"`
	Count int    `json:"count" jsonschema:"required,minimum=1"`
}

type TileCatalog struct {
	Defs   map[string]TileDef
	Digest string
}

// TileDef holds the break rules for one base tile or overlay object.
type TileDef struct {
	ID        string  `json:"id" jsonschema:"required,minLength=1"`
	BreakTime float64 `json:"break_time" jsonschema:"required,minimum=0"`
	// SpeedFamily names the tool family whose break_speed applies.
	SpeedFamily string `json:"speed_family,omitempty"`
	// AnyItemSpeed applies whenever any item is held.
	AnyItemSpeed float64 `json:"any_item_speed,omitempty" jsonschema:"minimum=0"`
	// RequiresFamily lists tool families that may break the tile. Empty means
	// anything, including bare hands.
	RequiresFamily []string `json:"requires_family,omitempty"`
	// RequiresItem, when set, replaces RequiresFamily with exact item ids.
	RequiresItem []string  `json:"requires_item,omitempty"`
	ToolMessage  string    `json:"tool_message,omitempty"`
	Drops        []DropDef `json:"drops,omitempty"`
	// SpillContainer drops the contents of a container at the cell.
	SpillContainer bool `json:"spill_container,omitempty"`
}

type DropDef struct {
	Item string `json:"item" jsonschema:"required,minLength=1"`
	Min  int    `json:"min" jsonschema:"required,minimum=1"`
	Max  int    `json:"max,omitempty" jsonschema:"minimum=0"`
	// Chance in (0,1]; zero means always.
	Chance float64 `json:"chance,omitempty" jsonschema:"minimum=0,maximum=1"`
	// ScaleByYield multiplies the count by the held tool's yield.
	ScaleByYield bool `json:"scale_by_yield,omitempty"`
	// NeedsFamily suppresses the drop unless the held tool is of that family.
	NeedsFamily string `json:"needs_family,omitempty"`
}

func Load(configDir string) (*Catalogs, error) {
	var c Catalogs

	if err := loadItems(filepath.Join(configDir, "items.json"), &c.Items); err != nil {
		return nil, err
	}
	if err := loadRecipes(filepath.Join(configDir, "recipes.json"), &c.Recipes); err != nil {
		return nil, err
	}
	if err := loadTiles(filepath.Join(configDir, "tiles.json"), &c.Tiles); err != nil {
		return nil, err
	}
	if err := c.crossCheck(); err != nil {
		return nil, err
	}
	return &c, nil
}

func sha256Hex(b []byte) string {
	sum := sha256.Sum256(b)
	return hex.EncodeToString(sum[:])
}

func loadItems(path string, out *ItemCatalog) error {
	raw, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	if err := validateDocument("items.json", ItemDef{}, raw); err != nil {
		return err
	}
	out.DefsDigest = sha256Hex(raw)

	var defs []ItemDef
	if err := json.Unmarshal(raw, &defs); err != nil {
		return fmt.Errorf("items.json: %w", err)
	}
	out.Defs = map[string]ItemDef{}
	for _, d := range defs {
		if _, dup := out.Defs[d.ID]; dup {
			return fmt.Errorf("items.json: duplicate id %s", d.ID)
		}
		out.Defs[d.ID] = d
	}

	ids := make([]string, 0, len(out.Defs))
	for id := range out.Defs {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	out.Palette = ids
	palJSON, _ := json.Marshal(ids)
	out.PaletteDigest = sha256Hex(palJSON)
	return nil
}

func loadRecipes(path string, out *RecipeCatalog) error {
	raw, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	if err := validateDocument("recipes.json", RecipeDef{}, raw); err != nil {
		return err
	}
	out.Digest = sha256Hex(raw)

	if err := json.Unmarshal(raw, &out.List); err != nil {
		return fmt.Errorf("recipes.json: %w", err)
	}
	out.ByResult = map[string]RecipeDef{}
	for _, r := range out.List {
		if _, dup := out.ByResult[r.Result]; dup {
			return fmt.Errorf("recipes.json: duplicate result %s", r.Result)
		}
		out.ByResult[r.Result] = r
	}
	return nil
}

func loadTiles(path string, out *TileCatalog) error {
	raw, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	if err := validateDocument("tiles.json", TileDef{}, raw); err != nil {
		return err
	}
	out.Digest = sha256Hex(raw)

	var defs []TileDef
	if err := json.Unmarshal(raw, &defs); err != nil {
		return fmt.Errorf("tiles.json: %w", err)
	}
	out.Defs = map[string]TileDef{}
	for _, d := range defs {
		out.Defs[d.ID] = d
	}
	return nil
}

// crossCheck rejects references to unknown items.
func (c *Catalogs) crossCheck() error {
	known := func(id string) bool {
		_, ok := c.Items.Defs[id]
		return ok
	}
	for _, r := range c.Recipes.List {
		if !known(r.Result) {
			return fmt.Errorf("recipes.json: unknown result %s", r.Result)
		}
		for _, in := range r.Ingredients {
			if !known(in.Item) {
				return fmt.Errorf("recipes.json: %s: unknown ingredient %s", r.Result, in.Item)
			}
		}
	}
	for _, t := range c.Tiles.Defs {
		for _, d := range t.Drops {
			if !known(d.Item) {
				return fmt.Errorf("tiles.json: %s: unknown drop %s", t.ID, d.Item)
			}
		}
		for _, id := range t.RequiresItem {
			if !known(id) {
				return fmt.Errorf("tiles.json: %s: unknown tool %s", t.ID, id)
			}
		}
	}
	return nil
}

func (c *Catalogs) Item(id string) (ItemDef, bool) {
	d, ok := c.Items.Defs[id]
	return d, ok
}

// Name returns the display name, falling back to the id.
func (c *Catalogs) Name(id string) string {
	if d, ok := c.Items.Defs[id]; ok {
		return d.Name
	}
	return id
}

func (c *Catalogs) Tool(id string) (ToolDef, bool) {
	d, ok := c.Items.Defs[id]
	if !ok || d.Tool == nil {
		return ToolDef{}, false
	}
	return *d.Tool, true
}

func (c *Catalogs) Tile(id string) (TileDef, bool) {
	d, ok := c.Tiles.Defs[id]
	return d, ok
}

// Durabilities maps every durable item to its catalog durability.
func (c *Catalogs) Durabilities() map[string]int {
	out := map[string]int{}
	for id, d := range c.Items.Defs {
		switch {
		case d.Tool != nil && d.Tool.Durability > 0:
			out[id] = d.Tool.Durability
		case d.Armor != nil:
			out[id] = d.Armor.Durability
		}
	}
	return out
}
