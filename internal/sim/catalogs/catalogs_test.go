package catalogs

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func loadRepo(t *testing.T) *Catalogs {
	t.Helper()
	c, err := Load("../../../configs")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	return c
}

func TestLoadRepoCatalogs(t *testing.T) {
	c := loadRepo(t)
	if len(c.Items.Palette) == 0 || c.Items.PaletteDigest == "" || c.Recipes.Digest == "" || c.Tiles.Digest == "" {
		t.Fatalf("catalogs incomplete")
	}
	axe, ok := c.Tool("IRON_AXE")
	if !ok || axe.Durability != 160 || axe.Yield != 3 || axe.Attack != 12 || axe.Family != "AXE" {
		t.Fatalf("IRON_AXE = %+v", axe)
	}
	if c.Name("BOAT") != "Wooden Boat" || c.Name("NOPE") != "NOPE" {
		t.Fatalf("names wrong")
	}
	if r := c.Recipes.ByResult["ARROW"]; r.Count != 5 || !r.RequiresStation {
		t.Fatalf("ARROW recipe = %+v", r)
	}
	if c.Recipes.List[0].Result != "STRING" {
		t.Fatalf("recipe order not preserved")
	}
}

func TestGoldOreNeedsExactPickaxes(t *testing.T) {
	c := loadRepo(t)
	gold, ok := c.Tile("GOLD_ORE")
	if !ok {
		t.Fatalf("GOLD_ORE missing")
	}
	if len(gold.RequiresItem) != 2 || gold.ToolMessage != "Need an Iron Pickaxe!" {
		t.Fatalf("GOLD_ORE = %+v", gold)
	}
}

func TestDurabilities(t *testing.T) {
	d := loadRepo(t).Durabilities()
	if d["WOOD_SWORD"] != 50 || d["ARMOR_GOLD"] != 140 {
		t.Fatalf("durabilities = %v", d)
	}
	if _, ok := d["WOOD"]; ok {
		t.Fatalf("materials have no durability")
	}
}

func copyConfigs(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	for _, name := range []string{"items.json", "recipes.json", "tiles.json"} {
		b, err := os.ReadFile(filepath.Join("../../../configs", name))
		if err != nil {
			t.Fatal(err)
		}
		if err := os.WriteFile(filepath.Join(dir, name), b, 0o644); err != nil {
			t.Fatal(err)
		}
	}
	return dir
}

func TestLoadRejectsSchemaViolation(t *testing.T) {
	dir := copyConfigs(t)
	bad := `[{"result":"STRING","count":0,"ingredients":[{"item":"COBWEB","count":1}],"category":"misc"}]`
	if err := os.WriteFile(filepath.Join(dir, "recipes.json"), []byte(bad), 0o644); err != nil {
		t.Fatal(err)
	}
	_, err := Load(dir)
	if err == nil || !strings.Contains(err.Error(), "recipes.json") {
		t.Fatalf("expected recipes.json schema error, got %v", err)
	}
}

func TestLoadRejectsUnknownIngredient(t *testing.T) {
	dir := copyConfigs(t)
	bad := `[{"result":"STRING","count":1,"ingredients":[{"item":"UNOBTAINIUM","count":1}],"category":"misc"}]`
	if err := os.WriteFile(filepath.Join(dir, "recipes.json"), []byte(bad), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(dir); err == nil || !strings.Contains(err.Error(), "UNOBTAINIUM") {
		t.Fatalf("expected unknown ingredient error, got %v", err)
	}
}

func TestSchemasCoverEveryFile(t *testing.T) {
	s := Schemas()
	for _, name := range []string{"items.json", "recipes.json", "tiles.json"} {
		if s[name] == nil || s[name].Items == nil {
			t.Fatalf("schema for %s missing", name)
		}
	}
}
