package snapshot

import (
	"path/filepath"
	"strings"
	"testing"

	"hearthwild.dev/internal/sim/world/kernel/model"
)

func sampleSave() SaveV1 {
	inv := make([]*model.ItemStack, 24)
	inv[0] = &model.ItemStack{Type: model.ItemWoodAxe, Count: 1, Durability: model.IntPtr(12), MaxDurability: model.IntPtr(40)}
	inv[3] = model.Stack(model.ItemWood, 17)
	return SaveV1{
		Header: Header{SaveID: "s1", Slot: 2, SimTime: 91.5},
		Meta:   Meta{ID: 2, Name: "World 2", LastPlayed: 1700000000000},
		Player: PlayerV1{
			X: 3.5, Y: -7.25, Health: 62, Stamina: 40, Inventory: inv,
			Equipment: model.Equipment{Bag: &model.ItemStack{Type: model.ItemBackpack, Count: 1, Contents: make([]*model.ItemStack, 8)}},
		},
		World: WorldV1{
			TilePalette: []string{"GRASS", "WATER"},
			Chunks: []ChunkV1{{
				CX: -1, CY: 0, Size: 32, TilesRLE: "AAAA",
				Objects:    []ObjectV1{{LX: 4, LY: 5, Type: "TREE"}},
				Containers: []ContainerV1{{LX: 1, LY: 1, Items: []*model.ItemStack{model.Stack(model.ItemGold, 2), nil}}},
				Entities:   []model.Entity{{ID: "e1", Kind: model.KindCow, X: -20, Y: 3, Health: 35, MaxHealth: 35, State: model.StateWander, Facing: model.FacingLeft}},
			}},
			Saplings:   []model.Sapling{{X: 1, Y: 2, PlantTime: 10, IsPine: true}},
			SeedConfig: model.SeedConfig{Seed: 0.25, SeedY: 0.75, Rotation: 1, TempOffset: 0.1, MountainOffset: -0.1},
			SimTime:    91.5,
		},
		Camera: CameraV1{X: 100, Y: 200},
	}
}

func TestEncodeDecodeKeepsWorld(t *testing.T) {
	in := sampleSave()
	b, err := Encode(in)
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}
	out, warns, err := Decode(b, DefaultDefaults())
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if len(warns) != 0 {
		t.Fatalf("unexpected warnings: %v", warns)
	}
	if out.Header.Version != Version || out.Meta.Name != "World 2" {
		t.Fatalf("header/meta mismatch: %+v %+v", out.Header, out.Meta)
	}
	if out.World.SeedMissing || out.World.SeedConfig != in.World.SeedConfig {
		t.Fatalf("seed config mismatch: %+v", out.World.SeedConfig)
	}
	if len(out.World.Chunks) != 1 || out.World.Chunks[0].CX != -1 || len(out.World.Chunks[0].Entities) != 1 {
		t.Fatalf("chunk mismatch: %+v", out.World.Chunks)
	}
	if got := out.Player.Inventory[0]; got == nil || *got.Durability != 12 {
		t.Fatalf("tool durability lost: %+v", got)
	}
	if out.Player.Equipment.Bag == nil || len(out.Player.Equipment.Bag.Contents) != 8 {
		t.Fatalf("bag contents lost")
	}
}

func TestReadHeaderOnly(t *testing.T) {
	b, err := Encode(sampleSave())
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}
	h, err := ReadHeader(b)
	if err != nil {
		t.Fatalf("ReadHeader: %v", err)
	}
	if h.SaveID != "s1" || h.Slot != 2 || h.Version != Version {
		t.Fatalf("header = %+v", h)
	}
}

func TestWriteThenReadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "saves", "slot2.hws")
	if err := Write(path, sampleSave()); err != nil {
		t.Fatalf("Write: %v", err)
	}
	s, _, err := Read(path, DefaultDefaults())
	if err != nil {
		t.Fatalf("Read: %v", err)
	}
	if s.Camera.X != 100 {
		t.Fatalf("camera = %+v", s.Camera)
	}
}

func TestNormalizeFillsMissingFields(t *testing.T) {
	body := `{"player":{"x":1,"y":2,"inventory":[{"type":"WOOD","count":3}],"equipment":{"head":null}},"world":{"chunks":[]}}`
	s, _, err := Normalize([]byte(body), DefaultDefaults())
	if err != nil {
		t.Fatalf("Normalize: %v", err)
	}
	if s.Player.Health != 100 || s.Player.Stamina != 100 {
		t.Fatalf("vitals not defaulted: %+v", s.Player)
	}
	if len(s.Player.Inventory) != 24 || s.Player.Inventory[0].Count != 3 {
		t.Fatalf("inventory not padded: %d", len(s.Player.Inventory))
	}
	if s.Player.Equipment.Accessory != nil || s.Player.Equipment.Bag != nil {
		t.Fatalf("missing equipment slots should be empty")
	}
	if !s.World.SeedMissing {
		t.Fatalf("missing seed config should be flagged")
	}
}

func TestNormalizeSkipsDamagedElements(t *testing.T) {
	body := `{
		"player":{"health":50,"inventory":[{"type":"WOOD","count":"x"},{"type":"STONE","count":2}]},
		"world":{
			"seedConfig":{"seed":0.5},
			"chunks":[
				{"cx":0,"cy":0,"tiles":"AA","entities":[{"type":"COW","x":1,"y":1},{"x":"bad"}]},
				{"cx":"bad"},
				7
			],
			"saplings":[{"x":1,"y":1,"plantTime":3},"junk"]
		}
	}`
	s, warns, err := Normalize([]byte(body), DefaultDefaults())
	if err != nil {
		t.Fatalf("Normalize: %v", err)
	}
	if s.Player.Inventory[0] != nil || s.Player.Inventory[1] == nil {
		t.Fatalf("damaged slot should be emptied in place")
	}
	if len(s.World.Chunks) != 1 {
		t.Fatalf("chunks = %d want 1", len(s.World.Chunks))
	}
	ents := s.World.Chunks[0].Entities
	if len(ents) != 1 || ents[0].State != model.StateIdle {
		t.Fatalf("entities = %+v", ents)
	}
	if len(s.World.Saplings) != 1 {
		t.Fatalf("saplings = %d want 1", len(s.World.Saplings))
	}
	if len(warns) == 0 || !strings.Contains(strings.Join(warns, "\n"), "chunks[1]") {
		t.Fatalf("warnings = %v", warns)
	}
}

func TestNormalizeRejectsGarbage(t *testing.T) {
	if _, _, err := Normalize([]byte("not json"), DefaultDefaults()); err == nil {
		t.Fatalf("expected error")
	}
}
