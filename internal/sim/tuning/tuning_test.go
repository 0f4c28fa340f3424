package tuning

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadRepoTuning(t *testing.T) {
	tu, err := Load("../../../configs/tuning.yaml")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if tu.ChunkSize != 32 || tu.Hazards.DrownDamage != 10 || tu.Drops.Lifetime != 300 {
		t.Fatalf("unexpected tuning: %+v", tu)
	}
}

func TestLoadPartialKeepsDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tuning.yaml")
	if err := os.WriteFile(path, []byte("chunk_size: 16\nhazards:\n  drown_damage: 12\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	tu, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if tu.ChunkSize != 16 || tu.Hazards.DrownDamage != 12 {
		t.Fatalf("overlay not applied: %+v", tu)
	}
	if tu.Hazards.DrownDelay != 3 || tu.Movement.PlayerSpeed != 3 {
		t.Fatalf("defaults lost: %+v", tu)
	}
}

func TestLoadRejectsBadChunkSize(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tuning.yaml")
	if err := os.WriteFile(path, []byte("chunk_size: 0\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(path); err == nil {
		t.Fatalf("expected validation error")
	}
}

func TestParseSettingsMergesDefaults(t *testing.T) {
	s, err := ParseSettings([]byte("cameraZoom: 1.5\nkeybinds:\n  run: ctrl\n"))
	if err != nil {
		t.Fatalf("ParseSettings: %v", err)
	}
	if s.CameraZoom != 1.5 || s.GUIScale != 1 {
		t.Fatalf("scales = %v %v", s.CameraZoom, s.GUIScale)
	}
	if s.Keybinds.Run != "ctrl" || s.Keybinds.MoveUp != "w" || s.Keybinds.Inventory != "e" {
		t.Fatalf("keybinds = %+v", s.Keybinds)
	}

	empty, err := ParseSettings(nil)
	if err != nil || empty != DefaultSettings() {
		t.Fatalf("empty settings = %+v, %v", empty, err)
	}
}

func TestSettingsClampCameraZoom(t *testing.T) {
	cases := []struct {
		raw  string
		want float64
	}{
		{"cameraZoom: 0.01\n", MinCameraZoom},
		{"cameraZoom: 9\n", MaxCameraZoom},
		{"cameraZoom: 0\n", 1},
	}
	for _, tc := range cases {
		s, err := ParseSettings([]byte(tc.raw))
		if err != nil {
			t.Fatalf("%q: %v", tc.raw, err)
		}
		if s.CameraZoom != tc.want {
			t.Fatalf("%q: zoom=%v want %v", tc.raw, s.CameraZoom, tc.want)
		}
	}
}
