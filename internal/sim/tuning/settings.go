package tuning

import (
	"fmt"

	"gopkg.in/yaml.v3"
)

// Settings are per-installation preferences stored next to the save slots.
type Settings struct {
	GUIScale   float64  `yaml:"guiScale" json:"guiScale"`
	CameraZoom float64  `yaml:"cameraZoom" json:"cameraZoom"`
	Keybinds   Keybinds `yaml:"keybinds" json:"keybinds"`
}

type Keybinds struct {
	MoveUp    string `yaml:"moveUp" json:"moveUp"`
	MoveDown  string `yaml:"moveDown" json:"moveDown"`
	MoveLeft  string `yaml:"moveLeft" json:"moveLeft"`
	MoveRight string `yaml:"moveRight" json:"moveRight"`
	Inventory string `yaml:"inventory" json:"inventory"`
	Run       string `yaml:"run" json:"run"`
}

// Camera zoom is limited so the visible area, and with it the chunk loading
// radius, stays bounded.
const (
	MinCameraZoom = 0.5
	MaxCameraZoom = 1.5
)

// ClampZoom maps an unset zoom to 1 and limits the rest to
// [MinCameraZoom, MaxCameraZoom].
func ClampZoom(z float64) float64 {
	if z <= 0 {
		return 1
	}
	return min(max(z, MinCameraZoom), MaxCameraZoom)
}

func DefaultSettings() Settings {
	return Settings{
		GUIScale:   1,
		CameraZoom: 1,
		Keybinds: Keybinds{
			MoveUp:    "w",
			MoveDown:  "s",
			MoveLeft:  "a",
			MoveRight: "d",
			Inventory: "e",
			Run:       "shift",
		},
	}
}

// ParseSettings decodes a stored settings document; missing or zero fields
// take their default.
func ParseSettings(raw []byte) (Settings, error) {
	var s Settings
	if len(raw) > 0 {
		if err := yaml.Unmarshal(raw, &s); err != nil {
			return DefaultSettings(), fmt.Errorf("settings: %w", err)
		}
	}
	return s.WithDefaults(), nil
}

func (s Settings) Marshal() ([]byte, error) {
	return yaml.Marshal(s)
}

func (s Settings) WithDefaults() Settings {
	d := DefaultSettings()
	if s.GUIScale <= 0 {
		s.GUIScale = d.GUIScale
	}
	if s.CameraZoom <= 0 {
		s.CameraZoom = d.CameraZoom
	}
	s.CameraZoom = ClampZoom(s.CameraZoom)
	k, dk := &s.Keybinds, d.Keybinds
	for _, f := range []struct {
		v   *string
		def string
	}{
		{&k.MoveUp, dk.MoveUp},
		{&k.MoveDown, dk.MoveDown},
		{&k.MoveLeft, dk.MoveLeft},
		{&k.MoveRight, dk.MoveRight},
		{&k.Inventory, dk.Inventory},
		{&k.Run, dk.Run},
	} {
		if *f.v == "" {
			*f.v = f.def
		}
	}
	return s
}
