package protocol

import (
	"hearthwild.dev/internal/persistence/snapshot"
	"hearthwild.dev/internal/sim/tuning"
	"hearthwild.dev/internal/sim/world"
	"hearthwild.dev/internal/sim/world/feature/movement/runtime"
	"hearthwild.dev/internal/sim/world/kernel/model"
)

// Frame encodings a client may ask for.
const (
	EncodingJSON    = "json"
	EncodingMsgpack = "msgpack"
)

// HELLO (client -> server)
type HelloMsg struct {
	Type            string `json:"type" jsonschema:"required,enum=HELLO"`
	ProtocolVersion string `json:"protocol_version" jsonschema:"required"`
	ClientName      string `json:"client_name,omitempty"`
	// Encoding selects how FRAME messages are sent; defaults to json.
	Encoding string `json:"encoding,omitempty" jsonschema:"enum=json,enum=msgpack"`
	MaxQueue int    `json:"max_queue,omitempty" jsonschema:"minimum=0,maximum=64"`
	// SinceCursor replays buffered events newer than the cursor.
	SinceCursor uint64 `json:"since_cursor,omitempty"`
}

// WELCOME (server -> client)
type WelcomeMsg struct {
	Type            string          `json:"type"`
	ProtocolVersion string          `json:"protocol_version"`
	SessionID       string          `json:"session_id"`
	Encoding        string          `json:"encoding"`
	WorldParams     WorldParams     `json:"world_params"`
	Catalogs        CatalogDigests  `json:"catalogs"`
	Slot            snapshot.Meta   `json:"slot"`
	Settings        tuning.Settings `json:"settings"`
}

type WorldParams struct {
	TickRateHz    int     `json:"tick_rate_hz"`
	ChunkSize     int     `json:"chunk_size"`
	TileSize      float64 `json:"tile_size"`
	InventorySize int     `json:"inventory_size"`
	ChestSize     int     `json:"chest_size"`
	BackpackSize  int     `json:"backpack_size"`
	Seed          float64 `json:"seed"`
}

type CatalogDigests struct {
	ItemPalette   DigestRef `json:"item_palette"`
	ItemsDigest   string    `json:"items_digest"`
	RecipesDigest string    `json:"recipes_digest"`
	TilesDigest   string    `json:"tiles_digest"`
}

type DigestRef struct {
	Digest string `json:"digest"`
	Count  int    `json:"count"`
}

// INPUT (client -> server): the latest held controls. Only the newest input
// is kept between ticks.
type InputMsg struct {
	Type            string  `json:"type" jsonschema:"required,enum=INPUT"`
	ProtocolVersion string  `json:"protocol_version" jsonschema:"required"`
	Up              bool    `json:"up,omitempty"`
	Down            bool    `json:"down,omitempty"`
	Left            bool    `json:"left,omitempty"`
	Right           bool    `json:"right,omitempty"`
	Run             bool    `json:"run,omitempty"`
	MouseX          float64 `json:"mouse_x"`
	MouseY          float64 `json:"mouse_y"`
	LeftDown        bool    `json:"left_down,omitempty"`
	RightDown       bool    `json:"right_down,omitempty"`
	ScreenW         float64 `json:"screen_w" jsonschema:"required,exclusiveMinimum=0,maximum=8192"`
	ScreenH         float64 `json:"screen_h" jsonschema:"required,exclusiveMinimum=0,maximum=8192"`
	Zoom            float64 `json:"zoom,omitempty" jsonschema:"minimum=0"`
	InventoryOpen   bool    `json:"inventory_open,omitempty"`
}

func (m InputMsg) ToInput() world.Input {
	zoom := tuning.ClampZoom(m.Zoom)
	return world.Input{
		Keys:          runtime.Keys{Up: m.Up, Down: m.Down, Left: m.Left, Right: m.Right},
		Run:           m.Run,
		MouseX:        m.MouseX,
		MouseY:        m.MouseY,
		LeftDown:      m.LeftDown,
		RightDown:     m.RightDown,
		ScreenW:       m.ScreenW,
		ScreenH:       m.ScreenH,
		Zoom:          zoom,
		InventoryOpen: m.InventoryOpen,
	}
}

type SlotRef struct {
	Area  string `json:"area" jsonschema:"required,enum=inventory,enum=container,enum=backpack"`
	Index int    `json:"index" jsonschema:"minimum=0"`
}

// COMMAND (client -> server): one inventory or session operation, answered
// by an ACK with the same req_id.
type CommandMsg struct {
	Type            string   `json:"type" jsonschema:"required,enum=COMMAND"`
	ProtocolVersion string   `json:"protocol_version" jsonschema:"required"`
	ReqID           string   `json:"req_id" jsonschema:"required,minLength=1"`
	Op              string   `json:"op" jsonschema:"required,enum=CRAFT,enum=EAT,enum=EQUIP,enum=UNEQUIP,enum=MOVE,enum=TRANSFER,enum=DROP,enum=SELECT,enum=RESPAWN,enum=SAVE"`
	Slot            int      `json:"slot,omitempty" jsonschema:"minimum=0"`
	From            *SlotRef `json:"from,omitempty"`
	To              *SlotRef `json:"to,omitempty"`
	Result          string   `json:"result,omitempty"`
	Equip           string   `json:"equip,omitempty" jsonschema:"enum=head,enum=body,enum=accessory,enum=bag"`
	ToChest         bool     `json:"to_chest,omitempty"`
}

func (m CommandMsg) ToCommand() world.Command {
	c := world.Command{
		Op:      m.Op,
		Slot:    m.Slot,
		Result:  m.Result,
		Equip:   model.EquipSlot(m.Equip),
		ToChest: m.ToChest,
	}
	if m.From != nil {
		c.From = world.SlotRef{Area: world.Area(m.From.Area), Index: m.From.Index}
	}
	if m.To != nil {
		c.To = world.SlotRef{Area: world.Area(m.To.Area), Index: m.To.Index}
	}
	return c
}

// SETTINGS (client -> server): replaces the stored settings. Missing
// fields keep their defaults.
type SettingsMsg struct {
	Type            string          `json:"type" jsonschema:"required,enum=SETTINGS"`
	ProtocolVersion string          `json:"protocol_version" jsonschema:"required"`
	ReqID           string          `json:"req_id" jsonschema:"required,minLength=1"`
	Settings        tuning.Settings `json:"settings" jsonschema:"required"`
}

type AckMsg struct {
	Type            string  `json:"type"`
	ProtocolVersion string  `json:"protocol_version"`
	AckFor          string  `json:"ack_for"`
	Accepted        bool    `json:"accepted"`
	Code            string  `json:"code,omitempty"`
	Message         string  `json:"message,omitempty"`
	SimTime         float64 `json:"sim_time,omitempty"`
}

// FRAME (server -> client)
type FrameMsg struct {
	Type            string           `json:"type"`
	ProtocolVersion string           `json:"protocol_version"`
	Frame           world.Frame      `json:"frame"`
	Events          []EventBatchItem `json:"events,omitempty"`
}
