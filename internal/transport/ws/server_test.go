package ws

import (
	"context"
	"encoding/json"
	"io"
	"log"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gorilla/websocket"

	"hearthwild.dev/internal/protocol"
	"hearthwild.dev/internal/sim/catalogs"
	"hearthwild.dev/internal/sim/tuning"
	"hearthwild.dev/internal/sim/world"
	"hearthwild.dev/internal/sim/world/kernel/model"
)

type memSettings struct {
	mu sync.Mutex
	s  tuning.Settings
}

func (m *memSettings) LoadSettings() (tuning.Settings, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.s.WithDefaults(), nil
}

func (m *memSettings) SaveSettings(s tuning.Settings) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.s = s
	return nil
}

func startServer(t *testing.T) (string, *memSettings) {
	t.Helper()
	cats, err := catalogs.Load(filepath.Join("..", "..", "..", "configs"))
	if err != nil {
		t.Fatalf("catalogs: %v", err)
	}
	sim := world.New(world.Config{Tuning: tuning.Defaults(), Catalogs: cats, RandSeed: 1}, model.SeedConfig{Seed: 42, SeedY: 7})
	logger := log.New(io.Discard, "", 0)
	rt := world.NewRuntime(sim, world.RuntimeConfig{TickRateHz: 50}, logger)

	settings := &memSettings{}
	srv, err := NewServer(rt, Config{
		Welcome:  protocol.WelcomeMsg{WorldParams: protocol.WorldParams{TickRateHz: 50, ChunkSize: 32}},
		Settings: settings,
	}, logger)
	if err != nil {
		t.Fatalf("server: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	go func() { _ = rt.Run(ctx) }()
	go func() { _ = srv.Run(ctx) }()
	ts := httptest.NewServer(srv.Handler())
	t.Cleanup(func() {
		ts.Close()
		cancel()
	})
	return "ws" + strings.TrimPrefix(ts.URL, "http"), settings
}

func dial(t *testing.T, url string, hello string) (*websocket.Conn, protocol.WelcomeMsg) {
	t.Helper()
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	t.Cleanup(func() { conn.Close() })
	if err := conn.WriteMessage(websocket.TextMessage, []byte(hello)); err != nil {
		t.Fatalf("hello: %v", err)
	}
	_ = conn.SetReadDeadline(time.Now().Add(5 * time.Second))
	_, b, err := conn.ReadMessage()
	if err != nil {
		t.Fatalf("welcome: %v", err)
	}
	var w protocol.WelcomeMsg
	if err := json.Unmarshal(b, &w); err != nil {
		t.Fatalf("welcome decode: %v", err)
	}
	return conn, w
}

func send(t *testing.T, conn *websocket.Conn, msg string) {
	t.Helper()
	if err := conn.WriteMessage(websocket.TextMessage, []byte(msg)); err != nil {
		t.Fatalf("send: %v", err)
	}
}

// waitAck reads JSON messages until the ACK for reqID arrives.
func waitAck(t *testing.T, conn *websocket.Conn, reqID string) protocol.AckMsg {
	t.Helper()
	deadline := time.Now().Add(5 * time.Second)
	for time.Now().Before(deadline) {
		_ = conn.SetReadDeadline(deadline)
		_, b, err := conn.ReadMessage()
		if err != nil {
			t.Fatalf("read: %v", err)
		}
		var ack protocol.AckMsg
		if json.Unmarshal(b, &ack) == nil && ack.Type == protocol.TypeAck && ack.AckFor == reqID {
			return ack
		}
	}
	t.Fatalf("no ack for %s", reqID)
	return protocol.AckMsg{}
}

func TestHelloWelcomeAndCommands(t *testing.T) {
	url, settings := startServer(t)
	conn, w := dial(t, url, `{"type":"HELLO","protocol_version":"1.0","client_name":"test"}`)
	if w.Type != protocol.TypeWelcome || w.SessionID == "" || w.Encoding != protocol.EncodingJSON {
		t.Fatalf("welcome=%+v", w)
	}
	if w.WorldParams.ChunkSize != 32 || w.Settings.Keybinds.MoveUp != "w" {
		t.Fatalf("welcome params=%+v settings=%+v", w.WorldParams, w.Settings)
	}

	send(t, conn, `{"type":"COMMAND","protocol_version":"1.0","req_id":"r1","op":"SELECT","slot":3}`)
	if ack := waitAck(t, conn, "r1"); !ack.Accepted {
		t.Fatalf("select rejected: %+v", ack)
	}

	send(t, conn, `{"type":"COMMAND","protocol_version":"1.0","req_id":"r2","op":"EAT","slot":0}`)
	ack := waitAck(t, conn, "r2")
	if ack.Accepted || ack.Code != protocol.CodeBadRequest {
		t.Fatalf("eat empty slot: %+v", ack)
	}

	send(t, conn, `{"type":"COMMAND","protocol_version":"1.0","req_id":"r3","op":"FLY"}`)
	if ack := waitAck(t, conn, "r3"); ack.Accepted || ack.Code != protocol.CodeBadRequest {
		t.Fatalf("unknown op: %+v", ack)
	}

	send(t, conn, `{"type":"COMMAND","protocol_version":"1.0","req_id":"r4","op":"RESPAWN"}`)
	if ack := waitAck(t, conn, "r4"); ack.Accepted || ack.Code != protocol.CodeConflict {
		t.Fatalf("respawn alive: %+v", ack)
	}

	send(t, conn, `{"type":"SETTINGS","protocol_version":"1.0","req_id":"r5","settings":{"cameraZoom":1.25}}`)
	if ack := waitAck(t, conn, "r5"); !ack.Accepted {
		t.Fatalf("settings rejected: %+v", ack)
	}
	got, _ := settings.LoadSettings()
	if got.CameraZoom != 1.25 || got.GUIScale != 1 {
		t.Fatalf("settings=%+v", got)
	}
}

func TestSecondClientIsBusy(t *testing.T) {
	url, _ := startServer(t)
	dial(t, url, `{"type":"HELLO","protocol_version":"1.0"}`)

	_, w := dial(t, url, `{"type":"HELLO","protocol_version":"1.0"}`)
	// The busy reply decodes as an ACK, not a WELCOME.
	if w.Type != protocol.TypeAck {
		t.Fatalf("second client got %+v", w)
	}
}

func TestBadHelloIsClosed(t *testing.T) {
	url, _ := startServer(t)
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	defer conn.Close()
	send(t, conn, `{"type":"HELLO","protocol_version":"0.1"}`)
	_ = conn.SetReadDeadline(time.Now().Add(5 * time.Second))
	_, _, err = conn.ReadMessage()
	if !websocket.IsCloseError(err, websocket.ClosePolicyViolation) {
		t.Fatalf("expected policy close, got %v", err)
	}
}

func TestMsgpackFrames(t *testing.T) {
	url, _ := startServer(t)
	conn, w := dial(t, url, `{"type":"HELLO","protocol_version":"1.0","encoding":"msgpack"}`)
	if w.Encoding != protocol.EncodingMsgpack {
		t.Fatalf("encoding=%q", w.Encoding)
	}
	send(t, conn, `{"type":"INPUT","protocol_version":"1.0","right":true,"mouse_x":400,"mouse_y":300,"screen_w":800,"screen_h":600}`)

	deadline := time.Now().Add(5 * time.Second)
	for time.Now().Before(deadline) {
		_ = conn.SetReadDeadline(deadline)
		typ, b, err := conn.ReadMessage()
		if err != nil {
			t.Fatalf("read: %v", err)
		}
		if typ != websocket.BinaryMessage {
			t.Fatalf("message type=%d", typ)
		}
		var f protocol.FrameMsg
		if err := protocol.Unmarshal(protocol.EncodingMsgpack, b, &f); err != nil {
			t.Fatalf("decode: %v", err)
		}
		if f.Type != protocol.TypeFrame {
			continue
		}
		if f.Frame.Player.X > 0 {
			return
		}
	}
	t.Fatalf("player never moved right")
}
