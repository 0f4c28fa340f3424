package ws

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"
	"sync/atomic"
	"time"

	"github.com/gorilla/websocket"
	"github.com/sasha-s/go-deadlock"

	"hearthwild.dev/internal/protocol"
	"hearthwild.dev/internal/sim/tuning"
	"hearthwild.dev/internal/sim/world"
)

// SettingsStore persists the renderer's settings.
type SettingsStore interface {
	LoadSettings() (tuning.Settings, error)
	SaveSettings(tuning.Settings) error
}

type Config struct {
	// Welcome is the template sent after a successful HELLO; the server fills
	// type, version, session id, encoding and settings.
	Welcome  protocol.WelcomeMsg
	Settings SettingsStore
	// History is how many numbered events are kept for reconnects.
	History int
	// CommandTimeout bounds the wait for a command's outcome.
	CommandTimeout time.Duration
}

// Server bridges one renderer connection to a world.Runtime. A second
// connection while one is active is refused with E_BUSY.
type Server struct {
	rt        *world.Runtime
	cfg       Config
	log       *log.Logger
	validator *protocol.Validator

	upgrader websocket.Upgrader
	nextID   atomic.Uint64

	mu         deadlock.Mutex
	active     *session
	history    []protocol.EventBatchItem
	nextCursor uint64
	lastFrame  *world.Frame
}

type session struct {
	id       string
	encoding string
	// out carries frames and may drop; ctl carries acks and does not.
	out chan []byte
	ctl chan []byte
}

func NewServer(rt *world.Runtime, cfg Config, logger *log.Logger) (*Server, error) {
	v, err := protocol.NewValidator()
	if err != nil {
		return nil, err
	}
	if cfg.History <= 0 {
		cfg.History = 512
	}
	if cfg.CommandTimeout <= 0 {
		cfg.CommandTimeout = 2 * time.Second
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Server{
		rt:        rt,
		cfg:       cfg,
		log:       logger,
		validator: v,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  64 * 1024,
			WriteBufferSize: 64 * 1024,
			CheckOrigin:     func(r *http.Request) bool { return true }, // dev default
		},
		nextCursor: 1,
	}, nil
}

// Run subscribes to the runtime and forwards every update to the active
// session until ctx is done. It must run alongside Runtime.Run.
func (s *Server) Run(ctx context.Context) error {
	updates := make(chan world.Update, 1)
	select {
	case s.rt.Subscribe() <- updates:
	case <-ctx.Done():
		return ctx.Err()
	}
	defer func() {
		select {
		case s.rt.Unsubscribe() <- updates:
		case <-time.After(time.Second):
		}
	}()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case u := <-updates:
			s.forward(u)
		}
	}
}

func (s *Server) forward(u world.Update) {
	s.mu.Lock()
	items := make([]protocol.EventBatchItem, 0, len(u.Events))
	for _, e := range u.Events {
		items = append(items, protocol.EventBatchItem{Cursor: s.nextCursor, Event: e})
		s.nextCursor++
	}
	s.history = append(s.history, items...)
	if n := len(s.history); n > s.cfg.History {
		s.history = append([]protocol.EventBatchItem(nil), s.history[n-s.cfg.History:]...)
	}
	frame := u.Frame
	s.lastFrame = &frame
	sess := s.active
	s.mu.Unlock()

	if sess == nil {
		return
	}
	b, err := protocol.Marshal(sess.encoding, protocol.FrameMsg{
		Type:            protocol.TypeFrame,
		ProtocolVersion: protocol.Version,
		Frame:           frame,
		Events:          items,
	})
	if err != nil {
		s.log.Printf("ws: encode frame: %v", err)
		return
	}
	sendLatest(sess.out, b)
}

// sendLatest never blocks: when the queue is full the oldest message is
// dropped. Events ride on frames, so a client that falls behind recovers
// them through since_cursor on reconnect.
func sendLatest(ch chan []byte, b []byte) {
	for {
		select {
		case ch <- b:
			return
		default:
		}
		select {
		case <-ch:
		default:
		}
	}
}

func (s *Server) Handler() http.HandlerFunc {
	return func(rw http.ResponseWriter, r *http.Request) {
		conn, err := s.upgrader.Upgrade(rw, r, nil)
		if err != nil {
			return
		}
		defer conn.Close()

		sess := s.handshake(conn)
		if sess == nil {
			return
		}
		defer s.release(sess)

		ctx, cancel := context.WithCancel(r.Context())
		defer cancel()

		// Writer goroutine.
		go func() {
			msgType := websocket.TextMessage
			if protocol.Binary(sess.encoding) {
				msgType = websocket.BinaryMessage
			}
			for {
				select {
				case <-ctx.Done():
					return
				case b := <-sess.ctl:
					if err := writeMsg(conn, msgType, b); err != nil {
						cancel()
						return
					}
				case b := <-sess.out:
					if err := writeMsg(conn, msgType, b); err != nil {
						cancel()
						return
					}
				}
			}
		}()

		// Reader loop.
		for {
			_ = conn.SetReadDeadline(time.Now().Add(60 * time.Second))
			_, msg, err := conn.ReadMessage()
			if err != nil {
				cancel()
				return
			}
			s.handle(ctx, sess, msg)
		}
	}
}

func (s *Server) handle(ctx context.Context, sess *session, msg []byte) {
	base, err := s.validator.Validate(msg)
	if err != nil {
		s.reply(sess, ackFor(msg, base.Type), err)
		return
	}
	switch base.Type {
	case protocol.TypeInput:
		var in protocol.InputMsg
		if err := json.Unmarshal(msg, &in); err != nil {
			return
		}
		select {
		case s.rt.Input() <- in.ToInput():
		case <-ctx.Done():
		}

	case protocol.TypeCommand:
		var cm protocol.CommandMsg
		if err := json.Unmarshal(msg, &cm); err != nil {
			return
		}
		s.reply(sess, cm.ReqID, s.command(ctx, cm))

	case protocol.TypeSettings:
		var sm protocol.SettingsMsg
		if err := json.Unmarshal(msg, &sm); err != nil {
			return
		}
		var err error
		if s.cfg.Settings == nil {
			err = protocol.Errorf(protocol.CodeBadRequest, "settings are not stored")
		} else if err = s.cfg.Settings.SaveSettings(sm.Settings); err != nil {
			s.log.Printf("ws: save settings: %v", err)
		}
		s.reply(sess, sm.ReqID, err)

	case protocol.TypeHello:
		s.reply(sess, protocol.TypeHello, protocol.Errorf(protocol.CodeProto, "already joined"))
	}
}

// command queues c on the runtime and waits for its outcome.
func (s *Server) command(ctx context.Context, cm protocol.CommandMsg) error {
	c := cm.ToCommand()
	c.Reply = make(chan error, 1)
	select {
	case s.rt.Commands() <- c:
	default:
		return protocol.Errorf(protocol.CodeBusy, "command queue full")
	}
	t := time.NewTimer(s.cfg.CommandTimeout)
	defer t.Stop()
	select {
	case err := <-c.Reply:
		return err
	case <-t.C:
		return protocol.Errorf(protocol.CodeBusy, "command %s timed out", cm.Op)
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (s *Server) reply(sess *session, ackFor string, err error) {
	ack := protocol.AckMsg{
		Type:            protocol.TypeAck,
		ProtocolVersion: protocol.Version,
		AckFor:          ackFor,
		Accepted:        err == nil,
	}
	if err != nil {
		ack.Code = protocol.CodeOf(err)
		ack.Message = err.Error()
	}
	b, merr := protocol.Marshal(sess.encoding, ack)
	if merr != nil {
		return
	}
	select {
	case sess.ctl <- b:
	default:
		s.log.Printf("ws: %s: ack %s dropped", sess.id, ackFor)
	}
}

func writeMsg(conn *websocket.Conn, msgType int, b []byte) error {
	_ = conn.SetWriteDeadline(time.Now().Add(5 * time.Second))
	return conn.WriteMessage(msgType, b)
}

// ackFor picks the req_id of a rejected message when it has one.
func ackFor(msg []byte, fallback string) string {
	var m struct {
		ReqID string `json:"req_id"`
	}
	if json.Unmarshal(msg, &m) == nil && m.ReqID != "" {
		return m.ReqID
	}
	return fallback
}

func (s *Server) handshake(conn *websocket.Conn) *session {
	_ = conn.SetReadDeadline(time.Now().Add(5 * time.Second))
	_, msg, err := conn.ReadMessage()
	if err != nil {
		return nil
	}

	base, err := s.validator.Validate(msg)
	if err == nil && base.Type != protocol.TypeHello {
		err = protocol.Errorf(protocol.CodeProto, "expected HELLO")
	}
	if err != nil {
		closeWith(conn, websocket.ClosePolicyViolation, err)
		return nil
	}
	var hello protocol.HelloMsg
	if err := json.Unmarshal(msg, &hello); err != nil {
		closeWith(conn, websocket.ClosePolicyViolation, err)
		return nil
	}

	maxQ := hello.MaxQueue
	if maxQ <= 0 {
		maxQ = 8
	}
	if maxQ > 64 {
		maxQ = 64
	}
	enc := hello.Encoding
	if enc == "" {
		enc = protocol.EncodingJSON
	}
	sess := &session{
		id:       fmt.Sprintf("S%d", s.nextID.Add(1)),
		encoding: enc,
		out:      make(chan []byte, maxQ),
		ctl:      make(chan []byte, 64),
	}

	s.mu.Lock()
	if s.active != nil {
		s.mu.Unlock()
		busy := protocol.AckMsg{
			Type:            protocol.TypeAck,
			ProtocolVersion: protocol.Version,
			AckFor:          protocol.TypeHello,
			Code:            protocol.CodeBusy,
			Message:         "another client is connected",
		}
		_ = writeJSON(conn, busy)
		closeWith(conn, websocket.CloseTryAgainLater, protocol.ErrBusy)
		return nil
	}
	s.active = sess
	var missed []protocol.EventBatchItem
	if hello.SinceCursor > 0 {
		for _, it := range s.history {
			if it.Cursor > hello.SinceCursor {
				missed = append(missed, it)
			}
		}
	}
	last := s.lastFrame
	s.mu.Unlock()

	welcome := s.cfg.Welcome
	welcome.Type = protocol.TypeWelcome
	welcome.ProtocolVersion = protocol.Version
	welcome.SessionID = sess.id
	welcome.Encoding = enc
	welcome.Settings = tuning.DefaultSettings()
	if s.cfg.Settings != nil {
		if st, err := s.cfg.Settings.LoadSettings(); err == nil {
			welcome.Settings = st
		} else {
			s.log.Printf("ws: load settings: %v", err)
		}
	}
	if err := writeJSON(conn, welcome); err != nil {
		s.release(sess)
		return nil
	}
	if last != nil && len(missed) > 0 {
		b, err := protocol.Marshal(enc, protocol.FrameMsg{
			Type:            protocol.TypeFrame,
			ProtocolVersion: protocol.Version,
			Frame:           *last,
			Events:          missed,
		})
		if err == nil {
			sendLatest(sess.out, b)
		}
	}
	return sess
}

func (s *Server) release(sess *session) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.active == sess {
		s.active = nil
	}
}

func closeWith(conn *websocket.Conn, code int, err error) {
	_ = conn.WriteControl(websocket.CloseMessage, websocket.FormatCloseMessage(code, err.Error()), time.Now().Add(time.Second))
}

func writeJSON(conn *websocket.Conn, v any) error {
	b, err := json.Marshal(v)
	if err != nil {
		return err
	}
	_ = conn.SetWriteDeadline(time.Now().Add(5 * time.Second))
	if err := conn.WriteMessage(websocket.TextMessage, b); err != nil {
		if errors.Is(err, websocket.ErrCloseSent) {
			return err
		}
		return fmt.Errorf("write %T: %w", v, err)
	}
	return nil
}
