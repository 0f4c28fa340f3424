package log

import (
	"bufio"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/klauspost/compress/zstd"

	"hearthwild.dev/internal/sim/world"
)

func readLines(t *testing.T, path string) []world.Event {
	t.Helper()
	f, err := os.Open(path)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer f.Close()
	dec, err := zstd.NewReader(f)
	if err != nil {
		t.Fatalf("zstd: %v", err)
	}
	defer dec.Close()
	var out []world.Event
	sc := bufio.NewScanner(dec)
	for sc.Scan() {
		var e world.Event
		if err := json.Unmarshal(sc.Bytes(), &e); err != nil {
			t.Fatalf("line %q: %v", sc.Text(), err)
		}
		out = append(out, e)
	}
	if err := sc.Err(); err != nil {
		t.Fatalf("scan: %v", err)
	}
	return out
}

func TestEventLoggerWritesCompressedLines(t *testing.T) {
	dir := t.TempDir()
	l := NewEventLogger(dir)
	at := time.Date(2026, 3, 1, 10, 15, 0, 0, time.UTC)
	l.w.now = func() time.Time { return at }

	for _, e := range []world.Event{
		{Type: world.EventStatus, SimTime: 1.5, Message: "Crafted Stone Axe!"},
		{Type: world.EventDeath, SimTime: 9},
	} {
		if err := l.WriteEvent(e); err != nil {
			t.Fatalf("write: %v", err)
		}
	}
	if err := l.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}

	got := readLines(t, filepath.Join(dir, "events", "events-2026-03-01-10.jsonl.zst"))
	if len(got) != 2 {
		t.Fatalf("lines=%d want 2", len(got))
	}
	if got[0].Message != "Crafted Stone Axe!" || got[1].Type != world.EventDeath {
		t.Fatalf("unexpected events: %+v", got)
	}
}

func TestWriterRotatesHourly(t *testing.T) {
	dir := t.TempDir()
	w := NewHourlyWriter(dir, "events")
	at := time.Date(2026, 3, 1, 10, 59, 0, 0, time.UTC)
	w.now = func() time.Time { return at }

	if err := w.Write(world.Event{Type: world.EventStatus, Message: "a"}); err != nil {
		t.Fatalf("write: %v", err)
	}
	at = at.Add(2 * time.Minute)
	if err := w.Write(world.Event{Type: world.EventStatus, Message: "b"}); err != nil {
		t.Fatalf("write: %v", err)
	}
	if w.Lines() != 2 {
		t.Fatalf("lines=%d", w.Lines())
	}
	if err := w.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}

	for _, tc := range []struct {
		file string
		msg  string
	}{
		{"events-2026-03-01-10.jsonl.zst", "a"},
		{"events-2026-03-01-11.jsonl.zst", "b"},
	} {
		got := readLines(t, filepath.Join(dir, tc.file))
		if len(got) != 1 || got[0].Message != tc.msg {
			t.Fatalf("%s: got %+v", tc.file, got)
		}
	}
}

func TestEventLoggerClosedRejectsWrites(t *testing.T) {
	l := NewEventLogger(t.TempDir())
	if err := l.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}
	if err := l.Close(); err != nil {
		t.Fatalf("second close: %v", err)
	}
	if err := l.WriteEvent(world.Event{Type: world.EventDeath}); !errors.Is(err, ErrClosed) {
		t.Fatalf("err=%v", err)
	}
	if l.Dropped() != 0 || l.Failed() != 0 {
		t.Fatalf("dropped=%d failed=%d", l.Dropped(), l.Failed())
	}
}
