// Package log writes gameplay events as zstd-compressed JSON lines, one file
// per UTC hour.
package log

import (
	"bufio"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"sync/atomic"
	"time"

	"github.com/klauspost/compress/zstd"

	"hearthwild.dev/internal/sim/world"
)

const hourLayout = "2006-01-02-15"

// HourlyWriter appends JSON values to <dir>/<prefix>-YYYY-MM-DD-HH.jsonl.zst.
// A file reopened within the same hour gets a new zstd frame appended.
type HourlyWriter struct {
	dir    string
	prefix string
	now    func() time.Time

	mu    sync.Mutex
	hour  string
	file  *os.File
	zw    *zstd.Encoder
	buf   *bufio.Writer
	lines uint64
}

func NewHourlyWriter(dir, prefix string) *HourlyWriter {
	return &HourlyWriter{dir: dir, prefix: prefix, now: time.Now}
}

// Write encodes v as one line and flushes it through the compressor so a
// crash loses at most the current frame.
func (w *HourlyWriter) Write(v any) error {
	line, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("encode line: %w", err)
	}

	w.mu.Lock()
	defer w.mu.Unlock()
	if hour := w.now().UTC().Format(hourLayout); hour != w.hour {
		if err := w.openLocked(hour); err != nil {
			return err
		}
	}
	line = append(line, '\n')
	if _, err := w.buf.Write(line); err != nil {
		return err
	}
	if err := w.buf.Flush(); err != nil {
		return err
	}
	w.lines++
	return nil
}

// Lines reports how many values were written since the writer was created.
func (w *HourlyWriter) Lines() uint64 {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.lines
}

func (w *HourlyWriter) Close() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.closeLocked()
}

func (w *HourlyWriter) Path(hour string) string {
	return filepath.Join(w.dir, fmt.Sprintf("%s-%s.jsonl.zst", w.prefix, hour))
}

func (w *HourlyWriter) openLocked(hour string) error {
	if err := w.closeLocked(); err != nil {
		return err
	}
	if err := os.MkdirAll(w.dir, 0o755); err != nil {
		return err
	}
	path := w.Path(hour)
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return fmt.Errorf("open %s: %w", path, err)
	}
	zw, err := zstd.NewWriter(f, zstd.WithEncoderLevel(zstd.SpeedFastest))
	if err != nil {
		_ = f.Close()
		return err
	}
	w.file, w.zw, w.hour = f, zw, hour
	w.buf = bufio.NewWriterSize(zw, 64*1024)
	return nil
}

func (w *HourlyWriter) closeLocked() error {
	if w.file == nil {
		return nil
	}
	err := w.buf.Flush()
	if cerr := w.zw.Close(); err == nil {
		err = cerr
	}
	if cerr := w.file.Close(); err == nil {
		err = cerr
	}
	w.file, w.zw, w.buf, w.hour = nil, nil, nil, ""
	return err
}

var ErrClosed = errors.New("event log closed")

// EventLogger persists a slot's gameplay events off the caller's goroutine.
// WriteEvent never blocks; events that do not fit the queue are counted and
// dropped.
type EventLogger struct {
	w *HourlyWriter

	mu      sync.RWMutex
	closed  bool
	queue   chan world.Event
	done    chan struct{}
	dropped atomic.Uint64
	failed  atomic.Uint64
}

// NewEventLogger writes to <slotDir>/events.
func NewEventLogger(slotDir string) *EventLogger {
	l := &EventLogger{
		w:     NewHourlyWriter(filepath.Join(slotDir, "events"), "events"),
		queue: make(chan world.Event, 1024),
		done:  make(chan struct{}),
	}
	go l.loop()
	return l
}

func (l *EventLogger) loop() {
	defer close(l.done)
	for e := range l.queue {
		if err := l.w.Write(e); err != nil {
			l.failed.Add(1)
		}
	}
}

func (l *EventLogger) WriteEvent(e world.Event) error {
	l.mu.RLock()
	defer l.mu.RUnlock()
	if l.closed {
		return ErrClosed
	}
	select {
	case l.queue <- e:
	default:
		l.dropped.Add(1)
	}
	return nil
}

// Dropped and Failed count events lost to a full queue and to write errors.
func (l *EventLogger) Dropped() uint64 { return l.dropped.Load() }
func (l *EventLogger) Failed() uint64  { return l.failed.Load() }

// Close drains the queue and closes the current file.
func (l *EventLogger) Close() error {
	l.mu.Lock()
	if l.closed {
		l.mu.Unlock()
		return nil
	}
	l.closed = true
	close(l.queue)
	l.mu.Unlock()

	<-l.done
	return l.w.Close()
}
