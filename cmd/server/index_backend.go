package main

import (
	"fmt"
	"log"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"

	"hearthwild.dev/internal/persistence/indexdb"
	persistlog "hearthwild.dev/internal/persistence/log"
	"hearthwild.dev/internal/persistence/slots"
	"hearthwild.dev/internal/persistence/snapshot"
	"hearthwild.dev/internal/sim/world"
)

// openIndex returns nil when indexing is off. HW_INDEX_BACKEND=none turns it
// off without the flag.
func openIndex(dataDir string, disableDB bool) (*indexdb.SQLiteIndex, error) {
	if disableDB {
		return nil, nil
	}
	backend := strings.ToLower(strings.TrimSpace(os.Getenv("HW_INDEX_BACKEND")))
	if backend == "" {
		backend = "sqlite"
	}
	switch backend {
	case "none", "off", "disabled":
		return nil, nil
	case "sqlite":
		return indexdb.OpenSQLite(filepath.Join(dataDir, "index", "hearthwild.sqlite"))
	default:
		return nil, fmt.Errorf("unknown HW_INDEX_BACKEND=%q", backend)
	}
}

type eventLogWriter interface {
	WriteEvent(e world.Event) error
}

// eventSink fans runtime events out to the slot's event log and the index.
type eventSink struct {
	slot int
	log  eventLogWriter
	idx  *indexdb.SQLiteIndex
}

func (s *eventSink) WriteEvent(e world.Event) error {
	if s.idx != nil {
		s.idx.RecordEvent(s.slot, e)
	}
	if s.log == nil {
		return nil
	}
	return s.log.WriteEvent(e)
}

type slotSaver interface {
	Save(sv snapshot.SaveV1) error
}

// saveWriter persists snapshots from the runtime off the loop goroutine.
type saveWriter struct {
	store slotSaver
	idx   *indexdb.SQLiteIndex
	log   *log.Logger

	saved        atomic.Uint64
	failed       atomic.Uint64
	lastSimMilli atomic.Int64
}

func newSaveWriter(store slotSaver, idx *indexdb.SQLiteIndex, logger *log.Logger) *saveWriter {
	return &saveWriter{store: store, idx: idx, log: logger}
}

var _ slotSaver = (*slots.Store)(nil)

// run drains ch until it is closed.
func (w *saveWriter) run(ch <-chan snapshot.SaveV1) {
	for sv := range ch {
		if err := w.store.Save(sv); err != nil {
			w.failed.Add(1)
			w.log.Printf("save slot %d: %v", sv.Meta.ID, err)
			continue
		}
		w.saved.Add(1)
		w.lastSimMilli.Store(int64(sv.World.SimTime * 1000))
		if w.idx != nil {
			w.idx.RecordSave(sv)
		}
	}
}

func metricsHandler(saver *saveWriter, events *persistlog.EventLogger, idx *indexdb.SQLiteIndex) http.HandlerFunc {
	return func(rw http.ResponseWriter, r *http.Request) {
		rw.Header().Set("Content-Type", "text/plain; version=0.0.4")
		fmt.Fprintf(rw, "# HELP hearthwild_saves_total Snapshots written to the slot store.\n")
		fmt.Fprintf(rw, "# TYPE hearthwild_saves_total counter\n")
		fmt.Fprintf(rw, "hearthwild_saves_total %d\n", saver.saved.Load())
		fmt.Fprintf(rw, "# HELP hearthwild_save_failures_total Snapshots that failed to write.\n")
		fmt.Fprintf(rw, "# TYPE hearthwild_save_failures_total counter\n")
		fmt.Fprintf(rw, "hearthwild_save_failures_total %d\n", saver.failed.Load())
		fmt.Fprintf(rw, "# HELP hearthwild_last_save_sim_seconds Simulated time of the last snapshot.\n")
		fmt.Fprintf(rw, "# TYPE hearthwild_last_save_sim_seconds gauge\n")
		fmt.Fprintf(rw, "hearthwild_last_save_sim_seconds %.3f\n", float64(saver.lastSimMilli.Load())/1000)
		if events != nil {
			fmt.Fprintf(rw, "# HELP hearthwild_event_log_dropped_total Events lost by the event log.\n")
			fmt.Fprintf(rw, "# TYPE hearthwild_event_log_dropped_total counter\n")
			fmt.Fprintf(rw, "hearthwild_event_log_dropped_total{reason=\"queue_full\"} %d\n", events.Dropped())
			fmt.Fprintf(rw, "hearthwild_event_log_dropped_total{reason=\"write_error\"} %d\n", events.Failed())
		}
		if idx == nil {
			return
		}
		st := idx.Stats()
		fmt.Fprintf(rw, "# HELP hearthwild_index_queue_depth Pending index writes.\n")
		fmt.Fprintf(rw, "# TYPE hearthwild_index_queue_depth gauge\n")
		fmt.Fprintf(rw, "hearthwild_index_queue_depth %d\n", st.QueueDepth)
		fmt.Fprintf(rw, "hearthwild_index_queue_capacity %d\n", st.QueueCapacity)
		fmt.Fprintf(rw, "# HELP hearthwild_index_dropped_total Index writes dropped on a full queue.\n")
		fmt.Fprintf(rw, "# TYPE hearthwild_index_dropped_total counter\n")
		fmt.Fprintf(rw, "hearthwild_index_dropped_total{kind=\"save\"} %d\n", st.DropSaveTotal)
		fmt.Fprintf(rw, "hearthwild_index_dropped_total{kind=\"event\"} %d\n", st.DropEventTotal)
	}
}
