package indexdb

import (
	"context"
	"crypto/sha256"
	"database/sql"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"sync/atomic"
	"time"

	_ "modernc.org/sqlite"

	"hearthwild.dev/internal/persistence/snapshot"
	"hearthwild.dev/internal/sim/catalogs"
	"hearthwild.dev/internal/sim/tuning"
	"hearthwild.dev/internal/sim/world"
)

// SQLiteIndex is a secondary, queryable index of saves and notable gameplay
// events. Writes are queued and applied by one goroutine; a full queue drops
// the write. Save files and the JSONL event log remain the source of truth.
type SQLiteIndex struct {
	db *sql.DB

	ch   chan req
	wg   sync.WaitGroup
	once sync.Once

	closed atomic.Bool

	dropSave  atomic.Uint64
	dropEvent atomic.Uint64
}

type reqKind int

const (
	reqSave reqKind = iota + 1
	reqEvent
)

type req struct {
	kind  reqKind
	save  SaveRow
	event eventRow
}

// SaveRow summarizes one persisted save.
type SaveRow struct {
	Slot       int
	SaveID     string
	Name       string
	SimTime    float64
	Chunks     int
	Entities   int
	Drops      int
	Seed       float64
	RecordedAt string
}

type eventRow struct {
	Slot       int
	SimTime    float64
	Type       string
	Message    string
	RawJSON    string
	RecordedAt string
}

// Stats reports queue pressure.
type Stats struct {
	QueueDepth     int
	QueueCapacity  int
	DropSaveTotal  uint64
	DropEventTotal uint64
}

func OpenSQLite(path string) (*SQLiteIndex, error) {
	if path == "" {
		return nil, fmt.Errorf("empty db path")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, err
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(0)

	if err := initPragmas(db); err != nil {
		_ = db.Close()
		return nil, err
	}
	if err := initSchema(db); err != nil {
		_ = db.Close()
		return nil, err
	}

	s := &SQLiteIndex{
		db: db,
		ch: make(chan req, 4096),
	}
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		s.loop()
	}()
	return s, nil
}

func initPragmas(db *sql.DB) error {
	pragmas := []string{
		"PRAGMA journal_mode=WAL;",
		"PRAGMA synchronous=NORMAL;",
		"PRAGMA busy_timeout=5000;",
		"PRAGMA temp_store=MEMORY;",
	}
	for _, p := range pragmas {
		if _, err := db.Exec(p); err != nil {
			return err
		}
	}
	return nil
}

func initSchema(db *sql.DB) error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS meta (
			key TEXT PRIMARY KEY,
			value TEXT NOT NULL
		);`,
		`CREATE TABLE IF NOT EXISTS catalogs (
			name TEXT PRIMARY KEY,
			digest TEXT NOT NULL,
			json TEXT NOT NULL,
			updated_at TEXT NOT NULL
		);`,
		`CREATE TABLE IF NOT EXISTS saves (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			slot INTEGER NOT NULL,
			save_id TEXT NOT NULL,
			name TEXT NOT NULL,
			sim_time REAL NOT NULL,
			chunks INTEGER NOT NULL,
			entities INTEGER NOT NULL,
			drops INTEGER NOT NULL,
			seed REAL NOT NULL,
			recorded_at TEXT NOT NULL
		);`,
		`CREATE INDEX IF NOT EXISTS idx_saves_slot ON saves(slot, id);`,
		`CREATE TABLE IF NOT EXISTS events (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			slot INTEGER NOT NULL,
			sim_time REAL NOT NULL,
			type TEXT NOT NULL,
			message TEXT,
			raw_json TEXT NOT NULL,
			recorded_at TEXT NOT NULL
		);`,
		`CREATE INDEX IF NOT EXISTS idx_events_slot_type ON events(slot, type, id);`,
	}
	for _, s := range stmts {
		if _, err := db.Exec(s); err != nil {
			return err
		}
	}
	return nil
}

// Close drains the queue, commits and closes the database.
func (s *SQLiteIndex) Close() error {
	var err error
	s.once.Do(func() {
		s.closed.Store(true)
		close(s.ch)
		s.wg.Wait()
		err = s.db.Close()
	})
	return err
}

func (s *SQLiteIndex) Stats() Stats {
	if s == nil {
		return Stats{}
	}
	return Stats{
		QueueDepth:     len(s.ch),
		QueueCapacity:  cap(s.ch),
		DropSaveTotal:  s.dropSave.Load(),
		DropEventTotal: s.dropEvent.Load(),
	}
}

// RecordSave queues a summary row for a save that was just written.
func (s *SQLiteIndex) RecordSave(sv snapshot.SaveV1) {
	if s == nil || s.closed.Load() {
		return
	}
	r := SaveRow{
		Slot:       sv.Meta.ID,
		SaveID:     sv.Header.SaveID,
		Name:       sv.Meta.Name,
		SimTime:    sv.World.SimTime,
		Chunks:     len(sv.World.Chunks),
		Seed:       sv.World.SeedConfig.Seed,
		RecordedAt: time.Now().UTC().Format(time.RFC3339Nano),
	}
	for _, c := range sv.World.Chunks {
		r.Entities += len(c.Entities)
		r.Drops += len(c.DroppedItems)
	}
	select {
	case s.ch <- req{kind: reqSave, save: r}:
	default:
		s.dropSave.Add(1)
	}
}

// RecordEvent queues one gameplay event for slot.
func (s *SQLiteIndex) RecordEvent(slot int, e world.Event) {
	if s == nil || s.closed.Load() {
		return
	}
	raw, _ := json.Marshal(e)
	r := eventRow{
		Slot:       slot,
		SimTime:    e.SimTime,
		Type:       e.Type,
		Message:    e.Message,
		RawJSON:    string(raw),
		RecordedAt: time.Now().UTC().Format(time.RFC3339Nano),
	}
	select {
	case s.ch <- req{kind: reqEvent, event: r}:
	default:
		s.dropEvent.Add(1)
	}
}

// RecentSaves lists the newest save rows, newest first. slot < 0 lists all
// slots.
func (s *SQLiteIndex) RecentSaves(ctx context.Context, slot, limit int) ([]SaveRow, error) {
	if limit <= 0 {
		limit = 20
	}
	q := `SELECT slot,save_id,name,sim_time,chunks,entities,drops,seed,recorded_at FROM saves`
	args := []any{}
	if slot >= 0 {
		q += ` WHERE slot=?`
		args = append(args, slot)
	}
	q += ` ORDER BY id DESC LIMIT ?`
	args = append(args, limit)

	rows, err := s.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("recent saves: %w", err)
	}
	defer rows.Close()
	var out []SaveRow
	for rows.Next() {
		var r SaveRow
		if err := rows.Scan(&r.Slot, &r.SaveID, &r.Name, &r.SimTime, &r.Chunks, &r.Entities, &r.Drops, &r.Seed, &r.RecordedAt); err != nil {
			return nil, fmt.Errorf("recent saves: %w", err)
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

// CountEvents counts indexed events of one type for slot.
func (s *SQLiteIndex) CountEvents(ctx context.Context, slot int, typ string) (int, error) {
	var n int
	err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM events WHERE slot=? AND type=?`, slot, typ).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("count events: %w", err)
	}
	return n, nil
}

// UpsertCatalogs stores the catalog files and applied tuning with their
// digests, so a save can be matched to the rules it was played under.
func (s *SQLiteIndex) UpsertCatalogs(configDir string, cats *catalogs.Catalogs, tune tuning.Tuning) error {
	if s == nil {
		return nil
	}

	now := time.Now().UTC().Format(time.RFC3339Nano)

	type kv struct {
		name   string
		digest string
		json   []byte
	}
	var rows []kv
	read := func(name, file, digest string) {
		if configDir == "" {
			return
		}
		b, err := os.ReadFile(filepath.Join(configDir, file))
		if err != nil {
			return
		}
		rows = append(rows, kv{name: name, digest: digest, json: b})
	}
	read("items_defs", "items.json", cats.Items.DefsDigest)
	read("recipes", "recipes.json", cats.Recipes.Digest)
	read("tiles", "tiles.json", cats.Tiles.Digest)
	if b, _ := json.Marshal(cats.Items.Palette); len(b) > 0 {
		rows = append(rows, kv{name: "items_palette", digest: cats.Items.PaletteDigest, json: b})
	}
	{
		b, _ := json.Marshal(tune)
		sum := sha256.Sum256(b)
		rows = append(rows, kv{name: "tuning", digest: hex.EncodeToString(sum[:]), json: b})
	}

	tx, err := s.db.BeginTx(context.Background(), nil)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.Exec(`INSERT OR REPLACE INTO meta(key,value) VALUES('schema_version','1')`); err != nil {
		return err
	}
	stmt, err := tx.Prepare(`INSERT OR REPLACE INTO catalogs(name,digest,json,updated_at) VALUES(?,?,?,?)`)
	if err != nil {
		return err
	}
	defer stmt.Close()
	for _, r := range rows {
		if r.name == "" || r.digest == "" || len(r.json) == 0 {
			continue
		}
		if _, err := stmt.Exec(r.name, r.digest, string(r.json), now); err != nil {
			return err
		}
	}
	return tx.Commit()
}

// CatalogDigest returns the stored digest for a catalog row.
func (s *SQLiteIndex) CatalogDigest(ctx context.Context, name string) (string, error) {
	var d string
	err := s.db.QueryRowContext(ctx, `SELECT digest FROM catalogs WHERE name=?`, name).Scan(&d)
	if err != nil {
		return "", fmt.Errorf("catalog %s: %w", name, err)
	}
	return d, nil
}

func (s *SQLiteIndex) loop() {
	ctx := context.Background()

	insertSave, _ := s.db.Prepare(`INSERT INTO saves(slot,save_id,name,sim_time,chunks,entities,drops,seed,recorded_at) VALUES(?,?,?,?,?,?,?,?,?)`)
	insertEvent, _ := s.db.Prepare(`INSERT INTO events(slot,sim_time,type,message,raw_json,recorded_at) VALUES(?,?,?,?,?,?)`)
	defer func() {
		if insertSave != nil {
			_ = insertSave.Close()
		}
		if insertEvent != nil {
			_ = insertEvent.Close()
		}
	}()

	var (
		tx            *sql.Tx
		opCount       int
		lastCommit    = time.Now()
		commitEvery   = 256
		commitMaxWait = 2 * time.Second
	)

	begin := func() {
		if tx != nil {
			return
		}
		txx, err := s.db.BeginTx(ctx, nil)
		if err != nil {
			time.Sleep(50 * time.Millisecond)
			return
		}
		tx = txx
		opCount = 0
		lastCommit = time.Now()
	}
	commit := func() {
		if tx == nil {
			return
		}
		_ = tx.Commit()
		tx = nil
		opCount = 0
		lastCommit = time.Now()
	}
	rollback := func() {
		if tx == nil {
			return
		}
		_ = tx.Rollback()
		tx = nil
		opCount = 0
		lastCommit = time.Now()
	}

	for r := range s.ch {
		begin()
		if tx == nil {
			continue
		}
		switch r.kind {
		case reqSave:
			sv := r.save
			if insertSave == nil {
				continue
			}
			if _, err := tx.Stmt(insertSave).Exec(
				sv.Slot,
				sv.SaveID,
				sv.Name,
				sv.SimTime,
				sv.Chunks,
				sv.Entities,
				sv.Drops,
				sv.Seed,
				sv.RecordedAt,
			); err != nil {
				rollback()
				continue
			}
			opCount++
			// Saves are rare; make them visible to readers right away.
			commit()
			continue

		case reqEvent:
			ev := r.event
			if insertEvent == nil {
				continue
			}
			if _, err := tx.Stmt(insertEvent).Exec(
				ev.Slot,
				ev.SimTime,
				ev.Type,
				ev.Message,
				ev.RawJSON,
				ev.RecordedAt,
			); err != nil {
				rollback()
				continue
			}
			opCount++
		}
		if opCount >= commitEvery || time.Since(lastCommit) >= commitMaxWait {
			commit()
		}
	}

	commit()
}
