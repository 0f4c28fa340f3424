// Package slots keeps the three save slots and the player's settings in one
// bbolt file. Saves are stored in the snapshot codec's encoding.
package slots

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	bolt "go.etcd.io/bbolt"

	"hearthwild.dev/internal/persistence/snapshot"
	"hearthwild.dev/internal/sim/tuning"
	"hearthwild.dev/internal/sim/world/kernel/model"
	"hearthwild.dev/internal/sim/world/logic/ids"
)

const Count = 3

var (
	ErrBadSlot   = errors.New("slots: slot id out of range")
	ErrEmptySlot = errors.New("slots: slot is empty")
)

var (
	bucketMeta     = []byte("meta")
	bucketSaves    = []byte("saves")
	bucketSettings = []byte("settings")
	keySettings    = []byte("settings")
)

// Slot is one entry of List. Meta is zero when Empty.
type Slot struct {
	ID    int           `json:"id"`
	Empty bool          `json:"empty"`
	Meta  snapshot.Meta `json:"meta"`
}

type Store struct {
	db       *bolt.DB
	defaults snapshot.Defaults
	now      func() time.Time
}

// Open opens or creates the slot database. d fills fields a stored save
// omits.
func Open(path string, d snapshot.Defaults) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, err
	}
	db, err := bolt.Open(path, 0o600, &bolt.Options{Timeout: time.Second})
	if err != nil {
		return nil, fmt.Errorf("open slots %s: %w", path, err)
	}
	err = db.Update(func(tx *bolt.Tx) error {
		for _, b := range [][]byte{bucketMeta, bucketSaves, bucketSettings} {
			if _, err := tx.CreateBucketIfNotExists(b); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("init slots: %w", err)
	}
	return &Store{db: db, defaults: d, now: time.Now}, nil
}

func (s *Store) Close() error { return s.db.Close() }

func key(id int) []byte { return []byte(strconv.Itoa(id)) }

func checkID(id int) error {
	if id < 0 || id >= Count {
		return fmt.Errorf("%w: %d", ErrBadSlot, id)
	}
	return nil
}

// List reports every slot in id order.
func (s *Store) List() ([]Slot, error) {
	out := make([]Slot, Count)
	err := s.db.View(func(tx *bolt.Tx) error {
		b := tx.Bucket(bucketMeta)
		for id := 0; id < Count; id++ {
			out[id] = Slot{ID: id, Empty: true}
			raw := b.Get(key(id))
			if raw == nil {
				continue
			}
			var m snapshot.Meta
			if err := json.Unmarshal(raw, &m); err != nil {
				return fmt.Errorf("slot %d meta: %w", id, err)
			}
			out[id] = Slot{ID: id, Meta: m}
		}
		return nil
	})
	return out, err
}

// Create starts a new world in slot id with the given terrain seed and
// overwrites whatever the slot held.
func (s *Store) Create(id int, name string, seed model.SeedConfig) (snapshot.SaveV1, error) {
	if err := checkID(id); err != nil {
		return snapshot.SaveV1{}, err
	}
	if name == "" {
		name = fmt.Sprintf("World %d", id+1)
	}
	now := s.now()
	sv := snapshot.SaveV1{
		Header: snapshot.Header{
			SaveID:    ids.SaveID(),
			Slot:      id,
			CreatedAt: now.UTC().Format(time.RFC3339),
		},
		Meta: snapshot.Meta{ID: id, Name: name, LastPlayed: now.UnixMilli()},
		Player: snapshot.PlayerV1{
			Health:    s.defaults.MaxHealth,
			Stamina:   s.defaults.MaxStamina,
			Inventory: make([]*model.ItemStack, s.defaults.InventorySize),
		},
		World: snapshot.WorldV1{SeedConfig: seed},
	}
	if err := s.Save(sv); err != nil {
		return snapshot.SaveV1{}, err
	}
	return sv, nil
}

// Save writes sv into the slot named by sv.Meta.ID and refreshes its meta.
func (s *Store) Save(sv snapshot.SaveV1) error {
	id := sv.Meta.ID
	if err := checkID(id); err != nil {
		return err
	}
	sv.Header.Slot = id
	if sv.Meta.LastPlayed == 0 {
		sv.Meta.LastPlayed = s.now().UnixMilli()
	}
	body, err := snapshot.Encode(sv)
	if err != nil {
		return fmt.Errorf("encode slot %d: %w", id, err)
	}
	meta, _ := json.Marshal(sv.Meta)
	return s.db.Update(func(tx *bolt.Tx) error {
		if err := tx.Bucket(bucketSaves).Put(key(id), body); err != nil {
			return err
		}
		return tx.Bucket(bucketMeta).Put(key(id), meta)
	})
}

// Load decodes the slot's save. Warnings list repaired fields.
func (s *Store) Load(id int) (snapshot.SaveV1, []string, error) {
	if err := checkID(id); err != nil {
		return snapshot.SaveV1{}, nil, err
	}
	var body []byte
	err := s.db.View(func(tx *bolt.Tx) error {
		if raw := tx.Bucket(bucketSaves).Get(key(id)); raw != nil {
			body = append([]byte(nil), raw...)
		}
		return nil
	})
	if err != nil {
		return snapshot.SaveV1{}, nil, err
	}
	if body == nil {
		return snapshot.SaveV1{}, nil, fmt.Errorf("%w: %d", ErrEmptySlot, id)
	}
	sv, warnings, err := snapshot.Decode(body, s.defaults)
	if err != nil {
		return snapshot.SaveV1{}, nil, fmt.Errorf("decode slot %d: %w", id, err)
	}
	sv.Meta.ID = id
	return sv, warnings, nil
}

// Rename changes only the slot's display name.
func (s *Store) Rename(id int, name string) error {
	if err := checkID(id); err != nil {
		return err
	}
	return s.db.Update(func(tx *bolt.Tx) error {
		b := tx.Bucket(bucketMeta)
		raw := b.Get(key(id))
		if raw == nil {
			return fmt.Errorf("%w: %d", ErrEmptySlot, id)
		}
		var m snapshot.Meta
		if err := json.Unmarshal(raw, &m); err != nil {
			return fmt.Errorf("slot %d meta: %w", id, err)
		}
		m.Name = name
		out, _ := json.Marshal(m)
		return b.Put(key(id), out)
	})
}

func (s *Store) Delete(id int) error {
	if err := checkID(id); err != nil {
		return err
	}
	return s.db.Update(func(tx *bolt.Tx) error {
		if err := tx.Bucket(bucketSaves).Delete(key(id)); err != nil {
			return err
		}
		return tx.Bucket(bucketMeta).Delete(key(id))
	})
}

// LoadSettings returns the stored settings merged over the defaults.
func (s *Store) LoadSettings() (tuning.Settings, error) {
	var raw []byte
	err := s.db.View(func(tx *bolt.Tx) error {
		if b := tx.Bucket(bucketSettings).Get(keySettings); b != nil {
			raw = append([]byte(nil), b...)
		}
		return nil
	})
	if err != nil {
		return tuning.DefaultSettings(), err
	}
	return tuning.ParseSettings(raw)
}

func (s *Store) SaveSettings(st tuning.Settings) error {
	raw, err := st.WithDefaults().Marshal()
	if err != nil {
		return fmt.Errorf("settings: %w", err)
	}
	return s.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket(bucketSettings).Put(keySettings, raw)
	})
}
