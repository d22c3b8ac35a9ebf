package cache

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"github.com/mailru-checker/core/internal/mailru"
	"go.etcd.io/bbolt"
)

const (
	snapshotBucket = "Snapshot"
	snapshotKey    = "current"
)

// Snapshot is one complete poll result, written and read as a unit. Each
// replace gets a fresh version so readers can tell cycles apart instead
// of relying on last-write-wins.
type Snapshot struct {
	Version   string                      `json:"version"`
	FetchedAt time.Time                   `json:"fetched_at"`
	ByEmail   map[string][]mailru.Message `json:"by_email"`
}

// Store persists poll snapshots. The poller is the sole writer; the API
// and popup only read.
type Store struct {
	db *bbolt.DB
}

// Open initializes the snapshot store
func Open(path string) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, err
	}

	db, err := bbolt.Open(path, 0600, &bbolt.Options{Timeout: 1 * time.Second})
	if err != nil {
		return nil, fmt.Errorf("failed to open cache: %v", err)
	}

	err = db.Update(func(tx *bbolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists([]byte(snapshotBucket))
		return err
	})
	if err != nil {
		db.Close()
		return nil, err
	}

	return &Store{db: db}, nil
}

// Close closes the underlying store
func (s *Store) Close() error {
	return s.db.Close()
}

// Replace overwrites the snapshot wholesale with the given per-account
// lists. The write is a single transaction, so a racing reader sees
// either the previous snapshot or this one, never a partial cycle.
func (s *Store) Replace(byEmail map[string][]mailru.Message) (Snapshot, error) {
	if byEmail == nil {
		byEmail = map[string][]mailru.Message{}
	}
	snap := Snapshot{
		Version:   uuid.NewString(),
		FetchedAt: time.Now(),
		ByEmail:   byEmail,
	}

	data, err := json.Marshal(snap)
	if err != nil {
		return Snapshot{}, err
	}

	err = s.db.Update(func(tx *bbolt.Tx) error {
		return tx.Bucket([]byte(snapshotBucket)).Put([]byte(snapshotKey), data)
	})
	if err != nil {
		return Snapshot{}, err
	}
	return snap, nil
}

// Reset replaces the snapshot with an empty one.
func (s *Store) Reset() (Snapshot, error) {
	return s.Replace(nil)
}

// Current returns the latest snapshot. A store that was never written
// yields an empty snapshot with no version.
func (s *Store) Current() (Snapshot, error) {
	var data []byte
	err := s.db.View(func(tx *bbolt.Tx) error {
		if v := tx.Bucket([]byte(snapshotBucket)).Get([]byte(snapshotKey)); v != nil {
			data = append([]byte(nil), v...)
		}
		return nil
	})
	if err != nil {
		return Snapshot{}, err
	}

	snap := Snapshot{ByEmail: map[string][]mailru.Message{}}
	if len(data) == 0 {
		return snap, nil
	}
	if err := json.Unmarshal(data, &snap); err != nil {
		return Snapshot{}, err
	}
	if snap.ByEmail == nil {
		snap.ByEmail = map[string][]mailru.Message{}
	}
	return snap, nil
}
