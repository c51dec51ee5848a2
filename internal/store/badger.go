// Package store persists the aggregated GitHub snapshot. The model is a
// key-value store with one well-known key: every save is a wholesale
// replace, never an append.
package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/dgraph-io/badger/v4"
	"github.com/goccy/go-json"

	"github.com/codefolio/portfolio-stats-api/internal/domain"
)

const snapshotKey = "github:stats"

// ErrNoSnapshot is returned by Load when no refresh has ever succeeded.
var ErrNoSnapshot = errors.New("no snapshot persisted")

// SnapshotStore is a BadgerDB-backed store holding the single stats
// snapshot.
type SnapshotStore struct {
	db *badger.DB
}

// Open opens (or creates) the store at path.
func Open(path string) (*SnapshotStore, error) {
	db, err := badger.Open(badger.DefaultOptions(path).WithLogger(nil))
	if err != nil {
		return nil, fmt.Errorf("failed to open snapshot store at %s: %w", path, err)
	}
	return &SnapshotStore{db: db}, nil
}

// OpenInMemory opens a store that lives only for the process lifetime.
func OpenInMemory() (*SnapshotStore, error) {
	db, err := badger.Open(badger.DefaultOptions("").WithInMemory(true).WithLogger(nil))
	if err != nil {
		return nil, fmt.Errorf("failed to open in-memory snapshot store: %w", err)
	}
	return &SnapshotStore{db: db}, nil
}

// Save replaces the stored snapshot with snap.
func (s *SnapshotStore) Save(ctx context.Context, snap *domain.StatsSnapshot) error {
	data, err := json.Marshal(snap)
	if err != nil {
		return fmt.Errorf("failed to marshal snapshot: %w", err)
	}
	err = s.db.Update(func(txn *badger.Txn) error {
		return txn.Set([]byte(snapshotKey), data)
	})
	if err != nil {
		return fmt.Errorf("failed to persist snapshot: %w", err)
	}
	return nil
}

// Load returns the current snapshot, or ErrNoSnapshot if none was ever
// saved.
func (s *SnapshotStore) Load(ctx context.Context) (*domain.StatsSnapshot, error) {
	var snap domain.StatsSnapshot
	err := s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get([]byte(snapshotKey))
		if errors.Is(err, badger.ErrKeyNotFound) {
			return ErrNoSnapshot
		}
		if err != nil {
			return fmt.Errorf("failed to get snapshot: %w", err)
		}
		return item.Value(func(val []byte) error {
			return json.Unmarshal(val, &snap)
		})
	})
	if err != nil {
		return nil, err
	}
	return &snap, nil
}

// Close releases the underlying database.
func (s *SnapshotStore) Close() error {
	return s.db.Close()
}
