// Package bbolt implements the ports.RunStore interface using bbolt (embedded B+ tree).
// Runs live JSON-serialized in a "runs" bucket keyed by run ID; a "meta" bucket
// tracks the most recently saved run. Writes are transactional: a crash mid-write
// cannot corrupt previously committed runs.
package bbolt

import (
	"encoding/json"
	"fmt"
	"os"
	"sort"
	"time"

	"github.com/corey/aoi/internal/ports"
	bolt "go.etcd.io/bbolt"
)

// LatestID is the alias LoadRun accepts for the most recently saved run.
const LatestID = "latest"

// Bucket keys
var (
	bucketRuns = []byte("runs")
	bucketMeta = []byte("meta")
	keyLatest  = []byte("latest")
)

// Store implements ports.RunStore backed by bbolt.
type Store struct {
	db *bolt.DB
}

var _ ports.RunStore = (*Store)(nil)

// NewStore opens (or creates) a bbolt database at the given path.
func NewStore(path string) (*Store, error) {
	db, err := bolt.Open(path, 0600, &bolt.Options{Timeout: 1 * time.Second})
	if err != nil {
		return nil, fmt.Errorf("bbolt open: %w", err)
	}
	return &Store{db: db}, nil
}

// OpenReadOnly opens an existing database for reading. It never creates the
// file or its directory: a missing database yields an error wrapping
// fs.ErrNotExist. Write methods on the returned store fail.
func OpenReadOnly(path string) (*Store, error) {
	if _, err := os.Stat(path); err != nil {
		return nil, fmt.Errorf("bbolt open: %w", err)
	}
	db, err := bolt.Open(path, 0600, &bolt.Options{Timeout: 1 * time.Second, ReadOnly: true})
	if err != nil {
		return nil, fmt.Errorf("bbolt open: %w", err)
	}
	return &Store{db: db}, nil
}

// Close closes the underlying bbolt database.
func (s *Store) Close() error {
	return s.db.Close()
}

// SaveRun persists a run and marks it as the latest.
func (s *Store) SaveRun(run *ports.Run) error {
	if run == nil {
		return fmt.Errorf("nil run")
	}
	if run.ID == "" || run.ID == LatestID {
		return fmt.Errorf("invalid run id %q", run.ID)
	}

	data, err := json.Marshal(run)
	if err != nil {
		return fmt.Errorf("marshal run: %w", err)
	}

	return s.db.Update(func(tx *bolt.Tx) error {
		rb, err := tx.CreateBucketIfNotExists(bucketRuns)
		if err != nil {
			return err
		}
		if err := rb.Put([]byte(run.ID), data); err != nil {
			return err
		}
		mb, err := tx.CreateBucketIfNotExists(bucketMeta)
		if err != nil {
			return err
		}
		return mb.Put(keyLatest, []byte(run.ID))
	})
}

// LoadRun retrieves a run by ID, or the latest run for LatestID.
// Returns nil, nil if no such run exists.
func (s *Store) LoadRun(id string) (*ports.Run, error) {
	var data []byte

	err := s.db.View(func(tx *bolt.Tx) error {
		key := []byte(id)
		if id == LatestID {
			mb := tx.Bucket(bucketMeta)
			if mb == nil {
				return nil
			}
			key = mb.Get(keyLatest)
			if key == nil {
				return nil
			}
		}
		rb := tx.Bucket(bucketRuns)
		if rb == nil {
			return nil
		}
		// Copy bytes out of the transaction (bbolt slices are only valid within tx)
		if v := rb.Get(key); v != nil {
			data = make([]byte, len(v))
			copy(data, v)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	if data == nil {
		return nil, nil
	}

	var run ports.Run
	if err := json.Unmarshal(data, &run); err != nil {
		return nil, fmt.Errorf("unmarshal run %s: %w", id, err)
	}
	return &run, nil
}

// ListRuns returns run summaries ordered by creation time, then ID.
func (s *Store) ListRuns() ([]ports.RunSummary, error) {
	var out []ports.RunSummary

	err := s.db.View(func(tx *bolt.Tx) error {
		rb := tx.Bucket(bucketRuns)
		if rb == nil {
			return nil
		}
		return rb.ForEach(func(k, v []byte) error {
			var run ports.Run
			if err := json.Unmarshal(v, &run); err != nil {
				return fmt.Errorf("unmarshal run %s: %w", k, err)
			}
			out = append(out, run.Summary())
			return nil
		})
	})
	if err != nil {
		return nil, err
	}

	sort.Slice(out, func(i, j int) bool {
		if out[i].CreatedAt != out[j].CreatedAt {
			return out[i].CreatedAt < out[j].CreatedAt
		}
		return out[i].ID < out[j].ID
	})
	return out, nil
}

// DeleteRun removes a run. Idempotent: deleting a nonexistent run is not an error.
// Deleting the latest run moves the latest marker to the newest remaining run,
// or clears it when none remain.
func (s *Store) DeleteRun(id string) error {
	return s.db.Update(func(tx *bolt.Tx) error {
		rb := tx.Bucket(bucketRuns)
		if rb == nil {
			return nil // idempotent
		}
		if err := rb.Delete([]byte(id)); err != nil {
			return err
		}
		mb := tx.Bucket(bucketMeta)
		if mb == nil || string(mb.Get(keyLatest)) != id {
			return nil
		}
		next, err := newestRun(rb)
		if err != nil {
			return err
		}
		if next == "" {
			return mb.Delete(keyLatest)
		}
		return mb.Put(keyLatest, []byte(next))
	})
}

// newestRun returns the ID of the run with the greatest CreatedAt (ties by
// ID), or "" for an empty bucket. Ordering matches ListRuns.
func newestRun(rb *bolt.Bucket) (string, error) {
	var (
		bestID string
		bestAt int64
	)
	err := rb.ForEach(func(k, v []byte) error {
		var run ports.Run
		if err := json.Unmarshal(v, &run); err != nil {
			return fmt.Errorf("unmarshal run %s: %w", k, err)
		}
		if bestID == "" || run.CreatedAt > bestAt || (run.CreatedAt == bestAt && run.ID > bestID) {
			bestID, bestAt = run.ID, run.CreatedAt
		}
		return nil
	})
	return bestID, err
}
