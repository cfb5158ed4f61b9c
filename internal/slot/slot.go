// ABOUTME: Local key-value slot backend built on badger.
// ABOUTME: Keeps every practice in one JSON array under a fixed key.
package slot

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"sync"

	"github.com/dgraph-io/badger/v3"
	"github.com/google/uuid"
	"github.com/harperreed/practice/internal/models"
	"github.com/harperreed/practice/internal/storage"
)

// Key is the slot holding the JSON array of practices.
const Key = "practices"

// Store is a storage.Repository that reads and rewrites the whole slot on
// every operation.
type Store struct {
	db *badger.DB
	mu sync.Mutex
}

var _ storage.Repository = (*Store)(nil)

// Open opens or creates the badger directory at dir.
func Open(dir string) (*Store, error) {
	if err := os.MkdirAll(dir, 0750); err != nil {
		return nil, fmt.Errorf("create slot directory: %w", err)
	}
	return open(badger.DefaultOptions(dir))
}

// OpenInMemory opens a slot that lives only for the process lifetime.
func OpenInMemory() (*Store, error) {
	return open(badger.DefaultOptions("").WithInMemory(true))
}

func open(opts badger.Options) (*Store, error) {
	db, err := badger.Open(opts.WithLogger(nil))
	if err != nil {
		return nil, fmt.Errorf("open slot: %w", err)
	}
	return &Store{db: db}, nil
}

// Close closes the underlying badger database.
func (s *Store) Close() error {
	return s.db.Close()
}

// ListPractices returns the practices stored in the slot.
func (s *Store) ListPractices() ([]*models.Practice, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	ps, _, err := s.read()
	return ps, err
}

// GetPractice retrieves a practice by ID or ID prefix.
func (s *Store) GetPractice(idOrPrefix string) (*models.Practice, error) {
	ps, err := s.ListPractices()
	if err != nil {
		return nil, err
	}
	return storage.FindByPrefix(ps, idOrPrefix)
}

// SavePractice replaces or appends p and rewrites the slot.
func (s *Store) SavePractice(p *models.Practice) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	ps, _, err := s.read()
	if err != nil {
		return err
	}
	replaced := false
	for i := range ps {
		if ps[i].ID == p.ID {
			ps[i] = p
			replaced = true
			break
		}
	}
	if !replaced {
		ps = append(ps, p)
	}
	return s.write(ps)
}

// DeletePractice removes the practice with id and rewrites the slot.
func (s *Store) DeletePractice(id uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	ps, _, err := s.read()
	if err != nil {
		return err
	}
	kept := ps[:0]
	for _, p := range ps {
		if p.ID != id {
			kept = append(kept, p)
		}
	}
	if len(kept) == len(ps) {
		return fmt.Errorf("%w: %s", storage.ErrNotFound, id)
	}
	return s.write(kept)
}

// ReplaceAll overwrites the slot with ps.
func (s *Store) ReplaceAll(ps []*models.Practice) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.write(ps)
}

// Seeded reports whether the slot key exists.
func (s *Store) Seeded() (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, found, err := s.read()
	return found, err
}

// read loads the slot. A missing key is not an error.
func (s *Store) read() ([]*models.Practice, bool, error) {
	var raw []byte
	err := s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get([]byte(Key))
		if err != nil {
			return err
		}
		raw, err = item.ValueCopy(nil)
		return err
	})
	if errors.Is(err, badger.ErrKeyNotFound) {
		return []*models.Practice{}, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("read slot: %w", err)
	}

	var ps []*models.Practice
	if err := json.Unmarshal(raw, &ps); err != nil {
		return nil, true, fmt.Errorf("decode slot: %w: %w", storage.ErrCorrupt, err)
	}
	if ps == nil {
		ps = []*models.Practice{}
	}
	return ps, true, nil
}

func (s *Store) write(ps []*models.Practice) error {
	if ps == nil {
		ps = []*models.Practice{}
	}
	data, err := json.Marshal(ps)
	if err != nil {
		return fmt.Errorf("encode slot: %w", err)
	}
	return s.db.Update(func(txn *badger.Txn) error {
		return txn.Set([]byte(Key), data)
	})
}
