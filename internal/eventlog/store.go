package eventlog

import (
	"slices"
	"sync"

	cgerrors "github.com/cyberguard/cyberguard/pkg/errors"
)

// Store holds the append-only record set for a session.
// Store 保存会话内只追加的记录集。
type Store struct {
	mu      sync.RWMutex
	records []LogRecord
	ids     map[string]struct{}
}

// NewStore creates a store seeded with records.
func NewStore(records ...LogRecord) (*Store, error) {
	s := &Store{ids: make(map[string]struct{}, len(records))}
	if err := s.Append(records...); err != nil {
		return nil, err
	}
	return s, nil
}

// Append validates and adds records. The batch is all-or-nothing.
func (s *Store) Append(records ...LogRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	batch := make(map[string]struct{}, len(records))
	for _, r := range records {
		if err := r.Validate(); err != nil {
			return err
		}
		if _, ok := s.ids[r.ID]; ok {
			return cgerrors.NewDuplicateError(r.ID)
		}
		if _, ok := batch[r.ID]; ok {
			return cgerrors.NewDuplicateError(r.ID)
		}
		batch[r.ID] = struct{}{}
	}

	for id := range batch {
		s.ids[id] = struct{}{}
	}
	s.records = append(s.records, records...)
	return nil
}

// Snapshot returns a copy of the records in insertion order.
func (s *Store) Snapshot() []LogRecord {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := slices.Clone(s.records)
	if out == nil {
		out = []LogRecord{}
	}
	return out
}

// Len returns the number of stored records.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.records)
}
