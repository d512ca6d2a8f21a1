package requestlog

import (
	"strconv"
	"sync"
	"time"
)

// MemoryStore implements Store with a bounded in-memory buffer. When the
// buffer is full the oldest entry is evicted.
type MemoryStore struct {
	mu         sync.RWMutex
	entries    []*Entry
	maxEntries int
	nextID     int64
}

var _ Store = (*MemoryStore)(nil)

// NewMemoryStore creates a MemoryStore holding at most maxEntries entries.
// Non-positive capacities fall back to 1000.
func NewMemoryStore(maxEntries int) *MemoryStore {
	if maxEntries <= 0 {
		maxEntries = 1000
	}
	return &MemoryStore{
		entries:    make([]*Entry, 0, maxEntries),
		maxEntries: maxEntries,
	}
}

// Log records an entry, filling in ID and Timestamp when unset and evicting
// the oldest entry at capacity.
func (s *MemoryStore) Log(entry *Entry) {
	if entry == nil {
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if entry.ID == "" {
		s.nextID++
		entry.ID = "req-" + strconv.FormatInt(s.nextID, 36)
	}
	if entry.Timestamp.IsZero() {
		entry.Timestamp = time.Now()
	}

	if len(s.entries) >= s.maxEntries {
		s.entries = s.entries[1:]
	}
	s.entries = append(s.entries, entry)
}

// Get retrieves a log entry by ID.
func (s *MemoryStore) Get(id string) *Entry {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, entry := range s.entries {
		if entry.ID == id {
			return entry
		}
	}
	return nil
}

// List returns entries oldest first, narrowed by filter when non-nil.
func (s *MemoryStore) List(filter *Filter) []*Entry {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make([]*Entry, 0, len(s.entries))
	for _, entry := range s.entries {
		if filter != nil && !filter.matches(entry) {
			continue
		}
		result = append(result, entry)
	}

	if filter != nil {
		if filter.Offset > 0 {
			if filter.Offset >= len(result) {
				return []*Entry{}
			}
			result = result[filter.Offset:]
		}
		if filter.Limit > 0 && filter.Limit < len(result) {
			result = result[:filter.Limit]
		}
	}
	return result
}

// Clear removes all log entries.
func (s *MemoryStore) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries = make([]*Entry, 0, s.maxEntries)
}

// Count returns the number of log entries.
func (s *MemoryStore) Count() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.entries)
}
