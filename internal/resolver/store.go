package resolver

import (
	"sync"
	"time"
)

// Default TTL classes for cached records.
const (
	// DefaultSuccessTTL is how long a record from a successful lookup
	// stays fresh.
	DefaultSuccessTTL = 24 * time.Hour

	// DefaultDegradedTTL is how long a record from a failed lookup stays
	// fresh. Short so transient provider outages self-heal quickly.
	DefaultDegradedTTL = 5 * time.Minute

	// MinDegradedTTL is the floor the configuration layer applies to the
	// degraded TTL. It doubles as the minimum retry interval against a
	// failing endpoint, so a consumer that rapidly remounts cannot
	// generate a request storm.
	MinDegradedTTL = 30 * time.Second
)

// Store is an in-memory symbol-to-record cache with per-entry expiration.
// Entries written after a successful lookup live for successTTL; degraded
// entries live for degradedTTL. An expired entry is indistinguishable from
// an absent one. Safe for concurrent use.
type Store struct {
	mu          sync.RWMutex
	entries     map[string]Record
	successTTL  time.Duration
	degradedTTL time.Duration
}

// NewStore creates a Store with the given TTL classes. Non-positive values
// fall back to the package defaults.
func NewStore(successTTL, degradedTTL time.Duration) *Store {
	if successTTL <= 0 {
		successTTL = DefaultSuccessTTL
	}
	if degradedTTL <= 0 {
		degradedTTL = DefaultDegradedTTL
	}
	return &Store{
		entries:     make(map[string]Record),
		successTTL:  successTTL,
		degradedTTL: degradedTTL,
	}
}

// Get returns the live record for key. The second return value is false
// when no entry exists or the entry has expired; callers treat both the
// same way.
func (s *Store) Get(key string) (Record, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rec, ok := s.entries[key]
	if !ok {
		return Record{}, false
	}
	if time.Since(rec.RecordedAt) >= s.ttlFor(rec) {
		return Record{}, false
	}
	return rec, true
}

// Set stores rec under key, replacing any previous entry wholesale.
func (s *Store) Set(key string, rec Record) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries[key] = rec
}

// Clear empties the store. Used for explicit invalidation and test
// isolation, not part of normal request flow.
func (s *Store) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries = make(map[string]Record)
}

// Len returns the number of entries, including any not yet expired-swept.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.entries)
}

// TTLFor reports the effective TTL class applied to rec.
func (s *Store) TTLFor(rec Record) time.Duration {
	return s.ttlFor(rec)
}

func (s *Store) ttlFor(rec Record) time.Duration {
	if rec.Degraded {
		return s.degradedTTL
	}
	return s.successTTL
}
