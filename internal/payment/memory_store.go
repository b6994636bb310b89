package payment

import (
	"context"
	"sync"
	"time"
)

// MemorySessionStore is an in-process SessionStore used in tests and as
// a fallback when Redis is not reachable at startup. Entries expire
// lazily on Get.
type MemorySessionStore struct {
	mu  sync.Mutex
	ttl time.Duration
	m   map[uint64]memoryEntry
}

type memoryEntry struct {
	sess      PendingSession
	expiresAt time.Time
}

// NewMemorySessionStore returns an empty store with the given expiry.
// A non-positive ttl falls back to one hour.
func NewMemorySessionStore(ttl time.Duration) *MemorySessionStore {
	if ttl <= 0 {
		ttl = time.Hour
	}
	return &MemorySessionStore{ttl: ttl, m: make(map[uint64]memoryEntry)}
}

// Get returns the customer's pending session or ErrNoSession when none
// exists or the entry has expired.
func (s *MemorySessionStore) Get(ctx context.Context, customerID uint64) (*PendingSession, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	e, ok := s.m[customerID]
	if !ok {
		return nil, ErrNoSession
	}
	if time.Now().After(e.expiresAt) {
		delete(s.m, customerID)
		return nil, ErrNoSession
	}
	sess := e.sess // copy so callers cannot mutate stored state
	return &sess, nil
}

// Put stores the session, replacing any previous one for the customer.
func (s *MemorySessionStore) Put(ctx context.Context, sess *PendingSession) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.m[sess.CustomerID] = memoryEntry{sess: *sess, expiresAt: time.Now().Add(s.ttl)}
	return nil
}

// Delete removes the customer's pending session if present.
func (s *MemorySessionStore) Delete(ctx context.Context, customerID uint64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.m, customerID)
	return nil
}
