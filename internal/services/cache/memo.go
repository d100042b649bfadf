// Package cache provides an in-memory TTL memo used to avoid redundant
// external lookups for identical inputs within a bounded time window.
// The clock is injected so tests can drive expiry deterministically.
package cache

import (
	"sync"
	"time"
)

// Clock returns the current time. Production code passes time.Now.
type Clock func() time.Time

type entry struct {
	value    interface{}
	storedAt time.Time
}

// Memo is a mutex-guarded TTL cache keyed by string. Entries are advisory:
// a miss never errors, the caller just recomputes.
type Memo struct {
	mu      sync.Mutex
	ttl     time.Duration
	now     Clock
	entries map[string]entry
}

// NewMemo creates a memo cache with the given TTL and clock.
// A nil clock falls back to time.Now.
func NewMemo(ttl time.Duration, now Clock) *Memo {
	if now == nil {
		now = time.Now
	}
	return &Memo{
		ttl:     ttl,
		now:     now,
		entries: make(map[string]entry),
	}
}

// Get returns the cached value for key if present and not expired.
func (m *Memo) Get(key string) (interface{}, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	e, ok := m.entries[key]
	if !ok {
		return nil, false
	}
	if m.ttl > 0 && m.now().Sub(e.storedAt) >= m.ttl {
		delete(m.entries, key)
		return nil, false
	}
	return e.value, true
}

// Set stores a value for key, stamping it with the injected clock.
func (m *Memo) Set(key string, value interface{}) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.entries[key] = entry{value: value, storedAt: m.now()}
}

// Len returns the number of live entries, expired ones included until the
// next Get touches them.
func (m *Memo) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.entries)
}
