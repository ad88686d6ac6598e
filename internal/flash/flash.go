// Package flash tracks the element that was just changed so views can flag
// it briefly. The mark expires on its own and is purely advisory.
package flash

import (
	"time"

	gocache "github.com/patrickmn/go-cache"
)

// DefaultTTL is how long a mark stays visible.
const DefaultTTL = 2 * time.Second

const key = "just-updated"

// Store holds at most one marked element id.
type Store struct {
	cache *gocache.Cache
	ttl   time.Duration
	now   func() time.Time
}

type mark struct {
	id int
	at time.Time
}

// New creates a store whose marks expire after ttl as measured by now. A
// non-positive ttl uses DefaultTTL and a nil now uses the wall clock. The
// cache still evicts on wall time, so a mark never outlives ttl in real time
// either.
func New(ttl time.Duration, now func() time.Time) *Store {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	if now == nil {
		now = time.Now
	}
	return &Store{
		cache: gocache.New(ttl, 5*ttl),
		ttl:   ttl,
		now:   now,
	}
}

// TTL returns the mark lifetime.
func (s *Store) TTL() time.Duration {
	return s.ttl
}

// Mark flags id, replacing any earlier mark and restarting the timer.
func (s *Store) Mark(id int) {
	s.cache.Set(key, mark{id: id, at: s.now()}, gocache.DefaultExpiration)
}

// Current returns the marked id while it has not expired.
func (s *Store) Current() (int, bool) {
	val, found := s.cache.Get(key)
	if !found {
		return 0, false
	}
	m := val.(mark)
	if s.now().Sub(m.at) >= s.ttl {
		return 0, false
	}
	return m.id, true
}

// Clear drops the mark.
func (s *Store) Clear() {
	s.cache.Flush()
}
