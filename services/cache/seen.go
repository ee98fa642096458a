package cache

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"sjsage522/usedcarworker/logger"

	"github.com/cespare/xxhash/v2"
)

// SeenCache remembers listing links that are already persisted. Links from
// the local table are preloaded in memory; links saved by earlier runs are
// also looked up in the backing cache, if any.
type SeenCache struct {
	mu    sync.RWMutex
	local map[string]struct{}
	svc   CacheService
	ttl   time.Duration
	log   *logger.Logger
}

// NewSeenCache creates a seen cache. svc may be nil for a purely in-memory set.
func NewSeenCache(svc CacheService, ttl time.Duration) *SeenCache {
	return &SeenCache{
		local: make(map[string]struct{}),
		svc:   svc,
		ttl:   ttl,
		log:   logger.ForCache(),
	}
}

// SeenKey is the cache key for a link. Links can exceed memcached's 250 byte
// key limit and contain characters it rejects, so they are hashed.
func SeenKey(link string) string {
	return fmt.Sprintf("usedcar:seen:%016x", xxhash.Sum64String(link))
}

// Has reports whether link was seen before
func (s *SeenCache) Has(link string) bool {
	s.mu.RLock()
	_, ok := s.local[link]
	s.mu.RUnlock()
	if ok || s.svc == nil {
		return ok
	}

	_, err := s.svc.Get(SeenKey(link))
	if err != nil {
		if !errors.Is(err, ErrMiss) {
			s.log.Debug().Err(err).Str("link", link).Msg("Seen lookup failed")
		}
		return false
	}

	s.mu.Lock()
	s.local[link] = struct{}{}
	s.mu.Unlock()
	return true
}

// Preload marks links as seen in memory only
func (s *SeenCache) Preload(links ...string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, link := range links {
		s.local[link] = struct{}{}
	}
}

// Add marks links as seen and writes them through to the backing cache.
// The first write error is returned after all links are attempted.
func (s *SeenCache) Add(links ...string) error {
	s.Preload(links...)
	if s.svc == nil {
		return nil
	}

	var firstErr error
	for _, link := range links {
		if err := s.svc.Set(SeenKey(link), []byte(link), s.ttl); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}

// Len is the number of links known in memory
func (s *SeenCache) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.local)
}
