package cache

import (
	"errors"
	"time"

	crawlerrors "sjsage522/usedcarworker/pkg/errors"

	"github.com/bradfitz/gomemcache/memcache"
)

// maxExpiration is memcached's limit for relative expirations (30 days)
const maxExpiration = 30 * 24 * time.Hour

// MemcacheService implements CacheService using memcache
type MemcacheService struct {
	client *memcache.Client
	addr   string
}

// NewMemcacheService creates a new memcache service
func NewMemcacheService(serverAddr string) *MemcacheService {
	client := memcache.New(serverAddr)
	client.Timeout = 500 * time.Millisecond
	return &MemcacheService{
		client: client,
		addr:   serverAddr,
	}
}

// Ping checks that every memcached server is reachable
func (m *MemcacheService) Ping() error {
	if err := m.client.Ping(); err != nil {
		return crawlerrors.NewCache(m.addr, "memcached unreachable", err)
	}
	return nil
}

// Get retrieves a value from memcache
func (m *MemcacheService) Get(key string) ([]byte, error) {
	item, err := m.client.Get(key)
	if errors.Is(err, memcache.ErrCacheMiss) {
		return nil, ErrMiss
	}
	if err != nil {
		return nil, crawlerrors.NewCache(m.addr, "get "+key, err)
	}
	return item.Value, nil
}

// Set stores a value in memcache. Expirations beyond 30 days are clamped,
// since memcached reads larger values as a unix timestamp.
func (m *MemcacheService) Set(key string, value []byte, expiration time.Duration) error {
	if expiration > maxExpiration {
		expiration = maxExpiration
	}
	err := m.client.Set(&memcache.Item{
		Key:        key,
		Value:      value,
		Expiration: int32(expiration.Seconds()),
	})
	if err != nil {
		return crawlerrors.NewCache(m.addr, "set "+key, err)
	}
	return nil
}

// Delete removes a value from memcache. Deleting a missing key is not an error.
func (m *MemcacheService) Delete(key string) error {
	err := m.client.Delete(key)
	if err != nil && !errors.Is(err, memcache.ErrCacheMiss) {
		return crawlerrors.NewCache(m.addr, "delete "+key, err)
	}
	return nil
}
