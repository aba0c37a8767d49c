package providers

import (
	"strconv"
	"unsafe"

	"github.com/coocood/freecache"

	"github.com/rabmarut/ChildChainGaugeInjector/internal/structures"
)

// CacheProviderInterface caches rendered read responses. Keys embed the
// schedule version, so entries never outlive the state they were built from.
type CacheProviderInterface interface {
	Get(key string) ([]byte, bool)
	Set(key string, value []byte)
}

// VersionedKey binds a response name to the schedule version it was rendered at.
func VersionedKey(name string, version uint64) string {
	return name + "@" + strconv.FormatUint(version, 10)
}

// ResponseCache is a freecache ring sized in megabytes. Entries expire after
// the configured TTL even when the version never moves, which bounds how long
// chain-derived fields (balances) can be stale.
type ResponseCache struct {
	cache *freecache.Cache
	ttl   int
}

func NewCacheProvider(conf *structures.Config, logger Logger) CacheProviderInterface {
	if !conf.Cache.Enabled || conf.Cache.Size <= 0 {
		logger.Infof(TypeApp, "Response cache disabled")
		return &noopCache{}
	}

	ttl := max(int(conf.Cache.TTL.Seconds()), 1)
	logger.Infof(TypeApp, "Response cache: %dMB, TTL=%ds", conf.Cache.Size, ttl)

	return &ResponseCache{
		cache: freecache.NewCache(conf.Cache.Size * 1024 * 1024),
		ttl:   ttl,
	}
}

// keyBytes views s without copying; freecache hashes and copies the key.
func keyBytes(s string) []byte {
	if s == "" {
		return nil
	}
	return unsafe.Slice(unsafe.StringData(s), len(s))
}

func (c *ResponseCache) Get(key string) ([]byte, bool) {
	val, err := c.cache.Get(keyBytes(key))
	if err != nil {
		return nil, false
	}
	return val, true
}

func (c *ResponseCache) Set(key string, value []byte) {
	// Oversized values are refused by freecache; the response is still served.
	_ = c.cache.Set(keyBytes(key), value, c.ttl)
}

type noopCache struct{}

func (n *noopCache) Get(_ string) ([]byte, bool) { return nil, false }
func (n *noopCache) Set(_ string, _ []byte)      {}
