package providers

import "github.com/rabmarut/ChildChainGaugeInjector/internal/structures"

// countingCache reports every lookup on the read-path cache as a hit or a miss.
type countingCache struct {
	inner   CacheProviderInterface
	metrics MetricsProviderInterface
}

func (c *countingCache) Get(key string) ([]byte, bool) {
	val, ok := c.inner.Get(key)
	if !ok {
		c.metrics.IncCacheMisses()
		return nil, false
	}
	c.metrics.IncCacheHits()
	return val, true
}

func (c *countingCache) Set(key string, value []byte) {
	c.inner.Set(key, value)
}

// NewInstrumentedCacheProvider returns the response cache used by the
// controllers. A disabled cache is returned bare so it does not report a miss
// for every request.
func NewInstrumentedCacheProvider(conf *structures.Config, logger Logger, metrics MetricsProviderInterface) CacheProviderInterface {
	inner := NewCacheProvider(conf, logger)
	if _, disabled := inner.(*noopCache); disabled {
		return inner
	}
	return &countingCache{inner: inner, metrics: metrics}
}
