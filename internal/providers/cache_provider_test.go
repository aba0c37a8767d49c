package providers

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rabmarut/ChildChainGaugeInjector/internal/structures"
)

// testutil imports providers, so the provider tests keep their own logger.
type cacheTestLogger struct{}

func (m *cacheTestLogger) Errorf(_ TypeEnum, _ string, _ ...interface{}) {}
func (m *cacheTestLogger) Warnf(_ TypeEnum, _ string, _ ...interface{})  {}
func (m *cacheTestLogger) Debugf(_ TypeEnum, _ string, _ ...interface{}) {}
func (m *cacheTestLogger) Infof(_ TypeEnum, _ string, _ ...interface{})  {}
func (m *cacheTestLogger) Fatalf(_ TypeEnum, _ string, _ ...interface{}) {}
func (m *cacheTestLogger) Close()                                        {}

func cacheConfig(enabled bool, size int, ttl time.Duration) *structures.Config {
	return &structures.Config{
		Cache: structures.CacheConfig{Enabled: enabled, Size: size, TTL: ttl},
	}
}

func TestVersionedKey(t *testing.T) {
	assert.Equal(t, "watchlist@0", VersionedKey("watchlist", 0))
	assert.Equal(t, "account:0xa1@42", VersionedKey("account:0xa1", 42))
	assert.NotEqual(t, VersionedKey("config", 1), VersionedKey("config", 2))
}

func TestNewCacheProvider_Selection(t *testing.T) {
	tests := []struct {
		name string
		conf *structures.Config
		want CacheProviderInterface
	}{
		{"disabled", cacheConfig(false, 10, time.Second), &noopCache{}},
		{"zero size", cacheConfig(true, 0, time.Second), &noopCache{}},
		{"enabled", cacheConfig(true, 1, time.Second), &ResponseCache{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.IsType(t, tt.want, NewCacheProvider(tt.conf, &cacheTestLogger{}))
		})
	}
}

func TestResponseCache_VersionsDoNotCollide(t *testing.T) {
	c := NewCacheProvider(cacheConfig(true, 1, time.Minute), &cacheTestLogger{})

	c.Set(VersionedKey("watchlist", 1), []byte(`["0xa1"]`))
	c.Set(VersionedKey("watchlist", 2), []byte(`["0xb2"]`))

	v1, ok := c.Get(VersionedKey("watchlist", 1))
	require.True(t, ok)
	v2, ok := c.Get(VersionedKey("watchlist", 2))
	require.True(t, ok)
	assert.Equal(t, `["0xa1"]`, string(v1))
	assert.Equal(t, `["0xb2"]`, string(v2))

	_, ok = c.Get(VersionedKey("watchlist", 3))
	assert.False(t, ok)
}

func TestResponseCache_Overwrite(t *testing.T) {
	c := NewCacheProvider(cacheConfig(true, 1, time.Minute), &cacheTestLogger{})

	c.Set("config@1", []byte("v1"))
	c.Set("config@1", []byte("v2"))

	val, ok := c.Get("config@1")
	require.True(t, ok)
	assert.Equal(t, "v2", string(val))
}

func TestNoopCache_NeverStores(t *testing.T) {
	c := &noopCache{}
	c.Set("watchlist@1", []byte("[]"))

	val, ok := c.Get("watchlist@1")
	assert.False(t, ok)
	assert.Nil(t, val)
}

func TestResponseCache_TTLExpiry(t *testing.T) {
	c := NewCacheProvider(cacheConfig(true, 1, time.Second), &cacheTestLogger{})

	c.Set("account:0xa1@1", []byte("{}"))
	_, ok := c.Get("account:0xa1@1")
	require.True(t, ok)

	time.Sleep(2100 * time.Millisecond)

	_, ok = c.Get("account:0xa1@1")
	assert.False(t, ok)
}
