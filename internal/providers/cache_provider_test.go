package providers

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"sprintd/internal/structures"
)

// local mock logger to avoid import cycle with testutil
type cacheTestLogger struct{}

func (m *cacheTestLogger) Errorf(_ TypeEnum, _ string, _ ...interface{}) {}
func (m *cacheTestLogger) Warnf(_ TypeEnum, _ string, _ ...interface{})  {}
func (m *cacheTestLogger) Debugf(_ TypeEnum, _ string, _ ...interface{}) {}
func (m *cacheTestLogger) Infof(_ TypeEnum, _ string, _ ...interface{})  {}
func (m *cacheTestLogger) Fatalf(_ TypeEnum, _ string, _ ...interface{}) {}
func (m *cacheTestLogger) Close()                                        {}

type cacheTestMetrics struct {
	noopMetrics
	hits   int
	misses int
}

func (m *cacheTestMetrics) IncCacheHits()   { m.hits++ }
func (m *cacheTestMetrics) IncCacheMisses() { m.misses++ }

func cacheConfig(enabled bool, sizeMB int) *structures.Config {
	return &structures.Config{
		Cache: structures.CacheConfig{Enabled: enabled, Size: sizeMB},
		Feed:  structures.FeedConfig{PollInterval: 5 * time.Second},
	}
}

func TestCacheProvider_SetGet(t *testing.T) {
	c := NewCacheProvider(cacheConfig(true, 1), &cacheTestLogger{})

	_, ok := c.Get("missing")
	assert.False(t, ok)

	c.Set("timeline:week", []byte(`{"a":1}`))
	val, ok := c.Get("timeline:week")
	require.True(t, ok)
	assert.Equal(t, []byte(`{"a":1}`), val)
}

func TestCacheProvider_Invalidate(t *testing.T) {
	c := NewCacheProvider(cacheConfig(true, 1), &cacheTestLogger{})

	c.Set("k", []byte("v"))
	c.Invalidate("k")
	_, ok := c.Get("k")
	assert.False(t, ok)
}

func TestCacheProvider_Flush(t *testing.T) {
	c := NewCacheProvider(cacheConfig(true, 1), &cacheTestLogger{})

	c.Set("a", []byte("1"))
	c.Set("b", []byte("2"))
	c.Flush()

	_, ok := c.Get("a")
	assert.False(t, ok)
	_, ok = c.Get("b")
	assert.False(t, ok)
}

func TestCacheProvider_DisabledReturnsNoop(t *testing.T) {
	c := NewCacheProvider(cacheConfig(false, 1), &cacheTestLogger{})
	assert.IsType(t, &noopCache{}, c)

	c.Set("k", []byte("v"))
	_, ok := c.Get("k")
	assert.False(t, ok)
}

func TestCacheProvider_ZeroSizeReturnsNoop(t *testing.T) {
	c := NewCacheProvider(cacheConfig(true, 0), &cacheTestLogger{})
	assert.IsType(t, &noopCache{}, c)
}

func TestInstrumentedCache_CountsHitsAndMisses(t *testing.T) {
	metrics := &cacheTestMetrics{}
	c := NewInstrumentedCacheProvider(cacheConfig(true, 1), &cacheTestLogger{}, metrics)

	c.Get("missing")
	c.Set("k", []byte("v"))
	c.Get("k")
	c.Get("k")

	assert.Equal(t, 2, metrics.hits)
	assert.Equal(t, 1, metrics.misses)
}

func TestInstrumentedCache_DisabledSkipsMetrics(t *testing.T) {
	metrics := &cacheTestMetrics{}
	c := NewInstrumentedCacheProvider(cacheConfig(false, 1), &cacheTestLogger{}, metrics)

	c.Get("anything")
	assert.Equal(t, 0, metrics.misses)
}
