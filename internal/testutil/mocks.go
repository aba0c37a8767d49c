package testutil

import (
	"context"
	"sync"
	"time"

	"github.com/rabmarut/ChildChainGaugeInjector/internal/models"
	"github.com/rabmarut/ChildChainGaugeInjector/internal/providers"
)

// MockLogger implements providers.Logger and records calls.
type MockLogger struct {
	mu   sync.Mutex
	Logs []LogEntry
}

type LogEntry struct {
	Level  string
	Type   providers.TypeEnum
	Format string
	Args   []interface{}
}

func (m *MockLogger) record(level string, t providers.TypeEnum, format string, args ...interface{}) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Logs = append(m.Logs, LogEntry{Level: level, Type: t, Format: format, Args: args})
}

func (m *MockLogger) Errorf(t providers.TypeEnum, format string, args ...interface{}) {
	m.record("error", t, format, args...)
}
func (m *MockLogger) Warnf(t providers.TypeEnum, format string, args ...interface{}) {
	m.record("warn", t, format, args...)
}
func (m *MockLogger) Debugf(t providers.TypeEnum, format string, args ...interface{}) {
	m.record("debug", t, format, args...)
}
func (m *MockLogger) Infof(t providers.TypeEnum, format string, args ...interface{}) {
	m.record("info", t, format, args...)
}
func (m *MockLogger) Fatalf(t providers.TypeEnum, format string, args ...interface{}) {
	m.record("fatal", t, format, args...)
}
func (m *MockLogger) Close() {}

// Count returns how many entries were logged at level.
func (m *MockLogger) Count(level string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	n := 0
	for _, e := range m.Logs {
		if e.Level == level {
			n++
		}
	}
	return n
}

// MockCache implements providers.CacheProviderInterface.
type MockCache struct {
	mu   sync.Mutex
	Data map[string][]byte
}

func NewMockCache() *MockCache {
	return &MockCache{Data: make(map[string][]byte)}
}

func (m *MockCache) Get(key string) ([]byte, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	val, ok := m.Data[key]
	return val, ok
}

func (m *MockCache) Set(key string, value []byte) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Data[key] = value
}

// MockCompressor implements the persistence compressor with injectable behavior.
type MockCompressor struct {
	CompressFn   func([]byte) ([]byte, error)
	DecompressFn func([]byte) ([]byte, error)
	Closed       bool
}

func (m *MockCompressor) Compress(val []byte) ([]byte, error) {
	if m.CompressFn != nil {
		return m.CompressFn(val)
	}
	out := make([]byte, len(val))
	copy(out, val)
	return out, nil
}

func (m *MockCompressor) Decompress(val []byte) ([]byte, error) {
	if m.DecompressFn != nil {
		return m.DecompressFn(val)
	}
	out := make([]byte, len(val))
	copy(out, val)
	return out, nil
}

func (m *MockCompressor) Close() {
	m.Closed = true
}

// MockMetrics implements providers.MetricsProviderInterface and counts
// injection outcomes.
type MockMetrics struct {
	mu          sync.Mutex
	Injections  map[string]int
	Ready       int
	WatchList   int
	Paused      bool
	Persistence int
	CacheHits   int
	CacheMisses int
}

func (m *MockMetrics) IncRequestsTotal(_ string, _ int)                 {}
func (m *MockMetrics) ObserveRequestDuration(_ string, _ time.Duration) {}

func (m *MockMetrics) IncCacheHits() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.CacheHits++
}

func (m *MockMetrics) IncCacheMisses() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.CacheMisses++
}

func (m *MockMetrics) ObservePersistenceDuration(_ time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Persistence++
}

func (m *MockMetrics) IncInjections(result string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Injections == nil {
		m.Injections = make(map[string]int)
	}
	m.Injections[result]++
}

func (m *MockMetrics) SetReadyReceivers(count int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Ready = count
}

func (m *MockMetrics) SetWatchListSize(count int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.WatchList = count
}

func (m *MockMetrics) SetPaused(paused bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Paused = paused
}

func (m *MockMetrics) InjectionCount(result string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.Injections[result]
}

// MockHistory implements history.Recorder in memory.
type MockHistory struct {
	mu       sync.Mutex
	Events   []models.Event
	RecordFn func(models.Event) error
	Closed   bool
}

func (m *MockHistory) Record(_ context.Context, event models.Event) error {
	if m.RecordFn != nil {
		if err := m.RecordFn(event); err != nil {
			return err
		}
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Events = append(m.Events, event)
	return nil
}

// List returns events newest first, filtered by receiver when it is set.
func (m *MockHistory) List(_ context.Context, receiver models.Address, limit int) ([]models.Event, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []models.Event
	for i := len(m.Events) - 1; i >= 0; i-- {
		e := m.Events[i]
		if receiver != "" && e.Receiver != receiver {
			continue
		}
		out = append(out, e)
		if limit > 0 && len(out) == limit {
			break
		}
	}
	return out, nil
}

func (m *MockHistory) Close() error {
	m.Closed = true
	return nil
}

// Kinds returns the recorded event kinds in recording order.
func (m *MockHistory) Kinds() []models.EventKind {
	m.mu.Lock()
	defer m.mu.Unlock()
	kinds := make([]models.EventKind, 0, len(m.Events))
	for _, e := range m.Events {
		kinds = append(kinds, e.Kind)
	}
	return kinds
}

// ManualClock is a providers.ClockInterface that only moves when told to.
type ManualClock struct {
	mu  sync.Mutex
	now time.Time
}

func NewManualClock(start time.Time) *ManualClock {
	return &ManualClock{now: start}
}

func (c *ManualClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *ManualClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

func (c *ManualClock) Set(t time.Time) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = t
}
