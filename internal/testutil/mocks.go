package testutil

import (
	"context"
	"errors"
	"sync"
	"time"

	"sprintd/internal/conflict"
	"sprintd/internal/models"
	"sprintd/internal/providers"
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

// CountByLevel returns how many lines were recorded at the level.
func (m *MockLogger) CountByLevel(level string) int {
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
	mu      sync.Mutex
	Data    map[string][]byte
	Flushes int
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

func (m *MockCache) Invalidate(key string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.Data, key)
}

func (m *MockCache) Flush() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Data = make(map[string][]byte)
	m.Flushes++
}

// MockCompressor implements interfaces.CompressorInterface with injectable behavior.
type MockCompressor struct {
	CompressFn   func([]byte) ([]byte, error)
	DecompressFn func([]byte) ([]byte, error)
}

func (m *MockCompressor) Compress(val []byte) ([]byte, error) {
	if m.CompressFn != nil {
		return m.CompressFn(val)
	}
	// Default: return as-is (identity)
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

func (m *MockCompressor) Close() {}

// MockMetrics implements providers.MetricsProviderInterface and counts calls.
type MockMetrics struct {
	mu             sync.Mutex
	Requests       int
	CacheHits      int
	CacheMisses    int
	FetchErrors    int
	StaleDropped   int
	Refreshes      int
	Persists       int
	Accounts       int
	Assignments    int
	ConflictCounts map[string]int
}

func (m *MockMetrics) IncRequestsTotal(_ string, _ int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Requests++
}
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
func (m *MockMetrics) IncFetchErrors() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.FetchErrors++
}
func (m *MockMetrics) IncStaleResponsesDropped() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.StaleDropped++
}
func (m *MockMetrics) ObserveRefreshDuration(_ time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Refreshes++
}
func (m *MockMetrics) ObservePersistenceDuration(_ time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Persists++
}
func (m *MockMetrics) SetAccountsTotal(count int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Accounts = count
}
func (m *MockMetrics) SetAssignmentsTotal(count int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Assignments = count
}
func (m *MockMetrics) SetConflictsTotal(kind string, count int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.ConflictCounts == nil {
		m.ConflictCounts = make(map[string]int)
	}
	m.ConflictCounts[kind] = count
}
func (m *MockMetrics) SetSnapshotTimestamp(_ time.Time) {}

// MockClient implements interfaces.ClientInterface.
type MockClient struct {
	mu      sync.Mutex
	Result  *models.FetchResult
	Err     error
	FetchFn func(ctx context.Context) (*models.FetchResult, error)
	Calls   int
}

func (m *MockClient) FetchAll(ctx context.Context) (*models.FetchResult, error) {
	m.mu.Lock()
	m.Calls++
	fn := m.FetchFn
	res, err := m.Result, m.Err
	m.mu.Unlock()

	if fn != nil {
		return fn(ctx)
	}
	return res, err
}

// MockTimelineService implements services.TimelineServiceInterface with
// canned responses.
type MockTimelineService struct {
	mu            sync.Mutex
	Data          *models.TimelineData
	Raw_          *models.FetchResult
	BuiltAt       time.Time
	WindowData    *models.VirtualScrollData
	IndicatorList []conflict.Indicator
	Err           error
	RebuildCalls  int
	WindowCalls   []WindowCall
}

type WindowCall struct {
	RowHeight      int
	ViewportHeight int
	ScrollTop      int
}

func (m *MockTimelineService) Rebuild(res *models.FetchResult) *models.TimelineData {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.RebuildCalls++
	m.Raw_ = res
	return m.Data
}

func (m *MockTimelineService) Snapshot() (*models.TimelineData, time.Time) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.Data, m.BuiltAt
}

func (m *MockTimelineService) Restore(data *models.TimelineData, builtAt time.Time) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Data == nil {
		m.Data = data
		m.BuiltAt = builtAt
	}
}

func (m *MockTimelineService) Raw() *models.FetchResult {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.Raw_
}

func (m *MockTimelineService) TimelineFor(_ string, _ *models.DateRange, _ int) (*models.TimelineData, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.Data, m.Err
}

func (m *MockTimelineService) Conflicts() ([]models.ConflictWarning, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return nil, m.Err
	}
	if m.Data == nil {
		return nil, errors.New("timeline not available yet")
	}
	return m.Data.Conflicts, nil
}

func (m *MockTimelineService) Indicators(_ string) ([]conflict.Indicator, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.IndicatorList, m.Err
}

func (m *MockTimelineService) Window(rowHeight, viewportHeight, scrollTop int) (*models.VirtualScrollData, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.WindowCalls = append(m.WindowCalls, WindowCall{rowHeight, viewportHeight, scrollTop})
	return m.WindowData, m.Err
}

// MockScheduler implements interfaces.SchedulerInterface.
type MockScheduler struct {
	mu           sync.Mutex
	RefreshCalls int
	RefreshErr   error
}

func (m *MockScheduler) Init() {}
func (m *MockScheduler) Stop() {}
func (m *MockScheduler) Restore() error {
	return nil
}
func (m *MockScheduler) Persist() error {
	return nil
}
func (m *MockScheduler) Refresh() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.RefreshCalls++
	return m.RefreshErr
}
