package testutil

import (
	"context"
	"fmt"
	"io/fs"
	"scd/internal/models"
	"scd/internal/providers"
	"sync"
	"time"
)

func fsNotExist(date string) error {
	return fmt.Errorf("summary for %s: %w", date, fs.ErrNotExist)
}

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

func (m *MockLogger) HasLevel(level string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, e := range m.Logs {
		if e.Level == level {
			return true
		}
	}
	return false
}

func (m *MockLogger) Debugf(t providers.TypeEnum, format string, args ...interface{}) {
	m.record("debug", t, format, args...)
}
func (m *MockLogger) Infof(t providers.TypeEnum, format string, args ...interface{}) {
	m.record("info", t, format, args...)
}
func (m *MockLogger) Warnf(t providers.TypeEnum, format string, args ...interface{}) {
	m.record("warn", t, format, args...)
}
func (m *MockLogger) Errorf(t providers.TypeEnum, format string, args ...interface{}) {
	m.record("error", t, format, args...)
}
func (m *MockLogger) Fatalf(t providers.TypeEnum, format string, args ...interface{}) {
	m.record("fatal", t, format, args...)
}
func (m *MockLogger) Close() {}

// MockCounterStore implements services.CounterStoreInterface in memory
// with injectable failures.
type MockCounterStore struct {
	mu            sync.Mutex
	Summaries     map[string][2]int // date → {group, private}
	ChannelTables map[string]map[int64]int
	Details       []DetailEntry
	SummaryText   map[string]string
	FailPersist   error
	FailLoad      error
	FailAppend    error

	SummaryWrites int
	TableWrites   int
}

type DetailEntry struct {
	Date     string
	Category models.Category
	Target   int64
	Rendered string
}

func NewMockCounterStore() *MockCounterStore {
	return &MockCounterStore{
		Summaries:     make(map[string][2]int),
		ChannelTables: make(map[string]map[int64]int),
		SummaryText:   make(map[string]string),
	}
}

func (m *MockCounterStore) PersistSummary(date string, group, private int) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.FailPersist != nil {
		return m.FailPersist
	}
	m.Summaries[date] = [2]int{group, private}
	m.SummaryWrites++
	return nil
}

func (m *MockCounterStore) PersistChannelTable(date string, byChannel map[int64]int) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.FailPersist != nil {
		return m.FailPersist
	}
	cp := make(map[int64]int, len(byChannel))
	for k, v := range byChannel {
		cp[k] = v
	}
	m.ChannelTables[date] = cp
	m.TableWrites++
	return nil
}

func (m *MockCounterStore) LoadSummary(date string) (int, int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.FailLoad != nil {
		return 0, 0, m.FailLoad
	}
	s := m.Summaries[date]
	return s[0], s[1], nil
}

func (m *MockCounterStore) LoadChannelTable(date string) (map[int64]int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.FailLoad != nil {
		return nil, m.FailLoad
	}
	cp := make(map[int64]int, len(m.ChannelTables[date]))
	for k, v := range m.ChannelTables[date] {
		cp[k] = v
	}
	return cp, nil
}

func (m *MockCounterStore) AppendDetail(date string, category models.Category, ts time.Time, target int64, rendered string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.FailAppend != nil {
		return m.FailAppend
	}
	m.Details = append(m.Details, DetailEntry{Date: date, Category: category, Target: target, Rendered: rendered})
	return nil
}

func (m *MockCounterStore) ReadSummaryText(date string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	text, ok := m.SummaryText[date]
	if !ok {
		return "", fsNotExist(date)
	}
	return text, nil
}

// MockLoadSampler implements providers.LoadSamplerInterface with a
// fixed percentage.
type MockLoadSampler struct {
	Pct     float64
	Err     error
	Samples int
}

func (m *MockLoadSampler) Sample(_ context.Context) (float64, error) {
	m.Samples++
	if m.Err != nil {
		return 0, m.Err
	}
	return m.Pct, nil
}

func (m *MockLoadSampler) Last() float64 { return m.Pct }

// MockMetrics implements providers.MetricsProviderInterface and counts
// the interesting calls.
type MockMetrics struct {
	mu            sync.Mutex
	Sends         map[string]int
	Augmentations map[string]int
	Persists      int
}

func NewMockMetrics() *MockMetrics {
	return &MockMetrics{
		Sends:         make(map[string]int),
		Augmentations: make(map[string]int),
	}
}

func (m *MockMetrics) IncRequestsTotal(_ string, _ int)                 {}
func (m *MockMetrics) ObserveRequestDuration(_ string, _ time.Duration) {}
func (m *MockMetrics) IncSendsTotal(category string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Sends[category]++
}
func (m *MockMetrics) IncAugmentationsTotal(kind string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Augmentations[kind]++
}
func (m *MockMetrics) IncCacheHits()   {}
func (m *MockMetrics) IncCacheMisses() {}
func (m *MockMetrics) ObservePersistenceDuration(_ time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Persists++
}
func (m *MockMetrics) SetChannelsToday(_ int) {}

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

// MockCompressor implements interfaces.CompressorInterface with
// injectable behavior; the default is identity.
type MockCompressor struct {
	CompressFn   func([]byte) ([]byte, error)
	DecompressFn func([]byte) ([]byte, error)
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
