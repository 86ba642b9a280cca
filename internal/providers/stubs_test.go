package providers

import (
	"sync"
	"time"
)

// nopLogger satisfies Logger for provider tests that only need a sink.
type nopLogger struct{}

func (nopLogger) Debugf(_ TypeEnum, _ string, _ ...interface{}) {}
func (nopLogger) Infof(_ TypeEnum, _ string, _ ...interface{})  {}
func (nopLogger) Warnf(_ TypeEnum, _ string, _ ...interface{})  {}
func (nopLogger) Errorf(_ TypeEnum, _ string, _ ...interface{}) {}
func (nopLogger) Fatalf(_ TypeEnum, _ string, _ ...interface{}) {}
func (nopLogger) Close()                                        {}

// recordingMetrics captures the calls the middleware and cache make.
type recordingMetrics struct {
	mu        sync.Mutex
	Requests  map[string]int
	Durations int
	Hits      int
	Misses    int
}

func newRecordingMetrics() *recordingMetrics {
	return &recordingMetrics{Requests: make(map[string]int)}
}

func (m *recordingMetrics) IncRequestsTotal(endpoint string, status int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Requests[endpoint] = status
}

func (m *recordingMetrics) ObserveRequestDuration(_ string, _ time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Durations++
}

func (m *recordingMetrics) IncSendsTotal(_ string)         {}
func (m *recordingMetrics) IncAugmentationsTotal(_ string) {}

func (m *recordingMetrics) IncCacheHits() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Hits++
}

func (m *recordingMetrics) IncCacheMisses() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Misses++
}

func (m *recordingMetrics) ObservePersistenceDuration(_ time.Duration) {}
func (m *recordingMetrics) SetChannelsToday(_ int)                     {}
