package mocks

import (
	"sync"
	"time"
)

// UpstreamCall is a single call captured by MetricsRecorder
type UpstreamCall struct {
	Provider  string
	Operation string
	Success   bool
}

// MetricsRecorder records metrics in memory
type MetricsRecorder struct {
	mu           sync.Mutex
	Calls        []UpstreamCall
	EmailsSent   int
	EmailsFailed int
}

func NewMetricsRecorder() *MetricsRecorder {
	return &MetricsRecorder{}
}

func (m *MetricsRecorder) RecordUpstreamCall(provider, operation string, success bool, _ time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Calls = append(m.Calls, UpstreamCall{Provider: provider, Operation: operation, Success: success})
}

func (m *MetricsRecorder) RecordEmail(success bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if success {
		m.EmailsSent++
	} else {
		m.EmailsFailed++
	}
}
