// Package metrics provides metrics implementations for songbook
package metrics

import (
	"sort"
	"strings"
	"sync"

	"github.com/memtensor/songbook/pkg/interfaces"
)

// NoOpMetrics is a no-operation metrics implementation
type NoOpMetrics struct{}

// Counter increments a counter metric
func (m *NoOpMetrics) Counter(name string, value float64, labels map[string]string) {}

// Gauge sets a gauge metric
func (m *NoOpMetrics) Gauge(name string, value float64, labels map[string]string) {}

// Histogram records a histogram metric
func (m *NoOpMetrics) Histogram(name string, value float64, labels map[string]string) {}

// Timer records timing metrics
func (m *NoOpMetrics) Timer(name string, duration float64, labels map[string]string) {}

// Summary aggregates observed values of a histogram or timer
type Summary struct {
	Count int     `json:"count"`
	Sum   float64 `json:"sum"`
	Min   float64 `json:"min"`
	Max   float64 `json:"max"`
}

func (s *Summary) observe(v float64) {
	if s.Count == 0 || v < s.Min {
		s.Min = v
	}
	if s.Count == 0 || v > s.Max {
		s.Max = v
	}
	s.Count++
	s.Sum += v
}

// Snapshot is a point-in-time copy of every series. Series keys are the
// metric name followed by its labels, e.g. `imports_total{outcome="ok"}`.
type Snapshot struct {
	Counters   map[string]float64 `json:"counters"`
	Gauges     map[string]float64 `json:"gauges"`
	Histograms map[string]Summary `json:"histograms"`
	Timers     map[string]Summary `json:"timers"`
}

// MemoryMetrics keeps every series in process memory
type MemoryMetrics struct {
	mu         sync.RWMutex
	counters   map[string]float64
	gauges     map[string]float64
	histograms map[string]*Summary
	timers     map[string]*Summary
}

// NewMemoryMetrics creates an empty in-memory registry
func NewMemoryMetrics() *MemoryMetrics {
	return &MemoryMetrics{
		counters:   make(map[string]float64),
		gauges:     make(map[string]float64),
		histograms: make(map[string]*Summary),
		timers:     make(map[string]*Summary),
	}
}

// Counter adds value to a counter
func (m *MemoryMetrics) Counter(name string, value float64, labels map[string]string) {
	key := seriesKey(name, labels)
	m.mu.Lock()
	m.counters[key] += value
	m.mu.Unlock()
}

// Gauge sets a gauge
func (m *MemoryMetrics) Gauge(name string, value float64, labels map[string]string) {
	key := seriesKey(name, labels)
	m.mu.Lock()
	m.gauges[key] = value
	m.mu.Unlock()
}

// Histogram records an observation
func (m *MemoryMetrics) Histogram(name string, value float64, labels map[string]string) {
	m.observe(m.histograms, name, value, labels)
}

// Timer records a duration in seconds
func (m *MemoryMetrics) Timer(name string, duration float64, labels map[string]string) {
	m.observe(m.timers, name, duration, labels)
}

func (m *MemoryMetrics) observe(series map[string]*Summary, name string, v float64, labels map[string]string) {
	key := seriesKey(name, labels)
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := series[key]
	if !ok {
		s = &Summary{}
		series[key] = s
	}
	s.observe(v)
}

// Snapshot copies the current values
func (m *MemoryMetrics) Snapshot() Snapshot {
	m.mu.RLock()
	defer m.mu.RUnlock()

	snap := Snapshot{
		Counters:   make(map[string]float64, len(m.counters)),
		Gauges:     make(map[string]float64, len(m.gauges)),
		Histograms: make(map[string]Summary, len(m.histograms)),
		Timers:     make(map[string]Summary, len(m.timers)),
	}
	for k, v := range m.counters {
		snap.Counters[k] = v
	}
	for k, v := range m.gauges {
		snap.Gauges[k] = v
	}
	for k, v := range m.histograms {
		snap.Histograms[k] = *v
	}
	for k, v := range m.timers {
		snap.Timers[k] = *v
	}
	return snap
}

// seriesKey renders name{k="v",...} with labels sorted by key
func seriesKey(name string, labels map[string]string) string {
	if len(labels) == 0 {
		return name
	}
	keys := make([]string, 0, len(labels))
	for k := range labels {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var b strings.Builder
	b.WriteString(name)
	b.WriteByte('{')
	for i, k := range keys {
		if i > 0 {
			b.WriteByte(',')
		}
		b.WriteString(k)
		b.WriteString(`="`)
		b.WriteString(labels[k])
		b.WriteByte('"')
	}
	b.WriteByte('}')
	return b.String()
}

var _ interfaces.Metrics = (*NoOpMetrics)(nil)
var _ interfaces.Metrics = (*MemoryMetrics)(nil)

// NewNoOpMetrics creates a new no-op metrics implementation
func NewNoOpMetrics() interfaces.Metrics {
	return &NoOpMetrics{}
}

// NewTestMetrics creates a metrics implementation for testing
func NewTestMetrics() *MemoryMetrics {
	return NewMemoryMetrics()
}
