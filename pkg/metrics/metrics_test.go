package metrics

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/memtensor/songbook/pkg/interfaces"
)

func TestNoOpMetrics(t *testing.T) {
	var m interfaces.Metrics = NewNoOpMetrics()
	assert.NotPanics(t, func() {
		m.Counter("c", 1, nil)
		m.Gauge("g", 1, map[string]string{"a": "b"})
		m.Histogram("h", 1, nil)
		m.Timer("t", 0.5, nil)
	})
}

func TestMemoryMetrics(t *testing.T) {
	t.Run("counters accumulate per label set", func(t *testing.T) {
		m := NewMemoryMetrics()
		m.Counter("imports_total", 1, map[string]string{"outcome": "ok"})
		m.Counter("imports_total", 2, map[string]string{"outcome": "ok"})
		m.Counter("imports_total", 1, map[string]string{"outcome": "error"})
		m.Counter("plain", 1, nil)

		snap := m.Snapshot()
		assert.Equal(t, 3.0, snap.Counters[`imports_total{outcome="ok"}`])
		assert.Equal(t, 1.0, snap.Counters[`imports_total{outcome="error"}`])
		assert.Equal(t, 1.0, snap.Counters["plain"])
	})

	t.Run("gauge keeps last value", func(t *testing.T) {
		m := NewMemoryMetrics()
		m.Gauge("lines", 4, nil)
		m.Gauge("lines", 2, nil)
		assert.Equal(t, 2.0, m.Snapshot().Gauges["lines"])
	})

	t.Run("timer summary", func(t *testing.T) {
		m := NewMemoryMetrics()
		for _, v := range []float64{0.3, 0.1, 0.2} {
			m.Timer("fetch_seconds", v, map[string]string{"host": "x"})
		}
		s := m.Snapshot().Timers[`fetch_seconds{host="x"}`]
		assert.Equal(t, 3, s.Count)
		assert.InDelta(t, 0.6, s.Sum, 1e-9)
		assert.Equal(t, 0.1, s.Min)
		assert.Equal(t, 0.3, s.Max)
	})

	t.Run("histogram summary", func(t *testing.T) {
		m := NewMemoryMetrics()
		m.Histogram("draft_lines", 12, nil)
		s := m.Snapshot().Histograms["draft_lines"]
		assert.Equal(t, Summary{Count: 1, Sum: 12, Min: 12, Max: 12}, s)
	})

	t.Run("snapshot is a copy", func(t *testing.T) {
		m := NewMemoryMetrics()
		m.Counter("c", 1, nil)
		snap := m.Snapshot()
		m.Counter("c", 1, nil)
		assert.Equal(t, 1.0, snap.Counters["c"])
	})

	t.Run("concurrent use", func(t *testing.T) {
		m := NewMemoryMetrics()
		var wg sync.WaitGroup
		for i := 0; i < 50; i++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				m.Counter("c", 1, nil)
				m.Timer("t", 1, nil)
			}()
		}
		wg.Wait()
		snap := m.Snapshot()
		assert.Equal(t, 50.0, snap.Counters["c"])
		assert.Equal(t, 50, snap.Timers["t"].Count)
	})
}

func TestSeriesKeySortsLabels(t *testing.T) {
	assert.Equal(t, `m{a="1",b="2"}`, seriesKey("m", map[string]string{"b": "2", "a": "1"}))
	assert.Equal(t, "m", seriesKey("m", nil))
}
