package profiler

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

type fakeClock struct{ t time.Time }

func (c *fakeClock) now() time.Time { return c.t }

func TestProfiler_LogsOncePerInterval(t *testing.T) {
	core, logs := observer.New(zapcore.InfoLevel)
	clock := &fakeClock{t: time.Unix(1000, 0)}
	p := NewProfiler(WithLogger(zap.New(core)), WithClock(clock.now), WithInterval(time.Second))

	for range 49 {
		clock.t = clock.t.Add(20 * time.Millisecond)
		assert.False(t, p.Tick())
	}
	clock.t = clock.t.Add(20 * time.Millisecond)
	require.True(t, p.Tick(Sample{Name: "main", Mode: "idle", Corruptions: 2}))

	require.Equal(t, 1, logs.Len())
	entry := logs.All()[0]
	assert.Equal(t, "profiler", entry.LoggerName)
	assert.Equal(t, "stats", entry.Message)
	assert.InDelta(t, 50, entry.ContextMap()["ticks_per_second"], 1e-6)
	assert.Contains(t, entry.ContextMap(), "viewports")

	clock.t = clock.t.Add(time.Millisecond)
	assert.False(t, p.Tick())
}

func TestProfiler_Defaults(t *testing.T) {
	p := NewProfiler(WithLogger(nil), WithInterval(-1), WithClock(nil))
	assert.Equal(t, time.Second, p.updateInterval)
	assert.False(t, p.Tick())
}
