package soak

import (
	"context"
	"math"
	"testing"

	"github.com/Carmen-Shannon/kineticam/engine/camera"
	"github.com/google/go-cmp/cmp"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
	"gonum.org/v1/gonum/num/quat"
	"gonum.org/v1/gonum/spatial/r3"
)

func testConfig() Config {
	return Config{
		Sessions:   4,
		Ticks:      3000,
		Seed:       7,
		Workers:    2,
		Controller: camera.DefaultConfig(),
	}
}

func TestRunHoldsInvariants(t *testing.T) {
	core, logs := observer.New(zapcore.InfoLevel)
	report, err := Run(context.Background(), testConfig(), zap.New(core))
	require.NoError(t, err)

	assert.False(t, report.Failed(), "violations: %+v", report.Sessions)
	assert.Equal(t, uint64(4*3000), report.Ticks)
	assert.Positive(t, report.Corruptions, "hostile input should trip the guard")
	require.Len(t, report.Sessions, 4)

	seen := make(map[string]bool)
	for _, s := range report.Sessions {
		_, err := uuid.Parse(s.ID)
		require.NoError(t, err)
		assert.False(t, seen[s.ID], "duplicate session id %s", s.ID)
		seen[s.ID] = true
		assert.Equal(t, 3000, s.Ticks)
	}

	finished := logs.FilterMessage("soak finished").All()
	require.Len(t, finished, 1)
	assert.Equal(t, "soak", finished[0].LoggerName)
}

func TestRunIsReproducible(t *testing.T) {
	cfg := testConfig()
	cfg.Sessions = 2
	cfg.Ticks = 1000

	a, err := Run(context.Background(), cfg, nil)
	require.NoError(t, err)
	b, err := Run(context.Background(), cfg, nil)
	require.NoError(t, err)

	for i := range a.Sessions {
		assert.Equal(t, a.Sessions[i].Seed, b.Sessions[i].Seed)
		if diff := cmp.Diff(a.Sessions[i].Stats, b.Sessions[i].Stats); diff != "" {
			t.Errorf("session %d stats differ (-first +second):\n%s", i, diff)
		}
	}
}

func TestRunRejectsInvalidConfig(t *testing.T) {
	tests := map[string]func(*Config){
		"no sessions":    func(c *Config) { c.Sessions = 0 },
		"no ticks":       func(c *Config) { c.Ticks = -1 },
		"no workers":     func(c *Config) { c.Workers = 0 },
		"bad controller": func(c *Config) { c.Controller.MinDistance = -1 },
	}
	for name, mutate := range tests {
		t.Run(name, func(t *testing.T) {
			cfg := testConfig()
			mutate(&cfg)
			_, err := Run(context.Background(), cfg, nil)
			assert.Error(t, err)
		})
	}
}

func TestRunStopsOnCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	report, err := Run(ctx, testConfig(), nil)
	require.ErrorIs(t, err, context.Canceled)
	assert.Zero(t, report.Ticks)
}

func TestCheck(t *testing.T) {
	cfg := camera.DefaultConfig()
	good := camera.Transform{
		Orientation: quat.Number{Real: 1},
		Position:    r3.Vec{Z: 10},
		Distance:    10,
	}
	require.Empty(t, check(good, cfg))

	tests := []struct {
		name   string
		mutate func(*camera.Transform)
		want   int
	}{
		{"nan position", func(t *camera.Transform) { t.Position.X = math.NaN() }, 1},
		{"inf distance", func(t *camera.Transform) { t.Distance = math.Inf(1) }, 1},
		{"non-unit orientation", func(t *camera.Transform) { t.Orientation = quat.Number{Real: 1.01} }, 1},
		{"too close", func(t *camera.Transform) { t.Distance = cfg.MinDistance / 2; t.Position.Z = t.Distance }, 1},
		{"eye off sphere", func(t *camera.Transform) { t.Position.Z = 12 }, 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tr := good
			tt.mutate(&tr)
			assert.Len(t, check(tr, cfg), tt.want)
		})
	}
}
