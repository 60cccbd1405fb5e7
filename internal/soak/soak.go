// Package soak drives camera controllers with pathological input and checks that every emitted
// transform stays usable.
package soak

import (
	"context"
	"errors"
	"fmt"
	"math"
	"math/rand/v2"
	"sync"
	"time"

	"github.com/Carmen-Shannon/automation/tools/worker"
	"github.com/Carmen-Shannon/kineticam/engine/camera"
	"github.com/Carmen-Shannon/kineticam/engine/gesture"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
	"gonum.org/v1/gonum/floats/scalar"
	"gonum.org/v1/gonum/num/quat"
	"gonum.org/v1/gonum/spatial/r3"
)

// unitTolerance is the largest accepted deviation of |orientation| from 1.
const unitTolerance = 1e-6

// maxViolationsPerSession caps how many violations a session records in full.
const maxViolationsPerSession = 32

// Config configures a soak run.
type Config struct {
	Sessions int
	Ticks    int
	Seed     int64
	Workers  int
	// Controller is the configuration every session's controller starts with.
	Controller camera.Config
}

// Validate checks the run parameters and the controller configuration.
//
// Returns:
//   - error: the first problem found, nil when the run can start
func (c Config) Validate() error {
	if c.Sessions < 1 {
		return errors.New("sessions must be at least 1")
	}
	if c.Ticks < 1 {
		return errors.New("ticks must be at least 1")
	}
	if c.Workers < 1 {
		return errors.New("workers must be at least 1")
	}
	return c.Controller.Validate()
}

// Violation is one failed output check.
type Violation struct {
	Tick   int
	Reason string
}

// SessionReport summarizes one controller's run.
type SessionReport struct {
	ID         string
	Seed       uint64
	Ticks      int
	Stats      camera.Stats
	Violations []Violation
	// Dropped counts violations beyond the per-session cap.
	Dropped int
}

// Report summarizes a whole soak run.
type Report struct {
	Sessions    []SessionReport
	Ticks       uint64
	Corruptions uint64
	Violations  int
	Elapsed     time.Duration
}

// Failed reports whether any session recorded a violation.
func (r Report) Failed() bool {
	return r.Violations > 0
}

// Run soaks cfg.Sessions independent controllers for cfg.Ticks ticks each. Sessions run
// concurrently on a worker pool; each controller is only ever ticked by its own session.
//
// Parameters:
//   - ctx: cancels the run between ticks
//   - cfg: the run configuration
//   - logger: receives progress and throttled violation output
//
// Returns:
//   - Report: per-session results, in session order
//   - error: a configuration error or ctx.Err() when cancelled
func Run(ctx context.Context, cfg Config, logger *zap.Logger) (Report, error) {
	if err := cfg.Validate(); err != nil {
		return Report{}, fmt.Errorf("invalid soak configuration: %w", err)
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	logger = logger.Named("soak")

	start := time.Now()
	pool := worker.NewDynamicWorkerPool(cfg.Workers, cfg.Sessions, time.Second)
	reports := make([]SessionReport, cfg.Sessions)
	errs := make([]error, cfg.Sessions)

	var wg sync.WaitGroup
	for i := range cfg.Sessions {
		wg.Add(1)
		seed := uint64(cfg.Seed) + uint64(i)*0x9E3779B97F4A7C15
		pool.SubmitTask(worker.Task{
			ID: i,
			Do: func() (any, error) {
				defer wg.Done()
				reports[i], errs[i] = runSession(ctx, cfg, seed, logger)
				return nil, errs[i]
			},
		})
	}
	wg.Wait()

	report := Report{Sessions: reports, Elapsed: time.Since(start)}
	for _, s := range reports {
		report.Ticks += s.Stats.Ticks
		report.Corruptions += s.Stats.Corruptions
		report.Violations += len(s.Violations) + s.Dropped
	}
	logger.Info("soak finished",
		zap.Int("sessions", cfg.Sessions),
		zap.Uint64("ticks", report.Ticks),
		zap.Uint64("corruptions", report.Corruptions),
		zap.Int("violations", report.Violations),
		zap.Duration("elapsed", report.Elapsed),
	)
	return report, errors.Join(errs...)
}

func runSession(ctx context.Context, cfg Config, seed uint64, logger *zap.Logger) (SessionReport, error) {
	id := uuid.NewString()
	logger = logger.With(zap.String("session_id", id), zap.Uint64("seed", seed))
	warn := rate.Sometimes{First: 3, Interval: time.Second}

	ctrl := camera.NewCameraController(
		camera.WithConfig(cfg.Controller),
		camera.WithID(id),
		camera.WithLogger(logger),
	)
	gen := newGenerator(seed)
	report := SessionReport{ID: id, Seed: seed}

	for tick := range cfg.Ticks {
		if tick%256 == 0 {
			if err := ctx.Err(); err != nil {
				report.Stats = ctrl.Stats()
				return report, err
			}
		}

		gen.perturb(ctrl)
		dt, input := gen.next()
		t := ctrl.Tick(dt, input)
		report.Ticks++

		for _, reason := range check(t, cfg.Controller) {
			if len(report.Violations) >= maxViolationsPerSession {
				report.Dropped++
				continue
			}
			report.Violations = append(report.Violations, Violation{Tick: tick, Reason: reason})
			warn.Do(func() {
				logger.Warn("invariant violated", zap.Int("tick", tick), zap.String("reason", reason))
			})
		}
	}

	report.Stats = ctrl.Stats()
	logger.Debug("session finished",
		zap.Uint64("corruptions", report.Stats.Corruptions),
		zap.Int("violations", len(report.Violations)+report.Dropped),
	)
	return report, nil
}

// check returns a description of every output invariant t breaks.
func check(t camera.Transform, cfg camera.Config) []string {
	var out []string
	for _, v := range []float64{
		t.Position.X, t.Position.Y, t.Position.Z,
		t.Pivot.X, t.Pivot.Y, t.Pivot.Z,
		t.Orientation.Real, t.Orientation.Imag, t.Orientation.Jmag, t.Orientation.Kmag,
		t.Distance,
	} {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return append(out, "non-finite transform")
		}
	}
	if n := quat.Abs(t.Orientation); !scalar.EqualWithinAbs(n, 1, unitTolerance) {
		out = append(out, fmt.Sprintf("orientation norm %v", n))
	}
	if t.Distance < cfg.MinDistance || t.Distance > cfg.MaxDistance {
		out = append(out, fmt.Sprintf("distance %v outside [%v, %v]", t.Distance, cfg.MinDistance, cfg.MaxDistance))
	}
	if !cfg.SwayEnabled {
		if got := r3.Norm(r3.Sub(t.Pivot, t.Position)); !scalar.EqualWithinAbsOrRel(got, t.Distance, 1e-9, 1e-6) {
			out = append(out, fmt.Sprintf("eye is %v from pivot, want %v", got, t.Distance))
		}
	}
	return out
}

// generator produces a reproducible stream of hostile ticks for one session.
type generator struct {
	rng *rand.Rand
	// chord is the button set held by the current drag.
	chord     gesture.Buttons
	modifiers gesture.Modifiers
}

func newGenerator(seed uint64) *generator {
	return &generator{rng: rand.New(rand.NewPCG(seed, seed^0xD1B54A32D192ED03))}
}

func (g *generator) next() (float64, gesture.RawInput) {
	dt := 1.0 / 60
	in := gesture.RawInput{Buttons: g.chord, Modifiers: g.modifiers}

	// Occasionally change the held chord so gestures start, switch and end.
	if g.rng.IntN(20) == 0 {
		g.chord = []gesture.Buttons{0, gesture.ButtonMiddle, gesture.ButtonRight, gesture.ButtonLeft}[g.rng.IntN(4)]
		g.modifiers = gesture.Modifiers(g.rng.IntN(16))
	}

	switch p := g.rng.IntN(100); {
	case p < 40:
		in.Delta = r3.Vec{X: g.rng.NormFloat64() * 20, Y: g.rng.NormFloat64() * 20}
	case p < 50:
		in.Delta = r3.Vec{X: g.signed() * 1e7, Y: g.signed() * 1e9}
		in.Scroll = g.signed() * 1e8
	case p < 60:
		in.Delta = r3.Vec{X: g.poison(), Y: g.rng.NormFloat64()}
		in.Scroll = g.poison()
		hit := r3.Vec{X: g.poison(), Y: 3, Z: g.poison()}
		in.CursorHit = &hit
	case p < 70:
		dt = []float64{0, -1.0 / 60, 10, math.NaN(), math.Inf(1), 1e-9}[g.rng.IntN(6)]
		in.Delta = r3.Vec{X: g.rng.NormFloat64() * 5}
	case p < 75:
		in.Stop = true
	case p < 90:
		// Sustained vertical orbit drives the view straight through the poles.
		in.Buttons = gesture.ButtonMiddle
		in.Modifiers = 0
		in.Delta = r3.Vec{Y: 300 * g.signed()}
		hit := r3.Vec{X: g.rng.NormFloat64() * 10, Y: g.rng.NormFloat64() * 10, Z: g.rng.NormFloat64() * 10}
		in.CursorHit = &hit
	default:
		in.Scroll = g.rng.NormFloat64()
	}
	return dt, in
}

// perturb occasionally drives the controller through its non-tick entry points.
func (g *generator) perturb(ctrl camera.CameraController) {
	switch g.rng.IntN(500) {
	case 0:
		ctrl.FocusOn(r3.Vec{X: g.rng.NormFloat64() * 50, Y: g.rng.NormFloat64() * 50}, math.Abs(g.rng.NormFloat64()*5))
	case 1:
		s := ctrl.State()
		s.Pivot = r3.Vec{X: g.poison()}
		s.Distance = g.signed() * 1e12
		ctrl.SetState(s)
	case 2:
		bad := ctrl.Config()
		bad.AngularDamping = g.poison()
		_ = ctrl.Configure(bad)
	case 3:
		ctrl.SetHorizonEnabled(!ctrl.Config().HorizonEnabled)
	}
}

func (g *generator) signed() float64 {
	if g.rng.IntN(2) == 0 {
		return -1
	}
	return 1
}

func (g *generator) poison() float64 {
	return []float64{math.NaN(), math.Inf(1), math.Inf(-1), 1e300}[g.rng.IntN(4)]
}
