package engine

import (
	"errors"
	"sort"
	"sync"
	"time"

	"github.com/Carmen-Shannon/kineticam/engine/gesture"
	"github.com/Carmen-Shannon/kineticam/engine/profiler"
	"github.com/Carmen-Shannon/kineticam/engine/viewport"
	"github.com/Carmen-Shannon/kineticam/engine/window"
	"go.uber.org/zap"
)

// ErrNoWindow is returned by Run when the engine was built without a window.
var ErrNoWindow = errors.New("engine has no window")

// engine implements the Engine interface.
// Every controller is ticked from the window's message loop goroutine, one viewport at a time.
type engine struct {
	mu *sync.Mutex

	logger *zap.Logger
	now    func() time.Time

	quitOnce sync.Once
	quit     bool

	window window.Window

	profiler         *profiler.Profiler
	profilingEnabled bool

	tickRate     time.Duration
	lastTick     time.Time
	tickCallback func(deltaTime float64)

	viewports map[int]viewport.Viewport
	focused   int
}

// Engine hosts a set of camera viewports and drives them from a window's message loop.
// Only the focused viewport receives the window's pointer input; every other active viewport is
// ticked with zero input so it keeps coasting to rest.
type Engine interface {
	// Window returns the underlying window.
	//
	// Returns:
	//   - window.Window: the window instance, or nil for a headless engine
	Window() window.Window

	// EnableProfiler enables periodic stats output to the log.
	EnableProfiler()

	// DisableProfiler disables periodic stats output.
	DisableProfiler()

	// SetTickRate sets the host tick rate in ticks per second.
	//
	// Parameters:
	//   - tps: target ticks per second (defaults to 60 if <= 0)
	SetTickRate(tps float64)

	// SetTickCallback registers the function called after every viewport has been ticked.
	//
	// Parameters:
	//   - callback: function receiving the tick's delta time in seconds
	SetTickCallback(callback func(deltaTime float64))

	// AddViewport registers a viewport at the given key. Viewports are ticked in ascending key
	// order. The first viewport added receives focus.
	//
	// Parameters:
	//   - key: the ordering key
	//   - v: the Viewport to register
	AddViewport(key int, v viewport.Viewport)

	// RemoveViewport removes the viewport at the given key.
	//
	// Parameters:
	//   - key: the key of the viewport to remove
	RemoveViewport(key int)

	// Viewport retrieves the viewport registered at the given key.
	//
	// Parameters:
	//   - key: the key of the viewport to retrieve
	//
	// Returns:
	//   - viewport.Viewport: the viewport at the key, or nil if not found
	Viewport(key int) viewport.Viewport

	// Viewports returns a copy of all registered viewports.
	//
	// Returns:
	//   - map[int]viewport.Viewport: a copy of the viewports map
	Viewports() map[int]viewport.Viewport

	// Focus routes pointer input to the viewport at key.
	//
	// Parameters:
	//   - key: the key of the viewport to focus
	//
	// Returns:
	//   - bool: false if no viewport is registered at key
	Focus(key int) bool

	// Focused returns the key of the viewport receiving pointer input.
	//
	// Returns:
	//   - int: the focused key
	Focused() int

	// Step runs one host tick: drains the window's input (if any) and ticks every active viewport.
	//
	// Parameters:
	//   - dt: elapsed seconds since the previous step
	Step(dt float64)

	// Run drives Step from the window's message loop until the window closes or Quit is called.
	// Must be called from the goroutine that created the window.
	//
	// Returns:
	//   - error: ErrNoWindow for a headless engine
	Run() error

	// Quit stops Run at the next message loop iteration and closes the window.
	// Safe to call multiple times; subsequent calls are no-ops.
	Quit()
}

// NewEngine creates a new Engine instance with the provided options.
//
// Parameters:
//   - options: functional options for engine configuration (window, profiling, tick rate, etc.)
//
// Returns:
//   - Engine: the newly created engine
func NewEngine(options ...EngineBuilderOption) Engine {
	e := &engine{
		mu:        &sync.Mutex{},
		logger:    zap.NewNop(),
		now:       time.Now,
		tickRate:  time.Second / 60,
		viewports: make(map[int]viewport.Viewport),
	}

	for _, opt := range options {
		opt(e)
	}
	e.logger = e.logger.Named("engine")
	e.profiler = profiler.NewProfiler(profiler.WithLogger(e.logger), profiler.WithClock(e.now))

	if e.window != nil {
		e.window.SetResizeCallback(func(width, height int) {
			for _, v := range e.Viewports() {
				v.Resize(width, height)
			}
		})
	}

	return e
}

func (e *engine) Window() window.Window {
	return e.window
}

func (e *engine) Run() error {
	if e.window == nil {
		return ErrNoWindow
	}

	e.mu.Lock()
	e.lastTick = e.now()
	e.mu.Unlock()

	for _, v := range e.Viewports() {
		v.Resize(e.window.Width(), e.window.Height())
	}
	e.window.SetUpdateCallback(e.update)
	e.logger.Info("host loop started", zap.Int("viewports", len(e.Viewports())))
	e.window.ProcessMessages()
	e.logger.Info("host loop stopped")
	return nil
}

// update is the message loop callback: it paces the loop to the tick rate and steps with wall-clock dt.
func (e *engine) update() {
	e.mu.Lock()
	if e.quit {
		e.mu.Unlock()
		if err := e.window.Close(); err != nil {
			e.logger.Warn("failed to close window", zap.Error(err))
		}
		return
	}
	if remaining := e.tickRate - e.now().Sub(e.lastTick); remaining > 0 {
		e.mu.Unlock()
		time.Sleep(remaining)
		e.mu.Lock()
	}
	now := e.now()
	dt := now.Sub(e.lastTick).Seconds()
	e.lastTick = now
	e.mu.Unlock()

	e.Step(dt)
}

func (e *engine) Quit() {
	e.quitOnce.Do(func() {
		e.mu.Lock()
		defer e.mu.Unlock()
		e.quit = true
	})
}

func (e *engine) Step(dt float64) {
	var input gesture.RawInput
	var cursorX, cursorY float64
	hasCursor := false
	if e.window != nil {
		input = e.window.DrainInput()
		cursorX, cursorY, hasCursor = e.window.Cursor()
	}

	e.mu.Lock()
	keys := make([]int, 0, len(e.viewports))
	for k := range e.viewports {
		keys = append(keys, k)
	}
	sort.Ints(keys)
	viewports := make([]viewport.Viewport, len(keys))
	for i, k := range keys {
		viewports[i] = e.viewports[k]
	}
	focused := e.focused
	profiling := e.profilingEnabled
	callback := e.tickCallback
	e.mu.Unlock()

	samples := make([]profiler.Sample, 0, len(viewports))
	for i, v := range viewports {
		if !v.Active() {
			continue
		}
		in := gesture.RawInput{}
		if keys[i] == focused {
			in = input
			if hasCursor && in.CursorHit == nil {
				if hit, ok := v.Pick(cursorX, cursorY); ok {
					in.CursorHit = &hit
				}
			}
		}
		v.Tick(dt, in)

		if profiling {
			ctrl := v.Controller()
			stats := ctrl.Stats()
			samples = append(samples, profiler.Sample{
				Name:        v.Name(),
				Mode:        ctrl.Mode().String(),
				Corruptions: stats.Corruptions,
				Stalls:      stats.Stalls,
				Degenerate:  stats.Degenerate,
			})
		}
	}

	if callback != nil {
		callback(dt)
	}
	if profiling {
		e.profiler.Tick(samples...)
	}
}

// EnableProfiler enables periodic stats output to the log.
func (e *engine) EnableProfiler() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.profilingEnabled = true
}

// DisableProfiler disables periodic stats output.
func (e *engine) DisableProfiler() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.profilingEnabled = false
}

// SetTickRate sets the host tick rate in ticks per second.
// If the engine is running, the change takes effect on the next message loop iteration.
func (e *engine) SetTickRate(tps float64) {
	if tps <= 0 {
		tps = 60
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	e.tickRate = time.Duration(float64(time.Second) / tps)
}

// SetTickCallback registers the function called after every viewport has been ticked.
func (e *engine) SetTickCallback(callback func(deltaTime float64)) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.tickCallback = callback
}

func (e *engine) AddViewport(key int, v viewport.Viewport) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if len(e.viewports) == 0 {
		e.focused = key
	}
	e.viewports[key] = v
}

func (e *engine) RemoveViewport(key int) {
	e.mu.Lock()
	defer e.mu.Unlock()
	delete(e.viewports, key)
}

func (e *engine) Viewport(key int) viewport.Viewport {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.viewports[key]
}

func (e *engine) Viewports() map[int]viewport.Viewport {
	e.mu.Lock()
	defer e.mu.Unlock()
	cp := make(map[int]viewport.Viewport, len(e.viewports))
	for k, v := range e.viewports {
		cp[k] = v
	}
	return cp
}

func (e *engine) Focus(key int) bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	if _, ok := e.viewports[key]; !ok {
		return false
	}
	if key != e.focused {
		e.logger.Debug("focus changed", zap.Int("from", e.focused), zap.Int("to", key))
	}
	e.focused = key
	return true
}

func (e *engine) Focused() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.focused
}
