package cmd

import (
	"fmt"
	"maps"
	"math"
	"slices"

	"github.com/Carmen-Shannon/kineticam/common"
	"github.com/Carmen-Shannon/kineticam/engine"
	"github.com/Carmen-Shannon/kineticam/engine/camera"
	"github.com/Carmen-Shannon/kineticam/engine/viewport"
	"github.com/Carmen-Shannon/kineticam/engine/window"
	"github.com/Carmen-Shannon/kineticam/internal/config"
	"github.com/Carmen-Shannon/kineticam/internal/observability"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"gonum.org/v1/gonum/spatial/r3"
)

func newViewCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "view",
		Short: "Open a window and drive camera viewports from live pointer input.",
		Long: `Open a window and drive one or more camera viewports from live pointer input.

  Middle drag          orbit
  Shift+Middle, Right  pan
  Ctrl+Middle, wheel   dolly
  Alt                  precision
  Super                free look (no horizon leveling)
  Space                stop
  H                    toggle horizon leveling
  F                    focus on the origin
  R                    reset the focused viewport
  Tab                  cycle viewport focus
  Esc                  quit`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			camCfg, err := a.cfg.Controller.CameraConfig()
			if err != nil {
				return err
			}
			win, err := window.NewWindow(
				window.WithTitle(a.cfg.View.Title),
				window.WithWidth(a.cfg.View.Width),
				window.WithHeight(a.cfg.View.Height),
			)
			if err != nil {
				return err
			}
			eng := buildHost(a.cfg.View, camCfg, win, observability.GetLogger())
			return eng.Run()
		},
	}
	cmd.Flags().Int("viewports", 0, "number of viewports sharing the window")
	cmd.Flags().Float64("tick-rate", 0, "host ticks per second")
	cmd.Flags().Bool("profile", false, "log periodic controller stats")
	cmd.Flags().Int("log-every", 0, "log the focused transform every N ticks (0 disables)")
	return cmd
}

// buildHost wires viewports, key bindings and transform logging onto an engine around win.
//
// Parameters:
//   - view: host settings
//   - camCfg: the controller configuration shared by every viewport
//   - win: the window supplying input, or nil for a headless host
//   - logger: the process logger
//
// Returns:
//   - engine.Engine: the host, ready to Run or Step
func buildHost(view config.ViewConfig, camCfg camera.Config, win window.Window, logger *zap.Logger) engine.Engine {
	options := []engine.EngineBuilderOption{
		engine.WithLogger(logger),
		engine.WithTickRate(view.TickRate),
		engine.WithProfiling(view.Profiling),
	}
	if win != nil {
		options = append(options, engine.WithWindow(win))
	}
	eng := engine.NewEngine(options...)

	ticks := 0
	for i := range view.Viewports {
		key := i
		name := fmt.Sprintf("viewport-%d", i)
		// Spread the viewports around the pivot so they start from distinct angles.
		ctrl := camera.NewCameraController(
			camera.WithConfig(camCfg),
			camera.WithID(name),
			camera.WithLogger(logger),
			camera.WithYawPitch(2*math.Pi*float64(i)/float64(view.Viewports), 0.3),
		)
		vp := viewport.NewViewport(name, ctrl, viewport.WithOutputCallback(func(name string, t camera.Transform) {
			if view.LogEvery <= 0 || eng.Focused() != key {
				return
			}
			ticks++
			if ticks%view.LogEvery != 0 {
				return
			}
			logger.Info("transform",
				zap.String("viewport", name),
				zap.Stringer("mode", t.Mode),
				zap.Stringer("gesture", t.Gesture),
				zap.Float64s("eye", []float64{t.Position.X, t.Position.Y, t.Position.Z}),
				zap.Float64s("pivot", []float64{t.Pivot.X, t.Pivot.Y, t.Pivot.Z}),
				zap.Float64("distance", t.Distance),
			)
		}))
		eng.AddViewport(key, vp)
	}

	if win != nil {
		win.SetKeyDownCallback(func(keyCode uint32) {
			handleKey(eng, keyCode, logger)
		})
	}
	return eng
}

// handleKey applies the host's keyboard shortcuts to the focused viewport.
func handleKey(eng engine.Engine, keyCode uint32, logger *zap.Logger) {
	vp := eng.Viewport(eng.Focused())
	if vp == nil {
		return
	}
	ctrl := vp.Controller()

	switch keyCode {
	case common.KeyH:
		enabled := !ctrl.Config().HorizonEnabled
		ctrl.SetHorizonEnabled(enabled)
		logger.Info("horizon leveling toggled", zap.String("viewport", vp.Name()), zap.Bool("enabled", enabled))
	case common.KeyF:
		if !ctrl.FocusOn(r3.Vec{}, 1) {
			logger.Warn("focus rejected", zap.String("viewport", vp.Name()))
		}
	case common.KeyR:
		ctrl.Stop()
		ctrl.SetState(camera.DefaultState())
	case common.KeyTab:
		keys := sortedKeys(eng)
		for i, k := range keys {
			if k == eng.Focused() {
				eng.Focus(keys[(i+1)%len(keys)])
				break
			}
		}
	}
}

func sortedKeys(eng engine.Engine) []int {
	return slices.Sorted(maps.Keys(eng.Viewports()))
}
