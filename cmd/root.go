// Package cmd holds the kineticam command line.
package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/Carmen-Shannon/kineticam/internal/config"
	"github.com/Carmen-Shannon/kineticam/internal/observability"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

// Version is overridden at build time with -ldflags "-X github.com/Carmen-Shannon/kineticam/cmd.Version=...".
var Version = "dev"

// flagKeys maps command flags onto configuration keys, so a flag overrides file and environment.
var flagKeys = map[string]string{
	"log-level": "logger.level",
	"viewports": "view.viewports",
	"tick-rate": "view.tick_rate",
	"profile":   "view.profiling",
	"log-every": "view.log_every",
	"sessions":  "soak.sessions",
	"ticks":     "soak.ticks",
	"seed":      "soak.seed",
	"workers":   "soak.workers",
}

// app carries state shared by every subcommand once the root pre-run has loaded it.
type app struct {
	cfgFile string
	v       *viper.Viper
	cfg     *config.Config
}

// newRootCmd builds the command tree.
func newRootCmd() *cobra.Command {
	a := &app{}
	root := &cobra.Command{
		Use:           "kineticam",
		Short:         "Kinetic orbit/pan/dolly camera controller host and soak harness.",
		Version:       Version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if err := a.load(cmd.Flags()); err != nil {
				observability.InitializeLogger(config.LoggerConfig{Level: "info", Format: "console", ServiceName: "kineticam"})
				return err
			}
			observability.InitializeLogger(a.cfg.Logger)
			observability.GetLogger().Debug("configuration loaded", zap.String("file", a.v.ConfigFileUsed()))
			return nil
		},
	}
	root.PersistentFlags().StringVarP(&a.cfgFile, "config", "c", "", "config file (default is ./kineticam.yaml)")
	root.PersistentFlags().String("log-level", "", "log level override (debug, info, warn, error)")
	root.SetVersionTemplate(`{{printf "%s\n" .Version}}`)

	root.AddCommand(newViewCmd(a), newSoakCmd(a), newConfigCmd(a))
	return root
}

// load reads defaults, the config file, the environment and any set flags into a.cfg.
func (a *app) load(flags *pflag.FlagSet) error {
	v := config.NewViper()
	if a.cfgFile != "" {
		v.SetConfigFile(a.cfgFile)
	} else {
		v.AddConfigPath(".")
		v.SetConfigName("kineticam")
		v.SetConfigType("yaml")
	}
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return fmt.Errorf("error reading config file: %w", err)
		}
	}

	for name, key := range flagKeys {
		if f := flags.Lookup(name); f != nil && f.Changed {
			if err := v.BindPFlag(key, f); err != nil {
				return fmt.Errorf("failed to bind flag %q: %w", name, err)
			}
		}
	}

	cfg, err := config.NewConfigFromViper(v)
	if err != nil {
		return err
	}
	a.v = v
	a.cfg = cfg
	return nil
}

// Execute runs the command line and exits non-zero on failure.
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := newRootCmd().ExecuteContext(ctx)
	stop()
	if err != nil {
		observability.GetLogger().Error("command failed", zap.Error(err))
		observability.Sync()
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
	observability.Sync()
}
