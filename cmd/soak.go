package cmd

import (
	"errors"
	"fmt"
	"text/tabwriter"

	"github.com/Carmen-Shannon/kineticam/internal/observability"
	"github.com/Carmen-Shannon/kineticam/internal/soak"
	"github.com/spf13/cobra"
)

// ErrViolations is returned by the soak command when any session broke an output invariant.
var ErrViolations = errors.New("soak found invariant violations")

func newSoakCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "soak",
		Short: "Drive many controllers with hostile input and check every emitted transform.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			camCfg, err := a.cfg.Controller.CameraConfig()
			if err != nil {
				return err
			}
			report, err := soak.Run(cmd.Context(), soak.Config{
				Sessions:   a.cfg.Soak.Sessions,
				Ticks:      a.cfg.Soak.Ticks,
				Seed:       a.cfg.Soak.Seed,
				Workers:    a.cfg.Soak.Workers,
				Controller: camCfg,
			}, observability.GetLogger())
			if err != nil {
				return err
			}

			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "SESSION\tTICKS\tCORRUPTIONS\tREVERTS\tSTALLS\tVIOLATIONS")
			for _, s := range report.Sessions {
				fmt.Fprintf(tw, "%s\t%d\t%d\t%d\t%d\t%d\n",
					s.ID, s.Stats.Ticks, s.Stats.Corruptions, s.Stats.Reverts, s.Stats.Stalls, len(s.Violations)+s.Dropped)
				for _, v := range s.Violations {
					fmt.Fprintf(tw, "  tick %d\t%s\n", v.Tick, v.Reason)
				}
			}
			if err := tw.Flush(); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%d ticks, %d corruptions, %d violations in %s\n",
				report.Ticks, report.Corruptions, report.Violations, report.Elapsed)

			if report.Failed() {
				return fmt.Errorf("%w: %d", ErrViolations, report.Violations)
			}
			return nil
		},
	}
	cmd.Flags().Int("sessions", 0, "number of controllers to soak")
	cmd.Flags().Int("ticks", 0, "ticks per controller")
	cmd.Flags().Int64("seed", 0, "base seed; session i uses a seed derived from it")
	cmd.Flags().Int("workers", 0, "worker pool size")
	return cmd
}
