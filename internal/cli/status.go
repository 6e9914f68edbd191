package cli

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"contactledger/internal/app"
	"contactledger/internal/offchain/scheduler"
	"contactledger/internal/platform/config"
	id "contactledger/pkg/domain"
)

// StatusReport is the machine-readable form of `ocwctl status`.
type StatusReport struct {
	Backends     app.Backends    `json:"backends"`
	Checkpoint   *id.EpochNumber `json:"checkpoint"`
	CurrentEpoch id.EpochNumber  `json:"current_epoch"`
	Pending      int             `json:"pending"`
	Inflight     int             `json:"inflight"`
	PoolSize     int             `json:"pool_size"`
}

// StatusCmd reports checkpoint, queue depth and backend selection.
func StatusCmd(load Loader) *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "status",
		Short: "Show processor checkpoint and queue depth",
		Long: `Show the offchain processor state as seen by the configured backends.

Examples:
  ocwctl status
  ocwctl status --json`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd.Context(), load, func(a *app.App, cfg config.Server) error {
				ctx := cmd.Context()
				report := StatusReport{Backends: a.Backends}

				cp, ok, err := a.Checkpoint.Get(ctx)
				if err != nil {
					return fmt.Errorf("read checkpoint: %w", err)
				}
				if ok {
					report.Checkpoint = &cp
				}
				if report.Pending, report.Inflight, err = a.Queue.Len(ctx); err != nil {
					return fmt.Errorf("inspect queue: %w", err)
				}
				if report.PoolSize, err = a.Pool.Size(ctx); err != nil {
					return fmt.Errorf("inspect uuid pool: %w", err)
				}
				clock := scheduler.Clock{Genesis: cfg.Offchain.Genesis, Interval: cfg.Offchain.EpochInterval}
				report.CurrentEpoch = clock.EpochAt(now())

				out := cmd.OutOrStdout()
				if asJSON {
					return writeJSON(out, report)
				}
				checkpoint := color.New(color.FgYellow).Sprint("(none)")
				if report.Checkpoint != nil {
					checkpoint = fmt.Sprint(*report.Checkpoint)
				}
				fmt.Fprintf(out, "Checkpoint:     %s\n", checkpoint)
				fmt.Fprintf(out, "Current epoch:  %d\n", report.CurrentEpoch)
				fmt.Fprintf(out, "Pending:        %d\n", report.Pending)
				fmt.Fprintf(out, "In flight:      %d\n", report.Inflight)
				fmt.Fprintf(out, "UUID pool:      %d\n", report.PoolSize)
				fmt.Fprintf(out, "Backends:       records=%s queue=%s checkpoint=%s lock=%s events=%s\n",
					a.Backends.Records, a.Backends.Queue, a.Backends.Checkpoint, a.Backends.Lock, a.Backends.Events)
				return nil
			})
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "Print the report as JSON")

	return cmd
}
