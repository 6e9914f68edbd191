package cli

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"contactledger/internal/app"
	"contactledger/internal/offchain/scheduler"
	"contactledger/internal/platform/config"
	id "contactledger/pkg/domain"
)

// now is replaced in tests.
var now = time.Now

// ProcessCmd runs a single processor pass.
func ProcessCmd(load Loader) *cobra.Command {
	var (
		epoch  uint64
		asJSON bool
	)

	cmd := &cobra.Command{
		Use:   "process",
		Short: "Run one offchain processor pass",
		Long: `Run one offchain processor pass for an epoch boundary.

The pass processes every epoch from the checkpoint up to, but excluding,
the given epoch. Without --epoch the current epoch is derived from
OCW_GENESIS and OCW_EPOCH_INTERVAL. A pass held by another node reports
lock_failed and exits successfully.

Examples:
  ocwctl process --epoch 6
  ocwctl process --json`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd.Context(), load, func(a *app.App, cfg config.Server) error {
				current := id.EpochNumber(epoch)
				if !cmd.Flags().Changed("epoch") {
					clock := scheduler.Clock{Genesis: cfg.Offchain.Genesis, Interval: cfg.Offchain.EpochInterval}
					current = clock.EpochAt(now())
				}

				res, err := a.Processor.ProcessEpoch(cmd.Context(), current)
				out := cmd.OutOrStdout()
				if asJSON {
					if werr := writeJSON(out, res); werr != nil {
						return werr
					}
				} else {
					fmt.Fprintf(out, "Epoch %d: %s\n", current, outcomeColor(res.Outcome).Sprint(res.Outcome))
					if res.Committed {
						fmt.Fprintf(out, "  processed [%d, %d), checkpoint %d, %d request(s) applied\n",
							res.Start, res.End, res.LastCompleted, res.Applied)
					}
				}
				if err != nil {
					return fmt.Errorf("pass failed: %w", err)
				}
				return nil
			})
		},
	}

	cmd.Flags().Uint64Var(&epoch, "epoch", 0, "Epoch boundary to process up to (exclusive)")
	cmd.Flags().BoolVar(&asJSON, "json", false, "Print the pass result as JSON")

	return cmd
}
