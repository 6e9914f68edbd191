package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"contactledger/internal/cli"
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "ocwctl",
		Short: "Operate the contact ledger offchain processor",
		Long: `ocwctl inspects and drives the offchain notification processor.

Commands connect to the backends named by the environment
(DATABASE_URL, REDIS_URL, OCW_LOCAL_DB, KAFKA_BROKERS).`,
		SilenceUsage: true,
	}

	load := cli.EnvLoader()
	rootCmd.AddCommand(cli.StatusCmd(load))
	rootCmd.AddCommand(cli.ProcessCmd(load))
	rootCmd.AddCommand(cli.RegisterCmd(load))
	rootCmd.AddCommand(cli.TokenCmd())

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
