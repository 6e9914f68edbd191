// Package cli implements the ocwctl operator commands. Commands build the
// application directly against the configured backends, so they observe the
// same lease lock and checkpoint as a running server.
package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/fatih/color"

	"contactledger/internal/app"
	"contactledger/internal/offchain/processor"
	"contactledger/internal/platform/config"
	"contactledger/internal/platform/logger"
)

// Loader builds the application for one command invocation.
type Loader func(ctx context.Context) (*app.App, config.Server, error)

// EnvLoader reads configuration from the environment. Logs go to stderr so
// command output stays parseable.
func EnvLoader() Loader {
	return func(ctx context.Context) (*app.App, config.Server, error) {
		cfg := config.FromEnv()
		a, err := app.Build(ctx, cfg, logger.NewWithWriter(os.Stderr, cfg.LogLevel))
		return a, cfg, err
	}
}

func withApp(ctx context.Context, load Loader, fn func(a *app.App, cfg config.Server) error) error {
	a, cfg, err := load(ctx)
	if err != nil {
		return fmt.Errorf("build application: %w", err)
	}
	defer func() { _ = a.Close() }()
	return fn(a, cfg)
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func outcomeColor(o processor.Outcome) *color.Color {
	switch o {
	case processor.OutcomeProcessed, processor.OutcomeNoEpochs, processor.OutcomeAlreadyProcessed:
		return color.New(color.FgGreen)
	case processor.OutcomeLockFailed, processor.OutcomePartial:
		return color.New(color.FgYellow)
	default:
		return color.New(color.FgRed)
	}
}
