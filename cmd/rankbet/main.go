package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/riskibarqy/rankbet/internal/platform/logging"
)

var version = "dev"

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	err := newRootCmd().ExecuteContext(ctx)
	stop()

	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// cliLogger is set by the root command before any subcommand runs.
var cliLogger = logging.NewNop()

func newRootCmd() *cobra.Command {
	var logLevel, logFormat string

	root := &cobra.Command{
		Use:           "rankbet",
		Short:         "Ranking accuracy tools",
		Long:          "rankbet scores fantasy rankings offline, simulates score distributions and manages the database schema.",
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			level, err := parseLevel(logLevel)
			if err != nil {
				return err
			}
			format := logging.FormatConsole
			if logFormat == string(logging.FormatJSON) {
				format = logging.FormatJSON
			}
			cliLogger = logging.New(logging.Options{
				Level:  level,
				Format: format,
				Output: cmd.ErrOrStderr(),
			})
			logging.SetDefault(cliLogger)
			return nil
		},
		PersistentPostRun: func(*cobra.Command, []string) {
			_ = cliLogger.Sync()
		},
	}

	root.PersistentFlags().StringVar(&logLevel, "log-level", "info", "log level (debug, info, warn, error)")
	root.PersistentFlags().StringVar(&logFormat, "log-format", "console", "log format (console, json)")

	root.AddCommand(newScoreCmd())
	root.AddCommand(newSimulateCmd())
	root.AddCommand(newMigrateCmd())

	return root
}

func parseLevel(raw string) (logging.Level, error) {
	var level logging.Level
	if err := level.UnmarshalText([]byte(raw)); err != nil {
		return level, fmt.Errorf("invalid --log-level %q", raw)
	}
	return level, nil
}
