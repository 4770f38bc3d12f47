package cmd

import (
	"os"
	"strings"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
)

var logLevel string

var rootCmd = &cobra.Command{
	Use:   "intraday",
	Short: "Single-instrument intraday trading decision engine",
	Long: `Intraday runs one shared decision core over a price stream in either
batch (backtest) or incremental (replay/live-sim) delivery.

It provides:
  - Streaming indicators with batch-equivalent recurrences
  - An entry/exit evaluator with AND-gated checks and a take-profit ladder
  - A capital ledger with exact PnL accounting
  - Trade and decision journaling to SQLite or CSV`,
	SilenceUsage: true,
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "info", "log level (trace, debug, info, warn, error)")
}

// newLogger builds the CLI logger honoring --log-level.
func newLogger() zerolog.Logger {
	lvl, err := zerolog.ParseLevel(strings.ToLower(logLevel))
	if err != nil {
		lvl = zerolog.InfoLevel
	}
	return zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).With().Timestamp().Logger().Level(lvl)
}
