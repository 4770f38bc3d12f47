package cmd

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/traderlab/intraday/config"
	"github.com/traderlab/intraday/engine"
	"github.com/traderlab/intraday/journal"
	"github.com/traderlab/intraday/market"
)

var (
	backtestConfig   string
	backtestData     string
	backtestDB       string
	backtestCSVBase  string
	backtestCloseEnd bool
)

var backtestCmd = &cobra.Command{
	Use:   "backtest",
	Short: "Run the decision core over a complete historical series",
	RunE: func(cmd *cobra.Command, args []string) error {
		log := newLogger()

		cfg, err := config.Load(backtestConfig)
		if err != nil {
			log.Error().Err(err).Msg("configuration rejected")
			return err
		}

		samples, err := market.LoadCSV(backtestData)
		if err != nil {
			return fmt.Errorf("load samples: %w", err)
		}
		log.Info().Int("samples", len(samples)).Str("symbol", cfg.Instrument.Symbol).Msg("backtest starting")

		jnl, err := openJournal(backtestDB, backtestCSVBase)
		if err != nil {
			return err
		}
		if jnl != nil {
			defer jnl.Close()
		}

		drv := engine.New(*cfg, engine.Options{
			CloseEnd: backtestCloseEnd,
			Journal:  jnl,
			Logger:   &log,
		})

		if err := drv.RunBatch(cmd.Context(), samples); err != nil {
			return err
		}

		mark := 0.0
		if len(samples) > 0 {
			mark = samples[len(samples)-1].Price
		}
		printSummary(drv, mark)
		return nil
	},
}

func init() {
	backtestCmd.Flags().StringVarP(&backtestConfig, "config", "c", "config.yaml", "configuration file")
	backtestCmd.Flags().StringVarP(&backtestData, "data", "d", "", "CSV sample file (time,price,volume)")
	backtestCmd.Flags().StringVar(&backtestDB, "db", "", "SQLite journal path (optional)")
	backtestCmd.Flags().StringVar(&backtestCSVBase, "csv", "", "CSV journal base path, writes <base>_trades.csv and <base>_decisions.csv (optional)")
	backtestCmd.Flags().BoolVar(&backtestCloseEnd, "close-end", true, "close any open position at the final sample")
	backtestCmd.MarkFlagRequired("data")
	rootCmd.AddCommand(backtestCmd)
}

// openJournal picks the journal backend from flags. Both empty means no
// journaling; both set is an error.
func openJournal(dbPath, csvBase string) (journal.Journal, error) {
	switch {
	case dbPath != "" && csvBase != "":
		return nil, fmt.Errorf("choose one of --db and --csv, not both")
	case dbPath != "":
		return journal.NewSQLite(dbPath)
	case csvBase != "":
		return journal.NewCSV(csvBase+"_trades.csv", csvBase+"_decisions.csv")
	default:
		return nil, nil
	}
}

func printSummary(drv *engine.Driver, mark float64) {
	s := drv.Ledger().Summarize(mark)

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintf(w, "Trades:\t%d\n", s.TotalTrades)
	fmt.Fprintf(w, "Wins / Losses:\t%d / %d\n", s.Wins, s.Losses)
	fmt.Fprintf(w, "Win rate:\t%.1f%%\n", s.WinRate*100)
	fmt.Fprintf(w, "Net PnL:\t%.2f\n", s.TotalPnL)
	if s.ProfitFactor > 0 {
		fmt.Fprintf(w, "Profit factor:\t%.2f\n", s.ProfitFactor)
	}
	fmt.Fprintf(w, "Equity:\t%.2f\n", s.Equity)
	w.Flush()
}
