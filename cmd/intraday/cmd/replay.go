package cmd

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/traderlab/intraday/config"
	"github.com/traderlab/intraday/engine"
	"github.com/traderlab/intraday/market"
)

var (
	replayConfig  string
	replayData    string
	replayDB      string
	replayCSVBase string
	replayDelay   time.Duration
)

// replayCmd exercises the incremental delivery path: a producer goroutine
// feeds samples one at a time through a ChannelFeed, exactly as a live
// adapter would. The decisions and trades match a batch run over the same
// file.
var replayCmd = &cobra.Command{
	Use:   "replay",
	Short: "Replay a historical series through the incremental feed path",
	RunE: func(cmd *cobra.Command, args []string) error {
		log := newLogger()

		cfg, err := config.Load(replayConfig)
		if err != nil {
			log.Error().Err(err).Msg("configuration rejected")
			return err
		}

		samples, err := market.LoadCSV(replayData)
		if err != nil {
			return fmt.Errorf("load samples: %w", err)
		}
		log.Info().Int("samples", len(samples)).Dur("delay", replayDelay).Msg("replay starting")

		jnl, err := openJournal(replayDB, replayCSVBase)
		if err != nil {
			return err
		}
		if jnl != nil {
			defer jnl.Close()
		}

		drv := engine.New(*cfg, engine.Options{
			CloseEnd: true,
			Journal:  jnl,
			Logger:   &log,
		})

		feed := engine.NewChannelFeed(64)
		go func() {
			defer feed.Close()
			for _, s := range samples {
				feed.Push(s)
				if replayDelay > 0 {
					time.Sleep(replayDelay)
				}
			}
		}()

		if err := drv.RunFeed(cmd.Context(), feed); err != nil {
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
	replayCmd.Flags().StringVarP(&replayConfig, "config", "c", "config.yaml", "configuration file")
	replayCmd.Flags().StringVarP(&replayData, "data", "d", "", "CSV sample file (time,price,volume)")
	replayCmd.Flags().StringVar(&replayDB, "db", "", "SQLite journal path (optional)")
	replayCmd.Flags().StringVar(&replayCSVBase, "csv", "", "CSV journal base path (optional)")
	replayCmd.Flags().DurationVar(&replayDelay, "delay", 0, "pause between samples, e.g. 100ms")
	replayCmd.MarkFlagRequired("data")
	rootCmd.AddCommand(replayCmd)
}
