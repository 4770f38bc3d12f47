package journal

import (
	"encoding/csv"
	"os"
	"strconv"
	"time"
)

type CSV struct {
	trades    *csv.Writer
	decisions *csv.Writer
	tf, df    *os.File
}

func NewCSV(tradesPath, decisionsPath string) (*CSV, error) {
	tf, err := os.Create(tradesPath)
	if err != nil {
		return nil, err
	}
	df, err := os.Create(decisionsPath)
	if err != nil {
		tf.Close()
		return nil, err
	}

	tw := csv.NewWriter(tf)
	dw := csv.NewWriter(df)

	if err := tw.Write([]string{"trade_id", "position_id", "symbol", "entry_time", "exit_time", "entry_price", "exit_price", "quantity", "gross_pnl", "commission", "net_pnl", "exit_reason"}); err != nil {
		return nil, err
	}
	if err := dw.Write([]string{"time", "decision", "reasons"}); err != nil {
		return nil, err
	}

	tw.Flush()
	if err := tw.Error(); err != nil {
		return nil, err
	}
	dw.Flush()
	if err := dw.Error(); err != nil {
		return nil, err
	}

	return &CSV{trades: tw, decisions: dw, tf: tf, df: df}, nil
}

func (j *CSV) RecordTrade(t TradeRecord) error {
	err := j.trades.Write([]string{
		t.TradeID,
		t.PositionID,
		t.Symbol,
		t.EntryTime.Format(time.RFC3339),
		t.ExitTime.Format(time.RFC3339),
		f(t.EntryPrice),
		f(t.ExitPrice),
		f(t.Quantity),
		f(t.GrossPnL),
		f(t.Commission),
		f(t.NetPnL),
		t.ExitReason,
	})
	if err != nil {
		return err
	}
	j.trades.Flush()
	return j.trades.Error()
}

func (j *CSV) RecordDecision(d DecisionRecord) error {
	err := j.decisions.Write([]string{
		d.Time.Format(time.RFC3339),
		d.Decision,
		d.Reasons,
	})
	if err != nil {
		return err
	}
	j.decisions.Flush()
	return j.decisions.Error()
}

func (j *CSV) Close() error {
	j.trades.Flush()
	if err := j.trades.Error(); err != nil {
		return err
	}
	j.decisions.Flush()
	if err := j.decisions.Error(); err != nil {
		return err
	}
	if err := j.tf.Close(); err != nil {
		return err
	}
	return j.df.Close()
}

func f(x float64) string {
	return strconv.FormatFloat(x, 'f', 6, 64)
}
