package journal

import (
	"database/sql"
	"fmt"
	"time"
)

// GetTrade returns a single trade record by ID.
func (j *SQLite) GetTrade(tradeID string) (TradeRecord, error) {
	row := j.db.QueryRow(`
		SELECT trade_id, position_id, symbol, entry_time, exit_time, entry_price, exit_price, quantity, gross_pnl, commission, net_pnl, exit_reason
		FROM trades
		WHERE trade_id = ?`, tradeID)

	var rec TradeRecord
	err := scanTrade(row.Scan, &rec)
	if err != nil {
		if err == sql.ErrNoRows {
			return TradeRecord{}, fmt.Errorf("trade %q not found", tradeID)
		}
		return TradeRecord{}, err
	}
	return rec, nil
}

// ListTradesClosedBetween returns trades with exit_time in [start, end),
// ordered by exit time.
func (j *SQLite) ListTradesClosedBetween(start, end time.Time) ([]TradeRecord, error) {
	rows, err := j.db.Query(`
		SELECT trade_id, position_id, symbol, entry_time, exit_time, entry_price, exit_price, quantity, gross_pnl, commission, net_pnl, exit_reason
		FROM trades
		WHERE exit_time >= ? AND exit_time < ?
		ORDER BY exit_time ASC`, start, end)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []TradeRecord
	for rows.Next() {
		var rec TradeRecord
		if err := scanTrade(rows.Scan, &rec); err != nil {
			return nil, err
		}
		out = append(out, rec)
	}
	return out, rows.Err()
}

// ListDecisionsBetween returns decision events with time in [start, end).
func (j *SQLite) ListDecisionsBetween(start, end time.Time) ([]DecisionRecord, error) {
	rows, err := j.db.Query(`
		SELECT time, decision, reasons
		FROM decisions
		WHERE time >= ? AND time < ?
		ORDER BY time ASC`, start, end)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []DecisionRecord
	for rows.Next() {
		var rec DecisionRecord
		if err := rows.Scan(&rec.Time, &rec.Decision, &rec.Reasons); err != nil {
			return nil, err
		}
		out = append(out, rec)
	}
	return out, rows.Err()
}

func scanTrade(scan func(dest ...any) error, rec *TradeRecord) error {
	return scan(
		&rec.TradeID,
		&rec.PositionID,
		&rec.Symbol,
		&rec.EntryTime,
		&rec.ExitTime,
		&rec.EntryPrice,
		&rec.ExitPrice,
		&rec.Quantity,
		&rec.GrossPnL,
		&rec.Commission,
		&rec.NetPnL,
		&rec.ExitReason,
	)
}
