package journal

import (
	"database/sql"

	_ "github.com/mattn/go-sqlite3"
)

type SQLite struct {
	db *sql.DB
}

func NewSQLite(path string) (*SQLite, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, err
	}
	if _, err := db.Exec(Schema); err != nil {
		db.Close()
		return nil, err
	}
	return &SQLite{db: db}, nil
}

func (j *SQLite) RecordTrade(t TradeRecord) error {
	_, err := j.db.Exec(`
		INSERT INTO trades
		(trade_id, position_id, symbol, entry_time, exit_time, entry_price, exit_price, quantity, gross_pnl, commission, net_pnl, exit_reason)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		t.TradeID, t.PositionID, t.Symbol, t.EntryTime, t.ExitTime,
		t.EntryPrice, t.ExitPrice, t.Quantity, t.GrossPnL, t.Commission, t.NetPnL, t.ExitReason,
	)
	return err
}

func (j *SQLite) RecordDecision(d DecisionRecord) error {
	_, err := j.db.Exec(`
		INSERT INTO decisions (time, decision, reasons)
		VALUES (?, ?, ?)`,
		d.Time, d.Decision, d.Reasons,
	)
	return err
}

func (j *SQLite) Close() error {
	return j.db.Close()
}
