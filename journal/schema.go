package journal

const Schema = `
CREATE TABLE IF NOT EXISTS trades (
	trade_id TEXT PRIMARY KEY,
	position_id TEXT NOT NULL,
	symbol TEXT NOT NULL,
	entry_time DATETIME NOT NULL,
	exit_time DATETIME NOT NULL,
	entry_price REAL NOT NULL,
	exit_price REAL NOT NULL,
	quantity REAL NOT NULL,
	gross_pnl REAL NOT NULL,
	commission REAL NOT NULL,
	net_pnl REAL NOT NULL,
	exit_reason TEXT NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_trades_exit_time ON trades(exit_time);

CREATE TABLE IF NOT EXISTS decisions (
	time DATETIME NOT NULL,
	decision TEXT NOT NULL,
	reasons TEXT NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_decisions_time ON decisions(time);
`
