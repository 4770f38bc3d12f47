// Package config loads and validates the run configuration.
//
// The configuration is a single YAML document validated once at run start.
// Every field the core reads must be present and in range; validation
// failure aborts before the first sample is processed. There are no
// per-field fallback defaults anywhere after Load returns.
package config

import (
	"bytes"
	"fmt"
	"math"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Config is the frozen run configuration. Components receive it by value
// and never mutate it.
type Config struct {
	Instrument InstrumentConfig `yaml:"instrument"`
	Capital    CapitalConfig    `yaml:"capital"`
	Risk       RiskConfig       `yaml:"risk"`
	Session    SessionConfig    `yaml:"session"`
	Strategy   StrategyConfig   `yaml:"strategy"`
}

type InstrumentConfig struct {
	Symbol   string  `yaml:"symbol"`
	TickSize float64 `yaml:"tick_size"`
}

type CapitalConfig struct {
	Initial        float64 `yaml:"initial"`
	CommissionRate float64 `yaml:"commission_rate"` // fraction of traded value per leg close
}

type RiskConfig struct {
	Quantity           float64   `yaml:"quantity"`
	StopLossPoints     float64   `yaml:"stop_loss_points"`
	TrailingStopPoints float64   `yaml:"trailing_stop_points"` // 0 disables trailing
	MaxPositionsPerDay int       `yaml:"max_positions_per_day"`
	MaxDailyLoss       float64   `yaml:"max_daily_loss"`
	TakeProfitPoints   []float64 `yaml:"take_profit_points"`
	TakeProfitPercents []float64 `yaml:"take_profit_percents"`
}

type SessionConfig struct {
	Start          string `yaml:"start"` // "09:15", exchange-local wall clock
	End            string `yaml:"end"`   // "15:30"
	StartBufferMin int    `yaml:"start_buffer_min"`
	EndBufferMin   int    `yaml:"end_buffer_min"`
}

// ChecksConfig enables individual entry checks. Entry is the logical AND
// of all enabled checks.
type ChecksConfig struct {
	EMACrossover bool `yaml:"ema_crossover"`
	VWAP         bool `yaml:"vwap"`
	MACD         bool `yaml:"macd"`
	RSI          bool `yaml:"rsi"`
	HTFTrend     bool `yaml:"htf_trend"`
	GreenTicks   bool `yaml:"green_ticks"`
}

type StrategyConfig struct {
	FastEMAPeriod    int     `yaml:"fast_ema_period"`
	SlowEMAPeriod    int     `yaml:"slow_ema_period"`
	MACDFastPeriod   int     `yaml:"macd_fast_period"`
	MACDSlowPeriod   int     `yaml:"macd_slow_period"`
	MACDSignalPeriod int     `yaml:"macd_signal_period"`
	RSIPeriod        int     `yaml:"rsi_period"`
	RSIMin           float64 `yaml:"rsi_min"`
	RSIMax           float64 `yaml:"rsi_max"`
	ATRPeriod        int     `yaml:"atr_period"`
	BollingerPeriod  int     `yaml:"bollinger_period"`
	BollingerK       float64 `yaml:"bollinger_k"`
	HTFSeconds       int     `yaml:"htf_seconds"`
	HTFFastPeriod    int     `yaml:"htf_fast_period"`
	HTFSlowPeriod    int     `yaml:"htf_slow_period"`
	GreenTickMin     int     `yaml:"green_tick_min"`
	NoisePct         float64 `yaml:"noise_pct"`
	NoiseMinTicks    int     `yaml:"noise_min_ticks"`

	Checks ChecksConfig `yaml:"checks"`
}

// Load reads and validates the configuration file.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config file: %w", err)
	}
	return Parse(data)
}

// Parse decodes and validates a YAML configuration document. Unknown keys
// are rejected so a typoed field cannot silently fall back to a zero value.
func Parse(data []byte) (*Config, error) {
	cfg := &Config{}

	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

// Validate checks every field the core reads. Errors here are fatal
// configuration errors: the run must not start.
func (c *Config) Validate() error {
	if c.Instrument.Symbol == "" {
		return fmt.Errorf("instrument.symbol is required")
	}
	if c.Instrument.TickSize <= 0 {
		return fmt.Errorf("instrument.tick_size must be positive")
	}

	if c.Capital.Initial <= 0 {
		return fmt.Errorf("capital.initial must be positive")
	}
	if c.Capital.CommissionRate < 0 || c.Capital.CommissionRate >= 1 {
		return fmt.Errorf("capital.commission_rate must be in [0, 1)")
	}

	if c.Risk.Quantity <= 0 {
		return fmt.Errorf("risk.quantity must be positive")
	}
	if c.Risk.StopLossPoints <= 0 {
		return fmt.Errorf("risk.stop_loss_points must be positive")
	}
	if c.Risk.TrailingStopPoints < 0 {
		return fmt.Errorf("risk.trailing_stop_points must not be negative")
	}
	if c.Risk.MaxPositionsPerDay <= 0 {
		return fmt.Errorf("risk.max_positions_per_day must be positive")
	}
	if c.Risk.MaxDailyLoss <= 0 {
		return fmt.Errorf("risk.max_daily_loss must be positive")
	}
	if len(c.Risk.TakeProfitPoints) == 0 {
		return fmt.Errorf("risk.take_profit_points is required")
	}
	if len(c.Risk.TakeProfitPoints) != len(c.Risk.TakeProfitPercents) {
		return fmt.Errorf("risk.take_profit_points and take_profit_percents must have equal length")
	}
	sum := 0.0
	prev := 0.0
	for i, pts := range c.Risk.TakeProfitPoints {
		if pts <= prev {
			return fmt.Errorf("risk.take_profit_points must be positive and strictly ascending")
		}
		prev = pts
		pct := c.Risk.TakeProfitPercents[i]
		if pct <= 0 || pct > 1 {
			return fmt.Errorf("risk.take_profit_percents[%d] must be in (0, 1]", i)
		}
		sum += pct
	}
	if math.Abs(sum-1.0) > 1e-9 {
		return fmt.Errorf("risk.take_profit_percents must sum to 1.0, got %v", sum)
	}

	start, err := parseClock(c.Session.Start)
	if err != nil {
		return fmt.Errorf("session.start: %w", err)
	}
	end, err := parseClock(c.Session.End)
	if err != nil {
		return fmt.Errorf("session.end: %w", err)
	}
	if end <= start {
		return fmt.Errorf("session.end must be after session.start")
	}
	if c.Session.StartBufferMin < 0 || c.Session.EndBufferMin < 0 {
		return fmt.Errorf("session buffers must not be negative")
	}
	if start+time.Duration(c.Session.StartBufferMin)*time.Minute >=
		end-time.Duration(c.Session.EndBufferMin)*time.Minute {
		return fmt.Errorf("session buffers leave no entry window")
	}

	s := c.Strategy
	if s.FastEMAPeriod <= 0 || s.SlowEMAPeriod <= 0 || s.FastEMAPeriod >= s.SlowEMAPeriod {
		return fmt.Errorf("strategy EMA periods must satisfy 0 < fast < slow")
	}
	if s.MACDFastPeriod <= 0 || s.MACDSlowPeriod <= 0 || s.MACDFastPeriod >= s.MACDSlowPeriod {
		return fmt.Errorf("strategy MACD periods must satisfy 0 < fast < slow")
	}
	if s.MACDSignalPeriod <= 0 {
		return fmt.Errorf("strategy.macd_signal_period must be positive")
	}
	if s.RSIPeriod <= 0 {
		return fmt.Errorf("strategy.rsi_period must be positive")
	}
	if s.RSIMin < 0 || s.RSIMax > 100 || s.RSIMin >= s.RSIMax {
		return fmt.Errorf("strategy RSI band must satisfy 0 <= min < max <= 100")
	}
	if s.ATRPeriod <= 0 {
		return fmt.Errorf("strategy.atr_period must be positive")
	}
	if s.BollingerPeriod <= 1 {
		return fmt.Errorf("strategy.bollinger_period must be greater than 1")
	}
	if s.BollingerK <= 0 {
		return fmt.Errorf("strategy.bollinger_k must be positive")
	}
	if s.HTFSeconds <= 0 {
		return fmt.Errorf("strategy.htf_seconds must be positive")
	}
	if s.HTFFastPeriod <= 0 || s.HTFSlowPeriod <= 0 || s.HTFFastPeriod >= s.HTFSlowPeriod {
		return fmt.Errorf("strategy HTF periods must satisfy 0 < fast < slow")
	}
	if s.GreenTickMin < 0 {
		return fmt.Errorf("strategy.green_tick_min must not be negative")
	}
	if s.NoisePct < 0 {
		return fmt.Errorf("strategy.noise_pct must not be negative")
	}
	if s.NoiseMinTicks <= 0 {
		return fmt.Errorf("strategy.noise_min_ticks must be positive")
	}

	return nil
}

// SessionWindow returns the session open/close and the buffered entry
// window as offsets from midnight of the sample's day.
func (c *Config) SessionWindow() (open, close, entryFrom, entryTo time.Duration) {
	// Validate() already proved these parse.
	open, _ = parseClock(c.Session.Start)
	close, _ = parseClock(c.Session.End)
	entryFrom = open + time.Duration(c.Session.StartBufferMin)*time.Minute
	entryTo = close - time.Duration(c.Session.EndBufferMin)*time.Minute
	return open, close, entryFrom, entryTo
}

func parseClock(s string) (time.Duration, error) {
	t, err := time.Parse("15:04", s)
	if err != nil {
		return 0, fmt.Errorf("want HH:MM wall clock, got %q", s)
	}
	return time.Duration(t.Hour())*time.Hour + time.Duration(t.Minute())*time.Minute, nil
}
