package signal

// Action is the evaluator's verdict for one sample.
type Action int

const (
	Hold Action = iota
	Buy
	Sell
)

func (a Action) String() string {
	switch a {
	case Buy:
		return "BUY"
	case Sell:
		return "SELL"
	default:
		return "HOLD"
	}
}

// Decision is an entry verdict plus diagnostics. For Hold, Reasons lists
// every enabled check that failed; for Buy it is empty.
type Decision struct {
	Action  Action
	Reasons []string
}

// ExitOrder is one exit leg the driver must apply to the ledger. Orders
// returned together are applied in slice order.
type ExitOrder struct {
	Qty    float64
	Reason string

	// TakeProfit marks a ladder leg; the driver consumes the front rung
	// after applying it.
	TakeProfit bool

	// SuppressEntries tells the driver to reject further entries for the
	// remainder of the session day (daily loss limit).
	SuppressEntries bool
}
