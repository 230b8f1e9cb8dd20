package broker

// Side is an enumeration of possible trading sides (buy/sell).
type Side uint8

const (
	// SideBuy represents the market side which includes only buy orders (bids).
	SideBuy Side = iota + 1
	// SideSell represents the market side which includes only sell orders (asks).
	SideSell
)

// Opposite returns the paired side.
func (s Side) Opposite() Side {
	if s == SideBuy {
		return SideSell
	}
	return SideBuy
}

func (s Side) Valid() bool {
	return s == SideBuy || s == SideSell
}

func (s Side) String() string {
	switch s {
	case SideBuy:
		return "buy"
	case SideSell:
		return "sell"
	default:
		return "unknown"
	}
}
