package broker

// PriceNode aggregates all resting liquidity at a single (pair, price, side)
// slot. Nodes are created lazily on first insertion and never deleted: when a
// fill drains a node completely its generation counter advances, which makes
// the slot reusable without touching any of the orders that rested in it.
type PriceNode struct {
	PairID uint32 `json:"pair_id"`
	Price  Uint   `json:"price"`
	Side   Side   `json:"side"`

	// Live unfilled resting liquidity, in both units.
	BaseAmount Uint `json:"base_amount"`
	QuoteTotal Uint `json:"quote_total"`

	// Cumulative volume placed at this node during the current generation.
	// Orders snapshot these before adding their remainder, which fixes their
	// FIFO position inside the generation.
	PlacedBase  Uint `json:"placed_base"`
	PlacedQuote Uint `json:"placed_quote"`

	// Cumulative volume consumed from this node by fills during the current
	// generation. Cancel-path consumption does not count here.
	FilledBase  Uint `json:"filled_base"`
	FilledQuote Uint `json:"filled_quote"`

	// EmptiedCount is the node generation: how many times the node has been
	// drained to zero by fills. Monotone non-decreasing.
	EmptiedCount uint64 `json:"emptied_count"`

	// EmptiedCountSibling is the opposite-side node generation observed at
	// this node's last generation advance.
	EmptiedCountSibling uint64 `json:"emptied_count_sibling"`

	// CancelSeq numbers order insertions within the current generation and
	// resets to zero whenever the generation advances. An order keeps the
	// value it drew as its CancelID.
	CancelSeq uint64 `json:"cancel_seq"`
}

// IsEmpty reports whether the node holds no live liquidity.
func (n *PriceNode) IsEmpty() bool {
	return n.BaseAmount.IsZero() && n.QuoteTotal.IsZero()
}

// CancelRecord remembers how much the order holding a given CancelID removed
// from its price node by cancellation. Fill attribution for orders positioned
// behind the cancelled one subtracts these amounts from their snapshots.
// Records are keyed by (pair, price, side, generation, cancel id), so records
// of drained generations are never consulted again.
type CancelRecord struct {
	Base  Uint `json:"base"`
	Quote Uint `json:"quote"`
}
