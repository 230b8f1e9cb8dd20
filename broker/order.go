package broker

import (
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/google/uuid"
)

// OrderInfo is the persistent record of a placed order. It is written once at
// placement; afterwards only the cancelled and claimed fields may change. The
// record is never deleted and serves as the audit trail of the order.
//
// The amounts form three legs which always add up to the total:
// what the AMM consumed at placement, what was taken from the resting book at
// placement, and what entered the book as a resting remainder.
type OrderInfo struct {
	ID     uint64         `json:"id"`
	PairID uint32         `json:"pair_id"`
	Owner  common.Address `json:"owner"`
	Side   Side           `json:"side"`
	Price  Uint           `json:"price"`

	// Original order size, both legs. The escrowed leg equals the amount
	// the owner paid in; the opposite leg is the sum of the executed and
	// placed components, so conservation holds on both by construction.
	TotalBase  Uint `json:"total_base"`
	TotalQuote Uint `json:"total_quote"`

	// Consumed against the pool at placement.
	AmmBase  Uint `json:"amm_base"`
	AmmQuote Uint `json:"amm_quote"`

	// Consumed from resting opposite-side liquidity at placement.
	TakenBase  Uint `json:"taken_base"`
	TakenQuote Uint `json:"taken_quote"`

	// Remainder entered into the book.
	PlacedBase  Uint `json:"placed_base"`
	PlacedQuote Uint `json:"placed_quote"`

	CancelledBase  Uint `json:"cancelled_base"`
	CancelledQuote Uint `json:"cancelled_quote"`
	ClaimedBase    Uint `json:"claimed_base"`
	ClaimedQuote   Uint `json:"claimed_quote"`

	// Generation of the price node when the remainder was inserted. The
	// whole lazy fill accounting anchors on this snapshot.
	Generation uint64 `json:"generation"`

	// Volume placed at the node ahead of this order within its generation,
	// snapshot before the remainder was added.
	AheadBase  Uint `json:"ahead_base"`
	AheadQuote Uint `json:"ahead_quote"`

	// Position of this order inside its node generation.
	CancelID uint64 `json:"cancel_id"`

	Fee       Uint      `json:"fee"`
	CreatedAt time.Time `json:"created_at"`
	UserID    uuid.UUID `json:"user_id"`
}

// IsBuy returns true for buy orders.
func (o *OrderInfo) IsBuy() bool {
	return o.Side == SideBuy
}

// Rested reports whether any remainder of the order entered the book.
func (o *OrderInfo) Rested() bool {
	return !o.PlacedBase.IsZero()
}

// EscrowedPlaced returns the still-escrowed leg of the book remainder:
// quote for buy orders, base for sell orders.
func (o *OrderInfo) EscrowedPlaced() Uint {
	if o.IsBuy() {
		return o.PlacedQuote
	}
	return o.PlacedBase
}

// FillState is the point-in-time fill accounting of an order's book
// remainder, derived lazily from the price node counters.
type FillState struct {
	FilledBase    Uint `json:"filled_base"`
	FilledQuote   Uint `json:"filled_quote"`
	UnfilledBase  Uint `json:"unfilled_base"`
	UnfilledQuote Uint `json:"unfilled_quote"`
}
