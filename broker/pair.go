package broker

import (
	"github.com/ethereum/go-ethereum/common"
)

// Pair contains immutable metadata of a trading pair. A pair is created once
// at registration and never changes afterwards: the price level indexing
// depends on TreeWidth and PricePrecision staying fixed.
type Pair struct {
	ID         uint32         `json:"id"`
	BaseToken  common.Address `json:"base_token"`
	QuoteToken common.Address `json:"quote_token"`

	// TreeWidth is the branching factor of the price index.
	TreeWidth uint32 `json:"tree_width"`

	// PricePrecision is the price tick: every order price must be a positive
	// multiple of it.
	PricePrecision Uint `json:"price_precision"`

	BaseDecimals  uint8 `json:"base_decimals"`
	QuoteDecimals uint8 `json:"quote_decimals"`
}

// Valid reports whether the pair metadata can be registered.
func (p Pair) Valid() bool {
	if p.BaseToken == (common.Address{}) || p.QuoteToken == (common.Address{}) {
		return false
	}
	if p.BaseToken == p.QuoteToken {
		return false
	}
	if p.TreeWidth == 0 {
		return false
	}
	if p.PricePrecision.IsZero() {
		return false
	}
	return true
}

// BaseUnit returns 10^BaseDecimals, the amount of minimal units in one whole
// base token. Prices are expressed in quote minimal units per whole base token.
func (p Pair) BaseUnit() Uint {
	return Pow10(p.BaseDecimals)
}

// BaseToQuote converts a base amount to its quote equivalent at the given
// price, rounding down.
func (p Pair) BaseToQuote(base Uint, price Uint) Uint {
	return base.MulDiv(price, p.BaseUnit())
}

// QuoteToBase converts a quote amount to its base equivalent at the given
// price, rounding down.
func (p Pair) QuoteToBase(quote Uint, price Uint) Uint {
	return quote.MulDiv(p.BaseUnit(), price)
}

// ValidPrice reports whether price is a positive multiple of the pair tick.
func (p Pair) ValidPrice(price Uint) bool {
	if price.IsZero() {
		return false
	}
	_, rem := price.QuoRem(p.PricePrecision)
	return rem.IsZero()
}
