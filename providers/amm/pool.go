// Package amm implements a constant-product liquidity pool used by the
// engine as its AMM counterparty. Reserves are tracked in the transactional
// store; token balances backing them sit on a dedicated pool account.
package amm

import (
	"encoding/json"
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum/common"
	"go.uber.org/zap"

	"github.com/hybridex/broker/broker"
	"github.com/hybridex/broker/state"
)

// prefixReserves separates pool rows from the engine's and ledger's tables.
const prefixReserves byte = 0x20

// reserves is the persisted pool state for one pair.
type reserves struct {
	Base  broker.Uint `json:"base"`
	Quote broker.Uint `json:"quote"`
}

// Pool is a constant-product market maker over the pairs it has been seeded
// with. Swaps settle between the pool account and the counterparty account
// (the engine's escrow).
type Pool struct {
	token        broker.TokenAdapter
	account      common.Address
	counterparty common.Address
	logger       *zap.Logger
}

// NewPool creates a pool holding funds on account and settling swaps against
// counterparty. A nil logger is replaced with a nop logger.
func NewPool(token broker.TokenAdapter, account, counterparty common.Address, logger *zap.Logger) *Pool {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Pool{token: token, account: account, counterparty: counterparty, logger: logger}
}

var _ broker.AMMAdapter = (*Pool)(nil)

// Account returns the pool's fund-holding account.
func (p *Pool) Account() common.Address {
	return p.account
}

func reservesKey(pairID uint32) []byte {
	return state.Key(prefixReserves, []byte{
		byte(pairID >> 24), byte(pairID >> 16), byte(pairID >> 8), byte(pairID),
	})
}

func (p *Pool) loadReserves(s *state.Session, pairID uint32) (reserves, error) {
	raw, err := s.Get(reservesKey(pairID))
	if err != nil {
		return reserves{}, err
	}
	if raw == nil {
		return reserves{Base: broker.NewZeroUint(), Quote: broker.NewZeroUint()}, nil
	}
	var r reserves
	if err := json.Unmarshal(raw, &r); err != nil {
		return reserves{}, err
	}
	return r, nil
}

func (p *Pool) storeReserves(s *state.Session, pairID uint32, r reserves) {
	raw, err := json.Marshal(r)
	if err != nil {
		panic(err)
	}
	s.Set(reservesKey(pairID), raw)
}

// Reserves returns the pool's current reserves for a pair.
func (p *Pool) Reserves(s *state.Session, pairID uint32) (base, quote broker.Uint, err error) {
	r, err := p.loadReserves(s, pairID)
	if err != nil {
		return broker.Uint{}, broker.Uint{}, err
	}
	return r.Base, r.Quote, nil
}

// Seed moves liquidity from an account onto the pool and credits the pair's
// reserves. It may be called repeatedly to deepen the pool.
func (p *Pool) Seed(s *state.Session, pair broker.Pair, from common.Address, baseAmount, quoteAmount broker.Uint) error {
	ok, err := p.token.Transfer(s, pair.BaseToken, from, p.account, baseAmount)
	if err != nil {
		return err
	}
	if !ok {
		return fmt.Errorf("seed pair %d: insufficient base funds", pair.ID)
	}
	ok, err = p.token.Transfer(s, pair.QuoteToken, from, p.account, quoteAmount)
	if err != nil {
		return err
	}
	if !ok {
		return fmt.Errorf("seed pair %d: insufficient quote funds", pair.ID)
	}

	r, err := p.loadReserves(s, pair.ID)
	if err != nil {
		return err
	}
	r.Base = r.Base.Add(baseAmount)
	r.Quote = r.Quote.Add(quoteAmount)
	p.storeReserves(s, pair.ID, r)

	p.logger.Info("pool seeded",
		zap.Uint32("pair", pair.ID),
		zap.Stringer("base", r.Base),
		zap.Stringer("quote", r.Quote),
	)
	return nil
}

// SpotPrice returns the pool's marginal price in quote minimal units per
// whole base token, or zero when the pool is empty.
func (p *Pool) SpotPrice(s *state.Session, pair broker.Pair) (broker.Uint, error) {
	r, err := p.loadReserves(s, pair.ID)
	if err != nil {
		return broker.Uint{}, err
	}
	if r.Base.IsZero() {
		return broker.NewZeroUint(), nil
	}
	return r.Quote.MulDiv(pair.BaseUnit(), r.Base), nil
}

// QuoteUpTo returns the largest prefix of amountIn the pool absorbs without
// its marginal price moving past limitPrice, together with the output that
// prefix buys. Reserves are not mutated.
//
// For a buy the bound solves (Q+dq)^2 <= limit*Q*B/unit; for a sell it
// solves (B+db)^2 <= Q*B*unit/limit, both derived from the constant-product
// invariant with price defined as Q*unit/B.
func (p *Pool) QuoteUpTo(s *state.Session, pair broker.Pair, amountIn broker.Uint, isBuy bool, limitPrice broker.Uint) (broker.Uint, broker.Uint, error) {
	zero := broker.NewZeroUint()
	r, err := p.loadReserves(s, pair.ID)
	if err != nil {
		return zero, zero, err
	}
	if r.Base.IsZero() || r.Quote.IsZero() || amountIn.IsZero() || limitPrice.IsZero() {
		return zero, zero, nil
	}

	bound := swapBound(r, pair.BaseUnit(), isBuy, limitPrice)
	in := broker.Min(amountIn, bound)
	if in.IsZero() {
		return zero, zero, nil
	}
	out := swapOutput(r, isBuy, in)
	if out.IsZero() {
		return zero, zero, nil
	}
	return in, out, nil
}

// Swap executes a trade previously sized by QuoteUpTo: it pulls amountIn
// from the counterparty, pays out at the constant-product rate and updates
// the reserves.
func (p *Pool) Swap(s *state.Session, pair broker.Pair, isBuy bool, amountIn broker.Uint) (broker.Uint, error) {
	zero := broker.NewZeroUint()
	if amountIn.IsZero() {
		return zero, nil
	}
	r, err := p.loadReserves(s, pair.ID)
	if err != nil {
		return zero, err
	}
	if r.Base.IsZero() || r.Quote.IsZero() {
		return zero, fmt.Errorf("swap pair %d: empty pool", pair.ID)
	}

	out := swapOutput(r, isBuy, amountIn)
	if out.IsZero() {
		return zero, fmt.Errorf("swap pair %d: output rounds to zero", pair.ID)
	}

	inToken, outToken := pair.QuoteToken, pair.BaseToken
	if !isBuy {
		inToken, outToken = pair.BaseToken, pair.QuoteToken
	}
	ok, err := p.token.Transfer(s, inToken, p.counterparty, p.account, amountIn)
	if err != nil {
		return zero, err
	}
	if !ok {
		return zero, fmt.Errorf("swap pair %d: counterparty underfunded", pair.ID)
	}
	ok, err = p.token.Transfer(s, outToken, p.account, p.counterparty, out)
	if err != nil {
		return zero, err
	}
	if !ok {
		return zero, fmt.Errorf("swap pair %d: pool account underfunded", pair.ID)
	}

	if isBuy {
		r.Quote = r.Quote.Add(amountIn)
		r.Base = r.Base.Sub(out)
	} else {
		r.Base = r.Base.Add(amountIn)
		r.Quote = r.Quote.Sub(out)
	}
	p.storeReserves(s, pair.ID, r)

	p.logger.Debug("swap",
		zap.Uint32("pair", pair.ID),
		zap.Bool("buy", isBuy),
		zap.Stringer("in", amountIn),
		zap.Stringer("out", out),
	)
	return out, nil
}

// swapBound returns the maximal input that keeps the post-swap marginal
// price within the limit, zero when the pool already sits past it.
func swapBound(r reserves, baseUnit broker.Uint, isBuy bool, limitPrice broker.Uint) broker.Uint {
	product := new(big.Int).Mul(r.Quote.Big(), r.Base.Big())
	var target, current *big.Int
	if isBuy {
		// (Q + dq)^2 <= limit * Q * B / unit
		target = product.Mul(product, limitPrice.Big())
		target.Quo(target, baseUnit.Big())
		current = r.Quote.Big()
	} else {
		// (B + db)^2 <= Q * B * unit / limit
		target = product.Mul(product, baseUnit.Big())
		target.Quo(target, limitPrice.Big())
		current = r.Base.Big()
	}
	root := new(big.Int).Sqrt(target)
	if root.Cmp(current) <= 0 {
		return broker.NewZeroUint()
	}
	bound, ok := broker.NewUintFromBig(root.Sub(root, current))
	if !ok {
		return broker.NewMaxUint()
	}
	return bound
}

// swapOutput prices an input against the reserves at the constant-product
// rate, rounding the output down.
func swapOutput(r reserves, isBuy bool, in broker.Uint) broker.Uint {
	if isBuy {
		return r.Base.MulDiv(in, r.Quote.Add(in))
	}
	return r.Quote.MulDiv(in, r.Base.Add(in))
}
