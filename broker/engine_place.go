package broker

import (
	"fmt"

	"github.com/ethereum/go-ethereum/common"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/hybridex/broker/state"
)

// PlaceOrder escrows amountIn from the owner and executes it against the
// pool and the resting book up to the limit price; any unmatched remainder
// enters the book as a resting order.
//
// amountIn is denominated in the token the owner pays: quote for buy orders,
// base for sell orders. The returned record carries the full placement
// breakdown.
func (b *Broker) PlaceOrder(pairID uint32, side Side, price Uint, amountIn Uint, owner common.Address, userID uuid.UUID) (*OrderInfo, error) {
	if err := b.enter(); err != nil {
		return nil, err
	}
	defer b.exit()

	s := b.store.Begin()
	defer s.Discard()

	pair, err := b.pairs.Get(s, pairID)
	if err != nil {
		return nil, err
	}
	if !side.Valid() {
		return nil, ErrInvalidOrder
	}
	if !pair.ValidPrice(price) {
		return nil, ErrInvalidOrderPrice
	}
	if owner == (common.Address{}) || owner == b.escrow {
		return nil, ErrInvalidOwner
	}
	if amountIn.IsZero() {
		return nil, ErrInvalidOrderAmount
	}

	// Escrow before computing any fill: a failing escrow aborts with no
	// state change at all.
	inToken, outToken := pair.BaseToken, pair.QuoteToken
	if side == SideBuy {
		inToken, outToken = pair.QuoteToken, pair.BaseToken
	}
	if err := b.escrowIn(s, inToken, owner, amountIn); err != nil {
		return nil, err
	}

	order := &OrderInfo{
		PairID:    pairID,
		Owner:     owner,
		Side:      side,
		Price:     price,
		CreatedAt: b.clock().UTC(),
		UserID:    userID,
	}

	// Pool pre-fill, bounded so the pool never moves past the limit price.
	restIn := amountIn
	inConsumed, _, err := b.amm.QuoteUpTo(s, pair, restIn, side == SideBuy, price)
	if err != nil {
		return nil, fmt.Errorf("amm quote failed: %w", err)
	}
	if !inConsumed.IsZero() {
		outReceived, err := b.amm.Swap(s, pair, side == SideBuy, inConsumed)
		if err != nil {
			return nil, fmt.Errorf("amm swap failed: %w", err)
		}
		if side == SideBuy {
			order.AmmQuote, order.AmmBase = inConsumed, outReceived
		} else {
			order.AmmBase, order.AmmQuote = inConsumed, outReceived
		}
		restIn = restIn.Sub(inConsumed)
		b.handler.OnAmmTrade(order, order.AmmBase, order.AmmQuote)
		b.metrics.AmmFills.Inc()
	}

	// Consume crossable resting liquidity, best price first.
	if !restIn.IsZero() {
		restIn, err = b.crossBook(s, pair, order, restIn)
		if err != nil {
			return nil, err
		}
	}

	// Any unmatched remainder rests in the book.
	if !restIn.IsZero() {
		if err := b.insertRemainder(s, pair, order, restIn); err != nil {
			return nil, err
		}
	}

	order.TotalBase = order.AmmBase.Add(order.TakenBase).Add(order.PlacedBase)
	order.TotalQuote = order.AmmQuote.Add(order.TakenQuote).Add(order.PlacedQuote)

	// Fee on the taker-consumed portion, deducted from proceeds before
	// payout. Resting remainders pay nothing here; makers claim fee-free.
	proceeds := order.AmmQuote.Add(order.TakenQuote)
	if side == SideBuy {
		proceeds = order.AmmBase.Add(order.TakenBase)
	}
	if !proceeds.IsZero() {
		order.Fee = b.fees.TakerFee(pair, proceeds)
		if err := b.payOut(s, outToken, owner, proceeds.Sub(order.Fee)); err != nil {
			return nil, err
		}
		if err := b.payOut(s, outToken, b.feeSink, order.Fee); err != nil {
			return nil, err
		}
	}

	if err := b.orders.Create(s, order); err != nil {
		return nil, err
	}

	b.handler.OnPlaceOrder(order)

	if err := s.Commit(); err != nil {
		return nil, err
	}
	b.metrics.OrdersPlaced.Inc()
	b.logger.Debug("order placed",
		zap.Uint64("order_id", order.ID),
		zap.Uint32("pair_id", pairID),
		zap.Stringer("side", side),
		zap.Stringer("price", price),
		zap.Stringer("amount_in", amountIn),
		zap.Stringer("placed_base", order.PlacedBase),
	)
	return order, nil
}

// crossBook walks opposite-side price nodes in price priority (lowest ask
// first for a buy, highest bid first for a sell) and consumes their
// aggregates until the order's budget is exhausted or no crossable level
// remains. Only aggregates change here: resting orders resolve their own
// fill state later from the node counters.
func (b *Broker) crossBook(s *state.Session, pair Pair, order *OrderInfo, restIn Uint) (Uint, error) {
	var walkErr error

	visit := func(price Uint) bool {
		if restIn.IsZero() {
			return false
		}
		// Crossable means at-or-better than the order's limit.
		if order.IsBuy() && price.GreaterThan(order.Price) {
			return false
		}
		if !order.IsBuy() && price.LessThan(order.Price) {
			return false
		}

		node, err := b.levels.get(s, pair.ID, price, order.Side.Opposite())
		if err != nil {
			walkErr = err
			return false
		}
		if node == nil || node.IsEmpty() {
			return true
		}

		takeBase, takeQuote := b.levelTake(pair, order, node, restIn)
		if takeBase.IsZero() || takeQuote.IsZero() {
			// The remaining budget is below one price unit of this level.
			return false
		}

		generation := node.EmptiedCount
		if err := b.levels.Consume(s, node, takeBase, takeQuote, true); err != nil {
			walkErr = err
			return false
		}

		order.TakenBase = order.TakenBase.Add(takeBase)
		order.TakenQuote = order.TakenQuote.Add(takeQuote)
		if order.IsBuy() {
			restIn = restIn.Sub(takeQuote)
		} else {
			restIn = restIn.Sub(takeBase)
		}

		b.handler.OnConsumeLevel(node, takeBase, takeQuote)
		b.metrics.BookFills.Inc()
		if node.EmptiedCount > generation {
			b.handler.OnEmptyLevel(node)
			b.metrics.LevelsEmptied.Inc()
		}

		return !restIn.IsZero()
	}

	if order.IsBuy() {
		b.levels.AscendPrices(pair.ID, SideSell, visit)
	} else {
		b.levels.DescendPrices(pair.ID, SideBuy, visit)
	}
	return restIn, walkErr
}

// levelTake computes how much of a node the order consumes. Draining the
// whole node takes both aggregates exactly, so rounding dust cannot strand a
// generation; a partial take converts the budget at the node price, rounding
// down.
func (b *Broker) levelTake(pair Pair, order *OrderInfo, node *PriceNode, restIn Uint) (takeBase, takeQuote Uint) {
	if order.IsBuy() {
		if restIn.GreaterThanOrEqualTo(node.QuoteTotal) {
			return node.BaseAmount, node.QuoteTotal
		}
		takeBase = Min(pair.QuoteToBase(restIn, node.Price), node.BaseAmount)
		takeQuote = Min(pair.BaseToQuote(takeBase, node.Price), restIn)
		return takeBase, takeQuote
	}

	if restIn.GreaterThanOrEqualTo(node.BaseAmount) {
		return node.BaseAmount, node.QuoteTotal
	}
	takeBase = restIn
	takeQuote = Min(pair.BaseToQuote(takeBase, node.Price), node.QuoteTotal)
	return takeBase, takeQuote
}

// insertRemainder enters the unmatched remainder into the book. The order
// snapshots the node generation and the volume placed ahead of it before the
// remainder is added; those two numbers are all settlement ever needs to
// locate the order inside the level's FIFO.
func (b *Broker) insertRemainder(s *state.Session, pair Pair, order *OrderInfo, restIn Uint) error {
	var placedBase, placedQuote Uint
	if order.IsBuy() {
		placedQuote = restIn
		placedBase = pair.QuoteToBase(restIn, order.Price)
	} else {
		placedBase = restIn
		placedQuote = pair.BaseToQuote(restIn, order.Price)
	}

	// A remainder whose opposite leg rounds to zero cannot be priced;
	// refund it rather than strand it in the book.
	if placedBase.IsZero() || placedQuote.IsZero() {
		token := pair.BaseToken
		if order.IsBuy() {
			token = pair.QuoteToken
		}
		return b.payOut(s, token, order.Owner, restIn)
	}

	node, err := b.levels.GetOrCreate(s, pair.ID, order.Price, order.Side)
	if err != nil {
		return err
	}

	order.Generation = node.EmptiedCount
	order.AheadBase = node.PlacedBase
	order.AheadQuote = node.PlacedQuote
	order.CancelID = node.CancelSeq
	node.CancelSeq++

	order.PlacedBase = placedBase
	order.PlacedQuote = placedQuote
	b.levels.Add(s, node, placedBase, placedQuote)
	return nil
}
