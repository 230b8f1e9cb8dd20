package broker

import (
	"github.com/ethereum/go-ethereum/common"
	"go.uber.org/zap"

	"github.com/hybridex/broker/state"
)

// FillState derives the current fill accounting of an order's book remainder
// without touching any state.
func (b *Broker) FillState(orderID uint64) (FillState, error) {
	s := b.store.Begin()
	defer s.Discard()

	order, err := b.orders.Get(s, orderID)
	if err != nil {
		return FillState{}, err
	}
	fs, _, err := b.computeFillState(s, order)
	if err != nil {
		return FillState{}, err
	}
	return fs, nil
}

// computeFillState compares the order's insertion snapshots against the live
// node counters.
//
// If the node generation advanced past the order's snapshot, the whole
// remainder (minus what the order itself cancelled) is filled: a generation
// only advances once every order of the previous generation has been entirely
// consumed by fills under FIFO, so no per-order bookkeeping is needed.
//
// Within the same generation, the volume filled ahead of the order is its
// placed-ahead snapshot reduced by whatever ahead-positioned volume left the
// queue through cancellation; everything the level filled beyond that belongs
// to this order, capped by its own remaining size.
func (b *Broker) computeFillState(s *state.Session, order *OrderInfo) (FillState, *PriceNode, error) {
	var fs FillState
	if !order.Rested() {
		return fs, nil, nil
	}

	node, err := b.levels.get(s, order.PairID, order.Price, order.Side)
	if err != nil {
		return fs, nil, err
	}
	if node == nil {
		// The node is created when the first remainder rests at the price;
		// a rested order without its node means corrupted state.
		return fs, nil, ErrAggregateUnderflow
	}

	capBase := order.PlacedBase.Sub(order.CancelledBase)
	capQuote := order.PlacedQuote.Sub(order.CancelledQuote)

	if node.EmptiedCount > order.Generation {
		fs.FilledBase, fs.FilledQuote = capBase, capQuote
		return fs, node, nil
	}

	cancelledAheadBase, cancelledAheadQuote, err := b.levels.cancelledAhead(s, node, order.CancelID)
	if err != nil {
		return fs, nil, err
	}

	fs.FilledBase = clipFill(node.FilledBase, order.AheadBase, cancelledAheadBase, capBase)
	fs.FilledQuote = clipFill(node.FilledQuote, order.AheadQuote, cancelledAheadQuote, capQuote)
	fs.UnfilledBase = capBase.Sub(fs.FilledBase)
	fs.UnfilledQuote = capQuote.Sub(fs.FilledQuote)
	return fs, node, nil
}

// clipFill attributes the level's generation fill volume to one order:
// filled = clip(levelFilled - (ahead - cancelledAhead), 0, limit).
func clipFill(levelFilled, ahead, cancelledAhead, limit Uint) Uint {
	if cancelledAhead.LessThan(ahead) {
		ahead = ahead.Sub(cancelledAhead)
	} else {
		ahead = NewZeroUint()
	}
	if levelFilled.LessThanOrEqualTo(ahead) {
		return NewZeroUint()
	}
	return Min(levelFilled.Sub(ahead), limit)
}

// Cancel withdraws up to the unfilled remainder of an order from the book and
// refunds the owner. Cancellation never advances the node generation: the
// level merely shrinks, staying reusable at the same generation.
func (b *Broker) Cancel(caller common.Address, orderID uint64, requestedBase Uint) error {
	if err := b.enter(); err != nil {
		return err
	}
	defer b.exit()

	s := b.store.Begin()
	defer s.Discard()

	order, err := b.orders.Get(s, orderID)
	if err != nil {
		return err
	}
	if caller != order.Owner {
		return ErrUnauthorized
	}
	if requestedBase.IsZero() {
		return ErrInvalidOrderAmount
	}

	fs, node, err := b.computeFillState(s, order)
	if err != nil {
		return err
	}
	if node == nil {
		// Nothing ever rested, so nothing can be cancelled.
		return ErrOverCancel
	}
	if node.EmptiedCount > order.Generation {
		return ErrStaleGeneration
	}
	if requestedBase.GreaterThan(fs.UnfilledBase) {
		return ErrOverCancel
	}

	pair, err := b.pairs.Get(s, order.PairID)
	if err != nil {
		return err
	}

	// Cancelling the entire remainder releases the exact unfilled quote leg;
	// a partial cancel converts at the order price.
	cancelQuote := pair.BaseToQuote(requestedBase, order.Price)
	if requestedBase.Equals(fs.UnfilledBase) {
		cancelQuote = fs.UnfilledQuote
	}

	if err := b.levels.Consume(s, node, requestedBase, cancelQuote, false); err != nil {
		return err
	}
	if err := b.levels.recordCancel(s, node, order.CancelID, requestedBase, cancelQuote); err != nil {
		return err
	}

	err = b.orders.Update(s, orderID, func(o *OrderInfo) {
		o.CancelledBase = o.CancelledBase.Add(requestedBase)
		o.CancelledQuote = o.CancelledQuote.Add(cancelQuote)
	})
	if err != nil {
		return err
	}

	// Refund the escrowed leg: quote for buy orders, base for sell orders.
	refundToken, refundAmount := pair.BaseToken, requestedBase
	if order.IsBuy() {
		refundToken, refundAmount = pair.QuoteToken, cancelQuote
	}
	if err := b.payOut(s, refundToken, order.Owner, refundAmount); err != nil {
		return err
	}

	b.handler.OnCancelOrder(order, requestedBase, cancelQuote)

	if err := s.Commit(); err != nil {
		return err
	}
	b.metrics.OrdersCanceled.Inc()
	b.logger.Debug("order cancelled",
		zap.Uint64("order_id", orderID),
		zap.Stringer("base", requestedBase),
		zap.Stringer("quote", cancelQuote),
	)
	return nil
}

// Claim pays out the filled-but-unclaimed proceeds of an order to its owner.
// Claiming is idempotent: a second claim with no intervening fill finds zero
// claimable and fails with ErrNothingToClaim, moving no tokens.
func (b *Broker) Claim(caller common.Address, orderID uint64) error {
	if err := b.enter(); err != nil {
		return err
	}
	defer b.exit()

	s := b.store.Begin()
	defer s.Discard()

	order, err := b.orders.Get(s, orderID)
	if err != nil {
		return err
	}
	if caller != order.Owner {
		return ErrUnauthorized
	}

	fs, _, err := b.computeFillState(s, order)
	if err != nil {
		return err
	}

	claimBase := floorSub(fs.FilledBase, order.ClaimedBase)
	claimQuote := floorSub(fs.FilledQuote, order.ClaimedQuote)

	// A maker receives the opposite token of the one it escrowed.
	pair, err := b.pairs.Get(s, order.PairID)
	if err != nil {
		return err
	}
	payToken, payAmount := pair.QuoteToken, claimQuote
	if order.IsBuy() {
		payToken, payAmount = pair.BaseToken, claimBase
	}
	if payAmount.IsZero() {
		return ErrNothingToClaim
	}

	if err := b.payOut(s, payToken, order.Owner, payAmount); err != nil {
		return err
	}

	err = b.orders.Update(s, orderID, func(o *OrderInfo) {
		o.ClaimedBase = o.ClaimedBase.Add(claimBase)
		o.ClaimedQuote = o.ClaimedQuote.Add(claimQuote)
	})
	if err != nil {
		return err
	}

	b.handler.OnClaimOrder(order, claimBase, claimQuote)

	if err := s.Commit(); err != nil {
		return err
	}
	b.metrics.Claims.Inc()
	b.logger.Debug("order claimed",
		zap.Uint64("order_id", orderID),
		zap.Stringer("base", claimBase),
		zap.Stringer("quote", claimQuote),
	)
	return nil
}

// floorSub returns a-b floored at zero.
func floorSub(a, b Uint) Uint {
	if a.LessThanOrEqualTo(b) {
		return NewZeroUint()
	}
	return a.Sub(b)
}
