package broker

import (
	"github.com/tidwall/btree"
	"github.com/tidwall/hashmap"

	"github.com/hybridex/broker/state"
)

// PriceLevelStore owns the PriceNode aggregates and the ordered per-side
// price indexes used for best-price-first traversal.
//
// The index holds every price a node was ever created at: nodes are never
// deleted, an empty node simply stays dormant until a later insertion reuses
// it. Traversal reads the live aggregates from the session and skips dormant
// nodes, so a price left behind by an aborted operation is harmless.
type PriceLevelStore struct {
	indexes *hashmap.Map[uint64, *btree.BTreeG[Uint]]
}

// NewPriceLevelStore creates an empty store. Rebuild restores the indexes
// from committed state.
func NewPriceLevelStore() *PriceLevelStore {
	return &PriceLevelStore{
		indexes: hashmap.New[uint64, *btree.BTreeG[Uint]](defaultReservedPairSlots),
	}
}

func sideIndexKey(pairID uint32, side Side) uint64 {
	return uint64(pairID)<<8 | uint64(side)
}

func (ls *PriceLevelStore) index(pairID uint32, side Side) *btree.BTreeG[Uint] {
	key := sideIndexKey(pairID, side)
	if idx, ok := ls.indexes.Get(key); ok {
		return idx
	}
	idx := btree.NewBTreeG[Uint](func(a, b Uint) bool { return a.LessThan(b) })
	ls.indexes.Set(key, idx)
	return idx
}

// Rebuild restores the price indexes of a pair by walking its committed
// price node tables.
func (ls *PriceLevelStore) Rebuild(store *state.Store, pairID uint32) error {
	for _, side := range []Side{SideBuy, SideSell} {
		idx := ls.index(pairID, side)
		start, end := state.PrefixRange(nodeSidePrefix(pairID, side))
		err := store.Iterate(start, end, func(key, value []byte) bool {
			var node PriceNode
			if err := unmarshalRecord(value, &node); err == nil {
				idx.Set(node.Price)
			}
			return true
		})
		if err != nil {
			return err
		}
	}
	return nil
}

// GetOrCreate returns the node at (pair, price, side), creating a zero-valued
// one at generation 0 if the slot was never used.
func (ls *PriceLevelStore) GetOrCreate(s *state.Session, pairID uint32, price Uint, side Side) (*PriceNode, error) {
	node, err := ls.get(s, pairID, price, side)
	if err != nil {
		return nil, err
	}
	if node == nil {
		node = &PriceNode{PairID: pairID, Price: price, Side: side}
	}
	ls.index(pairID, side).Set(price)
	return node, nil
}

func (ls *PriceLevelStore) get(s *state.Session, pairID uint32, price Uint, side Side) (*PriceNode, error) {
	raw, err := s.Get(nodeKey(pairID, side, price))
	if err != nil {
		return nil, err
	}
	if raw == nil {
		return nil, nil
	}
	node := new(PriceNode)
	if err := unmarshalRecord(raw, node); err != nil {
		return nil, err
	}
	return node, nil
}

func (ls *PriceLevelStore) put(s *state.Session, node *PriceNode) {
	s.Set(nodeKey(node.PairID, node.Side, node.Price), marshalRecord(node))
}

// Add places resting liquidity on the node: live aggregates and the
// per-generation placement counters both grow.
func (ls *PriceLevelStore) Add(s *state.Session, node *PriceNode, base, quote Uint) {
	node.BaseAmount = node.BaseAmount.Add(base)
	node.QuoteTotal = node.QuoteTotal.Add(quote)
	node.PlacedBase = node.PlacedBase.Add(base)
	node.PlacedQuote = node.PlacedQuote.Add(quote)
	ls.put(s, node)
}

// Consume removes liquidity from the node. With fill=true the removal counts
// towards the generation fill counters, and draining both aggregates to zero
// advances the generation: every order of the old generation is then known to
// be fully consumed under FIFO, so the slot resets for reuse. A cancel-path
// zeroing leaves the generation alone; the node just goes dormant and future
// insertions keep extending the same generation.
func (ls *PriceLevelStore) Consume(s *state.Session, node *PriceNode, base, quote Uint, fill bool) error {
	if base.GreaterThan(node.BaseAmount) || quote.GreaterThan(node.QuoteTotal) {
		return ErrAggregateUnderflow
	}

	node.BaseAmount = node.BaseAmount.Sub(base)
	node.QuoteTotal = node.QuoteTotal.Sub(quote)

	if fill {
		node.FilledBase = node.FilledBase.Add(base)
		node.FilledQuote = node.FilledQuote.Add(quote)

		if node.IsEmpty() {
			node.EmptiedCount++
			node.PlacedBase = NewZeroUint()
			node.PlacedQuote = NewZeroUint()
			node.FilledBase = NewZeroUint()
			node.FilledQuote = NewZeroUint()
			node.CancelSeq = 0

			sibling, err := ls.get(s, node.PairID, node.Price, node.Side.Opposite())
			if err != nil {
				return err
			}
			if sibling != nil {
				node.EmptiedCountSibling = sibling.EmptiedCount
			}
		}
	}

	ls.put(s, node)
	return nil
}

// AscendPrices walks the known prices of a side in ascending order starting
// from the lowest. The callback returns false to stop.
func (ls *PriceLevelStore) AscendPrices(pairID uint32, side Side, fn func(price Uint) bool) {
	ls.index(pairID, side).Scan(fn)
}

// DescendPrices walks the known prices of a side in descending order starting
// from the highest.
func (ls *PriceLevelStore) DescendPrices(pairID uint32, side Side, fn func(price Uint) bool) {
	idx := ls.index(pairID, side)
	idx.Reverse(fn)
}

// cancelledAhead sums the cancel records of the node's current generation
// with a cancel id strictly below the given one: volume that was once ahead
// of the order in FIFO but left the queue by cancellation.
func (ls *PriceLevelStore) cancelledAhead(s *state.Session, node *PriceNode, cancelID uint64) (base, quote Uint, err error) {
	start := cancelGenPrefix(node.PairID, node.Side, node.Price, node.EmptiedCount)
	end := cancelKey(node.PairID, node.Side, node.Price, node.EmptiedCount, cancelID)
	err = s.Iterate(start, end, func(key, value []byte) bool {
		var rec CancelRecord
		if err := unmarshalRecord(value, &rec); err == nil {
			base = base.Add(rec.Base)
			quote = quote.Add(rec.Quote)
		}
		return true
	})
	return base, quote, err
}

// recordCancel accumulates a cancel record for the order holding cancelID in
// the node's current generation.
func (ls *PriceLevelStore) recordCancel(s *state.Session, node *PriceNode, cancelID uint64, base, quote Uint) error {
	key := cancelKey(node.PairID, node.Side, node.Price, node.EmptiedCount, cancelID)
	rec := CancelRecord{}
	raw, err := s.Get(key)
	if err != nil {
		return err
	}
	if raw != nil {
		if err := unmarshalRecord(raw, &rec); err != nil {
			return err
		}
	}
	rec.Base = rec.Base.Add(base)
	rec.Quote = rec.Quote.Add(quote)
	s.Set(key, marshalRecord(rec))
	return nil
}
