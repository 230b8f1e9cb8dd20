package broker

import (
	"testing"

	"github.com/stretchr/testify/require"
	dbm "github.com/tendermint/tm-db"

	"github.com/hybridex/broker/state"
)

func newLevelFixture(t *testing.T) (*PriceLevelStore, *state.Session) {
	t.Helper()
	store := state.NewStore(dbm.NewMemDB(), nil)
	s := store.Begin()
	t.Cleanup(s.Discard)
	return NewPriceLevelStore(), s
}

func TestLevelAddAndConsume(t *testing.T) {
	ls, s := newLevelFixture(t)

	node, err := ls.GetOrCreate(s, 1, NewUint(100), SideSell)
	require.NoError(t, err)
	require.True(t, node.IsEmpty())
	require.EqualValues(t, 0, node.EmptiedCount)

	ls.Add(s, node, NewUint(10), NewUint(1000))
	ls.Add(s, node, NewUint(5), NewUint(500))
	require.True(t, node.BaseAmount.Equals64(15))
	require.True(t, node.QuoteTotal.Equals64(1500))
	require.True(t, node.PlacedBase.Equals64(15))
	require.True(t, node.PlacedQuote.Equals64(1500))

	require.NoError(t, ls.Consume(s, node, NewUint(6), NewUint(600), true))
	require.True(t, node.BaseAmount.Equals64(9))
	require.True(t, node.FilledBase.Equals64(6))
	require.EqualValues(t, 0, node.EmptiedCount)

	t.Run("underflow is rejected", func(t *testing.T) {
		err := ls.Consume(s, node, NewUint(100), NewUint(1), true)
		require.ErrorIs(t, err, ErrAggregateUnderflow)
		err = ls.Consume(s, node, NewUint(1), NewUint(100_000), true)
		require.ErrorIs(t, err, ErrAggregateUnderflow)
	})
}

func TestLevelGenerationAdvancesOnFillDrain(t *testing.T) {
	ls, s := newLevelFixture(t)

	node, err := ls.GetOrCreate(s, 1, NewUint(100), SideSell)
	require.NoError(t, err)
	ls.Add(s, node, NewUint(10), NewUint(1000))
	node.CancelSeq = 3

	require.NoError(t, ls.Consume(s, node, NewUint(10), NewUint(1000), true))

	// The drain resets the slot for the next generation.
	require.EqualValues(t, 1, node.EmptiedCount)
	require.True(t, node.PlacedBase.IsZero())
	require.True(t, node.PlacedQuote.IsZero())
	require.True(t, node.FilledBase.IsZero())
	require.True(t, node.FilledQuote.IsZero())
	require.EqualValues(t, 0, node.CancelSeq)

	// The persisted copy carries the bump too.
	reloaded, err := ls.get(s, 1, NewUint(100), SideSell)
	require.NoError(t, err)
	require.EqualValues(t, 1, reloaded.EmptiedCount)
}

func TestLevelGenerationSurvivesCancelDrain(t *testing.T) {
	ls, s := newLevelFixture(t)

	node, err := ls.GetOrCreate(s, 1, NewUint(100), SideSell)
	require.NoError(t, err)
	ls.Add(s, node, NewUint(10), NewUint(1000))
	require.NoError(t, ls.Consume(s, node, NewUint(4), NewUint(400), true))

	// Cancelling the rest zeroes the aggregates but keeps the generation,
	// so later insertions extend the same FIFO epoch.
	require.NoError(t, ls.Consume(s, node, NewUint(6), NewUint(600), false))
	require.True(t, node.IsEmpty())
	require.EqualValues(t, 0, node.EmptiedCount)
	require.True(t, node.FilledBase.Equals64(4))
	require.True(t, node.PlacedBase.Equals64(10))
}

func TestLevelSiblingGenerationSnapshot(t *testing.T) {
	ls, s := newLevelFixture(t)

	buy, err := ls.GetOrCreate(s, 1, NewUint(100), SideBuy)
	require.NoError(t, err)
	buy.EmptiedCount = 7
	ls.put(s, buy)

	sell, err := ls.GetOrCreate(s, 1, NewUint(100), SideSell)
	require.NoError(t, err)
	ls.Add(s, sell, NewUint(1), NewUint(100))
	require.NoError(t, ls.Consume(s, sell, NewUint(1), NewUint(100), true))

	require.EqualValues(t, 1, sell.EmptiedCount)
	require.EqualValues(t, 7, sell.EmptiedCountSibling)
}

func TestCancelledAhead(t *testing.T) {
	ls, s := newLevelFixture(t)

	node, err := ls.GetOrCreate(s, 1, NewUint(100), SideSell)
	require.NoError(t, err)
	ls.Add(s, node, NewUint(20), NewUint(2000))

	require.NoError(t, ls.recordCancel(s, node, 0, NewUint(4), NewUint(400)))
	require.NoError(t, ls.recordCancel(s, node, 2, NewUint(1), NewUint(100)))
	// A repeated cancel for the same slot accumulates.
	require.NoError(t, ls.recordCancel(s, node, 0, NewUint(2), NewUint(200)))

	base, quote, err := ls.cancelledAhead(s, node, 0)
	require.NoError(t, err)
	require.True(t, base.IsZero())
	require.True(t, quote.IsZero())

	base, quote, err = ls.cancelledAhead(s, node, 1)
	require.NoError(t, err)
	require.True(t, base.Equals64(6))
	require.True(t, quote.Equals64(600))

	base, quote, err = ls.cancelledAhead(s, node, 3)
	require.NoError(t, err)
	require.True(t, base.Equals64(7))
	require.True(t, quote.Equals64(700))

	t.Run("records are generation scoped", func(t *testing.T) {
		require.NoError(t, ls.Consume(s, node, NewUint(20), NewUint(2000), true))
		require.EqualValues(t, 1, node.EmptiedCount)

		base, quote, err := ls.cancelledAhead(s, node, 10)
		require.NoError(t, err)
		require.True(t, base.IsZero())
		require.True(t, quote.IsZero())
	})
}

func TestPriceWalkOrder(t *testing.T) {
	ls, s := newLevelFixture(t)

	for _, p := range []uint64{300, 100, 200} {
		node, err := ls.GetOrCreate(s, 1, NewUint(p), SideSell)
		require.NoError(t, err)
		ls.Add(s, node, NewUint(1), NewUint(p))
	}

	var asc []uint64
	ls.AscendPrices(1, SideSell, func(price Uint) bool {
		asc = append(asc, price.Big().Uint64())
		return true
	})
	require.Equal(t, []uint64{100, 200, 300}, asc)

	var desc []uint64
	ls.DescendPrices(1, SideSell, func(price Uint) bool {
		desc = append(desc, price.Big().Uint64())
		return true
	})
	require.Equal(t, []uint64{300, 200, 100}, desc)
}

func TestRebuildRestoresIndexes(t *testing.T) {
	db := dbm.NewMemDB()
	store := state.NewStore(db, nil)

	ls := NewPriceLevelStore()
	s := store.Begin()
	for _, p := range []uint64{100, 300} {
		node, err := ls.GetOrCreate(s, 1, NewUint(p), SideSell)
		require.NoError(t, err)
		ls.Add(s, node, NewUint(1), NewUint(p))
	}
	require.NoError(t, s.Commit())

	// A fresh store over the same database starts with empty indexes.
	fresh := NewPriceLevelStore()
	var before []uint64
	fresh.AscendPrices(1, SideSell, func(price Uint) bool {
		before = append(before, price.Big().Uint64())
		return true
	})
	require.Empty(t, before)

	require.NoError(t, fresh.Rebuild(store, 1))
	var after []uint64
	fresh.AscendPrices(1, SideSell, func(price Uint) bool {
		after = append(after, price.Big().Uint64())
		return true
	})
	require.Equal(t, []uint64{100, 300}, after)
}
