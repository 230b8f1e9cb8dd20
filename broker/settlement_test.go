package broker_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/hybridex/broker/broker"
)

func TestCancelPartialFill(t *testing.T) {
	env := newTestEnv(t, envConfig{})

	maker := env.place(broker.SideSell, 100, 5, alice)
	env.place(broker.SideBuy, 100, 200, bob) // fills 2 of the 5

	t.Run("over the unfilled remainder", func(t *testing.T) {
		err := env.broker.Cancel(alice, maker.ID, broker.NewUint(4))
		require.ErrorIs(t, err, broker.ErrOverCancel)
	})

	t.Run("wrong owner", func(t *testing.T) {
		err := env.broker.Cancel(bob, maker.ID, broker.NewUint(1))
		require.ErrorIs(t, err, broker.ErrUnauthorized)
	})

	t.Run("zero amount", func(t *testing.T) {
		err := env.broker.Cancel(alice, maker.ID, broker.NewZeroUint())
		require.ErrorIs(t, err, broker.ErrInvalidOrderAmount)
	})

	t.Run("unknown order", func(t *testing.T) {
		err := env.broker.Cancel(alice, 9999, broker.NewUint(1))
		require.ErrorIs(t, err, broker.ErrOrderNotFound)
	})

	t.Run("full remainder cancels and refunds", func(t *testing.T) {
		require.NoError(t, env.broker.Cancel(alice, maker.ID, broker.NewUint(3)))
		require.EqualValues(t, 1_000_000-5+3, env.balance(baseToken, alice))

		// Zeroing a level through cancellation must not advance its
		// generation.
		node, err := env.broker.Node(env.pair.ID, broker.NewUint(100), broker.SideSell)
		require.NoError(t, err)
		require.True(t, node.IsEmpty())
		require.EqualValues(t, 0, node.EmptiedCount)

		order, err := env.broker.Order(maker.ID)
		require.NoError(t, err)
		require.True(t, order.CancelledBase.Equals64(3))
		require.True(t, order.CancelledQuote.Equals64(300))
	})

	t.Run("nothing left to cancel", func(t *testing.T) {
		err := env.broker.Cancel(alice, maker.ID, broker.NewUint(1))
		require.ErrorIs(t, err, broker.ErrOverCancel)
	})

	t.Run("fill state unaffected by the cancel", func(t *testing.T) {
		fs, err := env.broker.FillState(maker.ID)
		require.NoError(t, err)
		require.True(t, fs.FilledBase.Equals64(2))
		require.True(t, fs.FilledQuote.Equals64(200))
		require.True(t, fs.UnfilledBase.IsZero())
	})

	t.Run("claim pays the filled part", func(t *testing.T) {
		require.NoError(t, env.broker.Claim(alice, maker.ID))
		require.EqualValues(t, 1_000_000+200, env.balance(quoteToken, alice))
		require.ErrorIs(t, env.broker.Claim(alice, maker.ID), broker.ErrNothingToClaim)
	})
}

func TestCancelAfterGenerationAdvance(t *testing.T) {
	env := newTestEnv(t, envConfig{})

	maker := env.place(broker.SideSell, 100, 5, alice)
	env.place(broker.SideBuy, 100, 500, bob) // drains the level

	err := env.broker.Cancel(alice, maker.ID, broker.NewUint(1))
	require.ErrorIs(t, err, broker.ErrStaleGeneration)

	fs, err := env.broker.FillState(maker.ID)
	require.NoError(t, err)
	require.True(t, fs.FilledBase.Equals64(5))

	require.NoError(t, env.broker.Claim(alice, maker.ID))
	require.EqualValues(t, 1_000_000+500, env.balance(quoteToken, alice))
}

func TestCancelNeverRested(t *testing.T) {
	env := newTestEnv(t, envConfig{})

	env.place(broker.SideSell, 100, 5, alice)

	// A fully matched taker has no book remainder to withdraw.
	taker := env.place(broker.SideBuy, 100, 500, bob)
	require.True(t, taker.PlacedBase.IsZero())

	err := env.broker.Cancel(bob, taker.ID, broker.NewUint(1))
	require.ErrorIs(t, err, broker.ErrOverCancel)
}

// A cancelled slot ahead in the queue must not count as filled volume for the
// orders behind it.
func TestFillAttributionAfterAheadCancel(t *testing.T) {
	env := newTestEnv(t, envConfig{})

	a := env.place(broker.SideSell, 100, 6, alice)
	b := env.place(broker.SideSell, 100, 5, bob)

	require.NoError(t, env.broker.Cancel(alice, a.ID, broker.NewUint(4)))

	env.place(broker.SideBuy, 100, 300, carol) // fills 3 base

	fa, err := env.broker.FillState(a.ID)
	require.NoError(t, err)
	require.True(t, fa.FilledBase.Equals64(2)) // its remaining size, filled first
	require.True(t, fa.UnfilledBase.IsZero())

	fb, err := env.broker.FillState(b.ID)
	require.NoError(t, err)
	require.True(t, fb.FilledBase.Equals64(1)) // 3 filled minus 2 still ahead
	require.True(t, fb.UnfilledBase.Equals64(4))
}

func TestClaimValidation(t *testing.T) {
	env := newTestEnv(t, envConfig{})

	maker := env.place(broker.SideSell, 100, 5, alice)

	t.Run("wrong owner", func(t *testing.T) {
		require.ErrorIs(t, env.broker.Claim(bob, maker.ID), broker.ErrUnauthorized)
	})

	t.Run("unknown order", func(t *testing.T) {
		require.ErrorIs(t, env.broker.Claim(alice, 9999), broker.ErrOrderNotFound)
	})

	t.Run("nothing filled yet", func(t *testing.T) {
		require.ErrorIs(t, env.broker.Claim(alice, maker.ID), broker.ErrNothingToClaim)
	})
}

func TestClaimAccumulatesAcrossFills(t *testing.T) {
	env := newTestEnv(t, envConfig{})

	maker := env.place(broker.SideSell, 100, 10, alice)

	env.place(broker.SideBuy, 100, 300, bob)
	require.NoError(t, env.broker.Claim(alice, maker.ID))
	require.EqualValues(t, 1_000_000+300, env.balance(quoteToken, alice))

	// A later fill makes a second claim pay only the delta.
	env.place(broker.SideBuy, 100, 400, bob)
	require.NoError(t, env.broker.Claim(alice, maker.ID))
	require.EqualValues(t, 1_000_000+700, env.balance(quoteToken, alice))

	order, err := env.broker.Order(maker.ID)
	require.NoError(t, err)
	require.True(t, order.ClaimedBase.Equals64(7))
	require.True(t, order.ClaimedQuote.Equals64(700))
}

// The same price slot is reusable after a fill drain: orders of the new
// generation account independently of the old one.
func TestLevelReuseAcrossGenerations(t *testing.T) {
	env := newTestEnv(t, envConfig{})

	old := env.place(broker.SideSell, 100, 5, alice)
	env.place(broker.SideBuy, 100, 500, bob) // generation 0 drains

	fresh := env.place(broker.SideSell, 100, 7, carol)
	require.EqualValues(t, 1, fresh.Generation)
	require.True(t, fresh.AheadBase.IsZero())
	require.EqualValues(t, 0, fresh.CancelID)

	env.place(broker.SideBuy, 100, 200, bob) // fills 2 of the new generation

	fo, err := env.broker.FillState(old.ID)
	require.NoError(t, err)
	require.True(t, fo.FilledBase.Equals64(5))

	ff, err := env.broker.FillState(fresh.ID)
	require.NoError(t, err)
	require.True(t, ff.FilledBase.Equals64(2))
	require.True(t, ff.UnfilledBase.Equals64(5))
}
