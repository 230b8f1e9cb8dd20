package broker_test

import (
	"testing"

	"github.com/golang/mock/gomock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	dbm "github.com/tendermint/tm-db"

	"github.com/hybridex/broker/broker"
	mockbroker "github.com/hybridex/broker/broker/mocks"
	"github.com/hybridex/broker/providers/token"
	"github.com/hybridex/broker/state"
)

// Every state transition must be announced to the handler exactly once,
// before the operation commits.
func TestHandlerEventSequence(t *testing.T) {
	ctrl := gomock.NewController(t)
	handler := mockbroker.NewMockHandler(ctrl)

	store := state.NewStore(dbm.NewMemDB(), nil)
	ledger := token.NewLedger(nil)
	ammCtrl := mockbroker.NewMockAMMAdapter(ctrl)
	ammCtrl.EXPECT().QuoteUpTo(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
		Return(broker.NewZeroUint(), broker.NewZeroUint(), nil).AnyTimes()

	b := broker.NewBroker(store,
		broker.Deps{
			Token:   ledger,
			AMM:     ammCtrl,
			Fees:    broker.BasisPointsFee{},
			Auth:    broker.AdminAuthority{Admin: adminAddr},
			Escrow:  escrowAddr,
			FeeSink: feeSinkAddr,
		},
		handler,
	)

	handler.EXPECT().OnRegisterPair(gomock.Any()).Times(1)
	pair, err := b.RegisterPair(adminAddr, broker.Pair{
		BaseToken:      baseToken,
		QuoteToken:     quoteToken,
		TreeWidth:      16,
		PricePrecision: broker.NewUint(1),
	})
	require.NoError(t, err)

	s := store.Begin()
	require.NoError(t, ledger.Mint(s, baseToken, alice, broker.NewUint(100)))
	require.NoError(t, ledger.Mint(s, quoteToken, bob, broker.NewUint(100_000)))
	require.NoError(t, s.Commit())

	handler.EXPECT().OnPlaceOrder(gomock.Any()).Times(1)
	maker, err := b.PlaceOrder(pair.ID, broker.SideSell, broker.NewUint(100), broker.NewUint(10), alice, uuid.New())
	require.NoError(t, err)

	// The taker drains the level: one consume, one empty, one placement.
	gomock.InOrder(
		handler.EXPECT().OnConsumeLevel(gomock.Any(), gomock.Any(), gomock.Any()).Times(1),
		handler.EXPECT().OnEmptyLevel(gomock.Any()).Times(1),
		handler.EXPECT().OnPlaceOrder(gomock.Any()).Times(1),
	)
	_, err = b.PlaceOrder(pair.ID, broker.SideBuy, broker.NewUint(100), broker.NewUint(1000), bob, uuid.New())
	require.NoError(t, err)

	handler.EXPECT().OnClaimOrder(gomock.Any(), gomock.Any(), gomock.Any()).Times(1)
	require.NoError(t, b.Claim(alice, maker.ID))

	t.Run("failed operations emit nothing", func(t *testing.T) {
		_, err := b.PlaceOrder(pair.ID, broker.SideBuy, broker.NewUint(100), broker.NewUint(1), carol, uuid.New())
		require.ErrorIs(t, err, broker.ErrInsufficientBalance)
	})
}

// A cancel event carries the withdrawn amounts.
func TestHandlerCancelEvent(t *testing.T) {
	env := newTestEnv(t, envConfig{})

	maker := env.place(broker.SideSell, 100, 5, alice)

	env.handler.EXPECT().
		OnCancelOrder(gomock.Any(), broker.NewUint(5), broker.NewUint(500)).
		Times(1)
	require.NoError(t, env.broker.Cancel(alice, maker.ID, broker.NewUint(5)))
}
