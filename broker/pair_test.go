package broker

import (
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/require"
)

func testPair() Pair {
	return Pair{
		BaseToken:      common.HexToAddress("0x0000000000000000000000000000000000000001"),
		QuoteToken:     common.HexToAddress("0x0000000000000000000000000000000000000002"),
		TreeWidth:      16,
		PricePrecision: NewUint(5),
		BaseDecimals:   6,
		QuoteDecimals:  6,
	}
}

func TestPairValid(t *testing.T) {
	require.True(t, testPair().Valid())

	t.Run("zero base token", func(t *testing.T) {
		p := testPair()
		p.BaseToken = common.Address{}
		require.False(t, p.Valid())
	})

	t.Run("identical tokens", func(t *testing.T) {
		p := testPair()
		p.QuoteToken = p.BaseToken
		require.False(t, p.Valid())
	})

	t.Run("zero tree width", func(t *testing.T) {
		p := testPair()
		p.TreeWidth = 0
		require.False(t, p.Valid())
	})

	t.Run("zero price precision", func(t *testing.T) {
		p := testPair()
		p.PricePrecision = NewZeroUint()
		require.False(t, p.Valid())
	})
}

func TestPairValidPrice(t *testing.T) {
	p := testPair() // tick of 5

	require.False(t, p.ValidPrice(NewZeroUint()))
	require.False(t, p.ValidPrice(NewUint(3)))
	require.False(t, p.ValidPrice(NewUint(7)))
	require.True(t, p.ValidPrice(NewUint(5)))
	require.True(t, p.ValidPrice(NewUint(100)))
}

func TestPairConversions(t *testing.T) {
	p := testPair() // one whole base token is 10^6 minimal units

	price := NewUint(2_500_000) // 2.5 quote tokens per whole base token

	t.Run("base to quote rounds down", func(t *testing.T) {
		quote := p.BaseToQuote(NewUint(1_000_000), price)
		require.True(t, quote.Equals64(2_500_000))

		quote = p.BaseToQuote(NewUint(1), price)
		require.True(t, quote.Equals64(2)) // 2.5 floored
	})

	t.Run("quote to base rounds down", func(t *testing.T) {
		base := p.QuoteToBase(NewUint(2_500_000), price)
		require.True(t, base.Equals64(1_000_000))

		base = p.QuoteToBase(NewUint(4), price)
		require.True(t, base.Equals64(1)) // 1.6 floored
	})

	t.Run("round trip never grows", func(t *testing.T) {
		for _, base := range []uint64{1, 3, 999_999, 1_000_000, 123_456_789} {
			quote := p.BaseToQuote(NewUint(base), price)
			back := p.QuoteToBase(quote, price)
			require.True(t, back.LessThanOrEqualTo(NewUint(base)))
		}
	})
}
