package broker

import (
	"github.com/ethereum/go-ethereum/common"

	"github.com/hybridex/broker/state"
)

// TokenAdapter moves token balances on behalf of the engine. All methods
// operate inside the caller's session, so their effects revert together with
// the enclosing operation.
//
// Transfer returns (false, nil) and an error identically from the engine's
// point of view: both abort the operation.
//
//go:generate mockgen -destination=mocks/interfaces.go -package=mockbroker . TokenAdapter,AMMAdapter,Authority,Handler
type TokenAdapter interface {
	Transfer(s *state.Session, token, from, to common.Address, amount Uint) (bool, error)
	BalanceOf(s *state.Session, token, account common.Address) (Uint, error)
	Mint(s *state.Session, token, to common.Address, amount Uint) error
}

// AMMAdapter quotes and executes swaps against a liquidity pool.
type AMMAdapter interface {
	// QuoteUpTo returns the largest prefix of amountIn the pool can absorb
	// without its marginal price moving past limitPrice, and the amount the
	// swap would pay out. It does not mutate the pool.
	QuoteUpTo(s *state.Session, pair Pair, amountIn Uint, isBuy bool, limitPrice Uint) (inConsumed, outReceived Uint, err error)

	// Swap executes the quoted trade, moving reserves and tokens.
	Swap(s *state.Session, pair Pair, isBuy bool, amountIn Uint) (outReceived Uint, err error)
}

// Authority answers whether a caller may perform privileged actions: pair
// registration, fee policy changes, minting.
type Authority interface {
	IsAuthorized(s *state.Session, caller common.Address) (bool, error)
}

// AdminAuthority authorizes exactly one admin account.
type AdminAuthority struct {
	Admin common.Address
}

func (a AdminAuthority) IsAuthorized(_ *state.Session, caller common.Address) (bool, error) {
	return a.Admin != (common.Address{}) && caller == a.Admin, nil
}
