// Package token provides a state-backed token ledger implementing the
// engine's TokenAdapter. Balances live in the same transactional store as the
// book, so token movement commits or reverts together with the operation
// that caused it.
package token

import (
	"fmt"

	"github.com/ethereum/go-ethereum/common"
	"go.uber.org/zap"

	"github.com/hybridex/broker/broker"
	"github.com/hybridex/broker/state"
)

// prefixBalances separates ledger rows from the engine's tables in the
// shared store.
const prefixBalances byte = 0x10

// Ledger keeps per-token account balances.
type Ledger struct {
	logger *zap.Logger
}

// NewLedger creates a ledger. A nil logger is replaced with a nop logger.
func NewLedger(logger *zap.Logger) *Ledger {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Ledger{logger: logger}
}

var _ broker.TokenAdapter = (*Ledger)(nil)

func balanceKey(token, account common.Address) []byte {
	return state.Key(prefixBalances, token.Bytes(), account.Bytes())
}

// BalanceOf returns the account balance of a token.
func (l *Ledger) BalanceOf(s *state.Session, token, account common.Address) (broker.Uint, error) {
	raw, err := s.Get(balanceKey(token, account))
	if err != nil {
		return broker.Uint{}, err
	}
	if raw == nil {
		return broker.NewZeroUint(), nil
	}
	return broker.NewUintFromBytes(raw), nil
}

func (l *Ledger) setBalance(s *state.Session, token, account common.Address, amount broker.Uint) {
	s.Set(balanceKey(token, account), amount.Bytes())
}

// Transfer moves amount between accounts. It returns false, not an error,
// when the sender balance is insufficient; the engine treats both the same.
func (l *Ledger) Transfer(s *state.Session, token, from, to common.Address, amount broker.Uint) (bool, error) {
	if amount.IsZero() {
		return true, nil
	}
	if from == to {
		return true, nil
	}

	fromBalance, err := l.BalanceOf(s, token, from)
	if err != nil {
		return false, err
	}
	if fromBalance.LessThan(amount) {
		return false, nil
	}
	toBalance, err := l.BalanceOf(s, token, to)
	if err != nil {
		return false, err
	}

	l.setBalance(s, token, from, fromBalance.Sub(amount))
	l.setBalance(s, token, to, toBalance.Add(amount))

	l.logger.Debug("transfer",
		zap.Stringer("token", token),
		zap.Stringer("from", from),
		zap.Stringer("to", to),
		zap.Stringer("amount", amount),
	)
	return true, nil
}

// Mint credits new supply to an account. Minting is a trusted operation: the
// caller is responsible for authorization before invoking it.
func (l *Ledger) Mint(s *state.Session, token, to common.Address, amount broker.Uint) error {
	if to == (common.Address{}) {
		return fmt.Errorf("mint to zero account")
	}
	balance, err := l.BalanceOf(s, token, to)
	if err != nil {
		return err
	}
	l.setBalance(s, token, to, balance.Add(amount))

	l.logger.Debug("mint",
		zap.Stringer("token", token),
		zap.Stringer("to", to),
		zap.Stringer("amount", amount),
	)
	return nil
}
