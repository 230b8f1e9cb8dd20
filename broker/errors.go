package broker

import (
	"errors"
)

// Errors used by the package. Every one of them aborts the enclosing
// operation: the state session is discarded, so no partial mutation survives.
var (
	ErrPairDuplicate        = errors.New("pair is duplicated")
	ErrPairNotFound         = errors.New("pair is not found")
	ErrOrderNotFound        = errors.New("order is not found")
	ErrInvalidPair          = errors.New("invalid pair")
	ErrInvalidOrder         = errors.New("invalid order")
	ErrInvalidOrderPrice    = errors.New("invalid order price")
	ErrInvalidOrderAmount   = errors.New("invalid order amount")
	ErrInvalidOwner         = errors.New("invalid owner account")
	ErrUnauthorized         = errors.New("caller is not authorized")
	ErrInsufficientBalance  = errors.New("insufficient balance")
	ErrStaleGeneration      = errors.New("price level generation advanced, order is fully filled")
	ErrOverCancel           = errors.New("cancel amount exceeds unfilled remainder")
	ErrNothingToClaim       = errors.New("nothing to claim")
	ErrReentrantCall        = errors.New("reentrant call")
	ErrAggregateUnderflow   = errors.New("price level aggregate underflow")
	ErrImmutableOrderUpdate = errors.New("only cancel and claim fields of an order can change")
)
