package broker

import (
	"github.com/hybridex/broker/state"
)

// OrderStore owns OrderInfo records keyed by their global monotonic id.
// Records are append-mostly: after creation only the cancelled and claimed
// fields may change, and nothing is ever deleted.
type OrderStore struct{}

// NewOrderStore creates the order store.
func NewOrderStore() *OrderStore {
	return &OrderStore{}
}

// Create assigns the next order id and persists the record.
func (os *OrderStore) Create(s *state.Session, order *OrderInfo) error {
	id, err := nextCounter(s, metaNextOrderID)
	if err != nil {
		return err
	}
	order.ID = id

	s.Set(orderKey(order.ID), marshalRecord(order))
	return nil
}

// Get returns the order with the given id.
func (os *OrderStore) Get(s *state.Session, id uint64) (*OrderInfo, error) {
	raw, err := s.Get(orderKey(id))
	if err != nil {
		return nil, err
	}
	if raw == nil {
		return nil, ErrOrderNotFound
	}

	order := new(OrderInfo)
	if err := unmarshalRecord(raw, order); err != nil {
		return nil, err
	}
	return order, nil
}

// Update applies an in-place adjustment to the cancel/claim bookkeeping of an
// order. Any other field change is rejected: the rest of the record is the
// immutable audit trail of the placement.
func (os *OrderStore) Update(s *state.Session, id uint64, mutate func(*OrderInfo)) error {
	order, err := os.Get(s, id)
	if err != nil {
		return err
	}

	before := *order
	mutate(order)

	// Restore the mutable fields and compare what is left.
	checked := *order
	checked.CancelledBase = before.CancelledBase
	checked.CancelledQuote = before.CancelledQuote
	checked.ClaimedBase = before.ClaimedBase
	checked.ClaimedQuote = before.ClaimedQuote
	if checked != before {
		return ErrImmutableOrderUpdate
	}

	s.Set(orderKey(id), marshalRecord(order))
	return nil
}
