package broker

import (
	"github.com/tidwall/hashmap"

	"github.com/hybridex/broker/state"
)

// PairRegistry stores immutable trading pair metadata. Committed pairs are
// cached in memory; the cache is only populated after a successful commit, so
// an aborted registration leaves no trace in it.
type PairRegistry struct {
	cache *hashmap.Map[uint32, Pair]
}

// NewPairRegistry creates an empty registry.
func NewPairRegistry() *PairRegistry {
	return &PairRegistry{
		cache: hashmap.New[uint32, Pair](defaultReservedPairSlots),
	}
}

// Register validates the pair, assigns it the next pair id and persists it in
// the session. The caller caches it after the session commits.
func (r *PairRegistry) Register(s *state.Session, pair Pair) (Pair, error) {
	if !pair.Valid() {
		return Pair{}, ErrInvalidPair
	}

	exists, err := s.Has(pairTokensKey(pair.BaseToken, pair.QuoteToken))
	if err != nil {
		return Pair{}, err
	}
	if exists {
		return Pair{}, ErrPairDuplicate
	}

	id, err := nextCounter(s, metaNextPairID)
	if err != nil {
		return Pair{}, err
	}
	pair.ID = uint32(id)

	s.Set(pairKey(pair.ID), marshalRecord(pair))
	s.Set(pairTokensKey(pair.BaseToken, pair.QuoteToken), be32(pair.ID))
	return pair, nil
}

// Get returns the pair with the given id.
func (r *PairRegistry) Get(s *state.Session, id uint32) (Pair, error) {
	if pair, ok := r.cache.Get(id); ok {
		return pair, nil
	}

	raw, err := s.Get(pairKey(id))
	if err != nil {
		return Pair{}, err
	}
	if raw == nil {
		return Pair{}, ErrPairNotFound
	}

	var pair Pair
	if err := unmarshalRecord(raw, &pair); err != nil {
		return Pair{}, err
	}
	return pair, nil
}

// cacheCommitted records a successfully committed pair in the hot cache.
func (r *PairRegistry) cacheCommitted(pair Pair) {
	r.cache.Set(pair.ID, pair)
}
