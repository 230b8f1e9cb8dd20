// Package state provides a transactional view over a byte-keyed store.
// Every broker operation runs inside a single Session: reads see committed
// state merged with the session's own pending writes, Commit applies all
// pending writes atomically through a batch, and Discard drops them. A failed
// operation therefore leaves no trace, which is the only rollback mechanism
// the engine needs.
package state

import (
	"fmt"

	dbm "github.com/tendermint/tm-db"
	"github.com/tidwall/btree"
	"go.uber.org/zap"
)

// Store wraps the underlying database and hands out sessions.
type Store struct {
	db     dbm.DB
	logger *zap.Logger
}

// NewStore creates a Store over the given database. A nil logger is replaced
// with a nop logger.
func NewStore(db dbm.DB, logger *zap.Logger) *Store {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Store{db: db, logger: logger}
}

// Begin opens a new session. Sessions are cheap; one is opened per operation.
func (s *Store) Begin() *Session {
	return &Session{
		store:   s,
		pending: btree.NewMap[string, pendingWrite](32),
	}
}

// Iterate walks committed state only, in ascending key order, over the range
// [start, end). It is meant for startup index rebuilds, outside any session.
func (s *Store) Iterate(start, end []byte, fn func(key, value []byte) bool) error {
	itr, err := s.db.Iterator(start, end)
	if err != nil {
		return fmt.Errorf("failed to open iterator: %w", err)
	}
	defer itr.Close()

	for ; itr.Valid(); itr.Next() {
		if !fn(itr.Key(), itr.Value()) {
			break
		}
	}
	return itr.Error()
}

type pendingWrite struct {
	value   []byte
	deleted bool
}

// Session is a single-operation transactional view. Not thread-safe; the
// engine is sequential per operation by design.
type Session struct {
	store    *Store
	pending  *btree.Map[string, pendingWrite]
	finished bool
}

// Get returns the value for key, or nil if absent.
func (s *Session) Get(key []byte) ([]byte, error) {
	if w, ok := s.pending.Get(string(key)); ok {
		if w.deleted {
			return nil, nil
		}
		return w.value, nil
	}
	v, err := s.store.db.Get(key)
	if err != nil {
		return nil, fmt.Errorf("failed to read key: %w", err)
	}
	return v, nil
}

// Has reports whether key is present.
func (s *Session) Has(key []byte) (bool, error) {
	v, err := s.Get(key)
	if err != nil {
		return false, err
	}
	return v != nil, nil
}

// Set buffers a write; it becomes visible to this session immediately and to
// everyone else only after Commit.
func (s *Session) Set(key, value []byte) {
	s.pending.Set(string(key), pendingWrite{value: value})
}

// Delete buffers a deletion.
func (s *Session) Delete(key []byte) {
	s.pending.Set(string(key), pendingWrite{deleted: true})
}

// Iterate walks the merged view of committed state and pending writes in
// ascending key order over the range [start, end). The callback returns false
// to stop early.
func (s *Session) Iterate(start, end []byte, fn func(key, value []byte) bool) error {
	// Materialize the in-range slice of pending writes; a session touches a
	// handful of keys, so this stays small.
	type overlayEntry struct {
		key string
		w   pendingWrite
	}
	var overlay []overlayEntry
	s.pending.Ascend(string(start), func(key string, w pendingWrite) bool {
		if end != nil && key >= string(end) {
			return false
		}
		overlay = append(overlay, overlayEntry{key: key, w: w})
		return true
	})

	itr, err := s.store.db.Iterator(start, end)
	if err != nil {
		return fmt.Errorf("failed to open iterator: %w", err)
	}
	defer itr.Close()

	oi := 0
	emitOverlay := func() bool {
		e := overlay[oi]
		oi++
		if e.w.deleted {
			return true
		}
		return fn([]byte(e.key), e.w.value)
	}

	for itr.Valid() {
		for oi < len(overlay) && overlay[oi].key < string(itr.Key()) {
			if !emitOverlay() {
				return nil
			}
		}
		if oi < len(overlay) && overlay[oi].key == string(itr.Key()) {
			// Overlay shadows the committed value.
			if !emitOverlay() {
				return nil
			}
			itr.Next()
			continue
		}
		if !fn(itr.Key(), itr.Value()) {
			return nil
		}
		itr.Next()
	}
	for oi < len(overlay) {
		if !emitOverlay() {
			return nil
		}
	}
	return itr.Error()
}

// Commit atomically applies all pending writes. The session is unusable
// afterwards.
func (s *Session) Commit() error {
	if s.finished {
		return fmt.Errorf("session already finished")
	}
	s.finished = true

	batch := s.store.db.NewBatch()
	defer batch.Close()

	var err error
	s.pending.Scan(func(key string, w pendingWrite) bool {
		if w.deleted {
			err = batch.Delete([]byte(key))
		} else {
			err = batch.Set([]byte(key), w.value)
		}
		return err == nil
	})
	if err != nil {
		return fmt.Errorf("failed to stage batch: %w", err)
	}
	if err := batch.Write(); err != nil {
		return fmt.Errorf("failed to write batch: %w", err)
	}
	s.store.logger.Debug("session committed", zap.Int("writes", s.pending.Len()))
	return nil
}

// Discard drops all pending writes. Safe to call after Commit, so it can sit
// in a defer.
func (s *Session) Discard() {
	if s.finished {
		return
	}
	s.finished = true
	s.pending.Clear()
}

// Key concatenates a prefix byte and key parts into a single storage key.
func Key(prefix byte, parts ...[]byte) []byte {
	size := 1
	for _, p := range parts {
		size += len(p)
	}
	key := make([]byte, 1, size)
	key[0] = prefix
	for _, p := range parts {
		key = append(key, p...)
	}
	return key
}

// PrefixRange returns the [start, end) range covering every key that begins
// with the given prefix.
func PrefixRange(prefix []byte) (start, end []byte) {
	start = prefix
	end = make([]byte, len(prefix))
	copy(end, prefix)
	for i := len(end) - 1; i >= 0; i-- {
		if end[i] != 0xff {
			end[i]++
			return start, end[:i+1]
		}
	}
	return start, nil
}
