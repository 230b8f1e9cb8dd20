package state_test

import (
	"testing"

	"github.com/stretchr/testify/require"
	dbm "github.com/tendermint/tm-db"
	"go.uber.org/zap"

	"github.com/hybridex/broker/state"
)

func newStore(t *testing.T) *state.Store {
	t.Helper()
	return state.NewStore(dbm.NewMemDB(), zap.NewNop())
}

func TestSessionReadsOwnWrites(t *testing.T) {
	store := newStore(t)

	s := store.Begin()
	defer s.Discard()

	got, err := s.Get([]byte("a"))
	require.NoError(t, err)
	require.Nil(t, got)

	s.Set([]byte("a"), []byte("1"))
	got, err = s.Get([]byte("a"))
	require.NoError(t, err)
	require.Equal(t, []byte("1"), got)

	s.Delete([]byte("a"))
	got, err = s.Get([]byte("a"))
	require.NoError(t, err)
	require.Nil(t, got)
}

func TestSessionCommitAndDiscard(t *testing.T) {
	store := newStore(t)

	t.Run("commit persists", func(t *testing.T) {
		s := store.Begin()
		s.Set([]byte("k1"), []byte("v1"))
		require.NoError(t, s.Commit())
		s.Discard() // no-op after commit

		s2 := store.Begin()
		defer s2.Discard()
		got, err := s2.Get([]byte("k1"))
		require.NoError(t, err)
		require.Equal(t, []byte("v1"), got)
	})

	t.Run("discard drops everything", func(t *testing.T) {
		s := store.Begin()
		s.Set([]byte("k2"), []byte("v2"))
		s.Delete([]byte("k1"))
		s.Discard()

		s2 := store.Begin()
		defer s2.Discard()
		got, err := s2.Get([]byte("k2"))
		require.NoError(t, err)
		require.Nil(t, got)
		got, err = s2.Get([]byte("k1"))
		require.NoError(t, err)
		require.Equal(t, []byte("v1"), got)
	})
}

func TestSessionIterateMergesOverlay(t *testing.T) {
	store := newStore(t)

	s := store.Begin()
	s.Set([]byte("a"), []byte("committed-a"))
	s.Set([]byte("c"), []byte("committed-c"))
	s.Set([]byte("e"), []byte("committed-e"))
	require.NoError(t, s.Commit())

	s = store.Begin()
	defer s.Discard()
	s.Set([]byte("b"), []byte("pending-b"))  // new key between committed ones
	s.Set([]byte("c"), []byte("pending-c"))  // shadows a committed value
	s.Delete([]byte("e"))                    // tombstone hides a committed key

	var keys, values []string
	err := s.Iterate([]byte("a"), []byte("z"), func(key, value []byte) bool {
		keys = append(keys, string(key))
		values = append(values, string(value))
		return true
	})
	require.NoError(t, err)
	require.Equal(t, []string{"a", "b", "c"}, keys)
	require.Equal(t, []string{"committed-a", "pending-b", "pending-c"}, values)
}

func TestSessionIterateStops(t *testing.T) {
	store := newStore(t)

	s := store.Begin()
	defer s.Discard()
	s.Set([]byte("a"), []byte("1"))
	s.Set([]byte("b"), []byte("2"))
	s.Set([]byte("c"), []byte("3"))

	var seen int
	err := s.Iterate([]byte("a"), []byte("z"), func(key, value []byte) bool {
		seen++
		return seen < 2
	})
	require.NoError(t, err)
	require.Equal(t, 2, seen)
}

func TestStoreIterateSkipsPending(t *testing.T) {
	store := newStore(t)

	s := store.Begin()
	s.Set([]byte("a"), []byte("1"))
	require.NoError(t, s.Commit())

	s = store.Begin()
	defer s.Discard()
	s.Set([]byte("b"), []byte("2"))

	var keys []string
	err := store.Iterate([]byte("a"), []byte("z"), func(key, value []byte) bool {
		keys = append(keys, string(key))
		return true
	})
	require.NoError(t, err)
	require.Equal(t, []string{"a"}, keys)
}

func TestKeyAndPrefixRange(t *testing.T) {
	key := state.Key(0x01, []byte{0xaa}, []byte{0xbb, 0xcc})
	require.Equal(t, []byte{0x01, 0xaa, 0xbb, 0xcc}, key)

	start, end := state.PrefixRange([]byte{0x01, 0xaa})
	require.Equal(t, []byte{0x01, 0xaa}, start)
	require.Equal(t, []byte{0x01, 0xab}, end)

	start, end = state.PrefixRange([]byte{0x01, 0xff})
	require.Equal(t, []byte{0x01, 0xff}, start)
	require.Equal(t, []byte{0x02}, end)
}
