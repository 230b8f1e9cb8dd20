package broker

import (
	"encoding/binary"
	"encoding/json"
	"fmt"

	"github.com/ethereum/go-ethereum/common"

	"github.com/hybridex/broker/state"
)

// Storage key prefixes. Pairs, price nodes and orders are three separate
// keyed tables; cancel records and counters hang off their own prefixes.
const (
	prefixPairs   byte = 0x01
	prefixNodes   byte = 0x02
	prefixOrders  byte = 0x03
	prefixCancels byte = 0x04
	prefixMeta    byte = 0x05
)

// Meta counter names.
var (
	metaNextPairID  = []byte("next_pair_id")
	metaNextOrderID = []byte("next_order_id")
)

func be32(v uint32) []byte {
	b := make([]byte, 4)
	binary.BigEndian.PutUint32(b, v)
	return b
}

func be64(v uint64) []byte {
	b := make([]byte, 8)
	binary.BigEndian.PutUint64(b, v)
	return b
}

func pairKey(id uint32) []byte {
	return state.Key(prefixPairs, be32(id))
}

// pairTokensKey indexes a pair by its token addresses, enforcing that every
// (base, quote) combination registers at most once. The 41-byte key cannot
// collide with the 5-byte pairKey form.
func pairTokensKey(base, quote common.Address) []byte {
	return state.Key(prefixPairs, base.Bytes(), quote.Bytes())
}

func orderKey(id uint64) []byte {
	return state.Key(prefixOrders, be64(id))
}

// nodeKey orders nodes of one side by price, so the price index can be
// rebuilt with a single prefix walk.
func nodeKey(pairID uint32, side Side, price Uint) []byte {
	return state.Key(prefixNodes, be32(pairID), []byte{byte(side)}, price.Bytes())
}

func nodeSidePrefix(pairID uint32, side Side) []byte {
	return state.Key(prefixNodes, be32(pairID), []byte{byte(side)})
}

func cancelKey(pairID uint32, side Side, price Uint, generation, cancelID uint64) []byte {
	return state.Key(prefixCancels, be32(pairID), []byte{byte(side)}, price.Bytes(), be64(generation), be64(cancelID))
}

// cancelGenPrefix covers every cancel record of one node generation, ordered
// by cancel id.
func cancelGenPrefix(pairID uint32, side Side, price Uint, generation uint64) []byte {
	return state.Key(prefixCancels, be32(pairID), []byte{byte(side)}, price.Bytes(), be64(generation))
}

func metaKey(name []byte) []byte {
	return state.Key(prefixMeta, name)
}

func marshalRecord(v any) []byte {
	b, err := json.Marshal(v)
	if err != nil {
		// All stored records are plain structs; marshalling them cannot fail.
		panic(fmt.Sprintf("failed to marshal record: %v", err))
	}
	return b
}

func unmarshalRecord(data []byte, v any) error {
	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("failed to unmarshal record: %w", err)
	}
	return nil
}

// nextCounter increments a persistent counter and returns its previous value.
func nextCounter(s *state.Session, name []byte) (uint64, error) {
	raw, err := s.Get(metaKey(name))
	if err != nil {
		return 0, err
	}
	var current uint64
	if raw != nil {
		current = binary.BigEndian.Uint64(raw)
	}
	s.Set(metaKey(name), be64(current+1))
	return current, nil
}
