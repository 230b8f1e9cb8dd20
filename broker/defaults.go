package broker

const (
	// defaultReservedPairSlots specifies initial size of hashmap arrays
	// storing per-pair caches and indexes.
	defaultReservedPairSlots = 64
)
