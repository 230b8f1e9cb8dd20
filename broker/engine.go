package broker

import (
	"fmt"
	"sync/atomic"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"go.uber.org/zap"

	"github.com/hybridex/broker/state"
)

// Broker is the hybrid order book / AMM matching and settlement engine.
// Every exported operation runs inside one state session: all of its writes
// commit atomically on success and vanish on any failure.
//
// Execution is sequential per operation. The ordering of operations is
// imposed by the caller (the host's transaction ordering); the engine only
// relies on operations being applied one at a time.
type Broker struct {
	store   *state.Store
	pairs   *PairRegistry
	levels  *PriceLevelStore
	orders  *OrderStore
	handler Handler

	token TokenAdapter
	amm   AMMAdapter
	fees  FeePolicy
	auth  Authority

	// Escrow holds amounts paid in by order owners until they are matched,
	// claimed or refunded; FeeSink collects taker fees.
	escrow  common.Address
	feeSink common.Address

	logger  *zap.Logger
	metrics *Metrics
	clock   func() time.Time

	// Non-reentrant guard held for the duration of every entry point that
	// performs external calls while mutating shared aggregates.
	entered atomic.Bool
}

// Deps bundles the external collaborators of the engine.
type Deps struct {
	Token   TokenAdapter
	AMM     AMMAdapter
	Fees    FeePolicy
	Auth    Authority
	Escrow  common.Address
	FeeSink common.Address
}

// Option configures optional Broker behavior.
type Option func(*Broker)

// WithLogger sets the engine logger.
func WithLogger(logger *zap.Logger) Option {
	return func(b *Broker) { b.logger = logger }
}

// WithMetrics sets the engine metric set.
func WithMetrics(m *Metrics) Option {
	return func(b *Broker) { b.metrics = m }
}

// WithClock overrides the engine clock for deterministic tests.
func WithClock(clock func() time.Time) Option {
	return func(b *Broker) { b.clock = clock }
}

// NewBroker creates and returns a new Broker instance.
func NewBroker(store *state.Store, deps Deps, handler Handler, opts ...Option) *Broker {
	b := &Broker{
		store:   store,
		pairs:   NewPairRegistry(),
		levels:  NewPriceLevelStore(),
		orders:  NewOrderStore(),
		handler: handler,
		token:   deps.Token,
		amm:     deps.AMM,
		fees:    deps.Fees,
		auth:    deps.Auth,
		escrow:  deps.Escrow,
		feeSink: deps.FeeSink,
		logger:  zap.NewNop(),
		metrics: NewMetrics(nil),
		clock:   time.Now,
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// Store exposes the underlying transactional store, letting callers batch
// their own writes (seeding, migrations) with the engine's tables.
func (b *Broker) Store() *state.Store {
	return b.store
}

// Restore rebuilds the in-memory price indexes and pair cache of a pair from
// committed state. Call once per known pair after reopening a database.
func (b *Broker) Restore(pairID uint32) error {
	s := b.store.Begin()
	defer s.Discard()

	pair, err := b.pairs.Get(s, pairID)
	if err != nil {
		return err
	}
	b.pairs.cacheCommitted(pair)

	return b.levels.Rebuild(b.store, pairID)
}

////////////////////////////////////////////////////////////////
// Administration
////////////////////////////////////////////////////////////////

// RegisterPair validates and persists a new trading pair. Only authorized
// callers may register pairs.
func (b *Broker) RegisterPair(caller common.Address, pair Pair) (Pair, error) {
	if err := b.enter(); err != nil {
		return Pair{}, err
	}
	defer b.exit()

	s := b.store.Begin()
	defer s.Discard()

	if err := b.authorize(s, caller); err != nil {
		return Pair{}, err
	}

	registered, err := b.pairs.Register(s, pair)
	if err != nil {
		return Pair{}, err
	}

	if err := s.Commit(); err != nil {
		return Pair{}, err
	}
	b.pairs.cacheCommitted(registered)

	b.handler.OnRegisterPair(registered)
	b.logger.Info("pair registered",
		zap.Uint32("pair_id", registered.ID),
		zap.Stringer("base", registered.BaseToken),
		zap.Stringer("quote", registered.QuoteToken),
	)
	return registered, nil
}

// SetFeePolicy replaces the fee policy. Only authorized callers may do so.
func (b *Broker) SetFeePolicy(caller common.Address, policy FeePolicy) error {
	if err := b.enter(); err != nil {
		return err
	}
	defer b.exit()

	// The session only backs the authority lookup; nothing is written.
	s := b.store.Begin()
	defer s.Discard()

	if err := b.authorize(s, caller); err != nil {
		return err
	}
	b.fees = policy
	b.logger.Info("fee policy updated")
	return nil
}

func (b *Broker) authorize(s *state.Session, caller common.Address) error {
	ok, err := b.auth.IsAuthorized(s, caller)
	if err != nil {
		return fmt.Errorf("authorization check failed: %w", err)
	}
	if !ok {
		return ErrUnauthorized
	}
	return nil
}

////////////////////////////////////////////////////////////////
// Read access
////////////////////////////////////////////////////////////////

// Pair returns the pair with the given id.
func (b *Broker) Pair(id uint32) (Pair, error) {
	s := b.store.Begin()
	defer s.Discard()
	return b.pairs.Get(s, id)
}

// Order returns the order with the given id.
func (b *Broker) Order(id uint64) (*OrderInfo, error) {
	s := b.store.Begin()
	defer s.Discard()
	return b.orders.Get(s, id)
}

// Node returns the price node at (pair, price, side), or nil when the slot
// was never used.
func (b *Broker) Node(pairID uint32, price Uint, side Side) (*PriceNode, error) {
	s := b.store.Begin()
	defer s.Discard()
	return b.levels.get(s, pairID, price, side)
}

////////////////////////////////////////////////////////////////
// Internal helpers
////////////////////////////////////////////////////////////////

// enter acquires the non-reentrant guard.
func (b *Broker) enter() error {
	if !b.entered.CompareAndSwap(false, true) {
		return ErrReentrantCall
	}
	return nil
}

func (b *Broker) exit() {
	b.entered.Store(false)
}

// escrowIn moves the paid-in amount from the owner into escrow. A false
// return and an error are treated identically: the operation aborts.
func (b *Broker) escrowIn(s *state.Session, token common.Address, owner common.Address, amount Uint) error {
	ok, err := b.token.Transfer(s, token, owner, b.escrow, amount)
	if err != nil {
		return fmt.Errorf("%w: %s", ErrInsufficientBalance, err)
	}
	if !ok {
		return ErrInsufficientBalance
	}
	return nil
}

// payOut moves an amount from escrow to the given account.
func (b *Broker) payOut(s *state.Session, token common.Address, to common.Address, amount Uint) error {
	if amount.IsZero() {
		return nil
	}
	ok, err := b.token.Transfer(s, token, b.escrow, to, amount)
	if err != nil {
		return fmt.Errorf("escrow payout failed: %w", err)
	}
	if !ok {
		return fmt.Errorf("escrow payout failed: %w", ErrInsufficientBalance)
	}
	return nil
}
