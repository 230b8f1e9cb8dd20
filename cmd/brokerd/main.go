// Command brokerd runs the hybrid broker as a standalone process: it loads
// a configuration, registers pairs, seeds balances and pool liquidity, and
// exposes engine metrics. With --demo it additionally executes a small
// scripted trading session and exits.
package main

import (
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/ethereum/go-ethereum/common"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"
	dbm "github.com/tendermint/tm-db"
	"go.uber.org/zap"

	"github.com/hybridex/broker/broker"
	"github.com/hybridex/broker/config"
	"github.com/hybridex/broker/providers/amm"
	"github.com/hybridex/broker/providers/token"
	"github.com/hybridex/broker/state"
)

func main() {
	var (
		configPath string
		demo       bool
	)

	root := &cobra.Command{
		Use:           "brokerd",
		Short:         "hybrid order book / AMM broker daemon",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(configPath)
			if err != nil {
				return err
			}
			return run(cfg, demo)
		},
	}
	root.Flags().StringVarP(&configPath, "config", "c", "", "path to config file")
	root.Flags().BoolVar(&demo, "demo", false, "run a scripted trading session and exit")

	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "brokerd:", err)
		os.Exit(1)
	}
}

func run(cfg config.Config, demo bool) error {
	logger, err := newLogger(cfg.LogLevel)
	if err != nil {
		return err
	}
	defer func() { _ = logger.Sync() }()

	db, err := dbm.NewDB("broker", dbm.BackendType(cfg.DBBackend), cfg.DBDir)
	if err != nil {
		return fmt.Errorf("open %s db: %w", cfg.DBBackend, err)
	}
	defer db.Close()

	store := state.NewStore(db, logger.Named("state"))
	ledger := token.NewLedger(logger.Named("token"))

	admin := common.HexToAddress(cfg.Admin)
	escrow := common.HexToAddress(cfg.Escrow)
	pool := amm.NewPool(ledger, common.HexToAddress(cfg.PoolAccount), escrow, logger.Named("amm"))

	registry := prometheus.NewRegistry()
	b := broker.NewBroker(store,
		broker.Deps{
			Token:   ledger,
			AMM:     pool,
			Fees:    broker.BasisPointsFee{Bps: cfg.FeeBps},
			Auth:    broker.AdminAuthority{Admin: admin},
			Escrow:  escrow,
			FeeSink: common.HexToAddress(cfg.FeeSink),
		},
		&logHandler{logger: logger.Named("events")},
		broker.WithLogger(logger.Named("broker")),
		broker.WithMetrics(broker.NewMetrics(registry)),
	)

	pairs, err := setup(cfg, b, ledger, pool, admin)
	if err != nil {
		return err
	}
	logger.Info("broker ready", zap.Int("pairs", len(pairs)))

	if demo {
		return runDemo(b, pairs, logger)
	}

	if cfg.MetricsAddr != "" {
		go func() {
			handler := promhttp.HandlerFor(registry, promhttp.HandlerOpts{})
			if err := http.ListenAndServe(cfg.MetricsAddr, handler); err != nil {
				logger.Error("metrics server stopped", zap.Error(err))
			}
		}()
		logger.Info("serving metrics", zap.String("addr", cfg.MetricsAddr))
	}

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop
	logger.Info("shutting down")
	return nil
}

func newLogger(level string) (*zap.Logger, error) {
	lvl, err := zap.ParseAtomicLevel(level)
	if err != nil {
		return nil, fmt.Errorf("log level %q: %w", level, err)
	}
	zcfg := zap.NewProductionConfig()
	zcfg.Level = lvl
	return zcfg.Build()
}

// setup registers the configured pairs and applies mint and pool seeds. Pair
// registration goes through the engine; seeding writes through a single
// session committed at the end.
func setup(cfg config.Config, b *broker.Broker, ledger *token.Ledger, pool *amm.Pool, admin common.Address) ([]broker.Pair, error) {
	pairs := make([]broker.Pair, 0, len(cfg.Pairs))
	for i, pc := range cfg.Pairs {
		precision, err := broker.NewUintFromStr(pc.PricePrecision)
		if err != nil {
			return nil, fmt.Errorf("pair %d price precision: %w", i, err)
		}
		pair, err := b.RegisterPair(admin, broker.Pair{
			BaseToken:      common.HexToAddress(pc.BaseToken),
			QuoteToken:     common.HexToAddress(pc.QuoteToken),
			TreeWidth:      pc.TreeWidth,
			PricePrecision: precision,
			BaseDecimals:   pc.BaseDecimals,
			QuoteDecimals:  pc.QuoteDecimals,
		})
		if err != nil {
			return nil, fmt.Errorf("register pair %d: %w", i, err)
		}
		pairs = append(pairs, pair)
	}

	s := b.Store().Begin()
	defer s.Discard()
	for i, m := range cfg.Mints {
		amount, err := broker.NewUintFromStr(m.Amount)
		if err != nil {
			return nil, fmt.Errorf("mint %d amount: %w", i, err)
		}
		if err := ledger.Mint(s, common.HexToAddress(m.Token), common.HexToAddress(m.Account), amount); err != nil {
			return nil, fmt.Errorf("mint %d: %w", i, err)
		}
	}
	for i, ps := range cfg.PoolSeeds {
		baseAmount, err := broker.NewUintFromStr(ps.BaseAmount)
		if err != nil {
			return nil, fmt.Errorf("pool seed %d base amount: %w", i, err)
		}
		quoteAmount, err := broker.NewUintFromStr(ps.QuoteAmount)
		if err != nil {
			return nil, fmt.Errorf("pool seed %d quote amount: %w", i, err)
		}
		if err := pool.Seed(s, pairs[ps.Pair], admin, baseAmount, quoteAmount); err != nil {
			return nil, fmt.Errorf("pool seed %d: %w", i, err)
		}
	}
	if err := s.Commit(); err != nil {
		return nil, fmt.Errorf("commit seeds: %w", err)
	}
	return pairs, nil
}

// runDemo places a maker and a crossing taker on the first configured pair,
// then cancels the maker remainder and claims the proceeds.
func runDemo(b *broker.Broker, pairs []broker.Pair, logger *zap.Logger) error {
	if len(pairs) == 0 {
		return fmt.Errorf("demo requires at least one configured pair")
	}
	pair := pairs[0]

	maker := common.HexToAddress("0x00000000000000000000000000000000000000A1")
	taker := common.HexToAddress("0x00000000000000000000000000000000000000B2")
	price := pair.PricePrecision.Mul64(100)
	makerBase := pair.BaseUnit().Mul64(10)

	sell, err := b.PlaceOrder(pair.ID, broker.SideSell, price, makerBase, maker, uuid.New())
	if err != nil {
		return fmt.Errorf("demo maker: %w", err)
	}

	takerQuote := pair.BaseToQuote(pair.BaseUnit().Mul64(4), price)
	buy, err := b.PlaceOrder(pair.ID, broker.SideBuy, price, takerQuote, taker, uuid.New())
	if err != nil {
		return fmt.Errorf("demo taker: %w", err)
	}
	logger.Info("demo taker done",
		zap.Stringer("taken_base", buy.TakenBase),
		zap.Stringer("amm_base", buy.AmmBase),
	)

	fill, err := b.FillState(sell.ID)
	if err != nil {
		return fmt.Errorf("demo fill state: %w", err)
	}
	logger.Info("demo maker fill",
		zap.Stringer("filled_base", fill.FilledBase),
		zap.Stringer("unfilled_base", fill.UnfilledBase),
	)

	if err := b.Claim(maker, sell.ID); err != nil {
		return fmt.Errorf("demo claim: %w", err)
	}
	if !fill.UnfilledBase.IsZero() {
		if err := b.Cancel(maker, sell.ID, fill.UnfilledBase); err != nil {
			return fmt.Errorf("demo cancel: %w", err)
		}
	}
	logger.Info("demo finished")
	return nil
}
