// Package config loads brokerd configuration from a file and environment.
package config

import (
	"fmt"
	"strings"

	"github.com/ethereum/go-ethereum/common"
	"github.com/spf13/viper"
)

// PairConfig describes one trading pair to register at startup.
type PairConfig struct {
	BaseToken      string `mapstructure:"base_token"`
	QuoteToken     string `mapstructure:"quote_token"`
	TreeWidth      uint32 `mapstructure:"tree_width"`
	PricePrecision string `mapstructure:"price_precision"`
	BaseDecimals   uint8  `mapstructure:"base_decimals"`
	QuoteDecimals  uint8  `mapstructure:"quote_decimals"`
}

// MintConfig credits an account with token supply at startup.
type MintConfig struct {
	Token   string `mapstructure:"token"`
	Account string `mapstructure:"account"`
	Amount  string `mapstructure:"amount"`
}

// PoolSeedConfig funds the AMM pool for one pair at startup. Pair refers to
// the index in the Pairs list.
type PoolSeedConfig struct {
	Pair        int    `mapstructure:"pair"`
	BaseAmount  string `mapstructure:"base_amount"`
	QuoteAmount string `mapstructure:"quote_amount"`
}

// Config is the full brokerd configuration.
type Config struct {
	LogLevel  string `mapstructure:"log_level"`
	DBBackend string `mapstructure:"db_backend"`
	DBDir     string `mapstructure:"db_dir"`

	Admin       string `mapstructure:"admin"`
	Escrow      string `mapstructure:"escrow"`
	FeeSink     string `mapstructure:"fee_sink"`
	PoolAccount string `mapstructure:"pool_account"`
	FeeBps      uint32 `mapstructure:"fee_bps"`

	MetricsAddr string `mapstructure:"metrics_addr"`

	Pairs     []PairConfig     `mapstructure:"pairs"`
	Mints     []MintConfig     `mapstructure:"mints"`
	PoolSeeds []PoolSeedConfig `mapstructure:"pool_seeds"`
}

// Load reads configuration from the given file (optional) with BROKERD_*
// environment variables taking precedence.
func Load(path string) (Config, error) {
	v := viper.New()
	v.SetDefault("log_level", "info")
	v.SetDefault("db_backend", "memdb")
	v.SetDefault("db_dir", "data")
	v.SetDefault("fee_bps", 0)

	v.SetEnvPrefix("BROKERD")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return Config{}, fmt.Errorf("read config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("unmarshal config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks addresses and cross references before anything touches the
// store.
func (c Config) Validate() error {
	for name, addr := range map[string]string{
		"admin":        c.Admin,
		"escrow":       c.Escrow,
		"fee_sink":     c.FeeSink,
		"pool_account": c.PoolAccount,
	} {
		if addr == "" {
			return fmt.Errorf("config: %s address is required", name)
		}
		if !common.IsHexAddress(addr) {
			return fmt.Errorf("config: %s is not a hex address: %q", name, addr)
		}
	}
	for i, p := range c.Pairs {
		if !common.IsHexAddress(p.BaseToken) || !common.IsHexAddress(p.QuoteToken) {
			return fmt.Errorf("config: pair %d has an invalid token address", i)
		}
	}
	for i, m := range c.Mints {
		if !common.IsHexAddress(m.Token) || !common.IsHexAddress(m.Account) {
			return fmt.Errorf("config: mint %d has an invalid address", i)
		}
	}
	for i, s := range c.PoolSeeds {
		if s.Pair < 0 || s.Pair >= len(c.Pairs) {
			return fmt.Errorf("config: pool seed %d references unknown pair %d", i, s.Pair)
		}
	}
	return nil
}
