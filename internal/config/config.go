package config

import (
	"fmt"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/kjannette/trahn-dashboard/internal/store"
)

type Config struct {
	// RPC endpoints
	SolanaRPC string
	BaseRPC   string
	EthRPC    string

	// Tracked wallets
	SolanaWallet string
	BaseWallet   string
	EthWallet    string

	// Reference price
	PriceURL        string
	DefaultETHPrice float64

	FetchTimeout time.Duration

	// State
	StateBackend  string
	DataDir       string
	DatabaseURL   string
	RedisAddr     string
	RedisPassword string
	RedisDB       int
	RedisPrefix   string
	SQLitePath    string

	// Notifications
	WebhookURL string
	BotName    string

	// Logging
	LogLevel  string
	LogFormat string
}

func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{
		SolanaRPC: envStr("SOLANA_RPC", "https://api.devnet.solana.com"),
		BaseRPC:   envStr("BASE_RPC", "https://sepolia.base.org"),
		EthRPC:    envStr("ETH_RPC", "https://ethereum-sepolia-rpc.publicnode.com"),

		SolanaWallet: envStr("SOLANA_WALLET", "925Ss7kt3Gy7oEohuxzBGt9HKtdAbFSooAveYekqvC3v"),
		BaseWallet:   envStr("BASE_WALLET", "0x3DE91DCF9D4d949237Bb77c3b2273878f9186f82"),
		EthWallet:    envStr("ETH_WALLET", "0xFf4b06E931C69e6BDCac8e59298bB570e8D19f0e"),

		PriceURL:        envStr("PRICE_URL", "https://api.coingecko.com/api/v3/simple/price?ids=ethereum&vs_currencies=usd"),
		DefaultETHPrice: envFloat("DEFAULT_ETH_PRICE", 2500),

		FetchTimeout: envDuration("FETCH_TIMEOUT", 20*time.Second),

		StateBackend:  strings.ToLower(envStr("STATE_BACKEND", store.BackendFile)),
		DataDir:       envStr("DATA_DIR", "data"),
		DatabaseURL:   envStr("DATABASE_URL", ""),
		RedisAddr:     envStr("REDIS_ADDR", ""),
		RedisPassword: envStr("REDIS_PASSWORD", ""),
		RedisDB:       envInt("REDIS_DB", 0),
		RedisPrefix:   envStr("REDIS_PREFIX", "dashboard:"),
		SQLitePath:    envStr("SQLITE_PATH", "data/dashboard.db"),

		WebhookURL: envStr("WEBHOOK_URL", ""),
		BotName:    envStr("BOT_NAME", "TrahnDashboard"),

		LogLevel:  envStr("LOG_LEVEL", "info"),
		LogFormat: envStr("LOG_FORMAT", "console"),
	}

	return cfg, nil
}

func (c *Config) Validate() error {
	var errs []string

	for name, v := range map[string]string{"SOLANA_RPC": c.SolanaRPC, "BASE_RPC": c.BaseRPC, "ETH_RPC": c.EthRPC} {
		if _, err := url.ParseRequestURI(v); err != nil {
			errs = append(errs, fmt.Sprintf("%s is not a valid URL", name))
		}
	}
	if c.FetchTimeout <= 0 {
		errs = append(errs, "FETCH_TIMEOUT must be positive")
	}
	if c.DefaultETHPrice <= 0 {
		errs = append(errs, "DEFAULT_ETH_PRICE must be positive")
	}

	switch c.StateBackend {
	case store.BackendFile:
		if c.DataDir == "" {
			errs = append(errs, "DATA_DIR is required for the file backend")
		}
	case store.BackendPostgres:
		if c.DatabaseURL == "" {
			errs = append(errs, "DATABASE_URL is required for the postgres backend")
		}
	case store.BackendRedis:
		if c.RedisAddr == "" {
			errs = append(errs, "REDIS_ADDR is required for the redis backend")
		}
	case store.BackendSQLite:
		if c.SQLitePath == "" {
			errs = append(errs, "SQLITE_PATH is required for the sqlite backend")
		}
	default:
		errs = append(errs, fmt.Sprintf("STATE_BACKEND %q is not one of file, postgres, redis, sqlite", c.StateBackend))
	}

	if len(errs) > 0 {
		return errors.Errorf("config validation failed:\n  %s", strings.Join(errs, "\n  "))
	}
	return nil
}

func (c *Config) StoreOptions() store.Options {
	return store.Options{
		Backend:       c.StateBackend,
		DataDir:       c.DataDir,
		DatabaseURL:   c.DatabaseURL,
		RedisAddr:     c.RedisAddr,
		RedisPassword: c.RedisPassword,
		RedisDB:       c.RedisDB,
		RedisPrefix:   c.RedisPrefix,
		SQLitePath:    c.SQLitePath,
	}
}

// Print logs the effective configuration without secrets.
func (c *Config) Print(logger *zap.Logger) {
	logger.Info("configuration",
		zap.String("solana_rpc", redactURL(c.SolanaRPC)),
		zap.String("base_rpc", redactURL(c.BaseRPC)),
		zap.String("eth_rpc", redactURL(c.EthRPC)),
		zap.String("solana_wallet", truncAddr(c.SolanaWallet)),
		zap.String("base_wallet", truncAddr(c.BaseWallet)),
		zap.String("eth_wallet", truncAddr(c.EthWallet)),
		zap.Duration("fetch_timeout", c.FetchTimeout),
		zap.String("state_backend", c.StateBackend),
		zap.String("webhook", boolLabel(c.WebhookURL != "", "configured", "not set")),
	)
}

// --- helpers ---

func envStr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}

func envFloat(key string, fallback float64) float64 {
	if v := os.Getenv(key); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
		}
	}
	return fallback
}

// envDuration accepts Go durations ("30s") or a bare number of seconds.
func envDuration(key string, fallback time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	if d, err := time.ParseDuration(v); err == nil {
		return d
	}
	if n, err := strconv.Atoi(v); err == nil {
		return time.Duration(n) * time.Second
	}
	return fallback
}

// redactURL drops path and query, where providers like Alchemy put API keys.
func redactURL(raw string) string {
	u, err := url.Parse(raw)
	if err != nil || u.Host == "" {
		return "invalid"
	}
	if u.Path != "" && u.Path != "/" || u.RawQuery != "" {
		return u.Scheme + "://" + u.Host + "/..."
	}
	return u.Scheme + "://" + u.Host
}

func truncAddr(addr string) string {
	if len(addr) > 16 {
		return addr[:10] + "..." + addr[len(addr)-6:]
	}
	return addr
}

func boolLabel(cond bool, ifTrue, ifFalse string) string {
	if cond {
		return ifTrue
	}
	return ifFalse
}
