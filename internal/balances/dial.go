package balances

import (
	"context"
	"io"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/kjannette/trahn-dashboard/internal/config"
	"github.com/kjannette/trahn-dashboard/internal/ethereum"
	"github.com/kjannette/trahn-dashboard/internal/external"
	"github.com/kjannette/trahn-dashboard/internal/solana"
)

// failedReader stands in for a chain whose RPC could not be dialed, so that
// chain falls back to zero while the others still run.
type failedReader struct{ err error }

func (f failedReader) Balance(context.Context, string) (decimal.Decimal, error) {
	return decimal.Zero, f.err
}

func (f failedReader) ETHBalance(context.Context, string) (decimal.Decimal, error) {
	return decimal.Zero, f.err
}

type closerFunc func()

func (f closerFunc) Close() error { f(); return nil }

// Dial builds a Provider backed by the configured RPC endpoints and price
// feed. Dial errors are logged and demoted to per-chain fallbacks. The
// returned closer releases every RPC connection that was opened.
func Dial(ctx context.Context, cfg *config.Config, logger *zap.Logger) (*Provider, io.Closer) {
	if logger == nil {
		logger = zap.NewNop()
	}
	log := logger.Named("provider")
	var closers []func()

	src := Sources{
		Price: external.NewCoinGeckoClient(cfg.PriceURL, logger.Named("coingecko")),
	}

	if c, err := solana.Dial(ctx, cfg.SolanaRPC); err != nil {
		log.Warn("solana dial failed", zap.Error(err))
		src.Solana = failedReader{err}
	} else {
		src.Solana = c
		closers = append(closers, c.Close)
	}

	src.Base = dialEVM(ctx, "Base Sepolia", cfg.BaseRPC, log, &closers)
	src.Eth = dialEVM(ctx, "ETH Sepolia", cfg.EthRPC, log, &closers)

	p := NewProvider(src, Accounts{
		SolanaWallet: cfg.SolanaWallet,
		BaseWallet:   cfg.BaseWallet,
		EthWallet:    cfg.EthWallet,
	}, Options{
		FetchTimeout: cfg.FetchTimeout,
		DefaultPrice: cfg.DefaultETHPrice,
	}, logger)

	return p, closerFunc(func() {
		for _, c := range closers {
			c()
		}
	})
}

func dialEVM(ctx context.Context, label, url string, log *zap.Logger, closers *[]func()) EVMReader {
	c, err := ethereum.Dial(ctx, url)
	if err != nil {
		log.Warn("evm dial failed", zap.String("chain", label), zap.Error(err))
		return failedReader{err}
	}
	*closers = append(*closers, c.Close)
	return c
}
