// Package balances fetches today's observation: the three tracked wallet
// balances and the ETH/USD reference price. Fetches run in parallel and each
// one falls back to a default on failure, so Fetch never fails.
package balances

import (
	"context"
	"time"

	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/kjannette/trahn-dashboard/internal/models"
)

type SolanaReader interface {
	Balance(ctx context.Context, address string) (decimal.Decimal, error)
}

type EVMReader interface {
	ETHBalance(ctx context.Context, address string) (decimal.Decimal, error)
}

type PriceSource interface {
	GetETHPrice(ctx context.Context) (float64, error)
}

type Sources struct {
	Solana SolanaReader
	Base   EVMReader
	Eth    EVMReader
	Price  PriceSource
}

type Accounts struct {
	SolanaWallet string
	BaseWallet   string
	EthWallet    string
}

type Options struct {
	// FetchTimeout bounds each individual fetch. Zero means DefaultFetchTimeout.
	FetchTimeout time.Duration
	DefaultPrice float64
	Now          func() time.Time
}

const (
	DefaultFetchTimeout = 20 * time.Second
	DefaultETHPrice     = 2500
)

var errNoSource = errors.New("no source configured")

type Provider struct {
	src      Sources
	accounts Accounts
	opts     Options
	logger   *zap.Logger
}

func NewProvider(src Sources, accounts Accounts, opts Options, logger *zap.Logger) *Provider {
	if opts.FetchTimeout <= 0 {
		opts.FetchTimeout = DefaultFetchTimeout
	}
	if opts.DefaultPrice <= 0 {
		opts.DefaultPrice = DefaultETHPrice
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Provider{src: src, accounts: accounts, opts: opts, logger: logger.Named("provider")}
}

// Fetch collects every reading concurrently and waits for all of them.
func (p *Provider) Fetch(ctx context.Context) models.Observation {
	var (
		obs models.Observation
		g   errgroup.Group
	)

	g.Go(func() error {
		obs.Balances.SolanaDevnet = p.solana(ctx)
		return nil
	})
	g.Go(func() error {
		obs.Balances.BaseSepolia = p.evm(ctx, "Base Sepolia", p.src.Base, p.accounts.BaseWallet)
		return nil
	})
	g.Go(func() error {
		obs.Balances.EthSepolia = p.evm(ctx, "ETH Sepolia", p.src.Eth, p.accounts.EthWallet)
		return nil
	})
	g.Go(func() error {
		obs.ETHPriceUSD = p.price(ctx)
		return nil
	})
	_ = g.Wait()

	obs.FetchedAt = p.opts.Now()
	return obs
}

func (p *Provider) solana(ctx context.Context) models.Balance {
	ctx, cancel := context.WithTimeout(ctx, p.opts.FetchTimeout)
	defer cancel()

	if p.src.Solana == nil {
		p.fallback("Solana", errNoSource)
		return models.SOL(decimal.Zero)
	}
	sol, err := p.src.Solana.Balance(ctx, p.accounts.SolanaWallet)
	if err != nil {
		p.fallback("Solana", err)
		return models.SOL(decimal.Zero)
	}
	b := models.SOL(sol)
	p.logger.Info("balance fetched", zap.String("chain", "Solana"), zap.Stringer("balance", b))
	return b
}

func (p *Provider) evm(ctx context.Context, label string, r EVMReader, address string) models.Balance {
	ctx, cancel := context.WithTimeout(ctx, p.opts.FetchTimeout)
	defer cancel()

	if r == nil {
		p.fallback(label, errNoSource)
		return models.ETH(decimal.Zero)
	}
	eth, err := r.ETHBalance(ctx, address)
	if err != nil {
		p.fallback(label, err)
		return models.ETH(decimal.Zero)
	}
	b := models.ETH(eth)
	p.logger.Info("balance fetched", zap.String("chain", label), zap.Stringer("balance", b))
	return b
}

func (p *Provider) price(ctx context.Context) float64 {
	ctx, cancel := context.WithTimeout(ctx, p.opts.FetchTimeout)
	defer cancel()

	if p.src.Price == nil {
		p.logger.Warn("ETH price unavailable, using default", zap.Float64("default", p.opts.DefaultPrice), zap.Error(errNoSource))
		return p.opts.DefaultPrice
	}
	price, err := p.src.Price.GetETHPrice(ctx)
	if err != nil || price <= 0 {
		p.logger.Warn("ETH price fetch failed, using default",
			zap.Float64("default", p.opts.DefaultPrice), zap.Error(err))
		return p.opts.DefaultPrice
	}
	p.logger.Info("ETH price fetched", zap.Float64("usd", price))
	return price
}

func (p *Provider) fallback(label string, err error) {
	p.logger.Warn("balance fetch failed, recording zero", zap.String("chain", label), zap.Error(err))
}
