// Package solana reads native SOL balances over Solana's JSON-RPC 2.0 API.
package solana

import (
	"context"
	"math/big"

	"github.com/ethereum/go-ethereum/rpc"
	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
)

const lamportDecimals = 9

type Client struct {
	rpc *rpc.Client
}

// Dial connects with go-ethereum's generic JSON-RPC client; Solana speaks the
// same JSON-RPC 2.0 envelope, only the methods differ.
func Dial(ctx context.Context, rpcURL string) (*Client, error) {
	c, err := rpc.DialContext(ctx, rpcURL)
	if err != nil {
		return nil, errors.Wrap(err, "dial RPC")
	}
	return &Client{rpc: c}, nil
}

func (c *Client) Close() { c.rpc.Close() }

type balanceResult struct {
	Context struct {
		Slot uint64 `json:"slot"`
	} `json:"context"`
	Value uint64 `json:"value"`
}

// Lamports returns the balance of address in lamports.
func (c *Client) Lamports(ctx context.Context, address string) (uint64, error) {
	var res balanceResult
	if err := c.rpc.CallContext(ctx, &res, "getBalance", address); err != nil {
		return 0, errors.Wrap(err, "getBalance")
	}
	return res.Value, nil
}

// Balance returns the balance of address in SOL.
func (c *Client) Balance(ctx context.Context, address string) (decimal.Decimal, error) {
	lamports, err := c.Lamports(ctx, address)
	if err != nil {
		return decimal.Zero, err
	}
	return LamportsToSOL(lamports), nil
}

func LamportsToSOL(lamports uint64) decimal.Decimal {
	return decimal.NewFromBigInt(new(big.Int).SetUint64(lamports), -lamportDecimals)
}
