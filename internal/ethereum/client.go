package ethereum

import (
	"context"
	"math/big"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/ethclient"
	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
)

const weiDecimals = 18

// Client is a read-only EVM JSON-RPC client used for native balance lookups.
type Client struct {
	rpc *ethclient.Client
}

func Dial(ctx context.Context, rpcURL string) (*Client, error) {
	rpc, err := ethclient.DialContext(ctx, rpcURL)
	if err != nil {
		return nil, errors.Wrap(err, "dial RPC")
	}
	return &Client{rpc: rpc}, nil
}

func (c *Client) Close() { c.rpc.Close() }

// BalanceAt returns the latest native balance of address in wei.
func (c *Client) BalanceAt(ctx context.Context, address string) (*big.Int, error) {
	return c.rpc.BalanceAt(ctx, common.HexToAddress(address), nil)
}

// ETHBalance returns the latest native balance of address in ETH.
func (c *Client) ETHBalance(ctx context.Context, address string) (decimal.Decimal, error) {
	wei, err := c.BalanceAt(ctx, address)
	if err != nil {
		return decimal.Zero, err
	}
	return WeiToETH(wei), nil
}

func WeiToETH(wei *big.Int) decimal.Decimal {
	if wei == nil {
		return decimal.Zero
	}
	return decimal.NewFromBigInt(wei, -weiDecimals)
}
