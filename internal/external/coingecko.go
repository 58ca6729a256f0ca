package external

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/kjannette/trahn-dashboard/internal/httputil"
)

const DefaultCoinGeckoURL = "https://api.coingecko.com/api/v3/simple/price?ids=ethereum&vs_currencies=usd"

type CoinGeckoClient struct {
	url        string
	httpClient *http.Client
	retry      httputil.RetryConfig
}

func NewCoinGeckoClient(url string, logger *zap.Logger) *CoinGeckoClient {
	if url == "" {
		url = DefaultCoinGeckoURL
	}
	return &CoinGeckoClient{
		url:        url,
		httpClient: &http.Client{Timeout: 10 * time.Second},
		retry: httputil.RetryConfig{
			MaxAttempts: 3,
			BaseDelay:   2 * time.Second,
			MaxDelay:    10 * time.Second,
			Logger:      logger,
		},
	}
}

// WithRetry overrides the retry policy; tests use it to keep backoff short.
func (c *CoinGeckoClient) WithRetry(cfg httputil.RetryConfig) *CoinGeckoClient {
	c.retry = cfg
	return c
}

func (c *CoinGeckoClient) GetETHPrice(ctx context.Context) (float64, error) {
	resp, err := httputil.Do(ctx, c.httpClient, c.retry, func() (*http.Request, error) {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.url, nil)
		if err != nil {
			return nil, err
		}
		req.Header.Set("Accept", "application/json")
		return req, nil
	})
	if err != nil {
		return 0, errors.Wrap(err, "coingecko fetch")
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return 0, errors.Errorf("coingecko returned status %d", resp.StatusCode)
	}

	var data struct {
		Ethereum struct {
			USD float64 `json:"usd"`
		} `json:"ethereum"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&data); err != nil {
		return 0, errors.Wrap(err, "decode")
	}

	if data.Ethereum.USD <= 0 {
		return 0, errors.Errorf("invalid price: %f", data.Ethereum.USD)
	}

	return data.Ethereum.USD, nil
}
