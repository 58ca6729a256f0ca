package main

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kjannette/trahn-dashboard/internal/models"
)

// chainServer answers Solana and EVM balance calls plus the price feed.
func chainServer(t *testing.T) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		if r.Method == http.MethodGet {
			w.Write([]byte(`{"ethereum":{"usd":3150.25}}`))
			return
		}
		var req struct {
			ID     json.RawMessage `json:"id"`
			Method string          `json:"method"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Errorf("decode: %v", err)
			return
		}
		var result string
		switch req.Method {
		case "getBalance":
			result = `{"context":{"slot":1},"value":2500000000}`
		case "eth_getBalance":
			result = `"0x16345785d8a0000"`
		default:
			t.Errorf("unexpected method %s", req.Method)
			result = `null`
		}
		w.Write([]byte(`{"jsonrpc":"2.0","id":` + string(req.ID) + `,"result":` + result + `}`))
	}))
	t.Cleanup(srv.Close)
	return srv
}

func setEnv(t *testing.T, rpc string) string {
	dir := t.TempDir()
	t.Setenv("SOLANA_RPC", rpc)
	t.Setenv("BASE_RPC", rpc)
	t.Setenv("ETH_RPC", rpc)
	t.Setenv("PRICE_URL", rpc+"/price")
	t.Setenv("STATE_BACKEND", "file")
	t.Setenv("DATA_DIR", dir)
	t.Setenv("WEBHOOK_URL", "")
	t.Setenv("LOG_LEVEL", "error")
	t.Setenv("LOG_FORMAT", "json")
	return dir
}

func TestCLI_RunThenStatus(t *testing.T) {
	srv := chainServer(t)
	dir := setEnv(t, srv.URL)

	var out bytes.Buffer
	require.NoError(t, newApp(&out).Run([]string{"daily", "run"}))

	data, err := os.ReadFile(filepath.Join(dir, "daily-snapshots.json"))
	require.NoError(t, err)
	var doc models.SnapshotDocument
	require.NoError(t, json.Unmarshal(data, &doc))
	require.Len(t, doc.Snapshots, 1)
	assert.Equal(t, "2.5000 SOL", doc.Snapshots[0].Balances.SolanaDevnet.String())
	assert.Equal(t, "0.100000 ETH", doc.Snapshots[0].Balances.BaseSepolia.String())
	assert.Equal(t, 3150.25, doc.Snapshots[0].ETHPriceUSD)

	out.Reset()
	require.NoError(t, newApp(&out).Run([]string{"daily", "status"}))
	var latest models.LatestSummary
	require.NoError(t, json.Unmarshal(out.Bytes(), &latest))
	assert.Equal(t, 1, latest.StreakDays)
	assert.Equal(t, "+2.5000", latest.DailyChange.SolanaDevnet)
}

func TestCLI_DryRun(t *testing.T) {
	srv := chainServer(t)
	dir := setEnv(t, srv.URL)

	require.NoError(t, newApp(&bytes.Buffer{}).Run([]string{"daily", "--dry-run"}))

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestCLI_StatusWithoutState(t *testing.T) {
	setEnv(t, "http://127.0.0.1:1")
	assert.Error(t, newApp(&bytes.Buffer{}).Run([]string{"daily", "status"}))
}

func TestCLI_InvalidConfig(t *testing.T) {
	setEnv(t, "http://127.0.0.1:1")
	t.Setenv("STATE_BACKEND", "s3")
	assert.Error(t, newApp(&bytes.Buffer{}).Run([]string{"daily", "run"}))
}
