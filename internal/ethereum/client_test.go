package ethereum

import (
	"context"
	"encoding/json"
	"math/big"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

// rpcServer answers eth_getBalance with result and records the params it saw.
func rpcServer(t *testing.T, result string, seen *[]any) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			ID     json.RawMessage `json:"id"`
			Method string          `json:"method"`
			Params []any           `json:"params"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Errorf("decode request: %v", err)
			return
		}
		if req.Method != "eth_getBalance" {
			t.Errorf("unexpected method %s", req.Method)
		}
		if seen != nil {
			*seen = req.Params
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"jsonrpc":"2.0","id":` + string(req.ID) + `,"result":"` + result + `"}`))
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestETHBalance(t *testing.T) {
	var params []any
	srv := rpcServer(t, "0xde0b6b3a7640000", &params) // 1e18 wei

	c, err := Dial(context.Background(), srv.URL)
	if err != nil {
		t.Fatalf("Dial: %v", err)
	}
	defer c.Close()

	bal, err := c.ETHBalance(context.Background(), "0x3DE91DCF9D4d949237Bb77c3b2273878f9186f82")
	if err != nil {
		t.Fatalf("ETHBalance: %v", err)
	}
	if bal.StringFixed(6) != "1.000000" {
		t.Fatalf("expected 1.000000, got %s", bal.StringFixed(6))
	}
	if len(params) != 2 || !strings.EqualFold(params[0].(string), "0x3DE91DCF9D4d949237Bb77c3b2273878f9186f82") || params[1] != "latest" {
		t.Fatalf("unexpected params: %v", params)
	}
}

func TestWeiToETH(t *testing.T) {
	wei, _ := new(big.Int).SetString("1500000000000000", 10)
	if got := WeiToETH(wei).StringFixed(6); got != "0.001500" {
		t.Fatalf("got %s", got)
	}
	if !WeiToETH(nil).IsZero() {
		t.Fatal("nil wei should be zero")
	}
}
