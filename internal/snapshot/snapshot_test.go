package snapshot

import (
	"testing"
	"time"

	"github.com/kjannette/trahn-dashboard/internal/models"
	"github.com/shopspring/decimal"
)

var base = time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)

func obs(sol string) models.Observation {
	return models.Observation{
		Balances: models.Balances{
			SolanaDevnet: models.SOL(decimal.RequireFromString(sol)),
			BaseSepolia:  models.ETH(decimal.Zero),
			EthSepolia:   models.ETH(decimal.Zero),
		},
		ETHPriceUSD: 2500,
	}
}

func TestUpsert_EmptySeries(t *testing.T) {
	out := Upsert(nil, base, obs("1"))
	if len(out) != 1 {
		t.Fatalf("expected 1 snapshot, got %d", len(out))
	}
	s := out[0]
	if s.Date != "2026-03-01" {
		t.Fatalf("date: got %s", s.Date)
	}
	if s.TasksCompleted != 0 || s.TasksActive != 5 || s.Milestone != nil {
		t.Fatalf("defaults not applied: %+v", s)
	}
	if s.ETHPriceUSD != 2500 {
		t.Fatalf("price: got %f", s.ETHPriceUSD)
	}
}

func TestUpsert_SameDayOverwrites(t *testing.T) {
	first := Upsert(nil, base, obs("1"))
	second := Upsert(first, base.Add(3*time.Hour), obs("2"))

	if len(second) != 1 {
		t.Fatalf("expected 1 snapshot after re-run, got %d", len(second))
	}
	if got := second[0].Balances.SolanaDevnet.String(); got != "2.0000 SOL" {
		t.Fatalf("expected second run values, got %s", got)
	}
	if got := first[0].Balances.SolanaDevnet.String(); got != "1.0000 SOL" {
		t.Fatalf("input series was mutated: %s", got)
	}
}

func TestUpsert_UsesUTCDate(t *testing.T) {
	est := time.FixedZone("EST", -5*3600)
	late := time.Date(2026, 3, 1, 22, 0, 0, 0, est) // 03:00 UTC next day
	out := Upsert(nil, late, obs("1"))
	if out[0].Date != "2026-03-02" {
		t.Fatalf("expected UTC date 2026-03-02, got %s", out[0].Date)
	}
}

func TestUpsert_SortsAscending(t *testing.T) {
	series := []models.Snapshot{
		{Date: "2026-02-27"},
		{Date: "2026-02-25"},
		{Date: "2026-02-28"},
	}
	out := Upsert(series, base, obs("1"))
	want := []string{"2026-02-25", "2026-02-27", "2026-02-28", "2026-03-01"}
	if len(out) != len(want) {
		t.Fatalf("length: got %d", len(out))
	}
	for i, d := range want {
		if out[i].Date != d {
			t.Fatalf("index %d: got %s, want %s", i, out[i].Date, d)
		}
	}
}

func TestUpsert_CollapsesDuplicateHistory(t *testing.T) {
	series := []models.Snapshot{
		{Date: "2026-02-20", ETHPriceUSD: 1},
		{Date: "2026-02-20", ETHPriceUSD: 2},
	}
	out := Upsert(series, base, obs("1"))
	if len(out) != 2 {
		t.Fatalf("expected 2 snapshots, got %d", len(out))
	}
	if out[0].ETHPriceUSD != 2 {
		t.Fatalf("expected last duplicate to win, got price %f", out[0].ETHPriceUSD)
	}
}

func TestUpsert_KeepsNewest90(t *testing.T) {
	var series []models.Snapshot
	for i := 0; i < 120; i++ {
		series = Upsert(series, base.AddDate(0, 0, i), obs("1"))
	}
	if len(series) != MaxSnapshots {
		t.Fatalf("expected %d snapshots, got %d", MaxSnapshots, len(series))
	}
	if series[0].Date != Today(base.AddDate(0, 0, 30)) {
		t.Fatalf("oldest retained: got %s", series[0].Date)
	}
	if series[len(series)-1].Date != Today(base.AddDate(0, 0, 119)) {
		t.Fatalf("newest retained: got %s", series[len(series)-1].Date)
	}
}

func TestBefore(t *testing.T) {
	series := []models.Snapshot{{Date: "2026-02-26"}, {Date: "2026-02-28"}, {Date: "2026-03-01"}}
	prev := Before(series, "2026-03-01")
	if prev == nil || prev.Date != "2026-02-28" {
		t.Fatalf("expected 2026-02-28, got %+v", prev)
	}
	if Before(series, "2026-02-26") != nil {
		t.Fatal("expected no snapshot before the first date")
	}
}
