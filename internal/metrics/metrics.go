// Package metrics derives the day-over-day delta and update streak shown on
// the dashboard from the snapshot history.
package metrics

import (
	"math"
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"github.com/kjannette/trahn-dashboard/internal/models"
	"github.com/kjannette/trahn-dashboard/internal/snapshot"
)

// ComputeDelta returns cur - prev for every tracked chain, taken between the
// values as displayed, so equal renderings always give a zero delta. A nil
// prev (first run) is treated as all zero.
func ComputeDelta(prev *models.Balances, cur models.Balances) models.Delta {
	var p models.Balances
	if prev != nil {
		p = *prev
	}
	return models.Delta{
		SolanaDevnet: signed(cur.SolanaDevnet.Magnitude().Sub(p.SolanaDevnet.Magnitude()), models.SolanaPlaces),
		BaseSepolia:  signed(cur.BaseSepolia.Magnitude().Sub(p.BaseSepolia.Magnitude()), models.EVMPlaces),
		EthSepolia:   signed(cur.EthSepolia.Magnitude().Sub(p.EthSepolia.Magnitude()), models.EVMPlaces),
	}
}

// DeltaFromStrings is ComputeDelta for callers holding display strings.
func DeltaFromStrings(prev map[models.ChainKey]string, cur map[models.ChainKey]string) models.Delta {
	var pb *models.Balances
	if prev != nil {
		b := fromStrings(prev)
		pb = &b
	}
	return ComputeDelta(pb, fromStrings(cur))
}

func fromStrings(m map[models.ChainKey]string) models.Balances {
	return models.Balances{
		SolanaDevnet: models.ParseBalance(m[models.ChainSolanaDevnet]),
		BaseSepolia:  models.ParseBalance(m[models.ChainBaseSepolia]),
		EthSepolia:   models.ParseBalance(m[models.ChainEthSepolia]),
	}
}

// signed renders d to places with '+' when d >= 0. A negative d keeps its
// '-' even when it rounds to zero.
func signed(d decimal.Decimal, places int32) string {
	if d.Sign() < 0 {
		return "-" + d.Abs().StringFixed(places)
	}
	return "+" + d.StringFixed(places)
}

// ComputeStreak counts consecutive calendar days ending at the newest date in
// series. It stops at the first gap, so older gaps never matter.
func ComputeStreak(series []models.Snapshot) int {
	dates := distinctDates(series)
	sort.Sort(sort.Reverse(sort.StringSlice(dates)))

	streak := 1
	for i := 1; i < len(dates); i++ {
		newer, err1 := time.Parse(models.DateLayout, dates[i-1])
		older, err2 := time.Parse(models.DateLayout, dates[i])
		if err1 != nil || err2 != nil {
			break
		}
		if dayDiff(newer, older) != 1 {
			break
		}
		streak++
	}
	return streak
}

func distinctDates(series []models.Snapshot) []string {
	seen := make(map[string]struct{}, len(series))
	dates := make([]string, 0, len(series))
	for _, s := range series {
		if _, ok := seen[s.Date]; ok {
			continue
		}
		seen[s.Date] = struct{}{}
		dates = append(dates, s.Date)
	}
	return dates
}

func dayDiff(newer, older time.Time) int {
	return int(math.Round(newer.Sub(older).Hours() / 24))
}

// BuildLatestSummary composes delta and streak for the summary document. The
// baseline is the newest snapshot strictly before today's UTC date.
func BuildLatestSummary(series []models.Snapshot, current models.Balances, now time.Time) models.LatestSummary {
	var prev *models.Balances
	if s := snapshot.Before(series, snapshot.Today(now)); s != nil {
		prev = &s.Balances
	}
	return models.LatestSummary{
		LastUpdated:         now.UTC().Format(models.TimestampLayout),
		Balances:            current,
		DailyChange:         ComputeDelta(prev, current),
		StreakDays:          ComputeStreak(series),
		TotalTasksCompleted: 0,
	}
}
