// Package snapshot merges a day's observation into the retained history.
package snapshot

import (
	"sort"
	"time"

	"github.com/kjannette/trahn-dashboard/internal/models"
)

const (
	// MaxSnapshots is how many days of history are retained.
	MaxSnapshots = 90

	defaultTasksActive = 5
)

// Today returns the UTC calendar date key for now.
func Today(now time.Time) string {
	return now.UTC().Format(models.DateLayout)
}

// Upsert replaces today's entry (if any) with a fresh one built from obs,
// sorts the series by date and keeps only the newest MaxSnapshots entries.
// Older duplicate dates in a hand-edited document collapse to the last one.
// The input slice is left untouched.
func Upsert(series []models.Snapshot, now time.Time, obs models.Observation) []models.Snapshot {
	today := Today(now)

	out := make([]models.Snapshot, 0, len(series)+1)
	seen := make(map[string]int, len(series))
	for _, s := range series {
		if s.Date == today {
			continue
		}
		if i, ok := seen[s.Date]; ok {
			out[i] = s
			continue
		}
		seen[s.Date] = len(out)
		out = append(out, s)
	}
	out = append(out, models.Snapshot{
		Date:           today,
		Balances:       obs.Balances,
		ETHPriceUSD:    obs.ETHPriceUSD,
		TasksCompleted: 0,
		TasksActive:    defaultTasksActive,
		Milestone:      nil,
	})

	// Dates are fixed-width YYYY-MM-DD, so string order is chronological.
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Date < out[j].Date
	})

	if len(out) > MaxSnapshots {
		out = out[len(out)-MaxSnapshots:]
	}
	return out
}

// Before returns the newest snapshot dated strictly before date, or nil.
// series must be sorted ascending.
func Before(series []models.Snapshot, date string) *models.Snapshot {
	for i := len(series) - 1; i >= 0; i-- {
		if series[i].Date < date {
			s := series[i]
			return &s
		}
	}
	return nil
}
