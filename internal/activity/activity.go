// Package activity keeps the dashboard's bounded, human-readable run log.
package activity

import (
	"fmt"

	"github.com/kjannette/trahn-dashboard/internal/models"
)

const (
	MaxEntries = 60

	TypeDailySnapshot = "daily-snapshot"
	snapshotEmoji     = "📊"
)

// Record appends a daily-snapshot entry for date unless one already exists.
// The returned bool reports whether the log changed.
func Record(log models.ActivityLog, date string, b models.Balances) (models.ActivityLog, bool) {
	if HasEntry(log, date, TypeDailySnapshot) {
		return log, false
	}

	entries := make([]models.ActivityEntry, 0, len(log.Entries)+1)
	entries = append(entries, log.Entries...)
	entries = append(entries, models.ActivityEntry{
		Date:    date,
		Type:    TypeDailySnapshot,
		Message: Message(b),
		Emoji:   snapshotEmoji,
	})
	if len(entries) > MaxEntries {
		entries = entries[len(entries)-MaxEntries:]
	}
	return models.ActivityLog{Entries: entries}, true
}

func HasEntry(log models.ActivityLog, date, typ string) bool {
	for _, e := range log.Entries {
		if e.Date == date && e.Type == typ {
			return true
		}
	}
	return false
}

func Message(b models.Balances) string {
	return fmt.Sprintf("Daily snapshot recorded — SOL: %s | Base: %s | ETH: %s %s",
		b.SolanaDevnet, b.BaseSepolia, b.EthSepolia, snapshotEmoji)
}
