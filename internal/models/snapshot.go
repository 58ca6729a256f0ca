package models

import (
	"encoding/json"
	"time"
)

const DateLayout = "2006-01-02"

// TimestampLayout matches the millisecond ISO-8601 form the dashboard reads.
const TimestampLayout = "2006-01-02T15:04:05.000Z07:00"

type Snapshot struct {
	Date           string          `json:"date"`
	Balances       Balances        `json:"balances"`
	ETHPriceUSD    float64         `json:"eth_price_usd"`
	TasksCompleted int             `json:"tasks_completed"`
	TasksActive    int             `json:"tasks_active"`
	Milestone      json.RawMessage `json:"milestone"`
}

type SnapshotDocument struct {
	Snapshots []Snapshot `json:"snapshots"`
}

// Observation is what the balance provider returns for one run.
type Observation struct {
	Balances    Balances
	ETHPriceUSD float64
	FetchedAt   time.Time
}

type LatestSummary struct {
	LastUpdated         string   `json:"last_updated"`
	Balances            Balances `json:"balances"`
	DailyChange         Delta    `json:"daily_change"`
	StreakDays          int      `json:"streak_days"`
	TotalTasksCompleted int      `json:"total_tasks_completed"`
}
