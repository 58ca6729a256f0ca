// Package dashboard runs one daily update: fetch today's observation, fold it
// into the stored series, recompute the latest summary and record activity.
package dashboard

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/kjannette/trahn-dashboard/internal/activity"
	"github.com/kjannette/trahn-dashboard/internal/metrics"
	"github.com/kjannette/trahn-dashboard/internal/models"
	"github.com/kjannette/trahn-dashboard/internal/notifications"
	"github.com/kjannette/trahn-dashboard/internal/snapshot"
	"github.com/kjannette/trahn-dashboard/internal/store"
)

type Provider interface {
	Fetch(ctx context.Context) models.Observation
}

type Notifier interface {
	Send(ctx context.Context, msg string)
}

type Options struct {
	// DryRun fetches and computes but writes nothing and sends nothing.
	DryRun bool
	Clock  func() time.Time
}

type Runner struct {
	provider Provider
	docs     *store.Documents
	notify   Notifier
	opts     Options
	logger   *zap.Logger
}

// Result is what a run produced, whether or not it was persisted.
type Result struct {
	RunID           string
	Date            string
	Observation     models.Observation
	Series          []models.Snapshot
	Latest          models.LatestSummary
	Activity        models.ActivityLog
	ActivityChanged bool
}

func NewRunner(p Provider, docs *store.Documents, notify Notifier, opts Options, logger *zap.Logger) *Runner {
	if opts.Clock == nil {
		opts.Clock = time.Now
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Runner{provider: p, docs: docs, notify: notify, opts: opts, logger: logger.Named("dashboard")}
}

func (r *Runner) Run(ctx context.Context) (*Result, error) {
	res := &Result{RunID: uuid.NewString()}
	log := r.logger.With(zap.String("run_id", res.RunID), zap.Bool("dry_run", r.opts.DryRun))
	log.Info("daily update started")

	res.Observation = r.provider.Fetch(ctx)
	now := r.opts.Clock()
	res.Date = snapshot.Today(now)

	series, err := r.docs.LoadSnapshots(ctx)
	if err != nil {
		return nil, err
	}
	res.Series = snapshot.Upsert(series, now, res.Observation)
	log.Info("snapshot upserted", zap.String("date", res.Date), zap.Int("snapshots", len(res.Series)))

	res.Latest = metrics.BuildLatestSummary(res.Series, res.Observation.Balances, now)
	log.Info("summary computed",
		zap.Int("streak_days", res.Latest.StreakDays),
		zap.String("sol_change", res.Latest.DailyChange.SolanaDevnet),
		zap.String("base_change", res.Latest.DailyChange.BaseSepolia),
		zap.String("eth_change", res.Latest.DailyChange.EthSepolia))

	prior, err := r.docs.LoadActivity(ctx)
	if err != nil {
		return nil, err
	}
	res.Activity, res.ActivityChanged = activity.Record(prior, res.Date, res.Observation.Balances)

	if r.opts.DryRun {
		log.Info("dry run, nothing written")
		return res, nil
	}

	if err := r.docs.SaveSnapshots(ctx, res.Series); err != nil {
		return nil, err
	}
	if err := r.docs.SaveLatest(ctx, res.Latest); err != nil {
		return nil, err
	}
	if res.ActivityChanged {
		if err := r.docs.SaveActivity(ctx, res.Activity); err != nil {
			return nil, err
		}
		log.Info("activity recorded", zap.Int("entries", len(res.Activity.Entries)))
	} else {
		log.Info("activity already recorded for today")
	}

	if r.notify != nil {
		r.notify.Send(ctx, notifications.Summary(res.Latest, res.Observation.ETHPriceUSD))
	}

	log.Info("daily update complete")
	return res, nil
}

// Status returns the stored latest summary.
func (r *Runner) Status(ctx context.Context) (*models.LatestSummary, error) {
	latest, err := r.docs.LoadLatest(ctx)
	if err != nil {
		return nil, err
	}
	if latest == nil {
		return nil, errors.New("no latest summary stored yet")
	}
	return latest, nil
}
