package store

import (
	"context"
	"encoding/json"

	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/kjannette/trahn-dashboard/internal/models"
)

const (
	KeySnapshots = "daily-snapshots"
	KeyLatest    = "latest"
	KeyActivity  = "activity-log"
)

// Documents reads and writes the three dashboard documents. A missing,
// unreadable or undecodable document loads as empty; any other read failure
// (a database or redis error) is returned.
type Documents struct {
	store  Store
	logger *zap.Logger
}

func NewDocuments(s Store, logger *zap.Logger) *Documents {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Documents{store: s, logger: logger.Named("store")}
}

func (d *Documents) LoadSnapshots(ctx context.Context) ([]models.Snapshot, error) {
	doc, err := load[models.SnapshotDocument](ctx, d, KeySnapshots)
	if err != nil {
		return nil, err
	}
	return doc.Snapshots, nil
}

func (d *Documents) SaveSnapshots(ctx context.Context, series []models.Snapshot) error {
	if series == nil {
		series = []models.Snapshot{}
	}
	return d.save(ctx, KeySnapshots, models.SnapshotDocument{Snapshots: series})
}

func (d *Documents) LoadActivity(ctx context.Context) (models.ActivityLog, error) {
	return load[models.ActivityLog](ctx, d, KeyActivity)
}

func (d *Documents) SaveActivity(ctx context.Context, log models.ActivityLog) error {
	if log.Entries == nil {
		log.Entries = []models.ActivityEntry{}
	}
	return d.save(ctx, KeyActivity, log)
}

// LoadLatest returns nil when no summary has been written yet.
func (d *Documents) LoadLatest(ctx context.Context) (*models.LatestSummary, error) {
	data, err := d.store.Read(ctx, KeyLatest)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, nil
		}
		if errors.Is(err, ErrUnreadable) {
			d.logger.Warn("latest summary unreadable", zap.Error(err))
			return nil, nil
		}
		return nil, errors.Wrap(err, "load latest summary")
	}
	var latest models.LatestSummary
	if err := json.Unmarshal(data, &latest); err != nil {
		return nil, errors.Wrap(err, "decode latest summary")
	}
	return &latest, nil
}

func (d *Documents) SaveLatest(ctx context.Context, latest models.LatestSummary) error {
	return d.save(ctx, KeyLatest, latest)
}

func load[T any](ctx context.Context, d *Documents, key string) (T, error) {
	var empty T
	data, err := d.store.Read(ctx, key)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			d.logger.Info("no prior state, starting empty", zap.String("key", key))
			return empty, nil
		}
		if errors.Is(err, ErrUnreadable) {
			d.logger.Warn("prior state unreadable, starting empty",
				zap.String("key", key), zap.Error(err))
			return empty, nil
		}
		return empty, errors.Wrapf(err, "load %s", key)
	}
	var v T
	if err := json.Unmarshal(data, &v); err != nil {
		d.logger.Warn("prior state is not valid JSON, starting empty",
			zap.String("key", key), zap.Error(err))
		return empty, nil
	}
	return v, nil
}

func (d *Documents) save(ctx context.Context, key string, v any) error {
	data, err := Encode(v)
	if err != nil {
		return errors.Wrapf(err, "encode %s", key)
	}
	if err := d.store.Write(ctx, key, data); err != nil {
		return errors.Wrapf(err, "save %s", key)
	}
	return nil
}

// Encode renders v as 2-space indented JSON with a trailing newline.
func Encode(v any) ([]byte, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return nil, err
	}
	return append(data, '\n'), nil
}
