package store_test

import (
	"context"
	"os"
	"strings"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/kjannette/trahn-dashboard/internal/models"
	"github.com/kjannette/trahn-dashboard/internal/store"
)

type failingStore struct{}

func (failingStore) Read(context.Context, string) ([]byte, error) {
	return nil, errors.New("connection refused")
}
func (failingStore) Write(context.Context, string, []byte) error { return errors.New("read-only") }
func (failingStore) Close() error                                { return nil }

func TestDocuments_MissingLoadsEmpty(t *testing.T) {
	docs := store.NewDocuments(store.NewFileStore(t.TempDir()), zaptest.NewLogger(t))
	ctx := context.Background()

	series, err := docs.LoadSnapshots(ctx)
	require.NoError(t, err)
	assert.Empty(t, series)

	log, err := docs.LoadActivity(ctx)
	require.NoError(t, err)
	assert.Empty(t, log.Entries)

	latest, err := docs.LoadLatest(ctx)
	require.NoError(t, err)
	assert.Nil(t, latest)
}

func TestDocuments_CorruptLoadsEmpty(t *testing.T) {
	fs := store.NewFileStore(t.TempDir())
	ctx := context.Background()
	require.NoError(t, fs.Write(ctx, store.KeySnapshots, []byte(`{"snapshots": [{"date": "2026-01-01"}, {oops`)))
	require.NoError(t, fs.Write(ctx, store.KeyActivity, []byte(`not json at all`)))

	docs := store.NewDocuments(fs, zaptest.NewLogger(t))

	series, err := docs.LoadSnapshots(ctx)
	require.NoError(t, err)
	assert.Empty(t, series)

	log, err := docs.LoadActivity(ctx)
	require.NoError(t, err)
	assert.Empty(t, log.Entries)
}

func TestDocuments_UnreadableFileLoadsEmpty(t *testing.T) {
	fs := store.NewFileStore(t.TempDir())
	ctx := context.Background()
	for _, key := range []string{store.KeySnapshots, store.KeyActivity, store.KeyLatest} {
		require.NoError(t, os.MkdirAll(fs.Path(key), 0o755))
	}

	_, err := fs.Read(ctx, store.KeySnapshots)
	require.ErrorIs(t, err, store.ErrUnreadable)

	docs := store.NewDocuments(fs, zaptest.NewLogger(t))

	series, err := docs.LoadSnapshots(ctx)
	require.NoError(t, err)
	assert.Empty(t, series)

	log, err := docs.LoadActivity(ctx)
	require.NoError(t, err)
	assert.Empty(t, log.Entries)

	latest, err := docs.LoadLatest(ctx)
	require.NoError(t, err)
	assert.Nil(t, latest)
}

func TestDocuments_ReadErrorIsFatal(t *testing.T) {
	docs := store.NewDocuments(failingStore{}, nil)
	_, err := docs.LoadSnapshots(context.Background())
	assert.Error(t, err)
	assert.Error(t, docs.SaveLatest(context.Background(), models.LatestSummary{}))
}

func TestDocuments_SaveFormat(t *testing.T) {
	fs := store.NewFileStore(t.TempDir())
	docs := store.NewDocuments(fs, nil)
	ctx := context.Background()

	series := []models.Snapshot{{
		Date:        "2026-03-05",
		Balances:    models.Balances{SolanaDevnet: models.ParseBalance("1.0000 SOL")},
		ETHPriceUSD: 2500,
		TasksActive: 5,
	}}
	require.NoError(t, docs.SaveSnapshots(ctx, series))

	raw, err := os.ReadFile(fs.Path(store.KeySnapshots))
	require.NoError(t, err)
	text := string(raw)
	assert.True(t, strings.HasPrefix(text, "{\n  \"snapshots\": ["), text)
	assert.True(t, strings.HasSuffix(text, "}\n"))
	assert.Contains(t, text, `"solana_devnet": "1.0000 SOL"`)
	assert.Contains(t, text, `"milestone": null`)

	loaded, err := docs.LoadSnapshots(ctx)
	require.NoError(t, err)
	require.Len(t, loaded, 1)
	assert.Equal(t, "2026-03-05", loaded[0].Date)
	assert.Equal(t, "1.0000 SOL", loaded[0].Balances.SolanaDevnet.String())
}

func TestDocuments_EmptySeriesEncodesAsArray(t *testing.T) {
	fs := store.NewFileStore(t.TempDir())
	docs := store.NewDocuments(fs, nil)
	require.NoError(t, docs.SaveSnapshots(context.Background(), nil))
	raw, err := os.ReadFile(fs.Path(store.KeySnapshots))
	require.NoError(t, err)
	assert.JSONEq(t, `{"snapshots": []}`, string(raw))
}
