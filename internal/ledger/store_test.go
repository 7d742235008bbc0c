package ledger

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/born-ml/aadmc/internal/pricing"
)

func memStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(context.Background(), ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func sampleRun(product pricing.Product) Run {
	return FromResult(pricing.Result{
		Product:       product,
		Model:         pricing.DefaultBlackModel(),
		Paths:         100000,
		HFactor:       0.005,
		Value:         0.1172,
		Delta:         6.9,
		AnalyticValue: 0.11722,
		AnalyticDelta: 6.887,
		Elapsed:       1500 * time.Millisecond,
	}, 3413, "stratified")
}

func TestRecordAndGet(t *testing.T) {
	s := memStore(t)
	ctx := context.Background()

	rec, err := s.Record(ctx, sampleRun(pricing.DigitalCaplet))
	require.NoError(t, err)
	_, err = uuid.Parse(rec.ID)
	require.NoError(t, err)
	assert.False(t, rec.CreatedAt.IsZero())

	got, err := s.Get(ctx, rec.ID)
	require.NoError(t, err)
	assert.True(t, rec.CreatedAt.Equal(got.CreatedAt))
	got.CreatedAt = rec.CreatedAt
	assert.Equal(t, rec, got)
	assert.Equal(t, "digital-caplet", got.Product)
	assert.Equal(t, uint64(3413), got.Seed)
	assert.Equal(t, pricing.DefaultBlackModel(), got.Model)
}

func TestGet_NotFound(t *testing.T) {
	s := memStore(t)
	_, err := s.Get(context.Background(), uuid.New().String())
	assert.True(t, errors.Is(err, ErrRunNotFound))
}

func TestList(t *testing.T) {
	s := memStore(t)
	ctx := context.Background()

	var ids []string
	for _, p := range pricing.Products {
		rec, err := s.Record(ctx, sampleRun(p))
		require.NoError(t, err)
		ids = append(ids, rec.ID)
	}

	all, err := s.List(ctx, 0)
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, ids[2], all[0].ID, "newest first")
	assert.Equal(t, ids[0], all[2].ID)

	two, err := s.List(ctx, 2)
	require.NoError(t, err)
	assert.Len(t, two, 2)
}

func TestOpen_File(t *testing.T) {
	path := filepath.Join(t.TempDir(), "runs.db")
	ctx := context.Background()

	s, err := Open(ctx, path)
	require.NoError(t, err)
	rec, err := s.Record(ctx, sampleRun(pricing.Caplet))
	require.NoError(t, err)
	require.NoError(t, s.Close())

	// Reopening keeps the schema and the rows.
	s, err = Open(ctx, path)
	require.NoError(t, err)
	defer s.Close()

	got, err := s.Get(ctx, rec.ID)
	require.NoError(t, err)
	assert.Equal(t, "caplet", got.Product)
	assert.Equal(t, 1500*time.Millisecond, got.Elapsed)
}
