package sqlite

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/paperrank/internal/core/domain"
)

// ==================== SummaryStore Tests ====================

func TestSummaryStore_PutAndGet(t *testing.T) {
	store, cleanup := setupTestStore(t)
	defer cleanup()

	ctx := context.Background()
	generated := time.Now().UTC().Truncate(time.Second)
	summary := &domain.Summary{
		PaperID:     "paper-1",
		Text:        "A concise summary of the paper.",
		Model:       "gpt-3.5-turbo",
		GeneratedAt: generated,
	}
	require.NoError(t, store.SummaryStore().Put(ctx, summary))

	retrieved, err := store.SummaryStore().Get(ctx, "paper-1")
	require.NoError(t, err)
	require.NotNil(t, retrieved)
	assert.Equal(t, summary.PaperID, retrieved.PaperID)
	assert.Equal(t, summary.Text, retrieved.Text)
	assert.Equal(t, summary.Model, retrieved.Model)
	assert.True(t, retrieved.GeneratedAt.Equal(generated))
}

func TestSummaryStore_Get_Miss(t *testing.T) {
	store, cleanup := setupTestStore(t)
	defer cleanup()

	retrieved, err := store.SummaryStore().Get(context.Background(), "unknown")
	assert.ErrorIs(t, err, domain.ErrNotFound)
	assert.Nil(t, retrieved)
}

func TestSummaryStore_Put_Overwrites(t *testing.T) {
	store, cleanup := setupTestStore(t)
	defer cleanup()

	ctx := context.Background()
	require.NoError(t, store.SummaryStore().Put(ctx, &domain.Summary{
		PaperID:     "paper-1",
		Text:        "First summary.",
		Model:       "model-a",
		GeneratedAt: time.Now().UTC(),
	}))
	require.NoError(t, store.SummaryStore().Put(ctx, &domain.Summary{
		PaperID:     "paper-1",
		Text:        "Second summary.",
		Model:       "model-b",
		GeneratedAt: time.Now().UTC(),
	}))

	retrieved, err := store.SummaryStore().Get(ctx, "paper-1")
	require.NoError(t, err)
	assert.Equal(t, "Second summary.", retrieved.Text)
	assert.Equal(t, "model-b", retrieved.Model)

	// Exactly one row per paper
	var count int
	require.NoError(t, store.db.QueryRow(
		"SELECT COUNT(*) FROM summaries WHERE paper_id = ?", "paper-1").Scan(&count))
	assert.Equal(t, 1, count)
}

func TestSummaryStore_Put_InvalidInput(t *testing.T) {
	store, cleanup := setupTestStore(t)
	defer cleanup()

	ctx := context.Background()
	assert.ErrorIs(t, store.SummaryStore().Put(ctx, nil), domain.ErrInvalidInput)
	assert.ErrorIs(t, store.SummaryStore().Put(ctx, &domain.Summary{Text: "no paper"}), domain.ErrInvalidInput)
}
