package memory

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/paperrank/internal/core/domain"
)

func TestVectorStore_UpsertAndFetch(t *testing.T) {
	store := NewVectorStore()
	ctx := context.Background()

	require.NoError(t, store.Upsert(ctx, "paper-1", []domain.ChunkVector{
		{ChunkIndex: 1, Values: []float32{0, 1}},
		{ChunkIndex: 0, Values: []float32{1, 0}},
	}))

	fetched, err := store.FetchVectors(ctx, []string{"paper-1"})
	require.NoError(t, err)
	require.Len(t, fetched["paper-1"], 2)
	assert.Equal(t, 0, fetched["paper-1"][0].ChunkIndex)
	assert.Equal(t, []float32{1, 0}, fetched["paper-1"][0].Values)
	assert.Equal(t, 1, fetched["paper-1"][1].ChunkIndex)
}

func TestVectorStore_Upsert_ReplacesExisting(t *testing.T) {
	store := NewVectorStore()
	ctx := context.Background()

	require.NoError(t, store.Upsert(ctx, "paper-1", []domain.ChunkVector{
		{ChunkIndex: 0, Values: []float32{1, 0}},
		{ChunkIndex: 1, Values: []float32{0, 1}},
	}))
	require.NoError(t, store.Upsert(ctx, "paper-1", []domain.ChunkVector{
		{ChunkIndex: 0, Values: []float32{0.5, 0.5}},
	}))

	fetched, err := store.FetchVectors(ctx, []string{"paper-1"})
	require.NoError(t, err)
	require.Len(t, fetched["paper-1"], 1)
	assert.Equal(t, []float32{0.5, 0.5}, fetched["paper-1"][0].Values)
}

func TestVectorStore_Upsert_EmptyPaperID(t *testing.T) {
	store := NewVectorStore()

	err := store.Upsert(context.Background(), "", nil)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestVectorStore_FetchVectors_AbsentPapersOmitted(t *testing.T) {
	store := NewVectorStore()
	ctx := context.Background()

	require.NoError(t, store.Upsert(ctx, "paper-1", []domain.ChunkVector{
		{ChunkIndex: 0, Values: []float32{1, 0}},
	}))

	fetched, err := store.FetchVectors(ctx, []string{"paper-1", "paper-missing"})
	require.NoError(t, err)
	assert.Contains(t, fetched, "paper-1")
	assert.NotContains(t, fetched, "paper-missing")
}

func TestVectorStore_DeleteAll(t *testing.T) {
	store := NewVectorStore()
	ctx := context.Background()

	require.NoError(t, store.Upsert(ctx, "paper-1", []domain.ChunkVector{
		{ChunkIndex: 0, Values: []float32{1, 0}},
	}))
	require.NoError(t, store.DeleteAll(ctx, "paper-1"))

	fetched, err := store.FetchVectors(ctx, []string{"paper-1"})
	require.NoError(t, err)
	assert.Empty(t, fetched)
}

func TestVectorStore_ResultIsACopy(t *testing.T) {
	store := NewVectorStore()
	ctx := context.Background()

	require.NoError(t, store.Upsert(ctx, "paper-1", []domain.ChunkVector{
		{ChunkIndex: 0, Values: []float32{1, 0}},
	}))

	fetched, err := store.FetchVectors(ctx, []string{"paper-1"})
	require.NoError(t, err)
	fetched["paper-1"][0].ChunkIndex = 99

	again, err := store.FetchVectors(ctx, []string{"paper-1"})
	require.NoError(t, err)
	assert.Equal(t, 0, again["paper-1"][0].ChunkIndex)
}

func TestVectorStore_Close(t *testing.T) {
	store := NewVectorStore()
	assert.NoError(t, store.Close())
}
