package services

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/paperrank/internal/core/domain"
)

// stubCache provides counting get/put/compute loaders for readThrough.
type stubCache struct {
	stored     *domain.Summary
	getErr     error
	putErr     error
	computed   *domain.Summary
	computeErr error

	gets     int
	puts     int
	computes int
}

func (s *stubCache) get(_ context.Context, _ string) (*domain.Summary, error) {
	s.gets++
	if s.getErr != nil {
		return nil, s.getErr
	}
	if s.stored == nil {
		return nil, domain.ErrNotFound
	}
	return s.stored, nil
}

func (s *stubCache) put(_ context.Context, value *domain.Summary) error {
	s.puts++
	if s.putErr != nil {
		return s.putErr
	}
	s.stored = value
	return nil
}

func (s *stubCache) compute(_ context.Context, _ string) (*domain.Summary, error) {
	s.computes++
	if s.computeErr != nil {
		return nil, s.computeErr
	}
	return s.computed, nil
}

func (s *stubCache) lookup(refresh bool) (*domain.Summary, error) {
	return readThrough(context.Background(), "paper-1", refresh, s.get, s.put, s.compute)
}

func TestReadThrough_Hit(t *testing.T) {
	cache := &stubCache{stored: &domain.Summary{PaperID: "paper-1", Text: "cached"}}

	value, err := cache.lookup(false)

	require.NoError(t, err)
	assert.Equal(t, "cached", value.Text)
	assert.Equal(t, 0, cache.computes)
	assert.Equal(t, 0, cache.puts)
}

func TestReadThrough_MissComputesAndStores(t *testing.T) {
	cache := &stubCache{computed: &domain.Summary{PaperID: "paper-1", Text: "fresh"}}

	value, err := cache.lookup(false)

	require.NoError(t, err)
	assert.Equal(t, "fresh", value.Text)
	assert.Equal(t, 1, cache.computes)
	assert.Equal(t, 1, cache.puts)
	assert.Equal(t, value, cache.stored)
}

func TestReadThrough_SecondLookupIsAHit(t *testing.T) {
	cache := &stubCache{computed: &domain.Summary{PaperID: "paper-1", Text: "fresh"}}

	first, err := cache.lookup(false)
	require.NoError(t, err)
	second, err := cache.lookup(false)
	require.NoError(t, err)

	assert.Equal(t, first.Text, second.Text)
	assert.Equal(t, 1, cache.computes)
}

func TestReadThrough_RefreshSkipsRead(t *testing.T) {
	cache := &stubCache{
		stored:   &domain.Summary{PaperID: "paper-1", Text: "stale"},
		computed: &domain.Summary{PaperID: "paper-1", Text: "fresh"},
	}

	value, err := cache.lookup(true)

	require.NoError(t, err)
	assert.Equal(t, "fresh", value.Text)
	assert.Equal(t, 0, cache.gets)
	assert.Equal(t, 1, cache.puts)
}

func TestReadThrough_ReadFailurePropagates(t *testing.T) {
	cache := &stubCache{getErr: errors.New("cache table corrupt")}

	_, err := cache.lookup(false)

	require.Error(t, err)
	assert.Contains(t, err.Error(), "cache table corrupt")
	assert.Equal(t, 0, cache.computes)
}

func TestReadThrough_ComputeFailurePropagates(t *testing.T) {
	cache := &stubCache{computeErr: errors.New("provider unreachable")}

	_, err := cache.lookup(false)

	require.Error(t, err)
	assert.Contains(t, err.Error(), "provider unreachable")
	assert.Equal(t, 0, cache.puts)
}

func TestReadThrough_PutFailureNonFatal(t *testing.T) {
	cache := &stubCache{
		computed: &domain.Summary{PaperID: "paper-1", Text: "fresh"},
		putErr:   errors.New("disk full"),
	}

	value, err := cache.lookup(false)

	require.NoError(t, err)
	assert.Equal(t, "fresh", value.Text)
}
