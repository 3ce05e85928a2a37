package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/custodia-labs/paperrank/internal/core/domain"
	"github.com/custodia-labs/paperrank/internal/logger"
)

// readThrough returns the cached value for key when get finds one, and
// otherwise computes, stores, and returns a fresh one. refresh skips the
// cache read so compute always runs. A failed put never discards the
// computed value; the caller still gets it.
func readThrough(
	ctx context.Context,
	key string,
	refresh bool,
	get func(context.Context, string) (*domain.Summary, error),
	put func(context.Context, *domain.Summary) error,
	compute func(context.Context, string) (*domain.Summary, error),
) (*domain.Summary, error) {
	if !refresh {
		cached, err := get(ctx, key)
		if err == nil {
			logger.Debug("Cache hit for %s", key)
			return cached, nil
		}
		if !errors.Is(err, domain.ErrNotFound) {
			return nil, fmt.Errorf("read cache: %w", err)
		}
	}

	value, err := compute(ctx, key)
	if err != nil {
		return nil, err
	}

	if err := put(ctx, value); err != nil {
		logger.Warn("Failed to cache value for %s: %v", key, err)
	}
	return value, nil
}
