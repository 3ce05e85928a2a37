// Package source provides factory functions for paper source adapters.
package source

import (
	"context"
	"fmt"

	"github.com/custodia-labs/paperrank/internal/adapters/driven/source/filesystem"
	"github.com/custodia-labs/paperrank/internal/adapters/driven/source/s3"
	"github.com/custodia-labs/paperrank/internal/core/domain"
	"github.com/custodia-labs/paperrank/internal/core/ports/driven"
)

// validator is implemented by sources that can check their backing store.
type validator interface {
	Validate(ctx context.Context) error
}

// Create builds the paper source selected by settings. An empty type
// defaults to the filesystem source.
func Create(settings domain.SourceSettings) (driven.PaperSource, error) {
	switch settings.Type {
	case "filesystem", "":
		if settings.Path == "" {
			return nil, fmt.Errorf("source path is required for the filesystem source")
		}
		return filesystem.New(settings.Path), nil

	case "s3":
		return s3.NewSource(s3.Config{
			Endpoint:  settings.Endpoint,
			Bucket:    settings.Bucket,
			Region:    settings.Region,
			AccessKey: settings.AccessKey,
			SecretKey: settings.SecretKey,
			UseSSL:    settings.UseSSL,
		})

	default:
		return nil, fmt.Errorf("unsupported source type: %s", settings.Type)
	}
}

// CreateAndValidate builds the paper source and checks that its backing
// store is reachable, so ingestion fails fast on misconfiguration.
func CreateAndValidate(ctx context.Context, settings domain.SourceSettings) (driven.PaperSource, error) {
	src, err := Create(settings)
	if err != nil {
		return nil, err
	}

	if v, ok := src.(validator); ok {
		if err := v.Validate(ctx); err != nil {
			return nil, fmt.Errorf("source unavailable: %w. Run 'paperrank settings' to fix", err)
		}
	}
	return src, nil
}
