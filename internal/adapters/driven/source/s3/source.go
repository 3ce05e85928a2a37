// Package s3 provides a paper source backed by an S3-compatible object
// store. Seed papers live under the seeds/ prefix and corpus papers
// under corpus/; keys are the full object keys.
package s3

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	"github.com/custodia-labs/paperrank/internal/core/domain"
	"github.com/custodia-labs/paperrank/internal/core/ports/driven"
)

const (
	sourceType = "s3"

	seedPrefix   = "seeds/"
	corpusPrefix = "corpus/"
)

// Config holds S3 source configuration.
type Config struct {
	// Endpoint is the S3-compatible endpoint host (required).
	Endpoint string

	// Bucket holds the seeds/ and corpus/ prefixes (required).
	Bucket string

	// Region is the bucket region.
	Region string

	// AccessKey and SecretKey authenticate requests. When empty, the
	// standard AWS environment variables are consulted instead.
	AccessKey string
	SecretKey string

	// UseSSL toggles TLS for the endpoint.
	UseSSL bool
}

// Source reads papers from an S3-compatible bucket.
type Source struct {
	client *minio.Client
	bucket string
}

// NewSource creates an S3 source for the configured bucket.
func NewSource(cfg Config) (*Source, error) {
	if cfg.Endpoint == "" {
		return nil, fmt.Errorf("s3 endpoint is required")
	}
	if cfg.Bucket == "" {
		return nil, fmt.Errorf("s3 bucket is required")
	}

	creds := credentials.NewEnvAWS()
	if cfg.AccessKey != "" {
		creds = credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, "")
	}

	client, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  creds,
		Secure: cfg.UseSSL,
		Region: cfg.Region,
	})
	if err != nil {
		return nil, fmt.Errorf("create s3 client: %w", err)
	}

	return &Source{client: client, bucket: cfg.Bucket}, nil
}

// Type returns the source type identifier.
func (s *Source) Type() string {
	return sourceType
}

// Validate checks that the bucket is reachable and exists.
func (s *Source) Validate(ctx context.Context) error {
	exists, err := s.client.BucketExists(ctx, s.bucket)
	if err != nil {
		return fmt.Errorf("check bucket %q: %w", s.bucket, err)
	}
	if !exists {
		return fmt.Errorf("bucket %q does not exist", s.bucket)
	}
	return nil
}

// List enumerates papers with the given role by listing the role's
// prefix. Folder placeholder objects are skipped.
func (s *Source) List(ctx context.Context, role domain.PaperRole) ([]driven.SourceObject, error) {
	prefix, err := rolePrefix(role)
	if err != nil {
		return nil, err
	}

	var objects []driven.SourceObject
	listing := s.client.ListObjects(ctx, s.bucket, minio.ListObjectsOptions{
		Prefix:    prefix,
		Recursive: true,
	})
	for info := range listing {
		if info.Err != nil {
			return nil, fmt.Errorf("list %s papers: %w", role, info.Err)
		}
		if strings.HasSuffix(info.Key, "/") {
			continue
		}

		objects = append(objects, driven.SourceObject{
			Key:        info.Key,
			Role:       role,
			Size:       info.Size,
			ETag:       info.ETag,
			ModifiedAt: info.LastModified,
		})
	}
	return objects, nil
}

// Fetch retrieves the raw bytes for an object key.
func (s *Source) Fetch(ctx context.Context, key string) ([]byte, error) {
	if key == "" {
		return nil, fmt.Errorf("%w: empty source key", domain.ErrInvalidInput)
	}

	obj, err := s.client.GetObject(ctx, s.bucket, key, minio.GetObjectOptions{})
	if err != nil {
		return nil, fmt.Errorf("get %s: %w", key, err)
	}
	defer obj.Close()

	// GetObject defers the request; errors surface on read.
	content, err := io.ReadAll(obj)
	if err != nil {
		if minio.ToErrorResponse(err).Code == "NoSuchKey" {
			return nil, fmt.Errorf("%s: %w", key, domain.ErrNotFound)
		}
		return nil, fmt.Errorf("read %s: %w", key, err)
	}
	return content, nil
}

// rolePrefix maps a paper role to its object key prefix.
func rolePrefix(role domain.PaperRole) (string, error) {
	switch role {
	case domain.RoleSeed:
		return seedPrefix, nil
	case domain.RoleCorpus:
		return corpusPrefix, nil
	default:
		return "", fmt.Errorf("%w: invalid paper role: %s", domain.ErrInvalidInput, role)
	}
}
