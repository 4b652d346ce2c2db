// Package keysource lists item identifiers from the systems a dataset lives in and exposes them as index sources.
package keysource

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/artie-labs/dataset/config"
	"github.com/artie-labs/dataset/lib/dsindex"
	"github.com/artie-labs/dataset/lib/storage/manifest"
)

type lister func(ctx context.Context) ([]string, error)

// Load returns a deferred source for the configured system. Nothing is listed until the index is built.
func Load(ctx context.Context, cfg *config.Source) (dsindex.Source[string], error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	var list lister
	switch cfg.Type {
	case config.SourceFiles:
		list = func(context.Context) ([]string, error) {
			return dsindex.ListFiles(cfg.Files.Pattern, dsindex.FilesOptions{Dirs: cfg.Files.Dirs, Sort: cfg.Files.Sort})
		}
	case config.SourceManifest:
		return manifest.Source[string](cfg.Manifest.Path), nil
	case config.SourceS3:
		list = s3Lister(*cfg.S3)
	case config.SourcePostgreSQL:
		list = postgresLister(*cfg.PostgreSQL)
	case config.SourceMySQL:
		list = mysqlLister(*cfg.MySQL)
	case config.SourceMongoDB:
		list = mongoLister(*cfg.MongoDB)
	case config.SourceDynamoDB:
		list = dynamoDBLister(*cfg.DynamoDB)
	default:
		return nil, fmt.Errorf("unsupported source: '%s'", cfg.Type)
	}

	return dsindex.Deferred(func() ([]string, error) {
		start := time.Now()
		keys, err := list(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to list %s keys: %w", cfg.Type, err)
		}

		slog.Info("Listed index keys",
			slog.String("source", string(cfg.Type)),
			slog.Int("count", len(keys)),
			slog.Duration("duration", time.Since(start)),
		)
		return keys, nil
	}), nil
}
