package cmd

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"reconciler/core/config"
	"reconciler/core/database"
	"reconciler/core/dataset"
	"reconciler/core/ingest"
	"reconciler/core/storage"

	"go.uber.org/zap"
)

// loadSource reads a dataset from a source specifier and derives a short
// display name for it. Three forms are supported:
//
//	ledger.csv                  local file (csv, tsv, json, xlsx)
//	db:SELECT * FROM payments   SQL query against the configured database
//	s3://bucket/object.csv      object storage
//
// The bare storage:object form reads from the configured bucket.
func loadSource(ctx context.Context, cfg *config.Config, l *zap.Logger, spec string) (*dataset.Dataset, string, error) {
	loader := ingest.NewLoader(l)

	switch {
	case strings.HasPrefix(spec, "db:"):
		query := strings.TrimSpace(strings.TrimPrefix(spec, "db:"))
		if query == "" {
			return nil, "", fmt.Errorf("empty query in source %q", spec)
		}
		db, err := database.Connect(cfg.Database)
		if err != nil {
			return nil, "", fmt.Errorf("connect to database: %w", err)
		}
		ds, err := loader.LoadQuery(db, query)
		if err != nil {
			return nil, "", err
		}
		return ds, "query", nil

	case strings.HasPrefix(spec, "s3://"):
		rest := strings.TrimPrefix(spec, "s3://")
		bucket, object, ok := strings.Cut(rest, "/")
		if !ok || bucket == "" || object == "" {
			return nil, "", fmt.Errorf("source %q must look like s3://bucket/object", spec)
		}
		return loadFromStorage(ctx, cfg, l, loader, bucket, object)

	case strings.HasPrefix(spec, "storage:"):
		object := strings.TrimPrefix(spec, "storage:")
		if object == "" {
			return nil, "", fmt.Errorf("empty object in source %q", spec)
		}
		return loadFromStorage(ctx, cfg, l, loader, cfg.Storage.Bucket, object)

	default:
		ds, err := loader.LoadFile(spec)
		if err != nil {
			return nil, "", err
		}
		return ds, baseName(spec), nil
	}
}

func loadFromStorage(ctx context.Context, cfg *config.Config, l *zap.Logger, loader *ingest.Loader, bucket, object string) (*dataset.Dataset, string, error) {
	client, err := storage.NewClient(cfg.Storage)
	if err != nil {
		return nil, "", fmt.Errorf("create storage client: %w", err)
	}
	ds, err := loader.LoadObject(ctx, client, bucket, object)
	if err != nil {
		return nil, "", err
	}
	return ds, baseName(object), nil
}

// baseName strips the directory and extension from a path for use as a
// dataset display name.
func baseName(path string) string {
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}
