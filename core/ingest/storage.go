package ingest

import (
	"context"
	"fmt"

	"github.com/minio/minio-go/v7"
	"go.uber.org/zap"

	"reconciler/core/dataset"
	"reconciler/core/storage"
)

// LoadObject streams an object from storage and parses it, picking the
// format from the object name's extension.
func (l *Loader) LoadObject(ctx context.Context, client storage.Client, bucket, object string) (*dataset.Dataset, error) {
	format, err := FormatForPath(object)
	if err != nil {
		return nil, err
	}
	rc, err := client.GetObject(ctx, bucket, object, minio.GetObjectOptions{})
	if err != nil {
		return nil, fmt.Errorf("get object %s/%s: %w", bucket, object, err)
	}
	defer rc.Close()

	ds, err := l.Load(rc, format)
	if err != nil {
		return nil, fmt.Errorf("load %s/%s: %w", bucket, object, err)
	}
	l.logger.Info("loaded dataset from storage",
		zap.String("bucket", bucket),
		zap.String("object", object),
		zap.Int("rows", ds.RowCount()),
	)
	return ds, nil
}
