package recon

import (
	"context"
	"fmt"

	"github.com/minio/minio-go/v7"
	"go.uber.org/zap"

	"reconciler/core/dataset"
	"reconciler/core/profile"
	"reconciler/core/reconcile"
	"reconciler/core/storage"
)

// Service orchestrates profiling and reconciliation for the HTTP surface.
type Service struct {
	profiler *profile.DatasetProfiler
	advisor  *profile.Advisor
	client   storage.Client
	bucket   string
	logger   *zap.Logger
}

// NewService creates a new recon service.
func NewService(opts profile.Options, client storage.Client, bucket string, logger *zap.Logger) *Service {
	return &Service{
		profiler: profile.NewDatasetProfiler(opts, logger),
		advisor:  profile.NewAdvisor(logger),
		client:   client,
		bucket:   bucket,
		logger:   logger,
	}
}

// Profile profiles a dataset supplied as records.
func (s *Service) Profile(records []map[string]any, name string) (*profile.DatasetProfile, error) {
	ds, err := dataset.FromRecords(records)
	if err != nil {
		return nil, fmt.Errorf("build dataset %q: %w", name, err)
	}
	return s.profiler.Profile(ds, name)
}

// Strategy profiles both datasets and recommends a reconciliation strategy.
func (s *Service) Strategy(source, target []map[string]any, sourceName, targetName string) (*profile.Strategy, error) {
	sp, err := s.Profile(source, sourceName)
	if err != nil {
		return nil, err
	}
	tp, err := s.Profile(target, targetName)
	if err != nil {
		return nil, err
	}
	return s.advisor.Suggest(sp, tp), nil
}

// Reconcile runs a reconciliation over two record sets.
func (s *Service) Reconcile(cfg reconcile.Config, source, target []map[string]any) (*reconcile.Result, error) {
	engine, err := reconcile.NewEngine(cfg, s.logger)
	if err != nil {
		return nil, err
	}
	src, err := dataset.FromRecords(source)
	if err != nil {
		return nil, fmt.Errorf("build dataset %q: %w", cfg.SourceName, err)
	}
	tgt, err := dataset.FromRecords(target)
	if err != nil {
		return nil, fmt.Errorf("build dataset %q: %w", cfg.TargetName, err)
	}
	return engine.Reconcile(src, tgt)
}

// DatasetInfo describes one dataset object available in storage.
type DatasetInfo struct {
	Key  string `json:"key"`
	Size int64  `json:"size"`
}

// ListDatasets lists the dataset objects in the configured bucket.
func (s *Service) ListDatasets(ctx context.Context) ([]DatasetInfo, error) {
	exists, err := s.client.BucketExists(ctx, s.bucket)
	if err != nil {
		return nil, fmt.Errorf("check bucket %q: %w", s.bucket, err)
	}
	if !exists {
		return []DatasetInfo{}, nil
	}

	infos := []DatasetInfo{}
	for obj := range s.client.ListObjects(ctx, s.bucket, minio.ListObjectsOptions{Recursive: true}) {
		if obj.Err != nil {
			return nil, fmt.Errorf("list bucket %q: %w", s.bucket, obj.Err)
		}
		infos = append(infos, DatasetInfo{Key: obj.Key, Size: obj.Size})
	}
	return infos, nil
}
