package services

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/yungbote/edusummarize-backend/internal/platform/gcp"
	"github.com/yungbote/edusummarize-backend/internal/platform/logger"
	"github.com/yungbote/edusummarize-backend/internal/utils"
)

// ArtifactStore persists rendered worksheet images and returns a
// reference the client can fetch them by.
type ArtifactStore interface {
	Save(ctx context.Context, key string, data []byte) (string, error)
}

type localArtifactStore struct {
	dir string
	log *logger.Logger
}

// NewLocalArtifactStore writes artifacts under WORKSHEET_OUTPUT_DIR and
// returns filesystem paths as references.
func NewLocalArtifactStore(baseLog *logger.Logger) (ArtifactStore, error) {
	storeLog := baseLog.With("service", "LocalArtifactStore")
	dir := utils.GetEnv("WORKSHEET_OUTPUT_DIR", "worksheets", storeLog)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create artifact dir: %w", err)
	}
	return &localArtifactStore{dir: dir, log: storeLog}, nil
}

func (s *localArtifactStore) Save(ctx context.Context, key string, data []byte) (string, error) {
	path := filepath.Join(s.dir, key)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return "", fmt.Errorf("create artifact dir: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", fmt.Errorf("write artifact: %w", err)
	}
	s.log.Debug("Artifact written", "path", path)
	return path, nil
}

type gcsArtifactStore struct {
	bucket gcp.Bucket
	log    *logger.Logger
}

// NewGCSArtifactStore uploads artifacts to the configured bucket and
// returns public URLs as references.
func NewGCSArtifactStore(bucket gcp.Bucket, baseLog *logger.Logger) ArtifactStore {
	return &gcsArtifactStore{
		bucket: bucket,
		log:    baseLog.With("service", "GCSArtifactStore"),
	}
}

func (s *gcsArtifactStore) Save(ctx context.Context, key string, data []byte) (string, error) {
	if err := s.bucket.Upload(ctx, key, "image/png", bytes.NewReader(data)); err != nil {
		return "", fmt.Errorf("upload artifact: %w", err)
	}
	return s.bucket.PublicURL(key), nil
}
