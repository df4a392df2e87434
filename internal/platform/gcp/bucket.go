package gcp

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"cloud.google.com/go/storage"
	"google.golang.org/api/option"

	"github.com/yungbote/edusummarize-backend/internal/platform/logger"
)

// Bucket stores generated artifacts (worksheet and answer-key images) in
// Google Cloud Storage.
type Bucket interface {
	Upload(ctx context.Context, key string, contentType string, r io.Reader) error
	PublicURL(key string) string
	Close() error
}

type bucketService struct {
	log       *logger.Logger
	client    *storage.Client
	name      string
	cdnDomain string
}

func NewBucket(log *logger.Logger) (Bucket, error) {
	if log == nil {
		return nil, fmt.Errorf("logger required")
	}
	serviceLog := log.With("service", "BucketService")

	name := strings.TrimSpace(os.Getenv("GCS_BUCKET_NAME"))
	if name == "" {
		return nil, fmt.Errorf("missing env var GCS_BUCKET_NAME")
	}
	cdnDomain := strings.TrimSpace(os.Getenv("GCS_CDN_DOMAIN"))

	opts := append(ClientOptionsFromEnv(), option.WithScopes(storage.ScopeReadWrite))
	client, err := storage.NewClient(context.Background(), opts...)
	if err != nil {
		return nil, fmt.Errorf("storage client: %w", err)
	}

	serviceLog.Info("Object storage initialized", "bucket", name, "cdn_domain", cdnDomain)

	return &bucketService{
		log:       serviceLog,
		client:    client,
		name:      name,
		cdnDomain: cdnDomain,
	}, nil
}

func (s *bucketService) Upload(ctx context.Context, key string, contentType string, r io.Reader) error {
	w := s.client.Bucket(s.name).Object(key).NewWriter(ctx)
	if contentType != "" {
		w.ContentType = contentType
	}
	if _, err := io.Copy(w, r); err != nil {
		_ = w.Close()
		return fmt.Errorf("upload %s: %w", key, err)
	}
	if err := w.Close(); err != nil {
		return fmt.Errorf("finalize %s: %w", key, err)
	}
	return nil
}

func (s *bucketService) PublicURL(key string) string {
	if s.cdnDomain != "" {
		return fmt.Sprintf("https://%s/%s", s.cdnDomain, key)
	}
	return fmt.Sprintf("https://storage.googleapis.com/%s/%s", s.name, key)
}

func (s *bucketService) Close() error {
	if s == nil || s.client == nil {
		return nil
	}
	return s.client.Close()
}
