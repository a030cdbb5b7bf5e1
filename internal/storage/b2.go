// Package storage keeps uploaded CMS files in a Backblaze B2 bucket.
package storage

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/kurin/blazer/b2"
	"github.com/lshigami/Kindred/config"
	"github.com/rs/zerolog/log"
)

var ErrNotConfigured = errors.New("file storage is not configured")

type B2Storage struct {
	Client *b2.Client
	Bucket *b2.Bucket
}

// NewB2Storage connects lazily: without credentials it returns an empty
// storage whose uploads fail with ErrNotConfigured.
func NewB2Storage(cfg *config.Config) (*B2Storage, error) {
	if cfg.Storage.B2KeyID == "" || cfg.Storage.B2AppKey == "" || cfg.Storage.B2Bucket == "" {
		log.Warn().Msg("B2 credentials are not set. File uploads will be unavailable.")
		return &B2Storage{}, nil
	}

	ctx := context.Background()
	client, err := b2.NewClient(ctx, cfg.Storage.B2KeyID, cfg.Storage.B2AppKey)
	if err != nil {
		return nil, fmt.Errorf("failed to create b2 client: %w", err)
	}
	bucket, err := client.Bucket(ctx, cfg.Storage.B2Bucket)
	if err != nil {
		return nil, fmt.Errorf("failed to get bucket: %w", err)
	}
	return &B2Storage{Client: client, Bucket: bucket}, nil
}

// Upload writes r under key and returns the public download URL.
func (s *B2Storage) Upload(ctx context.Context, key string, r io.Reader, contentType string) (string, error) {
	if s.Bucket == nil {
		return "", ErrNotConfigured
	}

	obj := s.Bucket.Object(key)
	w := obj.NewWriter(ctx, b2.WithAttrsOption(&b2.Attrs{ContentType: contentType}))
	if _, err := io.Copy(w, r); err != nil {
		_ = w.Close()
		return "", fmt.Errorf("failed to write object: %w", err)
	}
	if err := w.Close(); err != nil {
		return "", fmt.Errorf("failed to close writer: %w", err)
	}
	return obj.URL(), nil
}

func (s *B2Storage) Delete(ctx context.Context, key string) error {
	if s.Bucket == nil {
		return ErrNotConfigured
	}
	if err := s.Bucket.Object(key).Delete(ctx); err != nil {
		return fmt.Errorf("failed to delete object: %w", err)
	}
	return nil
}
