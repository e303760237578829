package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"mime"
	"path"
	"path/filepath"
	"strings"
	"time"

	gcs "cloud.google.com/go/storage"
	"github.com/google/uuid"
)

type GCS struct {
	client    *gcs.Client
	bucket    string
	publicURL string
}

func NewGCS(ctx context.Context, bucket string, publicURL string) (*GCS, error) {
	if bucket == "" {
		return nil, errors.New("missing STORAGE_BUCKET")
	}
	client, err := gcs.NewClient(ctx)
	if err != nil {
		return nil, fmt.Errorf("creating gcs client: %w", err)
	}
	if publicURL == "" {
		publicURL = "https://storage.googleapis.com/" + bucket
	}
	return &GCS{client: client, bucket: bucket, publicURL: strings.TrimRight(publicURL, "/")}, nil
}

func (g *GCS) Put(ctx context.Context, dir string, name string, r io.Reader) (string, error) {
	ext := strings.ToLower(filepath.Ext(name))
	key := path.Join(dir, uuid.NewString()+ext)

	ctx, cancel := context.WithTimeout(ctx, 2*time.Minute)
	defer cancel()

	w := g.client.Bucket(g.bucket).Object(key).NewWriter(ctx)
	if ct := mime.TypeByExtension(ext); ct != "" {
		w.ContentType = ct
	}
	if _, err := io.Copy(w, r); err != nil {
		_ = w.Close()
		return "", fmt.Errorf("failed to write data to GCS: %w", err)
	}
	if err := w.Close(); err != nil {
		return "", fmt.Errorf("failed to close GCS writer: %w", err)
	}
	return key, nil
}

func (g *GCS) Delete(ctx context.Context, key string) error {
	err := g.client.Bucket(g.bucket).Object(key).Delete(ctx)
	if err != nil && !errors.Is(err, gcs.ErrObjectNotExist) {
		return err
	}
	return nil
}

func (g *GCS) URL(key string) string {
	return g.publicURL + "/" + key
}
