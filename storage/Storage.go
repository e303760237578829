// Package storage keeps uploaded files such as user photos.
package storage

import (
	"context"
	"io"
)

type Storage interface {
	// Put stores r under dir and returns the relative path it was stored at.
	Put(ctx context.Context, dir string, name string, r io.Reader) (string, error)
	Delete(ctx context.Context, path string) error
	URL(path string) string
}
