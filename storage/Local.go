package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

type Local struct {
	Root      string
	PublicURL string
}

func NewLocal(root string, publicURL string) (*Local, error) {
	if err := os.MkdirAll(root, 0o755); err != nil {
		return nil, fmt.Errorf("creating storage root %s: %w", root, err)
	}
	return &Local{Root: root, PublicURL: strings.TrimRight(publicURL, "/")}, nil
}

func (l *Local) Put(_ context.Context, dir string, name string, r io.Reader) (string, error) {
	rel := path.Join(dir, uuid.NewString()+strings.ToLower(filepath.Ext(name)))
	full := filepath.Join(l.Root, filepath.FromSlash(rel))

	if err := os.MkdirAll(filepath.Dir(full), 0o755); err != nil {
		return "", fmt.Errorf("creating directory: %w", err)
	}

	f, err := os.Create(full)
	if err != nil {
		return "", fmt.Errorf("creating file: %w", err)
	}
	if _, err := io.Copy(f, r); err != nil {
		_ = f.Close()
		_ = os.Remove(full)
		return "", fmt.Errorf("writing file: %w", err)
	}
	if err := f.Close(); err != nil {
		return "", fmt.Errorf("closing file: %w", err)
	}

	return rel, nil
}

func (l *Local) Delete(_ context.Context, rel string) error {
	clean := path.Clean("/" + rel)
	err := os.Remove(filepath.Join(l.Root, filepath.FromSlash(clean)))
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return err
	}
	return nil
}

func (l *Local) URL(rel string) string {
	if l.PublicURL == "" {
		return "/storage/" + rel
	}
	return l.PublicURL + "/" + rel
}
