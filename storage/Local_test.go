package storage

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLocalPutAndDelete(t *testing.T) {
	root := t.TempDir()
	l, err := NewLocal(root, "http://cdn.local/")
	require.NoError(t, err)

	ctx := context.Background()
	rel, err := l.Put(ctx, "user_photos", "Me.PNG", strings.NewReader("png-bytes"))
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(rel, "user_photos/"))
	assert.True(t, strings.HasSuffix(rel, ".png"))

	data, err := os.ReadFile(filepath.Join(root, rel))
	require.NoError(t, err)
	assert.Equal(t, "png-bytes", string(data))
	assert.Equal(t, "http://cdn.local/"+rel, l.URL(rel))

	require.NoError(t, l.Delete(ctx, rel))
	_, err = os.Stat(filepath.Join(root, rel))
	assert.True(t, os.IsNotExist(err))

	// deleting twice is fine
	assert.NoError(t, l.Delete(ctx, rel))
}

func TestLocalDeleteStaysInsideRoot(t *testing.T) {
	parent := t.TempDir()
	root := filepath.Join(parent, "public")
	l, err := NewLocal(root, "")
	require.NoError(t, err)

	outside := filepath.Join(parent, "secret.txt")
	require.NoError(t, os.WriteFile(outside, []byte("x"), 0o600))

	require.NoError(t, l.Delete(context.Background(), "../secret.txt"))
	_, err = os.Stat(outside)
	assert.NoError(t, err)
	assert.Equal(t, "/storage/a/b.png", l.URL("a/b.png"))
}
