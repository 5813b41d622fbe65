package storage

import (
	"context"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewKey(t *testing.T) {
	key := NewKey("lost", 42, "My Holiday Photo.JPG")
	assert.Regexp(t, regexp.MustCompile(`^uploads/lost/42/\d+_[0-9a-f-]{36}\.jpg$`), key)
	assert.NotContains(t, key, "Holiday")

	other := NewKey("lost", 42, "My Holiday Photo.JPG")
	assert.NotEqual(t, key, other)

	assert.Regexp(t, regexp.MustCompile(`^uploads/found/1/\d+_[0-9a-f-]{36}$`), NewKey("found", 1, "noext"))
	assert.False(t, strings.Contains(NewKey("found", 1, "../../etc/passwd"), ".."))
}

func TestCleanKey(t *testing.T) {
	for _, bad := range []string{"", "  ", "../x", "a/../../x", `a\b`, "a//b", "a/./b"} {
		_, err := cleanKey(bad)
		assert.ErrorIs(t, err, ErrInvalidKey, bad)
	}
	got, err := cleanKey("uploads/lost/1/a.jpg")
	require.NoError(t, err)
	assert.Equal(t, "uploads/lost/1/a.jpg", got)
}

func TestLocalStore(t *testing.T) {
	dir := t.TempDir()
	store, err := NewLocalStore(dir, "")
	require.NoError(t, err)
	ctx := context.Background()

	key := "uploads/lost/1/bp.jpg"
	require.NoError(t, store.Put(ctx, key, "image/jpeg", strings.NewReader("jpeg-bytes"), 10))

	data, err := os.ReadFile(filepath.Join(dir, "uploads", "lost", "1", "bp.jpg"))
	require.NoError(t, err)
	assert.Equal(t, "jpeg-bytes", string(data))

	url, err := store.URL(ctx, key)
	require.NoError(t, err)
	assert.Equal(t, "/uploads/lost/1/bp.jpg", url)

	cdn, err := NewLocalStore(dir, "https://img.example.com/")
	require.NoError(t, err)
	url, err = cdn.URL(ctx, key)
	require.NoError(t, err)
	assert.Equal(t, "https://img.example.com/uploads/lost/1/bp.jpg", url)

	require.NoError(t, store.Delete(ctx, key))
	_, err = os.Stat(filepath.Join(dir, "uploads", "lost", "1", "bp.jpg"))
	assert.True(t, os.IsNotExist(err))
	assert.NoError(t, store.Delete(ctx, key), "deleting twice is fine")

	assert.ErrorIs(t, store.Put(ctx, "../escape.jpg", "", strings.NewReader("x"), 1), ErrInvalidKey)
}

func TestS3Store_URL(t *testing.T) {
	ctx := context.Background()
	base := S3Config{
		Bucket:    "lostfound",
		Region:    "us-east-1",
		Endpoint:  "http://127.0.0.1:9000",
		AccessKey: "minio",
		SecretKey: "minio-secret",
	}

	public := base
	public.PublicURL = "https://cdn.example.com/"
	store, err := NewS3Store(ctx, public)
	require.NoError(t, err)
	url, err := store.URL(ctx, "uploads/lost/1/a.jpg")
	require.NoError(t, err)
	assert.Equal(t, "https://cdn.example.com/uploads/lost/1/a.jpg", url)

	store, err = NewS3Store(ctx, base)
	require.NoError(t, err)
	url, err = store.URL(ctx, "uploads/lost/1/a.jpg")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(url, "http://127.0.0.1:9000/lostfound/uploads/lost/1/a.jpg?"), url)
	assert.Contains(t, url, "X-Amz-Signature=")

	_, err = store.URL(ctx, "../a.jpg")
	assert.ErrorIs(t, err, ErrInvalidKey)
}
