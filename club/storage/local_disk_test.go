package storage

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLocalDiskPutAndDelete(t *testing.T) {
	store := NewLocalDisk(t.TempDir(), "http://localhost:8000/files")
	ctx := context.Background()

	key := MediaKey("routine.mp4")
	assert.True(t, strings.HasPrefix(key, "athlete/media/"))
	assert.True(t, strings.HasSuffix(key, "-routine.mp4"))

	url, err := store.Put(ctx, key, strings.NewReader("video-bytes"), 11, "video/mp4")
	assert.NoError(t, err)
	assert.Equal(t, "http://localhost:8000/files/"+key, url)

	exists, err := store.Exists(key)
	assert.NoError(t, err)
	assert.True(t, exists)

	data, err := os.ReadFile(filepath.Join(store.Location(), key))
	assert.NoError(t, err)
	assert.Equal(t, "video-bytes", string(data))

	err = store.Delete(ctx, key)
	assert.NoError(t, err)

	exists, err = store.Exists(key)
	assert.NoError(t, err)
	assert.False(t, exists)
}

func TestLocalDiskDeleteURL(t *testing.T) {
	store := NewLocalDisk(t.TempDir(), "http://localhost:8000/files")
	ctx := context.Background()

	key := SponsorKey("logo.png")
	url, err := store.Put(ctx, key, strings.NewReader("png"), 3, "image/png")
	assert.NoError(t, err)

	err = store.DeleteURL(ctx, url)
	assert.NoError(t, err)

	exists, err := store.Exists(key)
	assert.NoError(t, err)
	assert.False(t, exists)

	// Deleting a url that is already gone is not an error.
	err = store.DeleteURL(ctx, url)
	assert.NoError(t, err)
}

func TestLocalDiskUsage(t *testing.T) {
	store := NewLocalDisk(t.TempDir(), "http://localhost:8000/files")

	stats, err := store.Usage()
	assert.NoError(t, err)
	assert.Greater(t, stats.TotalBytes, uint64(0))
	assert.LessOrEqual(t, stats.FreeBytes, stats.TotalBytes)
}

func TestKeyHelpers(t *testing.T) {
	assert.True(t, strings.HasPrefix(ThumbnailKey(), "athlete/media/thumbnails/"))
	assert.True(t, strings.HasSuffix(ThumbnailKey(), ".jpg"))

	assert.True(t, strings.HasPrefix(SponsorKey("a.png"), "sponsor/"))
	assert.True(t, strings.HasPrefix(UserImageKey("staff", "b.png"), "user/staff/"))

	// Every key embeds a fresh uuid, so two keys for the same file differ.
	assert.NotEqual(t, MediaKey("same.mp4"), MediaKey("same.mp4"))
}
