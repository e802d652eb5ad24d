package storage

import (
	"context"
	"fmt"
	"io"
	"path/filepath"

	"github.com/google/uuid"
)

// ObjectStore is the object storage used for uploaded images and videos.
// Put returns the public url of the stored object.
type ObjectStore interface {
	Put(ctx context.Context, key string, data io.Reader, size int64, contentType string) (string, error)
	Delete(ctx context.Context, key string) error

	// DeleteURL resolves a public url previously returned by Put back to its
	// key and removes the object. Urls that do not belong to this store are
	// ignored.
	DeleteURL(ctx context.Context, url string) error
}

type UsageStats struct {
	TotalBytes uint64
	FreeBytes  uint64
}

// UsageReporter is implemented by stores that can report disk usage.
type UsageReporter interface {
	Usage() (UsageStats, error)
}

const (
	mediaPrefix     = "athlete/media"
	thumbnailPrefix = "athlete/media/thumbnails"
	sponsorPrefix   = "sponsor"
	userPrefix      = "user"
)

func MediaKey(filename string) string {
	return fmt.Sprintf("%s/%s-%s", mediaPrefix, uuid.NewString(), filepath.Base(filename))
}

func ThumbnailKey() string {
	return fmt.Sprintf("%s/%s.jpg", thumbnailPrefix, uuid.NewString())
}

func SponsorKey(filename string) string {
	return fmt.Sprintf("%s/%s-%s", sponsorPrefix, uuid.NewString(), filepath.Base(filename))
}

func UserImageKey(role, filename string) string {
	return fmt.Sprintf("%s/%s/%s-%s", userPrefix, role, uuid.NewString(), filepath.Base(filename))
}
