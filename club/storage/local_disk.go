package storage

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/sys/unix"
)

// LocalDiskStore serves uploads from a directory on disk. It is used when no
// s3 bucket is configured, and by tests.
type LocalDiskStore struct {
	basepath string
	baseUrl  string
}

func NewLocalDisk(basepath, baseUrl string) *LocalDiskStore {
	slog.Info("creating new local disk object store", "basepath", basepath)
	if err := os.MkdirAll(basepath, 0777); err != nil {
		slog.Error("error creating local store directory", "basepath", basepath, "error", err)
	}
	if !strings.HasSuffix(baseUrl, "/") {
		baseUrl += "/"
	}
	return &LocalDiskStore{basepath: basepath, baseUrl: baseUrl}
}

func (s *LocalDiskStore) fullpath(key string) string {
	return filepath.Join(s.basepath, key)
}

func (s *LocalDiskStore) Put(ctx context.Context, key string, data io.Reader, size int64, contentType string) (string, error) {
	fullpath := s.fullpath(key)

	err := os.MkdirAll(filepath.Dir(fullpath), 0777)
	if err != nil {
		slog.Error("error creating parent directory", "path", fullpath, "error", err)
		return "", fmt.Errorf("error creating parent directory %v: %w", key, err)
	}

	file, err := os.OpenFile(fullpath, os.O_RDWR|os.O_CREATE|os.O_TRUNC, 0666)
	if err != nil {
		slog.Error("error opening file for writing", "path", fullpath, "error", err)
		return "", fmt.Errorf("error opening file %v: %w", key, err)
	}
	defer file.Close()

	_, err = io.Copy(file, data)
	if err != nil {
		slog.Error("error writing to file", "path", fullpath, "error", err)
		return "", fmt.Errorf("error writing to file %v: %w", key, err)
	}

	return s.baseUrl + key, nil
}

func (s *LocalDiskStore) Delete(ctx context.Context, key string) error {
	fullpath := s.fullpath(key)
	err := os.Remove(fullpath)
	if err != nil && !os.IsNotExist(err) {
		slog.Error("error deleting file", "path", fullpath, "error", err)
		return fmt.Errorf("error deleting file %v: %w", key, err)
	}
	return nil
}

func (s *LocalDiskStore) DeleteURL(ctx context.Context, url string) error {
	key, ok := strings.CutPrefix(url, s.baseUrl)
	if !ok || key == "" {
		return nil
	}
	return s.Delete(ctx, key)
}

func (s *LocalDiskStore) Exists(key string) (bool, error) {
	_, err := os.Stat(s.fullpath(key))
	if err == nil {
		return true, nil
	}
	if os.IsNotExist(err) {
		return false, nil
	}
	return false, fmt.Errorf("error checking if file %v exists: %w", key, err)
}

func (s *LocalDiskStore) Usage() (UsageStats, error) {
	var stat unix.Statfs_t

	err := unix.Statfs(s.basepath, &stat)
	if err != nil {
		slog.Error("error getting disk usage for local store", "path", s.basepath, "error", err)
		return UsageStats{}, fmt.Errorf("error getting disk usage stats: %w", err)
	}

	return UsageStats{
		TotalBytes: stat.Blocks * uint64(stat.Bsize),
		FreeBytes:  stat.Bfree * uint64(stat.Bsize),
	}, nil
}

func (s *LocalDiskStore) Location() string {
	return s.basepath
}
