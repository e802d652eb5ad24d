package tests

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"testing"

	"clubadmin/club/schema"
	"clubadmin/club/services"
	"clubadmin/club/storage"

	"github.com/go-chi/chi/v5"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

type testEnv struct {
	clubAdmin services.ClubAdmin
	api       chi.Router
	db        *gorm.DB
	store     *storage.LocalDiskStore
	extractor *frameExtractorStub
}

// frameExtractorStub stands in for ffmpeg so tests don't need it installed.
// Setting err makes every extraction fail with that error.
type frameExtractorStub struct {
	err error
}

func (s *frameExtractorStub) ExtractFrame(ctx context.Context, video io.Reader) ([]byte, error) {
	if _, err := io.Copy(io.Discard, video); err != nil {
		return nil, err
	}
	if s.err != nil {
		return nil, s.err
	}
	return []byte("stub-jpeg-frame"), nil
}

func setupTestEnv(t *testing.T) *testEnv {
	// TranslateError is required so the unique index on tryout emails surfaces
	// as gorm.ErrDuplicatedKey, same as in production.
	db, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{TranslateError: true})
	if err != nil {
		t.Fatal(err)
	}

	err = db.AutoMigrate(schema.AllModels()...)
	if err != nil {
		t.Fatal(err)
	}

	storagePath := filepath.Join(t.TempDir(), "storage")
	err = os.MkdirAll(storagePath, 0777)
	if err != nil {
		t.Fatalf("error creating storage directory: %v", err)
	}

	store := storage.NewLocalDisk(storagePath, "http://localhost:8000/files")
	extractor := &frameExtractorStub{}

	clubAdmin := services.NewClubAdmin(db, store, extractor)

	return &testEnv{clubAdmin: clubAdmin, api: clubAdmin.Routes(), db: db, store: store, extractor: extractor}
}

func (t *testEnv) newClient() client {
	return client{api: t.api}
}

// storedObjects returns the keys currently present in the test object store.
func (t *testEnv) storedObjects() ([]string, error) {
	var keys []string
	root := t.store.Location()
	err := filepath.Walk(root, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if !info.IsDir() {
			rel, err := filepath.Rel(root, path)
			if err != nil {
				return err
			}
			keys = append(keys, filepath.ToSlash(rel))
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return keys, nil
}
