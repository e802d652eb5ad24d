package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"mime/multipart"
	"net/http"

	"clubadmin/club/storage"
	"clubadmin/utils"
	"clubadmin/utils/logging"
)

type codedError struct {
	err  error
	code int
}

func (e *codedError) Error() string {
	return e.err.Error()
}

func (e *codedError) Unwrap() error {
	return e.err
}

func CodedError(err error, code int) error {
	return &codedError{err: err, code: code}
}

func GetResponseCode(err error) int {
	var cerr *codedError
	if errors.As(err, &cerr) {
		return cerr.code
	}
	slog.Error("non coded error passed to GetResponseCode", "error", err)
	return http.StatusInternalServerError
}

const maxUploadSize = 64 << 20

func parseMultipartForm(w http.ResponseWriter, r *http.Request) bool {
	if err := r.ParseMultipartForm(maxUploadSize); err != nil {
		slog.Error("error parsing multipart form", "error", err)
		utils.WriteError(w, http.StatusBadRequest, fmt.Sprintf("error parsing multipart form: %v", err))
		return false
	}
	return true
}

// uploadFormFile stores the file sent under the given form field and returns
// its public url. The second return value is false when the field is absent.
func uploadFormFile(ctx context.Context, store storage.ObjectStore, r *http.Request, field, key string) (string, bool, error) {
	file, header, err := r.FormFile(field)
	if err != nil {
		if errors.Is(err, http.ErrMissingFile) {
			return "", false, nil
		}
		return "", false, fmt.Errorf("error reading form file '%v': %w", field, err)
	}
	defer file.Close()

	url, err := store.Put(ctx, key, file, header.Size, header.Header.Get("Content-Type"))
	if err != nil {
		slog.Error("error uploading form file", "code", logging.STORAGE_UPLOAD, "field", field, "error", err)
		return "", false, err
	}
	objectUploads.Inc()

	return url, true, nil
}

func formFileHeader(r *http.Request, field string) (*multipart.FileHeader, bool) {
	if r.MultipartForm == nil || r.MultipartForm.File == nil {
		return nil, false
	}
	headers := r.MultipartForm.File[field]
	if len(headers) == 0 {
		return nil, false
	}
	return headers[0], true
}

// deleteObjects removes storage objects referenced by deleted rows. Failures
// are logged and skipped: the rows are already gone, debris in storage is the
// lesser failure.
func deleteObjects(ctx context.Context, store storage.ObjectStore, urls []string) {
	for _, url := range urls {
		if url == "" {
			continue
		}
		if err := store.DeleteURL(ctx, url); err != nil {
			slog.Error("error deleting storage object for removed row", "code", logging.STORAGE_DELETE, "url", url, "error", err)
			continue
		}
		objectDeletes.Inc()
	}
}

func checkDiskUsage(store storage.ObjectStore) error {
	reporter, ok := store.(storage.UsageReporter)
	if !ok {
		return nil
	}
	stats, err := reporter.Usage()
	if err != nil {
		slog.Error("unable to get disk usage from storage", "error", err)
		return CodedError(errors.New("unable to get disk usage"), http.StatusInternalServerError)
	}
	oneMib := uint64(1024 * 1024)
	// Either 20% disk needs to be free or 20Gb (in case the disk is very large)
	threshold := min(stats.TotalBytes/5, 20*1024*oneMib)
	if stats.FreeBytes < threshold {
		used := (stats.TotalBytes - stats.FreeBytes) / oneMib
		total := stats.TotalBytes / oneMib
		delta := (threshold - stats.FreeBytes) / oneMib
		return CodedError(fmt.Errorf("insufficient disk space available, usage: %d/%d Mib, please clear %d Mib", used, total, delta), http.StatusInsufficientStorage)
	}
	return nil
}

func checkSufficientStorage(store storage.ObjectStore) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		handler := func(w http.ResponseWriter, r *http.Request) {
			if err := checkDiskUsage(store); err != nil {
				slog.Error(err.Error())
				utils.WriteError(w, GetResponseCode(err), err.Error())
				return
			}
			next.ServeHTTP(w, r)
		}

		return http.HandlerFunc(handler)
	}
}
