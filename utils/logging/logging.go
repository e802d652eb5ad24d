package logging

import (
	"log/slog"
	"os"

	slogmulti "github.com/samber/slog-multi"
)

type LogCode string

const (
	// SYSTEM EVENTS (SYSTEM*)
	SYSTEM LogCode = "SYSTEM"

	// STORAGE OPERATIONS (STORAGE*)
	STORAGE_UPLOAD LogCode = "STORAGE_UPLOAD"
	STORAGE_DELETE LogCode = "STORAGE_DELETE"

	// MEDIA OPERATIONS (MEDIA*)
	MEDIA_THUMBNAIL LogCode = "MEDIA_THUMBNAIL"

	// INTAKE OPERATIONS (INTAKE*)
	INTAKE_SPAM      LogCode = "INTAKE_SPAM"
	INTAKE_DUPLICATE LogCode = "INTAKE_DUPLICATE"
)

// InitLogging installs a default logger that fans out to a json log file and
// a plain text handler on stderr.
func InitLogging(logFile *os.File, service string) {
	var jsonHandler slog.Handler = slog.NewJSONHandler(logFile, &slog.HandlerOptions{Level: slog.LevelDebug})

	// default fields used for filtering logs downstream
	jsonHandler = jsonHandler.WithAttrs([]slog.Attr{
		slog.String("service_type", service),
	})
	textHandler := slog.NewTextHandler(os.Stderr, nil)

	logger := slog.New(slogmulti.Fanout(jsonHandler, textHandler))
	slog.SetDefault(logger)
}
