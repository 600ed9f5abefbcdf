package utils

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"

	"github.com/getsentry/sentry-go"

	"busmap.londonbus.dev/internal/report"
)

// CreateCacheDirectory makes sure dir exists and is a directory. The working
// directory ("" or ".") always qualifies.
func CreateCacheDirectory(dir string, logger *slog.Logger) error {
	if dir == "" || dir == "." {
		return nil
	}

	info, err := os.Stat(dir)
	switch {
	case errors.Is(err, fs.ErrNotExist):
		if err := os.MkdirAll(dir, 0o755); err != nil {
			reportDirError(err, dir)
			return fmt.Errorf("failed to create %s: %w", dir, err)
		}
		logger.Info("Created cache directory", "cache_dir", dir)
		return nil
	case err != nil:
		return err
	case !info.IsDir():
		err := fmt.Errorf("%s is not a directory", dir)
		reportDirError(err, dir)
		return err
	}
	return nil
}

func reportDirError(err error, dir string) {
	report.ReportErrorWithSentryOptions(err, report.SentryReportOptions{
		Level:        sentry.LevelError,
		Tags:         MakeMap("component", "cache"),
		ExtraContext: map[string]interface{}{"cache_dir": dir},
	})
}
