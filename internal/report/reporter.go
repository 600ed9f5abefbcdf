package report

import (
	"maps"
	"os"
	"runtime"
	"strconv"

	"github.com/getsentry/sentry-go"
)

// ConfigureScope tags every event with the service, environment and runtime.
func ConfigureScope(env, version string) {
	sentry.ConfigureScope(func(scope *sentry.Scope) {
		scope.SetTags(map[string]string{
			"service":     "busmap",
			"env":         env,
			"app_version": version,
			"go_version":  runtime.Version(),
		})
		scope.SetContext("host_info", map[string]interface{}{
			"hostname": hostname(),
			"os":       runtime.GOOS,
			"arch":     runtime.GOARCH,
		})
	})
}

func hostname() string {
	h, err := os.Hostname()
	if err != nil {
		return "unknown"
	}
	return h
}

// ReportError captures err at the given level, sentry.LevelError by default.
func ReportError(err error, levels ...sentry.Level) {
	level := sentry.LevelError
	if len(levels) > 0 {
		level = levels[0]
	}
	ReportErrorWithSentryOptions(err, SentryReportOptions{Level: level})
}

// SentryReportOptions provides optional data for reporting.
type SentryReportOptions struct {
	ExtraContext map[string]interface{}
	Tags         map[string]string
	Level        sentry.Level
}

// ReportErrorWithSentryOptions captures err in a scope carrying opts. A nil err is ignored.
func ReportErrorWithSentryOptions(err error, opts SentryReportOptions) {
	if err == nil {
		return
	}

	sentry.WithScope(func(scope *sentry.Scope) {
		if opts.ExtraContext != nil {
			scope.SetContext("extra", opts.ExtraContext)
		}
		scope.SetTags(opts.Tags)
		if opts.Level != "" {
			scope.SetLevel(opts.Level)
		}
		sentry.CaptureException(err)
	})
}

// ReportCycleError reports a failure inside a polling cycle. The cycle id and
// generation become tags so all failures of one cycle group together.
func ReportCycleError(err error, cycleID string, generation uint64, tags map[string]string) {
	merged := map[string]string{
		"cycle_id":   cycleID,
		"generation": strconv.FormatUint(generation, 10),
	}
	maps.Copy(merged, tags)
	ReportErrorWithSentryOptions(err, SentryReportOptions{
		Tags:  merged,
		Level: sentry.LevelWarning,
	})
}
