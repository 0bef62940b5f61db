package fetcher

import (
	"context"
	"log/slog"
	"time"

	"github.com/jmylchreest/htmlsnap/internal/logger"
)

var _ Fetcher = (*LoggingFetcher)(nil)

// LoggingFetcher wraps a Fetcher with debug logging.
type LoggingFetcher struct {
	next Fetcher
	log  *slog.Logger
}

// NewLogging wraps next. A nil log uses the package logger.
func NewLogging(next Fetcher, log *slog.Logger) *LoggingFetcher {
	return &LoggingFetcher{next: next, log: logger.Or(log, "fetcher")}
}

// Fetch logs the URL being fetched and delegates to the wrapped fetcher.
func (f *LoggingFetcher) Fetch(ctx context.Context, url string, opts Options) (content Content, err error) {
	defer func(begin time.Time) {
		f.log.Debug("fetch",
			"url", url,
			"status", content.StatusCode,
			"bytes", len(content.Body),
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return f.next.Fetch(ctx, url, opts)
}

// Close delegates to the wrapped fetcher.
func (f *LoggingFetcher) Close() error {
	return f.next.Close()
}

// Type delegates to the wrapped fetcher.
func (f *LoggingFetcher) Type() string {
	return f.next.Type()
}
