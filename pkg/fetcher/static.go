package fetcher

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/gocolly/colly/v2"

	"github.com/jmylchreest/htmlsnap/internal/logger"
	"github.com/jmylchreest/htmlsnap/internal/version"
)

// StaticConfig holds configuration for the static fetcher.
type StaticConfig struct {
	UserAgent string
	// Timeout bounds each request. Zero keeps colly's default.
	Timeout time.Duration
	// AllowFiles enables file:// URLs, used for stylesheets linked from
	// documents opened from disk. Leave it off for remote documents: the
	// file transport can read anything on the local filesystem.
	AllowFiles bool
}

// DefaultStaticConfig returns sensible defaults. File URLs are disabled.
func DefaultStaticConfig() StaticConfig {
	return StaticConfig{
		UserAgent: version.UserAgent(),
		Timeout:   30 * time.Second,
	}
}

var _ Fetcher = (*StaticFetcher)(nil)

// StaticFetcher uses Colly for plain HTTP(S) and file retrieval.
type StaticFetcher struct {
	config    StaticConfig
	transport http.RoundTripper
}

// NewStatic creates a new static fetcher.
func NewStatic(cfg StaticConfig) *StaticFetcher {
	if cfg.UserAgent == "" {
		cfg.UserAgent = DefaultStaticConfig().UserAgent
	}

	t := http.DefaultTransport.(*http.Transport).Clone()
	if cfg.AllowFiles {
		t.RegisterProtocol("file", http.NewFileTransport(http.Dir("/")))
	}
	return &StaticFetcher{config: cfg, transport: t}
}

// Fetch retrieves the resource at targetURL. Transport failures and non-2xx
// responses are returned as errors.
func (f *StaticFetcher) Fetch(ctx context.Context, targetURL string, opts Options) (Content, error) {
	result := Content{
		URL:       targetURL,
		FetchedAt: time.Now(),
	}

	// A collector per request keeps concurrent fetches independent.
	c := colly.NewCollector(
		colly.UserAgent(coalesce(opts.UserAgent, f.config.UserAgent)),
		colly.StdlibContext(ctx),
		colly.AllowURLRevisit(),
	)
	c.WithTransport(f.transport)
	// Colly truncates bodies at 10 MiB by default; stylesheets are kept whole.
	c.MaxBodySize = 0

	timeout := opts.Timeout
	if timeout == 0 {
		timeout = f.config.Timeout
	}
	if timeout > 0 {
		c.SetRequestTimeout(timeout)
	}

	if len(opts.Headers) > 0 {
		c.OnRequest(func(r *colly.Request) {
			for k, v := range opts.Headers {
				r.Headers.Set(k, v)
			}
		})
	}

	var fetchErr error

	c.OnResponse(func(r *colly.Response) {
		result.StatusCode = r.StatusCode
		if r.Headers != nil {
			result.ContentType = r.Headers.Get("Content-Type")
		}
		result.Body = string(r.Body)
	})

	c.OnError(func(r *colly.Response, err error) {
		if r != nil {
			result.StatusCode = r.StatusCode
		}
		fetchErr = fmt.Errorf("fetching %s: %w", targetURL, err)
	})

	logger.Debug("static fetch starting", "url", targetURL, "timeout", timeout)
	if err := c.Visit(targetURL); err != nil {
		return result, fmt.Errorf("visiting %s: %w", targetURL, err)
	}
	if fetchErr != nil {
		return result, fetchErr
	}
	return result, nil
}

// Close releases resources.
func (f *StaticFetcher) Close() error {
	return nil
}

// Type returns the fetcher type.
func (f *StaticFetcher) Type() string {
	return "static"
}

// coalesce returns the first non-empty string.
func coalesce(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
