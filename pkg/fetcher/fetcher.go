// Package fetcher retrieves the text of external resources referenced by a
// document, such as linked stylesheets.
// Implement the Fetcher interface to add authentication, caching or other
// transport requirements.
package fetcher

import (
	"context"
	"time"
)

// Fetcher abstracts resource retrieval.
type Fetcher interface {
	// Fetch retrieves the resource at url.
	Fetch(ctx context.Context, url string, opts Options) (Content, error)

	// Close releases any resources held by the fetcher.
	Close() error

	// Type returns a string identifying the fetcher type (e.g., "static").
	Type() string
}

// Options controls a single fetch.
type Options struct {
	UserAgent string
	Timeout   time.Duration
	Headers   map[string]string
}

// Content is a fetched resource.
type Content struct {
	URL         string
	Body        string
	StatusCode  int
	ContentType string
	FetchedAt   time.Time
}
