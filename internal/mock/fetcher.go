// Package mock provides function-field test doubles for the interfaces the
// export pipeline depends on.
package mock

import (
	"context"

	"github.com/jmylchreest/htmlsnap/pkg/fetcher"
)

var _ fetcher.Fetcher = (*Fetcher)(nil)

// Fetcher is a mock implementation of fetcher.Fetcher.
type Fetcher struct {
	FetchFn func(ctx context.Context, url string, opts fetcher.Options) (fetcher.Content, error)
	CloseFn func() error
	TypeFn  func() string
}

func (f *Fetcher) Fetch(ctx context.Context, url string, opts fetcher.Options) (fetcher.Content, error) {
	return f.FetchFn(ctx, url, opts)
}

func (f *Fetcher) Close() error {
	if f.CloseFn == nil {
		return nil
	}
	return f.CloseFn()
}

func (f *Fetcher) Type() string {
	if f.TypeFn == nil {
		return "mock"
	}
	return f.TypeFn()
}

// Sheets returns a Fetcher serving bodies from a url-keyed map. Unknown URLs
// fail with err.
func Sheets(bodies map[string]string, err error) *Fetcher {
	return &Fetcher{
		FetchFn: func(_ context.Context, url string, _ fetcher.Options) (fetcher.Content, error) {
			body, ok := bodies[url]
			if !ok {
				return fetcher.Content{URL: url, StatusCode: 404}, err
			}
			return fetcher.Content{URL: url, Body: body, StatusCode: 200, ContentType: "text/css"}, nil
		},
	}
}
