package commands

import (
	"context"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/jmylchreest/htmlsnap/internal/browser"
	"github.com/jmylchreest/htmlsnap/internal/logger"
	"github.com/jmylchreest/htmlsnap/pkg/fetcher"
	"github.com/jmylchreest/htmlsnap/pkg/livedoc"
)

// sourceOptions controls how a target is opened.
type sourceOptions struct {
	browser bool
	baseURL string
	timeout time.Duration
	fetcher fetcher.Fetcher
}

// targetURL resolves a CLI argument to a URL. Anything that is not an
// http(s) or file URL is treated as a local path.
func targetURL(target string) (*url.URL, error) {
	if u, err := url.Parse(target); err == nil {
		switch strings.ToLower(u.Scheme) {
		case "http", "https", "file":
			u.Scheme = strings.ToLower(u.Scheme)
			return u, nil
		}
	}
	abs, err := filepath.Abs(target)
	if err != nil {
		return nil, fmt.Errorf("resolving %s: %w", target, err)
	}
	return &url.URL{Scheme: "file", Path: filepath.ToSlash(abs)}, nil
}

// allowLocalFiles reports whether stylesheets may be read from the local
// filesystem: only when the document itself comes from disk and links are
// not resolved against a remote base.
func allowLocalFiles(target, baseURL string) bool {
	u, err := targetURL(target)
	if err != nil || u.Scheme != "file" {
		return false
	}
	if baseURL == "" {
		return true
	}
	base, err := url.Parse(baseURL)
	return err == nil && strings.EqualFold(base.Scheme, "file")
}

// openDocument loads target as a live document. The returned func releases
// any browser resources.
func openDocument(ctx context.Context, target string, opts sourceOptions) (livedoc.Document, func(), error) {
	u, err := targetURL(target)
	if err != nil {
		return nil, nil, err
	}

	if opts.browser {
		b, err := browser.New(browser.Config{Timeout: opts.timeout})
		if err != nil {
			return nil, nil, err
		}
		page, err := b.Open(ctx, u.String())
		if err != nil {
			_ = b.Close()
			return nil, nil, err
		}
		logger.Debug("opened document in browser", "url", u.String())
		return page, func() { _ = page.Close(); _ = b.Close() }, nil
	}

	text, err := readTarget(ctx, u, opts)
	if err != nil {
		return nil, nil, err
	}

	base := u
	if opts.baseURL != "" {
		if base, err = url.Parse(opts.baseURL); err != nil {
			return nil, nil, fmt.Errorf("invalid base url: %w", err)
		}
	}

	doc, err := livedoc.ParseStatic(text, livedoc.WithBaseURL(base))
	if err != nil {
		return nil, nil, err
	}
	logger.Debug("parsed static document", "url", u.String(), "base", base.String(), "bytes", len(text))
	return doc, func() {}, nil
}

func readTarget(ctx context.Context, u *url.URL, opts sourceOptions) (string, error) {
	if u.Scheme == "file" {
		data, err := os.ReadFile(filepath.FromSlash(u.Path))
		if err != nil {
			return "", fmt.Errorf("reading %s: %w", u.Path, err)
		}
		return string(data), nil
	}
	content, err := opts.fetcher.Fetch(ctx, u.String(), fetcher.Options{Timeout: opts.timeout})
	if err != nil {
		return "", err
	}
	return content.Body, nil
}
