// Package collector gathers the stylesheet text a document depends on: the
// external sheets its <link> elements reference, then its inline <style>
// blocks.
package collector

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/jmylchreest/htmlsnap/internal/logger"
	"github.com/jmylchreest/htmlsnap/pkg/fetcher"
	"github.com/jmylchreest/htmlsnap/pkg/livedoc"
)

// Source is one collected stylesheet.
type Source struct {
	// Origin is the link href, or "inline" for <style> contents.
	Origin string `json:"origin" yaml:"origin"`
	Inline bool   `json:"inline,omitempty" yaml:"inline,omitempty"`
	Text   string `json:"-" yaml:"-"`
}

// Texts returns the text of each source in order.
func Texts(sources []Source) []string {
	out := make([]string, len(sources))
	for i, s := range sources {
		out[i] = s.Text
	}
	return out
}

// Collector collects stylesheet sources from a document.
type Collector struct {
	doc     livedoc.Document
	fetcher fetcher.Fetcher
	opts    fetcher.Options
	log     *slog.Logger
}

// Option configures a Collector.
type Option func(*Collector)

// WithLogger sets the logger used for skip and fetch diagnostics.
func WithLogger(l *slog.Logger) Option {
	return func(c *Collector) {
		c.log = l
	}
}

// WithFetchOptions sets the options passed to every fetch.
func WithFetchOptions(opts fetcher.Options) Option {
	return func(c *Collector) {
		c.opts = opts
	}
}

// New creates a Collector reading doc and fetching linked sheets with f.
func New(doc livedoc.Document, f fetcher.Fetcher, opts ...Option) *Collector {
	c := &Collector{doc: doc, fetcher: f}
	for _, opt := range opts {
		opt(c)
	}
	c.log = logger.Or(c.log, "collector")
	return c
}

// Collect returns linked sheets in link order followed by inline styles in
// document order. Every link fetch is started at once; the first failure
// cancels the rest and aborts collection.
func (c *Collector) Collect(ctx context.Context) ([]Source, error) {
	links, err := c.doc.Links()
	if err != nil {
		return nil, fmt.Errorf("listing links: %w", err)
	}
	styles, err := c.doc.Styles()
	if err != nil {
		return nil, fmt.Errorf("listing inline styles: %w", err)
	}

	sheets := c.stylesheetLinks(links)
	bodies := make([]string, len(sheets))

	g, gctx := errgroup.WithContext(ctx)
	for i, href := range sheets {
		g.Go(func() error {
			content, err := c.fetcher.Fetch(gctx, href, c.opts)
			if err != nil {
				return fmt.Errorf("fetching stylesheet %s: %w", href, err)
			}
			bodies[i] = content.Body
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	sources := make([]Source, 0, len(sheets)+len(styles))
	for i, href := range sheets {
		if strings.TrimSpace(bodies[i]) == "" {
			c.log.Debug("skipping empty stylesheet", "href", href)
			continue
		}
		sources = append(sources, Source{Origin: href, Text: bodies[i]})
	}
	for _, text := range styles {
		if strings.TrimSpace(text) == "" {
			continue
		}
		sources = append(sources, Source{Origin: "inline", Inline: true, Text: text})
	}

	c.log.Debug("collected stylesheets",
		"links", len(links),
		"fetched", len(sheets),
		"inline", len(styles),
		"sources", len(sources),
	)
	return sources, nil
}

func (c *Collector) stylesheetLinks(links []livedoc.Link) []string {
	var hrefs []string
	for _, link := range links {
		if reason := SkipReason(link); reason != "" {
			c.log.Debug("skipping link", "href", link.Href, "rel", link.Rel, "reason", reason)
			continue
		}
		hrefs = append(hrefs, link.Href)
	}
	return hrefs
}

// SkipReason reports why link is not collected as a stylesheet, or "" when
// it is.
func SkipReason(link livedoc.Link) string {
	href := strings.TrimSpace(link.Href)
	switch {
	case href == "":
		return "missing href"
	case hasPrefixFold(href, "blob:"):
		return "blob url"
	case strings.EqualFold(strings.TrimSpace(link.Media), "print"):
		return "print media"
	case !strings.EqualFold(strings.TrimSpace(link.Rel), "stylesheet") && !hasSuffixFold(href, ".css"):
		return "not a stylesheet"
	}
	return ""
}

func hasPrefixFold(s, prefix string) bool {
	return len(s) >= len(prefix) && strings.EqualFold(s[:len(prefix)], prefix)
}

func hasSuffixFold(s, suffix string) bool {
	return len(s) >= len(suffix) && strings.EqualFold(s[len(s)-len(suffix):], suffix)
}
