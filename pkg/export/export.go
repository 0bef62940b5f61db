// Package export produces a standalone HTML snapshot of an editor document:
// sanitized content plus only the CSS rules that still affect it.
package export

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/jmylchreest/htmlsnap/internal/logger"
	"github.com/jmylchreest/htmlsnap/pkg/assembler"
	"github.com/jmylchreest/htmlsnap/pkg/collector"
	"github.com/jmylchreest/htmlsnap/pkg/fetcher"
	"github.com/jmylchreest/htmlsnap/pkg/livedoc"
	"github.com/jmylchreest/htmlsnap/pkg/sanitizer"
	"github.com/jmylchreest/htmlsnap/pkg/selector"
	"github.com/jmylchreest/htmlsnap/pkg/stylesheet"
	"github.com/jmylchreest/htmlsnap/pkg/vocab"
)

// Document is the result of an export. It is never modified after Export
// returns it.
type Document struct {
	ThemeName string
	// Style is the cleaned CSS.
	Style string
	// BodyHTML is the sanitized editor markup.
	BodyHTML string
	// HTML is the complete page.
	HTML   string
	Report *Report
}

// Report describes what an export did.
type Report struct {
	Theme      string              `json:"theme" yaml:"theme"`
	Sources    []collector.Source  `json:"sources" yaml:"sources"`
	Stylesheet stylesheet.Stats    `json:"stylesheet" yaml:"stylesheet"`
	Sanitizer  *sanitizer.Stats    `json:"sanitizer" yaml:"sanitizer"`
	Queries    int                 `json:"selector_queries" yaml:"selector_queries"`
	Selectors  []selector.Warning  `json:"selector_warnings,omitempty" yaml:"selector_warnings,omitempty"`
	Warnings   []sanitizer.Warning `json:"warnings,omitempty" yaml:"warnings,omitempty"`
	HTMLBytes  int                 `json:"html_bytes" yaml:"html_bytes"`
	Duration   time.Duration       `json:"duration" yaml:"duration"`
}

// Exporter runs the export pipeline.
type Exporter struct {
	vocab      *vocab.Vocabulary
	fetcher    fetcher.Fetcher
	fetchOpts  fetcher.Options
	localFiles bool
	title      string
	log        *slog.Logger
}

// Option configures an Exporter.
type Option func(*Exporter)

// WithVocabulary sets the editor vocabulary. Defaults to vocab.Default().
func WithVocabulary(v *vocab.Vocabulary) Option {
	return func(e *Exporter) {
		e.vocab = v
	}
}

// WithFetcher sets the fetcher for linked stylesheets. Defaults to a
// logging static fetcher.
func WithFetcher(f fetcher.Fetcher) Option {
	return func(e *Exporter) {
		e.fetcher = f
	}
}

// WithFetchOptions sets the options passed to every stylesheet fetch.
func WithFetchOptions(opts fetcher.Options) Option {
	return func(e *Exporter) {
		e.fetchOpts = opts
	}
}

// WithLocalFiles lets the default fetcher read file:// stylesheets. Use it
// only for documents loaded from disk. Ignored when WithFetcher is given.
func WithLocalFiles() Option {
	return func(e *Exporter) {
		e.localFiles = true
	}
}

// WithTitle sets the page title.
func WithTitle(title string) Option {
	return func(e *Exporter) {
		e.title = title
	}
}

// WithLogger sets the logger passed down to every stage.
func WithLogger(l *slog.Logger) Option {
	return func(e *Exporter) {
		e.log = l
	}
}

// New creates an Exporter.
func New(opts ...Option) *Exporter {
	e := &Exporter{}
	for _, opt := range opts {
		opt(e)
	}
	if e.vocab == nil {
		e.vocab = vocab.Default()
	}
	e.log = logger.Or(e.log, "export")
	if e.fetcher == nil {
		cfg := fetcher.DefaultStaticConfig()
		cfg.AllowFiles = e.localFiles
		e.fetcher = fetcher.NewLogging(fetcher.NewStatic(cfg), e.log)
	}
	return e
}

// Close releases the fetcher.
func (e *Exporter) Close() error {
	return e.fetcher.Close()
}

// Export snapshots doc. Any fetch or parse failure fails the export; no
// partial document is returned. Selectors the document cannot evaluate are
// dropped and reported.
func (e *Exporter) Export(ctx context.Context, doc livedoc.Document, theme string) (*Document, error) {
	start := time.Now()

	if err := e.vocab.Validate(); err != nil {
		return nil, err
	}

	rootHTML, err := doc.RootHTML(e.vocab.EditorID)
	if err != nil {
		return nil, fmt.Errorf("reading editor root: %w", err)
	}

	cleaned, err := sanitizer.New(e.vocab).Sanitize(rootHTML)
	if err != nil {
		return nil, fmt.Errorf("sanitizing editor root: %w", err)
	}

	sources, err := collector.New(doc, e.fetcher,
		collector.WithLogger(e.log),
		collector.WithFetchOptions(e.fetchOpts),
	).Collect(ctx)
	if err != nil {
		return nil, fmt.Errorf("collecting stylesheets: %w", err)
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	checker := selector.NewChecker(doc, e.vocab, selector.WithLogger(e.log))
	style, stats, err := stylesheet.NewPruner(stylesheet.WithLogger(e.log)).
		Prune(collector.Texts(sources), checker.Check)
	if err != nil {
		return nil, fmt.Errorf("pruning stylesheets: %w", err)
	}
	if err := checker.Err(); err != nil {
		return nil, fmt.Errorf("querying document: %w", err)
	}

	page, err := assembler.Assemble(assembler.Page{
		Title: e.title,
		Theme: theme,
		Style: style,
		Body:  cleaned.Content,
	})
	if err != nil {
		return nil, err
	}

	report := &Report{
		Theme:      theme,
		Sources:    sources,
		Stylesheet: stats,
		Sanitizer:  cleaned.Stats,
		Queries:    checker.Queries(),
		Selectors:  checker.Warnings(),
		Warnings:   cleaned.Warnings,
		HTMLBytes:  len(page),
		Duration:   time.Since(start),
	}

	e.log.Info("export complete",
		"theme", theme,
		"sheets", stats.Sheets,
		"rules_kept", stats.RulesKept,
		"rules_dropped", stats.RulesDropped,
		"selector_warnings", len(report.Selectors),
		"bytes", report.HTMLBytes,
		"duration", report.Duration)

	return &Document{
		ThemeName: theme,
		Style:     style,
		BodyHTML:  cleaned.Content,
		HTML:      page,
		Report:    report,
	}, nil
}
