// Package selector decides whether a CSS selector can affect the exported
// document.
package selector

import (
	"errors"
	"fmt"
	"log/slog"
	"regexp"

	"github.com/jmylchreest/htmlsnap/internal/logger"
	"github.com/jmylchreest/htmlsnap/pkg/livedoc"
	"github.com/jmylchreest/htmlsnap/pkg/vocab"
)

// Matcher answers whether at least one element of the live document matches
// selector. Errors wrapping livedoc.ErrInvalidSelector mean the selector could
// not be evaluated; other errors mean the document failed.
type Matcher interface {
	Match(selector string) (bool, error)
}

// MatcherFunc adapts a function to Matcher.
type MatcherFunc func(selector string) (bool, error)

// Match calls f(selector).
func (f MatcherFunc) Match(selector string) (bool, error) {
	return f(selector)
}

var (
	// Legacy engine pseudo-classes cannot be tested by querying.
	vendorPseudoPattern = regexp.MustCompile(`:-(ms|moz)-`)
	// Pseudo-elements never exist as matchable nodes.
	pseudoElementPattern = regexp.MustCompile(`:{1,2}(before|after)`)
)

// Warning is a selector the live document could not evaluate.
type Warning struct {
	Selector string `json:"selector" yaml:"selector"`
	Message  string `json:"message" yaml:"message"`
}

// String returns a formatted warning message.
func (w Warning) String() string {
	return fmt.Sprintf("unable to query %q: %s", w.Selector, w.Message)
}

// Checker is the relevance decision function over selector strings.
type Checker struct {
	matcher  Matcher
	vocab    *vocab.Vocabulary
	log      *slog.Logger
	queries  int
	warnings []Warning
	err      error
}

// Option configures a Checker.
type Option func(*Checker)

// WithLogger sets the logger used for evaluation warnings.
func WithLogger(l *slog.Logger) Option {
	return func(c *Checker) {
		c.log = l
	}
}

// NewChecker creates a Checker querying m. A nil vocabulary uses vocab.Default().
func NewChecker(m Matcher, v *vocab.Vocabulary, opts ...Option) *Checker {
	if v == nil {
		v = vocab.Default()
	}
	c := &Checker{matcher: m, vocab: v}
	for _, opt := range opts {
		opt(c)
	}
	c.log = logger.Or(c.log, "selector")
	return c
}

// Check reports whether selector should be kept. The first matching rule wins:
// forced removal, forced keep, vendor pseudo-class, pseudo-element, then a
// live existence query. An invalid selector is dropped and recorded as a
// warning. Any other query error is kept in Err; once set, every remaining
// query is skipped and dropped.
func (c *Checker) Check(selector string) bool {
	switch {
	case c.vocab.IsForcedRemoval(selector):
		return false
	case c.vocab.IsForcedKeep(selector):
		return true
	case vendorPseudoPattern.MatchString(selector):
		return true
	case pseudoElementPattern.MatchString(selector):
		return true
	}

	if c.err != nil {
		return false
	}

	c.queries++
	found, err := c.matcher.Match(selector)
	switch {
	case err == nil:
		return found
	case errors.Is(err, livedoc.ErrInvalidSelector):
		w := Warning{Selector: selector, Message: err.Error()}
		c.warnings = append(c.warnings, w)
		c.log.Warn("unable to query selector", "selector", selector, "error", err)
	default:
		c.err = err
		c.log.Error("document query failed", "selector", selector, "error", err)
	}
	return false
}

// Err returns the first document failure seen by Check, if any.
func (c *Checker) Err() error {
	return c.err
}

// Queries returns how many live queries have been issued.
func (c *Checker) Queries() int {
	return c.queries
}

// Warnings returns the selectors that failed evaluation, in order.
func (c *Checker) Warnings() []Warning {
	return c.warnings
}
