package livedoc

import (
	"fmt"
	"io"
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/andybalholm/cascadia"
	"golang.org/x/net/html"
)

var _ Document = (*Static)(nil)

// Static is a Document backed by a parsed HTML tree. Selector queries are
// answered by cascadia against the whole tree.
type Static struct {
	doc  *goquery.Document
	root *html.Node
	base *url.URL
}

// StaticOption configures a Static document.
type StaticOption func(*Static)

// WithBaseURL sets the URL relative link hrefs are resolved against.
func WithBaseURL(u *url.URL) StaticOption {
	return func(s *Static) {
		s.base = u
	}
}

// NewStatic parses HTML from r.
func NewStatic(r io.Reader, opts ...StaticOption) (*Static, error) {
	doc, err := goquery.NewDocumentFromReader(r)
	if err != nil {
		return nil, fmt.Errorf("parsing document: %w", err)
	}
	s := &Static{doc: doc, root: doc.Nodes[0]}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// ParseStatic parses an HTML string.
func ParseStatic(htmlText string, opts ...StaticOption) (*Static, error) {
	return NewStatic(strings.NewReader(htmlText), opts...)
}

// Match compiles selector and reports whether any element matches it.
// Selectors cascadia cannot compile are returned as errors.
func (s *Static) Match(selector string) (bool, error) {
	sel, err := cascadia.Compile(selector)
	if err != nil {
		return false, fmt.Errorf("%w %q: %w", ErrInvalidSelector, selector, err)
	}
	return sel.MatchFirst(s.root) != nil, nil
}

// Links returns the document's <link> elements with resolved hrefs.
func (s *Static) Links() ([]Link, error) {
	var links []Link
	s.doc.Find("link").Each(func(_ int, sel *goquery.Selection) {
		href, _ := sel.Attr("href")
		rel, _ := sel.Attr("rel")
		media, _ := sel.Attr("media")
		links = append(links, Link{
			Href:  s.resolve(strings.TrimSpace(href)),
			Rel:   rel,
			Media: media,
		})
	})
	return links, nil
}

func (s *Static) resolve(href string) string {
	if href == "" || s.base == nil {
		return href
	}
	ref, err := url.Parse(href)
	if err != nil {
		return href
	}
	return s.base.ResolveReference(ref).String()
}

// Styles returns the contents of the document's <style> elements.
func (s *Static) Styles() ([]string, error) {
	var styles []string
	s.doc.Find("style").Each(func(_ int, sel *goquery.Selection) {
		styles = append(styles, sel.Text())
	})
	return styles, nil
}

// RootHTML returns the outer HTML of the element whose id is id.
func (s *Static) RootHTML(id string) (string, error) {
	root := s.doc.Find("[id]").FilterFunction(func(_ int, sel *goquery.Selection) bool {
		v, _ := sel.Attr("id")
		return v == id
	}).First()
	if root.Length() == 0 {
		return "", fmt.Errorf("%w: #%s", ErrRootNotFound, id)
	}
	out, err := goquery.OuterHtml(root)
	if err != nil {
		return "", fmt.Errorf("rendering root #%s: %w", id, err)
	}
	return out, nil
}
