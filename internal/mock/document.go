package mock

import (
	"github.com/jmylchreest/htmlsnap/pkg/livedoc"
)

var _ livedoc.Document = (*Document)(nil)

// Document is a mock implementation of livedoc.Document.
type Document struct {
	MatchFn    func(selector string) (bool, error)
	LinksFn    func() ([]livedoc.Link, error)
	StylesFn   func() ([]string, error)
	RootHTMLFn func(id string) (string, error)
}

func (d *Document) Match(selector string) (bool, error) {
	return d.MatchFn(selector)
}

func (d *Document) Links() ([]livedoc.Link, error) {
	if d.LinksFn == nil {
		return nil, nil
	}
	return d.LinksFn()
}

func (d *Document) Styles() ([]string, error) {
	if d.StylesFn == nil {
		return nil, nil
	}
	return d.StylesFn()
}

func (d *Document) RootHTML(id string) (string, error) {
	return d.RootHTMLFn(id)
}
