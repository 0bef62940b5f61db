// Package livedoc defines the document an export is taken from and provides a
// static, parsed-HTML implementation of it.
//
// The export pipeline needs three things from a document: an existence query
// for selectors, the stylesheet sources it references, and the markup of the
// editor's root element. A headless browser provides them from a rendered
// page (see internal/browser); Static provides them from an HTML snapshot.
package livedoc

import "errors"

// ErrRootNotFound is returned when the document has no element with the
// requested root id.
var ErrRootNotFound = errors.New("root element not found")

// ErrInvalidSelector marks a Match error caused by the selector itself, as
// opposed to a failure of the document.
var ErrInvalidSelector = errors.New("invalid selector")

// Link is a <link> element as the document reports it. Href is resolved
// against the document's base URL, like a browser's link.href.
type Link struct {
	Href  string `json:"href" yaml:"href"`
	Rel   string `json:"rel,omitempty" yaml:"rel,omitempty"`
	Media string `json:"media,omitempty" yaml:"media,omitempty"`
}

// Document is the live document an export reads from.
type Document interface {
	// Match reports whether at least one element matches selector. Errors
	// wrapping ErrInvalidSelector mean this selector cannot be evaluated;
	// any other error means the document itself failed.
	Match(selector string) (bool, error)

	// Links returns every <link> element in document order.
	Links() ([]Link, error)

	// Styles returns the text of every <style> element in document order.
	Styles() ([]string, error)

	// RootHTML returns the outer HTML of the element with the given id.
	RootHTML(id string) (string, error)
}
