package selector

import (
	"bytes"
	"errors"
	"fmt"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jmylchreest/htmlsnap/pkg/livedoc"
	"github.com/jmylchreest/htmlsnap/pkg/vocab"
)

// recordingMatcher answers from a fixed set and records every query.
type recordingMatcher struct {
	present map[string]bool
	fail    map[string]error
	calls   []string
}

func (m *recordingMatcher) Match(selector string) (bool, error) {
	m.calls = append(m.calls, selector)
	if err, ok := m.fail[selector]; ok {
		return false, err
	}
	return m.present[selector], nil
}

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(&bytes.Buffer{}, nil))
}

func TestCheck_ForcedRemovalWinsOverPresence(t *testing.T) {
	v := vocab.Default()
	m := &recordingMatcher{present: map[string]bool{}}
	for _, sel := range v.ForcedRemoval {
		m.present[sel] = true
	}
	c := NewChecker(m, v, WithLogger(quietLogger()))

	for _, sel := range v.ForcedRemoval {
		assert.False(t, c.Check(sel), sel)
	}
	assert.Empty(t, m.calls, "forced removals never reach the document")
}

func TestCheck_ForcedKeepWithoutPresence(t *testing.T) {
	m := &recordingMatcher{}
	c := NewChecker(m, nil, WithLogger(quietLogger()))

	for _, sel := range []string{"*", "body", "html"} {
		assert.True(t, c.Check(sel), sel)
	}
	assert.Empty(t, m.calls)
}

func TestCheck_ConservativeRetention(t *testing.T) {
	tests := []string{
		"input:-ms-input-placeholder",
		"input:-moz-placeholder",
		"::-moz-selection",
		".quote:before",
		".quote::before",
		"li:after",
		"li::after",
		".ghost .missing::after",
	}

	m := &recordingMatcher{}
	c := NewChecker(m, nil, WithLogger(quietLogger()))
	for _, sel := range tests {
		t.Run(sel, func(t *testing.T) {
			assert.True(t, c.Check(sel))
		})
	}
	assert.Empty(t, m.calls)
}

func TestCheck_LiveQuery(t *testing.T) {
	m := &recordingMatcher{present: map[string]bool{"p": true}}
	c := NewChecker(m, nil, WithLogger(quietLogger()))

	assert.True(t, c.Check("p"))
	assert.False(t, c.Check(".ghost"))
	assert.Equal(t, []string{"p", ".ghost"}, m.calls)
	assert.Equal(t, 2, c.Queries())
	assert.Empty(t, c.Warnings())
}

func TestCheck_QueryFailureDropsAndWarns(t *testing.T) {
	var buf bytes.Buffer
	m := &recordingMatcher{fail: map[string]error{"a >>> b": fmt.Errorf("%w: a >>> b", livedoc.ErrInvalidSelector)}}
	c := NewChecker(m, nil, WithLogger(slog.New(slog.NewTextHandler(&buf, nil))))

	assert.False(t, c.Check("a >>> b"))

	warnings := c.Warnings()
	require.Len(t, warnings, 1)
	assert.Equal(t, "a >>> b", warnings[0].Selector)
	assert.Contains(t, warnings[0].String(), "invalid selector")
	assert.Contains(t, buf.String(), "unable to query selector")
	assert.NoError(t, c.Err())
}

func TestCheck_DocumentFailureStopsQueries(t *testing.T) {
	var buf bytes.Buffer
	gone := errors.New("context deadline exceeded")
	m := &recordingMatcher{fail: map[string]error{"p": gone}}
	c := NewChecker(m, nil, WithLogger(slog.New(slog.NewTextHandler(&buf, nil))))

	assert.False(t, c.Check("p"))
	assert.False(t, c.Check("h1"))

	assert.ErrorIs(t, c.Err(), gone)
	assert.Empty(t, c.Warnings())
	assert.Equal(t, []string{"p"}, m.calls)
	assert.Equal(t, 1, c.Queries())
	assert.Contains(t, buf.String(), "document query failed")
}

func TestMatcherFunc(t *testing.T) {
	var got string
	f := MatcherFunc(func(selector string) (bool, error) {
		got = selector
		return true, nil
	})

	ok, err := f.Match("div")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "div", got)
}
