package sanitizer

import (
	"regexp"
	"strings"

	"golang.org/x/net/html"
)

// tagName matches every opening or closing tag name in unescaped markup.
var tagName = regexp.MustCompile(`<\s*/?\s*([a-zA-Z][a-zA-Z0-9-]*)`)

// rawTextTags are left escaped in the output.
var rawTextTags = map[string]bool{
	"script": true,
	"style":  true,
	"title":  true,
}

// passthrough unwraps raw-HTML spans in serialized output.
type passthrough struct {
	span *regexp.Regexp
}

func newPassthrough(class string) *passthrough {
	return &passthrough{
		span: regexp.MustCompile(`<span class="` + regexp.QuoteMeta(class) + `">([\s\S]+?)</span>`),
	}
}

// expand replaces every passthrough span with its content, unescaped unless
// any tag in it is a raw-text tag.
func (p *passthrough) expand(body string, stats *Stats) string {
	return p.span.ReplaceAllStringFunc(body, func(m string) string {
		content := p.span.FindStringSubmatch(m)[1]
		unescaped := html.UnescapeString(content)
		if hasRawTextTag(unescaped) {
			stats.PassthroughEscaped++
			return content
		}
		stats.PassthroughUnescaped++
		return unescaped
	})
}

func hasRawTextTag(markup string) bool {
	for _, m := range tagName.FindAllStringSubmatch(markup, -1) {
		if rawTextTags[strings.ToLower(m[1])] {
			return true
		}
	}
	return false
}
