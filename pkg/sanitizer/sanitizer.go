// Package sanitizer turns the editor's root element into clean exportable
// HTML. It works on a parsed copy of the markup; the live document is never
// touched.
package sanitizer

import (
	"fmt"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"

	"github.com/jmylchreest/htmlsnap/pkg/vocab"
)

// Sanitizer removes editor scaffolding and restores rendered content.
type Sanitizer struct {
	vocab       *vocab.Vocabulary
	passthrough *passthrough
}

// New creates a Sanitizer. If v is nil, vocab.Default() is used.
func New(v *vocab.Vocabulary) *Sanitizer {
	if v == nil {
		v = vocab.Default()
	}
	return &Sanitizer{
		vocab:       v,
		passthrough: newPassthrough(v.HTMLTag),
	}
}

// Sanitize cleans rootHTML, the outer HTML of the editor root, and returns
// the inner HTML of the resulting body.
func (s *Sanitizer) Sanitize(rootHTML string) (*Result, error) {
	startTime := time.Now()
	result := &Result{Stats: NewStats()}
	result.Stats.InputBytes = len(rootHTML)

	parseStart := time.Now()
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(rootHTML))
	result.Stats.ParseDuration = time.Since(parseStart)
	if err != nil {
		return nil, fmt.Errorf("parsing root html: %w", err)
	}

	transformStart := time.Now()
	s.transform(doc, result)
	result.Stats.TransformDuration = time.Since(transformStart)

	outputStart := time.Now()
	body, err := doc.Find("body").Html()
	if err != nil {
		return nil, fmt.Errorf("rendering body: %w", err)
	}
	result.Content = s.passthrough.expand(body, result.Stats)
	result.Stats.OutputDuration = time.Since(outputStart)

	result.Stats.OutputBytes = len(result.Content)
	result.Stats.TotalDuration = time.Since(startTime)
	return result, nil
}

// transform applies the cleanup steps in order.
func (s *Sanitizer) transform(doc *goquery.Document, result *Result) {
	s.removeArtifacts(doc, result)
	s.clearActive(doc, result)
	s.replaceRules(doc, result)
	s.restoreEmojis(doc, result)
	s.disableCheckboxes(doc, result)
	s.hideMathPreviews(doc, result)
	s.renderLineBreaks(doc, result)
}

// removeArtifacts deletes editor-only elements.
func (s *Sanitizer) removeArtifacts(doc *goquery.Document, result *Result) {
	doc.Find(strings.Join(s.vocab.RemovalSelectors(), ", ")).Each(func(_ int, sel *goquery.Selection) {
		result.Stats.RecordRemoval(goquery.NodeName(sel))
		sel.Remove()
	})
}

func (s *Sanitizer) clearActive(doc *goquery.Document, result *Result) {
	active := doc.Find(vocab.Class(s.vocab.Active))
	result.Stats.ActiveCleared = active.Length()
	active.RemoveClass(s.vocab.Active)
}

// replaceRules swaps horizontal-rule placeholders for real <hr> elements.
func (s *Sanitizer) replaceRules(doc *goquery.Document, result *Result) {
	rules := doc.Find(fmt.Sprintf("[data-role=%q]", s.vocab.HRRole))
	result.Stats.RulesReplaced = rules.Length()
	rules.ReplaceWithHtml("<hr>")
}

// restoreEmojis replaces emoji shortcode text with the glyph the editor
// recorded on the element.
func (s *Sanitizer) restoreEmojis(doc *goquery.Document, result *Result) {
	doc.Find("span" + vocab.Class(s.vocab.EmojiMarkedText)).Each(func(_ int, sel *goquery.Selection) {
		glyph, ok := sel.Attr(s.vocab.EmojiAttr)
		if !ok {
			result.AddWarning("transform", "emoji without "+s.vocab.EmojiAttr+" attribute", sel.Text())
			return
		}
		sel.SetText(glyph)
		result.Stats.EmojisRestored++
	})
}

func (s *Sanitizer) disableCheckboxes(doc *goquery.Document, result *Result) {
	boxes := doc.Find("input" + vocab.Class(s.vocab.TaskListItemCheckbox))
	result.Stats.CheckboxesDisabled = boxes.Length()
	boxes.SetAttr("disabled", "disabled")
}

// hideMathPreviews turns grayed math source into hidden math so only the
// rendered formula shows.
func (s *Sanitizer) hideMathPreviews(doc *goquery.Document, result *Result) {
	doc.Find("span" + vocab.Class(s.vocab.Math)).Each(func(_ int, sel *goquery.Selection) {
		if !sel.HasClass(s.vocab.Gray) {
			return
		}
		sel.RemoveClass(s.vocab.Gray).AddClass(s.vocab.Hide)
		result.Stats.MathHidden++
	})
}

// renderLineBreaks converts paragraph line segments into their rendered
// form: a hard break becomes <br/>, a soft break a non-breaking space. The
// last segment of a paragraph never gets a break.
func (s *Sanitizer) renderLineBreaks(doc *goquery.Document, result *Result) {
	hardBreak := vocab.Class(s.vocab.HardLineBreak)

	doc.Find("p" + vocab.Class(s.vocab.Paragraph)).Each(func(_ int, p *goquery.Selection) {
		segments := p.Children()
		last := segments.Length() - 1
		segments.Each(func(i int, seg *goquery.Selection) {
			seg.RemoveClass(s.vocab.Line)
			if i == last {
				return
			}
			marker := seg.Find(hardBreak)
			if seg.Is(hardBreak) {
				marker = seg
			}
			if marker.Length() > 0 {
				marker.RemoveClass(s.vocab.HardLineBreak)
				marker.AppendHtml("<br/>")
				result.Stats.HardBreaks++
				return
			}
			seg.AppendHtml("<span>&nbsp;</span>")
			result.Stats.SoftBreaks++
		})
	})
}
