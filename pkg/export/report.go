package export

import (
	"fmt"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
)

// String returns a human-readable summary of the report.
func (r *Report) String() string {
	var sb strings.Builder

	fmt.Fprintf(&sb, "Theme: %s\n", r.Theme)
	fmt.Fprintf(&sb, "Stylesheets: %d (%d linked, %d inline)\n",
		len(r.Sources), r.linked(), len(r.Sources)-r.linked())
	fmt.Fprintf(&sb, "CSS: %s -> %s (%.1f%% smaller)\n",
		humanize.Bytes(uint64(r.Stylesheet.InputBytes)),
		humanize.Bytes(uint64(r.Stylesheet.OutputBytes)),
		r.Stylesheet.ReductionPercent())
	fmt.Fprintf(&sb, "Rules: %s kept, %s dropped, %d empty @media removed\n",
		humanize.Comma(int64(r.Stylesheet.RulesKept)),
		humanize.Comma(int64(r.Stylesheet.RulesDropped)),
		r.Stylesheet.MediaDropped)
	fmt.Fprintf(&sb, "Selectors: %s distinct, %s live queries, %s cache hits\n",
		humanize.Comma(int64(r.Stylesheet.SelectorsEvaluated)),
		humanize.Comma(int64(r.Queries)),
		humanize.Comma(int64(r.Stylesheet.CacheHits)))
	if r.Sanitizer != nil {
		fmt.Fprintf(&sb, "Editor artifacts removed: %d\n", r.Sanitizer.TotalElementsRemoved())
	}
	fmt.Fprintf(&sb, "Output: %s in %v\n", humanize.Bytes(uint64(r.HTMLBytes)), r.Duration.Round(time.Millisecond))

	for _, w := range r.Selectors {
		fmt.Fprintf(&sb, "warning: %s\n", w)
	}
	for _, w := range r.Warnings {
		fmt.Fprintf(&sb, "warning: %s\n", w)
	}
	return sb.String()
}

func (r *Report) linked() int {
	n := 0
	for _, s := range r.Sources {
		if !s.Inline {
			n++
		}
	}
	return n
}
