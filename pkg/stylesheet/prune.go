package stylesheet

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/jmylchreest/htmlsnap/internal/logger"
)

// Pruner runs the full dead-rule elimination over a set of raw stylesheets.
type Pruner struct {
	log *slog.Logger
}

// PrunerOption configures a Pruner.
type PrunerOption func(*Pruner)

// WithLogger sets the pruner's logger.
func WithLogger(l *slog.Logger) PrunerOption {
	return func(p *Pruner) {
		p.log = l
	}
}

// NewPruner creates a Pruner.
func NewPruner(opts ...PrunerOption) *Pruner {
	p := &Pruner{}
	for _, opt := range opts {
		opt(p)
	}
	p.log = logger.Or(p.log, "stylesheet")
	return p
}

// Prune parses every raw sheet, cleans each in its own pass, and returns the
// concatenated CSS with important comments restored. A sheet that fails to
// parse aborts the whole prune.
func (p *Pruner) Prune(raws []string, check CheckFunc) (string, Stats, error) {
	var (
		total    Stats
		cleaned  = make([]string, 0, len(raws))
		comments []string
	)

	for i, raw := range raws {
		comments = append(comments, ImportantComments(raw)...)

		sheet, err := Parse(raw)
		if err != nil {
			return "", total, fmt.Errorf("stylesheet %d: %w", i, err)
		}

		_, stats := Clean(sheet, check)
		out := Serialize(sheet)

		stats.Sheets = 1
		stats.InputBytes = len(raw)
		stats.OutputBytes = len(out)
		total.Add(stats)

		p.log.Debug("stylesheet pruned",
			"index", i,
			"rules_kept", stats.RulesKept,
			"rules_dropped", stats.RulesDropped,
			"selectors_dropped", stats.SelectorsDropped,
			"cache_hits", stats.CacheHits)

		cleaned = append(cleaned, out)
	}

	result := RestoreImportantComments(strings.Join(cleaned, "\n"), comments)
	return result, total, nil
}
