package stylesheet

import (
	"fmt"
	"strings"
)

// Stats captures what a cleaning pass did.
type Stats struct {
	Sheets             int `json:"sheets" yaml:"sheets"`
	RulesKept          int `json:"rules_kept" yaml:"rules_kept"`
	RulesDropped       int `json:"rules_dropped" yaml:"rules_dropped"`
	MediaDropped       int `json:"media_dropped" yaml:"media_dropped"`
	SelectorsKept      int `json:"selectors_kept" yaml:"selectors_kept"`
	SelectorsDropped   int `json:"selectors_dropped" yaml:"selectors_dropped"`
	SelectorsEvaluated int `json:"selectors_evaluated" yaml:"selectors_evaluated"`
	CacheHits          int `json:"cache_hits" yaml:"cache_hits"`
	InputBytes         int `json:"input_bytes" yaml:"input_bytes"`
	OutputBytes        int `json:"output_bytes" yaml:"output_bytes"`
}

// Add accumulates other into s.
func (s *Stats) Add(other Stats) {
	s.Sheets += other.Sheets
	s.RulesKept += other.RulesKept
	s.RulesDropped += other.RulesDropped
	s.MediaDropped += other.MediaDropped
	s.SelectorsKept += other.SelectorsKept
	s.SelectorsDropped += other.SelectorsDropped
	s.SelectorsEvaluated += other.SelectorsEvaluated
	s.CacheHits += other.CacheHits
	s.InputBytes += other.InputBytes
	s.OutputBytes += other.OutputBytes
}

// ReductionPercent returns the percentage reduction in size.
func (s Stats) ReductionPercent() float64 {
	if s.InputBytes == 0 {
		return 0
	}
	return float64(s.InputBytes-s.OutputBytes) / float64(s.InputBytes) * 100
}

// String returns a human-readable summary.
func (s Stats) String() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "Sheets: %d\n", s.Sheets)
	fmt.Fprintf(&sb, "Rules: %d kept, %d dropped (%d empty @media)\n", s.RulesKept, s.RulesDropped, s.MediaDropped)
	fmt.Fprintf(&sb, "Selectors: %d kept, %d dropped, %d distinct, %d cache hits\n",
		s.SelectorsKept, s.SelectorsDropped, s.SelectorsEvaluated, s.CacheHits)
	fmt.Fprintf(&sb, "Size: %d -> %d bytes (%.1f%% reduction)\n", s.InputBytes, s.OutputBytes, s.ReductionPercent())
	return sb.String()
}
