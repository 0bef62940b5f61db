package sanitizer

import (
	"fmt"
	"sort"
	"strings"
	"time"
)

// Stats captures what the sanitizer changed.
type Stats struct {
	InputBytes  int `json:"input_bytes" yaml:"input_bytes"`
	OutputBytes int `json:"output_bytes" yaml:"output_bytes"`

	// ElementsRemoved counts removed editor artifacts by tag.
	ElementsRemoved map[string]int `json:"elements_removed" yaml:"elements_removed"`

	ActiveCleared      int `json:"active_cleared" yaml:"active_cleared"`
	RulesReplaced      int `json:"rules_replaced" yaml:"rules_replaced"`
	EmojisRestored     int `json:"emojis_restored" yaml:"emojis_restored"`
	CheckboxesDisabled int `json:"checkboxes_disabled" yaml:"checkboxes_disabled"`
	MathHidden         int `json:"math_hidden" yaml:"math_hidden"`
	HardBreaks         int `json:"hard_breaks" yaml:"hard_breaks"`
	SoftBreaks         int `json:"soft_breaks" yaml:"soft_breaks"`

	// Raw HTML passthrough spans.
	PassthroughUnescaped int `json:"passthrough_unescaped" yaml:"passthrough_unescaped"`
	PassthroughEscaped   int `json:"passthrough_escaped" yaml:"passthrough_escaped"`

	ParseDuration     time.Duration `json:"parse_duration_ms" yaml:"parse_duration_ms"`
	TransformDuration time.Duration `json:"transform_duration_ms" yaml:"transform_duration_ms"`
	OutputDuration    time.Duration `json:"output_duration_ms" yaml:"output_duration_ms"`
	TotalDuration     time.Duration `json:"total_duration_ms" yaml:"total_duration_ms"`
}

// NewStats creates a new Stats instance with initialized maps.
func NewStats() *Stats {
	return &Stats{
		ElementsRemoved: make(map[string]int),
	}
}

// RecordRemoval records that an element was removed.
func (s *Stats) RecordRemoval(tag string) {
	s.ElementsRemoved[strings.ToLower(tag)]++
}

// TotalElementsRemoved returns the sum of all removed elements.
func (s *Stats) TotalElementsRemoved() int {
	total := 0
	for _, count := range s.ElementsRemoved {
		total += count
	}
	return total
}

// String returns a human-readable summary of the stats.
func (s *Stats) String() string {
	var sb strings.Builder

	fmt.Fprintf(&sb, "Size: %d -> %d bytes\n", s.InputBytes, s.OutputBytes)
	fmt.Fprintf(&sb, "Elements removed: %d\n", s.TotalElementsRemoved())

	if len(s.ElementsRemoved) > 0 {
		tags := make([]string, 0, len(s.ElementsRemoved))
		for tag := range s.ElementsRemoved {
			tags = append(tags, tag)
		}
		sort.Strings(tags)
		parts := make([]string, 0, len(tags))
		for _, tag := range tags {
			parts = append(parts, fmt.Sprintf("%s=%d", tag, s.ElementsRemoved[tag]))
		}
		sb.WriteString("Removed by tag: ")
		sb.WriteString(strings.Join(parts, ", "))
		sb.WriteString("\n")
	}

	fmt.Fprintf(&sb, "Line breaks: %d hard, %d soft\n", s.HardBreaks, s.SoftBreaks)

	if s.EmojisRestored > 0 {
		fmt.Fprintf(&sb, "Emojis restored: %d\n", s.EmojisRestored)
	}
	if s.PassthroughUnescaped+s.PassthroughEscaped > 0 {
		fmt.Fprintf(&sb, "Raw HTML: %d unescaped, %d kept escaped\n",
			s.PassthroughUnescaped, s.PassthroughEscaped)
	}

	fmt.Fprintf(&sb, "Timing: parse=%v, transform=%v, output=%v, total=%v\n",
		s.ParseDuration.Round(time.Millisecond),
		s.TransformDuration.Round(time.Millisecond),
		s.OutputDuration.Round(time.Millisecond),
		s.TotalDuration.Round(time.Millisecond))

	return sb.String()
}

// Warning represents a non-fatal issue encountered during sanitizing.
type Warning struct {
	Phase   string `json:"phase" yaml:"phase"`
	Message string `json:"message" yaml:"message"`
	Context string `json:"context,omitempty" yaml:"context,omitempty"`
}

// String returns a formatted warning message.
func (w Warning) String() string {
	if w.Context != "" {
		return fmt.Sprintf("[%s] %s (context: %s)", w.Phase, w.Message, w.Context)
	}
	return fmt.Sprintf("[%s] %s", w.Phase, w.Message)
}

// Result contains the output of a sanitize operation.
type Result struct {
	// Content is the sanitized body HTML.
	Content  string    `json:"-" yaml:"-"`
	Stats    *Stats    `json:"stats" yaml:"stats"`
	Warnings []Warning `json:"warnings,omitempty" yaml:"warnings,omitempty"`
}

// AddWarning adds a warning to the result.
func (r *Result) AddWarning(phase, message, context string) {
	r.Warnings = append(r.Warnings, Warning{
		Phase:   phase,
		Message: message,
		Context: context,
	})
}

// HasWarnings returns true if any warnings were recorded.
func (r *Result) HasWarnings() bool {
	return len(r.Warnings) > 0
}
