// Package stylesheet removes dead rules from parsed stylesheets.
//
// A stylesheet is parsed into a small rule tree, every qualified rule has its
// selector list filtered through a keep/drop predicate, @media blocks are
// pruned recursively, and the survivors are serialized back to text in their
// original order.
package stylesheet

import "strings"

// CheckFunc reports whether a single selector should be kept.
type CheckFunc func(selector string) bool

// decisionCache memoizes keep/drop decisions for one cleaning pass.
// It must not outlive the pass: relevance depends on the document snapshot.
type decisionCache struct {
	check     CheckFunc
	decisions map[string]bool
	hits      int
}

func newDecisionCache(check CheckFunc) *decisionCache {
	return &decisionCache{check: check, decisions: make(map[string]bool)}
}

func (d *decisionCache) keep(selector string) bool {
	if keep, ok := d.decisions[selector]; ok {
		d.hits++
		return keep
	}
	keep := d.check(selector)
	d.decisions[selector] = keep
	return keep
}

// Clean prunes sheet in place and returns it with the pass statistics.
// Each call uses a fresh decision cache.
func Clean(sheet *Sheet, check CheckFunc) (*Sheet, Stats) {
	var stats Stats
	if sheet == nil {
		return sheet, stats
	}

	cache := newDecisionCache(check)
	sheet.Rules = cleanRules(sheet.Rules, cache, &stats)

	stats.CacheHits = cache.hits
	stats.SelectorsEvaluated = len(cache.decisions)
	return sheet, stats
}

func cleanRules(rules []*Rule, cache *decisionCache, stats *Stats) []*Rule {
	kept := make([]*Rule, 0, len(rules))
	for _, rule := range rules {
		switch {
		case rule.Kind == QualifiedRule:
			if cleanQualifiedRule(rule, cache, stats) {
				stats.RulesKept++
				kept = append(kept, rule)
			} else {
				stats.RulesDropped++
			}
		case isMedia(rule):
			rule.Rules = cleanRules(rule.Rules, cache, stats)
			if len(rule.Rules) > 0 {
				kept = append(kept, rule)
			} else {
				stats.MediaDropped++
			}
		default:
			// Unknown at-rules pass through untouched.
			kept = append(kept, rule)
		}
	}
	return kept
}

// cleanQualifiedRule rewrites the rule's selector list to its surviving
// selectors and reports whether any survived.
func cleanQualifiedRule(rule *Rule, cache *decisionCache, stats *Stats) bool {
	selectors := splitSelectors(rule.Prelude)
	if len(selectors) == 0 {
		selectors = rule.Selectors
	}

	survivors := make([]string, 0, len(selectors))
	for _, sel := range selectors {
		if cache.keep(sel) {
			survivors = append(survivors, sel)
			stats.SelectorsKept++
		} else {
			stats.SelectorsDropped++
		}
	}
	if len(survivors) == 0 {
		return false
	}

	rule.Selectors = survivors
	rule.Prelude = strings.Join(survivors, ", ")
	return true
}

// splitSelectors splits a selector list on top-level commas, leaving commas
// inside parentheses, brackets and strings alone.
func splitSelectors(prelude string) []string {
	if strings.TrimSpace(prelude) == "" {
		return nil
	}

	var (
		parts []string
		depth int
		quote rune
		start int
	)
	for i, r := range prelude {
		switch {
		case quote != 0:
			if r == quote {
				quote = 0
			}
		case r == '"' || r == '\'':
			quote = r
		case r == '(' || r == '[':
			depth++
		case r == ')' || r == ']':
			depth = max(0, depth-1)
		case r == ',' && depth == 0:
			parts = append(parts, strings.TrimSpace(prelude[start:i]))
			start = i + 1
		}
	}
	return append(parts, strings.TrimSpace(prelude[start:]))
}

func isMedia(rule *Rule) bool {
	return rule.Kind == AtRule && strings.EqualFold(strings.TrimPrefix(rule.Name, "@"), "media")
}
