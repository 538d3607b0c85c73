package engine

import (
	"fmt"
	"sort"

	"github.com/hazyhaar/tagsmith/pkg/tagdict"
	"github.com/hazyhaar/tagsmith/pkg/tags"
)

// ClarificationOption is one unresolved primary-feature interpretation,
// returned to the caller instead of being guessed.
type ClarificationOption struct {
	Group      string     `json:"group"`
	Phrase     string     `json:"phrase"`
	Tags       []tags.Tag `json:"tags"`
	Confidence float64    `json:"confidence"`
}

// composition is the composer's output: the merged tag set plus everything
// that was discarded or left unresolved on the way.
type composition struct {
	set                *tags.Set
	issues             []Issue
	needsClarification bool
	options            []ClarificationOption
}

// candidate is one proposed value for a key during merging.
type candidate struct {
	value      string
	confidence float64
	phrase     string
}

// compose merges match spans and caller-supplied existing tags into one tag
// set. Conflicting primary-feature candidates are never resolved silently:
// the composition flags them for clarification and reports every discarded
// alternative as a warning.
func compose(dict *tagdict.Dictionary, spans []Span, existing *tags.Set) composition {
	c := composition{set: tags.NewSet()}
	if existing == nil {
		existing = tags.NewSet()
	}

	// Existing tags come first and keep their order.
	for _, t := range existing.Tags() {
		c.set.Put(t.Key, t.Value)
	}

	primarySpans, attrSpans := splitSpans(dict, spans)

	// Count distinct primary groups among the matched classifiers.
	groups := distinctGroups(dict, primarySpans)
	if len(groups) > 1 && !dict.AllowedCombination(groups) {
		c.needsClarification = true
		c.options = clarificationOptions(dict, primarySpans)
		c.issues = append(c.issues, Issue{
			Severity: SeverityWarning,
			Message: fmt.Sprintf("ambiguous primary feature: %d incompatible interpretations matched (%s); clarification required",
				len(c.options), optionSummary(c.options)),
		})
		// Attributes are still composed so the caller sees everything
		// that was understood; the primary choice is left open.
		mergeSpans(dict, &c, attrSpans, existing)
		return c
	}

	mergeSpans(dict, &c, append(primarySpans, attrSpans...), existing)
	return c
}

// splitSpans separates spans proposing a primary classifier from pure
// attribute spans.
func splitSpans(dict *tagdict.Dictionary, spans []Span) (primary, attrs []Span) {
	for _, s := range spans {
		isPrimary := false
		for _, t := range s.Tags {
			if _, ok := dict.PrimaryGroupOf(t.Key); ok {
				isPrimary = true
				break
			}
		}
		if isPrimary {
			primary = append(primary, s)
		} else {
			attrs = append(attrs, s)
		}
	}
	return primary, attrs
}

func distinctGroups(dict *tagdict.Dictionary, primarySpans []Span) []string {
	seen := make(map[string]bool)
	var groups []string
	for _, s := range primarySpans {
		for _, t := range s.Tags {
			if g, ok := dict.PrimaryGroupOf(t.Key); ok && !seen[g] {
				seen[g] = true
				groups = append(groups, g)
			}
		}
	}
	sort.Strings(groups)
	return groups
}

// clarificationOptions returns the best span per primary group, ranked by
// confidence descending then group ascending.
func clarificationOptions(dict *tagdict.Dictionary, primarySpans []Span) []ClarificationOption {
	best := make(map[string]ClarificationOption)
	for _, s := range primarySpans {
		for _, t := range s.Tags {
			g, ok := dict.PrimaryGroupOf(t.Key)
			if !ok {
				continue
			}
			opt := ClarificationOption{Group: g, Phrase: s.Phrase, Tags: s.Tags, Confidence: s.Confidence}
			if prev, ok := best[g]; !ok || opt.Confidence > prev.Confidence ||
				(opt.Confidence == prev.Confidence && opt.Phrase < prev.Phrase) {
				best[g] = opt
			}
			break
		}
	}

	out := make([]ClarificationOption, 0, len(best))
	for _, opt := range best {
		out = append(out, opt)
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Confidence != out[j].Confidence {
			return out[i].Confidence > out[j].Confidence
		}
		return out[i].Group < out[j].Group
	})
	return out
}

func optionSummary(options []ClarificationOption) string {
	s := ""
	for i, opt := range options {
		if i > 0 {
			s += " vs "
		}
		for j, t := range opt.Tags {
			if j > 0 {
				s += ","
			}
			s += t.String()
		}
	}
	return s
}

// mergeSpans resolves per-key conflicts and fills the composed set. Existing
// caller tags outrank matched phrases; among matches the higher confidence
// wins, with equal confidence broken by value ascending. Every discarded
// alternative is reported.
func mergeSpans(dict *tagdict.Dictionary, c *composition, spans []Span, existing *tags.Set) {
	proposals := make(map[string][]candidate)
	for _, s := range spans {
		for _, t := range s.Tags {
			proposals[t.Key] = append(proposals[t.Key], candidate{
				value:      t.Value,
				confidence: s.Confidence,
				phrase:     s.Phrase,
			})
		}
	}

	// Insert winners in sorted key order so the composed set does not
	// depend on phrase order in the input text.
	keys := make([]string, 0, len(proposals))
	for k := range proposals {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	for _, key := range keys {
		cands := proposals[key]
		sort.SliceStable(cands, func(i, j int) bool {
			if cands[i].confidence != cands[j].confidence {
				return cands[i].confidence > cands[j].confidence
			}
			return cands[i].value < cands[j].value
		})

		if existingValue, ok := existing.Get(key); ok {
			for _, cand := range cands {
				if cand.value != existingValue {
					c.issues = append(c.issues, Issue{
						Key:      key,
						Value:    cand.value,
						Severity: SeverityWarning,
						Message: fmt.Sprintf("matched %q proposes %s=%s but the existing tag %s=%s takes priority",
							cand.phrase, key, cand.value, key, existingValue),
					})
				}
			}
			continue
		}

		winner := cands[0]
		c.set.Put(key, winner.value)
		for _, cand := range cands[1:] {
			if cand.value == winner.value {
				continue
			}
			c.issues = append(c.issues, Issue{
				Key:      key,
				Value:    cand.value,
				Severity: SeverityWarning,
				Message: fmt.Sprintf("discarded %s=%s from %q in favor of %s=%s (confidence %.2f vs %.2f)",
					key, cand.value, cand.phrase, key, winner.value, cand.confidence, winner.confidence),
			})
		}
	}
}
