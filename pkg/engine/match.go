package engine

import (
	"sort"
	"strings"

	"github.com/hazyhaar/tagsmith/pkg/tagdict"
	"github.com/hazyhaar/tagsmith/pkg/tags"
)

// Span is one dictionary phrase found in the input text. Offsets refer to
// the normalized text. Spans may overlap; the composer resolves them.
type Span struct {
	Start      int        `json:"start"`
	End        int        `json:"end"`
	Phrase     string     `json:"phrase"`
	Tags       []tags.Tag `json:"tags"`
	Confidence float64    `json:"confidence"`
}

// Match scans the text for dictionary phrases and returns every occurrence
// as a Span. Rules are scanned longest phrase first; an occurrence fully
// inside a region already claimed by a longer phrase is shadowed (so "food"
// never fires inside "fast food"). Rules carrying an element-type filter are
// skipped when they don't apply to elementType.
func Match(dict *tagdict.Dictionary, text, elementType string) []Span {
	normalized := dict.Normalize(text)

	var claimed []interval
	var spans []Span

	for _, rule := range dict.Rules() {
		if !rule.AppliesTo(elementType) {
			continue
		}
		for _, start := range occurrences(normalized, rule.Phrase) {
			end := start + len(rule.Phrase)
			if shadowed(claimed, start, end, len(rule.Phrase)) {
				continue
			}
			spans = append(spans, Span{
				Start:      start,
				End:        end,
				Phrase:     rule.Phrase,
				Tags:       rule.Tags,
				Confidence: rule.Confidence,
			})
			claimed = append(claimed, interval{start, end})
		}
	}

	sort.SliceStable(spans, func(i, j int) bool {
		if spans[i].Start != spans[j].Start {
			return spans[i].Start < spans[j].Start
		}
		if spans[i].End != spans[j].End {
			return spans[i].End > spans[j].End
		}
		return spans[i].Phrase < spans[j].Phrase
	})
	return spans
}

type interval struct{ start, end int }

// shadowed reports whether [start,end) lies fully inside a claimed interval
// of a strictly longer phrase. Partial overlaps and equal-length matches are
// kept so ambiguity stays visible.
func shadowed(claimed []interval, start, end, phraseLen int) bool {
	for _, c := range claimed {
		if c.end-c.start > phraseLen && c.start <= start && end <= c.end {
			return true
		}
	}
	return false
}

// occurrences returns the start offsets of every word-bounded occurrence of
// phrase in text.
func occurrences(text, phrase string) []int {
	if phrase == "" {
		return nil
	}
	var out []int
	for i := 0; i+len(phrase) <= len(text); {
		j := strings.Index(text[i:], phrase)
		if j < 0 {
			break
		}
		j += i
		if boundary(text, j-1) && boundary(text, j+len(phrase)) {
			out = append(out, j)
		}
		i = j + 1
	}
	return out
}

// boundary reports whether the byte at position i (may be -1 or len(text))
// separates words. Letters and digits join words; everything else splits.
func boundary(text string, i int) bool {
	if i < 0 || i >= len(text) {
		return true
	}
	c := text[i]
	return !(c >= 'a' && c <= 'z' || c >= 'A' && c <= 'Z' || c >= '0' && c <= '9')
}
