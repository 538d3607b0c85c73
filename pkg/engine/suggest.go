package engine

import (
	"github.com/hazyhaar/tagsmith/pkg/tagdict"
	"github.com/hazyhaar/tagsmith/pkg/tags"
)

// DefaultSuggestionLimit caps suggestions when the caller gives no limit.
const DefaultSuggestionLimit = 5

// Suggest returns up to limit recommended co-tags not already present in the
// set. The order is deterministic: confidence descending, key ascending
// (RecommendedFor already guarantees this).
func Suggest(dict *tagdict.Dictionary, set *tags.Set, limit int) []tagdict.Recommendation {
	if set.Len() == 0 {
		return nil
	}
	if limit <= 0 {
		limit = DefaultSuggestionLimit
	}

	var out []tagdict.Recommendation
	for _, rec := range dict.RecommendedFor(set) {
		if set.Has(rec.Key) {
			continue
		}
		out = append(out, rec)
		if len(out) == limit {
			break
		}
	}
	return out
}
