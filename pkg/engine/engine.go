// Package engine translates free-text feature descriptions into validated
// OSM tag sets. The pipeline is fixed and sequential: match -> compose ->
// validate -> suggest. Every stage is pure computation over the injected
// dictionary, so an Engine may be shared by any number of goroutines.
package engine

import (
	"fmt"

	"github.com/hazyhaar/tagsmith/pkg/tagdict"
	"github.com/hazyhaar/tagsmith/pkg/tags"
)

// Element types accepted in a Request.
const (
	ElementNode     = "node"
	ElementWay      = "way"
	ElementRelation = "relation"
)

// DictSource yields the dictionary snapshot to translate against. The
// registry implements it; a snapshot is consistent for the whole request
// even if a reload happens mid-flight.
type DictSource interface {
	Current() *tagdict.Dictionary
}

// Static wraps a fixed dictionary as a DictSource.
type Static struct{ Dict *tagdict.Dictionary }

func (s Static) Current() *tagdict.Dictionary { return s.Dict }

// Request is one translation invocation.
type Request struct {
	Description    string       `json:"description"`
	ElementType    string       `json:"element_type,omitempty"`
	ExistingTags   *tags.Set    `json:"existing_tags,omitempty"`
	Location       *Coordinates `json:"location,omitempty"`
	MaxSuggestions int          `json:"max_suggestions,omitempty"`
}

// Result is the full outcome of a translation: the best-effort tag set plus
// everything the caller must see before acting on it. Issues and the
// clarification flag are never suppressed; a caller that writes to OSM is
// expected to confirm with the user first.
type Result struct {
	TagSet               *tags.Set                `json:"tags"`
	Issues               []Issue                  `json:"issues"`
	OverallStatus        string                   `json:"overall_status"`
	NeedsClarification   bool                     `json:"needs_clarification"`
	ClarificationOptions []ClarificationOption    `json:"clarification_options,omitempty"`
	Suggestions          []tagdict.Recommendation `json:"suggestions,omitempty"`
	Matches              []Span                   `json:"matches,omitempty"`
}

// Engine runs the translation pipeline against a dictionary source.
type Engine struct {
	dicts DictSource
}

// New creates an engine. The dictionary source is the engine's only state
// and is read-only.
func New(dicts DictSource) *Engine {
	return &Engine{dicts: dicts}
}

// Translate runs the full pipeline. It returns an error only for malformed
// requests; validation findings are carried in the Result, never as errors.
func (e *Engine) Translate(req Request) (*Result, error) {
	elementType := req.ElementType
	if elementType == "" {
		elementType = ElementNode
	}
	switch elementType {
	case ElementNode, ElementWay, ElementRelation:
	default:
		return nil, fmt.Errorf("invalid element type %q", req.ElementType)
	}

	dict := e.dicts.Current()
	if dict == nil {
		return nil, fmt.Errorf("no dictionary loaded")
	}

	spans := Match(dict, req.Description, elementType)
	comp := compose(dict, spans, req.ExistingTags)

	result := &Result{
		TagSet:               comp.set,
		Issues:               comp.issues,
		NeedsClarification:   comp.needsClarification,
		ClarificationOptions: comp.options,
		Matches:              spans,
	}

	// Nothing matched and nothing was supplied: say so explicitly instead
	// of returning an empty set that looks like success.
	if len(spans) == 0 && comp.set.Len() == 0 {
		result.Issues = append(result.Issues, Issue{
			Severity: SeverityError,
			Message:  "insufficient information: no known feature or attribute phrases recognized in the description",
		})
		result.OverallStatus = StatusInvalid
		return result, nil
	}

	validationIssues, _ := Validate(dict, comp.set, req.Location)
	result.Issues = append(result.Issues, validationIssues...)
	result.OverallStatus = statusFor(result.Issues)

	// Suggestions only for a valid (or warning-only) unambiguous set.
	if result.OverallStatus == StatusValid && !result.NeedsClarification {
		result.Suggestions = Suggest(dict, comp.set, req.MaxSuggestions)
	}
	return result, nil
}

// ValidateSet checks a caller-supplied tag set outside the translation
// pipeline (the validate_tags tool).
func (e *Engine) ValidateSet(set *tags.Set, coords *Coordinates) ([]Issue, string, error) {
	dict := e.dicts.Current()
	if dict == nil {
		return nil, "", fmt.Errorf("no dictionary loaded")
	}
	issues, status := Validate(dict, set, coords)
	return issues, status, nil
}

// SuggestFor returns recommendations for a caller-supplied tag set.
func (e *Engine) SuggestFor(set *tags.Set, limit int) ([]tagdict.Recommendation, error) {
	dict := e.dicts.Current()
	if dict == nil {
		return nil, fmt.Errorf("no dictionary loaded")
	}
	return Suggest(dict, set, limit), nil
}

// ExplainSet renders a tag set as prose.
func (e *Engine) ExplainSet(set *tags.Set) (Explanation, error) {
	dict := e.dicts.Current()
	if dict == nil {
		return Explanation{}, fmt.Errorf("no dictionary loaded")
	}
	return Explain(dict, set), nil
}
