package engine

import (
	"fmt"
	"regexp"
	"sort"
	"strings"

	"github.com/hazyhaar/tagsmith/pkg/tagdict"
	"github.com/hazyhaar/tagsmith/pkg/tags"
)

// Coordinates is an optional lat/lon supplied alongside the tags.
type Coordinates struct {
	Lat float64 `json:"lat"`
	Lon float64 `json:"lon"`
}

var (
	// Accepted opening_hours shapes. Deliberately loose: full syntax
	// validation belongs to the OSM editors, this only catches obvious
	// garbage.
	openingHoursPatterns = []*regexp.Regexp{
		regexp.MustCompile(`^\d{2}:\d{2}-\d{2}:\d{2}$`),
		regexp.MustCompile(`^[A-Z][a-z](-[A-Z][a-z])?(,[A-Z][a-z](-[A-Z][a-z])?)* \d{2}:\d{2}-\d{2}:\d{2}$`),
		regexp.MustCompile(`^24/7$`),
		regexp.MustCompile(`^closed$`),
	}
	phonePattern   = regexp.MustCompile(`^\+?[0-9\s\-().]+$`)
	websitePattern = regexp.MustCompile(`^https?://[^\s/$.?#].[^\s]*$`)
)

// Validate checks a tag set against the dictionary. Every check runs even if
// earlier ones fail; the caller always gets the complete list of findings.
// The returned status is StatusInvalid when any finding is an error.
func Validate(dict *tagdict.Dictionary, set *tags.Set, coords *Coordinates) ([]Issue, string) {
	var issues []Issue

	// 1. Key format.
	for _, t := range set.Tags() {
		if !tagdict.KeyPattern.MatchString(t.Key) {
			issues = append(issues, Issue{
				Key:      t.Key,
				Value:    t.Value,
				Severity: SeverityError,
				Message:  fmt.Sprintf("malformed key %q: keys must match [a-z0-9_:]+", t.Key),
			})
		}
	}

	// 2. Value constraints.
	for _, t := range set.Tags() {
		if len(t.Value) > tags.MaxValueLength {
			issues = append(issues, Issue{
				Key:      t.Key,
				Value:    t.Value[:32] + "…",
				Severity: SeverityError,
				Message:  fmt.Sprintf("value for %q exceeds %d characters", t.Key, tags.MaxValueLength),
			})
		}
		if strings.TrimSpace(t.Value) == "" {
			sev := SeverityWarning
			if _, primary := dict.PrimaryGroupOf(t.Key); primary {
				sev = SeverityError
			}
			issues = append(issues, Issue{
				Key:      t.Key,
				Severity: sev,
				Message:  fmt.Sprintf("empty value for tag %q", t.Key),
			})
		}
	}

	// 3. Deprecated tags.
	for _, t := range set.Tags() {
		if dep, ok := dict.IsDeprecated(t.Key, t.Value); ok {
			issues = append(issues, Issue{
				Key:          t.Key,
				Value:        t.Value,
				Severity:     SeverityWarning,
				Message:      fmt.Sprintf("%s=%s is deprecated; use %s", t.Key, t.Value, fixSummary(dep.Replacement)),
				SuggestedFix: dep.Replacement,
			})
		}
	}

	// 4. Primary-group conflicts.
	if conflict := primaryConflict(dict, set); conflict != nil {
		issues = append(issues, *conflict)
	}

	// 5. Coordinate ranges. Out-of-range values are reported, never clamped.
	if coords != nil {
		if coords.Lat < -90 || coords.Lat > 90 {
			issues = append(issues, Issue{
				Severity: SeverityError,
				Message:  fmt.Sprintf("latitude %v outside [-90, 90]", coords.Lat),
			})
		}
		if coords.Lon < -180 || coords.Lon > 180 {
			issues = append(issues, Issue{
				Severity: SeverityError,
				Message:  fmt.Sprintf("longitude %v outside [-180, 180]", coords.Lon),
			})
		}
	}

	// 6. Required co-tags.
	for _, rec := range dict.RequiredFor(set) {
		if set.Has(rec.Key) {
			continue
		}
		issues = append(issues, Issue{
			Key:      rec.Key,
			Severity: SeverityInfo,
			Message:  fmt.Sprintf("missing recommended tag %q: %s", rec.Key, rec.Reason),
		})
	}

	// 7. Known-value and format checks.
	for _, t := range set.Tags() {
		issues = append(issues, valueChecks(dict, t)...)
	}

	return issues, statusFor(issues)
}

// primaryConflict returns an error issue when the set carries primary
// classifiers from more than one non-whitelisted group.
func primaryConflict(dict *tagdict.Dictionary, set *tags.Set) *Issue {
	byGroup := make(map[string][]string)
	for _, t := range set.Tags() {
		if g, ok := dict.PrimaryGroupOf(t.Key); ok {
			byGroup[g] = append(byGroup[g], t.Key)
		}
	}
	if len(byGroup) < 2 {
		return nil
	}
	groups := make([]string, 0, len(byGroup))
	for g := range byGroup {
		groups = append(groups, g)
	}
	sort.Strings(groups)
	if dict.AllowedCombination(groups) {
		return nil
	}

	var keys []string
	for _, g := range groups {
		keys = append(keys, byGroup[g]...)
	}
	sort.Strings(keys)
	return &Issue{
		Severity: SeverityError,
		Message:  fmt.Sprintf("conflicting primary feature tags: %s classify the element in incompatible ways", strings.Join(keys, ", ")),
	}
}

// valueChecks covers per-key value warnings: unknown values of documented
// primary keys and the format of a few well-known free-text tags.
func valueChecks(dict *tagdict.Dictionary, t tags.Tag) []Issue {
	var issues []Issue

	if _, primary := dict.PrimaryGroupOf(t.Key); primary && t.Value != "" {
		if known := dict.KnownValues(t.Key); len(known) > 0 && !containsString(known, t.Value) {
			sample := known
			if len(sample) > 5 {
				sample = sample[:5]
			}
			issues = append(issues, Issue{
				Key:      t.Key,
				Value:    t.Value,
				Severity: SeverityWarning,
				Message:  fmt.Sprintf("uncommon value %q for %q; known values include: %s", t.Value, t.Key, strings.Join(sample, ", ")),
			})
		}
	}

	switch t.Key {
	case "opening_hours":
		if t.Value != "" && !matchesAny(openingHoursPatterns, t.Value) {
			issues = append(issues, Issue{
				Key:      t.Key,
				Value:    t.Value,
				Severity: SeverityWarning,
				Message:  fmt.Sprintf("opening_hours value %q does not look like a valid opening hours expression", t.Value),
			})
		}
	case "phone", "contact:phone":
		if t.Value != "" && (!phonePattern.MatchString(t.Value) || len(t.Value) < 7) {
			issues = append(issues, Issue{
				Key:      t.Key,
				Value:    t.Value,
				Severity: SeverityWarning,
				Message:  fmt.Sprintf("phone value %q does not look like a phone number", t.Value),
			})
		}
	case "website", "contact:website":
		if t.Value != "" && !websitePattern.MatchString(t.Value) {
			issues = append(issues, Issue{
				Key:      t.Key,
				Value:    t.Value,
				Severity: SeverityWarning,
				Message:  fmt.Sprintf("website value %q is not an http(s) URL", t.Value),
			})
		}
	}
	return issues
}

func fixSummary(fix []tags.Tag) string {
	parts := make([]string, 0, len(fix))
	for _, t := range fix {
		parts = append(parts, t.String())
	}
	return strings.Join(parts, " + ")
}

func matchesAny(patterns []*regexp.Regexp, v string) bool {
	for _, p := range patterns {
		if p.MatchString(v) {
			return true
		}
	}
	return false
}

func containsString(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
