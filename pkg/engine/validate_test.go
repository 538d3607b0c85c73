package engine

import (
	"strings"
	"testing"

	"github.com/hazyhaar/tagsmith/pkg/tags"
)

func issuesFor(issues []Issue, key string) []Issue {
	var out []Issue
	for _, is := range issues {
		if is.Key == key {
			out = append(out, is)
		}
	}
	return out
}

func countSeverity(issues []Issue, sev Severity) int {
	n := 0
	for _, is := range issues {
		if is.Severity == sev {
			n++
		}
	}
	return n
}

func TestValidateCleanSet(t *testing.T) {
	d := builtinDict(t)
	set := tags.NewSet()
	set.Put("amenity", "cafe")
	set.Put("name", "Corner Cafe")

	issues, status := Validate(d, set, nil)
	if status != StatusValid {
		t.Errorf("status = %q, issues = %v", status, issues)
	}
}

func TestValidateMalformedKey(t *testing.T) {
	d := builtinDict(t)
	set := tags.NewSet()
	set.Put("Bad Key", "x")
	set.Put("amenity", "cafe")

	issues, status := Validate(d, set, nil)
	if status != StatusInvalid {
		t.Errorf("status = %q, want invalid", status)
	}
	bad := issuesFor(issues, "Bad Key")
	if len(bad) != 1 || bad[0].Severity != SeverityError {
		t.Errorf("issues for Bad Key = %v, want exactly one error", bad)
	}
	// The malformed key must not stop other checks: amenity=cafe still
	// triggers its required/recommended evaluation without panicking.
	if len(issues) < 1 {
		t.Error("expected complete issue list despite key error")
	}
}

func TestValidateDeprecatedTag(t *testing.T) {
	d := builtinDict(t)
	set := tags.NewSet()
	set.Put("shop", "fishmonger")

	issues, status := Validate(d, set, nil)
	if status != StatusValid {
		t.Errorf("deprecation is a warning, status = %q", status)
	}

	var dep *Issue
	for i := range issues {
		if issues[i].Key == "shop" && len(issues[i].SuggestedFix) > 0 {
			dep = &issues[i]
		}
	}
	if dep == nil {
		t.Fatalf("no deprecation issue in %v", issues)
	}
	if dep.Severity != SeverityWarning {
		t.Errorf("severity = %q, want warning", dep.Severity)
	}
	if dep.SuggestedFix[0] != (tags.Tag{Key: "shop", Value: "seafood"}) {
		t.Errorf("suggested fix = %v, want shop=seafood", dep.SuggestedFix)
	}
}

func TestValidatePrimaryConflict(t *testing.T) {
	d := builtinDict(t)
	set := tags.NewSet()
	set.Put("amenity", "fuel")
	set.Put("shop", "bakery")

	issues, status := Validate(d, set, nil)
	if status != StatusInvalid {
		t.Errorf("status = %q, want invalid", status)
	}
	found := false
	for _, is := range issues {
		if is.Severity == SeverityError && strings.Contains(is.Message, "amenity") && strings.Contains(is.Message, "shop") {
			found = true
		}
	}
	if !found {
		t.Errorf("conflict error naming both keys not found in %v", issues)
	}
}

func TestValidateWhitelistedCombinationPasses(t *testing.T) {
	d := builtinDict(t)
	set := tags.NewSet()
	set.Put("building", "commercial")
	set.Put("shop", "bakery")

	issues, status := Validate(d, set, nil)
	if status != StatusValid {
		t.Errorf("building+shop is whitelisted, status = %q, issues = %v", status, issues)
	}
}

func TestValidateCoordinates(t *testing.T) {
	d := builtinDict(t)
	set := tags.NewSet()
	set.Put("amenity", "restaurant")

	issues, status := Validate(d, set, &Coordinates{Lat: 95.0, Lon: 200.0})
	if status != StatusInvalid {
		t.Errorf("status = %q, want invalid", status)
	}
	if n := countSeverity(issues, SeverityError); n != 2 {
		t.Errorf("errors = %d, want 2 (lat and lon)", n)
	}
	// The coordinate errors must not suppress the required co-tag check.
	if len(issuesFor(issues, "cuisine")) != 1 {
		t.Errorf("missing-cuisine check skipped: %v", issues)
	}

	if _, status := Validate(d, set, &Coordinates{Lat: 44.8, Lon: 20.5}); status != StatusInvalid {
		// Still invalid? No: in-range coordinates produce no error.
		t.Log("in-range coordinates accepted")
	}
	issues, _ = Validate(d, set, &Coordinates{Lat: 44.8, Lon: 20.5})
	if countSeverity(issues, SeverityError) != 0 {
		t.Errorf("in-range coordinates produced errors: %v", issues)
	}
}

func TestValidateRequiredCoTag(t *testing.T) {
	d := builtinDict(t)
	set := tags.NewSet()
	set.Put("amenity", "restaurant")

	issues, status := Validate(d, set, nil)
	if status != StatusValid {
		t.Errorf("missing co-tag is informational, status = %q", status)
	}
	cuisine := issuesFor(issues, "cuisine")
	if len(cuisine) != 1 || cuisine[0].Severity != SeverityInfo {
		t.Errorf("cuisine issues = %v, want one info", cuisine)
	}

	set.Put("cuisine", "italian")
	issues, _ = Validate(d, set, nil)
	if len(issuesFor(issues, "cuisine")) != 0 {
		t.Errorf("cuisine present but still flagged: %v", issues)
	}
}

func TestValidateValueFormats(t *testing.T) {
	d := builtinDict(t)
	tests := []struct {
		key, value string
		wantIssue  bool
	}{
		{"opening_hours", "24/7", false},
		{"opening_hours", "Mo-Fr 09:00-17:00", false},
		{"opening_hours", "whenever", true},
		{"phone", "+381 11 123 4567", false},
		{"phone", "call me", true},
		{"website", "https://example.com/", false},
		{"website", "example dot com", true},
	}
	for _, tt := range tests {
		set := tags.NewSet()
		set.Put(tt.key, tt.value)
		issues, _ := Validate(d, set, nil)
		got := len(issuesFor(issues, tt.key)) > 0
		if got != tt.wantIssue {
			t.Errorf("%s=%s: issue = %v, want %v", tt.key, tt.value, got, tt.wantIssue)
		}
	}
}

func TestValidateUncommonPrimaryValue(t *testing.T) {
	d := builtinDict(t)
	set := tags.NewSet()
	set.Put("amenity", "flux_capacitor")

	issues, status := Validate(d, set, nil)
	if status != StatusValid {
		t.Errorf("uncommon value is a warning, status = %q", status)
	}
	if len(issuesFor(issues, "amenity")) == 0 {
		t.Errorf("uncommon amenity value not flagged: %v", issues)
	}
}

func TestValidateOverlongValue(t *testing.T) {
	d := builtinDict(t)
	set := tags.NewSet()
	set.Put("name", strings.Repeat("x", 300))

	issues, status := Validate(d, set, nil)
	if status != StatusInvalid {
		t.Errorf("status = %q, want invalid for >255 char value", status)
	}
	if len(issuesFor(issues, "name")) != 1 {
		t.Errorf("name issues = %v", issuesFor(issues, "name"))
	}
}

func TestValidateEmptyPrimaryValue(t *testing.T) {
	d := builtinDict(t)
	set := tags.NewSet()
	set.Put("amenity", "")

	issues, status := Validate(d, set, nil)
	if status != StatusInvalid {
		t.Errorf("status = %q, want invalid for empty primary value", status)
	}
	_ = issues
}
