package tagdict

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/hazyhaar/tagsmith/pkg/tags"
)

// writeTestDict writes a minimal dictionary directory and returns its path.
func writeTestDict(t *testing.T, id string, files map[string]string) string {
	t.Helper()
	dir := filepath.Join(t.TempDir(), id)
	os.MkdirAll(dir, 0o755)

	manifest := `id: ` + id + `
version: "1.0"
source: unit test
license: test
format:
  normalize: lowercase_ascii
`
	os.WriteFile(filepath.Join(dir, "manifest.yaml"), []byte(manifest), 0o644)
	for name, content := range files {
		os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644)
	}
	return dir
}

const testRules = `rules:
  - phrase: Coffee Shop
    tags: {amenity: cafe}
    confidence: 0.9
  - phrase: café
    tags: {amenity: cafe}
    confidence: 0.85
  - phrase: bus stop
    tags: {highway: bus_stop}
    confidence: 0.9
    element_types: [node]
`

func TestLoadDictionary(t *testing.T) {
	dir := writeTestDict(t, "test-dict", map[string]string{"rules.yaml": testRules})

	d, err := LoadDictionary(dir)
	if err != nil {
		t.Fatalf("LoadDictionary: %v", err)
	}
	if d.Manifest.ID != "test-dict" {
		t.Errorf("ID = %q, want test-dict", d.Manifest.ID)
	}
	if d.RuleCount() != 3 {
		t.Errorf("rules = %d, want 3", d.RuleCount())
	}

	// Phrases are normalized at compile time: "Coffee Shop" -> "coffee shop",
	// "café" -> "cafe".
	if rules := d.LookupPhrase("COFFEE SHOP"); len(rules) != 1 {
		t.Errorf("LookupPhrase(COFFEE SHOP) = %d rules, want 1", len(rules))
	}
	if rules := d.LookupPhrase("Café"); len(rules) != 1 {
		t.Errorf("LookupPhrase(Café) = %d rules, want 1", len(rules))
	}
	if rules := d.LookupPhrase("xyzzy"); len(rules) != 0 {
		t.Errorf("LookupPhrase(xyzzy) = %d rules, want 0", len(rules))
	}
}

func TestLoadDictionaryNoRules(t *testing.T) {
	dir := writeTestDict(t, "empty", map[string]string{"groups.yaml": "groups:\n  - id: amenity\n    keys: [amenity]\n"})
	if _, err := LoadDictionary(dir); err == nil {
		t.Error("expected error for dictionary without rules")
	}
}

func TestCompileRejectsMalformedData(t *testing.T) {
	manifest := builtinManifest()
	cases := []struct {
		name string
		file File
	}{
		{"empty phrase", File{Rules: []RuleSpec{{Phrase: " ", Tags: map[string]string{"a": "b"}, Confidence: 0.5}}}},
		{"no tags", File{Rules: []RuleSpec{{Phrase: "x", Confidence: 0.5}}}},
		{"zero confidence", File{Rules: []RuleSpec{{Phrase: "x", Tags: map[string]string{"a": "b"}, Confidence: 0}}}},
		{"confidence above one", File{Rules: []RuleSpec{{Phrase: "x", Tags: map[string]string{"a": "b"}, Confidence: 1.5}}}},
		{"bad rule key", File{Rules: []RuleSpec{{Phrase: "x", Tags: map[string]string{"Bad Key": "b"}, Confidence: 0.5}}}},
		{"deprecation without replacement", File{
			Rules:        []RuleSpec{{Phrase: "x", Tags: map[string]string{"a": "b"}, Confidence: 0.5}},
			Deprecations: []DeprecationSpec{{Key: "shop", Value: "old"}},
		}},
		{"key in two groups", File{
			Rules:  []RuleSpec{{Phrase: "x", Tags: map[string]string{"a": "b"}, Confidence: 0.5}},
			Groups: []GroupSpec{{ID: "g1", Keys: []string{"amenity"}}, {ID: "g2", Keys: []string{"amenity"}}},
		}},
		{"single-group combination", File{
			Rules:               []RuleSpec{{Phrase: "x", Tags: map[string]string{"a": "b"}, Confidence: 0.5}},
			AllowedCombinations: [][]string{{"building"}},
		}},
	}
	for _, tc := range cases {
		if _, err := Compile(manifest, &tc.file); err == nil {
			t.Errorf("%s: expected compile error", tc.name)
		}
	}
}

func TestRulesOrderedLongestFirst(t *testing.T) {
	d := Builtin()
	rules := d.Rules()
	for i := 1; i < len(rules); i++ {
		if len(rules[i].Phrase) > len(rules[i-1].Phrase) {
			t.Fatalf("rules not ordered longest-first: %q after %q", rules[i].Phrase, rules[i-1].Phrase)
		}
	}
}

func TestIsDeprecated(t *testing.T) {
	d := Builtin()

	dep, ok := d.IsDeprecated("shop", "fishmonger")
	if !ok {
		t.Fatal("shop=fishmonger should be deprecated")
	}
	if len(dep.Replacement) != 1 || dep.Replacement[0] != (tags.Tag{Key: "shop", Value: "seafood"}) {
		t.Errorf("replacement = %v, want shop=seafood", dep.Replacement)
	}

	if _, ok := d.IsDeprecated("shop", "bakery"); ok {
		t.Error("shop=bakery should not be deprecated")
	}
}

func TestIsDeprecatedWildcardValue(t *testing.T) {
	d, err := Compile(builtinManifest(), &File{
		Rules:        []RuleSpec{{Phrase: "x", Tags: map[string]string{"a": "b"}, Confidence: 0.5}},
		Deprecations: []DeprecationSpec{{Key: "class", Replacement: map[string]string{"highway": "road"}}},
	})
	if err != nil {
		t.Fatalf("Compile: %v", err)
	}
	if _, ok := d.IsDeprecated("class", "anything"); !ok {
		t.Error("wildcard deprecation should match any value")
	}
}

func TestPrimaryGroupOf(t *testing.T) {
	d := Builtin()
	tests := []struct {
		key   string
		group string
		ok    bool
	}{
		{"amenity", "amenity", true},
		{"shop", "shop", true},
		{"cuisine", "", false},
		{"name", "", false},
	}
	for _, tt := range tests {
		g, ok := d.PrimaryGroupOf(tt.key)
		if ok != tt.ok || g != tt.group {
			t.Errorf("PrimaryGroupOf(%q) = (%q, %v), want (%q, %v)", tt.key, g, ok, tt.group, tt.ok)
		}
	}
}

func TestAllowedCombination(t *testing.T) {
	d := Builtin()
	if !d.AllowedCombination([]string{"shop", "building"}) {
		t.Error("building+shop should be whitelisted (order-insensitive)")
	}
	if d.AllowedCombination([]string{"amenity", "shop"}) {
		t.Error("amenity+shop should not be whitelisted")
	}
	if !d.AllowedCombination([]string{"amenity"}) {
		t.Error("a single group is never a conflict")
	}
}

func TestRecommendedForOrdering(t *testing.T) {
	d := Builtin()
	set := tags.NewSet()
	set.Put("amenity", "restaurant")

	recs := d.RecommendedFor(set)
	if len(recs) == 0 {
		t.Fatal("no recommendations for amenity=restaurant")
	}
	for i := 1; i < len(recs); i++ {
		prev, cur := recs[i-1], recs[i]
		if cur.Confidence > prev.Confidence {
			t.Fatalf("recommendations not sorted by confidence: %v before %v", prev, cur)
		}
		if cur.Confidence == prev.Confidence && cur.Key < prev.Key {
			t.Fatalf("equal-confidence tie not broken by key: %q before %q", prev.Key, cur.Key)
		}
	}

	// name comes from the wildcard entry and should rank first (0.9).
	if recs[0].Key != "name" {
		t.Errorf("top recommendation = %q, want name", recs[0].Key)
	}
}

func TestRecommendedForDeduplicatesByKey(t *testing.T) {
	d := Builtin()
	set := tags.NewSet()
	set.Put("amenity", "restaurant")
	set.Put("shop", "bakery") // both suggest opening_hours at different confidences

	seen := make(map[string]int)
	for _, rec := range d.RecommendedFor(set) {
		seen[rec.Key]++
	}
	for key, n := range seen {
		if n > 1 {
			t.Errorf("key %q recommended %d times", key, n)
		}
	}
	// The higher-confidence entry must win: shop's 0.8 over restaurant's 0.7.
	for _, rec := range d.RecommendedFor(set) {
		if rec.Key == "opening_hours" && rec.Confidence != 0.8 {
			t.Errorf("opening_hours confidence = %v, want 0.8 (highest wins)", rec.Confidence)
		}
	}
}

func TestRequiredFor(t *testing.T) {
	d := Builtin()
	set := tags.NewSet()
	set.Put("amenity", "restaurant")

	required := d.RequiredFor(set)
	found := false
	for _, rec := range required {
		if rec.Key == "cuisine" {
			found = true
		}
	}
	if !found {
		t.Error("cuisine should be required for amenity=restaurant")
	}
}

func TestDescribe(t *testing.T) {
	d := Builtin()
	doc, ok := d.Describe("amenity")
	if !ok {
		t.Fatal("amenity should be documented")
	}
	if doc.Wiki == "" {
		t.Error("amenity doc missing wiki link")
	}
	if got := d.DescribeValue("amenity", "restaurant"); got != "Place to eat" {
		t.Errorf("DescribeValue(amenity, restaurant) = %q", got)
	}
	// Unknown value falls back to the key description.
	if got := d.DescribeValue("amenity", "unheard_of"); got != doc.Description {
		t.Errorf("fallback description = %q, want %q", got, doc.Description)
	}
}
