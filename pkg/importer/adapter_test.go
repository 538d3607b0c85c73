package importer

import (
	"context"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/hazyhaar/tagsmith/pkg/tagdict"
)

const taginfoSample = `{
	"data": [
		{"key": "shop", "value": "car_repair", "fraction": 0.002, "in_wiki": true},
		{"key": "amenity", "value": "bicycle_parking", "fraction": 0.01, "in_wiki": true},
		{"key": "amenity", "value": "parking", "fraction": 0.05, "in_wiki": true},
		{"key": "building", "value": "yes", "fraction": 0.3, "in_wiki": true},
		{"key": "shop", "value": "vacant", "fraction": 0.001, "in_wiki": false},
		{"key": "source", "value": "survey", "fraction": 0.1, "in_wiki": true}
	]
}`

func loadImported(t *testing.T, dir, dictID string) (*tagdict.Manifest, *tagdict.Dictionary) {
	t.Helper()
	dictDir := filepath.Join(dir, dictID)
	m, err := tagdict.LoadManifest(filepath.Join(dictDir, "manifest.yaml"))
	if err != nil {
		t.Fatalf("LoadManifest: %v", err)
	}
	d, err := tagdict.LoadDictionary(dictDir)
	if err != nil {
		t.Fatalf("LoadDictionary: %v", err)
	}
	return m, d
}

func TestTaginfoAdapterImport(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(taginfoSample))
	}))
	defer ts.Close()

	a, err := Get("taginfo-popular")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}

	dir := t.TempDir()
	n, err := a.Import(context.Background(), ts.URL, dir)
	if err != nil {
		t.Fatalf("Import: %v", err)
	}
	if n != 3 {
		t.Fatalf("Import reported %d entries, want 3", n)
	}

	m, d := loadImported(t, dir, a.DictID())
	if m.License != "ODbL" {
		t.Errorf("license = %q", m.License)
	}
	// building=yes, non-wiki and bookkeeping keys are filtered out.
	if d.RuleCount() != 3 {
		t.Fatalf("rules = %d, want 3", d.RuleCount())
	}
	rules := d.LookupPhrase("car repair")
	if len(rules) != 1 {
		t.Fatalf("car repair rules = %v", rules)
	}
	if rules[0].Tags[0].Key != "shop" || rules[0].Tags[0].Value != "car_repair" {
		t.Errorf("car repair tags = %v", rules[0].Tags)
	}
	if rules[0].Confidence > 0.85 || rules[0].Confidence < 0.5 {
		t.Errorf("confidence = %v, want within [0.5, 0.85]", rules[0].Confidence)
	}
}

const deprecatedSample = `[
	{"old": {"amenity": "ev_charging"}, "replace": {"amenity": "charging_station"}},
	{"old": {"shop": "fishmonger"}, "replace": {"shop": "seafood"}},
	{"old": {"landuse": "farm"}, "replace": {"landuse": "farmland"}},
	{"old": {"highway": "ford", "ford": "yes"}, "replace": {"ford": "yes"}},
	{"old": {"cycleway": "track"}, "replace": {"cycleway": "$1"}},
	{"old": {"abandoned": "*"}, "replace": {"disused": "yes"}}
]`

func TestDeprecatedAdapterImport(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(deprecatedSample))
	}))
	defer ts.Close()

	a, err := Get("id-schema-deprecated")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}

	dir := t.TempDir()
	n, err := a.Import(context.Background(), ts.URL, dir)
	if err != nil {
		t.Fatalf("Import: %v", err)
	}
	if n != 4 {
		t.Fatalf("Import reported %d entries, want 4", n)
	}

	_, d := loadImported(t, dir, a.DictID())
	// Multi-key selector and templated replacement are skipped: 4 remain.
	if d.DeprecationCount() != 4 {
		t.Fatalf("deprecations = %d, want 4", d.DeprecationCount())
	}

	dep, ok := d.IsDeprecated("shop", "fishmonger")
	if !ok {
		t.Fatal("shop=fishmonger not marked deprecated")
	}
	if dep.Replacement[0].Value != "seafood" {
		t.Errorf("replacement = %v", dep.Replacement)
	}

	// Wildcard: abandoned=* covers any value.
	if _, ok := d.IsDeprecated("abandoned", "anything"); !ok {
		t.Error("abandoned wildcard deprecation not applied")
	}
}

func TestAdapterRegistry(t *testing.T) {
	all := All()
	if len(all) < 2 {
		t.Fatalf("registered adapters = %d, want at least taginfo and deprecated", len(all))
	}
	for i := 1; i < len(all); i++ {
		if all[i-1].ID() >= all[i].ID() {
			t.Errorf("adapters not sorted: %s before %s", all[i-1].ID(), all[i].ID())
		}
	}
	if _, err := Get("no-such-adapter"); err == nil {
		t.Error("expected error for unknown adapter")
	}
}
