package tagdict

import (
	"os"
	"path/filepath"
	"testing"
)

func TestGobBeatsYAML(t *testing.T) {
	dir := writeTestDict(t, "gob-dict", map[string]string{
		"rules.yaml": "rules:\n  - phrase: yaml only\n    tags: {shop: bakery}\n    confidence: 0.9\n",
	})

	// Write a gob cache with different content; the loader must prefer it.
	file := &File{Rules: []RuleSpec{{Phrase: "gob wins", Tags: map[string]string{"shop": "bakery"}, Confidence: 0.8}}}
	if err := SaveGob(file, filepath.Join(dir, "data.gob")); err != nil {
		t.Fatalf("SaveGob: %v", err)
	}

	d, err := LoadDictionary(dir)
	if err != nil {
		t.Fatalf("LoadDictionary: %v", err)
	}
	if len(d.LookupPhrase("gob wins")) != 1 {
		t.Error("gob content not loaded")
	}
	if len(d.LookupPhrase("yaml only")) != 0 {
		t.Error("yaml content loaded despite gob cache")
	}
}

func TestGobRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "data.gob")
	original := BuiltinFile()
	if err := SaveGob(original, path); err != nil {
		t.Fatalf("SaveGob: %v", err)
	}

	var back File
	if err := loadGob(path, &back); err != nil {
		t.Fatalf("loadGob: %v", err)
	}
	if len(back.Rules) != len(original.Rules) {
		t.Errorf("rules = %d, want %d", len(back.Rules), len(original.Rules))
	}
	if len(back.Deprecations) != len(original.Deprecations) {
		t.Errorf("deprecations = %d, want %d", len(back.Deprecations), len(original.Deprecations))
	}

	// The round-tripped file must still compile.
	if _, err := Compile(builtinManifest(), &back); err != nil {
		t.Fatalf("Compile after round trip: %v", err)
	}
}

func TestLoadGobCorrupt(t *testing.T) {
	path := filepath.Join(t.TempDir(), "data.gob")
	os.WriteFile(path, []byte("not a gob stream"), 0o644)

	var file File
	if err := loadGob(path, &file); err == nil {
		t.Error("expected error for corrupt gob file")
	}
}
