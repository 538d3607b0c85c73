package importer

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/hazyhaar/tagsmith/pkg/tagdict"
)

func init() {
	Register(&deprecatedAdapter{})
}

// deprecatedAdapter imports the community-maintained deprecated-tag table
// from the iD tagging schema. Each entry maps a superseded tag to its
// modern replacement.
type deprecatedAdapter struct{}

func (a *deprecatedAdapter) ID() string     { return "id-schema-deprecated" }
func (a *deprecatedAdapter) DictID() string { return "deprecated-tags" }
func (a *deprecatedAdapter) Description() string {
	return "Deprecated OSM tags and their replacements (iD tagging schema)"
}
func (a *deprecatedAdapter) DefaultURL() string {
	return "https://raw.githubusercontent.com/openstreetmap/id-tagging-schema/main/data/deprecated.json"
}
func (a *deprecatedAdapter) License() string { return "ISC" }

// deprecatedEntry mirrors one element of deprecated.json.
type deprecatedEntry struct {
	Old     map[string]string `json:"old"`
	Replace map[string]string `json:"replace"`
}

func (a *deprecatedAdapter) Import(ctx context.Context, sourceURL, outputDir string) (int, error) {
	dlDir := filepath.Join(outputDir, "_download")
	if err := ensureDir(dlDir); err != nil {
		return 0, err
	}
	defer os.RemoveAll(dlDir)

	jsonPath := filepath.Join(dlDir, "deprecated.json")
	fmt.Printf("  downloading %s...\n", sourceURL)
	if err := downloadFile(ctx, sourceURL, jsonPath); err != nil {
		return 0, fmt.Errorf("download: %w", err)
	}

	data, err := os.ReadFile(jsonPath)
	if err != nil {
		return 0, err
	}
	var entries []deprecatedEntry
	if err := json.Unmarshal(data, &entries); err != nil {
		return 0, fmt.Errorf("parse deprecated.json: %w", err)
	}

	file := &tagdict.File{}
	for _, e := range entries {
		// Multi-key "old" selectors and templated replacements ("$1") need
		// per-tag context this dictionary format does not model; skip them.
		if len(e.Old) != 1 || len(e.Replace) == 0 {
			continue
		}
		if containsTemplate(e.Replace) {
			continue
		}
		for key, value := range e.Old {
			if !tagdict.KeyPattern.MatchString(key) {
				continue
			}
			if value == "*" {
				// Whole-key deprecation; an empty value covers every value.
				value = ""
			}
			file.Deprecations = append(file.Deprecations, tagdict.DeprecationSpec{
				Key:         key,
				Value:       value,
				Replacement: e.Replace,
			})
		}
	}
	if len(file.Deprecations) == 0 {
		return 0, fmt.Errorf("no usable entries in deprecated.json")
	}
	sort.Slice(file.Deprecations, func(i, j int) bool {
		a, b := file.Deprecations[i], file.Deprecations[j]
		if a.Key != b.Key {
			return a.Key < b.Key
		}
		return a.Value < b.Value
	})
	fmt.Printf("  %d deprecations imported\n", len(file.Deprecations))

	err = writeDict(outputDir, a.DictID(), file, &tagdict.Manifest{
		ID:        a.DictID(),
		Version:   "2026-08",
		Source:    "iD tagging schema",
		SourceURL: sourceURL,
		License:   a.License(),
		Format:    tagdict.FormatSpec{Normalize: "lowercase_ascii"},
	})
	if err != nil {
		return 0, err
	}
	return len(file.Deprecations), nil
}

func containsTemplate(replace map[string]string) bool {
	for _, v := range replace {
		for i := 0; i+1 < len(v); i++ {
			if v[i] == '$' && v[i+1] >= '0' && v[i+1] <= '9' {
				return true
			}
		}
	}
	return false
}
