package importer

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/hazyhaar/tagsmith/pkg/tagdict"
)

func init() {
	Register(&taginfoAdapter{})
}

// taginfoAdapter builds phrase rules from the most-used tags reported by the
// taginfo API. The tag value doubles as the matchable phrase (underscores
// become spaces), so an imported "shop=car_repair" yields the phrase
// "car repair".
type taginfoAdapter struct{}

func (a *taginfoAdapter) ID() string     { return "taginfo-popular" }
func (a *taginfoAdapter) DictID() string { return "taginfo-popular" }
func (a *taginfoAdapter) Description() string {
	return "Most-used OSM tags from taginfo (taginfo.openstreetmap.org)"
}
func (a *taginfoAdapter) DefaultURL() string {
	return "https://taginfo.openstreetmap.org/api/4/tags/popular?page=1&rp=500&format=json"
}
func (a *taginfoAdapter) License() string { return "ODbL" }

// taginfoResponse mirrors the taginfo /api/4/tags/popular payload.
type taginfoResponse struct {
	Data []struct {
		Key      string  `json:"key"`
		Value    string  `json:"value"`
		Fraction float64 `json:"fraction"`
		InWiki   bool    `json:"in_wiki"`
	} `json:"data"`
}

// phraseableKeys are the keys whose values read as feature phrases. Values of
// bookkeeping keys (source, ref, building=yes) make meaningless phrases.
var phraseableKeys = map[string]bool{
	"amenity": true,
	"shop":    true,
	"tourism": true,
	"leisure": true,
	"craft":   true,
	"office":  true,
}

func (a *taginfoAdapter) Import(ctx context.Context, sourceURL, outputDir string) (int, error) {
	dlDir := filepath.Join(outputDir, "_download")
	if err := ensureDir(dlDir); err != nil {
		return 0, err
	}
	defer os.RemoveAll(dlDir)

	jsonPath := filepath.Join(dlDir, "popular.json")
	fmt.Printf("  downloading %s...\n", sourceURL)
	if err := downloadFile(ctx, sourceURL, jsonPath); err != nil {
		return 0, fmt.Errorf("download: %w", err)
	}

	data, err := os.ReadFile(jsonPath)
	if err != nil {
		return 0, err
	}
	var resp taginfoResponse
	if err := json.Unmarshal(data, &resp); err != nil {
		return 0, fmt.Errorf("parse taginfo response: %w", err)
	}

	file := &tagdict.File{}
	seen := make(map[string]bool)
	for _, t := range resp.Data {
		if !phraseableKeys[t.Key] || !t.InWiki {
			continue
		}
		if !tagdict.KeyPattern.MatchString(t.Key) {
			continue
		}
		switch t.Value {
		case "yes", "no", "*", "":
			continue
		}
		phrase := strings.ReplaceAll(t.Value, "_", " ")
		if seen[phrase] {
			continue
		}
		seen[phrase] = true

		file.Rules = append(file.Rules, tagdict.RuleSpec{
			Phrase:     phrase,
			Tags:       map[string]string{t.Key: t.Value},
			Confidence: confidenceFromUsage(t.Fraction),
		})
	}
	if len(file.Rules) == 0 {
		return 0, fmt.Errorf("no usable tags in taginfo response")
	}
	fmt.Printf("  %d phrase rules from taginfo\n", len(file.Rules))

	err = writeDict(outputDir, a.DictID(), file, &tagdict.Manifest{
		ID:        a.DictID(),
		Version:   "2026-08",
		Source:    "taginfo",
		SourceURL: sourceURL,
		License:   a.License(),
		Format:    tagdict.FormatSpec{Normalize: "lowercase_ascii"},
	})
	if err != nil {
		return 0, err
	}
	return len(file.Rules), nil
}

// confidenceFromUsage maps a taginfo usage fraction to a rule confidence.
// Even the most common tag stays below hand-curated rules (0.9+), and rare
// tags bottom out at 0.5 so they can still win over nothing.
func confidenceFromUsage(fraction float64) float64 {
	c := 0.5 + fraction*10
	if c > 0.85 {
		c = 0.85
	}
	return c
}
