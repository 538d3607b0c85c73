// Package tagdict provides the immutable OSM tag dictionary: phrase rules,
// deprecated-tag replacements, primary-feature groups, and recommended co-tag
// tables. A Dictionary is loaded once and never mutated; reloads swap the
// whole structure.
package tagdict

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"

	"github.com/hazyhaar/tagsmith/pkg/tags"
	"gopkg.in/yaml.v3"
)

// KeyPattern is the accepted shape of an OSM tag key.
var KeyPattern = regexp.MustCompile(`^[a-z0-9_:]+$`)

// dataFiles are the YAML sections of a dictionary directory. Only rules.yaml
// is mandatory; the rest default to empty sections.
var dataFiles = []string{
	"rules.yaml",
	"deprecations.yaml",
	"groups.yaml",
	"recommended.yaml",
	"descriptions.yaml",
}

// Rule is a compiled phrase -> tags mapping.
type Rule struct {
	Phrase       string     `json:"phrase"`
	Tags         []tags.Tag `json:"tags"`
	Confidence   float64    `json:"confidence"`
	ElementTypes []string   `json:"element_types,omitempty"`
}

// AppliesTo reports whether the rule may fire for the given element type.
// Rules without an element_types filter apply to every type.
func (r *Rule) AppliesTo(elementType string) bool {
	if len(r.ElementTypes) == 0 {
		return true
	}
	for _, et := range r.ElementTypes {
		if et == elementType {
			return true
		}
	}
	return false
}

// Deprecation is a superseded key/value pair with its replacement tags.
type Deprecation struct {
	Key         string     `json:"key"`
	Value       string     `json:"value,omitempty"`
	Replacement []tags.Tag `json:"replacement"`
}

// Recommendation is one suggested co-tag for a tag set.
type Recommendation struct {
	Key        string  `json:"key"`
	Value      string  `json:"value,omitempty"`
	Confidence float64 `json:"confidence"`
	Reason     string  `json:"reason"`
	Required   bool    `json:"required,omitempty"`
}

// Dictionary is one compiled, immutable tag dictionary.
type Dictionary struct {
	Manifest *Manifest

	rules        []Rule                 // longest phrase first, then phrase ascending
	byPhrase     map[string][]Rule      // normalized phrase -> rules
	deprecated   map[string]Deprecation // "key=value" and "key=" wildcards
	groupOf      map[string]string      // primary key -> group id
	combos       map[string]bool        // sorted "a+b" group pairs explicitly allowed
	recommended  map[string][]CoTagGuide
	descriptions map[string]KeyDoc
}

// LoadDictionary reads a dictionary directory: manifest.yaml plus either a
// compiled data.gob (preferred) or the YAML data files.
func LoadDictionary(dir string) (*Dictionary, error) {
	manifest, err := LoadManifest(filepath.Join(dir, "manifest.yaml"))
	if err != nil {
		return nil, err
	}

	var file File
	gobPath := filepath.Join(dir, "data.gob")
	if _, err := os.Stat(gobPath); err == nil {
		if err := loadGob(gobPath, &file); err != nil {
			return nil, fmt.Errorf("dict %s: %w", manifest.ID, err)
		}
	} else {
		if err := loadYAML(dir, &file); err != nil {
			return nil, fmt.Errorf("dict %s: %w", manifest.ID, err)
		}
	}

	return Compile(manifest, &file)
}

func loadYAML(dir string, file *File) error {
	loaded := 0
	for _, name := range dataFiles {
		path := filepath.Join(dir, name)
		data, err := os.ReadFile(path)
		if err != nil {
			if os.IsNotExist(err) {
				continue
			}
			return fmt.Errorf("read %s: %w", name, err)
		}
		var section File
		if err := yaml.Unmarshal(data, &section); err != nil {
			return fmt.Errorf("parse %s: %w", name, err)
		}
		file.merge(&section)
		loaded++
	}
	if loaded == 0 {
		return fmt.Errorf("no data files in %s", dir)
	}
	if len(file.Rules) == 0 {
		return fmt.Errorf("no rules defined in %s", dir)
	}
	return nil
}

// Compile validates a dictionary file and builds the lookup structures.
// Malformed data fails here, before the dictionary is ever served.
func Compile(manifest *Manifest, file *File) (*Dictionary, error) {
	d := &Dictionary{
		Manifest:     manifest,
		byPhrase:     make(map[string][]Rule),
		deprecated:   make(map[string]Deprecation),
		groupOf:      make(map[string]string),
		combos:       make(map[string]bool),
		recommended:  make(map[string][]CoTagGuide),
		descriptions: make(map[string]KeyDoc),
	}
	normalize := GetNormalizer(manifest.Format.Normalize)

	for i, spec := range file.Rules {
		if strings.TrimSpace(spec.Phrase) == "" {
			return nil, fmt.Errorf("rule %d: empty phrase", i)
		}
		if len(spec.Tags) == 0 {
			return nil, fmt.Errorf("rule %q: no tags", spec.Phrase)
		}
		if spec.Confidence <= 0 || spec.Confidence > 1 {
			return nil, fmt.Errorf("rule %q: confidence %v outside (0,1]", spec.Phrase, spec.Confidence)
		}
		for key := range spec.Tags {
			if !KeyPattern.MatchString(key) {
				return nil, fmt.Errorf("rule %q: malformed key %q", spec.Phrase, key)
			}
		}
		rule := Rule{
			Phrase:       normalize(spec.Phrase),
			Tags:         tags.FromMap(spec.Tags).Tags(),
			Confidence:   spec.Confidence,
			ElementTypes: spec.ElementTypes,
		}
		d.rules = append(d.rules, rule)
		d.byPhrase[rule.Phrase] = append(d.byPhrase[rule.Phrase], rule)
	}

	// Longest phrases first so "fast food" is scanned before "food".
	sort.SliceStable(d.rules, func(i, j int) bool {
		a, b := d.rules[i].Phrase, d.rules[j].Phrase
		if len(a) != len(b) {
			return len(a) > len(b)
		}
		return a < b
	})

	for _, spec := range file.Deprecations {
		if spec.Key == "" {
			return nil, fmt.Errorf("deprecation with empty key")
		}
		if len(spec.Replacement) == 0 {
			return nil, fmt.Errorf("deprecation %s=%s: no replacement", spec.Key, spec.Value)
		}
		d.deprecated[spec.Key+"="+spec.Value] = Deprecation{
			Key:         spec.Key,
			Value:       spec.Value,
			Replacement: tags.FromMap(spec.Replacement).Tags(),
		}
	}

	for _, g := range file.Groups {
		if g.ID == "" || len(g.Keys) == 0 {
			return nil, fmt.Errorf("group %q: id and keys are required", g.ID)
		}
		for _, key := range g.Keys {
			if prev, ok := d.groupOf[key]; ok && prev != g.ID {
				return nil, fmt.Errorf("key %q in groups %q and %q", key, prev, g.ID)
			}
			d.groupOf[key] = g.ID
		}
	}

	for _, combo := range file.AllowedCombinations {
		if len(combo) < 2 {
			return nil, fmt.Errorf("allowed combination %v: need at least two groups", combo)
		}
		d.combos[comboKey(combo)] = true
	}

	for _, spec := range file.Recommended {
		if spec.Key == "" {
			return nil, fmt.Errorf("recommended entry with empty key")
		}
		for _, g := range spec.Suggest {
			if g.Key == "" {
				return nil, fmt.Errorf("recommended %s=%s: suggestion with empty key", spec.Key, spec.Value)
			}
			if g.Confidence <= 0 || g.Confidence > 1 {
				return nil, fmt.Errorf("recommended %s=%s: confidence %v outside (0,1]", spec.Key, spec.Value, g.Confidence)
			}
		}
		k := spec.Key + "=" + spec.Value
		d.recommended[k] = append(d.recommended[k], spec.Suggest...)
	}

	for _, doc := range file.Descriptions {
		if doc.Key == "" {
			return nil, fmt.Errorf("description with empty key")
		}
		d.descriptions[doc.Key] = doc
	}

	return d, nil
}

func comboKey(groups []string) string {
	sorted := make([]string, len(groups))
	copy(sorted, groups)
	sort.Strings(sorted)
	return strings.Join(sorted, "+")
}

// Normalize applies the dictionary's normalizer to a phrase.
func (d *Dictionary) Normalize(s string) string {
	return GetNormalizer(d.Manifest.Format.Normalize)(s)
}

// Rules returns all rules, longest phrase first. The slice must not be
// modified.
func (d *Dictionary) Rules() []Rule {
	return d.rules
}

// LookupPhrase returns the rules whose phrase exactly matches the normalized
// fragment.
func (d *Dictionary) LookupPhrase(fragment string) []Rule {
	return d.byPhrase[d.Normalize(fragment)]
}

// IsDeprecated reports whether key=value is superseded and by what. A
// deprecation registered with an empty value covers every value of the key.
func (d *Dictionary) IsDeprecated(key, value string) (Deprecation, bool) {
	if dep, ok := d.deprecated[key+"="+value]; ok {
		return dep, true
	}
	dep, ok := d.deprecated[key+"="]
	return dep, ok
}

// PrimaryGroupOf returns the primary-feature group of a key, if the key is a
// primary classifier.
func (d *Dictionary) PrimaryGroupOf(key string) (string, bool) {
	g, ok := d.groupOf[key]
	return g, ok
}

// AllowedCombination reports whether a set of distinct primary groups is
// explicitly whitelisted (e.g. a building containing a shop).
func (d *Dictionary) AllowedCombination(groups []string) bool {
	if len(groups) < 2 {
		return true
	}
	return d.combos[comboKey(groups)]
}

// RecommendedFor returns co-tag recommendations for a tag set, deduplicated
// by suggested key (highest confidence wins) and sorted by confidence
// descending, key ascending. Keys already present are not filtered here;
// that is the suggester's job.
func (d *Dictionary) RecommendedFor(set *tags.Set) []Recommendation {
	best := make(map[string]Recommendation)

	consider := func(guides []CoTagGuide) {
		for _, g := range guides {
			rec := Recommendation{
				Key:        g.Key,
				Value:      g.Value,
				Confidence: g.Confidence,
				Reason:     g.Reason,
				Required:   g.Required,
			}
			if prev, ok := best[g.Key]; !ok || rec.Confidence > prev.Confidence {
				best[g.Key] = rec
			}
		}
	}

	for _, t := range set.Tags() {
		consider(d.recommended[t.Key+"="+t.Value])
		consider(d.recommended[t.Key+"="])
	}
	if set.Len() > 0 {
		consider(d.recommended["*="])
	}

	out := make([]Recommendation, 0, len(best))
	for _, rec := range best {
		out = append(out, rec)
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Confidence != out[j].Confidence {
			return out[i].Confidence > out[j].Confidence
		}
		return out[i].Key < out[j].Key
	})
	return out
}

// RequiredFor returns the required co-tags for a tag set (the subset of
// recommendations flagged required).
func (d *Dictionary) RequiredFor(set *tags.Set) []Recommendation {
	var out []Recommendation
	for _, rec := range d.RecommendedFor(set) {
		if rec.Required {
			out = append(out, rec)
		}
	}
	return out
}

// Describe returns the documentation for a tag key.
func (d *Dictionary) Describe(key string) (KeyDoc, bool) {
	doc, ok := d.descriptions[key]
	return doc, ok
}

// DescribeValue returns the documentation string for key=value, falling back
// to the key description.
func (d *Dictionary) DescribeValue(key, value string) string {
	doc, ok := d.descriptions[key]
	if !ok {
		return ""
	}
	for _, v := range doc.Values {
		if v.Value == value {
			return v.Description
		}
	}
	return doc.Description
}

// KnownValues returns the documented values of a key.
func (d *Dictionary) KnownValues(key string) []string {
	doc, ok := d.descriptions[key]
	if !ok {
		return nil
	}
	out := make([]string, 0, len(doc.Values))
	for _, v := range doc.Values {
		out = append(out, v.Value)
	}
	return out
}

// RuleCount returns the number of phrase rules.
func (d *Dictionary) RuleCount() int { return len(d.rules) }

// DeprecationCount returns the number of deprecation entries.
func (d *Dictionary) DeprecationCount() int { return len(d.deprecated) }
