package tagdict

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"sync"
)

// DictInfo is the public metadata for one loaded dictionary source.
type DictInfo struct {
	ID           string `json:"id"`
	Version      string `json:"version"`
	Source       string `json:"source"`
	SourceURL    string `json:"source_url,omitempty"`
	License      string `json:"license"`
	Rules        int    `json:"rules"`
	Deprecations int    `json:"deprecations"`
}

// Registry loads dictionary directories and serves the merged, compiled
// Dictionary. Reloads build a fresh Dictionary and swap it in whole; the
// served structure is never mutated in place.
type Registry struct {
	mu       sync.RWMutex
	dictsDir string
	current  *Dictionary
	sources  []DictInfo
}

// NewRegistry creates a registry for the given directory. An empty dictsDir
// means the built-in dictionary only.
func NewRegistry(dictsDir string) *Registry {
	return &Registry{dictsDir: dictsDir}
}

// Load scans the dicts directory, merges every dictionary found, compiles,
// and swaps the result in. With no directory (or an empty one) the built-in
// dictionary is served.
func (r *Registry) Load() error {
	dict, sources, err := r.build()
	if err != nil {
		return err
	}

	r.mu.Lock()
	r.current = dict
	r.sources = sources
	r.mu.Unlock()
	return nil
}

// Reload rebuilds the dictionary from disk (hot reload). The previous
// dictionary keeps serving until the swap.
func (r *Registry) Reload() error {
	return r.Load()
}

func (r *Registry) build() (*Dictionary, []DictInfo, error) {
	if r.dictsDir == "" {
		d := Builtin()
		return d, []DictInfo{infoFor(d.Manifest, d)}, nil
	}

	entries, err := os.ReadDir(r.dictsDir)
	if err != nil {
		if os.IsNotExist(err) {
			d := Builtin()
			return d, []DictInfo{infoFor(d.Manifest, d)}, nil
		}
		return nil, nil, fmt.Errorf("read dicts dir %s: %w", r.dictsDir, err)
	}

	var names []string
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		dir := filepath.Join(r.dictsDir, entry.Name())
		if _, err := os.Stat(filepath.Join(dir, "manifest.yaml")); err != nil {
			continue
		}
		names = append(names, entry.Name())
	}
	if len(names) == 0 {
		d := Builtin()
		return d, []DictInfo{infoFor(d.Manifest, d)}, nil
	}
	sort.Strings(names)

	// Merge all sources into one compiled dictionary. The first manifest
	// (sorted by directory name) sets the normalization mode.
	var merged File
	var manifests []*Manifest
	perSource := make([]*File, 0, len(names))
	for _, name := range names {
		dir := filepath.Join(r.dictsDir, name)
		manifest, err := LoadManifest(filepath.Join(dir, "manifest.yaml"))
		if err != nil {
			return nil, nil, fmt.Errorf("load dictionary %s: %w", name, err)
		}

		var file File
		gobPath := filepath.Join(dir, "data.gob")
		if _, err := os.Stat(gobPath); err == nil {
			if err := loadGob(gobPath, &file); err != nil {
				return nil, nil, fmt.Errorf("load dictionary %s: %w", name, err)
			}
		} else if err := loadYAML(dir, &file); err != nil {
			return nil, nil, fmt.Errorf("load dictionary %s: %w", name, err)
		}

		manifests = append(manifests, manifest)
		perSource = append(perSource, &file)
		merged.merge(&file)
	}

	dict, err := Compile(manifests[0], &merged)
	if err != nil {
		return nil, nil, fmt.Errorf("compile merged dictionary: %w", err)
	}

	sources := make([]DictInfo, 0, len(manifests))
	for i, m := range manifests {
		sources = append(sources, DictInfo{
			ID:           m.ID,
			Version:      m.Version,
			Source:       m.Source,
			SourceURL:    m.SourceURL,
			License:      m.License,
			Rules:        len(perSource[i].Rules),
			Deprecations: len(perSource[i].Deprecations),
		})
	}
	return dict, sources, nil
}

func infoFor(m *Manifest, d *Dictionary) DictInfo {
	return DictInfo{
		ID:           m.ID,
		Version:      m.Version,
		Source:       m.Source,
		SourceURL:    m.SourceURL,
		License:      m.License,
		Rules:        d.RuleCount(),
		Deprecations: d.DeprecationCount(),
	}
}

// Current returns the served dictionary. Load must have succeeded first.
func (r *Registry) Current() *Dictionary {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.current
}

// Sources returns metadata for the loaded dictionary sources, sorted by ID.
func (r *Registry) Sources() []DictInfo {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]DictInfo, len(r.sources))
	copy(out, r.sources)
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// RuleCount returns the number of phrase rules in the served dictionary.
func (r *Registry) RuleCount() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if r.current == nil {
		return 0
	}
	return r.current.RuleCount()
}
