package importer

import (
	"context"
	"fmt"
	"sort"
	"sync"
)

// Adapter turns one remote data source into a loadable dictionary
// directory. Implementations register themselves from init.
type Adapter interface {
	// ID identifies the adapter on the command line and in the source DB.
	ID() string
	// DictID names the dictionary directory the adapter writes.
	DictID() string
	// Description is shown when listing sources.
	Description() string
	// DefaultURL seeds the source DB; operators may override it there.
	DefaultURL() string
	// License is the upstream data license (e.g. "ODbL", "ISC").
	License() string
	// Import fetches sourceURL, transforms it and writes the dictionary
	// under outputDir/DictID(). It reports how many entries were written.
	Import(ctx context.Context, sourceURL, outputDir string) (int, error)
}

var (
	registryMu sync.RWMutex
	adapters   = make(map[string]Adapter)
)

// Register adds an adapter. Duplicate IDs are a programming error.
func Register(a Adapter) {
	registryMu.Lock()
	defer registryMu.Unlock()
	if _, dup := adapters[a.ID()]; dup {
		panic("importer: duplicate adapter " + a.ID())
	}
	adapters[a.ID()] = a
}

// Get returns the adapter with the given ID.
func Get(id string) (Adapter, error) {
	registryMu.RLock()
	defer registryMu.RUnlock()
	a, ok := adapters[id]
	if !ok {
		return nil, fmt.Errorf("unknown import source: %q", id)
	}
	return a, nil
}

// All returns every registered adapter, sorted by ID.
func All() []Adapter {
	registryMu.RLock()
	defer registryMu.RUnlock()
	result := make([]Adapter, 0, len(adapters))
	for _, a := range adapters {
		result = append(result, a)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].ID() < result[j].ID() })
	return result
}
