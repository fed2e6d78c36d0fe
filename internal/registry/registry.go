// Package registry lists the board variants a player can choose from.
// Variants register themselves in init() functions, so the CLI and the
// menus discover them without a hardcoded list.
package registry

import (
	"errors"
	"fmt"
	"sort"
	"sync"
)

// ErrUnknownVariant is returned for an ID nobody registered.
var ErrUnknownVariant = errors.New("unknown variant")

// Variant describes one board layout.
type Variant struct {
	ID          string
	Title       string
	Description string

	// Width and Height of the board. Zero means the configured size.
	Width  int
	Height int
}

var (
	variants = make(map[string]Variant)
	mu       sync.RWMutex
)

// Register adds a variant to the registry.
// Panics if a variant with the same ID is already registered.
func Register(v Variant) {
	mu.Lock()
	defer mu.Unlock()

	if _, exists := variants[v.ID]; exists {
		panic(fmt.Sprintf("registry: variant %q already registered", v.ID))
	}
	variants[v.ID] = v
}

// List returns all registered variants, sorted by ID.
func List() []Variant {
	mu.RLock()
	defer mu.RUnlock()

	result := make([]Variant, 0, len(variants))
	for _, v := range variants {
		result = append(result, v)
	}

	sort.Slice(result, func(i, j int) bool {
		return result[i].ID < result[j].ID
	})

	return result
}

// Get returns the variant registered under id.
func Get(id string) (Variant, error) {
	mu.RLock()
	defer mu.RUnlock()

	v, ok := variants[id]
	if !ok {
		return Variant{}, fmt.Errorf("registry: %w %q", ErrUnknownVariant, id)
	}
	return v, nil
}

// Exists checks if a variant with the given ID is registered.
func Exists(id string) bool {
	mu.RLock()
	defer mu.RUnlock()

	_, ok := variants[id]
	return ok
}
