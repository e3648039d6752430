package services

import (
	"fmt"

	"github.com/custodia-labs/scidata/internal/core/domain"
	"github.com/custodia-labs/scidata/internal/core/ports/driven"
	"github.com/custodia-labs/scidata/internal/core/ports/driving"
)

// Ensure AdapterRegistry implements the interfaces.
var (
	_ driven.AdapterRegistry  = (*AdapterRegistry)(nil)
	_ driving.SourceCatalogue = (*AdapterRegistry)(nil)
)

// AdapterRegistry holds the source adapters available to the application.
type AdapterRegistry struct {
	adapters map[domain.SourceName]driven.SourceAdapter
	order    []domain.SourceName
}

// NewAdapterRegistry creates a registry holding the given adapters.
// A later adapter for the same source replaces an earlier one.
func NewAdapterRegistry(adapters ...driven.SourceAdapter) *AdapterRegistry {
	r := &AdapterRegistry{
		adapters: make(map[domain.SourceName]driven.SourceAdapter),
	}
	for _, a := range adapters {
		r.Register(a)
	}
	return r
}

// Register adds or replaces the adapter for its source.
func (r *AdapterRegistry) Register(a driven.SourceAdapter) {
	name := a.Name()
	if _, exists := r.adapters[name]; !exists {
		r.order = append(r.order, name)
	}
	r.adapters[name] = a
}

// Get returns the adapter for a source.
func (r *AdapterRegistry) Get(name domain.SourceName) (driven.SourceAdapter, error) {
	a, ok := r.adapters[name]
	if !ok {
		return nil, fmt.Errorf("%w: no adapter for source %q", domain.ErrUnsupportedType, name)
	}
	return a, nil
}

// Names returns all registered sources in registration order.
func (r *AdapterRegistry) Names() []domain.SourceName {
	out := make([]domain.SourceName, len(r.order))
	copy(out, r.order)
	return out
}

// List returns catalogue entries for every registered source.
func (r *AdapterRegistry) List() []domain.SourceInfo {
	infos := make([]domain.SourceInfo, 0, len(r.order))
	for _, name := range r.order {
		if info, ok := name.Info(); ok {
			infos = append(infos, info)
		}
	}
	return infos
}

// Info returns the catalogue entry for a registered source.
func (r *AdapterRegistry) Info(name domain.SourceName) (domain.SourceInfo, error) {
	if _, ok := r.adapters[name]; !ok {
		return domain.SourceInfo{}, fmt.Errorf("%w: source %q", domain.ErrNotFound, name)
	}
	info, ok := name.Info()
	if !ok {
		return domain.SourceInfo{}, fmt.Errorf("%w: source %q", domain.ErrNotFound, name)
	}
	return info, nil
}
