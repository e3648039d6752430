package mcp

import (
	"github.com/custodia-labs/scidata/internal/core/domain"
	"github.com/custodia-labs/scidata/internal/core/ports/driving"
)

// Ports aggregates the driving ports the MCP server calls into.
type Ports struct {
	// Fetch pages through one repository.
	Fetch driving.FetchService

	// Filter runs the in-memory search over a caller-supplied list.
	Filter driving.FilterService

	// Index backs the dataset_db_* tools. Optional.
	Index driving.IndexService

	// Sources lists registered repositories. Optional; the static
	// catalogue is used when nil.
	Sources driving.SourceCatalogue
}

// Validate ensures all required ports are set.
func (p *Ports) Validate() error {
	if p.Fetch == nil {
		return ErrMissingFetchService
	}
	if p.Filter == nil {
		return ErrMissingFilterService
	}
	return nil
}

func (p *Ports) sourceList() []domain.SourceInfo {
	if p.Sources == nil {
		return domain.Catalogue()
	}
	return p.Sources.List()
}
