package dandi

import (
	"fmt"

	"github.com/custodia-labs/scidata/internal/core/domain"
)

// Normalize converts a Dandiset into a Dataset.
func (a *Adapter) Normalize(raw domain.RawRecord) (domain.Dataset, error) {
	var ds Dandiset
	switch v := raw.(type) {
	case Dandiset:
		ds = v
	case *Dandiset:
		if v != nil {
			ds = *v
		}
	default:
		return domain.Dataset{}, &domain.NormalizationError{
			Source: domain.SourceDANDI,
			Reason: fmt.Sprintf("unexpected record type %T", raw),
		}
	}
	if ds.Identifier == "" {
		return domain.Dataset{}, &domain.NormalizationError{
			Source: domain.SourceDANDI,
			Reason: "missing identifier",
		}
	}

	draft := ds.DraftVersion
	if draft == nil {
		draft = &DraftVersion{}
	}

	d := domain.Dataset{
		Source:   domain.SourceDANDI,
		ID:       ds.Identifier,
		Name:     ds.Identifier,
		Created:  ds.Created,
		Modified: ds.Modified,
		URL:      DandisetURLPrefix + ds.Identifier,
	}
	if draft.Name != nil && *draft.Name != "" {
		d.Name = *draft.Name
	}

	var sizeBytes float64
	if draft.Size != nil {
		sizeBytes = *draft.Size
	}
	d.SizeGB = domain.BytesToGB(sizeBytes, 2)

	if draft.Version != nil {
		d.SetExtra("version", *draft.Version)
	}
	if draft.Status != nil {
		d.SetExtra("status", *draft.Status)
	}
	d.SetExtra("contact", domain.Deref(ds.ContactPerson))
	n := 0
	if draft.AssetCount != nil {
		n = *draft.AssetCount
	}
	d.SetExtra("n_assets", n)
	d.SetExtra("size_bytes", int64(sizeBytes))
	if ds.EmbargoStatus != nil {
		d.SetExtra("embargo_status", *ds.EmbargoStatus)
	}
	return d, nil
}
