package dandi

import "github.com/custodia-labs/scidata/internal/core/domain"

// Dandiset is one raw entry of the /dandisets/ listing.
type Dandiset struct {
	Identifier    string        `json:"identifier"`
	Created       *string       `json:"created"`
	Modified      *string       `json:"modified"`
	ContactPerson *string       `json:"contact_person"`
	EmbargoStatus *string       `json:"embargo_status"`
	DraftVersion  *DraftVersion `json:"draft_version"`
}

// RawSource implements domain.RawRecord.
func (Dandiset) RawSource() domain.SourceName {
	return domain.SourceDANDI
}

// DraftVersion summarises one version of a dandiset.
type DraftVersion struct {
	Version    *string  `json:"version"`
	Name       *string  `json:"name"`
	AssetCount *int     `json:"asset_count"`
	Size       *float64 `json:"size"`
	Status     *string  `json:"status"`
	Created    *string  `json:"created"`
	Modified   *string  `json:"modified"`
}

type listResponse struct {
	Count   int        `json:"count"`
	Next    *string    `json:"next"`
	Results []Dandiset `json:"results"`
}
