package domain

import (
	"fmt"
	"strings"
)

// SourceName identifies an external dataset repository.
type SourceName string

// Supported sources.
const (
	// SourceOpenNeuro is OpenNeuro (BIDS neuroimaging, GraphQL API).
	SourceOpenNeuro SourceName = "openneuro"

	// SourceDANDI is the DANDI Archive (NWB neurophysiology).
	SourceDANDI SourceName = "dandi"

	// SourcePhysioNet is PhysioNet (physiological signal databases).
	SourcePhysioNet SourceName = "physionet"

	// SourceZenodo is Zenodo (general-purpose research archive).
	SourceZenodo SourceName = "zenodo"
)

// String returns the string representation.
func (n SourceName) String() string {
	return string(n)
}

// IsValid returns true if the source is recognised.
func (n SourceName) IsValid() bool {
	_, ok := n.Info()
	return ok
}

// Info returns the catalogue entry for the source.
func (n SourceName) Info() (SourceInfo, bool) {
	for _, info := range Catalogue() {
		if info.Name == n {
			return info, true
		}
	}
	return SourceInfo{}, false
}

// ParseSourceName validates a user-supplied source name.
func ParseSourceName(s string) (SourceName, error) {
	name := SourceName(strings.ToLower(strings.TrimSpace(s)))
	if !name.IsValid() {
		return "", fmt.Errorf("%w: source %q", ErrUnsupportedType, s)
	}
	return name, nil
}

// AllSources returns every supported source in catalogue order.
func AllSources() []SourceName {
	catalogue := Catalogue()
	names := make([]SourceName, len(catalogue))
	for i, info := range catalogue {
		names[i] = info.Name
	}
	return names
}

// SourceInfo describes a repository for listing purposes.
type SourceInfo struct {
	Name        SourceName `json:"name"`
	Title       string     `json:"title"`
	Description string     `json:"description"`
	URL         string     `json:"url"`
	Format      string     `json:"format"`
}

// Catalogue returns descriptions of all supported repositories.
func Catalogue() []SourceInfo {
	return []SourceInfo{
		{
			Name:        SourceOpenNeuro,
			Title:       "OpenNeuro",
			Description: "BIDS neuroimaging (MRI, EEG, MEG, iEEG, PET)",
			URL:         "https://openneuro.org",
			Format:      "BIDS",
		},
		{
			Name:        SourceDANDI,
			Title:       "DANDI Archive",
			Description: "NWB neurophysiology data",
			URL:         "https://dandiarchive.org",
			Format:      "NWB",
		},
		{
			Name:        SourcePhysioNet,
			Title:       "PhysioNet",
			Description: "EEG, ECG, physiological signals",
			URL:         "https://physionet.org",
			Format:      "Various",
		},
		{
			Name:        SourceZenodo,
			Title:       "Zenodo",
			Description: "General-purpose research datasets",
			URL:         "https://zenodo.org",
			Format:      "Various",
		},
	}
}
