package domain

import (
	"math"
	"time"
)

// DefaultSearchLimit is the page size used when SearchOptions.Limit is unset.
const DefaultSearchLimit = 50

// DefaultOrderBy is the ranking field used for unrecognised order_by values.
const DefaultOrderBy = "downloads"

// orderByAllowList is the set of columns the index may rank by.
var orderByAllowList = []string{"downloads", "views", "n_subjects", "size_gb", "name", "created"}

// OrderByFields returns the ranking fields accepted by the index.
func OrderByFields() []string {
	out := make([]string, len(orderByAllowList))
	copy(out, orderByAllowList)
	return out
}

// NormalizeOrderBy returns s when it is an allowed ranking field and
// DefaultOrderBy otherwise.
func NormalizeOrderBy(s string) string {
	for _, f := range orderByAllowList {
		if s == f {
			return s
		}
	}
	return DefaultOrderBy
}

// SearchOptions configures a query against the local index.
type SearchOptions struct {
	// Query is a full-text query over name, readme/abstract and tasks.
	// Empty imposes no text restriction.
	Query string `json:"query,omitempty"`

	// Source restricts results to one repository.
	Source SourceName `json:"source,omitempty"`

	Modality     string `json:"modality,omitempty"`
	MinSubjects  *int   `json:"min_subjects,omitempty"`
	MaxSubjects  *int   `json:"max_subjects,omitempty"`
	MinDownloads *int   `json:"min_downloads,omitempty"`
	HasReadme    bool   `json:"has_readme,omitempty"`

	// Limit is the maximum number of results (default 50).
	Limit int `json:"limit,omitempty"`

	// Offset is the number of results to skip.
	Offset int `json:"offset,omitempty"`

	// OrderBy is one of OrderByFields; results are ranked descending.
	OrderBy string `json:"order_by,omitempty"`
}

// WithDefaults fills unset paging and ordering fields.
func (o SearchOptions) WithDefaults() SearchOptions {
	if o.Limit <= 0 {
		o.Limit = DefaultSearchLimit
	}
	if o.Offset < 0 {
		o.Offset = 0
	}
	o.OrderBy = NormalizeOrderBy(o.OrderBy)
	return o
}

// BuildMetadata records the outcome of the latest index build pass.
type BuildMetadata struct {
	LastBuild     time.Time
	TotalDatasets int
	BuildID       string
}

// IndexStats describes the local index. When Exists is false no other
// field is populated.
type IndexStats struct {
	Exists        bool               `json:"exists"`
	Path          string             `json:"path,omitempty"`
	TotalDatasets int                `json:"total_datasets,omitempty"`
	BySource      map[SourceName]int `json:"by_source,omitempty"`
	LastBuild     string             `json:"last_build,omitempty"`
	LastBuildID   string             `json:"last_build_id,omitempty"`
	SizeOnDisk    int64              `json:"size_on_disk,omitempty"`
}

// SizeMB returns SizeOnDisk in megabytes rounded to two digits.
func (s *IndexStats) SizeMB() float64 {
	return math.Round(float64(s.SizeOnDisk)/(1024*1024)*100) / 100
}
