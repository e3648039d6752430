package domain

import (
	"fmt"
	"sort"
	"strings"
)

// SortField names a Dataset field usable as a sort key.
type SortField string

// Sortable fields.
const (
	SortDownloads   SortField = "downloads"
	SortViews       SortField = "views"
	SortNSubjects   SortField = "n_subjects"
	SortSizeGB      SortField = "size_gb"
	SortName        SortField = "name"
	SortCreated     SortField = "created"
	SortModified    SortField = "modified"
	SortPublishDate SortField = "publish_date"
)

// DefaultSortField is used when no field is given.
const DefaultSortField = SortDownloads

// SortFields returns every sortable field.
func SortFields() []SortField {
	return []SortField{
		SortDownloads, SortViews, SortNSubjects, SortSizeGB,
		SortName, SortCreated, SortModified, SortPublishDate,
	}
}

// ParseSortField validates a user-supplied sort field. Empty means the default.
func ParseSortField(s string) (SortField, error) {
	if s == "" {
		return DefaultSortField, nil
	}
	f := SortField(strings.ToLower(s))
	for _, known := range SortFields() {
		if f == known {
			return f, nil
		}
	}
	return "", fmt.Errorf("%w: sort field %q", ErrUnsupportedType, s)
}

// sortKey is either numeric or textual; ok=false marks a missing value.
type sortKey struct {
	num  float64
	text string
	ok   bool
}

func keyFor(d *Dataset, field SortField) sortKey {
	switch field {
	case SortDownloads:
		return sortKey{num: float64(d.Downloads), ok: true}
	case SortViews:
		return sortKey{num: float64(d.Views), ok: true}
	case SortNSubjects:
		return sortKey{num: float64(d.NSubjects), ok: true}
	case SortSizeGB:
		return sortKey{num: d.SizeGB, ok: true}
	case SortName:
		return sortKey{text: d.Name, ok: d.Name != ""}
	case SortCreated:
		return textKey(d.Created)
	case SortModified:
		return textKey(d.Modified)
	case SortPublishDate:
		return textKey(d.PublishDate)
	default:
		return sortKey{}
	}
}

func textKey(s *string) sortKey {
	if s == nil || *s == "" {
		return sortKey{}
	}
	return sortKey{text: *s, ok: true}
}

func (k sortKey) less(o sortKey) bool {
	if k.text != "" || o.text != "" {
		return k.text < o.text
	}
	return k.num < o.num
}

// SortDatasets returns a stably sorted copy of records. Records missing the
// field always sort last, in either direction, and keep their relative order.
func SortDatasets(records []Dataset, field SortField, descending bool) []Dataset {
	present := make([]Dataset, 0, len(records))
	var missing []Dataset
	keys := make(map[int]sortKey, len(records))

	for i := range records {
		k := keyFor(&records[i], field)
		if !k.ok {
			missing = append(missing, records[i])
			continue
		}
		keys[len(present)] = k
		present = append(present, records[i])
	}

	idx := make([]int, len(present))
	for i := range idx {
		idx[i] = i
	}
	sort.SliceStable(idx, func(a, b int) bool {
		ka, kb := keys[idx[a]], keys[idx[b]]
		if descending {
			return kb.less(ka)
		}
		return ka.less(kb)
	})

	out := make([]Dataset, 0, len(records))
	for _, i := range idx {
		out = append(out, present[i])
	}
	return append(out, missing...)
}

// SortOptions controls ordering and truncation of an in-memory result.
type SortOptions struct {
	Field      SortField
	Descending bool

	// Limit truncates after sorting. Zero means no limit.
	Limit int
}
