package domain

import "strings"

// FilterCriteria are independent, AND-combined predicates over datasets.
// Zero values disable a predicate; bounds are pointers so that 0 is a valid bound.
type FilterCriteria struct {
	// Modality matches any element of Modalities or PrimaryModality, case-insensitively.
	Modality string `json:"modality,omitempty"`

	// MinSubjects and MaxSubjects are inclusive bounds on NSubjects.
	MinSubjects *int `json:"min_subjects,omitempty"`
	MaxSubjects *int `json:"max_subjects,omitempty"`

	// TaskContains is a case-insensitive substring of any task.
	TaskContains string `json:"task_contains,omitempty"`

	// TextQuery is a case-insensitive substring of the name or readme.
	TextQuery string `json:"text_query,omitempty"`

	// MinDownloads is an inclusive bound on Downloads.
	MinDownloads *int `json:"min_downloads,omitempty"`

	// HasReadme keeps only records with a non-empty readme.
	HasReadme bool `json:"has_readme,omitempty"`
}

// IsEmpty reports whether no predicate is set.
func (c FilterCriteria) IsEmpty() bool {
	return c.Modality == "" && c.MinSubjects == nil && c.MaxSubjects == nil &&
		c.TaskContains == "" && c.TextQuery == "" && c.MinDownloads == nil && !c.HasReadme
}

// Match reports whether d satisfies every set predicate.
func (c FilterCriteria) Match(d *Dataset) bool {
	if c.Modality != "" && !matchModality(d, c.Modality) {
		return false
	}
	if c.MinSubjects != nil && d.NSubjects < *c.MinSubjects {
		return false
	}
	if c.MaxSubjects != nil && d.NSubjects > *c.MaxSubjects {
		return false
	}
	if c.TaskContains != "" && !matchTask(d, c.TaskContains) {
		return false
	}
	if c.TextQuery != "" && !matchText(d, c.TextQuery) {
		return false
	}
	if c.MinDownloads != nil && d.Downloads < *c.MinDownloads {
		return false
	}
	if c.HasReadme && !d.HasReadme() {
		return false
	}
	return true
}

// FilterDatasets returns the records matching c, preserving input order.
func FilterDatasets(records []Dataset, c FilterCriteria) []Dataset {
	out := make([]Dataset, 0, len(records))
	for i := range records {
		if c.Match(&records[i]) {
			out = append(out, records[i])
		}
	}
	return out
}

func matchModality(d *Dataset, modality string) bool {
	for _, m := range d.Modalities {
		if strings.EqualFold(m, modality) {
			return true
		}
	}
	return strings.EqualFold(Deref(d.PrimaryModality), modality)
}

func matchTask(d *Dataset, task string) bool {
	needle := strings.ToLower(task)
	for _, t := range d.Tasks {
		if strings.Contains(strings.ToLower(t), needle) {
			return true
		}
	}
	return false
}

func matchText(d *Dataset, query string) bool {
	needle := strings.ToLower(query)
	return strings.Contains(strings.ToLower(d.Name), needle) ||
		strings.Contains(strings.ToLower(Deref(d.Readme)), needle)
}

// IntPtr returns a pointer to v.
func IntPtr(v int) *int {
	return &v
}
