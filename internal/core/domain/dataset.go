package domain

import (
	"encoding/json"
	"math"
)

// Dataset is the normalised dataset record every source adapter produces.
// Nullable text fields are pointers so that JSON output keeps null distinct
// from the empty string.
type Dataset struct {
	// Source is the repository the record came from.
	Source SourceName `json:"source"`

	// ID is unique within its source.
	ID string `json:"id"`

	// Name is the human title. Falls back to ID when the source has none.
	Name string `json:"name"`

	Created     *string `json:"created"`
	Modified    *string `json:"modified"`
	PublishDate *string `json:"publish_date"`

	NSubjects int     `json:"n_subjects"`
	SizeGB    float64 `json:"size_gb"`
	Downloads int     `json:"downloads"`
	Views     int     `json:"views"`

	Readme      *string `json:"readme"`
	Abstract    *string `json:"abstract"`
	Description *string `json:"description"`

	Modalities      []string `json:"modalities"`
	PrimaryModality *string  `json:"primary_modality"`
	Tasks           []string `json:"tasks"`

	License string `json:"license"`
	DOI     string `json:"doi"`
	URL     string `json:"url"`

	// Extra holds source-specific fields. They are serialised next to the
	// fields above but callers must not depend on them.
	Extra map[string]any `json:"-"`
}

// datasetFields mirrors Dataset without its JSON methods.
type datasetFields Dataset

// contractKeys lists the JSON keys owned by Dataset itself.
var contractKeys = map[string]struct{}{
	"source": {}, "id": {}, "name": {}, "created": {}, "modified": {},
	"publish_date": {}, "n_subjects": {}, "size_gb": {}, "downloads": {},
	"views": {}, "readme": {}, "abstract": {}, "description": {},
	"modalities": {}, "primary_modality": {}, "tasks": {}, "license": {},
	"doi": {}, "url": {},
}

// Key returns the composite "source:id" key used by the local index.
func (d *Dataset) Key() string {
	return DatasetKey(d.Source, d.ID)
}

// DatasetKey builds the composite key for a source and id.
func DatasetKey(source SourceName, id string) string {
	return string(source) + ":" + id
}

// HasReadme reports whether the record carries a non-empty readme.
func (d *Dataset) HasReadme() bool {
	return d.Readme != nil && *d.Readme != ""
}

// Text returns the longest-form descriptive text the record carries:
// readme, then abstract, then description.
func (d *Dataset) Text() string {
	for _, s := range []*string{d.Readme, d.Abstract, d.Description} {
		if s != nil && *s != "" {
			return *s
		}
	}
	return ""
}

// SetExtra records a source-specific field. Nil values are dropped.
func (d *Dataset) SetExtra(key string, value any) {
	if value == nil {
		return
	}
	if d.Extra == nil {
		d.Extra = make(map[string]any)
	}
	d.Extra[key] = value
}

// MarshalJSON flattens Extra next to the contract fields.
// Contract fields win on key collisions.
func (d Dataset) MarshalJSON() ([]byte, error) {
	fields := datasetFields(d)
	if fields.Modalities == nil {
		fields.Modalities = []string{}
	}
	if fields.Tasks == nil {
		fields.Tasks = []string{}
	}

	base, err := json.Marshal(fields)
	if err != nil {
		return nil, err
	}
	if len(d.Extra) == 0 {
		return base, nil
	}

	merged := make(map[string]json.RawMessage, len(contractKeys)+len(d.Extra))
	if err := json.Unmarshal(base, &merged); err != nil {
		return nil, err
	}
	for k, v := range d.Extra {
		if _, owned := contractKeys[k]; owned {
			continue
		}
		raw, err := json.Marshal(v)
		if err != nil {
			return nil, err
		}
		merged[k] = raw
	}
	return json.Marshal(merged)
}

// UnmarshalJSON restores contract fields and collects every other key into Extra.
func (d *Dataset) UnmarshalJSON(data []byte) error {
	var fields datasetFields
	if err := json.Unmarshal(data, &fields); err != nil {
		return err
	}

	var all map[string]json.RawMessage
	if err := json.Unmarshal(data, &all); err != nil {
		return err
	}

	fields.Extra = nil
	for k, raw := range all {
		if _, owned := contractKeys[k]; owned {
			continue
		}
		var v any
		if err := json.Unmarshal(raw, &v); err != nil {
			return err
		}
		if fields.Extra == nil {
			fields.Extra = make(map[string]any)
		}
		fields.Extra[k] = v
	}

	*d = Dataset(fields)
	return nil
}

// bytesPerGB is 1024³.
const bytesPerGB = 1024 * 1024 * 1024

// BytesToGB converts a byte count to gigabytes rounded to the given number
// of decimal digits. Negative counts are treated as zero.
func BytesToGB(bytes float64, digits int) float64 {
	if bytes <= 0 {
		return 0
	}
	scale := math.Pow(10, float64(digits))
	return math.Round(bytes/bytesPerGB*scale) / scale
}

// StringPtr returns a pointer to s.
func StringPtr(s string) *string {
	return &s
}

// Deref returns the pointed-to string or "" for nil.
func Deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
