package physionet

import (
	"bytes"
	"encoding/json"

	"github.com/custodia-labs/scidata/internal/core/domain"
)

// Database is one raw entry of the database listing.
type Database struct {
	Slug         *string  `json:"slug"`
	ShortName    *string  `json:"short_name"`
	Title        *string  `json:"title"`
	Name         *string  `json:"name"`
	Version      *string  `json:"version"`
	Abstract     *string  `json:"abstract"`
	Description  *string  `json:"description"`
	DOI          *string  `json:"doi"`
	License      License  `json:"license"`
	SubjectCount *int     `json:"subject_count"`
	RecordCount  *int     `json:"record_count"`
	TotalSize    *float64 `json:"total_size"`
	PublishDate  *string  `json:"publish_date"`
	DataAccess   any      `json:"data_access"`
}

// RawSource implements domain.RawRecord.
func (Database) RawSource() domain.SourceName {
	return domain.SourcePhysioNet
}

// License accepts either {"name": "..."} or a bare string.
type License struct {
	Name string
}

// UnmarshalJSON implements json.Unmarshaler.
func (l *License) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		return nil
	}
	if data[0] == '{' {
		var obj struct {
			Name *string `json:"name"`
		}
		if err := json.Unmarshal(data, &obj); err != nil {
			return err
		}
		l.Name = domain.Deref(obj.Name)
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	l.Name = s
	return nil
}

// envelope is the paginated response shape.
type envelope struct {
	Results   []Database `json:"results"`
	Databases []Database `json:"databases"`
	Next      *string    `json:"next"`
}

// decodeListing accepts both the bare array and the envelope shapes and
// reports whether another page follows.
func decodeListing(data []byte) ([]Database, bool, error) {
	data = bytes.TrimSpace(data)
	if len(data) > 0 && data[0] == '[' {
		var list []Database
		if err := json.Unmarshal(data, &list); err != nil {
			return nil, false, err
		}
		return list, false, nil
	}

	var env envelope
	if err := json.Unmarshal(data, &env); err != nil {
		return nil, false, err
	}
	list := env.Results
	if list == nil {
		list = env.Databases
	}
	return list, env.Next != nil && *env.Next != "", nil
}
