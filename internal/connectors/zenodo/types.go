package zenodo

import (
	"bytes"
	"encoding/json"
	"strconv"

	"github.com/custodia-labs/scidata/internal/core/domain"
)

// Record is one raw search hit.
type Record struct {
	ID       FlexString `json:"id"`
	DOI      *string    `json:"doi"`
	Created  *string    `json:"created"`
	Updated  *string    `json:"updated"`
	Metadata *Metadata  `json:"metadata"`
	Stats    *Stats     `json:"stats"`
	Files    []File     `json:"files"`
	Links    *Links     `json:"links"`
}

// RawSource implements domain.RawRecord.
func (Record) RawSource() domain.SourceName {
	return domain.SourceZenodo
}

// Metadata is the descriptive part of a record.
type Metadata struct {
	Title           *string       `json:"title"`
	DOI             *string       `json:"doi"`
	Description     *string       `json:"description"`
	PublicationDate *string       `json:"publication_date"`
	Version         *string       `json:"version"`
	Creators        []Creator     `json:"creators"`
	Keywords        []string      `json:"keywords"`
	Subjects        []Subject     `json:"subjects"`
	License         IDOrString    `json:"license"`
	ResourceType    *ResourceType `json:"resource_type"`
}

// Creator is one record author.
type Creator struct {
	Name string `json:"name"`
}

// Subject is a controlled-vocabulary subject term.
type Subject struct {
	Term string `json:"term"`
}

// ResourceType is the Zenodo resource classification.
type ResourceType struct {
	Type    string `json:"type"`
	Subtype string `json:"subtype"`
}

// UnmarshalJSON accepts both the object form and a bare string.
func (r *ResourceType) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) > 0 && data[0] == '"' {
		return json.Unmarshal(data, &r.Type)
	}
	type plain ResourceType
	return json.Unmarshal(data, (*plain)(r))
}

// Stats holds usage counters.
type Stats struct {
	Views     float64 `json:"views"`
	Downloads float64 `json:"downloads"`
}

// File is one uploaded file.
type File struct {
	Key  string  `json:"key"`
	Size float64 `json:"size"`
}

// Links holds the record's related URLs.
type Links struct {
	HTML string `json:"html"`
}

// FlexString decodes a JSON string or number as a string.
type FlexString string

// UnmarshalJSON implements json.Unmarshaler.
func (s *FlexString) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		return nil
	}
	if len(data) > 0 && data[0] == '"' {
		var v string
		if err := json.Unmarshal(data, &v); err != nil {
			return err
		}
		*s = FlexString(v)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return err
	}
	*s = FlexString(n.String())
	return nil
}

// IDOrString decodes {"id": "..."} or a bare string.
type IDOrString string

// UnmarshalJSON implements json.Unmarshaler.
func (s *IDOrString) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		return nil
	}
	if data[0] == '{' {
		var obj struct {
			ID string `json:"id"`
		}
		if err := json.Unmarshal(data, &obj); err != nil {
			return err
		}
		*s = IDOrString(obj.ID)
		return nil
	}
	var v string
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	*s = IDOrString(v)
	return nil
}

// hitTotal decodes `hits.total` as a number or as {"value": n}.
type hitTotal int

// UnmarshalJSON implements json.Unmarshaler.
func (t *hitTotal) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) > 0 && data[0] == '{' {
		var obj struct {
			Value int `json:"value"`
		}
		if err := json.Unmarshal(data, &obj); err != nil {
			return err
		}
		*t = hitTotal(obj.Value)
		return nil
	}
	if bytes.Equal(data, []byte("null")) {
		return nil
	}
	n, err := strconv.Atoi(string(data))
	if err != nil {
		return err
	}
	*t = hitTotal(n)
	return nil
}

type searchResponse struct {
	Hits struct {
		Hits  []Record `json:"hits"`
		Total hitTotal `json:"total"`
	} `json:"hits"`
}
