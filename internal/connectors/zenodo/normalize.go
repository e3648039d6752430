package zenodo

import (
	"fmt"

	"github.com/custodia-labs/scidata/internal/core/domain"
)

// Normalize converts a Record into a Dataset.
func (a *Adapter) Normalize(raw domain.RawRecord) (domain.Dataset, error) {
	var rec Record
	switch v := raw.(type) {
	case Record:
		rec = v
	case *Record:
		if v != nil {
			rec = *v
		}
	default:
		return domain.Dataset{}, &domain.NormalizationError{
			Source: domain.SourceZenodo,
			Reason: fmt.Sprintf("unexpected record type %T", raw),
		}
	}

	id := string(rec.ID)
	if id == "" {
		return domain.Dataset{}, &domain.NormalizationError{
			Source: domain.SourceZenodo,
			Reason: "missing identifier",
		}
	}

	meta := rec.Metadata
	if meta == nil {
		meta = &Metadata{}
	}

	d := domain.Dataset{
		Source:      domain.SourceZenodo,
		ID:          id,
		Name:        id,
		Description: meta.Description,
		Created:     rec.Created,
		Modified:    rec.Updated,
		PublishDate: meta.PublicationDate,
		License:     string(meta.License),
		DOI:         firstNonEmpty(rec.DOI, meta.DOI),
		URL:         RecordURLPrefix + id,
	}
	if meta.Title != nil && *meta.Title != "" {
		d.Name = *meta.Title
	}
	if rec.Links != nil && rec.Links.HTML != "" {
		d.URL = rec.Links.HTML
	}
	if rec.Stats != nil {
		d.Views = int(rec.Stats.Views)
		d.Downloads = int(rec.Stats.Downloads)
	}

	var totalSize float64
	for _, f := range rec.Files {
		totalSize += f.Size
	}
	d.SizeGB = domain.BytesToGB(totalSize, 3)

	authors := make([]string, 0, len(meta.Creators))
	for _, c := range meta.Creators {
		authors = append(authors, c.Name)
	}
	keywords := make([]string, 0, len(meta.Keywords)+len(meta.Subjects))
	keywords = append(keywords, meta.Keywords...)
	for _, s := range meta.Subjects {
		keywords = append(keywords, s.Term)
	}

	d.SetExtra("version", domain.Deref(meta.Version))
	d.SetExtra("authors", authors)
	d.SetExtra("keywords", keywords)
	if meta.ResourceType != nil {
		d.SetExtra("dataset_type", meta.ResourceType.Type)
		d.SetExtra("dataset_subtype", meta.ResourceType.Subtype)
	}
	d.SetExtra("n_files", len(rec.Files))
	d.SetExtra("size_bytes", int64(totalSize))
	return d, nil
}

func firstNonEmpty(candidates ...*string) string {
	for _, s := range candidates {
		if s != nil && *s != "" {
			return *s
		}
	}
	return ""
}
