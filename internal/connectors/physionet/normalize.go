package physionet

import (
	"fmt"

	"github.com/custodia-labs/scidata/internal/core/domain"
)

// Normalize converts a Database into a Dataset.
func (a *Adapter) Normalize(raw domain.RawRecord) (domain.Dataset, error) {
	var db Database
	switch v := raw.(type) {
	case Database:
		db = v
	case *Database:
		if v != nil {
			db = *v
		}
	default:
		return domain.Dataset{}, &domain.NormalizationError{
			Source: domain.SourcePhysioNet,
			Reason: fmt.Sprintf("unexpected record type %T", raw),
		}
	}

	slug := firstNonEmpty(db.Slug, db.ShortName)
	if slug == "" {
		return domain.Dataset{}, &domain.NormalizationError{
			Source: domain.SourcePhysioNet,
			Reason: "missing slug",
		}
	}

	d := domain.Dataset{
		Source:      domain.SourcePhysioNet,
		ID:          slug,
		Name:        firstNonEmpty(db.Title, db.Name),
		PublishDate: db.PublishDate,
		DOI:         domain.Deref(db.DOI),
		License:     db.License.Name,
		URL:         ContentURLPrefix + slug + "/",
	}
	if d.Name == "" {
		d.Name = slug
	}
	if abstract := firstNonEmpty(db.Abstract, db.Description); abstract != "" {
		d.Abstract = domain.StringPtr(abstract)
	}
	if db.SubjectCount != nil && *db.SubjectCount > 0 {
		d.NSubjects = *db.SubjectCount
	}
	if db.TotalSize != nil {
		d.SizeGB = domain.BytesToGB(*db.TotalSize, 2)
	}

	d.SetExtra("version", domain.Deref(db.Version))
	records := 0
	if db.RecordCount != nil {
		records = *db.RecordCount
	}
	d.SetExtra("n_records", records)
	d.SetExtra("data_access", db.DataAccess)
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
