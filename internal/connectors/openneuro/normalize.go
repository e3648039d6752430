package openneuro

import (
	"fmt"

	"github.com/custodia-labs/scidata/internal/core/domain"
)

// Normalize converts a Node into a Dataset.
func (a *Adapter) Normalize(raw domain.RawRecord) (domain.Dataset, error) {
	node, ok := raw.(Node)
	if !ok {
		if p, isPtr := raw.(*Node); isPtr && p != nil {
			node, ok = *p, true
		}
	}
	if !ok {
		return domain.Dataset{}, &domain.NormalizationError{
			Source: domain.SourceOpenNeuro,
			Reason: fmt.Sprintf("unexpected record type %T", raw),
		}
	}
	if node.ID == "" {
		return domain.Dataset{}, &domain.NormalizationError{
			Source: domain.SourceOpenNeuro,
			Reason: "missing identifier",
		}
	}
	return normalizeNode(node), nil
}

func normalizeNode(n Node) domain.Dataset {
	draft := n.Draft
	if draft == nil {
		draft = &Draft{}
	}
	desc := draft.Description
	if desc == nil {
		desc = &Description{}
	}
	summary := draft.Summary
	if summary == nil {
		summary = &Summary{}
	}

	d := domain.Dataset{
		Source:          domain.SourceOpenNeuro,
		ID:              n.ID,
		Name:            firstNonEmpty(n.Name, desc.Name, &n.ID),
		Created:         n.Created,
		Modified:        draft.Modified,
		PublishDate:     n.PublishDate,
		Readme:          draft.Readme,
		Modalities:      summary.Modalities,
		PrimaryModality: summary.PrimaryModality,
		Tasks:           summary.Tasks,
		NSubjects:       len(summary.Subjects),
		License:         domain.Deref(desc.License),
		DOI:             domain.Deref(desc.DatasetDOI),
		URL:             DatasetURLPrefix + n.ID,
	}
	if summary.Size != nil {
		d.SizeGB = domain.BytesToGB(*summary.Size, 2)
	}
	if n.Analytics != nil {
		d.Views = derefInt(n.Analytics.Views)
		d.Downloads = derefInt(n.Analytics.Downloads)
	}

	if n.Public != nil {
		d.SetExtra("public", *n.Public)
	}
	if desc.BIDSVersion != nil {
		d.SetExtra("bids_version", *desc.BIDSVersion)
	}
	if desc.DatasetType != nil {
		d.SetExtra("dataset_type", *desc.DatasetType)
	}
	d.SetExtra("authors", desc.Authors)
	d.SetExtra("senior_author", desc.SeniorAuthor)
	d.SetExtra("acknowledgements", desc.Acknowledgements)
	d.SetExtra("how_to_acknowledge", desc.HowToAcknowledge)
	d.SetExtra("funding", desc.Funding)
	d.SetExtra("references_and_links", desc.ReferencesAndLinks)
	d.SetExtra("ethics_approvals", desc.EthicsApprovals)
	if len(summary.SecondaryModalities) > 0 {
		d.SetExtra("secondary_modalities", summary.SecondaryModalities)
	}
	if len(summary.Sessions) > 0 {
		d.SetExtra("sessions", summary.Sessions)
	}
	d.SetExtra("total_files", derefInt(summary.TotalFiles))
	if summary.DataProcessed != nil {
		d.SetExtra("data_processed", *summary.DataProcessed)
	}
	return d
}

func firstNonEmpty(candidates ...*string) string {
	for _, s := range candidates {
		if s != nil && *s != "" {
			return *s
		}
	}
	return ""
}

func derefInt(v *int) int {
	if v == nil {
		return 0
	}
	return *v
}
