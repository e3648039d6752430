package mcp

import (
	"encoding/json"
	"fmt"

	"github.com/custodia-labs/scidata/internal/core/domain"
)

// Record is a dataset as exchanged with MCP clients: the flat JSON object
// produced by domain.Dataset, source-specific extras included.
type Record = map[string]any

// toRecords converts datasets to their client representation.
// The result is never nil so that empty lists serialise as [].
func toRecords(datasets []domain.Dataset) ([]Record, error) {
	out := make([]Record, 0, len(datasets))
	for i := range datasets {
		data, err := json.Marshal(datasets[i])
		if err != nil {
			return nil, fmt.Errorf("encoding dataset %s: %w", datasets[i].Key(), err)
		}
		var rec Record
		if err := json.Unmarshal(data, &rec); err != nil {
			return nil, fmt.Errorf("encoding dataset %s: %w", datasets[i].Key(), err)
		}
		out = append(out, rec)
	}
	return out, nil
}

// fromRecords parses records previously returned by a fetch tool.
func fromRecords(records []Record) ([]domain.Dataset, error) {
	out := make([]domain.Dataset, len(records))
	for i, rec := range records {
		data, err := json.Marshal(rec)
		if err != nil {
			return nil, fmt.Errorf("%w: dataset %d: %v", domain.ErrInvalidInput, i, err)
		}
		if err := json.Unmarshal(data, &out[i]); err != nil {
			return nil, fmt.Errorf("%w: dataset %d: %v", domain.ErrInvalidInput, i, err)
		}
	}
	return out, nil
}

// fetchLimit maps the max_datasets argument to a fetch cap: absent means
// domain.DefaultMaxRecords, zero or negative means every record.
func fetchLimit(maxDatasets *int) int {
	switch {
	case maxDatasets == nil:
		return domain.DefaultMaxRecords
	case *maxDatasets <= 0:
		return -1
	default:
		return *maxDatasets
	}
}

// sourceCounts converts per-source counts to string keys.
func sourceCounts(counts map[domain.SourceName]int) map[string]int {
	out := make(map[string]int, len(counts))
	for name, n := range counts {
		out[string(name)] = n
	}
	return out
}
