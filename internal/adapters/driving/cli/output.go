package cli

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/scidata/internal/core/domain"
)

// previewLines is how many records are listed before the summary line.
const previewLines = 10

func printJSON(cmd *cobra.Command, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal output: %w", err)
	}
	cmd.Println(string(data))
	return nil
}

func writeJSONFile(path string, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal output: %w", err)
	}
	if err := os.WriteFile(path, append(data, '\n'), 0644); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return nil
}

func readDatasetsFile(path string) ([]domain.Dataset, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}
	var records []domain.Dataset
	if err := json.Unmarshal(data, &records); err != nil {
		return nil, fmt.Errorf("%w: %s is not a JSON list of datasets: %v", domain.ErrInvalidInput, path, err)
	}
	return records, nil
}

// printDatasets lists up to limit records as "id: name (N subjects)".
// limit <= 0 lists all of them.
func printDatasets(cmd *cobra.Command, records []domain.Dataset, limit int) {
	st := newStyles(cmd.OutOrStdout())
	for i := range records {
		if limit > 0 && i == limit {
			cmd.Println(st.Muted.Render(fmt.Sprintf("  ... and %d more", len(records)-limit)))
			return
		}
		d := &records[i]
		cmd.Printf("  %s: %s %s\n", st.Label.Render(d.Key()), d.Name,
			st.Muted.Render(fmt.Sprintf("(%d subjects, %d downloads)", d.NSubjects, d.Downloads)))
	}
}
