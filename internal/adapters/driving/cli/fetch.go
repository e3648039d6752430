package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/scidata/internal/core/domain"
)

var (
	fetchMax      int
	fetchPageSize int
	fetchOutput   string
	fetchSort     string
	fetchQuery    string
	fetchJSON     bool
)

var fetchCmd = &cobra.Command{
	Use:   "fetch <openneuro|dandi|physionet|zenodo>",
	Short: "Fetch dataset metadata from a repository",
	Long: `Pages through a repository's public API and normalises every record.

With -o the records are written to a JSON file that "scidata filter" can
read; otherwise a short listing is printed.

Examples:
  scidata fetch openneuro -n 50
  scidata fetch zenodo --query "sleep eeg" -o zenodo.json`,
	Args:      cobra.ExactArgs(1),
	ValidArgs: sourceArgs(),
	RunE:      runFetch,
}

func init() {
	fetchCmd.Flags().IntVarP(&fetchMax, "max-datasets", "n", 0, "maximum datasets to fetch (0 = configured default, -1 = all)")
	fetchCmd.Flags().IntVarP(&fetchPageSize, "batch-size", "b", 0, "datasets per request (0 = configured default)")
	fetchCmd.Flags().StringVarP(&fetchOutput, "output", "o", "", "write datasets to a JSON file")
	fetchCmd.Flags().StringVar(&fetchSort, "sort", "", "source-specific sort order")
	fetchCmd.Flags().StringVar(&fetchQuery, "query", "", "free-text query (zenodo only)")
	fetchCmd.Flags().BoolVar(&fetchJSON, "json", false, "print datasets as JSON")
	rootCmd.AddCommand(fetchCmd)
}

func sourceArgs() []string {
	names := domain.AllSources()
	out := make([]string, len(names))
	for i, n := range names {
		out[i] = string(n)
	}
	return out
}

func runFetch(cmd *cobra.Command, args []string) error {
	if fetchService == nil {
		return errFetchNotConfigured
	}

	source, err := domain.ParseSourceName(args[0])
	if err != nil {
		return err
	}

	st := newStyles(cmd.ErrOrStderr())
	info, _ := source.Info()
	fmt.Fprintln(cmd.ErrOrStderr(), st.Muted.Render(fmt.Sprintf("Fetching datasets from %s...", info.Title)))

	result, err := fetchService.Fetch(cmd.Context(), source, domain.FetchOptions{
		MaxRecords: fetchMax,
		PageSize:   fetchPageSize,
		SortOrder:  fetchSort,
		Query:      fetchQuery,
	})
	if err != nil {
		return fmt.Errorf("fetch failed: %w", err)
	}

	if result.Partial() {
		fmt.Fprintln(cmd.ErrOrStderr(), st.Warning.Render(
			fmt.Sprintf("Warning: stopped after page %d: %v", result.Pages, result.Interrupted)))
	}
	if n := len(result.Skipped); n > 0 {
		fmt.Fprintln(cmd.ErrOrStderr(), st.Warning.Render(fmt.Sprintf("Skipped %d records that could not be normalised", n)))
	}

	if len(result.Datasets) == 0 {
		fmt.Fprintln(cmd.ErrOrStderr(), "No datasets fetched")
		return nil
	}

	switch {
	case fetchOutput != "":
		if err := writeJSONFile(fetchOutput, result.Datasets); err != nil {
			return err
		}
		cmd.Printf("Saved %d datasets to %s\n", len(result.Datasets), fetchOutput)
	case fetchJSON:
		return printJSON(cmd, result.Datasets)
	default:
		printDatasets(cmd, result.Datasets, previewLines)
		cmd.Println(newStyles(cmd.OutOrStdout()).Success.Render(
			fmt.Sprintf("Fetched %d datasets", len(result.Datasets))))
	}
	return nil
}
