package cli

import (
	"bufio"
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/scidata/internal/core/domain"
)

var dbCmd = &cobra.Command{
	Use:   "db",
	Short: "Manage the local dataset index",
	Long: `Build, update, search and inspect the local SQLite index.

The index lives in a single file (default ~/.cache/scidata/datasets.db,
override with --db or the index.path setting).`,
}

var dbBuildSources []string

var dbBuildCmd = &cobra.Command{
	Use:   "build",
	Short: "Fetch sources and write them to the index",
	Args:  cobra.NoArgs,
	RunE:  runDBBuild,
}

var dbUpdateCmd = &cobra.Command{
	Use:       "update <source>",
	Short:     "Re-fetch a single source into the index",
	Args:      cobra.ExactArgs(1),
	ValidArgs: sourceArgs(),
	RunE:      runDBUpdate,
}

var (
	dbSearchSource       string
	dbSearchModality     string
	dbSearchMinSubjects  int
	dbSearchMaxSubjects  int
	dbSearchMinDownloads int
	dbSearchHasReadme    bool
	dbSearchLimit        int
	dbSearchOffset       int
	dbSearchOrderBy      string
	dbSearchOutput       string
	dbSearchJSON         bool
)

var dbSearchCmd = &cobra.Command{
	Use:   "search [query]",
	Short: "Search the local index",
	Long: `Full-text search over dataset names, readmes and tasks, combined with
structured filters. Every word of the query must match.

Order fields: ` + strings.Join(domain.OrderByFields(), ", ") + ` (always descending).`,
	Args: cobra.MaximumNArgs(1),
	RunE: runDBSearch,
}

var dbStatsJSON bool

var dbStatsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show index statistics",
	Args:  cobra.NoArgs,
	RunE:  runDBStats,
}

var dbClearYes bool

var dbClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Delete the local index",
	Args:  cobra.NoArgs,
	RunE:  runDBClear,
}

func init() {
	dbBuildCmd.Flags().StringSliceVarP(&dbBuildSources, "source", "s", nil, "source to index (repeatable, default all)")

	f := dbSearchCmd.Flags()
	f.StringVarP(&dbSearchSource, "source", "s", "", "restrict to one source")
	f.StringVarP(&dbSearchModality, "modality", "m", "", "modality (mri, eeg, ...)")
	f.IntVar(&dbSearchMinSubjects, "min-subjects", 0, "minimum number of subjects")
	f.IntVar(&dbSearchMaxSubjects, "max-subjects", 0, "maximum number of subjects")
	f.IntVar(&dbSearchMinDownloads, "min-downloads", 0, "minimum download count")
	f.BoolVar(&dbSearchHasReadme, "has-readme", false, "only datasets with a readme")
	f.IntVarP(&dbSearchLimit, "limit", "n", 20, "maximum results")
	f.IntVar(&dbSearchOffset, "offset", 0, "skip the first N results")
	f.StringVar(&dbSearchOrderBy, "order-by", domain.DefaultOrderBy, "ranking field")
	f.StringVarP(&dbSearchOutput, "output", "o", "", "write results to a JSON file")
	f.BoolVar(&dbSearchJSON, "json", false, "print results as JSON")

	dbStatsCmd.Flags().BoolVar(&dbStatsJSON, "json", false, "output as JSON")
	dbClearCmd.Flags().BoolVarP(&dbClearYes, "yes", "y", false, "do not ask for confirmation")

	dbCmd.AddCommand(dbBuildCmd, dbUpdateCmd, dbSearchCmd, dbStatsCmd, dbClearCmd)
	rootCmd.AddCommand(dbCmd)
}

func runDBBuild(cmd *cobra.Command, _ []string) error {
	if indexService == nil {
		return errIndexNotConfigured
	}

	sources := make([]domain.SourceName, 0, len(dbBuildSources))
	for _, s := range dbBuildSources {
		name, err := domain.ParseSourceName(s)
		if err != nil {
			return err
		}
		sources = append(sources, name)
	}

	st := newStyles(cmd.OutOrStdout())
	cmd.Printf("Building index at %s\n", indexService.Path())
	if len(sources) == 0 {
		cmd.Println("Sources: all")
	} else {
		cmd.Printf("Sources: %s\n", strings.Join(dbBuildSources, ", "))
	}

	counts, err := indexService.Rebuild(cmd.Context(), sources)
	if err != nil {
		return buildError(err)
	}

	cmd.Println(st.Title.Render("Index built:"))
	total := 0
	for _, name := range sortedSources(counts) {
		cmd.Printf("  %s: %d datasets\n", st.Label.Render(string(name)), counts[name])
		total += counts[name]
	}
	cmd.Println(st.Success.Render(fmt.Sprintf("Total: %d datasets", total)))
	return nil
}

func runDBUpdate(cmd *cobra.Command, args []string) error {
	if indexService == nil {
		return errIndexNotConfigured
	}

	source, err := domain.ParseSourceName(args[0])
	if err != nil {
		return err
	}

	n, err := indexService.Update(cmd.Context(), source)
	if err != nil {
		return buildError(err)
	}
	cmd.Printf("Updated %s: %d datasets\n", source, n)
	return nil
}

func buildError(err error) error {
	if errors.Is(err, domain.ErrRebuildInProgress) {
		return fmt.Errorf("another build is running, try again later: %w", err)
	}
	return fmt.Errorf("build failed: %w", err)
}

func runDBSearch(cmd *cobra.Command, args []string) error {
	if indexService == nil {
		return errIndexNotConfigured
	}

	opts := domain.SearchOptions{
		Modality:  dbSearchModality,
		HasReadme: dbSearchHasReadme,
		Limit:     dbSearchLimit,
		Offset:    dbSearchOffset,
		OrderBy:   dbSearchOrderBy,
	}
	if len(args) == 1 {
		opts.Query = args[0]
	}
	if dbSearchSource != "" {
		source, err := domain.ParseSourceName(dbSearchSource)
		if err != nil {
			return err
		}
		opts.Source = source
	}
	flags := cmd.Flags()
	if flags.Changed("min-subjects") {
		opts.MinSubjects = domain.IntPtr(dbSearchMinSubjects)
	}
	if flags.Changed("max-subjects") {
		opts.MaxSubjects = domain.IntPtr(dbSearchMaxSubjects)
	}
	if flags.Changed("min-downloads") {
		opts.MinDownloads = domain.IntPtr(dbSearchMinDownloads)
	}

	results, err := indexService.Search(cmd.Context(), opts)
	if err != nil {
		return fmt.Errorf("search failed: %w", err)
	}

	switch {
	case dbSearchOutput != "":
		if err := writeJSONFile(dbSearchOutput, results); err != nil {
			return err
		}
		cmd.Printf("Saved %d results to %s\n", len(results), dbSearchOutput)
		return nil
	case dbSearchJSON:
		return printJSON(cmd, results)
	}

	if len(results) == 0 {
		cmd.Println("No datasets found.")
		return nil
	}
	printDatasets(cmd, results, 0)
	cmd.Printf("\nFound %d datasets\n", len(results))
	return nil
}

func runDBStats(cmd *cobra.Command, _ []string) error {
	if indexService == nil {
		return errIndexNotConfigured
	}

	stats, err := indexService.Stats(cmd.Context())
	if err != nil {
		return fmt.Errorf("failed to read stats: %w", err)
	}

	if dbStatsJSON {
		return printJSON(cmd, stats)
	}

	if !stats.Exists {
		cmd.Println("Index not found.")
		cmd.Println("Run: scidata db build")
		return nil
	}

	st := newStyles(cmd.OutOrStdout())
	cmd.Printf("%s %s\n", st.Label.Render("Index:"), stats.Path)
	cmd.Printf("%s %.2f MB\n", st.Label.Render("Size:"), stats.SizeMB())
	cmd.Printf("%s %d\n", st.Label.Render("Total datasets:"), stats.TotalDatasets)
	lastBuild := stats.LastBuild
	if lastBuild == "" {
		lastBuild = "N/A"
	}
	cmd.Printf("%s %s\n", st.Label.Render("Last build:"), lastBuild)
	cmd.Println()
	cmd.Println(st.Title.Render("By source:"))
	for _, name := range sortedSources(stats.BySource) {
		cmd.Printf("  %s: %d\n", name, stats.BySource[name])
	}
	return nil
}

func runDBClear(cmd *cobra.Command, _ []string) error {
	if indexService == nil {
		return errIndexNotConfigured
	}

	if !dbClearYes {
		cmd.Printf("Delete the local index at %s? [y/N]: ", indexService.Path())
		answer := strings.ToLower(readLine(bufio.NewReader(cmd.InOrStdin())))
		if answer != "y" && answer != "yes" {
			cmd.Println("Aborted.")
			return nil
		}
	}

	existed, err := indexService.Clear(cmd.Context())
	if err != nil {
		return buildError(err)
	}
	if existed {
		cmd.Println("Index deleted.")
	} else {
		cmd.Println("Index not found.")
	}
	return nil
}

// sortedSources returns the keys of counts in catalogue order, with any
// unknown names after them alphabetically.
func sortedSources(counts map[domain.SourceName]int) []domain.SourceName {
	out := make([]domain.SourceName, 0, len(counts))
	seen := make(map[domain.SourceName]bool, len(counts))
	for _, name := range domain.AllSources() {
		if _, ok := counts[name]; ok {
			out = append(out, name)
			seen[name] = true
		}
	}
	var rest []domain.SourceName
	for name := range counts {
		if !seen[name] {
			rest = append(rest, name)
		}
	}
	sort.Slice(rest, func(i, j int) bool { return rest[i] < rest[j] })
	return append(out, rest...)
}

func readLine(reader *bufio.Reader) string {
	line, _ := reader.ReadString('\n')
	return strings.TrimSpace(line)
}
