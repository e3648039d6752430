package mcp

import (
	"context"
	"fmt"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/custodia-labs/scidata/internal/core/domain"
)

// defaultResultLimit caps dataset_search and dataset_db_search results
// when the caller does not pass a limit.
const defaultResultLimit = 20

// FetchInput is the input schema for the dataset_<source>_fetch tools.
type FetchInput struct {
	MaxDatasets *int   `json:"max_datasets,omitempty" jsonschema:"maximum datasets to fetch (default 100, 0 fetches all)"`
	PageSize    int    `json:"page_size,omitempty" jsonschema:"datasets per request, clamped to the repository maximum"`
	Sort        string `json:"sort,omitempty" jsonschema:"repository-specific sort order"`
	Query       string `json:"query,omitempty" jsonschema:"free-text query, zenodo only"`
}

// FetchOutput is the output schema for the fetch tools.
type FetchOutput struct {
	Source   string   `json:"source"`
	Datasets []Record `json:"datasets"`
	Count    int      `json:"count"`
	Pages    int      `json:"pages"`
	Skipped  int      `json:"skipped"`
	Warning  string   `json:"warning,omitempty"`
}

// SearchInput is the input schema for dataset_search.
type SearchInput struct {
	Datasets     []Record `json:"datasets" jsonschema:"datasets returned by a fetch tool"`
	Modality     string   `json:"modality,omitempty" jsonschema:"modality such as mri or eeg, case-insensitive"`
	MinSubjects  *int     `json:"min_subjects,omitempty" jsonschema:"minimum number of subjects"`
	MaxSubjects  *int     `json:"max_subjects,omitempty" jsonschema:"maximum number of subjects"`
	TaskContains string   `json:"task_contains,omitempty" jsonschema:"substring of a task name"`
	TextQuery    string   `json:"text_query,omitempty" jsonschema:"substring of the name or readme"`
	MinDownloads *int     `json:"min_downloads,omitempty" jsonschema:"minimum download count"`
	HasReadme    bool     `json:"has_readme,omitempty" jsonschema:"only datasets with a non-empty readme"`
	SortBy       string   `json:"sort_by,omitempty" jsonschema:"downloads, views, n_subjects, size_gb, name, created or modified"`
	Ascending    bool     `json:"ascending,omitempty" jsonschema:"sort ascending instead of descending"`
	Limit        int      `json:"limit,omitempty" jsonschema:"maximum results (default 20)"`
}

// SearchOutput is the output schema for dataset_search and dataset_db_search.
type SearchOutput struct {
	Datasets []Record `json:"datasets"`
	Count    int      `json:"count"`
}

// ListSourcesInput takes no arguments.
type ListSourcesInput struct{}

// ListSourcesOutput is the output schema for dataset_list_sources.
type ListSourcesOutput struct {
	Sources []domain.SourceInfo `json:"sources"`
	Count   int                 `json:"count"`
}

// DBBuildInput is the input schema for dataset_db_build.
type DBBuildInput struct {
	Sources []string `json:"sources,omitempty" jsonschema:"sources to index, all when empty"`
}

// DBBuildOutput is the output schema for dataset_db_build.
type DBBuildOutput struct {
	Success      bool           `json:"success"`
	Indexed      map[string]int `json:"indexed"`
	Total        int            `json:"total"`
	DatabasePath string         `json:"database_path"`
	SizeMB       float64        `json:"size_mb"`
}

// DBSearchInput is the input schema for dataset_db_search.
type DBSearchInput struct {
	Query        string `json:"query,omitempty" jsonschema:"full-text query over name, readme and tasks"`
	Source       string `json:"source,omitempty" jsonschema:"restrict to one source"`
	Modality     string `json:"modality,omitempty" jsonschema:"modality such as mri or eeg"`
	MinSubjects  *int   `json:"min_subjects,omitempty" jsonschema:"minimum number of subjects"`
	MaxSubjects  *int   `json:"max_subjects,omitempty" jsonschema:"maximum number of subjects"`
	MinDownloads *int   `json:"min_downloads,omitempty" jsonschema:"minimum download count"`
	HasReadme    bool   `json:"has_readme,omitempty" jsonschema:"only datasets with a non-empty readme"`
	Limit        int    `json:"limit,omitempty" jsonschema:"maximum results (default 20)"`
	Offset       int    `json:"offset,omitempty" jsonschema:"results to skip"`
	OrderBy      string `json:"order_by,omitempty" jsonschema:"downloads, views, n_subjects, size_gb, name or created"`
}

// DBStatsInput takes no arguments.
type DBStatsInput struct{}

// DBStatsOutput is the output schema for dataset_db_stats. Only Exists is
// set for an index that has never been built.
type DBStatsOutput struct {
	Exists        bool           `json:"exists"`
	Path          string         `json:"path,omitempty"`
	TotalDatasets int            `json:"total_datasets,omitempty"`
	BySource      map[string]int `json:"by_source,omitempty"`
	LastBuild     string         `json:"last_build,omitempty"`
	LastBuildID   string         `json:"last_build_id,omitempty"`
	SizeMB        float64        `json:"size_mb,omitempty"`
}

// registerTools registers all tool handlers with the MCP server.
func (s *Server) registerTools() {
	for _, info := range domain.Catalogue() {
		mcp.AddTool(s.server, &mcp.Tool{
			Name:        fmt.Sprintf("dataset_%s_fetch", info.Name),
			Description: fmt.Sprintf("Fetch dataset metadata from %s (%s)", info.Title, info.Description),
		}, s.fetchHandler(info.Name))
	}

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "dataset_search",
		Description: "Filter and sort a list of datasets returned by a fetch tool",
	}, s.handleSearch)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "dataset_list_sources",
		Description: "List the dataset repositories that can be fetched",
	}, s.handleListSources)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "dataset_db_build",
		Description: "Build or rebuild the local dataset index for fast full-text search",
	}, s.handleDBBuild)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "dataset_db_search",
		Description: "Full-text search over the local dataset index (run dataset_db_build first)",
	}, s.handleDBSearch)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "dataset_db_stats",
		Description: "Report local dataset index statistics",
	}, s.handleDBStats)
}

// fetchHandler returns the tool handler for one source.
func (s *Server) fetchHandler(
	source domain.SourceName,
) func(context.Context, *mcp.CallToolRequest, FetchInput) (*mcp.CallToolResult, FetchOutput, error) {
	return func(ctx context.Context, _ *mcp.CallToolRequest, input FetchInput) (*mcp.CallToolResult, FetchOutput, error) {
		return s.handleFetch(ctx, source, input)
	}
}

func (s *Server) handleFetch(
	ctx context.Context,
	source domain.SourceName,
	input FetchInput,
) (*mcp.CallToolResult, FetchOutput, error) {
	result, err := s.ports.Fetch.Fetch(ctx, source, domain.FetchOptions{
		MaxRecords: fetchLimit(input.MaxDatasets),
		PageSize:   input.PageSize,
		SortOrder:  input.Sort,
		Query:      input.Query,
	})
	if err != nil {
		return nil, FetchOutput{}, err
	}

	records, err := toRecords(result.Datasets)
	if err != nil {
		return nil, FetchOutput{}, err
	}

	output := FetchOutput{
		Source:   string(source),
		Datasets: records,
		Count:    len(records),
		Pages:    result.Pages,
		Skipped:  len(result.Skipped),
	}
	if result.Partial() {
		output.Warning = fmt.Sprintf("results are partial: %v", result.Interrupted)
	}
	return nil, output, nil
}

// handleSearch filters, sorts and truncates the datasets passed in.
func (s *Server) handleSearch(
	_ context.Context,
	_ *mcp.CallToolRequest,
	input SearchInput,
) (*mcp.CallToolResult, SearchOutput, error) {
	datasets, err := fromRecords(input.Datasets)
	if err != nil {
		return nil, SearchOutput{}, err
	}

	field, err := domain.ParseSortField(input.SortBy)
	if err != nil {
		return nil, SearchOutput{}, err
	}

	limit := input.Limit
	if limit <= 0 {
		limit = defaultResultLimit
	}

	results := s.ports.Filter.Search(datasets, domain.FilterCriteria{
		Modality:     input.Modality,
		MinSubjects:  input.MinSubjects,
		MaxSubjects:  input.MaxSubjects,
		TaskContains: input.TaskContains,
		TextQuery:    input.TextQuery,
		MinDownloads: input.MinDownloads,
		HasReadme:    input.HasReadme,
	}, domain.SortOptions{
		Field:      field,
		Descending: !input.Ascending,
		Limit:      limit,
	})

	records, err := toRecords(results)
	if err != nil {
		return nil, SearchOutput{}, err
	}
	return nil, SearchOutput{Datasets: records, Count: len(records)}, nil
}

func (s *Server) handleListSources(
	_ context.Context,
	_ *mcp.CallToolRequest,
	_ ListSourcesInput,
) (*mcp.CallToolResult, ListSourcesOutput, error) {
	sources := s.ports.sourceList()
	return nil, ListSourcesOutput{Sources: sources, Count: len(sources)}, nil
}

func (s *Server) handleDBBuild(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input DBBuildInput,
) (*mcp.CallToolResult, DBBuildOutput, error) {
	if s.ports.Index == nil {
		return nil, DBBuildOutput{}, ErrIndexUnavailable
	}

	sources := make([]domain.SourceName, 0, len(input.Sources))
	for _, raw := range input.Sources {
		name, err := domain.ParseSourceName(raw)
		if err != nil {
			return nil, DBBuildOutput{}, err
		}
		sources = append(sources, name)
	}

	counts, err := s.ports.Index.Rebuild(ctx, sources)
	if err != nil {
		return nil, DBBuildOutput{}, err
	}

	output := DBBuildOutput{
		Success:      true,
		Indexed:      sourceCounts(counts),
		DatabasePath: s.ports.Index.Path(),
	}
	for _, n := range counts {
		output.Total += n
	}

	stats, err := s.ports.Index.Stats(ctx)
	if err != nil {
		return nil, DBBuildOutput{}, err
	}
	output.SizeMB = stats.SizeMB()

	return nil, output, nil
}

func (s *Server) handleDBSearch(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input DBSearchInput,
) (*mcp.CallToolResult, SearchOutput, error) {
	if s.ports.Index == nil {
		return nil, SearchOutput{}, ErrIndexUnavailable
	}

	opts := domain.SearchOptions{
		Query:        input.Query,
		Modality:     input.Modality,
		MinSubjects:  input.MinSubjects,
		MaxSubjects:  input.MaxSubjects,
		MinDownloads: input.MinDownloads,
		HasReadme:    input.HasReadme,
		Limit:        input.Limit,
		Offset:       input.Offset,
		OrderBy:      input.OrderBy,
	}
	if opts.Limit <= 0 {
		opts.Limit = defaultResultLimit
	}
	if input.Source != "" {
		name, err := domain.ParseSourceName(input.Source)
		if err != nil {
			return nil, SearchOutput{}, err
		}
		opts.Source = name
	}

	results, err := s.ports.Index.Search(ctx, opts)
	if err != nil {
		return nil, SearchOutput{}, err
	}

	records, err := toRecords(results)
	if err != nil {
		return nil, SearchOutput{}, err
	}
	return nil, SearchOutput{Datasets: records, Count: len(records)}, nil
}

func (s *Server) handleDBStats(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	_ DBStatsInput,
) (*mcp.CallToolResult, DBStatsOutput, error) {
	if s.ports.Index == nil {
		return nil, DBStatsOutput{}, ErrIndexUnavailable
	}

	stats, err := s.ports.Index.Stats(ctx)
	if err != nil {
		return nil, DBStatsOutput{}, err
	}
	return nil, statsOutput(stats), nil
}

func statsOutput(stats *domain.IndexStats) DBStatsOutput {
	if !stats.Exists {
		return DBStatsOutput{}
	}
	return DBStatsOutput{
		Exists:        stats.Exists,
		Path:          stats.Path,
		TotalDatasets: stats.TotalDatasets,
		BySource:      sourceCounts(stats.BySource),
		LastBuild:     stats.LastBuild,
		LastBuildID:   stats.LastBuildID,
		SizeMB:        stats.SizeMB(),
	}
}
