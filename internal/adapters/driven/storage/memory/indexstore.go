package memory

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/custodia-labs/scidata/internal/core/domain"
	"github.com/custodia-labs/scidata/internal/core/ports/driven"
)

// Ensure IndexStore implements the interface.
var _ driven.IndexStore = (*IndexStore)(nil)

// IndexStore is an in-memory implementation of driven.IndexStore.
// Full-text matching is approximated by case-insensitive substring
// matching of every query token.
type IndexStore struct {
	mu       sync.RWMutex
	exists   bool
	datasets map[string]domain.Dataset
	meta     *domain.BuildMetadata

	// FailWrites makes ReplaceSource return this error, for testing.
	FailWrites error
}

// NewIndexStore creates a new, never-built in-memory index.
func NewIndexStore() *IndexStore {
	return &IndexStore{
		datasets: make(map[string]domain.Dataset),
	}
}

// ReplaceSource upserts every record under its composite key.
func (s *IndexStore) ReplaceSource(_ context.Context, source domain.SourceName, records []domain.Dataset) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.FailWrites != nil {
		return s.FailWrites
	}

	s.exists = true
	for i := range records {
		d := records[i]
		d.Source = source
		s.datasets[d.Key()] = d
	}
	return nil
}

// Search returns the records matching opts, ranked descending by opts.OrderBy.
func (s *IndexStore) Search(_ context.Context, opts domain.SearchOptions) ([]domain.Dataset, error) {
	opts = opts.WithDefaults()

	s.mu.RLock()
	matched := make([]domain.Dataset, 0, len(s.datasets))
	for _, d := range s.datasets {
		if matchesSearch(&d, opts) {
			matched = append(matched, d)
		}
	}
	s.mu.RUnlock()

	sort.Slice(matched, func(i, j int) bool {
		return matched[i].Key() < matched[j].Key()
	})
	ranked := domain.SortDatasets(matched, domain.SortField(opts.OrderBy), true)

	if opts.Offset >= len(ranked) {
		return []domain.Dataset{}, nil
	}
	end := opts.Offset + opts.Limit
	if end > len(ranked) {
		end = len(ranked)
	}
	return ranked[opts.Offset:end], nil
}

func matchesSearch(d *domain.Dataset, opts domain.SearchOptions) bool {
	if opts.Source != "" && d.Source != opts.Source {
		return false
	}
	criteria := domain.FilterCriteria{
		Modality:     opts.Modality,
		MinSubjects:  opts.MinSubjects,
		MaxSubjects:  opts.MaxSubjects,
		MinDownloads: opts.MinDownloads,
		HasReadme:    opts.HasReadme,
	}
	if !criteria.Match(d) {
		return false
	}
	if opts.Query == "" {
		return true
	}

	haystack := strings.ToLower(d.Name + " " + d.Text() + " " + strings.Join(d.Tasks, " "))
	for _, token := range strings.Fields(strings.ToLower(opts.Query)) {
		if !strings.Contains(haystack, token) {
			return false
		}
	}
	return true
}

// SaveBuildMetadata records the latest build.
func (s *IndexStore) SaveBuildMetadata(_ context.Context, meta domain.BuildMetadata) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.exists = true
	s.meta = &meta
	return nil
}

// BuildMetadata returns the last saved build metadata, if any.
func (s *IndexStore) BuildMetadata() (domain.BuildMetadata, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.meta == nil {
		return domain.BuildMetadata{}, false
	}
	return *s.meta, true
}

// Stats reports counts per source.
func (s *IndexStore) Stats(_ context.Context) (*domain.IndexStats, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if !s.exists {
		return &domain.IndexStats{Exists: false}, nil
	}

	stats := &domain.IndexStats{
		Exists:        true,
		Path:          s.Path(),
		TotalDatasets: len(s.datasets),
		BySource:      make(map[domain.SourceName]int),
	}
	for _, d := range s.datasets {
		stats.BySource[d.Source]++
	}
	if s.meta != nil {
		stats.LastBuild = s.meta.LastBuild.UTC().Format(time.RFC3339)
		stats.LastBuildID = s.meta.BuildID
	}
	return stats, nil
}

// Clear drops everything. Returns whether the index existed.
func (s *IndexStore) Clear(_ context.Context) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	existed := s.exists
	s.exists = false
	s.datasets = make(map[string]domain.Dataset)
	s.meta = nil
	return existed, nil
}

// Path returns a placeholder location.
func (s *IndexStore) Path() string {
	return ":memory:"
}

// Close is a no-op.
func (s *IndexStore) Close() error {
	return nil
}

// Len returns the number of stored records.
func (s *IndexStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.datasets)
}
