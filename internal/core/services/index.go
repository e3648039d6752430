package services

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/custodia-labs/scidata/internal/core/domain"
	"github.com/custodia-labs/scidata/internal/core/ports/driven"
	"github.com/custodia-labs/scidata/internal/core/ports/driving"
	"github.com/custodia-labs/scidata/internal/logger"
)

// Ensure IndexService implements the interface.
var _ driving.IndexService = (*IndexService)(nil)

// IndexService maintains the local dataset index.
type IndexService struct {
	registry   driven.AdapterRegistry
	aggregator *Aggregator
	store      driven.IndexStore
	lock       driven.WriteLock
	fetch      domain.FetchSettings

	now   func() time.Time
	newID func() string
}

// NewIndexService creates an index service. fetch sets the page size and
// record cap used for every source during a rebuild.
func NewIndexService(
	registry driven.AdapterRegistry,
	aggregator *Aggregator,
	store driven.IndexStore,
	lock driven.WriteLock,
	fetch domain.FetchSettings,
) *IndexService {
	return &IndexService{
		registry:   registry,
		aggregator: aggregator,
		store:      store,
		lock:       lock,
		fetch:      fetch,
		now:        time.Now,
		newID:      uuid.NewString,
	}
}

// Rebuild fetches each source and writes its records to the index.
// Sources are processed one at a time in the given order (catalogue order
// when empty). Unknown sources are skipped with a warning. A source whose
// fetch or normalisation fails is recorded with count 0 and the pass
// continues. A store failure aborts the pass.
func (s *IndexService) Rebuild(ctx context.Context, sources []domain.SourceName) (map[domain.SourceName]int, error) {
	// 1. Take the writer lock
	unlock, err := s.acquire()
	if err != nil {
		return nil, err
	}
	defer unlock()

	// 2. Resolve the sources to process
	if len(sources) == 0 {
		sources = s.registry.Names()
	}
	sources = uniqueSources(sources)

	logger.Section("Rebuild index")
	counts := make(map[domain.SourceName]int, len(sources))
	total := 0

	// 3. Fetch, normalise and write each source in turn
	for _, name := range sources {
		adapter, err := s.registry.Get(name)
		if err != nil {
			logger.Warn("skipping unknown source %q", name)
			continue
		}

		n, err := s.indexSource(ctx, adapter)
		if err != nil {
			return counts, err
		}
		counts[name] = n
		total += n
	}

	// 4. Record the build
	meta := domain.BuildMetadata{
		LastBuild:     s.now().UTC(),
		TotalDatasets: total,
		BuildID:       s.newID(),
	}
	if err := s.store.SaveBuildMetadata(ctx, meta); err != nil {
		return counts, fmt.Errorf("save build metadata: %w", err)
	}

	logger.Info("build %s indexed %d datasets", meta.BuildID, total)
	return counts, nil
}

// uniqueSources drops repeated names, keeping the first occurrence.
func uniqueSources(sources []domain.SourceName) []domain.SourceName {
	seen := make(map[domain.SourceName]bool, len(sources))
	out := make([]domain.SourceName, 0, len(sources))
	for _, name := range sources {
		if seen[name] {
			continue
		}
		seen[name] = true
		out = append(out, name)
	}
	return out
}

// indexSource returns the number of records written. Only store failures
// are returned as errors.
func (s *IndexService) indexSource(ctx context.Context, adapter driven.SourceAdapter) (int, error) {
	name := adapter.Name()
	opts := domain.FetchOptions{
		PageSize:   s.fetch.PageSize,
		MaxRecords: s.fetch.MaxRecords,
	}

	raws, err := s.aggregator.FetchAll(ctx, adapter, opts)
	if err != nil {
		logger.Warn("%s: fetch failed, recording 0: %v", name, err)
		return 0, nil
	}

	datasets, skipped, err := s.aggregator.NormalizeAll(adapter, raws)
	if err != nil {
		logger.Warn("%s: normalisation failed, recording 0: %v", name, err)
		return 0, nil
	}
	if len(skipped) > 0 {
		logger.Warn("%s: skipped %d records that could not be normalised", name, len(skipped))
	}
	if len(datasets) == 0 {
		return 0, nil
	}

	if err := s.store.ReplaceSource(ctx, name, datasets); err != nil {
		return 0, fmt.Errorf("write %s: %w", name, err)
	}
	logger.Info("%s: indexed %d datasets", name, len(datasets))
	return len(datasets), nil
}

// Update rebuilds a single source.
func (s *IndexService) Update(ctx context.Context, source domain.SourceName) (int, error) {
	if _, err := s.registry.Get(source); err != nil {
		return 0, err
	}
	counts, err := s.Rebuild(ctx, []domain.SourceName{source})
	if err != nil {
		return 0, err
	}
	return counts[source], nil
}

// Search queries the index.
func (s *IndexService) Search(ctx context.Context, opts domain.SearchOptions) ([]domain.Dataset, error) {
	if opts.Source != "" && !opts.Source.IsValid() {
		return nil, fmt.Errorf("%w: source %q", domain.ErrUnsupportedType, opts.Source)
	}
	return s.store.Search(ctx, opts.WithDefaults())
}

// Stats reports index statistics.
func (s *IndexService) Stats(ctx context.Context) (*domain.IndexStats, error) {
	return s.store.Stats(ctx)
}

// Clear deletes the index. Fails with domain.ErrRebuildInProgress while
// another writer holds the lock.
func (s *IndexService) Clear(ctx context.Context) (bool, error) {
	unlock, err := s.acquire()
	if err != nil {
		return false, err
	}
	defer unlock()
	return s.store.Clear(ctx)
}

// Path returns the index location.
func (s *IndexService) Path() string {
	return s.store.Path()
}

func (s *IndexService) acquire() (func(), error) {
	if s.lock == nil {
		return func() {}, nil
	}
	ok, err := s.lock.TryLock()
	if err != nil {
		return nil, fmt.Errorf("acquire index lock: %w", err)
	}
	if !ok {
		return nil, domain.ErrRebuildInProgress
	}
	return func() {
		if err := s.lock.Unlock(); err != nil {
			logger.Warn("release index lock: %v", err)
		}
	}, nil
}
