package cli

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/custodia-labs/scidata/internal/adapters/driven/storage/memory"
	"github.com/custodia-labs/scidata/internal/core/domain"
	"github.com/custodia-labs/scidata/internal/core/ports/driven"
	"github.com/custodia-labs/scidata/internal/core/services"
)

// stubRecord wraps an already-normalised dataset as a raw record.
type stubRecord struct {
	dataset domain.Dataset
}

func (r stubRecord) RawSource() domain.SourceName {
	return r.dataset.Source
}

// stubAdapter serves its datasets as a single page.
type stubAdapter struct {
	name     domain.SourceName
	datasets []domain.Dataset
	err      error
}

func (a *stubAdapter) Name() domain.SourceName {
	return a.name
}

func (a *stubAdapter) FetchPage(_ context.Context, _ driven.PageRequest) (*driven.Page, error) {
	if a.err != nil {
		return nil, &domain.FetchError{Source: a.name, Op: "fetch page 1", Err: a.err}
	}
	page := &driven.Page{}
	for _, d := range a.datasets {
		d.Source = a.name
		page.Records = append(page.Records, stubRecord{dataset: d})
	}
	return page, nil
}

func (a *stubAdapter) Normalize(raw domain.RawRecord) (domain.Dataset, error) {
	return raw.(stubRecord).dataset, nil
}

// testEnv exposes the in-memory stores behind the installed services.
type testEnv struct {
	index    *memory.IndexStore
	lock     *memory.WriteLock
	config   *memory.ConfigStore
	registry *services.AdapterRegistry
}

// setupTestServices installs real services over in-memory stores and the
// given adapters.
func setupTestServices(t *testing.T, adapters ...driven.SourceAdapter) *testEnv {
	t.Helper()

	env := &testEnv{
		index:    memory.NewIndexStore(),
		lock:     memory.NewWriteLock(),
		config:   memory.NewConfigStore(),
		registry: services.NewAdapterRegistry(adapters...),
	}
	defaults := domain.DefaultAppSettings().Fetch
	aggregator := services.NewAggregator(defaults.NormalizePolicy)

	SetServices(&Services{
		Fetch:    services.NewFetchService(env.registry, aggregator, defaults),
		Filter:   services.NewFilterService(),
		Index:    services.NewIndexService(env.registry, aggregator, env.index, env.lock, defaults),
		Settings: services.NewSettingsService(env.config),
		Sources:  env.registry,
	})
	t.Cleanup(func() { SetServices(nil) })
	return env
}

// runCLI executes the root command with args and returns stdout and stderr.
func runCLI(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	return runCLIWithInput(t, "", args...)
}

func runCLIWithInput(t *testing.T, stdin string, args ...string) (string, string, error) {
	t.Helper()

	stdout := new(bytes.Buffer)
	stderr := new(bytes.Buffer)
	rootCmd.SetOut(stdout)
	rootCmd.SetErr(stderr)
	rootCmd.SetIn(strings.NewReader(stdin))
	rootCmd.SetArgs(args)
	t.Cleanup(func() {
		rootCmd.SetArgs(nil)
		rootCmd.SetIn(nil)
		rootCmd.SetOut(nil)
		rootCmd.SetErr(nil)
		resetFlags(rootCmd)
	})

	err := rootCmd.ExecuteContext(context.Background())
	return stdout.String(), stderr.String(), err
}

// resetFlags restores every flag of cmd and its children to its default,
// since the commands and their flag variables are package-level.
func resetFlags(cmd *cobra.Command) {
	reset := func(f *pflag.Flag) {
		if sv, ok := f.Value.(pflag.SliceValue); ok {
			_ = sv.Replace(nil)
		} else {
			_ = f.Value.Set(f.DefValue)
		}
		f.Changed = false
	}
	cmd.Flags().VisitAll(reset)
	cmd.PersistentFlags().VisitAll(reset)
	for _, child := range cmd.Commands() {
		resetFlags(child)
	}
}

func sampleDatasets() []domain.Dataset {
	return []domain.Dataset{
		{
			ID: "ds000001", Name: "Resting EEG", NSubjects: 40, Downloads: 300,
			Modalities: []string{"eeg"}, Tasks: []string{"rest"},
			Readme: domain.StringPtr("Alzheimer cohort"),
		},
		{
			ID: "ds000002", Name: "Visual oddball", NSubjects: 12, Downloads: 900,
			Modalities: []string{"eeg"}, Tasks: []string{"oddball"},
		},
		{
			ID: "ds000003", Name: "Anatomy", NSubjects: 80, Downloads: 50,
			Modalities: []string{"mri"},
		},
	}
}
