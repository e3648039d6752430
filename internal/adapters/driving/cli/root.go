// Package cli implements the scidata command line interface with cobra.
package cli

import (
	"context"
	"errors"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/scidata/internal/core/ports/driving"
	"github.com/custodia-labs/scidata/internal/logger"
)

// version is set by Execute from the build.
var version = "dev"

// Driving ports used by the commands. Set by SetServices.
var (
	fetchService    driving.FetchService
	filterService   driving.FilterService
	indexService    driving.IndexService
	settingsService driving.SettingsService
	sourceCatalogue driving.SourceCatalogue
	closeServices   func() error
)

// Global flags.
var (
	verbose   bool
	configDir string
	dbPath    string
)

// Options carries the global flag values to a Builder.
type Options struct {
	ConfigDir string
	DBPath    string
	Verbose   bool
}

// Services holds the driving ports the commands call.
type Services struct {
	Fetch    driving.FetchService
	Filter   driving.FilterService
	Index    driving.IndexService
	Settings driving.SettingsService
	Sources  driving.SourceCatalogue

	// Close releases resources held by the services. May be nil.
	Close func() error
}

// Builder constructs the services once the global flags are parsed.
type Builder func(Options) (*Services, error)

var builder Builder

var rootCmd = &cobra.Command{
	Use:   "scidata",
	Short: "Discover scientific datasets across public repositories",
	Long: `scidata fetches dataset metadata from OpenNeuro, DANDI, PhysioNet and
Zenodo, normalises it into one record shape, and lets you filter it in
memory or index it locally for fast full-text search.`,
	SilenceUsage:      true,
	SilenceErrors:     true,
	PersistentPreRunE: setup,
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
	rootCmd.PersistentFlags().StringVar(&configDir, "config", "", "config directory (default ~/.config/scidata)")
	rootCmd.PersistentFlags().StringVar(&dbPath, "db", "", "index database path (default ~/.cache/scidata/datasets.db)")
}

// SetServices installs the driving ports used by the commands.
func SetServices(s *Services) {
	if s == nil {
		s = &Services{}
	}
	fetchService = s.Fetch
	filterService = s.Filter
	indexService = s.Index
	settingsService = s.Settings
	sourceCatalogue = s.Sources
	closeServices = s.Close
}

// Execute runs the root command. build is called after flag parsing; when
// nil, services installed with SetServices are used as they are. Services
// from build are closed when the command returns, including on failure.
func Execute(ctx context.Context, buildVersion string, build Builder) error {
	if buildVersion != "" {
		version = buildVersion
	}
	builder = build

	err := rootCmd.ExecuteContext(ctx)
	if closeErr := teardown(); closeErr != nil {
		if err != nil {
			logger.Warn("closing services: %v", closeErr)
			return err
		}
		return closeErr
	}
	return err
}

func setup(_ *cobra.Command, _ []string) error {
	logger.SetVerbose(verbose)

	if builder == nil {
		return nil
	}
	closeServices = nil
	svc, err := builder(Options{ConfigDir: configDir, DBPath: dbPath, Verbose: verbose})
	if err != nil {
		return err
	}
	SetServices(svc)
	return nil
}

func teardown() error {
	if builder == nil || closeServices == nil {
		return nil
	}
	closeFn := closeServices
	closeServices = nil
	return closeFn()
}

// Errors for unconfigured services.
var (
	errFetchNotConfigured    = errors.New("fetch service not configured")
	errFilterNotConfigured   = errors.New("filter service not configured")
	errIndexNotConfigured    = errors.New("index service not configured")
	errSettingsNotConfigured = errors.New("settings service not configured")
	errSourcesNotConfigured  = errors.New("source catalogue not configured")
)
