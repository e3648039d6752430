// Package main provides the entry point for the scidata CLI.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/custodia-labs/scidata/internal/adapters/driven/config/file"
	"github.com/custodia-labs/scidata/internal/adapters/driven/lock"
	"github.com/custodia-labs/scidata/internal/adapters/driven/storage/sqlite"
	"github.com/custodia-labs/scidata/internal/adapters/driving/cli"
	"github.com/custodia-labs/scidata/internal/connectors"
	"github.com/custodia-labs/scidata/internal/core/services"
	"github.com/custodia-labs/scidata/internal/logger"
)

// version is set at build time with -ldflags "-X main.version=...".
var version = "dev"

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := cli.Execute(ctx, version, buildServices); err != nil {
		cli.PrintError(os.Stderr, err)
		stop()
		os.Exit(1)
	}
}

// buildServices wires the adapters and core services for one invocation.
func buildServices(opts cli.Options) (*cli.Services, error) {
	configStore, err := file.NewConfigStore(opts.ConfigDir)
	if err != nil {
		return nil, fmt.Errorf("failed to open config: %w", err)
	}
	logger.Debug("config: %s", configStore.Path())

	settingsService := services.NewSettingsService(configStore)
	settings, err := settingsService.Get()
	if err != nil {
		return nil, fmt.Errorf("failed to load settings: %w", err)
	}

	adapters, err := connectors.NewAdapters(*settings)
	if err != nil {
		return nil, fmt.Errorf("failed to configure sources: %w", err)
	}
	registry := services.NewAdapterRegistry(adapters...)
	aggregator := services.NewAggregator(settings.Fetch.NormalizePolicy)

	dbPath, err := resolveDBPath(opts.DBPath, settings.Index.Path)
	if err != nil {
		return nil, err
	}
	logger.Debug("index: %s", dbPath)
	store := sqlite.NewIndexStore(dbPath)

	return &cli.Services{
		Fetch:    services.NewFetchService(registry, aggregator, settings.Fetch),
		Filter:   services.NewFilterService(),
		Index:    services.NewIndexService(registry, aggregator, store, lock.ForIndex(dbPath), settings.Fetch),
		Settings: settingsService,
		Sources:  registry,
		Close:    store.Close,
	}, nil
}

// resolveDBPath picks the index location: the --db flag, then the
// index.path setting, then the default cache location.
func resolveDBPath(flag, configured string) (string, error) {
	switch {
	case flag != "":
		return flag, nil
	case configured != "":
		return configured, nil
	}
	path, err := sqlite.DefaultPath()
	if err != nil {
		return "", fmt.Errorf("failed to resolve index path: %w", err)
	}
	return path, nil
}
