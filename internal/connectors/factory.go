package connectors

import (
	"fmt"
	"time"

	"github.com/custodia-labs/scidata/internal/connectors/apiclient"
	"github.com/custodia-labs/scidata/internal/connectors/dandi"
	"github.com/custodia-labs/scidata/internal/connectors/openneuro"
	"github.com/custodia-labs/scidata/internal/connectors/physionet"
	"github.com/custodia-labs/scidata/internal/connectors/zenodo"
	"github.com/custodia-labs/scidata/internal/core/domain"
	"github.com/custodia-labs/scidata/internal/core/ports/driven"
)

// DefaultConfig returns the built-in client configuration for a source.
func DefaultConfig(name domain.SourceName) (apiclient.Config, error) {
	switch name {
	case domain.SourceOpenNeuro:
		return openneuro.DefaultConfig(), nil
	case domain.SourceDANDI:
		return dandi.DefaultConfig(), nil
	case domain.SourcePhysioNet:
		return physionet.DefaultConfig(), nil
	case domain.SourceZenodo:
		return zenodo.DefaultConfig(), nil
	default:
		return apiclient.Config{}, fmt.Errorf("%w: source %q", domain.ErrUnsupportedType, name)
	}
}

// ConfigFor applies user overrides to a source's default configuration.
func ConfigFor(name domain.SourceName, s domain.SourceSettings) (apiclient.Config, error) {
	cfg, err := DefaultConfig(name)
	if err != nil {
		return cfg, err
	}
	if s.BaseURL != "" {
		cfg.BaseURL = s.BaseURL
	}
	if s.TimeoutSeconds > 0 {
		cfg.Timeout = time.Duration(s.TimeoutSeconds) * time.Second
	}
	if s.RateLimit > 0 {
		cfg.RateLimit = s.RateLimit
	}
	return cfg, nil
}

// NewAdapter creates the adapter for one source.
func NewAdapter(name domain.SourceName, s domain.SourceSettings) (driven.SourceAdapter, error) {
	cfg, err := ConfigFor(name, s)
	if err != nil {
		return nil, err
	}

	var adapter driven.SourceAdapter
	switch name {
	case domain.SourceOpenNeuro:
		adapter, err = openneuro.New(cfg)
	case domain.SourceDANDI:
		adapter, err = dandi.New(cfg)
	case domain.SourcePhysioNet:
		adapter, err = physionet.New(cfg)
	default:
		adapter, err = zenodo.New(cfg)
	}
	if err != nil {
		return nil, err
	}
	return adapter, nil
}

// NewAdapters creates an adapter for every supported source, in catalogue order.
func NewAdapters(settings domain.AppSettings) ([]driven.SourceAdapter, error) {
	names := domain.AllSources()
	adapters := make([]driven.SourceAdapter, 0, len(names))
	for _, name := range names {
		a, err := NewAdapter(name, settings.Source(name))
		if err != nil {
			return nil, fmt.Errorf("create %s adapter: %w", name, err)
		}
		adapters = append(adapters, a)
	}
	return adapters, nil
}
