package cli

import (
	"bytes"
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/scidata/internal/core/services"
)

func TestRootCmd_GlobalFlags(t *testing.T) {
	flags := rootCmd.PersistentFlags()
	assert.Equal(t, "v", flags.Lookup("verbose").Shorthand)
	assert.NotNil(t, flags.Lookup("config"))
	assert.NotNil(t, flags.Lookup("db"))
}

func TestExecute_BuildsAndClosesServices(t *testing.T) {
	originalVersion := version
	t.Cleanup(func() {
		version = originalVersion
		builder = nil
		SetServices(nil)
	})

	var got Options
	closed := false
	build := func(opts Options) (*Services, error) {
		got = opts
		return &Services{
			Fetch:   &services.FetchService{},
			Filter:  services.NewFilterService(),
			Sources: services.NewAdapterRegistry(),
			Close: func() error {
				closed = true
				return nil
			},
		}, nil
	}

	stdout := new(bytes.Buffer)
	rootCmd.SetOut(stdout)
	rootCmd.SetArgs([]string{"--config", "/tmp/cfg", "--db", "/tmp/x.db", "-v", "sources"})
	t.Cleanup(func() {
		rootCmd.SetArgs(nil)
		rootCmd.SetOut(nil)
		resetFlags(rootCmd)
	})

	require.NoError(t, Execute(context.Background(), "9.9.9", build))
	assert.Equal(t, Options{ConfigDir: "/tmp/cfg", DBPath: "/tmp/x.db", Verbose: true}, got)
	assert.True(t, closed)
	assert.Equal(t, "9.9.9", version)
	assert.Contains(t, stdout.String(), "Sources")
}

func TestExecute_ClosesServicesWhenCommandFails(t *testing.T) {
	t.Cleanup(func() {
		builder = nil
		SetServices(nil)
	})

	closed := false
	build := func(Options) (*Services, error) {
		return &Services{
			Fetch:  &services.FetchService{},
			Filter: services.NewFilterService(),
			Close: func() error {
				closed = true
				return errors.New("close failed")
			},
		}, nil
	}

	rootCmd.SetArgs([]string{"fetch", "figshare"})
	t.Cleanup(func() {
		rootCmd.SetArgs(nil)
		resetFlags(rootCmd)
	})

	err := Execute(context.Background(), "", build)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "figshare")
	assert.NotContains(t, err.Error(), "close failed")
	assert.True(t, closed)
}

func TestExecute_CloseErrorIsReturned(t *testing.T) {
	t.Cleanup(func() {
		builder = nil
		SetServices(nil)
	})

	rootCmd.SetArgs([]string{"version"})
	rootCmd.SetOut(new(bytes.Buffer))
	t.Cleanup(func() {
		rootCmd.SetArgs(nil)
		rootCmd.SetOut(nil)
		resetFlags(rootCmd)
	})

	err := Execute(context.Background(), "", func(Options) (*Services, error) {
		return &Services{Close: func() error { return errors.New("close failed") }}, nil
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "close failed")
}

func TestExecute_BuilderError(t *testing.T) {
	t.Cleanup(func() {
		builder = nil
		SetServices(nil)
	})

	boom := errors.New("config unreadable")
	rootCmd.SetArgs([]string{"sources"})
	t.Cleanup(func() {
		rootCmd.SetArgs(nil)
		resetFlags(rootCmd)
	})

	err := Execute(context.Background(), "", func(Options) (*Services, error) { return nil, boom })
	assert.ErrorIs(t, err, boom)
}

func TestMCPCmd_Flags(t *testing.T) {
	assert.NotNil(t, mcpCmd.Flags().Lookup("http"))
	assert.Equal(t, "localhost:8080", displayAddr(":8080"))
	assert.Equal(t, "0.0.0.0:9000", displayAddr("0.0.0.0:9000"))
}

func TestMCPCmd_RequiresServices(t *testing.T) {
	SetServices(nil)

	_, _, err := runCLI(t, "mcp")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "fetch service is required")
}

func TestPrintError(t *testing.T) {
	buf := new(bytes.Buffer)
	PrintError(buf, errors.New("something broke"))
	assert.Contains(t, buf.String(), "something broke")
}
