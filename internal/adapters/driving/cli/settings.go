package cli

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/scidata/internal/core/domain"
)

var settingsCmd = &cobra.Command{
	Use:   "settings",
	Short: "Manage application settings",
	Long: `View and change settings stored in ~/.config/scidata/config.toml.

Keys use dot notation, for example:
  fetch.page_size             requested page size for every source
  fetch.max_records           default fetch cap (0 = unlimited)
  fetch.normalize_policy      skip or strict
  index.path                  index database file
  sources.zenodo.rate_limit   requests per second for one source`,
	Args: cobra.NoArgs,
	RunE: runSettingsShow,
}

var settingsGetCmd = &cobra.Command{
	Use:   "get [key]",
	Short: "Show one setting, or all of them",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runSettingsGet,
}

var settingsSetCmd = &cobra.Command{
	Use:   "set <key> <value>",
	Short: "Change a setting",
	Args:  cobra.ExactArgs(2),
	RunE:  runSettingsSet,
}

func init() {
	settingsCmd.AddCommand(settingsGetCmd, settingsSetCmd)
	rootCmd.AddCommand(settingsCmd)
}

func runSettingsShow(cmd *cobra.Command, _ []string) error {
	return runSettingsGet(cmd, nil)
}

func runSettingsGet(cmd *cobra.Command, args []string) error {
	if settingsService == nil {
		return errSettingsNotConfigured
	}

	settings, err := settingsService.Get()
	if err != nil {
		return fmt.Errorf("failed to get settings: %w", err)
	}

	if len(args) == 1 {
		value, ok := settingValue(settings, args[0])
		if !ok {
			return fmt.Errorf("%w: unknown setting %q", domain.ErrInvalidInput, args[0])
		}
		cmd.Println(value)
		return nil
	}

	st := newStyles(cmd.OutOrStdout())
	cmd.Println(st.Title.Render("Current Settings"))
	for _, key := range settingsService.Keys() {
		value, _ := settingValue(settings, key)
		if value == "" {
			value = st.Muted.Render("(default)")
		}
		cmd.Printf("  %s = %s\n", st.Label.Render(key), value)
	}
	return nil
}

func runSettingsSet(cmd *cobra.Command, args []string) error {
	if settingsService == nil {
		return errSettingsNotConfigured
	}

	if err := settingsService.Set(args[0], args[1]); err != nil {
		return fmt.Errorf("failed to save setting: %w", err)
	}
	cmd.Printf("%s set to %s\n", args[0], args[1])
	return nil
}

// settingValue renders the value of a dotted key. Zero values of optional
// fields render as "".
func settingValue(s *domain.AppSettings, key string) (string, bool) {
	switch key {
	case "index.path":
		return s.Index.Path, true
	case "fetch.page_size":
		return strconv.Itoa(s.Fetch.PageSize), true
	case "fetch.max_records":
		return strconv.Itoa(s.Fetch.MaxRecords), true
	case "fetch.normalize_policy":
		return s.Fetch.NormalizePolicy.String(), true
	}

	rest, ok := strings.CutPrefix(key, "sources.")
	if !ok {
		return "", false
	}
	name, field, ok := strings.Cut(rest, ".")
	if !ok || !domain.SourceName(name).IsValid() {
		return "", false
	}
	src := s.Source(domain.SourceName(name))

	switch field {
	case "base_url":
		return src.BaseURL, true
	case "timeout_seconds":
		if src.TimeoutSeconds == 0 {
			return "", true
		}
		return strconv.Itoa(src.TimeoutSeconds), true
	case "rate_limit":
		if src.RateLimit == 0 {
			return "", true
		}
		return strconv.FormatFloat(src.RateLimit, 'g', -1, 64), true
	default:
		return "", false
	}
}
