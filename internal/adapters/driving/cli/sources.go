package cli

import (
	"github.com/spf13/cobra"
)

var sourcesJSON bool

var sourcesCmd = &cobra.Command{
	Use:   "sources",
	Short: "List supported dataset repositories",
	Args:  cobra.NoArgs,
	RunE:  runSources,
}

func init() {
	sourcesCmd.Flags().BoolVar(&sourcesJSON, "json", false, "output as JSON")
	rootCmd.AddCommand(sourcesCmd)
}

func runSources(cmd *cobra.Command, _ []string) error {
	if sourceCatalogue == nil {
		return errSourcesNotConfigured
	}

	sources := sourceCatalogue.List()
	if sourcesJSON {
		return printJSON(cmd, sources)
	}

	st := newStyles(cmd.OutOrStdout())
	cmd.Println(st.Title.Render("Sources"))
	for _, s := range sources {
		cmd.Printf("  %-10s %s (%s)\n", st.Label.Render(string(s.Name)), s.Title, s.Format)
		cmd.Printf("             %s\n", st.Muted.Render(s.Description+" - "+s.URL))
	}
	return nil
}
