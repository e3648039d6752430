package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/scidata/internal/adapters/driving/mcp"
)

var mcpHTTPAddr string

var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Start the MCP server",
	Long: `Start the Model Context Protocol server so AI assistants can fetch,
filter and search dataset metadata.

By default the server communicates over stdio. Use --http to serve the
streamable HTTP transport instead.

Examples:
  # Stdio mode (for desktop assistants)
  scidata mcp

  # HTTP mode (for MCP Inspector, remote access)
  scidata mcp --http :8080`,
	Args: cobra.NoArgs,
	RunE: runMCP,
}

func init() {
	mcpCmd.Flags().StringVar(&mcpHTTPAddr, "http", "", "serve streamable HTTP on this address instead of stdio")
	rootCmd.AddCommand(mcpCmd)
}

func runMCP(cmd *cobra.Command, _ []string) error {
	server, err := mcp.NewServer(&mcp.Ports{
		Fetch:   fetchService,
		Filter:  filterService,
		Index:   indexService,
		Sources: sourceCatalogue,
	}, version)
	if err != nil {
		return err
	}

	if mcpHTTPAddr != "" {
		fmt.Fprintf(cmd.ErrOrStderr(), "MCP server listening on http://%s\n", displayAddr(mcpHTTPAddr))
		return server.RunHTTP(cmd.Context(), mcpHTTPAddr)
	}
	return server.Run(cmd.Context())
}

func displayAddr(addr string) string {
	if len(addr) > 0 && addr[0] == ':' {
		return "localhost" + addr
	}
	return addr
}
