package cmd

import (
	"github.com/spf13/cobra"

	"playcheck/internal/mcpserver"
)

var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Serve the requirements tool over MCP (stdio)",
	Long:  `Exposes scrape_steam_requirements to MCP clients. No Gemini key is needed.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, logger, err := loadConfig()
		if err != nil {
			return err
		}

		return mcpserver.NewServer(newRegistry(cfg, logger), Version, logger).ServeStdio()
	},
}

func init() {
	rootCmd.AddCommand(mcpCmd)
}
