package cmd

import (
	"log"

	"github.com/spf13/cobra"

	"github.com/jcdickinson/rsdoclink/internal/db"
	"github.com/jcdickinson/rsdoclink/internal/mcp"
)

var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Run as an MCP server over stdio",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := loadConfig()

		// list_crates degrades gracefully without a database.
		var database *db.DB
		if d, err := openDB(); err == nil {
			database = d
			defer d.Close()
		} else {
			log.Printf("continuing without link database: %v", err)
		}

		return mcp.NewServer(cfg, database).Run()
	},
}

func init() {
	rootCmd.AddCommand(mcpCmd)
}
