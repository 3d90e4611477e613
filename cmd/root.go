package cmd

import (
	"fmt"
	"log"

	"github.com/spf13/cobra"

	"github.com/jcdickinson/rsdoclink/internal/config"
	"github.com/jcdickinson/rsdoclink/internal/db"
)

var rootCmd = &cobra.Command{
	Use:   "rsdoclink",
	Short: "Resolve Rust item paths to documentation URLs",
	Long: `rsdoclink decodes rustdoc search indexes and maps simple paths like
anyhow::Context::with_context to their docs.rs or doc.rust-lang.org pages.`,
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		log.Fatalf("command failed: %v", err)
	}
}

func loadConfig() *config.Config {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("loading config: %v", err)
	}
	return cfg
}

func openDB() (*db.DB, error) {
	database, err := db.New(config.DBPath())
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}
	return database, nil
}
