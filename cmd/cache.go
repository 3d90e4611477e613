package cmd

import (
	"fmt"
	"log"

	"github.com/spf13/cobra"

	"github.com/jcdickinson/rsdoclink/internal/cache"
)

var clearCacheCmd = &cobra.Command{
	Use:   "clear-cache",
	Short: "Delete cached search index payloads",
	Run:   runClearCache,
}

func init() {
	rootCmd.AddCommand(clearCacheCmd)
}

func runClearCache(cmd *cobra.Command, args []string) {
	cfg := loadConfig()
	if err := cache.Clear(cfg.CacheDir()); err != nil {
		log.Fatalf("clearing cache: %v", err)
	}
	fmt.Println("payload cache cleared")
}
