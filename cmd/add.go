package cmd

import (
	"context"
	"fmt"
	"log"
	"strings"
	"sync"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/jcdickinson/rsdoclink/internal/docsurl"
	"github.com/jcdickinson/rsdoclink/internal/loader"
	"github.com/jcdickinson/rsdoclink/internal/version"
)

var addCmd = &cobra.Command{
	Use:   "add [crate[@version] ...]",
	Short: "Fetch crate indexes and store their link mappings",
	Long:  `Fetch and decode rustdoc search indexes, then persist every simple path to URL mapping. Version defaults to "latest".`,
	Example: `  rsdoclink add serde
  rsdoclink add anyhow@1.0.75 tokio@1.0
  rsdoclink add serde serde_json tokio`,
	Args: cobra.MinimumNArgs(1),
	Run:  runAdd,
}

func init() {
	rootCmd.AddCommand(addCmd)
}

func runAdd(cmd *cobra.Command, args []string) {
	type spec struct {
		name string
		ver  version.Version
	}
	var specs []spec
	for _, arg := range args {
		name, verStr, _ := strings.Cut(arg, "@")
		ver, err := version.Parse(verStr)
		if err != nil {
			log.Fatalf("invalid version in %q: %v", arg, err)
		}
		specs = append(specs, spec{name: name, ver: ver})
	}

	cfg := loadConfig()
	database, err := openDB()
	if err != nil {
		log.Fatalf("%v", err)
	}
	defer database.Close()

	ld := loader.New(cfg)

	var mu sync.Mutex // serializes db writes and output
	g, ctx := errgroup.WithContext(context.Background())
	g.SetLimit(4)
	for _, s := range specs {
		g.Go(func() error {
			loaded, err := ld.Load(ctx, s.name, s.ver)
			if err != nil {
				return fmt.Errorf("%s@%s: %w", s.name, s.ver, err)
			}
			links := docsurl.AllLinks(loaded.ID, loaded.Crate)

			mu.Lock()
			defer mu.Unlock()
			crateID, err := database.UpsertCrate(s.name, loaded.ID.Version, loaded.Doc)
			if err != nil {
				return fmt.Errorf("%s@%s: %w", s.name, s.ver, err)
			}
			if err := database.InsertLinks(crateID, links); err != nil {
				return fmt.Errorf("%s@%s: %w", s.name, s.ver, err)
			}
			fmt.Printf("  %s@%s: %d links stored\n", s.name, loaded.ID.Version, len(links))
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		log.Fatalf("add failed: %v", err)
	}
}
