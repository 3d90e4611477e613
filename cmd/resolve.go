package cmd

import (
	"context"
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/jcdickinson/rsdoclink/internal/docsurl"
	"github.com/jcdickinson/rsdoclink/internal/index"
	"github.com/jcdickinson/rsdoclink/internal/loader"
	"github.com/jcdickinson/rsdoclink/internal/simplepath"
	"github.com/jcdickinson/rsdoclink/internal/version"
)

var resolveCmd = &cobra.Command{
	Use:   "resolve <path>",
	Short: "Resolve a simple path to its documentation URL",
	Example: `  rsdoclink resolve anyhow::Error
  rsdoclink resolve --version 1.0.75 anyhow::Context::with_context
  rsdoclink resolve std::vec::Vec`,
	Args: cobra.ExactArgs(1),
	Run:  runResolve,
}

var resolveVersion string

func init() {
	resolveCmd.Flags().StringVar(&resolveVersion, "version", "", `crate version (default "latest")`)
	rootCmd.AddCommand(resolveCmd)
}

func runResolve(cmd *cobra.Command, args []string) {
	path, err := simplepath.Parse(args[0])
	if err != nil {
		log.Fatalf("invalid path: %v", err)
	}

	ver, err := version.Parse(resolveVersion)
	if err != nil {
		log.Fatalf("invalid version: %v", err)
	}

	// Stored mappings answer without a network round trip. Stored paths
	// use plain names, so the r# markers are dropped from the key.
	if !path.IsStd() && !path.IsCrateOnly() {
		if database, err := openDB(); err == nil {
			url, ok, err := database.LookupURL(path.CrateName(), ver.String(), strings.Join(path.Names(), "::"))
			database.Close()
			if err == nil && ok {
				fmt.Println(url)
				return
			}
		}
	}

	cfg := loadConfig()
	ld, err := loader.New(cfg).Load(context.Background(), path.CrateName(), ver)
	if err != nil {
		log.Fatalf("loading crate index: %v", err)
	}

	outcome := index.Resolve(ld.Crate, path)
	if outcome.Kind == index.OutcomeNotFound {
		fmt.Fprintf(os.Stderr, "%s: not found in %s@%s\n", path, path.CrateName(), ld.ID.Version)
		os.Exit(1)
	}
	fmt.Println(docsurl.Build(ld.ID, ld.Crate, outcome))
}
