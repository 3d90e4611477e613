package cmd

import (
	"context"
	"fmt"
	"log"
	"os"

	"github.com/spf13/cobra"

	"github.com/jcdickinson/rsdoclink/internal/docsurl"
	"github.com/jcdickinson/rsdoclink/internal/index"
	"github.com/jcdickinson/rsdoclink/internal/loader"
	"github.com/jcdickinson/rsdoclink/internal/markdown"
	"github.com/jcdickinson/rsdoclink/internal/simplepath"
	"github.com/jcdickinson/rsdoclink/internal/version"
)

var rewriteCmd = &cobra.Command{
	Use:   "rewrite <file.md>",
	Short: "Replace rust: links in a Markdown file with documentation URLs",
	Long: `Scan a Markdown file for links with rust: destinations, such as
[Error](rust:anyhow::Error), resolve each path and rewrite the destination
to the documentation URL. Unresolvable links are left untouched.`,
	Args: cobra.ExactArgs(1),
	Run:  runRewrite,
}

var rewriteInPlace bool

func init() {
	rewriteCmd.Flags().BoolVarP(&rewriteInPlace, "write", "w", false, "write result back to the file instead of stdout")
	rootCmd.AddCommand(rewriteCmd)
}

func runRewrite(cmd *cobra.Command, args []string) {
	src, err := os.ReadFile(args[0])
	if err != nil {
		log.Fatalf("reading %s: %v", args[0], err)
	}

	rusted := markdown.CollectRustLinks(string(src))
	if len(rusted) == 0 {
		fmt.Fprintln(os.Stderr, "no rust: links found")
		if !rewriteInPlace {
			os.Stdout.Write(src)
		}
		return
	}

	cfg := loadConfig()
	ld := loader.New(cfg)
	ctx := context.Background()

	// Destinations keep their scheme, which is also the key RewriteLinks
	// matches on; only the parser sees the bare path.
	resolved := make(map[string]string)
	for _, dest := range rusted {
		pathStr, ok := markdown.PathOf(dest)
		if !ok {
			continue
		}
		path, err := simplepath.Parse(pathStr)
		if err != nil {
			fmt.Fprintf(os.Stderr, "skipping %q: %v\n", pathStr, err)
			continue
		}
		loaded, err := ld.Load(ctx, path.CrateName(), version.Version{})
		if err != nil {
			fmt.Fprintf(os.Stderr, "skipping %q: %v\n", pathStr, err)
			continue
		}
		outcome := index.Resolve(loaded.Crate, path)
		if outcome.Kind == index.OutcomeNotFound {
			fmt.Fprintf(os.Stderr, "skipping %q: not found in %s\n", pathStr, path.CrateName())
			continue
		}
		resolved[dest] = docsurl.Build(loaded.ID, loaded.Crate, outcome)
	}

	out := markdown.RewriteLinks(string(src), resolved)
	if rewriteInPlace {
		if err := os.WriteFile(args[0], []byte(out), 0o644); err != nil {
			log.Fatalf("writing %s: %v", args[0], err)
		}
		fmt.Fprintf(os.Stderr, "rewrote %d of %d links\n", len(resolved), len(rusted))
		return
	}
	os.Stdout.WriteString(out)
}
