package markdown

import (
	"strings"
	"testing"

	"github.com/jcdickinson/rsdoclink/internal/simplepath"
)

const doc = `# Error handling

Use [Error](rust:anyhow::Error) for fallible functions, and build new
errors with [new](rust:anyhow::Error::new). See [Error](rust:anyhow::Error)
again, attach context with [ctx], and read the
[docs](https://example.com) for more.

[ctx]: rust:anyhow::Context
`

func TestPathOf(t *testing.T) {
	if p, ok := PathOf("rust:anyhow::Error"); !ok || p != "anyhow::Error" {
		t.Errorf("got %q %v", p, ok)
	}
	if _, ok := PathOf("https://example.com"); ok {
		t.Error("non-rust destinations must not match")
	}
}

func TestCollectRustLinks(t *testing.T) {
	got := CollectRustLinks(doc)
	want := []string{"rust:anyhow::Error", "rust:anyhow::Error::new", "rust:anyhow::Context"}
	if len(got) != len(want) {
		t.Fatalf("got %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("link %d = %q, want %q", i, got[i], want[i])
		}
	}
}

func TestRewriteLinks(t *testing.T) {
	resolved := map[string]string{
		"rust:anyhow::Error":      "https://docs.rs/anyhow/latest/anyhow/struct.Error.html",
		"rust:anyhow::Error::new": "https://docs.rs/anyhow/latest/anyhow/struct.Error.html#method.new",
		"rust:anyhow::Context":    "https://docs.rs/anyhow/latest/anyhow/trait.Context.html",
	}
	out := RewriteLinks(doc, resolved)

	if strings.Contains(out, "rust:") {
		t.Errorf("rust: destinations survived rewrite:\n%s", out)
	}
	if !strings.Contains(out, "[Error](https://docs.rs/anyhow/latest/anyhow/struct.Error.html)") {
		t.Error("inline link not rewritten")
	}
	if !strings.Contains(out, "[ctx]: https://docs.rs/anyhow/latest/anyhow/trait.Context.html") {
		t.Error("reference definition not rewritten")
	}
	if !strings.Contains(out, "[docs](https://example.com)") {
		t.Error("unrelated link must survive untouched")
	}
}

func TestRewriteLinks_PartialResolution(t *testing.T) {
	resolved := map[string]string{
		"rust:anyhow::Error": "https://docs.rs/anyhow/latest/anyhow/struct.Error.html",
	}
	out := RewriteLinks(doc, resolved)

	if !strings.Contains(out, "(rust:anyhow::Error::new)") {
		t.Error("unresolved links must stay as written")
	}
	if strings.Contains(out, "(rust:anyhow::Error)") {
		t.Error("resolved link not rewritten")
	}
}

func TestRewriteLinks_NoResolutions(t *testing.T) {
	if out := RewriteLinks(doc, nil); out != doc {
		t.Error("empty resolution map must return the input unchanged")
	}
}

func TestRewriteLinks_CollectedDestinations(t *testing.T) {
	// The full chain: collected destinations carry the scheme, the bare
	// path behind it must parse, and the scheme-included destination is
	// the key the rewrite matches on.
	resolved := make(map[string]string)
	for _, dest := range CollectRustLinks(doc) {
		pathStr, ok := PathOf(dest)
		if !ok {
			t.Fatalf("collected destination %q does not carry the scheme", dest)
		}
		path, err := simplepath.Parse(pathStr)
		if err != nil {
			t.Fatalf("Parse(%q): %v", pathStr, err)
		}
		resolved[dest] = "https://docs.rs/" + strings.Join(path.Names(), "/")
	}

	out := RewriteLinks(doc, resolved)
	if strings.Contains(out, "rust:") {
		t.Errorf("rust: destinations survived the chain:\n%s", out)
	}
	if !strings.Contains(out, "[Error](https://docs.rs/anyhow/Error)") {
		t.Error("collected inline link not rewritten")
	}
}

func TestRewriteLinks_TitledLinks(t *testing.T) {
	src := `See [Error](rust:anyhow::Error "the error type") and [ctx].

[ctx]: rust:anyhow::Context "context methods"
`
	resolved := map[string]string{
		"rust:anyhow::Error":   "https://docs.rs/anyhow/latest/anyhow/struct.Error.html",
		"rust:anyhow::Context": "https://docs.rs/anyhow/latest/anyhow/trait.Context.html",
	}
	out := RewriteLinks(src, resolved)

	if !strings.Contains(out, `[Error](https://docs.rs/anyhow/latest/anyhow/struct.Error.html "the error type")`) {
		t.Errorf("titled inline link not rewritten:\n%s", out)
	}
	if !strings.Contains(out, `[ctx]: https://docs.rs/anyhow/latest/anyhow/trait.Context.html "context methods"`) {
		t.Errorf("titled reference definition not rewritten:\n%s", out)
	}
}

func TestRewriteLinks_FormattingPreserved(t *testing.T) {
	src := "Some   *spacing*  and [Error](rust:anyhow::Error)\ttabs.\n"
	out := RewriteLinks(src, map[string]string{"rust:anyhow::Error": "URL"})
	want := "Some   *spacing*  and [Error](URL)\ttabs.\n"
	if out != want {
		t.Errorf("got %q, want %q", out, want)
	}
}
