package docsurl

import (
	"strings"
	"testing"

	"github.com/jcdickinson/rsdoclink/internal/index"
)

func anyhowCrate() *index.Crate {
	return &index.Crate{
		Name: "anyhow",
		Index: index.Index{
			Items: []index.Item{
				{Kind: index.KindStruct, Name: "Error", ModulePath: "anyhow"},
				{Kind: index.KindMethod, Name: "new", ModulePath: "anyhow", Parent: index.SelfRef(0)},
				{Kind: index.KindModule, Name: "fmt", ModulePath: "anyhow"},
				{Kind: index.KindMethod, Name: "hash", ModulePath: "anyhow", Parent: index.ForeignRef(0)},
				{Kind: index.KindFunction, Name: "bail", ModulePath: "anyhow::macros"},
			},
			Paths: []index.PathEntry{
				{Kind: index.KindTrait, Name: "Hash"},
			},
		},
	}
}

func found(c *index.Crate, i int) index.Outcome {
	return index.Outcome{
		Kind:      index.OutcomeFound,
		Crate:     c.Name,
		Item:      &c.Index.Items[i],
		ItemIndex: i,
	}
}

func TestBase(t *testing.T) {
	tests := []struct {
		id   CrateID
		want string
	}{
		{CrateID{Name: "anyhow"}, "https://docs.rs/anyhow/latest"},
		{CrateID{Name: "anyhow", Version: "1.0.75"}, "https://docs.rs/anyhow/1.0.75"},
		{CrateID{Name: "std", Std: true}, "https://doc.rust-lang.org/stable"},
		{CrateID{Name: "std", Version: "nightly", Std: true}, "https://doc.rust-lang.org/nightly"},
		{CrateID{Name: "core", Version: "1.70.0", Std: true}, "https://doc.rust-lang.org/1.70.0"},
	}
	for _, tt := range tests {
		if got := tt.id.Base(); got != tt.want {
			t.Errorf("Base(%+v) = %q, want %q", tt.id, got, tt.want)
		}
	}
}

func TestBuild_ItemPages(t *testing.T) {
	c := anyhowCrate()
	id := CrateID{Name: "anyhow", Version: "1.0.75"}

	tests := []struct {
		item int
		want string
	}{
		{0, "https://docs.rs/anyhow/1.0.75/anyhow/struct.Error.html"},
		{1, "https://docs.rs/anyhow/1.0.75/anyhow/struct.Error.html#method.new"},
		{2, "https://docs.rs/anyhow/1.0.75/anyhow/fmt/index.html"},
		{3, "https://docs.rs/anyhow/1.0.75/anyhow/trait.Hash.html#method.hash"},
		{4, "https://docs.rs/anyhow/1.0.75/anyhow/macros/fn.bail.html"},
	}
	for _, tt := range tests {
		if got := Build(id, c, found(c, tt.item)); got != tt.want {
			t.Errorf("item %d: got %q, want %q", tt.item, got, tt.want)
		}
	}
}

func TestBuild_CrateRoot(t *testing.T) {
	c := anyhowCrate()
	out := index.Outcome{Kind: index.OutcomeCrateRoot, Crate: c.Name}

	got := Build(CrateID{Name: "anyhow"}, c, out)
	want := "https://docs.rs/anyhow/latest/anyhow/index.html"
	if got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestBuild_NotFound(t *testing.T) {
	c := anyhowCrate()
	if got := Build(CrateID{Name: "anyhow"}, c, index.Outcome{}); got != "" {
		t.Errorf("got %q, want empty", got)
	}
}

func TestBuild_StdItem(t *testing.T) {
	c := &index.Crate{
		Name: "std",
		Index: index.Index{
			Items: []index.Item{
				{Kind: index.KindStruct, Name: "Vec", ModulePath: "std::vec"},
			},
		},
	}
	got := Build(CrateID{Name: "std", Std: true}, c, found(c, 0))
	want := "https://doc.rust-lang.org/stable/std/vec/struct.Vec.html"
	if got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestAllLinks(t *testing.T) {
	c := anyhowCrate()
	links := AllLinks(CrateID{Name: "anyhow", Version: "1.0.75"}, c)
	if len(links) != len(c.Index.Items) {
		t.Fatalf("got %d links, want %d", len(links), len(c.Index.Items))
	}

	byPath := make(map[string]Link)
	for _, l := range links {
		byPath[l.Path] = l
	}
	l, ok := byPath["anyhow::Error::new"]
	if !ok {
		t.Fatal("anyhow::Error::new missing from links")
	}
	if !strings.HasSuffix(l.URL, "struct.Error.html#method.new") {
		t.Errorf("URL = %q", l.URL)
	}
	if l.Kind != index.KindMethod {
		t.Errorf("kind = %v, want Method", l.Kind)
	}
}

func TestAllLinks_SkipsUnnamedItems(t *testing.T) {
	c := &index.Crate{
		Name: "x",
		Index: index.Index{
			Items: []index.Item{
				{Kind: index.KindStruct, Name: "A", ModulePath: "x"},
				{Kind: index.KindImport, Name: "", ModulePath: "x"},
			},
		},
	}
	links := AllLinks(CrateID{Name: "x"}, c)
	if len(links) != 1 {
		t.Errorf("got %d links, want 1", len(links))
	}
}
