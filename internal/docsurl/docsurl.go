// Package docsurl turns resolved index items into documentation page URLs,
// covering both docs.rs hosting and the standard library on
// doc.rust-lang.org.
package docsurl

import (
	"strings"

	"github.com/jcdickinson/rsdoclink/internal/index"
)

const (
	docsRsBase = "https://docs.rs"
	stdBase    = "https://doc.rust-lang.org"
)

// CrateID identifies where a crate's documentation is hosted. Name is the
// Cargo package name (hyphens allowed); the page paths themselves use the
// lib name carried by the decoded crate. Version is empty for the latest
// release; for std crates it may also be a release channel.
type CrateID struct {
	Name    string
	Version string
	Std     bool
}

// Base returns the root under which the crate's pages live, without a
// trailing slash.
func (id CrateID) Base() string {
	version := id.Version
	if id.Std {
		if version == "" {
			version = "stable"
		}
		return stdBase + "/" + version
	}
	if version == "" {
		version = "latest"
	}
	return docsRsBase + "/" + id.Name + "/" + version
}

// Build maps a resolution outcome to its documentation URL.
//
// Items with their own generated page get `<module dirs>/<tag>.<name>.html`.
// Associated items (methods and the like) live as anchors on their owner's
// page: the owner reference is walked to recover the owning item, and when
// the owner is foreign (not documented in this payload) the anchor is still
// emitted against the locally known owner name, since the owner's own page
// is outside this crate. Modules and the crate root map to index pages.
//
// NotFound outcomes produce the empty string.
func Build(id CrateID, c *index.Crate, out index.Outcome) string {
	switch out.Kind {
	case index.OutcomeCrateRoot:
		return id.Base() + "/" + c.Name + "/index.html"
	case index.OutcomeFound:
		return id.Base() + "/" + itemPage(c, out.Item)
	}
	return ""
}

// itemPage builds the page path (and anchor, for associated items) of an
// item relative to the hosting base.
func itemPage(c *index.Crate, it *index.Item) string {
	dirs := strings.ReplaceAll(it.ModulePath, "::", "/")

	if i, ok := it.Parent.Self(); ok {
		owner := &c.Index.Items[i]
		return dirs + "/" + ownerPage(owner.Kind, owner.Name) + anchor(it)
	}
	if i, ok := it.Parent.Foreign(); ok {
		entry := c.Index.Paths[i]
		return dirs + "/" + ownerPage(entry.Kind, entry.Name) + anchor(it)
	}

	if it.Kind == index.KindModule {
		return dirs + "/" + it.Name + "/index.html"
	}
	return dirs + "/" + it.Kind.Tag() + "." + it.Name + ".html"
}

func ownerPage(kind index.ItemKind, name string) string {
	return kind.Tag() + "." + name + ".html"
}

func anchor(it *index.Item) string {
	return "#" + it.Kind.Tag() + "." + it.Name
}

// Link is one entry of a crate's full simple-path → URL mapping.
type Link struct {
	Path string
	URL  string
	Kind index.ItemKind
}

// AllLinks generates the complete mapping for a decoded crate, one link per
// item in decode order. This is the bulk form of Build used to persist a
// crate's links.
func AllLinks(id CrateID, c *index.Crate) []Link {
	links := make([]Link, 0, len(c.Index.Items))
	for i := range c.Index.Items {
		it := &c.Index.Items[i]
		if it.Name == "" {
			continue
		}
		links = append(links, Link{
			Path: c.Index.JoinedPath(i),
			URL:  id.Base() + "/" + itemPage(c, it),
			Kind: it.Kind,
		})
	}
	return links
}
