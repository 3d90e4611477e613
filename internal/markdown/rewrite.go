// Package markdown finds rust: scheme links in markdown documents and
// rewrites them to resolved documentation URLs.
package markdown

import (
	"strings"

	gm "github.com/gomarkdown/markdown"
	"github.com/gomarkdown/markdown/ast"
	gmparser "github.com/gomarkdown/markdown/parser"
)

// Scheme marks a link destination as a simple path to resolve, e.g.
// [Error](rust:anyhow::Error).
const Scheme = "rust:"

// PathOf strips the scheme from a destination, reporting whether the
// destination was a rust: link at all.
func PathOf(dest string) (string, bool) {
	return strings.CutPrefix(dest, Scheme)
}

// CollectRustLinks returns the unique rust: destinations of a document in
// order of first appearance, scheme included.
func CollectRustLinks(src string) []string {
	var dests []string
	seen := make(map[string]bool)
	walkLinks(src, func(dest string) {
		if !strings.HasPrefix(dest, Scheme) || seen[dest] {
			return
		}
		seen[dest] = true
		dests = append(dests, dest)
	})
	return dests
}

// RewriteLinks replaces link destinations according to the resolved map.
// The markdown is parsed only to discover which destinations actually occur
// as links; the replacement itself is textual so the original formatting
// survives untouched.
func RewriteLinks(src string, resolved map[string]string) string {
	if len(resolved) == 0 {
		return src
	}

	type replacement struct{ old, new string }
	var replacements []replacement
	seen := make(map[string]bool)
	walkLinks(src, func(dest string) {
		if url, ok := resolved[dest]; ok && !seen[dest] {
			seen[dest] = true
			replacements = append(replacements, replacement{dest, url})
		}
	})
	if len(replacements) == 0 {
		return src
	}

	result := src

	// Inline links: [text](destination) or [text](destination "title")
	for _, r := range replacements {
		result = strings.ReplaceAll(result, "]("+r.old+")", "]("+r.new+")")
		result = strings.ReplaceAll(result, "]("+r.old+" ", "]("+r.new+" ")
	}

	// Reference-style definitions: [ref]: destination, with an optional
	// title after the destination.
	lines := strings.Split(result, "\n")
	for i, line := range lines {
		for _, r := range replacements {
			marker := "]: " + r.old
			idx := strings.Index(line, marker)
			if idx < 0 {
				continue
			}
			rest := line[idx+len(marker):]
			if rest == "" || rest[0] == ' ' || rest[0] == '\t' {
				lines[i] = strings.Replace(line, marker, "]: "+r.new, 1)
				break
			}
		}
	}
	return strings.Join(lines, "\n")
}

func walkLinks(src string, visit func(dest string)) {
	doc := gm.Parse([]byte(src), gmparser.NewWithExtensions(
		gmparser.CommonExtensions|gmparser.Autolink,
	))
	ast.WalkFunc(doc, func(node ast.Node, entering bool) ast.WalkStatus {
		if !entering {
			return ast.GoToNext
		}
		if link, ok := node.(*ast.Link); ok {
			visit(string(link.Destination))
		}
		return ast.GoToNext
	})
}
