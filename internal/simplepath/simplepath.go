// Package simplepath parses Rust simple paths such as
// "anyhow::Context::with_context": ordered identifier segments without
// generic arguments. Parsing is purely lexical and never consults an index;
// whether a syntactically valid path resolves to anything is a separate
// question.
package simplepath

import (
	"errors"
	"fmt"
	"strings"
	"unicode"
	"unicode/utf8"
)

// ErrEmptyPath is returned for the empty input string.
var ErrEmptyPath = errors.New("simplepath: empty path")

// InvalidSegmentError reports a segment that is not a valid identifier:
// empty (doubled or trailing separators), keyword, or containing disallowed
// code points.
type InvalidSegmentError struct {
	Segment string
}

func (e *InvalidSegmentError) Error() string {
	if e.Segment == "" {
		return "simplepath: empty path segment"
	}
	return fmt.Sprintf("simplepath: segment %q is not a valid identifier", e.Segment)
}

// Segment is one identifier of a path. Raw identifiers (r#type) are carried
// with the marker stripped so matching sees the bare name, and the flag
// preserved so String can round-trip the original spelling.
type Segment struct {
	Name string
	Raw  bool
}

// Path is a non-empty, ordered sequence of validated segments. A path of a
// single segment denotes the crate root.
type Path struct {
	segments []Segment
	rooted   bool
}

// Parse validates a simple path. A leading "::" (fully qualified from the
// crate root) is accepted and remembered but has no effect on matching.
func Parse(s string) (Path, error) {
	if s == "" {
		return Path{}, ErrEmptyPath
	}

	rooted := strings.HasPrefix(s, "::")
	rest := strings.TrimPrefix(s, "::")
	if rest == "" {
		return Path{}, &InvalidSegmentError{}
	}

	parts := strings.Split(rest, "::")
	segments := make([]Segment, 0, len(parts))
	for _, part := range parts {
		seg, ok := parseSegment(part)
		if !ok {
			return Path{}, &InvalidSegmentError{Segment: part}
		}
		segments = append(segments, seg)
	}
	return Path{segments: segments, rooted: rooted}, nil
}

// Segments returns the validated segments in order.
func (p Path) Segments() []Segment { return p.segments }

// Names returns the segment names with raw markers stripped, the form used
// for matching against an index.
func (p Path) Names() []string {
	names := make([]string, len(p.segments))
	for i, seg := range p.segments {
		names[i] = seg.Name
	}
	return names
}

// CrateName is the first segment, naming the crate the path belongs to.
func (p Path) CrateName() string {
	if len(p.segments) == 0 {
		return ""
	}
	return p.segments[0].Name
}

// IsCrateOnly reports whether the path names just the crate and no item.
func (p Path) IsCrateOnly() bool { return len(p.segments) == 1 }

// IsStd reports whether the path belongs to a standard library crate.
func (p Path) IsStd() bool { return IsStdCrate(p.CrateName()) }

// String reconstructs the path, restoring raw-identifier markers and the
// leading separator when present.
func (p Path) String() string {
	var b strings.Builder
	if p.rooted {
		b.WriteString("::")
	}
	for i, seg := range p.segments {
		if i > 0 {
			b.WriteString("::")
		}
		if seg.Raw {
			b.WriteString("r#")
		}
		b.WriteString(seg.Name)
	}
	return b.String()
}

// stdCrates are the crates hosted on doc.rust-lang.org rather than docs.rs.
var stdCrates = map[string]bool{
	"std":        true,
	"core":       true,
	"alloc":      true,
	"proc_macro": true,
	"test":       true,
}

// IsStdCrate reports whether name is a standard library crate.
func IsStdCrate(name string) bool { return stdCrates[name] }

// parseSegment validates one segment: either a raw identifier or a
// non-keyword identifier.
func parseSegment(s string) (Segment, bool) {
	if raw, found := strings.CutPrefix(s, "r#"); found {
		// crate/self/super/Self cannot be raw identifiers.
		if !isIdentOrKeyword(raw) || pathKeywords[raw] {
			return Segment{}, false
		}
		return Segment{Name: raw, Raw: true}, true
	}
	if !isIdentOrKeyword(s) || strictKeywords[s] || reservedKeywords[s] {
		return Segment{}, false
	}
	return Segment{Name: s}, true
}

// isIdentOrKeyword checks the identifier-or-keyword production: an
// identifier-start code point followed by identifier-continue code points,
// or an underscore followed by at least one identifier-continue code point.
// "_" alone is not an identifier.
func isIdentOrKeyword(s string) bool {
	first, size := utf8.DecodeRuneInString(s)
	switch {
	case first == utf8.RuneError && size <= 1:
		return false
	case first == '_':
		if len(s) == size {
			return false
		}
	case !isIdentStart(first):
		return false
	}
	for _, r := range s[size:] {
		if !isIdentContinue(r) {
			return false
		}
	}
	return true
}

func isIdentStart(r rune) bool {
	return unicode.IsLetter(r)
}

func isIdentContinue(r rune) bool {
	return r == '_' || unicode.IsLetter(r) || unicode.IsDigit(r)
}

var strictKeywords = keywordSet(
	"as", "break", "const", "continue", "crate", "else", "enum", "extern",
	"false", "fn", "for", "if", "impl", "in", "let", "loop", "match", "mod",
	"move", "mut", "pub", "ref", "return", "self", "Self", "static", "struct",
	"super", "trait", "true", "type", "unsafe", "use", "where", "while",
	"async", "await", "dyn",
)

var reservedKeywords = keywordSet(
	"abstract", "become", "box", "do", "final", "macro", "override", "priv",
	"typeof", "unsized", "virtual", "yield",
)

// pathKeywords can never appear as raw identifiers.
var pathKeywords = keywordSet("crate", "self", "super", "Self")

func keywordSet(words ...string) map[string]bool {
	set := make(map[string]bool, len(words))
	for _, w := range words {
		set[w] = true
	}
	return set
}
