package index

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

// Version tags a payload generation. Higher is newer.
type Version uint8

const (
	VersionUnknown Version = iota
	V1
	V2
	V3
)

func (v Version) String() string {
	switch v {
	case V1:
		return "v1"
	case V2:
		return "v2"
	case V3:
		return "v3"
	}
	return "unknown"
}

// Structural markers emitted by the corresponding rustdoc generations.
const (
	v1Prefix  = `var N=null,E="",T="t",U="u",searchIndex={};`
	v2Suffix  = `addSearchOptions(searchIndex);initSearch(searchIndex);`
	v3Suffix  = `if (window.initSearch) {window.initSearch(searchIndex)};`
	v3SuffixB = `if (typeof exports !== 'undefined') {exports.searchIndex = searchIndex};`
)

// DetectVersion inspects a payload's leading and trailing markers. It is a
// cheap shortcut for the decode dispatch; VersionUnknown means only that no
// marker matched, not that the payload is undecodable.
func DetectVersion(data []byte) Version {
	s := string(data)
	switch {
	case strings.HasPrefix(s, v1Prefix):
		return V1
	case strings.HasSuffix(s, v2Suffix):
		return V2
	case strings.HasSuffix(s, v3Suffix),
		strings.HasSuffix(strings.TrimRight(s, " \t\r\n"), v3SuffixB):
		return V3
	}
	return VersionUnknown
}

// DecodeError reports a payload that could not be decoded as a particular
// generation.
type DecodeError struct {
	Version Version
	// Offset is the byte offset of the offending input, or -1 when the
	// failure is not positional (e.g. a shape mismatch after JSON parsing).
	Offset int
	Msg    string
	Err    error
}

func (e *DecodeError) Error() string {
	var b strings.Builder
	fmt.Fprintf(&b, "index %s: %s", e.Version, e.Msg)
	if e.Offset >= 0 {
		fmt.Fprintf(&b, " at offset %d", e.Offset)
	}
	if e.Err != nil {
		fmt.Fprintf(&b, ": %v", e.Err)
	}
	return b.String()
}

func (e *DecodeError) Unwrap() error { return e.Err }

func decodeErrf(v Version, offset int, format string, args ...any) *DecodeError {
	return &DecodeError{Version: v, Offset: offset, Msg: fmt.Sprintf(format, args...)}
}

// Decode parses a search-index payload into its crates, sorted by name.
// Decoders are attempted newest-first; a hint (or a detected marker) moves
// the matching generation to the front. Each generation's failure is only a
// signal to try the next candidate, and the combined error surfaces once
// every candidate is exhausted.
func Decode(data []byte, hint Version) ([]Crate, error) {
	order := []Version{V3, V2, V1}
	first := hint
	if first == VersionUnknown {
		first = DetectVersion(data)
	}
	if first != VersionUnknown {
		reordered := []Version{first}
		for _, v := range order {
			if v != first {
				reordered = append(reordered, v)
			}
		}
		order = reordered
	}

	var errs []error
	for _, v := range order {
		var (
			crates []Crate
			err    error
		)
		switch v {
		case V3:
			crates, err = decodeV3(data)
		case V2:
			crates, err = decodeV2(data)
		case V1:
			crates, err = decodeV1(data)
		}
		if err == nil {
			sort.Slice(crates, func(i, j int) bool { return crates[i].Name < crates[j].Name })
			return crates, nil
		}
		errs = append(errs, err)
	}
	return nil, fmt.Errorf("unsupported index payload: %w", errors.Join(errs...))
}

// extractJSONLines rebuilds the JSON object embedded in a V2/V3 payload.
// Each crate sits on its own line starting with a double quote and ending
// with a backslash continuation; the decoder joins those lines, restores
// the object delimiters and reverses rustdoc's escaping of the JS string
// literal the object was embedded in.
func extractJSONLines(data []byte) (string, int) {
	var b strings.Builder
	b.WriteByte('{')
	count := 0
	for _, line := range strings.Split(string(data), "\n") {
		if !strings.HasPrefix(line, `"`) {
			continue
		}
		body, found := strings.CutSuffix(line, `\`)
		if !found {
			continue
		}
		b.WriteString(body)
		count++
	}
	b.WriteByte('}')

	json := b.String()
	json = strings.ReplaceAll(json, `\\"`, `\"`)
	json = strings.ReplaceAll(json, `\'`, `'`)
	json = strings.ReplaceAll(json, `\\`, `\`)
	return json, count
}

// rawCrate is the generation-independent column form every decoder reduces
// to before normalization: parallel per-item columns plus the parents table.
type rawCrate struct {
	doc     string
	kinds   []ItemKind
	names   []string
	paths   map[int]string // item position → module path, only where it changes
	descs   []string
	parents []int // 1-based index into the paths table, 0 = no parent
	entries []PathEntry
}

// normalize folds the raw columns into items. Module paths use the previous
// item's value when absent, so a "last seen path" accumulator threads
// through the walk. Parent indexes are rebased to 0 and bounds-checked, then
// classified as local or foreign.
func (rc *rawCrate) normalize(v Version, name string) (Crate, error) {
	n := len(rc.kinds)
	for _, l := range []int{len(rc.names), len(rc.descs), len(rc.parents)} {
		if l < n {
			n = l
		}
	}

	items := make([]Item, 0, n)
	lastPath := ""
	for i := 0; i < n; i++ {
		if p, ok := rc.paths[i]; ok {
			lastPath = p
		}
		parent := NoParent()
		if raw := rc.parents[i]; raw > 0 {
			idx := raw - 1
			if idx >= len(rc.entries) {
				return Crate{}, decodeErrf(v, -1,
					"crate %q item %d: parent reference %d outside paths table of length %d",
					name, i, idx, len(rc.entries))
			}
			parent = ForeignRef(idx)
		}
		items = append(items, Item{
			Kind:       rc.kinds[i],
			Name:       rc.names[i],
			ModulePath: lastPath,
			Desc:       rc.descs[i],
			Parent:     parent,
		})
	}

	localizeParents(items, rc.entries)

	return Crate{
		Name: name,
		Doc:  rc.doc,
		Index: Index{
			Items: items,
			Paths: rc.entries,
		},
	}, nil
}

// localizeParents upgrades foreign references to local ones where the owner
// is itself documented in this crate: the paths-table entry's kind and name
// match an item living in the child's own module. First match in decode
// order wins so repeated decodes stay identical.
func localizeParents(items []Item, entries []PathEntry) {
	type ownerKey struct {
		kind ItemKind
		name string
		path string
	}
	owners := make(map[ownerKey]int)
	for i, it := range items {
		k := ownerKey{it.Kind, it.Name, it.ModulePath}
		if _, seen := owners[k]; !seen {
			owners[k] = i
		}
	}
	for i := range items {
		fi, ok := items[i].Parent.Foreign()
		if !ok {
			continue
		}
		entry := entries[fi]
		if j, ok := owners[ownerKey{entry.Kind, entry.Name, items[i].ModulePath}]; ok {
			items[i].Parent = SelfRef(j)
		}
	}
}
