package index

import "strings"

// decodeV1 handles the oldest supported generation: the JavaScript-like
// program parsed by jsParser. Once alias and reference resolution is done,
// each crate object carries the same doc/i/p shape as V2, so decoding is a
// shape mapping from the generic value tree onto the tuple columns.
func decodeV1(data []byte) ([]Crate, error) {
	src := string(data)
	if !strings.HasPrefix(src, v1Prefix) {
		return nil, decodeErrf(V1, 0, "missing alias preamble")
	}

	order, objects, err := newJSParser(src).parseProgram()
	if err != nil {
		return nil, err
	}
	if len(order) == 0 {
		return nil, decodeErrf(V1, -1, "no searchIndex assignments in payload")
	}

	crates := make([]Crate, 0, len(order))
	for _, name := range order {
		rc, err := crateFromTree(name, objects[name])
		if err != nil {
			return nil, err
		}
		c, err := rc.normalize(V1, name)
		if err != nil {
			return nil, err
		}
		crates = append(crates, c)
	}
	return crates, nil
}

// crateFromTree maps a crate's value tree onto the shared column form. The
// object shape is {"doc": str, "i": [[kind, name, path, desc, parent, f]],
// "p": [[kind, name]]}.
func crateFromTree(name string, v value) (*rawCrate, error) {
	if v.kind != valObject {
		return nil, decodeErrf(V1, -1, "crate %q: expected object, got %s", name, v)
	}

	rc := &rawCrate{paths: make(map[int]string)}

	if doc, ok := v.obj["doc"]; ok {
		if doc.kind != valStr {
			return nil, decodeErrf(V1, -1, "crate %q: doc is %s, expected string", name, doc)
		}
		rc.doc = doc.s
	}

	entries, ok := v.obj["i"]
	if !ok || entries.kind != valArray {
		return nil, decodeErrf(V1, -1, "crate %q: missing item array", name)
	}
	for i, entry := range entries.arr {
		if entry.kind != valArray || len(entry.arr) < 5 {
			return nil, decodeErrf(V1, -1, "crate %q item %d: expected tuple of at least 5 fields", name, i)
		}
		tuple := entry.arr

		if tuple[0].kind != valInt {
			return nil, decodeErrf(V1, -1, "crate %q item %d: kind code is %s", name, i, tuple[0])
		}
		kind, ok := kindFromCode(tuple[0].n)
		if !ok {
			return nil, decodeErrf(V1, -1, "crate %q item %d: unknown kind code %d", name, i, tuple[0].n)
		}
		rc.kinds = append(rc.kinds, kind)

		nameStr, err := treeOptString(name, i, "name", tuple[1])
		if err != nil {
			return nil, err
		}
		rc.names = append(rc.names, nameStr)

		pathStr, err := treeOptString(name, i, "path", tuple[2])
		if err != nil {
			return nil, err
		}
		if pathStr != "" {
			rc.paths[i] = pathStr
		}

		descStr, err := treeOptString(name, i, "desc", tuple[3])
		if err != nil {
			return nil, err
		}
		rc.descs = append(rc.descs, descStr)

		switch tuple[4].kind {
		case valNull:
			rc.parents = append(rc.parents, 0)
		case valInt:
			rc.parents = append(rc.parents, tuple[4].n)
		default:
			return nil, decodeErrf(V1, -1, "crate %q item %d: parent is %s", name, i, tuple[4])
		}
	}

	if paths, ok := v.obj["p"]; ok {
		if paths.kind != valArray {
			return nil, decodeErrf(V1, -1, "crate %q: paths table is %s", name, paths)
		}
		for i, entry := range paths.arr {
			if entry.kind != valArray || len(entry.arr) < 2 ||
				entry.arr[0].kind != valInt || entry.arr[1].kind != valStr {
				return nil, decodeErrf(V1, -1, "crate %q paths entry %d: expected (kind, name) pair", name, i)
			}
			kind, ok := kindFromCode(entry.arr[0].n)
			if !ok {
				return nil, decodeErrf(V1, -1, "crate %q paths entry %d: unknown kind code %d", name, i, entry.arr[0].n)
			}
			rc.entries = append(rc.entries, PathEntry{Kind: kind, Name: entry.arr[1].s})
		}
	}

	return rc, nil
}

func treeOptString(crate string, item int, field string, v value) (string, error) {
	switch v.kind {
	case valNull:
		return "", nil
	case valStr:
		return v.s, nil
	}
	return "", decodeErrf(V1, -1, "crate %q item %d: %s is %s, expected string or null", crate, item, field, v)
}
