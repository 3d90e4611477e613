package index

import (
	"encoding/json"
	"strings"
)

// decodeV2 handles the middle generation, which packs each item into one
// positional tuple instead of parallel columns:
//
//	"anyhow":{"doc":"...","i":[[3,"Error","anyhow","The error type",0,null],...],"p":[[3,"Error"]]}
//
// Absent tuple fields are null; the module path field reuses the previous
// item's value when empty, exactly as in V3.
func decodeV2(data []byte) ([]Crate, error) {
	if !strings.HasSuffix(string(data), v2Suffix) {
		return nil, decodeErrf(V2, -1, "missing addSearchOptions terminator")
	}

	body, lines := extractJSONLines(data)
	if lines == 0 {
		return nil, decodeErrf(V2, -1, "no crate data lines in payload")
	}

	var raw map[string]rawCrateV2
	if err := json.Unmarshal([]byte(body), &raw); err != nil {
		return nil, &DecodeError{Version: V2, Offset: -1, Msg: "deserializing crate JSON", Err: err}
	}

	crates := make([]Crate, 0, len(raw))
	for name, rc := range raw {
		c, err := rc.toRawCrate().normalize(V2, name)
		if err != nil {
			return nil, err
		}
		crates = append(crates, c)
	}
	return crates, nil
}

type rawCrateV2 struct {
	Doc string      `json:"doc"`
	I   []entryV2   `json:"i"`
	P   []PathEntry `json:"p"`
}

// toRawCrate spreads the tuples back into the column form shared with V3.
func (rc *rawCrateV2) toRawCrate() *rawCrate {
	out := &rawCrate{
		doc:     rc.Doc,
		kinds:   make([]ItemKind, len(rc.I)),
		names:   make([]string, len(rc.I)),
		paths:   make(map[int]string),
		descs:   make([]string, len(rc.I)),
		parents: make([]int, len(rc.I)),
		entries: rc.P,
	}
	for i, e := range rc.I {
		out.kinds[i] = e.kind
		out.names[i] = e.name
		if e.path != "" {
			out.paths[i] = e.path
		}
		out.descs[i] = e.desc
		out.parents[i] = e.parent
	}
	return out
}

// entryV2 is one item tuple: (kind code, name, module path, description,
// parent index, search type). Only the kind code is mandatory; the trailing
// search-type element is carried by the payload but not by us.
type entryV2 struct {
	kind   ItemKind
	name   string
	path   string
	desc   string
	parent int
}

func (e *entryV2) UnmarshalJSON(data []byte) error {
	var tuple []json.RawMessage
	if err := json.Unmarshal(data, &tuple); err != nil {
		return err
	}
	if len(tuple) < 5 {
		return decodeErrf(V2, -1, "item tuple with %d elements, need at least 5", len(tuple))
	}

	var code int
	if err := json.Unmarshal(tuple[0], &code); err != nil {
		return err
	}
	kind, ok := kindFromCode(code)
	if !ok {
		return decodeErrf(V2, -1, "unknown kind code %d", code)
	}
	e.kind = kind

	if err := unmarshalOptString(tuple[1], &e.name); err != nil {
		return err
	}
	if err := unmarshalOptString(tuple[2], &e.path); err != nil {
		return err
	}
	if err := unmarshalOptString(tuple[3], &e.desc); err != nil {
		return err
	}
	if !isJSONNull(tuple[4]) {
		if err := json.Unmarshal(tuple[4], &e.parent); err != nil {
			return err
		}
	}
	return nil
}

func unmarshalOptString(data json.RawMessage, dst *string) error {
	if isJSONNull(data) {
		return nil
	}
	return json.Unmarshal(data, dst)
}

func isJSONNull(data json.RawMessage) bool {
	return len(data) == 0 || string(data) == "null"
}
