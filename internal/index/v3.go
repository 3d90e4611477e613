package index

import (
	"encoding/json"
	"strings"
)

// decodeV3 handles the newest supported generation. The payload embeds one
// JSON object per crate with parallel columns:
//
//	"anyhow":{"doc":"...","t":"CD...","n":[..],"q":[..],"d":[..],"i":[..],"f":[..],"p":[..]}
//
// t is either an array of kind codes or a string of ASCII shorthand, q omits
// module paths identical to the previous item and may alternatively carry
// explicit (position, path) pairs.
func decodeV3(data []byte) ([]Crate, error) {
	s := string(data)
	if !strings.HasSuffix(s, v3Suffix) &&
		!strings.HasSuffix(strings.TrimRight(s, " \t\r\n"), v3SuffixB) {
		return nil, decodeErrf(V3, -1, "missing searchIndex terminator")
	}

	body, lines := extractJSONLines(data)
	if lines == 0 {
		return nil, decodeErrf(V3, -1, "no crate data lines in payload")
	}

	var raw map[string]rawCrateV3
	if err := json.Unmarshal([]byte(body), &raw); err != nil {
		return nil, &DecodeError{Version: V3, Offset: -1, Msg: "deserializing crate JSON", Err: err}
	}

	crates := make([]Crate, 0, len(raw))
	for name, rc := range raw {
		c, err := rc.toRawCrate().normalize(V3, name)
		if err != nil {
			return nil, err
		}
		crates = append(crates, c)
	}
	return crates, nil
}

type rawCrateV3 struct {
	Doc string    `json:"doc"`
	T   kindList  `json:"t"`
	N   []string  `json:"n"`
	Q   pathTable `json:"q"`
	D   []string  `json:"d"`
	I   []int     `json:"i"`
	P   []PathEntry
}

// UnmarshalJSON rejects shapes belonging to other generations (notably the
// V2 tuple form of "i") instead of zero-filling them.
func (rc *rawCrateV3) UnmarshalJSON(data []byte) error {
	type alias struct {
		Doc string          `json:"doc"`
		T   kindList        `json:"t"`
		N   []string        `json:"n"`
		Q   pathTable       `json:"q"`
		D   []string        `json:"d"`
		I   []int           `json:"i"`
		P   []PathEntry     `json:"p"`
		F   json.RawMessage `json:"f"` // search types, unused
	}
	var a alias
	if err := json.Unmarshal(data, &a); err != nil {
		return err
	}
	if a.N == nil || a.I == nil {
		return decodeErrf(V3, -1, "crate object missing the n/i columns")
	}
	*rc = rawCrateV3{Doc: a.Doc, T: a.T, N: a.N, Q: a.Q, D: a.D, I: a.I, P: a.P}
	return nil
}

func (rc *rawCrateV3) toRawCrate() *rawCrate {
	return &rawCrate{
		doc:     rc.Doc,
		kinds:   rc.T,
		names:   rc.N,
		paths:   rc.Q,
		descs:   rc.D,
		parents: rc.I,
		entries: rc.P,
	}
}

// kindList decodes the t column, which is either an array of numeric kind
// codes or a compact string where byte 'A'+code stands for each code.
type kindList []ItemKind

func (kl *kindList) UnmarshalJSON(data []byte) error {
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		kinds := make([]ItemKind, 0, len(s))
		for _, c := range []byte(s) {
			if c < 'A' || c > 'Z' {
				return decodeErrf(VersionUnknown, -1, "invalid kind shorthand %q", string(c))
			}
			k, ok := kindFromCode(int(c - 'A'))
			if !ok {
				return decodeErrf(VersionUnknown, -1, "unknown kind code %d", c-'A')
			}
			kinds = append(kinds, k)
		}
		*kl = kinds
		return nil
	}

	var codes []int
	if err := json.Unmarshal(data, &codes); err != nil {
		return err
	}
	kinds := make([]ItemKind, 0, len(codes))
	for _, code := range codes {
		k, ok := kindFromCode(code)
		if !ok {
			return decodeErrf(VersionUnknown, -1, "unknown kind code %d", code)
		}
		kinds = append(kinds, k)
	}
	*kl = kinds
	return nil
}

// pathTable decodes the q column into position → module path. Plain strings
// occupy consecutive positions, the empty string standing for "same as the
// previous item". Pairs of (position, path) jump ahead, with subsequent
// plain strings continuing from there.
type pathTable map[int]string

func (pt *pathTable) UnmarshalJSON(data []byte) error {
	var raw []json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	table := make(map[int]string)
	pos := 0
	for _, el := range raw {
		if len(el) > 0 && el[0] == '"' {
			var s string
			if err := json.Unmarshal(el, &s); err != nil {
				return err
			}
			if s != "" {
				table[pos] = s
			}
			pos++
			continue
		}

		var pair []json.RawMessage
		if err := json.Unmarshal(el, &pair); err != nil {
			return err
		}
		if len(pair) != 2 {
			return decodeErrf(VersionUnknown, -1, "path pair with %d elements", len(pair))
		}
		var at int
		var s string
		if err := json.Unmarshal(pair[0], &at); err != nil {
			return err
		}
		if err := json.Unmarshal(pair[1], &s); err != nil {
			return err
		}
		table[at] = s
		pos = at + 1
	}
	*pt = table
	return nil
}

// UnmarshalJSON decodes a paths-table entry, a (kind code, name) pair.
func (pe *PathEntry) UnmarshalJSON(data []byte) error {
	var pair []json.RawMessage
	if err := json.Unmarshal(data, &pair); err != nil {
		return err
	}
	if len(pair) < 2 {
		return decodeErrf(VersionUnknown, -1, "paths entry with %d elements", len(pair))
	}
	var code int
	if err := json.Unmarshal(pair[0], &code); err != nil {
		return err
	}
	kind, ok := kindFromCode(code)
	if !ok {
		return decodeErrf(VersionUnknown, -1, "unknown kind code %d in paths entry", code)
	}
	var name string
	if err := json.Unmarshal(pair[1], &name); err != nil {
		return err
	}
	pe.Kind = kind
	pe.Name = name
	return nil
}
