package index

import (
	"fmt"
	"strconv"
	"strings"
	"unicode/utf16"
)

// The oldest generation is not JSON but a restricted JavaScript program:
//
//	var N=null,E="",T="t",U="u",searchIndex={};
//	var R=["string","table",...];
//	searchIndex["anyhow"]={"doc":R[0],"i":[[3,"Error",E,R[1],0,N],...],"p":[...]};
//	initSearch(searchIndex);
//
// Short variables alias frequent literals and R[n] back-references index a
// shared string table. The parser here resolves aliases and references
// eagerly, producing a plain value tree with no symbolic references left,
// and reports failures with the offending byte offset. Field semantics stay
// out of this file; the V1 decoder maps tree shapes onto the typed model.

type valueKind uint8

const (
	valNull valueKind = iota
	valBool
	valInt
	valStr
	valArray
	valObject
)

// value is a node of the generic tree the V1 grammar parses into.
type value struct {
	kind valueKind
	b    bool
	n    int
	s    string
	arr  []value
	obj  map[string]value
}

func nullValue() value          { return value{kind: valNull} }
func strValue(s string) value   { return value{kind: valStr, s: s} }
func intValue(n int) value      { return value{kind: valInt, n: n} }
func arrayValue(a []value) value { return value{kind: valArray, arr: a} }

func (v value) String() string {
	switch v.kind {
	case valNull:
		return "null"
	case valBool:
		return strconv.FormatBool(v.b)
	case valInt:
		return strconv.Itoa(v.n)
	case valStr:
		return strconv.Quote(v.s)
	case valArray:
		return fmt.Sprintf("array[%d]", len(v.arr))
	case valObject:
		return fmt.Sprintf("object[%d]", len(v.obj))
	}
	return "invalid"
}

// jsParser is a single-pass parser over the whole payload. Variable
// declarations populate the alias and array tables as they are seen, so a
// reference is resolvable exactly when its variable was declared earlier.
type jsParser struct {
	src     string
	pos     int
	aliases map[string]value
	arrays  map[string][]value
}

func newJSParser(src string) *jsParser {
	return &jsParser{
		src:     src,
		aliases: make(map[string]value),
		arrays:  make(map[string][]value),
	}
}

func (p *jsParser) errf(offset int, format string, args ...any) *DecodeError {
	return decodeErrf(V1, offset, format, args...)
}

// parseProgram consumes the statements of the payload and returns the crate
// objects assigned into the searchIndex variable, in assignment order.
func (p *jsParser) parseProgram() ([]string, map[string]value, error) {
	var order []string
	crates := make(map[string]value)

	for {
		p.skipWS()
		if p.pos >= len(p.src) {
			return order, crates, nil
		}

		ident, err := p.ident()
		if err != nil {
			return nil, nil, err
		}

		switch {
		case ident == "var":
			if err := p.varDecl(); err != nil {
				return nil, nil, err
			}
		case p.peek() == '[':
			name, val, err := p.indexAssign()
			if err != nil {
				return nil, nil, err
			}
			if _, seen := crates[name]; !seen {
				order = append(order, name)
			}
			crates[name] = val
		case p.peek() == '(':
			// Trailing initSearch(...)/addSearchOptions(...) calls.
			if err := p.callStmt(); err != nil {
				return nil, nil, err
			}
		default:
			return nil, nil, p.errf(p.pos, "unexpected token after identifier %q", ident)
		}
	}
}

// varDecl parses `name = value` pairs up to the closing semicolon. Array
// values become referenceable tables, everything else a scalar alias.
func (p *jsParser) varDecl() error {
	for {
		p.skipWS()
		name, err := p.ident()
		if err != nil {
			return err
		}
		if err := p.expect('='); err != nil {
			return err
		}
		val, err := p.value()
		if err != nil {
			return err
		}
		if val.kind == valArray {
			p.arrays[name] = val.arr
		} else {
			p.aliases[name] = val
		}

		p.skipWS()
		switch p.peek() {
		case ',':
			p.pos++
		case ';':
			p.pos++
			return nil
		default:
			return p.errf(p.pos, "expected `,` or `;` in var declaration")
		}
	}
}

// indexAssign parses `["name"]=value;` following an identifier.
func (p *jsParser) indexAssign() (string, value, error) {
	p.pos++ // [
	p.skipWS()
	if p.peek() != '"' {
		return "", value{}, p.errf(p.pos, "expected string key in index assignment")
	}
	key, err := p.stringLit()
	if err != nil {
		return "", value{}, err
	}
	if err := p.expect(']'); err != nil {
		return "", value{}, err
	}
	if err := p.expect('='); err != nil {
		return "", value{}, err
	}
	val, err := p.value()
	if err != nil {
		return "", value{}, err
	}
	if err := p.expect(';'); err != nil {
		return "", value{}, err
	}
	return key, val, nil
}

// callStmt skips a `name(arg,...)": the arguments carry no index data.
func (p *jsParser) callStmt() error {
	p.pos++ // (
	depth := 1
	for p.pos < len(p.src) {
		switch p.src[p.pos] {
		case '(':
			depth++
		case ')':
			depth--
			if depth == 0 {
				p.pos++
				p.skipWS()
				if p.peek() == ';' {
					p.pos++
				}
				return nil
			}
		}
		p.pos++
	}
	return p.errf(p.pos, "unterminated call")
}

func (p *jsParser) value() (value, error) {
	p.skipWS()
	if p.pos >= len(p.src) {
		return value{}, p.errf(p.pos, "unexpected end of input, expected value")
	}

	c := p.src[p.pos]
	switch {
	case c == '"':
		s, err := p.stringLit()
		if err != nil {
			return value{}, err
		}
		return strValue(s), nil
	case c >= '0' && c <= '9':
		return p.intLit()
	case c == '[':
		return p.arrayLit()
	case c == '{':
		return p.objectLit()
	case isIdentStart(c):
		return p.identValue()
	}
	return value{}, p.errf(p.pos, "unexpected character %q", string(c))
}

// identValue resolves a bare identifier: a literal keyword, a reference
// `name[int]` into a previously declared array, or a scalar alias.
func (p *jsParser) identValue() (value, error) {
	start := p.pos
	name, err := p.ident()
	if err != nil {
		return value{}, err
	}

	switch name {
	case "null":
		return nullValue(), nil
	case "true":
		return value{kind: valBool, b: true}, nil
	case "false":
		return value{kind: valBool, b: false}, nil
	}

	p.skipWS()
	if p.peek() == '[' {
		table, ok := p.arrays[name]
		if !ok {
			return value{}, p.errf(start, "reference into undeclared array %q", name)
		}
		p.pos++ // [
		idxVal, err := p.intLit()
		if err != nil {
			return value{}, err
		}
		if err := p.expect(']'); err != nil {
			return value{}, err
		}
		if idxVal.n >= len(table) {
			return value{}, p.errf(start, "reference %s[%d] outside table of length %d", name, idxVal.n, len(table))
		}
		return table[idxVal.n], nil
	}

	if v, ok := p.aliases[name]; ok {
		return v, nil
	}
	return value{}, p.errf(start, "unresolvable identifier %q", name)
}

func (p *jsParser) arrayLit() (value, error) {
	p.pos++ // [
	var elems []value
	for {
		p.skipWS()
		if p.peek() == ']' {
			p.pos++
			return arrayValue(elems), nil
		}
		el, err := p.value()
		if err != nil {
			return value{}, err
		}
		elems = append(elems, el)

		p.skipWS()
		switch p.peek() {
		case ',':
			p.pos++ // trailing commas tolerated via the `]` check above
		case ']':
			p.pos++
			return arrayValue(elems), nil
		default:
			return value{}, p.errf(p.pos, "expected `,` or `]` in array")
		}
	}
}

func (p *jsParser) objectLit() (value, error) {
	p.pos++ // {
	obj := make(map[string]value)
	for {
		p.skipWS()
		if p.peek() == '}' {
			p.pos++
			return value{kind: valObject, obj: obj}, nil
		}
		if p.peek() != '"' {
			return value{}, p.errf(p.pos, "expected string key in object")
		}
		key, err := p.stringLit()
		if err != nil {
			return value{}, err
		}
		if err := p.expect(':'); err != nil {
			return value{}, err
		}
		val, err := p.value()
		if err != nil {
			return value{}, err
		}
		obj[key] = val

		p.skipWS()
		switch p.peek() {
		case ',':
			p.pos++
		case '}':
			p.pos++
			return value{kind: valObject, obj: obj}, nil
		default:
			return value{}, p.errf(p.pos, "expected `,` or `}` in object")
		}
	}
}

// stringLit parses a double-quoted string. Escapes follow the JSON set;
// HTML entity text inside descriptions passes through verbatim.
func (p *jsParser) stringLit() (string, error) {
	start := p.pos
	p.pos++ // "
	var b strings.Builder
	for p.pos < len(p.src) {
		c := p.src[p.pos]
		switch c {
		case '"':
			p.pos++
			return b.String(), nil
		case '\\':
			p.pos++
			if p.pos >= len(p.src) {
				return "", p.errf(start, "unterminated string")
			}
			esc := p.src[p.pos]
			p.pos++
			switch esc {
			case '"', '\\', '/':
				b.WriteByte(esc)
			case 'b':
				b.WriteByte('\b')
			case 'f':
				b.WriteByte('\f')
			case 'n':
				b.WriteByte('\n')
			case 'r':
				b.WriteByte('\r')
			case 't':
				b.WriteByte('\t')
			case 'u':
				r, err := p.unicodeEscape()
				if err != nil {
					return "", err
				}
				b.WriteRune(r)
			default:
				return "", p.errf(p.pos-1, "invalid escape `\\%s`", string(esc))
			}
		default:
			b.WriteByte(c)
			p.pos++
		}
	}
	return "", p.errf(start, "unterminated string")
}

func (p *jsParser) unicodeEscape() (rune, error) {
	if p.pos+4 > len(p.src) {
		return 0, p.errf(p.pos, "truncated unicode escape")
	}
	hex := p.src[p.pos : p.pos+4]
	n, err := strconv.ParseUint(hex, 16, 32)
	if err != nil {
		return 0, p.errf(p.pos, "invalid unicode escape %q", hex)
	}
	p.pos += 4

	r := rune(n)
	if utf16.IsSurrogate(r) && p.pos+6 <= len(p.src) && p.src[p.pos] == '\\' && p.src[p.pos+1] == 'u' {
		if lo, err := strconv.ParseUint(p.src[p.pos+2:p.pos+6], 16, 32); err == nil {
			if combined := utf16.DecodeRune(r, rune(lo)); combined != 0xFFFD {
				p.pos += 6
				return combined, nil
			}
		}
	}
	if utf16.IsSurrogate(r) {
		return 0xFFFD, nil
	}
	return r, nil
}

func (p *jsParser) intLit() (value, error) {
	p.skipWS()
	start := p.pos
	for p.pos < len(p.src) && p.src[p.pos] >= '0' && p.src[p.pos] <= '9' {
		p.pos++
	}
	if p.pos == start {
		return value{}, p.errf(start, "expected integer")
	}
	n, err := strconv.Atoi(p.src[start:p.pos])
	if err != nil {
		return value{}, p.errf(start, "invalid integer %q", p.src[start:p.pos])
	}
	return intValue(n), nil
}

func (p *jsParser) ident() (string, error) {
	start := p.pos
	if p.pos >= len(p.src) || !isIdentStart(p.src[p.pos]) {
		return "", p.errf(start, "expected identifier")
	}
	p.pos++
	for p.pos < len(p.src) && isIdentContinue(p.src[p.pos]) {
		p.pos++
	}
	return p.src[start:p.pos], nil
}

func (p *jsParser) expect(c byte) error {
	p.skipWS()
	if p.peek() != c {
		return p.errf(p.pos, "expected %q", string(c))
	}
	p.pos++
	return nil
}

func (p *jsParser) peek() byte {
	if p.pos >= len(p.src) {
		return 0
	}
	return p.src[p.pos]
}

func (p *jsParser) skipWS() {
	for p.pos < len(p.src) {
		switch p.src[p.pos] {
		case ' ', '\t', '\r', '\n':
			p.pos++
		default:
			return
		}
	}
}

func isIdentStart(c byte) bool {
	return c == '_' || c == '$' || (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}

func isIdentContinue(c byte) bool {
	return isIdentStart(c) || (c >= '0' && c <= '9')
}
