package docpath

import (
	"fmt"
	"strconv"
	"strings"
	"unicode"

	"github.com/jsonpeek/jsonpeek/internal/errors"
	"github.com/jsonpeek/jsonpeek/internal/models"
)

// DefaultRoot is the binding name paths are rendered against when the
// configuration does not override it.
const DefaultRoot = "data"

// Segment is one step of a Path: either an object key or a non-negative
// array index.
type Segment struct {
	key   string
	index int
	isKey bool
}

// Key builds a key segment.
func Key(k string) Segment { return Segment{key: k, isKey: true} }

// Index builds an index segment.
func Index(i int) Segment { return Segment{index: i} }

// IsKey reports whether the segment addresses an object member.
func (s Segment) IsKey() bool { return s.isKey }

// Key returns the object key of a key segment ("" for index segments).
func (s Segment) Key() string { return s.key }

// Index returns the array index of an index segment (0 for key segments).
func (s Segment) Index() int { return s.index }

// Label is the display form of the segment: the key itself, or the index in
// brackets.
func (s Segment) Label() string {
	if s.isKey {
		return s.key
	}
	return "[" + strconv.Itoa(s.index) + "]"
}

// Path is an ordered sequence of segments locating a value inside a parsed
// document. The empty path is the document root. Paths compare structurally
// and are independent of any document instance.
type Path []Segment

// IsRoot reports whether the path addresses the document root.
func (p Path) IsRoot() bool { return len(p) == 0 }

// Append returns a new path with seg added; the receiver is never aliased,
// so derived paths cannot mutate each other.
func (p Path) Append(seg Segment) Path {
	out := make(Path, len(p), len(p)+1)
	copy(out, p)
	return append(out, seg)
}

// Equal reports segment-wise equality.
func (p Path) Equal(other Path) bool {
	if len(p) != len(other) {
		return false
	}
	for i := range p {
		if p[i] != other[i] {
			return false
		}
	}
	return true
}

// String renders a stable serialization usable as a UI identity key, e.g.
// ["users",0,"name"]. Keys are quoted and indices are not, so the key "0"
// and the index 0 never collide.
func (p Path) String() string {
	var b strings.Builder
	b.WriteByte('[')
	for i, seg := range p {
		if i > 0 {
			b.WriteByte(',')
		}
		if seg.isKey {
			b.WriteString(strconv.Quote(seg.key))
		} else {
			b.WriteString(strconv.Itoa(seg.index))
		}
	}
	b.WriteByte(']')
	return b.String()
}

// Resolve walks the document segment by segment. A miss at any step returns
// false rather than panicking: a stale path against a replaced document is
// an expected, non-fatal condition.
func (p Path) Resolve(doc models.Value) (models.Value, bool) {
	cur := doc
	for _, seg := range p {
		var (
			next models.Value
			ok   bool
		)
		if seg.isKey {
			next, ok = cur.Get(seg.key)
		} else {
			next, ok = cur.At(seg.index)
		}
		if !ok {
			return models.Value{}, false
		}
		cur = next
	}
	return cur, true
}

// Notations are the derived access spellings for a path.
type Notations struct {
	Member      string
	Indexed     string
	Safe        string
	Description string
}

// Notations renders the path against the given root binding name. For the
// empty path every notation is the root binding itself. Index segments
// always render as [n]. Key segments render as .key in member and safe
// notation when the key is a valid bare identifier, as ['key'] otherwise,
// and always as ["key"] in indexed notation. Safe notation puts the
// null-propagating ?. before every segment.
func (p Path) Notations(root string) Notations {
	if root == "" {
		root = DefaultRoot
	}
	if len(p) == 0 {
		return Notations{
			Member:      root,
			Indexed:     root,
			Safe:        root,
			Description: "document root",
		}
	}

	var member, indexed, safe, desc strings.Builder
	member.WriteString(root)
	indexed.WriteString(root)
	safe.WriteString(root)

	for i, seg := range p {
		if i > 0 {
			desc.WriteString(" → ")
		}
		if seg.isKey {
			if IsBareIdentifier(seg.key) {
				member.WriteString("." + seg.key)
				safe.WriteString("?." + seg.key)
			} else {
				bracket := "[" + quoteSingle(seg.key) + "]"
				member.WriteString(bracket)
				safe.WriteString("?." + bracket)
			}
			indexed.WriteString("[" + strconv.Quote(seg.key) + "]")
			fmt.Fprintf(&desc, "property %q", seg.key)
		} else {
			idx := "[" + strconv.Itoa(seg.index) + "]"
			member.WriteString(idx)
			indexed.WriteString(idx)
			safe.WriteString("?." + idx)
			fmt.Fprintf(&desc, "element at index %d", seg.index)
		}
	}

	return Notations{
		Member:      member.String(),
		Indexed:     indexed.String(),
		Safe:        safe.String(),
		Description: desc.String(),
	}
}

// IsBareIdentifier reports whether key can follow a dot without quoting:
// a letter, underscore or dollar first, letters, digits, underscores or
// dollars after.
func IsBareIdentifier(key string) bool {
	if key == "" {
		return false
	}
	for i, r := range key {
		if i == 0 {
			if !unicode.IsLetter(r) && r != '_' && r != '$' {
				return false
			}
			continue
		}
		if !unicode.IsLetter(r) && !unicode.IsDigit(r) && r != '_' && r != '$' {
			return false
		}
	}
	return true
}

// quoteSingle renders key as a single-quoted string literal for bracket
// notation, escaping backslashes and single quotes.
func quoteSingle(key string) string {
	var b strings.Builder
	b.WriteByte('\'')
	for i := 0; i < len(key); i++ {
		switch key[i] {
		case '\\', '\'':
			b.WriteByte('\\')
		}
		b.WriteByte(key[i])
	}
	b.WriteByte('\'')
	return b.String()
}

// Parse reads a path expression in member or indexed spelling, for example
// users[0].name or ["users"][0]["name"]. Dotted all-digit segments are
// treated as indices. The empty string is the root path.
func Parse(expr string) (Path, error) {
	s := strings.TrimSpace(expr)
	if s == "" {
		return Path{}, nil
	}

	var path Path
	i := 0
	for i < len(s) {
		switch s[i] {
		case '.':
			i++
		case '[':
			j := closingBracket(s, i)
			if j < 0 {
				return nil, errors.NewPathError(
					fmt.Sprintf("unterminated '[' at position %d in %q", i, expr),
					errors.ErrInvalidPath,
				)
			}
			seg, err := bracketSegment(s[i+1 : j])
			if err != nil {
				return nil, errors.NewPathError(
					fmt.Sprintf("bad bracket segment in %q", expr),
					err,
				)
			}
			path = append(path, seg)
			i = j + 1
		default:
			j := i
			for j < len(s) && s[j] != '.' && s[j] != '[' {
				j++
			}
			tok := s[i:j]
			if n, err := strconv.Atoi(tok); err == nil && n >= 0 {
				path = append(path, Index(n))
			} else {
				path = append(path, Key(tok))
			}
			i = j
		}
	}
	return path, nil
}

// closingBracket finds the index of the ']' matching the '[' at open,
// honoring quoted content; -1 when unmatched.
func closingBracket(s string, open int) int {
	var quote byte
	escaped := false
	for i := open + 1; i < len(s); i++ {
		c := s[i]
		if quote != 0 {
			switch {
			case escaped:
				escaped = false
			case c == '\\':
				escaped = true
			case c == quote:
				quote = 0
			}
			continue
		}
		switch c {
		case '\'', '"':
			quote = c
		case ']':
			return i
		}
	}
	return -1
}

// bracketSegment interprets the content between brackets: an integer is an
// index, quoted content is a key, and anything else is taken as a bare key.
func bracketSegment(inner string) (Segment, error) {
	trimmed := strings.TrimSpace(inner)
	if trimmed == "" {
		return Segment{}, errors.ErrInvalidPath
	}
	if n, err := strconv.Atoi(trimmed); err == nil {
		if n < 0 {
			return Segment{}, errors.ErrInvalidPath
		}
		return Index(n), nil
	}
	if len(trimmed) >= 2 {
		first := trimmed[0]
		last := trimmed[len(trimmed)-1]
		if (first == '\'' && last == '\'') || (first == '"' && last == '"') {
			key, err := unquote(trimmed[1:len(trimmed)-1], first)
			if err != nil {
				return Segment{}, err
			}
			return Key(key), nil
		}
	}
	return Key(trimmed), nil
}

// unquote undoes the backslash escaping of a quoted bracket segment.
func unquote(s string, quote byte) (string, error) {
	var b strings.Builder
	escaped := false
	for i := 0; i < len(s); i++ {
		c := s[i]
		if escaped {
			b.WriteByte(c)
			escaped = false
			continue
		}
		if c == '\\' {
			escaped = true
			continue
		}
		if c == quote {
			return "", errors.ErrInvalidPath
		}
		b.WriteByte(c)
	}
	if escaped {
		return "", errors.ErrInvalidPath
	}
	return b.String(), nil
}
