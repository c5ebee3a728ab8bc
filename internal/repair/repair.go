package repair

import (
	"fmt"
	"regexp"

	"github.com/jsonpeek/jsonpeek/internal/parser"
)

// MaxIterations bounds the error-driven repair loop. Termination is by
// budget, not by convergence: no single heuristic guarantees progress toward
// a valid document.
const MaxIterations = 10

// Outcome is the result of a repair run. Text is the best text produced;
// it may still fail to parse when the iteration budget ran out or no
// strategy matched the remaining error. Records is an ordered, human-readable
// log of every transformation applied, for reporting only.
type Outcome struct {
	Text    string
	Records []string
}

// Markers left behind when a prior serialization stringified values it could
// not represent. These are rewritten unconditionally wherever they appear.
var (
	objectMarkerRe  = regexp.MustCompile(`\[object Object\]`)
	arrayMarkerRe   = regexp.MustCompile(`\[object Array\]`)
	quotedMarkerRe  = regexp.MustCompile(`"Object"`)
	trailingCommaRe = regexp.MustCompile(`,(\s*[\]}])`)
)

// Repair attempts to move malformed JSON toward parseable text. Phase one
// applies unconditional pattern rewrites; phase two repeatedly parses and
// applies one single-character, position-anchored edit per iteration until
// the text parses, no strategy matches, or the budget is exhausted. Repair
// never fails: the worst outcome is the input returned unchanged with an
// empty record log. Callers re-parse the result to learn whether it
// succeeded.
func Repair(text string) Outcome {
	var records []string
	text, records = rewritePatterns(text, records)

	for i := 0; i < MaxIterations; i++ {
		out := parser.Parse(text)
		if out.OK {
			break
		}
		if out.Err.Kind != parser.KindSyntax || !out.Err.HasOffset() {
			break
		}
		ed, ok := classifyAt(text, out.Err.Offset)
		if !ok {
			break
		}
		text = ed.apply(text)
		records = append(records, ed.describe())
	}

	return Outcome{Text: text, Records: records}
}

// rewritePatterns is the pattern phase: each rule runs once over the whole
// text and contributes a single record carrying its match count.
func rewritePatterns(text string, records []string) (string, []string) {
	if n := len(objectMarkerRe.FindAllStringIndex(text, -1)); n > 0 {
		text = objectMarkerRe.ReplaceAllString(text, "{}")
		records = append(records, fmt.Sprintf("Replaced %d non-serializable object marker(s) with {}", n))
	}
	if n := len(arrayMarkerRe.FindAllStringIndex(text, -1)); n > 0 {
		text = arrayMarkerRe.ReplaceAllString(text, "[{}]")
		records = append(records, fmt.Sprintf("Replaced %d stringified array marker(s) with [{}]", n))
	}
	if n := len(quotedMarkerRe.FindAllStringIndex(text, -1)); n > 0 {
		text = quotedMarkerRe.ReplaceAllString(text, "{}")
		records = append(records, fmt.Sprintf("Replaced %d quoted object marker(s) with {}", n))
	}
	if n := len(trailingCommaRe.FindAllStringIndex(text, -1)); n > 0 {
		text = trailingCommaRe.ReplaceAllString(text, "$1")
		records = append(records, fmt.Sprintf("Removed %d trailing comma(s)", n))
	}
	return text, records
}

type editOp int

const (
	opInsert editOp = iota
	opDelete
)

// edit is one single-character repair: an insertion before position at, or a
// deletion of the byte at position at.
type edit struct {
	op   editOp
	at   int
	ins  byte
	desc string
}

func (e edit) apply(text string) string {
	switch e.op {
	case opInsert:
		return text[:e.at] + string(e.ins) + text[e.at:]
	default:
		return text[:e.at] + text[e.at+1:]
	}
}

func (e edit) describe() string {
	return e.desc
}

// classifyAt resolves an error offset to a repair edit. Decoder offsets
// sometimes point one byte past the offending character depending on which
// internal scanner produced the error, so the position before the offset is
// tried as a fallback.
func classifyAt(text string, offset int) (edit, bool) {
	if ed, ok := classify(text, offset); ok {
		return ed, true
	}
	return classify(text, offset-1)
}

// classify inspects the structural context of pos and picks the first
// matching strategy, in fixed precedence order: missing colon, missing
// comma, duplicated character, stray quote.
func classify(text string, pos int) (edit, bool) {
	if pos < 0 || pos >= len(text) {
		return edit{}, false
	}
	c := text[pos]
	st := scanTo(text, pos)

	// Missing colon: inside an object, a key string has closed, no separator
	// has been seen since the opening brace or the previous comma, and a
	// value begins instead of the expected colon. The colon goes right after
	// the key, before any intervening whitespace.
	if !st.inString && st.innermost() == '{' &&
		(st.lastStructural == '{' || st.lastStructural == ',') &&
		st.prevNonSpace == '"' && c != ':' && isValueStart(c) {
		at := st.prevNonSpaceIdx + 1
		return edit{
			op:   opInsert,
			at:   at,
			ins:  ':',
			desc: fmt.Sprintf("Inserted missing ':' at position %d", at),
		}, true
	}

	// Missing comma: a complete value is followed directly by the start of
	// the next object member or array element.
	if !st.inString && isValueEnd(st.prevNonSpace) {
		objectComma := st.innermost() == '{' && c == '"' &&
			(st.lastStructural == ':' || st.lastStructural == '}' || st.lastStructural == ']')
		arrayComma := st.innermost() == '[' && isValueStart(c)
		if objectComma || arrayComma {
			at := st.prevNonSpaceIdx + 1
			return edit{
				op:   opInsert,
				at:   at,
				ins:  ',',
				desc: fmt.Sprintf("Inserted missing ',' at position %d", at),
			}, true
		}
	}

	// Duplicated adjacent character: deleting the second occurrence undoes
	// a doubled comma, brace or similar typo.
	if pos > 0 && text[pos-1] == c && !isSpace(c) {
		return edit{
			op:   opDelete,
			at:   pos,
			desc: fmt.Sprintf("Removed duplicated character '%c' at position %d", c, pos),
		}, true
	}

	// Stray quote: either the error sits on a quote that the scan places
	// inside an open string, or the document's unescaped quotes do not pair
	// up (the scan of the full text ends inside a string), in which case the
	// quote that closed the most recent string is the intruder.
	if c == '"' && st.inString {
		return edit{
			op:   opInsert,
			at:   pos,
			ins:  '\\',
			desc: fmt.Sprintf("Escaped stray quote at position %d", pos),
		}, true
	}
	if full := scanTo(text, len(text)); full.inString && st.lastStringClose >= 0 {
		at := st.lastStringClose
		return edit{
			op:   opInsert,
			at:   at,
			ins:  '\\',
			desc: fmt.Sprintf("Escaped stray quote at position %d", at),
		}, true
	}

	return edit{}, false
}
