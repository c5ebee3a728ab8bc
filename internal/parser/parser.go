package parser

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	stderrors "errors"

	"github.com/jsonpeek/jsonpeek/internal/models"
)

// ErrorKind classifies parse failures.
type ErrorKind string

const (
	// KindEmptyInput marks input that is empty or whitespace-only.
	KindEmptyInput ErrorKind = "empty_input"
	// KindSyntax marks any strict-grammar violation.
	KindSyntax ErrorKind = "syntax"
)

// ParseError describes a failed parse attempt. Offset is the byte offset the
// decoder reported for the offending character, or -1 when the failure
// carries no position (for example an unexpected end of input). Line and
// Column are 1-based and are 0 when no offset was recoverable.
type ParseError struct {
	Kind    ErrorKind
	Message string
	Offset  int
	Line    int
	Column  int
}

// Error implements error interface
func (e *ParseError) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("%s at line %d, column %d", e.Message, e.Line, e.Column)
	}
	return e.Message
}

// HasOffset reports whether the error carries a usable byte offset.
func (e *ParseError) HasOffset() bool {
	return e.Offset >= 0
}

// Outcome is the result of a parse attempt. Parsing never panics and never
// returns a partial document: either OK is true and Doc holds the value, or
// OK is false and Err describes the failure.
type Outcome struct {
	OK  bool
	Doc models.Value
	Err *ParseError
}

// Parse runs the strict JSON grammar over text and builds the ordered
// document model. Object member order is the order of first appearance; a
// duplicate key replaces the earlier value in place, matching how strict
// parsers resolve duplicates.
func Parse(text string) Outcome {
	if strings.TrimSpace(text) == "" {
		return Outcome{Err: &ParseError{
			Kind:    KindEmptyInput,
			Message: "input is empty or contains only whitespace",
			Offset:  -1,
		}}
	}

	dec := json.NewDecoder(strings.NewReader(text))
	dec.UseNumber()

	doc, err := decodeValue(dec)
	if err != nil {
		return Outcome{Err: classifyError(text, err)}
	}

	// A strict document is exactly one top-level value. The decoder itself
	// accepts value streams, so probe for trailing content explicitly.
	end := int(dec.InputOffset())
	if _, err := dec.Token(); !stderrors.Is(err, io.EOF) {
		if err != nil {
			return Outcome{Err: classifyError(text, err)}
		}
		pos := trailingStart(text, end)
		return Outcome{Err: syntaxErrorAt(text, "multiple JSON values found at the root", pos)}
	}

	return Outcome{OK: true, Doc: doc}
}

// ParseReader reads everything from r and parses it. Read failures surface
// as the returned error; parse failures live inside the Outcome.
func ParseReader(r io.Reader) (Outcome, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return Outcome{}, err
	}
	return Parse(string(data)), nil
}

// decodeValue consumes exactly one JSON value from the token stream.
func decodeValue(dec *json.Decoder) (models.Value, error) {
	tok, err := dec.Token()
	if err != nil {
		return models.Value{}, err
	}
	return valueFromToken(dec, tok)
}

func valueFromToken(dec *json.Decoder, tok json.Token) (models.Value, error) {
	switch t := tok.(type) {
	case json.Delim:
		switch t {
		case '{':
			return decodeObject(dec)
		case '[':
			return decodeArray(dec)
		}
		// Token guarantees matched delimiters; a bare closer cannot reach
		// this point.
		return models.Value{}, fmt.Errorf("unexpected delimiter %q", t.String())
	case string:
		return models.NewString(t), nil
	case json.Number:
		return models.NewNumber(t), nil
	case bool:
		return models.NewBool(t), nil
	case nil:
		return models.NewNull(), nil
	default:
		return models.Value{}, fmt.Errorf("unexpected token %v", tok)
	}
}

func decodeObject(dec *json.Decoder) (models.Value, error) {
	obj := models.Value{Kind: models.Object, Members: []models.Member{}}
	for dec.More() {
		keyTok, err := dec.Token()
		if err != nil {
			return models.Value{}, err
		}
		key, ok := keyTok.(string)
		if !ok {
			return models.Value{}, fmt.Errorf("object key is not a string: %v", keyTok)
		}
		val, err := decodeValue(dec)
		if err != nil {
			return models.Value{}, err
		}
		obj.SetMember(key, val)
	}
	// Consume the closing brace.
	if _, err := dec.Token(); err != nil {
		return models.Value{}, err
	}
	return obj, nil
}

func decodeArray(dec *json.Decoder) (models.Value, error) {
	arr := models.Value{Kind: models.Array, Elems: []models.Value{}}
	for dec.More() {
		elem, err := decodeValue(dec)
		if err != nil {
			return models.Value{}, err
		}
		arr.Elems = append(arr.Elems, elem)
	}
	// Consume the closing bracket.
	if _, err := dec.Token(); err != nil {
		return models.Value{}, err
	}
	return arr, nil
}

// classifyError turns a decoder error into a ParseError, extracting the byte
// offset when the error carries one.
func classifyError(text string, err error) *ParseError {
	var syntaxErr *json.SyntaxError
	if stderrors.As(err, &syntaxErr) {
		return syntaxErrorAt(text, syntaxErr.Error(), int(syntaxErr.Offset))
	}
	if stderrors.Is(err, io.EOF) || stderrors.Is(err, io.ErrUnexpectedEOF) {
		return &ParseError{
			Kind:    KindSyntax,
			Message: "unexpected end of JSON input",
			Offset:  -1,
		}
	}
	return &ParseError{
		Kind:    KindSyntax,
		Message: err.Error(),
		Offset:  -1,
	}
}

func syntaxErrorAt(text, message string, offset int) *ParseError {
	if offset < 0 {
		offset = 0
	}
	if offset > len(text) {
		offset = len(text)
	}
	line, column := LineColumn(text, offset)
	return &ParseError{
		Kind:    KindSyntax,
		Message: message,
		Offset:  offset,
		Line:    line,
		Column:  column,
	}
}

// LineColumn converts a byte offset into 1-based line and column numbers by
// counting newlines in the preceding text.
func LineColumn(text string, offset int) (line, column int) {
	line, column = 1, 1
	for i := 0; i < offset && i < len(text); i++ {
		if text[i] == '\n' {
			line++
			column = 1
		} else {
			column++
		}
	}
	return line, column
}

// trailingStart finds the first non-space byte at or after from, which is
// where unexpected trailing content begins.
func trailingStart(text string, from int) int {
	for i := from; i < len(text); i++ {
		switch text[i] {
		case ' ', '\t', '\n', '\r':
			continue
		default:
			return i
		}
	}
	return len(text)
}
