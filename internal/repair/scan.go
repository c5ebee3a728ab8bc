package repair

// scanState is the structural context of a byte position, produced by a
// single forward walk from the start of the text. It is the basis for
// classifying what kind of syntax defect sits at an error offset, instead of
// pattern-matching the wording of a particular parser's messages.
type scanState struct {
	inString        bool
	stack           []byte // open containers, '{' or '['
	lastStructural  byte   // last of { } [ ] , : seen outside strings, 0 if none
	prevNonSpace    byte   // last non-space byte before the target, 0 if none
	prevNonSpaceIdx int
	lastStringClose int // index of the quote that closed the most recent string, -1 if none
}

// scanTo walks text up to (not including) pos, tracking string state with
// backslash-escape awareness and the nesting of braces and brackets.
func scanTo(text string, pos int) scanState {
	st := scanState{prevNonSpaceIdx: -1, lastStringClose: -1}
	escaped := false
	for i := 0; i < pos && i < len(text); i++ {
		c := text[i]
		if st.inString {
			switch {
			case escaped:
				escaped = false
			case c == '\\':
				escaped = true
			case c == '"':
				st.inString = false
				st.lastStringClose = i
			}
			st.prevNonSpace = c
			st.prevNonSpaceIdx = i
			continue
		}
		switch c {
		case '"':
			st.inString = true
		case '{', '[':
			st.stack = append(st.stack, c)
			st.lastStructural = c
		case '}', ']':
			if n := len(st.stack); n > 0 {
				st.stack = st.stack[:n-1]
			}
			st.lastStructural = c
		case ',', ':':
			st.lastStructural = c
		}
		if !isSpace(c) {
			st.prevNonSpace = c
			st.prevNonSpaceIdx = i
		}
	}
	return st
}

// innermost returns the container currently open at the scanned position, or
// 0 at the top level.
func (s scanState) innermost() byte {
	if len(s.stack) == 0 {
		return 0
	}
	return s.stack[len(s.stack)-1]
}

func isSpace(c byte) bool {
	return c == ' ' || c == '\t' || c == '\n' || c == '\r'
}

// isValueStart reports whether c can begin a JSON value.
func isValueStart(c byte) bool {
	switch c {
	case '"', '{', '[', '-', 't', 'f', 'n':
		return true
	}
	return c >= '0' && c <= '9'
}

// isValueEnd reports whether c can be the last byte of a complete JSON
// value: a closing quote or bracket, a digit, or the final letter of one of
// the literals (true, false, null).
func isValueEnd(c byte) bool {
	switch c {
	case '"', '}', ']', 'e', 'l':
		return true
	}
	return c >= '0' && c <= '9'
}
