package lang

import (
	"fmt"
	"io"
	"strconv"
	"strings"
)

// ReadError reports malformed source text.
type ReadError struct {
	Pos int
	Msg string
}

func (e *ReadError) Error() string {
	return fmt.Sprintf("read error at offset %d: %s", e.Pos, e.Msg)
}

// ReadForm reads the next top-level form from text, starting at cursor, and
// returns the form together with the cursor just past it. Once only
// whitespace and comments remain it returns io.EOF.
func ReadForm(text string, cursor int) (Form, int, error) {
	pos := skipBlank(text, cursor)
	if pos >= len(text) {
		return nil, pos, io.EOF
	}
	return readAt(text, pos)
}

// DefaultReader is the built-in s-expression reader. Host-side compiler
// implementations may replace it with their own.
type DefaultReader struct{}

func (DefaultReader) ReadForm(text string, cursor int) (Form, int, error) {
	return ReadForm(text, cursor)
}

func skipBlank(text string, pos int) int {
	for pos < len(text) {
		switch text[pos] {
		case ';':
			for pos < len(text) && text[pos] != '\n' {
				pos++
			}
		case ' ', '\t', '\n', '\r':
			pos++
		default:
			return pos
		}
	}
	return pos
}

func readAt(text string, pos int) (Form, int, error) {
	switch text[pos] {
	case '(':
		return readList(text, pos)
	case ')':
		return nil, pos, &ReadError{Pos: pos, Msg: "unexpected )"}
	case '\'':
		inner := skipBlank(text, pos+1)
		if inner >= len(text) {
			return nil, inner, &ReadError{Pos: pos, Msg: "quote without a form"}
		}
		form, next, err := readAt(text, inner)
		if err != nil {
			return nil, next, err
		}
		return List{Items: []Form{Symbol{Name: "quote"}, form}}, next, nil
	case '"':
		return readString(text, pos)
	default:
		return readAtom(text, pos), atomEnd(text, pos), nil
	}
}

func readList(text string, pos int) (Form, int, error) {
	open := pos
	pos++
	var items []Form
	for {
		pos = skipBlank(text, pos)
		if pos >= len(text) {
			return nil, pos, &ReadError{Pos: open, Msg: "unterminated list"}
		}
		if text[pos] == ')' {
			return List{Items: items}, pos + 1, nil
		}
		item, next, err := readAt(text, pos)
		if err != nil {
			return nil, next, err
		}
		items = append(items, item)
		pos = next
	}
}

func readString(text string, pos int) (Form, int, error) {
	open := pos
	pos++
	var sb strings.Builder
	for pos < len(text) {
		c := text[pos]
		switch c {
		case '"':
			return Str{Value: sb.String()}, pos + 1, nil
		case '\\':
			if pos+1 >= len(text) {
				return nil, pos, &ReadError{Pos: open, Msg: "unterminated string"}
			}
			pos++
			switch text[pos] {
			case 'n':
				sb.WriteByte('\n')
			case 't':
				sb.WriteByte('\t')
			case 'r':
				sb.WriteByte('\r')
			default:
				// \" and \\ fall through here, as does any other escape
				sb.WriteByte(text[pos])
			}
		default:
			sb.WriteByte(c)
		}
		pos++
	}
	return nil, pos, &ReadError{Pos: open, Msg: "unterminated string"}
}

func atomEnd(text string, pos int) int {
	for pos < len(text) {
		switch text[pos] {
		case ' ', '\t', '\n', '\r', '(', ')', ';', '"', '\'':
			return pos
		}
		pos++
	}
	return pos
}

func readAtom(text string, pos int) Form {
	token := text[pos:atomEnd(text, pos)]
	if v, err := strconv.ParseFloat(token, 64); err == nil {
		return Num{Value: v}
	}
	return Symbol{Name: token}
}
