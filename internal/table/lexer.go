// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package table

import (
	"bytes"
	"strconv"
)

// tokenKind classifies a lexical token of a PDF content stream or CMap.
type tokenKind int

const (
	tokNumber tokenKind = iota
	tokName
	tokString
	tokArrayStart
	tokArrayEnd
	tokDictStart
	tokDictEnd
	tokOperator
)

// token is one lexical element. For strings raw holds the decoded bytes
// (escapes resolved, hex converted); for names and operators text holds
// the name without its slash or the keyword.
type token struct {
	kind tokenKind
	text string
	num  float64
	raw  []byte
	hex  bool
}

// lexer splits PDF content syntax into tokens.
type lexer struct {
	data []byte
	pos  int
}

func newLexer(data []byte) *lexer {
	return &lexer{data: data}
}

func isPDFSpace(c byte) bool {
	switch c {
	case 0, '\t', '\n', '\f', '\r', ' ':
		return true
	}
	return false
}

func isPDFDelim(c byte) bool {
	switch c {
	case '(', ')', '<', '>', '[', ']', '{', '}', '/', '%':
		return true
	}
	return false
}

// next returns the next token, or false at end of input.
func (l *lexer) next() (token, bool) {
	for l.pos < len(l.data) {
		c := l.data[l.pos]
		switch {
		case isPDFSpace(c):
			l.pos++
		case c == '%':
			for l.pos < len(l.data) && l.data[l.pos] != '\n' && l.data[l.pos] != '\r' {
				l.pos++
			}
		case c == '(':
			l.pos++
			return token{kind: tokString, raw: l.literal()}, true
		case c == '<':
			if l.peek(1) == '<' {
				l.pos += 2
				return token{kind: tokDictStart}, true
			}
			l.pos++
			return token{kind: tokString, raw: l.hexString(), hex: true}, true
		case c == '>':
			l.pos++
			if l.pos < len(l.data) && l.data[l.pos] == '>' {
				l.pos++
			}
			return token{kind: tokDictEnd}, true
		case c == '[':
			l.pos++
			return token{kind: tokArrayStart}, true
		case c == ']':
			l.pos++
			return token{kind: tokArrayEnd}, true
		case c == '{' || c == '}':
			l.pos++
		case c == '/':
			l.pos++
			return token{kind: tokName, text: l.name()}, true
		default:
			word := l.regular()
			if n, err := strconv.ParseFloat(word, 64); err == nil {
				return token{kind: tokNumber, num: n, text: word}, true
			}
			return token{kind: tokOperator, text: word}, true
		}
	}
	return token{}, false
}

func (l *lexer) peek(off int) byte {
	if l.pos+off < len(l.data) {
		return l.data[l.pos+off]
	}
	return 0
}

func (l *lexer) regular() string {
	start := l.pos
	for l.pos < len(l.data) && !isPDFSpace(l.data[l.pos]) && !isPDFDelim(l.data[l.pos]) {
		l.pos++
	}
	if l.pos == start {
		// Stray delimiter; consume it so the lexer always advances.
		l.pos++
	}
	return string(l.data[start:l.pos])
}

func (l *lexer) name() string {
	var b bytes.Buffer
	for l.pos < len(l.data) && !isPDFSpace(l.data[l.pos]) && !isPDFDelim(l.data[l.pos]) {
		c := l.data[l.pos]
		if c == '#' && l.pos+2 < len(l.data) {
			if v, err := strconv.ParseUint(string(l.data[l.pos+1:l.pos+3]), 16, 8); err == nil {
				b.WriteByte(byte(v))
				l.pos += 3
				continue
			}
		}
		b.WriteByte(c)
		l.pos++
	}
	return b.String()
}

// literal reads a (string) body after the opening parenthesis.
func (l *lexer) literal() []byte {
	var b bytes.Buffer
	depth := 1
	for l.pos < len(l.data) {
		c := l.data[l.pos]
		l.pos++
		switch c {
		case '(':
			depth++
			b.WriteByte(c)
		case ')':
			depth--
			if depth == 0 {
				return b.Bytes()
			}
			b.WriteByte(c)
		case '\\':
			if l.pos >= len(l.data) {
				return b.Bytes()
			}
			e := l.data[l.pos]
			l.pos++
			switch e {
			case 'n':
				b.WriteByte('\n')
			case 'r':
				b.WriteByte('\r')
			case 't':
				b.WriteByte('\t')
			case 'b':
				b.WriteByte('\b')
			case 'f':
				b.WriteByte('\f')
			case '\r':
				// Line continuation; swallow a following \n too.
				if l.pos < len(l.data) && l.data[l.pos] == '\n' {
					l.pos++
				}
			case '\n':
			default:
				if e >= '0' && e <= '7' {
					val := int(e - '0')
					for i := 0; i < 2 && l.pos < len(l.data) && l.data[l.pos] >= '0' && l.data[l.pos] <= '7'; i++ {
						val = val*8 + int(l.data[l.pos]-'0')
						l.pos++
					}
					b.WriteByte(byte(val))
				} else {
					b.WriteByte(e)
				}
			}
		default:
			b.WriteByte(c)
		}
	}
	return b.Bytes()
}

// hexString reads a <hex> body after the opening angle bracket.
func (l *lexer) hexString() []byte {
	var digits []byte
	for l.pos < len(l.data) {
		c := l.data[l.pos]
		l.pos++
		if c == '>' {
			break
		}
		if isHexDigit(c) {
			digits = append(digits, c)
		}
	}
	if len(digits)%2 == 1 {
		digits = append(digits, '0')
	}
	out := make([]byte, len(digits)/2)
	for i := range out {
		out[i] = hexVal(digits[2*i])<<4 | hexVal(digits[2*i+1])
	}
	return out
}

// skipInlineImage advances past inline image data up to and including the
// EI operator. Called right after the ID operator.
func (l *lexer) skipInlineImage() {
	if l.pos < len(l.data) && isPDFSpace(l.data[l.pos]) {
		l.pos++
	}
	for l.pos+1 < len(l.data) {
		if l.data[l.pos] == 'E' && l.data[l.pos+1] == 'I' &&
			(l.pos == 0 || isPDFSpace(l.data[l.pos-1])) &&
			(l.pos+2 >= len(l.data) || isPDFSpace(l.data[l.pos+2])) {
			l.pos += 2
			return
		}
		l.pos++
	}
	l.pos = len(l.data)
}

func isHexDigit(c byte) bool {
	return (c >= '0' && c <= '9') || (c >= 'a' && c <= 'f') || (c >= 'A' && c <= 'F')
}

func hexVal(c byte) byte {
	switch {
	case c >= '0' && c <= '9':
		return c - '0'
	case c >= 'a' && c <= 'f':
		return c - 'a' + 10
	default:
		return c - 'A' + 10
	}
}
