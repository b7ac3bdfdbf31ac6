// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package table

import (
	"sort"
	"unicode/utf16"
	"unicode/utf8"
)

// maxRangeExpansion caps how many codes a single bfrange may define.
const maxRangeExpansion = 1 << 16

// toUnicode is a parsed ToUnicode CMap: character code to text.
type toUnicode struct {
	codeLens []int // distinct code byte lengths from the codespace, ascending
	codes    map[string]string
}

// parseCMap reads the codespace, bfchar and bfrange sections of a
// ToUnicode CMap stream. Unknown operators are ignored.
func parseCMap(data []byte) *toUnicode {
	cm := &toUnicode{codes: make(map[string]string)}
	lex := newLexer(data)
	seenLen := make(map[int]bool)
	addLen := func(n int) {
		if n > 0 && !seenLen[n] {
			seenLen[n] = true
			cm.codeLens = append(cm.codeLens, n)
		}
	}

	var operands []token
	for {
		tok, ok := lex.next()
		if !ok {
			break
		}
		if tok.kind != tokOperator {
			operands = append(operands, tok)
			continue
		}
		switch tok.text {
		case "begincodespacerange", "beginbfchar", "beginbfrange":
			operands = operands[:0]
		case "endcodespacerange":
			for i := 0; i+1 < len(operands); i += 2 {
				addLen(len(operands[i].raw))
			}
			operands = operands[:0]
		case "endbfchar":
			for i := 0; i+1 < len(operands); i += 2 {
				src, dst := operands[i], operands[i+1]
				if src.kind != tokString {
					continue
				}
				addLen(len(src.raw))
				cm.codes[string(src.raw)] = cmapText(dst)
			}
			operands = operands[:0]
		case "endbfrange":
			cm.addRanges(operands, addLen)
			operands = operands[:0]
		default:
			operands = operands[:0]
		}
	}
	sort.Ints(cm.codeLens)
	return cm
}

// addRanges handles "<lo> <hi> <dst>" and "<lo> <hi> [<d0> <d1> ...]"
// entries. Array operands arrive flattened between array tokens.
func (cm *toUnicode) addRanges(ops []token, addLen func(int)) {
	for i := 0; i+2 < len(ops); {
		lo, hi := ops[i], ops[i+1]
		if lo.kind != tokString || hi.kind != tokString || len(lo.raw) != len(hi.raw) {
			i++
			continue
		}
		addLen(len(lo.raw))
		start, end := codeValue(lo.raw), codeValue(hi.raw)
		if end < start || end-start >= maxRangeExpansion {
			i += 3
			continue
		}

		if ops[i+2].kind == tokArrayStart {
			j := i + 3
			code := start
			for ; j < len(ops) && ops[j].kind != tokArrayEnd; j++ {
				if code <= end {
					cm.codes[string(codeBytes(code, len(lo.raw)))] = cmapText(ops[j])
				}
				code++
			}
			i = j + 1
			continue
		}

		dst := utf16Units(ops[i+2].raw)
		for code := start; code <= end; code++ {
			units := append([]uint16(nil), dst...)
			if len(units) > 0 {
				units[len(units)-1] += uint16(code - start)
			}
			cm.codes[string(codeBytes(code, len(lo.raw)))] = string(utf16.Decode(units))
		}
		i += 3
	}
}

// decode maps b through the CMap. It reports false when some code had no
// mapping; the returned text then holds only the mapped codes.
func (cm *toUnicode) decode(b []byte) (string, bool) {
	if cm == nil || len(cm.codes) == 0 || len(cm.codeLens) == 0 {
		return "", false
	}
	var out []byte
	complete := true
	for i := 0; i < len(b); {
		matched := false
		for _, n := range cm.codeLens {
			if i+n > len(b) {
				break
			}
			if text, ok := cm.codes[string(b[i:i+n])]; ok {
				out = append(out, text...)
				i += n
				matched = true
				break
			}
		}
		if !matched {
			complete = false
			i += cm.codeLens[len(cm.codeLens)-1]
		}
	}
	return string(out), complete
}

func cmapText(t token) string {
	if t.kind == tokName {
		return t.text
	}
	return string(utf16.Decode(utf16Units(t.raw)))
}

func utf16Units(b []byte) []uint16 {
	units := make([]uint16, 0, len(b)/2)
	for i := 0; i+1 < len(b); i += 2 {
		units = append(units, uint16(b[i])<<8|uint16(b[i+1]))
	}
	return units
}

func codeValue(b []byte) uint32 {
	var v uint32
	for _, c := range b {
		v = v<<8 | uint32(c)
	}
	return v
}

func codeBytes(v uint32, n int) []byte {
	out := make([]byte, n)
	for i := n - 1; i >= 0; i-- {
		out[i] = byte(v)
		v >>= 8
	}
	return out
}

// decodeFallback turns string bytes into text when no CMap applies: UTF-16
// with a byte order mark, UTF-8 when valid, otherwise one rune per byte.
func decodeFallback(b []byte) string {
	if len(b) >= 2 && b[0] == 0xFE && b[1] == 0xFF {
		return string(utf16.Decode(utf16Units(b[2:])))
	}
	if utf8.Valid(b) {
		return string(b)
	}
	runes := make([]rune, len(b))
	for i, c := range b {
		runes[i] = rune(c)
	}
	return string(runes)
}
