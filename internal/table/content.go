// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package table

import (
	"math"
	"strings"
	"unicode"
)

// textRun is a piece of text shown at one position, in device space.
type textRun struct {
	X, Y float64
	W    float64 // estimated advance width
	Size float64 // effective font size
	Text string
}

// matrix is a PDF transformation [a b c d e f].
type matrix [6]float64

var identity = matrix{1, 0, 0, 1, 0, 0}

func translate(tx, ty float64) matrix {
	return matrix{1, 0, 0, 1, tx, ty}
}

// mul returns m × n.
func (m matrix) mul(n matrix) matrix {
	return matrix{
		m[0]*n[0] + m[1]*n[2],
		m[0]*n[1] + m[1]*n[3],
		m[2]*n[0] + m[3]*n[2],
		m[2]*n[1] + m[3]*n[3],
		m[4]*n[0] + m[5]*n[2] + n[4],
		m[4]*n[1] + m[5]*n[3] + n[5],
	}
}

// graphicsState is the part of the PDF graphics state that q/Q save.
type graphicsState struct {
	ctm       matrix
	font      string
	size      float64
	charSpace float64
	wordSpace float64
	leading   float64
	hscale    float64
}

// minRuleWidth is the shortest horizontal stroke or edge taken as a rule.
const minRuleWidth = 20

// interpreter tracks text positioning and horizontal rules through a
// content stream.
type interpreter struct {
	cmaps   map[string]*toUnicode
	gs      graphicsState
	stack   []graphicsState
	tm, tlm matrix
	runs    []textRun
	pending *textRun

	cur   [2]float64 // current path point, device space
	path  []float64  // rule heights of the path under construction
	rules []float64
}

// interpret runs a page content stream and returns the text it shows and
// the heights of the horizontal rules it paints, both in device space.
// cmaps maps font resource names to their ToUnicode tables; fonts without
// one fall back to decodeFallback.
func interpret(content []byte, cmaps map[string]*toUnicode) ([]textRun, []float64) {
	in := &interpreter{
		cmaps: cmaps,
		gs:    graphicsState{ctm: identity, hscale: 1},
		tm:    identity,
		tlm:   identity,
	}
	lex := newLexer(content)

	var ops []token
	for {
		tok, ok := lex.next()
		if !ok {
			break
		}
		if tok.kind != tokOperator {
			ops = append(ops, tok)
			continue
		}
		in.apply(tok.text, ops)
		if tok.text == "ID" {
			lex.skipInlineImage()
		}
		ops = ops[:0]
	}
	in.flush()
	return in.runs, in.rules
}

func (in *interpreter) apply(op string, ops []token) {
	nums := numbers(ops)
	switch op {
	case "q":
		in.stack = append(in.stack, in.gs)
	case "Q":
		if n := len(in.stack); n > 0 {
			in.gs = in.stack[n-1]
			in.stack = in.stack[:n-1]
		}
	case "cm":
		if len(nums) == 6 {
			in.gs.ctm = matrix(nums).mul(in.gs.ctm)
		}
	case "BT":
		in.tm, in.tlm = identity, identity
	case "ET":
		in.flush()
	case "Tf":
		if len(ops) == 2 && ops[0].kind == tokName && ops[1].kind == tokNumber {
			in.gs.font = ops[0].text
			in.gs.size = ops[1].num
		}
	case "Tc":
		if len(nums) == 1 {
			in.gs.charSpace = nums[0]
		}
	case "Tw":
		if len(nums) == 1 {
			in.gs.wordSpace = nums[0]
		}
	case "Tz":
		if len(nums) == 1 {
			in.gs.hscale = nums[0] / 100
		}
	case "TL":
		if len(nums) == 1 {
			in.gs.leading = nums[0]
		}
	case "Td":
		if len(nums) == 2 {
			in.moveLine(nums[0], nums[1])
		}
	case "TD":
		if len(nums) == 2 {
			in.gs.leading = -nums[1]
			in.moveLine(nums[0], nums[1])
		}
	case "Tm":
		if len(nums) == 6 {
			in.flush()
			in.tlm = matrix(nums)
			in.tm = in.tlm
		}
	case "T*":
		in.moveLine(0, -in.gs.leading)
	case "Tj":
		if len(ops) == 1 && ops[0].kind == tokString {
			in.show(ops[0].raw)
			in.flush()
		}
	case "'":
		in.moveLine(0, -in.gs.leading)
		if len(ops) == 1 && ops[0].kind == tokString {
			in.show(ops[0].raw)
			in.flush()
		}
	case "\"":
		if len(ops) == 3 && ops[2].kind == tokString {
			in.gs.wordSpace = ops[0].num
			in.gs.charSpace = ops[1].num
			in.moveLine(0, -in.gs.leading)
			in.show(ops[2].raw)
			in.flush()
		}
	case "TJ":
		in.showArray(ops)
	case "m":
		if len(nums) == 2 {
			in.cur = in.point(nums[0], nums[1])
		}
	case "l":
		if len(nums) == 2 {
			p := in.point(nums[0], nums[1])
			in.edge(in.cur, p)
			in.cur = p
		}
	case "re":
		if len(nums) == 4 {
			x, y, w, h := nums[0], nums[1], nums[2], nums[3]
			in.edge(in.point(x, y), in.point(x+w, y))
			if math.Abs(h) > 1 {
				in.edge(in.point(x, y+h), in.point(x+w, y+h))
			}
			in.cur = in.point(x, y)
		}
	case "S", "s", "f", "F", "f*", "B", "B*", "b", "b*":
		in.rules = append(in.rules, in.path...)
		in.path = in.path[:0]
	case "n":
		in.path = in.path[:0]
	}
}

// point maps a user space point to device space.
func (in *interpreter) point(x, y float64) [2]float64 {
	p := translate(x, y).mul(in.gs.ctm)
	return [2]float64{p[4], p[5]}
}

// edge adds the segment a-b to the current path's rules when it is
// horizontal and wide enough.
func (in *interpreter) edge(a, b [2]float64) {
	if math.Abs(a[1]-b[1]) <= 1 && math.Abs(a[0]-b[0]) >= minRuleWidth {
		in.path = append(in.path, (a[1]+b[1])/2)
	}
}

// numbers returns the operand values when every operand is a number.
func numbers(ops []token) []float64 {
	nums := make([]float64, 0, len(ops))
	for _, t := range ops {
		if t.kind != tokNumber {
			return nil
		}
		nums = append(nums, t.num)
	}
	return nums
}

func (in *interpreter) moveLine(tx, ty float64) {
	in.flush()
	in.tlm = translate(tx, ty).mul(in.tlm)
	in.tm = in.tlm
}

// showArray handles TJ. Small kerning adjustments keep the run going; a
// shift of more than 0.15 em starts a new run at the shifted position.
func (in *interpreter) showArray(ops []token) {
	for _, t := range ops {
		switch t.kind {
		case tokString:
			in.show(t.raw)
		case tokNumber:
			shift := -t.num / 1000
			in.tm = translate(shift*in.gs.size*in.gs.hscale, 0).mul(in.tm)
			if shift > 0.15 {
				in.flush()
			}
		}
	}
	in.flush()
}

// show appends the decoded string to the pending run and advances the text
// matrix by its estimated width.
func (in *interpreter) show(raw []byte) {
	text := in.decode(raw)
	if text == "" {
		return
	}
	trm := in.tm.mul(in.gs.ctm)
	if in.pending == nil {
		in.pending = &textRun{
			X:    trm[4],
			Y:    trm[5],
			Size: math.Abs(in.gs.size) * math.Hypot(trm[2], trm[3]),
		}
	}
	in.pending.Text += text

	var adv float64
	for _, r := range text {
		w := runeEm(r)*in.gs.size + in.gs.charSpace
		if r == ' ' {
			w += in.gs.wordSpace
		}
		adv += w * in.gs.hscale
	}
	in.tm = translate(adv, 0).mul(in.tm)
	end := in.tm.mul(in.gs.ctm)
	in.pending.W = end[4] - in.pending.X
}

func (in *interpreter) flush() {
	if in.pending != nil && strings.TrimSpace(in.pending.Text) != "" {
		in.runs = append(in.runs, *in.pending)
	}
	in.pending = nil
}

func (in *interpreter) decode(b []byte) string {
	if cm := in.cmaps[in.gs.font]; cm != nil {
		if s, ok := cm.decode(b); ok || s != "" {
			return s
		}
	}
	return decodeFallback(b)
}

// runeEm estimates a glyph's advance in em units. Glyph widths are not
// read from the font, so CJK text counts as full width and the rest as an
// average Latin glyph.
func runeEm(r rune) float64 {
	switch {
	case r == ' ':
		return 0.28
	case isWide(r):
		return 1.0
	default:
		return 0.55
	}
}

func isWide(r rune) bool {
	return unicode.In(r, unicode.Hangul, unicode.Han, unicode.Hiragana, unicode.Katakana) ||
		(r >= 0xFF01 && r <= 0xFF60)
}
