// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package normalize

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTitle(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{name: "empty", in: "", want: ""},
		{name: "lowercases ascii", in: "Morning Light", want: "morning light"},
		{name: "underscores become spaces", in: "봄밤_가로등", want: "봄밤 가로등"},
		{name: "collapses whitespace runs", in: "  파도   \t 위로\n", want: "파도 위로"},
		{name: "drops punctuation", in: "사과 (선물)!", want: "사과 선물"},
		{name: "punctuation between spaces leaves one space", in: "a - b", want: "a b"},
		{name: "fullwidth folds to ascii", in: "ＡＢＣ１２３", want: "abc123"},
		{name: "keeps hangul syllables", in: "사람의 빛", want: "사람의 빛"},
		{name: "drops accented latin", in: "café", want: "caf"},
		{name: "drops compatibility jamo", in: "ㅋㅋ웃음", want: "웃음"},
		{name: "quotes and dots", in: "“환해지게”…", want: "환해지게"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Title(tt.in))
		})
	}
}

func TestTitle_Idempotent(t *testing.T) {
	inputs := []string{
		"01_Title",
		"  Ｍｉｘｅｄ＿ｗｉｄｔｈ  ",
		"a - b -- c",
		"열렬히,  행복하길 (춤)",
		" non breaking ",
		"tabs\t\tand\nnewlines",
		"___",
	}
	for _, in := range inputs {
		once := Title(in)
		assert.Equal(t, once, Title(once), "input %q", in)
	}
}

func TestTitle_FilenameMatchesTableCell(t *testing.T) {
	assert.Equal(t, Title("5월의_푸르름"), Title("5월의 푸르름"))
	assert.Equal(t, Title("Title"), Title(" title "))
}
