// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package normalize canonicalizes free-text artwork titles so that image
// filenames and description table rows can be joined on them.
package normalize

import (
	"strings"
	"unicode"

	"golang.org/x/text/unicode/norm"
)

// Title returns the join key for s: NFKC-normalized, underscores read as
// spaces, everything except ASCII digits, ASCII letters, Hangul syllables
// and whitespace dropped, whitespace runs collapsed, lowercased and trimmed.
//
// Title is idempotent: Title(Title(s)) == Title(s).
func Title(s string) string {
	s = norm.NFKC.String(strings.TrimSpace(s))
	s = strings.ReplaceAll(s, "_", " ")

	var b strings.Builder
	b.Grow(len(s))
	pendingSpace := false
	for _, r := range s {
		switch {
		case unicode.IsSpace(r):
			pendingSpace = b.Len() > 0
		case keep(r):
			if pendingSpace {
				b.WriteByte(' ')
				pendingSpace = false
			}
			b.WriteRune(unicode.ToLower(r))
		}
	}
	return b.String()
}

func keep(r rune) bool {
	switch {
	case r >= '0' && r <= '9':
		return true
	case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z':
		return true
	case r >= '가' && r <= '힣':
		return true
	}
	return false
}
