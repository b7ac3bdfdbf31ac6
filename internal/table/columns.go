// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package table

import (
	"sort"
	"strings"

	"github.com/pdiddy/walkthrough/pkg/types"
)

// Column names a field of the description table.
type Column string

const (
	ColumnTitle       Column = "title"
	ColumnTechnique   Column = "technique"
	ColumnSize        Column = "size"
	ColumnDate        Column = "date"
	ColumnDescription Column = "description"
)

// columnAliases lists the header texts accepted for each column, most
// specific first. Matching ignores case and surrounding whitespace.
var columnAliases = map[Column][]string{
	ColumnTitle:       {"제목", "title", "작품명"},
	ColumnTechnique:   {"방법", "technique", "재료", "medium"},
	ColumnSize:        {"사이즈", "size", "크기"},
	ColumnDate:        {"날짜", "date", "제작연도", "year"},
	ColumnDescription: {"설명", "description"},
}

// Aliases returns the accepted header texts for col.
func Aliases(col Column) []string {
	return columnAliases[col]
}

// Value returns the trimmed cell text of rec for col, or "" when the record
// has no such column.
func Value(rec types.TableRecord, col Column) string {
	for _, alias := range columnAliases[col] {
		if v, ok := rec[alias]; ok {
			return strings.TrimSpace(v)
		}
	}
	keys := make([]string, 0, len(rec))
	for key := range rec {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	for _, key := range keys {
		if matchesColumn(key, col) {
			return strings.TrimSpace(rec[key])
		}
	}
	return ""
}

// ColumnOf returns the column a header cell names, if any.
func ColumnOf(header string) (Column, bool) {
	for _, col := range []Column{ColumnTitle, ColumnTechnique, ColumnSize, ColumnDate, ColumnDescription} {
		if matchesColumn(header, col) {
			return col, true
		}
	}
	return "", false
}

func matchesColumn(header string, col Column) bool {
	h := strings.ToLower(strings.TrimSpace(header))
	for _, alias := range columnAliases[col] {
		if h == alias {
			return true
		}
	}
	return false
}

func hasTitleColumn(header []string) bool {
	for _, h := range header {
		if matchesColumn(h, ColumnTitle) {
			return true
		}
	}
	return false
}
