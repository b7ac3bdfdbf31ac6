// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package table

import (
	"archive/zip"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/walkthrough/internal/normalize"
	"github.com/pdiddy/walkthrough/pkg/types"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

// writeDocx builds a minimal .docx holding body as the document body.
func writeDocx(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "list.docx")
	f, err := os.Create(path)
	require.NoError(t, err)

	zw := zip.NewWriter(f)
	w, err := zw.Create("word/document.xml")
	require.NoError(t, err)
	_, err = w.Write([]byte(`<?xml version="1.0" encoding="UTF-8" standalone="yes"?>
<w:document xmlns:w="http://schemas.openxmlformats.org/wordprocessingml/2006/main"><w:body>` +
		body + `</w:body></w:document>`))
	require.NoError(t, err)
	require.NoError(t, zw.Close())
	require.NoError(t, f.Close())
	return path
}

func docxCell(paras ...string) string {
	var b strings.Builder
	b.WriteString("<w:tc><w:tcPr><w:tcW w:w=\"2000\"/></w:tcPr>")
	for _, p := range paras {
		b.WriteString("<w:p><w:r><w:t xml:space=\"preserve\">" + p + "</w:t></w:r></w:p>")
	}
	b.WriteString("</w:tc>")
	return b.String()
}

func docxRow(cells ...string) string {
	return "<w:tr>" + strings.Join(cells, "") + "</w:tr>"
}

func TestDetect(t *testing.T) {
	tests := []struct {
		path    string
		want    Format
		wantErr bool
	}{
		{path: "list.pdf", want: FormatPDF},
		{path: "LIST.PDF", want: FormatPDF},
		{path: "list.docx", want: FormatDocx},
		{path: "list.htm", want: FormatHTML},
		{path: "list.html", want: FormatHTML},
		{path: "list.csv", want: FormatCSV},
		{path: "list.hwp", wantErr: true},
		{path: "list", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			got, err := Detect(tt.path)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrUnsupportedFormat)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestExtract_CSV(t *testing.T) {
	path := writeFile(t, "list.csv", "\ufeff제목,방법,사이즈,날짜,설명\n"+
		"파도 위로,유채,53x45,2024,\"바다를 보며\n그린 그림\"\n"+
		",,,,\n"+
		"봄밤,수채,30x30,2023\n")

	records, err := New(types.TableConfig{}, nil).Extract(context.Background(), path)
	require.NoError(t, err)
	require.Len(t, records, 2)

	assert.Equal(t, types.TableRecord{
		"제목":  "파도 위로",
		"방법":  "유채",
		"사이즈": "53x45",
		"날짜":  "2024",
		"설명":  "바다를 보며\n그린 그림",
	}, records[0])
	assert.Equal(t, "봄밤", Value(records[1], ColumnTitle))
	assert.Equal(t, "", Value(records[1], ColumnDescription))
}

func TestExtract_HTML(t *testing.T) {
	path := writeFile(t, "list.html", `<html><body>
<table><tr><td>not a description table</td><td>x</td></tr><tr><td>a</td><td>b</td></tr></table>
<table>
  <thead><tr><th> Title </th><th>Medium</th><th>Description</th></tr></thead>
  <tbody>
    <tr><td>Morning   Light</td><td>Oil</td><td><p>First line</p><p>Second <b>line</b></p></td></tr>
    <tr><td>Dusk</td><td>Ink<br>on paper</td><td><script>x()</script>Quiet</td></tr>
  </tbody>
</table>
</body></html>`)

	records, err := New(types.TableConfig{}, nil).Extract(context.Background(), path)
	require.NoError(t, err)
	require.Len(t, records, 2)

	assert.Equal(t, "Morning Light", Value(records[0], ColumnTitle))
	assert.Equal(t, "Oil", Value(records[0], ColumnTechnique))
	assert.Equal(t, "First line\nSecond line", Value(records[0], ColumnDescription))
	assert.Equal(t, "Ink\non paper", Value(records[1], ColumnTechnique))
	assert.Equal(t, "Quiet", Value(records[1], ColumnDescription))
}

func TestExtract_HTMLNestedTable(t *testing.T) {
	path := writeFile(t, "list.html", `<table>
<tr><td>제목</td><td>설명</td></tr>
<tr><td>파도</td><td>outer<table><tr><td>inner</td></tr></table></td></tr>
</table>`)

	records, err := New(types.TableConfig{}, nil).Extract(context.Background(), path)
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, types.TableRecord{"제목": "파도", "설명": "outer"}, records[0])
}

func TestExtract_Docx(t *testing.T) {
	body := "<w:p><w:r><w:t>작품 목록</w:t></w:r></w:p>" +
		"<w:tbl><w:tblPr/>" +
		docxRow(docxCell("제목"), docxCell("방법"), docxCell("설명")) +
		docxRow(docxCell("파도 위로"), docxCell("유채"), docxCell("첫 문단", "둘째 문단")) +
		docxRow(docxCell(""), docxCell(""), docxCell("")) +
		"<w:tr><w:tc><w:p><w:r><w:t>봄</w:t></w:r><w:r><w:t>밤</w:t></w:r></w:p></w:tc>" +
		"<w:tc><w:p><w:r><w:t>수채</w:t><w:br/><w:t>종이</w:t></w:r></w:p></w:tc>" +
		"<w:tc><w:p/></w:tc></w:tr>" +
		"</w:tbl>"
	path := writeDocx(t, body)

	records, err := New(types.TableConfig{}, nil).Extract(context.Background(), path)
	require.NoError(t, err)
	require.Len(t, records, 2)

	assert.Equal(t, types.TableRecord{"제목": "파도 위로", "방법": "유채", "설명": "첫 문단\n둘째 문단"}, records[0])
	assert.Equal(t, types.TableRecord{"제목": "봄밤", "방법": "수채\n종이", "설명": ""}, records[1])
}

func TestParseDocxTables_Nested(t *testing.T) {
	body := `<w:document xmlns:w="urn:w"><w:body><w:tbl>` +
		`<w:tr><w:tc><w:p><w:r><w:t>outer</w:t></w:r></w:p>` +
		`<w:tbl><w:tr><w:tc><w:p><w:r><w:t>inner</w:t></w:r></w:p></w:tc></w:tr></w:tbl>` +
		`</w:tc></w:tr></w:tbl></w:body></w:document>`

	tables, err := parseDocxTables(strings.NewReader(body))
	require.NoError(t, err)
	require.Len(t, tables, 2)
	assert.Equal(t, [][]string{{"inner"}}, tables[0])
	assert.Equal(t, [][]string{{"outer"}}, tables[1])
}

func TestExtract_Errors(t *testing.T) {
	t.Run("missing file", func(t *testing.T) {
		_, err := New(types.TableConfig{}, nil).Extract(context.Background(), filepath.Join(t.TempDir(), "none.csv"))
		assert.ErrorIs(t, err, os.ErrNotExist)
	})

	t.Run("unsupported format", func(t *testing.T) {
		path := writeFile(t, "list.hwp", "binary")
		_, err := New(types.TableConfig{}, nil).Extract(context.Background(), path)
		assert.ErrorIs(t, err, ErrUnsupportedFormat)
	})

	t.Run("no title column", func(t *testing.T) {
		path := writeFile(t, "list.csv", "name,size\na,b\n")
		_, err := New(types.TableConfig{}, nil).Extract(context.Background(), path)
		assert.ErrorIs(t, err, ErrNoTables)
	})

	t.Run("header only", func(t *testing.T) {
		path := writeFile(t, "list.csv", "제목,방법\n")
		_, err := New(types.TableConfig{}, nil).Extract(context.Background(), path)
		assert.ErrorIs(t, err, ErrNoTables)
	})

	t.Run("too large", func(t *testing.T) {
		path := writeFile(t, "list.csv", "제목\nabc\n")
		_, err := New(types.TableConfig{MaxFileSize: 4}, nil).Extract(context.Background(), path)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "file too large")
	})
}

func TestValue(t *testing.T) {
	rec := types.TableRecord{
		"TITLE ":  " Wave ",
		"Medium":  "Ink",
		"크기":      "10x10",
		"Comment": "ignored",
	}
	assert.Equal(t, "Wave", Value(rec, ColumnTitle))
	assert.Equal(t, "Ink", Value(rec, ColumnTechnique))
	assert.Equal(t, "10x10", Value(rec, ColumnSize))
	assert.Equal(t, "", Value(rec, ColumnDate))
}

func TestColumnOf(t *testing.T) {
	col, ok := ColumnOf(" 설명 ")
	assert.True(t, ok)
	assert.Equal(t, ColumnDescription, col)

	_, ok = ColumnOf("비고")
	assert.False(t, ok)
}

func TestIndex(t *testing.T) {
	records := []types.TableRecord{
		{"제목": "파도 위로", "방법": "유채"},
		{"제목": "  ", "방법": "blank title"},
		{"제목": "파도_위로!", "방법": "아크릴"},
		{"제목": "봄밤", "방법": "수채"},
	}

	idx := Index(records)
	require.Len(t, idx, 2)
	assert.Equal(t, "아크릴", idx[normalize.Title("파도 위로")]["방법"])
	assert.Equal(t, "수채", idx["봄밤"]["방법"])
}
