// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package table

import (
	"archive/zip"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"strings"
)

// docxTable accumulates one w:tbl while its tokens stream past.
type docxTable struct {
	rows [][]string
	row  []string
	cell strings.Builder
	// paras counts paragraphs already written to cell, for line breaks.
	paras int
}

// extractDocx reads every w:tbl in word/document.xml. A nested table is
// returned as a separate table, ahead of the table containing it.
func extractDocx(path string) ([][][]string, error) {
	r, err := zip.OpenReader(path)
	if err != nil {
		return nil, fmt.Errorf("open zip: %w", err)
	}
	defer r.Close()

	var docFile *zip.File
	for _, f := range r.File {
		if f.Name == "word/document.xml" {
			docFile = f
			break
		}
	}
	if docFile == nil {
		return nil, fmt.Errorf("word/document.xml not found in archive")
	}

	rc, err := docFile.Open()
	if err != nil {
		return nil, fmt.Errorf("open document.xml: %w", err)
	}
	defer rc.Close()

	return parseDocxTables(rc)
}

func parseDocxTables(r io.Reader) ([][][]string, error) {
	decoder := xml.NewDecoder(r)

	var (
		stack  []*docxTable
		done   [][][]string
		inText bool
	)
	top := func() *docxTable {
		if len(stack) == 0 {
			return nil
		}
		return stack[len(stack)-1]
	}

	for {
		tok, err := decoder.Token()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("parsing document.xml: %w", err)
		}

		switch t := tok.(type) {
		case xml.StartElement:
			tbl := top()
			switch t.Name.Local {
			case "tbl":
				stack = append(stack, &docxTable{})
			case "tr":
				if tbl != nil {
					tbl.row = nil
				}
			case "tc":
				if tbl != nil {
					tbl.cell.Reset()
					tbl.paras = 0
				}
			case "p":
				if tbl != nil && tbl.paras > 0 {
					tbl.cell.WriteByte('\n')
				}
			case "t":
				inText = tbl != nil
			case "br", "cr":
				if tbl != nil {
					tbl.cell.WriteByte('\n')
				}
			}

		case xml.CharData:
			if inText {
				top().cell.Write(t)
			}

		case xml.EndElement:
			tbl := top()
			if tbl == nil {
				continue
			}
			switch t.Name.Local {
			case "t":
				inText = false
			case "p":
				tbl.paras++
			case "tc":
				tbl.row = append(tbl.row, strings.TrimSpace(tbl.cell.String()))
			case "tr":
				tbl.rows = append(tbl.rows, tbl.row)
				tbl.row = nil
			case "tbl":
				stack = stack[:len(stack)-1]
				done = append(done, tbl.rows)
			}
		}
	}
	return done, nil
}
