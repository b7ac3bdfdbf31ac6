// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package table

import (
	"bytes"
	"os"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// extractHTML returns every <table> of the document. Rows of nested tables
// belong to the nested table only.
func extractHTML(path string) ([][][]string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	doc, err := html.Parse(bytes.NewReader(data))
	if err != nil {
		return nil, err
	}

	var tables [][][]string
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode && n.DataAtom == atom.Table {
			tables = append(tables, htmlTableRows(n))
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(doc)
	return tables, nil
}

// htmlTableRows collects the tr rows directly owned by table.
func htmlTableRows(table *html.Node) [][]string {
	var rows [][]string
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			if c.Type != html.ElementNode {
				continue
			}
			switch c.DataAtom {
			case atom.Table:
				// Nested table, handled on its own.
			case atom.Tr:
				rows = append(rows, htmlRowCells(c))
			default:
				walk(c)
			}
		}
	}
	walk(table)
	return rows
}

func htmlRowCells(tr *html.Node) []string {
	var cells []string
	for c := tr.FirstChild; c != nil; c = c.NextSibling {
		if c.Type == html.ElementNode && (c.DataAtom == atom.Td || c.DataAtom == atom.Th) {
			cells = append(cells, htmlCellText(c))
		}
	}
	return cells
}

// htmlCellText extracts the visible text of a cell. <br> and block
// elements become line breaks; other whitespace collapses per line.
func htmlCellText(n *html.Node) string {
	var sb strings.Builder
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		switch n.Type {
		case html.TextNode:
			sb.WriteString(n.Data)
			return
		case html.ElementNode:
			switch n.DataAtom {
			case atom.Script, atom.Style, atom.Table:
				return
			case atom.Br:
				sb.WriteByte('\n')
				return
			case atom.P, atom.Div, atom.Li:
				sb.WriteByte('\n')
				defer sb.WriteByte('\n')
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(n)
	return tidyLines(sb.String())
}

// tidyLines collapses whitespace inside each line and drops blank lines.
func tidyLines(s string) string {
	var lines []string
	for _, line := range strings.Split(s, "\n") {
		line = strings.Join(strings.Fields(line), " ")
		if line != "" {
			lines = append(lines, line)
		}
	}
	return strings.Join(lines, "\n")
}
