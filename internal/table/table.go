// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package table extracts description tables (title, technique, size, date,
// description) from the exhibition's list document.
//
// Supported formats:
//   - .pdf: positioned text runs from page content streams (pdfcpu)
//   - .docx: w:tbl elements of word/document.xml
//   - .html: <table> elements
//   - .csv: a single table
//
// Every table's first row is its header; later rows are zipped against it
// and rows without any non-empty cell are dropped.
package table

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/pdiddy/walkthrough/internal/normalize"
	"github.com/pdiddy/walkthrough/pkg/types"
)

var (
	// ErrUnsupportedFormat is returned for documents with an unknown extension.
	ErrUnsupportedFormat = errors.New("unsupported document format")

	// ErrNoTables is returned when a document holds no table with a title column.
	ErrNoTables = errors.New("no description table found")
)

// Format identifies a document type.
type Format string

const (
	FormatPDF  Format = "pdf"
	FormatDocx Format = "docx"
	FormatHTML Format = "html"
	FormatCSV  Format = "csv"
)

// Detect returns the document format based on file extension.
func Detect(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".pdf":
		return FormatPDF, nil
	case ".docx":
		return FormatDocx, nil
	case ".html", ".htm":
		return FormatHTML, nil
	case ".csv":
		return FormatCSV, nil
	default:
		return "", fmt.Errorf("%q: %w", filepath.Ext(path), ErrUnsupportedFormat)
	}
}

// Extractor reads description tables from documents.
type Extractor struct {
	maxFileSize int64
	logger      *slog.Logger
}

// New creates an Extractor. A nil logger uses slog.Default().
func New(cfg types.TableConfig, logger *slog.Logger) *Extractor {
	if cfg.MaxFileSize <= 0 {
		cfg.MaxFileSize = 100 * 1024 * 1024
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Extractor{maxFileSize: cfg.MaxFileSize, logger: logger}
}

// Extract parses the document at path and returns its table rows in
// document order. Tables without a recognised title column are ignored.
func (e *Extractor) Extract(ctx context.Context, path string) ([]types.TableRecord, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("stat %s: %w", path, err)
	}
	if info.Size() > e.maxFileSize {
		return nil, fmt.Errorf("file too large: %d bytes (max %d)", info.Size(), e.maxFileSize)
	}

	format, err := Detect(path)
	if err != nil {
		return nil, err
	}
	e.logger.Debug("extracting tables", "path", path, "format", format)

	var grids [][][]string
	switch format {
	case FormatPDF:
		grids, err = extractPDF(ctx, path)
	case FormatDocx:
		grids, err = extractDocx(path)
	case FormatHTML:
		grids, err = extractHTML(path)
	case FormatCSV:
		grids, err = extractCSV(path)
	}
	if err != nil {
		return nil, fmt.Errorf("extract %s (%s): %w", path, format, err)
	}

	var records []types.TableRecord
	tables := 0
	for _, g := range grids {
		if len(g) < 2 || !hasTitleColumn(g[0]) {
			continue
		}
		tables++
		records = append(records, zipRows(g)...)
	}
	if tables == 0 {
		return nil, fmt.Errorf("%s: %w", path, ErrNoTables)
	}

	e.logger.Debug("tables extracted", "path", path, "tables", tables, "rows", len(records))
	return records, nil
}

// zipRows pairs every data row of g with its header row. Extra cells beyond
// the header width are dropped; missing cells are absent from the record.
func zipRows(g [][]string) []types.TableRecord {
	header := make([]string, len(g[0]))
	for i, h := range g[0] {
		header[i] = strings.TrimSpace(h)
	}

	var out []types.TableRecord
	for _, row := range g[1:] {
		if !anyNonEmpty(row) {
			continue
		}
		rec := make(types.TableRecord, len(header))
		for i := 0; i < len(header) && i < len(row); i++ {
			rec[header[i]] = row[i]
		}
		out = append(out, rec)
	}
	return out
}

func anyNonEmpty(row []string) bool {
	for _, c := range row {
		if strings.TrimSpace(c) != "" {
			return true
		}
	}
	return false
}

// Index builds the lookup from normalized title to record. Records with a
// blank title are skipped; later records win over earlier ones with the
// same normalized title.
func Index(records []types.TableRecord) map[string]types.TableRecord {
	idx := make(map[string]types.TableRecord, len(records))
	for _, rec := range records {
		title := Value(rec, ColumnTitle)
		if title == "" {
			continue
		}
		idx[normalize.Title(title)] = rec
	}
	return idx
}
