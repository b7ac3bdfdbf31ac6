// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package table

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"os"
)

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// extractCSV reads the whole file as one table.
func extractCSV(path string) ([][][]string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	data = bytes.TrimPrefix(data, utf8BOM)

	reader := csv.NewReader(bytes.NewReader(data))
	reader.FieldsPerRecord = -1 // Allow variable number of fields
	reader.LazyQuotes = true

	rows, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("reading CSV records: %w", err)
	}
	if len(rows) == 0 {
		return nil, nil
	}
	return [][][]string{rows}, nil
}
