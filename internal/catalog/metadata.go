// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package catalog persists the resolved catalog: metadata.json and
// metadata.yaml for downstream tools, a README for the package, and a
// searchable SQLite index.
package catalog

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"

	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/walkthrough/pkg/types"
)

// File names inside the output directory.
const (
	JSONFile   = "metadata.json"
	YAMLFile   = "metadata.yaml"
	ReadmeFile = "README.txt"
	DBFile     = "catalog.db"
)

const readme = "index.html을 여시면 오프라인 워크쓰루가 열립니다.\n"

// New assembles the catalog written to metadata files. Nil slices are
// written as empty lists.
func New(sections []types.Section, artworks []types.Artwork) types.Catalog {
	if sections == nil {
		sections = []types.Section{}
	}
	if artworks == nil {
		artworks = []types.Artwork{}
	}
	return types.Catalog{Sections: sections, Artworks: artworks}
}

// MarshalJSON encodes cat with two-space indentation, non-ASCII text kept
// as is and HTML characters unescaped. There is no trailing newline.
func MarshalJSON(cat types.Catalog) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(cat); err != nil {
		return nil, fmt.Errorf("marshaling JSON: %w", err)
	}
	return bytes.TrimSuffix(buf.Bytes(), []byte("\n")), nil
}

// WriteJSON writes cat to path as metadata JSON.
func WriteJSON(path string, cat types.Catalog) error {
	data, err := MarshalJSON(cat)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}

// WriteYAML writes cat to path with the same structure as WriteJSON.
func WriteYAML(path string, cat types.Catalog) error {
	data, err := yaml.Marshal(cat)
	if err != nil {
		return fmt.Errorf("marshaling YAML: %w", err)
	}
	return os.WriteFile(path, data, 0o644)
}

// ReadJSON loads a catalog written by WriteJSON.
func ReadJSON(path string) (types.Catalog, error) {
	var cat types.Catalog
	data, err := os.ReadFile(path)
	if err != nil {
		return cat, fmt.Errorf("reading %s: %w", path, err)
	}
	if err := json.Unmarshal(data, &cat); err != nil {
		return cat, fmt.Errorf("parsing %s: %w", path, err)
	}
	return cat, nil
}

// WriteReadme writes the package README.
func WriteReadme(path string) error {
	return os.WriteFile(path, []byte(readme), 0o644)
}
