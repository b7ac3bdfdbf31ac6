// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import "time"

// ArchiveConfig holds settings for the archive extraction stage.
type ArchiveConfig struct {
	// ArchivePath is the zip file holding the artwork images.
	ArchivePath string `json:"archive_path" yaml:"archive_path"`

	// WorkDir is the scratch directory the archive is unpacked into.
	// It is deleted and recreated before use and removed afterwards.
	WorkDir string `json:"work_dir" yaml:"work_dir"`
}

// TableConfig holds settings for the table extraction stage.
type TableConfig struct {
	// DocumentPath is the description document (pdf, docx, html or csv).
	DocumentPath string `json:"document_path" yaml:"document_path"`

	// MaxFileSize caps the document size in bytes (default 100 MB).
	MaxFileSize int64 `json:"max_file_size" yaml:"max_file_size"`
}

// RenderConfig holds settings for the HTML page.
type RenderConfig struct {
	// Title is the page and catalog title (default "전시 동선 워크쓰루").
	Title string `json:"title" yaml:"title"`

	// DocumentTitle is the <title> element text (default "전시 워크쓰루").
	DocumentTitle string `json:"document_title" yaml:"document_title"`
}

// PrintConfig holds settings for the print document stage.
type PrintConfig struct {
	// Enabled controls whether the PDF is produced at all.
	Enabled bool `json:"enabled" yaml:"enabled"`

	// FileName is the PDF file name inside the output directory.
	FileName string `json:"file_name" yaml:"file_name"`

	// Subtitle is the line under the title page heading.
	Subtitle string `json:"subtitle" yaml:"subtitle"`

	// MaxImageDim is the longest side in pixels above which images are
	// downscaled before embedding (default 1600).
	MaxImageDim int `json:"max_image_dim" yaml:"max_image_dim"`

	// JPEGQuality is the quality of embedded images (default 85).
	JPEGQuality int `json:"jpeg_quality" yaml:"jpeg_quality"`

	// MarginMM is the page margin on all sides in millimetres (default 18).
	MarginMM float64 `json:"margin_mm" yaml:"margin_mm"`

	// ImageBoxHeightMM is the height of the box artwork images are fitted
	// into (default 135). The width is the full text width.
	ImageBoxHeightMM float64 `json:"image_box_height_mm" yaml:"image_box_height_mm"`

	// BrowserBin is an explicit Chrome/Chromium binary. Empty lets the
	// launcher find or download one.
	BrowserBin string `json:"browser_bin,omitempty" yaml:"browser_bin,omitempty"`

	// Timeout bounds the headless print (default 2m).
	Timeout time.Duration `json:"timeout" yaml:"timeout"`
}

// CatalogConfig holds settings for the metadata writer.
type CatalogConfig struct {
	// WriteYAML also writes metadata.yaml next to metadata.json.
	WriteYAML bool `json:"write_yaml" yaml:"write_yaml"`

	// IndexDB writes the SQLite catalog index catalog.db.
	IndexDB bool `json:"index_db" yaml:"index_db"`
}

// BuildConfig groups all stage configurations for one build.
type BuildConfig struct {
	// OutDir is the output package directory. It is deleted and recreated.
	OutDir string `json:"out_dir" yaml:"out_dir"`

	// SectionsFile optionally replaces the built-in sections.
	SectionsFile string `json:"sections_file,omitempty" yaml:"sections_file,omitempty"`

	// AllowMissing drops section orders with no artwork instead of failing.
	AllowMissing bool `json:"allow_missing" yaml:"allow_missing"`

	Archive ArchiveConfig `json:"archive" yaml:"archive"`
	Table   TableConfig   `json:"table" yaml:"table"`
	Render  RenderConfig  `json:"render" yaml:"render"`
	Print   PrintConfig   `json:"print" yaml:"print"`
	Catalog CatalogConfig `json:"catalog" yaml:"catalog"`
}
