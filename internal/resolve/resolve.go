// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package resolve turns image filenames into artworks by joining them with
// description table rows on the normalized title.
package resolve

import (
	"errors"
	"fmt"
	"log/slog"
	"regexp"
	"sort"
	"strconv"
	"strings"

	"github.com/google/uuid"

	"github.com/pdiddy/walkthrough/internal/normalize"
	"github.com/pdiddy/walkthrough/internal/table"
	"github.com/pdiddy/walkthrough/pkg/types"
)

// ErrDuplicateOrder is returned when two images carry the same order number.
var ErrDuplicateOrder = errors.New("duplicate order number")

// filenamePattern matches "<order><sep><title>.<ext>": "01_Title.webp",
// "7 - Night.JPG". The separator run is one or more of '-', '_' and ' '.
var filenamePattern = regexp.MustCompile(`(?i)^(\d+)[-_ ]+(.*)\.(webp|png|jpg|jpeg)$`)

// ParseFilename extracts the order number and raw title from an image
// basename. It reports false for names outside the pattern and for order 0.
func ParseFilename(name string) (order int, rawTitle string, ok bool) {
	m := filenamePattern.FindStringSubmatch(name)
	if m == nil {
		return 0, "", false
	}
	order, err := strconv.Atoi(m[1])
	if err != nil || order <= 0 {
		return 0, "", false
	}
	return order, m[2], true
}

// ArtworkID returns the stable identifier for an image filename.
func ArtworkID(filename string) string {
	return uuid.NewSHA1(uuid.NameSpaceURL, []byte("walkthrough:"+filename)).String()
}

// Report lists how each filename was handled.
type Report struct {
	// Matched filenames found a table row.
	Matched []string

	// Unmatched filenames fell back to the title in the filename.
	Unmatched []string

	// Skipped filenames did not follow the naming pattern.
	Skipped []string
}

// Resolver joins filenames with table records.
type Resolver struct {
	index  map[string]types.TableRecord
	logger *slog.Logger
}

// New creates a Resolver over records. A nil logger uses slog.Default().
func New(records []types.TableRecord, logger *slog.Logger) *Resolver {
	if logger == nil {
		logger = slog.Default()
	}
	return &Resolver{index: table.Index(records), logger: logger}
}

// Resolve builds one artwork per matching filename, sorted by order.
// Filenames are visited in name order, so the report lists are sorted too.
// Two filenames with the same order number fail with ErrDuplicateOrder.
func (r *Resolver) Resolve(filenames []string) ([]types.Artwork, Report, error) {
	names := append([]string(nil), filenames...)
	sort.Strings(names)

	var (
		artworks []types.Artwork
		report   Report
	)
	seen := make(map[int]string)
	for _, name := range names {
		order, rawTitle, ok := ParseFilename(name)
		if !ok {
			report.Skipped = append(report.Skipped, name)
			continue
		}
		if prev, dup := seen[order]; dup {
			return nil, report, fmt.Errorf("order %d used by %s and %s: %w", order, prev, name, ErrDuplicateOrder)
		}
		seen[order] = name

		art := types.Artwork{
			Order:    order,
			ID:       ArtworkID(name),
			Filename: name,
			Title:    rawTitle,
		}
		if rec, hit := r.index[normalize.Title(rawTitle)]; hit {
			art.Matched = true
			if title := table.Value(rec, table.ColumnTitle); title != "" {
				art.Title = title
			}
			art.Technique = table.Value(rec, table.ColumnTechnique)
			art.Size = table.Value(rec, table.ColumnSize)
			art.Date = table.Value(rec, table.ColumnDate)
			art.Description = table.Value(rec, table.ColumnDescription)
			report.Matched = append(report.Matched, name)
		} else {
			report.Unmatched = append(report.Unmatched, name)
			r.logger.Warn("no table row for image, using filename title", "file", name, "title", rawTitle)
		}
		artworks = append(artworks, art)
	}

	sort.SliceStable(artworks, func(i, j int) bool { return artworks[i].Order < artworks[j].Order })

	if len(report.Skipped) > 0 {
		r.logger.Debug("skipped images outside the naming pattern", "files", strings.Join(report.Skipped, ", "))
	}
	return artworks, report, nil
}
