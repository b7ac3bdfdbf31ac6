// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package pipeline

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/pdiddy/walkthrough/internal/resolve"
	"github.com/pdiddy/walkthrough/internal/section"
	"github.com/pdiddy/walkthrough/pkg/types"
)

// CheckResult is the outcome of a dry run.
type CheckResult struct {
	Summary
	Report   resolve.Report
	Coverage section.Coverage
}

// Check resolves artworks and sections like Run but writes nothing: the
// archive is unpacked into a temporary directory that is removed again.
// cfg.OutDir is ignored.
func Check(ctx context.Context, cfg types.BuildConfig, w io.Writer) (CheckResult, error) {
	return (&Runner{}).Check(ctx, cfg, w)
}

// Check is the Runner form of Check.
func (r *Runner) Check(ctx context.Context, cfg types.BuildConfig, w io.Writer) (CheckResult, error) {
	var cr CheckResult

	tmp, err := os.MkdirTemp("", "walkthrough-check-")
	if err != nil {
		return cr, fmt.Errorf("creating temporary directory: %w", err)
	}
	defer os.RemoveAll(tmp)

	cfg.OutDir = tmp
	cfg.Archive.WorkDir = ""
	cfg, err = normalize(cfg)
	if err != nil {
		return cr, err
	}
	sections, err := loadSections(cfg.SectionsFile)
	if err != nil {
		return cr, err
	}

	// Missing orders are reported, not fatal, in a dry run.
	cfg.AllowMissing = true
	res, err := r.resolve(ctx, cfg, sections, filepath.Join(tmp, imagesDir), w, &cr.Summary)
	if err != nil {
		return cr, err
	}
	cr.Report = res.report
	cr.Coverage = res.coverage

	if res.noTables {
		fmt.Fprintf(w, "tables: no description table in %s\n", filepath.Base(cfg.Table.DocumentPath))
	}
	for _, name := range res.report.Unmatched {
		fmt.Fprintf(w, "fallback: %s\n", name)
	}
	for _, name := range res.report.Skipped {
		fmt.Fprintf(w, "skipped: %s\n", name)
	}
	if len(cr.Coverage.Missing) > 0 {
		fmt.Fprintf(w, "missing: orders %v\n", cr.Coverage.Missing)
	}
	if len(cr.Coverage.Unplaced) > 0 {
		fmt.Fprintf(w, "unplaced: orders %v\n", cr.Coverage.Unplaced)
	}
	if len(cr.Coverage.Duplicates) > 0 {
		fmt.Fprintf(w, "duplicate: orders %v\n", cr.Coverage.Duplicates)
	}
	if cr.Coverage.Complete() {
		fmt.Fprintln(w, "coverage: complete")
	}
	return cr, nil
}
