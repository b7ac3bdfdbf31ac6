// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package pipeline runs the catalog build end to end: unpack the archive,
// read the description tables, resolve artworks, assign sections and write
// the page, the print document and the metadata.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/pdiddy/walkthrough/internal/archive"
	"github.com/pdiddy/walkthrough/internal/catalog"
	"github.com/pdiddy/walkthrough/internal/print"
	"github.com/pdiddy/walkthrough/internal/render"
	"github.com/pdiddy/walkthrough/internal/resolve"
	"github.com/pdiddy/walkthrough/internal/section"
	"github.com/pdiddy/walkthrough/internal/table"
	"github.com/pdiddy/walkthrough/pkg/types"
)

// DefaultOutDir is the output directory when none is configured.
const DefaultOutDir = "walkthrough_package"

const (
	imagesDir = "images"
	indexHTML = "index.html"
	tmpDir    = "_tmp"
)

// Summary holds the counts of a build.
type Summary struct {
	Images   int
	Records  int
	Matched  int
	Fallback int
	Skipped  int
	Sections int
	Pages    int

	// OutDir is the absolute output directory.
	OutDir string
}

// Runner runs builds. The zero value prints through headless Chrome and
// logs to slog.Default().
type Runner struct {
	Printer print.Printer
	Logger  *slog.Logger
}

// Run builds the catalog package described by cfg with a zero Runner.
func Run(ctx context.Context, cfg types.BuildConfig, w io.Writer) (Summary, error) {
	return (&Runner{}).Run(ctx, cfg, w)
}

// Run deletes and recreates cfg.OutDir and writes the package into it,
// printing one status line per stage to w.
func (r *Runner) Run(ctx context.Context, cfg types.BuildConfig, w io.Writer) (Summary, error) {
	var sum Summary
	log := r.logger()

	cfg, err := normalize(cfg)
	if err != nil {
		return sum, err
	}
	sections, err := loadSections(cfg.SectionsFile)
	if err != nil {
		return sum, err
	}

	out, err := resetOutDir(cfg.OutDir)
	if err != nil {
		return sum, err
	}
	sum.OutDir = out
	log.Info("pipeline: building", "archive", cfg.Archive.ArchivePath, "document", cfg.Table.DocumentPath, "out", out)

	res, err := r.resolve(ctx, cfg, sections, filepath.Join(out, imagesDir), w, &sum)
	if err != nil {
		return sum, err
	}

	cat := catalog.New(section.Sections(res.views), res.artworks)
	if err := catalog.WriteJSON(filepath.Join(out, catalog.JSONFile), cat); err != nil {
		return sum, err
	}
	fmt.Fprintf(w, "wrote: %s\n", catalog.JSONFile)
	if cfg.Catalog.WriteYAML {
		if err := catalog.WriteYAML(filepath.Join(out, catalog.YAMLFile), cat); err != nil {
			return sum, err
		}
		fmt.Fprintf(w, "wrote: %s\n", catalog.YAMLFile)
	}
	if cfg.Catalog.IndexDB {
		if err := indexCatalog(ctx, filepath.Join(out, catalog.DBFile), cat); err != nil {
			return sum, err
		}
		fmt.Fprintf(w, "wrote: %s\n", catalog.DBFile)
	}

	if err := ctx.Err(); err != nil {
		return sum, err
	}
	renderer, err := render.New(cfg.Render)
	if err != nil {
		return sum, err
	}
	if err := renderer.WriteFile(filepath.Join(out, indexHTML), res.views, res.artworks); err != nil {
		return sum, err
	}
	fmt.Fprintf(w, "wrote: %s\n", indexHTML)

	if cfg.Print.Enabled {
		if err := ctx.Err(); err != nil {
			return sum, err
		}
		builder, err := print.New(cfg.Print, r.Printer, log)
		if err != nil {
			return sum, err
		}
		subtitle := cfg.Print.Subtitle
		if subtitle == "" {
			subtitle = print.DefaultSubtitle(stem(cfg.Archive.ArchivePath), len(res.artworks), len(res.views))
		}
		doc := print.Document{Title: cfg.Render.Title, Subtitle: subtitle, Sections: res.views}
		pr, err := builder.Build(ctx, doc, filepath.Join(out, imagesDir), out)
		if err != nil {
			return sum, err
		}
		sum.Pages = pr.Pages
		fmt.Fprintf(w, "wrote: %s (%d pages)\n", filepath.Base(pr.Path), pr.Pages)
	} else {
		fmt.Fprintln(w, "skipped: print document")
	}

	if err := catalog.WriteReadme(filepath.Join(out, catalog.ReadmeFile)); err != nil {
		return sum, err
	}
	fmt.Fprintf(w, "wrote: %s\n", catalog.ReadmeFile)

	fmt.Fprintf(w, "DONE: %s\n", out)
	return sum, nil
}

// resolved is the outcome of the stages shared by Run and Check.
type resolved struct {
	artworks []types.Artwork
	views    []types.SectionView
	report   resolve.Report
	coverage section.Coverage
	noTables bool
}

// resolve unpacks the archive into imgDir, reads the tables and resolves
// artworks and sections. It fills the counting fields of sum.
func (r *Runner) resolve(ctx context.Context, cfg types.BuildConfig, sections []types.Section, imgDir string, w io.Writer, sum *Summary) (resolved, error) {
	var res resolved
	log := r.logger()

	names, err := archive.Unpack(cfg.Archive.ArchivePath, cfg.Archive.WorkDir, imgDir)
	if err != nil {
		return res, err
	}
	sum.Images = len(names)
	fmt.Fprintf(w, "extracted: %d images\n", len(names))

	if err := ctx.Err(); err != nil {
		return res, err
	}
	records, err := table.New(cfg.Table, log).Extract(ctx, cfg.Table.DocumentPath)
	if errors.Is(err, table.ErrNoTables) {
		log.Warn("pipeline: no description table, titles fall back to file names", "document", cfg.Table.DocumentPath)
		res.noTables = true
		err = nil
	}
	if err != nil {
		return res, err
	}
	sum.Records = len(records)
	fmt.Fprintf(w, "tables: %d records\n", len(records))

	res.artworks, res.report, err = resolve.New(records, log).Resolve(names)
	if err != nil {
		return res, err
	}
	sum.Matched = len(res.report.Matched)
	sum.Fallback = len(res.report.Unmatched)
	sum.Skipped = len(res.report.Skipped)
	fmt.Fprintf(w, "resolved: %d artworks (%d matched, %d fallback, %d skipped)\n",
		len(res.artworks), sum.Matched, sum.Fallback, sum.Skipped)

	res.views, res.coverage, err = section.Assign(sections, res.artworks, cfg.AllowMissing, log)
	if err != nil {
		return res, err
	}
	sum.Sections = len(res.views)
	fmt.Fprintf(w, "sections: %d\n", len(res.views))
	return res, nil
}

func (r *Runner) logger() *slog.Logger {
	if r.Logger != nil {
		return r.Logger
	}
	return slog.Default()
}

// normalize checks required inputs and fills defaults.
func normalize(cfg types.BuildConfig) (types.BuildConfig, error) {
	if cfg.Archive.ArchivePath == "" {
		return cfg, errors.New("archive path is required")
	}
	if cfg.Table.DocumentPath == "" {
		return cfg, errors.New("document path is required")
	}
	if cfg.OutDir == "" {
		cfg.OutDir = DefaultOutDir
	}
	if cfg.Archive.WorkDir == "" {
		cfg.Archive.WorkDir = filepath.Join(cfg.OutDir, tmpDir)
	}
	return cfg, nil
}

func loadSections(path string) ([]types.Section, error) {
	if path == "" {
		return section.Default(), nil
	}
	return section.Load(path)
}

// resetOutDir deletes dir and creates it empty. It refuses the filesystem
// root and the working directory.
func resetOutDir(dir string) (string, error) {
	abs, err := filepath.Abs(dir)
	if err != nil {
		return "", err
	}
	wd, _ := os.Getwd()
	if abs == filepath.Dir(abs) || abs == wd {
		return "", fmt.Errorf("refusing to use %s as output directory", abs)
	}
	if err := os.RemoveAll(abs); err != nil {
		return "", fmt.Errorf("clearing %s: %w", abs, err)
	}
	if err := os.MkdirAll(filepath.Join(abs, imagesDir), 0o755); err != nil {
		return "", fmt.Errorf("creating %s: %w", abs, err)
	}
	return abs, nil
}

func indexCatalog(ctx context.Context, path string, cat types.Catalog) error {
	store, err := catalog.NewStore(path)
	if err != nil {
		return err
	}
	defer store.Close()
	_, err = store.Index(ctx, cat)
	return err
}

// stem returns the file name of path without directory and extension.
func stem(path string) string {
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}
