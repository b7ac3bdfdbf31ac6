// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package print renders the catalog as an A4 print document: a title page
// with the contents, then an intro page per section and one page per
// artwork. The layout is HTML printed to PDF by a headless browser and
// finished with pdfcpu.
package print

import (
	"bytes"
	"context"
	"embed"
	"fmt"
	"html/template"
	"image"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/microcosm-cc/bluemonday"

	"github.com/pdiddy/walkthrough/internal/archive"
	"github.com/pdiddy/walkthrough/pkg/types"
)

//go:embed templates/print.html.tmpl
var templateFS embed.FS

const (
	// DefaultFileName is the PDF name inside the output directory.
	DefaultFileName = "전시_워크쓰루.pdf"

	// ConversionDir holds the converted JPEGs and the print HTML while the
	// document is built. It is removed afterwards.
	ConversionDir = "_converted"

	defaultTitle       = "전시 동선 워크쓰루"
	defaultMaxImageDim = 1600
	defaultJPEGQuality = 85
	defaultMarginMM    = 18
	defaultImageBoxMM  = 135
	defaultTimeout     = 2 * time.Minute

	a4WidthMM = 210.0
	printHTML = "print.html"
	creator   = "walkthrough"
)

// Document is the content of the print catalog.
type Document struct {
	Title    string
	Subtitle string
	Sections []types.SectionView
}

// DefaultSubtitle is the title page line used when none is configured:
// "<source> 기반 · 작품 N점 · 섹션 M개".
func DefaultSubtitle(source string, artworks, sections int) string {
	return fmt.Sprintf("%s 기반 · 작품 %d점 · 섹션 %d개", source, artworks, sections)
}

// Result describes a built document.
type Result struct {
	Path   string
	Pages  int
	Images int
}

type printPage struct {
	Title    string
	Subtitle string
	Margin   template.CSS
	Contents []contentsRow
	Sections []printSection
}

type contentsRow struct {
	Title  string
	Orders string
}

type printSection struct {
	Heading  string
	Intro    template.HTML
	Sequence string
	Works    []printWork
}

type printWork struct {
	Heading string
	Title   string
	Meta    string
	Image   string
	Width   template.CSS
	Height  template.CSS
	Desc    []string
}

// Builder builds the print document.
type Builder struct {
	cfg     types.PrintConfig
	printer Printer
	tmpl    *template.Template
	policy  *bluemonday.Policy
	logger  *slog.Logger
}

// New returns a Builder. A nil printer selects a RodPrinter configured
// from cfg.
func New(cfg types.PrintConfig, printer Printer, logger *slog.Logger) (*Builder, error) {
	if logger == nil {
		logger = slog.Default()
	}
	if cfg.FileName == "" {
		cfg.FileName = DefaultFileName
	}
	if cfg.MaxImageDim <= 0 {
		cfg.MaxImageDim = defaultMaxImageDim
	}
	if cfg.JPEGQuality <= 0 || cfg.JPEGQuality > 100 {
		cfg.JPEGQuality = defaultJPEGQuality
	}
	if cfg.MarginMM <= 0 {
		cfg.MarginMM = defaultMarginMM
	}
	if cfg.ImageBoxHeightMM <= 0 {
		cfg.ImageBoxHeightMM = defaultImageBoxMM
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = defaultTimeout
	}
	if printer == nil {
		printer = &RodPrinter{Bin: cfg.BrowserBin, Timeout: cfg.Timeout, Logger: logger}
	}

	tmpl, err := template.ParseFS(templateFS, "templates/print.html.tmpl")
	if err != nil {
		return nil, fmt.Errorf("parsing print template: %w", err)
	}
	return &Builder{
		cfg:     cfg,
		printer: printer,
		tmpl:    tmpl,
		policy:  bluemonday.UGCPolicy(),
		logger:  logger,
	}, nil
}

// Build converts the images of doc from imagesDir, prints the document into
// outDir and stamps its properties. The conversion directory is removed on
// return, also on failure.
func (b *Builder) Build(ctx context.Context, doc Document, imagesDir, outDir string) (res Result, err error) {
	wd, err := archive.Acquire(filepath.Join(outDir, ConversionDir))
	if err != nil {
		return res, err
	}
	defer func() {
		if rerr := wd.Release(); rerr != nil && err == nil {
			err = rerr
		}
	}()

	page, images, err := b.layout(ctx, doc, imagesDir, wd.Path)
	if err != nil {
		return res, err
	}
	res.Images = images

	var buf bytes.Buffer
	if err := b.tmpl.ExecuteTemplate(&buf, "print.html.tmpl", page); err != nil {
		return res, fmt.Errorf("rendering print layout: %w", err)
	}
	htmlPath := filepath.Join(wd.Path, printHTML)
	if err := os.WriteFile(htmlPath, buf.Bytes(), 0o644); err != nil {
		return res, fmt.Errorf("writing %s: %w", htmlPath, err)
	}

	res.Path = filepath.Join(outDir, b.cfg.FileName)
	b.logger.Info("print: rendering document", "path", res.Path, "images", images)
	if err := b.printer.Print(ctx, htmlPath, res.Path); err != nil {
		return res, fmt.Errorf("printing %s: %w", res.Path, err)
	}

	res.Pages, err = finish(res.Path, map[string]string{
		"Title":   page.Title,
		"Subject": page.Subtitle,
		"Creator": creator,
	})
	if err != nil {
		return res, err
	}
	b.logger.Info("print: document ready", "path", res.Path, "pages", res.Pages)
	return res, nil
}

// layout converts each artwork image once and assembles the template data.
func (b *Builder) layout(ctx context.Context, doc Document, imagesDir, convDir string) (printPage, int, error) {
	title := doc.Title
	if title == "" {
		title = defaultTitle
	}
	page := printPage{
		Title:    title,
		Subtitle: doc.Subtitle,
		Margin:   template.CSS(mm(b.cfg.MarginMM)),
	}

	boxW := a4WidthMM - 2*b.cfg.MarginMM
	boxH := b.cfg.ImageBoxHeightMM
	sizes := make(map[string]image.Point)

	for _, v := range doc.Sections {
		orders := make([]string, len(v.Orders))
		for i, o := range v.Orders {
			orders[i] = fmt.Sprintf("%02d", o)
		}
		page.Contents = append(page.Contents, contentsRow{Title: v.Title, Orders: strings.Join(orders, ", ")})

		titles := make([]string, len(v.Artworks))
		for i, a := range v.Artworks {
			titles[i] = a.Title
		}
		sec := printSection{
			Heading:  fmt.Sprintf("Section %d. %s", v.Index, v.Title),
			Intro:    b.intro(v.Intro),
			Sequence: strings.Join(titles, " → "),
		}

		for _, a := range v.Artworks {
			if err := ctx.Err(); err != nil {
				return page, 0, err
			}
			name := JPEGName(a.Filename)
			size, ok := sizes[name]
			if !ok {
				var err error
				size, err = PrepareImage(filepath.Join(imagesDir, a.Filename), filepath.Join(convDir, name),
					b.cfg.MaxImageDim, b.cfg.JPEGQuality)
				if err != nil {
					return page, 0, err
				}
				sizes[name] = size
			}
			w, h := fitBox(size, boxW, boxH)
			sec.Works = append(sec.Works, printWork{
				Heading: fmt.Sprintf("%02d. %s", a.Order, a.Title),
				Title:   a.Title,
				Meta:    strings.Join(a.Meta(), " · "),
				Image:   name,
				Width:   template.CSS(mm(w)),
				Height:  template.CSS(mm(h)),
				Desc:    lines(a.Description),
			})
		}
		page.Sections = append(page.Sections, sec)
	}
	return page, len(sizes), nil
}

// intro sanitises each line of a section intro and joins them with <br>.
func (b *Builder) intro(text string) template.HTML {
	ls := strings.Split(strings.TrimSpace(text), "\n")
	for i, l := range ls {
		ls[i] = b.policy.Sanitize(strings.TrimRight(l, "\r"))
	}
	return template.HTML(strings.Join(ls, "<br>"))
}

// fitBox scales size uniformly to the largest size that fits boxW×boxH.
// Small images are scaled up.
func fitBox(size image.Point, boxW, boxH float64) (float64, float64) {
	if size.X <= 0 || size.Y <= 0 {
		return 0, 0
	}
	scale := min(boxW/float64(size.X), boxH/float64(size.Y))
	return float64(size.X) * scale, float64(size.Y) * scale
}

func mm(v float64) string {
	return fmt.Sprintf("%.2fmm", v)
}

func lines(text string) []string {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil
	}
	return strings.Split(strings.ReplaceAll(text, "\r\n", "\n"), "\n")
}
