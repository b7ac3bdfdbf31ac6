// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package print

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/url"
	"os"
	"path/filepath"
	"time"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/launcher"
	"github.com/go-rod/rod/lib/proto"
)

// Printer turns a local HTML file into a PDF.
type Printer interface {
	Print(ctx context.Context, htmlPath, pdfPath string) error
}

// RodPrinter prints through a headless Chrome driven by go-rod. The page
// is printed with its CSS @page size and backgrounds.
type RodPrinter struct {
	// Bin is the browser binary. Empty tries DetectBrowser and then lets
	// the launcher find or download one.
	Bin string

	// Timeout bounds one print, launch included. Zero means no limit.
	Timeout time.Duration

	Logger *slog.Logger
}

// Print loads htmlPath, waits for it and its images, and writes the PDF.
func (p *RodPrinter) Print(ctx context.Context, htmlPath, pdfPath string) error {
	log := p.Logger
	if log == nil {
		log = slog.Default()
	}
	if p.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, p.Timeout)
		defer cancel()
	}

	l := launcher.New().Context(ctx).Headless(true).NoSandbox(os.Geteuid() == 0)
	bin := p.Bin
	if bin == "" {
		found, err := DetectBrowser()
		if err != nil {
			log.Warn("print: falling back to launcher browser lookup", "error", err)
		}
		bin = found
	}
	if bin != "" {
		l = l.Bin(bin)
	}

	u, err := l.Launch()
	if err != nil {
		return fmt.Errorf("launching browser: %w", err)
	}
	defer l.Cleanup()
	log.Debug("print: browser launched", "bin", bin, "url", u)

	b := rod.New().Context(ctx).ControlURL(u)
	if err := b.Connect(); err != nil {
		return fmt.Errorf("connecting to browser: %w", err)
	}
	defer b.Close()

	abs, err := filepath.Abs(htmlPath)
	if err != nil {
		return err
	}
	page, err := b.Page(proto.TargetCreateTarget{URL: ""})
	if err != nil {
		return fmt.Errorf("opening page: %w", err)
	}
	if err := page.Navigate(fileURL(abs)); err != nil {
		return fmt.Errorf("loading %s: %w", abs, err)
	}
	if err := page.WaitLoad(); err != nil {
		return fmt.Errorf("waiting for %s: %w", abs, err)
	}

	r, err := page.PDF(&proto.PagePrintToPDF{
		PreferCSSPageSize: true,
		PrintBackground:   true,
	})
	if err != nil {
		return fmt.Errorf("printing %s: %w", abs, err)
	}

	out, err := os.Create(pdfPath)
	if err != nil {
		return fmt.Errorf("creating %s: %w", pdfPath, err)
	}
	if _, err := io.Copy(out, r); err != nil {
		out.Close()
		return fmt.Errorf("writing %s: %w", pdfPath, err)
	}
	return out.Close()
}

func fileURL(path string) string {
	return (&url.URL{Scheme: "file", Path: filepath.ToSlash(path)}).String()
}
