// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package table

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"
)

// extractPDF lays out the positioned text of every page and returns the
// tables found on each. Tables do not continue across pages.
func extractPDF(ctx context.Context, path string) ([][][]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	conf := model.NewDefaultConfiguration()
	pctx, err := api.ReadValidateAndOptimize(f, conf)
	if err != nil {
		return nil, fmt.Errorf("pdfcpu read: %w", err)
	}

	var tables [][][]string
	for pageNr := 1; pageNr <= pctx.PageCount; pageNr++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		cmaps, err := pageCMaps(pctx, pageNr)
		if err != nil {
			return nil, fmt.Errorf("page %d fonts: %w", pageNr, err)
		}
		r, err := pdfcpu.ExtractPageContent(pctx, pageNr)
		if err != nil {
			return nil, fmt.Errorf("page %d content: %w", pageNr, err)
		}
		if r == nil {
			continue
		}
		data, err := io.ReadAll(r)
		if err != nil {
			return nil, fmt.Errorf("page %d content: %w", pageNr, err)
		}
		runs, rules := interpret(data, cmaps)
		tables = append(tables, layoutTables(runs, rules)...)
	}
	return tables, nil
}

// pageCMaps returns the ToUnicode maps of the fonts in effect on one page,
// keyed by resource name. Resources inherited from the page tree apply
// when the page has none of its own. Fonts without a readable ToUnicode
// stream are left out and their text is decoded by decodeFallback.
func pageCMaps(pctx *model.Context, pageNr int) (map[string]*toUnicode, error) {
	_, _, inh, err := pctx.PageDict(pageNr, false)
	if err != nil {
		return nil, err
	}
	cmaps := make(map[string]*toUnicode)
	if inh == nil || inh.Resources == nil {
		return cmaps, nil
	}
	obj, found := inh.Resources.Find("Font")
	if !found {
		return cmaps, nil
	}
	fonts, err := pctx.DereferenceDict(obj)
	if err != nil || fonts == nil {
		return cmaps, err
	}

	for name, ref := range fonts {
		fd, err := pctx.DereferenceDict(ref)
		if err != nil || fd == nil {
			continue
		}
		tu, found := fd.Find("ToUnicode")
		if !found {
			continue
		}
		sd, _, err := pctx.DereferenceStreamDict(tu)
		if err != nil || sd == nil {
			continue
		}
		if err := sd.Decode(); err != nil || len(sd.Content) == 0 {
			continue
		}
		cmaps[name] = parseCMap(sd.Content)
	}
	return cmaps, nil
}
