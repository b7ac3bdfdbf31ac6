// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package render writes the offline catalog page, index.html.
package render

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"io"
	"os"
	"strings"

	"github.com/microcosm-cc/bluemonday"

	"github.com/pdiddy/walkthrough/pkg/types"
)

//go:embed templates/index.html.tmpl
var templateFS embed.FS

const (
	defaultTitle         = "전시 동선 워크쓰루"
	defaultDocumentTitle = "전시 워크쓰루"
)

// page is the template data for index.html.
type page struct {
	DocumentTitle string
	Title         string
	Subtitle      string
	Sections      []sectionBlock
	Works         map[int]lightboxEntry
}

type sectionBlock struct {
	ID    string
	Title string
	Intro template.HTML
	Works []workCard
}

type workCard struct {
	Order  int
	Num    string
	Anchor string
	Title  string
	File   string
	Meta   string
	Desc   []string
	Prev   string
	Next   string
}

// lightboxEntry is the script state the image viewer reads per order.
type lightboxEntry struct {
	Title string `json:"title"`
	File  string `json:"file"`
}

// Anchor returns the fragment id of an artwork card: "work-01".
func Anchor(order int) string {
	return fmt.Sprintf("work-%02d", order)
}

// Renderer renders the catalog page.
type Renderer struct {
	cfg    types.RenderConfig
	tmpl   *template.Template
	policy *bluemonday.Policy
}

// New parses the embedded page template.
func New(cfg types.RenderConfig) (*Renderer, error) {
	if cfg.Title == "" {
		cfg.Title = defaultTitle
	}
	if cfg.DocumentTitle == "" {
		cfg.DocumentTitle = defaultDocumentTitle
	}
	tmpl, err := template.ParseFS(templateFS, "templates/index.html.tmpl")
	if err != nil {
		return nil, fmt.Errorf("parsing page template: %w", err)
	}
	return &Renderer{cfg: cfg, tmpl: tmpl, policy: bluemonday.UGCPolicy()}, nil
}

// Render writes the page for views to w. artworks is the full resolved
// list in order; prev/next links follow it rather than section order, and
// the first and last artworks get disabled links.
func (r *Renderer) Render(w io.Writer, views []types.SectionView, artworks []types.Artwork) error {
	neighbours := make(map[int][2]string, len(artworks))
	for i, a := range artworks {
		var nb [2]string
		if i > 0 {
			nb[0] = Anchor(artworks[i-1].Order)
		}
		if i < len(artworks)-1 {
			nb[1] = Anchor(artworks[i+1].Order)
		}
		neighbours[a.Order] = nb
	}

	p := page{
		DocumentTitle: r.cfg.DocumentTitle,
		Title:         r.cfg.Title,
		Subtitle:      fmt.Sprintf("섹션 %d개 · 작품 %d점 · 이미지 클릭하면 크게 보기", len(views), len(artworks)),
		Works:         make(map[int]lightboxEntry, len(artworks)),
	}
	for _, a := range artworks {
		p.Works[a.Order] = lightboxEntry{Title: a.Title, File: a.Filename}
	}

	for _, v := range views {
		block := sectionBlock{ID: v.ID, Title: v.Title, Intro: r.intro(v.Intro)}
		for _, a := range v.Artworks {
			nb := neighbours[a.Order]
			block.Works = append(block.Works, workCard{
				Order:  a.Order,
				Num:    fmt.Sprintf("%02d", a.Order),
				Anchor: Anchor(a.Order),
				Title:  a.Title,
				File:   a.Filename,
				Meta:   strings.Join(a.Meta(), " · "),
				Desc:   descLines(a.Description),
				Prev:   nb[0],
				Next:   nb[1],
			})
		}
		p.Sections = append(p.Sections, block)
	}

	return r.tmpl.ExecuteTemplate(w, "index.html.tmpl", p)
}

// WriteFile renders the page to path.
func (r *Renderer) WriteFile(path string, views []types.SectionView, artworks []types.Artwork) error {
	var buf bytes.Buffer
	if err := r.Render(&buf, views, artworks); err != nil {
		return fmt.Errorf("rendering page: %w", err)
	}
	return os.WriteFile(path, buf.Bytes(), 0o644)
}

// intro sanitises a section intro and turns its line breaks into <br>.
// Plain text comes out escaped; simple inline markup survives.
func (r *Renderer) intro(text string) template.HTML {
	lines := strings.Split(strings.TrimSpace(text), "\n")
	for i, line := range lines {
		lines[i] = r.policy.Sanitize(strings.TrimRight(line, "\r"))
	}
	return template.HTML(strings.Join(lines, "<br>"))
}

// descLines splits a description into display lines; empty when the
// description is blank.
func descLines(desc string) []string {
	desc = strings.TrimSpace(desc)
	if desc == "" {
		return nil
	}
	return strings.Split(strings.ReplaceAll(desc, "\r\n", "\n"), "\n")
}
