// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package render

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/walkthrough/pkg/types"
)

func fixture() ([]types.SectionView, []types.Artwork) {
	artworks := []types.Artwork{
		{Order: 1, Filename: "01_Wave.png", Title: "Wave", Technique: "oil", Size: "10x10", Description: "line one\nline <two>"},
		{Order: 2, Filename: "02_Dusk.png", Title: "Dusk & Dawn"},
		{Order: 3, Filename: "03_Rain.png", Title: "Rain", Date: "2024"},
	}
	views := []types.SectionView{
		{
			Section:  types.Section{ID: "s1", Title: "First", Intro: "Light & sea\n<b>bold</b><script>x()</script>", Orders: []int{1, 2}},
			Index:    1,
			Artworks: artworks[:2],
		},
		{
			Section:  types.Section{ID: "s2", Title: "Second", Intro: "Rain", Orders: []int{3}},
			Index:    2,
			Artworks: artworks[2:],
		},
	}
	return views, artworks
}

func renderFixture(t *testing.T) string {
	t.Helper()
	r, err := New(types.RenderConfig{})
	require.NoError(t, err)

	views, artworks := fixture()
	var buf bytes.Buffer
	require.NoError(t, r.Render(&buf, views, artworks))
	return buf.String()
}

// card returns the rendered <article> of one artwork.
func card(t *testing.T, html, anchor string) string {
	t.Helper()
	start := strings.Index(html, `<article class="work" id="`+anchor+`">`)
	require.GreaterOrEqual(t, start, 0, "card %s not found", anchor)
	end := strings.Index(html[start:], "</article>")
	require.Greater(t, end, 0)
	return html[start : start+end]
}

func TestAnchor(t *testing.T) {
	assert.Equal(t, "work-01", Anchor(1))
	assert.Equal(t, "work-24", Anchor(24))
	assert.Equal(t, "work-100", Anchor(100))
}

func TestRender_Header(t *testing.T) {
	html := renderFixture(t)

	assert.True(t, strings.HasPrefix(html, "<!doctype html>"))
	assert.Contains(t, html, "<title>전시 워크쓰루</title>")
	assert.Contains(t, html, "<h1>전시 동선 워크쓰루</h1>")
	assert.Contains(t, html, "섹션 2개 · 작품 3점 · 이미지 클릭하면 크게 보기")
	assert.Contains(t, html, "<a class='toc-item' href='#s1'>First</a>")
	assert.Contains(t, html, "<a class='toc-item' href='#s2'>Second</a>")
}

func TestRender_NavigationDisabledAtEnds(t *testing.T) {
	html := renderFixture(t)

	first := card(t, html, "work-01")
	assert.Contains(t, first, "<span class='btn disabled'>← 이전</span>")
	assert.Contains(t, first, "<a class='btn' href='#work-02'>다음 →</a>")

	// Navigation crosses the section boundary.
	middle := card(t, html, "work-02")
	assert.Contains(t, middle, "<a class='btn' href='#work-01'>← 이전</a>")
	assert.Contains(t, middle, "<a class='btn' href='#work-03'>다음 →</a>")

	last := card(t, html, "work-03")
	assert.Contains(t, last, "<a class='btn' href='#work-02'>← 이전</a>")
	assert.Contains(t, last, "<span class='btn disabled'>다음 →</span>")

	for _, c := range []string{first, middle, last} {
		assert.Contains(t, c, "<a class='btn' href='#top'>목록</a>")
	}
}

func TestRender_Cards(t *testing.T) {
	html := renderFixture(t)

	wave := card(t, html, "work-01")
	assert.Contains(t, wave, `<span class="num">01</span> Wave`)
	assert.Contains(t, wave, "<div class='meta'>oil · 10x10</div>")
	assert.Contains(t, wave, "<div class='desc'>line one<br>line &lt;two&gt;</div>")
	assert.Contains(t, wave, `src="images/01_Wave.png"`)

	dusk := card(t, html, "work-02")
	assert.Contains(t, dusk, "Dusk &amp; Dawn")
	assert.NotContains(t, dusk, "class='meta'")
	assert.NotContains(t, dusk, "class='desc'")

	rain := card(t, html, "work-03")
	assert.Contains(t, rain, "<div class='meta'>2024</div>")
}

func TestRender_SectionIntroSanitised(t *testing.T) {
	html := renderFixture(t)

	assert.Contains(t, html, "Light &amp; sea<br><b>bold</b>")
	assert.NotContains(t, html, "<script>x()</script>")
	assert.Contains(t, html, `<div class="thumb-cap">01. Wave</div>`)
}

func TestRender_LightboxState(t *testing.T) {
	html := renderFixture(t)

	start := strings.Index(html, "const works = ")
	require.GreaterOrEqual(t, start, 0)
	line := html[start : start+strings.Index(html[start:], "\n")]

	assert.Contains(t, line, `"1":{"title":"Wave","file":"01_Wave.png"}`)
	assert.Contains(t, line, `"3":{"title":"Rain","file":"03_Rain.png"}`)
	assert.Contains(t, line, `"title":"Dusk \u0026 Dawn"`)
}

func TestRender_CustomTitles(t *testing.T) {
	r, err := New(types.RenderConfig{Title: "Spring Show", DocumentTitle: "Show"})
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, r.Render(&buf, nil, nil))
	assert.Contains(t, buf.String(), "<title>Show</title>")
	assert.Contains(t, buf.String(), "<h1>Spring Show</h1>")
	assert.Contains(t, buf.String(), "섹션 0개 · 작품 0점")
}

func TestWriteFile_Deterministic(t *testing.T) {
	r, err := New(types.RenderConfig{})
	require.NoError(t, err)
	views, artworks := fixture()

	dir := t.TempDir()
	a, b := filepath.Join(dir, "a.html"), filepath.Join(dir, "b.html")
	require.NoError(t, r.WriteFile(a, views, artworks))
	require.NoError(t, r.WriteFile(b, views, artworks))

	da, err := os.ReadFile(a)
	require.NoError(t, err)
	db, err := os.ReadFile(b)
	require.NoError(t, err)
	assert.Equal(t, da, db)
}
