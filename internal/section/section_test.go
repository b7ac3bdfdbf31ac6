// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package section

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/walkthrough/pkg/types"
)

func artworks(orders ...int) []types.Artwork {
	out := make([]types.Artwork, len(orders))
	for i, o := range orders {
		out[i] = types.Artwork{Order: o, Title: "work"}
	}
	return out
}

func TestDefault(t *testing.T) {
	sections := Default()
	require.Len(t, sections, 3)
	require.NoError(t, Validate(sections))

	assert.Equal(t, "에너지의 빛", sections[0].Title)
	assert.Equal(t, []int{1, 2, 3, 4, 5}, sections[0].Orders)
	assert.Equal(t, "풍경이 되는 마음", sections[1].Title)
	assert.Equal(t, []int{6, 7, 8, 9, 10}, sections[1].Orders)
	assert.Equal(t, "사람의 빛", sections[2].Title)
	assert.Len(t, sections[2].Orders, 14)
	assert.Equal(t, 11, sections[2].Orders[0])
	assert.Equal(t, 24, sections[2].Orders[13])

	// Callers may modify the result without affecting later calls.
	sections[0].Orders[0] = 99
	assert.Equal(t, 1, Default()[0].Orders[0])
}

func TestAssign_DefaultSectionsCoverTwentyFourWorks(t *testing.T) {
	orders := make([]int, 24)
	for i := range orders {
		orders[i] = i + 1
	}

	views, cov, err := Assign(Default(), artworks(orders...), false, nil)
	require.NoError(t, err)
	assert.True(t, cov.Complete())
	require.Len(t, views, 3)

	total := 0
	for i, v := range views {
		assert.Equal(t, i+1, v.Index)
		assert.Len(t, v.Artworks, len(v.Orders))
		for j, a := range v.Artworks {
			assert.Equal(t, v.Orders[j], a.Order)
		}
		total += len(v.Artworks)
	}
	assert.Equal(t, 24, total)
}

func TestAssign_Missing(t *testing.T) {
	sections := []types.Section{
		{ID: "a", Title: "A", Orders: []int{1, 2, 3}},
		{ID: "b", Title: "B", Orders: []int{3, 4}},
	}

	t.Run("fails by default", func(t *testing.T) {
		_, cov, err := Assign(sections, artworks(1, 4), false, nil)
		assert.ErrorIs(t, err, ErrMissingArtwork)
		assert.Equal(t, []int{2, 3}, cov.Missing)
		assert.Equal(t, []int{3}, cov.Duplicates)
	})

	t.Run("dropped when allowed", func(t *testing.T) {
		views, cov, err := Assign(sections, artworks(1, 4), true, nil)
		require.NoError(t, err)
		assert.False(t, cov.Complete())
		assert.Equal(t, []int{1}, views[0].Orders)
		assert.Equal(t, []int{4}, views[1].Orders)
		// The input sections are untouched.
		assert.Equal(t, []int{1, 2, 3}, sections[0].Orders)
	})
}

func TestAssign_UnplacedAndDuplicates(t *testing.T) {
	sections := []types.Section{
		{ID: "a", Title: "A", Orders: []int{2, 1}},
		{ID: "b", Title: "B", Orders: []int{1}},
		{ID: "c", Title: "C"},
	}

	views, cov, err := Assign(sections, artworks(1, 2, 3, 5), false, nil)
	require.NoError(t, err)
	assert.Equal(t, []int{3, 5}, cov.Unplaced)
	assert.Equal(t, []int{1}, cov.Duplicates)
	assert.Empty(t, cov.Missing)

	// Section order is kept, not artwork order.
	assert.Equal(t, []int{2, 1}, views[0].Orders)
	assert.NotNil(t, views[2].Orders)
	assert.Empty(t, views[2].Orders)
}

func TestLoadWrite(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sections.yaml")
	require.NoError(t, Write(path, Default()))

	got, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, Default(), got)
}

func TestLoad(t *testing.T) {
	tests := []struct {
		name    string
		content string
		wantErr string
	}{
		{
			name: "valid",
			content: `sections:
  - id: intro
    title: 시작
    intro: |
      첫 줄
      둘째 줄
    orders: [1, 2]
`,
		},
		{name: "empty", content: "sections: []\n", wantErr: "no sections defined"},
		{name: "missing id", content: "sections:\n  - title: A\n", wantErr: "missing id"},
		{name: "duplicate id", content: "sections:\n  - {id: a, title: A}\n  - {id: a, title: B}\n", wantErr: "duplicate id"},
		{name: "missing title", content: "sections:\n  - id: a\n", wantErr: "missing title"},
		{name: "bad order", content: "sections:\n  - {id: a, title: A, orders: [0]}\n", wantErr: "invalid order 0"},
		{name: "not yaml", content: "sections: [", wantErr: "parsing sections file"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "sections.yaml")
			require.NoError(t, os.WriteFile(path, []byte(tt.content), 0o644))

			got, err := Load(path)
			if tt.wantErr != "" {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.wantErr)
				return
			}
			require.NoError(t, err)
			require.Len(t, got, 1)
			assert.Equal(t, "첫 줄\n둘째 줄\n", got[0].Intro)
			assert.Equal(t, []int{1, 2}, got[0].Orders)
		})
	}
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "none.yaml"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestSections(t *testing.T) {
	views, _, err := Assign(Default()[:1], artworks(1, 2, 3, 4, 5), false, nil)
	require.NoError(t, err)
	assert.Equal(t, Default()[:1], Sections(views))
}
