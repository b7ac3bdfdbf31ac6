// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package section groups resolved artworks into the exhibition's thematic
// sections and checks that the grouping covers the artworks exactly.
package section

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"sort"

	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/walkthrough/pkg/types"
)

// ErrMissingArtwork is returned when a section lists an order number that
// no artwork carries.
var ErrMissingArtwork = errors.New("section references missing artwork")

// Default returns the three built-in sections of the exhibition.
func Default() []types.Section {
	return []types.Section{
		{
			ID:     "s1",
			Title:  "에너지의 빛",
			Intro:  "파도는 솟구치고, 고요는 멈춰 있으면서도 살아 움직입니다. 이 섹션의 빛은 풍경의 ‘조명’이 아니라, 화면 안에서 공명하며 균형을 찾아가는 ‘기운’입니다. 보이지 않는 세계가 더 오색창연하게 빛난다는 믿음이, 추상과 리듬을 통해 먼저 전시의 문을 엽니다.",
			Orders: []int{1, 2, 3, 4, 5},
		},
		{
			ID:     "s2",
			Title:  "풍경이 되는 마음",
			Intro:  "목련이 환하게 빛나던 봄밤의 가로등, 5월의 푸르름, 늦여름 산책로의 공기. 이 섹션에서 빛은 ‘기억의 온도’가 됩니다. 걸으며 마주친 풍경은 곧 마음의 풍경이 되고, 그 풍경은 다시 누군가를 “환해지게” 하는 기도가 됩니다.",
			Orders: []int{6, 7, 8, 9, 10},
		},
		{
			ID:     "s3",
			Title:  "사람의 빛",
			Intro:  "등 뒤에서 느껴지는 숨통(낚시), 말없던 사춘기의 커피 한 잔, 번쩍 안아 올린 아이의 웃음, 선물로 건네는 사과, 열렬히 행복하길 바라는 춤의 마음. 이 섹션의 빛은 관계에서 생깁니다. 사랑과 그리움, 응원과 흐뭇함이 겹쳐지며 ‘삶을 계속하게 하는 빛’으로 남습니다.",
			Orders: []int{11, 12, 13, 14, 15, 16, 17, 18, 19, 20, 21, 22, 23, 24},
		},
	}
}

// File is the on-disk form of a sections file.
type File struct {
	Sections []types.Section `yaml:"sections"`
}

// Load reads a sections file and validates it.
func Load(path string) ([]types.Section, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading sections file: %w", err)
	}
	var f File
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parsing sections file: %w", err)
	}
	if err := Validate(f.Sections); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return f.Sections, nil
}

// Write saves sections in the format Load reads.
func Write(path string, sections []types.Section) error {
	data, err := yaml.Marshal(&File{Sections: sections})
	if err != nil {
		return fmt.Errorf("marshaling sections: %w", err)
	}
	return os.WriteFile(path, data, 0o644)
}

// Validate checks that there is at least one section, that every section
// has a unique non-empty id and a title, and that orders are positive.
func Validate(sections []types.Section) error {
	if len(sections) == 0 {
		return fmt.Errorf("no sections defined")
	}
	ids := make(map[string]bool, len(sections))
	for i, s := range sections {
		if s.ID == "" {
			return fmt.Errorf("section %d: missing id", i+1)
		}
		if ids[s.ID] {
			return fmt.Errorf("section %q: duplicate id", s.ID)
		}
		ids[s.ID] = true
		if s.Title == "" {
			return fmt.Errorf("section %q: missing title", s.ID)
		}
		for _, o := range s.Orders {
			if o <= 0 {
				return fmt.Errorf("section %q: invalid order %d", s.ID, o)
			}
		}
	}
	return nil
}

// Coverage compares section membership with the resolved artworks.
type Coverage struct {
	// Missing lists orders referenced by a section with no artwork.
	Missing []int

	// Unplaced lists artwork orders that no section references.
	Unplaced []int

	// Duplicates lists orders referenced by more than one section.
	Duplicates []int
}

// Complete reports whether sections and artworks correspond one to one.
func (c Coverage) Complete() bool {
	return len(c.Missing) == 0 && len(c.Unplaced) == 0 && len(c.Duplicates) == 0
}

// Assign resolves each section's orders to artworks. Orders without an
// artwork fail with ErrMissingArtwork unless allowMissing is set, in which
// case they are dropped from the returned sections. Unplaced and duplicated
// orders are reported and logged but do not fail.
func Assign(sections []types.Section, artworks []types.Artwork, allowMissing bool, logger *slog.Logger) ([]types.SectionView, Coverage, error) {
	if logger == nil {
		logger = slog.Default()
	}
	byOrder := make(map[int]types.Artwork, len(artworks))
	for _, a := range artworks {
		byOrder[a.Order] = a
	}

	var cov Coverage
	placed := make(map[int]int)
	views := make([]types.SectionView, 0, len(sections))
	for i, s := range sections {
		view := types.SectionView{Section: s, Index: i + 1}
		view.Orders = make([]int, 0, len(s.Orders))
		for _, o := range s.Orders {
			placed[o]++
			if placed[o] == 2 {
				cov.Duplicates = append(cov.Duplicates, o)
			}
			a, ok := byOrder[o]
			if !ok {
				if placed[o] == 1 {
					cov.Missing = append(cov.Missing, o)
				}
				continue
			}
			view.Orders = append(view.Orders, o)
			view.Artworks = append(view.Artworks, a)
		}
		views = append(views, view)
	}

	for _, a := range artworks {
		if placed[a.Order] == 0 {
			cov.Unplaced = append(cov.Unplaced, a.Order)
		}
	}
	sort.Ints(cov.Missing)
	sort.Ints(cov.Unplaced)
	sort.Ints(cov.Duplicates)

	if len(cov.Unplaced) > 0 {
		logger.Warn("artworks not placed in any section", "orders", cov.Unplaced)
	}
	if len(cov.Duplicates) > 0 {
		logger.Warn("orders placed in more than one section", "orders", cov.Duplicates)
	}
	if len(cov.Missing) > 0 {
		if !allowMissing {
			return nil, cov, fmt.Errorf("orders %v: %w", cov.Missing, ErrMissingArtwork)
		}
		logger.Warn("dropping section orders with no artwork", "orders", cov.Missing)
	}
	return views, cov, nil
}

// Sections returns the plain sections of views, as persisted to metadata.
func Sections(views []types.SectionView) []types.Section {
	out := make([]types.Section, len(views))
	for i, v := range views {
		out[i] = v.Section
	}
	return out
}
