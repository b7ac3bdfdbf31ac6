// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

// Artwork is one resolved work in the exhibition. It is built by the
// resolver from an image filename and an optional table record and is not
// modified afterwards.
type Artwork struct {
	// Order is the leading integer of the image filename. It is unique
	// within a catalog and drives sorting and prev/next navigation.
	Order int `json:"order" yaml:"order"`

	// ID is a name-based UUID derived from Filename, stable across builds.
	ID string `json:"id" yaml:"id"`

	// Filename is the image basename under the images/ output directory.
	Filename string `json:"filename" yaml:"filename"`

	Title       string `json:"title" yaml:"title"`
	Technique   string `json:"method" yaml:"method"`
	Size        string `json:"size" yaml:"size"`
	Date        string `json:"date" yaml:"date"`
	Description string `json:"desc" yaml:"desc"`

	// Matched reports whether a table record was found for the title.
	Matched bool `json:"matched" yaml:"matched"`
}

// Meta returns the non-empty technique, size and date values in display order.
func (a Artwork) Meta() []string {
	var meta []string
	for _, v := range []string{a.Technique, a.Size, a.Date} {
		if v != "" {
			meta = append(meta, v)
		}
	}
	return meta
}

// Section is a thematic grouping of artworks by explicit order membership.
type Section struct {
	ID     string `json:"id" yaml:"id"`
	Title  string `json:"title" yaml:"title"`
	Intro  string `json:"intro" yaml:"intro"`
	Orders []int  `json:"orders" yaml:"orders"`
}

// SectionView is a Section with its member artworks resolved, in section order.
type SectionView struct {
	Section
	Index    int       `json:"-" yaml:"-"`
	Artworks []Artwork `json:"-" yaml:"-"`
}

// TableRecord is one row of a description table: header cell text to row
// cell text. Rows are kept raw; column interpretation happens at lookup time.
type TableRecord map[string]string

// Catalog is the structure persisted to metadata.json.
type Catalog struct {
	Sections []Section `json:"sections" yaml:"sections"`
	Artworks []Artwork `json:"artworks" yaml:"artworks"`
}
