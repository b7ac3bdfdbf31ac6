// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package table

import (
	"math"
	"sort"
	"strings"
)

// textLine is a set of runs sharing a baseline.
type textLine struct {
	Y    float64
	Size float64
	Runs []textRun
}

// segment is a horizontally contiguous stretch of a line.
type segment struct {
	X, End float64
	Text   string
}

// layoutTables rebuilds table grids from the text runs and horizontal rules
// of one page. A table starts at a header line naming a title column;
// column bounds come from the gaps between header cells. When rules
// separate the data rows, a line starts a new row only below a rule.
// Otherwise a line whose title cell is empty continues the previous row.
// A new header, a vertical gap of more than six text heights, or the end of
// the page closes the table.
func layoutTables(runs []textRun, rules []float64) [][][]string {
	var (
		tables    [][][]string
		grid      [][]string
		bounds    []float64
		titleAt   int
		lastY     float64
		ruledRows bool
	)
	closeTable := func() {
		if len(grid) > 1 {
			tables = append(tables, grid)
		}
		grid, bounds = nil, nil
	}

	lines := groupLines(runs)
	for i, line := range lines {
		segs := segments(line)
		if col, ok := headerTitleIndex(segs); ok {
			closeTable()
			grid = [][]string{segmentTexts(segs)}
			bounds = columnBounds(segs)
			titleAt = col
			lastY = line.Y
			ruledRows = rulesBetweenRows(lines[i+1:], line.Y, rules)
			continue
		}
		if grid == nil {
			continue
		}
		if lastY-line.Y > 6*line.Size {
			closeTable()
			continue
		}
		prevY := lastY
		lastY = line.Y

		cells := assignColumns(line, bounds)
		newRow := cells[titleAt] != ""
		if ruledRows {
			newRow = ruleBetween(rules, line.Y, prevY)
		}
		if !newRow && len(grid) > 1 {
			prev := grid[len(grid)-1]
			for j, c := range cells {
				if c == "" {
					continue
				}
				if prev[j] == "" {
					prev[j] = c
				} else {
					prev[j] += "\n" + c
				}
			}
			continue
		}
		grid = append(grid, cells)
	}
	closeTable()
	return tables
}

// rulesBetweenRows reports whether a rule lies between two data lines of
// the table whose header is at headerY and whose data lines start lines.
// Rules under the header or below the last line do not count.
func rulesBetweenRows(lines []textLine, headerY float64, rules []float64) bool {
	prevY := headerY
	for i, line := range lines {
		if _, ok := headerTitleIndex(segments(line)); ok || prevY-line.Y > 6*line.Size {
			return false
		}
		if i > 0 && ruleBetween(rules, line.Y, prevY) {
			return true
		}
		prevY = line.Y
	}
	return false
}

// ruleBetween reports whether a rule lies strictly between heights lo and hi.
func ruleBetween(rules []float64, lo, hi float64) bool {
	for _, r := range rules {
		if r > lo && r < hi {
			return true
		}
	}
	return false
}

// groupLines clusters runs into lines from the top of the page down and
// sorts each line left to right.
func groupLines(runs []textRun) []textLine {
	sorted := append([]textRun(nil), runs...)
	sort.SliceStable(sorted, func(i, j int) bool {
		if sorted[i].Y != sorted[j].Y {
			return sorted[i].Y > sorted[j].Y
		}
		return sorted[i].X < sorted[j].X
	})

	var lines []textLine
	for _, r := range sorted {
		if n := len(lines); n > 0 {
			cur := &lines[n-1]
			tol := math.Max(1.5, 0.5*math.Max(cur.Size, r.Size))
			if math.Abs(cur.Y-r.Y) <= tol {
				cur.Runs = append(cur.Runs, r)
				cur.Size = math.Max(cur.Size, r.Size)
				continue
			}
		}
		lines = append(lines, textLine{Y: r.Y, Size: r.Size, Runs: []textRun{r}})
	}
	for i := range lines {
		runs := lines[i].Runs
		sort.SliceStable(runs, func(a, b int) bool { return runs[a].X < runs[b].X })
	}
	return lines
}

// segments merges runs whose gap is under 0.6 em.
func segments(line textLine) []segment {
	var segs []segment
	var prev textRun
	for i, r := range line.Runs {
		if i > 0 && r.X-(prev.X+prev.W) < 0.6*line.Size {
			s := &segs[len(segs)-1]
			s.Text = joinRuns(s.Text, prev, r, line.Size)
			s.End = math.Max(s.End, r.X+r.W)
		} else {
			segs = append(segs, segment{X: r.X, End: r.X + r.W, Text: strings.TrimSpace(r.Text)})
		}
		prev = r
	}
	return segs
}

// joinRuns appends r to text, with a space when r starts visibly after prev.
func joinRuns(text string, prev, r textRun, size float64) string {
	next := strings.TrimSpace(r.Text)
	if text == "" {
		return next
	}
	if r.X-(prev.X+prev.W) > 0.15*size || strings.HasSuffix(prev.Text, " ") || strings.HasPrefix(r.Text, " ") {
		return text + " " + next
	}
	return text + next
}

// headerTitleIndex reports whether segs form a header row and, if so, the
// index of its title column.
func headerTitleIndex(segs []segment) (int, bool) {
	if len(segs) < 2 {
		return 0, false
	}
	for i, s := range segs {
		if matchesColumn(s.Text, ColumnTitle) {
			return i, true
		}
	}
	return 0, false
}

func segmentTexts(segs []segment) []string {
	out := make([]string, len(segs))
	for i, s := range segs {
		out[i] = s.Text
	}
	return out
}

// columnBounds returns the left edge of each column: the midpoint of the
// gap before its header cell. The first column is unbounded on the left.
func columnBounds(segs []segment) []float64 {
	bounds := make([]float64, len(segs))
	bounds[0] = math.Inf(-1)
	for i := 1; i < len(segs); i++ {
		bounds[i] = (segs[i-1].End + segs[i].X) / 2
	}
	return bounds
}

// assignColumns places each run of line in the last column whose left edge
// it starts at or after.
func assignColumns(line textLine, bounds []float64) []string {
	cells := make([]string, len(bounds))
	last := make([]*textRun, len(bounds))
	for i := range line.Runs {
		r := line.Runs[i]
		col := 0
		for c := len(bounds) - 1; c >= 0; c-- {
			if r.X >= bounds[c] {
				col = c
				break
			}
		}
		if last[col] == nil {
			cells[col] = strings.TrimSpace(r.Text)
		} else {
			cells[col] = joinRuns(cells[col], *last[col], r, line.Size)
		}
		last[col] = &line.Runs[i]
	}
	return cells
}
