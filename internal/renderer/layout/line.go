// Package layout wraps logical lines into visual rows and maps between byte
// offsets and screen cells.
package layout

import (
	"sort"

	"github.com/rivo/uniseg"
)

// Row is one visual row of a logical line. Start and End are line-relative
// byte offsets; Width is the row's display width in cells.
type Row struct {
	Start int
	End   int
	Width int
}

// Cluster is a grapheme cluster placed on a row.
type Cluster struct {
	Start int // line-relative byte offset
	End   int
	Row   int
	Col   int // first cell within the row
	Width int // cells occupied, after tab expansion
	Text  string
}

// IsTab reports whether the cluster is a tab character.
func (c Cluster) IsTab() bool {
	return c.Text == "\t"
}

// LineLayout is the visual layout of a single logical line.
type LineLayout struct {
	Rows     []Row
	Clusters []Cluster
	Len      int // byte length of the line
}

// RowCount returns the number of visual rows. Always at least one.
func (l *LineLayout) RowCount() int {
	return len(l.Rows)
}

// RowClusters returns the clusters placed on row.
func (l *LineLayout) RowClusters(row int) []Cluster {
	if row < 0 || row >= len(l.Rows) {
		return nil
	}
	r := l.Rows[row]
	lo := sort.Search(len(l.Clusters), func(i int) bool { return l.Clusters[i].Start >= r.Start })
	hi := lo
	for hi < len(l.Clusters) && l.Clusters[hi].Row == row {
		hi++
	}
	return l.Clusters[lo:hi]
}

// OffsetToScreen returns the row and cell column for a line-relative byte
// offset. An offset on a row boundary belongs to the row it starts; the line
// end maps past the last cell of the final row. Offsets inside a cluster snap
// to the cluster start.
func (l *LineLayout) OffsetToScreen(offset int) (row, col int) {
	if offset >= l.Len || len(l.Clusters) == 0 {
		last := len(l.Rows) - 1
		return last, l.Rows[last].Width
	}
	if offset < 0 {
		offset = 0
	}
	i := sort.Search(len(l.Clusters), func(i int) bool { return l.Clusters[i].End > offset })
	c := l.Clusters[i]
	return c.Row, c.Col
}

// ScreenToOffset returns the line-relative byte offset for a cell on row.
// A cell inside a cluster rounds to the nearest cluster boundary, ties going
// to the cluster's start. Past the end of a non-final row the result is the
// start of the row's last cluster; past the end of the final row it is the
// line end.
func (l *LineLayout) ScreenToOffset(row, col int) int {
	if row < 0 {
		row = 0
	}
	if row >= len(l.Rows) {
		row = len(l.Rows) - 1
	}
	r := l.Rows[row]
	if col <= 0 {
		return r.Start
	}
	final := row == len(l.Rows)-1
	clusters := l.RowClusters(row)
	for i, c := range clusters {
		if col >= c.Col+c.Width {
			continue
		}
		if 2*(col-c.Col)+1 > c.Width {
			if !final && i == len(clusters)-1 {
				return c.Start
			}
			return c.End
		}
		return c.Start
	}
	if final || len(clusters) == 0 {
		return r.End
	}
	return clusters[len(clusters)-1].Start
}

// Engine computes line layouts for a fixed wrap width and tab width.
type Engine struct {
	tabs  TabExpander
	width int
	wrap  bool
}

// NewEngine creates a layout engine. A width below one disables wrapping.
func NewEngine(width, tabWidth int, wrap bool) *Engine {
	return &Engine{tabs: NewTabExpander(tabWidth), width: width, wrap: wrap && width > 0}
}

// Width returns the wrap width in cells.
func (e *Engine) Width() int { return e.width }

// TabWidth returns the tab width.
func (e *Engine) TabWidth() int { return e.tabs.TabWidth() }

// Wrap reports whether soft wrapping is enabled.
func (e *Engine) Wrap() bool { return e.wrap }

// Layout greedily fills rows with grapheme clusters of line.
func (e *Engine) Layout(line string) *LineLayout {
	l := &LineLayout{Len: len(line)}
	row, col, rowStart := 0, 0, 0
	forEachCluster(line, func(off int, cluster string, width int) {
		if cluster == "\t" {
			width = e.tabs.TabStopOffset(col)
		}
		if e.wrap && col > 0 && col+width > e.width {
			l.Rows = append(l.Rows, Row{Start: rowStart, End: off, Width: col})
			row++
			col, rowStart = 0, off
			if cluster == "\t" {
				width = e.tabs.TabStopOffset(0)
			}
		}
		if e.wrap && cluster == "\t" && width > e.width {
			width = e.width
		}
		l.Clusters = append(l.Clusters, Cluster{
			Start: off,
			End:   off + len(cluster),
			Row:   row,
			Col:   col,
			Width: width,
			Text:  cluster,
		})
		col += width
	})
	l.Rows = append(l.Rows, Row{Start: rowStart, End: len(line), Width: col})
	return l
}

func forEachCluster(s string, fn func(off int, cluster string, width int)) {
	state := -1
	off := 0
	for len(s) > 0 {
		var cluster string
		var boundaries int
		cluster, s, boundaries, state = uniseg.StepString(s, state)
		fn(off, cluster, boundaries>>uniseg.ShiftWidth)
		off += len(cluster)
	}
}
