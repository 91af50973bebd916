package layout

// DefaultTabWidth is used when a non-positive tab width is configured.
const DefaultTabWidth = 4

// TabExpander computes tab stop positions.
type TabExpander struct {
	tabWidth int
}

// NewTabExpander creates a tab expander with the given tab width.
func NewTabExpander(tabWidth int) TabExpander {
	if tabWidth < 1 {
		tabWidth = DefaultTabWidth
	}
	return TabExpander{tabWidth: tabWidth}
}

// TabWidth returns the current tab width.
func (t TabExpander) TabWidth() int {
	return t.tabWidth
}

// NextTabStop returns the next tab stop column after col.
func (t TabExpander) NextTabStop(col int) int {
	return col + t.TabStopOffset(col)
}

// TabStopOffset returns how many columns a tab at col occupies.
func (t TabExpander) TabStopOffset(col int) int {
	return t.tabWidth - (col % t.tabWidth)
}

// ExpandedWidth returns the display width of s on a single unwrapped row.
func (t TabExpander) ExpandedWidth(s string) int {
	col := 0
	forEachCluster(s, func(_ int, cluster string, width int) {
		if cluster == "\t" {
			col = t.NextTabStop(col)
			return
		}
		col += width
	})
	return col
}
