package layout

import "testing"

func TestLayoutRows(t *testing.T) {
	tests := []struct {
		name  string
		width int
		wrap  bool
		text  string
		rows  []Row
	}{
		{"empty line", 10, true, "", []Row{{0, 0, 0}}},
		{"fits", 10, true, "hello", []Row{{0, 5, 5}}},
		{"greedy wrap", 5, true, "hello world", []Row{{0, 5, 5}, {5, 10, 5}, {10, 11, 1}}},
		{"no wrap", 5, false, "hello world", []Row{{0, 11, 11}}},
		{"tab stop", 10, true, "a\tb", []Row{{0, 3, 5}}},
		{"tab wraps to fresh stop", 6, true, "abcde\tx", []Row{{0, 5, 5}, {5, 7, 5}}},
		{"wide clusters", 3, true, "中文字", []Row{{0, 3, 2}, {3, 6, 2}, {6, 9, 2}}},
		{"oversized cluster on empty row", 1, true, "中a", []Row{{0, 3, 2}, {3, 4, 1}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			l := NewEngine(tt.width, 4, tt.wrap).Layout(tt.text)
			if len(l.Rows) != len(tt.rows) {
				t.Fatalf("rows = %v, want %v", l.Rows, tt.rows)
			}
			for i := range tt.rows {
				if l.Rows[i] != tt.rows[i] {
					t.Errorf("row %d = %v, want %v", i, l.Rows[i], tt.rows[i])
				}
			}
		})
	}
}

func TestLayoutCombiningCluster(t *testing.T) {
	// e + combining acute accent is one cluster of width 1.
	l := NewEngine(10, 4, true).Layout("e\u0301x")
	if len(l.Clusters) != 2 {
		t.Fatalf("expected 2 clusters, got %d", len(l.Clusters))
	}
	if l.Rows[0].Width != 2 {
		t.Errorf("width = %d, want 2", l.Rows[0].Width)
	}
	row, col := l.OffsetToScreen(1)
	if row != 0 || col != 0 {
		t.Errorf("mid-cluster offset mapped to (%d,%d), want (0,0)", row, col)
	}
}

func TestOffsetToScreen(t *testing.T) {
	l := NewEngine(5, 4, true).Layout("hello world")

	tests := []struct {
		offset   int
		row, col int
	}{
		{0, 0, 0},
		{4, 0, 4},
		{5, 1, 0},
		{9, 1, 4},
		{10, 2, 0},
		{11, 2, 1},
	}
	for _, tt := range tests {
		row, col := l.OffsetToScreen(tt.offset)
		if row != tt.row || col != tt.col {
			t.Errorf("OffsetToScreen(%d) = (%d,%d), want (%d,%d)", tt.offset, row, col, tt.row, tt.col)
		}
	}
}

func TestScreenToOffset(t *testing.T) {
	wrapped := NewEngine(5, 4, true).Layout("hello world")
	wide := NewEngine(3, 4, true).Layout("中文字")
	wideNoWrap := NewEngine(3, 4, false).Layout("中文")
	tabbed := NewEngine(10, 4, true).Layout("a\tb")

	tests := []struct {
		name     string
		layout   *LineLayout
		row, col int
		want     int
	}{
		{"row start", wrapped, 1, 0, 5},
		{"inside row", wrapped, 1, 2, 7},
		{"past non-final row", wrapped, 0, 10, 4},
		{"past final row", wrapped, 2, 5, 11},
		{"negative col", wrapped, 2, -3, 10},
		{"row beyond last", wrapped, 9, 0, 10},
		{"wide second half on wrapped row", wide, 0, 1, 0},
		{"wide second half", wideNoWrap, 0, 1, 3},
		{"wide first half", wideNoWrap, 0, 2, 3},
		{"wide final half", wideNoWrap, 0, 3, 6},
		{"tab first cell", tabbed, 0, 1, 1},
		{"tab middle ties to start", tabbed, 0, 2, 1},
		{"tab last cell", tabbed, 0, 3, 2},
		{"after tab", tabbed, 0, 4, 3},
		{"past end", tabbed, 0, 9, 4},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.layout.ScreenToOffset(tt.row, tt.col); got != tt.want {
				t.Errorf("ScreenToOffset(%d,%d) = %d, want %d", tt.row, tt.col, got, tt.want)
			}
		})
	}
}

func TestRoundTripOnClusterBoundaries(t *testing.T) {
	text := "ab\tc中d e\u0301f"
	l := NewEngine(4, 4, true).Layout(text)
	for _, c := range l.Clusters {
		row, col := l.OffsetToScreen(c.Start)
		if got := l.ScreenToOffset(row, col); got != c.Start {
			t.Errorf("round trip of %d via (%d,%d) gave %d", c.Start, row, col, got)
		}
	}
}

func TestRowClusters(t *testing.T) {
	l := NewEngine(5, 4, true).Layout("hello world")
	got := l.RowClusters(1)
	if len(got) != 5 || got[0].Text != " " || got[4].Text != "l" {
		t.Errorf("unexpected row 1 clusters: %+v", got)
	}
	if l.RowClusters(7) != nil {
		t.Error("expected nil for missing row")
	}
}

func TestTabExpander(t *testing.T) {
	tabs := NewTabExpander(0)
	if tabs.TabWidth() != DefaultTabWidth {
		t.Errorf("expected default tab width, got %d", tabs.TabWidth())
	}

	tabs = NewTabExpander(4)
	if got := tabs.NextTabStop(5); got != 8 {
		t.Errorf("NextTabStop(5) = %d, want 8", got)
	}
	if got := tabs.TabStopOffset(8); got != 4 {
		t.Errorf("TabStopOffset(8) = %d, want 4", got)
	}
	if got := tabs.ExpandedWidth("a\tb中"); got != 7 {
		t.Errorf("ExpandedWidth = %d, want 7", got)
	}
}
