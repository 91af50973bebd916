package viewport

// MarginConfig holds scroll margins: rows or columns kept between the cursor
// and the edge of the view.
type MarginConfig struct {
	Top    int
	Bottom int
	Left   int
	Right  int
}

// NoMargins lets the cursor reach the edges of the view.
func NoMargins() MarginConfig {
	return MarginConfig{}
}

// UniformMargins returns the same vertical margin top and bottom and twice
// that horizontally.
func UniformMargins(rows int) MarginConfig {
	return MarginConfig{Top: rows, Bottom: rows, Left: 2 * rows, Right: 2 * rows}
}

// maxMarginRatio limits margins to a third of the view.
const maxMarginRatio = 3

// SetMargins configures scroll margins. Negative values are treated as zero.
func (s *Scroller) SetMargins(m MarginConfig) {
	s.margins = MarginConfig{
		Top:    max(m.Top, 0),
		Bottom: max(m.Bottom, 0),
		Left:   max(m.Left, 0),
		Right:  max(m.Right, 0),
	}
}

// Margins returns the configured margins.
func (s *Scroller) Margins() MarginConfig {
	return s.margins
}

// EffectiveMargins returns the margins clamped to the current view size.
func (s *Scroller) EffectiveMargins() MarginConfig {
	m := s.margins
	maxV := s.height / maxMarginRatio
	maxH := s.width / maxMarginRatio
	m.Top = min(m.Top, maxV)
	m.Bottom = min(m.Bottom, maxV)
	m.Left = min(m.Left, maxH)
	m.Right = min(m.Right, maxH)
	return m
}
