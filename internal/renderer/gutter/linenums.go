// Package gutter formats the line numbers drawn to the left of the text.
package gutter

import (
	"fmt"
	"strconv"
	"strings"
)

// LineNumberMode defines how line numbers are displayed.
type LineNumberMode uint8

const (
	// LineNumberAbsolute shows absolute line numbers (1, 2, 3, ...).
	LineNumberAbsolute LineNumberMode = iota

	// LineNumberRelative shows the distance from the cursor line.
	LineNumberRelative

	// LineNumberHybrid shows the absolute number on the cursor line and
	// relative numbers elsewhere.
	LineNumberHybrid
)

var modeNames = map[string]LineNumberMode{
	"absolute": LineNumberAbsolute,
	"relative": LineNumberRelative,
	"hybrid":   LineNumberHybrid,
}

// ParseMode parses "absolute", "relative" or "hybrid". The empty string
// means absolute.
func ParseMode(s string) (LineNumberMode, error) {
	if s == "" {
		return LineNumberAbsolute, nil
	}
	m, ok := modeNames[strings.ToLower(s)]
	if !ok {
		return LineNumberAbsolute, fmt.Errorf("unknown line number mode %q", s)
	}
	return m, nil
}

// String returns the mode name.
func (m LineNumberMode) String() string {
	switch m {
	case LineNumberRelative:
		return "relative"
	case LineNumberHybrid:
		return "hybrid"
	default:
		return "absolute"
	}
}

// MinDigits is the narrowest number column.
const MinDigits = 2

// Formatter formats line numbers according to a mode.
type Formatter struct {
	mode        LineNumberMode
	width       int
	currentLine int
}

// NewFormatter creates a formatter that pads numbers to width cells.
func NewFormatter(mode LineNumberMode, width int) *Formatter {
	return &Formatter{mode: mode, width: width}
}

// SetMode changes the line number mode.
func (f *Formatter) SetMode(mode LineNumberMode) {
	f.mode = mode
}

// SetWidth sets the display width for line numbers.
func (f *Formatter) SetWidth(width int) {
	f.width = width
}

// SetCurrentLine sets the cursor line (0-based) for relative numbering.
func (f *Formatter) SetCurrentLine(line int) {
	f.currentLine = line
}

// Format returns the right-aligned number for a 0-based line.
func (f *Formatter) Format(line int) string {
	return PadLeft(strconv.Itoa(f.number(line)), f.width)
}

// Blank returns the padding drawn on continuation rows and past the end of
// the document.
func (f *Formatter) Blank() string {
	return strings.Repeat(" ", f.width)
}

// Filler returns the marker drawn on rows past the end of the document.
func (f *Formatter) Filler() string {
	return PadLeft("~", f.width)
}

func (f *Formatter) number(line int) int {
	switch f.mode {
	case LineNumberRelative:
		return absDiff(line, f.currentLine)
	case LineNumberHybrid:
		if line == f.currentLine {
			return line + 1
		}
		return absDiff(line, f.currentLine)
	default:
		return line + 1
	}
}

func absDiff(a, b int) int {
	if a > b {
		return a - b
	}
	return b - a
}

// PadLeft pads a string with spaces on the left to the specified width.
func PadLeft(s string, width int) string {
	if len(s) >= width {
		return s
	}
	return strings.Repeat(" ", width-len(s)) + s
}

// Digits returns the number column width for a document of lineCount
// lines, never less than MinDigits.
func Digits(lineCount int) int {
	return max(len(strconv.Itoa(lineCount)), MinDigits)
}
