package gutter

import "testing"

func TestFormatAbsolute(t *testing.T) {
	f := NewFormatter(LineNumberAbsolute, 3)
	tests := []struct {
		line int
		want string
	}{
		{0, "  1"},
		{9, " 10"},
		{998, "999"},
		{1000, "1001"},
	}
	for _, tt := range tests {
		if got := f.Format(tt.line); got != tt.want {
			t.Errorf("Format(%d) = %q, want %q", tt.line, got, tt.want)
		}
	}
}

func TestFormatRelative(t *testing.T) {
	f := NewFormatter(LineNumberRelative, 2)
	f.SetCurrentLine(5)

	if got := f.Format(5); got != " 0" {
		t.Errorf("cursor line = %q, want \" 0\"", got)
	}
	if got := f.Format(2); got != " 3" {
		t.Errorf("line above = %q, want \" 3\"", got)
	}
	if got := f.Format(17); got != "12" {
		t.Errorf("line below = %q, want \"12\"", got)
	}

	f.SetMode(LineNumberHybrid)
	if got := f.Format(5); got != " 6" {
		t.Errorf("hybrid cursor line = %q, want \" 6\"", got)
	}
	if got := f.Format(4); got != " 1" {
		t.Errorf("hybrid other line = %q, want \" 1\"", got)
	}
}

func TestBlankAndFiller(t *testing.T) {
	f := NewFormatter(LineNumberAbsolute, 3)
	if got := f.Blank(); got != "   " {
		t.Errorf("Blank() = %q", got)
	}
	if got := f.Filler(); got != "  ~" {
		t.Errorf("Filler() = %q", got)
	}
}

func TestDigits(t *testing.T) {
	tests := []struct {
		lines int
		want  int
	}{
		{1, 2},
		{99, 2},
		{100, 3},
		{12345, 5},
	}
	for _, tt := range tests {
		if got := Digits(tt.lines); got != tt.want {
			t.Errorf("Digits(%d) = %d, want %d", tt.lines, got, tt.want)
		}
	}
}

func TestParseMode(t *testing.T) {
	for name, want := range map[string]LineNumberMode{
		"":         LineNumberAbsolute,
		"absolute": LineNumberAbsolute,
		"Relative": LineNumberRelative,
		"hybrid":   LineNumberHybrid,
	} {
		got, err := ParseMode(name)
		if err != nil {
			t.Errorf("ParseMode(%q) error: %v", name, err)
			continue
		}
		if got != want {
			t.Errorf("ParseMode(%q) = %v, want %v", name, got, want)
		}
	}
	if _, err := ParseMode("roman"); err == nil {
		t.Error("expected error for unknown mode")
	}
}
