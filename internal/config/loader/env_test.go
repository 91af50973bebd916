package loader

import "testing"

func TestEnvLoader_Load(t *testing.T) {
	l := NewEnvLoaderFrom(DefaultPrefix, []string{
		"QUILL_THEME=dracula",
		"QUILL_EDITOR_TAB_WIDTH=2",
		"QUILL_EDITOR_WRAP=off",
		"QUILL_LOG_FILE=/tmp/quill.log",
		"QUILL_CONFIG=/etc/quill.toml",
		"QUILL_=x",
		"QUILL_LONELY=x",
		"HOME=/root",
	})

	config, err := l.Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	hl := config["highlight"].(map[string]any)
	if hl["theme"] != "dracula" {
		t.Errorf("highlight.theme = %v", hl["theme"])
	}
	editor := config["editor"].(map[string]any)
	if editor["tab_width"] != int64(2) {
		t.Errorf("editor.tab_width = %v (%T)", editor["tab_width"], editor["tab_width"])
	}
	if editor["wrap"] != false {
		t.Errorf("editor.wrap = %v", editor["wrap"])
	}
	log := config["log"].(map[string]any)
	if log["file"] != "/tmp/quill.log" {
		t.Errorf("log.file = %v", log["file"])
	}
	for _, key := range []string{"config", "lonely", "home", ""} {
		if _, ok := config[key]; ok {
			t.Errorf("unexpected section %q in %v", key, config)
		}
	}
}

func TestEnvToPath(t *testing.T) {
	l := NewEnvLoader(DefaultPrefix)
	tests := []struct {
		env  string
		want string
	}{
		{"QUILL_EDITOR_TAB_WIDTH", "editor.tab_width"},
		{"QUILL_HIGHLIGHT_CONTEXT_BYTES", "highlight.context_bytes"},
		{"QUILL_LOG_LEVEL", "log.level"},
		{"QUILL_EDITOR", ""},
	}
	for _, tt := range tests {
		if got := l.envToPath(tt.env); got != tt.want {
			t.Errorf("envToPath(%q) = %q, want %q", tt.env, got, tt.want)
		}
	}
}

func TestParseValue(t *testing.T) {
	tests := []struct {
		in   string
		want any
	}{
		{"true", true},
		{"On", true},
		{"no", false},
		{"1", int64(1)},
		{"0", int64(0)},
		{"-3", int64(-3)},
		{"monokai", "monokai"},
		{"", ""},
	}
	for _, tt := range tests {
		if got := parseValue(tt.in); got != tt.want {
			t.Errorf("parseValue(%q) = %v (%T), want %v", tt.in, got, got, tt.want)
		}
	}
}

func TestAddMapping(t *testing.T) {
	l := NewEnvLoaderFrom("QUILL_", []string{"QUILL_HL=textmate"})
	l.AddMapping("QUILL_HL", "highlight.preference")

	config, _ := l.Load()
	hl, ok := config["highlight"].(map[string]any)
	if !ok || hl["preference"] != "textmate" {
		t.Errorf("config = %v", config)
	}
}
