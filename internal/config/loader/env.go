package loader

import (
	"os"
	"strconv"
	"strings"
)

// DefaultPrefix is the prefix of environment variables read by EnvLoader.
const DefaultPrefix = "QUILL_"

// EnvLoader loads configuration from environment variables. Besides the
// short aliases in its mapping, any PREFIX_SECTION_KEY variable sets
// section.key, so QUILL_EDITOR_TAB_WIDTH sets editor.tab_width.
type EnvLoader struct {
	prefix  string
	mapping map[string]string // env var -> config path
	skip    map[string]bool
	environ func() []string
}

// NewEnvLoader creates an environment loader. The prefix includes the
// trailing underscore.
func NewEnvLoader(prefix string) *EnvLoader {
	return &EnvLoader{
		prefix:  prefix,
		mapping: defaultEnvMapping(prefix),
		skip:    map[string]bool{prefix + "CONFIG": true},
		environ: os.Environ,
	}
}

// NewEnvLoaderFrom creates a loader over a fixed environment, in
// os.Environ's KEY=value form.
func NewEnvLoaderFrom(prefix string, environ []string) *EnvLoader {
	l := NewEnvLoader(prefix)
	l.environ = func() []string { return environ }
	return l
}

func defaultEnvMapping(prefix string) map[string]string {
	return map[string]string{
		prefix + "THEME":     "highlight.theme",
		prefix + "WRAP":      "editor.wrap",
		prefix + "TAB_WIDTH": "editor.tab_width",
		prefix + "LOG_LEVEL": "log.level",
		prefix + "LOG_FILE":  "log.file",
	}
}

// AddMapping adds an alias from an environment variable to a config path.
func (l *EnvLoader) AddMapping(envVar, configPath string) {
	l.mapping[envVar] = configPath
}

// Load reads the environment and returns a configuration map.
func (l *EnvLoader) Load() (map[string]any, error) {
	config := make(map[string]any)
	for _, env := range l.environ() {
		name, value, ok := strings.Cut(env, "=")
		if !ok || !strings.HasPrefix(name, l.prefix) || l.skip[name] {
			continue
		}
		path, mapped := l.mapping[name]
		if !mapped {
			path = l.envToPath(name)
		}
		if path == "" {
			continue
		}
		setByPath(config, path, parseValue(value))
	}
	return config, nil
}

// envToPath converts QUILL_EDITOR_TAB_WIDTH to editor.tab_width. Names
// without a key part map to "".
func (l *EnvLoader) envToPath(env string) string {
	section, key, ok := strings.Cut(strings.TrimPrefix(env, l.prefix), "_")
	if !ok || section == "" || key == "" {
		return ""
	}
	return strings.ToLower(section) + "." + strings.ToLower(key)
}

// parseValue converts booleans and integers; anything else stays a string.
func parseValue(s string) any {
	switch strings.ToLower(s) {
	case "true", "yes", "on":
		return true
	case "false", "no", "off":
		return false
	}
	if i, err := strconv.ParseInt(s, 10, 64); err == nil {
		return i
	}
	return s
}

// setByPath sets a value in a nested map using a dot-separated path.
func setByPath(data map[string]any, path string, value any) {
	parts := strings.Split(path, ".")
	current := data
	for _, part := range parts[:len(parts)-1] {
		next, ok := current[part].(map[string]any)
		if !ok {
			next = make(map[string]any)
			current[part] = next
		}
		current = next
	}
	current[parts[len(parts)-1]] = value
}
