// Package config loads the editor configuration.
//
// Settings are resolved from three layers, later layers overriding earlier
// ones:
//
//  1. Built-in defaults (Default)
//  2. The TOML file, by default $XDG_CONFIG_HOME/quill/config.toml or the
//     path in $QUILL_CONFIG
//  3. QUILL_* environment variables
//
// A configuration file looks like:
//
//	[editor]
//	tab_width = 4
//	wrap = true
//	scroll_margin = 2
//	line_numbers = "relative"
//
//	[highlight]
//	preference = "tree-sitter"
//	theme = "dracula"
//
//	[history]
//	max_entries = 500
//
//	[log]
//	file = "/tmp/quill.log"
//	level = "debug"
//
//	[keys]
//	"Ctrl+K" = "delete-word-backward"
//	"Ctrl+Z" = "none"
//
// Environment variables name a section and key, so QUILL_EDITOR_TAB_WIDTH=2
// sets editor.tab_width. QUILL_THEME, QUILL_WRAP, QUILL_TAB_WIDTH,
// QUILL_LOG_LEVEL and QUILL_LOG_FILE are accepted as short forms.
//
// The watcher sub-package reports changes to the file so it can be reloaded
// while the editor runs.
package config
