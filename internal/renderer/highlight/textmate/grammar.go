// Package textmate loads TextMate grammars and tokenizes text one line at a
// time with a scope stack.
package textmate

import (
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/dlclark/regexp2"
	"gopkg.in/yaml.v3"
)

// MatchTimeout bounds a single regular expression search.
const MatchTimeout = 50 * time.Millisecond

// Errors returned by grammar loading.
var (
	ErrInvalidGrammar = errors.New("textmate: invalid grammar")
	ErrUnknownInclude = errors.New("textmate: unknown include")
)

// Capture names a capture group of a match, begin or end pattern.
type Capture struct {
	Name string `yaml:"name"`
}

// Rule is one grammar pattern: a single-line match, a begin/end region, an
// include, or a plain container of patterns.
type Rule struct {
	Name          string          `yaml:"name"`
	ContentName   string          `yaml:"contentName"`
	Match         string          `yaml:"match"`
	Begin         string          `yaml:"begin"`
	End           string          `yaml:"end"`
	Captures      map[int]Capture `yaml:"captures"`
	BeginCaptures map[int]Capture `yaml:"beginCaptures"`
	EndCaptures   map[int]Capture `yaml:"endCaptures"`
	Patterns      []*Rule         `yaml:"patterns"`
	Include       string          `yaml:"include"`

	matchRe  *regexp2.Regexp
	beginRe  *regexp2.Regexp
	endRe    *regexp2.Regexp // nil when End refers back to begin groups
	resolved []*Rule
}

func (r *Rule) isContainer() bool {
	return r.Match == "" && r.Begin == "" && r.Include == ""
}

func (r *Rule) beginCaptures() map[int]Capture {
	if len(r.BeginCaptures) > 0 {
		return r.BeginCaptures
	}
	return r.Captures
}

func (r *Rule) endCaptures() map[int]Capture {
	if len(r.EndCaptures) > 0 {
		return r.EndCaptures
	}
	return r.Captures
}

// Grammar is a compiled TextMate grammar. It is immutable once Parse returns
// and may be shared by any number of tokenizations.
type Grammar struct {
	Name       string           `yaml:"name"`
	ScopeName  string           `yaml:"scopeName"`
	FileTypes  []string         `yaml:"fileTypes"`
	Patterns   []*Rule          `yaml:"patterns"`
	Repository map[string]*Rule `yaml:"repository"`

	root *Rule
}

// Parse decodes and compiles a grammar from YAML.
func Parse(data []byte) (*Grammar, error) {
	var g Grammar
	if err := yaml.Unmarshal(data, &g); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidGrammar, err)
	}
	if g.Name == "" || g.ScopeName == "" {
		return nil, fmt.Errorf("%w: name and scopeName are required", ErrInvalidGrammar)
	}
	g.root = &Rule{Name: g.ScopeName, Patterns: g.Patterns}

	names := make([]string, 0, len(g.Repository))
	for name := range g.Repository {
		names = append(names, name)
	}
	sort.Strings(names)

	if err := g.compile(g.root, "$self"); err != nil {
		return nil, err
	}
	for _, name := range names {
		if err := g.compile(g.Repository[name], name); err != nil {
			return nil, err
		}
	}
	if err := g.resolveAll(g.root, map[*Rule]bool{}); err != nil {
		return nil, err
	}
	for _, name := range names {
		if err := g.resolveAll(g.Repository[name], map[*Rule]bool{}); err != nil {
			return nil, err
		}
	}
	return &g, nil
}

func (g *Grammar) compile(r *Rule, where string) error {
	if r == nil {
		return fmt.Errorf("%w: empty rule in %s", ErrInvalidGrammar, where)
	}
	var err error
	if r.Match != "" {
		if r.matchRe, err = compileRegexp(r.Match); err != nil {
			return fmt.Errorf("%w: %s: match: %v", ErrInvalidGrammar, where, err)
		}
	}
	if r.Begin != "" {
		if r.End == "" {
			return fmt.Errorf("%w: %s: begin without end", ErrInvalidGrammar, where)
		}
		if r.beginRe, err = compileRegexp(r.Begin); err != nil {
			return fmt.Errorf("%w: %s: begin: %v", ErrInvalidGrammar, where, err)
		}
		if !hasBackrefs(r.End) {
			if r.endRe, err = compileRegexp(r.End); err != nil {
				return fmt.Errorf("%w: %s: end: %v", ErrInvalidGrammar, where, err)
			}
		}
	}
	for _, p := range r.Patterns {
		if err := g.compile(p, where); err != nil {
			return err
		}
	}
	return nil
}

// resolveAll computes the candidate list of every rule that can hold nested
// patterns: the root and begin/end regions.
func (g *Grammar) resolveAll(r *Rule, done map[*Rule]bool) error {
	if done[r] {
		return nil
	}
	done[r] = true
	if r == g.root || r.Begin != "" {
		out, err := g.expand(r.Patterns, map[*Rule]bool{r: r == g.root}, nil)
		if err != nil {
			return err
		}
		r.resolved = out
	}
	for _, p := range r.Patterns {
		if err := g.resolveAll(p, done); err != nil {
			return err
		}
	}
	return nil
}

// expand flattens includes and containers into matchable rules, in order.
func (g *Grammar) expand(rules []*Rule, seen map[*Rule]bool, out []*Rule) ([]*Rule, error) {
	for _, r := range rules {
		switch {
		case r.Include != "":
			target, err := g.lookup(r.Include)
			if err != nil {
				return nil, err
			}
			if seen[target] {
				continue
			}
			seen[target] = true
			if target.Match == "" && target.Begin == "" {
				if out, err = g.expand(target.Patterns, seen, out); err != nil {
					return nil, err
				}
				continue
			}
			out = append(out, target)
		case r.isContainer():
			var err error
			if out, err = g.expand(r.Patterns, seen, out); err != nil {
				return nil, err
			}
		default:
			out = append(out, r)
		}
	}
	return out, nil
}

func (g *Grammar) lookup(include string) (*Rule, error) {
	switch {
	case include == "$self" || include == "$base":
		return g.root, nil
	case strings.HasPrefix(include, "#"):
		if r, ok := g.Repository[include[1:]]; ok {
			return r, nil
		}
	}
	return nil, fmt.Errorf("%w: %q in grammar %s", ErrUnknownInclude, include, g.ScopeName)
}

// Handles reports whether the grammar claims a file name or extension
// (without the leading dot).
func (g *Grammar) Handles(name string) bool {
	for _, ft := range g.FileTypes {
		if strings.EqualFold(ft, name) {
			return true
		}
	}
	return false
}

func compileRegexp(pattern string) (*regexp2.Regexp, error) {
	re, err := regexp2.Compile(pattern, regexp2.None)
	if err != nil {
		return nil, err
	}
	re.MatchTimeout = MatchTimeout
	return re, nil
}

func hasBackrefs(pattern string) bool {
	for i := 0; i+1 < len(pattern); i++ {
		if pattern[i] == '\\' {
			if pattern[i+1] >= '1' && pattern[i+1] <= '9' {
				return true
			}
			i++
		}
	}
	return false
}

// substituteBackrefs replaces \1..\9 in an end pattern with the escaped text
// of the matching begin capture groups.
func substituteBackrefs(pattern string, groups []string) string {
	var b strings.Builder
	for i := 0; i < len(pattern); i++ {
		c := pattern[i]
		if c == '\\' && i+1 < len(pattern) {
			next := pattern[i+1]
			if next >= '1' && next <= '9' {
				n := int(next - '0')
				if n < len(groups) {
					b.WriteString(regexp2.Escape(groups[n]))
				}
				i++
				continue
			}
			b.WriteByte(c)
			b.WriteByte(next)
			i++
			continue
		}
		b.WriteByte(c)
	}
	return b.String()
}
