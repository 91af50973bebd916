package textmate

import (
	"errors"
	"fmt"
	"slices"
	"sort"

	"github.com/dlclark/regexp2"
)

// ErrTooComplex is returned when a line makes no progress after many
// pattern applications.
var ErrTooComplex = errors.New("textmate: line too complex")

// Token is a run of a line sharing one scope stack. Start and End are byte
// offsets within the line.
type Token struct {
	Start  int
	End    int
	Scopes []string
}

type frame struct {
	rule          *Rule
	endRe         *regexp2.Regexp
	nameScopes    []string // scopes of begin/end delimiters
	contentScopes []string // scopes of text inside the region
}

// State is the tokenizer's scope stack between lines. States are values: a
// failed line leaves the previous state untouched.
type State struct {
	frames []frame
}

// Depth returns the number of open regions, the root included.
func (s *State) Depth() int {
	return len(s.frames)
}

// Scopes returns the scopes active at the end of the last tokenized line.
func (s *State) Scopes() []string {
	return s.frames[len(s.frames)-1].contentScopes
}

// InitialState returns the state at the start of a document.
func (g *Grammar) InitialState() *State {
	scopes := []string{g.ScopeName}
	return &State{frames: []frame{{rule: g.root, nameScopes: scopes, contentScopes: scopes}}}
}

// TokenizeLine tokenizes one line, which should include its trailing newline
// if it has one. It returns the tokens and the state after the line. On
// error the returned state is st itself.
func (g *Grammar) TokenizeLine(line string, st *State) ([]Token, *State, error) {
	t := lineTokenizer{runes: []rune(line)}
	t.offsets = make([]int, len(t.runes)+1)
	off := 0
	for i, r := range t.runes {
		t.offsets[i] = off
		off += len(string(r))
	}
	t.offsets[len(t.runes)] = off

	frames := slices.Clone(st.frames)
	maxSteps := 4*len(t.runes) + 16
	pos := 0

	for steps := 0; ; steps++ {
		if steps > maxSteps {
			return nil, st, ErrTooComplex
		}
		top := frames[len(frames)-1]

		var best *regexp2.Match
		var bestRule *Rule
		isEnd := false
		if top.endRe != nil {
			m, err := top.endRe.FindRunesMatchStartingAt(t.runes, pos)
			if err != nil {
				return nil, st, fmt.Errorf("textmate: end of %q: %w", top.rule.Name, err)
			}
			if m != nil {
				best, isEnd = m, true
			}
		}
		for _, r := range top.rule.resolved {
			re := r.matchRe
			if re == nil {
				re = r.beginRe
			}
			m, err := re.FindRunesMatchStartingAt(t.runes, pos)
			if err != nil {
				return nil, st, fmt.Errorf("textmate: rule %q: %w", r.Name, err)
			}
			if m != nil && (best == nil || m.Index < best.Index) {
				best, bestRule, isEnd = m, r, false
			}
		}

		if best == nil {
			t.emit(pos, len(t.runes), top.contentScopes)
			break
		}

		t.emit(pos, best.Index, top.contentScopes)
		end := best.Index + best.Length

		switch {
		case isEnd:
			t.emitCaptures(best, top.rule.endCaptures(), top.nameScopes)
			frames = frames[:len(frames)-1]
		case bestRule.matchRe != nil:
			scopes := withScope(top.contentScopes, bestRule.Name)
			t.emitCaptures(best, bestRule.Captures, scopes)
			if best.Length == 0 {
				// A zero-width match cannot advance; consume one rune as plain text.
				if end >= len(t.runes) {
					return t.tokens, &State{frames: frames}, nil
				}
				t.emit(end, end+1, top.contentScopes)
				end++
			}
		default:
			nameScopes := withScope(top.contentScopes, bestRule.Name)
			t.emitCaptures(best, bestRule.beginCaptures(), nameScopes)
			endRe := bestRule.endRe
			if endRe == nil {
				re, err := compileRegexp(substituteBackrefs(bestRule.End, groupTexts(best)))
				if err != nil {
					return nil, st, fmt.Errorf("textmate: end of %q: %w", bestRule.Name, err)
				}
				endRe = re
			}
			frames = append(frames, frame{
				rule:          bestRule,
				endRe:         endRe,
				nameScopes:    nameScopes,
				contentScopes: withScope(nameScopes, bestRule.ContentName),
			})
		}
		pos = end
	}
	return t.tokens, &State{frames: frames}, nil
}

type lineTokenizer struct {
	runes   []rune
	offsets []int
	tokens  []Token
}

// emit appends the rune range [start, end) with scopes, extending the last
// token when it touches and carries the same scopes.
func (t *lineTokenizer) emit(start, end int, scopes []string) {
	if start >= end {
		return
	}
	bs, be := t.offsets[start], t.offsets[end]
	if n := len(t.tokens); n > 0 {
		last := &t.tokens[n-1]
		if last.End == bs && slices.Equal(last.Scopes, scopes) {
			last.End = be
			return
		}
	}
	t.tokens = append(t.tokens, Token{Start: bs, End: be, Scopes: scopes})
}

// emitCaptures emits a match, giving each capture group its own scope on top
// of base. Higher-numbered groups are nested inside lower ones, so they are
// applied last.
func (t *lineTokenizer) emitCaptures(m *regexp2.Match, caps map[int]Capture, base []string) {
	if m.Length == 0 {
		return
	}
	if len(caps) == 0 {
		t.emit(m.Index, m.Index+m.Length, base)
		return
	}
	extra := make([]string, m.Length)
	nums := make([]int, 0, len(caps))
	for n := range caps {
		nums = append(nums, n)
	}
	sort.Ints(nums)
	for _, n := range nums {
		g := m.GroupByNumber(n)
		if g == nil || len(g.Captures) == 0 || caps[n].Name == "" {
			continue
		}
		for i := g.Index; i < g.Index+g.Length; i++ {
			extra[i-m.Index] = caps[n].Name
		}
	}
	for i := 0; i < len(extra); {
		j := i + 1
		for j < len(extra) && extra[j] == extra[i] {
			j++
		}
		t.emit(m.Index+i, m.Index+j, withScope(base, extra[i]))
		i = j
	}
}

func groupTexts(m *regexp2.Match) []string {
	groups := m.Groups()
	out := make([]string, len(groups))
	for i, g := range groups {
		out[i] = g.String()
	}
	return out
}

// withScope returns scopes with name pushed. The input is never modified.
func withScope(scopes []string, name string) []string {
	if name == "" {
		return scopes
	}
	out := make([]string, len(scopes), len(scopes)+1)
	copy(out, scopes)
	return append(out, name)
}
