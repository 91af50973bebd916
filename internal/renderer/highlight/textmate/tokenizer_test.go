package textmate

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func builtinGrammar(t *testing.T, name string) *Grammar {
	t.Helper()
	reg, err := LoadBuiltin()
	require.NoError(t, err)
	g, ok := reg.Get(name)
	require.True(t, ok, "grammar %s not registered", name)
	return g
}

type tok struct {
	start, end int
	scope      string // innermost scope
}

func innermost(tokens []Token) []tok {
	out := make([]tok, len(tokens))
	for i, t := range tokens {
		out[i] = tok{t.Start, t.End, t.Scopes[len(t.Scopes)-1]}
	}
	return out
}

func TestTokenizeGoLine(t *testing.T) {
	g := builtinGrammar(t, "go")

	tokens, _, err := g.TokenizeLine("x := 1 // hi\n", g.InitialState())
	require.NoError(t, err)
	assert.Equal(t, []tok{
		{0, 2, "source.go"},
		{2, 4, "keyword.operator.go"},
		{4, 5, "source.go"},
		{5, 6, "constant.numeric.go"},
		{6, 7, "source.go"},
		{7, 12, "comment.line.double-slash.go"},
		{12, 13, "source.go"},
	}, innermost(tokens))
}

func TestTokenizeCaptures(t *testing.T) {
	g := builtinGrammar(t, "go")

	tokens, _, err := g.TokenizeLine("func main() {\n", g.InitialState())
	require.NoError(t, err)
	assert.Equal(t, []tok{
		{0, 4, "keyword.declaration.go"},
		{4, 5, "source.go"},
		{5, 9, "entity.name.function.go"},
		{9, 11, "punctuation.go"},
		{11, 12, "source.go"},
		{12, 13, "punctuation.go"},
		{13, 14, "source.go"},
	}, innermost(tokens))
}

func TestTokenizeCarriesStateAcrossLines(t *testing.T) {
	g := builtinGrammar(t, "go")
	st := g.InitialState()

	first, st, err := g.TokenizeLine("a /* b\n", st)
	require.NoError(t, err)
	assert.Equal(t, 2, st.Depth())
	assert.Equal(t, []string{"source.go", "comment.block.go"}, st.Scopes())
	assert.Equal(t, []tok{{0, 2, "source.go"}, {2, 7, "comment.block.go"}}, innermost(first))

	second, st, err := g.TokenizeLine("c */ d\n", st)
	require.NoError(t, err)
	assert.Equal(t, 1, st.Depth())
	assert.Equal(t, []tok{{0, 4, "comment.block.go"}, {4, 7, "source.go"}}, innermost(second))
}

func TestTokenizeMultibyteOffsets(t *testing.T) {
	g := builtinGrammar(t, "go")

	tokens, _, err := g.TokenizeLine(`s := "héllo"`, g.InitialState())
	require.NoError(t, err)
	last := tokens[len(tokens)-1]
	assert.Equal(t, "string.quoted.double.go", last.Scopes[len(last.Scopes)-1])
	assert.Equal(t, 5, last.Start)
	assert.Equal(t, len(`s := "héllo"`), last.End)
}

func TestTokenizeEndBackreference(t *testing.T) {
	g, err := Parse([]byte(`
name: Heredoc
scopeName: source.heredoc
patterns:
  - name: string.unquoted.heredoc
    begin: '<<(\w+)'
    end: '^\1$'
`))
	require.NoError(t, err)

	st := g.InitialState()
	_, st, err = g.TokenizeLine("cat <<EOF\n", st)
	require.NoError(t, err)
	require.Equal(t, 2, st.Depth())

	_, st, err = g.TokenizeLine("EOFX\n", st)
	require.NoError(t, err)
	assert.Equal(t, 2, st.Depth(), "EOFX must not close the heredoc")

	_, st, err = g.TokenizeLine("EOF\n", st)
	require.NoError(t, err)
	assert.Equal(t, 1, st.Depth())
}

func TestTokenizeFailureKeepsState(t *testing.T) {
	g, err := Parse([]byte(`
name: Loop
scopeName: source.loop
patterns:
  - name: meta.loop
    begin: '(?=a)'
    end: 'zzz'
    patterns:
      - include: '$self'
`))
	require.NoError(t, err)

	st := g.InitialState()
	tokens, next, err := g.TokenizeLine("a\n", st)
	assert.True(t, errors.Is(err, ErrTooComplex))
	assert.Nil(t, tokens)
	assert.Same(t, st, next)
	assert.Equal(t, 1, next.Depth())
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		name string
		yaml string
		want error
	}{
		{"missing scope", "name: X\n", ErrInvalidGrammar},
		{"not yaml", "name: [\n", ErrInvalidGrammar},
		{"bad regexp", "name: X\nscopeName: s\npatterns:\n  - match: '(['\n", ErrInvalidGrammar},
		{"begin without end", "name: X\nscopeName: s\npatterns:\n  - begin: 'a'\n", ErrInvalidGrammar},
		{"unknown include", "name: X\nscopeName: s\npatterns:\n  - include: '#nope'\n", ErrUnknownInclude},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.yaml))
			assert.ErrorIs(t, err, tt.want)
		})
	}
}

func TestSubstituteBackrefs(t *testing.T) {
	assert.Equal(t, `^a\.b$`, substituteBackrefs(`^\1$`, []string{"", "a.b"}))
	assert.Equal(t, `\d+`, substituteBackrefs(`\d+`, nil))
	assert.True(t, hasBackrefs(`^\1$`))
	assert.False(t, hasBackrefs(`\\1`))
}
