package trim

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dshills/treesel/internal/selection/span"
)

// textLines implements TextSource over an in-memory document.
type textLines []string

func (l textLines) Text(r span.Range) ([]string, error) {
	if r.StartLine < 1 || r.EndLine > len(l) || r.StartLine > r.EndLine {
		return nil, errors.New("out of bounds")
	}
	if r.StartCol > len(l[r.StartLine-1]) || r.EndCol > len(l[r.EndLine-1]) {
		return nil, errors.New("out of bounds")
	}
	if r.StartLine == r.EndLine {
		return []string{l[r.StartLine-1][r.StartCol:r.EndCol]}, nil
	}
	out := []string{l[r.StartLine-1][r.StartCol:]}
	for n := r.StartLine + 1; n < r.EndLine; n++ {
		out = append(out, l[n-1])
	}
	return append(out, l[r.EndLine-1][:r.EndCol]), nil
}

func doc(s string) textLines {
	return textLines(strings.Split(s, "\n"))
}

func TestPairValid(t *testing.T) {
	assert.True(t, Pair{"(", ")"}.Valid())
	assert.True(t, Pair{"«", "»"}.Valid())
	assert.False(t, Pair{"((", "))"}.Valid())
	assert.False(t, Pair{"", ")"}.Valid())
}

func TestNewDropsInvalidPairs(t *testing.T) {
	tr := New([]Pair{{"(", ")"}, {"<<", ">>"}, {"[", "]"}})
	assert.Equal(t, []Pair{{"(", ")"}, {"[", "]"}}, tr.Pairs())
}

func TestMatchFirstPairWins(t *testing.T) {
	tr := New([]Pair{{"(", ")"}, {"(", "]"}})
	p, ok := tr.Match("(x]")
	require.True(t, ok)
	assert.Equal(t, Pair{"(", "]"}, p)

	_, ok = tr.Match("(x")
	assert.False(t, ok)

	quotes := New([]Pair{{`"`, `"`}})
	_, ok = quotes.Match(`"`)
	assert.False(t, ok, "a lone quote is not a pair")
}

func TestUnsurroundSingleLine(t *testing.T) {
	src := doc("(abc)")
	tr := Default()

	inner, ok := tr.Unsurround(span.New(1, 0, 1, 5), src)
	require.True(t, ok)
	assert.Equal(t, span.New(1, 1, 1, 4), inner)

	text, err := src.Text(inner)
	require.NoError(t, err)
	assert.Equal(t, []string{"abc"}, text)

	again, ok := tr.Unsurround(inner, src)
	assert.False(t, ok)
	assert.Equal(t, inner, again)
}

func TestUnsurroundMultiLine(t *testing.T) {
	src := doc("{\n  x\n}")
	inner, ok := Default().Unsurround(span.New(1, 0, 3, 1), src)
	require.True(t, ok)
	assert.Equal(t, span.New(2, 2, 2, 3), inner)

	text, err := src.Text(inner)
	require.NoError(t, err)
	assert.Equal(t, []string{"x"}, text)
}

func TestUnsurround(t *testing.T) {
	tests := []struct {
		name   string
		text   string
		in     span.Range
		want   span.Range
		wantOK bool
	}{
		{
			name:   "leading space on first line",
			text:   "f( a, b)",
			in:     span.New(1, 1, 1, 8),
			want:   span.New(1, 3, 1, 7),
			wantOK: true,
		},
		{
			name:   "content on opening line",
			text:   "if x {foo()\n\treturn\n}",
			in:     span.New(1, 5, 3, 1),
			want:   span.New(1, 6, 2, 7),
			wantOK: true,
		},
		{
			name:   "content on closing line",
			text:   "m := map[int]int{\n\n  1: 2}",
			in:     span.New(1, 16, 3, 7),
			want:   span.New(3, 2, 3, 6),
			wantOK: true,
		},
		{
			name:   "content only on opening line",
			text:   "call(a,\n   \n)",
			in:     span.New(1, 4, 3, 1),
			want:   span.New(1, 5, 1, 7),
			wantOK: true,
		},
		{
			name:   "angle brackets",
			text:   "List<T>",
			in:     span.New(1, 4, 1, 7),
			want:   span.New(1, 5, 1, 6),
			wantOK: true,
		},
		{
			name:   "no delimiters",
			text:   "abc",
			in:     span.New(1, 0, 1, 3),
			want:   span.New(1, 0, 1, 3),
			wantOK: false,
		},
		{
			name:   "mismatched pair",
			text:   "(abc]",
			in:     span.New(1, 0, 1, 5),
			want:   span.New(1, 0, 1, 5),
			wantOK: false,
		},
		{
			name:   "empty interior",
			text:   "()",
			in:     span.New(1, 0, 1, 2),
			want:   span.New(1, 0, 1, 2),
			wantOK: false,
		},
		{
			name:   "blank interior across lines",
			text:   "{\n   \n}",
			in:     span.New(1, 0, 3, 1),
			want:   span.New(1, 0, 3, 1),
			wantOK: false,
		},
		{
			name:   "out of bounds",
			text:   "(abc)",
			in:     span.New(1, 0, 4, 1),
			want:   span.New(1, 0, 4, 1),
			wantOK: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := Default().Unsurround(tt.in, doc(tt.text))
			assert.Equal(t, tt.wantOK, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestUnsurroundRespectsConfiguredPairs(t *testing.T) {
	src := doc("[x]")
	_, ok := New([]Pair{{"(", ")"}}).Unsurround(span.New(1, 0, 1, 3), src)
	assert.False(t, ok)

	inner, ok := New([]Pair{{"[", "]"}}).Unsurround(span.New(1, 0, 1, 3), src)
	require.True(t, ok)
	assert.Equal(t, span.New(1, 1, 1, 2), inner)
}
