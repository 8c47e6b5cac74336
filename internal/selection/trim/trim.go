// Package trim detects ranges wrapped in a delimiter pair and computes the
// inner range with one layer of delimiters and surrounding blank space removed.
package trim

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/dshills/treesel/internal/selection/span"
)

// Pair is an opening and closing delimiter symbol.
type Pair struct {
	Open  string
	Close string
}

// Valid returns true if both symbols are a single character.
func (p Pair) Valid() bool {
	return utf8.RuneCountInString(p.Open) == 1 && utf8.RuneCountInString(p.Close) == 1
}

// String returns the pair as written, e.g. "()".
func (p Pair) String() string {
	return p.Open + p.Close
}

// DefaultPairs returns the pairs checked when none are configured.
func DefaultPairs() []Pair {
	return []Pair{
		{Open: "(", Close: ")"},
		{Open: "{", Close: "}"},
		{Open: "<", Close: ">"},
		{Open: "[", Close: "]"},
	}
}

// TextSource returns the text covered by a range, one string per line.
// The first string starts at the range's start column and the last string
// ends at its (exclusive) end column.
type TextSource interface {
	Text(r span.Range) ([]string, error)
}

// Trimmer strips delimiter pairs from ranges. Pairs are checked in order
// and the first match wins. A Trimmer is immutable.
type Trimmer struct {
	pairs []Pair
}

// New creates a Trimmer for the given pairs. Invalid pairs are dropped.
func New(pairs []Pair) *Trimmer {
	valid := make([]Pair, 0, len(pairs))
	for _, p := range pairs {
		if p.Valid() {
			valid = append(valid, p)
		}
	}
	return &Trimmer{pairs: valid}
}

// Default creates a Trimmer for DefaultPairs.
func Default() *Trimmer {
	return New(DefaultPairs())
}

// Pairs returns a copy of the configured pairs.
func (t *Trimmer) Pairs() []Pair {
	out := make([]Pair, len(t.pairs))
	copy(out, t.pairs)
	return out
}

// Match returns the first pair that opens at the very start of text and
// closes at its very end.
func (t *Trimmer) Match(text string) (Pair, bool) {
	for _, p := range t.pairs {
		if len(text) < len(p.Open)+len(p.Close) {
			continue
		}
		if strings.HasPrefix(text, p.Open) && strings.HasSuffix(text, p.Close) {
			return p, true
		}
	}
	return Pair{}, false
}

// Unsurround returns the range inside the delimiters wrapping r.
//
// The inner range starts at the first non-blank character after the opening
// delimiter and ends after the last non-blank line before the closing one:
// on the closing line it stops just before the delimiter, on earlier lines
// it runs to the end of the line.
//
// It returns (r, false) when the text cannot be fetched, when no pair
// wraps it, or when nothing but whitespace sits between the delimiters.
func (t *Trimmer) Unsurround(r span.Range, src TextSource) (span.Range, bool) {
	lines, err := src.Text(r)
	if err != nil || len(lines) == 0 {
		return r, false
	}

	pair, ok := t.Match(strings.Join(lines, "\n"))
	if !ok {
		return r, false
	}

	inner := make([]string, len(lines))
	copy(inner, lines)
	last := len(inner) - 1
	inner[0] = inner[0][len(pair.Open):]
	inner[last] = inner[last][:len(inner[last])-len(pair.Close)]

	top, col := -1, 0
	for i, line := range inner {
		if c := firstNonBlank(line); c >= 0 {
			top, col = i, c
			break
		}
	}
	if top < 0 {
		return r, false
	}

	bottom := top
	for j := last; j > top; j-- {
		if firstNonBlank(inner[j]) >= 0 {
			bottom = j
			break
		}
	}

	out := span.Range{
		StartLine: r.StartLine + top,
		StartCol:  col,
		EndLine:   r.StartLine + bottom,
	}
	if top == 0 {
		out.StartCol += r.StartCol + len(pair.Open)
	}

	switch bottom {
	case last:
		out.EndCol = r.EndCol - len(pair.Close)
	case 0:
		out.EndCol = r.StartCol + len(pair.Open) + len(inner[0])
	default:
		out.EndCol = len(inner[bottom])
	}

	return out, true
}

// firstNonBlank returns the byte column of the first non-whitespace
// character of line, or -1 if the line is blank.
func firstNonBlank(line string) int {
	return strings.IndexFunc(line, func(r rune) bool {
		return !unicode.IsSpace(r)
	})
}
