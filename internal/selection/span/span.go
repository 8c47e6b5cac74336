// Package span provides the four-coordinate ranges used by incremental
// selection and the comparisons the selection engine relies on.
//
// Lines are 1-indexed and columns are 0-indexed byte offsets, matching the
// editor's cursor convention. Ranges are half-open: EndCol is exclusive,
// the same as syntax tree node ranges.
package span

import "fmt"

// Point is a parser-native position. Both Row and Column are 0-indexed.
type Point struct {
	Row    uint32
	Column uint32
}

// String returns a human-readable representation of the point.
func (p Point) String() string {
	return fmt.Sprintf("(%d:%d)", p.Row, p.Column)
}

// Range is an editor range: (start line, start column, end line, end column).
type Range struct {
	StartLine int // 1-indexed
	StartCol  int // 0-indexed byte column, inclusive
	EndLine   int // 1-indexed
	EndCol    int // 0-indexed byte column, exclusive
}

// Ranger is implemented by anything that can be normalized to a Range.
type Ranger interface {
	Range() Range
}

// New creates a Range from its four coordinates.
func New(startLine, startCol, endLine, endCol int) Range {
	return Range{StartLine: startLine, StartCol: startCol, EndLine: endLine, EndCol: endCol}
}

// At returns the empty range at the given position.
func At(line, col int) Range {
	return Range{StartLine: line, StartCol: col, EndLine: line, EndCol: col}
}

// FromPoints converts a parser range into editor coordinates.
// Only the line fields move; columns are already 0-indexed.
func FromPoints(start, end Point) Range {
	return Range{
		StartLine: int(start.Row) + 1,
		StartCol:  int(start.Column),
		EndLine:   int(end.Row) + 1,
		EndCol:    int(end.Column),
	}
}

// Of normalizes x into a Range.
func Of(x Ranger) Range {
	return x.Range()
}

// Range implements Ranger. A Range normalizes to itself.
func (r Range) Range() Range {
	return r
}

// ToPoints converts the range back into parser coordinates.
func (r Range) ToPoints() (start, end Point) {
	return Point{Row: toRow(r.StartLine), Column: toCol(r.StartCol)},
		Point{Row: toRow(r.EndLine), Column: toCol(r.EndCol)}
}

func toRow(line int) uint32 {
	if line < 1 {
		return 0
	}
	return uint32(line - 1)
}

func toCol(col int) uint32 {
	if col < 0 {
		return 0
	}
	return uint32(col)
}

// String returns a human-readable representation of the range.
func (r Range) String() string {
	return fmt.Sprintf("[%d:%d-%d:%d)", r.StartLine, r.StartCol, r.EndLine, r.EndCol)
}

// IsEmpty returns true if the range has zero extent.
func (r Range) IsEmpty() bool {
	return r.StartLine == r.EndLine && r.StartCol == r.EndCol
}

// IsValid returns true if start does not come after end.
func (r Range) IsValid() bool {
	return comparePos(r.StartLine, r.StartCol, r.EndLine, r.EndCol) <= 0
}

// IsSingleLine returns true if the range spans only one line.
func (r Range) IsSingleLine() bool {
	return r.StartLine == r.EndLine
}

// Contains returns true if other lies entirely within r.
func (r Range) Contains(other Range) bool {
	return comparePos(r.StartLine, r.StartCol, other.StartLine, other.StartCol) <= 0 &&
		comparePos(r.EndLine, r.EndCol, other.EndLine, other.EndCol) >= 0
}

// Equal reports whether r and other have identical coordinates.
func (r Range) Equal(other Range) bool {
	return Equal(r, other)
}

// Equal reports exact four-field equality.
func Equal(a, b Range) bool {
	return a.StartLine == b.StartLine &&
		a.StartCol == b.StartCol &&
		a.EndLine == b.EndLine &&
		a.EndCol == b.EndCol
}

// IsLarger reports whether a reaches past b on either side: a starts
// earlier than b, or a ends later than b. Identical ranges are never larger.
func IsLarger(a, b Range) bool {
	if a.StartLine < b.StartLine || (a.StartLine == b.StartLine && a.StartCol < b.StartCol) {
		return true
	}
	return a.EndLine > b.EndLine || (a.EndLine == b.EndLine && a.EndCol > b.EndCol)
}

// Clamp limits the range to a buffer of lineCount lines, where lineLen
// reports the byte length of a 1-indexed line. An empty buffer clamps to
// the zero range at 1:0.
func (r Range) Clamp(lineCount int, lineLen func(line int) int) Range {
	if lineCount < 1 {
		return At(1, 0)
	}
	sl, sc := clampPos(r.StartLine, r.StartCol, lineCount, lineLen)
	el, ec := clampPos(r.EndLine, r.EndCol, lineCount, lineLen)
	if comparePos(sl, sc, el, ec) > 0 {
		el, ec = sl, sc
	}
	return Range{StartLine: sl, StartCol: sc, EndLine: el, EndCol: ec}
}

func clampPos(line, col, lineCount int, lineLen func(int) int) (int, int) {
	switch {
	case line < 1:
		return 1, 0
	case line > lineCount:
		return lineCount, lineLen(lineCount)
	}
	if col < 0 {
		col = 0
	}
	if n := lineLen(line); col > n {
		col = n
	}
	return line, col
}

// comparePos returns -1, 0 or 1 comparing (l1, c1) with (l2, c2).
func comparePos(l1, c1, l2, c2 int) int {
	switch {
	case l1 < l2:
		return -1
	case l1 > l2:
		return 1
	case c1 < c2:
		return -1
	case c1 > c2:
		return 1
	}
	return 0
}
