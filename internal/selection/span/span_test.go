package span

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"pgregory.net/rapid"
)

func genRange(t *rapid.T, label string) Range {
	sl := rapid.IntRange(1, 50).Draw(t, label+".startLine")
	sc := rapid.IntRange(0, 80).Draw(t, label+".startCol")
	el := rapid.IntRange(sl, sl+20).Draw(t, label+".endLine")
	ecMin := 0
	if el == sl {
		ecMin = sc
	}
	ec := rapid.IntRange(ecMin, ecMin+80).Draw(t, label+".endCol")
	return New(sl, sc, el, ec)
}

func TestFromPoints(t *testing.T) {
	r := FromPoints(Point{Row: 0, Column: 4}, Point{Row: 2, Column: 1})
	if want := New(1, 4, 3, 1); r != want {
		t.Errorf("FromPoints = %s, want %s", r, want)
	}

	start, end := r.ToPoints()
	if start != (Point{Row: 0, Column: 4}) {
		t.Errorf("start = %s, want (0:4)", start)
	}
	if end != (Point{Row: 2, Column: 1}) {
		t.Errorf("end = %s, want (2:1)", end)
	}
}

func TestOfIsIdempotent(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		r := genRange(t, "r")
		assert.Equal(t, r, Of(Of(r)))
	})
}

func TestIsLarger(t *testing.T) {
	tests := []struct {
		name string
		a, b Range
		want bool
	}{
		{"identical", New(1, 0, 1, 5), New(1, 0, 1, 5), false},
		{"starts earlier line", New(1, 9, 3, 0), New(2, 0, 3, 0), true},
		{"starts earlier column", New(2, 1, 2, 4), New(2, 2, 2, 4), true},
		{"ends later line", New(2, 2, 4, 0), New(2, 2, 3, 9), true},
		{"ends later column", New(2, 2, 2, 9), New(2, 2, 2, 8), true},
		{"strictly inside", New(2, 3, 2, 4), New(2, 2, 2, 8), false},
		{"shifted right overlaps", New(2, 3, 2, 10), New(2, 2, 2, 8), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsLarger(tt.a, tt.b); got != tt.want {
				t.Errorf("IsLarger(%s, %s) = %v, want %v", tt.a, tt.b, got, tt.want)
			}
		})
	}
}

func TestIsLargerStrictOnNestedRanges(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		inner := genRange(t, "inner")
		grow := rapid.IntRange(0, 3).Draw(t, "grow")
		outer := inner
		switch grow {
		case 0:
			outer.StartLine--
		case 1:
			outer.EndLine++
		case 2:
			outer.EndCol++
		case 3:
			if outer.StartCol == 0 {
				outer.StartLine--
			} else {
				outer.StartCol--
			}
		}
		if outer.StartLine < 1 {
			outer.StartLine = 1
			outer.EndLine++
		}

		assert.True(t, outer.Contains(inner))
		assert.True(t, IsLarger(outer, inner), "outer %s inner %s", outer, inner)
		assert.False(t, IsLarger(inner, outer), "outer %s inner %s", outer, inner)
	})
}

func TestEqual(t *testing.T) {
	if !Equal(New(1, 2, 3, 4), New(1, 2, 3, 4)) {
		t.Error("identical ranges should be equal")
	}
	if Equal(New(1, 2, 3, 4), New(1, 2, 3, 5)) {
		t.Error("ranges differing in end column should not be equal")
	}
	if !New(7, 0, 7, 0).Equal(At(7, 0)) {
		t.Error("At(7, 0) should equal the empty range at 7:0")
	}
}

func TestClamp(t *testing.T) {
	lines := []string{"package main", "", "func main() {}"}
	lineLen := func(n int) int { return len(lines[n-1]) }

	tests := []struct {
		name string
		in   Range
		want Range
	}{
		{"inside", New(1, 0, 3, 4), New(1, 0, 3, 4)},
		{"past last line", New(2, 0, 9, 3), New(2, 0, 3, 14)},
		{"column past line end", New(1, 40, 2, 5), New(1, 12, 2, 0)},
		{"before first line", New(0, 3, 1, 2), New(1, 0, 1, 2)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.in.Clamp(len(lines), lineLen); got != tt.want {
				t.Errorf("Clamp(%s) = %s, want %s", tt.in, got, tt.want)
			}
		})
	}

	if got := New(3, 3, 4, 4).Clamp(0, lineLen); got != At(1, 0) {
		t.Errorf("Clamp on empty buffer = %s, want %s", got, At(1, 0))
	}
}

func TestContains(t *testing.T) {
	outer := New(2, 0, 5, 1)
	tests := []struct {
		in   Range
		want bool
	}{
		{New(3, 4, 4, 0), true},
		{outer, true},
		{New(1, 9, 3, 0), false},
		{New(5, 0, 5, 2), false},
	}
	for _, tt := range tests {
		if got := outer.Contains(tt.in); got != tt.want {
			t.Errorf("%s.Contains(%s) = %v, want %v", outer, tt.in, got, tt.want)
		}
	}
}
