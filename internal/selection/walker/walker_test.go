package walker

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"

	"github.com/dshills/treesel/internal/selection/span"
	"github.com/dshills/treesel/internal/syntax"
	"github.com/dshills/treesel/internal/syntax/syntaxtest"
)

// fixture mirrors tree-sitter-go's shape for:
//
//	func f() {
//		x := g(a, (b))
//	}
func fixture() *syntaxtest.Node {
	return syntaxtest.N("source_file", 0, 0, 3, 0,
		syntaxtest.N("function_declaration", 0, 0, 2, 1,
			syntaxtest.Anon("func", 0, 0, 0, 4),
			syntaxtest.N("identifier", 0, 5, 0, 6),
			syntaxtest.N("parameter_list", 0, 6, 0, 8),
			syntaxtest.N("block", 0, 9, 2, 1,
				syntaxtest.N("short_var_declaration", 1, 1, 1, 15,
					syntaxtest.N("expression_list", 1, 1, 1, 2,
						syntaxtest.N("x", 1, 1, 1, 2),
					),
					syntaxtest.Anon(":=", 1, 3, 1, 5),
					syntaxtest.N("expression_list", 1, 6, 1, 15,
						syntaxtest.N("call_expression", 1, 6, 1, 15,
							syntaxtest.N("g", 1, 6, 1, 7),
							syntaxtest.N("argument_list", 1, 7, 1, 15,
								syntaxtest.N("a", 1, 8, 1, 9),
								syntaxtest.N("parenthesized_expression", 1, 11, 1, 14,
									syntaxtest.N("b", 1, 12, 1, 13),
								),
							),
						),
					),
				),
			),
		),
	)
}

func leaves(n *syntaxtest.Node, kinds ...string) []*syntaxtest.Node {
	out := make([]*syntaxtest.Node, 0, len(kinds))
	for _, k := range kinds {
		out = append(out, n.Find(k))
	}
	return out
}

func TestStepResolvesWithoutHistory(t *testing.T) {
	root := fixture()

	n, outcome := Step(root, nil, span.At(2, 8))
	assert.Equal(t, OutcomeCommit, outcome)
	assert.Equal(t, "a", n.Kind())
}

func TestStepClimbsWhenResolvedNodeMatchesSelection(t *testing.T) {
	root := fixture()

	// "b" selected by trimming "(b)", with no node history.
	n, outcome := Step(root, nil, span.New(2, 12, 2, 13))
	assert.Equal(t, OutcomeCommit, outcome)
	assert.Equal(t, "parenthesized_expression", n.Kind())
}

func TestStepCommitsParent(t *testing.T) {
	root := fixture()
	a := root.Find("a")

	n, outcome := Step(root, a, syntax.RangeOf(a))
	assert.Equal(t, OutcomeCommit, outcome)
	assert.Equal(t, "argument_list", n.Kind())
}

func TestStepSkipsAncestorsWithIdenticalRange(t *testing.T) {
	root := fixture()
	x := root.Find("x")

	n, outcome := Step(root, x, syntax.RangeOf(x))
	assert.Equal(t, OutcomeCommit, outcome)
	assert.Equal(t, "short_var_declaration", n.Kind())
}

func TestStepComparesAgainstTrimmedSelection(t *testing.T) {
	root := fixture()
	a := root.Find("a")

	// "a, (b)": the trimmed argument list.
	n, outcome := Step(root, a, span.New(2, 8, 2, 14))
	assert.Equal(t, OutcomeCommit, outcome)
	assert.Equal(t, "argument_list", n.Kind())
}

func TestStepClimbsPastComparisonRange(t *testing.T) {
	root := fixture()
	b := root.Find("b")
	args := root.Find("argument_list")

	n, outcome := Step(root, b, syntax.RangeOf(args))
	assert.Equal(t, OutcomeCommit, outcome)
	assert.Equal(t, "call_expression", n.Kind())
}

func TestStepFreezesAtRoot(t *testing.T) {
	root := fixture()

	n, outcome := Step(root, root, syntax.RangeOf(root))
	assert.Equal(t, OutcomeFreeze, outcome)
	assert.True(t, n.Equal(root))
}

func TestStepReResolvesFromDetachedNode(t *testing.T) {
	root := fixture()
	detached := syntaxtest.N("a", 1, 8, 1, 9)
	args := root.Find("argument_list")

	n, outcome := Step(root, detached, syntax.RangeOf(args))
	assert.Equal(t, OutcomeCommit, outcome)
	assert.Equal(t, "call_expression", n.Kind())
}

// loopNode reports itself as its own parent.
type loopNode struct {
	*syntaxtest.Node
}

func (l loopNode) Parent() (syntax.Node, bool) { return l, true }

func (l loopNode) Equal(o syntax.Node) bool {
	_, ok := o.(loopNode)
	return ok
}

func TestStepFreezesOnDegenerateParent(t *testing.T) {
	root := fixture()
	b := root.Find("b")

	n, outcome := Step(root, loopNode{b}, syntax.RangeOf(b))
	assert.Equal(t, OutcomeFreeze, outcome)
	assert.Equal(t, syntax.RangeOf(b), syntax.RangeOf(n))
}

func TestStepWithoutRoot(t *testing.T) {
	n, outcome := Step(nil, nil, span.At(1, 0))
	assert.Equal(t, OutcomeNone, outcome)
	assert.Nil(t, n)
	assert.Equal(t, "none", outcome.String())
}

func TestStepIsMonotonicAndTerminates(t *testing.T) {
	root := fixture()
	candidates := leaves(root, "a", "b", "x", "g", "identifier", "parameter_list")

	rapid.Check(t, func(t *rapid.T) {
		start := rapid.SampledFrom(candidates).Draw(t, "start")

		var last syntax.Node = start
		prev := syntax.RangeOf(start)
		for steps := 0; ; steps++ {
			require.Less(t, steps, 32, "walk did not terminate")

			n, outcome := Step(root, last, prev)
			if outcome == OutcomeFreeze {
				assert.Equal(t, syntax.RangeOf(root), syntax.RangeOf(n))
				return
			}
			require.Equal(t, OutcomeCommit, outcome)

			next := syntax.RangeOf(n)
			assert.True(t, next.Contains(prev), "%s does not contain %s", next, prev)
			assert.True(t, span.IsLarger(next, prev))
			last, prev = n, next
		}
	})
}
