package filter

import (
	"testing"

	"github.com/cockroachdb/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseEmpty(t *testing.T) {
	for _, in := range []string{"", "   ", "()", "(( ))"} {
		expr, err := Parse(in)
		require.NoError(t, err, in)
		assert.Nil(t, expr, in)
	}
}

func TestParseSplitsAtLeftmostOperator(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{in: "a=1", want: "a=1"},
		{in: "a=1 AND b=2", want: "(a=1 AND b=2)"},
		{in: "a=1 AND b=2 AND c=3", want: "(a=1 AND (b=2 AND c=3))"},
		{in: "a=1 OR b=2 AND c=3", want: "(a=1 OR (b=2 AND c=3))"},
		{in: "a=1 AND b=2 OR c=3", want: "(a=1 AND (b=2 OR c=3))"},
		{in: "(a=1 OR a=2) AND b=3", want: "((a=1 OR a=2) AND b=3)"},
		{in: "((a=1 OR a=2))", want: "(a=1 OR a=2)"},
		{in: "  (a=1)  ", want: "a=1"},
		{in: "() OR a=1", want: "a=1"},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			expr, err := Parse(tt.in)
			require.NoError(t, err)
			assert.Equal(t, tt.want, expr.String())
		})
	}
}

func TestParseKeepsSourceText(t *testing.T) {
	expr, err := Parse("(job_type=full-time AND (languages HAS_ANY (PHP,JavaScript))) AND attribute:years_experience>=3")
	require.NoError(t, err)

	root, ok := expr.(And)
	require.True(t, ok)
	assert.Equal(t, "(job_type=full-time AND (languages HAS_ANY (PHP,JavaScript))) AND attribute:years_experience>=3", root.Text())

	left, ok := root.Left.(And)
	require.True(t, ok)
	assert.Equal(t, Leaf{Condition: "job_type=full-time"}, left.Left)
	assert.Equal(t, Leaf{Condition: "languages HAS_ANY (PHP,JavaScript)"}, left.Right)
	assert.Equal(t, Leaf{Condition: "attribute:years_experience>=3"}, root.Right)
}

func TestParseUnbalancedSubgroup(t *testing.T) {
	_, err := Parse("a=1 AND (b=2")
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrUnbalancedParentheses))

	var pe *ParseError
	require.True(t, errors.As(err, &pe))
	assert.Equal(t, "a=1 AND (b=2", pe.Filter)
}

func TestAttributeNames(t *testing.T) {
	expr, err := Parse("attribute:a>=1 OR (attribute:b=2 AND attribute:a<3) AND c=1 AND attribute:bad:1")
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b"}, AttributeNames(expr))
}
