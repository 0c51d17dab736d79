package filter

import (
	"testing"

	"github.com/cockroachdb/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCheckBalance(t *testing.T) {
	require.NoError(t, checkBalance("(a=1 AND (b=2))"))

	err := checkBalance("(job_type=full-time AND salary>=50000")
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrUnbalancedParentheses))

	var ube *UnbalancedParenthesesError
	require.True(t, errors.As(err, &ube))
	assert.Equal(t, "(job_type=full-time AND salary>=50000", ube.Filter)
}

func TestStripOuterParens(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{name: "wrapping pair", in: "(a=1 AND b=2)", want: "a=1 AND b=2"},
		{name: "separate groups kept", in: "(a=1) AND (b=2)", want: "(a=1) AND (b=2)"},
		{name: "one level per call", in: "((a=1))", want: "(a=1)"},
		{name: "not wrapped", in: "a=1", want: "a=1"},
		{name: "trailing group only", in: "a=1 AND (b=2)", want: "a=1 AND (b=2)"},
		{name: "value list at end", in: "(languages HAS_ANY (PHP,Go))", want: "languages HAS_ANY (PHP,Go)"},
		{name: "empty pair", in: "()", want: ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, stripOuterParens(tt.in))
		})
	}
}

func TestScanOperatorsTopLevelOnly(t *testing.T) {
	got := scanOperators("a=1 AND (b=2 OR c=3) OR d=4")
	assert.Equal(t, []operatorMatch{{kind: opAnd, pos: 3}, {kind: opOr, pos: 20}}, got)
}

func TestScanOperatorsIsCaseAndSpaceSensitive(t *testing.T) {
	assert.Empty(t, scanOperators("a=1 and b=2"))
	assert.Empty(t, scanOperators("a=1 AND"))
	assert.Empty(t, scanOperators("brand=ANDROID"))
	assert.Empty(t, scanOperators("(a=1 AND b=2)"))
}
