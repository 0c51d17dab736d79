package filter

import "strings"

// Parse splits a filter string into an expression tree.
//
// The string is split at its leftmost top-level AND/OR only; everything to the
// right, including further operators, becomes the right operand. AND and OR have
// no relative precedence: "a=1 OR b=2 AND c=3" parses as a=1 OR (b=2 AND c=3).
//
// An empty or blank filter returns a nil Expr and no error.
func Parse(filter string) (Expr, error) {
	s := strings.TrimSpace(filter)
	if s == "" {
		return nil, nil
	}
	if err := checkBalance(s); err != nil {
		return nil, wrapParseError(s, err)
	}
	s = unwrap(s)
	if s == "" {
		return nil, nil
	}

	ops := scanOperators(s)
	if len(ops) == 0 {
		return Leaf{Condition: s}, nil
	}

	op := ops[0]
	left, err := Parse(s[:op.pos])
	if err != nil {
		return nil, wrapParseError(s, err)
	}
	right, err := Parse(s[op.pos+len(op.kind.token()):])
	if err != nil {
		return nil, wrapParseError(s, err)
	}

	// A side that parsed to nothing contributes no clause.
	switch {
	case left == nil:
		return right, nil
	case right == nil:
		return left, nil
	}
	if op.kind == opOr {
		return Or{Left: left, Right: right, Source: s}, nil
	}
	return And{Left: left, Right: right, Source: s}, nil
}

// unwrap strips redundant grouping parentheses until none remain.
func unwrap(s string) string {
	for {
		stripped := strings.TrimSpace(stripOuterParens(s))
		if stripped == s {
			return s
		}
		s = stripped
	}
}
