package filter

import "strings"

type opKind int

const (
	opAnd opKind = iota
	opOr
)

const (
	andToken = " AND "
	orToken  = " OR "
)

func (k opKind) String() string {
	if k == opOr {
		return "OR"
	}
	return "AND"
}

func (k opKind) token() string {
	if k == opOr {
		return orToken
	}
	return andToken
}

// operatorMatch is a top-level boolean operator and the offset of its leading space.
type operatorMatch struct {
	kind opKind
	pos  int
}

func checkBalance(s string) error {
	if strings.Count(s, "(") != strings.Count(s, ")") {
		return &UnbalancedParenthesesError{Filter: s}
	}
	return nil
}

// stripOuterParens removes one pair of parentheses wrapping the whole of s. The pair
// is only removed when the depth first returns to zero at the final character, so
// "(A) AND (B)" is returned unchanged.
func stripOuterParens(s string) string {
	if len(s) < 2 || s[0] != '(' || s[len(s)-1] != ')' {
		return s
	}
	depth := 0
	for i := 0; i < len(s)-1; i++ {
		switch s[i] {
		case '(':
			depth++
		case ')':
			depth--
		}
		if depth <= 0 {
			return s
		}
	}
	if depth != 1 {
		return s
	}
	return s[1 : len(s)-1]
}

// scanOperators returns the AND/OR operators found at parenthesis depth zero, in
// order. Operators are matched case and whitespace sensitively.
func scanOperators(s string) []operatorMatch {
	var matches []operatorMatch
	depth := 0
	for i := 0; i < len(s); i++ {
		switch s[i] {
		case '(':
			depth++
		case ')':
			depth--
		}
		if depth != 0 {
			continue
		}
		switch {
		case strings.HasPrefix(s[i:], andToken):
			matches = append(matches, operatorMatch{kind: opAnd, pos: i})
			i += len(andToken) - 1
		case strings.HasPrefix(s[i:], orToken):
			matches = append(matches, operatorMatch{kind: opOr, pos: i})
			i += len(orToken) - 1
		}
	}
	return matches
}
