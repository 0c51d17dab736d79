package filter

import (
	"fmt"

	"github.com/cockroachdb/errors"
)

var (
	// ErrUnbalancedParentheses is returned when a filter has mismatched ( and ) counts.
	ErrUnbalancedParentheses = errors.New("unbalanced parentheses in filter")
	// ErrInvalidAttributeFilterFormat is returned for attribute: conditions that do not
	// match attribute:<name><operator><value>.
	ErrInvalidAttributeFilterFormat = errors.New("invalid attribute filter format")
	// ErrUnknownAttribute is returned when no attribute definition exists for a name.
	ErrUnknownAttribute = errors.New("unknown attribute in filter")
	// ErrUnknownRelation is returned when a relationship condition names an unregistered relation.
	ErrUnknownRelation = errors.New("unknown relation in filter")
	// ErrAttributePredicate is returned in strict mode when the typed column predicate
	// of an attribute condition cannot be built.
	ErrAttributePredicate = errors.New("error applying attribute filter")
)

// UnbalancedParenthesesError reports the (sub)string whose parentheses do not balance.
type UnbalancedParenthesesError struct {
	Filter string
}

func (e *UnbalancedParenthesesError) Error() string {
	return fmt.Sprintf("unbalanced parentheses in filter: %s", e.Filter)
}

func (e *UnbalancedParenthesesError) Unwrap() error { return ErrUnbalancedParentheses }

// InvalidAttributeFilterError reports an attribute condition that failed the pattern.
type InvalidAttributeFilterError struct {
	Condition string
}

func (e *InvalidAttributeFilterError) Error() string {
	return fmt.Sprintf("invalid attribute filter format: %s", e.Condition)
}

func (e *InvalidAttributeFilterError) Unwrap() error { return ErrInvalidAttributeFilterFormat }

// UnknownAttributeError reports an attribute name with no definition.
type UnknownAttributeError struct {
	Name string
}

func (e *UnknownAttributeError) Error() string {
	return fmt.Sprintf("unknown attribute in filter: %s", e.Name)
}

func (e *UnknownAttributeError) Unwrap() error { return ErrUnknownAttribute }

// UnknownRelationError reports a relation name missing from the registry.
type UnknownRelationError struct {
	Relation string
}

func (e *UnknownRelationError) Error() string {
	return fmt.Sprintf("unknown relation in filter: %s", e.Relation)
}

func (e *UnknownRelationError) Unwrap() error { return ErrUnknownRelation }

// AttributePredicateError carries a typed column failure surfaced in strict mode.
// It unwraps to ErrAttributePredicate; the underlying failure is kept in Err.
type AttributePredicateError struct {
	Name string
	Err  error
}

func (e *AttributePredicateError) Error() string {
	return fmt.Sprintf("error applying attribute filter %s: %v", e.Name, e.Err)
}

func (e *AttributePredicateError) Unwrap() error { return ErrAttributePredicate }

// ParseError wraps any failure met while parsing or compiling a filter, carrying the
// substring that was being processed.
type ParseError struct {
	Filter string
	Err    error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("error parsing filter group %q: %v", e.Filter, e.Err)
}

func (e *ParseError) Unwrap() error { return e.Err }

// wrapParseError wraps err once; errors that already carry a ParseError pass through
// so the innermost substring is reported.
func wrapParseError(filter string, err error) error {
	if err == nil {
		return nil
	}
	var pe *ParseError
	if errors.As(err, &pe) {
		return err
	}
	return &ParseError{Filter: filter, Err: err}
}

// IsFilterError reports whether err was caused by the filter text itself rather
// than by the store behind the builder.
func IsFilterError(err error) bool {
	for _, target := range []error{
		ErrUnbalancedParentheses,
		ErrInvalidAttributeFilterFormat,
		ErrUnknownAttribute,
		ErrUnknownRelation,
		ErrAttributePredicate,
		ErrUnsupportedOperator,
	} {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}
