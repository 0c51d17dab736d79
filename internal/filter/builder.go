package filter

import (
	"context"
	"fmt"

	"github.com/cockroachdb/errors"

	"github.com/rpattn/jobql/internal/domain"
)

// ErrUnsupportedOperator is returned by builders for comparison operators they cannot render.
var ErrUnsupportedOperator = errors.New("unsupported comparison operator")

// Operator is a field comparison operator.
type Operator string

const (
	OpEqual          Operator = "="
	OpNotEqual       Operator = "!="
	OpGreater        Operator = ">"
	OpGreaterOrEqual Operator = ">="
	OpLess           Operator = "<"
	OpLessOrEqual    Operator = "<="
)

// Valid reports whether o is one of the supported comparison operators.
func (o Operator) Valid() bool {
	switch o {
	case OpEqual, OpNotEqual, OpGreater, OpGreaterOrEqual, OpLess, OpLessOrEqual:
		return true
	}
	return false
}

// CheckOperator returns an ErrUnsupportedOperator error for invalid operators.
func CheckOperator(o Operator) error {
	if o.Valid() {
		return nil
	}
	return errors.Wrapf(ErrUnsupportedOperator, "operator %q", string(o))
}

// Builder is the composable predicate target a filter compiles into. Every call
// ANDs one clause onto the receiver.
type Builder interface {
	// Compare adds field <op> value.
	Compare(field string, op Operator, value any) error
	// Like adds a pattern match; pattern carries its own wildcards.
	Like(field, pattern string) error
	// In adds field IN (values...).
	In(field string, values []string) error
	// Group adds the clauses built by fn as one parenthesised clause.
	Group(fn func(Builder) error) error
	// Either adds (left OR right) as one clause.
	Either(left, right func(Builder) error) error
	// Exists adds an existence check on a relation. fn constrains the related rows
	// and may be nil.
	Exists(relation string, fn func(Builder) error) error
}

// AttributeLookup resolves attribute definitions by name. A missing definition is
// reported as (nil, nil).
type AttributeLookup interface {
	LookupAttribute(ctx context.Context, name string) (*domain.AttributeDefinition, error)
}

// Prefetcher is implemented by lookups that can resolve many names in one round trip.
// The compiler calls it once per filter with every attribute name the filter uses.
type Prefetcher interface {
	Prefetch(ctx context.Context, names []string) error
}

// StaticAttributes is an in-memory AttributeLookup keyed by attribute name.
type StaticAttributes map[string]domain.AttributeDefinition

// LookupAttribute implements AttributeLookup.
func (s StaticAttributes) LookupAttribute(_ context.Context, name string) (*domain.AttributeDefinition, error) {
	def, ok := s[name]
	if !ok {
		return nil, nil
	}
	return &def, nil
}

func (o Operator) String() string { return string(o) }

// formatValue renders a bound value for diagnostics.
func formatValue(v any) string {
	switch val := v.(type) {
	case string:
		return val
	case fmt.Stringer:
		return val.String()
	default:
		return fmt.Sprintf("%v", val)
	}
}
