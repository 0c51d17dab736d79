package filter

import (
	"context"
	"strings"

	"github.com/cockroachdb/errors"
	"go.uber.org/zap"

	"github.com/rpattn/jobql/internal/domain"
)

// Mode controls how attribute conditions react when their typed column predicate
// cannot be built.
type Mode int

const (
	// ModeLenient logs the failure and keeps a bare attribute existence check.
	ModeLenient Mode = iota
	// ModeStrict fails the whole compile with an AttributePredicateError.
	ModeStrict
)

func (m Mode) String() string {
	if m == ModeStrict {
		return "strict"
	}
	return "lenient"
}

// ParseMode parses "strict" or "lenient" (the default for an empty string).
func ParseMode(s string) (Mode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "lenient":
		return ModeLenient, nil
	case "strict":
		return ModeStrict, nil
	}
	return ModeLenient, errors.Newf("unknown filter mode %q", s)
}

// Option configures a Compiler.
type Option func(*Compiler)

// WithRegistry sets the relations that relationship conditions may name.
func WithRegistry(registry domain.RelationRegistry) Option {
	return func(c *Compiler) {
		c.registry = registry
	}
}

// WithMode sets the attribute failure mode.
func WithMode(mode Mode) Option {
	return func(c *Compiler) {
		c.mode = mode
	}
}

// WithLogger sets the logger used for ignored conditions and lenient failures.
func WithLogger(logger *zap.Logger) Option {
	return func(c *Compiler) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// Compiler turns filter strings into predicates on a Builder. It holds no state
// between calls.
type Compiler struct {
	lookup   AttributeLookup
	registry domain.RelationRegistry
	mode     Mode
	logger   *zap.Logger
}

// NewCompiler creates a compiler resolving attribute conditions through lookup.
func NewCompiler(lookup AttributeLookup, opts ...Option) *Compiler {
	c := &Compiler{
		lookup:   lookup,
		registry: domain.DefaultRelationRegistry(),
		mode:     ModeLenient,
		logger:   zap.NewNop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Compile parses filter and adds its predicates to b. A blank filter adds nothing.
// On error b may hold a partial predicate and must be discarded.
func (c *Compiler) Compile(ctx context.Context, b Builder, filter string) error {
	expr, err := Parse(filter)
	if err != nil {
		return err
	}
	if expr == nil {
		return nil
	}
	c.prefetch(ctx, expr)
	return c.CompileExpr(ctx, b, expr)
}

// CompileExpr adds the predicates of an already parsed expression to b.
//
// For an AND the left side goes straight onto b and the right side into a nested
// group; an OR becomes a single (left OR right) clause.
func (c *Compiler) CompileExpr(ctx context.Context, b Builder, expr Expr) error {
	switch n := expr.(type) {
	case nil:
		return nil
	case Leaf:
		return wrapParseError(n.Condition, c.compileLeaf(ctx, b, n.Condition))
	case And:
		if err := c.CompileExpr(ctx, b, n.Left); err != nil {
			return err
		}
		err := b.Group(func(g Builder) error {
			return c.CompileExpr(ctx, g, n.Right)
		})
		return wrapParseError(n.Source, err)
	case Or:
		err := b.Either(
			func(l Builder) error { return c.CompileExpr(ctx, l, n.Left) },
			func(r Builder) error { return c.CompileExpr(ctx, r, n.Right) },
		)
		return wrapParseError(n.Source, err)
	}
	return errors.Newf("unexpected expression %T", expr)
}

func (c *Compiler) compileLeaf(ctx context.Context, b Builder, condition string) error {
	switch c.classify(condition) {
	case kindAttribute:
		return c.compileAttribute(ctx, b, condition)
	case kindRelation:
		return c.compileRelation(b, condition)
	default:
		return c.compileField(b, condition)
	}
}

// prefetch resolves every attribute the expression names in one batch when the
// lookup supports it. Failures are left for the per-condition lookup to report.
func (c *Compiler) prefetch(ctx context.Context, expr Expr) {
	p, ok := c.lookup.(Prefetcher)
	if !ok {
		return
	}
	names := AttributeNames(expr)
	if len(names) == 0 {
		return
	}
	if err := p.Prefetch(ctx, names); err != nil {
		c.logger.Debug("attribute prefetch failed", zap.Strings("attributes", names), zap.Error(err))
	}
}

// AttributeNames returns the distinct attribute names referenced by expr, in order
// of appearance.
func AttributeNames(expr Expr) []string {
	var names []string
	seen := make(map[string]struct{})
	Walk(expr, func(e Expr) {
		leaf, ok := e.(Leaf)
		if !ok || !strings.Contains(leaf.Condition, attributeMarker) {
			return
		}
		cond, err := parseAttributeCondition(leaf.Condition)
		if err != nil {
			return
		}
		if _, dup := seen[cond.name]; dup {
			return
		}
		seen[cond.name] = struct{}{}
		names = append(names, cond.name)
	})
	return names
}
