package filter

import (
	"strings"
)

// ClauseKind identifies the type of a recorded clause.
type ClauseKind string

const (
	ClauseCompare ClauseKind = "compare"
	ClauseLike    ClauseKind = "like"
	ClauseIn      ClauseKind = "in"
	ClauseGroup   ClauseKind = "group"
	ClauseEither  ClauseKind = "either"
	ClauseExists  ClauseKind = "exists"
)

// Clause is one recorded predicate. Children holds the sub-tree of a group, the two
// branches of an either, or the optional constraint of an exists.
type Clause struct {
	Kind     ClauseKind
	Field    string
	Op       Operator
	Value    any
	Values   []string
	Relation string
	Children []*Tree
}

// Tree is an in-memory Builder that records the predicate structure a filter
// compiles to. Its String form reads like a SQL WHERE clause.
type Tree struct {
	Clauses []Clause
}

// NewTree returns an empty tree.
func NewTree() *Tree {
	return &Tree{}
}

// Empty reports whether nothing has been recorded.
func (t *Tree) Empty() bool {
	return len(t.Clauses) == 0
}

func (t *Tree) Compare(field string, op Operator, value any) error {
	if err := CheckOperator(op); err != nil {
		return err
	}
	t.Clauses = append(t.Clauses, Clause{Kind: ClauseCompare, Field: field, Op: op, Value: value})
	return nil
}

func (t *Tree) Like(field, pattern string) error {
	t.Clauses = append(t.Clauses, Clause{Kind: ClauseLike, Field: field, Value: pattern})
	return nil
}

func (t *Tree) In(field string, values []string) error {
	t.Clauses = append(t.Clauses, Clause{Kind: ClauseIn, Field: field, Values: append([]string(nil), values...)})
	return nil
}

func (t *Tree) Group(fn func(Builder) error) error {
	sub := NewTree()
	if err := fn(sub); err != nil {
		return err
	}
	if sub.Empty() {
		return nil
	}
	t.Clauses = append(t.Clauses, Clause{Kind: ClauseGroup, Children: []*Tree{sub}})
	return nil
}

func (t *Tree) Either(left, right func(Builder) error) error {
	l, r := NewTree(), NewTree()
	if err := left(l); err != nil {
		return err
	}
	if err := right(r); err != nil {
		return err
	}
	switch {
	case l.Empty() && r.Empty():
		return nil
	case l.Empty():
		t.Clauses = append(t.Clauses, Clause{Kind: ClauseGroup, Children: []*Tree{r}})
	case r.Empty():
		t.Clauses = append(t.Clauses, Clause{Kind: ClauseGroup, Children: []*Tree{l}})
	default:
		t.Clauses = append(t.Clauses, Clause{Kind: ClauseEither, Children: []*Tree{l, r}})
	}
	return nil
}

func (t *Tree) Exists(relation string, fn func(Builder) error) error {
	clause := Clause{Kind: ClauseExists, Relation: relation}
	if fn != nil {
		sub := NewTree()
		err := fn(sub)
		if !sub.Empty() {
			clause.Children = []*Tree{sub}
		}
		if err != nil {
			return err
		}
	}
	t.Clauses = append(t.Clauses, clause)
	return nil
}

func (t *Tree) String() string {
	parts := make([]string, 0, len(t.Clauses))
	for _, c := range t.Clauses {
		parts = append(parts, c.String())
	}
	return strings.Join(parts, " AND ")
}

func (c Clause) String() string {
	switch c.Kind {
	case ClauseCompare:
		return c.Field + " " + string(c.Op) + " " + formatValue(c.Value)
	case ClauseLike:
		return c.Field + " LIKE " + formatValue(c.Value)
	case ClauseIn:
		return c.Field + " IN (" + strings.Join(c.Values, ", ") + ")"
	case ClauseGroup:
		return "(" + c.Children[0].String() + ")"
	case ClauseEither:
		return "(" + c.Children[0].String() + " OR " + c.Children[1].String() + ")"
	case ClauseExists:
		if len(c.Children) == 0 {
			return "EXISTS " + c.Relation
		}
		return "EXISTS " + c.Relation + " WHERE (" + c.Children[0].String() + ")"
	}
	return ""
}
