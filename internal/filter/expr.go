package filter

// Expr is a node of a parsed filter: a Leaf condition or a binary And/Or.
type Expr interface {
	// String renders the node with every binary node parenthesised.
	String() string
	// Text returns the substring the node was parsed from.
	Text() string
	expr()
}

// Leaf is a single condition such as "job_type=full-time".
type Leaf struct {
	Condition string
}

// And joins two expressions; Right was parsed from everything after the operator.
type And struct {
	Left, Right Expr
	Source      string
}

// Or joins two expressions; Right was parsed from everything after the operator.
type Or struct {
	Left, Right Expr
	Source      string
}

func (l Leaf) String() string { return l.Condition }
func (l Leaf) Text() string   { return l.Condition }
func (Leaf) expr()            {}

func (a And) String() string { return "(" + a.Left.String() + " AND " + a.Right.String() + ")" }
func (a And) Text() string   { return a.Source }
func (And) expr()            {}

func (o Or) String() string { return "(" + o.Left.String() + " OR " + o.Right.String() + ")" }
func (o Or) Text() string   { return o.Source }
func (Or) expr()            {}

// Walk calls fn for every node of e in depth-first, left-to-right order.
func Walk(e Expr, fn func(Expr)) {
	if e == nil {
		return
	}
	fn(e)
	switch n := e.(type) {
	case And:
		Walk(n.Left, fn)
		Walk(n.Right, fn)
	case Or:
		Walk(n.Left, fn)
		Walk(n.Right, fn)
	}
}
