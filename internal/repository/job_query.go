package repository

import (
	"fmt"
	"strings"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"

	"github.com/rpattn/jobql/internal/domain"
	"github.com/rpattn/jobql/internal/filter"
)

const jobsTable = "jobs"

var psql = sq.StatementBuilder.PlaceholderFormat(sq.Dollar)

// JobQuery collects WHERE predicates over the jobs table. It implements
// filter.Builder; relation existence checks become correlated EXISTS subqueries.
type JobQuery struct {
	registry domain.RelationRegistry
	table    string
	clauses  []sq.Sqlizer
}

// NewJobQuery returns an empty query over jobs resolving relations through registry.
func NewJobQuery(registry domain.RelationRegistry) *JobQuery {
	return &JobQuery{registry: registry, table: jobsTable}
}

func (q *JobQuery) scoped(table string) *JobQuery {
	return &JobQuery{registry: q.registry, table: table}
}

func (q *JobQuery) column(field string) string {
	return quoteIdent(q.table, field)
}

// quoteIdent quotes a possibly qualified identifier. Question marks are doubled so
// squirrel does not read them as placeholders.
func quoteIdent(parts ...string) string {
	return strings.ReplaceAll(pgx.Identifier(parts).Sanitize(), "?", "??")
}

// Empty reports whether no predicate has been added.
func (q *JobQuery) Empty() bool {
	return len(q.clauses) == 0
}

func (q *JobQuery) Compare(field string, op filter.Operator, value any) error {
	if err := filter.CheckOperator(op); err != nil {
		return err
	}
	q.clauses = append(q.clauses, sq.Expr(q.column(field)+" "+string(op)+" ?", value))
	return nil
}

func (q *JobQuery) Like(field, pattern string) error {
	q.clauses = append(q.clauses, sq.Expr(q.column(field)+" LIKE ?", pattern))
	return nil
}

func (q *JobQuery) In(field string, values []string) error {
	q.clauses = append(q.clauses, sq.Eq{q.column(field): append([]string(nil), values...)})
	return nil
}

func (q *JobQuery) Group(fn func(filter.Builder) error) error {
	sub := q.scoped(q.table)
	if err := fn(sub); err != nil {
		return err
	}
	if sub.Empty() {
		return nil
	}
	q.clauses = append(q.clauses, sq.And(sub.clauses))
	return nil
}

func (q *JobQuery) Either(left, right func(filter.Builder) error) error {
	l, r := q.scoped(q.table), q.scoped(q.table)
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
		q.clauses = append(q.clauses, sq.And(r.clauses))
	case r.Empty():
		q.clauses = append(q.clauses, sq.And(l.clauses))
	default:
		q.clauses = append(q.clauses, sq.Or{sq.And(l.clauses), sq.And(r.clauses)})
	}
	return nil
}

func (q *JobQuery) Exists(relation string, fn func(filter.Builder) error) error {
	rel, ok := q.registry.Lookup(relation)
	if !ok {
		return &filter.UnknownRelationError{Relation: relation}
	}
	sub := q.scoped(rel.Table)
	if fn != nil {
		if err := fn(sub); err != nil {
			return err
		}
	}

	subquery := sq.Select("1").From(quoteIdent(rel.Table))
	if rel.PivotTable != "" {
		subquery = subquery.
			Join(fmt.Sprintf("%s ON %s = %s",
				quoteIdent(rel.PivotTable),
				quoteIdent(rel.PivotTable, rel.PivotRelatedKey),
				quoteIdent(rel.Table, "id"),
			)).
			Where(fmt.Sprintf("%s = %s",
				quoteIdent(rel.PivotTable, rel.PivotOwnerKey),
				q.column("id"),
			))
	} else {
		subquery = subquery.Where(fmt.Sprintf("%s = %s",
			quoteIdent(rel.Table, rel.OwnerKey),
			q.column("id"),
		))
	}
	for _, clause := range sub.clauses {
		subquery = subquery.Where(clause)
	}

	q.clauses = append(q.clauses, sq.Expr("EXISTS (?)", subquery))
	return nil
}

// Where returns the combined predicate, or nil when the query is empty.
func (q *JobQuery) Where() sq.Sqlizer {
	if q.Empty() {
		return nil
	}
	return sq.And(q.clauses)
}

// Select starts a SELECT over jobs restricted by the query's predicates.
func (q *JobQuery) Select(columns ...string) sq.SelectBuilder {
	builder := psql.Select(columns...).From(quoteIdent(jobsTable))
	if where := q.Where(); where != nil {
		builder = builder.Where(where)
	}
	return builder
}
