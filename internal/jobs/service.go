package jobs

import (
	"context"
	"time"

	"github.com/cockroachdb/errors"
	"go.uber.org/zap"

	"github.com/rpattn/jobql/internal/attributeloader"
	"github.com/rpattn/jobql/internal/domain"
	"github.com/rpattn/jobql/internal/filter"
	"github.com/rpattn/jobql/internal/metrics"
	"github.com/rpattn/jobql/internal/repository"
)

// ErrInvalidRequest marks malformed request parameters other than the filter.
var ErrInvalidRequest = errors.New("invalid request")

// ListRequest selects a page of jobs matching Filter.
type ListRequest struct {
	Filter string
	Limit  int
	Offset int
}

// ListResult is one page of jobs plus the total number of matches.
type ListResult struct {
	Jobs   []domain.Job
	Total  int64
	Limit  int
	Offset int
}

// Explanation shows how a filter is understood and what SQL it produces.
type Explanation struct {
	Filter     string `json:"filter"`
	Expression string `json:"expression"`
	Predicate  string `json:"predicate"`
	SQL        string `json:"sql"`
	Args       []any  `json:"args"`
}

type Service struct {
	jobs         repository.JobRepository
	attributes   repository.AttributeRepository
	registry     domain.RelationRegistry
	mode         filter.Mode
	logger       *zap.Logger
	defaultLimit int
	maxLimit     int
}

type Option func(*Service)

func WithRegistry(registry domain.RelationRegistry) Option {
	return func(s *Service) {
		s.registry = registry
	}
}

func WithMode(mode filter.Mode) Option {
	return func(s *Service) {
		s.mode = mode
	}
}

func WithLogger(logger *zap.Logger) Option {
	return func(s *Service) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithPageLimits sets the limit used when none is requested and the largest one allowed.
func WithPageLimits(defaultLimit, maxLimit int) Option {
	return func(s *Service) {
		if defaultLimit > 0 {
			s.defaultLimit = defaultLimit
		}
		if maxLimit > 0 {
			s.maxLimit = maxLimit
		}
	}
}

func NewService(jobs repository.JobRepository, attributes repository.AttributeRepository, opts ...Option) *Service {
	service := &Service{
		jobs:         jobs,
		attributes:   attributes,
		registry:     domain.DefaultRelationRegistry(),
		mode:         filter.ModeLenient,
		logger:       zap.NewNop(),
		defaultLimit: 50,
		maxLimit:     500,
	}
	for _, opt := range opts {
		opt(service)
	}
	if service.maxLimit < service.defaultLimit {
		service.maxLimit = service.defaultLimit
	}
	return service
}

// lookup prefers the request-scoped loader so lookups are shared across a request.
func (s *Service) lookup(ctx context.Context) filter.AttributeLookup {
	if l := attributeloader.FromContext(ctx); l != nil {
		return l
	}
	return attributeloader.NewAttributeLoader(s.attributes)
}

func (s *Service) compiler(ctx context.Context) *filter.Compiler {
	return filter.NewCompiler(s.lookup(ctx),
		filter.WithRegistry(s.registry),
		filter.WithMode(s.mode),
		filter.WithLogger(s.logger),
	)
}

// Compile turns raw into a job query. An empty filter yields an unrestricted query.
func (s *Service) Compile(ctx context.Context, raw string) (*repository.JobQuery, error) {
	query := repository.NewJobQuery(s.registry)
	start := time.Now()
	err := s.compiler(ctx).Compile(ctx, query, raw)
	metrics.ObserveCompile(start, err)
	if err != nil {
		return nil, err
	}
	return query, nil
}

func (s *Service) normalizePage(limit, offset int) (int, int, error) {
	if limit < 0 || offset < 0 {
		return 0, 0, errors.Wrapf(ErrInvalidRequest, "limit and offset must not be negative")
	}
	if limit == 0 {
		limit = s.defaultLimit
	}
	if limit > s.maxLimit {
		limit = s.maxLimit
	}
	return limit, offset, nil
}

// List returns the page of jobs matching the request's filter with their
// relations loaded.
func (s *Service) List(ctx context.Context, req ListRequest) (ListResult, error) {
	limit, offset, err := s.normalizePage(req.Limit, req.Offset)
	if err != nil {
		return ListResult{}, err
	}
	query, err := s.Compile(ctx, req.Filter)
	if err != nil {
		return ListResult{}, err
	}

	total, err := s.jobs.Count(ctx, query)
	if err != nil {
		return ListResult{}, err
	}
	jobs, err := s.jobs.List(ctx, query, repository.Page{Limit: limit, Offset: offset})
	if err != nil {
		return ListResult{}, err
	}
	if err := s.jobs.LoadRelations(ctx, jobs); err != nil {
		return ListResult{}, err
	}

	s.logger.Debug("listed jobs",
		zap.String("filter", req.Filter),
		zap.Int("returned", len(jobs)),
		zap.Int64("total", total),
	)
	return ListResult{Jobs: jobs, Total: total, Limit: limit, Offset: offset}, nil
}

// Page implements export.JobSource. The limit is used as given.
func (s *Service) Page(ctx context.Context, raw string, limit, offset int) ([]domain.Job, error) {
	query, err := s.Compile(ctx, raw)
	if err != nil {
		return nil, err
	}
	jobs, err := s.jobs.List(ctx, query, repository.Page{Limit: limit, Offset: offset})
	if err != nil {
		return nil, err
	}
	if err := s.jobs.LoadRelations(ctx, jobs); err != nil {
		return nil, err
	}
	return jobs, nil
}

// Explain compiles raw without touching the jobs table.
func (s *Service) Explain(ctx context.Context, raw string) (Explanation, error) {
	return Explain(ctx, s.compiler(ctx), s.registry, raw)
}

// Explain renders the parsed expression, the compiled predicate tree and the
// generated SQL for raw. It is usable without a database given a static lookup.
func Explain(ctx context.Context, compiler *filter.Compiler, registry domain.RelationRegistry, raw string) (Explanation, error) {
	expr, err := filter.Parse(raw)
	if err != nil {
		return Explanation{}, err
	}

	tree := filter.NewTree()
	if err := compiler.Compile(ctx, tree, raw); err != nil {
		return Explanation{}, err
	}
	query := repository.NewJobQuery(registry)
	if err := compiler.Compile(ctx, query, raw); err != nil {
		return Explanation{}, err
	}
	sql, args, err := query.Select(`"jobs"."id"`).ToSql()
	if err != nil {
		return Explanation{}, errors.Wrap(err, "render sql")
	}

	out := Explanation{
		Filter:    raw,
		Predicate: tree.String(),
		SQL:       sql,
		Args:      args,
	}
	if expr != nil {
		out.Expression = expr.String()
	}
	if out.Args == nil {
		out.Args = []any{}
	}
	return out, nil
}
