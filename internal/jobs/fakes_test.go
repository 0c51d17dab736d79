package jobs

import (
	"context"
	"sync"

	"github.com/cockroachdb/errors"

	"github.com/rpattn/jobql/internal/domain"
	"github.com/rpattn/jobql/internal/repository"
)

type listCall struct {
	sql  string
	args []any
	page repository.Page
}

type fakeJobRepository struct {
	mu        sync.Mutex
	jobs      []domain.Job
	total     int64
	err       error
	lists     []listCall
	loaded    int
	loadError error
}

func (f *fakeJobRepository) List(_ context.Context, query *repository.JobQuery, page repository.Page) ([]domain.Job, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	sql, args, err := query.Select(`"jobs"."id"`).ToSql()
	if err != nil {
		return nil, err
	}
	f.lists = append(f.lists, listCall{sql: sql, args: args, page: page})
	if f.err != nil {
		return nil, f.err
	}
	if page.Offset >= len(f.jobs) {
		return []domain.Job{}, nil
	}
	end := len(f.jobs)
	if page.Limit > 0 && page.Offset+page.Limit < end {
		end = page.Offset + page.Limit
	}
	return append([]domain.Job(nil), f.jobs[page.Offset:end]...), nil
}

func (f *fakeJobRepository) Count(context.Context, *repository.JobQuery) (int64, error) {
	if f.err != nil {
		return 0, f.err
	}
	if f.total > 0 {
		return f.total, nil
	}
	return int64(len(f.jobs)), nil
}

func (f *fakeJobRepository) LoadRelations(_ context.Context, jobs []domain.Job) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.loadError != nil {
		return f.loadError
	}
	f.loaded += len(jobs)
	for i := range jobs {
		jobs[i].Languages = []domain.Language{{Name: "Go"}}
	}
	return nil
}

type fakeAttributeRepository struct {
	defs map[string]domain.AttributeDefinition
	err  error
}

func (f *fakeAttributeRepository) GetByNames(_ context.Context, names []string) ([]domain.AttributeDefinition, error) {
	if f.err != nil {
		return nil, f.err
	}
	var out []domain.AttributeDefinition
	for _, name := range names {
		if def, ok := f.defs[name]; ok {
			out = append(out, def)
		}
	}
	return out, nil
}

func (f *fakeAttributeRepository) List(context.Context) ([]domain.AttributeDefinition, error) {
	out := make([]domain.AttributeDefinition, 0, len(f.defs))
	for _, def := range f.defs {
		out = append(out, def)
	}
	return out, nil
}

type fakePinger struct{ err error }

func (p fakePinger) Ping(context.Context) error { return p.err }

var errDatabaseDown = errors.New("database is down")
