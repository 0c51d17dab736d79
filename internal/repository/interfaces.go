package repository

import (
	"context"

	"github.com/rpattn/jobql/internal/domain"
)

// Page bounds a listing. A zero Limit means no limit.
type Page struct {
	Limit  int
	Offset int
}

// JobRepository defines the interface for job listing operations
type JobRepository interface {
	List(ctx context.Context, query *JobQuery, page Page) ([]domain.Job, error)
	Count(ctx context.Context, query *JobQuery) (int64, error)
	// LoadRelations fills languages, locations, categories and attribute values in place.
	LoadRelations(ctx context.Context, jobs []domain.Job) error
}

// AttributeRepository defines the interface for attribute definition lookups
type AttributeRepository interface {
	// GetByNames returns the definitions that exist; missing names are skipped.
	GetByNames(ctx context.Context, names []string) ([]domain.AttributeDefinition, error)
	List(ctx context.Context) ([]domain.AttributeDefinition, error)
}
