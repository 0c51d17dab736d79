package attributeloader

import (
	"context"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/graph-gophers/dataloader"

	"github.com/rpattn/jobql/internal/domain"
	"github.com/rpattn/jobql/internal/repository"
)

// DefaultWait is how long the loader collects keys before issuing a batch.
const DefaultWait = 2 * time.Millisecond

// AttributeLoader batches and caches attribute definition lookups by name. One
// loader is meant to live for a single request.
type AttributeLoader struct {
	Loader *dataloader.Loader
}

// NewAttributeLoader builds a loader over repo.
func NewAttributeLoader(repo repository.AttributeRepository, opts ...dataloader.Option) *AttributeLoader {
	batchFn := func(ctx context.Context, keys dataloader.Keys) []*dataloader.Result {
		names := keys.Keys()

		defs, err := repo.GetByNames(ctx, names)
		if err != nil {
			results := make([]*dataloader.Result, len(keys))
			for i := range results {
				results[i] = &dataloader.Result{Error: err}
			}
			return results
		}

		byName := make(map[string]domain.AttributeDefinition, len(defs))
		for _, def := range defs {
			byName[def.Name] = def
		}

		// Results must line up with keys.
		results := make([]*dataloader.Result, len(keys))
		for i, name := range names {
			if def, ok := byName[name]; ok {
				results[i] = &dataloader.Result{Data: &def}
			} else {
				results[i] = &dataloader.Result{Data: nil}
			}
		}
		return results
	}

	options := append([]dataloader.Option{dataloader.WithWait(DefaultWait)}, opts...)
	return &AttributeLoader{Loader: dataloader.NewBatchedLoader(batchFn, options...)}
}

// LookupAttribute returns the named definition, or nil when it does not exist.
func (l *AttributeLoader) LookupAttribute(ctx context.Context, name string) (*domain.AttributeDefinition, error) {
	data, err := l.Loader.Load(ctx, dataloader.StringKey(name))()
	if err != nil {
		return nil, err
	}
	def, _ := data.(*domain.AttributeDefinition)
	return def, nil
}

// Prefetch resolves every name in one batch so later lookups hit the cache.
func (l *AttributeLoader) Prefetch(ctx context.Context, names []string) error {
	if len(names) == 0 {
		return nil
	}
	_, errs := l.Loader.LoadMany(ctx, dataloader.NewKeysFromStrings(names))()
	for _, err := range errs {
		if err != nil {
			return errors.Wrap(err, "prefetch attributes")
		}
	}
	return nil
}

type ctxKey string

const loaderKey ctxKey = "attributeLoader"

// WithLoader attaches l to ctx.
func WithLoader(ctx context.Context, l *AttributeLoader) context.Context {
	return context.WithValue(ctx, loaderKey, l)
}

// FromContext retrieves the loader attached by WithLoader.
func FromContext(ctx context.Context) *AttributeLoader {
	if l, ok := ctx.Value(loaderKey).(*AttributeLoader); ok {
		return l
	}
	return nil
}
