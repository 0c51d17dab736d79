package repository

import (
	"context"

	"github.com/cockroachdb/errors"
	"github.com/jackc/pgx/v5"

	"github.com/rpattn/jobql/internal/db"
	"github.com/rpattn/jobql/internal/domain"
)

const (
	attributeColumns = `id, name, type, options`

	getAttributesByNamesSQL = `SELECT ` + attributeColumns + ` FROM attributes WHERE name = ANY($1) ORDER BY name`
	listAttributesSQL       = `SELECT ` + attributeColumns + ` FROM attributes ORDER BY name`
)

type attributeRepository struct {
	db db.DBTX
}

// NewAttributeRepository creates an attribute definition repository
func NewAttributeRepository(exec db.DBTX) AttributeRepository {
	return &attributeRepository{db: exec}
}

func (r *attributeRepository) GetByNames(ctx context.Context, names []string) ([]domain.AttributeDefinition, error) {
	if len(names) == 0 {
		return []domain.AttributeDefinition{}, nil
	}
	rows, err := r.db.Query(ctx, getAttributesByNamesSQL, names)
	if err != nil {
		return nil, errors.Wrap(err, "get attributes by names")
	}
	defs, err := pgx.CollectRows(rows, scanAttribute)
	if err != nil {
		return nil, errors.Wrap(err, "scan attributes")
	}
	return defs, nil
}

func (r *attributeRepository) List(ctx context.Context) ([]domain.AttributeDefinition, error) {
	rows, err := r.db.Query(ctx, listAttributesSQL)
	if err != nil {
		return nil, errors.Wrap(err, "list attributes")
	}
	defs, err := pgx.CollectRows(rows, scanAttribute)
	if err != nil {
		return nil, errors.Wrap(err, "scan attributes")
	}
	return defs, nil
}

func scanAttribute(row pgx.CollectableRow) (domain.AttributeDefinition, error) {
	var def domain.AttributeDefinition
	err := row.Scan(&def.ID, &def.Name, &def.Type, &def.Options)
	return def, err
}
