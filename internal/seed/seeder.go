package seed

import (
	"context"
	"math/rand"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"github.com/rpattn/jobql/internal/db"
	"github.com/rpattn/jobql/internal/domain"
)

const (
	upsertLanguageSQL = `
INSERT INTO languages (name) VALUES ($1)
ON CONFLICT (name) DO UPDATE SET updated_at = NOW()
RETURNING id`

	upsertCategorySQL = `
INSERT INTO categories (name) VALUES ($1)
ON CONFLICT (name) DO UPDATE SET updated_at = NOW()
RETURNING id`

	upsertLocationSQL = `
INSERT INTO locations (city, state, country) VALUES ($1, $2, $3)
ON CONFLICT (city, country) DO UPDATE SET state = EXCLUDED.state, updated_at = NOW()
RETURNING id`

	upsertAttributeSQL = `
INSERT INTO attributes (name, type, options) VALUES ($1, $2, $3)
ON CONFLICT (name) DO UPDATE SET type = EXCLUDED.type, options = EXCLUDED.options, updated_at = NOW()
RETURNING id`
)

// Options controls a seeding run.
type Options struct {
	Jobs  int
	Seed  int64
	Reset bool
}

// Seeder loads the demo data set into the database.
type Seeder struct {
	conn   *db.Connection
	logger *zap.Logger
	now    func() time.Time
}

func NewSeeder(conn *db.Connection, logger *zap.Logger) *Seeder {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Seeder{conn: conn, logger: logger, now: time.Now}
}

// Run seeds lookup rows, attribute definitions and opts.Jobs jobs in one transaction.
// Lookup rows are upserted, so running twice only adds jobs.
func (s *Seeder) Run(ctx context.Context, opts Options) error {
	if opts.Jobs < 0 {
		return errors.Newf("job count must not be negative, got %d", opts.Jobs)
	}
	rng := rand.New(rand.NewSource(opts.Seed))

	return s.conn.WithTx(ctx, func(tx pgx.Tx) error {
		if opts.Reset {
			if _, err := tx.Exec(ctx, `TRUNCATE jobs, job_language, job_category, job_location, job_attributes`); err != nil {
				return errors.Wrap(err, "reset jobs")
			}
		}

		refs, err := seedLookups(ctx, tx)
		if err != nil {
			return err
		}

		seeds := generateJobs(rng, opts.Jobs, refs, s.now())
		if err := insertJobs(ctx, tx, seeds); err != nil {
			return err
		}

		s.logger.Info("seeded database",
			zap.Int("languages", len(refs.Languages)),
			zap.Int("categories", len(refs.Categories)),
			zap.Int("locations", len(refs.Locations)),
			zap.Int("attributes", len(refs.Attributes)),
			zap.Int("jobs", len(seeds)),
			zap.Int64("seed", opts.Seed),
		)
		return nil
	})
}

func seedLookups(ctx context.Context, tx pgx.Tx) (Refs, error) {
	var refs Refs
	for _, name := range languageNames {
		id, err := returningID(ctx, tx, upsertLanguageSQL, name)
		if err != nil {
			return Refs{}, errors.Wrapf(err, "seed language %q", name)
		}
		refs.Languages = append(refs.Languages, id)
	}
	for _, name := range categoryNames {
		id, err := returningID(ctx, tx, upsertCategorySQL, name)
		if err != nil {
			return Refs{}, errors.Wrapf(err, "seed category %q", name)
		}
		refs.Categories = append(refs.Categories, id)
	}
	for _, loc := range locationRows {
		id, err := returningID(ctx, tx, upsertLocationSQL, loc.City, loc.State, loc.Country)
		if err != nil {
			return Refs{}, errors.Wrapf(err, "seed location %q", loc.City)
		}
		refs.Locations = append(refs.Locations, id)
	}
	for _, def := range attributeRows {
		options := def.Options
		if options == nil {
			options = []string{}
		}
		id, err := returningID(ctx, tx, upsertAttributeSQL, def.Name, string(def.Type), options)
		if err != nil {
			return Refs{}, errors.Wrapf(err, "seed attribute %q", def.Name)
		}
		def.ID = id
		refs.Attributes = append(refs.Attributes, def)
	}
	return refs, nil
}

func returningID(ctx context.Context, tx pgx.Tx, sql string, args ...any) (uuid.UUID, error) {
	var id uuid.UUID
	err := tx.QueryRow(ctx, sql, args...).Scan(&id)
	return id, err
}

func insertJobs(ctx context.Context, tx pgx.Tx, seeds []jobSeed) error {
	if len(seeds) == 0 {
		return nil
	}

	jobRows := make([][]any, 0, len(seeds))
	var languagePivot, categoryPivot, locationPivot, attributeValues [][]any
	for _, seed := range seeds {
		j := seed.Job
		jobRows = append(jobRows, []any{
			j.ID, j.Title, j.Description, j.CompanyName, j.SalaryMin, j.SalaryMax,
			j.IsRemote, string(j.JobType), string(j.Status), j.PublishedAt, j.CreatedAt, j.UpdatedAt,
		})
		for _, id := range seed.Languages {
			languagePivot = append(languagePivot, []any{j.ID, id})
		}
		for _, id := range seed.Categories {
			categoryPivot = append(categoryPivot, []any{j.ID, id})
		}
		for _, id := range seed.Locations {
			locationPivot = append(locationPivot, []any{j.ID, id})
		}
		for _, v := range seed.Attributes {
			attributeValues = append(attributeValues, attributeRow(j.ID, v))
		}
	}

	copies := []struct {
		table   string
		columns []string
		rows    [][]any
	}{
		{"jobs", []string{"id", "title", "description", "company_name", "salary_min", "salary_max",
			"is_remote", "job_type", "status", "published_at", "created_at", "updated_at"}, jobRows},
		{"job_language", []string{"job_id", "language_id"}, languagePivot},
		{"job_category", []string{"job_id", "category_id"}, categoryPivot},
		{"job_location", []string{"job_id", "location_id"}, locationPivot},
		{"job_attributes", []string{"job_id", "attribute_id", "text_value", "number_value",
			"boolean_value", "date_value", "select_value"}, attributeValues},
	}
	for _, c := range copies {
		if len(c.rows) == 0 {
			continue
		}
		if _, err := tx.CopyFrom(ctx, pgx.Identifier{c.table}, c.columns, pgx.CopyFromRows(c.rows)); err != nil {
			return errors.Wrapf(err, "copy %s", c.table)
		}
	}
	return nil
}

// attributeRow places the value in the column matching its type; the rest stay NULL.
func attributeRow(jobID uuid.UUID, v attributeValue) []any {
	row := []any{jobID, v.AttributeID, nil, nil, nil, nil, nil}
	switch v.Type {
	case domain.AttributeTypeText:
		row[2] = v.Value
	case domain.AttributeTypeNumber:
		row[3] = v.Value
	case domain.AttributeTypeBoolean:
		row[4] = v.Value
	case domain.AttributeTypeDate:
		row[5] = v.Value
	case domain.AttributeTypeSelect:
		row[6] = v.Value
	}
	return row
}
