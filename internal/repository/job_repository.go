package repository

import (
	"context"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/rpattn/jobql/internal/db"
	"github.com/rpattn/jobql/internal/domain"
)

var jobColumns = []string{
	`"jobs"."id"`,
	`"jobs"."title"`,
	`"jobs"."description"`,
	`"jobs"."company_name"`,
	`"jobs"."salary_min"::float8`,
	`"jobs"."salary_max"::float8`,
	`"jobs"."is_remote"`,
	`"jobs"."job_type"`,
	`"jobs"."status"`,
	`"jobs"."published_at"`,
	`"jobs"."created_at"`,
	`"jobs"."updated_at"`,
}

const (
	languagesForJobsSQL = `
SELECT jl.job_id, l.id, l.name
FROM languages l
JOIN job_language jl ON jl.language_id = l.id
WHERE jl.job_id = ANY($1)
ORDER BY l.name`

	categoriesForJobsSQL = `
SELECT jc.job_id, c.id, c.name
FROM categories c
JOIN job_category jc ON jc.category_id = c.id
WHERE jc.job_id = ANY($1)
ORDER BY c.name`

	locationsForJobsSQL = `
SELECT jl.job_id, l.id, l.city, l.state, l.country
FROM locations l
JOIN job_location jl ON jl.location_id = l.id
WHERE jl.job_id = ANY($1)
ORDER BY l.city`

	attributeValuesForJobsSQL = `
SELECT ja.job_id, a.id, a.name, a.type,
       ja.text_value, ja.number_value::float8, ja.boolean_value, ja.date_value, ja.select_value
FROM job_attributes ja
JOIN attributes a ON a.id = ja.attribute_id
WHERE ja.job_id = ANY($1)
ORDER BY a.name`
)

type jobRepository struct {
	db db.DBTX
}

// NewJobRepository creates a job repository over the given pool or transaction
func NewJobRepository(exec db.DBTX) JobRepository {
	return &jobRepository{db: exec}
}

func (r *jobRepository) List(ctx context.Context, query *JobQuery, page Page) ([]domain.Job, error) {
	builder := query.Select(jobColumns...).OrderBy(`"jobs"."created_at" DESC`, `"jobs"."id"`)
	if page.Limit > 0 {
		builder = builder.Limit(uint64(page.Limit))
	}
	if page.Offset > 0 {
		builder = builder.Offset(uint64(page.Offset))
	}

	sql, args, err := builder.ToSql()
	if err != nil {
		return nil, errors.Wrap(err, "build job query")
	}

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, classifyQueryError(err, "list jobs")
	}
	jobs, err := pgx.CollectRows(rows, scanJob)
	if err != nil {
		return nil, classifyQueryError(err, "scan jobs")
	}
	return jobs, nil
}

func (r *jobRepository) Count(ctx context.Context, query *JobQuery) (int64, error) {
	sql, args, err := query.Select("COUNT(*)").ToSql()
	if err != nil {
		return 0, errors.Wrap(err, "build job count query")
	}

	var total int64
	if err := r.db.QueryRow(ctx, sql, args...).Scan(&total); err != nil {
		return 0, classifyQueryError(err, "count jobs")
	}
	return total, nil
}

func (r *jobRepository) LoadRelations(ctx context.Context, jobs []domain.Job) error {
	if len(jobs) == 0 {
		return nil
	}

	ids := make([]uuid.UUID, len(jobs))
	index := make(map[uuid.UUID]int, len(jobs))
	for i := range jobs {
		ids[i] = jobs[i].ID
		index[jobs[i].ID] = i
		jobs[i].Languages = []domain.Language{}
		jobs[i].Categories = []domain.Category{}
		jobs[i].Locations = []domain.Location{}
		jobs[i].Attributes = []domain.JobAttributeValue{}
	}

	err := r.each(ctx, languagesForJobsSQL, ids, func(row pgx.Row) error {
		var jobID uuid.UUID
		var lang domain.Language
		if err := row.Scan(&jobID, &lang.ID, &lang.Name); err != nil {
			return err
		}
		if i, ok := index[jobID]; ok {
			jobs[i].Languages = append(jobs[i].Languages, lang)
		}
		return nil
	})
	if err != nil {
		return errors.Wrap(err, "load job languages")
	}

	err = r.each(ctx, categoriesForJobsSQL, ids, func(row pgx.Row) error {
		var jobID uuid.UUID
		var category domain.Category
		if err := row.Scan(&jobID, &category.ID, &category.Name); err != nil {
			return err
		}
		if i, ok := index[jobID]; ok {
			jobs[i].Categories = append(jobs[i].Categories, category)
		}
		return nil
	})
	if err != nil {
		return errors.Wrap(err, "load job categories")
	}

	err = r.each(ctx, locationsForJobsSQL, ids, func(row pgx.Row) error {
		var jobID uuid.UUID
		var location domain.Location
		if err := row.Scan(&jobID, &location.ID, &location.City, &location.State, &location.Country); err != nil {
			return err
		}
		if i, ok := index[jobID]; ok {
			jobs[i].Locations = append(jobs[i].Locations, location)
		}
		return nil
	})
	if err != nil {
		return errors.Wrap(err, "load job locations")
	}

	err = r.each(ctx, attributeValuesForJobsSQL, ids, func(row pgx.Row) error {
		var (
			jobID      uuid.UUID
			value      domain.JobAttributeValue
			textValue  *string
			number     *float64
			boolean    *bool
			date       *time.Time
			selectable *string
		)
		if err := row.Scan(&jobID, &value.AttributeID, &value.Name, &value.Type,
			&textValue, &number, &boolean, &date, &selectable); err != nil {
			return err
		}
		value.Value = typedAttributeValue(value.Type, textValue, number, boolean, date, selectable)
		if i, ok := index[jobID]; ok {
			jobs[i].Attributes = append(jobs[i].Attributes, value)
		}
		return nil
	})
	if err != nil {
		return errors.Wrap(err, "load job attributes")
	}

	return nil
}

func (r *jobRepository) each(ctx context.Context, sql string, ids []uuid.UUID, fn func(pgx.Row) error) error {
	rows, err := r.db.Query(ctx, sql, ids)
	if err != nil {
		return err
	}
	defer rows.Close()

	for rows.Next() {
		if err := fn(rows); err != nil {
			return err
		}
	}
	return rows.Err()
}

func scanJob(row pgx.CollectableRow) (domain.Job, error) {
	var job domain.Job
	err := row.Scan(
		&job.ID,
		&job.Title,
		&job.Description,
		&job.CompanyName,
		&job.SalaryMin,
		&job.SalaryMax,
		&job.IsRemote,
		&job.JobType,
		&job.Status,
		&job.PublishedAt,
		&job.CreatedAt,
		&job.UpdatedAt,
	)
	return job, err
}

// typedAttributeValue picks the populated column matching the attribute's type.
func typedAttributeValue(t domain.AttributeType, text *string, number *float64, boolean *bool, date *time.Time, selectable *string) any {
	column, err := t.Column()
	if err != nil {
		return nil
	}
	switch domain.AttributeType(column) {
	case domain.AttributeTypeText:
		if text != nil {
			return *text
		}
	case domain.AttributeTypeNumber:
		if number != nil {
			return *number
		}
	case domain.AttributeTypeBoolean:
		if boolean != nil {
			return *boolean
		}
	case domain.AttributeTypeDate:
		if date != nil {
			return date.Format(time.DateOnly)
		}
	case domain.AttributeTypeSelect:
		if selectable != nil {
			return *selectable
		}
	}
	return nil
}
