package export

import (
	"bytes"
	"context"
	"encoding/csv"
	"testing"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/rpattn/jobql/internal/domain"
)

type pageCall struct {
	filter        string
	limit, offset int
}

type fakeSource struct {
	jobs  []domain.Job
	err   error
	calls []pageCall
}

func (f *fakeSource) Page(_ context.Context, filter string, limit, offset int) ([]domain.Job, error) {
	f.calls = append(f.calls, pageCall{filter, limit, offset})
	if f.err != nil {
		return nil, f.err
	}
	if offset >= len(f.jobs) {
		return nil, nil
	}
	end := offset + limit
	if end > len(f.jobs) {
		end = len(f.jobs)
	}
	return f.jobs[offset:end], nil
}

func sampleJobs(n int) []domain.Job {
	published := time.Date(2026, 1, 2, 15, 4, 5, 0, time.UTC)
	jobs := make([]domain.Job, n)
	for i := range jobs {
		job := domain.NewJob("Go Developer", "Acme", domain.JobTypeFullTime)
		job.SalaryMin = 50000
		job.SalaryMax = 72500.5
		job.IsRemote = i%2 == 0
		job.PublishedAt = &published
		job.Languages = []domain.Language{{ID: uuid.New(), Name: "Go"}, {ID: uuid.New(), Name: "PHP"}}
		job.Locations = []domain.Location{{ID: uuid.New(), City: "Dubai", Country: "United Arab Emirates"}}
		job.Categories = []domain.Category{{ID: uuid.New(), Name: "Web App Development"}}
		job.Attributes = []domain.JobAttributeValue{{Name: "years_experience", Type: domain.AttributeTypeNumber, Value: 3.0}}
		jobs[i] = job
	}
	return jobs
}

func TestParseFormat(t *testing.T) {
	f, err := ParseFormat("")
	require.NoError(t, err)
	assert.Equal(t, FormatCSV, f)

	f, err = ParseFormat(" XLSX ")
	require.NoError(t, err)
	assert.Equal(t, FormatXLSX, f)

	_, err = ParseFormat("pdf")
	assert.True(t, errors.Is(err, ErrUnsupportedFormat))
}

func TestWriteCSVPagesThroughSource(t *testing.T) {
	source := &fakeSource{jobs: sampleJobs(5)}
	service := NewService(source, WithPageSize(2))

	var buf bytes.Buffer
	result, err := service.Write(context.Background(), &buf, FormatCSV, "job_type=full-time")
	require.NoError(t, err)
	assert.Equal(t, 5, result.Rows)
	assert.Equal(t, int64(buf.Len()), result.Bytes)

	assert.Equal(t, []pageCall{
		{"job_type=full-time", 2, 0},
		{"job_type=full-time", 2, 2},
		{"job_type=full-time", 2, 4},
	}, source.calls)

	records, err := csv.NewReader(&buf).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 6)
	assert.Equal(t, columns, records[0])

	first := records[1]
	assert.Equal(t, "Go Developer", first[1])
	assert.Equal(t, "full-time", first[3])
	assert.Equal(t, "50000", first[5])
	assert.Equal(t, "72500.5", first[6])
	assert.Equal(t, "true", first[7])
	assert.Equal(t, "2026-01-02T15:04:05Z", first[8])
	assert.Equal(t, "Go, PHP", first[9])
	assert.Equal(t, "Dubai", first[10])
	assert.Equal(t, "years_experience=3", first[12])
}

func TestWriteRespectsMaxRows(t *testing.T) {
	source := &fakeSource{jobs: sampleJobs(10)}
	service := NewService(source, WithPageSize(4), WithMaxRows(3))

	var buf bytes.Buffer
	result, err := service.Write(context.Background(), &buf, FormatCSV, "")
	require.NoError(t, err)
	assert.Equal(t, 3, result.Rows)
	assert.Len(t, source.calls, 1)
	assert.Equal(t, 3, source.calls[0].limit)
}

func TestWriteFailsBeforeOutputOnSourceError(t *testing.T) {
	source := &fakeSource{err: errors.New("unbalanced")}
	var buf bytes.Buffer

	_, err := NewService(source).Write(context.Background(), &buf, FormatCSV, "(a=1")
	require.Error(t, err)
	assert.Zero(t, buf.Len())
}

func TestWriteXLSX(t *testing.T) {
	source := &fakeSource{jobs: sampleJobs(3)}

	var buf bytes.Buffer
	result, err := NewService(source).Write(context.Background(), &buf, FormatXLSX, "")
	require.NoError(t, err)
	assert.Equal(t, 3, result.Rows)

	book, err := excelize.OpenReader(&buf)
	require.NoError(t, err)
	defer book.Close()

	rows, err := book.GetRows(sheetName)
	require.NoError(t, err)
	require.Len(t, rows, 4)
	assert.Equal(t, columns, rows[0])
	assert.Equal(t, "Go Developer", rows[1][1])
	assert.Equal(t, "Go, PHP", rows[1][9])
}

func TestFileName(t *testing.T) {
	clock := func() time.Time { return time.Date(2026, 1, 2, 15, 4, 5, 0, time.UTC) }
	service := NewService(&fakeSource{}, withClock(clock))

	assert.Equal(t, "jobs-20260102T150405Z.csv", service.FileName("", FormatCSV))
	assert.Equal(t, "jobs-job_type-full-time-20260102T150405Z.xlsx", service.FileName("job_type=full-time", FormatXLSX))
	assert.Equal(t, "jobs-languages-has_any-php-javascript-20260102T150405Z.csv",
		service.FileName("languages HAS_ANY (PHP,JavaScript)", FormatCSV))
}

func TestFormatValue(t *testing.T) {
	var nilTime *time.Time
	assert.Equal(t, "", formatValue(nil))
	assert.Equal(t, "", formatValue(nilTime))
	assert.Equal(t, "false", formatValue(false))
	assert.Equal(t, "0", formatValue(0.0))
	assert.Equal(t, "12.25", formatValue(12.25))
	assert.Equal(t, "7", formatValue(7))
}
