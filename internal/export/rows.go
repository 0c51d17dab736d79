package export

import (
	"encoding/csv"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/xuri/excelize/v2"

	"github.com/rpattn/jobql/internal/domain"
)

const sheetName = "Sheet1"

var columns = []string{
	"id",
	"title",
	"company_name",
	"job_type",
	"status",
	"salary_min",
	"salary_max",
	"is_remote",
	"published_at",
	"languages",
	"locations",
	"categories",
	"attributes",
}

type rowWriter interface {
	WriteRow(values []any) error
	Close() error
}

func headerRow() []any {
	row := make([]any, len(columns))
	for i, c := range columns {
		row[i] = c
	}
	return row
}

func jobRow(job domain.Job) []any {
	languages := make([]string, len(job.Languages))
	for i, l := range job.Languages {
		languages[i] = l.Name
	}
	locations := make([]string, len(job.Locations))
	for i, l := range job.Locations {
		locations[i] = l.City
	}
	categories := make([]string, len(job.Categories))
	for i, c := range job.Categories {
		categories[i] = c.Name
	}
	attributes := make([]string, len(job.Attributes))
	for i, a := range job.Attributes {
		attributes[i] = a.Name + "=" + formatValue(a.Value)
	}

	return []any{
		job.ID.String(),
		job.Title,
		job.CompanyName,
		string(job.JobType),
		string(job.Status),
		job.SalaryMin,
		job.SalaryMax,
		job.IsRemote,
		formatValue(job.PublishedAt),
		strings.Join(languages, ", "),
		strings.Join(locations, ", "),
		strings.Join(categories, ", "),
		strings.Join(attributes, "; "),
	}
}

type csvRowWriter struct {
	writer *csv.Writer
	record []string
}

func newCSVRowWriter(w io.Writer) *csvRowWriter {
	return &csvRowWriter{writer: csv.NewWriter(w)}
}

func (c *csvRowWriter) WriteRow(values []any) error {
	c.record = c.record[:0]
	for _, v := range values {
		c.record = append(c.record, formatValue(v))
	}
	return c.writer.Write(c.record)
}

func (c *csvRowWriter) Close() error {
	c.writer.Flush()
	return c.writer.Error()
}

// xlsxRowWriter streams rows into a single sheet; the workbook is written to the
// underlying writer on Close.
type xlsxRowWriter struct {
	out    io.Writer
	file   *excelize.File
	stream *excelize.StreamWriter
	row    int
}

func newXLSXRowWriter(w io.Writer) (*xlsxRowWriter, error) {
	file := excelize.NewFile()
	stream, err := file.NewStreamWriter(sheetName)
	if err != nil {
		_ = file.Close()
		return nil, errors.Wrap(err, "create xlsx stream")
	}
	return &xlsxRowWriter{out: w, file: file, stream: stream}, nil
}

func (x *xlsxRowWriter) WriteRow(values []any) error {
	x.row++
	cell, err := excelize.CoordinatesToCellName(1, x.row)
	if err != nil {
		return err
	}
	return x.stream.SetRow(cell, values)
}

func (x *xlsxRowWriter) Close() error {
	defer x.file.Close()
	if err := x.stream.Flush(); err != nil {
		return errors.Wrap(err, "flush xlsx stream")
	}
	if err := x.file.Write(x.out); err != nil {
		return errors.Wrap(err, "write xlsx workbook")
	}
	return nil
}

func formatValue(value any) string {
	if value == nil {
		return ""
	}
	switch v := value.(type) {
	case string:
		return v
	case time.Time:
		return v.UTC().Format(time.RFC3339)
	case *time.Time:
		if v == nil {
			return ""
		}
		return v.UTC().Format(time.RFC3339)
	case fmt.Stringer:
		return v.String()
	case bool:
		if v {
			return "true"
		}
		return "false"
	case float64:
		return strings.TrimSuffix(strings.TrimRight(fmt.Sprintf("%.2f", v), "0"), ".")
	default:
		return fmt.Sprintf("%v", v)
	}
}
