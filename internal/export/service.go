package export

import (
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/cockroachdb/errors"
	"go.uber.org/zap"

	"github.com/rpattn/jobql/internal/domain"
)

// ErrUnsupportedFormat is returned for export formats other than csv and xlsx.
var ErrUnsupportedFormat = errors.New("unsupported export format")

// Format is an export file format.
type Format string

const (
	FormatCSV  Format = "csv"
	FormatXLSX Format = "xlsx"
)

// ParseFormat accepts "csv" or "xlsx"; empty means csv.
func ParseFormat(s string) (Format, error) {
	switch Format(strings.ToLower(strings.TrimSpace(s))) {
	case "", FormatCSV:
		return FormatCSV, nil
	case FormatXLSX:
		return FormatXLSX, nil
	}
	return "", errors.Wrapf(ErrUnsupportedFormat, "format %q", s)
}

// ContentType is the MIME type served for the format.
func (f Format) ContentType() string {
	if f == FormatXLSX {
		return "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	}
	return "text/csv; charset=utf-8"
}

// JobSource pages through the jobs matching a filter, relations loaded.
type JobSource interface {
	Page(ctx context.Context, filter string, limit, offset int) ([]domain.Job, error)
}

// Result summarises a finished export.
type Result struct {
	Rows  int
	Bytes int64
}

type Service struct {
	source   JobSource
	pageSize int
	maxRows  int
	now      func() time.Time
	logger   *zap.Logger
}

type Option func(*Service)

func WithPageSize(size int) Option {
	return func(s *Service) {
		if size > 0 {
			s.pageSize = size
		}
	}
}

// WithMaxRows caps the number of exported rows. Zero or less leaves the default.
func WithMaxRows(rows int) Option {
	return func(s *Service) {
		if rows > 0 {
			s.maxRows = rows
		}
	}
}

func WithLogger(logger *zap.Logger) Option {
	return func(s *Service) {
		if logger != nil {
			s.logger = logger
		}
	}
}

func withClock(now func() time.Time) Option {
	return func(s *Service) {
		s.now = now
	}
}

func NewService(source JobSource, opts ...Option) *Service {
	service := &Service{
		source:   source,
		pageSize: 500,
		maxRows:  100000,
		now:      time.Now,
		logger:   zap.NewNop(),
	}
	for _, opt := range opts {
		opt(service)
	}
	return service
}

// FileName builds a download name such as jobs-job-type-full-time-20260102T150405Z.csv.
func (s *Service) FileName(filter string, format Format) string {
	name := "jobs"
	if part := sanitizeFileComponent(filter); part != "" {
		if len(part) > 48 {
			part = strings.Trim(part[:48], "-")
		}
		name += "-" + part
	}
	return fmt.Sprintf("%s-%s.%s", name, s.now().UTC().Format("20060102T150405Z"), format)
}

// Write streams every job matching filter to w. The first page is fetched before
// anything is written, so filter errors surface before output starts.
func (s *Service) Write(ctx context.Context, w io.Writer, format Format, filter string) (Result, error) {
	limit := s.pageSize
	if s.maxRows < limit {
		limit = s.maxRows
	}
	jobs, err := s.source.Page(ctx, filter, limit, 0)
	if err != nil {
		return Result{}, err
	}

	counter := &countingWriter{writer: w}
	var rows rowWriter
	switch format {
	case FormatCSV:
		rows = newCSVRowWriter(counter)
	case FormatXLSX:
		rows, err = newXLSXRowWriter(counter)
		if err != nil {
			return Result{}, err
		}
	default:
		return Result{}, errors.Wrapf(ErrUnsupportedFormat, "format %q", string(format))
	}

	if err := rows.WriteRow(headerRow()); err != nil {
		return Result{}, errors.Wrap(err, "write header")
	}

	exported := 0
	offset := 0
	for {
		for _, job := range jobs {
			if exported >= s.maxRows {
				break
			}
			if err := rows.WriteRow(jobRow(job)); err != nil {
				return Result{Rows: exported, Bytes: counter.count}, errors.Wrap(err, "write job row")
			}
			exported++
		}
		if exported >= s.maxRows || len(jobs) < limit {
			break
		}
		if err := ctx.Err(); err != nil {
			return Result{Rows: exported, Bytes: counter.count}, err
		}
		offset += len(jobs)
		jobs, err = s.source.Page(ctx, filter, limit, offset)
		if err != nil {
			return Result{Rows: exported, Bytes: counter.count}, errors.Wrap(err, "list jobs")
		}
		if len(jobs) == 0 {
			break
		}
	}

	if err := rows.Close(); err != nil {
		return Result{Rows: exported, Bytes: counter.count}, errors.Wrap(err, "finish export")
	}
	s.logger.Info("export completed",
		zap.String("format", string(format)),
		zap.String("filter", filter),
		zap.Int("rows", exported),
		zap.Int64("bytes", counter.count),
	)
	return Result{Rows: exported, Bytes: counter.count}, nil
}

func sanitizeFileComponent(value string) string {
	value = strings.ToLower(strings.TrimSpace(value))
	if value == "" {
		return ""
	}
	builder := strings.Builder{}
	lastDash := false
	for _, r := range value {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9', r == '_':
			builder.WriteRune(r)
			lastDash = false
		default:
			if !lastDash {
				builder.WriteRune('-')
				lastDash = true
			}
		}
	}
	return strings.Trim(builder.String(), "-")
}

type countingWriter struct {
	writer io.Writer
	count  int64
}

func (c *countingWriter) Write(p []byte) (int, error) {
	n, err := c.writer.Write(p)
	c.count += int64(n)
	return n, err
}
