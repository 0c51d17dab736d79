package repository

import (
	"github.com/cockroachdb/errors"
	"github.com/jackc/pgx/v5/pgconn"
)

// ErrInvalidFilter marks database errors caused by the filter itself, such as an
// unknown column or a value that does not parse as the column's type.
var ErrInvalidFilter = errors.New("filter rejected by database")

// Postgres error codes raised by malformed filter input.
var invalidFilterCodes = map[string]struct{}{
	"42703": {}, // undefined_column
	"42883": {}, // undefined_function
	"42804": {}, // datatype_mismatch
	"22P02": {}, // invalid_text_representation
	"22007": {}, // invalid_datetime_format
	"22008": {}, // datetime_field_overflow
	"22003": {}, // numeric_value_out_of_range
}

// classifyQueryError wraps err with ErrInvalidFilter when Postgres rejected the
// predicate rather than failing on its own.
func classifyQueryError(err error, msg string) error {
	if err == nil {
		return nil
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		if _, ok := invalidFilterCodes[pgErr.Code]; ok {
			return errors.Mark(errors.Wrapf(err, "%s: %s", msg, pgErr.Message), ErrInvalidFilter)
		}
	}
	return errors.Wrap(err, msg)
}
