package loader

import (
	"errors"
	"fmt"
)

// Source column names shared by the CSV and SQL collaborators.
const (
	ColAppointmentID = "appointment_id"
	ColUserID        = "user_id"
	ColProviderID    = "g_id"
	ColCreatedDate   = "cdate"
	ColStatus        = "status"
	ColComplaint     = "if_complain"
	ColTotalFinal    = "total_final"
	ColEmail         = "email"
	ColState         = "state"
	ColZip           = "zip"
	ColLatitude      = "latitude"
	ColLongitude     = "longitude"
)

// DefaultTimeLayout parses the source's day-first timestamps,
// e.g. "25-03-2024 14:30".
const DefaultTimeLayout = "02-01-2006 15:04"

// ErrMissingColumn is wrapped by SchemaError for errors.Is checks.
var ErrMissingColumn = errors.New("required column missing")

// RowSet is a row-oriented table as produced by the source collaborators:
// an ordered header plus stringly-typed rows. Values may be absent or
// malformed; the normalizer owns coercion.
type RowSet struct {
	Columns []string
	Rows    []map[string]string
}

// HasColumn reports whether the row set declares the named column.
func (rs RowSet) HasColumn(name string) bool {
	for _, col := range rs.Columns {
		if col == name {
			return true
		}
	}
	return false
}

// SchemaError is the fatal load-time error: a required column is absent,
// so the run must abort rather than silently produce an empty table.
type SchemaError struct {
	Table  string
	Column string
}

func (e *SchemaError) Error() string {
	return fmt.Sprintf("table %s: %v: %s", e.Table, ErrMissingColumn, e.Column)
}

func (e *SchemaError) Unwrap() error { return ErrMissingColumn }

// ValidateSchema checks that every required column is present, returning
// a SchemaError naming the first missing one.
func ValidateSchema(rs RowSet, table string, required ...string) error {
	for _, col := range required {
		if !rs.HasColumn(col) {
			return &SchemaError{Table: table, Column: col}
		}
	}
	return nil
}
