package sqlsource

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/zipdash/appointment-analytics/internal/loader"
)

// Source table names as created by the booking system.
const (
	AppointmentTable   = "zip_appointment"
	UserTable          = "zip_user"
	AddressTable       = "zip_address"
	MappedAddressTable = "zip_address_mapped"
)

// Tables reads the source tables into raw row sets. All values come back
// as strings; parsing is the normalizer's job, so a malformed cell in the
// database degrades exactly like a malformed CSV cell.
type Tables struct {
	db *sql.DB
}

// NewTables creates a Tables reader over the given connection.
func NewTables(db *sql.DB) *Tables {
	return &Tables{db: db}
}

// Appointments reads the full zip_appointment table.
func (t *Tables) Appointments(ctx context.Context) (loader.RowSet, error) {
	return t.readTable(ctx, AppointmentTable,
		loader.ColAppointmentID, loader.ColUserID, loader.ColProviderID,
		loader.ColCreatedDate, loader.ColStatus, loader.ColComplaint, loader.ColTotalFinal,
	)
}

// Users reads the full zip_user table.
func (t *Tables) Users(ctx context.Context) (loader.RowSet, error) {
	return t.readTable(ctx, UserTable,
		loader.ColUserID, loader.ColCreatedDate, loader.ColEmail,
	)
}

// Addresses reads the full zip_address table.
func (t *Tables) Addresses(ctx context.Context) (loader.RowSet, error) {
	return t.readTable(ctx, AddressTable,
		loader.ColUserID, loader.ColState, loader.ColZip,
	)
}

// MappedAddresses reads the zip_address_mapped table carrying zip
// centroid coordinates.
func (t *Tables) MappedAddresses(ctx context.Context) (loader.RowSet, error) {
	return t.readTable(ctx, MappedAddressTable,
		loader.ColUserID, loader.ColState, loader.ColZip,
		loader.ColLatitude, loader.ColLongitude,
	)
}

func (t *Tables) readTable(ctx context.Context, table string, columns ...string) (loader.RowSet, error) {
	query := fmt.Sprintf("SELECT %s FROM %s", strings.Join(columns, ", "), table)

	stmt, err := t.db.PrepareContext(ctx, query)
	if err != nil {
		return loader.RowSet{}, fmt.Errorf("failed to prepare select statement: %w", err)
	}
	defer stmt.Close()

	rows, err := stmt.QueryContext(ctx)
	if err != nil {
		return loader.RowSet{}, fmt.Errorf("failed to query %s: %w", table, err)
	}
	defer rows.Close()

	var out []map[string]string
	for rows.Next() {
		values := make([]sql.NullString, len(columns))
		dest := make([]interface{}, len(columns))
		for i := range values {
			dest[i] = &values[i]
		}
		if err := rows.Scan(dest...); err != nil {
			return loader.RowSet{}, fmt.Errorf("failed to scan %s row: %w", table, err)
		}

		row := make(map[string]string, len(columns))
		for i, col := range columns {
			if values[i].Valid {
				row[col] = values[i].String
			}
		}
		out = append(out, row)
	}

	if err = rows.Err(); err != nil {
		return loader.RowSet{}, fmt.Errorf("error iterating rows: %w", err)
	}

	return loader.RowSet{Columns: columns, Rows: out}, nil
}
