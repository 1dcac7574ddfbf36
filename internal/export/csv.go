package export

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/zipdash/appointment-analytics/internal/aggregate"
)

// Table is a named summary ready for CSV rendering.
type Table struct {
	Name   string
	Header []string
	Rows   [][]string
}

// WriteCSV renders the table to the writer, header first.
func WriteCSV(w io.Writer, t Table) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(t.Header); err != nil {
		return fmt.Errorf("failed to write header of %s: %w", t.Name, err)
	}
	for _, row := range t.Rows {
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("failed to write row of %s: %w", t.Name, err)
		}
	}
	cw.Flush()
	if err := cw.Error(); err != nil {
		return fmt.Errorf("failed to flush %s: %w", t.Name, err)
	}
	return nil
}

// WriteFile renders the table to <dir>/<name>.csv, creating dir if
// needed.
func WriteFile(dir string, t Table) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("failed to create output dir: %w", err)
	}
	f, err := os.Create(filepath.Join(dir, t.Name+".csv"))
	if err != nil {
		return fmt.Errorf("failed to create %s.csv: %w", t.Name, err)
	}
	defer f.Close()

	if err := WriteCSV(f, t); err != nil {
		return err
	}
	return f.Close()
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// StatusTable renders the appointment-by-status summary.
func StatusTable(rows []aggregate.StatusCount) Table {
	t := Table{Name: "appointments_by_status", Header: []string{"status", "status_name", "count"}}
	for _, row := range rows {
		t.Rows = append(t.Rows, []string{string(row.Status), row.StatusName, strconv.Itoa(row.Count)})
	}
	return t
}

// StateTable renders the per-state summary.
func StateTable(rows []aggregate.StateSummary) Table {
	t := Table{Name: "state_summary", Header: []string{"state", "users", "appointments", "revenue", "complaints"}}
	for _, row := range rows {
		t.Rows = append(t.Rows, []string{
			row.State,
			strconv.Itoa(row.Users),
			strconv.Itoa(row.Appointments),
			formatFloat(row.Revenue),
			strconv.Itoa(row.Complaints),
		})
	}
	return t
}

// ProviderTable renders the per-provider-and-state summary.
func ProviderTable(rows []aggregate.ProviderSummary) Table {
	t := Table{Name: "provider_summary", Header: []string{"g_id", "state", "appointments", "revenue", "complaints"}}
	for _, row := range rows {
		t.Rows = append(t.Rows, []string{
			row.ProviderID,
			row.State,
			strconv.Itoa(row.Appointments),
			formatFloat(row.Revenue),
			strconv.Itoa(row.Complaints),
		})
	}
	return t
}

// SequenceTable renders the consecutive-gap trend.
func SequenceTable(rows []aggregate.SequenceGap) Table {
	t := Table{Name: "sequence_gaps", Header: []string{"appointment_index", "appointments", "avg_gap_days", "gap_count"}}
	for _, row := range rows {
		t.Rows = append(t.Rows, []string{
			strconv.Itoa(row.Index),
			strconv.Itoa(row.Appointments),
			formatFloat(row.AvgGapDays),
			strconv.Itoa(row.GapCount),
		})
	}
	return t
}

// LifecycleTable renders the user-by-lifecycle-status summary.
func LifecycleTable(rows []aggregate.LifecycleCount) Table {
	t := Table{Name: "users_by_lifecycle", Header: []string{"status", "users"}}
	for _, row := range rows {
		t.Rows = append(t.Rows, []string{string(row.Status), strconv.Itoa(row.Users)})
	}
	return t
}

// VolumeTable renders the appointment volume series.
func VolumeTable(rows []aggregate.DayCount) Table {
	t := Table{Name: "appointments_by_day", Header: []string{"day", "count"}}
	for _, row := range rows {
		t.Rows = append(t.Rows, []string{row.Day.Format("2006-01-02"), strconv.Itoa(row.Count)})
	}
	return t
}

// MonthAvgTable renders the days-to-appointment series.
func MonthAvgTable(rows []aggregate.MonthAvg) Table {
	t := Table{Name: "avg_days_to_appointment_by_month", Header: []string{"month", "avg_days", "count"}}
	for _, row := range rows {
		t.Rows = append(t.Rows, []string{row.Month.Format("2006-01"), formatFloat(row.AvgDays), strconv.Itoa(row.Count)})
	}
	return t
}

// HeatmapTable renders the zip-by-provider heatmap.
func HeatmapTable(rows []aggregate.ZipProviderCount) Table {
	t := Table{Name: "heatmap_by_zip", Header: []string{"zip", "g_id", "count"}}
	for _, row := range rows {
		t.Rows = append(t.Rows, []string{row.Zip, row.ProviderID, strconv.Itoa(row.Count)})
	}
	return t
}

// CentroidTable renders the zip centroid coordinates.
func CentroidTable(rows []aggregate.ZipCentroid) Table {
	t := Table{Name: "zip_centroids", Header: []string{"zip", "state", "latitude", "longitude"}}
	for _, row := range rows {
		t.Rows = append(t.Rows, []string{row.Zip, row.State, formatFloat(row.Latitude), formatFloat(row.Longitude)})
	}
	return t
}

// KPITable renders the overview numbers as a single-row table.
func KPITable(kpi aggregate.KPISummary) Table {
	return Table{
		Name:   "kpi_summary",
		Header: []string{"appointments", "users", "revenue", "avg_days_to_appointment"},
		Rows: [][]string{{
			strconv.Itoa(kpi.Appointments),
			strconv.Itoa(kpi.Users),
			formatFloat(kpi.Revenue),
			formatFloat(kpi.AvgDaysToAppt),
		}},
	}
}

// UserDetailTable renders the per-user detail export. List-valued
// columns join with ", " the way the downloadable report always has.
func UserDetailTable(details []UserDetail) Table {
	t := Table{
		Name: "detailed_user_data",
		Header: []string{
			"user_id", "g_ids", "unique_g_ids", "total_appointments",
			"appointment_dates", "appointment_statuses",
			"count_P", "count_C", "count_L", "count_all_statuses",
			"lifecycle_status", "state", "total_final_sum",
		},
	}
	for _, d := range details {
		statuses := make([]string, len(d.Statuses))
		for i, s := range d.Statuses {
			statuses[i] = string(s)
		}
		t.Rows = append(t.Rows, []string{
			d.UserID,
			strings.Join(d.Providers, ", "),
			strconv.Itoa(d.DistinctProviders),
			strconv.Itoa(d.Appointments),
			strings.Join(d.Dates, ", "),
			strings.Join(statuses, ", "),
			strconv.Itoa(d.CountPaid),
			strconv.Itoa(d.CountCancelled),
			strconv.Itoa(d.CountRescheduled),
			strconv.Itoa(d.DistinctStatuses),
			string(d.Lifecycle),
			d.State,
			formatFloat(d.Revenue),
		})
	}
	return t
}
