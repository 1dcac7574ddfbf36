package pipeline

import (
	"sort"
	"time"

	"github.com/zipdash/appointment-analytics/internal/model"
)

const day = 24 * time.Hour

// wholeDays floors a duration to whole days so that, like the source
// system's date arithmetic, anything short of a full day before the
// reference counts as a negative day.
func wholeDays(d time.Duration) int {
	days := d / day
	if d%day < 0 {
		days--
	}
	return int(days)
}

// DeriveTemporalFeatures fills the derived columns of the enriched set in
// place: days-to-appointment with its validity mask, the per-user 1-based
// sequence index, and the whole-day gap to the previous appointment.
//
// Partitions sort by scheduled time ascending with a stable tie-break on
// input order; rows without a scheduled time order after dated ones so
// every row still receives a contiguous index. Gaps are nil at index 1
// and whenever either endpoint has no timestamp.
func DeriveTemporalFeatures(enriched []model.EnrichedAppointment) {
	for i := range enriched {
		row := &enriched[i]
		row.DaysToAppointmentValid = false
		if row.Scheduled == nil || row.Registered == nil {
			continue
		}
		days := wholeDays(row.Scheduled.Sub(*row.Registered))
		if days < 0 {
			// scheduled before registration: a data-quality signal,
			// masked out of the feature's consumers
			continue
		}
		row.DaysToAppointment = days
		row.DaysToAppointmentValid = true
	}

	byUser := make(map[string][]int)
	for i, row := range enriched {
		byUser[row.UserID] = append(byUser[row.UserID], i)
	}

	for _, indices := range byUser {
		sort.SliceStable(indices, func(a, b int) bool {
			left, right := enriched[indices[a]].Scheduled, enriched[indices[b]].Scheduled
			switch {
			case left == nil:
				return false
			case right == nil:
				return true
			default:
				return left.Before(*right)
			}
		})

		for seq, idx := range indices {
			row := &enriched[idx]
			row.AppointmentIndex = seq + 1
			row.DaysBetween = nil
			if seq == 0 {
				continue
			}
			prev := enriched[indices[seq-1]]
			if row.Scheduled == nil || prev.Scheduled == nil {
				continue
			}
			gap := wholeDays(row.Scheduled.Sub(*prev.Scheduled))
			row.DaysBetween = &gap
		}
	}
}
