package aggregate

import (
	"sort"
	"time"

	"github.com/zipdash/appointment-analytics/internal/model"
)

// DayCount is one point of the appointment volume series.
type DayCount struct {
	Day   time.Time
	Count int
}

// VolumeByDay counts appointments per calendar day of their scheduled
// time. Rows without a scheduled time do not appear.
func VolumeByDay(rows []model.EnrichedAppointment, f *Filter) []DayCount {
	counts := make(map[time.Time]int)
	for _, row := range filtered(rows, f) {
		if row.Scheduled == nil {
			continue
		}
		day := row.Scheduled.Truncate(24 * time.Hour)
		counts[day]++
	}

	out := make([]DayCount, 0, len(counts))
	for day, count := range counts {
		out = append(out, DayCount{Day: day, Count: count})
	}
	sort.Slice(out, func(a, b int) bool { return out[a].Day.Before(out[b].Day) })
	return out
}

// MonthAvg is one point of the average days-to-appointment series,
// keyed by registration month.
type MonthAvg struct {
	Month   time.Time
	AvgDays float64
	Count   int
}

// AvgDaysToAppointmentByMonth averages the days-to-appointment feature
// per registration month, valid observations only.
func AvgDaysToAppointmentByMonth(rows []model.EnrichedAppointment, f *Filter) []MonthAvg {
	type acc struct {
		sum   int
		count int
	}
	byMonth := make(map[time.Time]*acc)
	for _, row := range filtered(rows, f) {
		if !row.DaysToAppointmentValid || row.Registered == nil {
			continue
		}
		month := time.Date(row.Registered.Year(), row.Registered.Month(), 1, 0, 0, 0, 0, time.UTC)
		a, ok := byMonth[month]
		if !ok {
			a = &acc{}
			byMonth[month] = a
		}
		a.sum += row.DaysToAppointment
		a.count++
	}

	out := make([]MonthAvg, 0, len(byMonth))
	for month, a := range byMonth {
		out = append(out, MonthAvg{
			Month:   month,
			AvgDays: float64(a.sum) / float64(a.count),
			Count:   a.count,
		})
	}
	sort.Slice(out, func(a, b int) bool { return out[a].Month.Before(out[b].Month) })
	return out
}

// RegistrationQuarter restricts rows to users registered in the given
// quarter, mirroring the registration analysis drill-down. Quarters are
// 1 through 4.
func RegistrationQuarter(rows []model.EnrichedAppointment, year, quarter int) []model.EnrichedAppointment {
	out := make([]model.EnrichedAppointment, 0)
	for _, row := range rows {
		if row.Registered == nil {
			continue
		}
		if row.Registered.Year() != year {
			continue
		}
		if (int(row.Registered.Month())-1)/3+1 != quarter {
			continue
		}
		out = append(out, row)
	}
	return out
}
