package aggregate

import (
	"sort"

	"github.com/zipdash/appointment-analytics/internal/model"
)

// StatusCount is one row of the appointment-by-status summary.
type StatusCount struct {
	Status     model.StatusCode
	StatusName string
	Count      int
}

// ByStatus counts appointments per status code, most frequent first,
// ties broken by code for stable tables.
func ByStatus(rows []model.EnrichedAppointment, f *Filter) []StatusCount {
	counts := make(map[model.StatusCode]int)
	for _, row := range filtered(rows, f) {
		counts[row.Status]++
	}

	out := make([]StatusCount, 0, len(counts))
	for status, count := range counts {
		out = append(out, StatusCount{Status: status, StatusName: status.DisplayName(), Count: count})
	}
	sort.Slice(out, func(a, b int) bool {
		if out[a].Count != out[b].Count {
			return out[a].Count > out[b].Count
		}
		return out[a].Status < out[b].Status
	})
	return out
}

// StateSummary is one row of the per-state summary.
type StateSummary struct {
	State        string
	Users        int
	Appointments int
	Revenue      float64
	Complaints   int
}

// ByState groups appointments per state: distinct users, appointment
// count, revenue sum, complaint count.
func ByState(rows []model.EnrichedAppointment, f *Filter) []StateSummary {
	type acc struct {
		users        map[string]struct{}
		appointments int
		revenue      float64
		complaints   int
	}
	byState := make(map[string]*acc)
	for _, row := range filtered(rows, f) {
		a, ok := byState[row.State]
		if !ok {
			a = &acc{users: make(map[string]struct{})}
			byState[row.State] = a
		}
		a.users[row.UserID] = struct{}{}
		a.appointments++
		a.revenue += row.TotalFinal
		if row.Complaint {
			a.complaints++
		}
	}

	out := make([]StateSummary, 0, len(byState))
	for state, a := range byState {
		out = append(out, StateSummary{
			State:        state,
			Users:        len(a.users),
			Appointments: a.appointments,
			Revenue:      a.revenue,
			Complaints:   a.complaints,
		})
	}
	sort.Slice(out, func(a, b int) bool { return out[a].State < out[b].State })
	return out
}

// ProviderSummary is one row of the per-provider-and-state summary.
type ProviderSummary struct {
	ProviderID   string
	State        string
	Appointments int
	Revenue      float64
	Complaints   int
}

// ByProvider groups appointments per provider and state.
func ByProvider(rows []model.EnrichedAppointment, f *Filter) []ProviderSummary {
	type key struct{ provider, state string }
	type acc struct {
		appointments int
		revenue      float64
		complaints   int
	}
	byKey := make(map[key]*acc)
	for _, row := range filtered(rows, f) {
		k := key{provider: row.ProviderID, state: row.State}
		a, ok := byKey[k]
		if !ok {
			a = &acc{}
			byKey[k] = a
		}
		a.appointments++
		a.revenue += row.TotalFinal
		if row.Complaint {
			a.complaints++
		}
	}

	out := make([]ProviderSummary, 0, len(byKey))
	for k, a := range byKey {
		out = append(out, ProviderSummary{
			ProviderID:   k.provider,
			State:        k.state,
			Appointments: a.appointments,
			Revenue:      a.revenue,
			Complaints:   a.complaints,
		})
	}
	sort.Slice(out, func(a, b int) bool {
		if out[a].ProviderID != out[b].ProviderID {
			return out[a].ProviderID < out[b].ProviderID
		}
		return out[a].State < out[b].State
	})
	return out
}

// SequenceGap is one row of the consecutive-gap trend: how the gap
// between the Nth and (N+1)th appointment moves as users return.
type SequenceGap struct {
	Index        int
	Appointments int
	AvgGapDays   float64
	// GapCount is the number of rows the mean is over; index 1 always
	// has zero since first appointments carry no gap.
	GapCount int
}

// BySequenceIndex groups appointments by sequence index with the mean
// consecutive gap per index.
func BySequenceIndex(rows []model.EnrichedAppointment, f *Filter) []SequenceGap {
	type acc struct {
		appointments int
		gapSum       int
		gapCount     int
	}
	byIndex := make(map[int]*acc)
	for _, row := range filtered(rows, f) {
		a, ok := byIndex[row.AppointmentIndex]
		if !ok {
			a = &acc{}
			byIndex[row.AppointmentIndex] = a
		}
		a.appointments++
		if row.DaysBetween != nil {
			a.gapSum += *row.DaysBetween
			a.gapCount++
		}
	}

	out := make([]SequenceGap, 0, len(byIndex))
	for index, a := range byIndex {
		row := SequenceGap{Index: index, Appointments: a.appointments, GapCount: a.gapCount}
		if a.gapCount > 0 {
			row.AvgGapDays = float64(a.gapSum) / float64(a.gapCount)
		}
		out = append(out, row)
	}
	sort.Slice(out, func(a, b int) bool { return out[a].Index < out[b].Index })
	return out
}

// LifecycleCount is one row of the user-by-lifecycle-status summary.
type LifecycleCount struct {
	Status model.LifecycleStatus
	Users  int
}

// ByLifecycle counts users per lifecycle status. A state restriction on
// the filter limits the count to users with at least one appointment in
// that state; a lifecycle restriction limits it to that label.
func ByLifecycle(lifecycles []model.UserLifecycle, rows []model.EnrichedAppointment, f *Filter) []LifecycleCount {
	var usersInState map[string]struct{}
	if f != nil && f.state != "" {
		usersInState = make(map[string]struct{})
		for _, row := range rows {
			if row.State == f.state {
				usersInState[row.UserID] = struct{}{}
			}
		}
	}

	counts := make(map[model.LifecycleStatus]int)
	for _, lc := range lifecycles {
		if usersInState != nil {
			if _, ok := usersInState[lc.UserID]; !ok {
				continue
			}
		}
		if !f.matchesLifecycle(lc.Status) {
			continue
		}
		counts[lc.Status]++
	}

	out := make([]LifecycleCount, 0, len(counts))
	for status, users := range counts {
		out = append(out, LifecycleCount{Status: status, Users: users})
	}
	sort.Slice(out, func(a, b int) bool {
		if out[a].Users != out[b].Users {
			return out[a].Users > out[b].Users
		}
		return out[a].Status < out[b].Status
	})
	return out
}

// KPISummary is the headline card set of the reporting overview.
type KPISummary struct {
	Appointments  int
	Users         int
	Revenue       float64
	AvgDaysToAppt float64
}

// KPIs computes the overview numbers: distinct appointments, distinct
// users, revenue total, and the mean days-to-appointment over valid
// observations.
func KPIs(rows []model.EnrichedAppointment, f *Filter) KPISummary {
	appointments := make(map[string]struct{})
	users := make(map[string]struct{})
	var revenue float64
	var daysSum, daysCount int

	for _, row := range filtered(rows, f) {
		appointments[row.ID] = struct{}{}
		users[row.UserID] = struct{}{}
		revenue += row.TotalFinal
		if row.DaysToAppointmentValid {
			daysSum += row.DaysToAppointment
			daysCount++
		}
	}

	kpi := KPISummary{
		Appointments: len(appointments),
		Users:        len(users),
		Revenue:      revenue,
	}
	if daysCount > 0 {
		kpi.AvgDaysToAppt = float64(daysSum) / float64(daysCount)
	}
	return kpi
}
