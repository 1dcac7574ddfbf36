package pipeline

import (
	"sort"
	"time"

	"github.com/zipdash/appointment-analytics/internal/model"
)

// classificationRules is the ordered decision list for lifecycle status;
// the first matching rule wins. The thresholds are deliberately
// non-contiguous: <90 wins before <180 ever measures the 90-180 band,
// and the 180-360 window between the Inactive ceiling and the Lost floor
// falls through to Recurring. Keep the order; a range map would not
// reproduce these boundaries.
var classificationRules = []struct {
	applies func(days int) bool
	status  model.LifecycleStatus
}{
	{func(days int) bool { return days < 90 }, model.LifecyclePotential},
	{func(days int) bool { return days < 180 }, model.LifecycleInactive},
	{func(days int) bool { return days > 360 }, model.LifecycleLost},
}

// Classify maps the recency of a user's last appointment to a lifecycle
// status. It is a pure function of (lastAppointment, now): a nil last
// appointment classifies as No Appointments, otherwise the whole-day
// distance to now runs through the ordered rule list.
func Classify(lastAppointment *time.Time, now time.Time) (model.LifecycleStatus, *int) {
	if lastAppointment == nil {
		return model.LifecycleNoAppointments, nil
	}

	days := wholeDays(now.Sub(*lastAppointment))
	for _, rule := range classificationRules {
		if rule.applies(days) {
			return rule.status, &days
		}
	}
	return model.LifecycleRecurring, &days
}

// BuildLifecycles produces one lifecycle row per distinct user present in
// the enriched appointment set, classified against the evaluation
// instant. Users whose appointments all lack timestamps classify as
// No Appointments. Output is sorted by user id for reproducible tables.
func BuildLifecycles(enriched []model.EnrichedAppointment, now time.Time) []model.UserLifecycle {
	lastByUser := make(map[string]*time.Time)
	for _, row := range enriched {
		last, seen := lastByUser[row.UserID]
		if !seen {
			lastByUser[row.UserID] = nil
			last = nil
		}
		if row.Scheduled == nil {
			continue
		}
		if last == nil || row.Scheduled.After(*last) {
			ts := *row.Scheduled
			lastByUser[row.UserID] = &ts
		}
	}

	out := make([]model.UserLifecycle, 0, len(lastByUser))
	for userID, last := range lastByUser {
		status, days := Classify(last, now)
		out = append(out, model.UserLifecycle{
			UserID:          userID,
			LastAppointment: last,
			DaysSinceLast:   days,
			Status:          status,
		})
	}

	sort.Slice(out, func(a, b int) bool { return out[a].UserID < out[b].UserID })
	return out
}
