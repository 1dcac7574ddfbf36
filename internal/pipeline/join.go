package pipeline

import (
	"github.com/zipdash/appointment-analytics/internal/metrics"
	"github.com/zipdash/appointment-analytics/internal/model"
)

// Join performs the left-outer join Appointment→Address→User by user
// identifier. The output always has exactly one row per input
// appointment: duplicate address rows are reduced to the first seen
// before joining, and misses receive neutral defaults instead of
// dropping the row.
func Join(appointments []model.Appointment, users []model.User, addresses []model.Address) []model.EnrichedAppointment {
	addressByUser := make(map[string]model.Address, len(addresses))
	for _, addr := range addresses {
		if _, ok := addressByUser[addr.UserID]; !ok {
			addressByUser[addr.UserID] = addr
		}
	}

	userByID := make(map[string]model.User, len(users))
	for _, u := range users {
		if _, ok := userByID[u.ID]; !ok {
			userByID[u.ID] = u
		}
	}

	enriched := make([]model.EnrichedAppointment, 0, len(appointments))
	for _, appt := range appointments {
		row := model.EnrichedAppointment{
			Appointment: appt,
			State:       model.UnknownState,
			Email:       model.NoEmail,
		}

		if addr, ok := addressByUser[appt.UserID]; ok {
			if addr.State != "" {
				row.State = addr.State
			}
			row.Zip = addr.Zip
		} else {
			metrics.JoinMisses.WithLabelValues("address").Inc()
		}

		if user, ok := userByID[appt.UserID]; ok {
			if user.Email != "" {
				row.Email = user.Email
			}
			row.Registered = user.Registered
		} else {
			metrics.JoinMisses.WithLabelValues("user").Inc()
		}

		enriched = append(enriched, row)
	}

	return enriched
}
