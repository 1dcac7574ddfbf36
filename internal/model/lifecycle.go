package model

import "time"

// LifecycleStatus classifies a user's engagement recency.
type LifecycleStatus string

const (
	LifecycleNoAppointments LifecycleStatus = "No Appointments"
	LifecyclePotential      LifecycleStatus = "Potential"
	LifecycleInactive       LifecycleStatus = "Inactive (6 Months)"
	LifecycleLost           LifecycleStatus = "Lost"
	LifecycleRecurring      LifecycleStatus = "Recurring"
)

// UserLifecycle is the per-user recency record, recomputed on every run
// against the run's evaluation instant.
type UserLifecycle struct {
	UserID          string
	LastAppointment *time.Time
	// DaysSinceLast is nil when the user has no dated appointment.
	DaysSinceLast *int
	Status        LifecycleStatus
}
