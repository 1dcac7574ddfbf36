package model

import "time"

// Neutral markers substituted on join misses so grouping never needs
// null handling downstream.
const (
	UnknownState = "Unknown"
	NoEmail      = "No Email"
)

// EnrichedAppointment is an appointment joined with its owner's address
// and registration attributes plus the derived temporal columns. There is
// exactly one enriched row per input appointment row.
type EnrichedAppointment struct {
	Appointment

	State      string
	Zip        string
	Email      string
	Registered *time.Time

	// DaysToAppointment is the whole-day distance from registration to
	// the scheduled time. It is meaningful only when
	// DaysToAppointmentValid is true: rows with a missing timestamp on
	// either side, or a negative distance, are masked out of the
	// feature's consumers without being dropped from the set.
	DaysToAppointment      int
	DaysToAppointmentValid bool

	// AppointmentIndex is the 1-based rank within the user's
	// chronologically sorted history. DaysBetween is the whole-day gap
	// to the previous appointment in that history, nil at index 1.
	AppointmentIndex int
	DaysBetween      *int
}
