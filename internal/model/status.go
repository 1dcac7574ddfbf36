package model

// StatusCode is the single-letter appointment status code used by the
// source system.
type StatusCode string

const (
	StatusNotAssigned StatusCode = "N"
	StatusAssigned    StatusCode = "D"
	StatusOnTheWay    StatusCode = "O"
	StatusInProgress  StatusCode = "W"
	StatusCancelled   StatusCode = "C"
	StatusCompleted   StatusCode = "S"
	StatusFailure     StatusCode = "F"
	StatusRejected    StatusCode = "R"
	StatusRescheduled StatusCode = "L"
	StatusPaid        StatusCode = "P"
)

var statusNames = map[StatusCode]string{
	StatusNotAssigned: "Not Assigned",
	StatusAssigned:    "Assigned",
	StatusOnTheWay:    "On-the-Way",
	StatusInProgress:  "In-Progress",
	StatusCancelled:   "Cancelled",
	StatusCompleted:   "Completed",
	StatusFailure:     "Failure",
	StatusRejected:    "Rejected",
	StatusRescheduled: "Rescheduled",
	StatusPaid:        "Paid",
}

// DisplayName returns the human-readable name for the status code.
// Unknown codes display as themselves so reports never lose rows.
func (s StatusCode) DisplayName() string {
	if name, ok := statusNames[s]; ok {
		return name
	}
	return string(s)
}
