package model

import "time"

// Appointment is a normalized appointment row. Scheduled is nil when the
// source timestamp failed to parse; such rows stay in the set but are
// excluded from temporal features.
type Appointment struct {
	ID         string
	UserID     string
	ProviderID string
	Scheduled  *time.Time
	Status     StatusCode
	Complaint  bool
	TotalFinal float64
}

// User is a normalized user row. Registered is nil when the source
// timestamp failed to parse.
type User struct {
	ID         string
	Registered *time.Time
	Email      string
}

// Address is a normalized address row. A user may have several rows;
// the joiner keeps the first seen. Latitude/Longitude are present only
// on mapped address rows.
type Address struct {
	UserID    string
	State     string
	Zip       string
	Latitude  *float64
	Longitude *float64
}
