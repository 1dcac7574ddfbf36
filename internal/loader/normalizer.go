// Package loader coerces raw appointment, user, and address row sets into
// the canonical model types. Identifier fields are trimmed to a single
// comparable representation, timestamps parse day-first with null on
// failure, and absent optional fields receive defaults so downstream
// arithmetic never sees missing values. Only a missing required column is
// fatal; individual bad values are coerced and counted.
package loader

import (
	"log/slog"
	"strconv"
	"strings"
	"time"

	"github.com/zipdash/appointment-analytics/internal/metrics"
	"github.com/zipdash/appointment-analytics/internal/model"
)

const (
	entityAppointment = "appointment"
	entityUser        = "user"
	entityAddress     = "address"
)

// NormalizeAppointments validates and coerces a raw appointment row set.
func NormalizeAppointments(rs RowSet, layout string) ([]model.Appointment, error) {
	if err := ValidateSchema(rs, entityAppointment, ColAppointmentID, ColUserID, ColProviderID, ColCreatedDate, ColStatus); err != nil {
		return nil, err
	}

	out := make([]model.Appointment, 0, len(rs.Rows))
	for _, row := range rs.Rows {
		out = append(out, model.Appointment{
			ID:         strings.TrimSpace(row[ColAppointmentID]),
			UserID:     strings.TrimSpace(row[ColUserID]),
			ProviderID: strings.TrimSpace(row[ColProviderID]),
			Scheduled:  parseTime(row[ColCreatedDate], layout, entityAppointment, ColCreatedDate),
			Status:     model.StatusCode(strings.TrimSpace(row[ColStatus])),
			Complaint:  parseComplaint(row[ColComplaint]),
			TotalFinal: parseMoney(row[ColTotalFinal], entityAppointment),
		})
	}
	metrics.RowsLoaded.WithLabelValues(entityAppointment).Add(float64(len(out)))
	return out, nil
}

// NormalizeUsers validates and coerces a raw user row set. A missing
// email column defaults every row to the neutral marker.
func NormalizeUsers(rs RowSet, layout string) ([]model.User, error) {
	if err := ValidateSchema(rs, entityUser, ColUserID, ColCreatedDate); err != nil {
		return nil, err
	}

	out := make([]model.User, 0, len(rs.Rows))
	for _, row := range rs.Rows {
		email := strings.TrimSpace(row[ColEmail])
		if email == "" {
			email = model.NoEmail
		}
		out = append(out, model.User{
			ID:         strings.TrimSpace(row[ColUserID]),
			Registered: parseTime(row[ColCreatedDate], layout, entityUser, ColCreatedDate),
			Email:      email,
		})
	}
	metrics.RowsLoaded.WithLabelValues(entityUser).Add(float64(len(out)))
	return out, nil
}

// NormalizeAddresses validates and coerces a raw address row set. Zip and
// coordinates are optional; they appear only on mapped address exports.
func NormalizeAddresses(rs RowSet) ([]model.Address, error) {
	if err := ValidateSchema(rs, entityAddress, ColUserID, ColState); err != nil {
		return nil, err
	}

	out := make([]model.Address, 0, len(rs.Rows))
	for _, row := range rs.Rows {
		out = append(out, model.Address{
			UserID:    strings.TrimSpace(row[ColUserID]),
			State:     strings.TrimSpace(row[ColState]),
			Zip:       strings.TrimSpace(row[ColZip]),
			Latitude:  parseCoord(row[ColLatitude], ColLatitude),
			Longitude: parseCoord(row[ColLongitude], ColLongitude),
		})
	}
	metrics.RowsLoaded.WithLabelValues(entityAddress).Add(float64(len(out)))
	return out, nil
}

func parseTime(value, layout, entity, field string) *time.Time {
	value = strings.TrimSpace(value)
	if value == "" {
		return nil
	}
	ts, err := time.Parse(layout, value)
	if err != nil {
		metrics.ParseFailures.WithLabelValues(entity, field).Inc()
		slog.Debug("timestamp coerced to null", slog.String("entity", entity), slog.String("field", field), slog.String("value", value))
		return nil
	}
	return &ts
}

func parseMoney(value, entity string) float64 {
	value = strings.TrimSpace(value)
	if value == "" {
		return 0
	}
	amount, err := strconv.ParseFloat(value, 64)
	if err != nil {
		metrics.ParseFailures.WithLabelValues(entity, ColTotalFinal).Inc()
		slog.Debug("amount coerced to zero", slog.String("entity", entity), slog.String("value", value))
		return 0
	}
	return amount
}

// parseComplaint maps the source's Yes/No flag; 1/true also count as set.
func parseComplaint(value string) bool {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "yes", "1", "true":
		return true
	}
	return false
}

func parseCoord(value, field string) *float64 {
	value = strings.TrimSpace(value)
	if value == "" {
		return nil
	}
	coord, err := strconv.ParseFloat(value, 64)
	if err != nil {
		metrics.ParseFailures.WithLabelValues(entityAddress, field).Inc()
		return nil
	}
	return &coord
}
