// Package aggregate exposes the grouped summary tables the reporting
// layer renders. Every operation is a pure reader over the immutable
// pipeline result: concurrent calls are safe and an empty filtered input
// yields an empty table, never an error.
package aggregate

import (
	"time"

	"github.com/zipdash/appointment-analytics/internal/model"
)

// Filter restricts which enriched rows an aggregation sees. Zero values
// mean "no restriction"; predicates combine with AND.
type Filter struct {
	from      *time.Time
	to        *time.Time
	state     string
	status    model.StatusCode
	lifecycle model.LifecycleStatus
}

// NewFilter creates an unrestricted filter.
func NewFilter() *Filter {
	return &Filter{}
}

// Between restricts rows to a scheduled-time window, inclusive on both
// ends. Rows without a scheduled time never match a window.
func (f *Filter) Between(from, to time.Time) *Filter {
	f.from = &from
	f.to = &to
	return f
}

// WithState restricts rows to one state.
func (f *Filter) WithState(state string) *Filter {
	f.state = state
	return f
}

// WithStatus restricts rows to one appointment status code.
func (f *Filter) WithStatus(status model.StatusCode) *Filter {
	f.status = status
	return f
}

// WithLifecycle restricts lifecycle aggregations to one status label.
func (f *Filter) WithLifecycle(status model.LifecycleStatus) *Filter {
	f.lifecycle = status
	return f
}

// Apply returns the rows the filter admits, input order preserved. A
// nil filter admits everything.
func (f *Filter) Apply(rows []model.EnrichedAppointment) []model.EnrichedAppointment {
	return filtered(rows, f)
}

// LifecycleMatches reports whether a lifecycle status passes the
// filter's lifecycle restriction.
func (f *Filter) LifecycleMatches(status model.LifecycleStatus) bool {
	return f.matchesLifecycle(status)
}

func (f *Filter) matches(row model.EnrichedAppointment) bool {
	if f == nil {
		return true
	}
	if f.from != nil {
		if row.Scheduled == nil || row.Scheduled.Before(*f.from) {
			return false
		}
	}
	if f.to != nil {
		if row.Scheduled == nil || row.Scheduled.After(*f.to) {
			return false
		}
	}
	if f.state != "" && row.State != f.state {
		return false
	}
	if f.status != "" && row.Status != f.status {
		return false
	}
	return true
}

func (f *Filter) matchesLifecycle(status model.LifecycleStatus) bool {
	if f == nil || f.lifecycle == "" {
		return true
	}
	return status == f.lifecycle
}

func filtered(rows []model.EnrichedAppointment, f *Filter) []model.EnrichedAppointment {
	out := make([]model.EnrichedAppointment, 0, len(rows))
	for _, row := range rows {
		if f.matches(row) {
			out = append(out, row)
		}
	}
	return out
}
