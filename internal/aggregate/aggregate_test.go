package aggregate_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zipdash/appointment-analytics/internal/aggregate"
	"github.com/zipdash/appointment-analytics/internal/model"
)

func tsAt(t *testing.T, value string) *time.Time {
	t.Helper()
	ts, err := time.Parse("02-01-2006 15:04", value)
	require.NoError(t, err)
	return &ts
}

func fixtureRows(t *testing.T) []model.EnrichedAppointment {
	t.Helper()
	gap10 := 10
	gap30 := 30
	return []model.EnrichedAppointment{
		{
			Appointment: model.Appointment{ID: "1", UserID: "U1", ProviderID: "G1", Scheduled: tsAt(t, "01-03-2024 10:00"), Status: model.StatusCompleted, TotalFinal: 100},
			State:       "NY", Zip: "10001",
			DaysToAppointment: 5, DaysToAppointmentValid: true,
			AppointmentIndex: 1,
		},
		{
			Appointment: model.Appointment{ID: "2", UserID: "U1", ProviderID: "G1", Scheduled: tsAt(t, "11-03-2024 10:00"), Status: model.StatusPaid, TotalFinal: 80, Complaint: true},
			State:       "NY", Zip: "10001",
			DaysToAppointment: 15, DaysToAppointmentValid: true,
			AppointmentIndex: 2, DaysBetween: &gap10,
		},
		{
			Appointment: model.Appointment{ID: "3", UserID: "U2", ProviderID: "G2", Scheduled: tsAt(t, "20-04-2024 09:00"), Status: model.StatusCompleted, TotalFinal: 50},
			State:       "CA", Zip: "90210",
			AppointmentIndex: 1,
		},
		{
			Appointment: model.Appointment{ID: "4", UserID: "U2", ProviderID: "G2", Scheduled: tsAt(t, "20-05-2024 09:00"), Status: model.StatusCancelled},
			State:       "CA", Zip: "90210",
			AppointmentIndex: 2, DaysBetween: &gap30,
		},
	}
}

func TestByStatus(t *testing.T) {
	rows := fixtureRows(t)

	t.Run("counts per status, most frequent first", func(t *testing.T) {
		out := aggregate.ByStatus(rows, nil)
		require.Len(t, out, 3)
		assert.Equal(t, model.StatusCompleted, out[0].Status)
		assert.Equal(t, "Completed", out[0].StatusName)
		assert.Equal(t, 2, out[0].Count)
	})

	t.Run("date window restricts rows", func(t *testing.T) {
		f := aggregate.NewFilter().Between(
			*tsAt(t, "01-03-2024 00:00"), *tsAt(t, "31-03-2024 23:59"),
		)
		out := aggregate.ByStatus(rows, f)
		total := 0
		for _, row := range out {
			total += row.Count
		}
		assert.Equal(t, 2, total)
	})

	t.Run("empty filtered input yields empty table", func(t *testing.T) {
		f := aggregate.NewFilter().WithState("TX")
		out := aggregate.ByStatus(rows, f)
		assert.Empty(t, out)
	})
}

func TestByState(t *testing.T) {
	rows := fixtureRows(t)

	out := aggregate.ByState(rows, nil)
	require.Len(t, out, 2)

	// sorted by state
	ca, ny := out[0], out[1]
	assert.Equal(t, "CA", ca.State)
	assert.Equal(t, 1, ca.Users)
	assert.Equal(t, 2, ca.Appointments)
	assert.Equal(t, 50.0, ca.Revenue)
	assert.Equal(t, 0, ca.Complaints)

	assert.Equal(t, "NY", ny.State)
	assert.Equal(t, 1, ny.Users)
	assert.Equal(t, 180.0, ny.Revenue)
	assert.Equal(t, 1, ny.Complaints)
}

func TestByProvider(t *testing.T) {
	rows := fixtureRows(t)

	out := aggregate.ByProvider(rows, nil)
	require.Len(t, out, 2)
	assert.Equal(t, "G1", out[0].ProviderID)
	assert.Equal(t, "NY", out[0].State)
	assert.Equal(t, 2, out[0].Appointments)
	assert.Equal(t, 1, out[0].Complaints)
	assert.Equal(t, "G2", out[1].ProviderID)
}

func TestBySequenceIndex(t *testing.T) {
	rows := fixtureRows(t)

	out := aggregate.BySequenceIndex(rows, nil)
	require.Len(t, out, 2)

	first, second := out[0], out[1]
	assert.Equal(t, 1, first.Index)
	assert.Equal(t, 2, first.Appointments)
	assert.Equal(t, 0, first.GapCount, "index 1 has no gaps")
	assert.Zero(t, first.AvgGapDays)

	assert.Equal(t, 2, second.Index)
	assert.Equal(t, 2, second.Appointments)
	assert.Equal(t, 2, second.GapCount)
	assert.Equal(t, 20.0, second.AvgGapDays, "mean of gaps 10 and 30")
}

func TestByLifecycle(t *testing.T) {
	rows := fixtureRows(t)
	lifecycles := []model.UserLifecycle{
		{UserID: "U1", Status: model.LifecyclePotential},
		{UserID: "U2", Status: model.LifecycleLost},
		{UserID: "U3", Status: model.LifecyclePotential},
	}

	t.Run("counts per status", func(t *testing.T) {
		out := aggregate.ByLifecycle(lifecycles, rows, nil)
		require.Len(t, out, 2)
		assert.Equal(t, model.LifecyclePotential, out[0].Status)
		assert.Equal(t, 2, out[0].Users)
		assert.Equal(t, model.LifecycleLost, out[1].Status)
		assert.Equal(t, 1, out[1].Users)
	})

	t.Run("state filter keeps only users seen in that state", func(t *testing.T) {
		f := aggregate.NewFilter().WithState("NY")
		out := aggregate.ByLifecycle(lifecycles, rows, f)
		require.Len(t, out, 1)
		assert.Equal(t, model.LifecyclePotential, out[0].Status)
		assert.Equal(t, 1, out[0].Users)
	})

	t.Run("lifecycle filter keeps one label", func(t *testing.T) {
		f := aggregate.NewFilter().WithLifecycle(model.LifecycleLost)
		out := aggregate.ByLifecycle(lifecycles, rows, f)
		require.Len(t, out, 1)
		assert.Equal(t, model.LifecycleLost, out[0].Status)
	})

	t.Run("empty lifecycle set yields empty table", func(t *testing.T) {
		out := aggregate.ByLifecycle(nil, rows, nil)
		assert.Empty(t, out)
	})
}

func TestKPIs(t *testing.T) {
	rows := fixtureRows(t)

	t.Run("headline numbers", func(t *testing.T) {
		kpi := aggregate.KPIs(rows, nil)
		assert.Equal(t, 4, kpi.Appointments)
		assert.Equal(t, 2, kpi.Users)
		assert.Equal(t, 230.0, kpi.Revenue)
		assert.Equal(t, 10.0, kpi.AvgDaysToAppt, "mean over valid observations only")
	})

	t.Run("empty input is all zeros", func(t *testing.T) {
		kpi := aggregate.KPIs(nil, nil)
		assert.Zero(t, kpi.Appointments)
		assert.Zero(t, kpi.Users)
		assert.Zero(t, kpi.Revenue)
		assert.Zero(t, kpi.AvgDaysToAppt)
	})
}
