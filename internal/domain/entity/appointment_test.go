package entity

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustLocation(t *testing.T) *time.Location {
	t.Helper()
	loc, err := time.LoadLocation("Europe/Moscow")
	require.NoError(t, err)
	return loc
}

func TestStatusCanTransitionTo(t *testing.T) {
	tests := []struct {
		from    AppointmentStatus
		to      AppointmentStatus
		allowed bool
	}{
		{AppointmentStatusPending, AppointmentStatusConfirmed, true},
		{AppointmentStatusPending, AppointmentStatusCancelled, true},
		{AppointmentStatusPending, AppointmentStatusCompleted, false},
		{AppointmentStatusPending, AppointmentStatusNoShow, false},
		{AppointmentStatusConfirmed, AppointmentStatusCompleted, true},
		{AppointmentStatusConfirmed, AppointmentStatusCancelled, true},
		{AppointmentStatusConfirmed, AppointmentStatusNoShow, true},
		{AppointmentStatusConfirmed, AppointmentStatusPending, false},
		{AppointmentStatusCompleted, AppointmentStatusCancelled, false},
		{AppointmentStatusCancelled, AppointmentStatusPending, false},
		{AppointmentStatusNoShow, AppointmentStatusConfirmed, false},
	}
	for _, tt := range tests {
		t.Run(string(tt.from)+"->"+string(tt.to), func(t *testing.T) {
			assert.Equal(t, tt.allowed, tt.from.CanTransitionTo(tt.to))
		})
	}
}

func TestStatusIsTerminal(t *testing.T) {
	assert.False(t, AppointmentStatusPending.IsTerminal())
	assert.False(t, AppointmentStatusConfirmed.IsTerminal())
	assert.True(t, AppointmentStatusCompleted.IsTerminal())
	assert.True(t, AppointmentStatusCancelled.IsTerminal())
	assert.True(t, AppointmentStatusNoShow.IsTerminal())
}

func TestStatusIsValid(t *testing.T) {
	assert.True(t, AppointmentStatusPending.IsValid())
	assert.True(t, AppointmentStatusNoShow.IsValid())
	assert.False(t, AppointmentStatus("archived").IsValid())
	assert.False(t, AppointmentStatus("").IsValid())
}

func TestAppointmentIsPastDue(t *testing.T) {
	loc := mustLocation(t)
	now := time.Date(2025, 6, 2, 12, 0, 0, 0, loc)

	tests := []struct {
		name    string
		date    time.Time
		slot    TimeSlot
		pastDue bool
	}{
		{"yesterday", time.Date(2025, 6, 1, 0, 0, 0, 0, loc), "10:00", true},
		{"earlier today", time.Date(2025, 6, 2, 0, 0, 0, 0, loc), "10:00", true},
		{"later today", time.Date(2025, 6, 2, 0, 0, 0, 0, loc), "14:00", false},
		{"exactly now", time.Date(2025, 6, 2, 0, 0, 0, 0, loc), "12:00", false},
		{"tomorrow", time.Date(2025, 6, 3, 0, 0, 0, 0, loc), "10:00", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a := &Appointment{Date: tt.date, TimeSlot: tt.slot, Status: AppointmentStatusPending}
			assert.Equal(t, tt.pastDue, a.IsPastDue(now, loc))
		})
	}
}

func TestAppointmentCanBeCancelled(t *testing.T) {
	loc := mustLocation(t)
	now := time.Date(2025, 6, 2, 12, 0, 0, 0, loc)
	future := time.Date(2025, 6, 4, 0, 0, 0, 0, loc)
	past := time.Date(2025, 6, 1, 0, 0, 0, 0, loc)

	tests := []struct {
		name     string
		date     time.Time
		status   AppointmentStatus
		cancelOK bool
	}{
		{"pending future", future, AppointmentStatusPending, true},
		{"confirmed future", future, AppointmentStatusConfirmed, true},
		{"completed future", future, AppointmentStatusCompleted, false},
		{"cancelled future", future, AppointmentStatusCancelled, false},
		{"no_show future", future, AppointmentStatusNoShow, false},
		{"pending but past due", past, AppointmentStatusPending, false},
		{"confirmed but past due", past, AppointmentStatusConfirmed, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a := &Appointment{Date: tt.date, TimeSlot: "10:00", Status: tt.status}
			assert.Equal(t, tt.cancelOK, a.CanBeCancelled(now, loc))
		})
	}
}

func TestAppointmentStatusColor(t *testing.T) {
	colors := map[AppointmentStatus]string{
		AppointmentStatusPending:   "warning",
		AppointmentStatusConfirmed: "success",
		AppointmentStatusCompleted: "info",
		AppointmentStatusCancelled: "danger",
		AppointmentStatusNoShow:    "secondary",
	}
	for status, want := range colors {
		a := &Appointment{Status: status}
		assert.Equal(t, want, a.StatusColor())
	}

	unknown := &Appointment{Status: AppointmentStatus("weird")}
	assert.Equal(t, "secondary", unknown.StatusColor())
}

func TestAppointmentIsActive(t *testing.T) {
	assert.True(t, (&Appointment{Status: AppointmentStatusPending}).IsActive())
	assert.True(t, (&Appointment{Status: AppointmentStatusConfirmed}).IsActive())
	assert.False(t, (&Appointment{Status: AppointmentStatusCompleted}).IsActive())
	assert.False(t, (&Appointment{Status: AppointmentStatusCancelled}).IsActive())
	assert.False(t, (&Appointment{Status: AppointmentStatusNoShow}).IsActive())
}
