package usecase

import (
	"context"
	"testing"
	"time"

	"clinic-appointment-service/internal/delivery/dto"
	"clinic-appointment-service/internal/delivery/http/middleware"
	"clinic-appointment-service/internal/domain/entity"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type adminFixture struct {
	usecase         *appointmentAdminUsecase
	appointmentRepo *fakeAppointmentRepo
	audit           *fakeAuditService
	now             time.Time
}

func newAdminFixture(t *testing.T) *adminFixture {
	t.Helper()
	loc := bookingLocation(t)
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, loc)

	repo := &fakeAppointmentRepo{}
	audit := &fakeAuditService{}

	u := &appointmentAdminUsecase{
		db:                newTestDB(t),
		log:               testLogger(),
		appointmentRepo:   repo,
		availabilityCache: newTestCache(t),
		auditService:      audit,
		loc:               loc,
		now:               func() time.Time { return now },
	}

	return &adminFixture{
		usecase:         u,
		appointmentRepo: repo,
		audit:           audit,
		now:             now,
	}
}

func (f *adminFixture) stub(status entity.AppointmentStatus, date time.Time, slot entity.TimeSlot) {
	f.appointmentRepo.findByIDFn = func(id uuid.UUID) (*entity.Appointment, error) {
		return &entity.Appointment{
			ID:       id,
			Date:     date,
			TimeSlot: slot,
			Status:   status,
		}, nil
	}
}

func TestTransition(t *testing.T) {
	tests := []struct {
		name    string
		from    entity.AppointmentStatus
		to      string
		pastDue bool
		wantErr error
	}{
		{name: "confirm pending", from: entity.AppointmentStatusPending, to: "confirmed"},
		{name: "cancel pending", from: entity.AppointmentStatusPending, to: "cancelled"},
		{name: "complete confirmed", from: entity.AppointmentStatusConfirmed, to: "completed"},
		{name: "cancel confirmed", from: entity.AppointmentStatusConfirmed, to: "cancelled"},
		{name: "no-show after slot start", from: entity.AppointmentStatusConfirmed, to: "no_show", pastDue: true},
		{name: "no-show before slot start", from: entity.AppointmentStatusConfirmed, to: "no_show", wantErr: ErrAppointmentNotPastDue},
		{name: "complete pending skips confirmation", from: entity.AppointmentStatusPending, to: "completed", wantErr: ErrInvalidTransition},
		{name: "revive cancelled", from: entity.AppointmentStatusCancelled, to: "confirmed", wantErr: ErrInvalidTransition},
		{name: "reopen completed", from: entity.AppointmentStatusCompleted, to: "cancelled", wantErr: ErrInvalidTransition},
		{name: "unknown status", from: entity.AppointmentStatusPending, to: "rescheduled", wantErr: ErrInvalidStatus},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newAdminFixture(t)

			date := f.now.AddDate(0, 0, 1)
			if tt.pastDue {
				date = f.now.AddDate(0, 0, -1)
			}
			f.stub(tt.from, date, "10:00")

			_, err := f.usecase.Transition(context.Background(), uuid.New(),
				&dto.UpdateAppointmentStatusRequest{Status: tt.to})

			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				assert.Empty(t, f.audit.actions)
			} else {
				assert.NoError(t, err)
				assert.Len(t, f.audit.actions, 1)
			}
		})
	}
}

func TestTransitionLostRace(t *testing.T) {
	f := newAdminFixture(t)
	f.stub(entity.AppointmentStatusPending, f.now.AddDate(0, 0, 1), "10:00")
	f.appointmentRepo.updateStatusFn = func(id uuid.UUID, from []entity.AppointmentStatus, to entity.AppointmentStatus) (int64, error) {
		return 0, nil
	}

	_, err := f.usecase.Transition(context.Background(), uuid.New(),
		&dto.UpdateAppointmentStatusRequest{Status: "confirmed"})
	assert.ErrorIs(t, err, ErrInvalidTransition)
}

func TestTransitionUnknownAppointment(t *testing.T) {
	f := newAdminFixture(t)

	_, err := f.usecase.Transition(context.Background(), uuid.New(),
		&dto.UpdateAppointmentStatusRequest{Status: "confirmed"})
	assert.ErrorIs(t, err, ErrAppointmentNotFound)
}

func TestTransitionAppendsNotes(t *testing.T) {
	f := newAdminFixture(t)
	f.stub(entity.AppointmentStatusPending, f.now.AddDate(0, 0, 1), "10:00")

	staffID := uuid.New()
	ctx := context.WithValue(context.Background(), middleware.UserIDKey, staffID)

	_, err := f.usecase.Transition(ctx, uuid.New(),
		&dto.UpdateAppointmentStatusRequest{Status: "confirmed", Notes: "called the patient"})
	require.NoError(t, err)

	assert.Equal(t, []string{"called the patient"}, f.appointmentRepo.notes)
	assert.Equal(t, []string{entity.AuditActionAppointmentConfirm}, f.audit.actions)
}

func TestStaffCancelActiveAppointment(t *testing.T) {
	f := newAdminFixture(t)
	// Staff may cancel even after the slot started.
	f.stub(entity.AppointmentStatusConfirmed, f.now.AddDate(0, 0, -1), "10:00")

	err := f.usecase.Cancel(context.Background(), uuid.New(), "doctor unavailable")
	require.NoError(t, err)

	require.Len(t, f.appointmentRepo.notes, 1)
	assert.Equal(t, "Cancelled by staff. Reason: doctor unavailable", f.appointmentRepo.notes[0])
}

func TestStaffCancelTerminalAppointment(t *testing.T) {
	f := newAdminFixture(t)
	f.stub(entity.AppointmentStatusCompleted, f.now.AddDate(0, 0, -1), "10:00")
	f.appointmentRepo.updateStatusFn = func(id uuid.UUID, from []entity.AppointmentStatus, to entity.AppointmentStatus) (int64, error) {
		assert.NotContains(t, from, entity.AppointmentStatusCompleted)
		return 0, nil
	}

	err := f.usecase.Cancel(context.Background(), uuid.New(), "")
	assert.ErrorIs(t, err, ErrInvalidTransition)
}

func TestListAppointmentsPassesFilter(t *testing.T) {
	f := newAdminFixture(t)

	var got *entity.AppointmentFilter
	f.appointmentRepo.findAllFn = func(filter *entity.AppointmentFilter) ([]entity.Appointment, error) {
		got = filter
		return []entity.Appointment{
			{Status: entity.AppointmentStatusConfirmed},
			{Status: entity.AppointmentStatusConfirmed},
		}, nil
	}

	resp, err := f.usecase.ListAppointments(context.Background(), &dto.AppointmentFilterRequest{
		DateFrom: "2025-06-01",
		DateTo:   "2025-06-07",
		Status:   "confirmed",
	})
	require.NoError(t, err)
	require.NotNil(t, got)

	assert.Equal(t, "2025-06-01", got.DateFrom)
	assert.Equal(t, "confirmed", got.Status)
	assert.Equal(t, 2, resp.Total)
}
