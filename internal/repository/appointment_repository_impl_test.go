package repository

import (
	"testing"
	"time"

	"clinic-appointment-service/internal/domain/entity"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

func newMockDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock) {
	t.Helper()
	sqlDB, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	t.Cleanup(func() { sqlDB.Close() })

	gdb, err := gorm.Open(postgres.New(postgres.Config{Conn: sqlDB}), &gorm.Config{
		TranslateError: true,
		Logger:         gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)
	return gdb, mock
}

func TestCreateTranslatesUniqueViolation(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewAppointmentRepository()

	mock.ExpectBegin()
	mock.ExpectQuery(`INSERT INTO "appointments"`).
		WillReturnError(&pgconn.PgError{Code: "23505", ConstraintName: "uq_appointments_active_slot"})
	mock.ExpectRollback()

	err := repo.Create(db, &entity.Appointment{
		ServiceID:   uuid.New(),
		Date:        time.Date(2025, 6, 2, 0, 0, 0, 0, time.UTC),
		TimeSlot:    "10:00",
		Status:      entity.AppointmentStatusPending,
		PatientName: "Anna Petrova",
	})

	assert.ErrorIs(t, err, gorm.ErrDuplicatedKey)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUpdateStatusGuardedByCurrentStatus(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewAppointmentRepository()
	id := uuid.New()

	mock.ExpectBegin()
	mock.ExpectExec(`UPDATE "appointments" SET .*"status".* WHERE id = .* AND status IN`).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	affected, err := repo.UpdateStatus(db, id,
		entity.ActiveStatuses, entity.AppointmentStatusCancelled)
	require.NoError(t, err)
	assert.Equal(t, int64(1), affected)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUpdateStatusReportsLostRace(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewAppointmentRepository()

	mock.ExpectBegin()
	mock.ExpectExec(`UPDATE "appointments"`).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectCommit()

	affected, err := repo.UpdateStatus(db, uuid.New(),
		[]entity.AppointmentStatus{entity.AppointmentStatusPending}, entity.AppointmentStatusConfirmed)
	require.NoError(t, err)
	assert.Equal(t, int64(0), affected)
}

func TestFindBookedSlotsFiltersActiveStatuses(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewAppointmentRepository()

	rows := sqlmock.NewRows([]string{"time_slot"}).
		AddRow("10:00").
		AddRow("15:30")
	mock.ExpectQuery(`SELECT "time_slot" FROM "appointments" WHERE date = .* AND status IN`).
		WillReturnRows(rows)

	slots, err := repo.FindBookedSlots(db,
		time.Date(2025, 6, 2, 0, 0, 0, 0, time.UTC), entity.ActiveStatuses)
	require.NoError(t, err)

	assert.Equal(t, []entity.TimeSlot{"10:00", "15:30"}, slots)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestFindByIDNotFoundReturnsNil(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewAppointmentRepository()

	mock.ExpectQuery(`SELECT \* FROM "appointments"`).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	appointment, err := repo.FindByID(db, uuid.New())
	require.NoError(t, err)
	assert.Nil(t, appointment)
}

func TestAppendAdminNotesConcatenates(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewAppointmentRepository()

	mock.ExpectBegin()
	mock.ExpectExec(`UPDATE "appointments" SET "admin_notes"=TRIM\(admin_notes`).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	err := repo.AppendAdminNotes(db, uuid.New(), "Cancelled by patient. Reason: schedule conflict")
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}
