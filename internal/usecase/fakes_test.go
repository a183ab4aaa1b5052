package usecase

import (
	"context"
	"testing"
	"time"

	"clinic-appointment-service/internal/domain/entity"
	"clinic-appointment-service/internal/service"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/alicebob/miniredis/v2"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// newTestDB returns a gorm handle over a sqlmock connection. The fakes below
// never execute SQL against it; it only satisfies the usecase wiring.
func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	sqlDB, _, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { sqlDB.Close() })

	gdb, err := gorm.Open(postgres.New(postgres.Config{Conn: sqlDB}), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)
	return gdb
}

func newTestCache(t *testing.T) *service.AvailabilityCache {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })
	return service.NewAvailabilityCache(client, testLogger())
}

func testLogger() *logrus.Logger {
	log := logrus.New()
	log.SetLevel(logrus.PanicLevel)
	return log
}

type fakeAppointmentRepo struct {
	createFn          func(appointment *entity.Appointment) error
	findByIDFn        func(id uuid.UUID) (*entity.Appointment, error)
	findByUserIDFn    func(userID uuid.UUID) ([]entity.Appointment, error)
	findAllFn         func(filter *entity.AppointmentFilter) ([]entity.Appointment, error)
	findBookedSlotsFn func(date time.Time, statuses []entity.AppointmentStatus) ([]entity.TimeSlot, error)
	updateStatusFn    func(id uuid.UUID, from []entity.AppointmentStatus, to entity.AppointmentStatus) (int64, error)

	notes []string
}

func (f *fakeAppointmentRepo) Create(db *gorm.DB, appointment *entity.Appointment) error {
	if f.createFn != nil {
		return f.createFn(appointment)
	}
	return nil
}

func (f *fakeAppointmentRepo) FindByID(db *gorm.DB, id uuid.UUID) (*entity.Appointment, error) {
	if f.findByIDFn != nil {
		return f.findByIDFn(id)
	}
	return nil, nil
}

func (f *fakeAppointmentRepo) FindByUserID(db *gorm.DB, userID uuid.UUID) ([]entity.Appointment, error) {
	if f.findByUserIDFn != nil {
		return f.findByUserIDFn(userID)
	}
	return nil, nil
}

func (f *fakeAppointmentRepo) FindAll(db *gorm.DB, filter *entity.AppointmentFilter) ([]entity.Appointment, error) {
	if f.findAllFn != nil {
		return f.findAllFn(filter)
	}
	return nil, nil
}

func (f *fakeAppointmentRepo) FindBookedSlots(db *gorm.DB, date time.Time, statuses []entity.AppointmentStatus) ([]entity.TimeSlot, error) {
	if f.findBookedSlotsFn != nil {
		return f.findBookedSlotsFn(date, statuses)
	}
	return nil, nil
}

func (f *fakeAppointmentRepo) UpdateStatus(db *gorm.DB, id uuid.UUID, from []entity.AppointmentStatus, to entity.AppointmentStatus) (int64, error) {
	if f.updateStatusFn != nil {
		return f.updateStatusFn(id, from, to)
	}
	return 1, nil
}

func (f *fakeAppointmentRepo) AppendAdminNotes(db *gorm.DB, id uuid.UUID, note string) error {
	f.notes = append(f.notes, note)
	return nil
}

type fakeServiceRepo struct {
	services map[uuid.UUID]*entity.Service
}

func (f *fakeServiceRepo) FindByID(db *gorm.DB, id uuid.UUID) (*entity.Service, error) {
	return f.services[id], nil
}

func (f *fakeServiceRepo) FindBySlug(db *gorm.DB, slug string) (*entity.Service, error) {
	for _, svc := range f.services {
		if svc.Slug == slug {
			return svc, nil
		}
	}
	return nil, nil
}

func (f *fakeServiceRepo) FindAllActive(db *gorm.DB) ([]entity.Service, error) {
	var out []entity.Service
	for _, svc := range f.services {
		if svc.IsActive != nil && *svc.IsActive {
			out = append(out, *svc)
		}
	}
	return out, nil
}

type fakeUserRepo struct {
	users map[uuid.UUID]*entity.User
}

func (f *fakeUserRepo) FindByID(db *gorm.DB, id uuid.UUID) (*entity.User, error) {
	return f.users[id], nil
}

type fakeResultRepo struct {
	createFn func(result *entity.AppointmentResult) error
	found    *entity.AppointmentResult
	updated  *entity.AppointmentResult
}

func (f *fakeResultRepo) Create(db *gorm.DB, result *entity.AppointmentResult) error {
	if f.createFn != nil {
		return f.createFn(result)
	}
	return nil
}

func (f *fakeResultRepo) FindByAppointmentID(db *gorm.DB, appointmentID uuid.UUID) (*entity.AppointmentResult, error) {
	return f.found, nil
}

func (f *fakeResultRepo) Update(db *gorm.DB, result *entity.AppointmentResult) error {
	f.updated = result
	return nil
}

type fakeAuditService struct {
	actions []string
}

func (f *fakeAuditService) LogCreate(ctx context.Context, tx *gorm.DB, userID *uuid.UUID, action string, entityName string, entityID string, newValue interface{}) error {
	f.actions = append(f.actions, action)
	return nil
}

func (f *fakeAuditService) LogUpdate(ctx context.Context, tx *gorm.DB, userID *uuid.UUID, action string, entityName string, entityID string, oldValue, newValue interface{}) error {
	f.actions = append(f.actions, action)
	return nil
}

func boolPtr(b bool) *bool { return &b }

func activeService(name string) *entity.Service {
	return &entity.Service{
		ID:       uuid.New(),
		Name:     name,
		Slug:     name,
		IsActive: boolPtr(true),
	}
}
