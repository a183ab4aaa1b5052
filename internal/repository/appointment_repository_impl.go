package repository

import (
	"errors"
	"time"

	"clinic-appointment-service/internal/domain/entity"
	domainRepo "clinic-appointment-service/internal/domain/repository"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type appointmentRepository struct{}

func NewAppointmentRepository() domainRepo.AppointmentRepository {
	return &appointmentRepository{}
}

// Create inserts the appointment. The partial unique index on
// (date, time_slot) over active statuses is the authoritative conflict
// check: a losing concurrent insert surfaces gorm.ErrDuplicatedKey.
func (r *appointmentRepository) Create(db *gorm.DB, appointment *entity.Appointment) error {
	return db.Create(appointment).Error
}

func (r *appointmentRepository) FindByID(db *gorm.DB, id uuid.UUID) (*entity.Appointment, error) {
	var appointment entity.Appointment
	err := db.Preload("Service").Preload("Result").Where("id = ?", id).First(&appointment).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &appointment, nil
}

func (r *appointmentRepository) FindByUserID(db *gorm.DB, userID uuid.UUID) ([]entity.Appointment, error) {
	var appointments []entity.Appointment
	err := db.Preload("Service").
		Where("user_id = ?", userID).
		Order("date DESC, time_slot DESC").
		Find(&appointments).Error
	if err != nil {
		return nil, err
	}
	return appointments, nil
}

func (r *appointmentRepository) FindAll(db *gorm.DB, filter *entity.AppointmentFilter) ([]entity.Appointment, error) {
	query := db.Preload("Service")

	if filter != nil {
		if filter.DateFrom != "" {
			query = query.Where("date >= ?", filter.DateFrom)
		}
		if filter.DateTo != "" {
			query = query.Where("date <= ?", filter.DateTo)
		}
		if filter.Status != "" {
			query = query.Where("status = ?", filter.Status)
		}
		if filter.PatientName != "" {
			query = query.Where("patient_name ILIKE ?", "%"+filter.PatientName+"%")
		}
	}

	var appointments []entity.Appointment
	err := query.Order("date ASC, time_slot ASC").Find(&appointments).Error
	if err != nil {
		return nil, err
	}
	return appointments, nil
}

func (r *appointmentRepository) FindBookedSlots(db *gorm.DB, date time.Time, statuses []entity.AppointmentStatus) ([]entity.TimeSlot, error) {
	var slots []entity.TimeSlot
	err := db.Model(&entity.Appointment{}).
		Where("date = ? AND status IN ?", date.Format("2006-01-02"), statuses).
		Pluck("time_slot", &slots).Error
	if err != nil {
		return nil, err
	}
	return slots, nil
}

// UpdateStatus atomically moves the appointment to the target status ONLY if
// its current status is one of from. Returns affected rows: 1 = success,
// 0 = the appointment was concurrently moved out of from (prevents
// double-cancel and lost-transition races).
func (r *appointmentRepository) UpdateStatus(db *gorm.DB, id uuid.UUID, from []entity.AppointmentStatus, to entity.AppointmentStatus) (int64, error) {
	result := db.Model(&entity.Appointment{}).
		Where("id = ? AND status IN ?", id, from).
		Update("status", to)
	return result.RowsAffected, result.Error
}

func (r *appointmentRepository) AppendAdminNotes(db *gorm.DB, id uuid.UUID, note string) error {
	return db.Model(&entity.Appointment{}).
		Where("id = ?", id).
		Update("admin_notes", gorm.Expr("TRIM(admin_notes || E'\\n' || ?, E'\\n')", note)).Error
}
