package repository

import (
	"errors"

	"clinic-appointment-service/internal/domain/entity"
	domainRepo "clinic-appointment-service/internal/domain/repository"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type appointmentResultRepository struct{}

func NewAppointmentResultRepository() domainRepo.AppointmentResultRepository {
	return &appointmentResultRepository{}
}

// Create inserts the result. The unique index on appointment_id enforces the
// one-result-per-appointment invariant; a duplicate insert surfaces
// gorm.ErrDuplicatedKey.
func (r *appointmentResultRepository) Create(db *gorm.DB, result *entity.AppointmentResult) error {
	return db.Create(result).Error
}

func (r *appointmentResultRepository) FindByAppointmentID(db *gorm.DB, appointmentID uuid.UUID) (*entity.AppointmentResult, error) {
	var result entity.AppointmentResult
	err := db.Where("appointment_id = ?", appointmentID).First(&result).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &result, nil
}

func (r *appointmentResultRepository) Update(db *gorm.DB, result *entity.AppointmentResult) error {
	return db.Save(result).Error
}
