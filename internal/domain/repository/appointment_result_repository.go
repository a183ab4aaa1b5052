package repository

import (
	"clinic-appointment-service/internal/domain/entity"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type AppointmentResultRepository interface {
	Create(db *gorm.DB, result *entity.AppointmentResult) error
	FindByAppointmentID(db *gorm.DB, appointmentID uuid.UUID) (*entity.AppointmentResult, error)
	Update(db *gorm.DB, result *entity.AppointmentResult) error
}
