package repository

import (
	"clinic-appointment-service/internal/domain/entity"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ServiceRepository interface {
	FindByID(db *gorm.DB, id uuid.UUID) (*entity.Service, error)
	FindBySlug(db *gorm.DB, slug string) (*entity.Service, error)
	FindAllActive(db *gorm.DB) ([]entity.Service, error)
}
