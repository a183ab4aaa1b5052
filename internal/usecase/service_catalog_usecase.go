package usecase

import (
	"context"

	"clinic-appointment-service/internal/converter"
	"clinic-appointment-service/internal/delivery/dto"
	"clinic-appointment-service/internal/domain/repository"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// ServiceCatalogUsecase exposes read-only catalog lookups for the booking
// picker. Catalog management lives in an external system.
type ServiceCatalogUsecase interface {
	ListServices(ctx context.Context) (*dto.ServiceListResponse, error)
	GetService(ctx context.Context, serviceID uuid.UUID) (*dto.ServiceResponse, error)
}

type serviceCatalogUsecase struct {
	db          *gorm.DB
	log         *logrus.Logger
	serviceRepo repository.ServiceRepository
}

func NewServiceCatalogUsecase(db *gorm.DB, log *logrus.Logger, serviceRepo repository.ServiceRepository) ServiceCatalogUsecase {
	return &serviceCatalogUsecase{
		db:          db,
		log:         log,
		serviceRepo: serviceRepo,
	}
}

func (u *serviceCatalogUsecase) ListServices(ctx context.Context) (*dto.ServiceListResponse, error) {
	services, err := u.serviceRepo.FindAllActive(u.db.WithContext(ctx))
	if err != nil {
		u.log.Warnf("Failed to list services: %+v", err)
		return nil, err
	}

	return &dto.ServiceListResponse{
		Services: converter.ServicesToResponses(services),
		Total:    len(services),
	}, nil
}

func (u *serviceCatalogUsecase) GetService(ctx context.Context, serviceID uuid.UUID) (*dto.ServiceResponse, error) {
	service, err := u.serviceRepo.FindByID(u.db.WithContext(ctx), serviceID)
	if err != nil {
		u.log.Warnf("Failed to find service %s: %+v", serviceID, err)
		return nil, err
	}
	if service == nil {
		return nil, ErrServiceNotFound
	}

	return converter.ServiceToResponse(service), nil
}
